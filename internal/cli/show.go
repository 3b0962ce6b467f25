package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inventory/internal/render"
	"github.com/mesh-intelligence/inventory/internal/sqlite"
	"github.com/mesh-intelligence/inventory/pkg/types"
)

// placementView describes where an item is.
type placementView struct {
	Kind      string `json:"kind"`
	Container string `json:"container,omitempty"`
	Slot      string `json:"slot,omitempty"`
}

// showView is the JSON form of the show command.
type showView struct {
	Key       string        `json:"key"`
	Placement placementView `json:"placement"`
	Item      *render.Node  `json:"item"`
	History   []sqlite.Row  `json:"history"`
}

func describePlacement(it *types.Item) placementView {
	p := it.Placement()
	v := placementView{Kind: p.Kind()}
	if c := p.Container(); c != nil {
		v.Container = c.Label()
	}
	if s := p.Slot(); s != nil {
		v.Slot = s.Path()
	}
	return v
}

func (v placementView) String() string {
	switch {
	case v.Slot != "":
		return "installed in " + v.Slot
	case v.Container != "":
		return "in " + v.Container
	default:
		return "unplaced"
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <key>",
		Short: "Display one item with its placement and history",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load()
			if err != nil {
				return err
			}
			it, err := s.item(args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, showView{
					Key:       args[0],
					Placement: describePlacement(it),
					Item:      render.Tree(it),
					History:   historyRows(it.History()),
				})
			}
			if err := printShow(out, it, dumpIndent(a.cfg)); err != nil {
				return sysError(err)
			}
			return nil
		},
	}
}

func printShow(w io.Writer, it *types.Item, indent string) error {
	fits := it.FitsInto().String()
	if _, err := fmt.Fprintf(w, "id:        %s\nplacement: %s\nfits into: %s\n\n",
		it.ID(), describePlacement(it), fits); err != nil {
		return err
	}
	if err := render.Dump(w, it, render.Options{Indent: indent}); err != nil {
		return err
	}
	history := it.History()
	if len(history) == 0 {
		return nil
	}
	if _, err := fmt.Fprintln(w, "\nhistory:"); err != nil {
		return err
	}
	for _, e := range history {
		if _, err := fmt.Fprintf(w, "%s%s\n", indent, e); err != nil {
			return err
		}
	}
	return nil
}
