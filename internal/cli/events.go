package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inventory/internal/manifest"
)

// eventView is the JSON form of one replayed event.
type eventView struct {
	Index   int    `json:"index"`
	Op      string `json:"op"`
	Item    string `json:"item"`
	Into    string `json:"into,omitempty"`
	Slot    string `json:"slot,omitempty"`
	Date    string `json:"date,omitempty"`
	Outcome string `json:"outcome"`
}

func newEventView(i int, o manifest.Outcome) eventView {
	v := eventView{
		Index:   i + 1,
		Item:    o.Item.Name(),
		Into:    o.Event.Into,
		Slot:    o.Event.Slot,
		Date:    o.Event.Date,
		Outcome: string(o.Action),
	}
	switch {
	case o.Event.Install != "":
		v.Op = "install"
	case o.Event.Remove != "":
		v.Op = "remove"
	default:
		v.Op = "move"
		v.Outcome = "Moved"
	}
	return v
}

func (v eventView) String() string {
	target := v.Into
	if v.Slot != "" {
		target += "." + v.Slot
	}
	if target == "" {
		target = "-"
	}
	date := v.Date
	if date == "" {
		date = "-"
	}
	return fmt.Sprintf("%d %s %s %s -> %s: %s", v.Index, date, v.Op, v.Item, target, v.Outcome)
}

func newEventsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "events",
		Short: "Replay the manifest's events and print each outcome",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load()
			if err != nil {
				return err
			}
			views := make([]eventView, 0, len(s.outcomes))
			for i, o := range s.outcomes {
				views = append(views, newEventView(i, o))
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, views)
			}
			fmt.Fprintf(out, "%s: %d events\n", s.path, len(views))
			for _, v := range views {
				fmt.Fprintln(out, v)
			}
			return nil
		},
	}
}
