package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inventory/internal/render"
	"github.com/mesh-intelligence/inventory/pkg/types"
)

func newDumpCmd(a *app) *cobra.Command {
	var (
		asYAML    bool
		hideAttrs bool
	)
	cmd := &cobra.Command{
		Use:   "dump [key...]",
		Short: "Print the item tree",
		Long: "Print each item with its attributes, contents and slots. Without keys\n" +
			"every top-level item is printed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := a.load()
			if err != nil {
				return err
			}

			roots := s.inv.Roots()
			if len(args) > 0 {
				roots = nil
				for _, key := range args {
					it, err := s.item(key)
					if err != nil {
						return err
					}
					roots = append(roots, it)
				}
			}

			out := cmd.OutOrStdout()
			switch {
			case a.flags.jsonMode:
				return writeJSON(out, trees(roots))
			case asYAML:
				return writeYAML(out, trees(roots))
			}

			opts := render.Options{Indent: dumpIndent(a.cfg), HideAttributes: hideAttrs}
			for _, root := range roots {
				if err := render.Dump(out, root, opts); err != nil {
					return sysError(fmt.Errorf("write dump: %w", err))
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "output the tree as YAML")
	cmd.Flags().BoolVar(&hideAttrs, "no-attributes", false, "omit attribute lines")
	return cmd
}

func trees(roots []*types.Item) []*render.Node {
	out := make([]*render.Node, 0, len(roots))
	for _, r := range roots {
		out = append(out, render.Tree(r))
	}
	return out
}
