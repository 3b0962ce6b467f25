package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inventory/internal/sqlite"
	"github.com/mesh-intelligence/inventory/pkg/types"
)

func historyRows(entries []types.HistoryEntry) []sqlite.Row {
	rows := make([]sqlite.Row, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, sqlite.RowFromEntry(e))
	}
	return rows
}

func newHistoryCmd(a *app) *cobra.Command {
	var slotName string
	cmd := &cobra.Command{
		Use:   "history [key]",
		Short: "Print install history",
		Long: "Print every install and remove attempt in record order. With a key,\n" +
			"only that item's history; with --slot, the history of one of its slots.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if slotName != "" && len(args) == 0 {
				return fmt.Errorf("--slot needs the key of the item owning the slot")
			}
			s, err := a.load()
			if err != nil {
				return err
			}

			entries := s.inv.History()
			if len(args) == 1 {
				it, err := s.item(args[0])
				if err != nil {
					return err
				}
				entries = it.History()
				if slotName != "" {
					slot, err := it.Slot(slotName)
					if err != nil {
						return err
					}
					entries = slot.History()
				}
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, historyRows(entries))
			}
			for _, e := range entries {
				fmt.Fprintln(out, e)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&slotName, "slot", "", "slot name on the item")
	return cmd
}
