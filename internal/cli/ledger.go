package cli

import (
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/inventory/internal/sqlite"
	"github.com/mesh-intelligence/inventory/pkg/types"
)

func newLedgerCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ledger",
		Short: "Record install history in SQLite and query or export it",
	}
	cmd.AddCommand(newLedgerExportCmd(a))
	cmd.AddCommand(newLedgerQueryCmd(a))
	return cmd
}

func addFilterFlags(cmd *cobra.Command, f *sqlite.Filter, action *string) {
	cmd.Flags().StringVar(&f.Item, "item", "", "item name or ID")
	cmd.Flags().StringVar(&f.Slot, "slot", "", "slot path (owner.slot) or slot name")
	cmd.Flags().StringVar(action, "action", "", "install outcome, e.g. \"Slot occupied\"")
}

// openLedger builds the inventory, attaches the ledger in the data directory
// and records the full history into it. The caller must Detach.
func (a *app) openLedger() (*sqlite.Ledger, string, error) {
	s, err := a.load()
	if err != nil {
		return nil, "", err
	}
	dataDir, err := a.dataDir()
	if err != nil {
		return nil, "", sysError(err)
	}

	l := sqlite.NewLedger(a.logger.Named("ledger"))
	if err := l.Attach(dataDir); err != nil {
		return nil, "", sysError(err)
	}
	if _, err := l.Record(s.inv.History()); err != nil {
		l.Detach()
		return nil, "", sysError(err)
	}
	return l, dataDir, nil
}

func newLedgerExportCmd(a *app) *cobra.Command {
	var (
		filter sqlite.Filter
		action string
		out    string
	)
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write the history as JSONL",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Action = types.InstallAction(action)
			if err := filter.Validate(); err != nil {
				return err
			}
			l, dataDir, err := a.openLedger()
			if err != nil {
				return err
			}
			defer l.Detach()

			path := out
			if path == "" {
				path = filepath.Join(dataDir, sqlite.ExportFile)
			}
			n, err := l.ExportJSONL(path, filter)
			if err != nil {
				return sysError(err)
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]any{
					"path":    path,
					"entries": n,
					"ledger":  l.Path(),
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "exported %d entries to %s\n", n, path)
			return nil
		},
	}
	addFilterFlags(cmd, &filter, &action)
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default: <data-dir>/history.jsonl)")
	return cmd
}

func newLedgerQueryCmd(a *app) *cobra.Command {
	var (
		filter sqlite.Filter
		action string
	)
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Print recorded history matching the filters",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter.Action = types.InstallAction(action)
			if err := filter.Validate(); err != nil {
				return err
			}
			l, _, err := a.openLedger()
			if err != nil {
				return err
			}
			defer l.Detach()

			rows, err := l.Query(filter)
			if err != nil {
				return sysError(err)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				if rows == nil {
					rows = []sqlite.Row{}
				}
				return writeJSON(out, rows)
			}
			for _, r := range rows {
				fmt.Fprintln(out, r)
			}
			return nil
		},
	}
	addFilterFlags(cmd, &filter, &action)
	return cmd
}
