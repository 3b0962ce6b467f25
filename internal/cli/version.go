package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// Version is the inventory release.
const Version = "0.1.0"

const modulePath = "github.com/mesh-intelligence/inventory"

func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the inventory version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), map[string]string{
					"version": Version,
					"module":  modulePath,
				})
			}
			fmt.Fprintf(cmd.OutOrStdout(), "inventory v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
