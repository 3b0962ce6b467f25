package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/inventory/internal/manifest"
)

// starterManifest is written by init when --demo is not given.
const starterManifest = `# inventory manifest
slot_types: []

specs: {}

items: []

events: []
`

func newInitCmd(a *app) *cobra.Command {
	var demo bool
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the configuration, data directory and a manifest",
		Long: "Create config.yaml, the ledger directory and, unless one exists,\n" +
			"a manifest. With --demo the manifest is a populated sample.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			dataDir, err := a.dataDir()
			if err != nil {
				return sysError(err)
			}
			if err := os.MkdirAll(dataDir, 0o755); err != nil {
				return sysError(fmt.Errorf("create data directory: %w", err))
			}

			path, err := a.manifestPath()
			if err != nil {
				return sysError(err)
			}
			created, err := writeIfMissing(path, manifestContent(demo))
			if err != nil {
				return sysError(fmt.Errorf("write manifest: %w", err))
			}
			a.logger.Info("initialized",
				zap.String("config_dir", a.configDir),
				zap.String("data_dir", dataDir),
				zap.String("manifest", path),
				zap.Bool("manifest_created", created),
			)

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, map[string]any{
					"config_dir":       a.configDir,
					"data_dir":         dataDir,
					"manifest":         path,
					"manifest_created": created,
				})
			}
			fmt.Fprintf(out, "config:   %s\n", filepath.Join(a.configDir, configFileExt))
			fmt.Fprintf(out, "data:     %s\n", dataDir)
			if created {
				fmt.Fprintf(out, "manifest: %s (created)\n", path)
			} else {
				fmt.Fprintf(out, "manifest: %s (kept)\n", path)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&demo, "demo", false, "write the sample household manifest")
	return cmd
}

func manifestContent(demo bool) []byte {
	if demo {
		return manifest.Demo
	}
	return []byte(starterManifest)
}

// writeIfMissing creates path with data unless it already exists.
func writeIfMissing(path string, data []byte) (bool, error) {
	if _, err := os.Stat(path); err == nil {
		return false, nil
	} else if !os.IsNotExist(err) {
		return false, err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return false, err
	}
	return true, nil
}
