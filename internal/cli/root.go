// Package cli implements the inventory command-line interface. Every command
// builds the inventory from the manifest, replays its events, and then
// reports on the result; nothing is written back to the manifest.
package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/inventory/internal/logging"
	"github.com/mesh-intelligence/inventory/internal/manifest"
	"github.com/mesh-intelligence/inventory/internal/paths"
	"github.com/mesh-intelligence/inventory/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values.
type rootFlags struct {
	configDir string
	dataDir   string
	manifest  string
	jsonMode  bool
}

// app is the state shared by one command invocation.
type app struct {
	flags     rootFlags
	configDir string
	cfg       *viper.Viper
	logger    *zap.Logger
}

// session is a built inventory with the outcome of each replayed event.
type session struct {
	path     string
	inv      *types.Inventory
	outcomes []manifest.Outcome
}

// NewRootCmd creates the top-level "inventory" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: logging.NewNop()}

	root := &cobra.Command{
		Use:   "inventory",
		Short: "Track items, what they contain, and what is plugged into what",
		Long: "inventory builds a tree of items from a YAML manifest: containers,\n" +
			"typed slots, installed devices and their install history.",
		Version:           Version,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "ledger directory (default: $(CWD)/.inventory)")
	root.PersistentFlags().StringVar(&a.flags.manifest, "manifest", "", "inventory manifest (default: <config-dir>/inventory.yaml)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")

	root.AddCommand(newVersionCmd(a))
	root.AddCommand(newInitCmd(a))
	root.AddCommand(newDumpCmd(a))
	root.AddCommand(newShowCmd(a))
	root.AddCommand(newHistoryCmd(a))
	root.AddCommand(newEventsCmd(a))
	root.AddCommand(newSpecsCmd(a))
	root.AddCommand(newNewCmd(a))
	root.AddCommand(newLedgerCmd(a))

	return root
}

// Execute runs the root command with os.Args and returns the exit code.
func Execute() int {
	return run(NewRootCmd(), os.Args[1:], os.Stdout, os.Stderr)
}

func run(root *cobra.Command, args []string, stdout, stderr io.Writer) int {
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	if err := root.Execute(); err != nil {
		fmt.Fprintln(stderr, "inventory:", err)
		return exitCode(err)
	}
	return exitSuccess
}

// setup resolves the config directory, loads config.yaml and builds the
// logger. The version command needs none of it.
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if cmd.Name() == "version" {
		return nil
	}

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return sysError(fmt.Errorf("resolve config dir: %w", err))
	}
	cfg, err := loadConfig(configDir)
	if err != nil {
		return sysError(err)
	}
	logger, err := logging.New(loggingConfig(cfg))
	if err != nil {
		return fmt.Errorf("%s: %w", cfgKeyLogLevel, err)
	}

	a.configDir = configDir
	a.cfg = cfg
	a.logger = logger.Named("inventory")
	a.logger.Debug("configuration loaded",
		zap.String("config_dir", configDir),
		zap.String("config_file", cfg.ConfigFileUsed()),
	)
	return nil
}

func (a *app) manifestPath() (string, error) {
	return paths.ResolveManifest(a.flags.manifest, a.cfg.GetString(cfgKeyManifest), a.configDir)
}

func (a *app) dataDir() (string, error) {
	return paths.ResolveDataDir(a.flags.dataDir, a.cfg.GetString(cfgKeyDataDir))
}

// load builds the inventory from the manifest and replays its events.
func (a *app) load() (*session, error) {
	path, err := a.manifestPath()
	if err != nil {
		return nil, sysError(err)
	}
	m, err := manifest.LoadFile(path)
	if err != nil {
		return nil, err
	}
	inv, err := m.Build(a.logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	outcomes, err := m.Apply(inv, a.logger)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return &session{path: path, inv: inv, outcomes: outcomes}, nil
}

func (s *session) item(key string) (*types.Item, error) {
	return s.inv.Item(key)
}

// systemError marks failures of the environment rather than of the input.
type systemError struct{ err error }

func (e *systemError) Error() string { return e.err.Error() }
func (e *systemError) Unwrap() error { return e.err }

func sysError(err error) error {
	if err == nil {
		return nil
	}
	return &systemError{err: err}
}

// exitCode maps an error to the process exit code.
func exitCode(err error) int {
	var se *systemError
	if errors.As(err, &se) {
		return exitSysError
	}
	return exitUserError
}
