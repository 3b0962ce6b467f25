package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"

	"github.com/mesh-intelligence/inventory/internal/logging"
	"github.com/mesh-intelligence/inventory/internal/render"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"
	envPrefix      = "INVENTORY"

	cfgKeyManifest       = "manifest"
	cfgKeyDataDir        = "data_dir"
	cfgKeyIndent         = "indent"
	cfgKeyLogLevel       = "log_level"
	cfgKeyLogDevelopment = "log_development"
)

// defaultConfigYAML is written to config.yaml on first run.
const defaultConfigYAML = `# inventory configuration

# Manifest describing the inventory (default: inventory.yaml next to this file)
# manifest:

# Directory holding the history ledger (default: $(CWD)/.inventory)
# data_dir:

# Spaces per dump level
indent: 3

# debug, info, warn or error
log_level: warn
log_development: false
`

// envKeys are the config keys INVENTORY_* variables override. The manifest
// and data_dir keys are left out: paths resolves their variables after the
// config value.
var envKeys = []string{cfgKeyIndent, cfgKeyLogLevel, cfgKeyLogDevelopment}

// loadConfig reads config.yaml from configDir, creating the directory and a
// default file on first run.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}
	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyIndent, len(render.DefaultIndent))
	v.SetDefault(cfgKeyLogLevel, logging.DefaultConfig().Level)
	v.SetDefault(cfgKeyLogDevelopment, false)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)
	v.SetEnvPrefix(envPrefix)
	for _, key := range envKeys {
		if err := v.BindEnv(key); err != nil {
			return nil, fmt.Errorf("bind %s: %w", key, err)
		}
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}
	return v, nil
}

// ensureDefaultConfigFile writes defaultConfigYAML unless config.yaml exists.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}
	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}

// loggingConfig maps config keys onto the logger configuration.
func loggingConfig(v *viper.Viper) logging.Config {
	cfg := logging.DefaultConfig()
	cfg.Level = v.GetString(cfgKeyLogLevel)
	cfg.Development = v.GetBool(cfgKeyLogDevelopment)
	return cfg
}

// dumpIndent returns the indent unit configured for dumps.
func dumpIndent(v *viper.Viper) string {
	n := v.GetInt(cfgKeyIndent)
	if n <= 0 {
		return render.DefaultIndent
	}
	return strings.Repeat(" ", n)
}
