// Package paths resolves the configuration directory, the data directory
// holding the history ledger, and the manifest file.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// Directory and file names.
const (
	AppName             = "inventory"
	DefaultDataDirName  = ".inventory"
	DefaultManifestName = "inventory.yaml"
)

// Environment variable names for overrides.
const (
	EnvConfigDir = "INVENTORY_CONFIG_DIR"
	EnvDataDir   = "INVENTORY_DATA_DIR"
	EnvManifest  = "INVENTORY_MANIFEST"
)

// platformDir holds platform-detection functions that can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// DefaultConfigDir returns the platform-specific configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/inventory (fallback ~/.config/inventory)
// macOS:   ~/Library/Application Support/inventory
// Windows: %APPDATA%/inventory
func DefaultConfigDir() (string, error) {
	return platformPath("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform-specific data directory.
//
// Linux:   $XDG_DATA_HOME/inventory (fallback ~/.local/share/inventory)
// macOS and Windows share the configuration directory.
func DefaultDataDir() (string, error) {
	return platformPath("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// platformPath applies the XDG convention on Linux and os.UserConfigDir
// elsewhere.
func platformPath(xdgVar, homeFallback string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, homeFallback, AppName), nil
}

// firstAbs returns the first non-empty candidate as an absolute path.
func firstAbs(candidates ...string) (string, bool, error) {
	for _, c := range candidates {
		if c == "" {
			continue
		}
		p, err := filepath.Abs(c)
		return p, true, err
	}
	return "", false, nil
}

// ResolveConfigDir follows flag > INVENTORY_CONFIG_DIR > DefaultConfigDir().
func ResolveConfigDir(flag string) (string, error) {
	if p, ok, err := firstAbs(flag, os.Getenv(EnvConfigDir)); ok {
		return p, err
	}
	return DefaultConfigDir()
}

// ResolveDataDir follows flag > config value > INVENTORY_DATA_DIR >
// $(CWD)/.inventory.
func ResolveDataDir(flag, configValue string) (string, error) {
	if p, ok, err := firstAbs(flag, configValue, os.Getenv(EnvDataDir)); ok {
		return p, err
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", err
	}
	return filepath.Join(cwd, DefaultDataDirName), nil
}

// ResolveManifest follows flag > config value > INVENTORY_MANIFEST >
// <configDir>/inventory.yaml.
func ResolveManifest(flag, configValue, configDir string) (string, error) {
	if p, ok, err := firstAbs(flag, configValue, os.Getenv(EnvManifest)); ok {
		return p, err
	}
	return filepath.Join(configDir, DefaultManifestName), nil
}
