package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/mesh-intelligence/inventory/internal/manifest"
	"github.com/mesh-intelligence/inventory/internal/paths"
	"github.com/mesh-intelligence/inventory/internal/render"
	"github.com/mesh-intelligence/inventory/internal/sqlite"
	"github.com/mesh-intelligence/inventory/pkg/types"
)

// env is an isolated config dir, data dir and demo manifest.
type env struct {
	configDir string
	dataDir   string
	manifest  string
}

func newEnv(t *testing.T) env {
	t.Helper()
	for _, k := range []string{paths.EnvConfigDir, paths.EnvDataDir, paths.EnvManifest,
		"INVENTORY_INDENT", "INVENTORY_LOG_LEVEL", "INVENTORY_LOG_DEVELOPMENT"} {
		t.Setenv(k, "")
	}
	root := t.TempDir()
	e := env{
		configDir: filepath.Join(root, "config"),
		dataDir:   filepath.Join(root, "data"),
		manifest:  filepath.Join(root, "inventory.yaml"),
	}
	require.NoError(t, os.WriteFile(e.manifest, manifest.Demo, 0o644))
	return e
}

// exec runs the CLI and returns exit code, stdout and stderr.
func (e env) exec(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	full := append([]string{"--config-dir", e.configDir, "--data-dir", e.dataDir, "--manifest", e.manifest}, args...)
	code := run(NewRootCmd(), full, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestVersion(t *testing.T) {
	e := newEnv(t)
	code, out, _ := e.exec("version")
	assert.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "inventory v"+Version)

	code, out, _ = e.exec("--json", "version")
	require.Equal(t, exitSuccess, code)
	var v map[string]string
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, modulePath, v["module"])
}

func TestSetupWritesDefaultConfig(t *testing.T) {
	e := newEnv(t)
	code, _, stderr := e.exec("specs")
	require.Equal(t, exitSuccess, code, stderr)

	data, err := os.ReadFile(filepath.Join(e.configDir, configFileExt))
	require.NoError(t, err)
	assert.Equal(t, defaultConfigYAML, string(data))
}

func TestConfigIndent(t *testing.T) {
	e := newEnv(t)
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt), []byte("indent: 1\n"), 0o644))

	code, out, stderr := e.exec("dump", "--no-attributes", "toolbox2")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Equal(t, "Small toolbox\n", out)

	code, out, stderr = e.exec("dump", "--no-attributes", "family")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Equal(t, strings.Join([]string{
		"Family room",
		" 4 drawer cabinet",
		"  256G SSD (WD WSFDS 222YY)",
		"   Expensive licence file",
		"   LibreOffice",
		"   MS Word",
		"   Ubuntu 18.10 LTS",
		"",
	}, "\n"), out)
}

func TestDumpAfterEvents(t *testing.T) {
	e := newEnv(t)
	code, out, stderr := e.exec("dump", "usbh1")
	require.Equal(t, exitSuccess, code, stderr)

	want := strings.Join([]string{
		"Black USB hub",
		"   usb1 (USB-A)",
		"      <empty>",
		"   usb2 (USB-A)",
		"      <empty>",
		"   usb3 (USB-A)",
		"      Yubikey_1 (Yubico Yubikey 5 <unknown>)",
		"         * manufacturer: Yubico",
		"         * model: Yubikey 5",
		"         * serial: <unknown>",
		"   usb4 (USB-A)",
		"      <empty>",
		"",
	}, "\n")
	assert.Equal(t, want, out)
}

func TestDumpAllRootsJSONAndYAML(t *testing.T) {
	e := newEnv(t)
	code, out, stderr := e.exec("--json", "dump")
	require.Equal(t, exitSuccess, code, stderr)

	var nodes []render.Node
	require.NoError(t, json.Unmarshal([]byte(out), &nodes))
	require.Len(t, nodes, 1)
	assert.Equal(t, "My stuff", nodes[0].Name)

	code, out, stderr = e.exec("dump", "--yaml", "modem2")
	require.Equal(t, exitSuccess, code, stderr)
	var ys []render.Node
	require.NoError(t, yaml.Unmarshal([]byte(out), &ys))
	require.Len(t, ys, 1)
	assert.Equal(t, "Huawei modem (Huawei e3131 3G modem) IMEI 12355", ys[0].Label)
}

func TestHistory(t *testing.T) {
	e := newEnv(t)
	code, out, stderr := e.exec("history", "seckey")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Equal(t, strings.Join([]string{
		"- Install Yubikey_1 -> Stephen's laptop.usb2",
		"00:01 Already installed Yubikey_1 -> Stephen's laptop.usb1",
		"00:02 Remove Yubikey_1 -> Stephen's laptop.usb2",
		"00:03 Does not fit Yubikey_1 -> Stephen's laptop.sata1",
		"00:04 Slot occupied Yubikey_1 -> Stephen's laptop.usb1",
		"00:05 Install Yubikey_1 -> Black USB hub.usb3",
		"",
	}, "\n"), out)

	code, out, stderr = e.exec("history", "laptop1", "--slot", "sata1")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Equal(t, strings.Join([]string{
		"- Install 256G SSD -> Stephen's laptop.sata1",
		"00:03 Does not fit Yubikey_1 -> Stephen's laptop.sata1",
		"00:06 Remove 256G SSD -> Stephen's laptop.sata1",
		"",
	}, "\n"), out)

	code, out, stderr = e.exec("--json", "history")
	require.Equal(t, exitSuccess, code, stderr)
	var rows []sqlite.Row
	require.NoError(t, json.Unmarshal([]byte(out), &rows))
	assert.Len(t, rows, 12)
}

func TestEvents(t *testing.T) {
	e := newEnv(t)
	code, out, stderr := e.exec("events")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Equal(t, strings.Join([]string{
		e.manifest + ": 7 events",
		"1 00:01 install Yubikey_1 -> laptop1.usb1: Already installed",
		"2 00:02 remove Yubikey_1 -> cab1: Remove",
		"3 00:03 install Yubikey_1 -> laptop1.sata1: Does not fit",
		"4 00:04 install Yubikey_1 -> laptop1.usb1: Slot occupied",
		"5 00:05 install Yubikey_1 -> usbh1.usb3: Install",
		"6 00:06 remove 256G SSD -> cab1: Remove",
		"7 - move Hammer -> toolbox2: Moved",
		"",
	}, "\n"), out)
}

func TestShow(t *testing.T) {
	e := newEnv(t)
	code, out, stderr := e.exec("show", "hdd1")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "placement: in 4 drawer cabinet\n")
	assert.Contains(t, out, "fits into: SATA\n")
	assert.Contains(t, out, "history:\n   - Install 256G SSD")

	code, out, stderr = e.exec("--json", "show", "sim1")
	require.Equal(t, exitSuccess, code, stderr)
	var v showView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "installed_in", v.Placement.Kind)
	assert.Equal(t, "Huawei modem.SIM", v.Placement.Slot)
	assert.Equal(t, "0211425358", v.Item.Attributes["Number"])
}

func TestSpecs(t *testing.T) {
	e := newEnv(t)
	code, out, stderr := e.exec("specs")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "huawei-modem: Huawei modem\n")
	assert.Contains(t, out, "  slot:      SD (uSD)\n")
}

func TestNew(t *testing.T) {
	e := newEnv(t)
	code, out, stderr := e.exec("new", "huawei-modem", "--into", "office", "--set", "IMEI=777")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "placement: in Brush office\n")
	assert.Contains(t, out, "Huawei modem (Huawei e3131 3G modem) IMEI 777\n")

	code, out, stderr = e.exec("--json", "new", "--like", "laptop1", "--set", "serial=XYZ", "--set-number", "price=1200")
	require.Equal(t, exitSuccess, code, stderr)
	var v showView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "unplaced", v.Placement.Kind)
	assert.Equal(t, "Stephen's laptop (HP Envy 15 XYZ)", v.Item.Label)
	assert.Equal(t, 1200.0, v.Item.Attributes["price"])
	require.Len(t, v.Item.Slots, 5)
	for _, s := range v.Item.Slots {
		assert.Nil(t, s.Installed)
	}
}

func TestLedger(t *testing.T) {
	e := newEnv(t)
	code, out, stderr := e.exec("ledger", "export")
	require.Equal(t, exitSuccess, code, stderr)
	path := filepath.Join(e.dataDir, sqlite.ExportFile)
	assert.Equal(t, "exported 12 entries to "+path+"\n", out)
	assert.FileExists(t, filepath.Join(e.dataDir, sqlite.DatabaseFile))

	rows, err := sqlite.ReadJSONL(path)
	require.NoError(t, err)
	assert.Len(t, rows, 12)

	code, out, stderr = e.exec("ledger", "query", "--action", "Slot occupied")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Equal(t, "00:04 Slot occupied Yubikey_1 -> Stephen's laptop.usb1\n", out)

	code, out, stderr = e.exec("--json", "ledger", "query", "--item", "Ghost")
	require.Equal(t, exitSuccess, code, stderr)
	assert.Equal(t, "[]\n", out)
}

func TestInit(t *testing.T) {
	e := newEnv(t)
	fresh := filepath.Join(t.TempDir(), "new.yaml")

	code, out, stderr := e.exec("init", "--demo", "--manifest", fresh)
	require.Equal(t, exitSuccess, code, stderr)
	assert.Contains(t, out, "(created)")
	assert.DirExists(t, e.dataDir)
	data, err := os.ReadFile(fresh)
	require.NoError(t, err)
	assert.Equal(t, manifest.Demo, data)

	code, out, _ = e.exec("init", "--manifest", fresh)
	require.Equal(t, exitSuccess, code)
	assert.Contains(t, out, "(kept)")
}

func TestExitCodes(t *testing.T) {
	e := newEnv(t)
	tests := []struct {
		name string
		args []string
		want int
	}{
		{name: "unknown item", args: []string{"show", "ghost"}, want: exitUserError},
		{name: "unknown spec", args: []string{"new", "router"}, want: exitUserError},
		{name: "spec and like", args: []string{"new", "huawei-modem", "--like", "laptop1"}, want: exitUserError},
		{name: "bad override", args: []string{"new", "huawei-modem", "--set-number", "IMEI=abc"}, want: exitUserError},
		{name: "non-finite override", args: []string{"--json", "new", "huawei-modem", "--set-number", "cost=NaN"}, want: exitUserError},
		{name: "slot without key", args: []string{"history", "--slot", "usb1"}, want: exitUserError},
		{name: "unknown action", args: []string{"ledger", "query", "--action", "Explode"}, want: exitUserError},
		{name: "missing manifest", args: []string{"dump", "--manifest", filepath.Join(t.TempDir(), "none.yaml")}, want: exitUserError},
		{name: "unknown command", args: []string{"frobnicate"}, want: exitUserError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, stderr := e.exec(tt.args...)
			assert.Equal(t, tt.want, code)
			assert.True(t, strings.HasPrefix(stderr, "inventory: "), stderr)
		})
	}
}

func TestSystemErrorExitCode(t *testing.T) {
	e := newEnv(t)
	blocker := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(blocker, nil, 0o644))

	code, _, _ := e.exec("--data-dir", filepath.Join(blocker, "sub"), "ledger", "export")
	assert.Equal(t, exitSysError, code)
}

func TestConfigValueBeatsEnv(t *testing.T) {
	e := newEnv(t)
	configData := filepath.Join(t.TempDir(), "from-config")
	require.NoError(t, os.MkdirAll(e.configDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt),
		[]byte("manifest: "+e.manifest+"\ndata_dir: "+configData+"\n"), 0o644))

	missing := filepath.Join(t.TempDir(), "env.yaml")
	t.Setenv(paths.EnvManifest, missing)
	t.Setenv(paths.EnvDataDir, filepath.Join(t.TempDir(), "from-env"))

	var stdout, stderr bytes.Buffer
	code := run(NewRootCmd(), []string{"--config-dir", e.configDir, "--json", "ledger", "export"}, &stdout, &stderr)
	require.Equal(t, exitSuccess, code, stderr.String())

	var v map[string]any
	require.NoError(t, json.Unmarshal(stdout.Bytes(), &v))
	assert.Equal(t, filepath.Join(configData, sqlite.ExportFile), v["path"])

	t.Run("env used without config value", func(t *testing.T) {
		require.NoError(t, os.WriteFile(filepath.Join(e.configDir, configFileExt), []byte("indent: 3\n"), 0o644))
		stdout.Reset()
		stderr.Reset()
		code := run(NewRootCmd(), []string{"--config-dir", e.configDir, "specs"}, &stdout, &stderr)
		assert.Equal(t, exitUserError, code)
		assert.Contains(t, stderr.String(), missing)
	})

	t.Run("env still overrides indent", func(t *testing.T) {
		t.Setenv("INVENTORY_INDENT", "1")
		stdout.Reset()
		stderr.Reset()
		code := run(NewRootCmd(), []string{"--config-dir", e.configDir, "--manifest", e.manifest,
			"dump", "--no-attributes", "hdd1"}, &stdout, &stderr)
		require.Equal(t, exitSuccess, code, stderr.String())
		assert.Contains(t, stdout.String(), "\n LibreOffice\n")
	})
}

func TestParseOverrides(t *testing.T) {
	attrs, err := parseOverrides([]string{"IMEI=777"}, []string{"cost=12.5"})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"IMEI": "777", "cost": 12.5}, attrs.Map())

	for _, n := range []string{"NaN", "Inf", "-Inf"} {
		_, err := parseOverrides(nil, []string{"cost=" + n})
		assert.ErrorIs(t, err, types.ErrInvalidValue, n)
	}

	_, err = parseOverrides(nil, []string{"cost=abc"})
	assert.ErrorIs(t, err, errUsage)
	_, err = parseOverrides([]string{"=v"}, nil)
	assert.ErrorIs(t, err, errUsage)
}
