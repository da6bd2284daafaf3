package main

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/config"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/design"
	dt "github.com/DigitalHome-cloud/digitalhome-cloud-designer/design/designtest"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/metrics"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/validation"
	"github.com/DigitalHome-cloud/digitalhome-cloud-designer/vocabulary/dhc"
)

const wiringAsContainment = `[
  {"type": "dhc_circuit", "args0": [{"type": "input_statement", "name": "HASWIRING"}]}
]`

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Storage.Root = t.TempDir()
	return cfg
}

func writeWorkspace(t *testing.T, dir, name string, roots ...*design.Node) string {
	t.Helper()
	data, err := design.EncodeWorkspace(design.NewTree(roots...))
	require.NoError(t, err)
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, data, 0644))
	return path
}

func overloaded() *design.Node {
	return dt.Block(dhc.TypeCircuit, "c1",
		dt.Label("Kitchen"),
		dt.Children(dhc.SlotFeedsEquipment, dt.Equipment(dhc.TypeSocket, "s", 9)...))
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer

	logger := newLogger(&buf, "warn", "json")
	assert.False(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.True(t, logger.Enabled(context.Background(), slog.LevelWarn))
	logger.Warn("hello")
	assert.True(t, json.Valid(bytes.TrimSpace(buf.Bytes())))

	logger = newLogger(&buf, "", "")
	assert.True(t, logger.Enabled(context.Background(), slog.LevelInfo))
	assert.False(t, logger.Enabled(context.Background(), slog.LevelDebug))
}

func TestLoadConfigFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "designer.yaml")
	require.NoError(t, os.WriteFile(path, []byte("storage:\n  root: /srv/designs\n"), 0644))

	cfg, err := loadConfig(path, slog.Default())
	require.NoError(t, err)
	assert.Equal(t, "/srv/designs", cfg.Storage.Root)

	require.NoError(t, os.WriteFile(path, []byte("storage:\n  backend: s3\n"), 0644))
	_, err = loadConfig(path, slog.Default())
	assert.ErrorContains(t, err, "storage.bucket")
}

func TestNewAppUsesCatalogFile(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "blockly-blocks.json")
	require.NoError(t, os.WriteFile(cfg.Catalog.Path, []byte(wiringAsContainment), 0644))

	a, err := newApp(context.Background(), cfg, slog.Default(), metrics.NewRegistry())
	require.NoError(t, err)
	defer a.Close()

	reg := a.service.Registry()
	assert.Equal(t, dhc.Containment, reg.SlotKind(dhc.TypeCircuit, dhc.SlotHasWiring))
	assert.Equal(t, cfg.Design.InstanceNamespace, reg.InstanceNamespace())
}

func TestNewAppLoadsCatalogFromStorage(t *testing.T) {
	cfg := testConfig(t)
	dir := filepath.Join(cfg.Storage.Root, "public", "ontology", "latest")
	require.NoError(t, os.MkdirAll(dir, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "blockly-blocks.json"), []byte(wiringAsContainment), 0644))

	a, err := newApp(context.Background(), cfg, slog.Default(), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, dhc.Containment, a.service.Registry().SlotKind(dhc.TypeCircuit, dhc.SlotHasWiring))
}

func TestNewAppWithoutCatalog(t *testing.T) {
	a, err := newApp(context.Background(), testConfig(t), slog.Default(), nil)
	require.NoError(t, err)
	defer a.Close()

	assert.Equal(t, dhc.Reference, a.service.Registry().SlotKind(dhc.TypeCircuit, dhc.SlotHasWiring))
}

func TestNewAppErrors(t *testing.T) {
	cfg := testConfig(t)
	cfg.Catalog.Path = filepath.Join(t.TempDir(), "missing.json")
	_, err := newApp(context.Background(), cfg, slog.Default(), nil)
	assert.ErrorContains(t, err, "open catalog")

	cfg = testConfig(t)
	cfg.Storage.Backend = config.BackendKV
	_, err = newApp(context.Background(), cfg, slog.Default(), nil)
	assert.ErrorContains(t, err, "nats.url")
}

// run executes the CLI with a config file pointing storage at a temp dir.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "designer.yaml")
	cfg := config.DefaultConfig()
	cfg.Storage.Root = filepath.Join(dir, "store")
	cfg.Log.Level = "error"
	require.NoError(t, cfg.SaveToFile(cfgPath))

	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(append([]string{"--config", cfgPath}, args...))
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCompileCommand(t *testing.T) {
	path := writeWorkspace(t, t.TempDir(), "ws.json", overloaded())

	out, err := run(t, "compile", path, "--root-id", "home1")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out, "@prefix dhc: <https://digitalhome.cloud/ontology#> .\n"))
	assert.Contains(t, out, "dhc-instance:home1/dhc_circuit/c1\n  a dhc:Circuit ;\n")

	out, err = run(t, "compile", path, "--root-id", "home1", "--format", "graph")
	require.NoError(t, err)
	var g map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &g))
	assert.Len(t, g["nodes"], 10)

	_, err = run(t, "compile", path, "--root-id", "home1", "--format", "rdfxml")
	assert.Error(t, err)

	_, err = run(t, "compile", path)
	assert.Error(t, err)
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	writeWorkspace(t, dir, "bad.json", overloaded())
	writeWorkspace(t, dir, "good.json", dt.Block(dhc.TypeCircuit, "c2",
		dt.Ref(dhc.SlotHasProtection, dt.Block(dhc.TypeProtectionDevice, "p1", dt.Field(dhc.FieldRatedCurrent, "16")))))

	out, err := run(t, "validate", filepath.Join(dir, "*.json"))
	assert.ErrorIs(t, err, errViolations)
	assert.Contains(t, out, "bad.json")
	assert.Contains(t, out, "good.json")
	assert.Contains(t, out, validation.RuleMaxPoints)

	out, err = run(t, "validate", "--json", filepath.Join(dir, "good.json"))
	require.NoError(t, err)
	var results map[string][]validation.Violation
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	assert.Empty(t, results[filepath.Join(dir, "good.json")])

	_, err = run(t, "validate", filepath.Join(dir, "missing.json"))
	assert.Error(t, err)
}

func TestShellCommand(t *testing.T) {
	out, err := run(t, "shell", "FR-75001-ABC12-01", "--stdout")
	require.NoError(t, err)
	tree, err := design.DecodeWorkspace([]byte(out), dhc.NewRegistry())
	require.NoError(t, err)
	assert.Len(t, tree.Roots, 6)

	out, err = run(t, "shell", "de-80331-mar12-01")
	require.NoError(t, err)
	assert.Contains(t, out, "DE-80331-MAR12-01")

	_, err = run(t, "shell", "nope")
	assert.Error(t, err)
}

func TestSaveCommand(t *testing.T) {
	path := writeWorkspace(t, t.TempDir(), "ws.json", overloaded())

	out, err := run(t, "save", path, "--root-id", "home1")
	require.NoError(t, err)
	assert.Contains(t, out, "home1")
	assert.Contains(t, out, validation.RuleProtectionMissing)
}

func TestVersionCommand(t *testing.T) {
	var out bytes.Buffer
	cmd := rootCmd()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"version"})
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), Version)
}

func TestExpandPatterns(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a", "b"), 0755))
	for _, p := range []string{"a/one.json", "a/b/two.json", "a/b/notes.txt"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, p), []byte("{}"), 0644))
	}

	files, err := expandPatterns([]string{filepath.Join(dir, "**", "*.json"), filepath.Join(dir, "plain.json")})
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		filepath.Join(dir, "a", "one.json"),
		filepath.Join(dir, "a", "b", "two.json"),
		filepath.Join(dir, "plain.json"),
	}, files)
}
