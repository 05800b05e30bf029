package commands

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/alecthomas/kong"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

const testConfig = `
source_dir: pages
asset_dir: static
output_dir: dist
catalog:
  - {key: Home, link: index, title: Home, nav: home}
  - {key: Nav, link: table-of-contents, title: Contents, nav: index}
  - {key: Meta, link: meta, title: Meta}
`

func project(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"site.yaml":         testConfig,
		"pages/Home.md":     "# Home\n",
		"pages/Nav.md":      "# Contents\n",
		"pages/Meta.md":     "# Meta\n",
		"static/styles.css": "body { margin: 0; }\n",
	}
	for name, content := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		require.NoError(t, os.MkdirAll(filepath.Dir(p), 0o755))
		require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	}
	return dir
}

// run parses args and executes the selected command, returning stdout.
func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cli := &CLI{}
	parser, err := kong.New(cli, kong.Name("sitegen"), kong.Exit(func(int) { t.Fatal("unexpected exit") }))
	require.NoError(t, err)
	kctx, err := parser.Parse(args)
	require.NoError(t, err)

	var stdout bytes.Buffer
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	err = kctx.Run(NewGlobal(context.Background(), logger, &stdout), cli)
	return stdout.String(), err
}

func TestBuildCommand(t *testing.T) {
	dir := project(t)
	out, err := run(t, "-c", filepath.Join(dir, "site.yaml"), "build", "--json")
	require.NoError(t, err)

	var summary map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &summary))
	assert.EqualValues(t, 4, summary["pages"])
	assert.EqualValues(t, 1, summary["assets"])
	assert.FileExists(t, filepath.Join(dir, "dist", "meta.html"))
	assert.FileExists(t, filepath.Join(dir, "dist", "404.html"))
}

func TestBuildCommand_Overrides(t *testing.T) {
	dir := project(t)
	target := filepath.Join(t.TempDir(), "public")
	metricsPath := filepath.Join(t.TempDir(), "sitegen.prom")

	_, err := run(t, "-c", filepath.Join(dir, "site.yaml"), "build",
		"--output", target, "--workers", "2", "--timeout", "30s",
		"--metrics-file", metricsPath, "--color", "never")
	require.NoError(t, err)
	assert.FileExists(t, filepath.Join(target, "index.html"))
	assert.NoDirExists(t, filepath.Join(dir, "dist"))

	text, err := os.ReadFile(metricsPath)
	require.NoError(t, err)
	assert.Contains(t, string(text), `sitegen_build_outcomes_total{outcome="success"} 1`)
}

func TestBuildCommand_InvalidOverride(t *testing.T) {
	dir := project(t)
	_, err := run(t, "-c", filepath.Join(dir, "site.yaml"), "build",
		"--report-file", filepath.Join(dir, "dist", "report.json"))
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryValidation))
	assert.NoDirExists(t, filepath.Join(dir, "dist"))
}

func TestBuildCommand_FailureExitCode(t *testing.T) {
	dir := project(t)
	require.NoError(t, os.Remove(filepath.Join(dir, "pages", "Meta.md")))

	_, err := run(t, "-c", filepath.Join(dir, "site.yaml"), "build")
	require.Error(t, err)

	var stderr bytes.Buffer
	code := errors.NewCLIErrorAdapter(false, slog.New(slog.NewTextHandler(io.Discard, nil))).
		WithOutput(&stderr).Report(err)
	assert.Equal(t, errors.ExitDiscovery, code)
	assert.Contains(t, stderr.String(), "Meta")
}

func TestCheckCommand(t *testing.T) {
	dir := project(t)
	out, err := run(t, "-c", filepath.Join(dir, "site.yaml"), "check", "--color", "never")
	require.NoError(t, err)
	assert.Contains(t, out, "3 pages classified")
	assert.NoDirExists(t, filepath.Join(dir, "dist"))
}

func TestCatalogCommand(t *testing.T) {
	dir := project(t)
	out, err := run(t, "-c", filepath.Join(dir, "site.yaml"), "catalog", "--json")
	require.NoError(t, err)

	var entries []struct {
		Key        string   `json:"key"`
		NavTargets []string `json:"nav_targets"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &entries))
	require.Len(t, entries, 3)
	assert.Equal(t, "Home", entries[0].Key)
}

func TestInitCommand(t *testing.T) {
	path := filepath.Join(t.TempDir(), "site.yaml")

	_, err := run(t, "-c", path, "init")
	require.NoError(t, err)
	assert.FileExists(t, path)

	_, err = run(t, "-c", path, "init")
	require.Error(t, err)
	assert.True(t, errors.HasCategory(err, errors.CategoryConfig))

	_, err = run(t, "-c", path, "init", "--force")
	require.NoError(t, err)
}

func TestParseLogLevel(t *testing.T) {
	tests := []struct {
		env     string
		verbose bool
		want    slog.Level
	}{
		{"", false, slog.LevelInfo},
		{"", true, slog.LevelDebug},
		{"warn", false, slog.LevelWarn},
		{"ERROR", false, slog.LevelError},
		{"error", true, slog.LevelDebug},
	}
	for _, tt := range tests {
		t.Run(tt.env, func(t *testing.T) {
			t.Setenv("SITEGEN_LOG_LEVEL", tt.env)
			assert.Equal(t, tt.want, parseLogLevel(tt.verbose))
		})
	}
}
