package config

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

const minimalYAML = `
converter:
  command: ${SITEGEN_TEST_TOOL}
  args: [run, generate]
catalog:
  - key: Home
    link: index
    nav: home
  - key: Nav
    link: table-of-contents
    title: Table of contents
    nav: index
  - key: Meta
    link: meta
`

func writeConfig(t *testing.T, name, content string) string {
	t.Helper()
	dir := t.TempDir()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, []byte(content), 0o644))
	return p
}

func TestLoad_YAMLWithDefaults(t *testing.T) {
	t.Setenv("SITEGEN_TEST_TOOL", "npm")
	p := writeConfig(t, "site.yaml", minimalYAML)

	cfg, err := Load(p)
	require.NoError(t, err)

	dir := filepath.Dir(p)
	assert.Equal(t, filepath.Join(dir, "pages"), cfg.SourcePath())
	assert.Equal(t, filepath.Join(dir, "static"), cfg.AssetPath())
	assert.Equal(t, filepath.Join(dir, "dist"), cfg.OutputPath())
	assert.Equal(t, "assets", cfg.AssetsSubdir)

	assert.Equal(t, "npm", cfg.Converter.Command)
	assert.Equal(t, runtime.NumCPU(), cfg.Converter.Workers)
	assert.Equal(t, DefaultConverterTimeout, cfg.ConverterTimeout())
	assert.Equal(t, byte('>'), cfg.NoiseMarker())

	assert.Equal(t, []string{".css", ".js"}, cfg.Assets.Minify)
	assert.Equal(t, []string{".jpg", ".jpeg"}, cfg.Assets.Copy)
	assert.Equal(t, []string{"/assets/styles.css"}, cfg.Template.Stylesheets)

	cat, err := cfg.BuildCatalog()
	require.NoError(t, err)
	meta, ok := cat.Lookup("Meta")
	require.True(t, ok)
	assert.Equal(t, "/meta.html", meta.Path)
	assert.Equal(t, "Meta", meta.Label)
	assert.Equal(t, "/", cat.Home().Path)
	assert.Equal(t, "Table of contents", cat.Index().Label)
}

func TestLoad_TOML(t *testing.T) {
	p := writeConfig(t, "site.toml", `
source_dir = "md"
output_dir = "public"

[converter]
timeout = "30s"
workers = 2

[assets]
copy = ["jpg", ".PNG"]

[[catalog]]
key = "Home"
link = "index"
nav = "home"

[[catalog]]
key = "Nav"
link = "toc"
nav = "index"
`)

	cfg, err := Load(p)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(filepath.Dir(p), "md"), cfg.SourcePath())
	assert.Equal(t, 30*time.Second, cfg.ConverterTimeout())
	assert.Equal(t, 2, cfg.Converter.Workers)
	assert.Equal(t, []string{".jpg", ".png"}, cfg.Assets.Copy)
	assert.Empty(t, cfg.Converter.Command)
}

func TestLoad_EnvFile(t *testing.T) {
	p := writeConfig(t, "site.yaml", minimalYAML)
	envPath := filepath.Join(filepath.Dir(p), ".env")
	require.NoError(t, os.WriteFile(envPath, []byte("SITEGEN_TEST_TOOL=from-dotenv\n"), 0o644))
	t.Setenv("SITEGEN_TEST_TOOL", "")
	require.NoError(t, os.Unsetenv("SITEGEN_TEST_TOOL"))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.Converter.Command)
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		category errors.ErrorCategory
	}{
		{"unparsable yaml", "catalog: [", errors.CategoryConfig},
		{"invalid timeout", "converter: {timeout: soon}\n" + catalogYAML, errors.CategoryValidation},
		{"multi byte marker", "converter: {noise_marker: '>>'}\n" + catalogYAML, errors.CategoryValidation},
		{"unknown minify extension", "assets: {minify: [.png]}\n" + catalogYAML, errors.CategoryValidation},
		{"extension in both lists", "assets: {minify: [.css], copy: [.css]}\n" + catalogYAML, errors.CategoryValidation},
		{"output equals source", "output_dir: pages\n" + catalogYAML, errors.CategoryValidation},
		{"output contains assets", "output_dir: site\nasset_dir: site/static\n" + catalogYAML, errors.CategoryValidation},
		{"assets subdir parent", "assets_subdir: ..\n" + catalogYAML, errors.CategoryValidation},
		{"assets subdir dot", "assets_subdir: .\n" + catalogYAML, errors.CategoryValidation},
		{"assets subdir nested", "assets_subdir: a/b\n" + catalogYAML, errors.CategoryValidation},
		{"report inside output", "report_file: dist/report.json\n" + catalogYAML, errors.CategoryValidation},
		{"duplicate catalog key", catalogYAML + "  - {key: Home, link: again}\n", errors.CategoryConfig},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := writeConfig(t, "site.yaml", tt.content)
			_, err := Load(p)
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, tt.category), "got %v", err)
		})
	}
}

func TestValidateConfig_AssetExtensions(t *testing.T) {
	tests := []struct {
		name   string
		minify []string
		copy   []string
		ok     bool
	}{
		{"upper case accepted", []string{".CSS", ".Js"}, []string{".JPG"}, true},
		{"copy without dot", []string{".css"}, []string{"jpg"}, false},
		{"minify without dot", []string{"css"}, nil, false},
		{"bare dot", []string{".css"}, []string{"."}, false},
		{"case-insensitive overlap", []string{".css"}, []string{".CSS"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Parse([]byte(catalogYAML), ".yaml")
			require.NoError(t, err)
			require.NoError(t, ApplyDefaults(cfg))
			// Bypass the loader's normalization to check validation on raw values.
			cfg.Assets.Minify = tt.minify
			cfg.Assets.Copy = tt.copy

			err = ValidateConfig(cfg)
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, errors.HasCategory(err, errors.CategoryValidation), "got %v", err)
		})
	}
}

const catalogYAML = `catalog:
  - {key: Home, link: index, nav: home}
  - {key: Nav, link: toc, nav: index}
`

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	assert.Equal(t, errors.CategoryConfig, classified.Category())
	assert.Contains(t, classified.Path(), "nope.yaml")
}

func TestInit(t *testing.T) {
	p := filepath.Join(t.TempDir(), "site.yaml")
	require.NoError(t, Init(p, false))

	cfg, err := Load(p)
	require.NoError(t, err)
	assert.Equal(t, "npm", cfg.Converter.Command)
	assert.Len(t, cfg.Catalog, 3)

	err = Init(p, false)
	require.Error(t, err, "existing file must not be overwritten without force")
	require.NoError(t, Init(p, true))
}
