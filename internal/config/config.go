package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// Config represents the site build configuration.
type Config struct {
	SourceDir     string          `yaml:"source_dir" toml:"source_dir"`
	AssetDir      string          `yaml:"asset_dir" toml:"asset_dir"`
	OutputDir     string          `yaml:"output_dir" toml:"output_dir"`
	AssetsSubdir  string          `yaml:"assets_subdir,omitempty" toml:"assets_subdir,omitempty"`
	Converter     ConverterConfig `yaml:"converter" toml:"converter"`
	Template      TemplateConfig  `yaml:"template" toml:"template"`
	Assets        AssetsConfig    `yaml:"assets" toml:"assets"`
	Catalog       []PageConfig    `yaml:"catalog" toml:"catalog"`
	StampRevision bool            `yaml:"stamp_revision,omitempty" toml:"stamp_revision,omitempty"`
	ReportFile    string          `yaml:"report_file,omitempty" toml:"report_file,omitempty"`
	MetricsFile   string          `yaml:"metrics_file,omitempty" toml:"metrics_file,omitempty"`
	Notify        NotifyConfig    `yaml:"notify,omitempty" toml:"notify,omitempty"`

	// baseDir is the directory relative paths are resolved against (the config file's directory).
	baseDir string
}

// ConverterConfig configures the per-page highlighting converter.
type ConverterConfig struct {
	// Command is the external tool; the source path is appended to Args.
	// Empty selects the built-in markdown renderer.
	Command     string   `yaml:"command,omitempty" toml:"command,omitempty"`
	Args        []string `yaml:"args,omitempty" toml:"args,omitempty"`
	Workers     int      `yaml:"workers,omitempty" toml:"workers,omitempty"`
	Timeout     string   `yaml:"timeout,omitempty" toml:"timeout,omitempty"` // Go duration, e.g. "90s"
	NoiseMarker string   `yaml:"noise_marker,omitempty" toml:"noise_marker,omitempty"`
}

// TemplateConfig configures the page document template.
type TemplateConfig struct {
	SiteTitle   string   `yaml:"site_title,omitempty" toml:"site_title,omitempty"`
	Lang        string   `yaml:"lang,omitempty" toml:"lang,omitempty"`
	Stylesheets []string `yaml:"stylesheets,omitempty" toml:"stylesheets,omitempty"`
	Scripts     []string `yaml:"scripts,omitempty" toml:"scripts,omitempty"`
	// File optionally replaces the embedded page template (html/template syntax).
	File string `yaml:"file,omitempty" toml:"file,omitempty"`
}

// AssetsConfig is the extension allow-list of the asset directory.
type AssetsConfig struct {
	Minify []string `yaml:"minify,omitempty" toml:"minify,omitempty"` // text assets, minified
	Copy   []string `yaml:"copy,omitempty" toml:"copy,omitempty"`     // binary assets, copied verbatim
}

// PageConfig is one catalog entry as written in the configuration file.
type PageConfig struct {
	Key   string `yaml:"key" toml:"key"`
	Link  string `yaml:"link" toml:"link"`
	Path  string `yaml:"path,omitempty" toml:"path,omitempty"`
	Title string `yaml:"title,omitempty" toml:"title,omitempty"`
	Label string `yaml:"label,omitempty" toml:"label,omitempty"`
	Nav   string `yaml:"nav,omitempty" toml:"nav,omitempty"`
}

// NotifyConfig configures the optional publication notice.
type NotifyConfig struct {
	NATSURL string `yaml:"nats_url,omitempty" toml:"nats_url,omitempty"`
	Subject string `yaml:"subject,omitempty" toml:"subject,omitempty"`
}

// Load loads configuration from the specified file. YAML is assumed unless the file
// has a .toml extension. Relative directories resolve against the file's directory.
func Load(configPath string) (*Config, error) {
	baseDir := filepath.Dir(configPath)
	if err := loadEnvFile(baseDir); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.ConfigError("configuration file not found").WithPath(configPath).Build()
		}
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to read configuration file").
			Fatal().WithPath(configPath).Build()
	}

	cfg, err := Parse(data, filepath.Ext(configPath))
	if err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to parse configuration file").
			Fatal().WithPath(configPath).Build()
	}
	cfg.baseDir = baseDir

	if err := ApplyDefaults(cfg); err != nil {
		return nil, err
	}
	if err := ValidateConfig(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration bytes after expanding environment variables.
// Defaults are not applied.
func Parse(data []byte, ext string) (*Config, error) {
	expanded := os.ExpandEnv(string(data))

	var cfg Config
	switch strings.ToLower(ext) {
	case ".toml":
		if err := toml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal toml: %w", err)
		}
	default:
		if err := yaml.Unmarshal([]byte(expanded), &cfg); err != nil {
			return nil, fmt.Errorf("unmarshal yaml: %w", err)
		}
	}
	return &cfg, nil
}

// Resolve returns p unchanged when absolute, otherwise joined to the config directory.
func (c *Config) Resolve(p string) string {
	if p == "" || filepath.IsAbs(p) || c.baseDir == "" {
		return p
	}
	return filepath.Join(c.baseDir, p)
}

// SourcePath is the resolved source document directory.
func (c *Config) SourcePath() string { return c.Resolve(c.SourceDir) }

// AssetPath is the resolved static asset directory.
func (c *Config) AssetPath() string { return c.Resolve(c.AssetDir) }

// OutputPath is the resolved deployment directory.
func (c *Config) OutputPath() string { return c.Resolve(c.OutputDir) }

// ConverterTimeout parses the per-conversion timeout. Validation guarantees it parses.
func (c *Config) ConverterTimeout() time.Duration {
	d, err := time.ParseDuration(c.Converter.Timeout)
	if err != nil {
		return DefaultConverterTimeout
	}
	return d
}

// NoiseMarker returns the prologue marker byte.
func (c *Config) NoiseMarker() byte {
	if c.Converter.NoiseMarker == "" {
		return DefaultNoiseMarker[0]
	}
	return c.Converter.NoiseMarker[0]
}

// BuildCatalog converts the configured entries into a validated catalog.
func (c *Config) BuildCatalog() (*catalog.Catalog, error) {
	descriptors := make([]catalog.Descriptor, 0, len(c.Catalog))
	for _, p := range c.Catalog {
		descriptors = append(descriptors, catalog.Descriptor{
			Key:   p.Key,
			Link:  p.Link,
			Path:  p.Path,
			Title: p.Title,
			Label: p.Label,
			Nav:   catalog.NavPolicy(p.Nav),
		})
	}
	return catalog.New(descriptors)
}

// Init creates a new configuration file with example content.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithPath(configPath).Build()
	}

	data, err := yaml.Marshal(Example())
	if err != nil {
		return errors.WrapError(err, errors.CategoryInternal, "failed to marshal example configuration").Fatal().Build()
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to write configuration file").
			Fatal().WithPath(configPath).Build()
	}
	return nil
}

// Example returns the configuration written by Init.
func Example() *Config {
	return &Config{
		SourceDir: "pages",
		AssetDir:  "static",
		OutputDir: "dist",
		Converter: ConverterConfig{
			Command: "npm",
			Args:    []string{"run", "--silent", "generate"},
			Timeout: "2m",
		},
		Template: TemplateConfig{
			SiteTitle:   "My site",
			Stylesheets: []string{"/assets/github-markdown.css", "/assets/styles.css"},
		},
		Catalog: []PageConfig{
			{Key: "Home", Link: "index", Path: "/", Title: "Home", Label: "Home", Nav: "home"},
			{Key: "Nav", Link: "table-of-contents", Title: "Table of contents", Label: "Table of contents", Nav: "index"},
			{Key: "Meta", Link: "meta", Title: "Meta", Nav: "page"},
		},
	}
}
