package config

import (
	"runtime"
	"strings"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/catalog"
)

// Defaults shared with the CLI help text.
const (
	DefaultSourceDir        = "pages"
	DefaultAssetDir         = "static"
	DefaultOutputDir        = "dist"
	DefaultAssetsSubdir     = "assets"
	DefaultConverterTimeout = 2 * time.Minute
	DefaultNoiseMarker      = ">"
	DefaultNotifySubject    = "sitegen.published"
)

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// PathsDefaultApplier handles directory defaults.
type PathsDefaultApplier struct{}

func (PathsDefaultApplier) Domain() string { return "paths" }

func (PathsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.SourceDir == "" {
		cfg.SourceDir = DefaultSourceDir
	}
	if cfg.AssetDir == "" {
		cfg.AssetDir = DefaultAssetDir
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = DefaultOutputDir
	}
	if cfg.AssetsSubdir == "" {
		cfg.AssetsSubdir = DefaultAssetsSubdir
	}
	return nil
}

// ConverterDefaultApplier handles converter defaults.
type ConverterDefaultApplier struct{}

func (ConverterDefaultApplier) Domain() string { return "converter" }

func (ConverterDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Converter.Workers <= 0 {
		cfg.Converter.Workers = runtime.NumCPU()
	}
	if cfg.Converter.Timeout == "" {
		cfg.Converter.Timeout = DefaultConverterTimeout.String()
	}
	if cfg.Converter.NoiseMarker == "" {
		cfg.Converter.NoiseMarker = DefaultNoiseMarker
	}
	return nil
}

// TemplateDefaultApplier handles document template defaults.
type TemplateDefaultApplier struct{}

func (TemplateDefaultApplier) Domain() string { return "template" }

func (TemplateDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Template.Lang == "" {
		cfg.Template.Lang = "en"
	}
	if len(cfg.Template.Stylesheets) == 0 {
		cfg.Template.Stylesheets = []string{"/" + cfg.AssetsSubdir + "/styles.css"}
	}
	return nil
}

// AssetsDefaultApplier handles the asset allow-list defaults and normalizes extensions.
type AssetsDefaultApplier struct{}

func (AssetsDefaultApplier) Domain() string { return "assets" }

func (AssetsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if len(cfg.Assets.Minify) == 0 {
		cfg.Assets.Minify = []string{".css", ".js"}
	}
	if len(cfg.Assets.Copy) == 0 {
		cfg.Assets.Copy = []string{".jpg", ".jpeg"}
	}
	cfg.Assets.Minify = normalizeExtensions(cfg.Assets.Minify)
	cfg.Assets.Copy = normalizeExtensions(cfg.Assets.Copy)
	return nil
}

func normalizeExtensions(exts []string) []string {
	out := make([]string, 0, len(exts))
	for _, e := range exts {
		e = strings.ToLower(strings.TrimSpace(e))
		if e == "" {
			continue
		}
		if !strings.HasPrefix(e, ".") {
			e = "." + e
		}
		out = append(out, e)
	}
	return out
}

// CatalogDefaultApplier fills derived descriptor fields.
type CatalogDefaultApplier struct{}

func (CatalogDefaultApplier) Domain() string { return "catalog" }

func (CatalogDefaultApplier) ApplyDefaults(cfg *Config) error {
	for i := range cfg.Catalog {
		p := &cfg.Catalog[i]
		if p.Path == "" && p.Link != "" {
			p.Path = catalog.DefaultPath(p.Link)
		}
		if p.Title == "" {
			p.Title = p.Key
		}
		if p.Label == "" {
			p.Label = p.Title
		}
		if p.Nav == "" {
			p.Nav = string(catalog.NavPage)
		}
	}
	return nil
}

// NotifyDefaultApplier handles the publication notice defaults.
type NotifyDefaultApplier struct{}

func (NotifyDefaultApplier) Domain() string { return "notify" }

func (NotifyDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Notify.NATSURL != "" && cfg.Notify.Subject == "" {
		cfg.Notify.Subject = DefaultNotifySubject
	}
	return nil
}

// defaultAppliers run in order; template defaults depend on the assets subdirectory.
var defaultAppliers = []DefaultApplier{
	PathsDefaultApplier{},
	ConverterDefaultApplier{},
	TemplateDefaultApplier{},
	AssetsDefaultApplier{},
	CatalogDefaultApplier{},
	NotifyDefaultApplier{},
}

// ApplyDefaults applies every domain's defaults to cfg.
func ApplyDefaults(cfg *Config) error {
	for _, a := range defaultAppliers {
		if err := a.ApplyDefaults(cfg); err != nil {
			return err
		}
	}
	return nil
}
