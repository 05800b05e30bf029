package config

import (
	"fmt"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/sitegen/internal/assets"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
)

// ValidateConfig validates a configuration after defaults were applied.
func ValidateConfig(cfg *Config) error {
	validator := newConfigurationValidator(cfg)
	return validator.validate()
}

// configurationValidator coordinates validation across all configuration domains.
type configurationValidator struct {
	config *Config
}

func newConfigurationValidator(config *Config) *configurationValidator {
	return &configurationValidator{config: config}
}

func (cv *configurationValidator) validate() error {
	if err := cv.validatePaths(); err != nil {
		return err
	}
	if err := cv.validateConverter(); err != nil {
		return err
	}
	if err := cv.validateAssets(); err != nil {
		return err
	}
	return cv.validateCatalog()
}

// validatePaths rejects layouts where publishing would delete its own inputs.
func (cv *configurationValidator) validatePaths() error {
	c := cv.config
	out := filepath.Clean(c.OutputPath())
	if out == "." || out == string(filepath.Separator) {
		return errors.ValidationError("output directory must not be the working directory or filesystem root").
			WithPath(c.OutputPath()).Build()
	}
	for _, in := range []string{c.SourcePath(), c.AssetPath()} {
		if within(filepath.Clean(in), out) || within(out, filepath.Clean(in)) {
			return errors.ValidationError("output directory overlaps an input directory").
				WithPath(out).WithContext("input", in).Build()
		}
	}
	for _, f := range []string{c.ReportFile, c.MetricsFile} {
		if f != "" && within(filepath.Clean(c.Resolve(f)), out) {
			return errors.ValidationError("report and metrics files must be written outside the output directory").
				WithPath(c.Resolve(f)).Build()
		}
	}
	switch sub := c.AssetsSubdir; {
	case sub == "" || sub == "." || sub == "..":
		return errors.ValidationError(fmt.Sprintf("assets_subdir %q must name a directory inside the output directory", sub)).Build()
	case sub != filepath.Base(sub):
		return errors.ValidationError(fmt.Sprintf("assets_subdir %q must be a single directory name", sub)).Build()
	}
	return nil
}

func within(p, dir string) bool {
	rel, err := filepath.Rel(dir, p)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !filepath.IsAbs(rel) && !startsWithParent(rel))
}

func startsWithParent(rel string) bool {
	return len(rel) >= 3 && rel[:3] == ".."+string(filepath.Separator)
}

func (cv *configurationValidator) validateConverter() error {
	c := cv.config.Converter
	d, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return errors.WrapError(err, errors.CategoryValidation, fmt.Sprintf("invalid converter timeout %q", c.Timeout)).Fatal().Build()
	}
	if d <= 0 {
		return errors.ValidationError(fmt.Sprintf("converter timeout must be positive, got %q", c.Timeout)).Build()
	}
	if len(c.NoiseMarker) != 1 {
		return errors.ValidationError(fmt.Sprintf("noise_marker must be a single byte, got %q", c.NoiseMarker)).Build()
	}
	return nil
}

// validateAssets defers to the minifier so both agree on extension syntax and case.
func (cv *configurationValidator) validateAssets() error {
	_, err := assets.New(cv.config.Assets.Minify, cv.config.Assets.Copy)
	return err
}

func (cv *configurationValidator) validateCatalog() error {
	_, err := cv.config.BuildCatalog()
	return err
}
