package commands

import (
	"path/filepath"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/foundation/errors"
	"git.home.luguber.info/inful/sitegen/internal/logfields"
	"git.home.luguber.info/inful/sitegen/internal/metrics"
	"git.home.luguber.info/inful/sitegen/internal/output"
)

// BuildCmd implements the 'build' command.
type BuildCmd struct {
	Output      string        `short:"o" help:"Deployment directory (overrides output_dir)"`
	Workers     int           `short:"w" help:"Concurrent conversions (overrides converter.workers)"`
	Timeout     time.Duration `help:"Per-page conversion timeout (overrides converter.timeout)"`
	ReportFile  string        `name:"report-file" help:"Write a JSON build report to this path"`
	MetricsFile string        `name:"metrics-file" help:"Write Prometheus metrics in text format to this path"`
	OutputFlags
}

func (b *BuildCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	if err := b.applyOverrides(cfg); err != nil {
		return err
	}

	logger := g.logger()
	opts := []build.Option{build.WithLogger(logger)}
	var reg *prometheus.Registry
	if cfg.MetricsFile != "" {
		reg = prometheus.NewRegistry()
		opts = append(opts, build.WithRecorder(metrics.NewPrometheusRecorder(reg)))
	}

	builder, err := build.New(cfg, opts...)
	if err != nil {
		return err
	}
	res, buildErr := builder.Build(g.context())

	// Metrics are written for failed builds too so the outcome is visible.
	if reg != nil {
		if err := metrics.WriteTextfile(cfg.Resolve(cfg.MetricsFile), reg); err != nil {
			logger.Warn("Metrics file not written", logfields.Error(err))
		}
	}
	if buildErr != nil {
		return buildErr
	}

	pageBytes, assetBytes := res.Artifacts.Bytes()
	return b.printer(g).Build(output.BuildSummary{
		BuildID:    res.BuildID,
		OutputDir:  res.OutputDir,
		Revision:   res.Revision,
		Pages:      len(res.Artifacts.Pages),
		Assets:     len(res.Artifacts.Assets),
		PageBytes:  pageBytes,
		AssetBytes: assetBytes,
		Duration:   res.Duration,
		Warnings:   res.Warnings,
	})
}

// applyOverrides layers flags over the loaded file and revalidates.
// Paths given on the command line are relative to the working directory.
func (b *BuildCmd) applyOverrides(cfg *config.Config) error {
	abs := func(p string) (string, error) {
		a, err := filepath.Abs(p)
		if err != nil {
			return "", errors.WrapError(err, errors.CategoryValidation, "invalid path flag").WithPath(p).Build()
		}
		return a, nil
	}

	var err error
	if b.Output != "" {
		if cfg.OutputDir, err = abs(b.Output); err != nil {
			return err
		}
	}
	if b.ReportFile != "" {
		if cfg.ReportFile, err = abs(b.ReportFile); err != nil {
			return err
		}
	}
	if b.MetricsFile != "" {
		if cfg.MetricsFile, err = abs(b.MetricsFile); err != nil {
			return err
		}
	}
	if b.Workers < 0 {
		return errors.ValidationError("--workers must not be negative").Build()
	}
	if b.Workers > 0 {
		cfg.Converter.Workers = b.Workers
	}
	if b.Timeout < 0 {
		return errors.ValidationError("--timeout must not be negative").Build()
	}
	if b.Timeout > 0 {
		cfg.Converter.Timeout = b.Timeout.String()
	}
	return config.ValidateConfig(cfg)
}
