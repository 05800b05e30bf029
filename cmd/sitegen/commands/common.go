package commands

import (
	"context"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"git.home.luguber.info/inful/sitegen/internal/config"
	"git.home.luguber.info/inful/sitegen/internal/output"
)

// Global carries process-wide state into subcommands.
type Global struct {
	Ctx    context.Context
	Logger *slog.Logger
	Stdout io.Writer
}

// NewGlobal bundles the signal-aware context, logger and output stream.
func NewGlobal(ctx context.Context, logger *slog.Logger, stdout io.Writer) *Global {
	return &Global{Ctx: ctx, Logger: logger, Stdout: stdout}
}

// CLI definition & global flags.
type CLI struct {
	Config  string           `short:"c" help:"Configuration file path (YAML or TOML)" default:"site.yaml" env:"SITEGEN_CONFIG"`
	Verbose bool             `short:"v" help:"Enable verbose logging"`
	Version kong.VersionFlag `name:"version" help:"Show version and exit"`

	Build   BuildCmd   `cmd:"" help:"Convert, assemble and publish the site"`
	Check   CheckCmd   `cmd:"" help:"Validate configuration and classify sources without building"`
	Catalog CatalogCmd `cmd:"" help:"Show the page catalog and its navigation"`
	Init    InitCmd    `cmd:"" help:"Write an example configuration file"`
}

// AfterApply runs after flag parsing; setup logging once.
// nolint:unparam // AfterApply currently never returns an error.
func (c *CLI) AfterApply() error {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: parseLogLevel(c.Verbose)}))
	slog.SetDefault(logger)
	return nil
}

// parseLogLevel honors --verbose first, then SITEGEN_LOG_LEVEL.
func parseLogLevel(verbose bool) slog.Level {
	if verbose {
		return slog.LevelDebug
	}
	switch strings.ToLower(strings.TrimSpace(os.Getenv("SITEGEN_LOG_LEVEL"))) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// OutputFlags are shared by commands that print a summary.
type OutputFlags struct {
	Color string `enum:"auto,always,never" default:"auto" help:"Colorize output (auto|always|never)"`
	JSON  bool   `help:"Print machine-readable JSON instead of text"`
}

func (o OutputFlags) printer(g *Global) *output.Printer {
	color := output.ResolveColorMode(o.Color, output.IsTTY(g.Stdout))
	return output.NewPrinter(g.Stdout, o.JSON, color).WithStderr(os.Stderr)
}

func (g *Global) logger() *slog.Logger {
	if g.Logger != nil {
		return g.Logger
	}
	return slog.Default()
}

func (g *Global) context() context.Context {
	if g.Ctx != nil {
		return g.Ctx
	}
	return context.Background()
}

// loadConfig loads the configuration named by the global --config flag.
func loadConfig(root *CLI) (*config.Config, error) {
	return config.Load(root.Config)
}
