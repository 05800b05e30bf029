package commands

import (
	"git.home.luguber.info/inful/sitegen/internal/build"
	"git.home.luguber.info/inful/sitegen/internal/output"
)

// CheckCmd implements the 'check' command.
type CheckCmd struct {
	OutputFlags
}

func (c *CheckCmd) Run(g *Global, root *CLI) error {
	cfg, err := loadConfig(root)
	if err != nil {
		return err
	}
	builder, err := build.New(cfg, build.WithLogger(g.logger()))
	if err != nil {
		return err
	}
	pages, err := builder.Check(g.context())
	if err != nil {
		return err
	}
	return c.printer(g).Check(output.CheckSummary{
		ConfigFile: root.Config,
		SourceDir:  cfg.SourcePath(),
		Pages:      len(pages),
	})
}
