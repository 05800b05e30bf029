package commands

import (
	"git.home.luguber.info/inful/sitegen/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite existing configuration file"`
	OutputFlags
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	g.logger().Info("Initializing configuration", "path", root.Config, "force", i.Force)
	if err := config.Init(root.Config, i.Force); err != nil {
		return err
	}
	i.printer(g).Success("Wrote %s", root.Config)
	return nil
}
