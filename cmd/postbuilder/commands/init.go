package commands

import (
	"fmt"

	"github.com/postbuilder/postbuilder/internal/config"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force bool `help:"Overwrite an existing configuration file"`
}

func (i *InitCmd) Run(g *Global) error {
	if err := config.WriteDefault(g.Config, i.Force); err != nil {
		return err
	}
	fmt.Printf("wrote %s\n", g.Config)
	return nil
}
