package commands

import (
	"context"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/CPU-JIA/axiom-cli/internal/config"
)

type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" help:"Show the effective configuration"`
	Init ConfigInitCmd `cmd:"" help:"Write a default config file"`
}

type ConfigShowCmd struct{}

func (c *ConfigShowCmd) Run(ctx context.Context, globals *Globals) error {
	cfg, err := config.Load(globals.ConfigFile)
	if err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to render config: %w", err)
	}
	fmt.Print(string(data))
	return nil
}

type ConfigInitCmd struct {
	Force bool `help:"Overwrite an existing config file" default:"false"`
}

func (c *ConfigInitCmd) Run(ctx context.Context, globals *Globals) error {
	path := globals.ConfigFile
	if path == "" {
		var err error
		if path, err = config.DefaultPath(); err != nil {
			return err
		}
	}

	if _, err := os.Stat(path); err == nil && !c.Force {
		return fmt.Errorf("config already exists at %s (use --force to overwrite)", path)
	}

	if err := config.Default().Write(path); err != nil {
		return err
	}
	fmt.Printf("Wrote %s\n", path)
	return nil
}
