package main

import (
	"context"

	"github.com/alecthomas/kong"

	"github.com/CPU-JIA/axiom-cli/cmd/axiom/internal/commands"
)

var (
	version = "dev"
	cli     struct {
		Login    commands.LoginCmd    `cmd:"" help:"Sign in to Axiom"`
		Logout   commands.LogoutCmd   `cmd:"" help:"Sign out and clear the local session"`
		Whoami   commands.WhoamiCmd   `cmd:"" help:"Show the current session"`
		Projects commands.ProjectsCmd `cmd:"" help:"Work with projects"`
		Tasks    commands.TasksCmd    `cmd:"" help:"Work with tasks"`
		Config   commands.ConfigCmd   `cmd:"" help:"Manage client configuration"`

		Debug      bool   `help:"Enable debug mode."`
		Offline    bool   `help:"Use the built-in offline login."`
		ConfigFile string `help:"Client config file path." type:"path"`
		Version    kong.VersionFlag
	}
)

func main() {
	ctx := context.Background()
	cmd := kong.Parse(&cli,
		kong.Vars{
			"version": version,
		},
		kong.BindTo(ctx, (*context.Context)(nil)))
	err := cmd.Run(&commands.Globals{
		Debug:      cli.Debug,
		Offline:    cli.Offline,
		ConfigFile: cli.ConfigFile,
		Version:    version,
	})
	cmd.FatalIfErrorf(err)
}
