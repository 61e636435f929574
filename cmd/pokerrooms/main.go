package main

import (
	"fmt"

	"github.com/alecthomas/kong"
)

// version is set by ldflags during build
var version = "dev"

type CLI struct {
	Version  kong.VersionFlag `short:"v" help:"Show version"`
	Server   ServerCmd        `cmd:"" help:"Run the room server"`
	Client   ClientCmd        `cmd:"" help:"Connect to a server with the terminal client"`
	Simulate SimulateCmd      `cmd:"" help:"Play bot-only tables and report results"`
	History  HistoryCmd       `cmd:"" help:"Print recorded PHH hand histories"`
	Info     VersionCmd       `cmd:"version" help:"Print the version"`
}

// VersionCmd prints the build version
type VersionCmd struct{}

func (c *VersionCmd) Run() error {
	fmt.Println("pokerrooms", version)
	return nil
}

func main() {
	var cli CLI
	ctx := kong.Parse(&cli,
		kong.Name("pokerrooms"),
		kong.Description("Texas Hold'em rooms for friends and bots"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact: true,
		}),
		kong.Vars{
			"version": version,
		},
	)
	err := ctx.Run()
	ctx.FatalIfErrorf(err)
}
