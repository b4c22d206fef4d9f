package main

import (
	"log"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/cli/add"
	"github.com/nightconcept/stage-go/internal/cli/buildcmd"
	"github.com/nightconcept/stage-go/internal/cli/demo"
	"github.com/nightconcept/stage-go/internal/cli/initcmd"
	"github.com/nightconcept/stage-go/internal/cli/install"
	"github.com/nightconcept/stage-go/internal/cli/list"
	"github.com/nightconcept/stage-go/internal/cli/remove"
	"github.com/nightconcept/stage-go/internal/cli/self"
	"github.com/nightconcept/stage-go/internal/cli/start"
)

func main() {
	app := &cli.App{
		Name:    "stage",
		Usage:   "Scaffolds, bundles, and serves small graphics demo projects",
		Version: "v0.1.0",
		Action: func(c *cli.Context) error {
			// Default action if no command is specified
			_ = cli.ShowAppHelp(c)
			return nil
		},
		Commands: []*cli.Command{
			initcmd.GetInitCommand(),
			add.AddCommand,
			remove.RemoveCommand(),
			list.ListCmd,
			install.NewInstallCommand(),
			buildcmd.BuildCommand,
			start.StartCommand,
			demo.DemoCommand,
			self.NewSelfCommand(),
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}
