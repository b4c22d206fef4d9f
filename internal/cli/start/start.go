// Package start implements the "start" command: build once, then serve the
// output directory locally with file watching and live reload.
package start

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/cli/buildcmd"
	"github.com/nightconcept/stage-go/internal/core/config"
	"github.com/nightconcept/stage-go/internal/core/devserver"
)

// StartCommand defines the structure for the "start" command.
var StartCommand = &cli.Command{
	Name:  "start",
	Usage: "Serves the project locally with live reload",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "port",
			Aliases: []string{"p"},
			Usage:   "Port to serve on (overrides stage.toml)",
		},
		&cli.BoolFlag{
			Name:  "open",
			Usage: "Open the served page in a browser",
		},
		&cli.BoolFlag{
			Name:  "no-reload",
			Usage: "Disable live reload",
		},
	},
	Action: func(c *cli.Context) error {
		cfg, err := config.LoadBuildToml(".")
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error loading %s: %v. Run 'stage init' first.", config.BuildTomlName, err), 1)
		}

		port := cfg.Bundler.Serve.Port
		if port == "" {
			port = "8080"
		}
		if c.String("port") != "" {
			port = c.String("port")
		}
		reload := cfg.Bundler.Serve.Reload && !c.Bool("no-reload")
		open := cfg.Bundler.Serve.Open || c.Bool("open")

		reloadJS := ""
		if reload {
			reloadJS = devserver.ReloadJS
		}

		rebuild := func() error {
			_, err := buildcmd.Run(".", reloadJS, false)
			return err
		}
		if err := rebuild(); err != nil {
			return cli.Exit(fmt.Sprintf("Error: initial build failed: %v", err), 1)
		}

		srv := devserver.New("src", cfg.Compiler.OutDir, port)
		srv.Reload = reload
		srv.Open = open
		srv.Rebuild = rebuild

		if err := srv.ListenAndServe(); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		return nil
	},
}
