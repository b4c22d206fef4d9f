// Package buildcmd implements the "build" command: it runs the bundling
// pipeline described by stage.toml and reports what was produced.
package buildcmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/core/bundler"
	"github.com/nightconcept/stage-go/internal/core/config"
)

// BuildCommand defines the structure for the "build" command.
var BuildCommand = &cli.Command{
	Name:  "build",
	Usage: "Bundles the project sources into the output directory",
	Flags: []cli.Flag{
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose output",
		},
	},
	Action: func(c *cli.Context) error {
		res, err := Run(".", "", c.Bool("verbose"))
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		color.New(color.FgGreen).Printf("Built %s (%d modules).\n", res.BundlePath, len(res.Modules))
		return nil
	},
}

// Run executes one build for the project at root. reloadJS, when non-empty,
// is injected into the emitted page; the dev server passes its client
// snippet, plain builds pass "".
func Run(root, reloadJS string, verbose bool) (*bundler.Result, error) {
	cfg, err := config.LoadBuildToml(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%s not found. Run 'stage init' first", config.BuildTomlName)
		}
		return nil, fmt.Errorf("loading %s: %w", config.BuildTomlName, err)
	}

	res, err := bundler.Build(bundler.Options{
		Root:       root,
		Entry:      cfg.Bundler.Entry,
		Outfile:    cfg.Bundler.Outfile,
		OutDir:     cfg.Compiler.OutDir,
		Extensions: cfg.Bundler.Extensions,
		Strict:     cfg.Compiler.Strict,
		Target:     cfg.Compiler.Target,
		HTMLEntry:  filepath.Join(filepath.Dir(cfg.Bundler.Entry), "index.html"),
		ReloadJS:   reloadJS,
	})
	if err != nil {
		return nil, err
	}

	for _, w := range res.Warnings {
		fmt.Fprintf(os.Stderr, "Warning: %s\n", w)
	}
	if verbose {
		for _, m := range res.Modules {
			fmt.Printf("  bundled %s\n", m)
		}
		fmt.Printf("  bundle hash %s\n", res.Hash)
	}
	return res, nil
}
