// Package demo implements the "demo" command: it runs the built-in scene in
// a desktop window instead of the browser.
package demo

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/engine/ebitenwin"
	"github.com/nightconcept/stage-go/internal/scene"
)

// DemoCommand defines the structure for the "demo" command.
var DemoCommand = &cli.Command{
	Name:  "demo",
	Usage: "Runs the demo scene in a native window",
	Flags: []cli.Flag{
		&cli.IntFlag{
			Name:  "width",
			Usage: "Window width",
			Value: 1024,
		},
		&cli.IntFlag{
			Name:  "height",
			Usage: "Window height",
			Value: 768,
		},
		&cli.IntFlag{
			Name:  "frames",
			Usage: "Render this many frames and exit (0 runs until the window closes)",
		},
	},
	Action: func(c *cli.Context) error {
		eng := ebitenwin.New()
		surface := ebitenwin.NewSurface(scene.SurfaceID, "stage demo", c.Int("width"), c.Int("height"))

		app, err := scene.Startup(eng, surface)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}

		// Startup registered the callbacks; Run blocks inside the engine's
		// render loop until the window closes.
		ctx := app.Ctx.(*ebitenwin.Context)
		if err := ctx.Run(c.Int("frames")); err != nil {
			return cli.Exit(fmt.Sprintf("Error: %v", err), 1)
		}
		return nil
	},
}
