// Package initcmd implements the "init" command: it scaffolds a new demo
// project in the current directory.
package initcmd

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/core/config"
	"github.com/nightconcept/stage-go/internal/core/project"
)

// mainJS is the scaffolded entry module. It wires the demo startup sequence
// against the engine exposed by the host page.
const mainJS = `import { createScene } from "./scene.js";

const canvas = document.getElementById("render-canvas");
const engine = new Engine(canvas);
const scene = createScene(engine, canvas);

engine.runRenderLoop(() => {
    scene.render();
});

window.addEventListener("resize", () => {
    engine.resize();
});
`

// sceneJS builds the scene contents: one orbiting camera, one light, a sphere
// and a ground plane.
const sceneJS = `export function createScene(engine, canvas) {
    const scene = new Scene(engine);

    const camera = new ArcRotateCamera("camera", -Math.PI / 2, Math.PI / 2.5, 3, Vector3.Zero(), scene);
    camera.attachControl(canvas, true);

    const light = new HemisphericLight("light", new Vector3(0, 1, 0), scene);
    light.intensity = 0.7;

    const sphere = MeshBuilder.CreateSphere("sphere", { diameter: 2, segments: 32 }, scene);
    sphere.position.y = 1;

    MeshBuilder.CreateGround("ground", { width: 6, height: 6 }, scene);

    return scene;
}
`

const indexHTML = `<!DOCTYPE html>
<html>
<head>
    <meta charset="utf-8" />
    <title>%s</title>
    <style>
        html, body { margin: 0; padding: 0; width: 100%%; height: 100%%; }
        #render-canvas { width: 100%%; height: 100%%; display: block; }
    </style>
</head>
<body>
    <canvas id="render-canvas"></canvas>
    <script src="bundle.js"></script>
</body>
</html>
`

// promptWithDefault prompts the user and returns their input, falling back to
// the default when they just press enter.
func promptWithDefault(reader *bufio.Reader, promptText string, defaultValue string) (string, error) {
	if defaultValue != "" {
		fmt.Printf("%s (default: %s): ", promptText, defaultValue)
	} else {
		fmt.Printf("%s: ", promptText)
	}

	input, err := reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("failed to read input for '%s': %w", promptText, err)
	}
	input = strings.TrimSpace(input)
	if input == "" {
		return defaultValue, nil
	}
	return input, nil
}

// GetInitCommand returns the definition for the "init" command.
func GetInitCommand() *cli.Command {
	return &cli.Command{
		Name:  "init",
		Usage: "Initialize a new stage project in the current directory",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "yes",
				Aliases: []string{"y"},
				Usage:   "Accept all defaults without prompting",
			},
			&cli.StringFlag{
				Name:  "name",
				Usage: "Project name (defaults to the current directory name)",
			},
		},
		Action: func(c *cli.Context) error {
			wd, err := os.Getwd()
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error determining working directory: %v", err), 1)
			}

			defaultName := c.String("name")
			if defaultName == "" {
				defaultName = filepath.Base(wd)
			}

			packageName := defaultName
			version := "0.1.0"
			license := "MIT"
			description := ""

			if !c.Bool("yes") {
				reader := bufio.NewReader(c.App.Reader)

				packageName, err = promptWithDefault(reader, "Project name", defaultName)
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				version, err = promptWithDefault(reader, "Version", "0.1.0")
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				license, err = promptWithDefault(reader, "License", "MIT")
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
				description, err = promptWithDefault(reader, "Description (optional)", "")
				if err != nil {
					return cli.Exit(err.Error(), 1)
				}
			}

			if _, err := semver.NewVersion(version); err != nil {
				return cli.Exit(fmt.Sprintf("Error: version '%s' is not a valid semantic version: %v", version, err), 1)
			}

			proj := project.NewProject()
			proj.Package = &project.PackageInfo{
				Name:        packageName,
				Version:     version,
				License:     license,
				Description: description,
			}
			proj.Scripts["start"] = "stage start"
			proj.Scripts["build"] = "stage build"

			if err := config.WriteProjectToml(".", proj); err != nil {
				return cli.Exit(fmt.Sprintf("Error writing %s: %v", config.ProjectTomlName, err), 1)
			}

			if err := config.WriteBuildToml(".", config.DefaultBuildConfig()); err != nil {
				return cli.Exit(fmt.Sprintf("Error writing %s: %v", config.BuildTomlName, err), 1)
			}

			if err := writeScaffold(packageName); err != nil {
				return cli.Exit(fmt.Sprintf("Error writing scaffold: %v", err), 1)
			}

			fmt.Printf("Initialized project '%s'.\n", packageName)
			fmt.Println("Run 'stage start' to serve it locally, 'stage build' to produce dist/.")
			return nil
		},
	}
}

// writeScaffold creates the source skeleton. Existing source files are left
// untouched so re-running init never clobbers work in progress.
func writeScaffold(name string) error {
	for _, dir := range []string{"src", filepath.Join("src", "lib")} {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}

	files := map[string]string{
		filepath.Join("src", "main.js"):    mainJS,
		filepath.Join("src", "scene.js"):   sceneJS,
		filepath.Join("src", "index.html"): fmt.Sprintf(indexHTML, name),
	}
	for path, content := range files {
		if _, err := os.Stat(path); err == nil {
			continue
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			return err
		}
	}
	return nil
}
