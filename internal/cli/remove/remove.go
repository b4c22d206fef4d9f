package remove

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/core/config"
	"github.com/nightconcept/stage-go/internal/core/lockfile"
)

// RemoveCommand defines the structure for the 'remove' CLI command. It is the
// inverse of add: the dependency leaves the descriptor, the lockfile, and the
// library directory.
func RemoveCommand() *cli.Command {
	return &cli.Command{
		Name:      "remove",
		Usage:     "Removes a dependency from the project",
		ArgsUsage: "<dependency_name>",
		Action: func(c *cli.Context) error {
			if c.NArg() < 1 {
				return cli.Exit("Error: Missing dependency name argument.", 1)
			}
			dependencyName := c.Args().First()

			proj, err := config.LoadProjectToml(".")
			if err != nil {
				if os.IsNotExist(err) {
					return cli.Exit(fmt.Sprintf("Error: %s not found in the current directory.", config.ProjectTomlName), 1)
				}
				return cli.Exit(fmt.Sprintf("Error: Failed to load %s: %v", config.ProjectTomlName, err), 1)
			}

			dep, ok := proj.Dependencies[dependencyName]
			if !ok {
				return cli.Exit(fmt.Sprintf("Error: Dependency '%s' not found in %s.", dependencyName, config.ProjectTomlName), 1)
			}

			delete(proj.Dependencies, dependencyName)
			if err := config.WriteProjectToml(".", proj); err != nil {
				return cli.Exit(fmt.Sprintf("Error: Failed to update %s: %v", config.ProjectTomlName, err), 1)
			}

			lf, err := lockfile.Load(".")
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error: Failed to load %s: %v", lockfile.LockfileName, err), 1)
			}
			lf.RemovePackage(dependencyName)
			if err := lockfile.Save(".", lf); err != nil {
				return cli.Exit(fmt.Sprintf("Error: Failed to update %s: %v", lockfile.LockfileName, err), 1)
			}

			if dep.Path != "" {
				if err := os.Remove(dep.Path); err != nil && !os.IsNotExist(err) {
					fmt.Fprintf(os.Stderr, "Warning: could not delete '%s': %v\n", dep.Path, err)
				} else {
					// Drop the containing directory too when the removal left
					// it empty.
					dir := filepath.Dir(dep.Path)
					if entries, readErr := os.ReadDir(dir); readErr == nil && len(entries) == 0 {
						_ = os.Remove(dir)
					}
				}
			}

			fmt.Printf("Removed dependency '%s'.\n", dependencyName)
			return nil
		},
	}
}
