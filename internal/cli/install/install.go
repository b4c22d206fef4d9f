package install

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/core/config"
	"github.com/nightconcept/stage-go/internal/core/downloader"
	"github.com/nightconcept/stage-go/internal/core/hasher"
	"github.com/nightconcept/stage-go/internal/core/lockfile"
	"github.com/nightconcept/stage-go/internal/core/source"
)

// NewInstallCommand creates a new cli.Command for the "install" command. It
// re-downloads every dependency pinned in the lockfile (or the named subset)
// and verifies the recorded integrity hashes.
func NewInstallCommand() *cli.Command {
	return &cli.Command{
		Name:      "install",
		Usage:     "Installs project dependencies from project.toml and the lockfile",
		ArgsUsage: "[dependency_names...]",
		Flags: []cli.Flag{
			&cli.BoolFlag{
				Name:    "force",
				Aliases: []string{"f"},
				Usage:   "Re-download even when the file on disk already matches the lockfile",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable verbose output",
			},
		},
		Action: func(c *cli.Context) error {
			verbose := c.Bool("verbose")
			force := c.Bool("force")

			projCfg, err := config.LoadProjectToml(".")
			if err != nil {
				if errors.Is(err, os.ErrNotExist) {
					return cli.Exit("Error: project.toml not found in the current directory. Please run 'stage init' first.", 1)
				}
				return cli.Exit(fmt.Sprintf("Error loading project.toml: %v", err), 1)
			}

			lf, err := lockfile.Load(".")
			if err != nil {
				return cli.Exit(fmt.Sprintf("Error loading %s: %v", lockfile.LockfileName, err), 1)
			}

			targets := c.Args().Slice()
			if len(targets) == 0 {
				if len(projCfg.Dependencies) == 0 {
					fmt.Println("No dependencies found in project.toml to install.")
					return nil
				}
				for name := range projCfg.Dependencies {
					targets = append(targets, name)
				}
				sort.Strings(targets)
			}

			installed := 0
			for _, name := range targets {
				depDetails, ok := projCfg.Dependencies[name]
				if !ok {
					fmt.Fprintf(os.Stderr, "Warning: Dependency '%s' not found in project.toml. Skipping.\n", name)
					continue
				}

				entry, locked := lf.Package[name]
				downloadURL := entry.Source
				destPath := entry.Path
				if !locked {
					// Unlocked dependency: resolve the descriptor source and
					// pin it now.
					parsed, parseErr := source.ParseSourceURL(depDetails.Source)
					if parseErr != nil {
						return cli.Exit(fmt.Sprintf("Error parsing source for '%s': %v", name, parseErr), 1)
					}
					downloadURL = parsed.RawURL
					destPath = depDetails.Path
				}

				if !force && locked {
					if onDisk, hashErr := hasher.HashFile(destPath); hashErr == nil && onDisk == entry.Hash {
						if verbose {
							fmt.Printf("'%s' is up to date.\n", name)
						}
						continue
					}
				}

				if verbose {
					fmt.Printf("Downloading '%s' from %s...\n", name, downloadURL)
				}
				content, dlErr := downloader.DownloadFile(downloadURL)
				if dlErr != nil {
					return cli.Exit(fmt.Sprintf("Error downloading '%s': %v", name, dlErr), 1)
				}

				contentHash, hashErr := hasher.CalculateSHA256(content)
				if hashErr != nil {
					return cli.Exit(fmt.Sprintf("Error hashing '%s': %v", name, hashErr), 1)
				}
				// Content-pinned entries must match exactly; commit-pinned
				// entries are trusted to the ref baked into the URL.
				if locked && strings.HasPrefix(entry.Hash, "sha256:") && entry.Hash != contentHash {
					return cli.Exit(fmt.Sprintf("Error: integrity mismatch for '%s': lockfile has %s, downloaded %s", name, entry.Hash, contentHash), 1)
				}

				if err := os.MkdirAll(filepath.Dir(destPath), 0755); err != nil {
					return cli.Exit(fmt.Sprintf("Error creating directory for '%s': %v", name, err), 1)
				}
				if err := os.WriteFile(destPath, content, 0644); err != nil {
					return cli.Exit(fmt.Sprintf("Error writing '%s': %v", destPath, err), 1)
				}

				if !locked {
					lf.AddOrUpdatePackage(name, downloadURL, filepath.ToSlash(destPath), contentHash)
				}
				installed++
				fmt.Printf("Installed '%s' -> %s\n", name, destPath)
			}

			if err := lockfile.Save(".", lf); err != nil {
				return cli.Exit(fmt.Sprintf("Error saving %s: %v", lockfile.LockfileName, err), 1)
			}

			if installed == 0 {
				fmt.Println("All dependencies are up to date.")
			}
			return nil
		},
	}
}
