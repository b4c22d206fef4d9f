package list

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/core/config"
	"github.com/nightconcept/stage-go/internal/core/lockfile"
)

// dependencyDisplayInfo holds all information needed for displaying a dependency.
type dependencyDisplayInfo struct {
	Name           string
	ProjectSource  string
	ProjectPath    string
	LockedHash     string
	IsLocked       bool
	FileExists     bool
	FileStatusInfo string
}

// ListCmd defines the structure for the 'list' command.
var ListCmd = &cli.Command{
	Name:    "list",
	Aliases: []string{"ls"},
	Usage:   "Displays project dependencies and their status.",
	Action: func(c *cli.Context) error {
		proj, err := config.LoadProjectToml(".")
		if err != nil {
			if os.IsNotExist(err) {
				return cli.Exit(fmt.Sprintf("Error: %s not found. No project configuration loaded.", config.ProjectTomlName), 1)
			}
			return cli.Exit(fmt.Sprintf("Error loading %s: %v", config.ProjectTomlName, err), 1)
		}

		lf, err := lockfile.Load(".")
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error loading %s: %v", lockfile.LockfileName, err), 1)
		}

		wd, err := os.Getwd()
		if err != nil {
			wd = "."
		}

		projectNameColor := color.New(color.FgMagenta, color.Bold, color.Underline).SprintFunc()
		projectVersionColor := color.New(color.FgMagenta).SprintFunc()
		projectPathColor := color.New(color.FgHiBlack, color.Bold, color.Underline).SprintFunc()
		dependenciesHeaderColor := color.New(color.FgCyan, color.Bold).SprintFunc()
		depNameColor := color.New(color.FgWhite).SprintFunc()
		depHashColor := color.New(color.FgYellow).SprintFunc()
		depPathColor := color.New(color.FgHiBlack).SprintFunc()

		fmt.Printf("%s@%s %s\n", projectNameColor(proj.Package.Name), projectVersionColor(proj.Package.Version), projectPathColor(wd))
		fmt.Println()

		fmt.Println(dependenciesHeaderColor("dependencies:"))
		if len(proj.Dependencies) == 0 {
			fmt.Println("No dependencies found in project.toml.")
			return nil
		}

		names := make([]string, 0, len(proj.Dependencies))
		for name := range proj.Dependencies {
			names = append(names, name)
		}
		sort.Strings(names)

		var displayDeps []dependencyDisplayInfo
		for _, name := range names {
			depDetails := proj.Dependencies[name]
			info := dependencyDisplayInfo{
				Name:          name,
				ProjectSource: depDetails.Source,
				ProjectPath:   depDetails.Path,
			}

			if lockEntry, ok := lf.Package[name]; ok {
				info.IsLocked = true
				info.LockedHash = lockEntry.Hash
			} else {
				info.FileStatusInfo = "not locked"
			}

			if _, err := os.Stat(depDetails.Path); err == nil {
				info.FileExists = true
			} else if os.IsNotExist(err) {
				if info.FileStatusInfo != "" {
					info.FileStatusInfo += ", missing"
				} else {
					info.FileStatusInfo = "missing"
				}
			} else {
				fmt.Fprintf(os.Stderr, "Warning: could not check status of %s: %v\n", depDetails.Path, err)
			}
			displayDeps = append(displayDeps, info)
		}

		for _, dep := range displayDeps {
			lockedHash := "not locked"
			if dep.IsLocked && dep.LockedHash != "" {
				lockedHash = dep.LockedHash
			} else if dep.IsLocked {
				lockedHash = "locked (no hash)"
			}

			line := fmt.Sprintf("%s %s %s", depNameColor(dep.Name), depHashColor(lockedHash), depPathColor(dep.ProjectPath))
			if dep.FileStatusInfo != "" && dep.FileStatusInfo != "not locked" {
				line += " (" + dep.FileStatusInfo + ")"
			}
			fmt.Println(line)
		}
		return nil
	},
}
