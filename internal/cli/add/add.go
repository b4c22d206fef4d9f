package add

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/core/config"
	"github.com/nightconcept/stage-go/internal/core/downloader"
	"github.com/nightconcept/stage-go/internal/core/hasher"
	"github.com/nightconcept/stage-go/internal/core/lockfile"
	"github.com/nightconcept/stage-go/internal/core/project"
	"github.com/nightconcept/stage-go/internal/core/source"
)

func fileNameWithoutExtension(fileName string) string {
	return strings.TrimSuffix(fileName, filepath.Ext(fileName))
}

// AddCommand defines the structure for the "add" command. It downloads a
// single-file dependency into the library directory and records it in the
// project descriptor and lockfile.
var AddCommand = &cli.Command{
	Name:      "add",
	Usage:     "Downloads a dependency and adds it to the project",
	ArgsUsage: "<source_url>",
	Flags: []cli.Flag{
		&cli.StringFlag{
			Name:    "directory",
			Aliases: []string{"d"},
			Usage:   "Specify the target directory for the dependency",
			Value:   "src/lib/",
		},
		&cli.StringFlag{
			Name:    "name",
			Aliases: []string{"n"},
			Usage:   "Specify the name for the dependency (defaults to filename from URL)",
		},
		&cli.BoolFlag{
			Name:  "verbose",
			Usage: "Enable verbose output",
		},
	},
	Action: func(cCtx *cli.Context) error {
		if cCtx.NArg() < 1 {
			return cli.Exit("Error: <source_url> argument is required.", 1)
		}
		sourceURLInput := cCtx.Args().Get(0)

		targetDir := cCtx.String("directory")
		customName := cCtx.String("name")
		verbose := cCtx.Bool("verbose")

		parsedInfo, err := source.ParseSourceURL(sourceURLInput)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error parsing source URL '%s': %v", sourceURLInput, err), 1)
		}

		if verbose {
			fmt.Printf("Downloading from %s...\n", parsedInfo.RawURL)
		}
		fileContent, err := downloader.DownloadFile(parsedInfo.RawURL)
		if err != nil {
			return cli.Exit(fmt.Sprintf("Error downloading file from '%s': %v", parsedInfo.RawURL, err), 1)
		}
		if verbose {
			fmt.Printf("Downloaded %d bytes successfully.\n", len(fileContent))
		}

		var dependencyNameInManifest string
		var fileNameOnDisk string

		suggestedBaseName := fileNameWithoutExtension(parsedInfo.SuggestedFilename)
		suggestedExtension := filepath.Ext(parsedInfo.SuggestedFilename)

		if customName != "" {
			dependencyNameInManifest = customName
			fileNameOnDisk = customName + suggestedExtension
		} else {
			if suggestedBaseName == "" || suggestedBaseName == "." || suggestedBaseName == "/" {
				return cli.Exit(fmt.Sprintf("Error: Could not infer a valid base filename from URL's suggested filename: '%s'. Use -n to specify a name.", parsedInfo.SuggestedFilename), 1)
			}
			dependencyNameInManifest = suggestedBaseName
			fileNameOnDisk = parsedInfo.SuggestedFilename
		}

		projectRoot := "."
		fullPath := filepath.Join(projectRoot, targetDir, fileNameOnDisk)
		relativeDestPath := filepath.ToSlash(filepath.Join(targetDir, fileNameOnDisk))

		if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
			return cli.Exit(fmt.Sprintf("Error creating directory '%s': %v", filepath.Dir(fullPath), err), 1)
		}

		if err := os.WriteFile(fullPath, fileContent, 0644); err != nil {
			return cli.Exit(fmt.Sprintf("Error writing file '%s': %v", fullPath, err), 1)
		}
		// The file is on disk now; undo it if any later step fails so a failed
		// add leaves no trace.
		fileWritten := true
		defer func() {
			if err != nil && fileWritten {
				if cleanupErr := os.Remove(fullPath); cleanupErr != nil {
					fmt.Fprintf(os.Stderr, "Warning: Failed to clean up downloaded file '%s': %v\n", fullPath, cleanupErr)
				}
			}
		}()

		fileHashSHA256, hashErr := hasher.CalculateSHA256(fileContent)
		if hashErr != nil {
			err = fmt.Errorf("calculating SHA256 hash: %w", hashErr)
			return cli.Exit(fmt.Sprintf("Error %s. File '%s' was saved but is now being cleaned up.", err, fullPath), 1)
		}

		proj, loadTomlErr := config.LoadProjectToml(projectRoot)
		if loadTomlErr != nil {
			if os.IsNotExist(loadTomlErr) {
				err = fmt.Errorf("project.toml not found: %w", loadTomlErr)
				return cli.Exit(fmt.Sprintf("Error: %s. Run 'stage init' first.", err), 1)
			}
			err = fmt.Errorf("loading %s: %w", config.ProjectTomlName, loadTomlErr)
			return cli.Exit(fmt.Sprintf("Error %s. File '%s' was saved but is now being cleaned up.", err, fullPath), 1)
		}

		if proj.Dependencies == nil {
			proj.Dependencies = make(map[string]project.Dependency)
		}
		proj.Dependencies[dependencyNameInManifest] = project.Dependency{
			Source: parsedInfo.CanonicalURL,
			Path:   relativeDestPath,
		}

		if writeTomlErr := config.WriteProjectToml(projectRoot, proj); writeTomlErr != nil {
			err = fmt.Errorf("writing %s: %w", config.ProjectTomlName, writeTomlErr)
			return cli.Exit(fmt.Sprintf("Error %s. File '%s' is being cleaned up.", err, fullPath), 1)
		}

		lf, loadLockErr := lockfile.Load(projectRoot)
		if loadLockErr != nil {
			err = fmt.Errorf("loading/initializing %s: %w", lockfile.LockfileName, loadLockErr)
			return cli.Exit(fmt.Sprintf("Error %s. %s may be inconsistent; downloaded file '%s' is being cleaned up.", err, config.ProjectTomlName, fullPath), 1)
		}

		// Pin by commit when the ref is an exact SHA; otherwise pin the
		// downloaded content itself.
		integrityHash := fileHashSHA256
		if parsedInfo.Provider == "github" && source.IsCommitSHA(parsedInfo.Ref) {
			integrityHash = fmt.Sprintf("commit:%s", parsedInfo.Ref)
		}

		lf.AddOrUpdatePackage(dependencyNameInManifest, parsedInfo.RawURL, relativeDestPath, integrityHash)

		if saveLockErr := lockfile.Save(projectRoot, lf); saveLockErr != nil {
			err = fmt.Errorf("saving %s: %w", lockfile.LockfileName, saveLockErr)
			return cli.Exit(fmt.Sprintf("Error %s. %s and %s may be inconsistent; downloaded file '%s' is being cleaned up.", err, config.ProjectTomlName, lockfile.LockfileName, fullPath), 1)
		}

		fmt.Printf("Successfully added '%s' from '%s' to '%s'.\nUpdated %s and %s.\n",
			dependencyNameInManifest, sourceURLInput, fullPath, config.ProjectTomlName, lockfile.LockfileName)

		return nil
	},
}
