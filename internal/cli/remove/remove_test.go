package remove_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/cli/remove"
	"github.com/nightconcept/stage-go/internal/core/config"
	"github.com/nightconcept/stage-go/internal/core/lockfile"
	"github.com/nightconcept/stage-go/internal/core/project"
)

func runRemoveCommand(t *testing.T, args ...string) error {
	t.Helper()
	app := &cli.App{
		Name: "stage-test-remove",
		Commands: []*cli.Command{
			remove.RemoveCommand(),
		},
		Writer:         os.Stderr,
		ErrWriter:      os.Stderr,
		ExitErrHandler: func(context *cli.Context, err error) {},
	}
	cliArgs := append([]string{"stage-test-remove", "remove"}, args...)
	return app.Run(cliArgs)
}

// setupProjectWithDependency builds a project containing one installed
// dependency: descriptor entry, lockfile entry, and the file on disk.
func setupProjectWithDependency(t *testing.T, depName, depRelPath string) string {
	t.Helper()
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	tempDir := t.TempDir()
	require.NoError(t, os.Chdir(tempDir))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalWd))
	})

	proj := project.NewProject()
	proj.Package.Name = "remove-test"
	proj.Dependencies[depName] = project.Dependency{
		Source: "github:owner/repo/" + depName + ".js@main",
		Path:   depRelPath,
	}
	require.NoError(t, config.WriteProjectToml(tempDir, proj))

	lf := lockfile.New()
	lf.AddOrUpdatePackage(depName, "https://example.com/"+depName+".js", depRelPath, "sha256:dummy")
	require.NoError(t, lockfile.Save(tempDir, lf))

	fullPath := filepath.Join(tempDir, filepath.FromSlash(depRelPath))
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0755))
	require.NoError(t, os.WriteFile(fullPath, []byte("export const x = 1;\n"), 0644))
	return tempDir
}

func TestRemoveCommand_Successful(t *testing.T) {
	tempDir := setupProjectWithDependency(t, "helper", "src/lib/helper.js")

	require.NoError(t, runRemoveCommand(t, "helper"))

	// Descriptor no longer lists the dependency.
	var proj project.Project
	raw, err := os.ReadFile(filepath.Join(tempDir, config.ProjectTomlName))
	require.NoError(t, err)
	require.NoError(t, toml.Unmarshal(raw, &proj))
	_, ok := proj.Dependencies["helper"]
	assert.False(t, ok, "dependency should be gone from the descriptor")

	// Lockfile entry is gone.
	lf, err := lockfile.Load(tempDir)
	require.NoError(t, err)
	_, ok = lf.Package["helper"]
	assert.False(t, ok, "dependency should be gone from the lockfile")

	// The file was deleted, and the now-empty lib directory with it.
	_, statErr := os.Stat(filepath.Join(tempDir, "src", "lib", "helper.js"))
	assert.True(t, os.IsNotExist(statErr))
	_, statErr = os.Stat(filepath.Join(tempDir, "src", "lib"))
	assert.True(t, os.IsNotExist(statErr), "empty library directory should be removed")
}

func TestRemoveCommand_KeepsDirectoryWithOtherFiles(t *testing.T) {
	tempDir := setupProjectWithDependency(t, "helper", "src/lib/helper.js")
	other := filepath.Join(tempDir, "src", "lib", "other.js")
	require.NoError(t, os.WriteFile(other, []byte("export const y = 2;\n"), 0644))

	require.NoError(t, runRemoveCommand(t, "helper"))

	_, err := os.Stat(other)
	assert.NoError(t, err, "sibling files must survive a removal")
	_, err = os.Stat(filepath.Join(tempDir, "src", "lib"))
	assert.NoError(t, err, "non-empty library directory must survive")
}

func TestRemoveCommand_DependencyNotFound(t *testing.T) {
	tempDir := setupProjectWithDependency(t, "helper", "src/lib/helper.js")

	err := runRemoveCommand(t, "non-existent-dep")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Error: Dependency 'non-existent-dep' not found in project.toml.")

	// Nothing was touched.
	_, statErr := os.Stat(filepath.Join(tempDir, "src", "lib", "helper.js"))
	assert.NoError(t, statErr)
	lf, loadErr := lockfile.Load(tempDir)
	require.NoError(t, loadErr)
	_, ok := lf.Package["helper"]
	assert.True(t, ok)
}

func TestRemoveCommand_MissingProjectToml(t *testing.T) {
	originalWd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalWd))
	})

	err = runRemoveCommand(t, "anything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project.toml not found")
}

func TestRemoveCommand_MissingArgument(t *testing.T) {
	setupProjectWithDependency(t, "helper", "src/lib/helper.js")
	err := runRemoveCommand(t)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Missing dependency name argument")
}
