package list

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/core/config"
	"github.com/nightconcept/stage-go/internal/core/lockfile"
)

// setupListTestEnvironment creates a temporary directory with project.toml,
// stage-lock.toml, and optional dummy dependency files.
func setupListTestEnvironment(t *testing.T, projectTomlContent string, lockfileContent string, depFiles map[string]string) string {
	t.Helper()
	tempDir := t.TempDir()

	if projectTomlContent != "" {
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, config.ProjectTomlName), []byte(projectTomlContent), 0644))
	}
	if lockfileContent != "" {
		require.NoError(t, os.WriteFile(filepath.Join(tempDir, lockfile.LockfileName), []byte(lockfileContent), 0644))
	}
	for relPath, content := range depFiles {
		absPath := filepath.Join(tempDir, relPath)
		require.NoError(t, os.MkdirAll(filepath.Dir(absPath), 0755))
		require.NoError(t, os.WriteFile(absPath, []byte(content), 0644))
	}
	return tempDir
}

// runListCommand executes the list command in testDir and captures stdout.
func runListCommand(t *testing.T, testDir string, appArgs ...string) (string, error) {
	t.Helper()

	originalStdout := os.Stdout
	r, w, err := os.Pipe()
	require.NoError(t, err)
	os.Stdout = w

	originalWD, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(testDir))
	defer func() {
		os.Stdout = originalStdout
		require.NoError(t, os.Chdir(originalWD))
		_ = r.Close()
	}()

	app := &cli.App{
		Commands: []*cli.Command{
			ListCmd,
		},
		ExitErrHandler: func(context *cli.Context, err error) {},
	}
	fullArgs := append([]string{"stage"}, appArgs...)

	// Disable color output for stable assertions.
	t.Setenv("NO_COLOR", "1")

	cmdErr := app.Run(fullArgs)

	_ = w.Close()
	var outBuf bytes.Buffer
	_, _ = outBuf.ReadFrom(r)
	return outBuf.String(), cmdErr
}

func TestListCommand_NoDependencies(t *testing.T) {
	projectTomlContent := `
[package]
name = "test-project"
version = "0.1.0"
license = "MIT"
`
	tempDir := setupListTestEnvironment(t, projectTomlContent, "", nil)
	output, err := runListCommand(t, tempDir, "list")

	require.NoError(t, err)
	assert.Contains(t, output, "test-project@0.1.0")
	assert.Contains(t, output, "dependencies:")
	assert.Contains(t, output, "No dependencies found in project.toml.")
}

func TestListCommand_LockedDependencyWithFile(t *testing.T) {
	projectTomlContent := `
[package]
name = "test-project"
version = "0.1.0"

[dependencies]
helper = { source = "github:owner/repo/helper.js@main", path = "src/lib/helper.js" }
`
	lockfileContent := `
api_version = "1"

[package.helper]
source = "https://raw.githubusercontent.com/owner/repo/main/helper.js"
path = "src/lib/helper.js"
hash = "sha256:abc123"
`
	tempDir := setupListTestEnvironment(t, projectTomlContent, lockfileContent, map[string]string{
		"src/lib/helper.js": "export const x = 1;\n",
	})
	output, err := runListCommand(t, tempDir, "list")

	require.NoError(t, err)
	assert.Contains(t, output, "helper")
	assert.Contains(t, output, "sha256:abc123")
	assert.Contains(t, output, "src/lib/helper.js")
	assert.NotContains(t, output, "missing")
	assert.NotContains(t, output, "not locked")
}

func TestListCommand_UnlockedAndMissingDependency(t *testing.T) {
	projectTomlContent := `
[package]
name = "test-project"
version = "0.1.0"

[dependencies]
ghost = { source = "github:owner/repo/ghost.js@main", path = "src/lib/ghost.js" }
`
	tempDir := setupListTestEnvironment(t, projectTomlContent, "", nil)
	output, err := runListCommand(t, tempDir, "list")

	require.NoError(t, err)
	assert.Contains(t, output, "ghost")
	assert.Contains(t, output, "not locked")
	assert.Contains(t, output, "missing")
}

func TestListCommand_ProjectTomlNotFound(t *testing.T) {
	tempDir := t.TempDir()
	_, err := runListCommand(t, tempDir, "list")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "project.toml not found")
}
