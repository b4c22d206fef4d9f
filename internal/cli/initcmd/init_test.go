package initcmd_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/nightconcept/stage-go/internal/cli/initcmd"
	"github.com/nightconcept/stage-go/internal/core/config"
	"github.com/nightconcept/stage-go/internal/core/project"
)

func runInitCommand(t *testing.T, input string, args ...string) error {
	t.Helper()
	app := &cli.App{
		Name: "stage-test-init",
		Commands: []*cli.Command{
			initcmd.GetInitCommand(),
		},
		Writer:         os.Stderr,
		ErrWriter:      os.Stderr,
		ExitErrHandler: func(context *cli.Context, err error) {},
	}
	if input != "" {
		app.Reader = strings.NewReader(input)
	}

	cliArgs := append([]string{"stage-test-init", "init"}, args...)
	return app.Run(cliArgs)
}

func chdirTemp(t *testing.T) string {
	t.Helper()
	originalWd, err := os.Getwd()
	require.NoError(t, err, "Failed to get current working directory")
	tempDir := t.TempDir()
	require.NoError(t, os.Chdir(tempDir), "Failed to change to temporary directory")
	t.Cleanup(func() {
		require.NoError(t, os.Chdir(originalWd), "Failed to restore original working directory")
	})
	return tempDir
}

func TestInitCommand_Defaults(t *testing.T) {
	tempDir := chdirTemp(t)

	err := runInitCommand(t, "", "--yes", "--name", "my-demo")
	require.NoError(t, err)

	// Project descriptor.
	data, err := os.ReadFile(filepath.Join(tempDir, config.ProjectTomlName))
	require.NoError(t, err)
	var proj project.Project
	require.NoError(t, toml.Unmarshal(data, &proj))
	assert.Equal(t, "my-demo", proj.Package.Name)
	assert.Equal(t, "0.1.0", proj.Package.Version)
	assert.Equal(t, "MIT", proj.Package.License)
	assert.Equal(t, "stage start", proj.Scripts["start"])
	assert.Equal(t, "stage build", proj.Scripts["build"])

	// Build configuration.
	cfg, err := config.LoadBuildToml(tempDir)
	require.NoError(t, err)
	assert.Equal(t, "src/main.js", cfg.Bundler.Entry)
	assert.Equal(t, "dist", cfg.Compiler.OutDir)
	assert.Equal(t, "8080", cfg.Bundler.Serve.Port)

	// Scaffold files and directories.
	for _, rel := range []string{"src/main.js", "src/scene.js", "src/index.html"} {
		_, err := os.Stat(filepath.Join(tempDir, filepath.FromSlash(rel)))
		assert.NoError(t, err, "expected scaffold file %s", rel)
	}
	info, err := os.Stat(filepath.Join(tempDir, "src", "lib"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())

	// The scaffolded page must contain the surface element the entry script
	// looks up.
	page, err := os.ReadFile(filepath.Join(tempDir, "src", "index.html"))
	require.NoError(t, err)
	assert.Contains(t, string(page), "id=\"render-canvas\"")
	assert.Contains(t, string(page), "<title>my-demo</title>")
}

func TestInitCommand_InteractivePrompts(t *testing.T) {
	tempDir := chdirTemp(t)

	// name, version, license, description
	input := "prompted-demo\n1.2.3\nApache-2.0\nA prompted project\n"
	err := runInitCommand(t, input)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(tempDir, config.ProjectTomlName))
	require.NoError(t, err)
	var proj project.Project
	require.NoError(t, toml.Unmarshal(data, &proj))
	assert.Equal(t, "prompted-demo", proj.Package.Name)
	assert.Equal(t, "1.2.3", proj.Package.Version)
	assert.Equal(t, "Apache-2.0", proj.Package.License)
	assert.Equal(t, "A prompted project", proj.Package.Description)
}

func TestInitCommand_InvalidVersionRejected(t *testing.T) {
	chdirTemp(t)

	input := "demo\nnot-a-version\nMIT\n\n"
	err := runInitCommand(t, input)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not a valid semantic version")
}

func TestInitCommand_DoesNotClobberExistingSources(t *testing.T) {
	tempDir := chdirTemp(t)

	require.NoError(t, runInitCommand(t, "", "--yes"))

	custom := []byte("// my edited entry\n")
	mainPath := filepath.Join(tempDir, "src", "main.js")
	require.NoError(t, os.WriteFile(mainPath, custom, 0644))

	require.NoError(t, runInitCommand(t, "", "--yes"))

	after, err := os.ReadFile(mainPath)
	require.NoError(t, err)
	assert.Equal(t, custom, after, "re-running init must not overwrite existing sources")
}
