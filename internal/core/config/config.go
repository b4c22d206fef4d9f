package config

import (
	"bytes"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/nightconcept/stage-go/internal/core/project"
)

const ProjectTomlName = "project.toml"
const BuildTomlName = "stage.toml"
const LockfileName = "stage-lock.toml"

// BuildConfig represents the stage.toml build configuration document.
// It is authored once at init time and read once per build/serve invocation;
// nothing in the tool mutates it at runtime.
type BuildConfig struct {
	Compiler CompilerConfig `toml:"compiler"`
	Bundler  BundlerConfig  `toml:"bundler"`
}

// CompilerConfig holds the source-to-output compilation options.
type CompilerConfig struct {
	Target string `toml:"target"`
	Strict bool   `toml:"strict"`
	OutDir string `toml:"out_dir"`
}

// BundlerConfig holds the module bundling options.
type BundlerConfig struct {
	Entry      string      `toml:"entry"`
	Outfile    string      `toml:"outfile"`
	Extensions []string    `toml:"extensions"`
	Serve      ServeConfig `toml:"serve"`
}

// ServeConfig holds the dev-server flags for `stage start`.
type ServeConfig struct {
	Port   string `toml:"port"`
	Open   bool   `toml:"open"`
	Reload bool   `toml:"reload"`
}

// DefaultBuildConfig returns the build configuration written by `stage init`.
func DefaultBuildConfig() *BuildConfig {
	return &BuildConfig{
		Compiler: CompilerConfig{
			Target: "es2020",
			Strict: true,
			OutDir: "dist",
		},
		Bundler: BundlerConfig{
			Entry:      "src/main.js",
			Outfile:    "bundle.js",
			Extensions: []string{".js"},
			Serve: ServeConfig{
				Port:   "8080",
				Open:   false,
				Reload: true,
			},
		},
	}
}

// LoadProjectToml reads the project.toml file from the given dirPath and unmarshals it.
func LoadProjectToml(dirPath string) (*project.Project, error) {
	fullPath := filepath.Join(dirPath, ProjectTomlName)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}

	var proj project.Project
	if err := toml.Unmarshal(data, &proj); err != nil {
		return nil, err
	}
	return &proj, nil
}

// WriteProjectToml marshals the Project data and writes it to the specified dirPath.
// It will overwrite the file if it already exists.
func WriteProjectToml(dirPath string, data *project.Project) error {
	return writeToml(filepath.Join(dirPath, ProjectTomlName), data)
}

// LoadBuildToml reads the stage.toml file from the given dirPath and unmarshals it.
// Missing optional fields fall back to the defaults from DefaultBuildConfig.
func LoadBuildToml(dirPath string) (*BuildConfig, error) {
	fullPath := filepath.Join(dirPath, BuildTomlName)
	data, err := os.ReadFile(fullPath)
	if err != nil {
		return nil, err
	}

	cfg := DefaultBuildConfig()
	if err := toml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	if len(cfg.Bundler.Extensions) == 0 {
		cfg.Bundler.Extensions = []string{".js"}
	}
	return cfg, nil
}

// WriteBuildToml marshals the build configuration and writes it to the specified dirPath.
func WriteBuildToml(dirPath string, cfg *BuildConfig) error {
	return writeToml(filepath.Join(dirPath, BuildTomlName), cfg)
}

func writeToml(fullPath string, data any) error {
	buf := new(bytes.Buffer)
	if err := toml.NewEncoder(buf).Encode(data); err != nil {
		return err
	}

	file, err := os.OpenFile(fullPath, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0644)
	if err != nil {
		return err
	}
	defer func() { _ = file.Close() }()

	_, err = file.Write(buf.Bytes())
	return err
}
