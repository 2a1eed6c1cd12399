package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/mfialho/go-bookpub/internal/fileutil"
	"github.com/mfialho/go-bookpub/internal/yamlutil"
)

// Sentinel errors for configuration loading.
var (
	ErrConfigNotFound = errors.New("config file not found")
	ErrConfigParse    = errors.New("failed to parse config file")
)

// defaultConfigName is looked up in the working directory and the user
// config directory when no explicit path is given.
const defaultConfigName = "bookpub.yaml"

// Config mirrors the YAML configuration file. Every field is optional;
// flags override config values, config values override defaults.
type Config struct {
	OutputDir string   `yaml:"output_dir"`
	Platform  string   `yaml:"platform"`
	Theme     string   `yaml:"theme"`
	Formats   []string `yaml:"formats"`

	Author   string `yaml:"author"`
	Language string `yaml:"language"`

	FontFamily  string  `yaml:"font_family"`
	FontSize    float64 `yaml:"font_size"`
	LineSpacing float64 `yaml:"line_spacing"`

	NoCover       bool `yaml:"no_cover"`
	NoTOC         bool `yaml:"no_toc"`
	NoCopyright   bool `yaml:"no_copyright"`
	NoAboutAuthor bool `yaml:"no_about_author"`
}

// loadConfig resolves and parses the configuration file. An empty name
// with no discoverable default file yields an empty config, not an
// error: the file is optional.
func loadConfig(name string, env *Environment) (*Config, error) {
	path, err := resolveConfigPath(name, env)
	if err != nil {
		if name == "" && errors.Is(err, ErrConfigNotFound) {
			return &Config{}, nil
		}
		return nil, err
	}

	data, err := os.ReadFile(path) // #nosec G304 -- path resolved from user request
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yamlutil.UnmarshalStrict(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrConfigParse, path, err)
	}
	return &cfg, nil
}

// resolveConfigPath locates the config file. Explicit paths are used as
// given; bare names are searched in the working directory, then in the
// per-user config directory.
func resolveConfigPath(name string, env *Environment) (string, error) {
	if name != "" && fileutil.IsFilePath(name) {
		if !fileutil.FileExists(name) {
			return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
		}
		return name, nil
	}

	if name == "" {
		if envPath := loadEnvConfig(env.Getenv).ConfigPath; envPath != "" {
			if !fileutil.FileExists(envPath) {
				return "", fmt.Errorf("%w: %s", ErrConfigNotFound, envPath)
			}
			return envPath, nil
		}
		name = defaultConfigName
	}

	if fileutil.FileExists(name) {
		return name, nil
	}
	if userDir, err := os.UserConfigDir(); err == nil {
		candidate := filepath.Join(userDir, "bookpub", name)
		if fileutil.FileExists(candidate) {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: %s", ErrConfigNotFound, name)
}
