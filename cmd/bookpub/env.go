package main

import (
	"io"
	"os"
	"time"
)

// Environment holds injectable process dependencies for testability.
type Environment struct {
	Stdout io.Writer
	Stderr io.Writer
	Getenv func(string) string
	Now    func() time.Time
}

// DefaultEnvironment returns production dependencies.
func DefaultEnvironment() *Environment {
	return &Environment{
		Stdout: os.Stdout,
		Stderr: os.Stderr,
		Getenv: os.Getenv,
		Now:    time.Now,
	}
}

// envConfig holds configuration from BOOKPUB_* environment variables.
// Provides CI/CD-friendly overrides without requiring a YAML file.
type envConfig struct {
	ConfigPath string // BOOKPUB_CONFIG: config file path
	OutputDir  string // BOOKPUB_OUTPUT_DIR: default artifact directory
	Platform   string // BOOKPUB_PLATFORM: target platform key
	Theme      string // BOOKPUB_THEME: visual theme
	Formats    string // BOOKPUB_FORMATS: comma-separated format list
}

// loadEnvConfig reads the recognized BOOKPUB_* variables.
func loadEnvConfig(getenv func(string) string) *envConfig {
	return &envConfig{
		ConfigPath: getenv("BOOKPUB_CONFIG"),
		OutputDir:  getenv("BOOKPUB_OUTPUT_DIR"),
		Platform:   getenv("BOOKPUB_PLATFORM"),
		Theme:      getenv("BOOKPUB_THEME"),
		Formats:    getenv("BOOKPUB_FORMATS"),
	}
}
