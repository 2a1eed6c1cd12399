package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"
	"strings"

	bookpub "github.com/mfialho/go-bookpub"
	"github.com/mfialho/go-bookpub/internal/fileutil"
)

// doctorResult holds all diagnostic information.
type doctorResult struct {
	Status   string            `json:"status"` // "ready", "warnings", "errors"
	Formats  map[string]bool   `json:"formats"`
	Config   configInfo        `json:"config"`
	Env      envInfo           `json:"environment"`
	System   systemInfo        `json:"system"`
	Warnings []string          `json:"warnings,omitempty"`
	Errors   []string          `json:"errors,omitempty"`
}

// configInfo holds config file resolution results.
type configInfo struct {
	Found bool   `json:"found"`
	Path  string `json:"path,omitempty"`
}

// envInfo holds environment detection results.
type envInfo struct {
	OS        string `json:"os"`
	Arch      string `json:"arch"`
	OutputDir string `json:"bookpub_output_dir,omitempty"`
	Platform  string `json:"bookpub_platform,omitempty"`
}

// systemInfo holds system check results.
type systemInfo struct {
	TempWritable bool `json:"temp_writable"`
}

// runDoctorCmd executes the doctor command.
func runDoctorCmd(args []string, env *Environment) error {
	jsonOutput := false
	for _, arg := range args {
		if arg == "--json" {
			jsonOutput = true
		}
	}

	result := runDoctor(env)

	if jsonOutput {
		enc := json.NewEncoder(env.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
	} else {
		printDoctorResult(env.Stdout, result)
	}

	if result.Status == "errors" {
		return fmt.Errorf("environment check failed: %d problem(s)", len(result.Errors))
	}
	return nil
}

// runDoctor performs all diagnostic checks.
func runDoctor(env *Environment) *doctorResult {
	envCfg := loadEnvConfig(env.Getenv)
	result := &doctorResult{
		Status:  "ready",
		Formats: map[string]bool{},
		Env: envInfo{
			OS:        runtime.GOOS,
			Arch:      runtime.GOARCH,
			OutputDir: envCfg.OutputDir,
			Platform:  envCfg.Platform,
		},
	}

	caps := bookpub.DetectCapabilities()
	for _, f := range bookpub.AllFormats() {
		result.Formats[string(f)] = caps.Available(f)
		if !caps.Available(f) {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("format %s is unavailable in this build", f))
		}
	}

	if path, err := resolveConfigPath("", env); err == nil {
		result.Config = configInfo{Found: true, Path: path}
	} else if !errors.Is(err, ErrConfigNotFound) {
		result.Errors = append(result.Errors, err.Error())
	}

	checkSystem(result, envCfg)

	if len(result.Errors) > 0 {
		result.Status = "errors"
	} else if len(result.Warnings) > 0 {
		result.Status = "warnings"
	}
	return result
}

// checkSystem verifies filesystem access the renderers depend on.
func checkSystem(result *doctorResult, envCfg *envConfig) {
	_, cleanup, err := fileutil.WriteTempFile("doctor", "tmp")
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("temp directory not writable: %v", err))
	} else {
		result.System.TempWritable = true
		cleanup()
	}

	if envCfg.OutputDir != "" {
		if info, err := os.Stat(envCfg.OutputDir); err != nil || !info.IsDir() {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("BOOKPUB_OUTPUT_DIR %q is not an existing directory", envCfg.OutputDir))
		}
	}
	if envCfg.Platform != "" {
		normalized := strings.ReplaceAll(strings.ToLower(strings.TrimSpace(envCfg.Platform)), "-", "_")
		if spec := bookpub.LookupPlatform(bookpub.Platform(envCfg.Platform)); string(spec.Name) != normalized {
			result.Warnings = append(result.Warnings,
				fmt.Sprintf("BOOKPUB_PLATFORM %q is unknown, the standard profile applies", envCfg.Platform))
		}
	}
}

// printDoctorResult renders the human-readable report.
func printDoctorResult(w io.Writer, result *doctorResult) {
	fmt.Fprintf(w, "Status: %s\n\n", result.Status)

	fmt.Fprintln(w, "Formats:")
	for _, f := range bookpub.AllFormats() {
		mark := "ok"
		if !result.Formats[string(f)] {
			mark = "MISSING"
		}
		fmt.Fprintf(w, "  %-5s %s\n", string(f), mark)
	}

	fmt.Fprintln(w, "\nConfig:")
	if result.Config.Found {
		fmt.Fprintf(w, "  %s\n", result.Config.Path)
	} else {
		fmt.Fprintln(w, "  none (defaults apply)")
	}

	fmt.Fprintf(w, "\nSystem: %s/%s, temp writable: %v\n",
		result.Env.OS, result.Env.Arch, result.System.TempWritable)

	for _, warning := range result.Warnings {
		fmt.Fprintf(w, "warning: %s\n", warning)
	}
	for _, errMsg := range result.Errors {
		fmt.Fprintf(w, "error: %s\n", errMsg)
	}
}
