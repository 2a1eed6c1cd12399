package main

import (
	"errors"
	"os"

	bookpub "github.com/mfialho/go-bookpub"
)

// Exit codes for the bookpub CLI.
// Follows Unix conventions: 0=success, 1=general, 2=usage, and custom codes < 126.
const (
	ExitSuccess = 0 // Successful conversion
	ExitGeneral = 1 // General/unexpected error
	ExitUsage   = 2 // Invalid flags, config, or validation
	ExitIO      = 3 // File not found, permission denied
	ExitRender  = 4 // Artifact rendering errors
)

// exitCodeFor returns the appropriate exit code for an error.
// It uses errors.Is to check wrapped errors, so callers must use fmt.Errorf("%w", err).
func exitCodeFor(err error) int {
	if err == nil {
		return ExitSuccess
	}

	// Rendering errors (exit 4)
	if errors.Is(err, bookpub.ErrRenderFailed) ||
		errors.Is(err, bookpub.ErrFormatUnavailable) ||
		errors.Is(err, bookpub.ErrArtifactInvalid) {
		return ExitRender
	}

	// I/O errors (exit 3)
	if errors.Is(err, os.ErrNotExist) ||
		errors.Is(err, os.ErrPermission) ||
		errors.Is(err, ErrReadInput) ||
		errors.Is(err, ErrNoInput) {
		return ExitIO
	}

	// Usage/config/validation errors (exit 2)
	if errors.Is(err, ErrUnknownCommand) ||
		errors.Is(err, ErrInvalidExtension) ||
		errors.Is(err, ErrConfigNotFound) ||
		errors.Is(err, ErrConfigParse) ||
		errors.Is(err, bookpub.ErrEmptyContent) ||
		errors.Is(err, bookpub.ErrUnknownFormat) ||
		errors.Is(err, bookpub.ErrNoFormats) ||
		errors.Is(err, bookpub.ErrMissingOutputDir) ||
		errors.Is(err, bookpub.ErrInvalidFontSize) ||
		errors.Is(err, bookpub.ErrInvalidLineSpacing) {
		return ExitUsage
	}

	return ExitGeneral
}
