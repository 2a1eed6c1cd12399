package main

import (
	"errors"
	"fmt"
	"os"
	"testing"

	bookpub "github.com/mfialho/go-bookpub"
)

func TestExitCodeFor(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected int
	}{
		{"nil error", nil, ExitSuccess},
		{"render failed", bookpub.ErrRenderFailed, ExitRender},
		{"format unavailable", bookpub.ErrFormatUnavailable, ExitRender},
		{"artifact invalid", bookpub.ErrArtifactInvalid, ExitRender},
		{"file not found", os.ErrNotExist, ExitIO},
		{"permission denied", os.ErrPermission, ExitIO},
		{"read input", ErrReadInput, ExitIO},
		{"no input", ErrNoInput, ExitIO},
		{"unknown command", ErrUnknownCommand, ExitUsage},
		{"invalid extension", ErrInvalidExtension, ExitUsage},
		{"config not found", ErrConfigNotFound, ExitUsage},
		{"config parse", ErrConfigParse, ExitUsage},
		{"empty content", bookpub.ErrEmptyContent, ExitUsage},
		{"unknown format", bookpub.ErrUnknownFormat, ExitUsage},
		{"invalid font size", bookpub.ErrInvalidFontSize, ExitUsage},
		{"invalid line spacing", bookpub.ErrInvalidLineSpacing, ExitUsage},
		{"unrecognized error", errors.New("something else"), ExitGeneral},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := exitCodeFor(tt.err)
			if got != tt.expected {
				t.Errorf("exitCodeFor(%v) = %d, expected %d", tt.err, got, tt.expected)
			}
		})
	}
}

func TestExitCodeForWrappedErrors(t *testing.T) {
	wrapped := fmt.Errorf("converting book: %w", bookpub.ErrEmptyContent)
	if got := exitCodeFor(wrapped); got != ExitUsage {
		t.Errorf("exitCodeFor(wrapped) = %d, expected %d", got, ExitUsage)
	}

	renderErr := &bookpub.RenderError{
		BookID: "1",
		Format: bookpub.FormatEPUB,
		Err:    bookpub.ErrFormatUnavailable,
	}
	if got := exitCodeFor(renderErr); got != ExitRender {
		t.Errorf("exitCodeFor(RenderError) = %d, expected %d", got, ExitRender)
	}
}
