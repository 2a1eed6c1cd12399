package bookpub

import (
	"errors"
	"fmt"
)

// Sentinel errors for library operations.
var (
	ErrEmptyContent      = errors.New("book content cannot be empty")
	ErrNoFormats         = errors.New("no export formats requested")
	ErrUnknownFormat     = errors.New("unknown export format")
	ErrFormatUnavailable = errors.New("export format backing library unavailable")
	ErrRenderFailed      = errors.New("artifact rendering failed")
	ErrArtifactInvalid   = errors.New("artifact failed post-write validation")
	ErrMissingOutputDir  = errors.New("output directory not specified")

	// Options validation errors.
	ErrInvalidFontSize    = errors.New("invalid body font size")
	ErrInvalidLineSpacing = errors.New("invalid line spacing")
)

// RenderError reports a per-format rendering failure with enough context
// for the caller to log and decide on retry. One format failing never
// aborts sibling formats in a batch.
type RenderError struct {
	BookID   string
	Format   ExportFormat
	Platform Platform
	Err      error
}

// Error implements the error interface.
func (e *RenderError) Error() string {
	return fmt.Sprintf("render %s (book %s, platform %s): %v", e.Format, e.BookID, e.Platform, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is/As.
func (e *RenderError) Unwrap() error { return e.Err }

// renderErr builds a RenderError wrapping cause.
func renderErr(bookID string, format ExportFormat, platform Platform, cause error) *RenderError {
	return &RenderError{BookID: bookID, Format: format, Platform: platform, Err: cause}
}
