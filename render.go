package bookpub

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// ExportFormat identifies one output codec.
type ExportFormat string

// Supported export formats.
const (
	FormatPDF  ExportFormat = "pdf"
	FormatEPUB ExportFormat = "epub"
	FormatDOCX ExportFormat = "docx"
	FormatTXT  ExportFormat = "txt"
)

// AllFormats lists every supported format in stable order.
func AllFormats() []ExportFormat {
	return []ExportFormat{FormatPDF, FormatEPUB, FormatDOCX, FormatTXT}
}

// ParseFormat resolves a user-supplied format name.
func ParseFormat(s string) (ExportFormat, error) {
	f := ExportFormat(strings.ToLower(strings.TrimSpace(s)))
	switch f {
	case FormatPDF, FormatEPUB, FormatDOCX, FormatTXT:
		return f, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
}

// Capabilities is the explicit table of available export formats, built
// once at process start and injected into renderer selection. A format
// missing from the table is reported as a typed failure instead of a
// caught exception somewhere inside the codec.
type Capabilities map[ExportFormat]bool

// DetectCapabilities builds the capability table. All four codecs here
// are pure Go and compiled in, so the default table is complete;
// deployments can still disable formats and tests can simulate a missing
// backing library by constructing a partial table.
func DetectCapabilities() Capabilities {
	caps := Capabilities{}
	for _, f := range AllFormats() {
		caps[f] = true
	}
	return caps
}

// Available reports whether format can be rendered.
func (c Capabilities) Available(format ExportFormat) bool {
	return c[format]
}

// RenderRequest carries everything a renderer needs for one artifact.
// Model may be nil for legacy content; renderers then fall back to
// re-splitting RawContent by heading markers.
type RenderRequest struct {
	Model      *DocumentModel
	RawContent string
	Options    FormattingOptions
	Spec       PlatformSpec

	BookID   string
	BookUUID string
	Title    string
	Author   string
	Language string

	OutputDir string
	CoverPath string
}

// resolvedTitle returns the best available display title.
func (r RenderRequest) resolvedTitle() string {
	if r.Model != nil && strings.TrimSpace(r.Model.Title) != "" {
		return r.Model.Title
	}
	if strings.TrimSpace(r.Title) != "" {
		return r.Title
	}
	return "Untitled"
}

// resolvedAuthor returns the best available author display name.
func (r RenderRequest) resolvedAuthor() string {
	if r.Model != nil && strings.TrimSpace(r.Model.Author) != "" {
		return r.Model.Author
	}
	if strings.TrimSpace(r.Author) != "" {
		return r.Author
	}
	return "Unknown Author"
}

// Artifact is one successfully rendered output file.
type Artifact struct {
	Format ExportFormat
	Path   string
}

// ExportOutcome collects per-format results of one export batch.
// Failures never abort sibling formats. Notes report enabled options no
// renderer could honor, and why.
type ExportOutcome struct {
	Artifacts []Artifact
	Failures  []*RenderError
	Notes     []string
}

// renderer is the shared contract of the four codecs: write one artifact
// for req at path.
type renderer interface {
	render(req RenderRequest, path string) error
}

// Exporter dispatches render requests to the format codecs, consulting
// the capability table and isolating failures per format.
type Exporter struct {
	caps      Capabilities
	logger    *slog.Logger
	renderers map[ExportFormat]renderer
}

// NewExporter creates an Exporter. A nil capability table detects the
// default one; a nil logger discards.
func NewExporter(caps Capabilities, logger *slog.Logger) *Exporter {
	if caps == nil {
		caps = DetectCapabilities()
	}
	if logger == nil {
		logger = discardLogger()
	}
	return &Exporter{
		caps:   caps,
		logger: logger,
		renderers: map[ExportFormat]renderer{
			FormatPDF:  &pdfRenderer{},
			FormatEPUB: &epubRenderer{},
			FormatDOCX: &docxRenderer{},
			FormatTXT:  &txtRenderer{},
		},
	}
}

// Export renders every requested format. Each format either contributes
// an Artifact or a RenderError; one format failing never stops the rest.
func (e *Exporter) Export(req RenderRequest, formats []ExportFormat) ExportOutcome {
	outcome := ExportOutcome{Notes: optionNotes(req)}
	for _, format := range formats {
		path, err := e.exportOne(req, format)
		if err != nil {
			e.logger.Warn("export failed",
				"book_id", req.BookID, "format", string(format), "error", err)
			outcome.Failures = append(outcome.Failures, renderErr(req.BookID, format, req.Spec.Name, err))
			continue
		}
		e.logger.Debug("export complete",
			"book_id", req.BookID, "format", string(format), "path", path)
		outcome.Artifacts = append(outcome.Artifacts, Artifact{Format: format, Path: path})
	}
	return outcome
}

// exportOne renders a single format. The artifact is written to a
// temporary sibling first and renamed into place, so a failed render
// never leaves a partial file at the published path.
func (e *Exporter) exportOne(req RenderRequest, format ExportFormat) (string, error) {
	r, ok := e.renderers[format]
	if !ok {
		return "", ErrUnknownFormat
	}
	if !e.caps.Available(format) {
		return "", ErrFormatUnavailable
	}
	if req.OutputDir == "" {
		return "", ErrMissingOutputDir
	}
	if err := os.MkdirAll(req.OutputDir, 0o750); err != nil {
		return "", fmt.Errorf("creating output directory: %w", err)
	}

	finalPath := ArtifactPath(req.OutputDir, req.BookID, req.BookUUID, format)
	tmpPath := finalPath + ".tmp"

	if err := r.render(req, tmpPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("%w: %v", ErrRenderFailed, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		_ = os.Remove(tmpPath)
		return "", fmt.Errorf("publishing artifact: %w", err)
	}
	return finalPath, nil
}

// optionNotes reports every enabled structural-page option the renderers
// cannot honor for this request. The source carries no text for these
// pages, so all formats omit them; the note says why instead of dropping
// the option silently.
func optionNotes(req RenderRequest) []string {
	var notes []string
	checks := []struct {
		enabled bool
		note    string
	}{
		{req.Options.IncludeDedication, "dedication page enabled but the source carries no dedication text; omitted from all formats"},
		{req.Options.IncludeAcknowledgments, "acknowledgments page enabled but the source carries no acknowledgments text; omitted from all formats"},
		{req.Options.IncludePrologue, "prologue enabled but the source carries no prologue text; omitted from all formats"},
		{req.Options.IncludeEpilogue, "epilogue enabled but the source carries no epilogue text; omitted from all formats"},
		{req.Options.IncludeBibliography, "bibliography enabled but the source carries no bibliography entries; omitted from all formats"},
	}
	for _, check := range checks {
		if check.enabled {
			notes = append(notes, check.note)
		}
	}
	if req.Options.IncludeIndex && (req.Model == nil || req.Model.Index == nil || req.Model.Index.Len() == 0) {
		notes = append(notes, "index page enabled but no index terms were collected; omitted from all formats")
	}
	return notes
}

// ArtifactPath builds the conventional artifact path
// {book_id}_{book_uuid}.{ext} inside dir.
func ArtifactPath(dir, bookID, bookUUID string, format ExportFormat) string {
	return filepath.Join(dir, fmt.Sprintf("%s_%s.%s", bookID, bookUUID, format))
}

// discardLogger returns a logger that drops everything.
func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}
