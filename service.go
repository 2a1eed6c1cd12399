package bookpub

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
)

// serviceConfig holds internal configuration for Service.
type serviceConfig struct {
	outputDir string
	theme     Theme
	caps      Capabilities
	logger    *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger attaches a structured logger. The default discards.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.cfg.logger = logger
		}
	}
}

// WithCapabilities overrides the renderer capability table, e.g. to
// disable a format for a deployment or simulate a missing codec in tests.
func WithCapabilities(caps Capabilities) Option {
	return func(s *Service) { s.cfg.caps = caps }
}

// WithOutputDir sets the default artifact directory used when an Input
// does not carry its own.
func WithOutputDir(dir string) Option {
	return func(s *Service) { s.cfg.outputDir = dir }
}

// WithTheme sets the default theme applied when an Input's options do not
// name one.
func WithTheme(theme Theme) Option {
	return func(s *Service) { s.cfg.theme = theme }
}

// Input carries one conversion request. Content is domain markup;
// ContentHTML is accepted for books stored only as pre-rendered HTML and
// is converted back to markup before parsing. CoverPath is opaque.
type Input struct {
	BookID   string
	BookUUID string

	Title          string
	Author         string
	Language       string
	Genre          string
	TargetAudience string

	Content     string
	ContentHTML string
	CoverPath   string

	Options   *FormattingOptions
	Formats   []ExportFormat
	OutputDir string
}

// Result is everything one conversion produces. Per-format failures are
// collected, never propagated as the call's error: one broken codec must
// not hide the artifacts that rendered fine. Notes report enabled
// options the renderers could not honor.
type Result struct {
	Model    *DocumentModel
	Options  FormattingOptions
	Quality  QualityScore
	Preview  Preview
	Artifact []Artifact
	Failures []*RenderError
	Notes    []string
}

// Service orchestrates the publishing pipeline: structural cleanup,
// parsing, formatting, quality analysis, and rendering. It holds no
// per-conversion state and is safe for concurrent use.
type Service struct {
	cfg           serviceConfig
	postprocessor *Postprocessor
	parser        *Parser
	formatter     *Formatter
	analyzer      *Analyzer
	exporter      *Exporter
}

// New creates a Service with default configuration.
// Use options to customize behavior (e.g., WithLogger, WithCapabilities).
func New(opts ...Option) *Service {
	s := &Service{
		cfg: serviceConfig{
			caps:   DetectCapabilities(),
			logger: discardLogger(),
		},
		postprocessor: NewPostprocessor(),
		parser:        NewParser(),
		formatter:     NewFormatter(),
		analyzer:      NewAnalyzer(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.exporter = NewExporter(s.cfg.caps, s.cfg.logger)
	return s
}

// Convert runs the full pipeline for one book and renders every
// requested format. The context is checked between stages; the pipeline
// itself performs no internal threading.
// Recovers from internal panics to prevent crashes from propagating to
// callers.
func (s *Service) Convert(ctx context.Context, input Input) (result *Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("internal error: %v", r)
		}
	}()

	markup, err := s.resolveMarkup(input)
	if err != nil {
		return nil, err
	}
	if optErr := input.Options.Validate(); optErr != nil {
		return nil, optErr
	}

	opts := DefaultFormattingOptions()
	if input.Options != nil {
		opts = *input.Options
	}
	if opts.Theme == "" && s.cfg.theme != "" {
		opts.Theme = s.cfg.theme
	}
	opts = opts.withDefaults()
	spec := LookupPlatform(opts.Platform)

	// Structural cleanup before parsing: technical headings and
	// duplicated titles never reach the element tree.
	cleaned := s.postprocessor.CleanStructure(markup, input.Title)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	model := s.parser.Parse(cleaned, input.Title, input.Author, input.Language)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	model, opts = s.formatter.Format(model, opts, spec)
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	quality := s.analyzer.Analyze(model, opts)
	s.cfg.logger.Debug("quality analysis complete",
		"book_id", input.BookID, "score", quality.TotalScore, "verdict", quality.Verdict)

	result = &Result{
		Model:   model,
		Options: opts,
		Quality: quality,
		Preview: BuildPreview(model),
	}

	if len(input.Formats) == 0 {
		return result, nil
	}
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}

	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = s.cfg.outputDir
	}
	outcome := s.exporter.Export(RenderRequest{
		Model:      model,
		RawContent: cleaned,
		Options:    opts,
		Spec:       spec,
		BookID:     input.BookID,
		BookUUID:   input.BookUUID,
		Title:      input.Title,
		Author:     input.Author,
		Language:   model.Language,
		OutputDir:  outputDir,
		CoverPath:  input.CoverPath,
	}, input.Formats)

	result.Artifact = outcome.Artifacts
	result.Failures = outcome.Failures
	result.Notes = outcome.Notes
	return result, nil
}

// ExportLegacy renders raw, never-parsed markup directly through the
// renderers' fallback path. Older books stored as plain markup stay
// exportable without a DocumentModel.
func (s *Service) ExportLegacy(ctx context.Context, input Input) (*Result, error) {
	if ctx.Err() != nil {
		return nil, ctx.Err()
	}
	if len(input.Formats) == 0 {
		return nil, ErrNoFormats
	}
	markup, err := s.resolveMarkup(input)
	if err != nil {
		return nil, err
	}

	opts := DefaultFormattingOptions()
	if input.Options != nil {
		opts = *input.Options
	}
	if opts.Theme == "" && s.cfg.theme != "" {
		opts.Theme = s.cfg.theme
	}
	opts = opts.withDefaults()
	spec := LookupPlatform(opts.Platform)
	opts = EnforcePlatformMinimums(opts, spec)

	outputDir := input.OutputDir
	if outputDir == "" {
		outputDir = s.cfg.outputDir
	}
	outcome := s.exporter.Export(RenderRequest{
		Model:      nil,
		RawContent: markup,
		Options:    opts,
		Spec:       spec,
		BookID:     input.BookID,
		BookUUID:   input.BookUUID,
		Title:      input.Title,
		Author:     input.Author,
		Language:   input.Language,
		OutputDir:  outputDir,
		CoverPath:  input.CoverPath,
	}, input.Formats)

	return &Result{
		Options:  opts,
		Artifact: outcome.Artifacts,
		Failures: outcome.Failures,
		Notes:    outcome.Notes,
	}, nil
}

// resolveMarkup picks the best available source text: domain markup
// first, then pre-rendered HTML converted back to markup.
func (s *Service) resolveMarkup(input Input) (string, error) {
	if strings.TrimSpace(input.Content) != "" {
		return input.Content, nil
	}
	if strings.TrimSpace(input.ContentHTML) != "" {
		return HTMLToMarkup(input.ContentHTML), nil
	}
	return "", ErrEmptyContent
}
