package bookpub

import "fmt"

// Theme selects the visual styling family applied by the formatter.
type Theme string

// Available themes. Unknown themes fall back to ThemeClassic.
const (
	ThemeClassic  Theme = "classic"
	ThemeModern   Theme = "modern"
	ThemeElegant  Theme = "elegant"
	ThemeAcademic Theme = "academic"
)

// knownThemes is the closed set accepted without fallback.
var knownThemes = map[Theme]bool{
	ThemeClassic:  true,
	ThemeModern:   true,
	ThemeElegant:  true,
	ThemeAcademic: true,
}

// normalizeTheme resolves unknown themes to ThemeClassic.
func normalizeTheme(t Theme) Theme {
	if knownThemes[t] {
		return t
	}
	return ThemeClassic
}

// Typography bounds for validation.
const (
	MinBodyFontSize = 6.0
	MaxBodyFontSize = 28.0
	MinLineSpacing  = 0.8
	MaxLineSpacing  = 3.0
)

// FormattingOptions configures the formatter and all renderers.
// Every field has an explicit default; no option is silently ignored.
// A renderer that cannot honor an option reports why in its result.
type FormattingOptions struct {
	Platform Platform
	Theme    Theme

	// Structural pages, each independently toggled.
	IncludeCover           bool
	IncludeTitlePage       bool
	IncludeCopyright       bool
	IncludeDedication      bool
	IncludeAcknowledgments bool
	IncludePrologue        bool
	IncludeTOC             bool
	IncludeEpilogue        bool
	IncludeAboutAuthor     bool
	IncludeBibliography    bool
	IncludeIndex           bool

	// Typography.
	FontFamily       string
	FontSizeBody     float64 // points
	FontSizeH1       float64
	FontSizeH2       float64
	FontSizeH3       float64
	LineSpacing      float64 // multiplier
	ParagraphSpacing float64 // points after each paragraph
	FirstLineIndent  float64 // mm

	// Page geometry. Zero values defer to the platform spec.
	PageWidthMM  float64
	PageHeightMM float64
	MarginMM     float64

	// Visual enhancements.
	HighlightExpressions bool
	ShowPhonetics        bool
	EmphasizeTranslation bool
	NumberChapters       bool

	// Pagination.
	UseChapterBreaks  bool
	UseHeadersFooters bool
}

// DefaultFormattingOptions returns the commercial defaults used when the
// caller supplies nothing.
func DefaultFormattingOptions() FormattingOptions {
	return FormattingOptions{
		Platform: PlatformAmazonKDP,
		Theme:    ThemeClassic,

		IncludeCover:       true,
		IncludeTitlePage:   true,
		IncludeCopyright:   true,
		IncludePrologue:    true,
		IncludeTOC:         true,
		IncludeAboutAuthor: true,
		IncludeIndex:       true,

		FontFamily:       "Georgia",
		FontSizeBody:     11,
		FontSizeH1:       24,
		FontSizeH2:       18,
		FontSizeH3:       14,
		LineSpacing:      1.5,
		ParagraphSpacing: 6,
		FirstLineIndent:  5,

		HighlightExpressions: true,
		ShowPhonetics:        true,
		EmphasizeTranslation: true,
		NumberChapters:       true,

		UseChapterBreaks:  true,
		UseHeadersFooters: true,
	}
}

// Validate checks that typography values are inside sane bounds.
// Zero values are allowed (they mean "use the default or spec value").
func (o *FormattingOptions) Validate() error {
	if o == nil {
		return nil
	}
	if o.FontSizeBody != 0 && (o.FontSizeBody < MinBodyFontSize || o.FontSizeBody > MaxBodyFontSize) {
		return fmt.Errorf("%w: %.1fpt (must be between %.1f and %.1f)",
			ErrInvalidFontSize, o.FontSizeBody, MinBodyFontSize, MaxBodyFontSize)
	}
	if o.LineSpacing != 0 && (o.LineSpacing < MinLineSpacing || o.LineSpacing > MaxLineSpacing) {
		return fmt.Errorf("%w: %.2f (must be between %.2f and %.2f)",
			ErrInvalidLineSpacing, o.LineSpacing, MinLineSpacing, MaxLineSpacing)
	}
	return nil
}

// withDefaults fills zero-valued typography fields from the defaults so
// downstream stages never see an unset value.
func (o FormattingOptions) withDefaults() FormattingOptions {
	def := DefaultFormattingOptions()
	if o.Platform == "" {
		o.Platform = def.Platform
	}
	o.Theme = normalizeTheme(o.Theme)
	if o.FontFamily == "" {
		o.FontFamily = def.FontFamily
	}
	if o.FontSizeBody == 0 {
		o.FontSizeBody = def.FontSizeBody
	}
	if o.FontSizeH1 == 0 {
		o.FontSizeH1 = def.FontSizeH1
	}
	if o.FontSizeH2 == 0 {
		o.FontSizeH2 = def.FontSizeH2
	}
	if o.FontSizeH3 == 0 {
		o.FontSizeH3 = def.FontSizeH3
	}
	if o.LineSpacing == 0 {
		o.LineSpacing = def.LineSpacing
	}
	if o.ParagraphSpacing == 0 {
		o.ParagraphSpacing = def.ParagraphSpacing
	}
	if o.FirstLineIndent == 0 {
		o.FirstLineIndent = def.FirstLineIndent
	}
	return o
}

// pageGeometry resolves effective page dimensions: explicit option values
// win, otherwise the platform spec decides.
func (o FormattingOptions) pageGeometry(spec PlatformSpec) (width, height, margin float64) {
	width, height, margin = spec.PageWidthMM, spec.PageHeightMM, spec.MarginMM
	if o.PageWidthMM > 0 {
		width = o.PageWidthMM
	}
	if o.PageHeightMM > 0 {
		height = o.PageHeightMM
	}
	if o.MarginMM > 0 {
		margin = o.MarginMM
	}
	return width, height, margin
}
