package bookpub

import (
	"regexp"
	"strings"

	"github.com/mfialho/go-bookpub/internal/slug"
)

// boldSpan captures inline-bold terms inside already-expanded content.
var boldSpan = regexp.MustCompile(`<strong>(.+?)</strong>`)

// primaryTermCut marks where an expression's primary term ends.
var primaryTermCut = regexp.MustCompile(`[.,;:!?()\x{2014}\x{2013}]`)

// minIndexTermLen excludes short stopword-like bold spans from the index.
const minIndexTermLen = 3

// Formatter applies a visual theme, enforces platform constraints,
// stabilizes navigation anchors, and derives the automatic index.
// The zero value is ready to use.
type Formatter struct{}

// NewFormatter creates a Formatter.
func NewFormatter() *Formatter { return &Formatter{} }

// Format enriches model in place and returns it together with the
// effective options. Options below the platform minimums are raised;
// user values already at or above the minimum pass through unchanged.
func (f *Formatter) Format(model *DocumentModel, opts FormattingOptions, spec PlatformSpec) (*DocumentModel, FormattingOptions) {
	opts = EnforcePlatformMinimums(opts.withDefaults(), spec)

	f.applyTheme(model, opts)
	f.regenerateAnchors(model)
	f.rebuildIndex(model)

	model.Metadata["theme"] = string(opts.Theme)
	model.Metadata["platform"] = string(spec.Name)
	return model, opts
}

// EnforcePlatformMinimums raises body font size and line spacing to the
// platform minimums. It never lowers a user-specified larger value.
func EnforcePlatformMinimums(opts FormattingOptions, spec PlatformSpec) FormattingOptions {
	if opts.FontSizeBody < spec.MinFontSize {
		opts.FontSizeBody = spec.MinFontSize
	}
	if opts.LineSpacing < spec.MinLineSpacing {
		opts.LineSpacing = spec.MinLineSpacing
	}
	return opts
}

// applyTheme tags every element with the active theme and the visual
// enhancement hints the renderers consume.
func (f *Formatter) applyTheme(model *DocumentModel, opts FormattingOptions) {
	theme := string(opts.Theme)
	model.Walk(func(el *DocumentElement) bool {
		el.Attributes.Set("data-theme", theme)
		switch el.Kind {
		case KindExpression:
			if opts.HighlightExpressions {
				el.Attributes.Set("class", "expression highlight")
			}
		case KindPhonetic:
			if !opts.ShowPhonetics {
				el.Attributes.Set("data-hidden", "true")
			}
		case KindTranslationLiteral, KindTranslationContextual:
			if opts.EmphasizeTranslation {
				cls, _ := el.Attributes.Get("class")
				el.Attributes.Set("class", strings.TrimSpace(cls+" emphasized"))
			}
		case KindChapter:
			if opts.NumberChapters {
				el.Attributes.Set("data-numbered", "true")
			}
		}
		return true
	})
}

// regenerateAnchors rewrites machine-assigned heading ids into stable
// slugs derived from the heading text, disambiguated by position.
// Human-assigned ids are preserved. TOC entries follow the rewrite so
// referential integrity holds.
func (f *Formatter) regenerateAnchors(model *DocumentModel) {
	seen := map[string]bool{}
	renames := map[string]string{}
	position := 0

	model.Walk(func(el *DocumentElement) bool {
		switch el.Kind {
		case KindChapter, KindChapterTitle, KindSection, KindSubsection:
			position++
			if !slug.IsGenerated(el.ID) {
				seen[el.ID] = true
				return true
			}
			newID := slug.MakeUnique(VisibleText(el.Content), position, seen)
			if newID != el.ID {
				renames[el.ID] = newID
				el.ID = newID
			}
		}
		return true
	})

	if len(renames) == 0 {
		return
	}
	var fix func(entries []*TOCEntry)
	fix = func(entries []*TOCEntry) {
		for _, entry := range entries {
			if newID, ok := renames[entry.ID]; ok {
				entry.ID = newID
			}
			fix(entry.Children)
		}
	}
	fix(model.TOC)
}

// rebuildIndex derives the automatic index from scratch: every
// Expression contributes its primary term, every Paragraph contributes
// its inline-bold spans longer than minIndexTermLen. Encounter order is
// preserved and an element id never repeats under the same term.
func (f *Formatter) rebuildIndex(model *DocumentModel) {
	index := NewTermIndex()
	model.Walk(func(el *DocumentElement) bool {
		switch el.Kind {
		case KindExpression:
			index.Add(primaryTerm(el.Content), el.ID)
		case KindParagraph:
			for _, m := range boldSpan.FindAllStringSubmatch(el.Content, -1) {
				term := strings.TrimSpace(VisibleText(m[1]))
				if len([]rune(term)) > minIndexTermLen {
					index.Add(term, el.ID)
				}
			}
		}
		return true
	})
	model.Index = index
}

// primaryTerm extracts the indexable head of an expression: the visible
// text up to the first punctuation mark.
func primaryTerm(content string) string {
	text := VisibleText(content)
	if loc := primaryTermCut.FindStringIndex(text); loc != nil {
		text = text[:loc[0]]
	}
	return strings.TrimSpace(text)
}
