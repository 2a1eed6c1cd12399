package bookpub

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	chromahtml "github.com/alecthomas/chroma/v2/formatters/html"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
)

// Legacy content support.
//
// Books generated before the structured parser existed are stored as
// plain markup and never produce a DocumentModel. The renderers fall
// back to re-splitting that raw text by heading markers so old content
// stays exportable.

// LegacySection is one heading-delimited slice of raw markup.
// Level 0 means body text before any heading.
type LegacySection struct {
	Level int
	Title string
	Lines []string
}

// SplitLegacyContent re-splits raw markup by ATX heading markers.
// It is total: content without headings yields a single level-0 section.
func SplitLegacyContent(raw string) []LegacySection {
	var sections []LegacySection
	current := LegacySection{}
	flush := func() {
		if current.Level > 0 || len(current.Lines) > 0 {
			sections = append(sections, current)
		}
	}
	for _, line := range strings.Split(normalizeLineEndings(raw), "\n") {
		trimmed := strings.TrimSpace(line)
		if m := anyHeading.FindStringSubmatch(trimmed); m != nil {
			flush()
			current = LegacySection{Level: len(m[1]), Title: m[2]}
			continue
		}
		if trimmed == "" && len(current.Lines) == 0 {
			continue
		}
		current.Lines = append(current.Lines, trimmed)
	}
	flush()
	return sections
}

// legacyMarkdown is the goldmark instance used to turn legacy markup
// into HTML bodies (EPUB spine items, previews). Safe for concurrent use.
var legacyMarkdown = goldmark.New(
	goldmark.WithExtensions(
		extension.GFM,
		highlighting.NewHighlighting(
			highlighting.WithFormatOptions(
				chromahtml.WithClasses(true),
			),
		),
	),
	goldmark.WithParserOptions(
		parser.WithAutoHeadingID(),
	),
	goldmark.WithRendererOptions(
		html.WithXHTML(),
	),
)

// MarkupToHTML converts legacy markup to an HTML fragment.
func MarkupToHTML(markup string) (string, error) {
	var buf bytes.Buffer
	if err := legacyMarkdown.Convert([]byte(markup), &buf); err != nil {
		return "", fmt.Errorf("converting markup to HTML: %w", err)
	}
	return buf.String(), nil
}

// htmlIngestConverter turns pre-rendered HTML back into domain markup so
// books stored only as content_html can flow through the parser.
var htmlIngestConverter = converter.NewConverter(
	converter.WithPlugins(
		base.NewBasePlugin(),
		commonmark.NewCommonmarkPlugin(),
	),
)

// HTMLToMarkup converts an HTML document or fragment to domain markup.
// On failure or empty output the stripped visible text is returned so
// ingestion never loses the book body entirely.
func HTMLToMarkup(htmlContent string) string {
	if htmlContent == "" {
		return ""
	}
	result, err := htmlIngestConverter.ConvertString(htmlContent)
	if err != nil || strings.TrimSpace(result) == "" {
		return VisibleText(htmlContent)
	}
	return strings.TrimSpace(result)
}
