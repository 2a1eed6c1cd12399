package bookpub

import (
	"fmt"
	"os"
	"strings"
	"time"
)

// Plain-text layout widths.
const (
	txtPageWidth    = 70
	txtNarrowBanner = 50
)

// txtRenderer degrades all structure to ASCII banner conventions.
type txtRenderer struct{}

func (r *txtRenderer) render(req RenderRequest, path string) error {
	var b strings.Builder

	writeBanner(&b, req.resolvedTitle(), '=', txtPageWidth)
	centerLine(&b, "by "+req.resolvedAuthor(), txtPageWidth)
	b.WriteString("\n")
	if req.Options.IncludeCopyright {
		centerLine(&b, fmt.Sprintf("Copyright © %d %s. All rights reserved.",
			time.Now().Year(), req.resolvedAuthor()), txtPageWidth)
		b.WriteString("\n")
	}

	if req.Model != nil {
		r.renderModel(&b, req.Model, req.Options)
	} else {
		r.renderLegacy(&b, req.RawContent)
	}

	if req.Options.IncludeIndex && req.Model != nil && req.Model.Index != nil && req.Model.Index.Len() > 0 {
		b.WriteString("\n")
		writeBanner(&b, "Index", '=', txtPageWidth)
		for _, term := range req.Model.Index.Terms() {
			b.WriteString("  - " + term + "\n")
		}
	}

	return os.WriteFile(path, []byte(b.String()), 0o600)
}

func (r *txtRenderer) renderModel(b *strings.Builder, model *DocumentModel, opts FormattingOptions) {
	for _, el := range model.Elements {
		r.renderElement(b, el, opts)
	}
}

func (r *txtRenderer) renderElement(b *strings.Builder, el *DocumentElement, opts FormattingOptions) {
	text := VisibleText(el.Content)
	switch el.Kind {
	case KindBookTitle:
		// Already emitted as the artifact header.
	case KindChapter:
		b.WriteString("\n")
		writeBanner(b, text, '=', txtPageWidth)
	case KindChapterTitle:
		b.WriteString("\n")
		writeBanner(b, text, '-', txtNarrowBanner)
	case KindSection:
		b.WriteString("\n")
		writeUnderlined(b, text, '-')
	case KindSubsection:
		b.WriteString("\n")
		writeUnderlined(b, text, '.')
	case KindParagraph:
		for _, line := range wrapText(text, txtPageWidth) {
			b.WriteString(line + "\n")
		}
		b.WriteString("\n")
	case KindExpression:
		if num, ok := el.Metadata["number"].(int); ok {
			b.WriteString(fmt.Sprintf("%d. %s\n", num, text))
		} else {
			b.WriteString(text + "\n")
		}
		for _, child := range el.Children {
			r.renderElement(b, child, opts)
		}
		b.WriteString("\n")
	case KindPhonetic:
		if opts.ShowPhonetics {
			b.WriteString("   [" + text + "]\n")
		}
	case KindTranslationLiteral:
		b.WriteString("   Literal: " + text + "\n")
	case KindTranslationContextual:
		b.WriteString("   Contextual: " + text + "\n")
	case KindUsage:
		b.WriteString("   Usage: " + text + "\n")
	case KindExample:
		b.WriteString("   Example: " + text + "\n")
	case KindList:
		for _, item := range el.Children {
			r.renderElement(b, item, opts)
		}
		b.WriteString("\n")
	case KindListItem:
		b.WriteString("  - " + text + "\n")
	case KindSeparator:
		centerLine(b, "* * *", txtPageWidth)
		b.WriteString("\n")
	case KindTocNode, KindIndexEntry:
		// Navigation-only nodes carry no body text.
	}
}

func (r *txtRenderer) renderLegacy(b *strings.Builder, raw string) {
	for _, section := range SplitLegacyContent(raw) {
		switch {
		case section.Level == 1:
			b.WriteString("\n")
			writeBanner(b, section.Title, '=', txtPageWidth)
		case section.Level == 2:
			b.WriteString("\n")
			writeBanner(b, section.Title, '-', txtNarrowBanner)
		case section.Level >= 3:
			b.WriteString("\n")
			writeUnderlined(b, section.Title, '-')
		}
		for _, line := range section.Lines {
			for _, wrapped := range wrapText(VisibleText(line), txtPageWidth) {
				b.WriteString(wrapped + "\n")
			}
		}
		b.WriteString("\n")
	}
}

// writeBanner emits a full-width rule, the centered uppercase text, and
// a closing rule.
func writeBanner(b *strings.Builder, text string, fill rune, width int) {
	rule := strings.Repeat(string(fill), width)
	b.WriteString(rule + "\n")
	centerLine(b, strings.ToUpper(text), width)
	b.WriteString(rule + "\n\n")
}

// writeUnderlined emits text with a same-length underline.
func writeUnderlined(b *strings.Builder, text string, fill rune) {
	b.WriteString(text + "\n")
	b.WriteString(strings.Repeat(string(fill), len([]rune(text))) + "\n\n")
}

func centerLine(b *strings.Builder, text string, width int) {
	pad := (width - len([]rune(text))) / 2
	if pad < 0 {
		pad = 0
	}
	b.WriteString(strings.Repeat(" ", pad) + text + "\n")
}

// wrapText greedily wraps text at width columns.
func wrapText(text string, width int) []string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return nil
	}
	var lines []string
	current := words[0]
	for _, word := range words[1:] {
		if len([]rune(current))+1+len([]rune(word)) > width {
			lines = append(lines, current)
			current = word
			continue
		}
		current += " " + word
	}
	return append(lines, current)
}
