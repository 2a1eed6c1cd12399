package bookpub

import (
	"fmt"
	"strings"

	epub "github.com/bmaupin/go-epub"

	"github.com/mfialho/go-bookpub/internal/fileutil"
)

// epubRenderer splits the element stream into per-chapter spine items
// with a shared stylesheet derived from the options and platform spec.
type epubRenderer struct{}

func (r *epubRenderer) render(req RenderRequest, path string) error {
	opts := req.Options

	book := epub.NewEpub(req.resolvedTitle())
	book.SetAuthor(req.resolvedAuthor())
	if req.Language != "" {
		book.SetLang(req.Language)
	} else if req.Model != nil && req.Model.Language != "" {
		book.SetLang(req.Model.Language)
	}
	book.SetDescription(fmt.Sprintf("%s — %s", req.resolvedTitle(), req.resolvedAuthor()))

	cssFile, cleanup, err := fileutil.WriteTempFile(buildEPUBStylesheet(opts, req.Spec), "css")
	if err != nil {
		return fmt.Errorf("writing stylesheet: %w", err)
	}
	defer cleanup()
	cssPath, err := book.AddCSS(cssFile, "styles.css")
	if err != nil {
		return fmt.Errorf("adding stylesheet: %w", err)
	}

	if opts.IncludeCover && fileutil.FileExists(req.CoverPath) {
		coverPath, err := book.AddImage(req.CoverPath, "cover"+coverExt(req.CoverPath))
		if err != nil {
			return fmt.Errorf("adding cover image: %w", err)
		}
		book.SetCover(coverPath, "")
	}

	chapters := r.splitChapters(req)
	if opts.IncludeCopyright {
		chapters = append([]epubChapter{copyrightChapter(req)}, chapters...)
	}
	if opts.IncludeAboutAuthor {
		chapters = append(chapters, aboutAuthorChapter(req))
	}
	if opts.IncludeIndex && req.Model != nil && req.Model.Index != nil && req.Model.Index.Len() > 0 {
		chapters = append(chapters, indexChapter(req.Model.Index))
	}

	for i, chapter := range chapters {
		filename := fmt.Sprintf("chapter-%03d.xhtml", i+1)
		if _, err := book.AddSection(chapter.body, chapter.title, filename, cssPath); err != nil {
			return fmt.Errorf("adding section %q: %w", chapter.title, err)
		}
	}

	if err := book.Write(path); err != nil {
		return fmt.Errorf("writing EPUB: %w", err)
	}
	return nil
}

// epubChapter is one spine item awaiting assembly.
type epubChapter struct {
	title string
	body  string
}

// splitChapters walks the element stream and opens a new chapter
// document at each Chapter (or standalone ChapterTitle) element.
// Elements before the first chapter form a front-matter section.
func (r *epubRenderer) splitChapters(req RenderRequest) []epubChapter {
	if req.Model == nil {
		return r.splitLegacyChapters(req.RawContent)
	}

	var chapters []epubChapter
	var b strings.Builder
	currentTitle := req.resolvedTitle()
	flush := func() {
		if body := strings.TrimSpace(b.String()); body != "" {
			chapters = append(chapters, epubChapter{title: currentTitle, body: body})
		}
		b.Reset()
	}

	prevKind := ElementKind(-1)
	for _, el := range req.Model.Elements {
		startsChapter := el.Kind == KindChapter ||
			(el.Kind == KindChapterTitle && prevKind != KindChapter)
		if startsChapter {
			flush()
			currentTitle = VisibleText(el.Content)
		}
		writeElementHTML(&b, el, req.Options)
		prevKind = el.Kind
	}
	flush()
	return chapters
}

func (r *epubRenderer) splitLegacyChapters(raw string) []epubChapter {
	var chapters []epubChapter
	var b strings.Builder
	currentTitle := "Front Matter"
	flush := func() {
		if body := strings.TrimSpace(b.String()); body != "" {
			chapters = append(chapters, epubChapter{title: currentTitle, body: body})
		}
		b.Reset()
	}
	for _, section := range SplitLegacyContent(raw) {
		if section.Level == 1 {
			flush()
			currentTitle = VisibleText(section.Title)
			b.WriteString("<h1>" + expandInline(section.Title) + "</h1>\n")
		} else if section.Level > 1 {
			tag := fmt.Sprintf("h%d", min(section.Level, 4))
			b.WriteString(fmt.Sprintf("<%s>%s</%s>\n", tag, expandInline(section.Title), tag))
		}
		if body, err := MarkupToHTML(strings.Join(section.Lines, "\n\n")); err == nil {
			b.WriteString(body)
		}
	}
	flush()
	return chapters
}

// writeElementHTML emits one element (and its children) as XHTML.
// The switch is exhaustive over the closed kind set.
func writeElementHTML(b *strings.Builder, el *DocumentElement, opts FormattingOptions) {
	cls, _ := el.Attributes.Get("class")
	attr := ""
	if cls != "" {
		attr = fmt.Sprintf(` class=%q`, cls)
	}

	switch el.Kind {
	case KindBookTitle:
		fmt.Fprintf(b, `<h1 class="book-title" id=%q>%s</h1>`+"\n", el.ID, el.Content)
	case KindChapter:
		fmt.Fprintf(b, `<h1 id=%q>%s</h1>`+"\n", el.ID, el.Content)
	case KindChapterTitle:
		fmt.Fprintf(b, `<h2 id=%q>%s</h2>`+"\n", el.ID, el.Content)
	case KindSection:
		fmt.Fprintf(b, `<h3 id=%q>%s</h3>`+"\n", el.ID, el.Content)
	case KindSubsection:
		fmt.Fprintf(b, `<h4 id=%q>%s</h4>`+"\n", el.ID, el.Content)
	case KindParagraph:
		fmt.Fprintf(b, "<p%s>%s</p>\n", attr, el.Content)
	case KindExpression:
		num := ""
		if n, ok := el.Metadata["number"].(int); ok {
			num = fmt.Sprintf("%d. ", n)
		}
		fmt.Fprintf(b, `<div class="expression-block"><p%s id=%q><strong>%s%s</strong></p>`+"\n", attr, el.ID, num, el.Content)
		for _, child := range el.Children {
			writeElementHTML(b, child, opts)
		}
		b.WriteString("</div>\n")
	case KindPhonetic:
		if opts.ShowPhonetics {
			fmt.Fprintf(b, `<p class="phonetic">[%s]</p>`+"\n", el.Content)
		}
	case KindTranslationLiteral:
		fmt.Fprintf(b, "<p%s><em>Literal:</em> %s</p>\n", attr, el.Content)
	case KindTranslationContextual:
		fmt.Fprintf(b, "<p%s><em>Contextual:</em> %s</p>\n", attr, el.Content)
	case KindUsage:
		fmt.Fprintf(b, "<p%s><em>Usage:</em> %s</p>\n", attr, el.Content)
	case KindExample:
		fmt.Fprintf(b, "<p%s><em>Example:</em> %s</p>\n", attr, el.Content)
	case KindList:
		b.WriteString("<ul>\n")
		for _, item := range el.Children {
			writeElementHTML(b, item, opts)
		}
		b.WriteString("</ul>\n")
	case KindListItem:
		fmt.Fprintf(b, "<li>%s</li>\n", el.Content)
	case KindSeparator:
		b.WriteString(`<hr class="separator"/>` + "\n")
	case KindTocNode, KindIndexEntry:
		// Navigation nodes are realized by the EPUB nav document.
	}
}

// buildEPUBStylesheet derives the shared chapter stylesheet from the
// formatting options and platform constraints.
func buildEPUBStylesheet(opts FormattingOptions, spec PlatformSpec) string {
	var b strings.Builder

	_, _, margin := opts.pageGeometry(spec)
	lineHeightPct := int(opts.LineSpacing * 100)
	fmt.Fprintf(&b, `body {
  font-family: %q, serif;
  font-size: %.1fpt;
  line-height: %d%%;
  margin: 0 %.0fmm;
  text-align: justify;
}
`, opts.FontFamily, opts.FontSizeBody, lineHeightPct, margin)

	fmt.Fprintf(&b, `h1 { font-size: %.1fpt; page-break-before: always; text-align: center; }
h2 { font-size: %.1fpt; page-break-before: always; }
h3 { font-size: %.1fpt; }
h4 { font-size: %.1fpt; font-style: italic; }
`, opts.FontSizeH1, opts.FontSizeH2, opts.FontSizeH3, opts.FontSizeH3-1)

	fmt.Fprintf(&b, `p { text-indent: %.1fem; margin: 0 0 %.1fpt 0; }
`, opts.FirstLineIndent/5, opts.ParagraphSpacing)

	if opts.HighlightExpressions {
		b.WriteString(".expression-block { margin: 1em 0; padding-left: 0.8em; border-left: 3px solid #8c3c14; }\n")
		b.WriteString(".expression { color: #8c3c14; }\n")
	} else {
		b.WriteString(".expression-block { margin: 1em 0; }\n")
	}
	b.WriteString(".phonetic { color: #5a5a5a; font-style: italic; text-indent: 0; }\n")
	if opts.EmphasizeTranslation {
		b.WriteString(".translation { font-style: italic; }\n")
	}
	b.WriteString(".separator { border: none; text-align: center; margin: 1.5em 0; }\n")
	b.WriteString(".book-title { page-break-before: avoid; }\n")
	return b.String()
}

func copyrightChapter(req RenderRequest) epubChapter {
	return epubChapter{
		title: "Copyright",
		body: fmt.Sprintf(`<div class="copyright"><p>%s</p><p>© %s. All rights reserved.</p>`+
			`<p>No part of this publication may be reproduced without permission.</p></div>`,
			expandInline(req.resolvedTitle()), expandInline(req.resolvedAuthor())),
	}
}

func aboutAuthorChapter(req RenderRequest) epubChapter {
	return epubChapter{
		title: "About the Author",
		body: fmt.Sprintf(`<h2>About the Author</h2><p>%s is the author of <em>%s</em>.</p>`,
			expandInline(req.resolvedAuthor()), expandInline(req.resolvedTitle())),
	}
}

// indexChapter builds the back-matter index spine item.
func indexChapter(index *TermIndex) epubChapter {
	var b strings.Builder
	b.WriteString("<h2>Index</h2>\n<ul class=\"index\">\n")
	for _, term := range index.Terms() {
		fmt.Fprintf(&b, "<li>%s</li>\n", expandInline(term))
	}
	b.WriteString("</ul>\n")
	return epubChapter{title: "Index", body: b.String()}
}

// coverExt normalizes the cover file extension for the EPUB manifest.
func coverExt(path string) string {
	lower := strings.ToLower(path)
	switch {
	case strings.HasSuffix(lower, ".png"):
		return ".png"
	case strings.HasSuffix(lower, ".gif"):
		return ".gif"
	default:
		return ".jpg"
	}
}
