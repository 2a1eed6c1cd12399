package bookpub

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"os"
	"strings"
	"time"
)

// docxRenderer emits WordprocessingML directly. No DOCX codec library is
// carried: the format reduces to a zip of small XML parts, and building
// them by hand keeps full control over bookmarks and intra-document
// hyperlinks, which the TOC page depends on.
type docxRenderer struct{}

// twipsPerMM converts millimeters to twentieths of a point.
const twipsPerMM = 56.7

func (r *docxRenderer) render(req RenderRequest, path string) error {
	doc := newDocxBuilder(req.Options, req.Spec)

	if req.Options.IncludeTitlePage {
		doc.titlePage(req.resolvedTitle(), req.resolvedAuthor())
	}
	if req.Options.IncludeCopyright {
		doc.copyrightPage(req.resolvedAuthor())
	}
	if req.Options.IncludeAboutAuthor {
		doc.aboutAuthorPage(req.resolvedAuthor(), req.resolvedTitle())
	}

	toc := req.tocEntries()
	if req.Options.IncludeTOC && len(toc) > 0 {
		doc.tocPage(toc)
	}

	if req.Model != nil {
		doc.body(req.Model.Elements)
	} else {
		doc.legacyBody(req.RawContent)
	}

	if req.Options.IncludeIndex && req.Model != nil && req.Model.Index != nil && req.Model.Index.Len() > 0 {
		doc.indexPage(req.Model.Index)
	}

	return doc.write(path)
}

// docxBuilder accumulates document.xml paragraphs and knows how to
// assemble the surrounding OOXML package.
type docxBuilder struct {
	opts FormattingOptions
	spec PlatformSpec

	buf        strings.Builder
	bookmarkID int
	// afterHeading suppresses the first-line indent of the paragraph
	// immediately following any heading.
	afterHeading bool
}

func newDocxBuilder(opts FormattingOptions, spec PlatformSpec) *docxBuilder {
	return &docxBuilder{opts: opts, spec: spec, afterHeading: true}
}

// halfPoints converts a point size to the w:sz half-point unit.
func halfPoints(pt float64) int { return int(pt * 2) }

// lineSpacingTwips converts the spacing multiplier to w:spacing units
// (240 = single).
func (d *docxBuilder) lineSpacingTwips() int {
	return int(d.opts.LineSpacing * 240)
}

// bookmarkName derives a stable WordprocessingML bookmark name from an
// element slug: bookmarks must start with a letter and may not contain
// hyphens, so the slug is prefixed and underscored. The derivation is
// deterministic, so regenerating the same document yields identical
// anchors.
func bookmarkName(id string) string {
	return "h_" + strings.ReplaceAll(id, "-", "_")
}

func xmlEscape(s string) string {
	var b strings.Builder
	_ = xml.EscapeText(&b, []byte(s))
	return b.String()
}

// para writes one paragraph. props and runs are raw WordprocessingML.
func (d *docxBuilder) para(props, runs string) {
	d.buf.WriteString("<w:p>")
	if props != "" {
		d.buf.WriteString("<w:pPr>" + props + "</w:pPr>")
	}
	d.buf.WriteString(runs)
	d.buf.WriteString("</w:p>")
}

// run builds one text run. variant: "" / "b" / "i" / "bi".
func (d *docxBuilder) run(text, variant string, sizePt float64, color string) string {
	var props strings.Builder
	fmt.Fprintf(&props, `<w:rFonts w:ascii=%q w:hAnsi=%q/>`, d.opts.FontFamily, d.opts.FontFamily)
	if strings.Contains(variant, "b") {
		props.WriteString("<w:b/>")
	}
	if strings.Contains(variant, "i") {
		props.WriteString("<w:i/>")
	}
	if color != "" {
		fmt.Fprintf(&props, `<w:color w:val=%q/>`, color)
	}
	fmt.Fprintf(&props, `<w:sz w:val="%d"/>`, halfPoints(sizePt))
	return fmt.Sprintf(`<w:r><w:rPr>%s</w:rPr><w:t xml:space="preserve">%s</w:t></w:r>`,
		props.String(), xmlEscape(text))
}

func (d *docxBuilder) pageBreak() {
	d.para("", `<w:r><w:br w:type="page"/></w:r>`)
}

func (d *docxBuilder) titlePage(title, author string) {
	for range 8 {
		d.para("", "")
	}
	d.para(`<w:jc w:val="center"/>`, d.run(title, "b", d.opts.FontSizeH1+8, "1E1E1E"))
	d.para("", "")
	d.para(`<w:jc w:val="center"/>`, d.run(author, "", d.opts.FontSizeH3, "505050"))
	d.pageBreak()
}

func (d *docxBuilder) copyrightPage(author string) {
	lines := []string{
		fmt.Sprintf("Copyright © %d %s", time.Now().Year(), author),
		"All rights reserved.",
		"",
		"No part of this publication may be reproduced, distributed, or transmitted " +
			"in any form or by any means without the prior written permission of the publisher.",
	}
	for _, line := range lines {
		d.para("", d.run(line, "", 9, "3C3C3C"))
	}
	d.pageBreak()
}

func (d *docxBuilder) aboutAuthorPage(author, title string) {
	d.para("", d.run("About the Author", "b", d.opts.FontSizeH2, "1E1E1E"))
	d.para(`<w:jc w:val="both"/>`,
		d.run(fmt.Sprintf("%s is the author of %s.", author, title), "", d.opts.FontSizeBody, ""))
	d.pageBreak()
}

// tocPage writes the contents page with real intra-document hyperlinks:
// each entry targets the bookmark anchor the matching heading will carry.
func (d *docxBuilder) tocPage(entries []*TOCEntry) {
	d.para(`<w:jc w:val="center"/>`, d.run("Table of Contents", "b", d.opts.FontSizeH2, "1E1E1E"))
	d.para("", "")

	var write func(entries []*TOCEntry, depth int)
	write = func(entries []*TOCEntry, depth int) {
		for _, entry := range entries {
			indent := fmt.Sprintf(`<w:ind w:left="%d"/>`, depth*360)
			link := fmt.Sprintf(`<w:hyperlink w:anchor=%q>%s</w:hyperlink>`,
				bookmarkName(entry.ID),
				d.run(entry.Title, "", d.opts.FontSizeBody+1, "1F4E79"))
			d.para(indent, link)
			write(entry.Children, depth+1)
		}
	}
	write(entries, 0)
	d.pageBreak()
}

func (d *docxBuilder) heading(el *DocumentElement, sizePt float64, variant string) {
	d.bookmarkID++
	props := ""
	if el.Kind == KindChapter && d.opts.UseChapterBreaks {
		props = "<w:pageBreakBefore/>"
	}
	runs := fmt.Sprintf(`<w:bookmarkStart w:id="%d" w:name=%q/>%s<w:bookmarkEnd w:id="%d"/>`,
		d.bookmarkID, bookmarkName(el.ID),
		d.run(VisibleText(el.Content), variant, sizePt, "1E1E1E"),
		d.bookmarkID)
	d.para(props, runs)
	d.afterHeading = true
}

// body walks the element stream with an exhaustive dispatch on kind.
func (d *docxBuilder) body(elements []*DocumentElement) {
	for _, el := range elements {
		text := VisibleText(el.Content)
		switch el.Kind {
		case KindBookTitle:
			// The title page already presents the book title.
		case KindChapter:
			d.heading(el, d.opts.FontSizeH1, "b")
		case KindChapterTitle:
			d.heading(el, d.opts.FontSizeH2, "b")
		case KindSection:
			d.heading(el, d.opts.FontSizeH3, "b")
		case KindSubsection:
			d.heading(el, d.opts.FontSizeH3-1, "bi")
		case KindParagraph:
			props := fmt.Sprintf(`<w:jc w:val="both"/><w:spacing w:after="%d" w:line="%d" w:lineRule="auto"/>`,
				int(d.opts.ParagraphSpacing*20), d.lineSpacingTwips())
			if d.opts.FirstLineIndent > 0 && !d.afterHeading {
				props += fmt.Sprintf(`<w:ind w:firstLine="%d"/>`, int(d.opts.FirstLineIndent*twipsPerMM))
			}
			d.para(props, d.run(text, "", d.opts.FontSizeBody, ""))
			d.afterHeading = false
		case KindExpression:
			if num, ok := el.Metadata["number"].(int); ok {
				text = fmt.Sprintf("%d. %s", num, text)
			}
			color := ""
			if d.opts.HighlightExpressions {
				color = "8C3C14"
			}
			// Expressions carry bookmarks so the index page can link
			// back to them.
			d.bookmarkID++
			runs := fmt.Sprintf(`<w:bookmarkStart w:id="%d" w:name=%q/>%s<w:bookmarkEnd w:id="%d"/>`,
				d.bookmarkID, bookmarkName(el.ID),
				d.run(text, "b", d.opts.FontSizeBody+1, color),
				d.bookmarkID)
			d.para("", runs)
			d.body(el.Children)
			d.afterHeading = false
		case KindPhonetic:
			if d.opts.ShowPhonetics {
				d.para("", d.run("["+text+"]", "i", d.opts.FontSizeBody-1, "5A5A5A"))
			}
		case KindTranslationLiteral:
			d.labeled("Literal", text)
		case KindTranslationContextual:
			d.labeled("Contextual", text)
		case KindUsage:
			d.labeled("Usage", text)
		case KindExample:
			d.labeled("Example", text)
		case KindList:
			d.body(el.Children)
			d.afterHeading = false
		case KindListItem:
			d.para(`<w:ind w:left="360"/>`, d.run("•  "+text, "", d.opts.FontSizeBody, ""))
		case KindSeparator:
			d.para(`<w:jc w:val="center"/>`, d.run("* * *", "", d.opts.FontSizeBody, "787878"))
			d.afterHeading = false
		case KindTocNode, KindIndexEntry:
			// Navigation nodes have no body representation.
		}
	}
}

func (d *docxBuilder) labeled(label, text string) {
	variant := ""
	if d.opts.EmphasizeTranslation && (label == "Literal" || label == "Contextual") {
		variant = "i"
	}
	d.para("", d.run(label+": ", "i", d.opts.FontSizeBody, "464646")+
		d.run(text, variant, d.opts.FontSizeBody, "464646"))
}

// indexPage writes the back-matter index: each term links to the
// bookmark of its first location.
func (d *docxBuilder) indexPage(index *TermIndex) {
	d.pageBreak()
	d.para(`<w:jc w:val="center"/>`, d.run("Index", "b", d.opts.FontSizeH2, "1E1E1E"))
	d.para("", "")
	for _, term := range index.Terms() {
		runs := d.run(term, "", d.opts.FontSizeBody, "1F4E79")
		if locs := index.Locations(term); len(locs) > 0 {
			runs = fmt.Sprintf(`<w:hyperlink w:anchor=%q>%s</w:hyperlink>`, bookmarkName(locs[0]), runs)
		}
		d.para("", runs)
	}
}

func (d *docxBuilder) legacyBody(raw string) {
	for _, section := range SplitLegacyContent(raw) {
		if section.Title != "" {
			size := d.opts.FontSizeH3
			props := ""
			switch section.Level {
			case 1:
				size = d.opts.FontSizeH1
				if d.opts.UseChapterBreaks {
					props = "<w:pageBreakBefore/>"
				}
			case 2:
				size = d.opts.FontSizeH2
			}
			d.para(props, d.run(VisibleText(section.Title), "b", size, "1E1E1E"))
			d.afterHeading = true
		}
		for _, line := range section.Lines {
			jc := fmt.Sprintf(`<w:jc w:val="both"/><w:spacing w:line="%d" w:lineRule="auto"/>`, d.lineSpacingTwips())
			d.para(jc, d.run(VisibleText(line), "", d.opts.FontSizeBody, ""))
			d.afterHeading = false
		}
	}
}

// write assembles the OOXML package.
func (d *docxBuilder) write(path string) (err error) {
	f, err := os.Create(path) // #nosec G304 -- path derives from caller-provided output dir
	if err != nil {
		return fmt.Errorf("creating DOCX file: %w", err)
	}
	zw := zip.NewWriter(f)
	defer func() {
		if closeErr := zw.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing DOCX archive: %w", closeErr)
		}
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("closing DOCX file: %w", closeErr)
		}
	}()

	parts := []struct {
		name    string
		content string
	}{
		{"[Content_Types].xml", docxContentTypes},
		{"_rels/.rels", docxRels},
		{"word/document.xml", d.documentXML()},
	}
	for _, part := range parts {
		w, createErr := zw.Create(part.name)
		if createErr != nil {
			return fmt.Errorf("creating %s: %w", part.name, createErr)
		}
		if _, writeErr := w.Write([]byte(part.content)); writeErr != nil {
			return fmt.Errorf("writing %s: %w", part.name, writeErr)
		}
	}
	return nil
}

func (d *docxBuilder) documentXML() string {
	width, height, margin := d.opts.pageGeometry(d.spec)
	pageW := int(width * twipsPerMM)
	pageH := int(height * twipsPerMM)
	marginTwips := int(margin * twipsPerMM)

	return fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>%s<w:sectPr>
<w:pgSz w:w="%d" w:h="%d"/>
<w:pgMar w:top="%d" w:right="%d" w:bottom="%d" w:left="%d"/>
</w:sectPr></w:body></w:document>`,
		d.buf.String(), pageW, pageH, marginTwips, marginTwips, marginTwips, marginTwips)
}

const docxContentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
<Default Extension="xml" ContentType="application/xml"/>
<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>
</Types>`

const docxRels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">
<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>
</Relationships>`
