package bookpub

import (
	"fmt"
	"strings"
	"time"

	"github.com/jung-kurt/gofpdf"
	"github.com/pdfcpu/pdfcpu/pkg/api"

	"github.com/mfialho/go-bookpub/internal/fileutil"
)

// ptToMM converts font points to millimeters for line heights.
const ptToMM = 0.3528

// pdfStyle is the visual treatment of one element kind.
type pdfStyle struct {
	family  string
	variant string // "", "B", "I", "BI"
	size    float64
	color   [3]int
	after   float64 // vertical space after, mm
}

// pdfRenderer builds a flowable story with per-kind paragraph styles.
type pdfRenderer struct{}

func (r *pdfRenderer) render(req RenderRequest, path string) error {
	opts := req.Options
	width, height, margin := opts.pageGeometry(req.Spec)

	pdf := gofpdf.NewCustom(&gofpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "mm",
		Size:           gofpdf.SizeType{Wd: width, Ht: height},
	})
	pdf.SetMargins(margin, margin, margin)
	pdf.SetAutoPageBreak(true, margin)
	pdf.SetTitle(req.resolvedTitle(), true)
	pdf.SetAuthor(req.resolvedAuthor(), true)
	pdf.SetCreator("go-bookpub", true)
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	if opts.UseHeadersFooters {
		pdf.SetFooterFunc(func() {
			pdf.SetY(-margin + 4)
			pdf.SetFont(pdfFamily(opts.FontFamily), "I", 8)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(0, 6, fmt.Sprintf("%d", pdf.PageNo()), "", 0, "C", false, 0, "")
		})
	}

	styles := buildPDFStyles(opts)

	if opts.IncludeCover && fileutil.FileExists(req.CoverPath) {
		pdf.AddPage()
		pdf.ImageOptions(req.CoverPath, 0, 0, width, height, false,
			gofpdf.ImageOptions{ReadDpi: true}, 0, "")
	}

	if opts.IncludeTitlePage {
		r.titlePage(pdf, tr, req, opts, height)
	}
	if opts.IncludeCopyright {
		r.copyrightPage(pdf, tr, req, opts)
	}

	toc := req.tocEntries()
	links := map[string]int{}
	if opts.IncludeTOC && len(toc) > 0 {
		r.tocPage(pdf, tr, opts, toc, links)
	}

	// Index links must exist before the body lays out their targets.
	var index *TermIndex
	if opts.IncludeIndex && req.Model != nil && req.Model.Index != nil && req.Model.Index.Len() > 0 {
		index = req.Model.Index
		for _, term := range index.Terms() {
			if locs := index.Locations(term); len(locs) > 0 {
				if _, ok := links[locs[0]]; !ok {
					links[locs[0]] = pdf.AddLink()
				}
			}
		}
	}

	pdf.AddPage()
	if req.Model != nil {
		r.renderElements(pdf, tr, req.Model.Elements, opts, styles, links, false)
	} else {
		r.renderLegacy(pdf, tr, req.RawContent, opts, styles)
	}

	if index != nil {
		r.indexPage(pdf, tr, opts, index, links)
	}

	if err := pdf.OutputFileAndClose(path); err != nil {
		return fmt.Errorf("writing PDF: %w", err)
	}
	if err := api.ValidateFile(path, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrArtifactInvalid, err)
	}
	return nil
}

func (r *pdfRenderer) titlePage(pdf *gofpdf.Fpdf, tr func(string) string, req RenderRequest, opts FormattingOptions, pageHeight float64) {
	pdf.AddPage()
	pdf.SetY(pageHeight / 3)
	pdf.SetFont(pdfFamily(opts.FontFamily), "B", opts.FontSizeH1+6)
	pdf.SetTextColor(30, 30, 30)
	pdf.MultiCell(0, (opts.FontSizeH1+6)*ptToMM*1.2, tr(req.resolvedTitle()), "", "C", false)
	pdf.Ln(12)
	pdf.SetFont(pdfFamily(opts.FontFamily), "", opts.FontSizeH3)
	pdf.SetTextColor(80, 80, 80)
	pdf.MultiCell(0, opts.FontSizeH3*ptToMM*1.4, tr(req.resolvedAuthor()), "", "C", false)
}

func (r *pdfRenderer) copyrightPage(pdf *gofpdf.Fpdf, tr func(string) string, req RenderRequest, opts FormattingOptions) {
	pdf.AddPage()
	pdf.SetFont(pdfFamily(opts.FontFamily), "", 9)
	pdf.SetTextColor(60, 60, 60)
	lines := []string{
		fmt.Sprintf("Copyright © %d %s", time.Now().Year(), req.resolvedAuthor()),
		"All rights reserved.",
		"",
		"No part of this publication may be reproduced, distributed, or",
		"transmitted in any form without the prior written permission of",
		"the publisher.",
	}
	for _, line := range lines {
		pdf.MultiCell(0, 5, tr(line), "", "L", false)
	}
}

// tocPage writes the contents page. Each entry gets an internal link
// that the body resolves when its heading is laid out.
func (r *pdfRenderer) tocPage(pdf *gofpdf.Fpdf, tr func(string) string, opts FormattingOptions, toc []*TOCEntry, links map[string]int) {
	pdf.AddPage()
	pdf.SetFont(pdfFamily(opts.FontFamily), "B", opts.FontSizeH2)
	pdf.SetTextColor(30, 30, 30)
	pdf.MultiCell(0, opts.FontSizeH2*ptToMM*1.4, tr("Table of Contents"), "", "C", false)
	pdf.Ln(6)

	var write func(entries []*TOCEntry, depth int)
	write = func(entries []*TOCEntry, depth int) {
		for _, entry := range entries {
			link := pdf.AddLink()
			links[entry.ID] = link
			size := opts.FontSizeBody + 1
			variant := ""
			if depth == 0 {
				variant = "B"
			}
			pdf.SetFont(pdfFamily(opts.FontFamily), variant, size)
			pdf.SetTextColor(50, 50, 50)
			pdf.SetX(pdf.GetX() + float64(depth)*6)
			pdf.CellFormat(0, size*ptToMM*1.6, tr(entry.Title), "", 1, "L", false, link, "")
			pdf.SetX(pdf.GetX() - float64(depth)*6)
			write(entry.Children, depth+1)
		}
	}
	write(toc, 0)
}

// indexPage writes the back-matter index. Each term links to its first
// location in the body.
func (r *pdfRenderer) indexPage(pdf *gofpdf.Fpdf, tr func(string) string, opts FormattingOptions, index *TermIndex, links map[string]int) {
	pdf.AddPage()
	pdf.SetFont(pdfFamily(opts.FontFamily), "B", opts.FontSizeH2)
	pdf.SetTextColor(30, 30, 30)
	pdf.MultiCell(0, opts.FontSizeH2*ptToMM*1.4, tr("Index"), "", "C", false)
	pdf.Ln(4)
	pdf.SetFont(pdfFamily(opts.FontFamily), "", opts.FontSizeBody)
	pdf.SetTextColor(50, 50, 50)
	for _, term := range index.Terms() {
		link := 0
		if locs := index.Locations(term); len(locs) > 0 {
			link = links[locs[0]]
		}
		pdf.CellFormat(0, opts.FontSizeBody*ptToMM*1.6, tr(term), "", 1, "L", false, link, "")
	}
}

func (r *pdfRenderer) renderElements(pdf *gofpdf.Fpdf, tr func(string) string, elements []*DocumentElement, opts FormattingOptions, styles map[ElementKind]pdfStyle, links map[string]int, nested bool) {
	afterHeading := true
	for _, el := range elements {
		switch el.Kind {
		case KindBookTitle:
			// The title page already presents the book title.
			continue
		case KindChapter:
			if opts.UseChapterBreaks && !nested {
				pdf.AddPage()
			}
		case KindTocNode, KindIndexEntry:
			continue
		}

		if link, ok := links[el.ID]; ok {
			pdf.SetLink(link, -1, -1)
		}

		style := styles[el.Kind]
		text := VisibleText(el.Content)

		switch el.Kind {
		case KindSeparator:
			pdf.Ln(3)
			pdf.SetFont(pdfFamily(opts.FontFamily), "", opts.FontSizeBody)
			pdf.SetTextColor(120, 120, 120)
			pdf.CellFormat(0, 6, "* * *", "", 1, "C", false, 0, "")
			pdf.Ln(3)
			afterHeading = false
			continue
		case KindList:
			r.renderElements(pdf, tr, el.Children, opts, styles, links, true)
			pdf.Ln(style.after)
			afterHeading = false
			continue
		case KindPhonetic:
			if !opts.ShowPhonetics {
				continue
			}
			text = "[" + text + "]"
		case KindListItem:
			text = "•  " + text
		case KindExpression:
			if num, ok := el.Metadata["number"].(int); ok {
				text = fmt.Sprintf("%d. %s", num, text)
			}
		case KindParagraph:
			if opts.FirstLineIndent > 0 && !afterHeading {
				text = "     " + text
			}
		}

		pdf.SetFont(style.family, style.variant, style.size)
		pdf.SetTextColor(style.color[0], style.color[1], style.color[2])
		lineHt := style.size * ptToMM * opts.LineSpacing
		align := "L"
		if el.Kind == KindParagraph {
			align = "J"
		}
		pdf.MultiCell(0, lineHt, tr(text), "", align, false)
		pdf.Ln(style.after)

		if el.Kind == KindExpression && len(el.Children) > 0 {
			r.renderElements(pdf, tr, el.Children, opts, styles, links, true)
		}
		afterHeading = el.Kind.IsHeading()
	}
}

func (r *pdfRenderer) renderLegacy(pdf *gofpdf.Fpdf, tr func(string) string, raw string, opts FormattingOptions, styles map[ElementKind]pdfStyle) {
	for _, section := range SplitLegacyContent(raw) {
		var style pdfStyle
		switch section.Level {
		case 1:
			if opts.UseChapterBreaks {
				pdf.AddPage()
			}
			style = styles[KindChapter]
		case 2:
			style = styles[KindChapterTitle]
		case 3:
			style = styles[KindSection]
		case 0:
			style = styles[KindParagraph]
		default:
			style = styles[KindSubsection]
		}
		if section.Title != "" {
			pdf.SetFont(style.family, style.variant, style.size)
			pdf.SetTextColor(style.color[0], style.color[1], style.color[2])
			pdf.MultiCell(0, style.size*ptToMM*1.3, tr(VisibleText(section.Title)), "", "L", false)
			pdf.Ln(style.after)
		}
		body := styles[KindParagraph]
		pdf.SetFont(body.family, body.variant, body.size)
		pdf.SetTextColor(body.color[0], body.color[1], body.color[2])
		for _, line := range section.Lines {
			pdf.MultiCell(0, body.size*ptToMM*opts.LineSpacing, tr(VisibleText(line)), "", "J", false)
			pdf.Ln(body.after / 2)
		}
	}
}

// buildPDFStyles maps every element kind to its paragraph style.
// The switch over kinds is exhaustive by construction: a kind without a
// style renders as body text.
func buildPDFStyles(opts FormattingOptions) map[ElementKind]pdfStyle {
	family := pdfFamily(opts.FontFamily)
	body := pdfStyle{family: family, size: opts.FontSizeBody, color: [3]int{20, 20, 20}, after: opts.ParagraphSpacing * ptToMM * 2}

	expressionColor := [3]int{20, 20, 20}
	if opts.HighlightExpressions {
		expressionColor = [3]int{140, 60, 20}
	}
	translationVariant := ""
	if opts.EmphasizeTranslation {
		translationVariant = "I"
	}

	return map[ElementKind]pdfStyle{
		KindBookTitle:             {family: family, variant: "B", size: opts.FontSizeH1 + 6, color: [3]int{30, 30, 30}, after: 10},
		KindChapter:               {family: family, variant: "B", size: opts.FontSizeH1, color: [3]int{30, 30, 30}, after: 8},
		KindChapterTitle:          {family: family, variant: "B", size: opts.FontSizeH2, color: [3]int{40, 40, 40}, after: 6},
		KindSection:               {family: family, variant: "B", size: opts.FontSizeH3, color: [3]int{50, 50, 50}, after: 4},
		KindSubsection:            {family: family, variant: "BI", size: opts.FontSizeH3 - 1, color: [3]int{60, 60, 60}, after: 3},
		KindParagraph:             body,
		KindExpression:            {family: family, variant: "B", size: opts.FontSizeBody + 1, color: expressionColor, after: 1},
		KindPhonetic:              {family: family, variant: "I", size: opts.FontSizeBody - 1, color: [3]int{90, 90, 90}, after: 1},
		KindTranslationLiteral:    {family: family, variant: translationVariant, size: opts.FontSizeBody, color: [3]int{70, 70, 70}, after: 1},
		KindTranslationContextual: {family: family, variant: translationVariant, size: opts.FontSizeBody, color: [3]int{70, 70, 70}, after: 1},
		KindUsage:                 {family: family, size: opts.FontSizeBody, color: [3]int{70, 70, 70}, after: 1},
		KindExample:               {family: family, variant: "I", size: opts.FontSizeBody, color: [3]int{70, 70, 70}, after: 2},
		KindList:                  {family: family, size: opts.FontSizeBody, color: [3]int{20, 20, 20}, after: 2},
		KindListItem:              {family: family, size: opts.FontSizeBody, color: [3]int{20, 20, 20}, after: 1},
		KindSeparator:             {family: family, size: opts.FontSizeBody, color: [3]int{120, 120, 120}, after: 3},
		KindTocNode:               body,
		KindIndexEntry:            body,
	}
}

// pdfFamily maps a requested font family onto the closest core PDF font.
var pdfSerifFamilies = []string{"georgia", "garamond", "times", "palatino", "book antiqua", "baskerville"}

func pdfFamily(requested string) string {
	lower := strings.ToLower(requested)
	for _, serif := range pdfSerifFamilies {
		if strings.Contains(lower, serif) {
			return "Times"
		}
	}
	if strings.Contains(lower, "courier") || strings.Contains(lower, "mono") {
		return "Courier"
	}
	return "Helvetica"
}

// tocEntries returns the model's TOC when available, otherwise rebuilds
// one by scanning for heading kinds. The fallback path serves legacy
// raw-markdown content that bypasses the parser.
func (r RenderRequest) tocEntries() []*TOCEntry {
	if r.Model != nil && len(r.Model.TOC) > 0 {
		return r.Model.TOC
	}
	if r.Model != nil {
		var entries []*TOCEntry
		r.Model.Walk(func(el *DocumentElement) bool {
			switch el.Kind {
			case KindChapter:
				entries = append(entries, &TOCEntry{ID: el.ID, Title: VisibleText(el.Content), Level: 1})
			case KindSection:
				if len(entries) > 0 {
					last := entries[len(entries)-1]
					last.Children = append(last.Children, &TOCEntry{ID: el.ID, Title: VisibleText(el.Content), Level: 3})
				}
			}
			return true
		})
		return entries
	}
	var entries []*TOCEntry
	for i, section := range SplitLegacyContent(r.RawContent) {
		if section.Level == 1 {
			entries = append(entries, &TOCEntry{
				ID:    fmt.Sprintf("legacy-%d", i),
				Title: VisibleText(section.Title),
				Level: 1,
			})
		}
	}
	return entries
}
