package bookpub

import (
	"archive/zip"
	"io"
	"path/filepath"
	"strings"
	"testing"
)

func readDocxDocument(t *testing.T, path string) string {
	t.Helper()
	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("opening DOCX archive: %v", err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			t.Fatal(err)
		}
		defer rc.Close()
		data, err := io.ReadAll(rc)
		if err != nil {
			t.Fatal(err)
		}
		return string(data)
	}
	t.Fatal("word/document.xml not found in archive")
	return ""
}

func TestDocxRendererPackage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")
	req := testRenderRequest(t, dir)

	if err := (&docxRenderer{}).render(req, path); err != nil {
		t.Fatalf("render() error = %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("artifact is not a valid zip: %v", err)
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	zr.Close()

	for _, want := range []string{"[Content_Types].xml", "_rels/.rels", "word/document.xml"} {
		if !names[want] {
			t.Errorf("archive lacks %s", want)
		}
	}
}

func TestDocxRendererBookmarksMatchTOC(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")
	req := testRenderRequest(t, dir)

	if err := (&docxRenderer{}).render(req, path); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	doc := readDocxDocument(t, path)

	// Every TOC hyperlink anchor must have a matching bookmark at the
	// heading it targets.
	for _, entry := range req.tocEntries() {
		anchor := bookmarkName(entry.ID)
		if !strings.Contains(doc, `w:anchor="`+anchor+`"`) {
			t.Errorf("TOC hyperlink for %q missing", anchor)
		}
		if !strings.Contains(doc, `w:name="`+anchor+`"`) {
			t.Errorf("bookmark %q missing at heading", anchor)
		}
	}

	if !strings.Contains(doc, "Table of Contents") {
		t.Error("TOC page missing")
	}
	if !strings.Contains(doc, "<w:sectPr>") {
		t.Error("section properties missing")
	}
}

func TestDocxRendererBodyContent(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")
	req := testRenderRequest(t, dir)

	if err := (&docxRenderer{}).render(req, path); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	doc := readDocxDocument(t, path)

	for _, want := range []string{
		"Chapter 1: Greetings",
		"1. ¡Qué onda!",
		"[keh OHN-dah]",
		"Literal: ",
		"•  Use with friends only",
	} {
		if !strings.Contains(doc, want) {
			t.Errorf("document.xml lacks %q", want)
		}
	}
}

func TestDocxRendererPageGeometryOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")
	req := testRenderRequest(t, dir)
	req.Options.PageWidthMM = 210
	req.Options.PageHeightMM = 297
	req.Options.MarginMM = 30

	if err := (&docxRenderer{}).render(req, path); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	doc := readDocxDocument(t, path)

	// A4 at 56.7 twips/mm.
	if !strings.Contains(doc, `<w:pgSz w:w="11907" w:h="16839"/>`) {
		t.Error("section properties ignore the page size overrides")
	}
	if !strings.Contains(doc, `w:top="1701"`) {
		t.Error("section properties ignore the margin override")
	}
}

func TestDocxRendererIndexPage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")
	req := testRenderRequest(t, dir)

	if err := (&docxRenderer{}).render(req, path); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	doc := readDocxDocument(t, path)

	if !strings.Contains(doc, ">Index<") {
		t.Error("index page heading missing")
	}
	for _, term := range req.Model.Index.Terms() {
		if !strings.Contains(doc, xmlEscape(term)) {
			t.Errorf("index entry %q missing", term)
		}
		locs := req.Model.Index.Locations(term)
		if len(locs) == 0 {
			t.Fatalf("term %q has no locations", term)
		}
		anchor := bookmarkName(locs[0])
		if !strings.Contains(doc, `<w:hyperlink w:anchor="`+anchor+`"`) {
			t.Errorf("index entry %q does not link to %q", term, anchor)
		}
		if !strings.Contains(doc, `w:name="`+anchor+`"`) {
			t.Errorf("expression bookmark %q missing", anchor)
		}
	}
}

func TestDocxRendererIndexDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.docx")
	req := testRenderRequest(t, dir)
	req.Options.IncludeIndex = false

	if err := (&docxRenderer{}).render(req, path); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	if strings.Contains(readDocxDocument(t, path), ">Index<") {
		t.Error("index page rendered despite IncludeIndex=false")
	}
}

func TestBookmarkName(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"chapter-1-saludos", "h_chapter_1_saludos"},
		{"practica", "h_practica"},
	}
	for _, tt := range tests {
		if got := bookmarkName(tt.in); got != tt.expected {
			t.Errorf("bookmarkName(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}
