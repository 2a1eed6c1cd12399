package bookpub

import (
	"archive/zip"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
)

func TestEpubRendererPackage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.epub")
	req := testRenderRequest(t, dir)

	if err := (&epubRenderer{}).render(req, path); err != nil {
		t.Fatalf("render() error = %v", err)
	}

	zr, err := zip.OpenReader(path)
	if err != nil {
		t.Fatalf("artifact is not a valid zip: %v", err)
	}
	defer zr.Close()

	if len(zr.File) == 0 || zr.File[0].Name != "mimetype" {
		t.Error("EPUB must start with the mimetype entry")
	}
	names := map[string]bool{}
	for _, f := range zr.File {
		names[f.Name] = true
	}
	if !names["META-INF/container.xml"] {
		t.Error("container.xml missing")
	}
}

func TestEpubSplitChapters(t *testing.T) {
	req := testRenderRequest(t, t.TempDir())
	chapters := (&epubRenderer{}).splitChapters(req)

	// sampleBook: book title forms front matter, one chapter follows.
	if len(chapters) != 2 {
		t.Fatalf("got %d chapters, want 2", len(chapters))
	}
	if chapters[1].title != "Chapter 1: Greetings" {
		t.Errorf("chapter title = %q", chapters[1].title)
	}
	if !strings.Contains(chapters[1].body, "expression-block") {
		t.Error("expression block markup missing from chapter body")
	}
	if !strings.Contains(chapters[1].body, "<ul>") {
		t.Error("list markup missing from chapter body")
	}
}

func TestEpubSplitLegacyChapters(t *testing.T) {
	r := &epubRenderer{}
	chapters := r.splitLegacyChapters("Preamble text.\n\n# One\n\nBody one.\n\n# Two\n\nBody two.")

	if len(chapters) != 3 {
		t.Fatalf("got %d chapters, want preamble plus two", len(chapters))
	}
	if chapters[0].title != "Front Matter" {
		t.Errorf("first chapter title = %q, want Front Matter", chapters[0].title)
	}
	if chapters[1].title != "One" || chapters[2].title != "Two" {
		t.Errorf("chapter titles = %q, %q", chapters[1].title, chapters[2].title)
	}
}

func TestBuildEPUBStylesheet(t *testing.T) {
	opts := DefaultFormattingOptions().withDefaults()
	spec := LookupPlatform(PlatformStandard)
	css := buildEPUBStylesheet(opts, spec)

	for _, want := range []string{
		"font-family",
		"line-height: 150%",
		"text-align: justify",
		"page-break-before: always",
		".expression-block",
		".phonetic",
	} {
		if !strings.Contains(css, want) {
			t.Errorf("stylesheet lacks %q", want)
		}
	}

	plain := DefaultFormattingOptions()
	plain.HighlightExpressions = false
	css = buildEPUBStylesheet(plain.withDefaults(), spec)
	if strings.Contains(css, "border-left") {
		t.Error("highlight border present despite HighlightExpressions=false")
	}
}

func TestBuildEPUBStylesheetMarginOverride(t *testing.T) {
	spec := LookupPlatform(PlatformStandard)

	opts := DefaultFormattingOptions().withDefaults()
	opts.MarginMM = 30
	css := buildEPUBStylesheet(opts, spec)
	if !strings.Contains(css, "margin: 0 30mm") {
		t.Errorf("stylesheet ignores the margin override:\n%s", css)
	}

	_, _, specMargin := DefaultFormattingOptions().withDefaults().pageGeometry(spec)
	css = buildEPUBStylesheet(DefaultFormattingOptions().withDefaults(), spec)
	if !strings.Contains(css, fmt.Sprintf("margin: 0 %.0fmm", specMargin)) {
		t.Errorf("stylesheet does not express the platform margin in mm:\n%s", css)
	}
}

func TestIndexChapter(t *testing.T) {
	index := NewTermIndex()
	index.Add("¡Qué onda!", "expr-que-onda")
	index.Add("Órale", "expr-orale")

	ch := indexChapter(index)
	if ch.title != "Index" {
		t.Errorf("chapter title = %q, want Index", ch.title)
	}
	for _, want := range []string{"<h2>Index</h2>", "<li>¡Qué onda!</li>", "<li>Órale</li>"} {
		if !strings.Contains(ch.body, want) {
			t.Errorf("index body lacks %q:\n%s", want, ch.body)
		}
	}
}

func TestCoverExt(t *testing.T) {
	tests := []struct {
		path     string
		expected string
	}{
		{"cover.png", ".png"},
		{"cover.PNG", ".png"},
		{"cover.gif", ".gif"},
		{"cover.jpg", ".jpg"},
		{"cover.jpeg", ".jpg"},
		{"cover", ".jpg"},
	}
	for _, tt := range tests {
		if got := coverExt(tt.path); got != tt.expected {
			t.Errorf("coverExt(%q) = %q, want %q", tt.path, got, tt.expected)
		}
	}
}
