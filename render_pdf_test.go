package bookpub

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestPdfRendererWritesValidFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.pdf")
	req := testRenderRequest(t, dir)

	// render validates the artifact with pdfcpu before returning.
	if err := (&pdfRenderer{}).render(req, path); err != nil {
		t.Fatalf("render() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(data) == 0 || !strings.HasPrefix(string(data[:5]), "%PDF-") {
		t.Error("artifact does not start with a PDF header")
	}
}

func TestPdfRendererLegacyFallback(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "legacy.pdf")
	req := testRenderRequest(t, dir)
	req.Model = nil
	req.RawContent = "# Old Book\n\nLegacy body text.\n\n## Part Two\n\nMore text."

	if err := (&pdfRenderer{}).render(req, path); err != nil {
		t.Fatalf("render() error = %v", err)
	}
	if info, err := os.Stat(path); err != nil || info.Size() == 0 {
		t.Errorf("legacy PDF missing or empty: %v", err)
	}
}

func TestPdfFamily(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{"Georgia", "Times"},
		{"Times New Roman", "Times"},
		{"Palatino Linotype", "Times"},
		{"Courier New", "Courier"},
		{"JetBrains Mono", "Courier"},
		{"Arial", "Helvetica"},
		{"", "Helvetica"},
	}
	for _, tt := range tests {
		if got := pdfFamily(tt.in); got != tt.expected {
			t.Errorf("pdfFamily(%q) = %q, want %q", tt.in, got, tt.expected)
		}
	}
}

func TestTocEntriesFallbacks(t *testing.T) {
	// Model with a TOC uses it directly.
	withTOC := testRenderRequest(t, t.TempDir())
	if entries := withTOC.tocEntries(); len(entries) != 1 {
		t.Errorf("model TOC entries = %d, want 1", len(entries))
	}

	// Model without a TOC rebuilds from heading kinds.
	model := NewParser().Parse("# Chapter 1: One\n\n### Deep Dive\n", "", "", "en")
	model.TOC = nil
	scanned := RenderRequest{Model: model}
	entries := scanned.tocEntries()
	if len(entries) != 1 || len(entries[0].Children) != 1 {
		t.Errorf("scanned entries = %+v, want chapter with nested section", entries)
	}

	// No model at all: legacy level-1 sections become entries.
	legacy := RenderRequest{RawContent: "# One\n\ntext\n\n# Two\n\ntext"}
	if entries := legacy.tocEntries(); len(entries) != 2 {
		t.Errorf("legacy entries = %d, want 2", len(entries))
	}
}
