package main

import (
	"reflect"
	"testing"
)

func TestParseConvertFlags(t *testing.T) {
	flags, rest, err := parseConvertFlags([]string{
		"book.md",
		"-o", "out",
		"-f", "pdf,txt",
		"-p", "kobo",
		"--theme", "modern",
		"--book-id", "42",
		"--font-size", "12.5",
		"--no-toc",
		"--analyze",
		"-q",
	})
	if err != nil {
		t.Fatalf("parseConvertFlags returned error: %v", err)
	}

	if !reflect.DeepEqual(rest, []string{"book.md"}) {
		t.Errorf("positional args = %v, expected [book.md]", rest)
	}
	if flags.output != "out" {
		t.Errorf("output = %q, expected %q", flags.output, "out")
	}
	if !reflect.DeepEqual(flags.formats, []string{"pdf", "txt"}) {
		t.Errorf("formats = %v, expected [pdf txt]", flags.formats)
	}
	if flags.platform != "kobo" {
		t.Errorf("platform = %q, expected %q", flags.platform, "kobo")
	}
	if flags.theme != "modern" {
		t.Errorf("theme = %q, expected %q", flags.theme, "modern")
	}
	if flags.book.id != "42" {
		t.Errorf("book id = %q, expected %q", flags.book.id, "42")
	}
	if flags.typography.fontSize != 12.5 {
		t.Errorf("font size = %v, expected 12.5", flags.typography.fontSize)
	}
	if !flags.toggles.noTOC {
		t.Error("expected noTOC to be set")
	}
	if !flags.analyze {
		t.Error("expected analyze to be set")
	}
	if !flags.common.quiet {
		t.Error("expected quiet to be set")
	}
}

func TestParseConvertFlagsDefaults(t *testing.T) {
	flags, rest, err := parseConvertFlags([]string{"book.md"})
	if err != nil {
		t.Fatalf("parseConvertFlags returned error: %v", err)
	}
	if len(rest) != 1 {
		t.Fatalf("positional args = %v, expected one", rest)
	}
	if flags.output != "" || flags.platform != "" || flags.theme != "" {
		t.Error("expected empty string defaults for output, platform, theme")
	}
	if len(flags.formats) != 0 {
		t.Errorf("formats = %v, expected none", flags.formats)
	}
	if flags.analyze || flags.legacy || flags.common.quiet || flags.common.verbose {
		t.Error("expected all boolean flags to default to false")
	}
	if flags.toggles != (toggleFlags{}) {
		t.Errorf("toggles = %+v, expected zero value", flags.toggles)
	}
}

func TestParseConvertFlagsUnknownFlag(t *testing.T) {
	_, _, err := parseConvertFlags([]string{"--no-such-flag", "book.md"})
	if err == nil {
		t.Fatal("expected error for unknown flag, got nil")
	}
}
