package fileutil

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteTempFile(t *testing.T) {
	path, cleanup, err := WriteTempFile("body { margin: 0 }", "css")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	defer cleanup()

	if !strings.HasSuffix(path, ".css") {
		t.Errorf("path = %q, want .css suffix", path)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading temp file: %v", err)
	}
	if string(data) != "body { margin: 0 }" {
		t.Errorf("content = %q, want roundtrip", data)
	}
}

func TestWriteTempFileCleanup(t *testing.T) {
	path, cleanup, err := WriteTempFile("x", "txt")
	if err != nil {
		t.Fatalf("WriteTempFile() error = %v", err)
	}
	cleanup()
	if _, err := os.Stat(path); !errors.Is(err, os.ErrNotExist) {
		t.Errorf("file still exists after cleanup: %v", err)
	}
}

func TestValidateExtension(t *testing.T) {
	tests := []struct {
		name    string
		ext     string
		wantErr error
	}{
		{name: "valid", ext: "css", wantErr: nil},
		{name: "empty", ext: "", wantErr: ErrExtensionEmpty},
		{name: "slash", ext: "a/b", wantErr: ErrExtensionPathTraversal},
		{name: "backslash", ext: `a\b`, wantErr: ErrExtensionPathTraversal},
		{name: "null byte", ext: "a\x00b", wantErr: ErrExtensionPathTraversal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateExtension(tt.ext)
			if tt.wantErr == nil && err != nil {
				t.Errorf("ValidateExtension(%q) = %v, want nil", tt.ext, err)
			}
			if tt.wantErr != nil && !errors.Is(err, tt.wantErr) {
				t.Errorf("ValidateExtension(%q) = %v, want %v", tt.ext, err, tt.wantErr)
			}
		})
	}
}

func TestFileExists(t *testing.T) {
	dir := t.TempDir()
	file := filepath.Join(dir, "exists.txt")
	if err := os.WriteFile(file, []byte("x"), 0o600); err != nil {
		t.Fatal(err)
	}

	if !FileExists(file) {
		t.Error("FileExists(regular file) = false")
	}
	if FileExists(dir) {
		t.Error("FileExists(directory) = true, want false")
	}
	if FileExists(filepath.Join(dir, "missing.txt")) {
		t.Error("FileExists(missing) = true, want false")
	}
}

func TestIsFilePath(t *testing.T) {
	if !IsFilePath("dir/file.css") {
		t.Error("IsFilePath(dir/file.css) = false")
	}
	if !IsFilePath(`dir\file.css`) {
		t.Error("IsFilePath(windows path) = false")
	}
	if IsFilePath("classic") {
		t.Error("IsFilePath(bare name) = true, want false")
	}
}
