package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestRelativePath(t *testing.T) {
	tmp := t.TempDir()
	base := filepath.Join(tmp, "base")
	if err := os.MkdirAll(filepath.Join(base, "nested"), 0o755); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		target string
		want   string
	}{
		{"inside stays relative", filepath.Join(base, "nested", "file.js"), "nested/file.js"},
		{"base itself", base, "."},
		{"outside falls back to absolute", filepath.Join(tmp, "other", "file.js"), normalizePath(filepath.Join(tmp, "other", "file.js"))},
		{"sibling with common prefix", filepath.Join(tmp, "base2", "x.js"), normalizePath(filepath.Join(tmp, "base2", "x.js"))},
	}
	for _, tt := range tests {
		got, err := RelativePath(tt.target, base)
		if err != nil {
			t.Fatalf("%s: %v", tt.name, err)
		}
		if got != tt.want {
			t.Fatalf("%s: RelativePath = %q, want %q", tt.name, got, tt.want)
		}
	}
}

func TestFormatPathModes(t *testing.T) {
	file := &File{Path: "/srv/app/src/deeply/nested/folder/structure/component.tsx"}
	if got := file.FormatPath("basename", ""); got != "component.tsx" {
		t.Fatalf("basename = %q", got)
	}
	if got := file.FormatPath("auto", ""); got != "component.tsx" {
		t.Fatalf("auto on a long absolute path = %q", got)
	}
	short := &File{Path: "src/a.js"}
	if got := short.FormatPath("auto", ""); got != "src/a.js" {
		t.Fatalf("auto on a relative path = %q", got)
	}
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  string
		flags FileFlags
	}{
		{"plain", "a\nb\n", "a\nb\n", 0},
		{"crlf", "a\r\n\r\nb\r\n", "a\n\nb\n", FileNormalizedCRLF},
		{"lone cr kept", "a\rb\n", "a\rb\n", 0},
		{"bom", "\xEF\xBB\xBFa\n", "a\n", FileHadBOM},
		{"bom and crlf", "\xEF\xBB\xBFa\r\n", "a\n", FileHadBOM | FileNormalizedCRLF},
		{"bom not at start", "a\xEF\xBB\xBF", "a\xEF\xBB\xBF", 0},
	}
	for _, tt := range tests {
		got, flags := Normalize([]byte(tt.in))
		if string(got) != tt.want || flags != tt.flags {
			t.Fatalf("%s: Normalize(%q) = %q, %b; want %q, %b", tt.name, tt.in, got, flags, tt.want, tt.flags)
		}
	}
}

func TestAddVirtualNormalizes(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("stdin.js", []byte("a\r\n\r\nb\r\n")))
	if string(file.Content) != "a\n\nb\n" {
		t.Fatalf("content = %q", file.Content)
	}
	if file.Flags&(FileVirtual|FileNormalizedCRLF) != FileVirtual|FileNormalizedCRLF {
		t.Fatalf("flags = %b", file.Flags)
	}
	if got := fs.Get(file.ID).LineCount(); got != 4 {
		t.Fatalf("LineCount = %d, want 4", got)
	}
}
