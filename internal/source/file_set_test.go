package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetAddKeepsEveryVersion(t *testing.T) {
	fs := NewFileSet()
	id1 := fs.Add("src/../test.js", []byte("hello world"), 0)
	id2 := fs.Add("test.js", []byte("hello universe"), 0)
	if id1 != 0 || id2 != 1 || fs.Len() != 2 {
		t.Fatalf("ids %d, %d and len %d; want 0, 1 and 2", id1, id2, fs.Len())
	}
	if got := fs.Get(id1); got.Path != "test.js" || string(got.Content) != "hello world" {
		t.Errorf("first version = %q %q", got.Path, got.Content)
	}
	if fs.Get(id1).Hash == fs.Get(id2).Hash {
		t.Error("different contents must hash differently")
	}
	if fs.Get(FileID(42)) != nil {
		t.Error("Expected nil for unknown FileID")
	}
}

// TestAddVirtualLineIdx проверяет правильность построения LineIdx для AddVirtual
func TestAddVirtualLineIdx(t *testing.T) {
	fs := NewFileSet()

	id := fs.AddVirtual("a.js", []byte("a\nb\n"))
	file := fs.Get(id)

	expected := []uint32{1, 3} // позиции символов \n
	if len(file.LineIdx) != len(expected) {
		t.Fatalf("Expected LineIdx length %d, got %d", len(expected), len(file.LineIdx))
	}
	for i, val := range expected {
		if file.LineIdx[i] != val {
			t.Errorf("Expected LineIdx[%d] = %d, got %d", i, val, file.LineIdx[i])
		}
	}
	if file.Flags&FileVirtual == 0 {
		t.Error("Expected FileVirtual flag to be set")
	}
	if file.LineCount() != 3 {
		t.Errorf("Expected 3 physical lines, got %d", file.LineCount())
	}
}

func TestLineStart(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.js", []byte("ab\n\ncd\n")))

	tests := []struct {
		line uint32
		off  uint32
		ok   bool
	}{
		{0, 0, false},
		{1, 0, true},
		{2, 3, true},
		{3, 4, true},
		{4, 7, true},
		{5, 0, false},
	}
	for _, tt := range tests {
		off, ok := file.LineStart(tt.line)
		if ok != tt.ok || off != tt.off {
			t.Errorf("LineStart(%d) = (%d, %v), want (%d, %v)", tt.line, off, ok, tt.off, tt.ok)
		}
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.js", []byte("first\n\nthird")))

	for line, want := range map[uint32]string{0: "", 1: "first", 2: "", 3: "third", 4: ""} {
		if got := file.GetLine(line); got != want {
			t.Errorf("GetLine(%d) = %q, want %q", line, got, want)
		}
	}
}

func TestLinesKeepsTrailingEmptyLine(t *testing.T) {
	fs := NewFileSet()
	file := fs.Get(fs.AddVirtual("a.js", []byte("a\n\n")))
	lines := file.Lines()
	if len(lines) != 3 || lines[0] != "a" || lines[1] != "" || lines[2] != "" {
		t.Fatalf("unexpected lines %q", lines)
	}
}

func TestResolve(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.js", []byte("ab\ncd\n"))

	start, end := fs.Resolve(Span{File: id, Start: 3, End: 6})
	if start != (LineCol{Line: 2, Col: 1}) {
		t.Errorf("start = %+v", start)
	}
	if end != (LineCol{Line: 3, Col: 1}) {
		t.Errorf("end = %+v", end)
	}

	// позиция самого '\n' принадлежит строке, которую он завершает
	nl, _ := fs.Resolve(Span{File: id, Start: 2, End: 2})
	if nl != (LineCol{Line: 1, Col: 3}) {
		t.Errorf("newline position = %+v", nl)
	}
}

func TestLoadNormalizesBOMAndCRLF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.js")
	content := append([]byte{0xEF, 0xBB, 0xBF}, []byte("x\r\n\r\ny\r\n")...)
	if err := os.WriteFile(path, content, 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	file := fs.Get(id)
	if string(file.Content) != "x\n\ny\n" {
		t.Errorf("unexpected content %q", file.Content)
	}
	if file.Flags&FileHadBOM == 0 || file.Flags&FileNormalizedCRLF == 0 {
		t.Errorf("expected BOM and CRLF flags, got %b", file.Flags)
	}
	if file.Flags&FileVirtual != 0 {
		t.Error("loaded file must not be virtual")
	}
}

func TestLoadMissingFile(t *testing.T) {
	fs := NewFileSet()
	if _, err := fs.Load(filepath.Join(t.TempDir(), "missing.js")); err == nil {
		t.Fatal("expected error for missing file")
	}
}
