package diagfmt

import (
	"bytes"
	"fmt"
	"io"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"emptylines/internal/diag"
	"emptylines/internal/source"
)

// editPreview holds the whole lines an edit touches, before and after it
// is applied.
type editPreview struct {
	before []string
	after  []string
}

func previewEdit(fs *source.FileSet, edit diag.TextEdit) (editPreview, error) {
	if fs == nil {
		return editPreview{}, fmt.Errorf("nil FileSet")
	}
	file := fs.Get(edit.Span.File)
	if file == nil {
		return editPreview{}, fmt.Errorf("file %d not found in FileSet", edit.Span.File)
	}

	first, last := fs.Resolve(edit.Span)
	from, _ := file.LineStart(first.Line)
	to, ok := file.LineStart(max(first.Line, last.Line) + 1)
	if !ok {
		to = file.Len()
	}
	if edit.Span.End < edit.Span.Start || edit.Span.Start < from || edit.Span.End > to {
		return editPreview{}, fmt.Errorf("edit %v outside lines %d-%d", edit.Span, first.Line, last.Line)
	}

	block := file.Content[from:to]
	var after bytes.Buffer
	after.Write(block[:edit.Span.Start-from])
	after.WriteString(edit.NewText)
	after.Write(block[edit.Span.End-from:])

	return editPreview{
		before: previewLines(block),
		after:  previewLines(after.Bytes()),
	}, nil
}

func previewLines(content []byte) []string {
	if len(content) == 0 {
		return nil
	}
	// один завершающий \n не даёт лишней пустой строки, остальные сохраняем
	return strings.Split(strings.TrimSuffix(string(content), "\n"), "\n")
}

// UnifiedDiff writes a unified diff between before and after for path.
// Nothing is written when the contents are equal.
func UnifiedDiff(w io.Writer, path string, before, after []byte) error {
	if bytes.Equal(before, after) {
		return nil
	}
	text, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(string(before)),
		B:        difflib.SplitLines(string(after)),
		FromFile: "a/" + path,
		ToFile:   "b/" + path,
		Context:  3,
	})
	if err != nil {
		return err
	}
	_, err = io.WriteString(w, text)
	return err
}
