package fix

import (
	"bytes"
	"cmp"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"emptylines/internal/diag"
	"emptylines/internal/source"
)

// ApplyToContent applies non-overlapping edits to content and returns a new
// buffer; content itself is left alone. Spans are read as offsets into
// content whatever their File says.
func ApplyToContent(content []byte, edits []diag.TextEdit) ([]byte, error) {
	sorted := slices.Clone(edits)
	slices.SortStableFunc(sorted, func(a, b diag.TextEdit) int {
		return cmp.Or(cmp.Compare(a.Span.Start, b.Span.Start), cmp.Compare(a.Span.End, b.Span.End))
	})

	var out bytes.Buffer
	out.Grow(len(content))
	pos := 0
	for i, edit := range sorted {
		start, end := int(edit.Span.Start), int(edit.Span.End)
		if end < start || end > len(content) {
			return nil, fmt.Errorf("edit span %d..%d out of range", start, end)
		}
		if i > 0 && (start < pos || spansConflict(sorted[i-1], edit)) {
			return nil, fmt.Errorf("%w at %d..%d", ErrConflict, start, end)
		}
		if edit.OldText != "" && string(content[start:end]) != edit.OldText {
			return nil, fmt.Errorf("existing text at %d..%d does not match expected content", start, end)
		}
		out.Write(content[pos:start])
		out.WriteString(edit.NewText)
		pos = end
	}
	out.Write(content[pos:])
	return out.Bytes(), nil
}

// validateEdits checks the edits of one fix against file and returns a
// skip reason, or "".
func validateEdits(file *source.File, edits []diag.TextEdit) string {
	size := file.Len()
	for i, edit := range edits {
		if edit.Span.End < edit.Span.Start || edit.Span.End > size {
			return "edit span out of range"
		}
		if edit.OldText != "" && string(file.Content[edit.Span.Start:edit.Span.End]) != edit.OldText {
			return "existing text does not match expected content"
		}
		if anyConflict(edits[i+1:], edits[i:i+1]) {
			return "fix contains overlapping edits"
		}
	}
	return ""
}

func anyConflict(existing, edits []diag.TextEdit) bool {
	for _, a := range existing {
		for _, b := range edits {
			if spansConflict(a, b) {
				return true
			}
		}
	}
	return false
}

// spansConflict reports whether two edits touch the same bytes. Two
// insertions at one offset conflict too: their order would be undefined.
func spansConflict(a, b diag.TextEdit) bool {
	if a.Span.Empty() && b.Span.Empty() {
		return a.Span.File == b.Span.File && a.Span.Start == b.Span.Start
	}
	return a.Span.Overlaps(b.Span)
}

// WriteFileAtomic replaces path with buf through a temporary file in the
// same directory, keeping the file mode.
func WriteFileAtomic(path string, buf []byte) error {
	mode := os.FileMode(0o644)
	if info, err := os.Stat(path); err == nil {
		mode = info.Mode()
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".emptylines-*")
	if err != nil {
		return err
	}
	name := tmp.Name()
	cleanup := func(err error) error {
		_ = tmp.Close()
		_ = os.Remove(name)
		return err
	}
	if _, err := tmp.Write(buf); err != nil {
		return cleanup(err)
	}
	if err := tmp.Chmod(mode); err != nil {
		return cleanup(err)
	}
	if err := tmp.Close(); err != nil {
		return cleanup(err)
	}
	return os.Rename(name, path)
}
