// Package testkit holds assertions shared by tests of several packages.
package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"emptylines/internal/diag"
	"emptylines/internal/source"
)

// CheckDiagnosticInvariants verifies what every producer of diagnostics
// must guarantee:
// 1) primary and note spans are ordered and lie inside their file
// 2) fix edits lie inside the file and do not overlap within one fix
// 3) an edit's OldText guard matches the current content under its span
func CheckDiagnosticInvariants(fs *source.FileSet, diags []*diag.Diagnostic) error {
	if fs == nil {
		return fmt.Errorf("nil file set")
	}
	for i, d := range diags {
		if d == nil {
			return fmt.Errorf("diagnostic %d is nil", i)
		}
		if err := checkSpan(fs, d.Primary); err != nil {
			return fmt.Errorf("%s primary: %w", d.Code.ID(), err)
		}
		for j, note := range d.Notes {
			if err := checkSpan(fs, note.Span); err != nil {
				return fmt.Errorf("%s note %d: %w", d.Code.ID(), j, err)
			}
		}
		for j, f := range d.Fixes {
			if err := checkFix(fs, f); err != nil {
				return fmt.Errorf("%s fix %d (%s): %w", d.Code.ID(), j, f.Title, err)
			}
		}
	}
	return nil
}

func checkSpan(fs *source.FileSet, sp source.Span) error {
	file := fs.Get(sp.File)
	if file == nil {
		return fmt.Errorf("span %v points to unknown file", sp)
	}
	if sp.End < sp.Start {
		return fmt.Errorf("span %v ends before it starts", sp)
	}
	size, err := safecast.Conv[uint32](len(file.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if sp.End > size {
		return fmt.Errorf("span %v beyond content of %d bytes", sp, size)
	}
	return nil
}

func checkFix(fs *source.FileSet, f diag.Fix) error {
	for i, edit := range f.Edits {
		if err := checkSpan(fs, edit.Span); err != nil {
			return fmt.Errorf("edit %d: %w", i, err)
		}
		if edit.OldText != "" {
			content := fs.Get(edit.Span.File).Content
			if got := string(content[edit.Span.Start:edit.Span.End]); got != edit.OldText {
				return fmt.Errorf("edit %d guard %q does not match %q", i, edit.OldText, got)
			}
		}
		for j := range i {
			prev := f.Edits[j]
			if prev.Span.File == edit.Span.File && prev.Span.Start < edit.Span.End && edit.Span.Start < prev.Span.End {
				return fmt.Errorf("edits %d and %d overlap", j, i)
			}
		}
	}
	return nil
}
