package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"emptylines/internal/source"
)

// shortLine is one rendered line of the short format.
type shortLine struct {
	label   string
	code    string
	path    string
	pos     source.LineCol
	message string
}

// FormatShortDiagnostics renders one line per diagnostic, and one per note
// when includeNotes is set:
//
//	<severity> <CODE> <path>:<line>:<col> <message>
//
// Paths are relative to the file set base directory and lines are sorted by
// location. Spans pointing at unknown files are skipped.
func FormatShortDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil || len(diags) == 0 {
		return ""
	}

	lines := make([]shortLine, 0, len(diags))
	for _, d := range diags {
		if line, ok := resolveShort(fs, d.Primary, severityLabel(d.Severity), d.Code, d.Message); ok {
			lines = append(lines, line)
		}
		if !includeNotes {
			continue
		}
		for _, note := range d.Notes {
			if line, ok := resolveShort(fs, note.Span, "note", d.Code, note.Msg); ok {
				lines = append(lines, line)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b shortLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			cmp.Compare(a.label, b.label),
			cmp.Compare(a.code, b.code),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s %s %s:%d:%d %s", l.label, l.code, l.path, l.pos.Line, l.pos.Col, l.message)
	}
	return strings.Join(out, "\n")
}

func resolveShort(fs *source.FileSet, span source.Span, label string, code Code, msg string) (shortLine, bool) {
	file := fs.Get(span.File)
	if file == nil {
		return shortLine{}, false
	}
	start, _ := fs.Resolve(span)
	path := filepath.ToSlash(file.FormatPath("relative", fs.BaseDir()))
	return shortLine{
		label:   label,
		code:    code.ID(),
		path:    strings.TrimPrefix(path, "./"),
		pos:     start,
		message: oneLine(msg),
	}, true
}

func severityLabel(sev Severity) string {
	return strings.ToLower(sev.String())
}

// oneLine folds line breaks so every entry stays on a single line.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
