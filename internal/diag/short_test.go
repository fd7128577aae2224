package diag

import (
	"testing"

	"emptylines/internal/source"
)

func TestFormatShortDiagnostics(t *testing.T) {
	fs := source.NewFileSetWithBase("/workspace")

	app := fs.Add("/workspace/src/app.js", []byte("a\n\n\nb\n"), 0)
	lib := fs.Add("/workspace/lib/util.js", []byte("x\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevWarning,
			Code:     BlankDefaultMax,
			Message:  "Wrong number of blank lines.\nRule: default_max.",
			Primary:  source.Span{File: app, Start: 4, End: 5},
			Notes: []Note{
				{Span: source.Span{File: app, Start: 0, End: 1}, Msg: "previous content"},
			},
		},
		{
			Severity: SevError,
			Code:     ImportRelativeParent,
			Message:  "no relative parent imports",
			Primary:  source.Span{File: lib, Start: 0, End: 1},
		},
		{
			Severity: SevError,
			Code:     ParseFailed,
			Message:  "unknown file",
			Primary:  source.Span{File: 99},
		},
	}

	want := "error IMP2001 lib/util.js:1:1 no relative parent imports\n" +
		"warning BLK1007 src/app.js:4:1 Wrong number of blank lines. Rule: default_max."
	if got := FormatShortDiagnostics(diags, fs, false); got != want {
		t.Fatalf("short without notes:\nwant:\n%s\n\ngot:\n%s", want, got)
	}

	want = "error IMP2001 lib/util.js:1:1 no relative parent imports\n" +
		"note BLK1007 src/app.js:1:1 previous content\n" +
		"warning BLK1007 src/app.js:4:1 Wrong number of blank lines. Rule: default_max."
	if got := FormatShortDiagnostics(diags, fs, true); got != want {
		t.Fatalf("short with notes:\nwant:\n%s\n\ngot:\n%s", want, got)
	}

	if got := FormatShortDiagnostics(nil, fs, true); got != "" {
		t.Fatalf("expected empty output, got %q", got)
	}
}
