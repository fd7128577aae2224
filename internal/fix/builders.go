package fix

import (
	"fmt"

	"emptylines/internal/diag"
	"emptylines/internal/source"
)

// Option mutates fix during construction.
type Option func(*diag.Fix)

// WithApplicability overrides applicability metadata.
func WithApplicability(app diag.FixApplicability) Option {
	return func(f *diag.Fix) {
		f.Applicability = app
	}
}

// WithKind overrides fix classification.
func WithKind(kind diag.FixKind) Option {
	return func(f *diag.Fix) {
		f.Kind = kind
	}
}

// Preferred marks fix as preferred suggestion.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets stable identifier for fix.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

func applyOptions(f diag.Fix, opts []Option) diag.Fix {
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}

func quickFix(title string, edits ...diag.TextEdit) diag.Fix {
	return diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         edits,
	}
}

// DeleteSpan removes text covered by span.
func DeleteSpan(title string, span source.Span, expect string, opts ...Option) diag.Fix {
	edit := diag.TextEdit{
		Span:    span,
		NewText: "",
		OldText: expect,
	}
	return applyOptions(quickFix(title, edit), opts)
}

// ReplaceSpan replaces text covered by span with newText.
func ReplaceSpan(title string, span source.Span, newText, expect string, opts ...Option) diag.Fix {
	edit := diag.TextEdit{
		Span:    span,
		NewText: newText,
		OldText: expect,
	}
	return applyOptions(quickFix(title, edit), opts)
}

// DeleteLines removes whole line records from the start of line `from` up to
// the start of line `to` (1-based, `to` exclusive). When `to` is past the last
// physical line the deletion runs to the end of the file. The removed text is
// recorded as a guard so the fix refuses to apply to changed content.
func DeleteLines(title string, file *source.File, from, to uint32, opts ...Option) (diag.Fix, error) {
	if file == nil {
		return diag.Fix{}, fmt.Errorf("fix: nil file")
	}
	if to < from {
		return diag.Fix{}, fmt.Errorf("fix: inverted line range %d..%d", from, to)
	}
	start, ok := file.LineStart(from)
	if !ok {
		return diag.Fix{}, fmt.Errorf("fix: line %d out of range", from)
	}
	end, ok := file.LineStart(to)
	if !ok {
		end = file.Len()
	}
	span := source.Span{File: file.ID, Start: start, End: end}
	return DeleteSpan(title, span, string(file.Content[start:end]), opts...), nil
}
