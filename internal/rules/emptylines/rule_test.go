package emptylines

import (
	"context"
	"testing"

	"emptylines/internal/diag"
	"emptylines/internal/fix"
	"emptylines/internal/rules"
	"emptylines/internal/source"
)

func checkText(t *testing.T, text string, policy Policy) (*source.File, *diag.Bag) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("input.js", []byte(text)))
	bag := diag.NewBag(0)
	NewWithPolicy(policy).Check(&rules.Context{
		Ctx:      context.Background(),
		File:     file,
		Facts:    lineFacts(text),
		Reporter: diag.BagReporter{Bag: bag},
		Severity: diag.SevWarning,
	})
	return file, bag
}

func TestRuleReportsWithFix(t *testing.T) {
	text := "a\n\n\n\nb\n\n"
	file, bag := checkText(t, text, DefaultPolicy())
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.BlankDefaultMax || d.Severity != diag.SevWarning {
		t.Fatalf("unexpected diagnostic %s %s", d.Code.ID(), d.Severity)
	}
	if d.Message != "Wrong number of blank lines. Rule: default_max." {
		t.Fatalf("unexpected message %q", d.Message)
	}
	// строки 3-4 лишние: байты 3..5
	if d.Primary.Start != 3 || d.Primary.End != 5 {
		t.Fatalf("unexpected span %v", d.Primary)
	}
	if len(d.Notes) != 1 || d.Notes[0].Msg != "found 3 blank lines, expected at most 1" {
		t.Fatalf("unexpected notes %+v", d.Notes)
	}
	if !d.Fixable() || len(d.Fixes) != 1 {
		t.Fatalf("expected exactly one fix, got %+v", d.Fixes)
	}
	f := d.Fixes[0]
	if f.Title != "Remove 2 blank lines" || !f.IsPreferred {
		t.Fatalf("unexpected fix %+v", f)
	}
	out, err := fix.ApplyToContent(file.Content, f.Edits)
	if err != nil {
		t.Fatalf("ApplyToContent: %v", err)
	}
	if string(out) != "a\n\nb\n\n" {
		t.Fatalf("fixed = %q", out)
	}
}

func TestRuleMinViolationHasNoFix(t *testing.T) {
	policy := DefaultPolicy()
	policy.Default = Bounds{Min: 1, Max: 1}
	file, bag := checkText(t, "a\nb\n\n", policy)
	if bag.Len() != 1 {
		t.Fatalf("expected 1 diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if d.Code != diag.BlankDefaultMin {
		t.Fatalf("unexpected code %s", d.Code.ID())
	}
	if d.Fixable() {
		t.Fatalf("min violations must not carry a fix")
	}
	if d.Primary.Start > d.Primary.End || d.Primary.End > file.Len() {
		t.Fatalf("span %v out of file bounds", d.Primary)
	}
}

func TestRuleCodes(t *testing.T) {
	tests := []struct {
		text string
		code diag.Code
	}{
		{"\nx\n\n", diag.BlankBOFMax},
		{"x\n\n\n", diag.BlankEOFMax},
		{"x", diag.BlankEOFMin},
		{"import a from 'a';\n\n\n\nx\n\n", diag.BlankEOIMax},
		{"import a from 'a';\nx\n\n", diag.BlankEOIMin},
	}
	for _, tt := range tests {
		_, bag := checkText(t, tt.text, DefaultPolicy())
		if bag.Len() != 1 {
			t.Errorf("%q: expected 1 diagnostic, got %d", tt.text, bag.Len())
			continue
		}
		if got := bag.Items()[0].Code; got != tt.code {
			t.Errorf("%q: code %s, want %s", tt.text, got.ID(), tt.code.ID())
		}
	}
}

func TestNewRejectsBadOptions(t *testing.T) {
	if _, err := New(map[string]any{"eof": -2}); err == nil {
		t.Fatalf("expected an error")
	}
	r, err := New(map[string]any{"eof": 0})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if r.Name() != Name {
		t.Fatalf("Name() = %q", r.Name())
	}
}
