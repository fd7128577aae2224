package diag

import (
	"testing"

	"emptylines/internal/source"
)

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(3)
	spans := []uint32{9, 2, 5, 1}
	for _, start := range spans {
		bag.Add(&Diagnostic{
			Severity: SevWarning,
			Code:     BlankDefaultMax,
			Primary:  source.Span{Start: start, End: start + 1},
		})
	}
	if bag.Len() != 3 {
		t.Fatalf("expected bag to stop at 3 items, got %d", bag.Len())
	}

	bag.Sort()
	var got []uint32
	for _, d := range bag.Items() {
		got = append(got, d.Primary.Start)
	}
	want := []uint32{2, 5, 9}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("sorted starts = %v, want %v", got, want)
		}
	}
}

func TestBagSeverityOrderAndDedup(t *testing.T) {
	bag := NewBag(0)
	span := source.Span{Start: 4, End: 8}
	bag.Add(&Diagnostic{Severity: SevWarning, Code: BlankEOFMax, Primary: span})
	bag.Add(&Diagnostic{Severity: SevError, Code: ImportRelativeParent, Primary: span})
	bag.Add(&Diagnostic{Severity: SevWarning, Code: BlankEOFMax, Primary: span})

	bag.Dedup()
	if bag.Len() != 2 {
		t.Fatalf("expected 2 items after dedup, got %d", bag.Len())
	}
	bag.Sort()
	if bag.Items()[0].Severity != SevError {
		t.Fatalf("errors must sort first on equal spans")
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatalf("expected both errors and warnings")
	}

	bag.Filter(func(d *Diagnostic) bool { return d.Severity < SevError })
	if bag.Len() != 1 || bag.HasErrors() {
		t.Fatalf("filter did not drop the error")
	}
}

func TestReportBuilderEmitsOnce(t *testing.T) {
	bag := NewBag(10)
	b := NewReportBuilder(BagReporter{Bag: bag}, SevWarning, BlankBOFMax, source.Span{}, "msg").
		WithNote(source.Span{}, "note").
		WithFix("remove", TextEdit{Span: source.Span{Start: 0, End: 2}})
	b.Emit()
	b.Emit()

	if bag.Len() != 1 {
		t.Fatalf("expected exactly one diagnostic, got %d", bag.Len())
	}
	d := bag.Items()[0]
	if len(d.Notes) != 1 || !d.Fixable() {
		t.Fatalf("builder lost notes or fixes: %+v", d)
	}
	if d.Fixes[0].Applicability != FixApplicabilityAlwaysSafe {
		t.Fatalf("default fix must be always-safe")
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	span := source.Span{Start: 1, End: 2}
	for range 3 {
		r.Report(BlankEOIMin, SevWarning, span, "same", nil, nil)
	}
	r.Report(BlankEOIMin, SevError, span, "other", nil, nil)
	r.Report(ImportRelativeParent, SevWarning, span, "same span, other code", nil, nil)
	if bag.Len() != 2 {
		t.Fatalf("expected 2 unique diagnostics, got %d", bag.Len())
	}
	if r.Dropped() != 3 {
		t.Fatalf("Dropped() = %d, want 3", r.Dropped())
	}
}

func TestReportBuilderDropsEmptyFix(t *testing.T) {
	bag := NewBag(0)
	NewReportBuilder(BagReporter{Bag: bag}, SevInfo, BlankInfo, source.Span{}, "msg").
		WithFixSuggestion(Fix{Title: "nothing"}).
		Emit()
	if bag.Items()[0].Fixable() {
		t.Fatalf("a fix without edits must not be attached")
	}
}

func TestCodeIDs(t *testing.T) {
	tests := map[Code]string{
		BlankBOFMax:          "BLK1001",
		BlankDefaultMin:      "BLK1008",
		ImportRelativeParent: "IMP2001",
		IOLoadFileError:      "IO4001",
		ParseFailed:          "PRS5001",
		UnknownCode:          "E0000",
	}
	for code, want := range tests {
		if got := code.ID(); got != want {
			t.Errorf("%d.ID() = %q, want %q", code, got, want)
		}
	}
	if _, err := ParseSeverity("fatal"); err == nil {
		t.Error("expected error for unknown severity")
	}
	if sev, err := ParseSeverity("warn"); err != nil || sev != SevWarning {
		t.Errorf("ParseSeverity(warn) = %v, %v", sev, err)
	}
}
