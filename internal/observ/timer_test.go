package observ

import (
	"strings"
	"testing"
	"time"

	"emptylines/internal/pipeline"
)

func TestTimerReport(t *testing.T) {
	timer := NewTimer()
	idx := timer.Begin("lint")
	timer.End(idx, "2 files")
	timer.End(42, "ignored")

	var timings pipeline.Timings
	timings.Add(pipeline.StageParse, 3*time.Millisecond)
	timings.Add(pipeline.StageParse, 2*time.Millisecond)
	timer.RecordStages(&timings, pipeline.StageLoad, pipeline.StageParse)

	report := timer.Report()
	if len(report.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %+v", report.Phases)
	}
	if report.Phases[0].Name != "lint" || report.Phases[0].Note != "2 files" {
		t.Errorf("unexpected first phase %+v", report.Phases[0])
	}
	if got := report.Phases[1].DurationMS; got != 5 {
		t.Errorf("parse = %v ms, want 5", got)
	}
	// суммарное время воркеров не входит в total
	if report.TotalMS != report.Phases[0].DurationMS {
		t.Errorf("total %v must equal the wall-clock phase %v", report.TotalMS, report.Phases[0].DurationMS)
	}

	summary := timer.Summary()
	for _, want := range []string{"timings:\n", "lint", "// 2 files", "parse", "total"} {
		if !strings.Contains(summary, want) {
			t.Errorf("expected %q in summary:\n%s", want, summary)
		}
	}
}

func TestTimerEmpty(t *testing.T) {
	if r := NewTimer().Report(); r.TotalMS != 0 || len(r.Phases) != 0 {
		t.Fatalf("unexpected report %+v", r)
	}
}
