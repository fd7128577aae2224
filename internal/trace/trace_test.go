package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"
)

func TestLevelFiltersScopes(t *testing.T) {
	tests := []struct {
		level Level
		scope Scope
		want  bool
	}{
		{LevelOff, ScopeDriver, false},
		{LevelPhase, ScopePass, true},
		{LevelPhase, ScopeFile, false},
		{LevelDetail, ScopeFile, true},
		{LevelDetail, ScopeRule, false},
		{LevelDebug, ScopeRule, true},
	}
	for _, tt := range tests {
		if got := tt.level.ShouldEmit(tt.scope); got != tt.want {
			t.Errorf("%s.ShouldEmit(%s) = %v, want %v", tt.level, tt.scope, got, tt.want)
		}
	}
}

func TestParseLevel(t *testing.T) {
	for _, s := range []string{"off", "phase", "DETAIL", "debug"} {
		if _, err := ParseLevel(s); err != nil {
			t.Errorf("ParseLevel(%q): %v", s, err)
		}
	}
	if _, err := ParseLevel("verbose"); err == nil {
		t.Errorf("expected error for unknown level")
	}
}

func TestStartNestsSpans(t *testing.T) {
	ring := NewRingTracer(16, LevelDebug)
	ctx := WithTracer(context.Background(), ring)

	ctx, outer := Start(ctx, ScopePass, "lint")
	_, inner := Start(ctx, ScopeFile, "lint:a.js")
	inner.WithExtra("diagnostics", "2").End("")
	outer.End("done")

	events := ring.Snapshot()
	if len(events) != 4 {
		t.Fatalf("expected 4 events, got %d", len(events))
	}
	if events[1].ParentID != outer.ID() {
		t.Fatalf("inner span parent = %d, want %d", events[1].ParentID, outer.ID())
	}
	if events[2].Kind != KindSpanEnd || events[2].Extra["diagnostics"] != "2" {
		t.Fatalf("unexpected end event %+v", events[2])
	}
	if events[3].Detail != "done" {
		t.Fatalf("unexpected detail %q", events[3].Detail)
	}
}

func TestStartWithoutTracer(t *testing.T) {
	ctx := context.Background()
	next, span := Start(ctx, ScopePass, "lint")
	if next != ctx {
		t.Fatalf("context must be returned unchanged when tracing is off")
	}
	if span.End("") != 0 {
		t.Fatalf("nop span must report zero duration")
	}
}

func TestRingWrapsAround(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for _, name := range []string{"a", "b", "c", "d"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: name})
	}
	events := ring.Snapshot()
	if ring.Len() != 3 || len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	got := events[0].Name + events[1].Name + events[2].Name
	if got != "bcd" {
		t.Fatalf("snapshot order = %q, want %q", got, "bcd")
	}
}

func TestStreamFormats(t *testing.T) {
	var text bytes.Buffer
	st := NewStreamTracer(&text, LevelPhase, FormatText)
	ctx := WithTracer(context.Background(), st)
	Point(ctx, ScopePass, "discover", "3 files")
	Point(ctx, ScopeFile, "skipped", "")
	if out := text.String(); !strings.Contains(out, "• discover (3 files)") || strings.Contains(out, "skipped") {
		t.Fatalf("unexpected text output %q", out)
	}

	var nd bytes.Buffer
	st = NewStreamTracer(&nd, LevelDebug, FormatNDJSON)
	st.Emit(&Event{Kind: KindSpanBegin, Scope: ScopeRule, Name: "rule:empty-lines"})
	var decoded map[string]any
	if err := json.Unmarshal(nd.Bytes(), &decoded); err != nil {
		t.Fatalf("invalid ndjson %q: %v", nd.String(), err)
	}
	if decoded["name"] != "rule:empty-lines" || decoded["scope"] != "rule" {
		t.Fatalf("unexpected event %v", decoded)
	}
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if tr.Enabled() {
		t.Fatalf("tracer must be disabled")
	}
}

func TestEnabledFollowsLevel(t *testing.T) {
	ctx := WithTracer(context.Background(), NewRingTracer(8, LevelDetail))
	if !Enabled(ctx, ScopeFile) {
		t.Fatalf("file scope must be enabled at detail level")
	}
	if Enabled(ctx, ScopeRule) {
		t.Fatalf("rule scope must be disabled at detail level")
	}
	if Enabled(context.Background(), ScopeDriver) {
		t.Fatalf("nothing is enabled without a tracer")
	}
}

func TestRingDumpsOnClose(t *testing.T) {
	var out bytes.Buffer
	ring := NewRingTracer(2, LevelPhase).DumpOnClose(&out, FormatText)
	for _, name := range []string{"discover", "lint", "report"} {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: name})
	}
	if out.Len() != 0 {
		t.Fatalf("ring must not write before Close")
	}
	if err := ring.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	got := out.String()
	if strings.Contains(got, "discover") || !strings.Contains(got, "lint") || !strings.Contains(got, "report") {
		t.Fatalf("expected only the last two events, got:\n%s", got)
	}
	if err := ring.Close(); err != nil || ring.Len() != 0 {
		t.Fatalf("second Close: err %v, len %d", err, ring.Len())
	}
}
