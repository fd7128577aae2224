package trace

import (
	"bytes"
	"context"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next global event sequence number.
func NextSeq() uint64 {
	return seqCounter.Add(1)
}

// goroutineID parses the id out of the "goroutine N [...]" stack header.
func goroutineID() uint64 {
	var buf [64]byte
	header := buf[:runtime.Stack(buf[:], false)]
	header, ok := bytes.CutPrefix(header, []byte("goroutine "))
	if !ok {
		return 0
	}
	if i := bytes.IndexByte(header, ' '); i >= 0 {
		header = header[:i]
	}
	gid, err := strconv.ParseUint(string(header), 10, 64)
	if err != nil {
		return 0
	}
	return gid
}

// Span is an open begin/end pair. A nil or disabled span accepts every call
// and records nothing, so callers never check whether tracing is on.
type Span struct {
	tracer  Tracer
	begin   Event
	started time.Time
	extra   map[string]string
}

// Start opens a span under the innermost span of ctx and returns a context
// in which the new span is the parent of later spans.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	st := load(ctx)
	if !st.tracer.Enabled() || !st.tracer.Level().ShouldEmit(scope) {
		return ctx, &Span{}
	}

	now := time.Now()
	span := &Span{
		tracer:  st.tracer,
		started: now,
		begin: Event{
			Time:     now,
			Seq:      NextSeq(),
			Kind:     KindSpanBegin,
			Scope:    scope,
			SpanID:   spanCounter.Add(1),
			ParentID: st.parent,
			GID:      goroutineID(),
			Name:     name,
		},
	}
	begin := span.begin
	st.tracer.Emit(&begin)

	return store(ctx, state{tracer: st.tracer, parent: span.begin.SpanID}), span
}

// End emits the closing event and returns how long the span was open.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.tracer == nil {
		return 0
	}
	end := s.begin
	end.Time = time.Now()
	end.Seq = NextSeq()
	end.Kind = KindSpanEnd
	end.Detail = detail
	end.Extra = s.extra
	s.tracer.Emit(&end)
	return end.Time.Sub(s.started)
}

// WithExtra attaches a key-value pair to the closing event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.tracer == nil {
		return s
	}
	if s.extra == nil {
		s.extra = make(map[string]string, 2)
	}
	s.extra[key] = value
	return s
}

// ID returns the span id, 0 for a disabled span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.begin.SpanID
}

// Point emits an instant event under the innermost span of ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	st := load(ctx)
	if !st.tracer.Enabled() || !st.tracer.Level().ShouldEmit(scope) {
		return
	}
	st.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: st.parent,
		GID:      goroutineID(),
		Name:     name,
		Detail:   detail,
	})
}
