package trace

import "context"

// Nop discards everything. It is what FromContext returns when no tracer
// was attached.
var Nop Tracer = nopTracer{}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// state is what a context carries: the tracer and the innermost open span.
type state struct {
	tracer Tracer
	parent uint64
}

type stateKey struct{}

func load(ctx context.Context) state {
	if ctx != nil {
		if st, ok := ctx.Value(stateKey{}).(state); ok {
			return st
		}
	}
	return state{tracer: Nop}
}

func store(ctx context.Context, st state) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, stateKey{}, st)
}

// WithTracer attaches t to ctx. Spans started from the returned context
// become roots.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	if t == nil {
		t = Nop
	}
	return store(ctx, state{tracer: t})
}

// FromContext returns the tracer attached to ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	return load(ctx).tracer
}

// Enabled reports whether events of scope would be recorded.
func Enabled(ctx context.Context, scope Scope) bool {
	t := load(ctx).tracer
	return t.Enabled() && t.Level().ShouldEmit(scope)
}
