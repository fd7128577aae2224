// Package trace records what a lint run is doing: which files are parsed,
// which rules run on them and how long each step takes.
//
// # Usage
//
//	emptylines check --trace=- --trace-level=detail src/
//
// # Tracers
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events and writes them when closed
//
// # Levels and scopes
//
// LevelPhase emits driver and pass events (discover, lint, fix),
// LevelDetail adds per-file events, LevelDebug adds per-rule events.
//
// Tracers travel through the pipeline in a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	ctx, span := trace.Start(ctx, trace.ScopeFile, "file:"+path)
//	defer span.End("")
//
// Spans started from ctx nest under span.
package trace
