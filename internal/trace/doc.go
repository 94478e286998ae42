// Package trace is the secondary diagnostic channel of the backtrace renderer.
//
// The primary output (the expanded stack trace) goes to stderr and must never be
// polluted by internal failures. Everything that goes wrong while expanding a frame
// is reported here instead, together with optional progress events.
//
// # Usage
//
//	backtrace run --trace=- --trace-level=frame -- coffee app.coffee
//
// # Architecture
//
//   - Nop: zero-overhead tracer used when tracing is off
//   - StreamTracer: writes every event immediately (file or stderr)
//   - RingTracer: keeps the last N events in memory, dumped when the command ends
//
// # Levels
//
//   - LevelOff: nothing
//   - LevelError: only swallowed failures
//   - LevelFrame: one span per trace and per frame
//   - LevelDetail: source resolution events
//   - LevelDebug: everything
//
// Tracers travel on a context:
//
//	ctx = trace.WithTracer(ctx, tracer)
//	t := trace.FromContext(ctx)
//
//	span := trace.Begin(t, trace.ScopeFrame, "frame", parentID)
//	defer span.End("")
package trace
