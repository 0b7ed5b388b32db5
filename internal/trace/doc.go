// Package trace records span events for llvet runs.
//
// Трассировка показывает, сколько длится каждая фаза (lex, parse,
// verify.*) и на каком файле зависла пакетная проверка.
//
// # Usage
//
//	llvet verify --trace=- --trace-level=phase a.ll
//	llvet verify --trace=run.chrome.json --trace-level=detail ./ir
//
// # Tracers
//
// Nop discards events. StreamTracer writes each event as it arrives,
// RingTracer keeps the last N in memory for a panic dump, and MultiTracer
// feeds several tracers at once.
//
// # Levels and scopes
//
// LevelPhase emits ScopeDriver and ScopePhase, LevelDetail adds ScopeFile,
// LevelDebug adds ScopeFunc.
//
// # Context
//
//	ctx = trace.WithTracer(ctx, tracer)
//	span := trace.Begin(trace.FromContext(ctx), trace.ScopePhase, "parse", parentID)
//	defer span.End("")
package trace
