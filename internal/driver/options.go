package driver

import (
	"context"
	"time"

	"llvet/internal/trace"
	"llvet/internal/verify"
)

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	File    string
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
}

// PhaseObserver receives phase events emitted during a run.
type PhaseObserver func(PhaseEvent)

// Options configures one driver run.
type Options struct {
	// MaxDiagnostics caps each file's Bag; 0 means unlimited.
	MaxDiagnostics int

	// Parser limits, forwarded to parser.Options.
	MaxDepth       int
	MaxTokens      int
	MaxTokenLength int

	// Verify selects phases and the violation cap.
	Verify verify.Phase
	// MaxViolations caps the verifier report; 0 means unlimited.
	MaxViolations int
	// ParseOnly skips verification.
	ParseOnly bool

	// Timings records phase durations into Result.Timing and appends an
	// OBS6001 diagnostic to the Bag.
	Timings bool
	// PhaseObserver, when set, receives phase boundaries.
	PhaseObserver PhaseObserver
	// Tracer receives spans; trace.Nop when nil.
	Tracer trace.Tracer

	// Jobs limits VerifyDir parallelism; GOMAXPROCS when <= 0.
	Jobs int
	// Progress receives per-file events from VerifyDir.
	Progress ProgressSink
	// Cache, when set, lets VerifyDir and VerifyFile skip unchanged files.
	Cache *DiskCache

	// Context is polled between files and between top-level entities.
	Context context.Context
}

func (o *Options) tracer() trace.Tracer {
	if o.Tracer == nil {
		return trace.Nop
	}
	return o.Tracer
}

func (o *Options) ctx() context.Context {
	if o.Context == nil {
		return context.Background()
	}
	return o.Context
}

func (o *Options) observe(ev PhaseEvent) {
	if o.PhaseObserver != nil {
		o.PhaseObserver(ev)
	}
}
