package main

import (
	"fmt"
	"os"
	"sync"

	"github.com/spf13/cobra"

	"llvet/internal/prof"
	"llvet/internal/trace"
)

var (
	panicRingMu sync.Mutex
	panicRing   *trace.RingTracer
)

// setupTracing inspects trace-related flags, attaches the tracer to the
// command context and returns its cleanup.
func setupTracing(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	traceOutput, err := pf.GetString("trace")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace flag: %w", err)
	}
	levelStr, err := pf.GetString("trace-level")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-level flag: %w", err)
	}
	modeStr, err := pf.GetString("trace-mode")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-mode flag: %w", err)
	}
	ringSize, err := pf.GetInt("trace-ring-size")
	if err != nil {
		return nil, fmt.Errorf("failed to get trace-ring-size flag: %w", err)
	}

	level, err := trace.ParseLevel(levelStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace level: %w", err)
	}
	// --trace без уровня включает фазы
	if level == trace.LevelOff && traceOutput != "" {
		level = trace.LevelPhase
	}
	if level == trace.LevelOff {
		cmd.SetContext(trace.WithTracer(cmd.Context(), trace.Nop))
		return func() {}, nil
	}
	mode, err := trace.ParseMode(modeStr)
	if err != nil {
		return nil, fmt.Errorf("invalid trace mode: %w", err)
	}
	if traceOutput == "" {
		traceOutput = "-"
	}

	tracer, err := trace.New(trace.Config{
		Level:      level,
		Mode:       mode,
		OutputPath: traceOutput,
		RingSize:   ringSize,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create tracer: %w", err)
	}
	setPanicRing(tracer)
	cmd.SetContext(trace.WithTracer(cmd.Context(), tracer))

	return func() {
		setPanicRing(nil)
		if err := tracer.Flush(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: flush error: %v\n", err)
		}
		if err := tracer.Close(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "trace: close error: %v\n", err)
		}
	}, nil
}

func setPanicRing(t trace.Tracer) {
	panicRingMu.Lock()
	defer panicRingMu.Unlock()
	switch t := t.(type) {
	case *trace.RingTracer:
		panicRing = t
	case *trace.MultiTracer:
		panicRing = t.Ring()
	default:
		panicRing = nil
	}
}

// dumpTraceOnPanic печатает кольцевой буфер трассировки в stderr и
// продолжает панику.
func dumpTraceOnPanic() {
	r := recover()
	if r == nil {
		return
	}
	panicRingMu.Lock()
	ring := panicRing
	panicRingMu.Unlock()
	if ring != nil {
		fmt.Fprintln(os.Stderr, "llvet: panic, last trace events:")
		_ = ring.Dump(os.Stderr, trace.FormatText)
	}
	panic(r)
}

// setupProfiling enables the profilers requested by persistent flags.
// The returned cleanup is safe to call multiple times.
func setupProfiling(cmd *cobra.Command) (func(), error) {
	pf := cmd.Root().PersistentFlags()
	var cfg prof.Config
	for _, f := range []struct {
		name string
		dst  *string
	}{
		{"cpuprofile", &cfg.CPU},
		{"memprofile", &cfg.Mem},
		{"runtime-trace", &cfg.Trace},
	} {
		v, err := pf.GetString(f.name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
		*f.dst = v
	}
	if !cfg.Enabled() {
		return func() {}, nil
	}
	session, err := prof.Start(cfg)
	if err != nil {
		return nil, err
	}
	return func() {
		if err := session.Stop(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "profile: %v\n", err)
		}
	}, nil
}
