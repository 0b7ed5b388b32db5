package driver

import (
	"errors"
	"fmt"

	"llvet/internal/diag"
	"llvet/internal/ir"
	"llvet/internal/observ"
	"llvet/internal/parser"
	"llvet/internal/source"
	"llvet/internal/trace"
	"llvet/internal/types"
	"llvet/internal/verify"
)

// Result is the outcome of parsing, and optionally verifying, one file.
type Result struct {
	FileSet *source.FileSet
	File    *source.File
	// Module is nil when parsing failed or the result came from the cache.
	Module *ir.Module
	// Bag holds parser warnings, the parse error and VER diagnostics.
	Bag *diag.Bag
	// Err is the parse error (*parser.Error) or the context error.
	Err error
	// Report is nil when verification did not run.
	Report *verify.Report
	Timing *observ.Report
	// Cached is set when the diagnostics were restored from DiskCache;
	// Module and Report are nil then.
	Cached bool

	cachedViolations int
}

// OK reports a file that parsed and produced no error diagnostics.
func (r *Result) OK() bool {
	return r != nil && r.Err == nil && !r.Bag.HasErrors()
}

// Violations returns the number of verifier violations, including dropped ones.
func (r *Result) Violations() int {
	if r == nil {
		return 0
	}
	if r.Cached {
		return r.cachedViolations
	}
	if r.Report == nil {
		return 0
	}
	return r.Report.Len() + r.Report.Dropped
}

// ParseFile loads path and parses it. The returned error is an I/O error;
// parse failures are reported through Result.
func ParseFile(path string, opts Options) (*Result, error) {
	opts.ParseOnly = true
	return VerifyFile(path, opts)
}

// ParseSource parses in-memory content registered under name.
func ParseSource(name string, src []byte, opts Options) *Result {
	opts.ParseOnly = true
	return VerifySource(name, src, opts)
}

// VerifyFile loads, parses and verifies path.
func VerifyFile(path string, opts Options) (*Result, error) {
	fs := source.NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return runFile(fs, fs.Get(id), &opts, 0), nil
}

// VerifySource parses and verifies in-memory content.
func VerifySource(name string, src []byte, opts Options) *Result {
	fs := source.NewFileSet()
	return runFile(fs, fs.Get(fs.AddVirtual(name, src)), &opts, 0)
}

func runFile(fs *source.FileSet, file *source.File, opts *Options, parent uint64) *Result {
	res := &Result{
		FileSet: fs,
		File:    file,
		Bag:     diag.NewBag(opts.MaxDiagnostics),
	}
	tr := opts.tracer()
	fileSpan := trace.Begin(tr, trace.ScopeFile, "file:"+file.Path, parent)
	defer fileSpan.End("")

	var key Digest
	if opts.Cache != nil && !opts.ParseOnly {
		key = cacheKey(file.Hash, opts)
		if res.restore(opts.Cache, key) {
			trace.Point(tr, trace.ScopeFile, "cache-hit", file.Path, fileSpan.ID())
			return res
		}
	}

	var timer *observ.Timer
	if opts.Timings {
		timer = observ.NewTimer()
	}
	res.Module, res.Err = parseInto(res.Bag, file, opts, timer, fileSpan.ID())

	if res.Err == nil && !opts.ParseOnly {
		res.verify(opts, timer, fileSpan.ID())
	}

	if timer != nil {
		rep := timer.Report()
		res.Timing = &rep
		appendTimingDiagnostic(res.Bag, timingPayload{
			Kind:    "verify",
			Path:    file.Path,
			TotalMS: rep.TotalMS,
			Phases:  rep.Phases,
		})
	}

	// прерванный разбор не кэшируем; ошибка записи кэша не ошибка проверки
	if opts.Cache != nil && !opts.ParseOnly && opts.ctx().Err() == nil {
		_ = opts.Cache.Put(key, res.snapshot())
	}
	return res
}

func parseInto(bag *diag.Bag, file *source.File, opts *Options, timer *observ.Timer, parent uint64) (*ir.Module, error) {
	opts.observe(PhaseEvent{File: file.Path, Name: "parse", Status: PhaseStart})
	span := trace.Begin(opts.tracer(), trace.ScopePhase, "parse", parent)
	idx := -1
	if timer != nil {
		idx = timer.Begin("parse")
	}

	m, err := parser.ParseModule(types.NewContext(), file, parser.Options{
		Reporter:       diag.BagReporter{Bag: bag},
		MaxDepth:       opts.MaxDepth,
		MaxTokens:      opts.MaxTokens,
		MaxTokenLength: opts.MaxTokenLength,
		Context:        opts.Context,
	})

	note := "ok"
	var perr *parser.Error
	switch {
	case errors.As(err, &perr):
		bag.Add(perr.Diagnostic())
		note = perr.Code.ID()
	case err != nil:
		note = err.Error()
	default:
		note = fmt.Sprintf("%d globals, %d functions", len(m.Globals), len(m.Funcs))
	}
	if timer != nil {
		timer.End(idx, note)
	}
	elapsed := span.End(note)
	opts.observe(PhaseEvent{File: file.Path, Name: "parse", Status: PhaseEnd, Elapsed: elapsed})
	return m, err
}

func (r *Result) verify(opts *Options, timer *observ.Timer, parent uint64) {
	opts.observe(PhaseEvent{File: r.File.Path, Name: "verify", Status: PhaseStart})
	span := trace.Begin(opts.tracer(), trace.ScopePhase, "verify", parent)

	r.Report = verify.Module(r.Module, verify.Options{
		Phases:        opts.Verify,
		MaxViolations: opts.MaxViolations,
		Timer:         timer,
		Tracer:        opts.Tracer,
		TraceParent:   span.ID(),
	})
	r.Report.Emit(diag.BagReporter{Bag: r.Bag})

	elapsed := span.End(fmt.Sprintf("%d violations", r.Violations()))
	opts.observe(PhaseEvent{File: r.File.Path, Name: "verify", Status: PhaseEnd, Elapsed: elapsed})
}
