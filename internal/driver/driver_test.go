package driver_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/nalgeon/be"

	"llvet/internal/diag"
	"llvet/internal/driver"
	"llvet/internal/parser"
	"llvet/internal/token"
	"llvet/internal/trace"
	"llvet/internal/verify"
)

const validIR = `define i32 @add(i32 %a, i32 %b) {
entry:
  %s = add i32 %a, %b
  ret i32 %s
}
`

const badReturnIR = `define void @f() {
  ret i32 1
}
`

func codes(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID())
	}
	return out
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	be.Err(t, os.MkdirAll(filepath.Dir(path), 0o755), nil)
	be.Err(t, os.WriteFile(path, []byte(content), 0o600), nil)
	return path
}

func TestVerifySourceValid(t *testing.T) {
	res := driver.VerifySource("ok.ll", []byte(validIR), driver.Options{})
	be.True(t, res.OK())
	be.Err(t, res.Err, nil)
	be.True(t, res.Module != nil)
	be.True(t, res.Report != nil)
	be.Equal(t, res.Violations(), 0)
	be.Equal(t, res.Bag.Len(), 0)
}

func TestVerifySourceReportsViolations(t *testing.T) {
	res := driver.VerifySource("bad.ll", []byte(badReturnIR), driver.Options{})
	be.True(t, !res.OK())
	be.Err(t, res.Err, nil)
	be.Equal(t, res.Violations(), 1)
	be.Equal(t, codes(res.Bag), []string{"VER4001"})
	be.True(t, strings.HasPrefix(res.Bag.Items()[0].Message, "@f %0 #0 (ret): "))
}

func TestParseSourceSkipsVerification(t *testing.T) {
	res := driver.ParseSource("bad.ll", []byte(badReturnIR), driver.Options{})
	be.True(t, res.OK())
	be.True(t, res.Module != nil)
	be.True(t, res.Report == nil)
}

func TestParseErrorBecomesDiagnostic(t *testing.T) {
	res := driver.VerifySource("broken.ll", []byte("define i32 @f( {\n"), driver.Options{})
	be.True(t, !res.OK())
	be.True(t, res.Module == nil)
	be.True(t, res.Report == nil)

	var perr *parser.Error
	be.True(t, errors.As(res.Err, &perr))
	be.Equal(t, res.Bag.Len(), 1)
	be.Equal(t, res.Bag.Items()[0].Code, perr.Code)
	be.Equal(t, res.Bag.Items()[0].Severity, diag.SevError)
}

func TestPhaseSelectionAndLimit(t *testing.T) {
	src := []byte(`define void @f() {
  %a = trunc i8 1 to i8
  %b = trunc i8 1 to i8
  ret void
}
`)
	res := driver.VerifySource("t.ll", src, driver.Options{MaxViolations: 1})
	be.Equal(t, res.Report.Len(), 1)
	be.Equal(t, res.Violations(), 2)

	res = driver.VerifySource("t.ll", src, driver.Options{Verify: verify.PhaseCFG})
	be.True(t, res.OK())
}

func TestTimingsDiagnostic(t *testing.T) {
	res := driver.VerifySource("ok.ll", []byte(validIR), driver.Options{Timings: true, MaxDiagnostics: 1})
	be.True(t, res.Timing != nil)

	names := make([]string, 0, len(res.Timing.Phases))
	for _, p := range res.Timing.Phases {
		names = append(names, p.Name)
	}
	be.Equal(t, names, []string{"parse", "verify/structural", "verify/type", "verify/cfg", "verify/attributes", "verify/metadata"})

	items := res.Bag.Items()
	be.Equal(t, len(items), 1)
	be.Equal(t, items[0].Code, diag.ObsTimings)
	be.Equal(t, items[0].Severity, diag.SevInfo)
	rep, ok := driver.TimingPhases(items[0])
	be.True(t, ok)
	be.Equal(t, len(rep.Phases), 6)
	// OBS не ошибка
	be.True(t, res.OK())
}

func TestPhaseObserverAndTracer(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	ring := trace.NewRingTracer(64, trace.LevelDetail)
	driver.VerifySource("ok.ll", []byte(validIR), driver.Options{
		Tracer: ring,
		PhaseObserver: func(ev driver.PhaseEvent) {
			mu.Lock()
			defer mu.Unlock()
			status := "start"
			if ev.Status == driver.PhaseEnd {
				status = "end"
			}
			seen = append(seen, ev.Name+":"+status)
		},
	})
	be.Equal(t, seen, []string{"parse:start", "parse:end", "verify:start", "verify:end"})

	var begins []string
	for _, ev := range ring.Snapshot() {
		if ev.Kind == trace.KindSpanBegin {
			begins = append(begins, ev.Name)
		}
	}
	be.Equal(t, begins[0], "file:ok.ll")
	be.Equal(t, begins[1], "parse")
	be.Equal(t, begins[2], "verify")
	be.Equal(t, len(begins), 8)
}

func TestVerifyFileMissing(t *testing.T) {
	_, err := driver.VerifyFile(filepath.Join(t.TempDir(), "nope.ll"), driver.Options{})
	be.Err(t, err, os.ErrNotExist)
}

func TestVerifyFileNormalizesCRLF(t *testing.T) {
	path := writeFile(t, t.TempDir(), "crlf.ll", strings.ReplaceAll(validIR, "\n", "\r\n"))
	res, err := driver.VerifyFile(path, driver.Options{})
	be.Err(t, err, nil)
	be.True(t, res.OK())
}

func TestTokenizeSource(t *testing.T) {
	res := driver.TokenizeSource("t.ll", []byte("ret i32 0"), 0)
	be.Equal(t, len(res.Tokens), 4)
	be.Equal(t, res.Tokens[3].Kind, token.EOF)
	be.Equal(t, res.Bag.Len(), 0)
}

func TestTokenizeReportsLexErrors(t *testing.T) {
	res := driver.TokenizeSource("t.ll", []byte("ret ^ i32"), 0)
	be.True(t, res.Bag.HasErrors())
	be.Equal(t, res.Tokens[len(res.Tokens)-1].Kind, token.EOF)
}

func TestCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	res := driver.VerifySource("ok.ll", []byte(validIR), driver.Options{Context: ctx})
	be.Err(t, res.Err, context.Canceled)
	be.True(t, !res.OK())
}
