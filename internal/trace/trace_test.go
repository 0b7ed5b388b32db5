package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestLevelFiltersScopes(t *testing.T) {
	be.True(t, LevelPhase.ShouldEmit(ScopePhase))
	be.True(t, !LevelPhase.ShouldEmit(ScopeFile))
	be.True(t, LevelDetail.ShouldEmit(ScopeFile))
	be.True(t, !LevelDetail.ShouldEmit(ScopeFunc))
	be.True(t, LevelDebug.ShouldEmit(ScopeFunc))
	be.True(t, !LevelOff.ShouldEmit(ScopeDriver))

	lvl, err := ParseLevel("DETAIL")
	be.Err(t, err, nil)
	be.Equal(t, lvl, LevelDetail)
	_, err = ParseLevel("loud")
	be.Err(t, err, "invalid trace level")
}

func TestStreamTextSpans(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatText)
	root := Begin(tr, ScopeDriver, "verify", 0)
	ph := Begin(tr, ScopePhase, "parse", root.ID()).WithExtra("file", "a.ll")
	ph.End("ok")
	Begin(tr, ScopeFunc, "fn:@f", ph.ID()).End("")
	root.End("")

	out := buf.String()
	be.Equal(t, strings.Count(out, "\n"), 4)
	be.True(t, strings.Contains(out, "→ verify"))
	be.True(t, strings.Contains(out, "← parse (ok) {file=a.ll}"))
	be.True(t, !strings.Contains(out, "fn:@f"))
}

func TestStreamNDJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatNDJSON)
	Point(tr, ScopeFile, "cache-hit", "b.ll", 0)

	var got map[string]any
	be.Err(t, json.Unmarshal(buf.Bytes(), &got), nil)
	be.Equal(t, got["kind"], "point")
	be.Equal(t, got["scope"], "file")
	be.Equal(t, got["detail"], "b.ll")
}

func TestStreamChromeIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatChrome)
	Begin(tr, ScopePhase, "lex", 0).End("")
	Begin(tr, ScopePhase, "parse", 0).End("")
	be.Err(t, tr.Close(), nil)

	var doc struct {
		TraceEvents []map[string]any `json:"traceEvents"`
	}
	be.Err(t, json.Unmarshal(buf.Bytes(), &doc), nil)
	be.Equal(t, len(doc.TraceEvents), 4)
	be.Equal(t, doc.TraceEvents[0]["ph"], "B")
	be.Equal(t, doc.TraceEvents[3]["ph"], "E")
}

func TestRingKeepsLastEvents(t *testing.T) {
	r := NewRingTracer(3, LevelPhase)
	for _, name := range []string{"a", "b", "c", "d", "e"} {
		Point(r, ScopePhase, name, "", 0)
	}
	snap := r.Snapshot()
	be.Equal(t, len(snap), 3)
	be.Equal(t, snap[0].Name, "c")
	be.Equal(t, snap[2].Name, "e")
	be.True(t, snap[0].Seq < snap[2].Seq)

	var buf bytes.Buffer
	be.Err(t, r.Dump(&buf, FormatText), nil)
	be.Equal(t, strings.Count(buf.String(), "\n"), 3)
}

func TestMultiFansOut(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(8, LevelPhase)
	m := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), ring)
	Begin(m, ScopePhase, "verify.cfg", 0).End("")
	be.Equal(t, len(m.Ring().Snapshot()), 2)
	be.Equal(t, strings.Count(buf.String(), "\n"), 2)
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	be.Err(t, err, nil)
	be.True(t, !tr.Enabled())
	span := Begin(tr, ScopeDriver, "x", 0)
	be.Equal(t, span.End(""), 0)
}

func TestContextRoundTrip(t *testing.T) {
	be.Equal(t, FromContext(context.Background()), Nop)
	r := NewRingTracer(4, LevelPhase)
	ctx := WithTracer(context.Background(), r)
	be.Equal(t, FromContext(ctx), Tracer(r))
}

func TestNewStreamOwnsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.ndjson")
	tr, err := New(Config{Level: LevelPhase, Mode: ModeBoth, OutputPath: path, RingSize: 4})
	be.Err(t, err, nil)
	Begin(tr, ScopePhase, "verify.type", 0).End("")
	be.Err(t, tr.Close(), nil)

	data, err := os.ReadFile(path)
	be.Err(t, err, nil)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	be.Equal(t, len(lines), 2)
	be.True(t, json.Valid([]byte(lines[0])))

	multi, ok := tr.(*MultiTracer)
	be.True(t, ok)
	be.Equal(t, len(multi.Ring().Snapshot()), 2)
}

func TestStreamDropsAfterClose(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelPhase, FormatChrome)
	be.Err(t, tr.Close(), nil)
	be.Err(t, tr.Close(), nil)
	Point(tr, ScopePhase, "late", "", 0)
	be.Equal(t, strings.Count(buf.String(), "]}"), 1)
	be.True(t, !strings.Contains(buf.String(), "late"))
}

func TestParseMode(t *testing.T) {
	m, err := ParseMode("Both")
	be.Err(t, err, nil)
	be.Equal(t, m, ModeBoth)
	be.Equal(t, m.String(), "both")
	_, err = ParseMode("disk")
	be.Err(t, err, "invalid storage mode")
}
