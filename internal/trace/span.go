package trace

import (
	"bytes"
	"runtime"
	"strconv"
	"sync/atomic"
	"time"
)

var (
	seqCounter  atomic.Uint64
	spanCounter atomic.Uint64
)

// NextSeq returns the next process-wide event number.
func NextSeq() uint64 { return seqCounter.Add(1) }

func nextSpanID() uint64 { return spanCounter.Add(1) }

// goid читает номер из заголовка "goroutine 17 [running]:".
// Нужен только для tid в chrome-формате.
func goid() uint64 {
	var buf [64]byte
	line := buf[:runtime.Stack(buf[:], false)]
	line = bytes.TrimPrefix(line, []byte("goroutine "))
	if i := bytes.IndexByte(line, ' '); i > 0 {
		if id, err := strconv.ParseUint(string(line[:i]), 10, 64); err == nil {
			return id
		}
	}
	return 0
}

// Span is an open begin/end pair. The zero-cost span returned for filtered
// scopes accepts every call and emits nothing.
type Span struct {
	t      Tracer
	ev     Event // шаблон для события end
	opened time.Time
}

// Begin emits a KindSpanBegin event and returns the span to End.
func Begin(t Tracer, scope Scope, name string, parent uint64) *Span {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return &Span{}
	}
	now := time.Now()
	s := &Span{
		t:      t,
		opened: now,
		ev: Event{
			Scope:    scope,
			SpanID:   nextSpanID(),
			ParentID: parent,
			GID:      goid(),
			Name:     name,
		},
	}
	begin := s.ev
	begin.Time = now
	begin.Kind = KindSpanBegin
	t.Emit(&begin)
	return s
}

// WithExtra attaches key=value to the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil || s.t == nil {
		return s
	}
	if s.ev.Extra == nil {
		s.ev.Extra = map[string]string{}
	}
	s.ev.Extra[key] = value
	return s
}

// End emits KindSpanEnd with detail and reports the span duration; inert
// spans return 0.
func (s *Span) End(detail string) time.Duration {
	if s == nil || s.t == nil {
		return 0
	}
	end := s.ev
	end.Time = time.Now()
	end.Kind = KindSpanEnd
	end.Detail = detail
	s.t.Emit(&end)
	return end.Time.Sub(s.opened)
}

// ID is the span id, 0 for inert spans.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.ev.SpanID
}

// Point emits a single KindPoint event under parent.
func Point(t Tracer, scope Scope, name, detail string, parent uint64) {
	if t == nil || !t.Enabled() || !t.Level().ShouldEmit(scope) {
		return
	}
	t.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindPoint,
		Scope:    scope,
		ParentID: parent,
		GID:      goid(),
		Name:     name,
		Detail:   detail,
	})
}
