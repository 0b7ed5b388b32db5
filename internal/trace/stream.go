package trace

import (
	"io"
	"sync"
)

// StreamTracer formats every accepted event straight to a writer.
type StreamTracer struct {
	level  Level
	format Format
	owned  io.Closer // файл, открытый New; закрывается в Close

	mu     sync.Mutex
	w      io.Writer
	events int
	closed bool
}

// NewStreamTracer wraps w. The caller keeps ownership of w.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	t := &StreamTracer{w: w, level: level, format: format}
	if format == FormatChrome {
		_, _ = io.WriteString(w, "{\"traceEvents\":[\n") //nolint:errcheck
	}
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.level.ShouldEmit(ev.Scope) {
		return
	}
	ev.Seq = NextSeq()
	data := FormatEvent(ev, t.format)

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	// chrome: объекты массива через запятую
	if t.format == FormatChrome && t.events > 0 {
		_, _ = io.WriteString(t.w, ",\n") //nolint:errcheck
	}
	t.events++
	_, _ = t.w.Write(data) //nolint:errcheck
}

// Flush forwards to writers that buffer.
func (t *StreamTracer) Flush() error {
	if f, ok := t.w.(interface{ Flush() error }); ok {
		return f.Flush()
	}
	return nil
}

// Close terminates the chrome array and closes a file opened by New.
// Later events are dropped.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return nil
	}
	t.closed = true
	if t.format == FormatChrome {
		_, _ = io.WriteString(t.w, "\n]}\n") //nolint:errcheck
	}
	t.mu.Unlock()

	if err := t.Flush(); err != nil {
		return err
	}
	if t.owned != nil {
		return t.owned.Close()
	}
	return nil
}

func (t *StreamTracer) Level() Level  { return t.level }
func (t *StreamTracer) Enabled() bool { return t.level > LevelOff }
