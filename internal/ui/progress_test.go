package ui

import (
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"llvet/internal/driver"
)

func newTestModel(files ...string) *progressModel {
	return NewProgressModel("verify", files, nil).(*progressModel)
}

func TestApplyMovesThroughStates(t *testing.T) {
	m := newTestModel("a.ll", "b.ll")
	m.apply(driver.ProgressEvent{File: "a.ll", Stage: driver.StageParse, Status: driver.StatusWorking})
	if m.rows[0].state != stateParsing {
		t.Fatalf("state = %v, want parsing", m.rows[0].state)
	}
	if got := m.fraction(); got != 0.15 {
		t.Fatalf("fraction = %v, want 0.15", got)
	}
	m.apply(driver.ProgressEvent{File: "a.ll", Stage: driver.StageVerify, Status: driver.StatusError, Violations: 3, Elapsed: 2 * time.Millisecond})
	if m.rows[0].state != stateFailed || m.rows[0].detail() != "3 violations, 2ms" {
		t.Fatalf("unexpected row %+v (%q)", m.rows[0], m.rows[0].detail())
	}
	m.apply(driver.ProgressEvent{File: "b.ll", Stage: driver.StageCache, Status: driver.StatusDone})
	if m.rows[1].state != stateCached || !m.rows[1].state.finished() {
		t.Fatalf("unexpected row %+v", m.rows[1])
	}
	if got := m.fraction(); got != 1 {
		t.Fatalf("fraction = %v, want 1", got)
	}
	// неизвестный файл игнорируется
	if cmd := m.apply(driver.ProgressEvent{File: "zzz.ll", Status: driver.StatusDone}); cmd != nil {
		t.Fatal("unknown file produced a command")
	}
}

func TestViewListsFilesAndTotals(t *testing.T) {
	m := newTestModel("dir/a.ll", "dir/b.ll")
	m.apply(driver.ProgressEvent{File: "dir/a.ll", Stage: driver.StageVerify, Status: driver.StatusDone, Violations: 2})
	m.done = true
	out := m.View()
	for _, want := range []string{"done: verify", "dir/a.ll", "dir/b.ll", "queued", "1/2 files, 2 violations"} {
		if !strings.Contains(out, want) {
			t.Fatalf("view lacks %q:\n%s", want, out)
		}
	}
}

func TestSingularViolation(t *testing.T) {
	m := newTestModel("a.ll")
	m.apply(driver.ProgressEvent{File: "a.ll", Stage: driver.StageVerify, Status: driver.StatusError, Violations: 1, Elapsed: 2 * time.Millisecond})
	if got := m.rows[0].detail(); got != "1 violation, 2ms" {
		t.Fatalf("detail = %q", got)
	}
	m.done = true
	if out := m.View(); !strings.Contains(out, "1/1 files, 1 violation") || strings.Contains(out, "violations") {
		t.Fatalf("footer not singular:\n%s", out)
	}
}

func TestCount(t *testing.T) {
	for n, want := range map[int]string{0: "0 files", 1: "1 file", 2: "2 files"} {
		if got := Count(n, "file"); got != want {
			t.Errorf("Count(%d) = %q, want %q", n, got, want)
		}
	}
}

func TestClosedChannelQuits(t *testing.T) {
	events := make(chan driver.ProgressEvent)
	close(events)
	m := NewProgressModel("verify", []string{"a.ll"}, events).(*progressModel)
	msg := m.next()()
	if _, ok := msg.(closedMsg); !ok {
		t.Fatalf("got %T, want closedMsg", msg)
	}
	_, cmd := m.Update(msg)
	if !m.done || cmd == nil {
		t.Fatal("model did not quit on closed channel")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected tea.Quit")
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short.ll", 20); got != "short.ll" {
		t.Fatalf("short value changed: %q", got)
	}
	if got := truncate("abcdef", 3); got != "abc" {
		t.Fatalf("narrow width: %q", got)
	}
	got := truncate("a/very/long/path/файл.ll", 10)
	if runewidth.StringWidth(got) > 10 || !strings.HasSuffix(got, "...") {
		t.Fatalf("truncate overflows: %q", got)
	}
}
