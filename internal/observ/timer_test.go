package observ

import (
	"strings"
	"testing"

	"github.com/nalgeon/be"
)

func TestTimerReport(t *testing.T) {
	tm := NewTimer()
	a := tm.Begin("parse")
	tm.End(a, "12 tokens")
	b := tm.Begin("verify/cfg")
	tm.End(b, "")
	tm.End(7, "ignored")

	r := tm.Report()
	be.Equal(t, len(r.Phases), 2)
	be.Equal(t, r.Phases[0].Name, "parse")
	be.Equal(t, r.Phases[0].Note, "12 tokens")
	be.True(t, r.TotalMS >= r.Phases[0].DurationMS)

	s := tm.Summary()
	be.True(t, strings.HasPrefix(s, "timings:\n"))
	be.True(t, strings.Contains(s, "// 12 tokens"))
	be.True(t, strings.Contains(s, "total"))
}

func TestEmptyTimer(t *testing.T) {
	be.Equal(t, NewTimer().Report().Phases, []PhaseReport(nil))
}

func TestMergeSumsByName(t *testing.T) {
	got := Merge(
		Report{TotalMS: 3, Phases: []PhaseReport{{Name: "parse", DurationMS: 1, Note: "x"}, {Name: "verify/cfg", DurationMS: 2}}},
		Report{TotalMS: 4, Phases: []PhaseReport{{Name: "verify/cfg", DurationMS: 3}, {Name: "parse", DurationMS: 1}}},
	)
	be.Equal(t, got, Report{TotalMS: 7, Phases: []PhaseReport{
		{Name: "parse", DurationMS: 2},
		{Name: "verify/cfg", DurationMS: 5},
	}})
}
