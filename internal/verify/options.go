package verify

import (
	"fmt"
	"strings"

	"llvet/internal/observ"
	"llvet/internal/trace"
)

// Phase is a bit set of verification phases.
type Phase uint8

const (
	PhaseStructural Phase = 1 << iota
	PhaseType
	PhaseCFG
	PhaseAttributes
	PhaseMetadata

	AllPhases = PhaseStructural | PhaseType | PhaseCFG | PhaseAttributes | PhaseMetadata
)

var phaseNames = []struct {
	phase Phase
	name  string
}{
	{PhaseStructural, "structural"},
	{PhaseType, "type"},
	{PhaseCFG, "cfg"},
	{PhaseAttributes, "attributes"},
	{PhaseMetadata, "metadata"},
}

func (p Phase) String() string {
	var names []string
	for _, pn := range phaseNames {
		if p&pn.phase != 0 {
			names = append(names, pn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, ",")
}

// ParsePhases parses names such as "structural" or "cfg"; "all" selects
// every phase.
func ParsePhases(names []string) (Phase, error) {
	var out Phase
	for _, raw := range names {
		name := strings.TrimSpace(strings.ToLower(raw))
		if name == "" {
			continue
		}
		if name == "all" {
			out |= AllPhases
			continue
		}
		found := false
		for _, pn := range phaseNames {
			if pn.name == name {
				out |= pn.phase
				found = true
				break
			}
		}
		if !found {
			return 0, fmt.Errorf("unknown verification phase %q", raw)
		}
	}
	return out, nil
}

// Options tune a verification run. The zero value runs every phase without
// a violation limit.
type Options struct {
	Phases        Phase
	MaxViolations int
	// Timer, when set, receives one entry per executed phase.
	Timer *observ.Timer
	// Tracer, when set, gets one "verify.<phase>" span per executed phase
	// under TraceParent.
	Tracer      trace.Tracer
	TraceParent uint64
}

func (o Options) phases() Phase {
	if o.Phases == 0 {
		return AllPhases
	}
	return o.Phases
}
