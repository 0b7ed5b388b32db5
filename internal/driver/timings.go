package driver

import (
	"encoding/json"
	"fmt"

	"llvet/internal/diag"
	"llvet/internal/observ"
	"llvet/internal/source"
)

type timingPayload struct {
	Kind    string               `json:"kind"`
	Path    string               `json:"path,omitempty"`
	TotalMS float64              `json:"total_ms"`
	Phases  []observ.PhaseReport `json:"phases"`
}

// appendTimingDiagnostic adds an OBS6001 info entry whose single note is the
// JSON payload. It bypasses the Bag limit.
func appendTimingDiagnostic(bag *diag.Bag, payload timingPayload) {
	if bag == nil {
		return
	}
	if payload.Kind == "" {
		payload.Kind = "verify"
	}
	msg := fmt.Sprintf("timings (%s): total %.2f ms", payload.Kind, payload.TotalMS)
	if payload.Path != "" {
		msg = fmt.Sprintf("%s, %s", msg, payload.Path)
	}

	data, err := json.Marshal(payload)
	if err != nil {
		return
	}

	entry := diag.New(diag.SevInfo, diag.ObsTimings, source.Span{}, msg).
		WithNote(source.Span{}, string(data))

	if bag.Add(entry) {
		return
	}
	overflow := diag.NewBag(0)
	overflow.Add(entry)
	bag.Merge(overflow)
}

// TimingPhases decodes the OBS6001 payload back; the CLI uses it for
// --timings output over cached or merged bags.
func TimingPhases(d diag.Diagnostic) (observ.Report, bool) {
	if d.Code != diag.ObsTimings || len(d.Notes) == 0 {
		return observ.Report{}, false
	}
	var payload timingPayload
	if err := json.Unmarshal([]byte(d.Notes[0].Msg), &payload); err != nil {
		return observ.Report{}, false
	}
	return observ.Report{TotalMS: payload.TotalMS, Phases: payload.Phases}, true
}
