package verify

import (
	"fmt"
	"strings"

	"llvet/internal/diag"
	"llvet/internal/source"
)

// Kind classifies a violation.
type Kind uint8

const (
	TypeMismatch Kind = iota
	MissingTerminator
	IllegalStructure
	IllegalAttribute
	IllegalControlFlow
	IllegalMetadata
	IllegalUse
	Internal
)

var kindNames = [...]string{
	TypeMismatch:       "TypeMismatch",
	MissingTerminator:  "MissingTerminator",
	IllegalStructure:   "IllegalStructure",
	IllegalAttribute:   "IllegalAttribute",
	IllegalControlFlow: "IllegalControlFlow",
	IllegalMetadata:    "IllegalMetadata",
	IllegalUse:         "IllegalUse",
	Internal:           "Internal",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Code maps the kind to its VER diagnostic code.
func (k Kind) Code() diag.Code {
	switch k {
	case TypeMismatch:
		return diag.VerTypeMismatch
	case MissingTerminator:
		return diag.VerMissingTerminator
	case IllegalStructure:
		return diag.VerIllegalStructure
	case IllegalAttribute:
		return diag.VerIllegalAttribute
	case IllegalControlFlow:
		return diag.VerIllegalControlFlow
	case IllegalMetadata:
		return diag.VerIllegalMetadata
	case IllegalUse:
		return diag.VerIllegalUse
	}
	return diag.VerInternal
}

// Violation names the offending entity. Func and Block are rendered names
// (@f, %entry); Inst is the index inside Block or -1.
type Violation struct {
	Kind  Kind
	Phase Phase
	Func  string
	Block string
	Inst  int
	Op    string
	Msg   string
	Span  source.Span
}

// Where renders the entity path: "@f %entry #2 (ret)".
func (v Violation) Where() string {
	var parts []string
	if v.Func != "" {
		parts = append(parts, v.Func)
	}
	if v.Block != "" {
		parts = append(parts, v.Block)
	}
	if v.Inst >= 0 {
		s := fmt.Sprintf("#%d", v.Inst)
		if v.Op != "" {
			s += " (" + v.Op + ")"
		}
		parts = append(parts, s)
	}
	if len(parts) == 0 {
		return "module"
	}
	return strings.Join(parts, " ")
}

func (v Violation) String() string {
	return fmt.Sprintf("%s: %s: %s", v.Where(), v.Kind, v.Msg)
}

// Diagnostic converts the violation to an error diagnostic.
func (v Violation) Diagnostic() diag.Diagnostic {
	return diag.NewError(v.Kind.Code(), v.Span, v.Where()+": "+v.Msg)
}

// Report is the ordered result of Module. An empty report means the module
// is valid.
type Report struct {
	Violations []Violation
	// Dropped counts violations beyond Options.MaxViolations.
	Dropped int
}

// OK reports a module without violations.
func (r *Report) OK() bool {
	return r == nil || len(r.Violations) == 0 && r.Dropped == 0
}

// Len returns the number of collected violations.
func (r *Report) Len() int {
	if r == nil {
		return 0
	}
	return len(r.Violations)
}

// Count returns how many violations of kind k were collected.
func (r *Report) Count(k Kind) int {
	n := 0
	for _, v := range r.Violations {
		if v.Kind == k {
			n++
		}
	}
	return n
}

// Emit sends every violation to rep as a VER diagnostic.
func (r *Report) Emit(rep diag.Reporter) {
	if r == nil || rep == nil {
		return
	}
	for _, v := range r.Violations {
		diag.ReportError(rep, v.Kind.Code(), v.Span, v.Where()+": "+v.Msg).Emit()
	}
}
