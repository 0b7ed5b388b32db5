// Package verify checks a parsed module against semantic rules of the IR.
//
// Verification is collect-all: every phase appends to one Report and nothing
// stops at the first problem. Phases are independent of each other, so a
// subset can be selected with Options.Phases. The module is never modified,
// which makes repeated runs produce identical reports.
package verify
