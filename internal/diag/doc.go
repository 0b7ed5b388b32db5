// Package diag defines the diagnostic model shared by the lexer, the parser,
// the verifier and the driver.
//
// Diagnostic is the central record:
//
//   - Severity: Info, Warning or Error.
//   - Code: compact numeric identifier with a stable string ID (LEX1001, VER4002).
//   - Message: short text; verifier messages start with the location path.
//   - Primary: the source.Span the finding points at.
//   - Notes: optional secondary spans ("defined here").
//
// Producers emit through a Reporter; Bag stores them with an optional cap.
// Rendering lives in internal/diagfmt.
package diag
