// Package token defines lexical token kinds for textual LLVM IR.
// Invariants:
//   - Token.Text is the exact source slice, sigils and quotes included.
//   - Token.Span matches Text exactly.
//   - Bare words (opcodes, type names, attributes, linkage, DI enumerators) are
//     all Keyword; the parser matches them by text. iN is lexed as IntType.
//   - "name:" with no space before ':' is a Label, which also covers
//     specialised metadata field names (line:, scope:).
//   - Comments (';' to end of line) are leading Trivia, never tokens.
package token
