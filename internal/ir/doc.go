// Package ir is the in-memory form of a parsed module: values, constants,
// globals, instructions, basic blocks and functions.
//
// Instructions are a closed set: every variant embeds InstBase, and the
// unexported marker keeps implementations inside this package. Code that
// dispatches on instructions switches over the concrete pointer types; see
// OperandSlots and Successors.
//
// Types are handles into the module's *types.Context. A value's type is fixed
// when it is built.
package ir
