// Package metadata stores metadata nodes of a module and answers shape
// queries about them. It does not validate debug-info graphs; callers ask
// only whether a node exists and whether it looks like a recognised kind.
package metadata
