// Package api
// Author: momentics
//
// DebuggerControl contract: debugger-attachment predicate.

package api

// DebuggerControl reports whether a debugger is attached to the process.
// A debugger can hold references for reasons unrelated to the
// application's own bugs, so the confirmer soft-skips checks while one
// is attached.
type DebuggerControl interface {
	// IsDebuggerAttached is a pure query with no side effects.
	IsDebuggerAttached() bool
}
