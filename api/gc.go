// Package api
// Author: momentics
//
// GcTrigger contract: best-effort collection hint.

package api

// GcTrigger asks the runtime to perform a collection cycle. The request
// is advisory: the collector may run later or not at all, and callers
// must treat a still-reachable referent after the hint as the answer.
type GcTrigger interface {
	// RequestCollection issues the hint. Fire-and-forget, no guarantee.
	RequestCollection()
}
