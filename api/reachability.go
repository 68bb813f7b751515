// File: api/reachability.go
// Package api defines reachability classification heuristics.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// Reachability is the expected-liveness classification produced by an
// Inspector for an object of a given shape.
type Reachability int

const (
	// ReachabilityUnknown means the inspector has no opinion.
	ReachabilityUnknown Reachability = iota
	// ReachabilityExpected means objects of this shape are legitimately
	// long-lived and retention is not suspicious.
	ReachabilityExpected
	// ReachabilityUnexpected means objects of this shape should have
	// been collected and retention indicates a leak.
	ReachabilityUnexpected
)

// String returns the classification name.
func (r Reachability) String() string {
	switch r {
	case ReachabilityExpected:
		return "expected"
	case ReachabilityUnexpected:
		return "unexpected"
	default:
		return "unknown"
	}
}

// ReachabilityInspector classifies the expected reachability of an
// object of a given shape. Inspectors are an ordered list configured at
// build time; the core threads them through each DumpRequest unmodified
// for downstream path analysis to consult.
type ReachabilityInspector interface {
	// Inspect classifies ref. Implementations must not retain ref.
	Inspect(ref any) Reachability
}
