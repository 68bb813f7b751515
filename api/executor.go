// Package api
// Author: momentics
//
// WatchExecutor contract for deferred reachability check dispatch.

package api

import "time"

// WatchExecutor runs a reachability check once, at or after the given
// delay, on a lane the embedding environment controls. The contract is
// one-shot: no retries, no cancellation. A process exiting before the
// callback fires is an accepted terminal state, not an error.
type WatchExecutor interface {
	// Execute schedules fn to run exactly once at-or-after delay.
	Execute(delay time.Duration, fn func()) error
}
