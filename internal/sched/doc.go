// Package sched
// Author: momentics <momentics@gmail.com>
//
// Default WatchExecutor implementations.
//
// Lane is the default: one worker goroutine draining a timer heap, so
// all deferred checks run serialized on a single lane. Pool runs checks
// concurrently on a fixed set of workers for embedders that prefer
// parallel confirmation; the core pipeline is safe under either.
package sched
