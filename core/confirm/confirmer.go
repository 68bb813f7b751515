// File: core/confirm/confirmer.go
// Package confirm decides GONE vs RETAINED for watched references.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Per-key state machine, entered once when the scheduled check fires:
//
//	WATCHING → SKIPPED_DEBUGGER | GONE | RETAINED
//
// A single reachability check right after the delay would produce many
// false positives because the collector may not have run recently. One
// collection hint plus a bounded grace interval plus a second check
// converts "maybe leaked" into "very likely leaked" without polling.

package confirm

import (
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/momentics/leakwatch/api"
	"github.com/momentics/leakwatch/control"
	"github.com/momentics/leakwatch/core/track"
)

// DefaultGraceInterval bounds the wait for asynchronous finalization to
// drain after the collection hint.
const DefaultGraceInterval = 100 * time.Millisecond

// Outcome is the terminal state of one confirmation.
type Outcome int

const (
	// OutcomeGone: the referent was reclaimed; the common non-leak case.
	OutcomeGone Outcome = iota
	// OutcomeRetained: still reachable after a collection hint and a
	// second check; a confirmed leak.
	OutcomeRetained
	// OutcomeSkippedDebugger: a debugger was attached at check time.
	OutcomeSkippedDebugger
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeRetained:
		return "retained"
	case OutcomeSkippedDebugger:
		return "skipped_debugger"
	default:
		return "gone"
	}
}

// Confirmer performs the double-checked reachability confirmation.
// Check is self-contained per key; any number of checks for distinct
// keys may run concurrently.
type Confirmer struct {
	tracker  *track.Tracker
	debugger api.DebuggerControl
	gc       api.GcTrigger
	grace    time.Duration
	sink     func(api.LeakRecord)
	metrics  *control.Metrics
	logger   log.Logger
}

// New creates a confirmer. sink receives one LeakRecord per RETAINED
// verdict; it is the dump coordinator's Submit.
func New(tracker *track.Tracker, debugger api.DebuggerControl, gc api.GcTrigger,
	grace time.Duration, logger log.Logger, metrics *control.Metrics,
	sink func(api.LeakRecord)) *Confirmer {
	if grace <= 0 {
		grace = DefaultGraceInterval
	}
	return &Confirmer{
		tracker:  tracker,
		debugger: debugger,
		gc:       gc,
		grace:    grace,
		sink:     sink,
		metrics:  metrics,
		logger:   logger,
	}
}

// Check runs the state machine for key and returns the terminal state.
// Keys already resolved by an earlier check resolve to GONE without any
// side effects.
func (c *Confirmer) Check(key api.WatchKey) Outcome {
	e, ok := c.tracker.Lookup(key)
	if !ok {
		return OutcomeGone
	}

	// A debugger can hold references for reasons unrelated to the
	// application's own bug; reporting would be misleading. The key is
	// dropped, not re-queued.
	if c.debugger.IsDebuggerAttached() {
		c.tracker.Resolve(key)
		c.metrics.SkippedDebugger()
		level.Debug(c.logger).Log("msg", "check skipped, debugger attached", "key", key)
		return OutcomeSkippedDebugger
	}

	if !e.Ref.Alive() {
		c.resolveGone(e)
		return OutcomeGone
	}

	// Still reachable. Issue the advisory collection hint and allow a
	// bounded interval for finalization to drain, then check again.
	gcStart := time.Now()
	c.gc.RequestCollection()
	time.Sleep(c.grace)
	gcDuration := time.Since(gcStart)

	if !e.Ref.Alive() {
		c.resolveGone(e)
		return OutcomeGone
	}

	if !c.tracker.Resolve(key) {
		return OutcomeGone
	}
	c.metrics.Retained()
	rec := api.LeakRecord{
		Key:           e.Key,
		Description:   e.Description,
		WatchDuration: time.Since(e.WatchStart),
		GcInvoked:     true,
		GcDuration:    gcDuration,
	}
	level.Info(c.logger).Log("msg", "leak confirmed", "key", e.Key,
		"description", e.Description, "watch_duration", rec.WatchDuration)
	c.sink(rec)
	return OutcomeRetained
}

func (c *Confirmer) resolveGone(e *track.Entry) {
	if c.tracker.Resolve(e.Key) {
		c.metrics.Gone()
		level.Debug(c.logger).Log("msg", "reference gone", "key", e.Key)
	}
}
