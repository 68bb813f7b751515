// control/metrics.go
// Author: momentics <momentics@gmail.com>
//
// Pipeline outcome counters. One instance per watcher, shared by the
// tracker, confirmer and dump coordinator.

package control

import "sync/atomic"

// Metrics counts watch-pipeline outcomes. All methods are safe for
// concurrent use.
type Metrics struct {
	watchesStarted  atomic.Int64
	gone            atomic.Int64
	retained        atomic.Int64
	skippedDebugger atomic.Int64
	dumpsCompleted  atomic.Int64
	dumpFailures    atomic.Int64

	dumpsInFlight     atomic.Int64
	dumpsInFlightHigh atomic.Int64
}

// WatchStarted records one watch registration.
func (m *Metrics) WatchStarted() { m.watchesStarted.Add(1) }

// Gone records a reference resolved as collected.
func (m *Metrics) Gone() { m.gone.Add(1) }

// Retained records a confirmed leak.
func (m *Metrics) Retained() { m.retained.Add(1) }

// SkippedDebugger records a check skipped because a debugger was attached.
func (m *Metrics) SkippedDebugger() { m.skippedDebugger.Add(1) }

// DumpStarted marks a dump in flight and tracks the high-water mark.
func (m *Metrics) DumpStarted() {
	n := m.dumpsInFlight.Add(1)
	for {
		high := m.dumpsInFlightHigh.Load()
		if n <= high || m.dumpsInFlightHigh.CompareAndSwap(high, n) {
			return
		}
	}
}

// DumpFinished clears the in-flight gauge and records the outcome.
func (m *Metrics) DumpFinished(ok bool) {
	m.dumpsInFlight.Add(-1)
	if ok {
		m.dumpsCompleted.Add(1)
	} else {
		m.dumpFailures.Add(1)
	}
}

// DumpsInFlight returns the current in-flight gauge.
func (m *Metrics) DumpsInFlight() int64 { return m.dumpsInFlight.Load() }

// DumpsInFlightHighWater returns the maximum concurrent dumps observed.
func (m *Metrics) DumpsInFlightHighWater() int64 { return m.dumpsInFlightHigh.Load() }

// Snapshot returns the latest counter values.
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"watches_started":      m.watchesStarted.Load(),
		"gone":                 m.gone.Load(),
		"retained":             m.retained.Load(),
		"skipped_debugger":     m.skippedDebugger.Load(),
		"dumps_completed":      m.dumpsCompleted.Load(),
		"dump_failures":        m.dumpFailures.Load(),
		"dumps_in_flight":      m.dumpsInFlight.Load(),
		"dumps_in_flight_high": m.dumpsInFlightHigh.Load(),
	}
}
