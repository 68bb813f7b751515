// File: core/dump/coordinator.go
// Package dump serializes heap captures for confirmed leaks.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// At most one dump operation executes at any instant, process-wide.
// Records arriving while a dump is in flight are queued and processed
// after the current dump completes; only an explicit dumper failure
// drops a record, and that is non-fatal for the queue.

package dump

import (
	"sync"
	"time"

	"github.com/eapache/queue"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/momentics/leakwatch/api"
	"github.com/momentics/leakwatch/control"
)

// Coordinator receives LeakRecords from any number of concurrently
// resolving confirmations and drives the heap dumper one record at a
// time. The in-flight flag and pending FIFO are guarded by their own
// mutex so slow dump I/O never blocks new watch registrations.
type Coordinator struct {
	dumper   api.HeapDumper
	listener api.HeapDumpListener

	excluded            api.ExcludedRefs
	inspectors          []api.ReachabilityInspector
	computeRetainedSize bool

	metrics *control.Metrics
	logger  log.Logger

	mu       sync.Mutex
	pending  *queue.Queue
	inFlight bool
}

// New creates a coordinator around the given dumper and listener. The
// excluded refs, inspectors and retained-size flag come from the frozen
// build-time configuration and are threaded into every DumpRequest
// unmodified.
func New(dumper api.HeapDumper, listener api.HeapDumpListener,
	excluded api.ExcludedRefs, inspectors []api.ReachabilityInspector,
	computeRetainedSize bool, logger log.Logger, metrics *control.Metrics) *Coordinator {
	return &Coordinator{
		dumper:              dumper,
		listener:            listener,
		excluded:            excluded,
		inspectors:          inspectors,
		computeRetainedSize: computeRetainedSize,
		metrics:             metrics,
		logger:              logger,
		pending:             queue.New(),
	}
}

// Submit hands one confirmed leak to the coordinator. If no dump is in
// flight the calling goroutine performs the dump (and drains anything
// queued behind it); otherwise the record is queued and the goroutine
// currently holding the flag picks it up. Records are never dropped on
// overlap, and distinct keys with the same description still produce
// distinct dumps.
func (c *Coordinator) Submit(rec api.LeakRecord) {
	c.mu.Lock()
	if c.inFlight {
		c.pending.Add(rec)
		c.mu.Unlock()
		return
	}
	c.inFlight = true
	c.mu.Unlock()

	c.drain(rec)
}

// PendingLength reports how many records wait behind the current dump.
func (c *Coordinator) PendingLength() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending.Length()
}

func (c *Coordinator) drain(rec api.LeakRecord) {
	for {
		c.process(rec)
		c.mu.Lock()
		if c.pending.Length() == 0 {
			c.inFlight = false
			c.mu.Unlock()
			return
		}
		rec = c.pending.Remove().(api.LeakRecord)
		c.mu.Unlock()
	}
}

func (c *Coordinator) process(rec api.LeakRecord) {
	req := api.DumpRequest{
		Record:              rec,
		ExcludedRefs:        c.excluded,
		Inspectors:          c.inspectors,
		ComputeRetainedSize: c.computeRetainedSize,
	}

	c.metrics.DumpStarted()
	start := time.Now()
	path, err := c.dumper.DumpHeap(req)
	dumpDuration := time.Since(start)
	if err != nil {
		c.metrics.DumpFinished(false)
		level.Error(c.logger).Log("msg", "heap dump failed, record dropped",
			"key", rec.Key, "description", rec.Description, "err", err)
		return
	}
	c.metrics.DumpFinished(true)

	level.Info(c.logger).Log("msg", "heap dump captured", "key", rec.Key,
		"path", path, "dump_duration", dumpDuration)

	c.listener.OnLeakCaptured(api.HeapDump{
		Path:                path,
		Key:                 rec.Key,
		Description:         rec.Description,
		WatchDuration:       rec.WatchDuration,
		GcDuration:          rec.GcDuration,
		DumpDuration:        dumpDuration,
		ExcludedRefs:        c.excluded,
		Inspectors:          c.inspectors,
		ComputeRetainedSize: c.computeRetainedSize,
	})
}
