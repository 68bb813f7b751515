// File: leakwatch.go
// Unified facade for the leakwatch library.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Package leakwatch detects objects that should have become unreachable
// but were not: memory leaks caused by accidental strong references
// outliving their intended scope.
//
// The embedding application registers a weak observation on a candidate
// object with Watch. A deferred check fires after the watch delay; if
// the referent is still reachable, one advisory collection hint and a
// bounded grace interval later it is checked again. A referent that
// survives both checks is a confirmed leak: the heap is captured (one
// dump in flight at most, process-wide) and the configured listener is
// notified exactly once.
//
//	w, err := leakwatch.Install(nil)
//	...
//	leakwatch.Watch(w, session, "expired session")
package leakwatch

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/momentics/leakwatch/api"
	"github.com/momentics/leakwatch/control"
	"github.com/momentics/leakwatch/core/confirm"
	"github.com/momentics/leakwatch/core/dump"
	"github.com/momentics/leakwatch/core/track"
	"github.com/momentics/leakwatch/core/watch"
	"github.com/momentics/leakwatch/debugger"
	"github.com/momentics/leakwatch/gc"
	"github.com/momentics/leakwatch/heapdump"
	"github.com/momentics/leakwatch/internal/sched"
	"github.com/momentics/leakwatch/internal/weakref"
)

// Config holds all configurable parameters for a Watcher. It is frozen
// at New; later mutation of the passed struct has no effect.
type Config struct {
	// HeapDumpListener consumes finished dumps. Defaults to a listener
	// that logs the artifact path.
	HeapDumpListener api.HeapDumpListener
	// ExcludedRefs are known-acceptable retention rules, threaded into
	// each DumpRequest unmodified.
	ExcludedRefs api.ExcludedRefs
	// HeapDumper captures the heap. Defaults to the runtime dumper
	// writing into DumpDir.
	HeapDumper api.HeapDumper
	// DebuggerControl gates checks while a debugger is attached.
	// Defaults to native platform detection.
	DebuggerControl api.DebuggerControl
	// WatchExecutor is the lane deferred checks run on. Defaults to a
	// single serialized timer lane.
	WatchExecutor api.WatchExecutor
	// GcTrigger issues the advisory collection hint. Defaults to the
	// Go runtime collector.
	GcTrigger api.GcTrigger
	// ReachabilityInspectors is the ordered heuristic list passed
	// through to downstream analysis.
	ReachabilityInspectors []api.ReachabilityInspector
	// ComputeRetainedHeapSize asks downstream analysis to compute
	// retained sizes. Expensive, off by default.
	ComputeRetainedHeapSize bool
	// Disabled turns the watcher into a no-op sink for its whole
	// lifetime. Meant for dedicated analysis processes that must not
	// watch their own objects.
	Disabled bool

	// WatchDelay is how long after Watch the reachability check fires.
	WatchDelay time.Duration
	// GraceInterval bounds the wait for finalization after the hint.
	GraceInterval time.Duration
	// DumpDir is the managed artifact directory for the default dumper.
	DumpDir string
	// MaxStoredHeapDumps bounds artifact retention in DumpDir.
	MaxStoredHeapDumps int
	// Logger receives pipeline events. Defaults to logfmt on stderr at
	// info level.
	Logger log.Logger
}

// DefaultConfig returns a baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		WatchDelay:         watch.DefaultDelay,
		GraceInterval:      confirm.DefaultGraceInterval,
		DumpDir:            filepath.Join(os.TempDir(), "leakwatch"),
		MaxStoredHeapDumps: heapdump.DefaultMaxStored,
	}
}

// Watcher is the assembled watch-and-confirm pipeline. Construct one
// per process with Install, or independent instances with New (tests).
type Watcher struct {
	tracker     *track.Tracker
	scheduler   *watch.Scheduler
	confirmer   *confirm.Confirmer
	coordinator *dump.Coordinator
	metrics     *control.Metrics
	probes      *control.DebugProbes
	logger      log.Logger

	disabled  bool
	ownedLane *sched.Lane

	mu     sync.Mutex
	closed bool
}

// New assembles a watcher from cfg plus options. A nil cfg means
// DefaultConfig. The returned instance is independent; it does not
// touch the process-wide installed watcher.
func New(cfg *Config, opts ...Option) (*Watcher, error) {
	base := DefaultConfig()
	if cfg != nil {
		c := *cfg
		base = &c
	}
	for _, opt := range opts {
		if opt != nil {
			opt(base)
		}
	}

	logger := base.Logger
	if logger == nil {
		logger = level.NewFilter(log.NewLogfmtLogger(log.NewSyncWriter(os.Stderr)), level.AllowInfo())
	}
	logger = log.With(logger, "component", "leakwatch")

	if base.Disabled {
		return &Watcher{
			tracker:  track.Disabled(),
			metrics:  &control.Metrics{},
			probes:   control.NewDebugProbes(),
			logger:   logger,
			disabled: true,
		}, nil
	}

	w := &Watcher{
		metrics: &control.Metrics{},
		probes:  control.NewDebugProbes(),
		logger:  logger,
	}

	dumper := base.HeapDumper
	if dumper == nil {
		d, err := heapdump.New(base.DumpDir, base.MaxStoredHeapDumps, logger)
		if err != nil {
			return nil, fmt.Errorf("leakwatch: default heap dumper: %w", err)
		}
		dumper = d
	}
	listener := base.HeapDumpListener
	if listener == nil {
		listener = logListener{logger: logger}
	}
	dbg := base.DebuggerControl
	if dbg == nil {
		dbg = debugger.Native{}
	}
	trigger := base.GcTrigger
	if trigger == nil {
		trigger = gc.Runtime{}
	}
	exec := base.WatchExecutor
	if exec == nil {
		w.ownedLane = sched.NewLane()
		exec = w.ownedLane
	}

	w.coordinator = dump.New(dumper, listener, base.ExcludedRefs,
		base.ReachabilityInspectors, base.ComputeRetainedHeapSize, logger, w.metrics)
	w.tracker = track.New(logger, w.metrics, func(key api.WatchKey) {
		w.scheduler.Schedule(key)
	})
	w.confirmer = confirm.New(w.tracker, dbg, trigger, base.GraceInterval,
		logger, w.metrics, w.coordinator.Submit)
	w.scheduler = watch.New(exec, base.WatchDelay, logger, func(key api.WatchKey) {
		w.confirmer.Check(key)
	})

	w.probes.RegisterProbe("retained_keys", func() any { return w.tracker.RetainedKeyCount() })
	w.probes.RegisterProbe("pending_dumps", func() any { return w.coordinator.PendingLength() })
	w.probes.RegisterProbe("metrics", func() any { return w.metrics.Snapshot() })
	return w, nil
}

// Watch registers a non-owning observation of ref and returns its key.
// Fire-and-forget: it never blocks, and callers from arbitrary
// goroutines are safe. On a disabled watcher (or nil ref) it returns
// api.KeyDisabled and performs no registration.
func Watch[T any](w *Watcher, ref *T, description string) api.WatchKey {
	if w == nil || w.disabled || ref == nil {
		return api.KeyDisabled
	}
	return w.tracker.Watch(weakref.Of(ref), description)
}

// WatchRef is Watch for callers that already hold an api.WeakRef.
func (w *Watcher) WatchRef(ref api.WeakRef, description string) api.WatchKey {
	if w.disabled || ref == nil {
		return api.KeyDisabled
	}
	return w.tracker.Watch(ref, description)
}

// RetainedKeyCount reports how many watched references are pending
// resolution. Always 0 on a disabled watcher.
func (w *Watcher) RetainedKeyCount() int {
	return w.tracker.RetainedKeyCount()
}

// IsDisabled reports whether this watcher ignores Watch calls.
func (w *Watcher) IsDisabled() bool { return w.disabled }

// Metrics exposes the pipeline outcome counters.
func (w *Watcher) Metrics() *control.Metrics { return w.metrics }

// DebugState returns the output of all registered debug probes.
func (w *Watcher) DebugState() map[string]any { return w.probes.DumpState() }

// RegisterProbe adds a named debug hook to this watcher's registry.
func (w *Watcher) RegisterProbe(name string, fn func() any) {
	w.probes.RegisterProbe(name, fn)
}

// Close releases the default watch lane if this watcher owns one.
// Checks already scheduled on a caller-supplied executor still fire.
func (w *Watcher) Close() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	w.closed = true
	if w.ownedLane != nil {
		w.ownedLane.Close()
	}
}

// logListener is the default HeapDumpListener: it records the capture
// and leaves analysis to the embedder.
type logListener struct {
	logger log.Logger
}

func (l logListener) OnLeakCaptured(d api.HeapDump) {
	level.Info(l.logger).Log("msg", "leak captured", "key", d.Key,
		"description", d.Description, "path", d.Path,
		"watch_duration", d.WatchDuration)
}

var (
	installMu sync.Mutex
	installed *Watcher
)

// Install builds the process-wide watcher. Calling Install twice is a
// programming-usage error and panics; use New for additional instances
// in tests.
func Install(cfg *Config, opts ...Option) (*Watcher, error) {
	installMu.Lock()
	defer installMu.Unlock()
	if installed != nil {
		panic("leakwatch: Install called more than once per process")
	}
	w, err := New(cfg, opts...)
	if err != nil {
		return nil, err
	}
	installed = w
	return w, nil
}

// Installed returns the process-wide watcher, or nil before Install.
func Installed() *Watcher {
	installMu.Lock()
	defer installMu.Unlock()
	return installed
}

// resetInstalled clears the process-wide watcher. Test hook.
func resetInstalled() {
	installMu.Lock()
	installed = nil
	installMu.Unlock()
}
