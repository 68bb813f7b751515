package leakwatch

import (
	"runtime"
	"sync"
	"testing"
	"time"

	"github.com/go-kit/log"

	"github.com/momentics/leakwatch/api"
	"github.com/momentics/leakwatch/fake"
)

type leakable struct {
	buf [128]byte
}

type testPipeline struct {
	watcher  *Watcher
	exec     *fake.ManualExecutor
	gc       *fake.GcTrigger
	debugger *fake.DebuggerControl
	dumper   *fake.HeapDumper
	listener *fake.Listener
}

func newTestPipeline(t *testing.T, opts ...Option) *testPipeline {
	t.Helper()
	p := &testPipeline{
		exec:     &fake.ManualExecutor{},
		gc:       &fake.GcTrigger{},
		debugger: &fake.DebuggerControl{},
		dumper:   &fake.HeapDumper{},
		listener: &fake.Listener{},
	}
	// Collect for real when the pipeline asks, so weak handles clear.
	p.gc.SetHook(runtime.GC)

	all := append([]Option{
		WithWatchExecutor(p.exec),
		WithGcTrigger(p.gc),
		WithDebuggerControl(p.debugger),
		WithHeapDumper(p.dumper),
		WithHeapDumpListener(p.listener),
		WithGraceInterval(time.Millisecond),
		WithLogger(log.NewNopLogger()),
	}, opts...)

	w, err := New(nil, all...)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(w.Close)
	p.watcher = w
	return p
}

// Scenario A: the referent is released before the scheduled check
// fires. The confirmer reports GONE and neither the GC trigger nor the
// heap dumper is invoked.
func TestReleasedReferenceResolvesGone(t *testing.T) {
	p := newTestPipeline(t)

	obj := &leakable{}
	key := Watch(p.watcher, obj, "activity")
	if key == api.KeyDisabled {
		t.Fatal("Watch returned the disabled sentinel")
	}
	if p.watcher.RetainedKeyCount() != 1 {
		t.Fatalf("retained = %d, want 1", p.watcher.RetainedKeyCount())
	}

	runtime.KeepAlive(obj)
	obj = nil
	for i := 0; i < 10; i++ {
		runtime.GC()
	}

	p.exec.FireAll()

	if p.gc.Calls() != 0 {
		t.Errorf("gc trigger invoked %d times for a released reference, want 0", p.gc.Calls())
	}
	if len(p.dumper.Requests()) != 0 {
		t.Error("heap dumper invoked for a released reference")
	}
	if len(p.listener.Dumps()) != 0 {
		t.Error("listener notified for a released reference")
	}
	if p.watcher.RetainedKeyCount() != 0 {
		t.Errorf("retained = %d after resolution, want 0", p.watcher.RetainedKeyCount())
	}
}

// Scenario B: an external strong reference keeps the referent alive
// through both checks. Exactly one GC hint, one dump, one listener
// notification.
func TestLeakedReferenceIsConfirmedAndDumped(t *testing.T) {
	p := newTestPipeline(t)

	obj := &leakable{}
	start := time.Now()
	key := Watch(p.watcher, obj, "activity")

	p.exec.FireAll()

	if p.gc.Calls() != 1 {
		t.Errorf("gc trigger invoked %d times, want exactly 1", p.gc.Calls())
	}
	reqs := p.dumper.Requests()
	if len(reqs) != 1 {
		t.Fatalf("heap dumper invoked %d times, want 1", len(reqs))
	}
	dumps := p.listener.Dumps()
	if len(dumps) != 1 {
		t.Fatalf("listener notified %d times, want 1", len(dumps))
	}
	d := dumps[0]
	if d.Key != key || d.Description != "activity" || d.Path == "" {
		t.Errorf("dump = %+v", d)
	}
	if d.WatchDuration <= 0 || d.WatchDuration > time.Since(start)+time.Second {
		t.Errorf("watch duration = %v", d.WatchDuration)
	}
	if p.watcher.RetainedKeyCount() != 0 {
		t.Error("confirmed key still pending")
	}
	runtime.KeepAlive(obj)
}

// Scenario C: two leaks resolve RETAINED concurrently. Both dumps
// complete and the listener fires twice, but dumps in flight never
// exceed one.
func TestConcurrentLeaksSerializeDumps(t *testing.T) {
	p := newTestPipeline(t, WithWatchExecutor(fake.Executor{}))

	a, b := &leakable{}, &leakable{}
	var wg sync.WaitGroup
	for _, obj := range []*leakable{a, b} {
		wg.Add(1)
		go func(obj *leakable) {
			defer wg.Done()
			// fake.Executor runs the whole check pipeline on this
			// goroutine, so both confirmations race for the dump.
			Watch(p.watcher, obj, "leaked worker")
		}(obj)
	}
	wg.Wait()

	if got := len(p.listener.Dumps()); got != 2 {
		t.Fatalf("listener notified %d times, want 2", got)
	}
	if got := len(p.dumper.Requests()); got != 2 {
		t.Fatalf("dumper invoked %d times, want 2", got)
	}
	if high := p.watcher.Metrics().DumpsInFlightHighWater(); high != 1 {
		t.Errorf("dumps in flight high water = %d, want 1", high)
	}
	runtime.KeepAlive(a)
	runtime.KeepAlive(b)
}

func TestDebuggerAttachedSkipsPipeline(t *testing.T) {
	p := newTestPipeline(t)
	p.debugger.SetAttached(true)

	obj := &leakable{}
	Watch(p.watcher, obj, "activity")
	p.exec.FireAll()

	if p.gc.Calls() != 0 || len(p.dumper.Requests()) != 0 || len(p.listener.Dumps()) != 0 {
		t.Error("pipeline progressed despite attached debugger")
	}
	if p.watcher.RetainedKeyCount() != 0 {
		t.Error("skipped key still pending")
	}
	runtime.KeepAlive(obj)
}

func TestDisabledWatcherIsNoOpSink(t *testing.T) {
	w, err := New(nil, WithDisabled(true), WithLogger(log.NewNopLogger()))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if !w.IsDisabled() {
		t.Fatal("IsDisabled = false")
	}
	obj := &leakable{}
	if key := Watch(w, obj, "anything"); key != api.KeyDisabled {
		t.Errorf("Watch on disabled watcher returned %q", key)
	}
	if w.RetainedKeyCount() != 0 {
		t.Error("disabled watcher registered a pending key")
	}
	runtime.KeepAlive(obj)
}

func TestWatchNilRef(t *testing.T) {
	p := newTestPipeline(t)
	if key := Watch[leakable](p.watcher, nil, "nil"); key != api.KeyDisabled {
		t.Errorf("Watch(nil) = %q, want sentinel", key)
	}
}

func TestOnDestroyWatchesComponent(t *testing.T) {
	p := newTestPipeline(t)
	obj := &leakable{}
	key := OnDestroy(p.watcher, "session controller", obj)
	e := p.watcher.DebugState()
	if e["retained_keys"] != 1 {
		t.Errorf("retained_keys probe = %v, want 1", e["retained_keys"])
	}
	if key == api.KeyDisabled {
		t.Error("OnDestroy did not register")
	}
	runtime.KeepAlive(obj)
}

func TestInstallOncePerProcess(t *testing.T) {
	defer resetInstalled()

	w, err := Install(nil,
		WithWatchExecutor(&fake.ManualExecutor{}),
		WithHeapDumper(&fake.HeapDumper{}),
		WithLogger(log.NewNopLogger()))
	if err != nil {
		t.Fatal(err)
	}
	defer w.Close()

	if Installed() != w {
		t.Error("Installed() does not return the installed watcher")
	}

	defer func() {
		if recover() == nil {
			t.Error("second Install did not panic")
		}
	}()
	Install(nil, WithLogger(log.NewNopLogger()))
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.WatchDelay != 5*time.Second {
		t.Errorf("watch delay = %v, want 5s", cfg.WatchDelay)
	}
	if cfg.GraceInterval != 100*time.Millisecond {
		t.Errorf("grace interval = %v, want 100ms", cfg.GraceInterval)
	}
	if cfg.MaxStoredHeapDumps != 7 {
		t.Errorf("max stored dumps = %d, want 7", cfg.MaxStoredHeapDumps)
	}
	if cfg.Disabled {
		t.Error("disabled by default")
	}
}

func TestOptionsApplyToFrozenConfig(t *testing.T) {
	rules := api.ExcludedRefs{Goroutines: []api.ExcludedRef{{Name: "finalizer", Reason: "runtime owned"}}}
	p := newTestPipeline(t,
		WithExcludedRefs(rules),
		WithComputeRetainedHeapSize(true),
	)

	obj := &leakable{}
	Watch(p.watcher, obj, "activity")
	p.exec.FireAll()

	reqs := p.dumper.Requests()
	if len(reqs) != 1 {
		t.Fatalf("dumper invoked %d times, want 1", len(reqs))
	}
	if !reqs[0].ComputeRetainedSize {
		t.Error("ComputeRetainedSize not threaded through")
	}
	if len(reqs[0].ExcludedRefs.Goroutines) != 1 {
		t.Error("excluded refs not threaded through")
	}
	runtime.KeepAlive(obj)
}
