package dump

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/go-kit/log"

	"github.com/momentics/leakwatch/api"
	"github.com/momentics/leakwatch/control"
)

type captureListener struct {
	mu    sync.Mutex
	dumps []api.HeapDump
}

func (l *captureListener) OnLeakCaptured(d api.HeapDump) {
	l.mu.Lock()
	l.dumps = append(l.dumps, d)
	l.mu.Unlock()
}

func (l *captureListener) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.dumps)
}

func TestSubmitDumpsAndNotifiesOnce(t *testing.T) {
	listener := &captureListener{}
	metrics := &control.Metrics{}
	var dumps atomic.Int32
	dumper := &api.MockHeapDumper{DumpHeapFunc: func(req api.DumpRequest) (string, error) {
		return fmt.Sprintf("/tmp/leak-%d.hprof", dumps.Add(1)), nil
	}}
	excluded := api.ExcludedRefs{Fields: []api.ExcludedRef{{Name: "Pool.conn", Reason: "pooled"}}}
	c := New(dumper, listener, excluded, nil, true, log.NewNopLogger(), metrics)

	c.Submit(api.LeakRecord{Key: "k1", Description: "activity", WatchDuration: 6 * time.Second, GcInvoked: true})

	if listener.count() != 1 {
		t.Fatalf("listener invoked %d times, want 1", listener.count())
	}
	d := listener.dumps[0]
	if d.Key != "k1" || d.Description != "activity" || d.Path == "" {
		t.Errorf("dump = %+v", d)
	}
	if d.WatchDuration != 6*time.Second {
		t.Errorf("watch duration = %v", d.WatchDuration)
	}
	if !d.ComputeRetainedSize || len(d.ExcludedRefs.Fields) != 1 {
		t.Error("frozen configuration not threaded through")
	}
}

func TestDumperFailureDropsRecordAndContinues(t *testing.T) {
	listener := &captureListener{}
	metrics := &control.Metrics{}
	var calls atomic.Int32
	dumper := &api.MockHeapDumper{DumpHeapFunc: func(req api.DumpRequest) (string, error) {
		if calls.Add(1) == 1 {
			return "", api.ErrDumpFailed
		}
		return "/tmp/leak.hprof", nil
	}}
	c := New(dumper, listener, api.ExcludedRefs{}, nil, false, log.NewNopLogger(), metrics)

	c.Submit(api.LeakRecord{Key: "fails", Description: "a"})
	c.Submit(api.LeakRecord{Key: "succeeds", Description: "a"})

	if listener.count() != 1 {
		t.Fatalf("listener invoked %d times, want 1 (failed record dropped)", listener.count())
	}
	if listener.dumps[0].Key != "succeeds" {
		t.Errorf("captured key = %s", listener.dumps[0].Key)
	}
	snap := metrics.Snapshot()
	if snap["dump_failures"].(int64) != 1 || snap["dumps_completed"].(int64) != 1 {
		t.Errorf("metrics = %v", snap)
	}
}

func TestOverlappingSubmitsQueueNotInterleave(t *testing.T) {
	listener := &captureListener{}
	metrics := &control.Metrics{}

	firstStarted := make(chan struct{})
	release := make(chan struct{})
	var once sync.Once
	dumper := &api.MockHeapDumper{DumpHeapFunc: func(req api.DumpRequest) (string, error) {
		once.Do(func() {
			close(firstStarted)
			<-release
		})
		return "/tmp/" + string(req.Record.Key), nil
	}}
	c := New(dumper, listener, api.ExcludedRefs{}, nil, false, log.NewNopLogger(), metrics)

	go c.Submit(api.LeakRecord{Key: "first", Description: "x"})
	<-firstStarted

	// Arrives while the first dump is blocked in I/O: must queue.
	done := make(chan struct{})
	go func() {
		c.Submit(api.LeakRecord{Key: "second", Description: "x"})
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("queued Submit blocked behind in-flight dump")
	}
	if got := c.PendingLength(); got != 1 {
		t.Fatalf("pending = %d, want 1", got)
	}
	if listener.count() != 0 {
		t.Fatal("listener fired before any dump completed")
	}

	close(release)
	deadline := time.Now().Add(2 * time.Second)
	for listener.count() < 2 {
		if time.Now().After(deadline) {
			t.Fatalf("listener invoked %d times, want 2", listener.count())
		}
		time.Sleep(time.Millisecond)
	}
	if high := metrics.DumpsInFlightHighWater(); high != 1 {
		t.Errorf("dumps in flight high water = %d, want 1", high)
	}
}

func TestConcurrentSubmitsSerializeDumps(t *testing.T) {
	listener := &captureListener{}
	metrics := &control.Metrics{}

	var running atomic.Int32
	dumper := &api.MockHeapDumper{DumpHeapFunc: func(req api.DumpRequest) (string, error) {
		if running.Add(1) != 1 {
			t.Error("two dumps executed with overlapping windows")
		}
		time.Sleep(2 * time.Millisecond)
		running.Add(-1)
		return "/tmp/" + string(req.Record.Key), nil
	}}
	c := New(dumper, listener, api.ExcludedRefs{}, nil, false, log.NewNopLogger(), metrics)

	const n = 24
	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			c.Submit(api.LeakRecord{Key: api.WatchKey(fmt.Sprintf("k%d", i)), Description: "same description"})
		}(i)
	}
	wg.Wait()

	deadline := time.Now().Add(5 * time.Second)
	for listener.count() < n {
		if time.Now().After(deadline) {
			t.Fatalf("listener invoked %d times, want %d", listener.count(), n)
		}
		time.Sleep(time.Millisecond)
	}
	if high := metrics.DumpsInFlightHighWater(); high != 1 {
		t.Errorf("dumps in flight high water = %d, want 1", high)
	}

	// Same description, distinct keys: still one dump per record.
	seen := make(map[api.WatchKey]bool)
	for _, d := range listener.dumps {
		if seen[d.Key] {
			t.Errorf("key %s dumped twice", d.Key)
		}
		seen[d.Key] = true
	}
}
