// File: fake/capabilities.go
// Author: momentics <momentics@gmail.com>
//
// Controllable fakes for the watch-pipeline capability contracts.

package fake

import (
	"sync"
	"time"

	"github.com/momentics/leakwatch/api"
)

// DebuggerControl is a fake api.DebuggerControl whose answer is set by
// the test.
type DebuggerControl struct {
	mu       sync.Mutex
	attached bool
}

// SetAttached controls the next answers.
func (d *DebuggerControl) SetAttached(v bool) {
	d.mu.Lock()
	d.attached = v
	d.mu.Unlock()
}

// IsDebuggerAttached implements api.DebuggerControl.
func (d *DebuggerControl) IsDebuggerAttached() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.attached
}

// GcTrigger is a fake api.GcTrigger counting invocations and running an
// optional hook on each.
type GcTrigger struct {
	mu    sync.Mutex
	calls int
	hook  func()
}

// SetHook runs fn on every collection request, before counting returns.
func (g *GcTrigger) SetHook(fn func()) {
	g.mu.Lock()
	g.hook = fn
	g.mu.Unlock()
}

// RequestCollection implements api.GcTrigger.
func (g *GcTrigger) RequestCollection() {
	g.mu.Lock()
	g.calls++
	hook := g.hook
	g.mu.Unlock()
	if hook != nil {
		hook()
	}
}

// Calls returns how many collection requests were issued.
func (g *GcTrigger) Calls() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.calls
}

// HeapDumper is a fake api.HeapDumper recording requests.
type HeapDumper struct {
	mu       sync.Mutex
	requests []api.DumpRequest
	err      error
	block    chan struct{}
}

// SetError makes every DumpHeap fail with err.
func (h *HeapDumper) SetError(err error) {
	h.mu.Lock()
	h.err = err
	h.mu.Unlock()
}

// Block makes DumpHeap wait until Release is called.
func (h *HeapDumper) Block() {
	h.mu.Lock()
	h.block = make(chan struct{})
	h.mu.Unlock()
}

// Release unblocks a blocked dumper.
func (h *HeapDumper) Release() {
	h.mu.Lock()
	if h.block != nil {
		close(h.block)
		h.block = nil
	}
	h.mu.Unlock()
}

// DumpHeap implements api.HeapDumper.
func (h *HeapDumper) DumpHeap(req api.DumpRequest) (string, error) {
	h.mu.Lock()
	h.requests = append(h.requests, req)
	err := h.err
	block := h.block
	h.mu.Unlock()

	if block != nil {
		<-block
	}
	if err != nil {
		return "", err
	}
	return "/fake/" + string(req.Record.Key), nil
}

// Requests returns a copy of all recorded requests.
func (h *HeapDumper) Requests() []api.DumpRequest {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]api.DumpRequest, len(h.requests))
	copy(out, h.requests)
	return out
}

// Executor is a fake api.WatchExecutor that runs callbacks immediately
// on the calling goroutine, ignoring the delay. Deterministic for tests.
type Executor struct{}

// Execute implements api.WatchExecutor.
func (Executor) Execute(_ time.Duration, fn func()) error {
	fn()
	return nil
}

// ManualExecutor is a fake api.WatchExecutor that holds callbacks until
// the test fires them.
type ManualExecutor struct {
	mu      sync.Mutex
	pending []func()
}

// Execute implements api.WatchExecutor.
func (m *ManualExecutor) Execute(_ time.Duration, fn func()) error {
	m.mu.Lock()
	m.pending = append(m.pending, fn)
	m.mu.Unlock()
	return nil
}

// FireAll runs and clears every held callback, on the calling goroutine.
func (m *ManualExecutor) FireAll() {
	m.mu.Lock()
	pending := m.pending
	m.pending = nil
	m.mu.Unlock()
	for _, fn := range pending {
		fn()
	}
}

// Pending reports how many callbacks are held.
func (m *ManualExecutor) Pending() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.pending)
}

// Listener is a fake api.HeapDumpListener recording every dump.
type Listener struct {
	mu    sync.Mutex
	dumps []api.HeapDump
}

// OnLeakCaptured implements api.HeapDumpListener.
func (l *Listener) OnLeakCaptured(d api.HeapDump) {
	l.mu.Lock()
	l.dumps = append(l.dumps, d)
	l.mu.Unlock()
}

// Dumps returns a copy of everything captured so far.
func (l *Listener) Dumps() []api.HeapDump {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]api.HeapDump, len(l.dumps))
	copy(out, l.dumps)
	return out
}

var (
	_ api.DebuggerControl  = (*DebuggerControl)(nil)
	_ api.GcTrigger        = (*GcTrigger)(nil)
	_ api.HeapDumper       = (*HeapDumper)(nil)
	_ api.WatchExecutor    = Executor{}
	_ api.WatchExecutor    = (*ManualExecutor)(nil)
	_ api.HeapDumpListener = (*Listener)(nil)
)
