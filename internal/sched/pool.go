// File: internal/sched/pool.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Concurrent deferred executor: timers feed a task channel drained by a
// fixed pool of worker goroutines.

package sched

import (
	"runtime"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/leakwatch/api"
)

// Pool runs deferred tasks concurrently on a fixed number of workers.
// It satisfies api.WatchExecutor.
type Pool struct {
	tasks  chan func()
	stop   chan struct{}
	closed atomic.Bool
	wg     sync.WaitGroup
}

// NewPool creates a pool with the given worker count. Non-positive
// counts default to runtime.NumCPU().
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	p := &Pool{
		tasks: make(chan func(), workers*4),
		stop:  make(chan struct{}),
	}
	for i := 0; i < workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
	return p
}

// Execute schedules fn to run once at-or-after delay on any worker.
func (p *Pool) Execute(delay time.Duration, fn func()) error {
	if p.closed.Load() {
		return api.ErrExecutorClosed
	}
	time.AfterFunc(delay, func() {
		select {
		case p.tasks <- fn:
		case <-p.stop:
		}
	})
	return nil
}

// Close stops the workers. Pending timers fire but their tasks are
// discarded.
func (p *Pool) Close() {
	if p.closed.CompareAndSwap(false, true) {
		close(p.stop)
		p.wg.Wait()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for {
		select {
		case fn := <-p.tasks:
			p.safeRun(fn)
		case <-p.stop:
			return
		}
	}
}

func (p *Pool) safeRun(fn func()) {
	defer func() { recover() }()
	fn()
}
