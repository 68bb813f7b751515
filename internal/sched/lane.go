// File: internal/sched/lane.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Serialized timer lane: a binary heap of due times drained by a single
// worker goroutine. Tasks run one at a time in due order.

package sched

import (
	"container/heap"
	"sync"
	"sync/atomic"
	"time"

	"github.com/momentics/leakwatch/api"
)

type timerTask struct {
	when time.Time
	fn   func()
}

type taskHeap []timerTask

func (h taskHeap) Len() int           { return len(h) }
func (h taskHeap) Less(i, j int) bool { return h[i].when.Before(h[j].when) }
func (h taskHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *taskHeap) Push(x any)        { *h = append(*h, x.(timerTask)) }
func (h *taskHeap) Pop() any {
	old := *h
	n := len(old)
	t := old[n-1]
	*h = old[:n-1]
	return t
}

// Lane is a single-goroutine deferred executor. It satisfies
// api.WatchExecutor and guarantees tasks never overlap.
type Lane struct {
	mu     sync.Mutex
	timerQ taskHeap
	notify chan struct{}
	stop   chan struct{}
	closed atomic.Bool
}

// NewLane starts the worker goroutine and returns the lane.
func NewLane() *Lane {
	l := &Lane{
		notify: make(chan struct{}, 1),
		stop:   make(chan struct{}),
	}
	go l.run()
	return l
}

// Execute schedules fn to run once at-or-after delay. Returns
// api.ErrExecutorClosed after Close.
func (l *Lane) Execute(delay time.Duration, fn func()) error {
	if l.closed.Load() {
		return api.ErrExecutorClosed
	}
	l.mu.Lock()
	heap.Push(&l.timerQ, timerTask{when: time.Now().Add(delay), fn: fn})
	l.mu.Unlock()
	select {
	case l.notify <- struct{}{}:
	default:
	}
	return nil
}

// Close stops the worker. Tasks not yet due are discarded; the task
// currently running finishes.
func (l *Lane) Close() {
	if l.closed.CompareAndSwap(false, true) {
		close(l.stop)
	}
}

func (l *Lane) run() {
	for {
		l.mu.Lock()
		if l.timerQ.Len() == 0 {
			l.mu.Unlock()
			select {
			case <-l.notify:
				continue
			case <-l.stop:
				return
			}
		}
		next := l.timerQ[0]
		now := time.Now()
		if next.when.After(now) {
			l.mu.Unlock()
			t := time.NewTimer(next.when.Sub(now))
			select {
			case <-t.C:
			case <-l.notify:
				// An earlier task may have been pushed; re-evaluate.
				t.Stop()
			case <-l.stop:
				t.Stop()
				return
			}
			continue
		}
		task := heap.Pop(&l.timerQ).(timerTask)
		l.mu.Unlock()
		l.safeRun(task.fn)
	}
}

func (l *Lane) safeRun(fn func()) {
	defer func() { recover() }()
	fn()
}
