// File: core/watch/scheduler.go
// Package watch arms one deferred reachability check per watched key.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// The scheduler owns no timing itself: it delegates to the pluggable
// api.WatchExecutor and only enforces that no two checks for the same
// key are ever in flight at once. No retries, no cancellation; a
// process exiting before a callback fires is an accepted terminal
// state.

package watch

import (
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/momentics/leakwatch/api"
)

// DefaultDelay is how long after registration the reachability check
// fires. The delay exists to avoid false positives from references that
// are merely queued for near-term release by normal idle-time cleanup.
const DefaultDelay = 5 * time.Second

// Scheduler schedules a deferred check per watched key.
type Scheduler struct {
	exec   api.WatchExecutor
	delay  time.Duration
	check  func(api.WatchKey)
	logger log.Logger

	mu       sync.Mutex
	inflight map[api.WatchKey]struct{}
}

// New creates a scheduler dispatching to exec after delay. check is the
// confirmer entry point, invoked once per scheduled key.
func New(exec api.WatchExecutor, delay time.Duration, logger log.Logger, check func(api.WatchKey)) *Scheduler {
	if delay <= 0 {
		delay = DefaultDelay
	}
	return &Scheduler{
		exec:     exec,
		delay:    delay,
		check:    check,
		logger:   logger,
		inflight: make(map[api.WatchKey]struct{}),
	}
}

// Schedule arms the deferred check for key. A key whose check is
// already pending is not scheduled again.
func (s *Scheduler) Schedule(key api.WatchKey) {
	s.mu.Lock()
	if _, dup := s.inflight[key]; dup {
		s.mu.Unlock()
		return
	}
	s.inflight[key] = struct{}{}
	s.mu.Unlock()

	err := s.exec.Execute(s.delay, func() {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
		s.check(key)
	})
	if err != nil {
		s.mu.Lock()
		delete(s.inflight, key)
		s.mu.Unlock()
		level.Error(s.logger).Log("msg", "deferred check not scheduled", "key", key, "err", err)
	}
}
