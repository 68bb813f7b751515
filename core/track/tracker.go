// File: core/track/tracker.go
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package track

import (
	"sync"
	"time"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/google/uuid"

	"github.com/momentics/leakwatch/api"
	"github.com/momentics/leakwatch/control"
)

// Entry is one watched reference: a non-owning observation plus the key
// and description it was registered under.
type Entry struct {
	Key         api.WatchKey
	Description string
	WatchStart  time.Time
	Ref         api.WeakRef
}

// Tracker owns the key→entry mapping and the pending key set. All
// methods are safe for concurrent use from arbitrary goroutines.
type Tracker struct {
	mu       sync.Mutex
	watched  map[api.WatchKey]*Entry
	retained map[api.WatchKey]struct{}

	disabled bool
	schedule func(api.WatchKey)
	metrics  *control.Metrics
	logger   log.Logger
}

// New creates an enabled tracker. schedule is invoked once per
// registered key, after the entry is stored, to arm the deferred check.
func New(logger log.Logger, metrics *control.Metrics, schedule func(api.WatchKey)) *Tracker {
	return &Tracker{
		watched:  make(map[api.WatchKey]*Entry),
		retained: make(map[api.WatchKey]struct{}),
		schedule: schedule,
		metrics:  metrics,
		logger:   logger,
	}
}

// Disabled returns a tracker that ignores every Watch call. It holds no
// state and takes no locks.
func Disabled() *Tracker {
	return &Tracker{disabled: true}
}

// IsDisabled reports whether this tracker is the no-op variant.
func (t *Tracker) IsDisabled() bool { return t.disabled }

// Watch registers ref under a fresh key, adds the key to the pending
// set and arms the deferred check. It returns immediately and never
// blocks the caller. On a disabled tracker it returns api.KeyDisabled
// and performs no side effects.
func (t *Tracker) Watch(ref api.WeakRef, description string) api.WatchKey {
	if t.disabled {
		return api.KeyDisabled
	}
	key := api.WatchKey(uuid.NewString())
	e := &Entry{
		Key:         key,
		Description: description,
		WatchStart:  time.Now(),
		Ref:         ref,
	}
	t.mu.Lock()
	t.watched[key] = e
	t.retained[key] = struct{}{}
	t.mu.Unlock()

	t.metrics.WatchStarted()
	level.Debug(t.logger).Log("msg", "watch registered", "key", key, "description", description)

	if t.schedule != nil {
		t.schedule(key)
	}
	return key
}

// Lookup returns the entry for key, if still tracked.
func (t *Tracker) Lookup(key api.WatchKey) (*Entry, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	e, ok := t.watched[key]
	return e, ok
}

// Resolve removes key from the tracked set and the pending set. A key,
// once resolved, is never re-checked or re-dumped; Resolve reports
// whether the key was still tracked, so concurrent resolvers cannot
// both claim it.
func (t *Tracker) Resolve(key api.WatchKey) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, ok := t.watched[key]; !ok {
		return false
	}
	delete(t.watched, key)
	delete(t.retained, key)
	return true
}

// RetainedKeyCount reports the pending-set size for diagnostics.
func (t *Tracker) RetainedKeyCount() int {
	if t.disabled {
		return 0
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.retained)
}
