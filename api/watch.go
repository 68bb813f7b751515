// File: api/watch.go
// Package api defines watch keys and the non-owning reference contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// WatchKey uniquely identifies one watched reference for its whole
// lifetime, from registration through GONE/RETAINED resolution.
type WatchKey string

// KeyDisabled is returned by Watch on a disabled watcher. No entry with
// this key is ever registered.
const KeyDisabled WatchKey = ""

// WeakRef is a non-owning observation of a candidate object. It never
// extends the referent's lifetime; once the collector reclaims the
// referent, Alive reports false forever.
type WeakRef interface {
	// Alive reports whether the referent is still reachable.
	Alive() bool
}
