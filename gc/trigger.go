// File: gc/trigger.go
// Package gc provides the default GcTrigger.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package gc

import (
	"runtime"

	"github.com/momentics/leakwatch/api"
)

// Runtime requests a collection from the Go runtime. runtime.GC blocks
// until the cycle completes, but callers must still treat the hint as
// advisory: finalizers and weak pointer clearing drain asynchronously,
// which is why the confirmer follows the hint with a grace interval.
type Runtime struct{}

// RequestCollection implements api.GcTrigger.
func (Runtime) RequestCollection() {
	runtime.GC()
}

// Nop ignores collection requests. With it, the second reachability
// check sees whatever the collector happened to do on its own.
type Nop struct{}

// RequestCollection implements api.GcTrigger.
func (Nop) RequestCollection() {}

var (
	_ api.GcTrigger = Runtime{}
	_ api.GcTrigger = Nop{}
)
