// File: adapters/funcs.go
// Package adapters provides glue between plain functions and the api contracts.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Each adapter lets an embedder satisfy a capability with a closure
// instead of declaring a type.

package adapters

import (
	"time"

	"github.com/momentics/leakwatch/api"
)

// GcFunc adapts a func to api.GcTrigger.
type GcFunc func()

// RequestCollection implements api.GcTrigger.
func (f GcFunc) RequestCollection() { f() }

// DebuggerFunc adapts a func to api.DebuggerControl.
type DebuggerFunc func() bool

// IsDebuggerAttached implements api.DebuggerControl.
func (f DebuggerFunc) IsDebuggerAttached() bool { return f() }

// ExecutorFunc adapts a func to api.WatchExecutor.
type ExecutorFunc func(delay time.Duration, fn func()) error

// Execute implements api.WatchExecutor.
func (f ExecutorFunc) Execute(delay time.Duration, fn func()) error { return f(delay, fn) }

// DumperFunc adapts a func to api.HeapDumper.
type DumperFunc func(api.DumpRequest) (string, error)

// DumpHeap implements api.HeapDumper.
func (f DumperFunc) DumpHeap(req api.DumpRequest) (string, error) { return f(req) }

// ListenerFunc adapts a func to api.HeapDumpListener.
type ListenerFunc func(api.HeapDump)

// OnLeakCaptured implements api.HeapDumpListener.
func (f ListenerFunc) OnLeakCaptured(d api.HeapDump) { f(d) }

// InspectorFunc adapts a func to api.ReachabilityInspector.
type InspectorFunc func(ref any) api.Reachability

// Inspect implements api.ReachabilityInspector.
func (f InspectorFunc) Inspect(ref any) api.Reachability { return f(ref) }
