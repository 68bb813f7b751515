// File: options.go
// Package leakwatch defines functional options for watcher assembly.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package leakwatch

import (
	"time"

	"github.com/go-kit/log"

	"github.com/momentics/leakwatch/api"
)

// Option customizes watcher initialization.
type Option func(*Config)

// WithHeapDumpListener sets the consumer of finished dumps.
func WithHeapDumpListener(l api.HeapDumpListener) Option {
	return func(c *Config) { c.HeapDumpListener = l }
}

// WithExcludedRefs merges rules describing known-acceptable retention
// paths into the configuration.
func WithExcludedRefs(refs api.ExcludedRefs) Option {
	return func(c *Config) { c.ExcludedRefs = c.ExcludedRefs.Merge(refs) }
}

// WithHeapDumper sets the heap capture strategy.
func WithHeapDumper(d api.HeapDumper) Option {
	return func(c *Config) { c.HeapDumper = d }
}

// WithDebuggerControl sets the debugger-attachment predicate.
func WithDebuggerControl(d api.DebuggerControl) Option {
	return func(c *Config) { c.DebuggerControl = d }
}

// WithWatchExecutor sets the scheduling strategy for deferred checks.
func WithWatchExecutor(e api.WatchExecutor) Option {
	return func(c *Config) { c.WatchExecutor = e }
}

// WithGcTrigger sets the collection hint strategy.
func WithGcTrigger(g api.GcTrigger) Option {
	return func(c *Config) { c.GcTrigger = g }
}

// WithReachabilityInspectors sets the ordered classification heuristic
// list, passed through to downstream analysis unmodified.
func WithReachabilityInspectors(in ...api.ReachabilityInspector) Option {
	return func(c *Config) { c.ReachabilityInspectors = in }
}

// WithComputeRetainedHeapSize enables retained-size computation in
// downstream analysis. Expensive, off by default.
func WithComputeRetainedHeapSize(v bool) Option {
	return func(c *Config) { c.ComputeRetainedHeapSize = v }
}

// WithDisabled makes the watcher a no-op sink for its whole lifetime.
func WithDisabled(v bool) Option {
	return func(c *Config) { c.Disabled = v }
}

// WithWatchDelay overrides how long after Watch the check fires.
func WithWatchDelay(d time.Duration) Option {
	return func(c *Config) { c.WatchDelay = d }
}

// WithGraceInterval overrides the post-hint finalization wait.
func WithGraceInterval(d time.Duration) Option {
	return func(c *Config) { c.GraceInterval = d }
}

// WithDumpDir overrides the managed artifact directory used by the
// default heap dumper.
func WithDumpDir(dir string) Option {
	return func(c *Config) { c.DumpDir = dir }
}

// WithMaxStoredHeapDumps bounds artifact retention for the default
// heap dumper.
func WithMaxStoredHeapDumps(n int) Option {
	return func(c *Config) { c.MaxStoredHeapDumps = n }
}

// WithLogger sets the pipeline logger.
func WithLogger(l log.Logger) Option {
	return func(c *Config) { c.Logger = l }
}
