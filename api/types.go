// File: api/types.go
// Package api defines the records exchanged between pipeline stages.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

import "time"

// LeakRecord is produced when the confirmer resolves a watched
// reference as RETAINED, and consumed by the dump coordinator.
type LeakRecord struct {
	Key           WatchKey
	Description   string
	WatchDuration time.Duration
	// GcInvoked reports whether a collection hint was issued before the
	// RETAINED verdict. It is always true for records produced by the
	// confirmer; fakes may construct records without it.
	GcInvoked bool
	// GcDuration is the time spent in the collection hint plus the
	// finalization grace interval.
	GcDuration time.Duration
}

// DumpRequest is the payload handed to a HeapDumper: the leak record
// plus the frozen build-time configuration downstream analysis needs.
type DumpRequest struct {
	Record              LeakRecord
	ExcludedRefs        ExcludedRefs
	Inspectors          []ReachabilityInspector
	ComputeRetainedSize bool
}

// HeapDump describes one successfully captured artifact, delivered to
// the HeapDumpListener.
type HeapDump struct {
	// Path addresses the captured artifact.
	Path string
	// Key and Description identify the confirmed leak.
	Key         WatchKey
	Description string
	// WatchDuration is the time from watch registration to the RETAINED
	// verdict, GcDuration the confirmation overhead, DumpDuration the
	// capture itself.
	WatchDuration time.Duration
	GcDuration    time.Duration
	DumpDuration  time.Duration

	ExcludedRefs        ExcludedRefs
	Inspectors          []ReachabilityInspector
	ComputeRetainedSize bool
}
