// File: api/listener.go
// Package api defines the finished-dump consumer contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// HeapDumpListener consumes finished heap dumps. It is invoked exactly
// once per confirmed, successfully dumped leak, and never for GONE or
// debugger-skipped outcomes.
//
// The listener runs on the coordinator's drain goroutine and must not
// block it; long-running analysis should be handed off asynchronously.
type HeapDumpListener interface {
	OnLeakCaptured(dump HeapDump)
}
