// File: api/dumper.go
// Package api defines the heap capture contract.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0

package api

// HeapDumper captures the current heap to an addressable artifact.
// Capture may perform blocking I/O and is expected to fail under
// resource pressure; failure is a normal outcome the coordinator logs
// and drops, never a reason to stop the pipeline.
type HeapDumper interface {
	// DumpHeap captures the heap for the given request and returns the
	// artifact path, or an error if capture failed or is unsupported.
	DumpHeap(req DumpRequest) (string, error)
}
