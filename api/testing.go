// Package api
// Author: momentics
//
// Mock/testing utilities for all core contracts; extendable for new interfaces.

package api

import "time"

// MockHeapDumper is a test and mock-friendly implementation of HeapDumper.
type MockHeapDumper struct {
	DumpHeapFunc func(DumpRequest) (string, error)
}

func (m *MockHeapDumper) DumpHeap(req DumpRequest) (string, error) { return m.DumpHeapFunc(req) }

// MockDebuggerControl is a mock-friendly DebuggerControl.
type MockDebuggerControl struct {
	IsDebuggerAttachedFunc func() bool
}

func (m *MockDebuggerControl) IsDebuggerAttached() bool { return m.IsDebuggerAttachedFunc() }

// MockGcTrigger is a mock-friendly GcTrigger.
type MockGcTrigger struct {
	RequestCollectionFunc func()
}

func (m *MockGcTrigger) RequestCollection() { m.RequestCollectionFunc() }

// MockWatchExecutor is a mock-friendly WatchExecutor.
type MockWatchExecutor struct {
	ExecuteFunc func(time.Duration, func()) error
}

func (m *MockWatchExecutor) Execute(delay time.Duration, fn func()) error {
	return m.ExecuteFunc(delay, fn)
}

// Extend with mocks for all additional core contracts as architecture evolves.
