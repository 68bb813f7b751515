// File: debugger/debugger.go
// Package debugger provides the default DebuggerControl.
// Author: momentics <momentics@gmail.com>
// License: Apache-2.0
//
// Platform-partitioned detection: TracerPid on Linux, the kernel32
// IsDebuggerPresent query on Windows, always-false elsewhere.

package debugger

import "github.com/momentics/leakwatch/api"

// Native queries the operating system for an attached debugger.
type Native struct{}

// IsDebuggerAttached implements api.DebuggerControl.
func (Native) IsDebuggerAttached() bool {
	return attachedPlatform()
}

// None is a DebuggerControl that never reports a debugger. Useful for
// environments where detection is unsupported or deliberately ignored.
type None struct{}

// IsDebuggerAttached implements api.DebuggerControl.
func (None) IsDebuggerAttached() bool { return false }

var (
	_ api.DebuggerControl = Native{}
	_ api.DebuggerControl = None{}
)
