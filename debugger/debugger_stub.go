//go:build !linux && !windows

// File: debugger/debugger_stub.go
// Author: momentics <momentics@gmail.com>
//
// Stub for platforms without debugger detection. Reports no debugger,
// so checks are never skipped.

package debugger

func attachedPlatform() bool { return false }
