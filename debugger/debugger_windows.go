//go:build windows

// File: debugger/debugger_windows.go
// Author: momentics <momentics@gmail.com>
//
// Windows detection via kernel32 IsDebuggerPresent.

package debugger

import "golang.org/x/sys/windows"

var (
	kernel32          = windows.NewLazySystemDLL("kernel32.dll")
	isDebuggerPresent = kernel32.NewProc("IsDebuggerPresent")
)

func attachedPlatform() bool {
	r, _, _ := isDebuggerPresent.Call()
	return r != 0
}
