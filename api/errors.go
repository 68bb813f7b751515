// Package api
// Author: momentics <momentics@gmail.com>
//
// Common error types for the leakwatch library.

package api

import "fmt"

// Common errors used across the library.
var (
	ErrExecutorClosed  = fmt.Errorf("watch executor is closed")
	ErrDumpUnsupported = fmt.Errorf("heap dump not supported in this environment")
	ErrDumpFailed      = fmt.Errorf("heap dump failed")
	ErrTrackerClosed   = fmt.Errorf("tracker is closed")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
)
