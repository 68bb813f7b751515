package debugger

import "testing"

func TestNativeDoesNotPanic(t *testing.T) {
	// Test processes are not normally traced; the query must succeed
	// and report false.
	if (Native{}).IsDebuggerAttached() {
		t.Skip("a debugger is attached to the test process")
	}
}

func TestNoneNeverReports(t *testing.T) {
	if (None{}).IsDebuggerAttached() {
		t.Fatal("None reported an attached debugger")
	}
}
