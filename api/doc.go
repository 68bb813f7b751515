// Package api
// Author: momentics <momentics@gmail.com>
//
// Capability contracts and shared types for the leakwatch pipeline.
// Part of leakwatch leak-detection core.
//
// Every collaborator the pipeline depends on is expressed as a small
// interface so the embedding environment chooses the implementation:
//   - WatchExecutor: where and when deferred reachability checks run
//   - DebuggerControl: whether a debugger currently holds the process
//   - GcTrigger: best-effort collection hint
//   - HeapDumper: heap snapshot capture
//   - HeapDumpListener: consumer of finished dumps
//
// The default implementations live in the debugger, gc, heapdump and
// internal/sched packages; fakes for all contracts live in fake.
package api
