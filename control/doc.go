// Package control
// Author: momentics <momentics@gmail.com>
//
// Runtime metrics and debug introspection layer for the watch pipeline.
//
// Provides concurrent-safe primitives including:
//   - Atomic outcome counters with snapshot export
//   - Dump in-flight gauge with high-water tracking
//   - Debug hooks and probe registration
package control
