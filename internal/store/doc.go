// Package store provides SQLite-backed storage for contained-fault
// diagnostics.
//
// Diagnostics are advisory. The Recorder in front of the store never
// blocks the invocation path: it buffers diagnostics on a bounded channel
// drained by a single writer goroutine, and drops what does not fit.
//
// # Ordering
//
// All queries order by seq ASC, id ASC. seq is the engine's logical clock,
// so reads are deterministic regardless of wall time.
//
// # Database Configuration
//
//   - WAL mode: Concurrent reads during writes
//   - synchronous=NORMAL: Balance durability/performance
//   - Single open connection: SQLite has one writer
package store
