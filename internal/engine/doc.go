// Package engine implements the scriptlet invocation pipeline.
//
// An invocation flows through four stages:
//
//  1. Resolve: the requested name (canonical or alias) is mapped to a
//     catalog template. An unknown name is the only error Invoke returns.
//  2. Bind: positional arguments are bound into a typed record; absent
//     positions take their declared default.
//  3. Execute: the template's behavior runs against the host page inside
//     the sandbox boundary.
//  4. Report: contained faults become best-effort diagnostics; counters
//     and logs record the outcome.
//
// Every invocation is stamped with an ID and a monotonic sequence number
// from the engine Clock, so traces and diagnostics order deterministically.
//
// The engine holds no per-page state. Invocations against the same page
// must be serialized by the caller, matching the page's single evaluation
// thread; invocations against different pages may run concurrently.
package engine
