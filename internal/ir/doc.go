// Package ir provides the shared data model for the scriptlet runtime.
//
// This package contains type definitions only. All other internal packages
// import ir; ir imports nothing internal. This keeps the catalog, binder,
// sandbox, behaviors and engine free of circular dependencies.
//
// Key design constraints:
//   - Argument positions are 1-indexed everywhere (Param.Index, Bound.Arg)
//   - Templates are immutable once compiled into a catalog
//   - A Bound instance is a typed record, never concatenated source text
//   - Logical clocks (seq) only for ordering, never wall-clock timestamps
package ir
