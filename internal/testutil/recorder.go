package testutil

import (
	"sync"

	"github.com/roach88/scriptlet/internal/ir"
)

// DiagnosticLog is an in-memory diagnostics recorder for tests and the
// conformance harness.
//
// Unlike store.Recorder it never drops and can be reset for reuse.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type DiagnosticLog struct {
	mu      sync.Mutex
	entries []ir.Diagnostic
}

// NewDiagnosticLog creates an empty log.
func NewDiagnosticLog() *DiagnosticLog {
	return &DiagnosticLog{}
}

// Record implements engine.Recorder.
func (l *DiagnosticLog) Record(d ir.Diagnostic) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = append(l.entries, d)
}

// Diagnostics returns a copy of everything recorded, in arrival order.
func (l *DiagnosticLog) Diagnostics() []ir.Diagnostic {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make([]ir.Diagnostic, len(l.entries))
	copy(out, l.entries)
	return out
}

// ForInvocation returns the diagnostic recorded for invocation id.
func (l *DiagnosticLog) ForInvocation(id string) (ir.Diagnostic, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, d := range l.entries {
		if d.InvocationID == id {
			return d, true
		}
	}
	return ir.Diagnostic{}, false
}

// Reset discards all recorded diagnostics.
func (l *DiagnosticLog) Reset() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.entries = nil
}
