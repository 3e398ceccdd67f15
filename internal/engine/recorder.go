package engine

import "github.com/roach88/scriptlet/internal/ir"

// Recorder receives diagnostics for contained faults.
//
// Record is called on the invocation path and must not block. Diagnostics
// are advisory: an implementation may drop them.
type Recorder interface {
	Record(d ir.Diagnostic)
}

// RecorderFunc adapts a function to Recorder.
type RecorderFunc func(d ir.Diagnostic)

// Record implements Recorder.
func (f RecorderFunc) Record(d ir.Diagnostic) {
	f(d)
}

type discardRecorder struct{}

func (discardRecorder) Record(ir.Diagnostic) {}
