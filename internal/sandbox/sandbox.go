// Package sandbox is the containment boundary around behavior execution.
// Whatever a behavior does (return an error, panic, throw inside the JS
// runtime) is converted into a ContainedFault; nothing propagates to the
// caller of Run.
package sandbox

import (
	"errors"
	"fmt"

	"github.com/roach88/scriptlet/internal/ir"
)

// ContainedFault records a fault caught at the boundary.
type ContainedFault struct {
	Template  string
	Cause     error
	Recovered bool // true when the fault was a recovered panic
}

func (f *ContainedFault) Error() string {
	if f.Recovered {
		return fmt.Sprintf("%s: recovered panic: %v", f.Template, f.Cause)
	}
	return fmt.Sprintf("%s: %v", f.Template, f.Cause)
}

func (f *ContainedFault) Unwrap() error {
	return f.Cause
}

// IsContainedFault reports whether err is or wraps a ContainedFault.
func IsContainedFault(err error) bool {
	var f *ContainedFault
	return errors.As(err, &f)
}

// Run executes fn inside the boundary. On a fault the result is
// ir.NoResult, so the host sees an unmodified environment result.
func Run(template string, fn func() (ir.Result, error)) (result ir.Result, fault *ContainedFault) {
	defer func() {
		if r := recover(); r != nil {
			result = ir.NoResult
			fault = &ContainedFault{Template: template, Cause: panicError(r), Recovered: true}
		}
	}()

	res, err := fn()
	if err != nil {
		return ir.NoResult, &ContainedFault{Template: template, Cause: err}
	}
	return res, nil
}

func panicError(r any) error {
	if err, ok := r.(error); ok {
		return err
	}
	return fmt.Errorf("%v", r)
}
