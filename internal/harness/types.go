package harness

import (
	"github.com/roach88/scriptlet/internal/host"
)

// TraceEvent records one scenario step.
type TraceEvent struct {
	// Step is the 1-based step index.
	Step int `json:"step"`

	// Template is the canonical name, or the requested name when unknown.
	Template string   `json:"template"`
	Args     []string `json:"args"`
	Outcome  string   `json:"outcome"`

	// Result holds the transformed payload, if any.
	Result *string `json:"result,omitempty"`

	// Fault holds the contained fault message, if any.
	Fault string `json:"fault,omitempty"`

	// Seq is 0 for unknown templates, which are never sequenced.
	Seq int64 `json:"seq"`
}

// Result is the outcome of a scenario execution.
type Result struct {
	// Pass indicates overall test success.
	// True if every step expectation and assertion matched.
	Pass bool `json:"pass"`

	// Trace contains one event per step, in order.
	Trace []TraceEvent `json:"trace"`

	// Errors contains validation error messages.
	// Empty if Pass is true.
	Errors []string `json:"errors,omitempty"`

	// Final page state.
	HTML    string              `json:"html"`
	Cookies []string            `json:"cookies"`
	Console []host.ConsoleEntry `json:"console"`
}

// NewResult creates a new passing result.
func NewResult() *Result {
	return &Result{
		Pass:    true,
		Trace:   []TraceEvent{},
		Errors:  []string{},
		Cookies: []string{},
		Console: []host.ConsoleEntry{},
	}
}

// AddError adds a validation error and marks the result as failed.
func (r *Result) AddError(err string) {
	r.Errors = append(r.Errors, err)
	r.Pass = false
}

// AddTrace appends a step event.
func (r *Result) AddTrace(ev TraceEvent) {
	r.Trace = append(r.Trace, ev)
}
