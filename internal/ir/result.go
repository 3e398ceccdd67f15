package ir

// Result is the observable outcome of one invocation.
//
// Most behaviors mutate the host environment and return NoResult.
// Payload transforms (json-prune.js) return Transformed text, which the
// network layer substitutes for the original payload.
type Result struct {
	Text        string `json:"text,omitempty"`
	Transformed bool   `json:"transformed"`
}

// NoResult is the result of a side-effect-only or contained invocation.
var NoResult = Result{}

// Transformed wraps a returned payload.
func Transformed(text string) Result {
	return Result{Text: text, Transformed: true}
}

// Diagnostic is a best-effort record of a contained fault.
// Diagnostics are advisory; sinks may drop them.
type Diagnostic struct {
	InvocationID string `json:"invocation_id"`
	Template     string `json:"template"`
	ArgsHash     string `json:"args_hash"`
	Seq          int64  `json:"seq"`
	Message      string `json:"message"`
	Recovered    bool   `json:"recovered"` // true when a panic was recovered
}
