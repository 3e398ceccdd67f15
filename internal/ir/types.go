package ir

import "fmt"

// Kind distinguishes parameterized templates from plain resources.
type Kind string

const (
	// KindTemplate is a scriptlet that binds positional arguments.
	KindTemplate Kind = "template"

	// KindResource is a replacement resource served as-is (e.g. noop.js).
	KindResource Kind = "application/javascript"
)

// ArityClass is the binding rule family of a template.
type ArityClass string

const (
	// ArityFixed templates have exactly N meaningful positions.
	ArityFixed ArityClass = "fixed"

	// ArityVariadic templates have N-1 fixed positions followed by an
	// open-ended trailing list starting at position N.
	ArityVariadic ArityClass = "variadic"
)

// Arity declares how many positions a template consumes.
//
// For ArityFixed, N is the number of positions.
// For ArityVariadic, N is the first trailing position (variadic-from-N).
type Arity struct {
	Class ArityClass `json:"class"`
	N     int        `json:"n"`
}

// Fixed returns a fixed-N arity.
func Fixed(n int) Arity {
	return Arity{Class: ArityFixed, N: n}
}

// VariadicFrom returns a variadic-from-N arity.
func VariadicFrom(n int) Arity {
	return Arity{Class: ArityVariadic, N: n}
}

// FixedPositions returns the number of positions bound one-to-one with
// declared parameters.
func (a Arity) FixedPositions() int {
	if a.Class == ArityVariadic {
		return a.N - 1
	}
	return a.N
}

// String renders the arity as "fixed-N" or "variadic-from-N".
func (a Arity) String() string {
	if a.Class == ArityVariadic {
		return fmt.Sprintf("variadic-from-%d", a.N)
	}
	return fmt.Sprintf("fixed-%d", a.N)
}

// Param declares one fixed position of a template.
type Param struct {
	Index    int    `json:"index"` // 1-based position
	Name     string `json:"name"`
	Default  string `json:"default,omitempty"`
	Required bool   `json:"required,omitempty"` // No usable default: absent means no-op
	Doc      string `json:"doc,omitempty"`
}

// Template is a named, parameterized behavior unit.
type Template struct {
	Name    string   `json:"name"`
	Aliases []string `json:"aliases,omitempty"`
	Kind    Kind     `json:"kind"`
	Purpose string   `json:"purpose,omitempty"`
	Arity   Arity    `json:"arity"`
	Params  []Param  `json:"params,omitempty"`

	// Body is optional template source text with {{k}} placeholders.
	Body string `json:"body,omitempty"`
}

// Param returns the declared parameter for position k.
func (t *Template) Param(k int) (Param, bool) {
	for _, p := range t.Params {
		if p.Index == k {
			return p, true
		}
	}
	return Param{}, false
}

// Invocation is a single request to run a template.
// Created per injection event, consumed once, never persisted by the core.
type Invocation struct {
	ID       string   `json:"id"`
	Template string   `json:"template"` // Canonical name after resolution
	Args     []string `json:"args"`
	Seq      int64    `json:"seq"`
}
