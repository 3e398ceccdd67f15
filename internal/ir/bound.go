package ir

// Slot is the binding of one fixed position.
type Slot struct {
	// Value is the effective value: the caller's argument when Present,
	// otherwise the parameter default (possibly empty).
	Value string `json:"value"`

	// Present reports whether the caller supplied a real value.
	Present bool `json:"present"`
}

// Bound is a template with every position resolved to a concrete value.
// It exists only between binding and execution.
type Bound struct {
	Template *Template `json:"-"`

	// Slots holds fixed positions; Slots[0] is position 1.
	Slots []Slot `json:"slots"`

	// Trailing holds accepted variadic values, starting at Arity.N.
	Trailing []string `json:"trailing,omitempty"`
}

// Arg returns the effective value of position k (1-based).
// Positions beyond the fixed slots return "".
func (b Bound) Arg(k int) string {
	if k < 1 || k > len(b.Slots) {
		return ""
	}
	return b.Slots[k-1].Value
}

// Present reports whether position k was populated by the caller.
func (b Bound) Present(k int) bool {
	if k < 1 || k > len(b.Slots) {
		return false
	}
	return b.Slots[k-1].Present
}

// Missing returns the required positions the caller left absent.
func (b Bound) Missing() []int {
	if b.Template == nil {
		return nil
	}
	var missing []int
	for _, p := range b.Template.Params {
		if p.Required && !b.Present(p.Index) {
			missing = append(missing, p.Index)
		}
	}
	return missing
}

// Satisfied reports whether every required position was populated.
// Behaviors treat an unsatisfied binding as a documented no-op.
func (b Bound) Satisfied() bool {
	return len(b.Missing()) == 0
}

// Values returns the effective fixed values followed by the trailing list.
func (b Bound) Values() []string {
	out := make([]string, 0, len(b.Slots)+len(b.Trailing))
	for _, s := range b.Slots {
		out = append(out, s.Value)
	}
	return append(out, b.Trailing...)
}
