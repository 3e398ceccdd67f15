// Package binder turns a template and a raw argument list into a bound
// instance. Binding never fails: absent arguments fall back to the
// declared default, and a required position left absent is reported
// through ir.Bound.Satisfied so the behavior can degrade to a no-op.
package binder

import (
	"strings"

	"github.com/roach88/scriptlet/internal/ir"
)

// MaxVariadic is the most trailing values a variadic template accepts.
const MaxVariadic = 100

// IsAbsent reports whether value at fixed position k counts as "not
// supplied". The empty string and the exact placeholder {{k}} are absent.
func IsAbsent(value string, k int) bool {
	return value == "" || ir.IsPlaceholderFor(value, k)
}

// isTrailingAbsent is IsAbsent for the variadic tail, where "{{ k }}" with
// inner whitespace also ends the list.
func isTrailingAbsent(value string, k int) bool {
	return value == "" || ir.IsLoosePlaceholderFor(value, k)
}

// Bind resolves every fixed position of t against args and collects the
// variadic tail. args[0] is position 1.
func Bind(t *ir.Template, args []string) ir.Bound {
	fixed := max(t.Arity.FixedPositions(), 0)

	b := ir.Bound{
		Template: t,
		Slots:    make([]ir.Slot, fixed),
	}

	for k := 1; k <= fixed; k++ {
		var def string
		if p, ok := t.Param(k); ok {
			def = p.Default
		}
		if k <= len(args) && !IsAbsent(args[k-1], k) {
			b.Slots[k-1] = ir.Slot{Value: args[k-1], Present: true}
			continue
		}
		b.Slots[k-1] = ir.Slot{Value: def}
	}

	if t.Arity.Class == ir.ArityVariadic {
		b.Trailing = collectTrailing(args, t.Arity.N)
	}
	return b
}

// collectTrailing scans at most MaxVariadic positions starting at from and
// stops at the first absent value. Real values after a gap are not
// collected.
func collectTrailing(args []string, from int) []string {
	var out []string
	for k := from; k < from+MaxVariadic && k <= len(args); k++ {
		v := args[k-1]
		if isTrailingAbsent(v, k) {
			break
		}
		out = append(out, v)
	}
	return out
}

// Expand substitutes every {{k}} in body with the bound value of position
// k. Trailing positions of variadic templates expand to their collected
// values. Positions the binding knows nothing about are left verbatim.
func Expand(body string, b ir.Bound) string {
	refs := ir.PlaceholderRefs(body)
	if len(refs) == 0 {
		return body
	}

	var sb strings.Builder
	sb.Grow(len(body))
	last := 0
	for _, ref := range refs {
		v, ok := boundValue(b, ref.Index)
		if !ok {
			continue
		}
		sb.WriteString(body[last:ref.Start])
		sb.WriteString(v)
		last = ref.End
	}
	sb.WriteString(body[last:])
	return sb.String()
}

func boundValue(b ir.Bound, k int) (string, bool) {
	if k >= 1 && k <= len(b.Slots) {
		return b.Slots[k-1].Value, true
	}
	if b.Template != nil && b.Template.Arity.Class == ir.ArityVariadic {
		i := k - b.Template.Arity.N
		if i >= 0 && i < len(b.Trailing) {
			return b.Trailing[i], true
		}
	}
	return "", false
}
