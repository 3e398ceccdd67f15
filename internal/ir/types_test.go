package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArityString(t *testing.T) {
	assert.Equal(t, "fixed-7", Fixed(7).String())
	assert.Equal(t, "variadic-from-2", VariadicFrom(2).String())
}

func TestArityFixedPositions(t *testing.T) {
	assert.Equal(t, 7, Fixed(7).FixedPositions())
	assert.Equal(t, 0, Fixed(0).FixedPositions())
	assert.Equal(t, 1, VariadicFrom(2).FixedPositions(), "json-prune binds only the payload positionally")
}

func TestTemplateParamLookup(t *testing.T) {
	tmpl := &Template{
		Params: []Param{{Index: 1, Name: "attr"}, {Index: 2, Name: "selector", Default: "*"}},
	}

	p, ok := tmpl.Param(2)
	assert.True(t, ok)
	assert.Equal(t, "*", p.Default)

	_, ok = tmpl.Param(3)
	assert.False(t, ok)
}

func TestBoundAccessors(t *testing.T) {
	tmpl := &Template{
		Arity: Fixed(2),
		Params: []Param{
			{Index: 1, Name: "attr", Required: true},
			{Index: 2, Name: "selector", Default: "*"},
		},
	}
	b := Bound{
		Template: tmpl,
		Slots:    []Slot{{Value: "", Present: false}, {Value: "*", Present: false}},
	}

	assert.Equal(t, "*", b.Arg(2))
	assert.Equal(t, "", b.Arg(0), "position 0 does not exist")
	assert.Equal(t, "", b.Arg(3), "beyond declared arity")
	assert.False(t, b.Present(1))
	assert.Equal(t, []int{1}, b.Missing())
	assert.False(t, b.Satisfied())

	b.Slots[0] = Slot{Value: "onclick", Present: true}
	assert.True(t, b.Satisfied())
	assert.Equal(t, []string{"onclick", "*"}, b.Values())
}

func TestResultConstructors(t *testing.T) {
	assert.False(t, NoResult.Transformed)
	r := Transformed(`{"a":1}`)
	assert.True(t, r.Transformed)
	assert.Equal(t, `{"a":1}`, r.Text)
}
