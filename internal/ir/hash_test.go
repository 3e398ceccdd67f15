package ir

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestArgsHashDeterministic(t *testing.T) {
	h1, err := ArgsHash("set-cookie.js", []string{"id", "42"})
	require.NoError(t, err)
	h2, err := ArgsHash("set-cookie.js", []string{"id", "42"})
	require.NoError(t, err)

	assert.Equal(t, h1, h2)
	assert.Len(t, h1, 64, "sha256 hex digest")
}

func TestArgsHashDistinguishesInputs(t *testing.T) {
	base, err := ArgsHash("set-cookie.js", []string{"id", "42"})
	require.NoError(t, err)

	otherArgs, err := ArgsHash("set-cookie.js", []string{"id", "43"})
	require.NoError(t, err)
	otherTemplate, err := ArgsHash("remove-attr.js", []string{"id", "42"})
	require.NoError(t, err)
	// Order matters: positions are meaningful.
	swapped, err := ArgsHash("set-cookie.js", []string{"42", "id"})
	require.NoError(t, err)

	assert.NotEqual(t, base, otherArgs)
	assert.NotEqual(t, base, otherTemplate)
	assert.NotEqual(t, base, swapped)
}

func TestArgsHashNilEqualsEmpty(t *testing.T) {
	h1, err := ArgsHash("noop.js", nil)
	require.NoError(t, err)
	h2, err := ArgsHash("noop.js", []string{})
	require.NoError(t, err)
	assert.Equal(t, h1, h2)
}

func TestTemplateHashChangesWithDefaults(t *testing.T) {
	tmpl := &Template{
		Name:   "remove-attr.js",
		Kind:   KindTemplate,
		Arity:  Fixed(2),
		Params: []Param{{Index: 1, Name: "attr", Required: true}, {Index: 2, Name: "selector", Default: "*"}},
	}
	h1, err := TemplateHash(tmpl)
	require.NoError(t, err)

	changed := *tmpl
	changed.Params = []Param{{Index: 1, Name: "attr", Required: true}, {Index: 2, Name: "selector", Default: "body *"}}
	h2, err := TemplateHash(&changed)
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}
