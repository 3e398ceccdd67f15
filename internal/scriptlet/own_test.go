package scriptlet

import (
	"testing"

	"github.com/dop251/goja"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHasOwn(t *testing.T) {
	vm := goja.New()
	v, err := vm.RunString(`
		var o = Object.create({inherited: 1});
		o.own = 2;
		Object.defineProperty(o, "trap", {get: function() { throw new Error("read"); }});
		o;
	`)
	require.NoError(t, err)
	o := v.ToObject(vm)

	assert.True(t, hasOwn(vm, o, "own"))
	assert.True(t, hasOwn(vm, o, "trap"), "accessor is not invoked")
	assert.False(t, hasOwn(vm, o, "inherited"))
	assert.False(t, hasOwn(vm, o, "missing"))
}
