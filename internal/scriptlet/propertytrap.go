package scriptlet

import (
	"fmt"
	"strings"

	"github.com/dop251/goja"

	"github.com/roach88/scriptlet/internal/host"
	"github.com/roach88/scriptlet/internal/ir"
)

// abortOnPropertyRead replaces the property at a dot-separated path from
// the global scope with an accessor pair. Reads yield undefined, or a
// do-nothing function when the prior value was callable; writes are
// discarded.
func abortOnPropertyRead(p *host.Page, b ir.Bound) (ir.Result, error) {
	path := b.Arg(1)
	if !b.Satisfied() || path == "" {
		return ir.NoResult, nil
	}

	vm := p.Runtime()
	props := strings.Split(path, ".")
	obj := vm.GlobalObject()

	for _, prop := range props[:len(props)-1] {
		v := obj.Get(prop)
		if v == nil || goja.IsUndefined(v) {
			next := vm.NewObject()
			if err := obj.Set(prop, next); err != nil {
				return ir.NoResult, fmt.Errorf("creating %q in %q: %w", prop, path, err)
			}
			obj = next
			continue
		}
		o, ok := v.(*goja.Object)
		if !ok {
			// Scalar or null intermediate: nothing to redefine through.
			return ir.NoResult, nil
		}
		obj = o
	}

	last := props[len(props)-1]
	var callable bool
	if hasOwn(vm, obj, last) {
		_, callable = goja.AssertFunction(obj.Get(last))
	}

	neutral := goja.Undefined()
	if callable {
		neutral = vm.ToValue(func(goja.FunctionCall) goja.Value { return goja.Undefined() })
	}
	getter := vm.ToValue(func(goja.FunctionCall) goja.Value { return neutral })
	setter := vm.ToValue(func(goja.FunctionCall) goja.Value { return goja.Undefined() })

	if err := obj.DefineAccessorProperty(last, getter, setter, goja.FLAG_TRUE, goja.FLAG_FALSE); err != nil {
		return ir.NoResult, fmt.Errorf("redefining %q: %w", path, err)
	}
	return ir.NoResult, nil
}
