package scriptlet

import "github.com/dop251/goja"

// hasOwn reports whether key is an own property of o. It goes through
// Object.prototype.hasOwnProperty, so accessors on o are not invoked.
func hasOwn(vm *goja.Runtime, o *goja.Object, key string) bool {
	proto := vm.Get("Object").ToObject(vm).Get("prototype").ToObject(vm)
	fn, ok := goja.AssertFunction(proto.Get("hasOwnProperty"))
	if !ok {
		return false
	}
	res, err := fn(o, vm.ToValue(key))
	return err == nil && res.ToBoolean()
}
