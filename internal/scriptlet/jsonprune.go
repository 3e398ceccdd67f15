package scriptlet

import (
	"strings"

	"github.com/dop251/goja"

	"github.com/roach88/scriptlet/internal/host"
	"github.com/roach88/scriptlet/internal/ir"
)

// jsonPrune removes the trailing paths from the payload in argument 1.
// The pruned text is the behavior's result; the caller substitutes it for
// the original payload.
func jsonPrune(_ *host.Page, b ir.Bound) (ir.Result, error) {
	if !b.Satisfied() {
		return ir.NoResult, nil
	}
	return ir.Transformed(Prune(b.Arg(1), b.Trailing)), nil
}

// Prune deletes each dot-separated path from the JSON text and returns
// the re-serialized text. Parsing and serialization use a JavaScript
// runtime so key order and number formatting match what a page would
// observe. With no paths, or when the text does not parse, the input is
// returned unchanged.
func Prune(text string, paths []string) string {
	if text == "" || len(paths) == 0 {
		return text
	}

	vm := goja.New()
	json := vm.Get("JSON").ToObject(vm)
	parse, _ := goja.AssertFunction(json.Get("parse"))
	stringify, _ := goja.AssertFunction(json.Get("stringify"))

	root, err := parse(goja.Undefined(), vm.ToValue(text))
	if err != nil {
		return text
	}

	for _, path := range paths {
		prunePath(vm, root, path)
	}

	out, err := stringify(goja.Undefined(), root)
	if err != nil || goja.IsUndefined(out) {
		return text
	}
	return out.String()
}

// prunePath walks path from root. Any intermediate that is missing, not an
// own property or not an object skips the path.
func prunePath(vm *goja.Runtime, root goja.Value, path string) {
	if path == "" {
		return
	}
	props := strings.Split(path, ".")
	current, ok := root.(*goja.Object)
	if !ok {
		return
	}
	for _, prop := range props[:len(props)-1] {
		if !hasOwn(vm, current, prop) {
			return
		}
		next, ok := current.Get(prop).(*goja.Object)
		if !ok {
			return
		}
		current = next
	}
	last := props[len(props)-1]
	if hasOwn(vm, current, last) {
		_ = current.Delete(last)
	}
}
