package catalog

import (
	_ "embed"
	"fmt"
	"sync"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"

	"github.com/roach88/scriptlet/internal/ir"
)

//go:embed builtin.cue
var builtinSource string

var builtinTemplates = sync.OnceValues(func() ([]*ir.Template, error) {
	ctx := cuecontext.New()
	value := ctx.CompileString(builtinSource, cue.Filename("builtin.cue"))
	if err := value.Err(); err != nil {
		return nil, formatCUEError(err)
	}
	templates, errs := compileValue(value, LoadModeFailFast)
	if len(errs) > 0 {
		return nil, errs[0]
	}
	return templates, nil
})

// Builtin returns a fresh catalog holding the embedded templates.
// Callers may Put or Merge into it without affecting other callers.
func Builtin() (*Catalog, error) {
	templates, err := builtinTemplates()
	if err != nil {
		return nil, fmt.Errorf("compiling builtin catalog: %w", err)
	}
	c := New()
	for _, t := range templates {
		if err := c.Add(t); err != nil {
			return nil, fmt.Errorf("builtin catalog: %w", err)
		}
	}
	return c, nil
}

// MustBuiltin is Builtin for program initialization and tests.
func MustBuiltin() *Catalog {
	c, err := Builtin()
	if err != nil {
		panic(err)
	}
	return c
}
