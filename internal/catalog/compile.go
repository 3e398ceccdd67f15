package catalog

import (
	"fmt"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/errors"
	"cuelang.org/go/cue/token"

	"github.com/roach88/scriptlet/internal/ir"
)

// CompileTemplate parses a CUE value into a Template.
//
// The value should be one entry of the scriptlet struct, e.g.:
//
//	ctx := cuecontext.New()
//	v := ctx.CompileString(src)
//	t, err := CompileTemplate(v.LookupPath(cue.ParsePath(`scriptlet."log.js"`)))
func CompileTemplate(v cue.Value) (*ir.Template, error) {
	if err := v.Err(); err != nil {
		return nil, formatCUEError(err)
	}

	t := &ir.Template{Kind: ir.KindTemplate}

	selectors := v.Path().Selectors()
	if len(selectors) > 0 {
		t.Name = selectorName(selectors[len(selectors)-1])
	}
	if t.Name == "" {
		return nil, &CompileError{Field: "name", Message: "template name is required", Pos: v.Pos()}
	}

	if kindVal := v.LookupPath(cue.ParsePath("kind")); kindVal.Exists() {
		kind, err := kindVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		switch ir.Kind(kind) {
		case ir.KindTemplate, ir.KindResource:
			t.Kind = ir.Kind(kind)
		default:
			return nil, &CompileError{
				Field:   "kind",
				Message: fmt.Sprintf("unknown kind %q (want %q or %q)", kind, ir.KindTemplate, ir.KindResource),
				Pos:     kindVal.Pos(),
			}
		}
	}

	if purposeVal := v.LookupPath(cue.ParsePath("purpose")); purposeVal.Exists() {
		purpose, err := purposeVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		t.Purpose = purpose
	}

	if bodyVal := v.LookupPath(cue.ParsePath("body")); bodyVal.Exists() {
		body, err := bodyVal.String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		t.Body = body
	}

	var err error
	t.Aliases, err = parseAliases(v)
	if err != nil {
		return nil, err
	}

	t.Arity, err = parseArity(v)
	if err != nil {
		return nil, err
	}

	t.Params, err = parseParams(v)
	if err != nil {
		return nil, err
	}

	if verrs := Validate(t); len(verrs) > 0 {
		return nil, &CompileError{
			Field:   verrs[0].Field,
			Message: fmt.Sprintf("[%s] %s", verrs[0].Code, verrs[0].Message),
			Pos:     v.Pos(),
		}
	}
	return t, nil
}

func parseAliases(v cue.Value) ([]string, error) {
	aliasesVal := v.LookupPath(cue.ParsePath("aliases"))
	if !aliasesVal.Exists() {
		return nil, nil
	}
	iter, err := aliasesVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}
	var aliases []string
	for iter.Next() {
		alias, err := iter.Value().String()
		if err != nil {
			return nil, formatCUEError(err)
		}
		aliases = append(aliases, alias)
	}
	return aliases, nil
}

// parseArity reads `arity: fixed: N` or `arity: variadic: N`.
func parseArity(v cue.Value) (ir.Arity, error) {
	arityVal := v.LookupPath(cue.ParsePath("arity"))
	if !arityVal.Exists() {
		return ir.Arity{}, &CompileError{Field: "arity", Message: "arity is required", Pos: v.Pos()}
	}

	fixedVal := arityVal.LookupPath(cue.ParsePath("fixed"))
	variadicVal := arityVal.LookupPath(cue.ParsePath("variadic"))

	switch {
	case fixedVal.Exists() && variadicVal.Exists():
		return ir.Arity{}, &CompileError{
			Field:   "arity",
			Message: "arity must declare exactly one of fixed or variadic",
			Pos:     arityVal.Pos(),
		}
	case fixedVal.Exists():
		n, err := fixedVal.Int64()
		if err != nil {
			return ir.Arity{}, formatCUEError(err)
		}
		return ir.Fixed(int(n)), nil
	case variadicVal.Exists():
		n, err := variadicVal.Int64()
		if err != nil {
			return ir.Arity{}, formatCUEError(err)
		}
		return ir.VariadicFrom(int(n)), nil
	default:
		return ir.Arity{}, &CompileError{
			Field:   "arity",
			Message: "arity must declare fixed or variadic",
			Pos:     arityVal.Pos(),
		}
	}
}

// parseParams reads the params list. List order gives the 1-based position.
func parseParams(v cue.Value) ([]ir.Param, error) {
	paramsVal := v.LookupPath(cue.ParsePath("params"))
	if !paramsVal.Exists() {
		return nil, nil
	}
	iter, err := paramsVal.List()
	if err != nil {
		return nil, formatCUEError(err)
	}

	var params []ir.Param
	for iter.Next() {
		pv := iter.Value()
		p := ir.Param{Index: len(params) + 1}

		nameVal := pv.LookupPath(cue.ParsePath("name"))
		if !nameVal.Exists() {
			return nil, &CompileError{
				Field:   "params",
				Message: fmt.Sprintf("parameter %d: name is required", p.Index),
				Pos:     pv.Pos(),
			}
		}
		if p.Name, err = nameVal.String(); err != nil {
			return nil, formatCUEError(err)
		}

		defaultVal := pv.LookupPath(cue.ParsePath("default"))
		if defaultVal.Exists() {
			if p.Default, err = defaultVal.String(); err != nil {
				return nil, formatCUEError(err)
			}
		}

		if reqVal := pv.LookupPath(cue.ParsePath("required")); reqVal.Exists() {
			if p.Required, err = reqVal.Bool(); err != nil {
				return nil, formatCUEError(err)
			}
		}
		if p.Required && defaultVal.Exists() {
			return nil, &CompileError{
				Field:   "params",
				Message: fmt.Sprintf("parameter %q: a required parameter cannot declare a default", p.Name),
				Pos:     pv.Pos(),
			}
		}

		if docVal := pv.LookupPath(cue.ParsePath("doc")); docVal.Exists() {
			if p.Doc, err = docVal.String(); err != nil {
				return nil, formatCUEError(err)
			}
		}

		params = append(params, p)
	}
	return params, nil
}

func selectorName(sel cue.Selector) string {
	if sel.LabelType() == cue.StringLabel {
		return sel.Unquoted()
	}
	return sel.String()
}

// CompileError reports an invalid template declaration.
type CompileError struct {
	Field   string
	Message string
	Pos     token.Pos
}

func (e *CompileError) Error() string {
	if e.Pos.IsValid() {
		return fmt.Sprintf("%s:%d:%d: %s: %s",
			e.Pos.Filename(), e.Pos.Line(), e.Pos.Column(),
			e.Field, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// formatCUEError extracts position info from CUE errors.
func formatCUEError(err error) error {
	if err == nil {
		return nil
	}

	errs := errors.Errors(err)
	if len(errs) == 0 {
		return err
	}

	first := errs[0]
	positions := errors.Positions(first)
	if len(positions) > 0 {
		return &CompileError{
			Field:   "cue",
			Message: first.Error(),
			Pos:     positions[0],
		}
	}
	return err
}
