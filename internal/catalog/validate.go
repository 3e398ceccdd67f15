package catalog

import (
	"fmt"
	"strings"

	"github.com/roach88/scriptlet/internal/ir"
)

// Validation error codes (E100-E199)
const (
	// Template errors (E101-E109)
	ErrTemplateNameEmpty  = "E101" // name is required
	ErrInvalidArity       = "E102" // arity out of range
	ErrTooManyParams      = "E103" // more params than fixed positions
	ErrDuplicateParam     = "E104" // duplicate parameter name
	ErrInvalidAlias       = "E105" // empty alias or alias equal to name
	ErrResourceArguments  = "E106" // resources take no arguments
	ErrPlaceholderOutside = "E107" // body references an undeclared position
	ErrInvalidParamIndex  = "E108" // params not numbered 1..n

	// Catalog errors (E110-E119)
	ErrDuplicateName  = "E110" // two templates share a name
	ErrAliasCollision = "E111" // alias already names another template
)

// ValidationError represents a template or catalog validation error.
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
	Code    string `json:"code"`
}

// Error implements the error interface.
func (e ValidationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", e.Code, e.Field, e.Message)
}

// Validate checks a compiled template for internal consistency.
// Returns all errors found (does not fail-fast).
func Validate(t *ir.Template) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(t.Name) == "" {
		errs = append(errs, ValidationError{
			Field:   "name",
			Message: "template name is required",
			Code:    ErrTemplateNameEmpty,
		})
	}

	switch t.Arity.Class {
	case ir.ArityFixed:
		if t.Arity.N < 0 {
			errs = append(errs, ValidationError{
				Field:   "arity",
				Message: fmt.Sprintf("fixed arity must be >= 0, got %d", t.Arity.N),
				Code:    ErrInvalidArity,
			})
		}
	case ir.ArityVariadic:
		if t.Arity.N < 1 {
			errs = append(errs, ValidationError{
				Field:   "arity",
				Message: fmt.Sprintf("variadic arity must start at position >= 1, got %d", t.Arity.N),
				Code:    ErrInvalidArity,
			})
		}
	default:
		errs = append(errs, ValidationError{
			Field:   "arity",
			Message: fmt.Sprintf("unknown arity class %q", t.Arity.Class),
			Code:    ErrInvalidArity,
		})
	}

	if fixed := t.Arity.FixedPositions(); len(t.Params) > fixed && fixed >= 0 {
		errs = append(errs, ValidationError{
			Field:   "params",
			Message: fmt.Sprintf("%d params declared but %s has %d fixed positions", len(t.Params), t.Arity, fixed),
			Code:    ErrTooManyParams,
		})
	}

	seen := make(map[string]bool)
	for i, p := range t.Params {
		if p.Index != i+1 {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("params[%d]", i),
				Message: fmt.Sprintf("parameter %q has position %d, want %d", p.Name, p.Index, i+1),
				Code:    ErrInvalidParamIndex,
			})
		}
		if seen[p.Name] {
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("params[%d]", i),
				Message: fmt.Sprintf("duplicate parameter name %q", p.Name),
				Code:    ErrDuplicateParam,
			})
		}
		seen[p.Name] = true
	}

	aliases := make(map[string]bool)
	for i, a := range t.Aliases {
		switch {
		case strings.TrimSpace(a) == "":
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("aliases[%d]", i),
				Message: "alias must be non-empty",
				Code:    ErrInvalidAlias,
			})
		case a == t.Name:
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("aliases[%d]", i),
				Message: fmt.Sprintf("alias %q repeats the template name", a),
				Code:    ErrInvalidAlias,
			})
		case aliases[a]:
			errs = append(errs, ValidationError{
				Field:   fmt.Sprintf("aliases[%d]", i),
				Message: fmt.Sprintf("duplicate alias %q", a),
				Code:    ErrInvalidAlias,
			})
		}
		aliases[a] = true
	}

	if t.Kind == ir.KindResource && (t.Arity.Class != ir.ArityFixed || t.Arity.N != 0 || len(t.Params) > 0) {
		errs = append(errs, ValidationError{
			Field:   "kind",
			Message: fmt.Sprintf("%s resources take no arguments (got %s)", ir.KindResource, t.Arity),
			Code:    ErrResourceArguments,
		})
	}

	if t.Arity.Class == ir.ArityFixed {
		for _, ref := range ir.PlaceholderRefs(t.Body) {
			if ref.Index > t.Arity.N {
				errs = append(errs, ValidationError{
					Field:   "body",
					Message: fmt.Sprintf("body references {{%d}} but %s declares %d positions", ref.Index, t.Arity, t.Arity.N),
					Code:    ErrPlaceholderOutside,
				})
				break
			}
		}
	}

	return errs
}
