package catalog

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/roach88/scriptlet/internal/ir"
)

var (
	headerFieldPattern = regexp.MustCompile(`^([A-Za-z]+):\s*(.*)$`)
	paramDocPattern    = regexp.MustCompile(`^\{\{([0-9]+)\}\}((?:\s*,\s*\{\{[0-9]+\}\})*)(\s*,\s*\.\.\.)?\s*:\s*(.*)$`)
	inlineParamPattern = regexp.MustCompile(`\{\{([0-9]+)\}\}\s+([A-Za-z][A-Za-z0-9_-]*)`)
	defaultsPattern    = regexp.MustCompile(`Defaults to ['"]([^'"]*)['"]`)
	arityPattern       = regexp.MustCompile(`^(fixed|variadic-from)-([0-9]+)$`)
)

// ParseResource builds a template from a JavaScript resource file whose
// leading comment block declares its metadata. The whole source becomes
// the template body.
//
// Recognized header fields: Name, Aliases, Kind, Purpose, Arity and an
// Argument(s) section of "{{k}}: description" lines. A line such as
// "{{2}}, {{3}}, ...: paths" declares a variadic tail from position 2.
func ParseResource(filename, src string) (*ir.Template, error) {
	t := &ir.Template{Kind: ir.KindTemplate, Body: src}

	var (
		explicitArity bool
		variadicFrom  int
		docs          = make(map[int]string)
		names         = make(map[int]string)
		inArgs        bool
	)

	scanner := bufio.NewScanner(strings.NewReader(src))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "//") {
			break
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "//"))

		if m := paramDocPattern.FindStringSubmatch(line); m != nil && inArgs {
			k, _ := strconv.Atoi(m[1])
			docs[k] = m[4]
			if m[3] != "" {
				variadicFrom = k
			}
			continue
		}

		m := headerFieldPattern.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		field, value := m[1], strings.TrimSpace(m[2])
		inArgs = false

		switch field {
		case "Name":
			t.Name = value
		case "Aliases":
			for _, a := range strings.Split(value, ",") {
				if a = strings.TrimSpace(a); a != "" {
					t.Aliases = append(t.Aliases, a)
				}
			}
		case "Kind":
			switch ir.Kind(value) {
			case ir.KindTemplate, ir.KindResource:
				t.Kind = ir.Kind(value)
			default:
				return nil, &CompileError{Field: "kind", Message: fmt.Sprintf("%s: unknown kind %q", filename, value)}
			}
		case "Purpose":
			t.Purpose = value
		case "Arity":
			am := arityPattern.FindStringSubmatch(value)
			if am == nil {
				return nil, &CompileError{Field: "arity", Message: fmt.Sprintf("%s: invalid arity %q", filename, value)}
			}
			n, _ := strconv.Atoi(am[2])
			if am[1] == "fixed" {
				t.Arity = ir.Fixed(n)
			} else {
				t.Arity = ir.VariadicFrom(n)
			}
			explicitArity = true
		case "Argument", "Arguments":
			inArgs = true
			for _, pm := range inlineParamPattern.FindAllStringSubmatch(value, -1) {
				k, _ := strconv.Atoi(pm[1])
				names[k] = pm[2]
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("reading %s: %w", filename, err)
	}

	if t.Name == "" {
		return nil, &CompileError{Field: "name", Message: fmt.Sprintf("%s: missing Name header", filename)}
	}

	if !explicitArity {
		t.Arity = inferArity(t, docs, names, variadicFrom)
	}

	for k := 1; k <= t.Arity.FixedPositions(); k++ {
		p := ir.Param{Index: k, Name: names[k], Doc: docs[k]}
		if p.Name == "" {
			p.Name = "arg" + strconv.Itoa(k)
		}
		if dm := defaultsPattern.FindStringSubmatch(p.Doc); dm != nil {
			p.Default = dm[1]
		} else if strings.HasPrefix(p.Doc, "(Required)") {
			p.Required = true
		}
		t.Params = append(t.Params, p)
	}

	if verrs := Validate(t); len(verrs) > 0 {
		return nil, &CompileError{
			Field:   verrs[0].Field,
			Message: fmt.Sprintf("%s: [%s] %s", filename, verrs[0].Code, verrs[0].Message),
		}
	}
	return t, nil
}

// inferArity derives the arity from the documented positions and the
// placeholders the body actually references.
func inferArity(t *ir.Template, docs, names map[int]string, variadicFrom int) ir.Arity {
	if t.Kind == ir.KindResource {
		return ir.Fixed(0)
	}
	if variadicFrom > 0 {
		return ir.VariadicFrom(variadicFrom)
	}
	highest := 0
	for k := range docs {
		highest = max(highest, k)
	}
	for k := range names {
		highest = max(highest, k)
	}
	for _, ref := range ir.PlaceholderRefs(t.Body) {
		highest = max(highest, ref.Index)
	}
	return ir.Fixed(highest)
}
