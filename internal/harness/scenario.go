package harness

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/roach88/scriptlet/internal/engine"
)

// Scenario defines a conformance test scenario: a page, a sequence of
// invocations against it, and assertions on the resulting page state.
type Scenario struct {
	// Name uniquely identifies this scenario and names its golden file.
	Name string `yaml:"name"`

	// Description explains what this scenario validates.
	Description string `yaml:"description"`

	// Page describes the document the steps run against.
	Page PageSpec `yaml:"page"`

	// Steps are invoked in order on the same page.
	Steps []Step `yaml:"steps"`

	// Assertions validate the final page state and the trace.
	Assertions []Assertion `yaml:"assertions"`
}

// PageSpec describes the host page.
type PageSpec struct {
	HTML string `yaml:"html"`

	// URL is the document URL; relative image sources resolve against it.
	URL string `yaml:"url,omitempty"`

	// Script runs on the page before any step, to set up globals.
	Script string `yaml:"script,omitempty"`
}

// Step is one invocation.
type Step struct {
	// Invoke is the template name or alias.
	Invoke string `yaml:"invoke"`

	// Args are the positional arguments, as a filter rule would supply them.
	Args []string `yaml:"args,omitempty"`

	// Expect optionally checks the step's outcome.
	Expect *ExpectClause `yaml:"expect,omitempty"`
}

// ExpectClause specifies the expected outcome of a step.
type ExpectClause struct {
	// Outcome is one of ok, noop, fault, unknown.
	Outcome string `yaml:"outcome,omitempty"`

	// Result is the expected transformed payload. Nil means not checked.
	Result *string `yaml:"result,omitempty"`
}

// Assertion validates final page state.
type Assertion struct {
	// Type specifies the assertion type:
	// - "cookie": live cookie Name has Value
	// - "attr": every Selector match has Attr equal to Value
	// - "absent": no Selector match carries Attr
	// - "style": every Selector match has a style attribute containing Contains
	// - "global": Expr evaluates to Value, or throws when Throws is set
	// - "result": step Step returned the transformed payload Value
	// - "console": some entry at Level contains Message
	Type string `yaml:"type"`

	Name     string  `yaml:"name,omitempty"`
	Value    *string `yaml:"value,omitempty"`
	Selector string  `yaml:"selector,omitempty"`
	Attr     string  `yaml:"attr,omitempty"`
	Contains string  `yaml:"contains,omitempty"`
	Expr     string  `yaml:"expr,omitempty"`
	Throws   bool    `yaml:"throws,omitempty"`
	Step     int     `yaml:"step,omitempty"`
	Level    string  `yaml:"level,omitempty"`
	Message  string  `yaml:"message,omitempty"`
}

// Assertion type constants.
const (
	AssertCookie  = "cookie"
	AssertAttr    = "attr"
	AssertAbsent  = "absent"
	AssertStyle   = "style"
	AssertGlobal  = "global"
	AssertResult  = "result"
	AssertConsole = "console"
)

var validOutcomes = []string{
	engine.OutcomeOK,
	engine.OutcomeNoop,
	engine.OutcomeFault,
	engine.OutcomeUnknown,
}

// LoadScenario reads and parses a scenario YAML file.
// Returns an error if the file doesn't exist, is malformed,
// contains unknown fields (typos), or is missing required fields.
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read scenario file: %w", err)
	}
	return ParseScenario(data)
}

// ParseScenario parses scenario YAML.
func ParseScenario(data []byte) (*Scenario, error) {
	// Strict decoding catches typos like "assertion:" vs "assertions:".
	var scenario Scenario
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&scenario); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	if err := validateScenario(&scenario); err != nil {
		return nil, fmt.Errorf("invalid scenario: %w", err)
	}
	return &scenario, nil
}

// FindScenarios returns the .yaml and .yml files under dir, sorted. A
// non-empty filter is a glob matched against the file name without its
// extension.
func FindScenarios(dir, filter string) ([]string, error) {
	var files []string
	err := filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return nil
		}
		ext := filepath.Ext(path)
		if ext != ".yaml" && ext != ".yml" {
			return nil
		}
		if filter != "" {
			name := strings.TrimSuffix(filepath.Base(path), ext)
			matched, err := filepath.Match(filter, name)
			if err != nil {
				return fmt.Errorf("invalid filter pattern: %w", err)
			}
			if !matched {
				return nil
			}
		}
		files = append(files, path)
		return nil
	})
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// validateScenario checks required fields and assertion shapes.
func validateScenario(s *Scenario) error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(s.Steps) == 0 {
		return fmt.Errorf("steps must contain at least one step")
	}

	for i, step := range s.Steps {
		if step.Invoke == "" {
			return fmt.Errorf("steps[%d]: invoke is required", i)
		}
		if step.Expect != nil && step.Expect.Outcome != "" && !isValidOutcome(step.Expect.Outcome) {
			return fmt.Errorf("steps[%d]: unknown outcome %q", i, step.Expect.Outcome)
		}
	}

	for i, a := range s.Assertions {
		if err := validateAssertion(a, i, len(s.Steps)); err != nil {
			return err
		}
	}
	return nil
}

func isValidOutcome(outcome string) bool {
	for _, o := range validOutcomes {
		if o == outcome {
			return true
		}
	}
	return false
}

// validateAssertion checks that the fields required by a.Type are set.
func validateAssertion(a Assertion, index, steps int) error {
	if a.Type == "" {
		return fmt.Errorf("assertions[%d]: type is required", index)
	}

	switch a.Type {
	case AssertCookie:
		if a.Name == "" {
			return fmt.Errorf("assertions[%d]: name is required for cookie", index)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for cookie", index)
		}
	case AssertAttr:
		if a.Selector == "" || a.Attr == "" {
			return fmt.Errorf("assertions[%d]: selector and attr are required for attr", index)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for attr", index)
		}
	case AssertAbsent:
		if a.Selector == "" || a.Attr == "" {
			return fmt.Errorf("assertions[%d]: selector and attr are required for absent", index)
		}
	case AssertStyle:
		if a.Selector == "" || a.Contains == "" {
			return fmt.Errorf("assertions[%d]: selector and contains are required for style", index)
		}
	case AssertGlobal:
		if a.Expr == "" {
			return fmt.Errorf("assertions[%d]: expr is required for global", index)
		}
		if a.Value == nil && !a.Throws {
			return fmt.Errorf("assertions[%d]: value or throws is required for global", index)
		}
	case AssertResult:
		if a.Step < 1 || a.Step > steps {
			return fmt.Errorf("assertions[%d]: step must be between 1 and %d for result", index, steps)
		}
		if a.Value == nil {
			return fmt.Errorf("assertions[%d]: value is required for result", index)
		}
	case AssertConsole:
		if a.Message == "" {
			return fmt.Errorf("assertions[%d]: message is required for console", index)
		}
	default:
		return fmt.Errorf("assertions[%d]: unknown assertion type %q", index, a.Type)
	}
	return nil
}
