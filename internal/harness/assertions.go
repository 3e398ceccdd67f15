package harness

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/roach88/scriptlet/internal/host"
)

// AssertionContext provides what assertions inspect.
type AssertionContext struct {
	Page   *host.Page
	Result *Result
}

// AssertionError is returned when an assertion fails.
// It includes detailed context to help debug the failure.
type AssertionError struct {
	Type     string       // Assertion type for categorization
	Expected string       // Human-readable expected outcome
	Actual   string       // Human-readable actual outcome
	Trace    []TraceEvent // Full trace for debugging context
}

// Error implements the error interface.
func (e *AssertionError) Error() string {
	var buf strings.Builder

	fmt.Fprintf(&buf, "Assertion failed: %s\n", e.Type)
	fmt.Fprintf(&buf, "  Expected: %s\n", e.Expected)
	fmt.Fprintf(&buf, "  Actual: %s\n", e.Actual)

	fmt.Fprintf(&buf, "\nFull trace:\n")
	for _, event := range e.Trace {
		fmt.Fprintf(&buf, "  [%d] %s %q -> %s\n", event.Step, event.Template, event.Args, event.Outcome)
	}
	return buf.String()
}

// EvaluateAssertions runs every assertion and returns the failure
// messages, in assertion order.
func EvaluateAssertions(assertions []Assertion, actx *AssertionContext) []string {
	var errs []string
	for i, a := range assertions {
		if err := evaluateAssertion(a, actx); err != nil {
			errs = append(errs, fmt.Sprintf("assertion %d: %v", i+1, err))
		}
	}
	return errs
}

func evaluateAssertion(a Assertion, actx *AssertionContext) error {
	var err error
	switch a.Type {
	case AssertCookie:
		err = assertCookie(actx.Page, a)
	case AssertAttr:
		err = assertAttr(actx.Page, a)
	case AssertAbsent:
		err = assertAbsent(actx.Page, a)
	case AssertStyle:
		err = assertStyle(actx.Page, a)
	case AssertGlobal:
		err = assertGlobal(actx.Page, a)
	case AssertResult:
		err = assertResult(actx.Result.Trace, a)
	case AssertConsole:
		err = assertConsole(actx.Result.Console, a)
	default:
		return fmt.Errorf("unknown assertion type %q", a.Type)
	}
	if ae, ok := err.(*AssertionError); ok {
		ae.Trace = actx.Result.Trace
	}
	return err
}

func assertCookie(p *host.Page, a Assertion) error {
	c, ok := p.Cookie(a.Name)
	if !ok {
		return &AssertionError{
			Type:     AssertCookie,
			Expected: fmt.Sprintf("cookie %s=%s", a.Name, *a.Value),
			Actual:   fmt.Sprintf("no cookie named %s (document.cookie = %q)", a.Name, p.CookieHeader()),
		}
	}
	if c.Value != *a.Value {
		return &AssertionError{
			Type:     AssertCookie,
			Expected: fmt.Sprintf("cookie %s=%s", a.Name, *a.Value),
			Actual:   fmt.Sprintf("cookie %s=%s", a.Name, c.Value),
		}
	}
	return nil
}

// matches selects a.Selector and requires at least one element.
func matches(p *host.Page, a Assertion) (*goquery.Selection, error) {
	sel, err := p.Select(a.Selector)
	if err != nil {
		return nil, err
	}
	if sel.Length() == 0 {
		return nil, &AssertionError{
			Type:     a.Type,
			Expected: fmt.Sprintf("elements matching %q", a.Selector),
			Actual:   "no elements matched",
		}
	}
	return sel, nil
}

func assertAttr(p *host.Page, a Assertion) error {
	sel, err := matches(p, a)
	if err != nil {
		return err
	}
	var failure error
	sel.EachWithBreak(func(i int, el *goquery.Selection) bool {
		got, ok := el.Attr(a.Attr)
		if !ok || got != *a.Value {
			actual := "attribute missing"
			if ok {
				actual = fmt.Sprintf("%s=%q", a.Attr, got)
			}
			failure = &AssertionError{
				Type:     AssertAttr,
				Expected: fmt.Sprintf("%s=%q on every %q match", a.Attr, *a.Value, a.Selector),
				Actual:   fmt.Sprintf("match %d: %s", i+1, actual),
			}
			return false
		}
		return true
	})
	return failure
}

func assertAbsent(p *host.Page, a Assertion) error {
	sel, err := p.Select(a.Selector)
	if err != nil {
		return err
	}
	var failure error
	sel.EachWithBreak(func(i int, el *goquery.Selection) bool {
		if got, ok := el.Attr(a.Attr); ok {
			failure = &AssertionError{
				Type:     AssertAbsent,
				Expected: fmt.Sprintf("no %q match carries %s", a.Selector, a.Attr),
				Actual:   fmt.Sprintf("match %d: %s=%q", i+1, a.Attr, got),
			}
			return false
		}
		return true
	})
	return failure
}

func assertStyle(p *host.Page, a Assertion) error {
	sel, err := matches(p, a)
	if err != nil {
		return err
	}
	var failure error
	sel.EachWithBreak(func(i int, el *goquery.Selection) bool {
		style, _ := el.Attr("style")
		if !strings.Contains(style, a.Contains) {
			failure = &AssertionError{
				Type:     AssertStyle,
				Expected: fmt.Sprintf("style containing %q on every %q match", a.Contains, a.Selector),
				Actual:   fmt.Sprintf("match %d: style=%q", i+1, style),
			}
			return false
		}
		return true
	})
	return failure
}

func assertGlobal(p *host.Page, a Assertion) error {
	v, err := p.Eval(a.Expr)
	if a.Throws {
		if err == nil {
			return &AssertionError{
				Type:     AssertGlobal,
				Expected: fmt.Sprintf("%s throws", a.Expr),
				Actual:   fmt.Sprintf("evaluated to %s", v.String()),
			}
		}
		return nil
	}
	if err != nil {
		return &AssertionError{
			Type:     AssertGlobal,
			Expected: fmt.Sprintf("%s == %q", a.Expr, *a.Value),
			Actual:   fmt.Sprintf("threw %v", err),
		}
	}
	if got := v.String(); got != *a.Value {
		return &AssertionError{
			Type:     AssertGlobal,
			Expected: fmt.Sprintf("%s == %q", a.Expr, *a.Value),
			Actual:   fmt.Sprintf("%q", got),
		}
	}
	return nil
}

func assertResult(trace []TraceEvent, a Assertion) error {
	if a.Step < 1 || a.Step > len(trace) {
		return fmt.Errorf("step %d not in trace", a.Step)
	}
	ev := trace[a.Step-1]
	if ev.Result == nil {
		return &AssertionError{
			Type:     AssertResult,
			Expected: fmt.Sprintf("step %d returns %q", a.Step, *a.Value),
			Actual:   "no result",
		}
	}
	if *ev.Result != *a.Value {
		return &AssertionError{
			Type:     AssertResult,
			Expected: fmt.Sprintf("step %d returns %q", a.Step, *a.Value),
			Actual:   fmt.Sprintf("%q", *ev.Result),
		}
	}
	return nil
}

func assertConsole(entries []host.ConsoleEntry, a Assertion) error {
	for _, e := range entries {
		if a.Level != "" && e.Level != a.Level {
			continue
		}
		if strings.Contains(e.Message, a.Message) {
			return nil
		}
	}
	level := a.Level
	if level == "" {
		level = "any"
	}
	return &AssertionError{
		Type:     AssertConsole,
		Expected: fmt.Sprintf("console entry at level %s containing %q", level, a.Message),
		Actual:   fmt.Sprintf("%d entries, none matching", len(entries)),
	}
}
