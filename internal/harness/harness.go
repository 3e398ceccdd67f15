package harness

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/url"

	"github.com/roach88/scriptlet/internal/catalog"
	"github.com/roach88/scriptlet/internal/engine"
	"github.com/roach88/scriptlet/internal/host"
	"github.com/roach88/scriptlet/internal/scriptlet"
	"github.com/roach88/scriptlet/internal/testutil"
)

// Harness is the scenario execution environment: one page, one engine,
// deterministic IDs and seq.
type Harness struct {
	engine  *engine.Engine
	page    *host.Page
	console *host.MemoryConsole
	diags   *testutil.DiagnosticLog
}

// Option configures Run.
type Option func(*config)

type config struct {
	catalog   engine.Catalog
	behaviors engine.Behaviors
	logger    *slog.Logger
}

// WithCatalog runs scenarios against c instead of the built-in catalog.
func WithCatalog(c engine.Catalog) Option {
	return func(cfg *config) {
		cfg.catalog = c
	}
}

// WithBehaviors runs scenarios with b instead of the built-in behaviors.
func WithBehaviors(b engine.Behaviors) Option {
	return func(cfg *config) {
		cfg.behaviors = b
	}
}

// WithLogger sets the engine logger. Default: discard.
func WithLogger(l *slog.Logger) Option {
	return func(cfg *config) {
		cfg.logger = l
	}
}

// Run executes a scenario and returns the result.
//
// Execution flow:
// 1. Build the page (HTML, URL, bootstrap script)
// 2. Invoke each step through a fresh engine
// 3. Check step expectations
// 4. Evaluate assertions against the final page
//
// An error is returned only when the scenario cannot run at all; failed
// expectations and assertions are reported in Result.Errors.
func Run(scenario *Scenario, opts ...Option) (*Result, error) {
	cfg := config{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.catalog == nil {
		c, err := catalog.Builtin()
		if err != nil {
			return nil, fmt.Errorf("failed to load built-in catalog: %w", err)
		}
		cfg.catalog = c
	}
	if cfg.behaviors == nil {
		cfg.behaviors = scriptlet.Builtin()
	}

	h, err := newHarness(scenario.Page, cfg)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	result := NewResult()
	for i, step := range scenario.Steps {
		if err := h.executeStep(ctx, i+1, step, result); err != nil {
			return nil, fmt.Errorf("step %d (%s): %w", i+1, step.Invoke, err)
		}
	}

	if err := h.snapshotPage(result); err != nil {
		return nil, err
	}

	actx := &AssertionContext{Page: h.page, Result: result}
	for _, errMsg := range EvaluateAssertions(scenario.Assertions, actx) {
		result.AddError(errMsg)
	}
	return result, nil
}

func newHarness(spec PageSpec, cfg config) (*Harness, error) {
	console := host.NewMemoryConsole()
	pageOpts := []host.PageOption{host.WithConsole(console)}
	if spec.URL != "" {
		u, err := url.Parse(spec.URL)
		if err != nil {
			return nil, fmt.Errorf("invalid page url %q: %w", spec.URL, err)
		}
		pageOpts = append(pageOpts, host.WithURL(u))
	}
	if spec.Script != "" {
		pageOpts = append(pageOpts, host.WithScript(spec.Script))
	}

	page, err := host.NewPage(spec.HTML, pageOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to build page: %w", err)
	}

	diags := testutil.NewDiagnosticLog()
	eng := engine.New(cfg.catalog, cfg.behaviors,
		engine.WithIDGenerator(engine.NewSequentialGenerator("inv")),
		engine.WithRecorder(diags),
		engine.WithLogger(cfg.logger),
	)

	return &Harness{
		engine:  eng,
		page:    page,
		console: console,
		diags:   diags,
	}, nil
}

// executeStep invokes one step and appends its trace event. Unknown
// templates are traced, not fatal.
func (h *Harness) executeStep(ctx context.Context, index int, step Step, result *Result) error {
	ev := TraceEvent{
		Step:     index,
		Template: step.Invoke,
		Args:     append([]string{}, step.Args...),
	}

	exec, err := h.engine.Execute(ctx, h.page, step.Invoke, step.Args)
	switch {
	case engine.IsUnknownTemplate(err):
		ev.Outcome = engine.OutcomeUnknown
	case err != nil:
		return err
	default:
		ev.Template = exec.Invocation.Template
		ev.Outcome = exec.Outcome
		ev.Seq = exec.Invocation.Seq
		if exec.Result.Transformed {
			text := exec.Result.Text
			ev.Result = &text
		}
		if d, ok := h.diags.ForInvocation(exec.Invocation.ID); ok {
			ev.Fault = d.Message
		}
	}
	result.AddTrace(ev)

	if step.Expect != nil {
		checkExpect(index, step, ev, result)
	}
	return nil
}

func checkExpect(index int, step Step, ev TraceEvent, result *Result) {
	if want := step.Expect.Outcome; want != "" && want != ev.Outcome {
		result.AddError(fmt.Sprintf("step %d (%s): expected outcome %s, got %s",
			index, step.Invoke, want, ev.Outcome))
	}
	if want := step.Expect.Result; want != nil {
		switch {
		case ev.Result == nil:
			result.AddError(fmt.Sprintf("step %d (%s): expected result %q, got no result",
				index, step.Invoke, *want))
		case *ev.Result != *want:
			result.AddError(fmt.Sprintf("step %d (%s): expected result %q, got %q",
				index, step.Invoke, *want, *ev.Result))
		}
	}
}

// snapshotPage copies the final page state into result.
func (h *Harness) snapshotPage(result *Result) error {
	html, err := h.page.HTML()
	if err != nil {
		return fmt.Errorf("failed to render page: %w", err)
	}
	result.HTML = html
	result.Cookies = h.page.CookieAssignments()
	result.Console = h.console.Entries()
	return nil
}
