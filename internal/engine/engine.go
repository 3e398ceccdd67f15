package engine

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/scriptlet/internal/binder"
	"github.com/roach88/scriptlet/internal/host"
	"github.com/roach88/scriptlet/internal/ir"
	"github.com/roach88/scriptlet/internal/sandbox"
	"github.com/roach88/scriptlet/internal/scriptlet"
)

// Catalog resolves a canonical name or alias to its template.
// Implemented by *catalog.Catalog.
type Catalog interface {
	Lookup(name string) (*ir.Template, error)
}

// Behaviors maps canonical template names to behaviors.
// Implemented by *scriptlet.Registry.
type Behaviors interface {
	Lookup(name string) (scriptlet.Behavior, bool)
}

// Engine runs invocations: resolve, bind, execute inside the sandbox,
// report. It is safe for concurrent use across pages.
type Engine struct {
	catalog   Catalog
	behaviors Behaviors
	clock     *Clock
	idGen     IDGenerator
	recorder  Recorder
	logger    *slog.Logger
	metrics   *metrics
}

// EngineOption allows configuration of engine parameters.
type EngineOption func(*Engine)

// WithClock sets the sequence clock. Used to continue numbering from
// persisted diagnostics and to make tests deterministic.
func WithClock(c *Clock) EngineOption {
	return func(e *Engine) {
		e.clock = c
	}
}

// WithIDGenerator sets the invocation ID generator.
// Default: UUIDv7Generator.
func WithIDGenerator(g IDGenerator) EngineOption {
	return func(e *Engine) {
		e.idGen = g
	}
}

// WithRecorder sets the diagnostics sink for contained faults.
// Default: diagnostics are discarded.
func WithRecorder(r Recorder) EngineOption {
	return func(e *Engine) {
		e.recorder = r
	}
}

// WithLogger sets the structured logger.
// Default: a logger that discards everything.
func WithLogger(l *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = l
	}
}

// WithMetrics registers the engine's counters on reg.
func WithMetrics(reg prometheus.Registerer) EngineOption {
	return func(e *Engine) {
		e.metrics.register(reg)
	}
}

// New creates an Engine over a catalog and a behavior registry.
func New(cat Catalog, behaviors Behaviors, opts ...EngineOption) *Engine {
	e := &Engine{
		catalog:   cat,
		behaviors: behaviors,
		clock:     NewClock(),
		idGen:     UUIDv7Generator{},
		recorder:  discardRecorder{},
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		metrics:   newMetrics(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Clock returns the engine's sequence clock.
func (e *Engine) Clock() *Clock {
	return e.clock
}

// Execution describes one completed invocation.
type Execution struct {
	Invocation ir.Invocation
	Bound      ir.Bound
	Result     ir.Result
	Outcome    string
	Fault      *sandbox.ContainedFault
}

// Resolve maps name to its template, or fails with an UNKNOWN_TEMPLATE
// RuntimeError.
func (e *Engine) Resolve(name string) (*ir.Template, error) {
	t, err := e.catalog.Lookup(name)
	if err != nil {
		return nil, NewUnknownTemplateError(name, err)
	}
	return t, nil
}

// Invoke runs the named template against page with the given positional
// arguments. The only error it returns is an UNKNOWN_TEMPLATE
// RuntimeError; everything that goes wrong inside the behavior is
// contained and yields ir.NoResult.
func (e *Engine) Invoke(ctx context.Context, page *host.Page, name string, args []string) (ir.Result, error) {
	exec, err := e.Execute(ctx, page, name, args)
	if err != nil {
		return ir.NoResult, err
	}
	return exec.Result, nil
}

// Execute is Invoke with the full execution record.
func (e *Engine) Execute(ctx context.Context, page *host.Page, name string, args []string) (*Execution, error) {
	tmpl, err := e.Resolve(name)
	if err != nil {
		e.metrics.invocations.WithLabelValues("", OutcomeUnknown).Inc()
		e.logger.DebugContext(ctx, "unknown template",
			"template", name,
			"outcome", OutcomeUnknown)
		return nil, err
	}

	inv := ir.Invocation{
		ID:       e.idGen.Generate(),
		Template: tmpl.Name,
		Args:     append([]string(nil), args...),
		Seq:      e.clock.Next(),
	}
	exec := &Execution{
		Invocation: inv,
		Bound:      binder.Bind(tmpl, args),
		Result:     ir.NoResult,
	}

	start := time.Now()
	switch fn := e.behaviorFor(tmpl); {
	case !exec.Bound.Satisfied():
		exec.Outcome = OutcomeNoop
	case fn == nil:
		exec.Outcome = OutcomeNoop
	default:
		res, fault := sandbox.Run(tmpl.Name, func() (ir.Result, error) {
			return fn(page, exec.Bound)
		})
		exec.Result = res
		exec.Fault = fault
		exec.Outcome = OutcomeOK
		if fault != nil {
			exec.Outcome = OutcomeFault
		}
	}
	e.metrics.duration.WithLabelValues(tmpl.Name).Observe(time.Since(start).Seconds())
	e.metrics.invocations.WithLabelValues(tmpl.Name, exec.Outcome).Inc()

	if exec.Fault != nil {
		e.report(ctx, inv, exec.Fault)
	}

	e.logger.DebugContext(ctx, "invocation",
		"template", inv.Template,
		"invocation_id", inv.ID,
		"seq", inv.Seq,
		"outcome", exec.Outcome)
	return exec, nil
}

// behaviorFor returns the behavior for tmpl. Resources without a
// registered behavior have nothing to execute; templates without one
// fault inside the sandbox.
func (e *Engine) behaviorFor(tmpl *ir.Template) scriptlet.Behavior {
	if fn, ok := e.behaviors.Lookup(tmpl.Name); ok {
		return fn
	}
	if tmpl.Kind == ir.KindResource {
		return nil
	}
	return func(*host.Page, ir.Bound) (ir.Result, error) {
		return ir.NoResult, fmt.Errorf("no behavior registered for %q", tmpl.Name)
	}
}

// report hands a contained fault to the recorder and logs it.
func (e *Engine) report(ctx context.Context, inv ir.Invocation, fault *sandbox.ContainedFault) {
	argsHash, err := ir.ArgsHash(inv.Template, inv.Args)
	if err != nil {
		argsHash = ""
	}
	e.metrics.faults.WithLabelValues(inv.Template).Inc()
	e.recorder.Record(ir.Diagnostic{
		InvocationID: inv.ID,
		Template:     inv.Template,
		ArgsHash:     argsHash,
		Seq:          inv.Seq,
		Message:      fault.Cause.Error(),
		Recovered:    fault.Recovered,
	})
	e.logger.WarnContext(ctx, "contained fault",
		"template", inv.Template,
		"invocation_id", inv.ID,
		"seq", inv.Seq,
		"err", fault.Cause)
}
