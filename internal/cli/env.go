package cli

import (
	"context"
	"errors"
	"io"
	"log/slog"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/scriptlet/internal/catalog"
	"github.com/roach88/scriptlet/internal/engine"
	"github.com/roach88/scriptlet/internal/scriptlet"
	"github.com/roach88/scriptlet/internal/store"
)

// newLogger builds the CLI logger: text on w, Debug when verbose.
func newLogger(opts *RootOptions, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opts.Verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadCatalog returns the built-in catalog, with the --catalog directory
// merged over it when one is set.
func loadCatalog(opts *RootOptions) (*catalog.Catalog, error) {
	cat, err := catalog.Builtin()
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to load built-in catalog", err)
	}
	if opts.Catalog == "" {
		return cat, nil
	}

	result, errs := catalog.LoadDir(opts.Catalog, catalog.LoadModeFailFast)
	if len(errs) > 0 {
		var loadErr *catalog.LoadError
		if errors.As(errs[0], &loadErr) {
			return nil, NewExitError(ExitCommandError, loadErr.Error())
		}
		return nil, WrapExitError(ExitCommandError, "failed to load catalog", errs[0])
	}
	if err := cat.Merge(result.Catalog); err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to merge catalog", err)
	}
	return cat, nil
}

// session is an engine plus what must be released after it.
type session struct {
	engine   *engine.Engine
	catalog  *catalog.Catalog
	registry *prometheus.Registry
	logger   *slog.Logger
	closers  []func() error
}

// newSession assembles an engine for one command. With --diagnostics set,
// contained faults persist to SQLite and seq continues from the highest
// recorded value.
func newSession(ctx context.Context, opts *RootOptions, logOut io.Writer) (*session, error) {
	cat, err := loadCatalog(opts)
	if err != nil {
		return nil, err
	}

	rt := &session{
		catalog:  cat,
		registry: prometheus.NewRegistry(),
		logger:   newLogger(opts, logOut),
	}
	var lastSeq int64
	engineOpts := []engine.EngineOption{
		engine.WithLogger(rt.logger),
		engine.WithMetrics(rt.registry),
	}

	if opts.Diagnostics != "" {
		st, err := store.Open(opts.Diagnostics)
		if err != nil {
			return nil, WrapExitError(ExitCommandError, "failed to open diagnostics database", err)
		}
		lastSeq, err = st.MaxSeq(ctx)
		if err != nil {
			st.Close()
			return nil, WrapExitError(ExitCommandError, "failed to read diagnostics database", err)
		}

		drops := prometheus.NewCounter(prometheus.CounterOpts{
			Name: "scriptlet_diagnostics_dropped_total",
			Help: "Diagnostics dropped because the recorder buffer was full.",
		})
		rt.registry.MustRegister(drops)

		rec := store.NewRecorder(st,
			store.WithRecorderLogger(rt.logger),
			store.WithDropCounter(drops),
		)
		rt.closers = append(rt.closers, rec.Close, st.Close)
		engineOpts = append(engineOpts, engine.WithRecorder(rec))
		rt.logger.Debug("diagnostics enabled", "path", opts.Diagnostics, "seq", lastSeq)
	}

	rt.engine = engine.New(cat, scriptlet.Builtin(), engineOpts...)
	rt.engine.Clock().Advance(lastSeq)
	return rt, nil
}

// Close flushes diagnostics and closes the database, in that order.
func (rt *session) Close() error {
	var errs []error
	for _, c := range rt.closers {
		if err := c(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
