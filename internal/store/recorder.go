package store

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/roach88/scriptlet/internal/ir"
)

// DefaultBufferSize is the default number of diagnostics buffered ahead of
// the writer goroutine.
const DefaultBufferSize = 256

// Recorder persists diagnostics asynchronously. Record never blocks: when
// the buffer is full the diagnostic is dropped and counted.
//
// Thread-safety: Record and Close are safe for concurrent use.
type Recorder struct {
	store   *Store
	ch      chan ir.Diagnostic
	done    chan struct{}
	logger  *slog.Logger
	drops   prometheus.Counter
	dropped atomic.Int64
	size    int

	mu     sync.RWMutex
	closed bool
}

// RecorderOption configures a Recorder.
type RecorderOption func(*Recorder)

// WithBufferSize sets the buffer capacity.
// Default: 256 (DefaultBufferSize)
func WithBufferSize(n int) RecorderOption {
	return func(r *Recorder) {
		r.size = n
	}
}

// WithRecorderLogger sets the logger used for write failures.
func WithRecorderLogger(l *slog.Logger) RecorderOption {
	return func(r *Recorder) {
		r.logger = l
	}
}

// WithDropCounter counts dropped diagnostics on c in addition to Dropped.
func WithDropCounter(c prometheus.Counter) RecorderOption {
	return func(r *Recorder) {
		r.drops = c
	}
}

// NewRecorder starts the writer goroutine. Call Close to flush and stop it.
func NewRecorder(s *Store, opts ...RecorderOption) *Recorder {
	r := &Recorder{
		store:  s,
		done:   make(chan struct{}),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		size:   DefaultBufferSize,
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.size < 0 {
		r.size = 0
	}
	r.ch = make(chan ir.Diagnostic, r.size)

	go r.run()
	return r
}

// Record enqueues d for writing, or drops it if the buffer is full or the
// recorder is closed.
func (r *Recorder) Record(d ir.Diagnostic) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if r.closed {
		r.drop()
		return
	}
	select {
	case r.ch <- d:
	default:
		r.drop()
	}
}

func (r *Recorder) drop() {
	r.dropped.Add(1)
	if r.drops != nil {
		r.drops.Inc()
	}
}

// Dropped returns how many diagnostics were dropped.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close stops accepting diagnostics, writes what is buffered and waits
// for the writer goroutine to exit. It is idempotent.
func (r *Recorder) Close() error {
	r.mu.Lock()
	if !r.closed {
		r.closed = true
		close(r.ch)
	}
	r.mu.Unlock()

	<-r.done
	return nil
}

func (r *Recorder) run() {
	defer close(r.done)
	ctx := context.Background()
	for d := range r.ch {
		if err := r.store.WriteDiagnostic(ctx, d); err != nil {
			r.logger.Warn("diagnostic write failed",
				"template", d.Template,
				"invocation_id", d.InvocationID,
				"err", err)
		}
	}
}
