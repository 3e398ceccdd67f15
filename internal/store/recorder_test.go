package store

import (
	"context"
	"io"
	"log/slog"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/roach88/scriptlet/internal/ir"
)

// The store closes in t.Cleanup, after the leak check runs.
var ignoreDB = goleak.IgnoreTopFunction("database/sql.(*DB).connectionOpener")

func TestRecorderPersists(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreDB)

	s := createTestStore(t)
	r := NewRecorder(s)
	for seq := int64(1); seq <= 10; seq++ {
		r.Record(createTestDiagnostic(seq, "remove-attr.js"))
	}
	require.NoError(t, r.Close())

	all, err := s.ReadDiagnostics(context.Background(), DiagnosticFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 10)
	assert.Equal(t, int64(0), r.Dropped())
}

func TestRecorderDropsWhenFull(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreDB)

	s := createTestStore(t)
	drops := prometheus.NewCounter(prometheus.CounterOpts{Name: "test_drops_total"})

	// Writer not started yet, so the buffer fills deterministically.
	r := &Recorder{
		store:  s,
		ch:     make(chan ir.Diagnostic, 2),
		done:   make(chan struct{}),
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		drops:  drops,
	}
	for seq := int64(1); seq <= 5; seq++ {
		r.Record(createTestDiagnostic(seq, "a.js"))
	}
	assert.Equal(t, int64(3), r.Dropped())
	assert.Equal(t, 3.0, testutil.ToFloat64(drops))

	go r.run()
	require.NoError(t, r.Close())

	all, err := s.ReadDiagnostics(context.Background(), DiagnosticFilter{})
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestRecorderAfterClose(t *testing.T) {
	defer goleak.VerifyNone(t, ignoreDB)

	s := createTestStore(t)
	r := NewRecorder(s, WithBufferSize(4))
	require.NoError(t, r.Close())
	require.NoError(t, r.Close())

	r.Record(createTestDiagnostic(1, "a.js"))
	assert.Equal(t, int64(1), r.Dropped())
}
