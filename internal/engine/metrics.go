package engine

import (
	"errors"

	"github.com/prometheus/client_golang/prometheus"
)

// Invocation outcomes, used as the outcome label and in logs.
const (
	OutcomeOK      = "ok"      // behavior ran to completion
	OutcomeNoop    = "noop"    // binding unsatisfied; behavior skipped
	OutcomeFault   = "fault"   // contained fault
	OutcomeUnknown = "unknown" // name did not resolve
)

type metrics struct {
	invocations *prometheus.CounterVec
	faults      *prometheus.CounterVec
	duration    *prometheus.HistogramVec
}

func newMetrics() *metrics {
	return &metrics{
		invocations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scriptlet_invocations_total",
				Help: "Total number of scriptlet invocations by outcome",
			},
			[]string{"template", "outcome"},
		),
		faults: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "scriptlet_contained_faults_total",
				Help: "Total number of faults contained at the sandbox boundary",
			},
			[]string{"template"},
		),
		duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "scriptlet_invocation_duration_seconds",
				Help:    "Duration of scriptlet behavior execution",
				Buckets: prometheus.ExponentialBuckets(0.00001, 4, 10),
			},
			[]string{"template"},
		),
	}
}

// register adds the collectors to reg. Collectors already registered by
// another engine on the same registry are shared.
func (m *metrics) register(reg prometheus.Registerer) {
	m.invocations = registerOrExisting(reg, m.invocations)
	m.faults = registerOrExisting(reg, m.faults)
	m.duration = registerOrExisting(reg, m.duration)
}

func registerOrExisting[C prometheus.Collector](reg prometheus.Registerer, c C) C {
	if err := reg.Register(c); err != nil {
		var are prometheus.AlreadyRegisteredError
		if errors.As(err, &are) {
			if existing, ok := are.ExistingCollector.(C); ok {
				return existing
			}
		}
	}
	return c
}
