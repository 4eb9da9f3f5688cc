package observability

import (
	"context"
	"errors"

	"github.com/aretw0/abacus/internal/expr"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the calculator collectors.
type Metrics struct {
	Keys        *prometheus.CounterVec
	Evaluations *prometheus.CounterVec
	Errors      *prometheus.CounterVec
	Duration    *prometheus.HistogramVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Keys: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_keys_total",
				Help: "Key presses processed, by key kind.",
			},
			[]string{"kind"},
		),
		Evaluations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_evaluations_total",
				Help: "Expression evaluations, by outcome and whether they were final.",
			},
			[]string{"outcome", "final"},
		),
		Errors: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "abacus_errors_total",
				Help: "Sessions entering the error state, by displayed message.",
			},
			[]string{"reason"},
		),
		Duration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "abacus_evaluation_duration_seconds",
				Help:    "Time spent preprocessing and evaluating expressions.",
				Buckets: prometheus.ExponentialBuckets(1e-6, 4, 8),
			},
			[]string{"final"},
		),
	}
	reg.MustRegister(m.Keys, m.Evaluations, m.Errors, m.Duration)
	return m
}

// Hooks returns lifecycle hooks that feed the collectors.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnKey: func(ctx context.Context, e *domain.KeyEvent) {
			m.Keys.WithLabelValues(string(e.Kind)).Inc()
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvalEvent) {
			final := boolLabel(e.Final)
			m.Evaluations.WithLabelValues(outcome(e.Err), final).Inc()
			m.Duration.WithLabelValues(final).Observe(e.Duration.Seconds())
		},
		OnError: func(ctx context.Context, e *domain.KeyEvent) {
			m.Errors.WithLabelValues(e.Result).Inc()
		},
	}
}

func outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, expr.ErrDivisionByZero):
		return "division_by_zero"
	default:
		return "syntax"
	}
}

func boolLabel(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
