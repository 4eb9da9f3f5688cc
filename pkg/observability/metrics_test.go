package observability_test

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/internal/runtime"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func pressAll(t *testing.T, e *runtime.Engine, keys ...string) *domain.State {
	t.Helper()
	s := domain.NewState("m")
	for _, k := range keys {
		next, err := e.Press(context.Background(), s, k)
		require.NoError(t, err)
		s = next
	}
	return s
}

func TestMetrics_Hooks(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := observability.NewMetrics(reg)
	e := runtime.NewEngine(runtime.WithLifecycleHooks(m.Hooks()))

	pressAll(t, e, "1", "÷", "0", "=", "AC", "4", "1/x")

	assert.Equal(t, 3.0, testutil.ToFloat64(m.Keys.WithLabelValues("digit")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Keys.WithLabelValues("equals")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Keys.WithLabelValues("reciprocal")))

	// "1÷0" preview fails silently, "=" fails for real.
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("division_by_zero", "false")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("division_by_zero", "true")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Evaluations.WithLabelValues("ok", "true")))

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Errors.WithLabelValues("Error")))

	n, err := testutil.GatherAndCount(reg, "abacus_evaluation_duration_seconds")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestCombineHooks(t *testing.T) {
	var order []string
	a := domain.LifecycleHooks{OnKey: func(ctx context.Context, e *domain.KeyEvent) { order = append(order, "a") }}
	b := domain.LifecycleHooks{
		OnKey:   func(ctx context.Context, e *domain.KeyEvent) { order = append(order, "b") },
		OnError: func(ctx context.Context, e *domain.KeyEvent) { order = append(order, "b-err") },
	}

	e := runtime.NewEngine(runtime.WithLifecycleHooks(observability.CombineHooks(a, domain.LifecycleHooks{}, b)))
	pressAll(t, e, "=", "(", "=")

	assert.Equal(t, []string{"a", "b", "a", "b", "a", "b", "b-err"}, order)
}

func TestLoggingHooks(t *testing.T) {
	var buf bytes.Buffer
	logger := logging.NewWithWriter(&buf, slog.LevelInfo)
	e := runtime.NewEngine(runtime.WithLifecycleHooks(observability.LoggingHooks(logger)))

	pressAll(t, e, "0", "1/x")

	out := buf.String()
	assert.Contains(t, out, "session_error")
	assert.Contains(t, out, `message="Cannot divide by zero"`)
	assert.NotContains(t, out, "msg=key", "key events are debug only")
}
