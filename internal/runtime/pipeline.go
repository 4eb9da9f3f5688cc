package runtime

import (
	"context"
	"time"

	"github.com/aretw0/abacus/internal/expr"
	"github.com/aretw0/abacus/internal/format"
	"github.com/aretw0/abacus/internal/preprocess"
	"github.com/aretw0/abacus/pkg/domain"
)

// Evaluation is the outcome of running an expression through the pipeline.
type Evaluation struct {
	Canonical string  `json:"canonical"`
	Value     float64 `json:"-"`
	Result    string  `json:"result"`
}

// run sends the session equation through preprocess and evaluate.
func (e *Engine) run(ctx context.Context, s *domain.State, final bool) (string, float64, error) {
	canonical := preprocess.Preprocess(s.Equation, s.AngleMode)
	start := time.Now()
	v, err := expr.Evaluate(canonical)

	if err != nil {
		e.logger.Debug("Evaluation failed",
			"session_id", s.SessionID,
			"canonical", canonical,
			"final", final,
			"err", err,
		)
	}
	if e.hooks.OnEvaluate != nil {
		e.hooks.OnEvaluate(ctx, &domain.EvalEvent{
			Timestamp: start,
			SessionID: s.SessionID,
			Final:     final,
			Canonical: canonical,
			Value:     v,
			Err:       err,
			Duration:  time.Since(start),
		})
	}
	return canonical, v, err
}

// Evaluate runs raw keypad text through the pipeline without a session.
// Evaluator failures are returned as *expr.EvalError.
func (e *Engine) Evaluate(ctx context.Context, raw string, mode domain.AngleMode) (Evaluation, error) {
	s := domain.NewState("")
	s.Equation = raw
	s.AngleMode = mode

	canonical, v, err := e.run(ctx, s, true)
	out := Evaluation{Canonical: canonical}
	if err != nil {
		return out, err
	}
	out.Value = v
	out.Result = format.Format(v)
	return out, nil
}
