// Package runtime implements the calculator's key-press state machine.
package runtime

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/aretw0/abacus/internal/format"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
)

// incompleteSuffixes suppress the live preview when they end the equation.
const incompleteSuffixes = "+-×÷*/^(.Eeπ"

// Engine applies key presses to session states. It holds no session data and
// is safe for concurrent use.
type Engine struct {
	logger *slog.Logger
	hooks  domain.LifecycleHooks
	now    func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLogger sets the logger used for key and evaluation diagnostics.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithClock overrides the time source used to stamp states.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates an engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: logging.NewNop(),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Press applies one key to a copy of state and returns the copy.
// Unknown labels return domain.ErrUnknownKey and no state.
func (e *Engine) Press(ctx context.Context, state *domain.State, label string) (*domain.State, error) {
	key, ok := domain.LookupKey(label)
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownKey, label)
	}

	next := state.Clone()
	before := next.Status

	// Any key but AC and DEL starts over after an error.
	if next.ErrorFlag() && key.Kind != domain.KeyClear && key.Kind != domain.KeyDelete {
		next.Reset()
	}
	wasError := next.ErrorFlag()

	switch key.Kind {
	case domain.KeyClear:
		next.Reset()
	case domain.KeyDelete:
		if next.Equation != "" {
			_, size := utf8.DecodeLastRuneInString(next.Equation)
			next.Equation = next.Equation[:len(next.Equation)-size]
		}
		e.recompute(ctx, next)
	case domain.KeyEquals:
		e.finalize(ctx, next)
	case domain.KeyToggleAngle:
		next.AngleMode = next.AngleMode.Toggle()
		e.recompute(ctx, next)
	case domain.KeyAnswer:
		next.Equation += next.LastResult
		e.recompute(ctx, next)
	case domain.KeyFactorial:
		e.replaceWith(ctx, next, factorial)
	case domain.KeyReciprocal:
		e.replaceWith(ctx, next, reciprocal)
	default:
		next.Equation += key.Text
		e.recompute(ctx, next)
	}
	next.UpdatedAt = e.now()

	e.logger.Debug("Key pressed",
		"session_id", next.SessionID,
		"key", key.Label,
		"equation", next.Equation,
		"result", next.Result,
	)

	event := &domain.KeyEvent{
		Timestamp: next.UpdatedAt,
		SessionID: next.SessionID,
		Label:     key.Label,
		Kind:      key.Kind,
		Before:    before,
		After:     next.Status,
		Result:    next.Result,
	}
	if e.hooks.OnKey != nil {
		e.hooks.OnKey(ctx, event)
	}
	if next.ErrorFlag() && !wasError {
		e.logger.Warn("Session entered error state",
			"session_id", next.SessionID,
			"key", key.Label,
			"message", next.Message,
		)
		if e.hooks.OnError != nil {
			e.hooks.OnError(ctx, event)
		}
	}
	return next, nil
}

// recompute refreshes the live preview. Failures blank the preview without
// changing the status.
func (e *Engine) recompute(ctx context.Context, s *domain.State) {
	if s.Equation == "" {
		s.Result = domain.InitialResult
		return
	}
	if last, _ := utf8.DecodeLastRuneInString(s.Equation); strings.ContainsRune(incompleteSuffixes, last) {
		s.Result = ""
		return
	}

	_, v, err := e.run(ctx, s, false)
	if err != nil {
		s.Result = ""
		return
	}
	s.Result = format.Format(v)
	if isFinite(v) {
		s.LastResult = s.Result
	}
	s.Recover()
}

// finalize handles "=".
func (e *Engine) finalize(ctx context.Context, s *domain.State) {
	if s.Equation == "" {
		return
	}
	_, v, err := e.run(ctx, s, true)
	if err != nil {
		s.Fail(domain.MsgError)
		return
	}
	if !isFinite(v) {
		s.Fail(format.Format(v))
		return
	}
	e.commit(s, v)
}

// replaceWith evaluates the equation, applies a unary key and replaces the
// equation with the outcome.
func (e *Engine) replaceWith(ctx context.Context, s *domain.State, op func(float64) (float64, error)) {
	if s.Equation == "" {
		return
	}
	_, v, err := e.run(ctx, s, true)
	if err != nil {
		s.Fail(domain.MsgError)
		return
	}
	// NaN goes through op so its precondition decides the message.
	r, err := op(v)
	if err != nil {
		var de *domain.DomainError
		if errors.As(err, &de) {
			s.Fail(de.Message)
			return
		}
		s.Fail(domain.MsgError)
		return
	}
	if !isFinite(r) {
		s.Fail(format.Format(r))
		return
	}
	e.commit(s, r)
}

func (e *Engine) commit(s *domain.State, v float64) {
	text := format.Format(v)
	s.Equation = text
	s.Result = text
	s.LastResult = text
	s.Recover()
}

func isFinite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}
