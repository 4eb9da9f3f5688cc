package domain

import (
	"context"
	"time"
)

// KeyEvent describes one processed key press.
type KeyEvent struct {
	Timestamp time.Time `json:"timestamp"`
	SessionID string    `json:"session_id"`
	Label     string    `json:"label"`
	Kind      KeyKind   `json:"kind"`
	Before    Status    `json:"status_before"`
	After     Status    `json:"status_after"`
	Result    string    `json:"result"`
}

// EvalEvent describes one run of the evaluation pipeline.
type EvalEvent struct {
	Timestamp time.Time     `json:"timestamp"`
	SessionID string        `json:"session_id"`
	Final     bool          `json:"final"`
	Canonical string        `json:"canonical"`
	Value     float64       `json:"value"`
	Err       error         `json:"-"`
	Duration  time.Duration `json:"duration"`
}

// LifecycleHooks defines callbacks for engine observability.
type LifecycleHooks struct {
	OnKey      func(context.Context, *KeyEvent)
	OnEvaluate func(context.Context, *EvalEvent)
	OnError    func(context.Context, *KeyEvent)
}
