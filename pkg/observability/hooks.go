package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/abacus/pkg/domain"
)

// LoggingHooks logs every key at Debug and every error transition at Info.
func LoggingHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnKey: func(ctx context.Context, e *domain.KeyEvent) {
			logger.DebugContext(ctx, "key",
				"session_id", e.SessionID,
				"label", e.Label,
				"kind", e.Kind,
				"result", e.Result,
			)
		},
		OnEvaluate: func(ctx context.Context, e *domain.EvalEvent) {
			if e.Err == nil {
				return
			}
			logger.DebugContext(ctx, "evaluate",
				"session_id", e.SessionID,
				"canonical", e.Canonical,
				"final", e.Final,
				"err", e.Err,
			)
		},
		OnError: func(ctx context.Context, e *domain.KeyEvent) {
			logger.InfoContext(ctx, "session_error",
				"session_id", e.SessionID,
				"label", e.Label,
				"message", e.Result,
			)
		},
	}
}

// CombineHooks calls every non-nil hook in order.
func CombineHooks(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	var combined domain.LifecycleHooks
	for _, h := range all {
		h := h
		if h.OnKey != nil {
			prev := combined.OnKey
			combined.OnKey = func(ctx context.Context, e *domain.KeyEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnKey(ctx, e)
			}
		}
		if h.OnEvaluate != nil {
			prev := combined.OnEvaluate
			combined.OnEvaluate = func(ctx context.Context, e *domain.EvalEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnEvaluate(ctx, e)
			}
		}
		if h.OnError != nil {
			prev := combined.OnError
			combined.OnError = func(ctx context.Context, e *domain.KeyEvent) {
				if prev != nil {
					prev(ctx, e)
				}
				h.OnError(ctx, e)
			}
		}
	}
	return combined
}
