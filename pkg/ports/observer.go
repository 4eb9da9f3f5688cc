package ports

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
)

// Observer is notified after a key press changed a session.
// Implementations must not block; slow consumers should buffer or drop.
type Observer interface {
	OnChange(ctx context.Context, diff *domain.StateDiff)
}

// ObserverFunc adapts a function to Observer.
type ObserverFunc func(ctx context.Context, diff *domain.StateDiff)

func (f ObserverFunc) OnChange(ctx context.Context, diff *domain.StateDiff) {
	f(ctx, diff)
}
