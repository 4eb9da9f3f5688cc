package runner

import (
	"context"

	"github.com/aretw0/abacus/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (console) and JSON (structured) modes.
type IOHandler interface {
	// Output presents the session after a line was applied.
	Output(ctx context.Context, state *domain.State) error

	// Input reads the next line. It returns io.EOF when the source is exhausted
	// and ctx.Err() when ctx is done first.
	Input(ctx context.Context) (string, error)

	// SystemOutput presents a meta-message (help, rejected input, goodbye).
	SystemOutput(ctx context.Context, msg string) error
}
