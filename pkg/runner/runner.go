package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/domain"
)

// Calculator is the part of abacus.Calculator the loop drives.
type Calculator interface {
	Start(ctx context.Context, sessionID string) (*domain.State, error)
	PressKeys(ctx context.Context, sessionID, line string) (*domain.State, error)
}

const helpText = `Type keys as on the keypad, e.g. "sin(30)=", "7×6=", "2 x!", "RAD/DEG".
AC clears, DEL deletes, ANS recalls the last result.
Commands: help, exit, quit.`

// Runner handles the read-press-print loop using provided IO.
type Runner struct {
	Calculator Calculator
	SessionID  string

	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	// If nil, a no-op logger is used.
	Logger *slog.Logger

	Sanitizer Sanitizer
}

// NewRunner creates a Runner for calc.
func NewRunner(calc Calculator, opts ...Option) *Runner {
	r := &Runner{
		Calculator: calc,
		SessionID:  DefaultSessionID,
		Logger:     logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	if r.Handler == nil {
		r.Handler = NewTextHandler(os.Stdin, os.Stdout)
	}
	return r
}

// Run loops until the input ends, the user quits or ctx is done.
// Rejected lines are reported and the loop carries on.
func (r *Runner) Run(ctx context.Context) error {
	state, err := r.Calculator.Start(ctx, r.SessionID)
	if err != nil {
		return fmt.Errorf("failed to start session: %w", err)
	}
	if err := r.Handler.Output(ctx, state); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	for {
		line, err := r.Handler.Input(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) || errors.Is(err, context.Canceled) {
				return nil
			}
			return fmt.Errorf("input error: %w", err)
		}

		switch strings.ToLower(strings.TrimSpace(line)) {
		case "":
			continue
		case "exit", "quit":
			return r.Handler.SystemOutput(ctx, "Bye!")
		case "help", "?":
			if err := r.Handler.SystemOutput(ctx, helpText); err != nil {
				return err
			}
			continue
		}

		clean, err := r.Sanitizer.Clean(line)
		if err != nil {
			r.Logger.Warn("Input rejected", "err", err, "size", len(line))
			if err := r.Handler.SystemOutput(ctx, err.Error()); err != nil {
				return err
			}
			continue
		}

		next, err := r.Calculator.PressKeys(ctx, r.SessionID, clean)
		if err != nil {
			if !errors.Is(err, domain.ErrUnknownKey) {
				return err
			}
			r.Logger.Debug("Unknown key", "session_id", r.SessionID, "err", err)
			if err := r.Handler.SystemOutput(ctx, err.Error()); err != nil {
				return err
			}
			continue
		}
		state = next
		if err := r.Handler.Output(ctx, state); err != nil {
			return fmt.Errorf("output error: %w", err)
		}
	}
}
