package runner

import (
	"log/slog"
)

// DefaultSessionID is used when no session is configured.
const DefaultSessionID = "default"

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithSessionID sets the session the loop drives. Existing sessions resume.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithMaxInputSize bounds each input line.
func WithMaxInputSize(n int) Option {
	return func(r *Runner) {
		r.Sanitizer = Sanitizer{MaxSize: n}
	}
}
