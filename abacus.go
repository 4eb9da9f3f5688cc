package abacus

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/internal/runtime"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/domain"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/aretw0/abacus/pkg/session"
)

// Evaluation is the outcome of a one-shot evaluation.
type Evaluation = runtime.Evaluation

// Calculator is the high-level entry point for the library.
// It binds the key engine to session storage and change notification.
type Calculator struct {
	engine   *runtime.Engine
	sessions *session.Manager

	store  ports.StateStore
	locker ports.DistributedLocker
	hooks  domain.LifecycleHooks
	logger *slog.Logger

	mu        sync.RWMutex
	observers map[int]ports.Observer
	nextObs   int
}

// Option defines a functional option for configuring the Calculator.
type Option func(*Calculator)

// WithStore sets where sessions are persisted (default: in memory).
func WithStore(store ports.StateStore) Option {
	return func(c *Calculator) {
		c.store = store
	}
}

// WithLocker enables distributed session locking across replicas.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(c *Calculator) {
		c.locker = locker
	}
}

// WithLogger sets a custom structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Calculator) {
		c.logger = logger
	}
}

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(c *Calculator) {
		c.hooks = hooks
	}
}

// WithObserver subscribes an observer for the Calculator's whole lifetime.
func WithObserver(obs ports.Observer) Option {
	return func(c *Calculator) {
		c.subscribe(obs)
	}
}

// New creates a Calculator.
func New(opts ...Option) *Calculator {
	c := &Calculator{
		logger:    logging.NewNop(),
		observers: make(map[int]ports.Observer),
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.store == nil {
		c.store = memory.NewStore()
	}

	sessionOpts := []session.Option{session.WithLogger(c.logger)}
	if c.locker != nil {
		sessionOpts = append(sessionOpts, session.WithLocker(c.locker))
	}
	c.sessions = session.NewManager(c.store, sessionOpts...)
	c.engine = runtime.NewEngine(
		runtime.WithLogger(c.logger),
		runtime.WithLifecycleHooks(c.hooks),
	)
	return c
}

// Start returns the session, creating a cleared one if it does not exist.
func (c *Calculator) Start(ctx context.Context, sessionID string) (*domain.State, error) {
	return c.sessions.LoadOrStart(ctx, sessionID)
}

// Press applies one key to the session and persists the outcome.
// Unknown keys return domain.ErrUnknownKey and leave the session untouched.
func (c *Calculator) Press(ctx context.Context, sessionID, label string) (*domain.State, error) {
	return c.apply(ctx, sessionID, []string{label})
}

// PressKeys splits free text into keys with domain.SplitKeys and presses them
// in order as one update. Nothing is applied if the text does not split.
func (c *Calculator) PressKeys(ctx context.Context, sessionID, line string) (*domain.State, error) {
	labels, err := domain.SplitKeys(line)
	if err != nil {
		return nil, err
	}
	if len(labels) == 0 {
		return c.Start(ctx, sessionID)
	}
	return c.apply(ctx, sessionID, labels)
}

func (c *Calculator) apply(ctx context.Context, sessionID string, labels []string) (*domain.State, error) {
	before, after, err := c.sessions.Update(ctx, sessionID, func(s *domain.State) (*domain.State, error) {
		for _, label := range labels {
			next, err := c.engine.Press(ctx, s, label)
			if err != nil {
				return nil, err
			}
			s = next
		}
		return s, nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to press keys: %w", err)
	}

	if diff := domain.Diff(before, after); diff != nil {
		c.notify(ctx, diff)
	}
	return after, nil
}

// State loads the session. Unknown sessions return domain.ErrSessionNotFound.
func (c *Calculator) State(ctx context.Context, sessionID string) (*domain.State, error) {
	return c.sessions.Load(ctx, sessionID)
}

// Reset clears the session, as the AC key does.
func (c *Calculator) Reset(ctx context.Context, sessionID string) (*domain.State, error) {
	return c.Press(ctx, sessionID, "AC")
}

// Delete removes the session from storage.
func (c *Calculator) Delete(ctx context.Context, sessionID string) error {
	return c.sessions.Delete(ctx, sessionID)
}

// Sessions lists the stored session IDs.
func (c *Calculator) Sessions(ctx context.Context) ([]string, error) {
	return c.sessions.List(ctx)
}

// Evaluate runs keypad text through the pipeline without touching a session.
func (c *Calculator) Evaluate(ctx context.Context, expression string, mode domain.AngleMode) (Evaluation, error) {
	return c.engine.Evaluate(ctx, expression, mode)
}

// Subscribe registers an observer and returns a function that removes it.
func (c *Calculator) Subscribe(obs ports.Observer) (cancel func()) {
	id := c.subscribe(obs)
	var once sync.Once
	return func() {
		once.Do(func() {
			c.mu.Lock()
			delete(c.observers, id)
			c.mu.Unlock()
		})
	}
}

func (c *Calculator) subscribe(obs ports.Observer) int {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.nextObs
	c.nextObs++
	c.observers[id] = obs
	return id
}

func (c *Calculator) notify(ctx context.Context, diff *domain.StateDiff) {
	c.mu.RLock()
	observers := make([]ports.Observer, 0, len(c.observers))
	for _, obs := range c.observers {
		observers = append(observers, obs)
	}
	c.mu.RUnlock()

	for _, obs := range observers {
		obs.OnChange(ctx, diff)
	}
}

// Store returns the underlying state store.
func (c *Calculator) Store() ports.StateStore {
	return c.store
}
