package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/aretw0/abacus"
	"github.com/aretw0/abacus/internal/config"
	"github.com/aretw0/abacus/internal/logging"
	"github.com/aretw0/abacus/pkg/adapters/file"
	"github.com/aretw0/abacus/pkg/adapters/memory"
	"github.com/aretw0/abacus/pkg/adapters/redis"
	"github.com/aretw0/abacus/pkg/observability"
	"github.com/aretw0/abacus/pkg/persistence/middleware"
	"github.com/aretw0/abacus/pkg/ports"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// pingTimeout bounds the Redis reachability check at startup.
const pingTimeout = 3 * time.Second

// Overrides carries command-line flags that win over the config file.
// Empty fields leave the configuration untouched.
type Overrides struct {
	LogLevel string
	Driver   string
	Dir      string
}

// Apply copies the non-empty overrides into cfg and validates it again.
func (o Overrides) Apply(cfg *config.Config) error {
	if o.LogLevel != "" {
		cfg.LogLevel = o.LogLevel
	}
	if o.Driver != "" {
		cfg.Store.Driver = o.Driver
	}
	if o.Dir != "" {
		cfg.Store.Dir = o.Dir
	}
	return cfg.Validate()
}

// App is a fully wired calculator with its store and metrics.
type App struct {
	Config     config.Config
	Logger     *slog.Logger
	Calculator *abacus.Calculator
	Store      ports.StateStore
	Registry   *prometheus.Registry
	Metrics    *observability.Metrics

	closers []func() error
}

// NewApp builds the store, locker, logger and metrics described by cfg.
func NewApp(ctx context.Context, cfg config.Config) (*App, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	app := &App{
		Config:   cfg,
		Logger:   logging.New(level),
		Registry: prometheus.NewRegistry(),
	}
	app.Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	app.Metrics = observability.NewMetrics(app.Registry)

	store, locker, err := app.newStore(ctx)
	if err != nil {
		return nil, err
	}
	if cfg.Store.EncryptionKey != "" {
		seal, err := newEncryption(cfg.Store)
		if err != nil {
			app.Close()
			return nil, err
		}
		store = seal(store)
	}
	app.Store = store

	opts := []abacus.Option{
		abacus.WithStore(store),
		abacus.WithLogger(app.Logger),
		abacus.WithLifecycleHooks(observability.CombineHooks(
			app.Metrics.Hooks(),
			observability.LoggingHooks(app.Logger),
		)),
	}
	if locker != nil {
		opts = append(opts, abacus.WithLocker(locker))
	}
	app.Calculator = abacus.New(opts...)

	app.Logger.Debug("Calculator ready", "driver", cfg.Store.Driver)
	return app, nil
}

func (a *App) newStore(ctx context.Context) (ports.StateStore, ports.DistributedLocker, error) {
	sc := a.Config.Store
	switch sc.Driver {
	case config.DriverMemory:
		return memory.NewStore(), nil, nil
	case config.DriverFile:
		return file.New(sc.Dir), nil, nil
	case config.DriverRedis:
		store := redis.New(sc.Redis.Addr, sc.Redis.Password, sc.Redis.DB,
			redis.WithPrefix(sc.Redis.Prefix),
			redis.WithTTL(sc.Redis.TTL),
		)
		pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
		defer cancel()
		if err := store.Ping(pingCtx); err != nil {
			store.Close()
			return nil, nil, fmt.Errorf("failed to reach redis at %s: %w", sc.Redis.Addr, err)
		}
		a.closers = append(a.closers, store.Close)
		return store, redis.NewLocker(store.Client(), sc.Redis.Prefix), nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", sc.Driver)
}

func newEncryption(sc config.StoreConfig) (middleware.Middleware, error) {
	active, err := middleware.ParseKey(sc.EncryptionKey)
	if err != nil {
		return nil, fmt.Errorf("invalid store.encryption_key: %w", err)
	}
	ec := middleware.EncryptionConfig{ActiveKey: active}
	for i, raw := range sc.FallbackKeys {
		k, err := middleware.ParseKey(raw)
		if err != nil {
			return nil, fmt.Errorf("invalid store.fallback_keys[%d]: %w", i, err)
		}
		ec.FallbackKeys = append(ec.FallbackKeys, k)
	}
	return middleware.NewEncryptionMiddleware(ec)
}

// Close releases backend connections.
func (a *App) Close() error {
	var errs []error
	for _, c := range a.closers {
		errs = append(errs, c())
	}
	return errors.Join(errs...)
}
