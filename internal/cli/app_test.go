package cli

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/abacus/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewApp_Drivers(t *testing.T) {
	mr := miniredis.RunT(t)

	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"memory", func(c *config.Config) { c.Store.Driver = config.DriverMemory }},
		{"file", func(c *config.Config) {
			c.Store.Driver = config.DriverFile
			c.Store.Dir = t.TempDir()
		}},
		{"redis", func(c *config.Config) {
			c.Store.Driver = config.DriverRedis
			c.Store.Redis.Addr = mr.Addr()
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.Default()
			tt.mutate(&cfg)

			ctx := context.Background()
			app, err := NewApp(ctx, cfg)
			require.NoError(t, err)
			defer app.Close()

			state, err := app.Calculator.PressKeys(ctx, "cli", "1+2=")
			require.NoError(t, err)
			assert.Equal(t, "3", state.Result)

			ids, err := app.Calculator.Sessions(ctx)
			require.NoError(t, err)
			assert.Contains(t, ids, "cli")
		})
	}
}

func TestNewApp_MetricsRecorded(t *testing.T) {
	ctx := context.Background()
	app, err := NewApp(ctx, config.Default())
	require.NoError(t, err)

	_, err = app.Calculator.PressKeys(ctx, "m", "2×3=")
	require.NoError(t, err)

	families, err := app.Registry.Gather()
	require.NoError(t, err)
	names := map[string]bool{}
	for _, f := range families {
		names[f.GetName()] = true
	}
	assert.True(t, names["abacus_keys_total"])
	assert.True(t, names["abacus_evaluations_total"])
	assert.True(t, names["go_goroutines"])
}

func TestNewApp_RedisUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.Store.Driver = config.DriverRedis
	cfg.Store.Redis.Addr = "127.0.0.1:1"

	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to reach redis")
}

func TestNewApp_BadLevel(t *testing.T) {
	cfg := config.Default()
	cfg.LogLevel = "loud"
	_, err := NewApp(context.Background(), cfg)
	assert.Error(t, err)
}

func TestOverrides_Apply(t *testing.T) {
	cfg := config.Default()
	err := Overrides{Driver: config.DriverFile, Dir: "/tmp/x", LogLevel: "debug"}.Apply(&cfg)
	require.NoError(t, err)
	assert.Equal(t, config.DriverFile, cfg.Store.Driver)
	assert.Equal(t, "/tmp/x", cfg.Store.Dir)
	assert.Equal(t, "debug", cfg.LogLevel)

	err = Overrides{Driver: "sqlite"}.Apply(&cfg)
	assert.Error(t, err)

	before := config.Default()
	after := before
	require.NoError(t, Overrides{}.Apply(&after))
	assert.Equal(t, before, after)
}

func TestNewApp_EncryptedFileStore(t *testing.T) {
	dir := t.TempDir()
	cfg := config.Default()
	cfg.Store.Driver = config.DriverFile
	cfg.Store.Dir = dir
	cfg.Store.EncryptionKey = strings.Repeat("ab", 32)

	ctx := context.Background()
	app, err := NewApp(ctx, cfg)
	require.NoError(t, err)

	_, err = app.Calculator.PressKeys(ctx, "secret", "7×6=")
	require.NoError(t, err)

	raw, err := os.ReadFile(filepath.Join(dir, "secret.json"))
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "7×6")
	assert.Contains(t, string(raw), "sealed")

	state, err := app.Calculator.State(ctx, "secret")
	require.NoError(t, err)
	assert.Equal(t, "42", state.Result)
}

func TestNewApp_BadEncryptionKey(t *testing.T) {
	cfg := config.Default()
	cfg.Store.EncryptionKey = "abcd"
	_, err := NewApp(context.Background(), cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "encryption_key")
}
