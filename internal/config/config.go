// Package config loads Abacus settings from a YAML or JSON file and ABACUS_*
// environment variables.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"
)

// Store drivers.
const (
	DriverMemory = "memory"
	DriverFile   = "file"
	DriverRedis  = "redis"
)

// DefaultPath is read when no --config flag is given.
const DefaultPath = "abacus.yaml"

// Config is the full runtime configuration.
type Config struct {
	LogLevel string      `mapstructure:"log_level" yaml:"log_level" json:"log_level"`
	Store    StoreConfig `mapstructure:"store" yaml:"store" json:"store"`
	HTTP     HTTPConfig  `mapstructure:"http" yaml:"http" json:"http"`
	Input    InputConfig `mapstructure:"input" yaml:"input" json:"input"`
}

type StoreConfig struct {
	Driver string      `mapstructure:"driver" yaml:"driver" json:"driver"`
	Dir    string      `mapstructure:"dir" yaml:"dir" json:"dir"`
	Redis  RedisConfig `mapstructure:"redis" yaml:"redis" json:"redis"`

	// EncryptionKey enables AES-256 sealing of saved sessions when set.
	// Base64 or hex encoded, 32 bytes.
	EncryptionKey string `mapstructure:"encryption_key" yaml:"encryption_key" json:"encryption_key"`
	// FallbackKeys still decrypt sessions sealed before a key rotation.
	FallbackKeys []string `mapstructure:"fallback_keys" yaml:"fallback_keys" json:"fallback_keys"`
}

type RedisConfig struct {
	Addr     string        `mapstructure:"addr" yaml:"addr" json:"addr"`
	Password string        `mapstructure:"password" yaml:"password" json:"password"`
	DB       int           `mapstructure:"db" yaml:"db" json:"db"`
	Prefix   string        `mapstructure:"prefix" yaml:"prefix" json:"prefix"`
	TTL      time.Duration `mapstructure:"ttl" yaml:"ttl" json:"ttl"`
}

type HTTPConfig struct {
	Addr    string `mapstructure:"addr" yaml:"addr" json:"addr"`
	Metrics bool   `mapstructure:"metrics" yaml:"metrics" json:"metrics"`
}

type InputConfig struct {
	MaxSize int `mapstructure:"max_size" yaml:"max_size" json:"max_size"`
}

// Default returns the configuration used when nothing is set.
func Default() Config {
	return Config{
		LogLevel: "info",
		Store: StoreConfig{
			Driver: DriverMemory,
			Dir:    filepath.Join(".abacus", "sessions"),
			Redis: RedisConfig{
				Addr:   "localhost:6379",
				Prefix: "abacus:session:",
			},
		},
		HTTP: HTTPConfig{
			Addr:    ":8080",
			Metrics: true,
		},
		Input: InputConfig{
			MaxSize: 4096,
		},
	}
}

// envKeys maps environment variables to configuration paths.
var envKeys = map[string]string{
	"ABACUS_LOG_LEVEL":      "log_level",
	"ABACUS_STORE_DRIVER":   "store.driver",
	"ABACUS_STORE_DIR":      "store.dir",
	"ABACUS_STORE_KEY":      "store.encryption_key",
	"ABACUS_STORE_OLD_KEYS": "store.fallback_keys",
	"ABACUS_REDIS_ADDR":     "store.redis.addr",
	"ABACUS_REDIS_PASSWORD": "store.redis.password",
	"ABACUS_REDIS_DB":       "store.redis.db",
	"ABACUS_REDIS_PREFIX":   "store.redis.prefix",
	"ABACUS_REDIS_TTL":      "store.redis.ttl",
	"ABACUS_HTTP_ADDR":      "http.addr",
	"ABACUS_HTTP_METRICS":   "http.metrics",
	"ABACUS_MAX_INPUT_SIZE": "input.max_size",
}

// Load reads path (YAML unless it ends in .json), applies environment
// overrides and validates the result. A missing file yields the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	raw, err := readFile(path)
	if err != nil {
		return cfg, err
	}
	if err := decode(raw, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode %s: %w", path, err)
	}
	if err := decode(fromEnv(os.LookupEnv), &cfg); err != nil {
		return cfg, fmt.Errorf("failed to decode environment: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate rejects unusable settings.
func (c Config) Validate() error {
	switch c.Store.Driver {
	case DriverMemory, DriverFile, DriverRedis:
	default:
		return fmt.Errorf("invalid store driver %q (want memory, file or redis)", c.Store.Driver)
	}
	if c.Input.MaxSize <= 0 {
		return fmt.Errorf("input.max_size must be positive, got %d", c.Input.MaxSize)
	}
	return nil
}

func readFile(path string) (map[string]any, error) {
	raw := map[string]any{}
	if path == "" {
		return raw, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return raw, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if strings.ToLower(filepath.Ext(path)) == ".json" {
		if err := json.Unmarshal(data, &raw); err != nil {
			return nil, fmt.Errorf("failed to parse %s: %w", path, err)
		}
		return raw, nil
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", path, err)
	}
	return raw, nil
}

// fromEnv builds a nested map from the variables that are set.
func fromEnv(lookup func(string) (string, bool)) map[string]any {
	out := map[string]any{}
	for env, path := range envKeys {
		val, ok := lookup(env)
		if !ok {
			continue
		}
		parts := strings.Split(path, ".")
		m := out
		for _, p := range parts[:len(parts)-1] {
			child, ok := m[p].(map[string]any)
			if !ok {
				child = map[string]any{}
				m[p] = child
			}
			m = child
		}
		m[parts[len(parts)-1]] = val
	}
	return out
}

func decode(input map[string]any, cfg *Config) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		Result:           cfg,
		TagName:          "mapstructure",
		WeaklyTypedInput: true,
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
	})
	if err != nil {
		return err
	}
	return dec.Decode(input)
}
