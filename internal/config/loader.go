package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	"github.com/okian/courtside/internal/domain/sport"
)

const (
	envPrefix  = "COURTSIDE_"
	envFileVar = "COURTSIDE_CONFIG"
)

// Load builds a Config by layering, lowest precedence first:
//  1. defaults (New)
//  2. a YAML file named by COURTSIDE_CONFIG
//  3. COURTSIDE_* environment variables, including any set by a .env file
//
// Nested keys use a double underscore: COURTSIDE_RUN_THRESHOLDS__NBA=10.
func Load(ctx context.Context) (*Config, error) {
	_ = godotenv.Load() // optional

	base := New(ctx)
	k := koanf.New(".")

	if path := os.Getenv(envFileVar); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	envProvider := env.Provider(envPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(s, envPrefix)
		s = strings.ToLower(s)
		return strings.ReplaceAll(s, "__", ".")
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: env: %w", ErrLoadConfig, err)
	}

	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks values that would make the service misbehave.
func (c *Config) Validate() error {
	switch {
	case c.Addr == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case c.SegmentRunWindow < 2:
		return fmt.Errorf("%w: segment_run_window must be at least 2, got %d", ErrInvalidConfig, c.SegmentRunWindow)
	case c.TopPlayers < 0:
		return fmt.Errorf("%w: top_players must not be negative, got %d", ErrInvalidConfig, c.TopPlayers)
	case c.SegmentMaxEvents < 0:
		return fmt.Errorf("%w: segment_max_events must not be negative, got %d", ErrInvalidConfig, c.SegmentMaxEvents)
	case c.LogFormat != "" && c.LogFormat != "text" && c.LogFormat != "json":
		return fmt.Errorf("%w: log_format must be text or json, got %q", ErrInvalidConfig, c.LogFormat)
	}
	for league, n := range c.RunThresholds {
		if !sport.Known(league) {
			return fmt.Errorf("%w: run_thresholds.%s: %w", ErrInvalidConfig, league, ErrUnknownLeague)
		}
		if n <= 0 {
			return fmt.Errorf("%w: run_thresholds.%s must be positive, got %d", ErrInvalidConfig, league, n)
		}
	}
	return nil
}
