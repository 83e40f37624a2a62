package config

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Load builds a Config by layering defaults, optional file, and env vars.
// Order of precedence (low -> high):.
//  1. defaults (New(ctx))
//  2. file (YAML) if SCOUT_CONFIG is set
//  3. env (prefix SCOUT_)
func Load(ctx context.Context) (*Config, error) {
	// Start with defaults
	base := New(ctx)

	k := koanf.New(".")

	// Load from file if provided
	if path := os.Getenv("SCOUT_CONFIG"); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("%w: %s: %w", ErrLoadConfig, path, err)
		}
	}

	// Environment variables: SCOUT_ADDR, SCOUT_CSV_PATH, ...
	// Map env keys like SCOUT_CSV_PATH -> csv_path (flat keys)
	// Preserve underscores to match koanf tags on the struct.
	envProvider := env.Provider("SCOUT_", ".", func(s string) string {
		s = strings.ToLower(s)
		s = strings.TrimPrefix(s, "scout_")
		return s
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("%w: environment: %w", ErrLoadConfig, err)
	}

	// Unmarshal into a copy
	cfg := *base
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrLoadConfig, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate rejects configurations the service cannot run with. Errors wrap
// ErrInvalidConfig for errors.Is checks at call sites.
func (c *Config) Validate() error {
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("%w: log_level must be one of debug, info, warn, error; got %q", ErrInvalidConfig, c.LogLevel)
	}
	if c.Addr == "" {
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	}
	switch c.Provider {
	case ProviderCSV:
		if c.CSVPath == "" {
			return fmt.Errorf("%w: csv_path must not be empty for the csv provider", ErrInvalidConfig)
		}
	case ProviderFPL:
		if c.FPLBaseURL == "" {
			return fmt.Errorf("%w: fpl_base_url must not be empty for the fpl provider", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: provider must be %q or %q; got %q", ErrInvalidConfig, ProviderCSV, ProviderFPL, c.Provider)
	}
	if c.HTTPTimeoutSec <= 0 {
		return fmt.Errorf("%w: http_timeout_sec must be positive; got %d", ErrInvalidConfig, c.HTTPTimeoutSec)
	}
	if c.RateLimitRPS <= 0 {
		return fmt.Errorf("%w: rate_limit_rps must be positive; got %g", ErrInvalidConfig, c.RateLimitRPS)
	}
	if c.RateLimitBurst < 1 {
		return fmt.Errorf("%w: rate_limit_burst must be at least 1; got %d", ErrInvalidConfig, c.RateLimitBurst)
	}
	if c.RefreshIntervalSec < 0 {
		return fmt.Errorf("%w: refresh_interval_sec must not be negative; got %d", ErrInvalidConfig, c.RefreshIntervalSec)
	}
	if c.ReferenceMinMinutes < 0 {
		return fmt.Errorf("%w: reference_min_minutes must not be negative; got %d", ErrInvalidConfig, c.ReferenceMinMinutes)
	}
	if c.RefreshQueueSize < 1 {
		return fmt.Errorf("%w: refresh_queue_size must be at least 1; got %d", ErrInvalidConfig, c.RefreshQueueSize)
	}
	if c.FingerprintSize < 1 {
		return fmt.Errorf("%w: fingerprint_size must be at least 1; got %d", ErrInvalidConfig, c.FingerprintSize)
	}
	if c.MaxRankLimit < 1 {
		return fmt.Errorf("%w: max_rank_limit must be at least 1; got %d", ErrInvalidConfig, c.MaxRankLimit)
	}
	if c.MCPEnabled && !strings.HasPrefix(c.MCPPath, "/") {
		return fmt.Errorf("%w: mcp_path must start with /; got %q", ErrInvalidConfig, c.MCPPath)
	}
	if c.ShutdownTimeoutSec <= 0 {
		return fmt.Errorf("%w: shutdown_timeout_sec must be positive; got %d", ErrInvalidConfig, c.ShutdownTimeoutSec)
	}
	return nil
}
