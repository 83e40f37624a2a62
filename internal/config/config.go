// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New(ctx) to build a Config with defaults, Load(ctx) to layer
//   file and environment overrides on top.
// - All future functions must accept context.Context as the first parameter.
// - External errors must be wrapped via this package's error helpers.
package config

import (
	"context"
	"time"
)

// Provider names accepted by the dataset loader.
const (
	ProviderCSV = "csv"
	ProviderFPL = "fpl"
)

// Config contains process configuration. Extend as needed.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":9080".
	Addr string `koanf:"addr"`

	// Provider selects the dataset source: csv or fpl.
	Provider string `koanf:"provider"`

	// CSVPath locates the dataset file for the csv provider.
	CSVPath string `koanf:"csv_path"`

	// WatchDataset enables filesystem watching of CSVPath; writes trigger
	// a refresh.
	WatchDataset bool `koanf:"watch_dataset"`

	// FPLBaseURL is the API root for the fpl provider.
	FPLBaseURL string `koanf:"fpl_base_url"`

	// HTTPTimeoutSec bounds one upstream request for the fpl provider.
	HTTPTimeoutSec int `koanf:"http_timeout_sec"`

	// RateLimitRPS and RateLimitBurst keep the fpl provider polite.
	RateLimitRPS   float64 `koanf:"rate_limit_rps"`
	RateLimitBurst int     `koanf:"rate_limit_burst"`

	// CachePath locates the sqlite snapshot cache. Empty disables caching.
	CachePath string `koanf:"cache_path"`

	// RefreshIntervalSec schedules background dataset refreshes.
	// 0 disables the schedule; manual and watch triggers still work.
	RefreshIntervalSec int `koanf:"refresh_interval_sec"`

	// ReferenceMinMinutes sets the minutes floor for the league-average
	// reference population.
	ReferenceMinMinutes int `koanf:"reference_min_minutes"`

	// RefreshQueueSize bounds the in-memory refresh trigger queue.
	RefreshQueueSize int `koanf:"refresh_queue_size"`

	// FingerprintSize bounds the dataset fingerprint dedupe window.
	FingerprintSize int `koanf:"fingerprint_size"`

	// MaxRankLimit caps GET /rankings?limit and GET /players?limit.
	MaxRankLimit int `koanf:"max_rank_limit"`

	// MCPEnabled mounts the MCP tool endpoint at MCPPath.
	MCPEnabled bool   `koanf:"mcp_enabled"`
	MCPPath    string `koanf:"mcp_path"`

	// ShutdownTimeoutSec bounds graceful HTTP shutdown.
	ShutdownTimeoutSec int `koanf:"shutdown_timeout_sec"`
}

// New creates a Config with defaults. Context is accepted first to satisfy
// the project-wide convention; it is reserved for future use and currently
// unused.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:            "info",
		Addr:                ":9080",
		Provider:            ProviderCSV,
		CSVPath:             "players.csv",
		WatchDataset:        true,
		FPLBaseURL:          "https://fantasy.premierleague.com/api",
		HTTPTimeoutSec:      30,
		RateLimitRPS:        2,
		RateLimitBurst:      4,
		CachePath:           "scout-cache.db",
		RefreshIntervalSec:  21_600,
		ReferenceMinMinutes: 90,
		RefreshQueueSize:    16,
		FingerprintSize:     128,
		MaxRankLimit:        500,
		MCPEnabled:          true,
		MCPPath:             "/mcp",
		ShutdownTimeoutSec:  10,
	}
}

// HTTPTimeout returns HTTPTimeoutSec as a duration.
func (c *Config) HTTPTimeout() time.Duration {
	return time.Duration(c.HTTPTimeoutSec) * time.Second
}

// RefreshInterval returns RefreshIntervalSec as a duration.
func (c *Config) RefreshInterval() time.Duration {
	return time.Duration(c.RefreshIntervalSec) * time.Second
}

// ShutdownTimeout returns ShutdownTimeoutSec as a duration.
func (c *Config) ShutdownTimeout() time.Duration {
	return time.Duration(c.ShutdownTimeoutSec) * time.Second
}
