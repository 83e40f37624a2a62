package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/okian/scout/internal/adapters/http/api"
	"github.com/okian/scout/internal/adapters/http/swagger"
	"github.com/okian/scout/internal/adapters/mcp"
	"github.com/okian/scout/internal/adapters/provider"
	"github.com/okian/scout/internal/adapters/repository"
	app "github.com/okian/scout/internal/app"
	"github.com/okian/scout/internal/config"
	"github.com/okian/scout/pkg/logger"
	"github.com/okian/scout/pkg/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	writeTimeout              = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	systemMetricsInterval     = 10 * time.Second
	serviceMetricsInterval    = 5 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Disable default Go metrics collection to avoid duplicate metrics
	// We collect our own custom system metrics instead
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	// Initialize logging
	if err := logger.Init(); err != nil {
		// Use stderr for initialization errors since logger isn't available yet
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() {
		if err := logger.Sync(); err != nil {
			logger.Error(err)
		}
	}()

	loggerInstance := logger.Get()

	// Root context with cancel on SIGINT/SIGTERM.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Load configuration (defaults -> optional file -> env)
	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	// Apply configured log level (fallback to info on invalid input)
	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	// Select the dataset provider from configuration.
	src, err := buildProvider(cfg)
	if err != nil {
		os.Stderr.WriteString("failed to build provider: " + err.Error() + "\n")
		return
	}

	// Open the snapshot cache when configured. A broken cache degrades to
	// uncached operation rather than blocking startup.
	var cache *repository.Cache
	if cfg.CachePath != "" {
		cache, err = repository.OpenCache(ctx, cfg.CachePath)
		if err != nil {
			loggerInstance.Warn(ctx, "snapshot cache unavailable; continuing without it",
				logger.String("cache_path", cfg.CachePath), logger.Error(err))
			cache = nil
		} else {
			defer func() {
				if err := cache.Close(); err != nil {
					loggerInstance.Warn(ctx, "closing snapshot cache", logger.Error(err))
				}
			}()
		}
	}

	// Create and start the service with configuration options
	opts := []app.Option{
		app.WithLogger(loggerInstance),
		app.WithProvider(src),
		app.WithReferenceMinMinutes(cfg.ReferenceMinMinutes),
		app.WithRefreshInterval(cfg.RefreshInterval()),
		app.WithQueueSize(cfg.RefreshQueueSize),
		app.WithFingerprintSize(cfg.FingerprintSize),
	}
	if cache != nil {
		opts = append(opts, app.WithCache(cache))
	}
	if cfg.Provider == config.ProviderCSV && cfg.WatchDataset {
		opts = append(opts, app.WithDatasetWatch(cfg.CSVPath))
	}
	svc := app.New(opts...)
	if err := svc.Start(ctx); err != nil {
		os.Stderr.WriteString("failed to start service: " + err.Error() + "\n")
		return
	}
	defer svc.Stop()

	// Start system metrics updater
	go startSystemMetricsUpdater(ctx)

	// Start service metrics updater
	go startServiceMetricsUpdater(ctx, svc)

	// HTTP mux and routes.
	mux := http.NewServeMux()

	// Register Swagger UI under /swagger
	swagger.Register(ctx, mux)

	// Register business API routes with the service dependency.
	apiServer := api.NewServer(svc, svc, cfg.MaxRankLimit)
	apiServer.Register(ctx, mux)

	// Mount the MCP tool endpoint when enabled.
	if cfg.MCPEnabled {
		mcp.NewServer(svc, cfg.MaxRankLimit).Register(ctx, mux, cfg.MCPPath)
	}

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadTimeout:       readTimeout,
		WriteTimeout:      writeTimeout,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	// Start the HTTP server
	go func() {
		loggerInstance.Info(ctx, "starting HTTP server", logger.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			os.Stderr.WriteString("HTTP server failed: " + err.Error() + "\n")
			return
		}
	}()

	// Wait for shutdown signal
	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout())
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildProvider constructs the dataset source named by the configuration.
func buildProvider(cfg *config.Config) (provider.Provider, error) {
	switch cfg.Provider {
	case config.ProviderCSV:
		return provider.NewCSV(cfg.CSVPath), nil
	case config.ProviderFPL:
		return provider.NewFPL(
			cfg.FPLBaseURL,
			provider.WithHTTPClient(&http.Client{Timeout: cfg.HTTPTimeout()}),
			provider.WithRateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst),
		), nil
	default:
		return nil, fmt.Errorf("unknown provider %q", cfg.Provider)
	}
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval) // Update every 10 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateSystemMetrics()
		}
	}
}

// startServiceMetricsUpdater starts a background goroutine that updates service metrics.
func startServiceMetricsUpdater(ctx context.Context, svc *app.Service) {
	ticker := time.NewTicker(serviceMetricsInterval) // Update every 5 seconds
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			updateServiceMetrics(svc)
		}
	}
}

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	// Update memory usage
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)

	// Update goroutine count
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	// Update GC pause time
	if m.NumGC > 0 {
		// Calculate average GC pause time
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}

// updateServiceMetrics updates service-level metrics.
func updateServiceMetrics(svc *app.Service) {
	// Get current stats from the service
	stats := svc.GetStats()

	// Mirror snapshot and queue stats into gauges so scrapes stay fresh
	// between refreshes.
	if players, ok := stats["players"].(int); ok {
		metrics.UpdateDatasetPlayers(players)
	}

	if teams, ok := stats["teams"].(int); ok {
		metrics.UpdateDatasetTeams(teams)
	}

	if leagues, ok := stats["leagues"].(int); ok {
		metrics.UpdateDatasetLeagues(leagues)
	}

	if queueLen, ok := stats["refresh_queue_len"].(int); ok {
		metrics.UpdateRefreshQueueSize(queueLen)
	}

	if queueCap, ok := stats["refresh_queue_capacity"].(int); ok {
		metrics.UpdateRefreshQueueCapacity(queueCap)
	}
}
