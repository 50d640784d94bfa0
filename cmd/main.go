package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/okian/boardshelf/internal/adapters/bgg"
	"github.com/okian/boardshelf/internal/adapters/http/api"
	"github.com/okian/boardshelf/internal/adapters/http/site"
	"github.com/okian/boardshelf/internal/adapters/http/swagger"
	"github.com/okian/boardshelf/internal/adapters/repository"
	app "github.com/okian/boardshelf/internal/app"
	"github.com/okian/boardshelf/internal/config"
	"github.com/okian/boardshelf/pkg/logger"
	"github.com/okian/boardshelf/pkg/metrics"
)

// HTTP server timeout constants.
const (
	readTimeout               = 10 * time.Second
	idleTimeout               = 60 * time.Second
	readHeaderTimeout         = 5 * time.Second
	writeTimeoutSlack         = 30 * time.Second
	shutdownTimeout           = 30 * time.Second
	systemMetricsInterval     = 10 * time.Second
	nanosecondsPerMillisecond = 1e6
)

func main() {
	// Default Go collectors live on the default registry; the service exposes its own.
	prometheus.Unregister(collectors.NewGoCollector())
	prometheus.Unregister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	if err := logger.Init(); err != nil {
		os.Stderr.WriteString("failed to initialize logging: " + err.Error() + "\n")
		return
	}
	defer func() { _ = logger.Sync() }()

	loggerInstance := logger.Get()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(ctx)
	if err != nil {
		os.Stderr.WriteString("failed to load config: " + err.Error() + "\n")
		return
	}

	if err := logger.SetLevelString(cfg.LogLevel); err != nil {
		loggerInstance.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", cfg.LogLevel), logger.Error(err))
		_ = logger.SetLevelString("info")
	}

	svc, err := buildService(cfg, loggerInstance)
	if err != nil {
		loggerInstance.Error(ctx, "failed to build service", logger.Error(err))
		return
	}
	defer func() {
		if err := svc.Close(); err != nil {
			loggerInstance.Warn(ctx, "cache store close failed", logger.Error(err))
		}
	}()

	go startSystemMetricsUpdater(ctx)

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           newHandler(ctx, svc),
		ReadTimeout:       readTimeout,
		WriteTimeout:      cfg.RefreshTimeout() + writeTimeoutSlack,
		IdleTimeout:       idleTimeout,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	go func() {
		loggerInstance.Info(ctx, "starting HTTP server",
			logger.String("addr", cfg.Addr),
			logger.String("cache_backend", cfg.CacheBackend),
			logger.Bool("username_configured", cfg.Username != ""))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			loggerInstance.Error(ctx, "HTTP server failed", logger.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	loggerInstance.Info(ctx, "shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		loggerInstance.Error(ctx, "server shutdown failed", logger.Error(err))
	}

	loggerInstance.Info(ctx, "server stopped")
}

// buildService wires the BGG client, the cache store and the service from cfg.
func buildService(cfg *config.Config, l logger.Logger) (*app.Service, error) {
	client := bgg.New(
		bgg.WithBaseURL(cfg.BGGBaseURL),
		bgg.WithTimeouts(cfg.HTTPTimeout(), cfg.HTTPConnectTimeout()),
		bgg.WithMaxConns(cfg.HTTPMaxConns),
		bgg.WithCollectionRetryDelay(cfg.CollectionRetryDelay()),
		bgg.WithCollectionMaxAttempts(cfg.CollectionMaxAttempts),
		bgg.WithBreaker(cfg.BreakerMaxFailures, cfg.BreakerOpenTimeout()),
		bgg.WithLogger(l.Named("bgg")),
	)

	store, err := buildStore(cfg, l)
	if err != nil {
		return nil, err
	}

	return app.New(client, client, store,
		app.WithUsername(cfg.Username),
		app.WithRefreshTimeout(cfg.RefreshTimeout()),
		app.WithBatchSize(cfg.BatchSize),
		app.WithHydrateWorkers(cfg.HydrateWorkers),
		app.WithBatchPacing(cfg.BatchPacing()),
		app.WithLogger(l.Named("service")),
	), nil
}

// buildStore returns the cache store selected by cache_backend.
func buildStore(cfg *config.Config, l logger.Logger) (repository.Store, error) {
	if cfg.CacheBackend == config.CacheBackendRedis {
		return repository.NewRedisStore(cfg.RedisURL,
			repository.WithKey(cfg.RedisKey),
			repository.WithRedisLogger(l.Named("redis-store")))
	}
	return repository.NewFileStore(cfg.CachePath, repository.WithFileLogger(l.Named("file-store"))), nil
}

// newHandler registers every route and applies CORS.
func newHandler(ctx context.Context, svc *app.Service) http.Handler {
	mux := http.NewServeMux()
	swagger.Register(ctx, mux)
	api.NewServer(svc, svc).Register(ctx, mux)
	site.Register(ctx, mux)
	return api.CORSMiddleware(mux)
}

// startSystemMetricsUpdater starts a background goroutine that updates system metrics.
func startSystemMetricsUpdater(ctx context.Context) {
	ticker := time.NewTicker(systemMetricsInterval)
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

// updateSystemMetrics updates system-level metrics.
func updateSystemMetrics() {
	var m runtime.MemStats
	runtime.ReadMemStats(&m)
	metrics.UpdateSystemMemoryUsage(m.Alloc)
	metrics.UpdateSystemGoroutineCount(runtime.NumGoroutine())

	if m.NumGC > 0 {
		avgPauseMs := float64(m.PauseTotalNs) / float64(m.NumGC) / nanosecondsPerMillisecond
		metrics.RecordSystemGCPauseTime(avgPauseMs)
	}
}
