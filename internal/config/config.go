// Package config defines service configuration and its loading.
//
// Values are layered: defaults from New, an optional YAML file, then
// environment variables. Durations are given in milliseconds.
package config

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// Cache backends.
const (
	CacheBackendFile  = "file"
	CacheBackendRedis = "redis"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// Username is the collection owner used when a refresh names none.
	Username string `koanf:"username"`

	// BGGBaseURL is the XML API root.
	BGGBaseURL string `koanf:"bgg_base_url"`

	// HTTP client towards BGG.
	HTTPTimeoutMS        int `koanf:"http_timeout_ms"`
	HTTPConnectTimeoutMS int `koanf:"http_connect_timeout_ms"`
	HTTPMaxConns         int `koanf:"http_max_conns"`

	// CollectionRetryDelayMS is the wait between "still preparing" polls.
	CollectionRetryDelayMS int `koanf:"collection_retry_delay_ms"`
	// CollectionMaxAttempts caps polling; 0 polls until ready.
	CollectionMaxAttempts int `koanf:"collection_max_attempts"`

	// Hydration.
	BatchSize      int `koanf:"batch_size"`
	HydrateWorkers int `koanf:"hydrate_workers"`
	BatchPacingMS  int `koanf:"batch_pacing_ms"`

	// RefreshTimeoutMS bounds one whole ingestion run.
	RefreshTimeoutMS int `koanf:"refresh_timeout_ms"`

	// Cache persistence.
	CacheBackend string `koanf:"cache_backend"`
	CachePath    string `koanf:"cache_path"`
	RedisURL     string `koanf:"redis_url"`
	RedisKey     string `koanf:"redis_key"`

	// Circuit breaker on collection lookups; 0 failures disables tripping.
	BreakerMaxFailures   int `koanf:"breaker_max_failures"`
	BreakerOpenTimeoutMS int `koanf:"breaker_open_timeout_ms"`
}

// New creates a Config populated with defaults.
func New(_ context.Context) *Config {
	return &Config{
		LogLevel:               "info",
		Addr:                   ":8080",
		BGGBaseURL:             "https://boardgamegeek.com/xmlapi2",
		HTTPTimeoutMS:          60_000,
		HTTPConnectTimeoutMS:   10_000,
		HTTPMaxConns:           20,
		CollectionRetryDelayMS: 1_500,
		CollectionMaxAttempts:  0,
		BatchSize:              10,
		HydrateWorkers:         4,
		BatchPacingMS:          2_000,
		RefreshTimeoutMS:       600_000,
		CacheBackend:           CacheBackendFile,
		CachePath:              "data/cache.json",
		RedisKey:               "boardshelf:games",
		BreakerMaxFailures:     5,
		BreakerOpenTimeoutMS:   30_000,
	}
}

// maxBatchSize is the most ids BGG accepts in one thing request.
const maxBatchSize = 20

// Validate reports the first invalid setting, wrapped in ErrInvalidConfig.
func (c *Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Addr) == "":
		return fmt.Errorf("%w: addr must not be empty", ErrInvalidConfig)
	case strings.TrimSpace(c.BGGBaseURL) == "":
		return fmt.Errorf("%w: bgg_base_url must not be empty", ErrInvalidConfig)
	case c.BatchSize < 1 || c.BatchSize > maxBatchSize:
		return fmt.Errorf("%w: batch_size must be within 1..%d, got %d", ErrInvalidConfig, maxBatchSize, c.BatchSize)
	case c.HydrateWorkers < 1:
		return fmt.Errorf("%w: hydrate_workers must be positive, got %d", ErrInvalidConfig, c.HydrateWorkers)
	case c.HTTPTimeoutMS < 1 || c.HTTPConnectTimeoutMS < 1 || c.HTTPMaxConns < 1:
		return fmt.Errorf("%w: http timeouts and max conns must be positive", ErrInvalidConfig)
	case c.BatchPacingMS < 0 || c.CollectionRetryDelayMS < 0 || c.CollectionMaxAttempts < 0:
		return fmt.Errorf("%w: pacing, retry delay and max attempts must not be negative", ErrInvalidConfig)
	case c.RefreshTimeoutMS < 1:
		return fmt.Errorf("%w: refresh_timeout_ms must be positive", ErrInvalidConfig)
	case c.BreakerMaxFailures < 0 || c.BreakerOpenTimeoutMS < 1:
		return fmt.Errorf("%w: breaker settings out of range", ErrInvalidConfig)
	}

	switch c.CacheBackend {
	case CacheBackendFile:
		if strings.TrimSpace(c.CachePath) == "" {
			return fmt.Errorf("%w: cache_path must not be empty", ErrInvalidConfig)
		}
	case CacheBackendRedis:
		if strings.TrimSpace(c.RedisURL) == "" {
			return fmt.Errorf("%w: redis_url is required for the redis backend", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown cache_backend %q", ErrInvalidConfig, c.CacheBackend)
	}
	return nil
}

func ms(v int) time.Duration { return time.Duration(v) * time.Millisecond }

// HTTPTimeout returns the overall BGG request timeout.
func (c *Config) HTTPTimeout() time.Duration { return ms(c.HTTPTimeoutMS) }

// HTTPConnectTimeout returns the BGG dial timeout.
func (c *Config) HTTPConnectTimeout() time.Duration { return ms(c.HTTPConnectTimeoutMS) }

// CollectionRetryDelay returns the wait between collection polls.
func (c *Config) CollectionRetryDelay() time.Duration { return ms(c.CollectionRetryDelayMS) }

// BatchPacing returns the per-worker delay between batches.
func (c *Config) BatchPacing() time.Duration { return ms(c.BatchPacingMS) }

// RefreshTimeout returns the bound on one ingestion run.
func (c *Config) RefreshTimeout() time.Duration { return ms(c.RefreshTimeoutMS) }

// BreakerOpenTimeout returns how long the breaker stays open.
func (c *Config) BreakerOpenTimeout() time.Duration { return ms(c.BreakerOpenTimeoutMS) }
