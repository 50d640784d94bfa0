package config_test

import (
	"context"
	"errors"
	"os"
	"strings"
	"testing"

	"github.com/okian/boardshelf/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

func TestConfigLoader(t *testing.T) {
	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()
		clearConfigEnvVars()
		defer clearConfigEnvVars()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":8080")
				convey.So(cfg.BatchSize, convey.ShouldEqual, 10)
				convey.So(cfg.Username, convey.ShouldBeEmpty)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("BOARDSHELF_ADDR", ":9090")
			_ = os.Setenv("BOARDSHELF_USERNAME", "alice")
			_ = os.Setenv("BOARDSHELF_BATCH_SIZE", "20")
			_ = os.Setenv("BOARDSHELF_HYDRATE_WORKERS", "2")
			_ = os.Setenv("BOARDSHELF_BATCH_PACING_MS", "0")
			_ = os.Setenv("BOARDSHELF_CACHE_BACKEND", "redis")
			_ = os.Setenv("BOARDSHELF_REDIS_URL", "redis://localhost:6379/1")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":9090")
				convey.So(cfg.Username, convey.ShouldEqual, "alice")
				convey.So(cfg.BatchSize, convey.ShouldEqual, 20)
				convey.So(cfg.HydrateWorkers, convey.ShouldEqual, 2)
				convey.So(cfg.BatchPacingMS, convey.ShouldEqual, 0)
				convey.So(cfg.CacheBackend, convey.ShouldEqual, config.CacheBackendRedis)
				convey.So(cfg.RedisURL, convey.ShouldEqual, "redis://localhost:6379/1")
			})
		})

		convey.Convey("When only BGG_USERNAME is set", func() {
			_ = os.Setenv("BGG_USERNAME", " bob ")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it fills the username", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Username, convey.ShouldEqual, "bob")
			})
		})

		convey.Convey("When both usernames are set", func() {
			_ = os.Setenv("BGG_USERNAME", "bob")
			_ = os.Setenv("BOARDSHELF_USERNAME", "alice")

			cfg, err := config.Load(ctx)

			convey.Convey("Then the prefixed variable wins", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Username, convey.ShouldEqual, "alice")
			})
		})

		convey.Convey("When loading config with YAML file", func() {
			tmpFile := createTempConfigFile(t, `
# local development
addr: ":7070"
username: carol
bgg_base_url: "http://localhost:9999"
collection_max_attempts: 30
breaker_max_failures: 0
`)
			_ = os.Setenv("BOARDSHELF_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from YAML and keep other defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.Username, convey.ShouldEqual, "carol")
				convey.So(cfg.BGGBaseURL, convey.ShouldEqual, "http://localhost:9999")
				convey.So(cfg.CollectionMaxAttempts, convey.ShouldEqual, 30)
				convey.So(cfg.BreakerMaxFailures, convey.ShouldEqual, 0)
				convey.So(cfg.BatchSize, convey.ShouldEqual, 10)
			})
		})

		convey.Convey("When loading config with both file and environment variables", func() {
			tmpFile := createTempConfigFile(t, "addr: \":7070\"\nbatch_size: 5\n")
			_ = os.Setenv("BOARDSHELF_CONFIG", tmpFile)
			_ = os.Setenv("BOARDSHELF_BATCH_SIZE", "8")

			cfg, err := config.Load(ctx)

			convey.Convey("Then environment variables should override file values", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Addr, convey.ShouldEqual, ":7070")
				convey.So(cfg.BatchSize, convey.ShouldEqual, 8)
			})
		})

		convey.Convey("When loading config with invalid YAML file", func() {
			tmpFile := createTempConfigFile(t, "addr: [unterminated\n")
			_ = os.Setenv("BOARDSHELF_CONFIG", tmpFile)

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with non-existent file", func() {
			_ = os.Setenv("BOARDSHELF_CONFIG", "/non/existent/boardshelf.yaml")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When loading config with invalid numeric environment variables", func() {
			_ = os.Setenv("BOARDSHELF_BATCH_SIZE", "ten")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a load error", func() {
				convey.So(errors.Is(err, config.ErrLoadConfig), convey.ShouldBeTrue)
				convey.So(cfg, convey.ShouldBeNil)
			})
		})

		convey.Convey("When a loaded value fails validation", func() {
			_ = os.Setenv("BOARDSHELF_BATCH_SIZE", "50")

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should return a validation error", func() {
				convey.So(errors.Is(err, config.ErrInvalidConfig), convey.ShouldBeTrue)
				convey.So(err.Error(), convey.ShouldContainSubstring, "batch_size")
				convey.So(cfg, convey.ShouldBeNil)
			})
		})
	})
}

// Helper functions.

func clearConfigEnvVars() {
	for _, kv := range os.Environ() {
		name, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(name, config.EnvPrefix) || name == config.EnvLegacyUsername {
			_ = os.Unsetenv(name)
		}
	}
}

func createTempConfigFile(t *testing.T, content string) string {
	t.Helper()
	tmpFile, err := os.CreateTemp(t.TempDir(), "boardshelf-config-*.yaml")
	if err != nil {
		t.Fatal(err)
	}
	if _, err := tmpFile.WriteString(content); err != nil {
		t.Fatal(err)
	}
	if err := tmpFile.Close(); err != nil {
		t.Fatal(err)
	}
	return tmpFile.Name()
}
