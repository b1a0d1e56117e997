package config_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/dataprosimx/dataprosim/internal/config"
	"github.com/smartystreets/goconvey/convey"
)

var configEnvVars = []string{
	config.FileEnv, "PORT", "LOG_LEVEL", "STORE_DRIVER", "DB_PATH",
	"OPENAI_API_KEY", "OPENAI_MODEL", "GEMINI_MODEL", "AI_PROVIDER_TIMEOUT",
	"RATE_LIMIT_REQUESTS", "RATE_LIMIT_WINDOW", "CONVERSATION_LOG_ENABLED",
	"CONVERSATION_LOG_QUEUE_SIZE", "CONVERSATION_LOG_MAX_OPEN_FILES",
}

func TestConfigLoader(t *testing.T) {
	// Snapshot and clear so the host environment does not leak in.
	for _, name := range configEnvVars {
		if v, ok := os.LookupEnv(name); ok {
			t.Setenv(name, v)
		} else {
			t.Setenv(name, "")
		}
		_ = os.Unsetenv(name)
	}

	convey.Convey("Given a config loader", t, func() {
		ctx := context.Background()

		convey.Convey("When loading config with defaults only", func() {
			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load successfully with defaults", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "5000")
				convey.So(cfg.Store.Driver, convey.ShouldEqual, config.StoreMemory)
				convey.So(cfg.AI.OpenAIModel, convey.ShouldEqual, "gpt-4o")
				convey.So(cfg.AI.GeminiModel, convey.ShouldEqual, "gemini-2.5-flash")
				convey.So(cfg.AI.ProviderTimeout, convey.ShouldEqual, 8*time.Second)
				convey.So(cfg.ConversationLog.QueueSize, convey.ShouldEqual, 1000)
				convey.So(cfg.ConversationLog.MaxOpenFiles, convey.ShouldEqual, 64)
			})
		})

		convey.Convey("When loading config with environment variables", func() {
			_ = os.Setenv("PORT", "8081")
			_ = os.Setenv("OPENAI_API_KEY", "sk-test")
			_ = os.Setenv("AI_PROVIDER_TIMEOUT", "3s")
			_ = os.Setenv("RATE_LIMIT_REQUESTS", "7")
			_ = os.Setenv("CONVERSATION_LOG_ENABLED", "false")
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should override defaults with env vars", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "8081")
				convey.So(cfg.AI.OpenAIAPIKey, convey.ShouldEqual, "sk-test")
				convey.So(cfg.AI.ProviderTimeout, convey.ShouldEqual, 3*time.Second)
				convey.So(cfg.RateLimit.RequestsPerWindow, convey.ShouldEqual, 7)
				convey.So(cfg.ConversationLog.Enabled, convey.ShouldBeFalse)
			})
		})

		convey.Convey("When loading config with a YAML file", func() {
			path := writeConfigFile(t, `
port: "9090"
log_level: debug
store:
  driver: sqlite
  db_path: /tmp/dataprosim-test.db
ai:
  openai_model: gpt-4o-mini
rate_limit:
  window: 30s
`)
			_ = os.Setenv(config.FileEnv, path)
			defer clearConfigEnvVars()

			cfg, err := config.Load(ctx)

			convey.Convey("Then it should load from the file", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "9090")
				convey.So(cfg.LogLevel, convey.ShouldEqual, "debug")
				convey.So(cfg.Store.Driver, convey.ShouldEqual, config.StoreSQLite)
				convey.So(cfg.AI.OpenAIModel, convey.ShouldEqual, "gpt-4o-mini")
				convey.So(cfg.AI.GeminiModel, convey.ShouldEqual, "gemini-2.5-flash")
				convey.So(cfg.RateLimit.WindowDuration, convey.ShouldEqual, 30*time.Second)
			})

			convey.Convey("And environment variables still win", func() {
				_ = os.Setenv("PORT", "7070")
				cfg, err := config.Load(ctx)
				convey.So(err, convey.ShouldBeNil)
				convey.So(cfg.Port, convey.ShouldEqual, "7070")
			})
		})

		convey.Convey("When the store driver is unknown", func() {
			_ = os.Setenv("STORE_DRIVER", "postgres")
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then loading fails validation", func() {
				convey.So(err, convey.ShouldNotBeNil)
				convey.So(err.Error(), convey.ShouldContainSubstring, "STORE_DRIVER")
			})
		})

		convey.Convey("When the config file is missing", func() {
			_ = os.Setenv(config.FileEnv, filepath.Join(t.TempDir(), "missing.yaml"))
			defer clearConfigEnvVars()

			_, err := config.Load(ctx)

			convey.Convey("Then it should return an error", func() {
				convey.So(err, convey.ShouldNotBeNil)
			})
		})
	})
}

func clearConfigEnvVars() {
	for _, name := range configEnvVars {
		_ = os.Unsetenv(name)
	}
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config file: %v", err)
	}
	return path
}
