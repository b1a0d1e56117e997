// Package config provides application configuration.
package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"
)

// Store drivers.
const (
	StoreMemory = "memory"
	StoreSQLite = "sqlite"
)

// Config holds all application configuration.
type Config struct {
	Port            string                `koanf:"port"`
	FrontendURL     string                `koanf:"frontend_url"`
	LogLevel        string                `koanf:"log_level"`
	Store           StoreConfig           `koanf:"store"`
	AI              AIConfig              `koanf:"ai"`
	RateLimit       RateLimitConfig       `koanf:"rate_limit"`
	ConversationLog ConversationLogConfig `koanf:"conversation_log"`
}

// StoreConfig selects the repository implementation.
type StoreConfig struct {
	Driver string `koanf:"driver"`
	DBPath string `koanf:"db_path"`
}

// AIConfig configures the generation providers.
type AIConfig struct {
	OpenAIAPIKey    string        `koanf:"openai_api_key"`
	OpenAIModel     string        `koanf:"openai_model"`
	OpenAIBaseURL   string        `koanf:"openai_base_url"`
	GeminiAPIKey    string        `koanf:"gemini_api_key"`
	GeminiModel     string        `koanf:"gemini_model"`
	GeminiEndpoint  string        `koanf:"gemini_endpoint"`
	ProviderTimeout time.Duration `koanf:"provider_timeout"`
}

// RateLimitConfig bounds AI requests per client address.
type RateLimitConfig struct {
	RequestsPerWindow int           `koanf:"requests"`
	WindowDuration    time.Duration `koanf:"window"`
}

// ConversationLogConfig controls JSON conversation logging.
type ConversationLogConfig struct {
	Enabled       bool   `koanf:"enabled"`
	Dir           string `koanf:"dir"`
	GlobalEnabled bool   `koanf:"global_enabled"`
	GlobalPath    string `koanf:"global_path"`
	QueueSize     int    `koanf:"queue_size"`
	MaxOpenFiles  int    `koanf:"max_open_files"`
}

// New returns a Config populated with defaults.
func New() *Config {
	return &Config{
		Port:     "5000",
		LogLevel: "info",
		Store: StoreConfig{
			Driver: StoreMemory,
			DBPath: "./data/dataprosim.db",
		},
		AI: AIConfig{
			OpenAIModel:     "gpt-4o",
			GeminiModel:     "gemini-2.5-flash",
			GeminiEndpoint:  "https://generativelanguage.googleapis.com/v1beta",
			ProviderTimeout: 8 * time.Second,
		},
		RateLimit: RateLimitConfig{
			RequestsPerWindow: 20,
			WindowDuration:    time.Minute,
		},
		ConversationLog: ConversationLogConfig{
			Enabled:      true,
			Dir:          "./data/logs/conversations",
			GlobalPath:   "./data/logs/conversations/all.ndjson",
			QueueSize:    1000,
			MaxOpenFiles: 64,
		},
	}
}

// Validate checks that all required configuration fields are set.
func (c *Config) Validate() error {
	if c.Port == "" {
		return errors.New("PORT cannot be empty")
	}
	switch c.Store.Driver {
	case StoreMemory:
	case StoreSQLite:
		if c.Store.DBPath == "" {
			return errors.New("DB_PATH cannot be empty with the sqlite store")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.Store.Driver)
	}
	if c.AI.ProviderTimeout <= 0 {
		return errors.New("AI_PROVIDER_TIMEOUT must be > 0")
	}
	if c.RateLimit.RequestsPerWindow <= 0 {
		return errors.New("RATE_LIMIT_REQUESTS must be > 0")
	}
	if c.RateLimit.WindowDuration <= 0 {
		return errors.New("RATE_LIMIT_WINDOW must be > 0")
	}
	if c.ConversationLog.Enabled && c.ConversationLog.Dir == "" {
		return errors.New("CONVERSATION_LOG_DIR cannot be empty")
	}
	if c.ConversationLog.GlobalEnabled && c.ConversationLog.GlobalPath == "" {
		return errors.New("CONVERSATION_LOG_GLOBAL_PATH cannot be empty")
	}
	if c.ConversationLog.QueueSize <= 0 {
		return errors.New("CONVERSATION_LOG_QUEUE_SIZE must be > 0")
	}
	if c.ConversationLog.MaxOpenFiles <= 0 {
		return errors.New("CONVERSATION_LOG_MAX_OPEN_FILES must be > 0")
	}
	return nil
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.FrontendURL == "" ||
		strings.Contains(c.FrontendURL, "localhost") ||
		strings.Contains(c.FrontendURL, "127.0.0.1")
}

// SlogLevel maps LogLevel onto a slog level. Unknown values mean info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
