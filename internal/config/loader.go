package config

import (
	"context"
	"fmt"
	"os"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// FileEnv names the environment variable holding an optional YAML config path.
const FileEnv = "DATAPROSIM_CONFIG"

// envKeys maps recognised environment variables onto config keys.
var envKeys = map[string]string{
	"PORT":                            "port",
	"FRONTEND_URL":                    "frontend_url",
	"LOG_LEVEL":                       "log_level",
	"STORE_DRIVER":                    "store.driver",
	"DB_PATH":                         "store.db_path",
	"OPENAI_API_KEY":                  "ai.openai_api_key",
	"OPENAI_MODEL":                    "ai.openai_model",
	"OPENAI_BASE_URL":                 "ai.openai_base_url",
	"GEMINI_API_KEY":                  "ai.gemini_api_key",
	"GEMINI_MODEL":                    "ai.gemini_model",
	"GEMINI_ENDPOINT":                 "ai.gemini_endpoint",
	"AI_PROVIDER_TIMEOUT":             "ai.provider_timeout",
	"RATE_LIMIT_REQUESTS":             "rate_limit.requests",
	"RATE_LIMIT_WINDOW":               "rate_limit.window",
	"CONVERSATION_LOG_ENABLED":        "conversation_log.enabled",
	"CONVERSATION_LOG_DIR":            "conversation_log.dir",
	"CONVERSATION_LOG_GLOBAL_ENABLED": "conversation_log.global_enabled",
	"CONVERSATION_LOG_GLOBAL_PATH":    "conversation_log.global_path",
	"CONVERSATION_LOG_QUEUE_SIZE":     "conversation_log.queue_size",
	"CONVERSATION_LOG_MAX_OPEN_FILES": "conversation_log.max_open_files",
}

// Load builds a Config by layering defaults, an optional YAML file and
// environment variables, lowest precedence first.
func Load(_ context.Context) (*Config, error) {
	k := koanf.New(".")

	if path := os.Getenv(FileEnv); path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	// Unrecognised variables map to "" and are skipped.
	envProvider := env.Provider("", ".", func(s string) string {
		return envKeys[s]
	})
	if err := k.Load(envProvider, nil); err != nil {
		return nil, fmt.Errorf("load environment: %w", err)
	}

	cfg := New()
	if err := k.UnmarshalWithConf("", cfg, koanf.UnmarshalConf{Tag: "koanf"}); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}
