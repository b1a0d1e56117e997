package config

import (
	"log/slog"
	"testing"
)

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "empty port", mutate: func(c *Config) { c.Port = "" }, wantErr: true},
		{name: "unknown driver", mutate: func(c *Config) { c.Store.Driver = "mongo" }, wantErr: true},
		{name: "sqlite without path", mutate: func(c *Config) {
			c.Store.Driver = StoreSQLite
			c.Store.DBPath = ""
		}, wantErr: true},
		{name: "zero timeout", mutate: func(c *Config) { c.AI.ProviderTimeout = 0 }, wantErr: true},
		{name: "zero queue", mutate: func(c *Config) { c.ConversationLog.QueueSize = 0 }, wantErr: true},
		{name: "zero open files", mutate: func(c *Config) { c.ConversationLog.MaxOpenFiles = 0 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := New()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSlogLevel(t *testing.T) {
	cfg := New()
	cfg.LogLevel = "DEBUG"
	if got := cfg.SlogLevel(); got != slog.LevelDebug {
		t.Fatalf("SlogLevel() = %v, want debug", got)
	}
	cfg.LogLevel = "bogus"
	if got := cfg.SlogLevel(); got != slog.LevelInfo {
		t.Fatalf("SlogLevel() = %v, want info", got)
	}
}
