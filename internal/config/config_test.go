package config

import (
	"log/slog"
	"testing"
	"time"
)

func TestLoadDefaultsForDevProfile(t *testing.T) {
	lookup := mapLookup(map[string]string{})
	cfg, err := Load("sqlcoach-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileDev {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileDev)
	}
	if cfg.HTTP.Address != ":8080" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.Observability.LogLevel != slog.LevelDebug {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
	if cfg.Engine.Driver != "sqlite" {
		t.Fatalf("Engine.Driver = %q", cfg.Engine.Driver)
	}
	if cfg.Engine.DSN != ":memory:" {
		t.Fatalf("Engine.DSN = %q", cfg.Engine.DSN)
	}
	if cfg.Engine.MaxRows != 1000 {
		t.Fatalf("Engine.MaxRows = %d", cfg.Engine.MaxRows)
	}
	if cfg.AI.Provider != ProviderClaude {
		t.Fatalf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.APIKey != "" {
		t.Fatalf("AI.APIKey = %q, want empty default", cfg.AI.APIKey)
	}
	if cfg.AI.MaxTokens != 2000 {
		t.Fatalf("AI.MaxTokens = %d", cfg.AI.MaxTokens)
	}
}

func TestLoadProdProfileDefaults(t *testing.T) {
	lookup := mapLookup(map[string]string{"SQLCOACH_PROFILE": "prod"})
	cfg, err := Load("sqlcoach-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Profile != ProfileProd {
		t.Fatalf("Profile = %q, want %q", cfg.Profile, ProfileProd)
	}
	if cfg.Observability.LogLevel != slog.LevelInfo {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadWithEnvOverrides(t *testing.T) {
	lookup := mapLookup(map[string]string{
		"SQLCOACH_PROFILE":            "test",
		"SQLCOACH_SERVICE_NAME":       "sqlcoach-custom",
		"SQLCOACH_HTTP_ADDR":          ":9999",
		"SQLCOACH_HTTP_READ_TIMEOUT":  "2s",
		"SQLCOACH_HTTP_WRITE_TIMEOUT": "3s",
		"SQLCOACH_ENGINE_DRIVER":      "duckdb",
		"SQLCOACH_ENGINE_DSN":         "practice.db",
		"SQLCOACH_ENGINE_MAX_ROWS":    "250",
		"SQLCOACH_AI_PROVIDER":        "openai",
		"SQLCOACH_AI_BASE_URL":        "https://api.example.com",
		"SQLCOACH_AI_API_KEY":         "secret-key",
		"SQLCOACH_AI_MODEL":           "gpt-5.2",
		"SQLCOACH_AI_MAX_TOKENS":      "512",
		"SQLCOACH_AI_TIMEOUT":         "21s",
		"SQLCOACH_LOG_LEVEL":          "error",
	})
	cfg, err := Load("sqlcoach-api", lookup)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Service.Name != "sqlcoach-custom" {
		t.Fatalf("Service.Name = %q", cfg.Service.Name)
	}
	if cfg.HTTP.Address != ":9999" {
		t.Fatalf("HTTP.Address = %q", cfg.HTTP.Address)
	}
	if cfg.HTTP.ReadTimeout != 2*time.Second {
		t.Fatalf("HTTP.ReadTimeout = %s", cfg.HTTP.ReadTimeout)
	}
	if cfg.HTTP.WriteTimeout != 3*time.Second {
		t.Fatalf("HTTP.WriteTimeout = %s", cfg.HTTP.WriteTimeout)
	}
	if cfg.Engine.Driver != "duckdb" {
		t.Fatalf("Engine.Driver = %q", cfg.Engine.Driver)
	}
	if cfg.Engine.DSN != "practice.db" {
		t.Fatalf("Engine.DSN = %q", cfg.Engine.DSN)
	}
	if cfg.Engine.MaxRows != 250 {
		t.Fatalf("Engine.MaxRows = %d", cfg.Engine.MaxRows)
	}
	if cfg.AI.Provider != ProviderOpenAI {
		t.Fatalf("AI.Provider = %q", cfg.AI.Provider)
	}
	if cfg.AI.BaseURL != "https://api.example.com" {
		t.Fatalf("AI.BaseURL = %q", cfg.AI.BaseURL)
	}
	if cfg.AI.APIKey != "secret-key" {
		t.Fatalf("AI.APIKey = %q", cfg.AI.APIKey)
	}
	if cfg.AI.Model != "gpt-5.2" {
		t.Fatalf("AI.Model = %q", cfg.AI.Model)
	}
	if cfg.AI.MaxTokens != 512 {
		t.Fatalf("AI.MaxTokens = %d", cfg.AI.MaxTokens)
	}
	if cfg.AI.Timeout != 21*time.Second {
		t.Fatalf("AI.Timeout = %s", cfg.AI.Timeout)
	}
	if cfg.Observability.LogLevel != slog.LevelError {
		t.Fatalf("LogLevel = %v", cfg.Observability.LogLevel)
	}
}

func TestLoadErrorsOnInvalidValues(t *testing.T) {
	tests := []map[string]string{
		{"SQLCOACH_PROFILE": "oops"},
		{"SQLCOACH_HTTP_READ_TIMEOUT": "NaN"},
		{"SQLCOACH_ENGINE_DRIVER": "oracle"},
		{"SQLCOACH_ENGINE_MAX_ROWS": "oops"},
		{"SQLCOACH_AI_PROVIDER": "gemini"},
		{"SQLCOACH_AI_MAX_TOKENS": "oops"},
		{"SQLCOACH_AI_TIMEOUT": "soon"},
		{"SQLCOACH_LOG_JSON": "not-bool"},
		{"SQLCOACH_LOG_LEVEL": "verbose"},
	}
	for _, env := range tests {
		_, err := Load("sqlcoach-api", mapLookup(env))
		if err == nil {
			t.Fatalf("Load() expected error for env %#v", env)
		}
	}
}

func mapLookup(values map[string]string) LookupFunc {
	return func(key string) (string, bool) {
		value, ok := values[key]
		return value, ok
	}
}
