package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	// A path that does not exist falls back to defaults.
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "8080" {
		t.Errorf("Server.Port = %q, want 8080", cfg.Server.Port)
	}
	if cfg.Database.Driver != "sqlite" {
		t.Errorf("Database.Driver = %q, want sqlite", cfg.Database.Driver)
	}
	if !cfg.Platform.AIEnabled {
		t.Error("Platform.AIEnabled should default to true")
	}
	if cfg.Redis.Enabled {
		t.Error("Redis should be disabled by default")
	}
	if cfg.RateLimit.AIRPS <= 0 || cfg.RateLimit.WebhookRPS <= 0 {
		t.Error("rate limit budgets should default to nonzero values")
	}
}

func TestRateLimitDefaultsFillZeroValues(t *testing.T) {
	// A config file that omits the rate_limit block must not produce a
	// zero-budget limiter.
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server:\n  port: \"8080\"\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.RateLimit.AIRPS != 1 || cfg.RateLimit.AIBurst != 5 {
		t.Errorf("AI budget = (%v, %d), want (1, 5)", cfg.RateLimit.AIRPS, cfg.RateLimit.AIBurst)
	}
	if cfg.RateLimit.WebhookRPS != 10 || cfg.RateLimit.WebhookBurst != 20 {
		t.Errorf("webhook budget = (%v, %d), want (10, 20)", cfg.RateLimit.WebhookRPS, cfg.RateLimit.WebhookBurst)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  host: 127.0.0.1
  port: "9090"
  mode: release
database:
  driver: postgres
  dsn: "host=localhost user=braik dbname=braik"
llm:
  provider: anthropic
  model: claude-sonnet-4-20250514
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "9090" {
		t.Errorf("Server.Port = %q, want 9090", cfg.Server.Port)
	}
	if cfg.Database.Driver != "postgres" {
		t.Errorf("Database.Driver = %q, want postgres", cfg.Database.Driver)
	}
	if cfg.LLM.Provider != "anthropic" {
		t.Errorf("LLM.Provider = %q, want anthropic", cfg.LLM.Provider)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "3000")
	t.Setenv("JWT_SECRET", "env-secret")
	t.Setenv("PLATFORM_AI_ENABLED", "false")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Server.Port != "3000" {
		t.Errorf("Server.Port = %q, want 3000", cfg.Server.Port)
	}
	if cfg.JWT.Secret != "env-secret" {
		t.Errorf("JWT.Secret = %q, want env-secret", cfg.JWT.Secret)
	}
	if cfg.Platform.AIEnabled {
		t.Error("PLATFORM_AI_ENABLED=false should disable AI")
	}
}

func TestParseRedisURL(t *testing.T) {
	tests := []struct {
		name         string
		url          string
		wantAddr     string
		wantPassword string
		wantDB       int
	}{
		{"bare host", "redis://localhost:6379", "localhost:6379", "", 0},
		{"with db", "redis://localhost:6379/2", "localhost:6379", "", 2},
		{"with password and db", "redis://:s3cret@redis.internal:6380/1", "redis.internal:6380", "s3cret", 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			cfg.parseRedisURL(tt.url)

			if cfg.Redis.Addr != tt.wantAddr {
				t.Errorf("Addr = %q, want %q", cfg.Redis.Addr, tt.wantAddr)
			}
			if cfg.Redis.Password != tt.wantPassword {
				t.Errorf("Password = %q, want %q", cfg.Redis.Password, tt.wantPassword)
			}
			if cfg.Redis.DB != tt.wantDB {
				t.Errorf("DB = %d, want %d", cfg.Redis.DB, tt.wantDB)
			}
		})
	}
}
