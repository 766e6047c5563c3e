package config

import (
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != "8080" {
		t.Errorf("HTTPPort = %q, want 8080", cfg.HTTPPort)
	}

	if cfg.ClearingAccountID != "clearing" {
		t.Errorf("ClearingAccountID = %q, want clearing", cfg.ClearingAccountID)
	}

	if cfg.IdempotencyTTL != 24*time.Hour {
		t.Errorf("IdempotencyTTL = %v, want 24h", cfg.IdempotencyTTL)
	}

	if cfg.WebhookSecret != "" {
		t.Errorf("WebhookSecret = %q, want empty", cfg.WebhookSecret)
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("HTTP_PORT", "9090")
	t.Setenv("CLEARING_ACCOUNT_ID", "clearing-eu")
	t.Setenv("DATABASE_MAX_CONNS", "50")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("RATE_LIMIT", "0")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.HTTPPort != "9090" {
		t.Errorf("HTTPPort = %q, want 9090", cfg.HTTPPort)
	}

	if cfg.ClearingAccountID != "clearing-eu" {
		t.Errorf("ClearingAccountID = %q, want clearing-eu", cfg.ClearingAccountID)
	}

	if cfg.DatabaseMaxConns != 50 {
		t.Errorf("DatabaseMaxConns = %d, want 50", cfg.DatabaseMaxConns)
	}

	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want debug", cfg.LogLevel)
	}

	if cfg.RateLimit != 0 {
		t.Errorf("RateLimit = %v, want 0", cfg.RateLimit)
	}
}

func TestLoadInvalidDuration(t *testing.T) {
	t.Setenv("IDEMPOTENCY_TTL", "not-a-duration")

	if _, err := Load(); err == nil {
		t.Fatal("expected an error for invalid duration")
	}
}
