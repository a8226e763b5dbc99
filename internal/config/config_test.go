package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadReadsYAMLAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
env: production
server:
  port: "9090"
postgres:
  url: postgres://file
  maxConns: 5
trivia:
  timezone: Europe/Paris
  todayTTL: 30s
auth:
  sessionTTL: 2h
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	clearEnv(t)
	t.Setenv("POSTGRES_URL", "postgres://env")
	t.Setenv("ADMIN_EMAIL", "root@example.com")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Env != "production" || cfg.Server.Port != "9090" || cfg.Postgres.MaxConns != 5 {
		t.Fatalf("unexpected config %+v", cfg)
	}
	if cfg.Postgres.URL != "postgres://env" {
		t.Fatalf("expected env override, got %s", cfg.Postgres.URL)
	}
	if cfg.Admin.Email != "root@example.com" || cfg.Admin.Name != "Admin User" {
		t.Fatalf("unexpected admin %+v", cfg.Admin)
	}
	if got := TTLDuration(cfg.Auth.SessionTTL, time.Hour); got != 2*time.Hour {
		t.Fatalf("expected 2h, got %v", got)
	}
	loc, err := cfg.Location()
	if err != nil || loc.String() != "Europe/Paris" {
		t.Fatalf("expected Europe/Paris, got %v (%v)", loc, err)
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	clearEnv(t)
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "8080" || cfg.Auth.CookieName != "trivia_session" || cfg.Env != "development" {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for empty, got %v", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"APP_ENV", "PORT", "POSTGRES_URL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB", "ADMIN_EMAIL", "ADMIN_PASSWORD", "ADMIN_NAME"} {
		t.Setenv(key, "")
	}
}
