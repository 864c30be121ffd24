package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadReadsYAMLAndEnvOverrides(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	yaml := `
server:
  port: "9000"
  read_timeout: 20s
postgres:
  url: postgres://file
redis:
  addr: localhost:6379
  db: 2
catalog:
  ttl: 5m
aggregator:
  concurrency: 4
log:
  level: debug
`
	if err := os.WriteFile(path, []byte(yaml), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("DATABASE_URL", "postgres://env")
	t.Setenv("PORT", "")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9000" {
		t.Fatalf("expected port from file, got %q", cfg.Server.Port)
	}
	if cfg.Postgres.URL != "postgres://env" {
		t.Fatalf("expected env override, got %q", cfg.Postgres.URL)
	}
	if cfg.Redis.DB != 2 || cfg.Aggregator.Concurrency != 4 {
		t.Fatalf("unexpected redis/aggregator config: %+v", cfg)
	}
	if got := TTLDuration(cfg.Catalog.TTL, time.Minute); got != 5*time.Minute {
		t.Fatalf("expected 5m catalog ttl, got %v", got)
	}
	if LogLevel(cfg.Log.Level) != slog.LevelDebug {
		t.Fatalf("expected debug level")
	}
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "cache:6379")
	t.Setenv("DATABASE_URL", "")

	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	if err != nil {
		t.Fatalf("expected no error for missing file, got %v", err)
	}
	if cfg.Redis.Addr != "cache:6379" {
		t.Fatalf("expected env value, got %q", cfg.Redis.Addr)
	}
	if cfg.Postgres.URL != "" {
		t.Fatalf("expected empty postgres url, got %q", cfg.Postgres.URL)
	}
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Second); got != time.Second {
		t.Fatalf("expected fallback for empty, got %v", got)
	}
	if got := TTLDuration("soon", time.Second); got != time.Second {
		t.Fatalf("expected fallback for garbage, got %v", got)
	}
}
