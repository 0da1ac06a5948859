package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadAppliesEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	data := []byte(`
server:
  port: "9090"
redis:
  addr: "localhost:6379"
  ttl: 2m
game:
  tick_interval: 500ms
  leaderboard_size: 7
`)
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("REDIS_ADDR", "redis:6380")
	t.Setenv("DATABASE_URL", "postgres://quiz@db/quiz")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Server.Port != "9090" || cfg.Game.LeaderboardSize != 7 {
		t.Fatalf("unexpected yaml values: %+v", cfg)
	}
	if cfg.Redis.Addr != "redis:6380" || cfg.Postgres.URL != "postgres://quiz@db/quiz" {
		t.Fatalf("env overrides not applied: %+v", cfg)
	}
	if got := TTLDuration(cfg.Game.TickInterval, time.Second); got != 500*time.Millisecond {
		t.Fatalf("tick interval = %s", got)
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestTTLDurationFallback(t *testing.T) {
	if got := TTLDuration("", time.Minute); got != time.Minute {
		t.Fatalf("empty should fall back, got %s", got)
	}
	if got := TTLDuration("soon", time.Minute); got != time.Minute {
		t.Fatalf("invalid should fall back, got %s", got)
	}
}
