package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDoesNotInjectWeakAuthDefaults(t *testing.T) {
	t.Setenv("POS_CONFIG_FILE", "")
	t.Setenv("AUTH_SECRET", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.AuthSecret != "" {
		t.Fatalf("expected empty AUTH_SECRET when unset, got %q", cfg.AuthSecret)
	}
	if cfg.Port != "8001" {
		t.Fatalf("expected default port 8001, got %s", cfg.Port)
	}
}

func TestLoadFileThenEnvOverrides(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.yaml")
	body := "port: \"9100\"\nredis_addr: cache:6379\nrollup_schedule: \"0 1 * * *\"\naccess_token_ttl_minutes: 30\n"
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("POS_CONFIG_FILE", path)
	t.Setenv("PORT", "9200")
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("ACCESS_TOKEN_TTL_MINUTES", "")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Port != "9200" {
		t.Fatalf("expected env port to win, got %s", cfg.Port)
	}
	if cfg.RedisAddr != "cache:6379" {
		t.Fatalf("expected redis addr from file, got %q", cfg.RedisAddr)
	}
	if cfg.RollupSchedule != "0 1 * * *" {
		t.Fatalf("expected schedule from file, got %q", cfg.RollupSchedule)
	}
	if cfg.AccessTokenTTLMinutes != 30 {
		t.Fatalf("expected token ttl 30, got %d", cfg.AccessTokenTTLMinutes)
	}
}

func TestLoadRejectsBrokenFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "pos.yaml")
	if err := os.WriteFile(path, []byte("port: [oops"), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	t.Setenv("POS_CONFIG_FILE", path)

	if _, err := Load(); err == nil {
		t.Fatalf("expected parse error")
	}
}
