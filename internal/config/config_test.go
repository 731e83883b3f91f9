package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("default port = %d, want 8080", cfg.Server.Port)
	}
	if !cfg.Sweep.Enabled || cfg.Sweep.Timezone != "UTC" {
		t.Errorf("unexpected sweep defaults %+v", cfg.Sweep)
	}
}

func TestLoadOverridesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := "server:\n  port: 9999\nsweep:\n  enabled: false\n  reset_hour: 4\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Server.Port != 9999 {
		t.Errorf("port = %d, want 9999", cfg.Server.Port)
	}
	if cfg.Sweep.Enabled || cfg.Sweep.ResetHour != 4 {
		t.Errorf("sweep = %+v", cfg.Sweep)
	}
	// untouched sections keep defaults
	if cfg.Postgres.MaxOpenConns != 50 {
		t.Errorf("max_open_conns = %d, want default 50", cfg.Postgres.MaxOpenConns)
	}
}

func TestEnvOverridesSecrets(t *testing.T) {
	t.Setenv("FOCUSBOARD_JWT_SECRET", "from-env")
	t.Setenv("FOCUSBOARD_POSTGRES_DSN", "host=db")
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if cfg.Auth.JWTSecret != "from-env" {
		t.Errorf("jwt secret = %q, want from-env", cfg.Auth.JWTSecret)
	}
	if cfg.Postgres.DSN != "host=db" {
		t.Errorf("dsn = %q, want host=db", cfg.Postgres.DSN)
	}
}

func TestInvalidYAMLFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("server: [broken"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(path); err == nil {
		t.Fatal("expected parse error")
	}
}
