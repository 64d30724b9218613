package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/keshon/dirsnap/internal/config"
)

func TestDefault(t *testing.T) {
	cfg := config.Default()

	if cfg.StorageDir != config.DefaultStorageDir {
		t.Errorf("expected storage dir %q, got %q", config.DefaultStorageDir, cfg.StorageDir)
	}
	if cfg.Debounce.Std() != 2*time.Second {
		t.Errorf("expected 2s debounce, got %s", cfg.Debounce.Std())
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirsnap.yaml")
	content := "storage_dir: .snaps\ndebounce: 500ms\nsettle: 50ms\nworkers: 2\nlog_level: debug\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageDir != ".snaps" {
		t.Errorf("expected .snaps, got %q", cfg.StorageDir)
	}
	if cfg.Debounce.Std() != 500*time.Millisecond {
		t.Errorf("expected 500ms debounce, got %s", cfg.Debounce.Std())
	}
	if cfg.Workers != 2 {
		t.Errorf("expected 2 workers, got %d", cfg.Workers)
	}
}

func TestLoadPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirsnap.yaml")
	if err := os.WriteFile(path, []byte("log_level: warn\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.StorageDir != config.DefaultStorageDir {
		t.Errorf("partial config lost default storage dir: %q", cfg.StorageDir)
	}
	if cfg.LogLevel != "warn" {
		t.Errorf("expected warn, got %q", cfg.LogLevel)
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cfg := config.Default()
	cfg.StorageDir = "nested/dir"
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for storage_dir with separator")
	}

	cfg = config.Default()
	cfg.Debounce = 0
	if err := cfg.Validate(); err == nil {
		t.Error("expected error for zero debounce")
	}
}

func TestLoadBadDuration(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dirsnap.yaml")
	if err := os.WriteFile(path, []byte("debounce: sometimes\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := config.Load(path); err == nil {
		t.Error("expected error for unparseable duration")
	}
}
