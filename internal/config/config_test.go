package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/krishimitra/krishirag/internal/config"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("missing file should not be an error: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("got listen addr %q", cfg.ListenAddr)
	}
	if cfg.Scheduler.RetentionDays != 90 {
		t.Errorf("got retention %d", cfg.Scheduler.RetentionDays)
	}
	if cfg.FetchTimeout() != 30*time.Second {
		t.Errorf("got fetch timeout %s", cfg.FetchTimeout())
	}
	if cfg.Chunking.ChunkSize != 512 || cfg.Chunking.Overlap != 50 {
		t.Errorf("got chunking %+v", cfg.Chunking)
	}
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	content := `
listen_addr: ":9090"
scheduler:
  full_weekday: Saturday
  retention_days: 30
fetch:
  timeout_seconds: 10
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	cfg, err := config.Load(path)
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("got listen addr %q", cfg.ListenAddr)
	}
	if cfg.Scheduler.Weekday() != time.Saturday {
		t.Errorf("got weekday %s", cfg.Scheduler.Weekday())
	}
	if cfg.Scheduler.RetentionDays != 30 {
		t.Errorf("got retention %d", cfg.Scheduler.RetentionDays)
	}
	if cfg.FetchTimeout() != 10*time.Second {
		t.Errorf("got fetch timeout %s", cfg.FetchTimeout())
	}
	// Untouched sections keep defaults.
	if cfg.Scheduler.FullHour != 2 {
		t.Errorf("got full hour %d", cfg.Scheduler.FullHour)
	}
}

func TestLoadMalformedFileFails(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("listen_addr: [unclosed"), 0644); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}

	if _, err := config.Load(path); err == nil {
		t.Error("expected error for malformed yaml")
	}
}

func TestEnvOverride(t *testing.T) {
	t.Setenv("KRISHIRAG_LISTEN_ADDR", ":7070")

	cfg, err := config.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("failed to load: %v", err)
	}
	if cfg.ListenAddr != ":7070" {
		t.Errorf("env override not applied: %q", cfg.ListenAddr)
	}
}

func TestWeekdayFallback(t *testing.T) {
	sc := config.SchedulerConfig{FullWeekday: "Funday"}
	if sc.Weekday() != time.Sunday {
		t.Errorf("got %s, want Sunday fallback", sc.Weekday())
	}
}
