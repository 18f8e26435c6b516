package config_test

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"telesim/internal/config"
)

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	content := []byte(`bot:
  id: 42
  username: "probe_bot"
  first_name: "Probe"
log_level: debug
start_time: "2024-01-01T00:00:00Z"
send_rate: 30
`)
	if err := os.WriteFile(cfgPath, content, 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}

	if cfg.Bot.ID != 42 {
		t.Errorf("Bot.ID = %d, want 42", cfg.Bot.ID)
	}
	if cfg.Bot.Username != "probe_bot" {
		t.Errorf("Bot.Username = %q, want %q", cfg.Bot.Username, "probe_bot")
	}
	if cfg.LogLevel != "debug" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "debug")
	}
	if cfg.Level() != slog.LevelDebug {
		t.Errorf("Level() = %v, want %v", cfg.Level(), slog.LevelDebug)
	}

	start, ok, err := cfg.Start()
	if err != nil {
		t.Fatalf("Start() error: %v", err)
	}
	if !ok {
		t.Fatal("Start() ok = false, want true")
	}
	if got := start.UTC().Format("2006-01-02"); got != "2024-01-01" {
		t.Errorf("start date = %s, want 2024-01-01", got)
	}
}

func TestLoadConfigDefaults(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(cfgPath, []byte("{}\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.LogLevel != "info" {
		t.Errorf("LogLevel = %q, want %q", cfg.LogLevel, "info")
	}
	if cfg.Bot.ID != 1 {
		t.Errorf("Bot.ID = %d, want 1", cfg.Bot.ID)
	}
	if _, ok, err := cfg.Start(); err != nil || ok {
		t.Errorf("Start() = ok %v err %v, want false nil", ok, err)
	}
}

func TestLoadConfigFileNotFound(t *testing.T) {
	if _, err := config.Load("/nonexistent/config.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestLoadConfigBadStartTime(t *testing.T) {
	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "config.yaml")

	if err := os.WriteFile(cfgPath, []byte("start_time: \"yesterday\"\n"), 0600); err != nil {
		t.Fatal(err)
	}

	cfg, err := config.Load(cfgPath)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if _, _, err := cfg.Start(); err == nil {
		t.Error("expected error for malformed start_time")
	}
}
