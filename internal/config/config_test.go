package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadConfigMissingFile(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
	if cfg.Quiz.Seed != nil || cfg.Log.Level != nil {
		t.Fatalf("expected empty config, got %+v", cfg)
	}
}

func TestLoadConfigEmptyPath(t *testing.T) {
	if _, err := LoadConfig(""); err == nil {
		t.Fatalf("expected error for empty path")
	}
}

func TestLoadConfigValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	data := `
[quiz]
seed = 42
shuffle-tone = false
chrono-trials = 5

[history]
curve-window = 3

[log]
level = "debug"
format = "json"
compress = true
`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("load config: %v", err)
	}
	if cfg.Quiz.Seed == nil || *cfg.Quiz.Seed != 42 {
		t.Fatalf("unexpected seed: %v", cfg.Quiz.Seed)
	}
	if cfg.Quiz.ShuffleTone == nil || *cfg.Quiz.ShuffleTone {
		t.Fatalf("expected shuffle-tone false")
	}
	if cfg.Quiz.ChronoTrials == nil || *cfg.Quiz.ChronoTrials != 5 {
		t.Fatalf("unexpected chrono trials: %v", cfg.Quiz.ChronoTrials)
	}
	if cfg.Quiz.DeepBreaths != nil {
		t.Fatalf("unset key should stay nil")
	}
	if cfg.History.CurveWindow == nil || *cfg.History.CurveWindow != 3 {
		t.Fatalf("unexpected curve window: %v", cfg.History.CurveWindow)
	}
	if cfg.Log.Level == nil || *cfg.Log.Level != "debug" || cfg.Log.Format == nil || *cfg.Log.Format != "json" {
		t.Fatalf("unexpected log config: %+v", cfg.Log)
	}
	if cfg.Log.Compress == nil || !*cfg.Log.Compress {
		t.Fatalf("expected compress true")
	}
}

func TestLoadConfigRejectsUnknownKeys(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte("[quiz]\nwords = 3\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	_, err := LoadConfig(path)
	if err == nil || !strings.Contains(err.Error(), "quiz.words") {
		t.Fatalf("expected unknown key error, got %v", err)
	}
}

func TestEnsureConfigWritesTemplateOnce(t *testing.T) {
	path := filepath.Join(t.TempDir(), "freqprofile", "config.toml")
	created, err := EnsureConfig(path)
	if err != nil || !created {
		t.Fatalf("expected template to be created: %v", err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("template should decode: %v", err)
	}
	if cfg.Quiz.ChronoTrials != nil {
		t.Fatalf("template values should be commented out")
	}

	if err := os.WriteFile(path, []byte("[quiz]\nseed = 1\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	created, err = EnsureConfig(path)
	if err != nil || created {
		t.Fatalf("existing config should be kept: created=%v err=%v", created, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read config: %v", err)
	}
	if string(data) != "[quiz]\nseed = 1\n" {
		t.Fatalf("existing config was overwritten: %q", data)
	}
}

func TestDefaultPathsFollowXDG(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(dir, "cfg"))
	t.Setenv("XDG_DATA_HOME", filepath.Join(dir, "data"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(dir, "state"))

	if got, want := DefaultConfigPath(), filepath.Join(dir, "cfg", "freqprofile", "config.toml"); got != want {
		t.Fatalf("config path: got %s want %s", got, want)
	}
	if got, want := DefaultDBPath(), filepath.Join(dir, "data", "freqprofile", "freqprofile.db"); got != want {
		t.Fatalf("db path: got %s want %s", got, want)
	}
	if got, want := DefaultLogPath(), filepath.Join(dir, "state", "freqprofile", "freqprofile.log"); got != want {
		t.Fatalf("log path: got %s want %s", got, want)
	}
}
