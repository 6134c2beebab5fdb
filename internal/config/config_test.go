package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"coursebuild/internal/config"
)

func TestLoadDefaultsWhenNoFilePresent(t *testing.T) {
	tempHome := t.TempDir()
	t.Setenv("HOME", tempHome)
	t.Chdir(t.TempDir())

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}
	if cfg.Logging.Format != "console" || cfg.Logging.Level != "info" {
		t.Fatalf("unexpected logging defaults: %+v", cfg.Logging)
	}
	if !cfg.Policy.RequireToneMarks {
		t.Fatal("expected tone marks required by default")
	}
	if cfg.Align.Enabled {
		t.Fatal("expected alignment disabled by default")
	}
	if cfg.Align.TimeoutSeconds != 300 {
		t.Fatalf("unexpected align timeout: %d", cfg.Align.TimeoutSeconds)
	}
	if cfg.Quiz.ItemsPerNewWord != 3 {
		t.Fatalf("unexpected quiz coverage default: %d", cfg.Quiz.ItemsPerNewWord)
	}
	if cfg.Paths.LogDir != filepath.Join(tempHome, ".local", "share", "coursebuild", "logs") {
		t.Fatalf("unexpected log dir: %q", cfg.Paths.LogDir)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[paths]
course_root = "` + dir + `"

[align]
enabled = true
binary = "  whisperx  "
timeout_seconds = 0

[logging]
format = "JSON"
level = "Debug"
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, _, exists, err := config.Load(path)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected config file to exist")
	}
	if cfg.Align.Binary != "whisperx" {
		t.Fatalf("expected trimmed binary, got %q", cfg.Align.Binary)
	}
	if cfg.Align.TimeoutSeconds != 300 {
		t.Fatalf("expected timeout default restored, got %d", cfg.Align.TimeoutSeconds)
	}
	if cfg.Logging.Format != "json" || cfg.Logging.Level != "debug" {
		t.Fatalf("expected lowercased logging values: %+v", cfg.Logging)
	}
	if cfg.ModulesDir() != filepath.Join(dir, "modules") {
		t.Fatalf("unexpected modules dir: %q", cfg.ModulesDir())
	}
}

func TestValidateRejectsBadQuizConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	body := `
[quiz]
items_per_new_word = 1
`
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, _, _, err := config.Load(path); err == nil {
		t.Fatal("expected validation error for items_per_new_word below 3")
	}
}

func TestCreateSampleParses(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sub", "config.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var cfg config.Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		t.Fatalf("sample config does not parse: %v", err)
	}
}
