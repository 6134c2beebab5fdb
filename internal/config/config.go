package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	CourseRoot string `toml:"course_root"`
	LogDir     string `toml:"log_dir"`
}

// Policy contains transliteration policy enforcement options.
type Policy struct {
	RequireToneMarks bool `toml:"require_tone_marks"`
}

// Align contains configuration for the optional forced-alignment tool.
type Align struct {
	Enabled        bool   `toml:"enabled"`
	Binary         string `toml:"binary"`
	Language       string `toml:"language"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Render contains configuration for the external study-guide document renderer.
type Render struct {
	PDFCommand     string `toml:"pdf_command"`
	TimeoutSeconds int    `toml:"timeout_seconds"`
}

// Quiz contains quiz generation thresholds.
type Quiz struct {
	SetSize         int `toml:"set_size"`
	PassScore       int `toml:"pass_score"`
	ItemsPerNewWord int `toml:"items_per_new_word"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for coursebuild.
//
// Configuration sections by subsystem:
//   - Paths: course root and log directory
//   - Policy: transliteration enforcement toggles
//   - Align: optional WhisperX forced alignment (probe + timeout + fallback)
//   - Render: external PDF renderer command for study guides
//   - Quiz: item bank and curated set sizing
//   - Logging: log format and level
type Config struct {
	Paths   Paths   `toml:"paths"`
	Policy  Policy  `toml:"policy"`
	Align   Align   `toml:"align"`
	Render  Render  `toml:"render"`
	Quiz    Quiz    `toml:"quiz"`
	Logging Logging `toml:"logging"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/coursebuild/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned config
// has all path fields expanded and normalized.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		_, err = os.Stat(expanded)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("coursebuild.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories required for a run.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.CourseRoot, c.Paths.LogDir, c.IndexDir(), c.ExportDir()} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// ModulesDir returns the directory holding per-lesson artifact directories.
func (c *Config) ModulesDir() string {
	return filepath.Join(c.Paths.CourseRoot, "modules")
}

// SchemasDir returns the on-disk schema override directory.
func (c *Config) SchemasDir() string {
	return filepath.Join(c.Paths.CourseRoot, "schemas")
}

// IndexDir returns the directory holding the global vocabulary index.
func (c *Config) IndexDir() string {
	return filepath.Join(c.Paths.CourseRoot, "index")
}

// ExportDir returns the directory holding global aggregated exports.
func (c *Config) ExportDir() string {
	return filepath.Join(c.Paths.CourseRoot, "export")
}

// PlanPath returns the course plan file location.
func (c *Config) PlanPath() string {
	return filepath.Join(c.Paths.CourseRoot, "course.yaml")
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}

	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
