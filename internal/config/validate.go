package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateQuiz(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validatePaths() error {
	if c.Paths.CourseRoot == "" {
		return errors.New("paths.course_root must be set")
	}
	return nil
}

func (c *Config) validateQuiz() error {
	if c.Quiz.SetSize < 1 {
		return errors.New("quiz.set_size must be at least 1")
	}
	if c.Quiz.PassScore < 0 || c.Quiz.PassScore > 100 {
		return errors.New("quiz.pass_score must be between 0 and 100")
	}
	if c.Quiz.ItemsPerNewWord < 3 {
		return errors.New("quiz.items_per_new_word must be at least 3 to satisfy item bank coverage")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
