package config

import "strings"

func (c *Config) normalize() error {
	root, err := expandPath(strings.TrimSpace(c.Paths.CourseRoot))
	if err != nil {
		return err
	}
	c.Paths.CourseRoot = root

	logDir, err := expandPath(strings.TrimSpace(c.Paths.LogDir))
	if err != nil {
		return err
	}
	c.Paths.LogDir = logDir

	c.Align.Binary = strings.TrimSpace(c.Align.Binary)
	if c.Align.Binary == "" {
		c.Align.Binary = defaultAlignBinary
	}
	c.Align.Language = strings.TrimSpace(c.Align.Language)
	if c.Align.TimeoutSeconds <= 0 {
		c.Align.TimeoutSeconds = defaultAlignTimeoutSecs
	}

	c.Render.PDFCommand = strings.TrimSpace(c.Render.PDFCommand)
	if c.Render.TimeoutSeconds <= 0 {
		c.Render.TimeoutSeconds = defaultRenderTimeoutSecs
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}

	return nil
}
