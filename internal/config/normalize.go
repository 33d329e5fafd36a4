package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.applyEnv(); err != nil {
		return err
	}
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeOutput()
	c.normalizeDiscovery()
	c.normalizeLogging()
	if c.Concat.StalePartialHours < 0 {
		c.Concat.StalePartialHours = 0
	}
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		c.Paths.StateDir = defaultStateDir
	}
	if c.Paths.StateDir, err = expandPath(c.Paths.StateDir); err != nil {
		return fmt.Errorf("paths.state_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeOutput() {
	c.Output.Suffix = strings.TrimSpace(c.Output.Suffix)
	if c.Output.Suffix == "" {
		c.Output.Suffix = defaultSuffix
	}
	c.Output.TimestampFormat = strings.TrimSpace(c.Output.TimestampFormat)
	if c.Output.TimestampFormat == "" {
		c.Output.TimestampFormat = defaultTimestampFormat
	}
}

// normalizeDiscovery must run after normalizeOutput so the default exclusion
// tracks a customised suffix.
func (c *Config) normalizeDiscovery() {
	c.Discovery.Pattern = strings.TrimSpace(c.Discovery.Pattern)
	if c.Discovery.Pattern == "" {
		c.Discovery.Pattern = defaultPattern
	}
	c.Discovery.Exclude = strings.TrimSpace(c.Discovery.Exclude)
	if c.Discovery.Exclude == "" {
		c.Discovery.Exclude = "*" + c.Output.Suffix
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	switch c.Logging.Format {
	case "", "console":
		c.Logging.Format = "console"
	case "json":
	default:
		c.Logging.Format = "console"
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.Logging.RetentionDays < 0 {
		c.Logging.RetentionDays = 0
	}
}
