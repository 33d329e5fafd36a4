package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validatePaths(); err != nil {
		return err
	}
	if err := c.validateDiscovery(); err != nil {
		return err
	}
	if err := c.validateOutput(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	if c.Concat.StalePartialHours < 0 {
		return errors.New("concat.stale_partial_hours must be zero or positive")
	}
	return nil
}

func (c *Config) validatePaths() error {
	if strings.TrimSpace(c.Paths.StateDir) == "" {
		return errors.New("paths.state_dir must be set")
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return errors.New("paths.log_dir must be set")
	}
	return nil
}

func (c *Config) validateDiscovery() error {
	if c.Discovery.Pattern == "" {
		return errors.New("discovery.pattern must be set")
	}
	if _, err := filepath.Match(c.Discovery.Pattern, ""); err != nil {
		return fmt.Errorf("discovery.pattern %q: %w", c.Discovery.Pattern, err)
	}
	if c.Discovery.Exclude != "" {
		if _, err := filepath.Match(c.Discovery.Exclude, ""); err != nil {
			return fmt.Errorf("discovery.exclude %q: %w", c.Discovery.Exclude, err)
		}
	}
	return nil
}

func (c *Config) validateOutput() error {
	if !strings.HasSuffix(strings.ToLower(c.Output.Suffix), ".fcs") {
		return fmt.Errorf("output.suffix %q must end in .fcs", c.Output.Suffix)
	}
	if strings.ContainsAny(c.Output.Suffix, `/\`) {
		return fmt.Errorf("output.suffix %q must not contain path separators", c.Output.Suffix)
	}
	stamp := time.Date(2001, time.February, 3, 4, 5, 6, 0, time.UTC).Format(c.Output.TimestampFormat)
	if stamp == c.Output.TimestampFormat {
		return fmt.Errorf("output.timestamp_format %q contains no time fields", c.Output.TimestampFormat)
	}
	if strings.ContainsAny(stamp, `/\:`) {
		return fmt.Errorf("output.timestamp_format %q produces characters not allowed in file names", c.Output.TimestampFormat)
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level %q must be one of debug, info, warn, error", c.Logging.Level)
	}
	return nil
}
