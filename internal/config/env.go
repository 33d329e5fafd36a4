package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const (
	envAssumeYes = "FCSMERGE_ASSUME_YES"
	envLogLevel  = "FCSMERGE_LOG_LEVEL"
	envStateDir  = "FCSMERGE_STATE_DIR"
	envFileName  = ".env"
)

// findEnvFile walks from the working directory towards the home directory
// and returns the first .env file found.
func findEnvFile() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	home, err := os.UserHomeDir()
	if err != nil {
		if _, err := os.Stat(envFileName); err == nil {
			return envFileName
		}
		return ""
	}

	home = filepath.Clean(home)
	dir := filepath.Clean(cwd)
	for {
		candidate := filepath.Join(dir, envFileName)
		if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
			return candidate
		}
		if dir == home {
			return ""
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func loadEnvFile(path string) error {
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// applyEnv overrides file values with FCSMERGE_* variables.
func (c *Config) applyEnv() error {
	if value, ok := lookupTrimmed(envAssumeYes); ok {
		parsed, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: %w", envAssumeYes, err)
		}
		c.Concat.AssumeYes = parsed
	}
	if value, ok := lookupTrimmed(envLogLevel); ok {
		c.Logging.Level = value
	}
	if value, ok := lookupTrimmed(envStateDir); ok {
		c.Paths.StateDir = value
	}
	return nil
}

func lookupTrimmed(key string) (string, bool) {
	value, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	value = strings.TrimSpace(value)
	return value, value != ""
}
