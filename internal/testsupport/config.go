package testsupport

import (
	"path/filepath"
	"testing"

	"fcsmerge/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	for _, opt := range opts {
		opt(&cfg)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("test config invalid: %v", err)
	}
	return &cfg
}

// WithAssumeYes skips the confirmation gate.
func WithAssumeYes() ConfigOption {
	return func(c *config.Config) { c.Concat.AssumeYes = true }
}

// WithManifest enables the YAML manifest sidecar.
func WithManifest() ConfigOption {
	return func(c *config.Config) { c.Output.Manifest = true }
}

// WithHistory toggles the run ledger.
func WithHistory(enabled bool) ConfigOption {
	return func(c *config.Config) { c.History.Enabled = enabled }
}

// BaseDir returns the root temp directory backing the generated config.
func BaseDir(cfg *config.Config) string {
	return filepath.Dir(cfg.Paths.StateDir)
}
