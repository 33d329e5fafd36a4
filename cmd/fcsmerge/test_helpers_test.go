package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"fcsmerge/internal/config"
	"fcsmerge/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	home       string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{"FCSMERGE_ASSUME_YES", "FCSMERGE_LOG_LEVEL", "FCSMERGE_STATE_DIR"} {
		t.Setenv(key, "")
		os.Unsetenv(key)
	}
	t.Chdir(home)

	cfg := testsupport.NewConfig(t, opts...)
	data, err := toml.Marshal(cfg)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	configPath := filepath.Join(home, "fcsmerge.toml")
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return &cliTestEnv{cfg: cfg, configPath: configPath, home: home}
}

func runCLI(t *testing.T, env *cliTestEnv, stdin string, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", env.configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}

func outputs(t *testing.T, root string) []string {
	t.Helper()
	return outputsWithSuffix(t, root, "_concat.fcs")
}

func outputsWithSuffix(t *testing.T, root, suffix string) []string {
	t.Helper()
	matches, err := filepath.Glob(filepath.Join(root, "*"+suffix))
	if err != nil {
		t.Fatalf("glob: %v", err)
	}
	return matches
}
