package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestConfigInitAndValidate(t *testing.T) {
	env := setupCLITestEnv(t)

	out, err := runCLI(t, env, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "Config path: "+env.configPath+"\n")
	requireContains(t, out, "discovery.exclude")
	requireContains(t, out, "*_concat.fcs")
	requireContains(t, out, env.cfg.HistoryPath())
	requireContains(t, out, "Configuration valid")

	target := filepath.Join(t.TempDir(), "nested", "config.toml")
	out, err = runCLI(t, env, "", "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init: %v", err)
	}
	requireContains(t, out, "Wrote sample configuration")
	requireContains(t, out, "--config "+target+" config validate")
	if _, err := os.Stat(target); err != nil {
		t.Fatalf("expected config file at %s: %v", target, err)
	}

	if _, err := runCLI(t, env, "", "config", "init", "--path", target); err == nil || !strings.Contains(err.Error(), "already exists") {
		t.Fatalf("expected overwrite refusal, got %v", err)
	}
	if _, err := runCLI(t, env, "", "config", "init", "--path", target, "--overwrite"); err != nil {
		t.Fatalf("config init --overwrite: %v", err)
	}
}

func TestConfigValidateShowsEffectiveExclusions(t *testing.T) {
	env := setupCLITestEnv(t)
	contents := "[discovery]\nexclude = \"*_old.fcs\"\n[output]\nsuffix = \"_merged.fcs\"\n[history]\nenabled = false\n"
	if err := os.WriteFile(env.configPath, []byte(contents), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	out, err := runCLI(t, env, "", "config", "validate")
	if err != nil {
		t.Fatalf("config validate: %v", err)
	}
	requireContains(t, out, "*_old.fcs, *_merged.fcs")
	requireContains(t, out, "disabled")

	missing := filepath.Join(t.TempDir(), "absent.toml")
	out, err = runCLI(t, env, "", "--config", missing, "config", "validate")
	if err != nil {
		t.Fatalf("config validate without file: %v", err)
	}
	requireContains(t, out, "not found, defaults in effect")
}

func TestInvalidLogLevelFlag(t *testing.T) {
	env := setupCLITestEnv(t)
	if _, err := runCLI(t, env, "", "--log-level", "loud", "history"); err == nil {
		t.Fatal("expected invalid log level to fail")
	}
}

func TestHistoryWithoutLedger(t *testing.T) {
	env := setupCLITestEnv(t)
	_, err := runCLI(t, env, "", "history")
	if err == nil || !strings.Contains(err.Error(), "no run history") {
		t.Fatalf("expected missing ledger error, got %v", err)
	}
}
