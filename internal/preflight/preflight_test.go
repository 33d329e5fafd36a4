package preflight

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"fcsmerge/internal/config"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	for _, access := range []Access{ReadOnly, ReadWrite} {
		if result := CheckDirectoryAccess("test", dir, access); !result.Passed {
			t.Fatalf("expected %s pass for temp dir, got: %s", access, result.Detail)
		}
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"), ReadOnly)
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if !strings.Contains(result.Detail, "does not exist") {
		t.Fatalf("unexpected detail %q", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.fcs")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if result := CheckDirectoryAccess("test", f, ReadOnly); result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDirectoryAccess_ReadOnlyDir(t *testing.T) {
	if os.Geteuid() == 0 {
		t.Skip("root bypasses permission bits")
	}
	dir := filepath.Join(t.TempDir(), "ro")
	if err := os.Mkdir(dir, 0o555); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chmod(dir, 0o755) })

	if result := CheckDirectoryAccess("test", dir, ReadOnly); !result.Passed {
		t.Fatalf("read access should pass: %s", result.Detail)
	}
	if result := CheckDirectoryAccess("test", dir, ReadWrite); result.Passed {
		t.Fatal("write access should fail on a 0555 directory")
	}
}

func TestRunAllAndErr(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.StateDir = filepath.Join(base, "state")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories: %v", err)
	}

	results := RunAll(&cfg, base)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	if err := Err(results); err != nil {
		t.Fatalf("expected all checks to pass: %v", err)
	}

	err := Err(RunAll(&cfg, filepath.Join(base, "missing")))
	if err == nil || !strings.Contains(err.Error(), "Input directory") {
		t.Fatalf("expected input directory failure, got %v", err)
	}
	if err := Err(ReadOnlyChecks(base)); err != nil {
		t.Fatalf("ReadOnlyChecks: %v", err)
	}
}
