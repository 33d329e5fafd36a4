package preflight

import (
	"errors"
	"fmt"
	"strings"

	"fcsmerge/internal/config"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll checks that the input root can be read and written (the merged file
// lands beside the inputs) and that the state and log directories are usable.
func RunAll(cfg *config.Config, root string) []Result {
	results := []Result{CheckDirectoryAccess("Input directory", root, ReadWrite)}
	if cfg == nil {
		return results
	}
	results = append(results,
		CheckDirectoryAccess("State directory", cfg.Paths.StateDir, ReadWrite),
		CheckDirectoryAccess("Log directory", cfg.Paths.LogDir, ReadWrite),
	)
	return results
}

// ReadOnlyChecks is RunAll for commands that never write into root.
func ReadOnlyChecks(root string) []Result {
	return []Result{CheckDirectoryAccess("Input directory", root, ReadOnly)}
}

// Err joins every failed check into one error, or returns nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.Name+": "+r.Detail)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return fmt.Errorf("preflight failed: %w", errors.New(strings.Join(failed, "; ")))
}
