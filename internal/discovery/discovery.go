// Package discovery lists the container files a merge run should consume.
package discovery

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// Options controls which files under a root are selected.
type Options struct {
	// Pattern is a filepath.Match pattern applied to base names, e.g. "*.fcs".
	Pattern string
	// Exclude removes files whose base name matches any of the patterns,
	// e.g. earlier merge outputs.
	Exclude []string
	// Recursive descends into subdirectories when true.
	Recursive bool
}

// Find returns the absolute paths of matching regular files under root in
// lexicographic order.
func Find(root string, opts Options) ([]string, error) {
	root = strings.TrimSpace(root)
	if root == "" {
		return nil, errors.New("discovery root is required")
	}
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("resolve root %q: %w", root, err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("inspect root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", abs)
	}
	pattern := opts.Pattern
	if pattern == "" {
		pattern = "*"
	}
	if _, err := filepath.Match(pattern, ""); err != nil {
		return nil, fmt.Errorf("discovery pattern %q: %w", pattern, err)
	}
	for _, exclude := range opts.Exclude {
		if _, err := filepath.Match(exclude, ""); err != nil {
			return nil, fmt.Errorf("discovery exclude %q: %w", exclude, err)
		}
	}

	var paths []string
	err = filepath.WalkDir(abs, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return walkErr
		}
		if d.IsDir() {
			if path != abs && !opts.Recursive {
				return filepath.SkipDir
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		if selected(d.Name(), pattern, opts.Exclude) {
			paths = append(paths, path)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("walk %s: %w", abs, err)
	}
	sort.Strings(paths)
	return paths, nil
}

func selected(name, pattern string, excludes []string) bool {
	if ok, _ := filepath.Match(pattern, name); !ok {
		return false
	}
	for _, exclude := range excludes {
		if exclude == "" {
			continue
		}
		if skip, _ := filepath.Match(exclude, name); skip {
			return false
		}
	}
	return true
}
