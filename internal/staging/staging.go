package staging

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
)

// PartialSuffix marks an output that has not yet passed verification.
const PartialSuffix = ".partial"

// PartialPath returns the staging path used while final is being written.
// It sits beside final so promotion is a same-directory rename.
func PartialPath(final string) string {
	return final + PartialSuffix
}

// IsPartial reports whether name carries the staging suffix.
func IsPartial(name string) bool {
	return strings.HasSuffix(name, PartialSuffix)
}

// Promote atomically moves a verified partial file to its final name.
// An existing file at final is replaced.
func Promote(partial, final string) error {
	if partial == final {
		return fmt.Errorf("promote %s: source and destination are the same", partial)
	}
	if err := os.Rename(partial, final); err != nil {
		return fmt.Errorf("promote %s: %w", filepath.Base(final), err)
	}
	syncDir(filepath.Dir(final))
	return nil
}

// Discard removes a partial file. A missing file is not an error.
func Discard(partial string) error {
	if err := os.Remove(partial); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("discard %s: %w", filepath.Base(partial), err)
	}
	return nil
}

// syncDir flushes the directory entry after a rename; failures are ignored
// because not every filesystem supports syncing directories.
func syncDir(dir string) {
	d, err := os.Open(dir)
	if err != nil {
		return
	}
	_ = d.Sync()
	_ = d.Close()
}
