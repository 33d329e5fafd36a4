package runlock

import (
	"errors"
	"fmt"
	"hash/fnv"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"

	"fcsmerge/internal/textutil"
)

// ErrLocked is returned when another process already holds the lock for root.
var ErrLocked = errors.New("another merge is already running for this directory")

// Lock is an exclusive advisory lock on one input root.
type Lock struct {
	path string
	lock *flock.Flock
}

// Path derives the lock file for root inside dir. The name keeps a readable
// tail of the root and a hash of the full path, so distinct roots never share
// a lock.
func Path(dir, root string) string {
	abs, err := filepath.Abs(root)
	if err != nil {
		abs = root
	}
	abs = filepath.Clean(abs)
	h := fnv.New32a()
	_, _ = h.Write([]byte(abs))
	return filepath.Join(dir, fmt.Sprintf("%s-%08x.lock", textutil.SanitizeToken(filepath.Base(abs)), h.Sum32()))
}

// Acquire takes the lock for root without blocking.
func Acquire(dir, root string) (*Lock, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create lock dir: %w", err)
	}
	path := Path(dir, root)
	l := &Lock{path: path, lock: flock.New(path)}
	ok, err := l.lock.TryLock()
	if err != nil {
		return nil, fmt.Errorf("acquire lock: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%w (%s)", ErrLocked, path)
	}
	return l, nil
}

// Path returns the lock file path.
func (l *Lock) Path() string { return l.path }

// Release drops the lock. The lock file stays on disk; removing it would race
// with a concurrent Acquire.
func (l *Lock) Release() error {
	if l == nil || l.lock == nil {
		return nil
	}
	return l.lock.Unlock()
}
