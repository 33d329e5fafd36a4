package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"fcsmerge/internal/fcs"
)

// Labels returns "Chan_A", "Chan_B", ... for the given letters.
func Labels(letters string) []string {
	out := make([]string, 0, len(letters))
	for _, r := range letters {
		out = append(out, "Chan_"+string(r))
	}
	return out
}

// Events builds a rows x cols buffer whose value at (row, col) is
// base + row*cols + col, so every cell is distinct and traceable.
func Events(rows, cols int, base float32) []float32 {
	out := make([]float32, rows*cols)
	for i := range out {
		out[i] = base + float32(i)
	}
	return out
}

// WriteFCS writes a synthetic FCS file with the given channel labels and events.
func WriteFCS(t testing.TB, path string, labels []string, events []float32) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := fcs.Write(path, labels, events); err != nil {
		t.Fatalf("write fcs %s: %v", path, err)
	}
}

// WriteFile fills path with size bytes of a repeating pattern. A size <= 0
// writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	if err := os.WriteFile(path, buf, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
