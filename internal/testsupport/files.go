package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
)

// Pattern returns size bytes cycling through 0..250.
func Pattern(size int) []byte {
	b := make([]byte, size)
	for i := range b {
		b[i] = byte(i % 251)
	}
	return b
}

// WriteFile writes data to path on fsys, creating parent directories.
func WriteFile(t testing.TB, fsys afero.Fs, path string, data []byte) {
	t.Helper()

	if err := fsys.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := afero.WriteFile(fsys, path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteOSFile writes size pattern bytes to a real file and returns its path.
func WriteOSFile(t testing.TB, dir, name string, size int) string {
	t.Helper()

	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, Pattern(size), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
	return path
}
