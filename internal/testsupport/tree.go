package testsupport

import (
	"os"
	"path/filepath"
	"testing"

	"ceresmaint/internal/ceres"
)

// NewTreeRoot creates a valid ceres tree root (with its metadata directory)
// under a per-test temp directory and returns its path.
func NewTreeRoot(t testing.TB) string {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ceres.TreeMetadataDir), 0o755); err != nil {
		t.Fatalf("create metadata dir: %v", err)
	}
	return root
}

// AddNode creates a node directory (with its leaf marker) at rel under root.
func AddNode(t testing.TB, root, rel string) string {
	t.Helper()
	dir := AddDir(t, root, rel)
	WriteFile(t, filepath.Join(dir, ceres.NodeMarkerFile), nil)
	return dir
}

// AddDir creates a plain directory at rel under root.
func AddDir(t testing.TB, root, rel string) string {
	t.Helper()
	dir := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", dir, err)
	}
	return dir
}

// WriteFile writes contents to path, creating parent directories as needed.
func WriteFile(t testing.TB, path string, contents []byte) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, contents, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}
