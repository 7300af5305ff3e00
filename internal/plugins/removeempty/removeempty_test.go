package removeempty_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"ceresmaint/internal/plugin"
	"ceresmaint/internal/plugins/removeempty"
)

func TestSetupRegistersOnlyDirectoryEmpty(t *testing.T) {
	handlers, err := removeempty.Setup(plugin.NewEnv(nil, nil, nil))
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if handlers.DirectoryEmpty == nil {
		t.Fatal("expected directory_empty handler")
	}
	if handlers.NodeFound != nil || handlers.DirectoryFound != nil {
		t.Fatal("expected no other handlers")
	}
}

func TestDirectoryEmptyHandlerRemovesDirectory(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "stale")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	handlers, err := removeempty.Setup(plugin.NewEnv(nil, nil, nil))
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if err := handlers.DirectoryEmpty(context.Background(), dir); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if _, err := os.Stat(dir); !os.IsNotExist(err) {
		t.Fatalf("expected directory removed, stat err: %v", err)
	}
}

func TestDryRunLeavesDirectoryAlone(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "stale")
	if err := os.Mkdir(dir, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	params := plugin.NewParams(map[string]string{"removeempty.dry_run": "true"})
	handlers, err := removeempty.Setup(plugin.NewEnv(nil, params, nil))
	if err != nil {
		t.Fatalf("Setup returned error: %v", err)
	}
	if err := handlers.DirectoryEmpty(context.Background(), dir); err != nil {
		t.Fatalf("handler returned error: %v", err)
	}
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("dry run must not delete: %v", err)
	}
}
