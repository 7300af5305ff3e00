package maintenance_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ceresmaint/internal/config"
	"ceresmaint/internal/history"
	"ceresmaint/internal/lock"
	"ceresmaint/internal/maintenance"
	"ceresmaint/internal/plugin"
	"ceresmaint/internal/testsupport"

	_ "ceresmaint/internal/plugins/nodestat"
	_ "ceresmaint/internal/plugins/removeempty"
)

func testConfig(t *testing.T, root string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Paths.RootDir = root
	cfg.Paths.PluginDir = t.TempDir()
	return &cfg
}

func TestRunExecutesBuiltinsEndToEnd(t *testing.T) {
	root := testsupport.NewTreeRoot(t)
	testsupport.AddNode(t, root, "servers/web01/cpu")
	testsupport.AddDir(t, root, "orphaned")

	result, err := maintenance.Run(context.Background(), maintenance.Options{
		Config:     testConfig(t, root),
		RunID:      "test-run",
		PluginRefs: []string{"removeempty", "nodestat"},
	})
	if err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	if result.Stats.Nodes != 1 || result.Stats.EmptyDirectories != 1 {
		t.Fatalf("unexpected stats: %+v", result.Stats)
	}
	if result.Stats.HandlerFailures != 0 {
		t.Fatalf("unexpected handler failures: %+v", result.Stats)
	}
	if _, err := os.Stat(filepath.Join(root, "orphaned")); !os.IsNotExist(err) {
		t.Fatalf("removeempty should have deleted the empty directory: %v", err)
	}
	if len(result.Plugins) != 2 {
		t.Fatalf("unexpected plugin names: %v", result.Plugins)
	}
}

func TestRunRequiresPlugins(t *testing.T) {
	root := testsupport.NewTreeRoot(t)
	_, err := maintenance.Run(context.Background(), maintenance.Options{
		Config: testConfig(t, root),
		RunID:  "test-run",
	})
	if err == nil || !strings.Contains(err.Error(), "no plugins") {
		t.Fatalf("expected zero-plugin error, got %v", err)
	}
}

func TestRunRejectsInvalidTreeRoot(t *testing.T) {
	_, err := maintenance.Run(context.Background(), maintenance.Options{
		Config:     testConfig(t, t.TempDir()),
		RunID:      "test-run",
		PluginRefs: []string{"removeempty"},
	})
	if err == nil {
		t.Fatal("expected error for invalid tree root")
	}
}

func TestRunFailsFastOnUnknownPlugin(t *testing.T) {
	root := testsupport.NewTreeRoot(t)
	_, err := maintenance.Run(context.Background(), maintenance.Options{
		Config:     testConfig(t, root),
		RunID:      "test-run",
		PluginRefs: []string{"no-such-plugin"},
	})
	var notFound *plugin.NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("expected NotFoundError, got %v", err)
	}
}

func TestRunAbortsOnLockTimeout(t *testing.T) {
	root := testsupport.NewTreeRoot(t)
	cfg := testConfig(t, root)
	lockFile := filepath.Join(t.TempDir(), "maintenance.lock")

	holder := lock.New(lockFile)
	if err := holder.Acquire(context.Background()); err != nil {
		t.Fatalf("holder Acquire returned error: %v", err)
	}
	defer holder.Release()

	_, err := maintenance.Run(context.Background(), maintenance.Options{
		Config:     cfg,
		RunID:      "test-run",
		PluginRefs: []string{"removeempty"},
		LockGuard:  lock.NewWithRetry(lockFile, 2, 5*time.Millisecond),
	})
	var timeout *lock.TimeoutError
	if !errors.As(err, &timeout) {
		t.Fatalf("expected TimeoutError, got %v", err)
	}
}

func TestRunRecordsHistory(t *testing.T) {
	root := testsupport.NewTreeRoot(t)
	testsupport.AddNode(t, root, "a")

	cfg := testConfig(t, root)
	cfg.History.Enabled = true
	cfg.History.Path = filepath.Join(t.TempDir(), "history.db")

	if _, err := maintenance.Run(context.Background(), maintenance.Options{
		Config:     cfg,
		RunID:      "hist-run",
		PluginRefs: []string{"nodestat"},
	}); err != nil {
		t.Fatalf("Run returned error: %v", err)
	}

	store, err := history.Open(cfg.History.Path)
	if err != nil {
		t.Fatalf("open history: %v", err)
	}
	defer store.Close()

	runs, err := store.RecentRuns(context.Background(), 5)
	if err != nil {
		t.Fatalf("RecentRuns returned error: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "hist-run" {
		t.Fatalf("unexpected history: %+v", runs)
	}
	if runs[0].FinishedAt == nil || runs[0].Nodes != 1 {
		t.Fatalf("run not finished correctly: %+v", runs[0])
	}
}

func TestParseParams(t *testing.T) {
	params, err := maintenance.ParseParams([]string{"max_age=3600", "note=a=b"})
	if err != nil {
		t.Fatalf("ParseParams returned error: %v", err)
	}
	if params["max_age"] != "3600" || params["note"] != "a=b" {
		t.Fatalf("unexpected params: %v", params)
	}

	for _, bad := range []string{"noequals", "=value"} {
		if _, err := maintenance.ParseParams([]string{bad}); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
