package ceres_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"ceresmaint/internal/ceres"
)

func newTestTree(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	if err := os.Mkdir(filepath.Join(root, ceres.TreeMetadataDir), 0o755); err != nil {
		t.Fatalf("create metadata dir: %v", err)
	}
	return root
}

func TestGetTreeRejectsNonTree(t *testing.T) {
	if _, err := ceres.GetTree(t.TempDir()); !errors.Is(err, ceres.ErrNotTree) {
		t.Fatalf("expected ErrNotTree, got %v", err)
	}
}

func TestGetTreeOpensValidRoot(t *testing.T) {
	root := newTestTree(t)
	tree, err := ceres.GetTree(root)
	if err != nil {
		t.Fatalf("GetTree returned error: %v", err)
	}
	if tree.Root() != root {
		t.Fatalf("unexpected root: got %q want %q", tree.Root(), root)
	}
}

func TestNodePathMapsPhysicalToLogical(t *testing.T) {
	root := newTestTree(t)
	tree, err := ceres.GetTree(root)
	if err != nil {
		t.Fatalf("GetTree returned error: %v", err)
	}

	physical := filepath.Join(root, "servers", "web01", "cpu")
	logical, err := tree.NodePath(physical)
	if err != nil {
		t.Fatalf("NodePath returned error: %v", err)
	}
	if logical != "servers.web01.cpu" {
		t.Fatalf("unexpected logical path: %q", logical)
	}
}

func TestNodePathRejectsOutsidePaths(t *testing.T) {
	root := newTestTree(t)
	tree, err := ceres.GetTree(root)
	if err != nil {
		t.Fatalf("GetTree returned error: %v", err)
	}

	if _, err := tree.NodePath(t.TempDir()); err == nil {
		t.Fatal("expected error for path outside the tree")
	}
	if _, err := tree.NodePath(root); err == nil {
		t.Fatal("expected error for the tree root itself")
	}
}

func TestIsNodeDir(t *testing.T) {
	root := newTestTree(t)
	nodeDir := filepath.Join(root, "servers", "web01", "cpu")
	if err := os.MkdirAll(nodeDir, 0o755); err != nil {
		t.Fatalf("create node dir: %v", err)
	}
	if ceres.IsNodeDir(nodeDir) {
		t.Fatal("directory without marker should not classify as node")
	}
	if err := os.WriteFile(filepath.Join(nodeDir, ceres.NodeMarkerFile), nil, 0o644); err != nil {
		t.Fatalf("write marker: %v", err)
	}
	if !ceres.IsNodeDir(nodeDir) {
		t.Fatal("directory with marker should classify as node")
	}
}
