package ceres

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	// TreeMetadataDir marks the root of a ceres tree and is reserved at
	// every level of the hierarchy.
	TreeMetadataDir = ".ceres-tree"
	// NodeMarkerFile marks a directory as a leaf storage node.
	NodeMarkerFile = ".ceres-node"
)

// ErrNotTree reports that a path is not the root of a ceres tree.
var ErrNotTree = errors.New("not a ceres tree")

// Tree is a handle over an on-disk ceres storage hierarchy.
type Tree struct {
	root string
}

// GetTree opens the tree rooted at rootPath. The root must contain the
// reserved metadata directory.
func GetTree(rootPath string) (*Tree, error) {
	root, err := filepath.Abs(filepath.Clean(rootPath))
	if err != nil {
		return nil, fmt.Errorf("resolve tree root %q: %w", rootPath, err)
	}
	info, err := os.Stat(filepath.Join(root, TreeMetadataDir))
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s", ErrNotTree, root)
	}
	return &Tree{root: root}, nil
}

// Root returns the absolute filesystem path of the tree root.
func (t *Tree) Root() string {
	return t.root
}

// NodePath maps a physical directory inside the tree onto its logical
// dotted metric path.
func (t *Tree) NodePath(physicalPath string) (string, error) {
	abs, err := filepath.Abs(filepath.Clean(physicalPath))
	if err != nil {
		return "", fmt.Errorf("resolve node path %q: %w", physicalPath, err)
	}
	rel, err := filepath.Rel(t.root, abs)
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("path %s is outside tree %s", abs, t.root)
	}
	if rel == "." {
		return "", fmt.Errorf("tree root %s is not a node", t.root)
	}
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "."), nil
}

// IsNodeDir reports whether dir carries the leaf marker file.
func IsNodeDir(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, NodeMarkerFile))
	return err == nil && !info.IsDir()
}

// Node is a short-lived handle over a leaf storage unit. It is constructed
// per classified directory during a walk and is not retained afterwards.
type Node struct {
	tree     *Tree
	logical  string
	physical string
}

// NewNode builds a node handle from its tree and resolved paths.
func NewNode(tree *Tree, logicalPath, physicalPath string) *Node {
	return &Node{tree: tree, logical: logicalPath, physical: physicalPath}
}

// Tree returns the tree the node belongs to.
func (n *Node) Tree() *Tree { return n.tree }

// Path returns the logical dotted metric path.
func (n *Node) Path() string { return n.logical }

// FSPath returns the physical directory backing the node.
func (n *Node) FSPath() string { return n.physical }

func (n *Node) String() string { return n.logical }
