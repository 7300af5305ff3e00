// Package nodestat aggregates per-node size statistics during a walk and
// reports totals when maintenance completes.
package nodestat

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"ceresmaint/internal/ceres"
	"ceresmaint/internal/logging"
	"ceresmaint/internal/plugin"
)

func init() {
	plugin.Register("nodestat", Setup)
}

// Setup registers node_found and maintenance_complete handlers. With the
// "nodestat.verbose" param set to "true" every node logs its own line;
// totals always appear at completion and are written back into the shared
// params under "nodestat.nodes" and "nodestat.bytes".
func Setup(env *plugin.Env) (plugin.Handlers, error) {
	var (
		mu         sync.Mutex
		nodes      int
		totalBytes int64
	)
	verbose, _ := env.Params.Get("nodestat.verbose")

	return plugin.Handlers{
		NodeFound: func(ctx context.Context, node *ceres.Node) error {
			size, err := nodeSize(node.FSPath())
			if err != nil {
				return err
			}
			mu.Lock()
			nodes++
			totalBytes += size
			mu.Unlock()
			if verbose == "true" {
				env.Log.Info("node measured",
					logging.String(logging.FieldNode, node.Path()),
					logging.Int64("bytes", size),
				)
			}
			return nil
		},
		MaintenanceComplete: func(ctx context.Context, tree *ceres.Tree) error {
			mu.Lock()
			defer mu.Unlock()
			env.Params.Set("nodestat.nodes", fmt.Sprintf("%d", nodes))
			env.Params.Set("nodestat.bytes", fmt.Sprintf("%d", totalBytes))
			env.Log.Info("node statistics",
				logging.String(logging.FieldPath, tree.Root()),
				logging.Int("nodes", nodes),
				logging.Int64("bytes", totalBytes),
			)
			return nil
		},
	}, nil
}

// nodeSize sums the sizes of the regular files directly inside a node
// directory. Nodes are leaves, so no recursion is needed.
func nodeSize(dir string) (int64, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return 0, fmt.Errorf("read node directory: %w", err)
	}
	var total int64
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		info, err := os.Lstat(filepath.Join(dir, entry.Name()))
		if err != nil {
			continue
		}
		total += info.Size()
	}
	return total, nil
}
