package walker

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"ceresmaint/internal/ceres"
	"ceresmaint/internal/dispatch"
	"ceresmaint/internal/logging"
)

// DefaultWorkers is the node dispatch concurrency used when none is configured.
const DefaultWorkers = 4

// Stats aggregates what a walk visited and how the handlers fared.
type Stats struct {
	Nodes            int
	Directories      int
	EmptyDirectories int
	HandlerFailures  int
}

// Walker performs the depth-first maintenance traversal over a tree,
// dispatching directory events synchronously from the coordinating goroutine
// and node_found dispatches on a bounded worker pool.
type Walker struct {
	tree       *ceres.Tree
	dispatcher *dispatch.Dispatcher
	logger     *slog.Logger
	workers    int

	wg  sync.WaitGroup
	sem chan struct{}

	mu    sync.Mutex
	stats Stats
}

// New constructs a walker. Worker counts below one fall back to DefaultWorkers.
func New(tree *ceres.Tree, dispatcher *dispatch.Dispatcher, logger *slog.Logger, workers int) *Walker {
	if workers < 1 {
		workers = DefaultWorkers
	}
	return &Walker{
		tree:       tree,
		dispatcher: dispatcher,
		logger:     logging.NewComponentLogger(logger, "walker"),
		workers:    workers,
	}
}

// Run executes one full maintenance pass: maintenance_start, the traversal,
// a drain of all submitted node dispatches, then maintenance_complete. The
// ordering guarantees are exactly those three fences; node dispatches run
// concurrently with the walk and with each other.
func (w *Walker) Run(ctx context.Context) Stats {
	w.sem = make(chan struct{}, w.workers)

	w.addFailures(w.dispatcher.Dispatch(ctx, dispatch.MaintenanceStart, dispatch.Payload{Tree: w.tree}))

	w.walk(ctx, w.tree.Root())

	w.wg.Wait()
	w.addFailures(w.dispatcher.Dispatch(ctx, dispatch.MaintenanceComplete, dispatch.Payload{Tree: w.tree}))

	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

// walk visits the subdirectories of dir in sorted name order, skipping the
// reserved metadata directory.
func (w *Walker) walk(ctx context.Context, dir string) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		w.logger.Warn("cannot read directory", logging.String(logging.FieldPath, dir), logging.Error(err))
		return
	}
	for _, entry := range entries {
		if !entry.IsDir() || entry.Name() == ceres.TreeMetadataDir {
			continue
		}
		w.visit(ctx, filepath.Join(dir, entry.Name()))
	}
}

// visit classifies one directory as exactly one of node, directory, or empty
// directory, and dispatches accordingly.
func (w *Walker) visit(ctx context.Context, path string) {
	if ceres.IsNodeDir(path) {
		w.visitNode(ctx, path)
		return
	}

	empty, ok := w.isEmpty(path)
	if !ok {
		return
	}
	if empty {
		w.count(func(s *Stats) { s.EmptyDirectories++ })
		w.addFailures(w.dispatcher.Dispatch(ctx, dispatch.DirectoryEmpty, dispatch.Payload{Path: path}))
		return
	}

	w.count(func(s *Stats) { s.Directories++ })
	w.addFailures(w.dispatcher.Dispatch(ctx, dispatch.DirectoryFound, dispatch.Payload{Path: path}))

	// A directory_found handler may have emptied the directory; re-check
	// before descending so the same visit also reports the emptiness.
	empty, ok = w.isEmpty(path)
	if !ok {
		return
	}
	if empty {
		w.count(func(s *Stats) { s.EmptyDirectories++ })
		w.addFailures(w.dispatcher.Dispatch(ctx, dispatch.DirectoryEmpty, dispatch.Payload{Path: path}))
		return
	}
	w.walk(ctx, path)
}

// visitNode resolves the logical path and submits the whole node_found
// dispatch to the pool. Node directories are leaves and are not descended.
func (w *Walker) visitNode(ctx context.Context, path string) {
	logical, err := w.tree.NodePath(path)
	if err != nil {
		w.logger.Warn("cannot resolve node path", logging.String(logging.FieldPath, path), logging.Error(err))
		return
	}
	node := ceres.NewNode(w.tree, logical, path)
	w.count(func(s *Stats) { s.Nodes++ })

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.sem <- struct{}{}
		defer func() { <-w.sem }()
		w.addFailures(w.dispatcher.Dispatch(ctx, dispatch.NodeFound, dispatch.Payload{Tree: w.tree, Node: node}))
	}()
}

func (w *Walker) isEmpty(path string) (empty bool, ok bool) {
	entries, err := os.ReadDir(path)
	if err != nil {
		w.logger.Warn("cannot read directory", logging.String(logging.FieldPath, path), logging.Error(err))
		return false, false
	}
	return len(entries) == 0, true
}

func (w *Walker) count(update func(*Stats)) {
	w.mu.Lock()
	defer w.mu.Unlock()
	update(&w.stats)
}

func (w *Walker) addFailures(n int) {
	if n == 0 {
		return
	}
	w.count(func(s *Stats) { s.HandlerFailures += n })
}
