// Package walker schedules the maintenance traversal over a ceres tree.
//
// One coordinating goroutine walks the hierarchy depth-first, visiting
// subdirectory names in sorted order and skipping the reserved metadata
// directory. Each visited directory classifies as exactly one of node
// (carries the leaf marker), non-empty directory, or empty directory.
// Directory events dispatch synchronously in traversal order; node_found
// dispatches are submitted to a bounded worker pool and run concurrently
// with the walk. maintenance_start precedes every per-entry event and
// maintenance_complete fires only after the pool has fully drained.
package walker
