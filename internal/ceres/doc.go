// Package ceres provides the thin handle layer over an on-disk ceres-style
// storage tree that the walker consumes.
//
// It knows the two load-bearing constants of the storage contract (the
// .ceres-tree metadata directory and the .ceres-node leaf marker), resolves
// physical directories to logical dotted metric paths, and builds the opaque
// Node handles passed into node_found dispatches. The storage format itself
// (slice files, rollup schemas) lives outside this repository.
package ceres
