// Package maintenance orchestrates a full maintenance pass.
//
// It wires the pieces the CLI hands it: plugin loading against a shared
// environment, single-instance locking, tree resolution, the dispatcher
// registry, the walker, and optional run-history recording. Configuration
// and load failures abort before the walk; handler failures during the walk
// are recovered downstream and only surface here as counters.
package maintenance
