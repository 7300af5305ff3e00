// Package logging builds the slog loggers used across ceresmaint.
//
// It provides a console handler for interactive runs, a JSON handler for
// piped or daemonized output, typed attribute helpers, and the standardized
// field names (component, run_id, event, plugin, path, node) the dispatcher
// and walker attach to their records. Plugins receive loggers built here so
// handler failures and plugin output land in the same sink.
package logging
