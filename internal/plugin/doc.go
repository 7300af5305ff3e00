// Package plugin loads maintenance plugins and defines the contract they
// implement.
//
// A plugin is a SetupFunc: it receives an explicit environment (logger,
// shared params, read-only settings) and returns the optional handler set it
// wants registered for the five lifecycle events. Built-in plugins register
// themselves by name via Register from their init functions; external plugins
// are Go shared objects exporting a Setup symbol, resolved either by literal
// path or as <name>.so under the configured plugin directory.
//
// Load failures form a closed set: NotFoundError for resolution misses,
// MissingParamError and FailError for conditions the plugin body signals
// itself. All of them abort the run before the walk starts.
package plugin
