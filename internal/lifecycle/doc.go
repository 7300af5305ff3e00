// Package lifecycle owns process daemonization and log sink selection.
//
// The core consumes only the Detacher interface and the LogSink helper;
// everything else about how the process detaches from its session is an
// implementation detail kept out of the walk and dispatch logic.
package lifecycle
