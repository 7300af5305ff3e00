// Package dispatch fans maintenance lifecycle events out to plugin handlers.
//
// The dispatcher keeps an ordered handler list per event, built once while
// plugins load and read-only afterwards. Dispatch recovers handler errors and
// panics at its boundary so one misbehaving plugin never aborts the walk or
// starves the handlers registered after it.
package dispatch
