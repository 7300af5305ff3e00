package dispatch

import (
	"context"
	"fmt"
	"log/slog"
	"runtime/debug"

	"ceresmaint/internal/ceres"
	"ceresmaint/internal/logging"
)

// Event names the five maintenance lifecycle points.
type Event string

const (
	MaintenanceStart    Event = "maintenance_start"
	MaintenanceComplete Event = "maintenance_complete"
	NodeFound           Event = "node_found"
	DirectoryFound      Event = "directory_found"
	DirectoryEmpty      Event = "directory_empty"
)

// Payload carries the argument for a dispatch. Which field is set depends on
// the event: Tree for maintenance_start/complete, Node for node_found, Path
// for the directory events.
type Payload struct {
	Tree *ceres.Tree
	Node *ceres.Node
	Path string
}

// HandlerFunc is a registered callable for one event.
type HandlerFunc func(ctx context.Context, p Payload) error

type handler struct {
	plugin string
	fn     HandlerFunc
}

// Dispatcher maps events onto ordered handler lists. Registration happens
// during the load phase only; Dispatch is safe for concurrent use once
// registration has finished.
type Dispatcher struct {
	logger   *slog.Logger
	handlers map[Event][]handler
}

// New constructs an empty dispatcher logging handler failures to logger.
func New(logger *slog.Logger) *Dispatcher {
	return &Dispatcher{
		logger:   logging.NewComponentLogger(logger, "dispatch"),
		handlers: make(map[Event][]handler),
	}
}

// AddHandler appends fn to the ordered handler list for event. Handlers are
// never replaced; the same event may carry handlers from many plugins, all
// retained in registration order.
func (d *Dispatcher) AddHandler(event Event, pluginName string, fn HandlerFunc) {
	if fn == nil {
		return
	}
	d.handlers[event] = append(d.handlers[event], handler{plugin: pluginName, fn: fn})
}

// HandlerCount returns the number of handlers registered for event.
func (d *Dispatcher) HandlerCount(event Event) int {
	return len(d.handlers[event])
}

// Dispatch invokes every handler registered for event, in registration
// order. A handler error or panic is recovered here, logged with the event
// and plugin names, and does not stop the remaining handlers; nothing
// escapes Dispatch. The return value is the number of failed handlers, kept
// only for run-summary accounting.
func (d *Dispatcher) Dispatch(ctx context.Context, event Event, p Payload) int {
	failures := 0
	for _, h := range d.handlers[event] {
		if d.invoke(ctx, event, h, p) {
			failures++
		}
	}
	return failures
}

func (d *Dispatcher) invoke(ctx context.Context, event Event, h handler, p Payload) (failed bool) {
	defer func() {
		if r := recover(); r != nil {
			failed = true
			d.logger.Error("handler panicked",
				logging.String(logging.FieldEvent, string(event)),
				logging.String(logging.FieldPlugin, h.plugin),
				logging.Any("panic", r),
				logging.String("stack", string(debug.Stack())),
			)
		}
	}()

	if err := h.fn(ctx, p); err != nil {
		d.logger.Error("handler failed",
			logging.String(logging.FieldEvent, string(event)),
			logging.String(logging.FieldPlugin, h.plugin),
			logging.Error(err),
		)
		return true
	}
	return false
}

// Describe returns a short human-readable argument for log records.
func (p Payload) Describe() string {
	switch {
	case p.Node != nil:
		return p.Node.Path()
	case p.Path != "":
		return p.Path
	case p.Tree != nil:
		return p.Tree.Root()
	default:
		return fmt.Sprintf("%v", p)
	}
}
