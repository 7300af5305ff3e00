package plugin

import (
	"context"

	"ceresmaint/internal/ceres"
)

// Handlers is the fixed optional-handler capability set a plugin may
// implement. Nil fields mean the plugin does not handle that event.
type Handlers struct {
	MaintenanceStart    func(ctx context.Context, tree *ceres.Tree) error
	MaintenanceComplete func(ctx context.Context, tree *ceres.Tree) error
	NodeFound           func(ctx context.Context, node *ceres.Node) error
	DirectoryFound      func(ctx context.Context, path string) error
	DirectoryEmpty      func(ctx context.Context, path string) error
}

// Empty reports whether the plugin registered no handlers at all.
func (h Handlers) Empty() bool {
	return h.MaintenanceStart == nil &&
		h.MaintenanceComplete == nil &&
		h.NodeFound == nil &&
		h.DirectoryFound == nil &&
		h.DirectoryEmpty == nil
}

// SetupFunc is the load operation every plugin implements. It receives the
// explicit environment (logger, shared params, settings) and returns the
// handlers the plugin wants registered. Returning an error aborts the whole
// run before the walk starts; MissingParam and Fail build the two
// plugin-signaled error kinds.
type SetupFunc func(env *Env) (Handlers, error)

// Plugin is a loaded plugin: identity plus its immutable handler set.
type Plugin struct {
	Name     string
	Source   string
	Handlers Handlers
}
