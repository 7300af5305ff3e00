// Package removeempty deletes empty directories left behind by retention
// policies or by other plugins earlier in the handler chain.
package removeempty

import (
	"context"
	"fmt"
	"os"

	"ceresmaint/internal/logging"
	"ceresmaint/internal/plugin"
)

func init() {
	plugin.Register("removeempty", Setup)
}

// Setup registers the directory_empty handler. The "removeempty.dry_run"
// param turns deletion into a log line, for rehearsing a cleanup.
func Setup(env *plugin.Env) (plugin.Handlers, error) {
	return plugin.Handlers{
		DirectoryEmpty: func(ctx context.Context, path string) error {
			if dry, _ := env.Params.Get("removeempty.dry_run"); dry == "true" {
				env.Log.Info("would remove empty directory", logging.String(logging.FieldPath, path))
				return nil
			}
			if err := os.Remove(path); err != nil {
				return fmt.Errorf("remove empty directory: %w", err)
			}
			env.Log.Info("removed empty directory", logging.String(logging.FieldPath, path))
			return nil
		},
	}, nil
}
