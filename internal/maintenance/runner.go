package maintenance

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"ceresmaint/internal/ceres"
	"ceresmaint/internal/config"
	"ceresmaint/internal/dispatch"
	"ceresmaint/internal/history"
	"ceresmaint/internal/lock"
	"ceresmaint/internal/logging"
	"ceresmaint/internal/plugin"
	"ceresmaint/internal/walker"
)

// Options configures one maintenance run.
type Options struct {
	Config     *config.Config
	Logger     *slog.Logger
	RunID      string
	PluginRefs []string
	// Params are the command line key=value pairs, overriding config defaults.
	Params map[string]string
	// LockGuard overrides the guard built from the configured lock file,
	// letting tests shrink the retry budget.
	LockGuard *lock.Guard
}

// Result summarizes a completed run.
type Result struct {
	RunID    string
	Root     string
	Plugins  []string
	Stats    walker.Stats
	Duration time.Duration
}

// Run executes one full maintenance pass: load plugins, take the lock, open
// the tree, walk it, and record history. Every pre-walk failure aborts with
// an error; handler failures during the walk are recovered and counted.
func Run(ctx context.Context, opts Options) (*Result, error) {
	cfg := opts.Config
	if cfg == nil {
		return nil, errors.New("maintenance requires configuration")
	}
	if len(opts.PluginRefs) == 0 {
		return nil, errors.New("no plugins specified")
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}

	params := plugin.NewParams(cfg.Params)
	for key, value := range opts.Params {
		params.Set(key, value)
	}
	env := plugin.NewEnv(logging.NewComponentLogger(logger, "plugin"), params, cfg.Settings())

	plugins, err := plugin.LoadAll(opts.PluginRefs, cfg.Paths.PluginDir, env)
	if err != nil {
		return nil, err
	}

	guard := opts.LockGuard
	if guard == nil && cfg.Paths.LockFile != "" {
		guard = lock.New(cfg.Paths.LockFile)
	}
	if guard != nil {
		if err := guard.Acquire(ctx); err != nil {
			return nil, err
		}
		// Held for the rest of the process; the explicit release on return
		// only matters to embedders running several passes.
		defer func() {
			if err := guard.Release(); err != nil {
				logger.Warn("failed to release lock", logging.Error(err))
			}
		}()
	}

	tree, err := ceres.GetTree(cfg.Paths.RootDir)
	if err != nil {
		return nil, err
	}

	d := dispatch.New(logger)
	names := make([]string, 0, len(plugins))
	for _, p := range plugins {
		registerHandlers(d, p)
		names = append(names, p.Name)
		logger.Info("plugin loaded",
			logging.String(logging.FieldPlugin, p.Name),
			logging.String("source", p.Source),
		)
	}

	var hist *history.Store
	if cfg.History.Enabled {
		hist, err = history.Open(cfg.History.Path)
		if err != nil {
			return nil, err
		}
		defer hist.Close()
		if err := hist.StartRun(ctx, opts.RunID, tree.Root(), names); err != nil {
			logger.Warn("history record failed", logging.Error(err))
			hist = nil
		}
	}

	logger.Info("maintenance starting",
		logging.String(logging.FieldPath, tree.Root()),
		logging.Int("workers", cfg.Walk.Workers),
		logging.Int("plugins", len(plugins)),
	)

	started := time.Now()
	stats := walker.New(tree, d, logger, cfg.Walk.Workers).Run(ctx)
	duration := time.Since(started)

	if hist != nil {
		if err := hist.FinishRun(ctx, opts.RunID, history.Counters{
			Nodes:            stats.Nodes,
			Directories:      stats.Directories,
			EmptyDirectories: stats.EmptyDirectories,
			HandlerFailures:  stats.HandlerFailures,
		}); err != nil {
			logger.Warn("history record failed", logging.Error(err))
		}
	}

	logger.Info("maintenance finished",
		logging.Int("nodes", stats.Nodes),
		logging.Int("directories", stats.Directories),
		logging.Int("empty_directories", stats.EmptyDirectories),
		logging.Int("handler_failures", stats.HandlerFailures),
		logging.Duration("duration", duration),
	)

	return &Result{
		RunID:    opts.RunID,
		Root:     tree.Root(),
		Plugins:  names,
		Stats:    stats,
		Duration: duration,
	}, nil
}

// registerHandlers binds a plugin's optional handler set into the dispatcher,
// adapting each handler onto the event payload it consumes.
func registerHandlers(d *dispatch.Dispatcher, p *plugin.Plugin) {
	h := p.Handlers
	if h.MaintenanceStart != nil {
		d.AddHandler(dispatch.MaintenanceStart, p.Name, func(ctx context.Context, pl dispatch.Payload) error {
			return h.MaintenanceStart(ctx, pl.Tree)
		})
	}
	if h.MaintenanceComplete != nil {
		d.AddHandler(dispatch.MaintenanceComplete, p.Name, func(ctx context.Context, pl dispatch.Payload) error {
			return h.MaintenanceComplete(ctx, pl.Tree)
		})
	}
	if h.NodeFound != nil {
		d.AddHandler(dispatch.NodeFound, p.Name, func(ctx context.Context, pl dispatch.Payload) error {
			return h.NodeFound(ctx, pl.Node)
		})
	}
	if h.DirectoryFound != nil {
		d.AddHandler(dispatch.DirectoryFound, p.Name, func(ctx context.Context, pl dispatch.Payload) error {
			return h.DirectoryFound(ctx, pl.Path)
		})
	}
	if h.DirectoryEmpty != nil {
		d.AddHandler(dispatch.DirectoryEmpty, p.Name, func(ctx context.Context, pl dispatch.Payload) error {
			return h.DirectoryEmpty(ctx, pl.Path)
		})
	}
}

// ParseParams splits command line key=value arguments into a map, rejecting
// malformed entries.
func ParseParams(args []string) (map[string]string, error) {
	params := make(map[string]string, len(args))
	for _, arg := range args {
		key, value, ok := strings.Cut(arg, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("parameter %q is not of the form key=value", arg)
		}
		params[key] = value
	}
	return params, nil
}
