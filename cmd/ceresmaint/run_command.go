package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"ceresmaint/internal/config"
	"ceresmaint/internal/lifecycle"
	"ceresmaint/internal/logging"
	"ceresmaint/internal/maintenance"
)

func newRunCommand(configFlag *string) *cobra.Command {
	var (
		rootFlag      string
		pluginDirFlag string
		workersFlag   int
		lockFlag      string
		logFileFlag   string
		daemonFlag    bool
	)

	cmd := &cobra.Command{
		Use:   "run [flags] plugin... [key=value...]",
		Short: "Run one maintenance pass over a storage tree",
		Long: `Run loads the named plugins, walks the storage tree depth-first, and
dispatches lifecycle events to every registered handler. Arguments without
an equals sign are plugin references (built-in names, bare names resolved
as <name>.so under the plugin directory, or literal shared object paths);
arguments of the form key=value become parameters shared by all plugins.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, _, _, err := config.Load(*configFlag)
			if err != nil {
				return err
			}
			applyRunFlags(cfg, cmd, rootFlag, pluginDirFlag, workersFlag, lockFlag, logFileFlag)
			if err := cfg.Validate(); err != nil {
				return err
			}
			if strings.TrimSpace(cfg.Paths.RootDir) == "" {
				return fmt.Errorf("storage tree root is required (set --root or paths.root_dir)")
			}

			refs, paramArgs := splitRunArgs(args)
			if len(refs) == 0 {
				return fmt.Errorf("no plugins specified")
			}
			params, err := maintenance.ParseParams(paramArgs)
			if err != nil {
				return err
			}

			var detacher lifecycle.Detacher = lifecycle.NullDetacher{}
			if daemonFlag {
				detacher = lifecycle.SessionDetacher{}
			}
			keepRunning, err := detacher.Detach()
			if err != nil {
				return err
			}
			if !keepRunning {
				fmt.Fprintln(cmd.OutOrStdout(), "maintenance continuing in background")
				return nil
			}

			if err := cfg.EnsureDirectories(); err != nil {
				return err
			}
			sink, err := lifecycle.LogSink(cfg.Paths.LogFile, daemonFlag)
			if err != nil {
				return err
			}
			defer sink.Close()

			logger, err := logging.New(logging.Options{
				Level:  cfg.Logging.Level,
				Format: cfg.Logging.Format,
				Output: sink,
			})
			if err != nil {
				return err
			}

			runID := uuid.NewString()
			logger = logger.With(logging.String(logging.FieldRunID, runID))

			result, err := maintenance.Run(cmd.Context(), maintenance.Options{
				Config:     cfg,
				Logger:     logger,
				RunID:      runID,
				PluginRefs: refs,
				Params:     params,
			})
			if err != nil {
				return err
			}

			if !daemonFlag {
				fmt.Fprintln(cmd.OutOrStdout(), renderSummary(result))
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&rootFlag, "root", "", "Root of the storage tree to maintain")
	cmd.Flags().StringVar(&pluginDirFlag, "plugin-dir", "", "Directory searched for <name>.so plugins")
	cmd.Flags().IntVar(&workersFlag, "workers", 0, "Node dispatch worker count")
	cmd.Flags().StringVar(&lockFlag, "lock", "", "Lock file enforcing single-instance execution")
	cmd.Flags().StringVar(&logFileFlag, "log-file", "", "Log file path")
	cmd.Flags().BoolVar(&daemonFlag, "daemon", false, "Detach and run in the background")

	return cmd
}

func applyRunFlags(cfg *config.Config, cmd *cobra.Command, root, pluginDir string, workers int, lockFile, logFile string) {
	if cmd.Flags().Changed("root") {
		cfg.Paths.RootDir = root
	}
	if cmd.Flags().Changed("plugin-dir") {
		cfg.Paths.PluginDir = pluginDir
	}
	if cmd.Flags().Changed("workers") {
		cfg.Walk.Workers = workers
	}
	if cmd.Flags().Changed("lock") {
		cfg.Paths.LockFile = lockFile
	}
	if cmd.Flags().Changed("log-file") {
		cfg.Paths.LogFile = logFile
	}
}

// splitRunArgs separates plugin references from key=value parameters.
func splitRunArgs(args []string) (refs []string, params []string) {
	for _, arg := range args {
		if strings.Contains(arg, "=") {
			params = append(params, arg)
			continue
		}
		refs = append(refs, arg)
	}
	return refs, params
}

func renderSummary(result *maintenance.Result) string {
	rows := [][]string{
		{"Run", result.RunID},
		{"Root", result.Root},
		{"Plugins", strings.Join(result.Plugins, ", ")},
		{"Nodes", fmt.Sprintf("%d", result.Stats.Nodes)},
		{"Directories", fmt.Sprintf("%d", result.Stats.Directories)},
		{"Empty directories", fmt.Sprintf("%d", result.Stats.EmptyDirectories)},
		{"Handler failures", fmt.Sprintf("%d", result.Stats.HandlerFailures)},
		{"Duration", result.Duration.Round(time.Millisecond).String()},
	}
	return renderTable([]string{"Field", "Value"}, rows, []columnAlignment{alignLeft, alignLeft})
}
