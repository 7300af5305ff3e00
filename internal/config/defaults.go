package config

const (
	defaultWorkers     = 4
	defaultLogFormat   = "auto"
	defaultLogLevel    = "info"
	defaultPluginDir   = "/usr/local/lib/ceresmaint/plugins"
	defaultHistoryPath = "~/.local/share/ceresmaint/history.db"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			PluginDir: defaultPluginDir,
		},
		Walk: Walk{
			Workers: defaultWorkers,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
		History: History{
			Enabled: false,
		},
		Params: map[string]string{},
	}
}
