package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory and lock file configuration.
type Paths struct {
	RootDir   string `toml:"root_dir"`
	PluginDir string `toml:"plugin_dir"`
	LockFile  string `toml:"lock_file"`
	LogFile   string `toml:"log_file"`
}

// Walk contains traversal and worker pool settings.
type Walk struct {
	Workers int `toml:"workers"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// History contains configuration for the run-history database.
type History struct {
	Enabled bool   `toml:"enabled"`
	Path    string `toml:"path"`
}

// Config encapsulates all configuration values for ceresmaint.
//
// Configuration sections by subsystem:
//   - Paths: tree root, plugin directory, lock file, log file
//   - Walk: worker pool sizing
//   - Logging: log format and level
//   - History: sqlite run-history recording
//   - Params: default key=value parameters visible to every plugin
type Config struct {
	Paths   Paths             `toml:"paths"`
	Walk    Walk              `toml:"walk"`
	Logging Logging           `toml:"logging"`
	History History           `toml:"history"`
	Params  map[string]string `toml:"params"`
}

// DefaultConfigPath returns the absolute path to the default configuration file location.
func DefaultConfigPath() (string, error) {
	return ExpandPath("~/.config/ceresmaint/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. The boolean reports
// whether a file existed at the resolved path.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := ExpandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	return defaultPath, false, nil
}

func (c *Config) normalize() error {
	for _, field := range []*string{&c.Paths.RootDir, &c.Paths.PluginDir, &c.Paths.LockFile, &c.Paths.LogFile, &c.History.Path} {
		if strings.TrimSpace(*field) == "" {
			*field = ""
			continue
		}
		expanded, err := ExpandPath(*field)
		if err != nil {
			return err
		}
		*field = expanded
	}

	if c.Walk.Workers == 0 {
		c.Walk.Workers = defaultWorkers
	}
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
	if c.History.Enabled && c.History.Path == "" {
		expanded, err := ExpandPath(defaultHistoryPath)
		if err != nil {
			return err
		}
		c.History.Path = expanded
	}
	if c.Params == nil {
		c.Params = map[string]string{}
	}
	return nil
}

// Settings flattens the configuration into the read-only key=value view
// handed to plugins.
func (c *Config) Settings() map[string]string {
	settings := map[string]string{
		"root_dir":        c.Paths.RootDir,
		"plugin_dir":      c.Paths.PluginDir,
		"lock_file":       c.Paths.LockFile,
		"log_file":        c.Paths.LogFile,
		"workers":         fmt.Sprintf("%d", c.Walk.Workers),
		"log_format":      c.Logging.Format,
		"log_level":       c.Logging.Level,
		"history_enabled": fmt.Sprintf("%t", c.History.Enabled),
		"history_path":    c.History.Path,
	}
	return settings
}

// EnsureDirectories creates the directories the daemon writes into.
func (c *Config) EnsureDirectories() error {
	dirs := make([]string, 0, 2)
	if c.Paths.LogFile != "" {
		dirs = append(dirs, filepath.Dir(c.Paths.LogFile))
	}
	if c.History.Enabled && c.History.Path != "" {
		dirs = append(dirs, filepath.Dir(c.History.Path))
	}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	return nil
}

// SampleConfig returns the embedded sample configuration file contents.
func SampleConfig() string {
	return sampleConfig
}

// ExpandPath resolves tilde shortcuts and returns an absolute, cleaned path.
func ExpandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	absolute, err := filepath.Abs(filepath.Clean(pathValue))
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", pathValue, err)
	}
	return absolute, nil
}
