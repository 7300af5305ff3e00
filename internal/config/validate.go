package config

import (
	"fmt"
	"strings"
)

var validLogFormats = map[string]struct{}{
	"auto":    {},
	"console": {},
	"json":    {},
}

var validLogLevels = map[string]struct{}{
	"debug": {},
	"info":  {},
	"warn":  {},
	"error": {},
}

// Validate reports configuration values the maintenance run cannot work with.
func (c *Config) Validate() error {
	if c.Walk.Workers < 1 {
		return fmt.Errorf("walk.workers must be at least 1, got %d", c.Walk.Workers)
	}
	if _, ok := validLogFormats[c.Logging.Format]; !ok {
		return fmt.Errorf("logging.format must be one of auto, console, json; got %q", c.Logging.Format)
	}
	if _, ok := validLogLevels[c.Logging.Level]; !ok {
		return fmt.Errorf("logging.level must be one of debug, info, warn, error; got %q", c.Logging.Level)
	}
	if c.History.Enabled && strings.TrimSpace(c.History.Path) == "" {
		return fmt.Errorf("history.path is required when history is enabled")
	}
	for key := range c.Params {
		if strings.TrimSpace(key) == "" {
			return fmt.Errorf("params contains an empty key")
		}
	}
	return nil
}
