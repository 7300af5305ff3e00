package plugin

import (
	"log/slog"
	"sync"

	"ceresmaint/internal/logging"
)

// Params is the key=value mapping shared by reference across all plugins and
// all dispatches. Access is synchronized; mutations made by one handler are
// visible to handlers running afterwards, but no ordering is defined between
// concurrently executing node handlers.
type Params struct {
	mu     sync.RWMutex
	values map[string]string
}

// NewParams builds a params mapping seeded from the given values.
func NewParams(seed map[string]string) *Params {
	values := make(map[string]string, len(seed))
	for k, v := range seed {
		values[k] = v
	}
	return &Params{values: values}
}

// Get returns the value for key and whether it was present.
func (p *Params) Get(key string) (string, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	v, ok := p.values[key]
	return v, ok
}

// Set stores a value under key.
func (p *Params) Set(key, value string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.values[key] = value
}

// Snapshot returns a copy of the current mapping.
func (p *Params) Snapshot() map[string]string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	out := make(map[string]string, len(p.values))
	for k, v := range p.values {
		out[k] = v
	}
	return out
}

// Env is the capability set handed to every plugin at load time: a logger, the
// shared params mapping, and the read-only configuration settings.
type Env struct {
	Log      *slog.Logger
	Params   *Params
	Settings map[string]string
}

// NewEnv builds a plugin environment. A nil logger is replaced with a no-op
// logger and nil maps with empty ones so plugin bodies never nil-check.
func NewEnv(log *slog.Logger, params *Params, settings map[string]string) *Env {
	if log == nil {
		log = logging.NewNop()
	}
	if params == nil {
		params = NewParams(nil)
	}
	if settings == nil {
		settings = map[string]string{}
	}
	return &Env{Log: log, Params: params, Settings: settings}
}
