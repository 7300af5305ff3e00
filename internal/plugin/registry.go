package plugin

import (
	"fmt"
	"sort"
	"sync"
)

var (
	registryMu sync.RWMutex
	registry   = map[string]SetupFunc{}
)

// Register makes a built-in plugin available under the given name. It is
// meant to be called from package init functions, database/sql driver style,
// and panics on empty or duplicate names.
func Register(name string, setup SetupFunc) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if name == "" {
		panic("plugin: Register with empty name")
	}
	if setup == nil {
		panic(fmt.Sprintf("plugin: Register %q with nil setup", name))
	}
	if _, dup := registry[name]; dup {
		panic(fmt.Sprintf("plugin: Register called twice for %q", name))
	}
	registry[name] = setup
}

// Builtins returns the sorted names of all registered built-in plugins.
func Builtins() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func lookupBuiltin(name string) (SetupFunc, bool) {
	registryMu.RLock()
	defer registryMu.RUnlock()
	setup, ok := registry[name]
	return setup, ok
}
