package plugin

import (
	"fmt"
	"os"
	"path/filepath"
	goplugin "plugin"
	"strings"
)

const (
	sharedObjectExt = ".so"
	setupSymbol     = "Setup"
)

// Load resolves a plugin reference and runs its setup against env.
//
// Resolution order: a literal existing file path is loaded as a shared
// object; otherwise <ref>.so under dir; otherwise the built-in registry.
// Anything else yields a *NotFoundError naming the reference and the
// searched directory.
func Load(ref, dir string, env *Env) (*Plugin, error) {
	if env == nil {
		env = NewEnv(nil, nil, nil)
	}

	if isFile(ref) {
		return loadShared(refName(ref), ref, env)
	}
	if dir != "" {
		candidate := filepath.Join(dir, ref+sharedObjectExt)
		if isFile(candidate) {
			return loadShared(ref, candidate, env)
		}
	}
	if setup, ok := lookupBuiltin(ref); ok {
		return build(ref, "builtin", setup, env)
	}
	return nil, &NotFoundError{Ref: ref, Dir: dir}
}

// LoadAll loads every reference in order, stopping at the first failure and
// identifying the offending plugin.
func LoadAll(refs []string, dir string, env *Env) ([]*Plugin, error) {
	plugins := make([]*Plugin, 0, len(refs))
	for _, ref := range refs {
		p, err := Load(ref, dir, env)
		if err != nil {
			return nil, fmt.Errorf("plugin %q: %w", ref, err)
		}
		plugins = append(plugins, p)
	}
	return plugins, nil
}

func loadShared(name, path string, env *Env) (*Plugin, error) {
	shared, err := goplugin.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open shared object %s: %w", path, err)
	}
	symbol, err := shared.Lookup(setupSymbol)
	if err != nil {
		return nil, fmt.Errorf("shared object %s exports no %s function: %w", path, setupSymbol, err)
	}
	setup, ok := symbol.(func(*Env) (Handlers, error))
	if !ok {
		return nil, fmt.Errorf("shared object %s: %s has wrong signature %T", path, setupSymbol, symbol)
	}
	return build(name, path, setup, env)
}

func build(name, source string, setup SetupFunc, env *Env) (*Plugin, error) {
	handlers, err := setup(env)
	if err != nil {
		return nil, err
	}
	return &Plugin{Name: name, Source: source, Handlers: handlers}, nil
}

func refName(ref string) string {
	base := filepath.Base(ref)
	return strings.TrimSuffix(base, filepath.Ext(base))
}

func isFile(path string) bool {
	if path == "" {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}
