// Package config loads, normalizes, and validates ceresmaint configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and validates worker counts and log settings.
// The resolved Config also doubles as the read-only settings mapping exposed
// to plugins via their environment.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
