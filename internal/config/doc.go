// Package config loads, normalizes, and validates fcsmerge configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours FCSMERGE_* environment overrides,
// optionally seeded from a .env file. The Config type centralizes every knob
// the CLI needs so discovery patterns, output naming, and state directories
// are resolved in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, canonical log formats, and clear validation errors.
package config
