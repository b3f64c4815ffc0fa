// Package config loads, normalizes, and validates cadence configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads TOML files. The Config type centralizes every knob
// the CLI and analysis pipelines need, so downstream code always receives
// sanitized paths, canonical log settings, and clear validation errors.
package config
