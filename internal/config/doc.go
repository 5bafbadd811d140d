// Package config loads, normalizes, and validates braindump configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// BRAINDUMP_SERVER and BRAINDUMP_USERNAME. The Config type centralizes the
// server origin, session storage, capture defaults, history, and logging knobs
// so the CLI resolves them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized paths, a canonical base URL, and clear validation errors.
package config
