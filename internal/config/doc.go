// Package config loads, normalizes, and validates gallerist configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// GALLERIST_BACKEND_URL. The Config type centralizes the backend endpoints,
// the day-scoped root template, and the local state directories so the CLI
// and the terminal browser discover them in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized URLs, canonical log formats, and clear validation errors.
package config
