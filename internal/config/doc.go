// Package config loads, normalizes, and validates artistsync configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), and reads an optional TOML file. The Config type centralizes the
// file names, MusicBrainz pacing and retry knobs, and Lidarr connection
// settings the three pipeline stages need, so command flags only have to
// override what differs from the file.
//
// Always obtain settings through this package so downstream code receives
// trimmed values, expanded paths, and clear validation errors.
package config
