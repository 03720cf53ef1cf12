// Package services defines shared utilities consumed by the pipeline stages
// and their remote API clients.
//
// Key responsibilities:
//   - Context helpers that stamp stage names and run identifiers for logging.
//   - Structured error markers plus the Wrap helper, so callers can decide
//     with errors.Is whether a failure is worth retrying.
//
// The musicbrainz and lidarr subpackages hold the HTTP clients for the two
// remote services.
package services
