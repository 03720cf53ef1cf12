// Package musicbrainz searches the MusicBrainz web service for artists.
//
// Only the top-ranked match of a free-text search is consumed. Callers are
// responsible for pacing requests to the service's published limit of one
// request per second and for retrying transient failures.
package musicbrainz
