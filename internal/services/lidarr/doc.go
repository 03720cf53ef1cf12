// Package lidarr talks to the Lidarr v1 REST API: it lists the artists
// already tracked by an instance and registers new ones by MusicBrainz id.
//
// AddArtist never returns an error. Every failure, whether transport, HTTP
// status or API validation, is folded into an AddResult carrying a
// human-readable detail so the importer can report it and move on.
package lidarr
