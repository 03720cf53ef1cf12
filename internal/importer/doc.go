// Package importer submits resolved artists to Lidarr.
//
// The roster is fetched once per run and indexed by MusicBrainz id. Each
// results line is then classified on its own: not-found records and lines
// without a lookup marker are skipped, artists already on the roster are
// skipped, and the rest are added. A failed add is reported and the run
// moves on to the next line.
package importer
