// Package lookup defines the resolver's on-disk record format and the file
// helpers shared by the resolver and importer stages.
//
// Each processed artist is persisted as one line of the form
//
//	<name> - lidarr:<mbid>
//	<name> - lidarr:NOT_FOUND
//
// The file doubles as a resume log: names already present are skipped by
// later resolver runs, and the importer consumes it as its input.
package lookup
