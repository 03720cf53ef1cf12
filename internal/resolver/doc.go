// Package resolver maps artist folder names to MusicBrainz identifiers.
//
// A run reads the folder list, skips every name already recorded in the
// results file, and looks up the rest one at a time at no more than one
// request per configured interval. Each answer is appended and synced before
// the next lookup starts, so an interrupted run resumes where it stopped.
// A lookup that keeps failing after its retry budget halts the run; lines
// already written are left untouched.
package resolver
