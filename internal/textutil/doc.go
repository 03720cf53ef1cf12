// Package textutil provides text decoding helpers for the newline-delimited
// handoff files that connect the pipeline stages.
//
// Files written by hand or by other tools may start with a UTF-8 byte order
// mark or contain byte sequences that are not valid UTF-8. Readers built here
// strip the mark and substitute U+FFFD for invalid bytes so that a single bad
// line never aborts a run and names compare equal to what the stages wrote.
package textutil
