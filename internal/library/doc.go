// Package library builds the artist candidate list from a music library root.
//
// Every immediate subdirectory of the root is treated as one artist. Files
// and a fixed set of housekeeping folders created by NAS appliances and
// media servers are ignored. The resulting names are sorted and written one
// per line, forming the input to the resolver stage.
package library
