package lookup

import (
	"strings"
)

const (
	// Marker separates the artist name from the lookup result.
	Marker = "lidarr:"
	// Separator is written between the name and Marker.
	Separator = " - "
	// NotFoundValue replaces the MBID when MusicBrainz had no match.
	NotFoundValue = "NOT_FOUND"
)

// Status classifies a lookup record.
type Status string

const (
	StatusResolved Status = "resolved"
	StatusNotFound Status = "not_found"
)

// Record is one processed artist.
type Record struct {
	Name   string
	MBID   string
	Status Status
}

// Resolved builds a record for a matched artist.
func Resolved(name, mbid string) Record {
	return Record{Name: name, MBID: mbid, Status: StatusResolved}
}

// NotFound builds a record for an artist with no match.
func NotFound(name string) Record {
	return Record{Name: name, Status: StatusNotFound}
}

// Found reports whether the record carries an MBID.
func (r Record) Found() bool {
	return r.Status == StatusResolved && r.MBID != ""
}

// Format renders r in its line form without a trailing newline.
func Format(r Record) string {
	value := r.MBID
	if !r.Found() {
		value = NotFoundValue
	}
	return r.Name + Separator + Marker + value
}

// ParseRecord decodes a line written by Format. Lines without the marker or
// with an empty value are reported as malformed. The last marker wins so an
// artist name containing "lidarr:" still parses.
func ParseRecord(line string) (Record, bool) {
	idx := strings.LastIndex(line, Marker)
	if idx < 0 {
		return Record{}, false
	}
	value := strings.TrimSpace(line[idx+len(Marker):])
	if value == "" {
		return Record{}, false
	}
	name := trimName(line[:idx])
	if value == NotFoundValue {
		return NotFound(name), true
	}
	return Resolved(name, value), true
}

// resumeName returns the name portion of a line that contains the full
// separator and marker, and false otherwise.
func resumeName(line string) (string, bool) {
	idx := strings.LastIndex(line, Separator+Marker)
	if idx < 0 {
		return "", false
	}
	return strings.TrimSpace(line[:idx]), true
}

func trimName(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "-")
	return strings.TrimSpace(s)
}
