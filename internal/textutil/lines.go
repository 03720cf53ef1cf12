package textutil

import (
	"bufio"
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// maxLineBytes bounds a single line; folder names are far shorter.
const maxLineBytes = 1 << 20

// NewReader wraps r so that a leading UTF-8 BOM is dropped and invalid UTF-8
// is replaced with U+FFFD.
func NewReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}

// NewLineScanner returns a line scanner over the decoded contents of r.
func NewLineScanner(r io.Reader) *bufio.Scanner {
	scanner := bufio.NewScanner(NewReader(r))
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineBytes)
	return scanner
}

// ReadLines returns every line of r without trailing newline characters.
// Carriage returns from CRLF files are removed as well.
func ReadLines(r io.Reader) ([]string, error) {
	scanner := NewLineScanner(r)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, trimCR(scanner.Text()))
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return lines, nil
}

func trimCR(line string) string {
	if n := len(line); n > 0 && line[n-1] == '\r' {
		return line[:n-1]
	}
	return line
}
