package lookup

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"artistsync/internal/fileutil"
	"artistsync/internal/textutil"
)

// LoadResumeSet returns the names already recorded in path. A missing file
// yields an empty set.
func LoadResumeSet(path string) (map[string]struct{}, error) {
	set := make(map[string]struct{})
	lines, err := readLines(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return set, nil
		}
		return nil, fmt.Errorf("read resume file: %w", err)
	}
	for _, line := range lines {
		if name, ok := resumeName(line); ok {
			set[name] = struct{}{}
		}
	}
	return set, nil
}

// Line is a trimmed, non-blank line and its 1-based position in the file.
type Line struct {
	Number int
	Text   string
}

// ReadNumberedLines returns the trimmed, non-blank lines of path. Numbers
// count every physical line, blank ones included.
func ReadNumberedLines(path string) ([]Line, error) {
	raw, err := readLines(path)
	if err != nil {
		return nil, err
	}
	lines := make([]Line, 0, len(raw))
	for i, line := range raw {
		if text := strings.TrimSpace(line); text != "" {
			lines = append(lines, Line{Number: i + 1, Text: text})
		}
	}
	return lines, nil
}

// ReadNames returns the trimmed, non-blank lines of an artist list.
func ReadNames(path string) ([]string, error) {
	lines, err := ReadNumberedLines(path)
	if err != nil {
		return nil, err
	}
	names := make([]string, len(lines))
	for i, line := range lines {
		names[i] = line.Text
	}
	return names, nil
}

func readLines(path string) ([]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return textutil.ReadLines(f)
}

// Writer appends records to a results file, syncing after every record.
type Writer struct {
	file *os.File
}

// OpenWriter opens path for appending, creating it if needed.
func OpenWriter(path string) (*Writer, error) {
	f, err := fileutil.OpenAppend(path)
	if err != nil {
		return nil, fmt.Errorf("open results file: %w", err)
	}
	return &Writer{file: f}, nil
}

// Write appends r followed by a newline and flushes it to stable storage.
func (w *Writer) Write(r Record) error {
	if _, err := w.file.WriteString(Format(r) + "\n"); err != nil {
		return fmt.Errorf("append record: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("sync results file: %w", err)
	}
	return nil
}

// Close releases the underlying file.
func (w *Writer) Close() error {
	if w == nil || w.file == nil {
		return nil
	}
	return w.file.Close()
}
