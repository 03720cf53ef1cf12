package library

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"artistsync/internal/fileutil"
	"artistsync/internal/services"
)

// ErrNotDirectory indicates the library root is missing or is not a directory.
var ErrNotDirectory = errors.New("library root is not a directory")

// ignored lists folder names that never represent an artist. Matching is
// exact and case-sensitive.
var ignored = map[string]struct{}{
	"@eaDir":                    {},
	".DS_Store":                 {},
	"lost+found":                {},
	"$RECYCLE.BIN":              {},
	"System Volume Information": {},
}

// IsIgnored reports whether name is a housekeeping folder.
func IsIgnored(name string) bool {
	_, ok := ignored[name]
	return ok
}

// Scan returns the sorted names of the artist folders directly under root.
// Ordering is by byte value so the output is stable across locales.
func Scan(root string) ([]string, error) {
	info, err := os.Stat(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, notDirectory(root)
		}
		return nil, fmt.Errorf("stat library root: %w", err)
	}
	if !info.IsDir() {
		return nil, notDirectory(root)
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("read library root: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		if !isDir(root, entry) {
			continue
		}
		if IsIgnored(entry.Name()) {
			continue
		}
		names = append(names, entry.Name())
	}
	slices.Sort(names)
	return names, nil
}

// isDir follows symlinks so linked artist folders are included.
func isDir(root string, entry os.DirEntry) bool {
	if entry.IsDir() {
		return true
	}
	if entry.Type()&os.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(filepath.Join(root, entry.Name()))
	return err == nil && info.IsDir()
}

func notDirectory(root string) error {
	return services.Wrap(services.ErrValidation, "scan", "stat root", root, ErrNotDirectory)
}

// WriteList writes names to path, one per line, replacing any existing file.
// An empty list leaves path untouched.
func WriteList(path string, names []string) error {
	if len(names) == 0 {
		return nil
	}
	if err := fileutil.WriteLinesAtomic(path, names); err != nil {
		return fmt.Errorf("write artist list: %w", err)
	}
	return nil
}
