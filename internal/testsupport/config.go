package testsupport

import (
	"path/filepath"
	"testing"

	"artistsync/internal/config"
)

// NewConfig produces a config whose handoff files live in a per-test temp
// directory. It points at a local MusicBrainz address so that retry and
// pacing delays can be zeroed and tests never sleep.
func NewConfig(t testing.TB) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.FoldersFile = filepath.Join(base, "folders.txt")
	cfg.Paths.ResultsFile = filepath.Join(base, "search_results.txt")
	cfg.MusicBrainz.BaseURL = "http://127.0.0.1/ws/2"
	cfg.MusicBrainz.RetryDelaySeconds = 0
	cfg.MusicBrainz.RequestIntervalMS = 0
	cfg.Lidarr.APIKey = "test-key"
	cfg.Lidarr.RootFolder = "/music"
	return &cfg
}
