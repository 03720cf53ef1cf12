package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

type cliTestEnv struct {
	baseDir     string
	configPath  string
	foldersFile string
	resultsFile string
	musicbrainz *httptest.Server
	lidarr      *fakeLidarrServer
}

// fakeLidarrServer serves a fixed roster and records every add request.
type fakeLidarrServer struct {
	*httptest.Server

	mu     sync.Mutex
	roster []map[string]any
	added  []string
}

func newFakeLidarr(t *testing.T, roster ...string) *fakeLidarrServer {
	t.Helper()
	f := &fakeLidarrServer{}
	for i, mbid := range roster {
		f.roster = append(f.roster, map[string]any{
			"id":              i + 1,
			"artistName":      "Roster " + mbid,
			"foreignArtistId": mbid,
			"monitored":       true,
			"path":            "/music/Roster " + mbid,
		})
	}
	f.Server = httptest.NewServer(http.HandlerFunc(f.handle))
	t.Cleanup(f.Close)
	return f
}

func (f *fakeLidarrServer) handle(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/api/v1/artist" || r.Header.Get("X-Api-Key") != "test-key" {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	switch r.Method {
	case http.MethodGet:
		_ = json.NewEncoder(w).Encode(f.roster)
	case http.MethodPost:
		var payload struct {
			ForeignArtistID string `json:"foreignArtistId"`
		}
		_ = json.NewDecoder(r.Body).Decode(&payload)
		f.added = append(f.added, payload.ForeignArtistID)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"artistName": "Added " + payload.ForeignArtistID})
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (f *fakeLidarrServer) addedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.added...)
}

// newFakeMusicBrainz answers artist searches from matches; names absent from
// the map produce an empty result.
func newFakeMusicBrainz(t *testing.T, matches map[string]string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		name := r.URL.Query().Get("query")
		id, ok := matches[name]
		if !ok {
			_, _ = w.Write([]byte(`{"count":0,"artists":[]}`))
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]any{
			"count":   1,
			"artists": []map[string]any{{"id": id, "name": name, "score": 100}},
		})
	}))
	t.Cleanup(server.Close)
	return server
}

func setupCLITestEnv(t *testing.T, matches map[string]string, roster ...string) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Chdir(base)

	env := &cliTestEnv{
		baseDir:     base,
		configPath:  filepath.Join(base, "artistsync-test.toml"),
		foldersFile: filepath.Join(base, "folders.txt"),
		resultsFile: filepath.Join(base, "search_results.txt"),
		musicbrainz: newFakeMusicBrainz(t, matches),
		lidarr:      newFakeLidarr(t, roster...),
	}
	writeTestConfig(t, env)
	return env
}

func writeTestConfig(t *testing.T, env *cliTestEnv) {
	t.Helper()
	content := fmt.Sprintf(`[paths]
folders_file = %q
results_file = %q

[musicbrainz]
base_url = %q
user_agent = "artistsync-test/1.0 ( test@example.com )"
retry_delay_seconds = 0
request_interval_ms = 0

[lidarr]
url = %q
api_key = "test-key"
root_folder = "/music"
quality_profile_id = 1
`, env.foldersFile, env.resultsFile, env.musicbrainz.URL, env.lidarr.URL)
	if err := os.WriteFile(env.configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func makeLibrary(t *testing.T, names ...string) string {
	t.Helper()
	root := t.TempDir()
	for _, name := range names {
		if err := os.MkdirAll(filepath.Join(root, name), 0o755); err != nil {
			t.Fatalf("mkdir %s: %v", name, err)
		}
	}
	return root
}

func readFile(t *testing.T, path string) string {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read %s: %v", path, err)
	}
	return string(data)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
