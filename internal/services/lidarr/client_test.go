package lidarr_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"artistsync/internal/services"
	"artistsync/internal/services/lidarr"
)

func newClient(t *testing.T, handler http.HandlerFunc) *lidarr.Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	client, err := lidarr.New(server.URL, "secret")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return client
}

func TestRoster(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet || r.URL.Path != "/api/v1/artist" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		if key := r.Header.Get("X-Api-Key"); key != "secret" {
			t.Errorf("unexpected api key %q", key)
		}
		_, _ = w.Write([]byte(`[{"id":1,"artistName":"Radiohead","foreignArtistId":"abc-123","monitored":true}]`))
	})

	artists, err := client.Roster(context.Background())
	if err != nil {
		t.Fatalf("Roster: %v", err)
	}
	if len(artists) != 1 || artists[0].ForeignArtistID != "abc-123" || artists[0].ArtistName != "Radiohead" {
		t.Fatalf("unexpected roster %+v", artists)
	}
}

func TestRosterFailure(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := client.Roster(context.Background())
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "status 401") {
		t.Fatalf("expected status in error, got %v", err)
	}
}

func TestRosterDecodeFailure(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`not json`))
	})

	if _, err := client.Roster(context.Background()); !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected ErrDecode, got %v", err)
	}
}

func TestAddArtistCreated(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("unexpected method %s", r.Method)
		}
		var payload map[string]any
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			t.Errorf("decode payload: %v", err)
		}
		if payload["foreignArtistId"] != "abc-123" || payload["rootFolderPath"] != "/music" {
			t.Errorf("unexpected payload %v", payload)
		}
		if payload["monitored"] != true || payload["qualityProfileId"] != float64(2) {
			t.Errorf("unexpected payload %v", payload)
		}
		opts, _ := payload["addOptions"].(map[string]any)
		if opts["searchForMissingAlbums"] != true {
			t.Errorf("expected album search, got %v", payload["addOptions"])
		}
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"artistName":"Radiohead"}`))
	})

	got := client.AddArtist(context.Background(), lidarr.AddRequest{MBID: "abc-123", RootFolder: "/music", QualityProfileID: 2})
	if got.Status != lidarr.StatusAdded || got.Detail != "Radiohead" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestAddArtistCreatedWithoutName(t *testing.T) {
	client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
	})

	got := client.AddArtist(context.Background(), lidarr.AddRequest{MBID: "abc-123"})
	if got.Status != lidarr.StatusAdded || got.Detail != "abc-123" {
		t.Fatalf("unexpected result %+v", got)
	}
}

func TestAddArtistErrors(t *testing.T) {
	tests := []struct {
		name   string
		status int
		body   string
		want   string
	}{
		{"validation list", http.StatusBadRequest, `[{"errorMessage":"already exists"}]`, "API Error: already exists"},
		{"list without message", http.StatusBadRequest, `[ {"propertyName": "x"} ]`, `API Error: [{"propertyName":"x"}]`},
		{"object message", http.StatusInternalServerError, `{"message":"boom"}`, "API Error: boom"},
		{"object without message", http.StatusConflict, `{"code": 7}`, `API Error: {"code":7}`},
		{"not json", http.StatusBadGateway, `<html>bad gateway</html>`, "HTTP 502 - Bad Gateway"},
		{"unexpected success", http.StatusOK, `{"ok":true}`, `unexpected status 200: {"ok":true}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			})
			got := client.AddArtist(context.Background(), lidarr.AddRequest{MBID: "abc-123"})
			if got.Status != lidarr.StatusFailed {
				t.Fatalf("expected failure, got %+v", got)
			}
			if got.Detail != tt.want {
				t.Fatalf("detail = %q, want %q", got.Detail, tt.want)
			}
		})
	}
}

func TestAddArtistTimeout(t *testing.T) {
	release := make(chan struct{})
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer server.Close()
	defer close(release)

	client, err := lidarr.New(server.URL, "secret", lidarr.WithTimeouts(0, 20*time.Millisecond))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got := client.AddArtist(context.Background(), lidarr.AddRequest{MBID: "abc-123"})
	if got.Status != lidarr.StatusFailed || got.Detail == "" {
		t.Fatalf("expected transport failure, got %+v", got)
	}
}

func TestNewRequiresURLAndKey(t *testing.T) {
	if _, err := lidarr.New("", "key"); err == nil {
		t.Fatal("expected error for empty url")
	}
	if _, err := lidarr.New("http://lidarr", ""); err == nil {
		t.Fatal("expected error for empty api key")
	}
}
