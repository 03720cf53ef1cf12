package musicbrainz

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"artistsync/internal/services"
)

const defaultTimeout = 10 * time.Second

// Artist is the subset of a MusicBrainz artist consumed by the resolver.
type Artist struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	SortName       string `json:"sort-name"`
	Score          int    `json:"score"`
	Country        string `json:"country"`
	Disambiguation string `json:"disambiguation"`
}

type searchResponse struct {
	Count   int      `json:"count"`
	Artists []Artist `json:"artists"`
}

// StatusError reports a non-2xx response from the service.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("musicbrainz returned %s", e.Status)
}

// Searcher looks up a single artist by name.
type Searcher interface {
	SearchArtist(ctx context.Context, name string) (*Artist, error)
}

// Client provides access to the MusicBrainz artist search.
type Client struct {
	baseURL    string
	userAgent  string
	httpClient *http.Client
}

var _ Searcher = (*Client)(nil)

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// WithTimeout sets the per-request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		if timeout > 0 {
			c.httpClient.Timeout = timeout
		}
	}
}

// New creates a MusicBrainz client.
func New(baseURL, userAgent string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("musicbrainz base url required")
	}
	userAgent = strings.TrimSpace(userAgent)
	if userAgent == "" {
		return nil, errors.New("musicbrainz user agent required")
	}
	client := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		userAgent:  userAgent,
		httpClient: &http.Client{Timeout: defaultTimeout},
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// SearchArtist returns the best match for name, or nil when the search has
// no usable result. Non-2xx responses return *StatusError; undecodable bodies
// are tagged with services.ErrDecode.
func (c *Client) SearchArtist(ctx context.Context, name string) (*Artist, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, services.Wrap(services.ErrValidation, "musicbrainz", "search", "artist name must not be empty", nil)
	}

	params := url.Values{}
	params.Set("query", name)
	params.Set("fmt", "json")
	params.Set("limit", "1")
	endpoint := fmt.Sprintf("%s/artist/?%s", c.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("build musicbrainz request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, services.Wrap(services.ErrTransient, "musicbrainz", "search", name, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64*1024))
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	var payload searchResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, services.Wrap(services.ErrDecode, "musicbrainz", "decode search", name, err)
	}
	if len(payload.Artists) == 0 {
		return nil, nil
	}
	top := payload.Artists[0]
	if strings.TrimSpace(top.ID) == "" || strings.TrimSpace(top.Name) == "" {
		return nil, nil
	}
	return &top, nil
}
