package lidarr

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"artistsync/internal/services"
)

const (
	defaultRosterTimeout = 30 * time.Second
	defaultAddTimeout    = 15 * time.Second
	maxErrorBody         = 64 * 1024
)

// Artist is a roster entry. Only ForeignArtistID is used for duplicate
// detection; the remaining fields feed the roster listing.
type Artist struct {
	ID              int    `json:"id"`
	ArtistName      string `json:"artistName"`
	ForeignArtistID string `json:"foreignArtistId"`
	Path            string `json:"path"`
	Monitored       bool   `json:"monitored"`
}

// AddRequest describes an artist to register.
type AddRequest struct {
	MBID             string
	RootFolder       string
	QualityProfileID int
}

type addOptions struct {
	SearchForMissingAlbums bool `json:"searchForMissingAlbums"`
}

type addPayload struct {
	ForeignArtistID  string     `json:"foreignArtistId"`
	RootFolderPath   string     `json:"rootFolderPath"`
	Monitored        bool       `json:"monitored"`
	QualityProfileID int        `json:"qualityProfileId"`
	AddOptions       addOptions `json:"addOptions"`
}

// AddStatus is the outcome of a single add call.
type AddStatus string

const (
	StatusAdded  AddStatus = "ADDED"
	StatusFailed AddStatus = "FAILED"
)

// AddResult reports an add call. Detail holds the added artist's name on
// success and the failure description otherwise.
type AddResult struct {
	Status AddStatus
	Detail string
}

// API captures the Lidarr operations used by the importer.
type API interface {
	Roster(ctx context.Context) ([]Artist, error)
	AddArtist(ctx context.Context, req AddRequest) AddResult
}

// Client is an HTTP Lidarr client.
type Client struct {
	baseURL       string
	apiKey        string
	httpClient    *http.Client
	rosterTimeout time.Duration
	addTimeout    time.Duration
}

var _ API = (*Client)(nil)

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

// WithTimeouts overrides the roster and add request timeouts. Non-positive
// values keep the defaults.
func WithTimeouts(roster, add time.Duration) Option {
	return func(c *Client) {
		if roster > 0 {
			c.rosterTimeout = roster
		}
		if add > 0 {
			c.addTimeout = add
		}
	}
}

// New creates a Lidarr client.
func New(baseURL, apiKey string, opts ...Option) (*Client, error) {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		return nil, errors.New("lidarr url required")
	}
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errors.New("lidarr api key required")
	}
	client := &Client{
		baseURL:       strings.TrimRight(baseURL, "/"),
		apiKey:        apiKey,
		httpClient:    &http.Client{},
		rosterTimeout: defaultRosterTimeout,
		addTimeout:    defaultAddTimeout,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client, nil
}

// Roster returns every artist registered in the instance.
func (c *Client) Roster(ctx context.Context) ([]Artist, error) {
	ctx, cancel := context.WithTimeout(ctx, c.rosterTimeout)
	defer cancel()

	req, err := c.newRequest(ctx, http.MethodGet, nil)
	if err != nil {
		return nil, fmt.Errorf("build lidarr roster request: %w", err)
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, services.Wrap(services.ErrTransient, "lidarr", "roster", "", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return nil, services.Wrap(services.ErrTransient, "lidarr", "roster",
			fmt.Sprintf("status %d: %s", resp.StatusCode, strings.TrimSpace(string(body))), nil)
	}

	var artists []Artist
	if err := json.NewDecoder(resp.Body).Decode(&artists); err != nil {
		return nil, services.Wrap(services.ErrDecode, "lidarr", "decode roster", "", err)
	}
	return artists, nil
}

// AddArtist registers req.MBID as a monitored artist and starts a search for
// its missing albums.
func (c *Client) AddArtist(ctx context.Context, req AddRequest) AddResult {
	ctx, cancel := context.WithTimeout(ctx, c.addTimeout)
	defer cancel()

	body, err := json.Marshal(addPayload{
		ForeignArtistID:  req.MBID,
		RootFolderPath:   req.RootFolder,
		Monitored:        true,
		QualityProfileID: req.QualityProfileID,
		AddOptions:       addOptions{SearchForMissingAlbums: true},
	})
	if err != nil {
		return failed(err.Error())
	}
	httpReq, err := c.newRequest(ctx, http.MethodPost, bytes.NewReader(body))
	if err != nil {
		return failed(err.Error())
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return failed(err.Error())
	}
	defer resp.Body.Close()
	respBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))

	switch {
	case resp.StatusCode == http.StatusCreated:
		var added Artist
		if err := json.Unmarshal(respBody, &added); err == nil && added.ArtistName != "" {
			return AddResult{Status: StatusAdded, Detail: added.ArtistName}
		}
		return AddResult{Status: StatusAdded, Detail: req.MBID}
	case resp.StatusCode >= 200 && resp.StatusCode < 300:
		return failed(fmt.Sprintf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(string(respBody))))
	default:
		return failed(describeError(resp.StatusCode, respBody))
	}
}

func (c *Client) newRequest(ctx context.Context, method string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+"/api/v1/artist", body)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Api-Key", c.apiKey)
	req.Header.Set("Accept", "application/json")
	return req, nil
}

func failed(detail string) AddResult {
	return AddResult{Status: StatusFailed, Detail: detail}
}

// describeError extracts Lidarr's validation message from an error body.
// Lidarr reports validation failures as a list of objects with an
// errorMessage field; other errors are single objects with a message.
func describeError(status int, body []byte) string {
	var decoded any
	if err := json.Unmarshal(body, &decoded); err != nil {
		return fmt.Sprintf("HTTP %d - %s", status, http.StatusText(status))
	}
	switch v := decoded.(type) {
	case []any:
		if len(v) > 0 {
			if first, ok := v[0].(map[string]any); ok {
				if msg, ok := first["errorMessage"].(string); ok {
					return "API Error: " + msg
				}
			}
		}
	case map[string]any:
		if msg, ok := v["message"].(string); ok {
			return "API Error: " + msg
		}
	}
	return "API Error: " + compact(body)
}

func compact(body []byte) string {
	var buf bytes.Buffer
	if err := json.Compact(&buf, body); err != nil {
		return strings.TrimSpace(string(body))
	}
	return buf.String()
}
