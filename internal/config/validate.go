package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// Validate ensures the configuration is usable. Lidarr credentials are not
// required here because only the import stage needs them; see ValidateLidarr.
func (c *Config) Validate() error {
	if err := c.validateMusicBrainz(); err != nil {
		return err
	}
	if err := c.validateLidarrTimeouts(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateMusicBrainz() error {
	base, err := url.ParseRequestURI(c.MusicBrainz.BaseURL)
	if err != nil {
		return fmt.Errorf("musicbrainz.base_url is invalid: %w", err)
	}
	if err := ensurePositiveMap(map[string]int{
		"musicbrainz.timeout_seconds": c.MusicBrainz.TimeoutSeconds,
		"musicbrainz.max_attempts":    c.MusicBrainz.MaxAttempts,
	}); err != nil {
		return err
	}
	if c.MusicBrainz.RetryDelaySeconds < 0 {
		return errors.New("musicbrainz.retry_delay_seconds must be >= 0")
	}
	if c.MusicBrainz.RequestIntervalMS < 0 {
		return errors.New("musicbrainz.request_interval_ms must be >= 0")
	}
	if isPublicMusicBrainz(base) {
		if c.MusicBrainz.RequestIntervalMS < minPublicIntervalMS {
			return fmt.Errorf("musicbrainz.request_interval_ms must be >= %d for %s", minPublicIntervalMS, base.Host)
		}
		if c.MusicBrainz.RetryDelaySeconds < minPublicRetryDelay {
			return fmt.Errorf("musicbrainz.retry_delay_seconds must be >= %d for %s", minPublicRetryDelay, base.Host)
		}
	}
	return nil
}

// The public MusicBrainz service allows one request per second per client.
const (
	publicMusicBrainzHost = "musicbrainz.org"
	minPublicIntervalMS   = 1000
	minPublicRetryDelay   = 1
)

func isPublicMusicBrainz(u *url.URL) bool {
	host := strings.ToLower(u.Hostname())
	return host == publicMusicBrainzHost || strings.HasSuffix(host, "."+publicMusicBrainzHost)
}

func (c *Config) validateLidarrTimeouts() error {
	return ensurePositiveMap(map[string]int{
		"lidarr.roster_timeout_seconds": c.Lidarr.RosterTimeoutSeconds,
		"lidarr.add_timeout_seconds":    c.Lidarr.AddTimeoutSeconds,
	})
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be console or json, got %q", c.Logging.Format)
	}
	return nil
}

// ValidateLidarr reports every missing Lidarr setting at once, naming both the
// command-line flag and the config key so either can be used to fix it.
func (c *Config) ValidateLidarr() error {
	var missing []string
	if strings.TrimSpace(c.Lidarr.URL) == "" {
		missing = append(missing, "--lidarr-url (lidarr.url)")
	}
	if strings.TrimSpace(c.Lidarr.APIKey) == "" {
		missing = append(missing, "--api-key (lidarr.api_key)")
	}
	if strings.TrimSpace(c.Lidarr.RootFolder) == "" {
		missing = append(missing, "--root-folder (lidarr.root_folder)")
	}
	if len(missing) > 0 {
		return fmt.Errorf("lidarr settings required: %s", strings.Join(missing, ", "))
	}
	if _, err := url.ParseRequestURI(c.Lidarr.URL); err != nil {
		return fmt.Errorf("lidarr.url is invalid: %w", err)
	}
	if c.Lidarr.QualityProfileID <= 0 {
		return errors.New("lidarr.quality_profile_id must be positive")
	}
	return nil
}

func ensurePositiveMap(values map[string]int) error {
	for key, value := range values {
		if value <= 0 {
			return fmt.Errorf("%s must be positive", key)
		}
	}
	return nil
}
