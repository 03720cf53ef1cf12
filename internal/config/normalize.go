package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeMusicBrainz()
	c.normalizeLidarr()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	c.Paths.FoldersFile = strings.TrimSpace(c.Paths.FoldersFile)
	if c.Paths.FoldersFile == "" {
		c.Paths.FoldersFile = defaultFoldersFile
	}
	if c.Paths.FoldersFile, err = expandHome(c.Paths.FoldersFile); err != nil {
		return fmt.Errorf("paths.folders_file: %w", err)
	}
	c.Paths.ResultsFile = strings.TrimSpace(c.Paths.ResultsFile)
	if c.Paths.ResultsFile == "" {
		c.Paths.ResultsFile = defaultResultsFile
	}
	if c.Paths.ResultsFile, err = expandHome(c.Paths.ResultsFile); err != nil {
		return fmt.Errorf("paths.results_file: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(strings.TrimSpace(c.Paths.LogDir)); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeMusicBrainz() {
	c.MusicBrainz.BaseURL = strings.TrimRight(strings.TrimSpace(c.MusicBrainz.BaseURL), "/")
	if c.MusicBrainz.BaseURL == "" {
		c.MusicBrainz.BaseURL = defaultMusicBrainzBaseURL
	}
	c.MusicBrainz.UserAgent = strings.TrimSpace(c.MusicBrainz.UserAgent)
	if c.MusicBrainz.UserAgent == "" {
		c.MusicBrainz.UserAgent = defaultMusicBrainzUserAgent
	}
}

func (c *Config) normalizeLidarr() {
	c.Lidarr.URL = strings.TrimRight(strings.TrimSpace(c.Lidarr.URL), "/")
	c.Lidarr.APIKey = strings.TrimSpace(c.Lidarr.APIKey)
	c.Lidarr.RootFolder = strings.TrimSpace(c.Lidarr.RootFolder)
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}

// ApplyLidarrOverrides merges non-empty command-line values over the file
// settings. A zero quality profile id leaves the configured value in place.
func (c *Config) ApplyLidarrOverrides(url, apiKey, rootFolder string, qualityProfileID int) {
	if v := strings.TrimRight(strings.TrimSpace(url), "/"); v != "" {
		c.Lidarr.URL = v
	}
	if v := strings.TrimSpace(apiKey); v != "" {
		c.Lidarr.APIKey = v
	}
	if v := strings.TrimSpace(rootFolder); v != "" {
		c.Lidarr.RootFolder = v
	}
	if qualityProfileID != 0 {
		c.Lidarr.QualityProfileID = qualityProfileID
	}
}
