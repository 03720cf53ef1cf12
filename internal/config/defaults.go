package config

const (
	defaultFoldersFile            = "folders.txt"
	defaultResultsFile            = "search_results.txt"
	defaultMusicBrainzBaseURL     = "https://musicbrainz.org/ws/2"
	defaultMusicBrainzUserAgent   = "artistsync/1.0 ( https://github.com/artistsync/artistsync )"
	defaultMusicBrainzTimeout     = 10
	defaultMusicBrainzMaxAttempts = 3
	defaultMusicBrainzRetryDelay  = 5
	defaultMusicBrainzIntervalMS  = 1000
	defaultLidarrQualityProfileID = 1
	defaultLidarrRosterTimeout    = 30
	defaultLidarrAddTimeout       = 15
	defaultLogFormat              = "console"
	defaultLogLevel               = "info"
	defaultConfigRelativePath     = "~/.config/artistsync/config.toml"
	defaultProjectConfigFileName  = "artistsync.toml"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			FoldersFile: defaultFoldersFile,
			ResultsFile: defaultResultsFile,
		},
		MusicBrainz: MusicBrainz{
			BaseURL:           defaultMusicBrainzBaseURL,
			UserAgent:         defaultMusicBrainzUserAgent,
			TimeoutSeconds:    defaultMusicBrainzTimeout,
			MaxAttempts:       defaultMusicBrainzMaxAttempts,
			RetryDelaySeconds: defaultMusicBrainzRetryDelay,
			RequestIntervalMS: defaultMusicBrainzIntervalMS,
		},
		Lidarr: Lidarr{
			QualityProfileID:     defaultLidarrQualityProfileID,
			RosterTimeoutSeconds: defaultLidarrRosterTimeout,
			AddTimeoutSeconds:    defaultLidarrAddTimeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
