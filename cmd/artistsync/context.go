package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/spf13/cobra"

	"artistsync/internal/config"
	"artistsync/internal/logging"
	"artistsync/internal/services"
	"artistsync/internal/services/lidarr"
	"artistsync/internal/services/musicbrainz"
)

type commandContext struct {
	configFlag    *string
	logLevelFlag  *string
	logFormatFlag *string

	configOnce   sync.Once
	config       *config.Config
	configPath   string
	configExists bool
	configErr    error
}

func newCommandContext(configFlag, logLevelFlag, logFormatFlag *string) *commandContext {
	return &commandContext{
		configFlag:    configFlag,
		logLevelFlag:  logLevelFlag,
		logFormatFlag: logFormatFlag,
	}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		cfg, path, exists, err := config.Load(flagValue(c.configFlag))
		if err != nil {
			c.configErr = err
			return
		}
		c.configPath = path
		c.configExists = exists
		if level := flagValue(c.logLevelFlag); level != "" {
			cfg.Logging.Level = strings.ToLower(level)
		}
		if format := flagValue(c.logFormatFlag); format != "" {
			cfg.Logging.Format = strings.ToLower(format)
			if err := cfg.Validate(); err != nil {
				c.configErr = err
				return
			}
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

// begin tags the command's context with a fresh run id and builds the base
// logger writing to the command's stderr. Stages attach the context fields
// themselves with logging.WithContext. The returned func releases the log
// file and is deferred by the caller.
func (c *commandContext) begin(cmd *cobra.Command) (context.Context, *config.Config, *slog.Logger, func(), error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, nil, nil, nil, err
	}
	logger, closeLog, err := logging.NewFromConfig(cfg, cmd.ErrOrStderr())
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("init logger: %w", err)
	}
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = services.WithNewRunID(ctx)
	done := func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "close log file: %v\n", err)
		}
	}
	return ctx, cfg, logger, done, nil
}

func newMusicBrainzClient(cfg *config.Config) (*musicbrainz.Client, error) {
	return musicbrainz.New(cfg.MusicBrainz.BaseURL, cfg.MusicBrainz.UserAgent,
		musicbrainz.WithTimeout(cfg.MusicBrainz.Timeout()),
	)
}

func newLidarrClient(cfg *config.Config) (*lidarr.Client, error) {
	if err := cfg.ValidateLidarr(); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "import", "lidarr settings", "", err)
	}
	return lidarr.New(cfg.Lidarr.URL, cfg.Lidarr.APIKey,
		lidarr.WithTimeouts(cfg.Lidarr.RosterTimeout(), cfg.Lidarr.AddTimeout()),
	)
}

func flagValue(flag *string) string {
	if flag == nil {
		return ""
	}
	return strings.TrimSpace(*flag)
}

func shouldSkipConfig(cmd *cobra.Command) bool {
	for c := cmd; c != nil; c = c.Parent() {
		if c.Annotations != nil && c.Annotations["skipConfigLoad"] == "true" {
			return true
		}
	}
	return false
}

func yesNo(value bool) string {
	if value {
		return "yes"
	}
	return "no"
}
