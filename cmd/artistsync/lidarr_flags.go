package main

import (
	"github.com/spf13/cobra"

	"artistsync/internal/config"
)

// lidarrFlags holds the connection flags shared by every command that talks
// to Lidarr. Values left empty fall back to the [lidarr] config section.
type lidarrFlags struct {
	url              string
	apiKey           string
	rootFolder       string
	qualityProfileID int
}

func (f *lidarrFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.url, "lidarr-url", "", "Lidarr base URL, e.g. http://localhost:8686 (default from config)")
	cmd.Flags().StringVar(&f.apiKey, "api-key", "", "Lidarr API key (default from config)")
	cmd.Flags().StringVar(&f.rootFolder, "root-folder", "", "Lidarr root folder for new artists (default from config)")
	cmd.Flags().IntVar(&f.qualityProfileID, "quality-profile-id", 0, "Lidarr quality profile id (default from config, 1 if unset)")
}

func (f *lidarrFlags) apply(cfg *config.Config) {
	cfg.ApplyLidarrOverrides(f.url, f.apiKey, f.rootFolder, f.qualityProfileID)
}
