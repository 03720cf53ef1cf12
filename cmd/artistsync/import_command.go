package main

import (
	"context"
	"log/slog"

	"github.com/spf13/cobra"

	"artistsync/internal/config"
	"artistsync/internal/importer"
	"artistsync/internal/services/lidarr"
)

func newImportCommand(ctx *commandContext) *cobra.Command {
	var input string
	var dryRun bool
	var lf lidarrFlags

	cmd := &cobra.Command{
		Use:   "import",
		Short: "Add resolved artists to Lidarr",
		Long: "Import reads the results file and adds every resolved artist that is not yet\n" +
			"in Lidarr. Artists without a MusicBrainz match are skipped.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cfg, logger, done, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer done()
			resultsFile, err := outputPath(input, cfg.Paths.ResultsFile)
			if err != nil {
				return err
			}
			lf.apply(cfg)
			api, err := newLidarrClient(cfg)
			if err != nil {
				return err
			}
			return importArtists(runCtx, cmd, cfg, api, logger, resultsFile, dryRun)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Results file to read (default from config: search_results.txt)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be added without changing Lidarr")
	lf.register(cmd)
	return cmd
}

func importArtists(ctx context.Context, cmd *cobra.Command, cfg *config.Config, api lidarr.API, logger *slog.Logger, input string, dryRun bool) error {
	im := importer.New(api, importer.Options{
		RootFolder:       cfg.Lidarr.RootFolder,
		QualityProfileID: cfg.Lidarr.QualityProfileID,
		DryRun:           dryRun,
		Logger:           logger,
	})
	summary, err := im.Run(ctx, input)
	if err != nil {
		return err
	}
	printImportResult(cmd.OutOrStdout(), summary, dryRun)
	return nil
}
