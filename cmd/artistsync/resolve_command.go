package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"artistsync/internal/config"
	"artistsync/internal/resolver"
	"artistsync/internal/services/lidarr"
)

func newResolveCommand(ctx *commandContext) *cobra.Command {
	var input string
	var output string
	var addToLidarr bool
	var lf lidarrFlags

	cmd := &cobra.Command{
		Use:   "resolve",
		Short: "Look up MusicBrainz ids for each artist folder",
		Long: "Resolve reads the folder list and appends one line per artist to the results file.\n" +
			"Artists already recorded there are skipped, so an interrupted run can be resumed\n" +
			"by running the same command again.",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cfg, logger, done, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer done()
			inputFile, err := outputPath(input, cfg.Paths.FoldersFile)
			if err != nil {
				return err
			}
			resultsFile, err := outputPath(output, cfg.Paths.ResultsFile)
			if err != nil {
				return err
			}

			var api *lidarr.Client
			if addToLidarr {
				lf.apply(cfg)
				if api, err = newLidarrClient(cfg); err != nil {
					return err
				}
			}

			summary, err := resolveArtists(runCtx, cmd, cfg, logger, inputFile, resultsFile)
			if err != nil {
				return err
			}
			if !addToLidarr {
				return nil
			}
			if !summary.Completed || summary.Processed() == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No new artists resolved; skipping Lidarr import")
				return nil
			}
			return importArtists(runCtx, cmd, cfg, api, logger, resultsFile, false)
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "Folder list to read (default from config: folders.txt)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "Results file to append to (default from config: search_results.txt)")
	cmd.Flags().BoolVar(&addToLidarr, "add-to-lidarr", false, "Import the results into Lidarr when resolving finishes")
	lf.register(cmd)
	return cmd
}

// resolveArtists runs the resolver and prints its summary. A halted run still
// prints what was done before returning the error.
func resolveArtists(ctx context.Context, cmd *cobra.Command, cfg *config.Config, logger *slog.Logger, input, output string) (resolver.Summary, error) {
	client, err := newMusicBrainzClient(cfg)
	if err != nil {
		return resolver.Summary{}, err
	}
	r := resolver.New(client, resolver.Options{
		MaxAttempts:     cfg.MusicBrainz.MaxAttempts,
		RetryDelay:      cfg.MusicBrainz.RetryDelay(),
		RequestInterval: cfg.MusicBrainz.RequestInterval(),
		Logger:          logger,
		Progress:        cmd.ErrOrStderr(),
	})
	summary, err := r.Run(ctx, input, output)
	if summary.Total > 0 {
		out := cmd.OutOrStdout()
		writeLines(out, resolveSummaryLines(summary, shouldColorize(out)))
	}
	return summary, err
}
