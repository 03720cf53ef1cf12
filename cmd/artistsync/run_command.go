package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var foldersFile string
	var resultsFile string
	var dryRun bool
	var lf lidarrFlags

	cmd := &cobra.Command{
		Use:   "run <library_path>",
		Short: "Scan, resolve and import in one go",
		Long: "Run chains scan, resolve and import. The import step reads the whole results\n" +
			"file, so artists resolved by earlier runs but never imported are picked up too.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cfg, logger, done, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer done()
			folders, err := outputPath(foldersFile, cfg.Paths.FoldersFile)
			if err != nil {
				return err
			}
			results, err := outputPath(resultsFile, cfg.Paths.ResultsFile)
			if err != nil {
				return err
			}
			lf.apply(cfg)
			api, err := newLidarrClient(cfg)
			if err != nil {
				return err
			}

			found, err := scanLibrary(runCtx, cmd, logger, args[0], folders)
			if err != nil {
				return err
			}
			if found == 0 {
				return nil
			}
			summary, err := resolveArtists(runCtx, cmd, cfg, logger, folders, results)
			if err != nil {
				return err
			}
			if !summary.Completed {
				return fmt.Errorf("resolve did not complete")
			}
			return importArtists(runCtx, cmd, cfg, api, logger, results, dryRun)
		},
	}

	cmd.Flags().StringVar(&foldersFile, "folders", "", "Folder list file (default from config: folders.txt)")
	cmd.Flags().StringVar(&resultsFile, "results", "", "Results file (default from config: search_results.txt)")
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "Report what would be added without changing Lidarr")
	lf.register(cmd)
	return cmd
}
