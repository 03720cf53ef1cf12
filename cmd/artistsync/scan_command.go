package main

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"

	"artistsync/internal/config"
	"artistsync/internal/library"
	"artistsync/internal/logging"
	"artistsync/internal/services"
)

func newScanCommand(ctx *commandContext) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "scan <library_path>",
		Short: "List artist folders in a music library",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cfg, logger, done, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer done()
			target, err := outputPath(output, cfg.Paths.FoldersFile)
			if err != nil {
				return err
			}
			_, err = scanLibrary(runCtx, cmd, logger, args[0], target)
			return err
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Folder list to write (default from config: folders.txt)")
	return cmd
}

// scanLibrary writes the folder list and returns the number of artists found.
func scanLibrary(ctx context.Context, cmd *cobra.Command, logger *slog.Logger, root, target string) (int, error) {
	logger = logging.WithContext(services.WithStage(ctx, "scan"), logger)
	rootPath, err := config.ExpandPath(strings.TrimSpace(root))
	if err != nil {
		return 0, fmt.Errorf("resolve library path: %w", err)
	}
	names, err := library.Scan(rootPath)
	if err != nil {
		return 0, err
	}

	out := cmd.OutOrStdout()
	if len(names) == 0 {
		fmt.Fprintf(out, "No artist folders found in %s\n", rootPath)
		return 0, nil
	}
	if err := library.WriteList(target, names); err != nil {
		return 0, err
	}
	logger.Info("artist list written",
		logging.String("library", rootPath),
		logging.String("output", target),
		logging.Int("artists", len(names)),
	)
	fmt.Fprintf(out, "Found %d artist folders; wrote %s\n", len(names), target)
	return len(names), nil
}

func outputPath(flag, fallback string) (string, error) {
	value := strings.TrimSpace(flag)
	if value == "" {
		return fallback, nil
	}
	return config.ExpandPath(value)
}
