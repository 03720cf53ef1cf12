package main

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"artistsync/internal/logging"
	"artistsync/internal/services/lidarr"
)

func newRosterCommand(ctx *commandContext) *cobra.Command {
	var asJSON bool
	var lf lidarrFlags

	cmd := &cobra.Command{
		Use:   "roster",
		Short: "List the artists already in Lidarr",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			runCtx, cfg, logger, done, err := ctx.begin(cmd)
			if err != nil {
				return err
			}
			defer done()
			lf.apply(cfg)
			api, err := newLidarrClient(cfg)
			if err != nil {
				return err
			}
			artists, err := api.Roster(runCtx)
			if err != nil {
				return fmt.Errorf("fetch roster: %w", err)
			}
			logging.WithContext(runCtx, logger).Debug("roster fetched", logging.Int("artists", len(artists)))

			slices.SortFunc(artists, func(a, b lidarr.Artist) int {
				return strings.Compare(strings.ToLower(a.ArtistName), strings.ToLower(b.ArtistName))
			})
			if asJSON {
				if artists == nil {
					artists = []lidarr.Artist{}
				}
				return writeJSON(cmd.OutOrStdout(), artists)
			}

			out := cmd.OutOrStdout()
			if len(artists) == 0 {
				fmt.Fprintln(out, "Lidarr has no artists")
				return nil
			}
			rows := make([][]string, 0, len(artists))
			for _, a := range artists {
				rows = append(rows, []string{strconv.Itoa(a.ID), a.ArtistName, a.ForeignArtistID, yesNo(a.Monitored), a.Path})
			}
			fmt.Fprintln(out, renderTable(
				[]string{"ID", "Artist", "MBID", "Monitored", "Path"},
				rows,
				[]columnAlignment{alignRight, alignLeft, alignLeft, alignLeft, alignLeft},
			))
			fmt.Fprintf(out, "%d artists\n", len(artists))
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Output the roster as JSON")
	lf.register(cmd)
	return cmd
}
