package importer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"artistsync/internal/logging"
	"artistsync/internal/lookup"
	"artistsync/internal/services"
	"artistsync/internal/services/lidarr"
)

// ErrRosterUnavailable reports that the existing artists could not be listed.
var ErrRosterUnavailable = errors.New("lidarr roster unavailable")

// Action is what happened to one results line.
type Action string

const (
	ActionAdded    Action = "added"
	ActionFailed   Action = "failed"
	ActionExisting Action = "existing"
	ActionNotFound Action = "not_found"
	ActionPlanned  Action = "planned"
)

// Outcome records the handling of a single results line.
type Outcome struct {
	Line   int
	Name   string
	MBID   string
	Action Action
	Detail string
}

// Summary tallies a run. Outcomes excludes malformed lines.
type Summary struct {
	Added     int
	Failed    int
	Existing  int
	NotFound  int
	Malformed int
	Planned   int
	Outcomes  []Outcome
}

// Options configures the artists created in Lidarr. DryRun classifies lines
// without submitting anything.
type Options struct {
	RootFolder       string
	QualityProfileID int
	DryRun           bool
	Logger           *slog.Logger
}

// Importer adds resolved artists to Lidarr.
type Importer struct {
	api  lidarr.API
	opts Options
	log  *slog.Logger
}

// New builds an Importer backed by api.
func New(api lidarr.API, opts Options) *Importer {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Importer{
		api:  api,
		opts: opts,
		log:  logging.NewComponentLogger(logger, "importer"),
	}
}

// Run fetches the Lidarr roster, then processes every line of inputPath.
// Outcome.Line is the physical line number in inputPath.
func (im *Importer) Run(ctx context.Context, inputPath string) (Summary, error) {
	ctx = services.WithStage(ctx, "import")
	logger := logging.WithContext(ctx, im.log)
	var summary Summary

	roster, err := im.api.Roster(ctx)
	if err != nil {
		logging.ErrorWithContext(logger, "could not fetch existing artists", "roster_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check the Lidarr URL and API key"),
		)
		return summary, fmt.Errorf("%w: %w", ErrRosterUnavailable, err)
	}
	index := make(map[string]struct{}, len(roster))
	for _, artist := range roster {
		if artist.ForeignArtistID != "" {
			index[artist.ForeignArtistID] = struct{}{}
		}
	}
	logger.Info("loaded lidarr roster", logging.Int("artists", len(index)))

	lines, err := lookup.ReadNumberedLines(inputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return summary, services.Wrap(services.ErrNotFound, "import", "read input", "input file not found: "+inputPath, err)
		}
		return summary, fmt.Errorf("read input: %w", err)
	}

	for _, line := range lines {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		record, ok := lookup.ParseRecord(line.Text)
		if !ok {
			summary.Malformed++
			logger.Debug("skipping line without lookup marker", logging.Int("line", line.Number))
			continue
		}
		outcome := Outcome{Line: line.Number, Name: record.Name, MBID: record.MBID}

		switch {
		case !record.Found():
			outcome.Action = ActionNotFound
			summary.NotFound++
			logger.Info("skipping artist without musicbrainz match", logging.Artist(record.Name))
		case contains(index, record.MBID):
			outcome.Action = ActionExisting
			summary.Existing++
			logger.Info("artist already in lidarr", logging.Artist(record.Name), logging.MBID(record.MBID))
		case im.opts.DryRun:
			outcome.Action = ActionPlanned
			summary.Planned++
			index[record.MBID] = struct{}{}
			logger.Info("would add artist", logging.Artist(record.Name), logging.MBID(record.MBID))
		default:
			result := im.api.AddArtist(ctx, lidarr.AddRequest{
				MBID:             record.MBID,
				RootFolder:       im.opts.RootFolder,
				QualityProfileID: im.opts.QualityProfileID,
			})
			outcome.Detail = result.Detail
			if result.Status == lidarr.StatusAdded {
				outcome.Action = ActionAdded
				summary.Added++
				index[record.MBID] = struct{}{}
				logger.Info("artist added", logging.Artist(result.Detail), logging.MBID(record.MBID))
			} else {
				outcome.Action = ActionFailed
				summary.Failed++
				logging.WarnWithContext(logger, "failed to add artist", "artist_add_failed",
					logging.Artist(record.Name),
					logging.MBID(record.MBID),
					logging.String("reason", result.Detail),
					logging.String(logging.FieldImpact, "artist was not added; remaining artists continue"),
					logging.String(logging.FieldErrorHint, "rerun the import after fixing the reported problem"),
				)
			}
		}
		summary.Outcomes = append(summary.Outcomes, outcome)
	}

	logger.Info("import complete",
		logging.Int("added", summary.Added),
		logging.Int("failed", summary.Failed),
		logging.Int("existing", summary.Existing),
		logging.Int("not_found", summary.NotFound),
		logging.Bool("dry_run", im.opts.DryRun),
	)
	return summary, nil
}

func contains(index map[string]struct{}, key string) bool {
	_, ok := index[key]
	return ok
}
