package resolver

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/gofrs/flock"
	"golang.org/x/time/rate"

	"artistsync/internal/logging"
	"artistsync/internal/lookup"
	"artistsync/internal/services"
	"artistsync/internal/services/musicbrainz"
)

var (
	// ErrHalted reports that a lookup exhausted its retries and the run stopped.
	ErrHalted = errors.New("resolver halted")
	// ErrLocked reports that another resolver holds the results file.
	ErrLocked = errors.New("results file is locked by another resolver")
)

// Options tunes retry and pacing. Zero durations disable the wait. Progress
// receives the progress bar when it is a terminal.
type Options struct {
	MaxAttempts     int
	RetryDelay      time.Duration
	RequestInterval time.Duration
	Logger          *slog.Logger
	Progress        io.Writer
}

// Summary describes a completed or halted run.
type Summary struct {
	Total     int
	Skipped   int
	Pending   int
	Resolved  int
	NotFound  int
	Completed bool
}

// Processed returns the number of names written during the run.
func (s Summary) Processed() int {
	return s.Resolved + s.NotFound
}

// Resolver drives lookups for a folder list.
type Resolver struct {
	searcher    musicbrainz.Searcher
	logger      *slog.Logger
	maxAttempts int
	retryDelay  time.Duration
	interval    time.Duration
	progress    io.Writer
}

// New builds a Resolver backed by searcher.
func New(searcher musicbrainz.Searcher, opts Options) *Resolver {
	attempts := opts.MaxAttempts
	if attempts <= 0 {
		attempts = 1
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Resolver{
		searcher:    searcher,
		logger:      logging.NewComponentLogger(logger, "resolver"),
		maxAttempts: attempts,
		retryDelay:  max(opts.RetryDelay, 0),
		interval:    max(opts.RequestInterval, 0),
		progress:    opts.Progress,
	}
}

// Run resolves every unprocessed name in inputPath and appends the results
// to outputPath.
func (r *Resolver) Run(ctx context.Context, inputPath, outputPath string) (Summary, error) {
	ctx = services.WithStage(ctx, "resolve")
	logger := logging.WithContext(ctx, r.logger)
	var summary Summary

	lock := flock.New(outputPath + ".lock")
	locked, err := lock.TryLock()
	if err != nil {
		return summary, fmt.Errorf("lock results file: %w", err)
	}
	if !locked {
		return summary, fmt.Errorf("%w: %s", ErrLocked, outputPath)
	}
	defer func() {
		_ = lock.Unlock()
	}()

	processed, err := lookup.LoadResumeSet(outputPath)
	if err != nil {
		return summary, err
	}
	if len(processed) > 0 {
		logger.Info("resuming from previous results",
			logging.String("results_file", outputPath),
			logging.Int("previously_processed", len(processed)),
		)
	}

	names, err := lookup.ReadNames(inputPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return summary, services.Wrap(services.ErrNotFound, "resolve", "read input", "input file not found: "+inputPath, err)
		}
		return summary, fmt.Errorf("read input: %w", err)
	}

	pending := make([]string, 0, len(names))
	seen := make(map[string]struct{}, len(names))
	for _, name := range names {
		if _, done := processed[name]; done {
			continue
		}
		if _, dup := seen[name]; dup {
			continue
		}
		seen[name] = struct{}{}
		pending = append(pending, name)
	}
	summary.Total = len(names)
	summary.Pending = len(pending)
	summary.Skipped = summary.Total - summary.Pending

	if len(pending) == 0 {
		logger.Info("all artists already processed; nothing to do",
			logging.Int("total", summary.Total),
		)
		summary.Completed = true
		return summary, nil
	}
	logger.Info("resolving artists",
		logging.Int("pending", summary.Pending),
		logging.Int("skipped", summary.Skipped),
	)

	writer, err := lookup.OpenWriter(outputPath)
	if err != nil {
		return summary, err
	}
	defer writer.Close()

	limit := rate.Inf
	if r.interval > 0 {
		limit = rate.Every(r.interval)
	}
	limiter := rate.NewLimiter(limit, 1)
	bar := newProgressBar(r.progress, len(pending))

	for _, name := range pending {
		if err := limiter.Wait(ctx); err != nil {
			return summary, err
		}
		artist, err := r.lookup(ctx, logger, name)
		if err != nil {
			if ctxErr := ctx.Err(); ctxErr != nil {
				return summary, ctxErr
			}
			logging.ErrorWithContext(logger, "lookup failed; halting run", "lookup_halted",
				logging.Artist(name),
				logging.Int("attempts", r.maxAttempts),
				logging.Error(err),
				logging.String(logging.FieldErrorHint, "check network access to MusicBrainz and rerun; finished artists are kept"),
			)
			return summary, fmt.Errorf("%w at %q: %w", ErrHalted, name, err)
		}

		record := lookup.NotFound(name)
		if artist != nil {
			record = lookup.Resolved(artist.Name, artist.ID)
		}
		if err := writer.Write(record); err != nil {
			return summary, err
		}
		if record.Found() {
			summary.Resolved++
			logger.Info("artist resolved",
				logging.Artist(name),
				logging.String("canonical_name", artist.Name),
				logging.MBID(artist.ID),
			)
		} else {
			summary.NotFound++
			logger.Info("artist not found", logging.Artist(name))
		}
		_ = bar.Add(1)
	}
	_ = bar.Finish()

	summary.Completed = true
	logger.Info("resolve complete",
		logging.Int("resolved", summary.Resolved),
		logging.Int("not_found", summary.NotFound),
		logging.String("results_file", outputPath),
	)
	return summary, nil
}

// lookup searches for name with a bounded number of attempts and a constant
// pause between them. Non-retryable errors stop immediately.
func (r *Resolver) lookup(ctx context.Context, logger *slog.Logger, name string) (*musicbrainz.Artist, error) {
	var policy backoff.BackOff = backoff.NewConstantBackOff(r.retryDelay)
	policy = backoff.WithMaxRetries(policy, uint64(r.maxAttempts-1))
	policy = backoff.WithContext(policy, ctx)

	attempt := 0
	var artist *musicbrainz.Artist
	operation := func() error {
		attempt++
		found, err := r.searcher.SearchArtist(ctx, name)
		if err != nil {
			if ctx.Err() != nil || !services.Retryable(err) {
				return backoff.Permanent(err)
			}
			return err
		}
		artist = found
		return nil
	}
	notify := func(err error, wait time.Duration) {
		logging.WarnWithContext(logger, "musicbrainz lookup failed; retrying", "lookup_retry",
			logging.Artist(name),
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", r.maxAttempts),
			logging.Duration("retry_in", wait),
			logging.Error(err),
			logging.String(logging.FieldImpact, "artist lookup delayed"),
		)
	}
	if err := backoff.RetryNotify(operation, policy, notify); err != nil {
		return nil, err
	}
	return artist, nil
}
