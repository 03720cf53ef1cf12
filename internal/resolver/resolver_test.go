package resolver_test

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"artistsync/internal/resolver"
	"artistsync/internal/services"
	"artistsync/internal/services/musicbrainz"
	"artistsync/internal/testsupport"
)

type stubSearcher struct {
	mu      sync.Mutex
	calls   []string
	results map[string]*musicbrainz.Artist
	errs    map[string]error
}

func (s *stubSearcher) SearchArtist(_ context.Context, name string) (*musicbrainz.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls = append(s.calls, name)
	if err, ok := s.errs[name]; ok {
		return nil, err
	}
	return s.results[name], nil
}

func (s *stubSearcher) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, c := range s.calls {
		if c == name {
			n++
		}
	}
	return n
}

func newResolver(searcher musicbrainz.Searcher) *resolver.Resolver {
	return resolver.New(searcher, resolver.Options{MaxAttempts: 3})
}

func TestRunResolvesAndRecordsNotFound(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "radiohead", "Obscure Band")
	searcher := &stubSearcher{results: map[string]*musicbrainz.Artist{
		"radiohead": {ID: "a74b1b7f", Name: "Radiohead"},
	}}

	summary, err := newResolver(searcher).Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	want := []string{
		"Radiohead - lidarr:a74b1b7f",
		"Obscure Band - lidarr:NOT_FOUND",
	}
	if got := testsupport.ReadLines(t, cfg.Paths.ResultsFile); !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
	if !summary.Completed || summary.Resolved != 1 || summary.NotFound != 1 || summary.Processed() != 2 {
		t.Fatalf("unexpected summary %+v", summary)
	}
}

func TestRunResumesWithoutRequerying(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "X", "Y")
	testsupport.WriteLines(t, cfg.Paths.ResultsFile, "X - lidarr:abc")
	searcher := &stubSearcher{results: map[string]*musicbrainz.Artist{
		"Y": {ID: "def", Name: "Y"},
	}}

	summary, err := newResolver(searcher).Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if searcher.count("X") != 0 {
		t.Fatal("expected X to be skipped")
	}
	if summary.Skipped != 1 || summary.Pending != 1 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	want := []string{"X - lidarr:abc", "Y - lidarr:def"}
	if got := testsupport.ReadLines(t, cfg.Paths.ResultsFile); !slices.Equal(got, want) {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRunNothingToDo(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "X")
	testsupport.WriteLines(t, cfg.Paths.ResultsFile, "X - lidarr:NOT_FOUND")
	searcher := &stubSearcher{}

	summary, err := newResolver(searcher).Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Pending != 0 || summary.Processed() != 0 {
		t.Fatalf("unexpected summary %+v", summary)
	}
	if len(searcher.calls) != 0 {
		t.Fatalf("expected no lookups, got %q", searcher.calls)
	}
}

func TestRunHaltsAfterRetriesAndKeepsPriorLines(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "A", "B", "C")
	searcher := &stubSearcher{
		results: map[string]*musicbrainz.Artist{"A": {ID: "1", Name: "A"}},
		errs:    map[string]error{"B": &musicbrainz.StatusError{StatusCode: 503, Status: "503 Service Unavailable"}},
	}

	summary, err := newResolver(searcher).Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	if !errors.Is(err, resolver.ErrHalted) {
		t.Fatalf("expected ErrHalted, got %v", err)
	}
	var statusErr *musicbrainz.StatusError
	if !errors.As(err, &statusErr) {
		t.Fatalf("expected cause to be preserved, got %v", err)
	}
	if got := searcher.count("B"); got != 3 {
		t.Fatalf("expected 3 attempts, got %d", got)
	}
	if searcher.count("C") != 0 {
		t.Fatal("expected run to stop before C")
	}
	if summary.Completed {
		t.Fatal("expected incomplete summary")
	}
	if got := testsupport.ReadLines(t, cfg.Paths.ResultsFile); !slices.Equal(got, []string{"A - lidarr:1"}) {
		t.Fatalf("unexpected results %q", got)
	}
}

func TestRunDoesNotRetryDecodeErrors(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "A")
	searcher := &stubSearcher{errs: map[string]error{
		"A": services.Wrap(services.ErrDecode, "musicbrainz", "decode search", "A", errors.New("bad json")),
	}}

	_, err := newResolver(searcher).Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	if !errors.Is(err, resolver.ErrHalted) || !errors.Is(err, services.ErrDecode) {
		t.Fatalf("expected halted decode error, got %v", err)
	}
	if got := searcher.count("A"); got != 1 {
		t.Fatalf("expected a single attempt, got %d", got)
	}
}

type flakySearcher struct {
	failures int
	calls    int
}

func (f *flakySearcher) SearchArtist(_ context.Context, name string) (*musicbrainz.Artist, error) {
	f.calls++
	if f.calls <= f.failures {
		return nil, services.Wrap(services.ErrTransient, "musicbrainz", "search", name, errors.New("connection reset"))
	}
	return &musicbrainz.Artist{ID: "id-" + name, Name: name}, nil
}

func TestRunRecoversWithinRetryBudget(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "A")
	searcher := &flakySearcher{failures: 2}

	summary, err := newResolver(searcher).Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if searcher.calls != 3 || summary.Resolved != 1 {
		t.Fatalf("unexpected calls=%d summary=%+v", searcher.calls, summary)
	}
}

func TestRunMissingInput(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	_, err := newResolver(&stubSearcher{}).Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	if !errors.Is(err, services.ErrNotFound) {
		t.Fatalf("expected not-found error, got %v", err)
	}
}

func TestRunPacesLookups(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "A", "B", "C")
	searcher := &stubSearcher{}
	r := resolver.New(searcher, resolver.Options{MaxAttempts: 1, RequestInterval: 40 * time.Millisecond})

	start := time.Now()
	if _, err := r.Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if elapsed := time.Since(start); elapsed < 70*time.Millisecond {
		t.Fatalf("expected paced lookups, finished in %s", elapsed)
	}
}

func TestRunStopsOnCancel(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "A", "B")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newResolver(&stubSearcher{}).Run(ctx, cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestRunRejectsConcurrentResolver(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "A")

	release := make(chan struct{})
	entered := make(chan struct{})
	blocking := &blockingSearcher{entered: entered, release: release}
	done := make(chan error, 1)
	go func() {
		_, err := newResolver(blocking).Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
		done <- err
	}()
	<-entered

	_, err := newResolver(&stubSearcher{}).Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	close(release)
	if !errors.Is(err, resolver.ErrLocked) {
		t.Fatalf("expected ErrLocked, got %v", err)
	}
	if err := <-done; err != nil {
		t.Fatalf("first run: %v", err)
	}
}

type blockingSearcher struct {
	entered chan struct{}
	release chan struct{}
}

func (b *blockingSearcher) SearchArtist(ctx context.Context, name string) (*musicbrainz.Artist, error) {
	close(b.entered)
	<-b.release
	return nil, nil
}

// timedSearcher records when each lookup starts and answers from results or
// fails with err.
type timedSearcher struct {
	mu      sync.Mutex
	starts  []time.Time
	results map[string]*musicbrainz.Artist
	err     error
}

func (s *timedSearcher) SearchArtist(_ context.Context, name string) (*musicbrainz.Artist, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.starts = append(s.starts, time.Now())
	if s.err != nil {
		return nil, s.err
	}
	return s.results[name], nil
}

func (s *timedSearcher) gaps() []time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []time.Duration
	for i := 1; i < len(s.starts); i++ {
		out = append(out, s.starts[i].Sub(s.starts[i-1]))
	}
	return out
}

func TestRunPausesBetweenAttemptsButNotAfterLast(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "Slowdive")
	const delay = 60 * time.Millisecond
	searcher := &timedSearcher{err: services.Wrap(services.ErrTransient, "musicbrainz", "search", "", errors.New("503"))}
	r := resolver.New(searcher, resolver.Options{MaxAttempts: 3, RetryDelay: delay})

	_, err := r.Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	returned := time.Now()
	if !errors.Is(err, resolver.ErrHalted) {
		t.Fatalf("expected ErrHalted, got %v", err)
	}

	gaps := searcher.gaps()
	if len(gaps) != 2 {
		t.Fatalf("expected 3 attempts, got %d", len(gaps)+1)
	}
	for i, gap := range gaps {
		if gap < delay {
			t.Fatalf("attempt %d started %s after the previous one, want at least %s", i+2, gap, delay)
		}
	}
	last := searcher.starts[len(searcher.starts)-1]
	if tail := returned.Sub(last); tail >= delay {
		t.Fatalf("expected no pause after the final attempt, run returned %s after it", tail)
	}
}

func TestRunPacesLookupsRegardlessOfOutcome(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	testsupport.WriteLines(t, cfg.Paths.FoldersFile, "Unknown One", "Low", "Unknown Two", "Unknown Three")
	const interval = 40 * time.Millisecond
	searcher := &timedSearcher{results: map[string]*musicbrainz.Artist{
		"Low": {ID: "low-1", Name: "Low"},
	}}
	r := resolver.New(searcher, resolver.Options{MaxAttempts: 1, RequestInterval: interval})

	summary, err := r.Run(context.Background(), cfg.Paths.FoldersFile, cfg.Paths.ResultsFile)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.NotFound != 3 || summary.Resolved != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}

	gaps := searcher.gaps()
	if len(gaps) != 3 {
		t.Fatalf("expected 4 lookups, got %d", len(gaps)+1)
	}
	// Allow a little scheduling jitter between the limiter releasing and the
	// lookup recording its start.
	const slack = 5 * time.Millisecond
	for i, gap := range gaps {
		if gap < interval-slack {
			t.Fatalf("lookup %d started %s after the previous one, want about %s", i+2, gap, interval)
		}
	}
}
