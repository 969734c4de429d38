package tasks

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/shared"
)

type mockCatalog struct {
	name        string
	descriptors []models.Descriptor
	extractErr  error
}

func (m *mockCatalog) Name() string {
	if m.name == "" {
		return "MockCatalog"
	}
	return m.name
}

func (m *mockCatalog) ExtractTracks(ctx context.Context) ([]models.Descriptor, error) {
	if m.extractErr != nil {
		return nil, m.extractErr
	}
	return m.descriptors, nil
}

type mockSearch struct {
	mu        sync.Mutex
	callCount int
	searchFn  func(query string) ([]models.Candidate, error)
}

func (m *mockSearch) Name() string { return "MockSearch" }

func (m *mockSearch) Search(ctx context.Context, query string, limit int) ([]models.Candidate, error) {
	m.mu.Lock()
	m.callCount++
	m.mu.Unlock()

	if m.searchFn != nil {
		return m.searchFn(query)
	}
	return nil, nil
}

type mockPlaylist struct {
	created     *models.Playlist
	createErr   error
	addErr      error
	addedURIs   []string
	deletedIDs  []string
	playlists   []models.Playlist
	playlistErr error
}

func (m *mockPlaylist) CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	if m.created == nil {
		m.created = &models.Playlist{ID: "pl1", Name: name, Description: description, Public: public}
	}
	return m.created, nil
}

func (m *mockPlaylist) AddTracks(ctx context.Context, playlistID string, uris []string) error {
	if m.addErr != nil {
		return m.addErr
	}
	m.addedURIs = append(m.addedURIs, uris...)
	return nil
}

func (m *mockPlaylist) GetPlaylists(ctx context.Context) ([]models.Playlist, error) {
	if m.playlistErr != nil {
		return nil, m.playlistErr
	}
	return m.playlists, nil
}

func (m *mockPlaylist) DeletePlaylist(ctx context.Context, playlistID string) error {
	m.deletedIDs = append(m.deletedIDs, playlistID)
	return nil
}

type mockCacher struct {
	mu       sync.Mutex
	outcomes []models.MatchOutcome
}

func (m *mockCacher) CacheOutcome(outcome models.MatchOutcome) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, outcome)
	return nil
}

func testDescriptors(n int) []models.Descriptor {
	descriptors := make([]models.Descriptor, n)
	for i := range descriptors {
		descriptors[i] = models.Descriptor{
			SourceID: fmt.Sprintf("%d", i+1),
			Title:    fmt.Sprintf("Track %d", i+1),
			Artist:   "Composer",
			Game:     "Some Game",
		}
	}
	return descriptors
}

// echoSearch returns a perfect candidate for every query by extracting the
// track title back out of the query string.
func echoSearch(query string) ([]models.Candidate, error) {
	title := query
	if idx := strings.Index(query, `track:"`); idx >= 0 {
		rest := query[idx+len(`track:"`):]
		if end := strings.Index(rest, `"`); end >= 0 {
			title = rest[:end]
		}
	}
	return []models.Candidate{
		{
			ID:      "spotify-" + title,
			Title:   title,
			Artists: []string{"Composer"},
			URI:     "spotify:track:" + title,
		},
	}, nil
}

func fastOpts() RunOpts {
	return RunOpts{
		Threshold:   0.6,
		MaxAttempts: 1,
		NumWorkers:  4,
		RateLimit:   10000,
	}
}

func TestMatch(t *testing.T) {
	t.Run("Resolves All Tracks In Order", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(12)}
		search := &mockSearch{searchFn: echoSearch}
		engine := NewMatchEngine(catalog, search, nil)

		report, err := engine.Match(context.Background(), nil, fastOpts())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if report.Total != 12 {
			t.Errorf("expected total 12, got %d", report.Total)
		}
		if len(report.Outcomes) != 12 {
			t.Fatalf("expected 12 outcomes, got %d", len(report.Outcomes))
		}
		if report.Matched != 12 {
			t.Errorf("expected 12 matched, got %d", report.Matched)
		}

		// Input order survives concurrent resolution.
		for i, outcome := range report.Outcomes {
			want := fmt.Sprintf("Track %d", i+1)
			if outcome.Descriptor.Title != want {
				t.Errorf("outcome %d: expected %s, got %s", i, want, outcome.Descriptor.Title)
			}
			if outcome.Status != models.StatusMatched {
				t.Errorf("outcome %d: expected matched, got %s", i, outcome.Status)
			}
		}
	})

	t.Run("Worker Count Does Not Change Results", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(20)}

		var reports []*models.RunReport
		for _, workers := range []int{1, 8} {
			search := &mockSearch{searchFn: echoSearch}
			engine := NewMatchEngine(catalog, search, nil)

			opts := fastOpts()
			opts.NumWorkers = workers

			report, err := engine.Match(context.Background(), nil, opts)
			if err != nil {
				t.Fatalf("workers=%d: expected no error, got %v", workers, err)
			}
			reports = append(reports, report)
		}

		for i := range reports[0].Outcomes {
			a, b := reports[0].Outcomes[i], reports[1].Outcomes[i]
			if a.Status != b.Status || a.Descriptor.SourceID != b.Descriptor.SourceID {
				t.Errorf("outcome %d differs between worker counts", i)
			}
		}
	})

	t.Run("Counts Sum To Total", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(10)}
		search := &mockSearch{searchFn: func(query string) ([]models.Candidate, error) {
			// Alternate between a findable track and nothing.
			if strings.Contains(query, "Track 1") || strings.Contains(query, "Track 2") {
				return echoSearch(query)
			}
			return nil, nil
		}}
		engine := NewMatchEngine(catalog, search, nil)

		report, err := engine.Match(context.Background(), nil, fastOpts())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		sum := report.Matched + report.Filtered + report.NotFound + report.Errored
		if sum != report.Total {
			t.Errorf("expected counts to sum to %d, got %d", report.Total, sum)
		}
		if report.NotFound == 0 {
			t.Error("expected some not-found outcomes")
		}
	})

	t.Run("Limit Caps Roster", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(50)}
		search := &mockSearch{searchFn: echoSearch}
		engine := NewMatchEngine(catalog, search, nil)

		opts := fastOpts()
		opts.Limit = 5

		report, err := engine.Match(context.Background(), nil, opts)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if report.Total != 5 {
			t.Errorf("expected total 5, got %d", report.Total)
		}
	})

	t.Run("Auth Failure Aborts Run", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(30)}
		search := &mockSearch{searchFn: func(query string) ([]models.Candidate, error) {
			return nil, fmt.Errorf("%w: token revoked", shared.ErrAuthFailed)
		}}
		engine := NewMatchEngine(catalog, search, nil)

		_, err := engine.Match(context.Background(), nil, fastOpts())
		if !errors.Is(err, shared.ErrAuthFailed) {
			t.Errorf("expected ErrAuthFailed, got %v", err)
		}

		// Abort should stop the run early rather than burning a search on
		// every remaining roster entry.
		search.mu.Lock()
		calls := search.callCount
		search.mu.Unlock()
		if calls >= 30*3 {
			t.Errorf("expected early abort, search called %d times", calls)
		}
	})

	t.Run("Per Track Failures Are Contained", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(4)}
		search := &mockSearch{searchFn: func(query string) ([]models.Candidate, error) {
			if strings.Contains(query, "Track 2") {
				return nil, fmt.Errorf("%w: status 400", shared.ErrAPIRequest)
			}
			return echoSearch(query)
		}}
		engine := NewMatchEngine(catalog, search, nil)

		report, err := engine.Match(context.Background(), nil, fastOpts())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if report.Errored != 1 {
			t.Errorf("expected 1 errored outcome, got %d", report.Errored)
		}
		if report.Matched != 3 {
			t.Errorf("expected 3 matched, got %d", report.Matched)
		}
	})

	t.Run("Empty Roster", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: nil}
		engine := NewMatchEngine(catalog, &mockSearch{}, nil)

		_, err := engine.Match(context.Background(), nil, fastOpts())
		if !errors.Is(err, shared.ErrCatalogUnavailable) {
			t.Errorf("expected ErrCatalogUnavailable, got %v", err)
		}
	})

	t.Run("Catalog Error", func(t *testing.T) {
		catalog := &mockCatalog{extractErr: shared.ErrCatalogUnavailable}
		engine := NewMatchEngine(catalog, &mockSearch{}, nil)

		_, err := engine.Match(context.Background(), nil, fastOpts())
		if !errors.Is(err, shared.ErrCatalogUnavailable) {
			t.Errorf("expected ErrCatalogUnavailable, got %v", err)
		}
	})

	t.Run("Missing Services", func(t *testing.T) {
		engine := NewMatchEngine(nil, nil, nil)
		_, err := engine.Match(context.Background(), nil, fastOpts())
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Caches Outcomes", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(6)}
		search := &mockSearch{searchFn: echoSearch}
		engine := NewMatchEngine(catalog, search, nil)

		cacher := &mockCacher{}
		engine.SetCacher(cacher)

		if _, err := engine.Match(context.Background(), nil, fastOpts()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		cacher.mu.Lock()
		cached := len(cacher.outcomes)
		cacher.mu.Unlock()
		if cached != 6 {
			t.Errorf("expected 6 cached outcomes, got %d", cached)
		}
	})

	t.Run("Progress Updates Preserve Phases", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(3)}
		search := &mockSearch{searchFn: echoSearch}
		engine := NewMatchEngine(catalog, search, nil)

		progress := make(chan ProgressUpdate, 100)
		if _, err := engine.Match(context.Background(), progress, fastOpts()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		close(progress)

		phases := make(map[Phase]bool)
		for update := range progress {
			phases[update.Phase] = true
		}
		if !phases[ExtractCatalog] {
			t.Error("expected an extract_catalog update")
		}
		if !phases[MatchTracks] {
			t.Error("expected match_tracks updates")
		}
	})
}

func TestRun(t *testing.T) {
	t.Run("Creates Playlist With Matched URIs", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(8)}
		search := &mockSearch{searchFn: echoSearch}
		playlist := &mockPlaylist{}
		engine := NewMatchEngine(catalog, search, playlist)

		opts := fastOpts()
		opts.PlaylistName = "Test VGM"

		result, err := engine.Run(context.Background(), nil, opts)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if result.Playlist == nil {
			t.Fatal("expected playlist to be created")
		}
		if result.Playlist.Name != "Test VGM" {
			t.Errorf("expected playlist name 'Test VGM', got %s", result.Playlist.Name)
		}
		if len(playlist.addedURIs) != 8 {
			t.Errorf("expected 8 URIs added, got %d", len(playlist.addedURIs))
		}
		if result.Playlist.TrackCount != 8 {
			t.Errorf("expected track count 8, got %d", result.Playlist.TrackCount)
		}
	})

	t.Run("Default Playlist Name", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(1)}
		search := &mockSearch{searchFn: echoSearch}
		playlist := &mockPlaylist{}
		engine := NewMatchEngine(catalog, search, playlist)

		result, err := engine.Run(context.Background(), nil, fastOpts())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if !strings.HasPrefix(result.Playlist.Name, "Ultimate VGM Collection - ") {
			t.Errorf("unexpected default playlist name %s", result.Playlist.Name)
		}
	})

	t.Run("No Matches Skips Playlist Creation", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(3)}
		search := &mockSearch{searchFn: func(query string) ([]models.Candidate, error) {
			return nil, nil
		}}
		playlist := &mockPlaylist{}
		engine := NewMatchEngine(catalog, search, playlist)

		result, err := engine.Run(context.Background(), nil, fastOpts())
		if err == nil {
			t.Error("expected error for zero matches")
		}
		if result == nil || result.Report == nil {
			t.Fatal("expected report even on failure")
		}
		if result.Playlist != nil {
			t.Error("expected no playlist for fruitless run")
		}
		if playlist.created != nil {
			t.Error("expected CreatePlaylist to never be called")
		}
	})

	t.Run("Missing Playlist Service", func(t *testing.T) {
		engine := NewMatchEngine(&mockCatalog{}, &mockSearch{}, nil)
		_, err := engine.Run(context.Background(), nil, fastOpts())
		if !errors.Is(err, shared.ErrServiceUnavailable) {
			t.Errorf("expected ErrServiceUnavailable, got %v", err)
		}
	})

	t.Run("Writes Results File", func(t *testing.T) {
		catalog := &mockCatalog{descriptors: testDescriptors(2)}
		search := &mockSearch{searchFn: echoSearch}
		playlist := &mockPlaylist{}
		engine := NewMatchEngine(catalog, search, playlist)

		opts := fastOpts()
		opts.ResultsPath = filepath.Join(t.TempDir(), "results.json")

		result, err := engine.Run(context.Background(), nil, opts)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if result.ResultsPath != opts.ResultsPath {
			t.Errorf("expected results path %s, got %s", opts.ResultsPath, result.ResultsPath)
		}

		data, err := os.ReadFile(opts.ResultsPath)
		if err != nil {
			t.Fatalf("failed to read results file: %v", err)
		}
		if !strings.Contains(string(data), "playlist_name") {
			t.Error("results file missing playlist metadata")
		}
	})
}
