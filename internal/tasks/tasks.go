// package tasks implements the catalog-to-Spotify bridge operations.
//
// The core abstraction is MatchEngine, which orchestrates roster extraction,
// concurrent track matching, and playlist assembly. Operations emit progress
// updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/vgx/internal/formatter"
	"github.com/desertthunder/vgx/internal/matcher"
	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/services"
	"github.com/desertthunder/vgx/internal/shared"
	"golang.org/x/time/rate"
)

// searchFn issues one search query, returning ranked candidates.
type searchFn func(ctx context.Context, query string) ([]models.Candidate, error)

// RunOpts contains configuration for a bridge run.
type RunOpts struct {
	PlaylistName string  // Destination playlist name (default: "Ultimate VGM Collection - <date>")
	Description  string  // Playlist description
	Public       bool    // Whether the playlist is public
	Limit        int     // Cap on roster tracks to process (0 = all)
	NumWorkers   int     // Concurrent workers (default: 5)
	RateLimit    float64 // Search requests per second (default: 5)
	ResultsPath  string  // Where to write the results report (empty = skip)

	Threshold   float64       // Minimum similarity score
	MaxAttempts int           // Retry attempts per search
	Backoff     time.Duration // Base retry delay
	Allowlist   []string      // Genre allowlist
	Denylist    []string      // Genre denylist
}

func (o *RunOpts) applyDefaults() {
	if o.PlaylistName == "" {
		o.PlaylistName = fmt.Sprintf("Ultimate VGM Collection - %s", time.Now().Format("2006-01-02"))
	}
	if o.Description == "" {
		o.Description = "Ultimate VGM Collection from VipVGM.net - All your favorite video game music in one place!"
	}
	if o.NumWorkers <= 0 {
		o.NumWorkers = 5
	}
	if o.NumWorkers > 10 {
		o.NumWorkers = 10
	}
	if o.RateLimit <= 0 {
		o.RateLimit = 5.0
	}
}

// BridgeRunResult contains all data from a full bridge run.
type BridgeRunResult struct {
	Report      *models.RunReport // Per-track outcomes and aggregate counts
	Playlist    *models.Playlist  // Created destination playlist (nil for match-only runs)
	ResultsPath string            // Path of the written results report, if any
}

// BridgeEngine defines the bridge operations exposed to the CLI and UI.
type BridgeEngine interface {
	// Match resolves the full roster against the search service without
	// touching the user's library.
	Match(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*models.RunReport, error)

	// Run performs a full bridge: extract roster, match tracks, create the
	// destination playlist and fill it with every matched URI.
	Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*BridgeRunResult, error)
}

// OutcomeCacher persists match outcomes as they complete. Caching is silent;
// persistence errors never disrupt a run.
type OutcomeCacher interface {
	CacheOutcome(outcome models.MatchOutcome) error
}

// MatchEngine implements BridgeEngine.
// Contains dependencies on the catalog, search and playlist services.
type MatchEngine struct {
	catalog  services.CatalogService
	search   services.SearchService
	playlist services.PlaylistService
	cacher   OutcomeCacher
}

// NewMatchEngine creates a MatchEngine with the provided services. The
// playlist service may be nil for match-only use.
func NewMatchEngine(catalog services.CatalogService, search services.SearchService, playlist services.PlaylistService) *MatchEngine {
	return &MatchEngine{
		catalog:  catalog,
		search:   search,
		playlist: playlist,
	}
}

// SetCacher installs an optional outcome persistence layer.
func (e *MatchEngine) SetCacher(cacher OutcomeCacher) {
	e.cacher = cacher
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *MatchEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full or closed, skip this update
	}
}

// Match extracts the roster and resolves every descriptor concurrently,
// returning the aggregate report. Outcomes preserve roster order.
func (e *MatchEngine) Match(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*models.RunReport, error) {
	if e.catalog == nil {
		return nil, fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}
	if e.search == nil {
		return nil, fmt.Errorf("%w: search service not initialized", shared.ErrServiceUnavailable)
	}

	opts.applyDefaults()

	e.sendProgress(progress, extractingCatalogUpdate(e.catalog.Name()))

	descriptors, err := e.catalog.ExtractTracks(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to extract roster: %w", err)
	}
	if opts.Limit > 0 && len(descriptors) > opts.Limit {
		descriptors = descriptors[:opts.Limit]
	}
	if len(descriptors) == 0 {
		return nil, fmt.Errorf("%w: roster is empty", shared.ErrCatalogUnavailable)
	}

	e.sendProgress(progress, catalogReadyUpdate(len(descriptors)))
	e.sendProgress(progress, matchStartedUpdate(len(descriptors), opts.NumWorkers))

	limiter := rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	search := rateLimitedSearch(limiter, func(ctx context.Context, query string) ([]models.Candidate, error) {
		return e.search.Search(ctx, query, 10)
	})

	resolver := matcher.NewResolver(search, matcher.NewFilter(opts.Allowlist, opts.Denylist), matcher.Config{
		Threshold:   opts.Threshold,
		MaxAttempts: opts.MaxAttempts,
		Backoff:     opts.Backoff,
	})

	report := &models.RunReport{
		Total:     len(descriptors),
		Workers:   opts.NumWorkers,
		StartedAt: time.Now(),
	}

	outcomes, err := e.resolveAll(ctx, progress, descriptors, resolver, opts.NumWorkers)
	report.Outcomes = outcomes
	report.FinishedAt = time.Now()
	if err != nil {
		return report, fmt.Errorf("match run aborted: %w", err)
	}

	if err := report.Finalize(); err != nil {
		return report, err
	}
	return report, nil
}

// Run performs the full bridge operation.
//
// A run with zero matches fails before creating the playlist so the user's
// library is never touched by a fruitless run.
func (e *MatchEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, opts RunOpts) (*BridgeRunResult, error) {
	if e.playlist == nil {
		return nil, fmt.Errorf("%w: playlist service not initialized", shared.ErrServiceUnavailable)
	}

	opts.applyDefaults()

	report, err := e.Match(ctx, progress, opts)
	if err != nil {
		return nil, err
	}

	result := &BridgeRunResult{Report: report}

	uris := report.MatchedURIs()
	if len(uris) == 0 {
		return result, fmt.Errorf("no tracks were matched - cannot create empty playlist")
	}

	e.sendProgress(progress, creatingPlaylistUpdate(opts.PlaylistName))

	playlist, err := e.playlist.CreatePlaylist(ctx, opts.PlaylistName, opts.Description, opts.Public)
	if err != nil {
		return result, fmt.Errorf("%w: failed to create playlist: %v", shared.ErrAPIRequest, err)
	}
	result.Playlist = playlist
	e.sendProgress(progress, playlistCreatedUpdate(playlist))

	e.sendProgress(progress, addingTracksUpdate(0, len(uris)))
	if err := e.playlist.AddTracks(ctx, playlist.ID, uris); err != nil {
		return result, fmt.Errorf("%w: failed to add tracks: %v", shared.ErrAPIRequest, err)
	}
	e.sendProgress(progress, addingTracksUpdate(len(uris), len(uris)))

	playlist.TrackCount = len(uris)

	if opts.ResultsPath != "" {
		e.sendProgress(progress, writingResultsUpdate(opts.ResultsPath))
		if err := formatter.WriteRunReport(report, playlist, opts.ResultsPath); err != nil {
			return result, fmt.Errorf("run completed but failed to write results: %w", err)
		}
		result.ResultsPath = opts.ResultsPath
	}

	return result, nil
}
