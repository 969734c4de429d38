package main

import (
	"context"
	"time"

	"github.com/desertthunder/vgx/internal/formatter"
	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/repositories"
	"github.com/desertthunder/vgx/internal/tasks"
	"github.com/urfave/cli/v3"
)

// runOptsFromFlags builds the engine options from config defaults overlaid
// with command-line flags.
func (r *Runner) runOptsFromFlags(cmd *cli.Command) tasks.RunOpts {
	opts := tasks.RunOpts{
		Limit:       cmd.Int("limit"),
		NumWorkers:  r.config.Runner.Workers,
		RateLimit:   r.config.Runner.RequestsPerSecond,
		ResultsPath: cmd.String("results"),
		Threshold:   r.config.Matcher.SimilarityThreshold,
		MaxAttempts: r.config.Matcher.MaxRetryAttempts,
		Backoff:     time.Duration(r.config.Matcher.RetryBackoffMS) * time.Millisecond,
		Allowlist:   r.config.Matcher.GenreAllowlist,
		Denylist:    r.config.Matcher.GenreDenylist,
	}

	if workers := cmd.Int("workers"); workers > 0 {
		opts.NumWorkers = workers
	}
	if rate := cmd.Float64("rate"); rate > 0 {
		opts.RateLimit = rate
	}

	return opts
}

// startProgressPrinter consumes progress updates and renders them to the
// Runner's output. Returns the channel to pass to the engine; the caller
// closes it when the operation finishes.
func (r *Runner) startProgressPrinter() chan tasks.ProgressUpdate {
	progressCh := make(chan tasks.ProgressUpdate, 50)
	go func() {
		for update := range progressCh {
			switch update.Phase {
			case tasks.ExtractCatalog:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.MatchTracks:
				if update.Step == 0 {
					r.writePlain("\n🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.CreatePlaylist:
				r.writePlain("\n📝 %s\n", update.Message)
			case tasks.AddTracks:
				if update.Step == 0 {
					r.writePlain("➕ %s\n", update.Message)
				}
			case tasks.WriteResults:
				r.writePlain("💾 %s\n", update.Message)
			}
		}
	}()
	return progressCh
}

// BridgeRun performs a full bridge: match the roster and create the playlist.
func (r *Runner) BridgeRun(ctx context.Context, cmd *cli.Command) error {
	opts := r.runOptsFromFlags(cmd)
	opts.PlaylistName = cmd.String("name")
	opts.Description = cmd.String("description")
	opts.Public = cmd.Bool("public")

	r.logger.Info("starting bridge run", "workers", opts.NumWorkers, "limit", opts.Limit)
	r.writePlain("Starting VipVGM → Spotify bridge...\n\n")

	progressCh := r.startProgressPrinter()
	result, err := r.engine.Run(ctx, progressCh, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	report := result.Report

	r.writePlain("\n")
	r.writePlainHeader("Bridge Complete!")
	r.writePlain("Playlist: %s (%d tracks)\n", result.Playlist.Name, result.Playlist.TrackCount)
	if result.Playlist.URL != "" {
		r.writePlain("URL: %s\n", result.Playlist.URL)
	}
	r.printReportSummary(report)
	if result.ResultsPath != "" {
		r.writePlain("\nResults written to %s\n", result.ResultsPath)
	}

	r.persistRun(report, result.Playlist)

	return nil
}

// BridgeMatch resolves the roster without touching the user's library.
func (r *Runner) BridgeMatch(ctx context.Context, cmd *cli.Command) error {
	opts := r.runOptsFromFlags(cmd)

	r.logger.Info("starting match run", "workers", opts.NumWorkers, "limit", opts.Limit)
	r.writePlain("Matching VipVGM roster against Spotify (dry run)...\n\n")

	progressCh := r.startProgressPrinter()
	report, err := r.engine.Match(ctx, progressCh, opts)
	close(progressCh)

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Match Complete!")
	r.printReportSummary(report)

	if opts.ResultsPath != "" {
		if err := formatter.WriteRunReport(report, nil, opts.ResultsPath); err != nil {
			return err
		}
		r.writePlain("\nResults written to %s\n", opts.ResultsPath)
	}

	r.persistRun(report, nil)

	return nil
}

func (r *Runner) printReportSummary(report *models.RunReport) {
	r.writePlain("Matched: %d/%d (%.1f%%)\n", report.Matched, report.Total, report.SuccessRate())
	r.writePlain("Filtered by genre: %d\n", report.Filtered)
	r.writePlain("Not found: %d\n", report.NotFound)
	r.writePlain("Errors: %d\n", report.Errored)
	r.writePlain("Elapsed: %s with %d workers\n", report.Elapsed().Round(10*time.Millisecond), report.Workers)

	misses := report.Filtered + report.NotFound + report.Errored
	if misses == 0 {
		return
	}

	r.writePlain("\nUnmatched tracks:\n")
	for _, outcome := range report.Outcomes {
		if outcome.Status == models.StatusMatched {
			continue
		}
		reason := outcome.Reason
		if reason == "" {
			reason = outcome.Status.String()
		}
		r.writePlain("  - %s - %s: %s\n", outcome.Descriptor.Artist, outcome.Descriptor.Title, reason)
	}
}

// persistRun records the run summary (and created playlist) when the
// database is available. Persistence failures are logged, not fatal.
func (r *Runner) persistRun(report *models.RunReport, playlist *models.Playlist) {
	if r.db == nil || report == nil {
		return
	}

	playlistID := ""
	if playlist != nil {
		playlistID = playlist.ID
		playlistRepo := repositories.NewPlaylistRepository(r.db)
		if _, err := playlistRepo.GetBySpotifyID(playlist.ID); err != nil {
			if err := playlistRepo.Create(models.NewPersistedPlaylist(0, *playlist)); err != nil {
				r.logger.Warn("failed to persist playlist", "error", err)
			}
		}
	}

	runRepo := repositories.NewRunRepository(r.db)
	if err := runRepo.Create(models.NewPersistedRun(0, playlistID, *report)); err != nil {
		r.logger.Warn("failed to persist run summary", "error", err)
	}
}
