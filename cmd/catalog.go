package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/shared"
	"github.com/urfave/cli/v3"
)

// CatalogList lists roster tracks from the VipVGM catalog.
func (r *Runner) CatalogList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("listing roster tracks with limit %v", limit)

	descriptors, err := r.catalog.ExtractTracks(ctx)
	if err != nil {
		return err
	}

	total := len(descriptors)
	if limit > 0 && limit < total {
		descriptors = descriptors[:limit]
	}

	if useJSON {
		return r.writeJSON(descriptors, pretty)
	}

	r.writePlain("Showing %d of %d tracks:\n\n", len(descriptors), total)
	r.printDescriptors(descriptors)

	return nil
}

// CatalogSearch filters roster tracks by title, game, and artist.
func (r *Runner) CatalogSearch(ctx context.Context, cmd *cli.Command) error {
	query := cmd.StringArg("query")
	game := cmd.String("game")
	artist := cmd.String("artist")
	useJSON := cmd.Bool("json")

	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	if query == "" && game == "" && artist == "" {
		return fmt.Errorf("%w: provide a query argument or --game/--artist filter", shared.ErrMissingArgument)
	}

	r.logger.Info("searching roster", "query", query, "game", game, "artist", artist)

	descriptors, err := r.catalog.SearchTracks(ctx, query, game, artist)
	if err != nil {
		return err
	}

	if useJSON {
		return r.writeJSON(descriptors, true)
	}

	if len(descriptors) == 0 {
		r.writePlain("No tracks matched.\n")
		return nil
	}

	r.writePlain("Found %d tracks:\n\n", len(descriptors))
	r.printDescriptors(descriptors)

	return nil
}

// CatalogStats summarizes the roster contents.
func (r *Runner) CatalogStats(ctx context.Context, cmd *cli.Command) error {
	if r.catalog == nil {
		return fmt.Errorf("%w: catalog service not initialized", shared.ErrServiceUnavailable)
	}

	stats, err := r.catalog.Stats(ctx)
	if err != nil {
		return err
	}

	r.writePlainHeader(fmt.Sprintf("%s Roster", r.catalog.Name()))
	r.writePlain("Tracks: %d\n", stats.TotalTracks)
	r.writePlain("Games: %d\n", stats.UniqueGames)
	r.writePlain("Artists: %d\n", stats.UniqueArtists)

	if len(stats.SampleGames) > 0 {
		r.writePlain("\nSample games: %s\n", strings.Join(stats.SampleGames, ", "))
	}
	if len(stats.SampleArtists) > 0 {
		r.writePlain("Sample artists: %s\n", strings.Join(stats.SampleArtists, ", "))
	}

	return nil
}

func (r *Runner) printDescriptors(descriptors []models.Descriptor) {
	for i, descriptor := range descriptors {
		r.writePlain("%d. %s - %s\n", i+1, descriptor.Artist, descriptor.Title)
		if descriptor.Game != "" {
			r.writePlain("   Game: %s\n", descriptor.Game)
		}
	}
}
