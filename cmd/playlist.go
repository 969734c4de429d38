package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/vgx/internal/shared"
	"github.com/urfave/cli/v3"
)

// PlaylistList lists the authenticated user's Spotify playlists.
func (r *Runner) PlaylistList(ctx context.Context, cmd *cli.Command) error {
	limit := cmd.Int("limit")
	useJSON := cmd.Bool("json")
	pretty := cmd.Bool("pretty")

	if r.playlists == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("listing spotify playlists with limit %v", limit)

	playlists, err := r.playlists.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, p := range playlists {
		r.writePlain("%d. %s\n", i+1, p.Name)
		if p.Description != "" {
			r.writePlain("   Description: %s\n", p.Description)
		}
		r.writePlain("   ID: %s\n", p.ID)
		r.writePlain("   Tracks: %d\n", p.TrackCount)
		if p.Public {
			r.writePlain("   Visibility: Public\n")
		} else {
			r.writePlain("   Visibility: Private\n")
		}
		r.writePlain("\n")
	}

	return nil
}

// PlaylistCreate creates an empty playlist for the authenticated user.
func (r *Runner) PlaylistCreate(ctx context.Context, cmd *cli.Command) error {
	name := cmd.StringArg("name")
	description := cmd.String("description")
	public := cmd.Bool("public")

	if name == "" {
		return fmt.Errorf("%w: playlist name is required", shared.ErrMissingArgument)
	}

	if r.playlists == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	r.logger.Infof("creating playlist %v", name)

	playlist, err := r.playlists.CreatePlaylist(ctx, name, description, public)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Playlist created\n")
	r.writePlain("  Name: %s\n", playlist.Name)
	r.writePlain("  ID: %s\n", playlist.ID)
	if playlist.URL != "" {
		r.writePlain("  URL: %s\n", playlist.URL)
	}

	return nil
}

// PlaylistDelete removes (unfollows) a playlist for the authenticated user.
// Requires typed confirmation unless --force is given.
func (r *Runner) PlaylistDelete(ctx context.Context, cmd *cli.Command) error {
	playlistID := cmd.String("id")

	if r.playlists == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	if !cmd.Bool("force") {
		r.writePlain("⚠ You are about to remove playlist %s from your library.\n", playlistID)
		if !r.confirm("Type 'yes' to confirm: ") {
			r.writePlain("✗ Deletion cancelled\n")
			return nil
		}
	}

	r.logger.Infof("deleting playlist %v", playlistID)

	if err := r.playlists.DeletePlaylist(ctx, playlistID); err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	r.writePlain("✓ Playlist %s removed\n", playlistID)

	return nil
}
