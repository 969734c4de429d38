package services

import (
	"context"

	"github.com/desertthunder/vgx/internal/models"
	"golang.org/x/oauth2"
)

// SearchService is the candidate provider the matching core searches against.
type SearchService interface {
	// Search issues one query against the provider's track search endpoint
	// and returns zero or more candidates.
	Search(ctx context.Context, query string, limit int) ([]models.Candidate, error)

	// Name returns the provider name (e.g., "Spotify").
	Name() string
}

// PlaylistService covers the one-shot playlist operations performed after a
// run has produced its report.
type PlaylistService interface {
	// CreatePlaylist creates a playlist for the authenticated user.
	CreatePlaylist(ctx context.Context, name, description string, public bool) (*models.Playlist, error)

	// AddTracks adds track URIs to a playlist, batching as the provider requires.
	AddTracks(ctx context.Context, playlistID string, uris []string) error

	// GetPlaylists retrieves all playlists for the authenticated user.
	GetPlaylists(ctx context.Context) ([]models.Playlist, error)

	// DeletePlaylist removes (unfollows) a playlist for the authenticated user.
	DeletePlaylist(ctx context.Context, playlistID string) error
}

// CatalogService is the source-catalog extractor collaborator.
type CatalogService interface {
	// ExtractTracks fetches the source roster and returns its descriptors in
	// catalog order.
	ExtractTracks(ctx context.Context) ([]models.Descriptor, error)

	// Name returns the catalog name (e.g., "VipVGM").
	Name() string
}

// CatalogBrowser extends CatalogService with the read-only browsing
// operations the CLI and TUI expose.
type CatalogBrowser interface {
	CatalogService

	// SearchTracks filters the roster by substring on title, game, and artist.
	SearchTracks(ctx context.Context, query, game, artist string) ([]models.Descriptor, error)

	// Stats summarizes the roster contents.
	Stats(ctx context.Context) (*CatalogStats, error)
}

// OAuthService covers the OAuth2 authorization code flow operations the CLI
// auth commands depend on.
type OAuthService interface {
	// GetAuthURL returns the provider consent page URL for the given state token.
	GetAuthURL(state string) string

	// OAuthConfig exposes the underlying OAuth2 configuration for callback handling.
	OAuthConfig() *oauth2.Config

	// UseToken installs a previously obtained token.
	UseToken(ctx context.Context, token *oauth2.Token)

	// Name returns the provider name.
	Name() string
}
