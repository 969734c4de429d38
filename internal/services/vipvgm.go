// VipVGM catalog implementation of [CatalogService]
//
// VipVGM publishes its full track roster as JSON at /roster.json; each entry
// carries a title, a composer ("comp") and the game it shipped in.
package services

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/shared"
	"github.com/go-resty/resty/v2"
)

const defaultCatalogURL = "https://www.vipvgm.net"

// rosterEntry is one track in the VipVGM roster payload.
type rosterEntry struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
	Comp  string `json:"comp"`
	Game  string `json:"game"`
	File  string `json:"file"`
}

type rosterResponse struct {
	Tracks []rosterEntry `json:"tracks"`
}

// CatalogStats summarizes the roster.
type CatalogStats struct {
	TotalTracks   int      `json:"total_tracks"`
	UniqueGames   int      `json:"unique_games"`
	UniqueArtists int      `json:"unique_artists"`
	SampleGames   []string `json:"sample_games"`
	SampleArtists []string `json:"sample_artists"`
}

// VipVGMService implements [CatalogService] against the VipVGM roster endpoint.
type VipVGMService struct {
	client  *resty.Client
	baseURL string
}

// NewVipVGMService creates a catalog client. An empty baseURL falls back to
// the public VipVGM host.
func NewVipVGMService(baseURL, userAgent string, timeout time.Duration) *VipVGMService {
	if baseURL == "" {
		baseURL = defaultCatalogURL
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	client := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(timeout)

	if userAgent != "" {
		client.SetHeader("User-Agent", userAgent)
	}

	return &VipVGMService{client: client, baseURL: baseURL}
}

func (v *VipVGMService) Name() string {
	return "VipVGM"
}

// ExtractTracks fetches the roster and converts valid entries to descriptors.
// Entries missing a title or composer are skipped since they cannot be
// matched reliably downstream.
func (v *VipVGMService) ExtractTracks(ctx context.Context) ([]models.Descriptor, error) {
	resp, err := v.client.R().
		SetContext(ctx).
		Get("/roster.json")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", shared.ErrCatalogUnavailable, err)
	}

	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return nil, fmt.Errorf("%w: status %d", shared.ErrCatalogUnavailable, resp.StatusCode())
	}

	var roster rosterResponse
	if err := json.Unmarshal(resp.Body(), &roster); err != nil {
		return nil, fmt.Errorf("%w: malformed roster: %v", shared.ErrCatalogUnavailable, err)
	}

	descriptors := make([]models.Descriptor, 0, len(roster.Tracks))
	for _, entry := range roster.Tracks {
		title := strings.TrimSpace(entry.Title)
		artist := strings.TrimSpace(entry.Comp)
		if title == "" || artist == "" {
			continue
		}

		descriptors = append(descriptors, models.Descriptor{
			SourceID: strconv.Itoa(entry.ID),
			Title:    title,
			Artist:   artist,
			Game:     strings.TrimSpace(entry.Game),
			Raw: map[string]string{
				"file": strings.TrimSpace(entry.File),
			},
		})
	}

	return descriptors, nil
}

// SearchTracks filters the roster by case-insensitive substring match.
// The free-text query matches title, artist or game; game and artist narrow
// the result further.
func (v *VipVGMService) SearchTracks(ctx context.Context, query, game, artist string) ([]models.Descriptor, error) {
	all, err := v.ExtractTracks(ctx)
	if err != nil {
		return nil, err
	}

	if query == "" && game == "" && artist == "" {
		return all, nil
	}

	queryLower := strings.ToLower(query)
	gameLower := strings.ToLower(game)
	artistLower := strings.ToLower(artist)

	var filtered []models.Descriptor
	for _, d := range all {
		if query != "" {
			hit := strings.Contains(strings.ToLower(d.Title), queryLower) ||
				strings.Contains(strings.ToLower(d.Artist), queryLower) ||
				strings.Contains(strings.ToLower(d.Game), queryLower)
			if !hit {
				continue
			}
		}
		if game != "" && !strings.Contains(strings.ToLower(d.Game), gameLower) {
			continue
		}
		if artist != "" && !strings.Contains(strings.ToLower(d.Artist), artistLower) {
			continue
		}
		filtered = append(filtered, d)
	}

	return filtered, nil
}

// Stats computes collection statistics from the full roster.
func (v *VipVGMService) Stats(ctx context.Context) (*CatalogStats, error) {
	tracks, err := v.ExtractTracks(ctx)
	if err != nil {
		return nil, err
	}

	games := make(map[string]struct{})
	artists := make(map[string]struct{})
	for _, d := range tracks {
		if d.Game != "" {
			games[d.Game] = struct{}{}
		}
		if d.Artist != "" {
			artists[d.Artist] = struct{}{}
		}
	}

	stats := &CatalogStats{
		TotalTracks:   len(tracks),
		UniqueGames:   len(games),
		UniqueArtists: len(artists),
		SampleGames:   sortedSample(games, 10),
		SampleArtists: sortedSample(artists, 10),
	}
	return stats, nil
}

func sortedSample(set map[string]struct{}, n int) []string {
	values := make([]string, 0, len(set))
	for v := range set {
		values = append(values, v)
	}
	sort.Strings(values)
	if len(values) > n {
		values = values[:n]
	}
	return values
}
