package tasks

import (
	"fmt"

	"github.com/desertthunder/vgx/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	ExtractCatalog Phase = iota
	MatchTracks
	CreatePlaylist
	AddTracks
	WriteResults
)

func (p Phase) String() string {
	switch p {
	case ExtractCatalog:
		return "extract_catalog"
	case MatchTracks:
		return "match_tracks"
	case CreatePlaylist:
		return "create_playlist"
	case AddTracks:
		return "add_tracks"
	case WriteResults:
		return "write_results"
	default:
		return ""
	}
}

func extractingCatalogUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching track roster from %s...", name),
	}
}

func catalogReadyUpdate(count int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ExtractCatalog,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found %d tracks in roster", count),
		Data:    count,
	}
}

func matchStartedUpdate(total, workers int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    0,
		Total:   total,
		Message: fmt.Sprintf("Matching %d tracks with %d workers...", total, workers),
	}
}

func matchResultUpdate(step, total int, outcome models.MatchOutcome) ProgressUpdate {
	var message string
	switch outcome.Status {
	case models.StatusMatched:
		message = fmt.Sprintf("[%d/%d] ✓ %s - %s (%.2f)", step, total, outcome.Descriptor.Artist, outcome.Descriptor.Title, outcome.Score)
	case models.StatusFiltered:
		message = fmt.Sprintf("[%d/%d] ⊘ %s - %s (%s)", step, total, outcome.Descriptor.Artist, outcome.Descriptor.Title, outcome.Reason)
	case models.StatusError:
		message = fmt.Sprintf("[%d/%d] ! %s - %s: %s", step, total, outcome.Descriptor.Artist, outcome.Descriptor.Title, outcome.Reason)
	default:
		message = fmt.Sprintf("[%d/%d] ✗ %s - %s", step, total, outcome.Descriptor.Artist, outcome.Descriptor.Title)
	}

	return ProgressUpdate{
		Phase:   MatchTracks,
		Step:    step,
		Total:   total,
		Message: message,
		Data:    outcome,
	}
}

func creatingPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist: %s...", name),
	}
}

func playlistCreatedUpdate(pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Playlist created: %s (ID: %s)", pl.Name, pl.ID),
		Data:    pl,
	}
}

func addingTracksUpdate(step, total int) ProgressUpdate {
	return ProgressUpdate{
		Phase:   AddTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("Adding tracks to playlist (%d/%d)...", step, total),
	}
}

func writingResultsUpdate(path string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   WriteResults,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Writing results to %s...", path),
	}
}
