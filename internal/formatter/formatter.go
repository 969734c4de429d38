// package formatter renders run reports to various formats (JSON, CSV, Markdown)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/shared"
)

// rounding applied to elapsed time in the markdown summary
const timeRounding = 10 * time.Millisecond

// ReportTrack is one resolved track in the results document.
type ReportTrack struct {
	SourceID  string   `json:"source_id"`
	Title     string   `json:"title"`
	Artist    string   `json:"artist"`
	Game      string   `json:"game,omitempty"`
	Status    string   `json:"status"`
	Score     float64  `json:"score,omitempty"`
	Attempts  int      `json:"attempts,omitempty"`
	Reason    string   `json:"reason,omitempty"`
	SpotifyID string   `json:"spotify_id,omitempty"`
	Matched   string   `json:"matched_title,omitempty"`
	Artists   []string `json:"matched_artists,omitempty"`
	URI       string   `json:"uri,omitempty"`
}

// ReportDocument mirrors the results file layout: aggregate statistics up
// top, then the full per-track breakdown split by outcome.
type ReportDocument struct {
	PlaylistID    string        `json:"playlist_id,omitempty"`
	PlaylistName  string        `json:"playlist_name,omitempty"`
	PlaylistURL   string        `json:"playlist_url,omitempty"`
	TotalTracks   int           `json:"total_tracks"`
	FoundCount    int           `json:"found_count"`
	FilteredCount int           `json:"filtered_count"`
	NotFoundCount int           `json:"not_found_count"`
	ErrorCount    int           `json:"error_count"`
	SuccessRate   float64       `json:"success_rate"`
	CreatedAt     string        `json:"created_at"`
	ElapsedMS     int64         `json:"elapsed_ms"`
	WorkersUsed   int           `json:"workers_used"`
	FoundTracks   []ReportTrack `json:"found_tracks"`
	MissedTracks  []ReportTrack `json:"missed_tracks"`
}

func outcomeToTrack(o models.MatchOutcome) ReportTrack {
	t := ReportTrack{
		SourceID: o.Descriptor.SourceID,
		Title:    o.Descriptor.Title,
		Artist:   o.Descriptor.Artist,
		Game:     o.Descriptor.Game,
		Status:   o.Status.String(),
		Score:    o.Score,
		Attempts: o.Attempts,
		Reason:   o.Reason,
	}
	if o.Chosen != nil {
		t.SpotifyID = o.Chosen.ID
		t.Matched = o.Chosen.Title
		t.Artists = o.Chosen.Artists
		t.URI = o.Chosen.URI
	}
	return t
}

// BuildReportDocument assembles the results document from a finished report.
// The playlist is optional; match-only runs pass nil.
func BuildReportDocument(report *models.RunReport, playlist *models.Playlist) *ReportDocument {
	doc := &ReportDocument{
		TotalTracks:   report.Total,
		FoundCount:    report.Matched,
		FilteredCount: report.Filtered,
		NotFoundCount: report.NotFound,
		ErrorCount:    report.Errored,
		SuccessRate:   report.SuccessRate(),
		CreatedAt:     report.FinishedAt.Format("2006-01-02T15:04:05Z07:00"),
		ElapsedMS:     report.Elapsed().Milliseconds(),
		WorkersUsed:   report.Workers,
		FoundTracks:   []ReportTrack{},
		MissedTracks:  []ReportTrack{},
	}

	if playlist != nil {
		doc.PlaylistID = playlist.ID
		doc.PlaylistName = playlist.Name
		doc.PlaylistURL = playlist.URL
	}

	for _, outcome := range report.Outcomes {
		track := outcomeToTrack(outcome)
		if outcome.Status == models.StatusMatched {
			doc.FoundTracks = append(doc.FoundTracks, track)
		} else {
			doc.MissedTracks = append(doc.MissedTracks, track)
		}
	}

	return doc
}

// ReportToJSON renders the results document as indented JSON.
func ReportToJSON(report *models.RunReport, playlist *models.Playlist) ([]byte, error) {
	return shared.MarshalJSON(BuildReportDocument(report, playlist), true)
}

// WriteRunReport writes the results document to the given path.
func WriteRunReport(report *models.RunReport, playlist *models.Playlist, path string) error {
	data, err := ReportToJSON(report, playlist)
	if err != nil {
		return fmt.Errorf("failed to generate results JSON: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write results file: %w", err)
	}
	return nil
}

// MissesToCSV renders unmatched tracks as CSV with columns: SourceID, Title, Artist, Game, Status, Reason
func MissesToCSV(report *models.RunReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"SourceID", "Title", "Artist", "Game", "Status", "Attempts", "Reason"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, outcome := range report.Outcomes {
		if outcome.Status == models.StatusMatched {
			continue
		}
		record := []string{
			outcome.Descriptor.SourceID,
			outcome.Descriptor.Title,
			outcome.Descriptor.Artist,
			outcome.Descriptor.Game,
			outcome.Status.String(),
			strconv.Itoa(outcome.Attempts),
			outcome.Reason,
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// WriteMissesCSV writes the unmatched-track CSV to the given path.
func WriteMissesCSV(report *models.RunReport, path string) error {
	data, err := MissesToCSV(report)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write CSV file: %w", err)
	}
	return nil
}

// ReportToMarkdown renders a human-readable run summary.
func ReportToMarkdown(report *models.RunReport, playlist *models.Playlist) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Bridge Run Summary\n\n")

	if playlist != nil {
		buf.WriteString(fmt.Sprintf("**Playlist**: %s\n", playlist.Name))
		if playlist.URL != "" {
			buf.WriteString(fmt.Sprintf("**URL**: %s\n", playlist.URL))
		}
		buf.WriteString("\n")
	}

	buf.WriteString(fmt.Sprintf("**Total tracks**: %d\n", report.Total))
	buf.WriteString(fmt.Sprintf("**Matched**: %d (%.1f%%)\n", report.Matched, report.SuccessRate()))
	buf.WriteString(fmt.Sprintf("**Filtered**: %d\n", report.Filtered))
	buf.WriteString(fmt.Sprintf("**Not found**: %d\n", report.NotFound))
	buf.WriteString(fmt.Sprintf("**Errors**: %d\n", report.Errored))
	buf.WriteString(fmt.Sprintf("**Elapsed**: %s with %d workers\n", report.Elapsed().Round(timeRounding), report.Workers))

	misses := 0
	for _, outcome := range report.Outcomes {
		if outcome.Status != models.StatusMatched {
			misses++
		}
	}

	if misses > 0 {
		buf.WriteString("\n## Unmatched\n\n")
		for _, outcome := range report.Outcomes {
			if outcome.Status == models.StatusMatched {
				continue
			}
			reason := outcome.Reason
			if reason == "" {
				reason = outcome.Status.String()
			}
			buf.WriteString(fmt.Sprintf("- %s - %s (%s): %s\n", outcome.Descriptor.Artist, outcome.Descriptor.Title, outcome.Descriptor.Game, reason))
		}
	}

	return buf.Bytes()
}
