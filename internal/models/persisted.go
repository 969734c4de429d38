package models

import (
	"fmt"
	"time"
)

// entity provides the shared lifecycle fields for persistent models.
type entity struct {
	id        string
	sequence  int
	createdAt time.Time
	updatedAt time.Time
	deletedAt *time.Time
}

func (e *entity) ID() string                { return e.id }
func (e *entity) Sequence() int             { return e.sequence }
func (e *entity) CreatedAt() time.Time      { return e.createdAt }
func (e *entity) UpdatedAt() time.Time      { return e.updatedAt }
func (e *entity) DeletedAt() *time.Time     { return e.deletedAt }
func (e *entity) SetID(id string)           { e.id = id }
func (e *entity) SetSequence(sequence int)  { e.sequence = sequence }
func (e *entity) SetUpdatedAt(t time.Time)  { e.updatedAt = t }
func (e *entity) SetDeletedAt(t *time.Time) { e.deletedAt = t }

func newEntity(sequence int) entity {
	now := time.Now()
	return entity{sequence: sequence, createdAt: now, updatedAt: now}
}

// PersistedOutcome is a database-backed [MatchOutcome], keyed by the
// descriptor's source id so repeat runs can reuse prior resolutions.
type PersistedOutcome struct {
	entity
	outcome MatchOutcome
}

// NewPersistedOutcome creates a PersistedOutcome wrapping the given outcome.
func NewPersistedOutcome(sequence int, outcome MatchOutcome) *PersistedOutcome {
	return &PersistedOutcome{entity: newEntity(sequence), outcome: outcome}
}

func (o *PersistedOutcome) SourceID() string      { return o.outcome.Descriptor.SourceID }
func (o *PersistedOutcome) Outcome() MatchOutcome { return o.outcome }

// Validate checks that the outcome identifies its source track.
func (o *PersistedOutcome) Validate() error {
	if o.outcome.Descriptor.SourceID == "" {
		return fmt.Errorf("outcome missing source id")
	}
	if o.outcome.Descriptor.Title == "" {
		return fmt.Errorf("outcome missing descriptor title")
	}
	if o.outcome.Status == StatusMatched && o.outcome.Chosen == nil {
		return fmt.Errorf("matched outcome missing chosen candidate")
	}
	return nil
}

// PersistedPlaylist records a playlist created on Spotify by a bridge run.
type PersistedPlaylist struct {
	entity
	playlist Playlist
}

// NewPersistedPlaylist creates a PersistedPlaylist wrapping the given playlist.
func NewPersistedPlaylist(sequence int, playlist Playlist) *PersistedPlaylist {
	return &PersistedPlaylist{entity: newEntity(sequence), playlist: playlist}
}

func (p *PersistedPlaylist) SpotifyID() string  { return p.playlist.ID }
func (p *PersistedPlaylist) Playlist() Playlist { return p.playlist }

func (p *PersistedPlaylist) Validate() error {
	if p.playlist.ID == "" {
		return fmt.Errorf("playlist missing spotify id")
	}
	if p.playlist.Name == "" {
		return fmt.Errorf("playlist missing name")
	}
	return nil
}

// PersistedRun records the summary of a completed bridge run.
type PersistedRun struct {
	entity
	playlistID string
	report     RunReport
}

// NewPersistedRun creates a PersistedRun for the given report. The playlist id
// may be empty for match-only runs.
func NewPersistedRun(sequence int, playlistID string, report RunReport) *PersistedRun {
	return &PersistedRun{entity: newEntity(sequence), playlistID: playlistID, report: report}
}

func (r *PersistedRun) PlaylistID() string { return r.playlistID }
func (r *PersistedRun) Report() RunReport  { return r.report }

func (r *PersistedRun) Validate() error {
	rep := r.report
	if rep.Total < 0 {
		return fmt.Errorf("run total cannot be negative")
	}
	if rep.Matched+rep.Filtered+rep.NotFound+rep.Errored != rep.Total {
		return fmt.Errorf("run counts do not sum to total")
	}
	return nil
}
