package models

import (
	"time"
)

// Model defines the base interface for all persistent models in the catalog bridge.
// Implementations include PersistedOutcome, PersistedPlaylist, and PersistedRun.
type Model interface {
	ID() string           // ID returns the unique identifier for this model
	CreatedAt() time.Time // CreatedAt returns when this model was created
	UpdatedAt() time.Time // UpdatedAt returns when this model was last updated
	Validate() error      // Validate checks if the model's data is valid and returns an error if not
}

// Repository defines the interface for data access operations.
// Implementations handle database interactions for specific model types.
type Repository[T Model] interface {
	Create(model T) error                      // Create inserts a new model into the database
	Get(id string) (T, error)                  // Get retrieves a model by its ID
	Update(model T) error                      // Update modifies an existing model in the database
	Delete(id string) error                    // Delete removes a model from the database by its ID
	List(criteria map[string]any) ([]T, error) // List retrieves all models matching the given criteria
}

// Descriptor represents a single source-catalog track's identifying metadata.
//
// Descriptors are produced by the catalog extractor and consumed read-only by
// the matching pipeline; they are never mutated after extraction.
type Descriptor struct {
	SourceID string            // Roster id on the source catalog
	Title    string            // Track title as published
	Artist   string            // Composer/artist guess, may be empty
	Game     string            // Game the track belongs to, may be empty
	Raw      map[string]string // Remaining source metadata (file name, system, ...)
}

// Candidate represents a search result from the target catalog considered as
// a possible match for a descriptor.
type Candidate struct {
	ID         string   // Spotify track id
	Title      string   // Track name
	Artists    []string // Artist names, primary first
	Album      string   // Album name
	Genres     []string // Genre tags reported for the candidate's artists, may be empty
	Popularity int      // Spotify popularity score (0-100)
	URI        string   // Spotify URI used for playlist additions
}

// Playlist represents a Spotify playlist.
type Playlist struct {
	ID          string
	Name        string
	Description string
	TrackCount  int
	Public      bool
	URL         string
}
