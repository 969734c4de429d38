package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/shared"
)

// PlaylistRepository implements models.Repository[*models.PersistedPlaylist].
//
// Records every playlist created on Spotify by a bridge run so the delete
// command can clean up without listing the user's whole library.
type PlaylistRepository struct {
	db *sql.DB
}

// NewPlaylistRepository creates a new PlaylistRepository with the given database connection
func NewPlaylistRepository(db *sql.DB) *PlaylistRepository {
	return &PlaylistRepository{db: db}
}

// Create inserts a new [models.PersistedPlaylist] into the database with generated ID and sequence
func (r *PlaylistRepository) Create(persisted *models.PersistedPlaylist) error {
	sequence, err := NextSequence(r.db, "playlists")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	persisted.SetID(id)
	persisted.SetSequence(sequence)

	if err := persisted.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	playlist := persisted.Playlist()

	query := `
		INSERT INTO playlists (id, sequence, spotify_id, name, description, track_count, public, url, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		playlist.ID,
		playlist.Name,
		playlist.Description,
		playlist.TrackCount,
		playlist.Public,
		playlist.URL,
		persisted.CreatedAt(),
		persisted.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert playlist: %w", err)
	}

	return nil
}

// Get retrieves a playlist by ID, excluding soft-deleted playlists
func (r *PlaylistRepository) Get(id string) (*models.PersistedPlaylist, error) {
	query := selectPlaylist + ` WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySpotifyID retrieves a playlist by its Spotify id
func (r *PlaylistRepository) GetBySpotifyID(spotifyID string) (*models.PersistedPlaylist, error) {
	query := selectPlaylist + ` WHERE spotify_id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, spotifyID))
}

// Update modifies an existing playlist in the database
func (r *PlaylistRepository) Update(persisted *models.PersistedPlaylist) error {
	if err := persisted.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	persisted.SetUpdatedAt(now)

	playlist := persisted.Playlist()

	query := `
		UPDATE playlists
		SET name = ?, description = ?, track_count = ?, public = ?, url = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		playlist.Name,
		playlist.Description,
		playlist.TrackCount,
		playlist.Public,
		playlist.URL,
		now,
		persisted.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", persisted.ID())
	}

	return nil
}

// Delete soft-deletes a playlist by ID
func (r *PlaylistRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE playlists
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete playlist: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("playlist not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all playlists, excluding soft-deleted ones
func (r *PlaylistRepository) List(criteria map[string]any) ([]*models.PersistedPlaylist, error) {
	query := selectPlaylist + ` WHERE deleted_at IS NULL`

	args := []any{}

	if name, ok := criteria["name"].(string); ok && name != "" {
		query += " AND name = ?"
		args = append(args, name)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query playlists: %w", err)
	}
	defer rows.Close()

	var playlists []*models.PersistedPlaylist
	for rows.Next() {
		playlist, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		playlists = append(playlists, playlist)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return playlists, nil
}

const selectPlaylist = `
	SELECT id, sequence, spotify_id, name, description, track_count, public, url, created_at, updated_at, deleted_at
	FROM playlists`

type playlistRow struct {
	id          string
	sequence    int
	spotifyID   string
	name        string
	description string
	trackCount  int
	public      bool
	url         string
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   sql.NullTime
}

func (row *playlistRow) toModel() *models.PersistedPlaylist {
	playlist := models.Playlist{
		ID:          row.spotifyID,
		Name:        row.name,
		Description: row.description,
		TrackCount:  row.trackCount,
		Public:      row.public,
		URL:         row.url,
	}

	persisted := models.NewPersistedPlaylist(row.sequence, playlist)
	persisted.SetID(row.id)
	persisted.SetUpdatedAt(row.updatedAt)
	if row.deletedAt.Valid {
		persisted.SetDeletedAt(&row.deletedAt.Time)
	}

	return persisted
}

// scanOne scans a single [sql.Row] into a [models.PersistedPlaylist]
func (r *PlaylistRepository) scanOne(row *sql.Row) (*models.PersistedPlaylist, error) {
	var p playlistRow

	err := row.Scan(&p.id, &p.sequence, &p.spotifyID, &p.name, &p.description, &p.trackCount, &p.public, &p.url, &p.createdAt, &p.updatedAt, &p.deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("playlist not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return p.toModel(), nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedPlaylist]
func (r *PlaylistRepository) scanRow(rows *sql.Rows) (*models.PersistedPlaylist, error) {
	var p playlistRow

	err := rows.Scan(&p.id, &p.sequence, &p.spotifyID, &p.name, &p.description, &p.trackCount, &p.public, &p.url, &p.createdAt, &p.updatedAt, &p.deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan playlist: %w", err)
	}

	return p.toModel(), nil
}
