package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/shared"
)

// OutcomeRepository implements models.Repository[*models.PersistedOutcome] for outcome caching.
//
// Handles automatic outcome caching with soft delete support and source-id lookups.
// Outcomes are cached on every run so repeat runs can skip tracks already resolved.
type OutcomeRepository struct {
	db *sql.DB
}

// NewOutcomeRepository creates a new OutcomeRepository with the given database connection
func NewOutcomeRepository(db *sql.DB) *OutcomeRepository {
	return &OutcomeRepository{db: db}
}

// Create inserts a new [models.PersistedOutcome] into the database with generated ID and sequence
func (r *OutcomeRepository) Create(persisted *models.PersistedOutcome) error {
	sequence, err := NextSequence(r.db, "outcomes")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	persisted.SetID(id)
	persisted.SetSequence(sequence)

	if err := persisted.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	outcome := persisted.Outcome()
	var chosenID, chosenURI, chosenTitle sql.NullString
	if outcome.Chosen != nil {
		chosenID = sql.NullString{String: outcome.Chosen.ID, Valid: true}
		chosenURI = sql.NullString{String: outcome.Chosen.URI, Valid: true}
		chosenTitle = sql.NullString{String: outcome.Chosen.Title, Valid: true}
	}

	query := `
		INSERT INTO outcomes (id, sequence, source_id, title, artist, game, status, chosen_id, chosen_uri, chosen_title, score, attempts, reason, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		outcome.Descriptor.SourceID,
		outcome.Descriptor.Title,
		outcome.Descriptor.Artist,
		outcome.Descriptor.Game,
		outcome.Status.String(),
		chosenID,
		chosenURI,
		chosenTitle,
		outcome.Score,
		outcome.Attempts,
		outcome.Reason,
		persisted.CreatedAt(),
		persisted.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert outcome: %w", err)
	}

	return nil
}

// Get retrieves an outcome by ID, excluding soft-deleted outcomes
func (r *OutcomeRepository) Get(id string) (*models.PersistedOutcome, error) {
	query := selectOutcome + ` WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// GetBySourceID retrieves an outcome by the roster track's source id
func (r *OutcomeRepository) GetBySourceID(sourceID string) (*models.PersistedOutcome, error) {
	query := selectOutcome + ` WHERE source_id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, sourceID))
}

// Update modifies an existing outcome in the database
func (r *OutcomeRepository) Update(persisted *models.PersistedOutcome) error {
	if err := persisted.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	persisted.SetUpdatedAt(now)

	outcome := persisted.Outcome()
	var chosenID, chosenURI, chosenTitle sql.NullString
	if outcome.Chosen != nil {
		chosenID = sql.NullString{String: outcome.Chosen.ID, Valid: true}
		chosenURI = sql.NullString{String: outcome.Chosen.URI, Valid: true}
		chosenTitle = sql.NullString{String: outcome.Chosen.Title, Valid: true}
	}

	query := `
		UPDATE outcomes
		SET status = ?, chosen_id = ?, chosen_uri = ?, chosen_title = ?, score = ?, attempts = ?, reason = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		outcome.Status.String(),
		chosenID,
		chosenURI,
		chosenTitle,
		outcome.Score,
		outcome.Attempts,
		outcome.Reason,
		now,
		persisted.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update outcome: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outcome not found or already deleted: %s", persisted.ID())
	}

	return nil
}

// Delete soft-deletes an outcome by ID
func (r *OutcomeRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE outcomes
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete outcome: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("outcome not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves all outcomes matching the given criteria, excluding soft-deleted outcomes
func (r *OutcomeRepository) List(criteria map[string]any) ([]*models.PersistedOutcome, error) {
	query := selectOutcome + ` WHERE deleted_at IS NULL`

	args := []any{}

	if status, ok := criteria["status"].(string); ok && status != "" {
		query += " AND status = ?"
		args = append(args, status)
	}

	if game, ok := criteria["game"].(string); ok && game != "" {
		query += " AND game = ?"
		args = append(args, game)
	}

	query += " ORDER BY sequence ASC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query outcomes: %w", err)
	}
	defer rows.Close()

	var outcomes []*models.PersistedOutcome
	for rows.Next() {
		outcome, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		outcomes = append(outcomes, outcome)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return outcomes, nil
}

const selectOutcome = `
	SELECT id, sequence, source_id, title, artist, game, status, chosen_id, chosen_uri, chosen_title, score, attempts, reason, created_at, updated_at, deleted_at
	FROM outcomes`

type outcomeRow struct {
	id          string
	sequence    int
	sourceID    string
	title       string
	artist      string
	game        string
	status      string
	chosenID    sql.NullString
	chosenURI   sql.NullString
	chosenTitle sql.NullString
	score       float64
	attempts    int
	reason      sql.NullString
	createdAt   time.Time
	updatedAt   time.Time
	deletedAt   sql.NullTime
}

func (row *outcomeRow) toModel() (*models.PersistedOutcome, error) {
	status, err := models.ParseStatus(row.status)
	if err != nil {
		return nil, fmt.Errorf("failed to parse outcome: %w", err)
	}

	outcome := models.MatchOutcome{
		Descriptor: models.Descriptor{
			SourceID: row.sourceID,
			Title:    row.title,
			Artist:   row.artist,
			Game:     row.game,
		},
		Status:   status,
		Score:    row.score,
		Attempts: row.attempts,
		Reason:   row.reason.String,
	}

	if row.chosenID.Valid {
		outcome.Chosen = &models.Candidate{
			ID:    row.chosenID.String,
			Title: row.chosenTitle.String,
			URI:   row.chosenURI.String,
		}
	}

	persisted := models.NewPersistedOutcome(row.sequence, outcome)
	persisted.SetID(row.id)
	persisted.SetUpdatedAt(row.updatedAt)
	if row.deletedAt.Valid {
		persisted.SetDeletedAt(&row.deletedAt.Time)
	}

	return persisted, nil
}

// scanOne scans a single [sql.Row] into a [models.PersistedOutcome]
func (r *OutcomeRepository) scanOne(row *sql.Row) (*models.PersistedOutcome, error) {
	var o outcomeRow

	err := row.Scan(&o.id, &o.sequence, &o.sourceID, &o.title, &o.artist, &o.game, &o.status, &o.chosenID, &o.chosenURI, &o.chosenTitle, &o.score, &o.attempts, &o.reason, &o.createdAt, &o.updatedAt, &o.deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("outcome not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan outcome: %w", err)
	}

	return o.toModel()
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedOutcome]
func (r *OutcomeRepository) scanRow(rows *sql.Rows) (*models.PersistedOutcome, error) {
	var o outcomeRow

	err := rows.Scan(&o.id, &o.sequence, &o.sourceID, &o.title, &o.artist, &o.game, &o.status, &o.chosenID, &o.chosenURI, &o.chosenTitle, &o.score, &o.attempts, &o.reason, &o.createdAt, &o.updatedAt, &o.deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan outcome: %w", err)
	}

	return o.toModel()
}
