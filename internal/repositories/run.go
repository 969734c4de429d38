package repositories

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/desertthunder/vgx/internal/models"
	"github.com/desertthunder/vgx/internal/shared"
)

// RunRepository implements models.Repository[*models.PersistedRun].
//
// Stores run summaries only; per-track outcomes live in the outcomes table.
type RunRepository struct {
	db *sql.DB
}

// NewRunRepository creates a new RunRepository with the given database connection
func NewRunRepository(db *sql.DB) *RunRepository {
	return &RunRepository{db: db}
}

// Create inserts a new [models.PersistedRun] into the database with generated ID and sequence
func (r *RunRepository) Create(persisted *models.PersistedRun) error {
	sequence, err := NextSequence(r.db, "runs")
	if err != nil {
		return fmt.Errorf("failed to generate sequence: %w", err)
	}

	id := shared.GenerateID()
	persisted.SetID(id)
	persisted.SetSequence(sequence)

	if err := persisted.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	report := persisted.Report()

	var playlistID sql.NullString
	if persisted.PlaylistID() != "" {
		playlistID = sql.NullString{String: persisted.PlaylistID(), Valid: true}
	}

	query := `
		INSERT INTO runs (id, sequence, playlist_id, total, matched, filtered, not_found, errored, workers, started_at, finished_at, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = r.db.Exec(query,
		id,
		sequence,
		playlistID,
		report.Total,
		report.Matched,
		report.Filtered,
		report.NotFound,
		report.Errored,
		report.Workers,
		report.StartedAt,
		report.FinishedAt,
		persisted.CreatedAt(),
		persisted.UpdatedAt(),
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}

	return nil
}

// Get retrieves a run by ID, excluding soft-deleted runs
func (r *RunRepository) Get(id string) (*models.PersistedRun, error) {
	query := selectRun + ` WHERE id = ? AND deleted_at IS NULL`
	return r.scanOne(r.db.QueryRow(query, id))
}

// Update modifies an existing run in the database
func (r *RunRepository) Update(persisted *models.PersistedRun) error {
	if err := persisted.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	now := time.Now()
	persisted.SetUpdatedAt(now)

	report := persisted.Report()

	query := `
		UPDATE runs
		SET total = ?, matched = ?, filtered = ?, not_found = ?, errored = ?, workers = ?, finished_at = ?, updated_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query,
		report.Total,
		report.Matched,
		report.Filtered,
		report.NotFound,
		report.Errored,
		report.Workers,
		report.FinishedAt,
		now,
		persisted.ID(),
	)
	if err != nil {
		return fmt.Errorf("failed to update run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found or already deleted: %s", persisted.ID())
	}

	return nil
}

// Delete soft-deletes a run by ID
func (r *RunRepository) Delete(id string) error {
	now := time.Now()

	query := `
		UPDATE runs
		SET deleted_at = ?
		WHERE id = ? AND deleted_at IS NULL
	`

	result, err := r.db.Exec(query, now, id)
	if err != nil {
		return fmt.Errorf("failed to delete run: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return fmt.Errorf("run not found or already deleted: %s", id)
	}

	return nil
}

// List retrieves runs ordered by most recent start time
func (r *RunRepository) List(criteria map[string]any) ([]*models.PersistedRun, error) {
	query := selectRun + ` WHERE deleted_at IS NULL`

	args := []any{}

	if playlistID, ok := criteria["playlist_id"].(string); ok && playlistID != "" {
		query += " AND playlist_id = ?"
		args = append(args, playlistID)
	}

	query += " ORDER BY started_at DESC"

	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query runs: %w", err)
	}
	defer rows.Close()

	var runs []*models.PersistedRun
	for rows.Next() {
		run, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("row iteration error: %w", err)
	}

	return runs, nil
}

const selectRun = `
	SELECT id, sequence, playlist_id, total, matched, filtered, not_found, errored, workers, started_at, finished_at, created_at, updated_at, deleted_at
	FROM runs`

type runRow struct {
	id         string
	sequence   int
	playlistID sql.NullString
	total      int
	matched    int
	filtered   int
	notFound   int
	errored    int
	workers    int
	startedAt  time.Time
	finishedAt time.Time
	createdAt  time.Time
	updatedAt  time.Time
	deletedAt  sql.NullTime
}

func (row *runRow) toModel() *models.PersistedRun {
	report := models.RunReport{
		Total:      row.total,
		Matched:    row.matched,
		Filtered:   row.filtered,
		NotFound:   row.notFound,
		Errored:    row.errored,
		Workers:    row.workers,
		StartedAt:  row.startedAt,
		FinishedAt: row.finishedAt,
	}

	persisted := models.NewPersistedRun(row.sequence, row.playlistID.String, report)
	persisted.SetID(row.id)
	persisted.SetUpdatedAt(row.updatedAt)
	if row.deletedAt.Valid {
		persisted.SetDeletedAt(&row.deletedAt.Time)
	}

	return persisted
}

// scanOne scans a single [sql.Row] into a [models.PersistedRun]
func (r *RunRepository) scanOne(row *sql.Row) (*models.PersistedRun, error) {
	var run runRow

	err := row.Scan(&run.id, &run.sequence, &run.playlistID, &run.total, &run.matched, &run.filtered, &run.notFound, &run.errored, &run.workers, &run.startedAt, &run.finishedAt, &run.createdAt, &run.updatedAt, &run.deletedAt)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("run not found")
	}
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	return run.toModel(), nil
}

// scanRow scans a row from [sql.Rows] into a [models.PersistedRun]
func (r *RunRepository) scanRow(rows *sql.Rows) (*models.PersistedRun, error) {
	var run runRow

	err := rows.Scan(&run.id, &run.sequence, &run.playlistID, &run.total, &run.matched, &run.filtered, &run.notFound, &run.errored, &run.workers, &run.startedAt, &run.finishedAt, &run.createdAt, &run.updatedAt, &run.deletedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to scan run: %w", err)
	}

	return run.toModel(), nil
}
