package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/e-surat-api/internal/models"
)

const dispositionColumns = `id, letter_id, target, notes, created_by, created_by_name, created_at, updated_at`

// DispositionRepository persists the append-only routing history.
type DispositionRepository struct {
	db *sqlx.DB
}

// NewDispositionRepository creates the repository.
func NewDispositionRepository(db *sqlx.DB) *DispositionRepository {
	return &DispositionRepository{db: db}
}

// Create appends a routing decision.
func (r *DispositionRepository) Create(ctx context.Context, d *models.Disposition) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	d.CreatedAt = now
	d.UpdatedAt = now
	query := `INSERT INTO dispositions (` + dispositionColumns + `)
VALUES (:id, :letter_id, :target, :notes, :created_by, :created_by_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, d); err != nil {
		return fmt.Errorf("create disposition: %w", err)
	}
	return nil
}

// GetByID returns one routing row.
func (r *DispositionRepository) GetByID(ctx context.Context, id string) (*models.Disposition, error) {
	query := `SELECT ` + dispositionColumns + ` FROM dispositions WHERE id = $1`
	var d models.Disposition
	if err := r.db.GetContext(ctx, &d, query, id); err != nil {
		return nil, err
	}
	return &d, nil
}

// ListByLetter returns the routing history newest-first. The head row is the
// current disposition.
func (r *DispositionRepository) ListByLetter(ctx context.Context, letterID string) ([]models.Disposition, error) {
	query := `SELECT ` + dispositionColumns + ` FROM dispositions
WHERE letter_id = $1 ORDER BY created_at DESC`
	var history []models.Disposition
	if err := r.db.SelectContext(ctx, &history, query, letterID); err != nil {
		return nil, fmt.Errorf("list dispositions: %w", err)
	}
	return history, nil
}

// Update corrects the target and notes of an existing row.
func (r *DispositionRepository) Update(ctx context.Context, d *models.Disposition) error {
	d.UpdatedAt = time.Now().UTC()
	query := `UPDATE dispositions SET target = :target, notes = :notes, updated_at = :updated_at WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, d)
	if err != nil {
		return fmt.Errorf("update disposition: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByLetterID removes a letter's whole routing history (cascade on
// letter deletion).
func (r *DispositionRepository) DeleteByLetterID(ctx context.Context, letterID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM dispositions WHERE letter_id = $1", letterID); err != nil {
		return fmt.Errorf("delete dispositions: %w", err)
	}
	return nil
}
