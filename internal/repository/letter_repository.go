package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/e-surat-api/internal/models"
)

const letterColumns = `id, direction, letter_number, nature, security_class, sender, recipient, processor,
received_date, letter_date, execution_date, subject, note,
is_invitation, event_date, event_time, event_location, event_notes,
needs_follow_up, follow_up_deadline, overdue_notified_at,
disposition_method, disposition_target, external_ref_number,
file_name, file_path, user_id, user_name, created_at, updated_at`

// LetterRepository provides persistence for the letter register.
type LetterRepository struct {
	db *sqlx.DB
}

// NewLetterRepository creates the repository.
func NewLetterRepository(db *sqlx.DB) *LetterRepository {
	return &LetterRepository{db: db}
}

// IsUniqueViolation reports whether err is a Postgres duplicate-key error.
func IsUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "23505"
}

// Create inserts a new letter row.
func (r *LetterRepository) Create(ctx context.Context, letter *models.Letter) error {
	if letter.ID == "" {
		letter.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	letter.CreatedAt = now
	letter.UpdatedAt = now
	query := `INSERT INTO letters (` + letterColumns + `)
VALUES (:id, :direction, :letter_number, :nature, :security_class, :sender, :recipient, :processor,
:received_date, :letter_date, :execution_date, :subject, :note,
:is_invitation, :event_date, :event_time, :event_location, :event_notes,
:needs_follow_up, :follow_up_deadline, :overdue_notified_at,
:disposition_method, :disposition_target, :external_ref_number,
:file_name, :file_path, :user_id, :user_name, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, letter); err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("create letter: %w", err)
	}
	return nil
}

// GetByID returns a letter by identifier.
func (r *LetterRepository) GetByID(ctx context.Context, id string) (*models.Letter, error) {
	query := `SELECT ` + letterColumns + ` FROM letters WHERE id = $1`
	var letter models.Letter
	if err := r.db.GetContext(ctx, &letter, query, id); err != nil {
		return nil, err
	}
	return &letter, nil
}

// Update persists the full letter row.
func (r *LetterRepository) Update(ctx context.Context, letter *models.Letter) error {
	letter.UpdatedAt = time.Now().UTC()
	query := `UPDATE letters SET letter_number = :letter_number, nature = :nature, security_class = :security_class,
sender = :sender, recipient = :recipient, processor = :processor,
received_date = :received_date, letter_date = :letter_date, execution_date = :execution_date,
subject = :subject, note = :note,
is_invitation = :is_invitation, event_date = :event_date, event_time = :event_time,
event_location = :event_location, event_notes = :event_notes,
needs_follow_up = :needs_follow_up, follow_up_deadline = :follow_up_deadline,
overdue_notified_at = :overdue_notified_at,
disposition_method = :disposition_method, disposition_target = :disposition_target,
external_ref_number = :external_ref_number,
file_name = :file_name, file_path = :file_path, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, letter)
	if err != nil {
		if IsUniqueViolation(err) {
			return err
		}
		return fmt.Errorf("update letter: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// Delete removes a letter row.
func (r *LetterRepository) Delete(ctx context.Context, id string) error {
	result, err := r.db.ExecContext(ctx, "DELETE FROM letters WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete letter: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// List returns a page of letters matching the filter plus the total count.
func (r *LetterRepository) List(ctx context.Context, filter models.LetterFilter) ([]models.Letter, int, error) {
	where := []string{"direction = $1"}
	args := []interface{}{string(filter.Direction)}

	if search := strings.TrimSpace(filter.Search); search != "" {
		pattern := "%" + search + "%"
		where = append(where, fmt.Sprintf(
			"(letter_number ILIKE $%d OR subject ILIKE $%d OR sender ILIKE $%d OR recipient ILIKE $%d)",
			len(args)+1, len(args)+1, len(args)+1, len(args)+1))
		args = append(args, pattern)
	}
	if filter.Nature != nil {
		where = append(where, fmt.Sprintf("nature = $%d", len(args)+1))
		args = append(args, string(*filter.Nature))
	}
	if filter.IsInvitation != nil {
		where = append(where, fmt.Sprintf("is_invitation = $%d", len(args)+1))
		args = append(args, *filter.IsInvitation)
	}
	if filter.StartDate != nil {
		where = append(where, fmt.Sprintf("received_date >= $%d", len(args)+1))
		args = append(args, *filter.StartDate)
	}
	if filter.EndDate != nil {
		where = append(where, fmt.Sprintf("received_date <= $%d", len(args)+1))
		args = append(args, *filter.EndDate)
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s FROM letters WHERE %s
ORDER BY received_date DESC, created_at DESC
LIMIT %d OFFSET %d`, letterColumns, whereClause, size, offset)
	var letters []models.Letter
	if err := r.db.SelectContext(ctx, &letters, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list letters: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM letters WHERE %s", whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count letters: %w", err)
	}
	return letters, total, nil
}

// ListOverdueInvitations returns incoming invitation letters whose event has
// passed without an overdue alert, capped at limit rows.
func (r *LetterRepository) ListOverdueInvitations(ctx context.Context, now time.Time, limit int) ([]models.Letter, error) {
	query := `SELECT ` + letterColumns + ` FROM letters
WHERE direction = $1 AND is_invitation = TRUE AND event_date < $2 AND overdue_notified_at IS NULL
ORDER BY event_date ASC
LIMIT $3`
	var letters []models.Letter
	if err := r.db.SelectContext(ctx, &letters, query, string(models.DirectionIncoming), now, limit); err != nil {
		return nil, fmt.Errorf("list overdue invitations: %w", err)
	}
	return letters, nil
}

// MarkOverdueNotified stamps the selected letters so they are never
// re-selected by the overdue job.
func (r *LetterRepository) MarkOverdueNotified(ctx context.Context, ids []string, ts time.Time) error {
	if len(ids) == 0 {
		return nil
	}
	query := `UPDATE letters SET overdue_notified_at = $1, updated_at = $1 WHERE id = ANY($2)`
	if _, err := r.db.ExecContext(ctx, query, ts, pq.Array(ids)); err != nil {
		return fmt.Errorf("mark overdue notified: %w", err)
	}
	return nil
}

// CountCreatedBetween aggregates per-direction letter counts for a window.
func (r *LetterRepository) CountCreatedBetween(ctx context.Context, start, end time.Time) (models.WeeklyLetterCounts, error) {
	query := `SELECT
COUNT(*) FILTER (WHERE direction = 'INCOMING') AS incoming,
COUNT(*) FILTER (WHERE direction = 'OUTGOING') AS outgoing
FROM letters WHERE created_at >= $1 AND created_at < $2`
	var counts models.WeeklyLetterCounts
	if err := r.db.GetContext(ctx, &counts, query, start, end); err != nil {
		return counts, fmt.Errorf("count weekly letters: %w", err)
	}
	return counts, nil
}
