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

const calendarColumns = `id, letter_id, user_id, title, description, date, time, location,
notified_3_days, notified_1_day, created_at, updated_at`

// CalendarRepository persists derived calendar events.
type CalendarRepository struct {
	db *sqlx.DB
}

// NewCalendarRepository creates the repository.
func NewCalendarRepository(db *sqlx.DB) *CalendarRepository {
	return &CalendarRepository{db: db}
}

// GetByLetterID returns the event owned by a letter, if any.
func (r *CalendarRepository) GetByLetterID(ctx context.Context, letterID string) (*models.CalendarEvent, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar_events WHERE letter_id = $1`
	var event models.CalendarEvent
	if err := r.db.GetContext(ctx, &event, query, letterID); err != nil {
		return nil, err
	}
	return &event, nil
}

// Create inserts a new calendar event.
func (r *CalendarRepository) Create(ctx context.Context, event *models.CalendarEvent) error {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	event.CreatedAt = now
	event.UpdatedAt = now
	query := `INSERT INTO calendar_events (` + calendarColumns + `)
VALUES (:id, :letter_id, :user_id, :title, :description, :date, :time, :location,
:notified_3_days, :notified_1_day, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, event); err != nil {
		return fmt.Errorf("create calendar event: %w", err)
	}
	return nil
}

// Update overwrites the event payload and notification flags.
func (r *CalendarRepository) Update(ctx context.Context, event *models.CalendarEvent) error {
	event.UpdatedAt = time.Now().UTC()
	query := `UPDATE calendar_events SET title = :title, description = :description, date = :date,
time = :time, location = :location, notified_3_days = :notified_3_days,
notified_1_day = :notified_1_day, updated_at = :updated_at
WHERE id = :id`
	result, err := r.db.NamedExecContext(ctx, query, event)
	if err != nil {
		return fmt.Errorf("update calendar event: %w", err)
	}
	if affected, err := result.RowsAffected(); err == nil && affected == 0 {
		return sql.ErrNoRows
	}
	return nil
}

// DeleteByLetterID removes the event derived from a letter. Missing rows are
// not an error: removal is invoked on every non-invitation transition.
func (r *CalendarRepository) DeleteByLetterID(ctx context.Context, letterID string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM calendar_events WHERE letter_id = $1", letterID); err != nil {
		return fmt.Errorf("delete calendar event: %w", err)
	}
	return nil
}

// ListRange returns events with a date inside the closed interval.
func (r *CalendarRepository) ListRange(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar_events
WHERE date >= $1 AND date <= $2 ORDER BY date ASC, time ASC NULLS LAST`
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, start, end); err != nil {
		return nil, fmt.Errorf("list calendar range: %w", err)
	}
	return events, nil
}

// ListUpcoming returns the next events on or after the given day.
func (r *CalendarRepository) ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.CalendarEvent, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar_events
WHERE date >= $1 ORDER BY date ASC, time ASC NULLS LAST LIMIT $2`
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, from, limit); err != nil {
		return nil, fmt.Errorf("list upcoming events: %w", err)
	}
	return events, nil
}

// ListDueForReminder returns events inside the reminder horizon that still
// have at least one threshold unfired.
func (r *CalendarRepository) ListDueForReminder(ctx context.Context, now, horizon time.Time) ([]models.CalendarEvent, error) {
	query := `SELECT ` + calendarColumns + ` FROM calendar_events
WHERE date >= $1 AND date <= $2 AND (notified_3_days = FALSE OR notified_1_day = FALSE)
ORDER BY date ASC`
	var events []models.CalendarEvent
	if err := r.db.SelectContext(ctx, &events, query, now, horizon); err != nil {
		return nil, fmt.Errorf("list reminder candidates: %w", err)
	}
	return events, nil
}

// MarkNotified3Days flips the 3-day threshold flag.
func (r *CalendarRepository) MarkNotified3Days(ctx context.Context, id string) error {
	return r.markFlag(ctx, id, "notified_3_days")
}

// MarkNotified1Day flips the 1-day threshold flag.
func (r *CalendarRepository) MarkNotified1Day(ctx context.Context, id string) error {
	return r.markFlag(ctx, id, "notified_1_day")
}

func (r *CalendarRepository) markFlag(ctx context.Context, id, column string) error {
	query := fmt.Sprintf("UPDATE calendar_events SET %s = TRUE, updated_at = $1 WHERE id = $2", column)
	if _, err := r.db.ExecContext(ctx, query, time.Now().UTC(), id); err != nil {
		return fmt.Errorf("mark %s: %w", column, err)
	}
	return nil
}
