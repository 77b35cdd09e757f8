package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/noah-isme/e-surat-api/internal/models"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
)

type calendarEventStore interface {
	GetByLetterID(ctx context.Context, letterID string) (*models.CalendarEvent, error)
	Create(ctx context.Context, event *models.CalendarEvent) error
	Update(ctx context.Context, event *models.CalendarEvent) error
	DeleteByLetterID(ctx context.Context, letterID string) error
}

// CalendarProjector keeps derived calendar events in lockstep with their
// owning letters. Events are never authored directly: Sync runs after every
// letter create/update, RemoveForLetter on delete.
type CalendarProjector struct {
	repo   calendarEventStore
	logger *zap.Logger
}

// NewCalendarProjector constructs the projector.
func NewCalendarProjector(repo calendarEventStore, logger *zap.Logger) *CalendarProjector {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CalendarProjector{repo: repo, logger: logger}
}

// Sync reconciles the event derived from the letter. The notification flags
// reset only when the schedule (date or time) actually changes; cosmetic
// edits keep the reminder clock running.
func (p *CalendarProjector) Sync(ctx context.Context, letter *models.Letter) error {
	if letter == nil {
		return nil
	}
	if !letter.IsInvitation || letter.EventDate == nil {
		return p.RemoveForLetter(ctx, letter.ID)
	}

	existing, err := p.repo.GetByLetterID(ctx, letter.ID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load calendar event")
	}

	if existing == nil {
		event := &models.CalendarEvent{
			LetterID:    letter.ID,
			UserID:      letter.UserID,
			Title:       letter.Subject,
			Description: eventDescription(letter),
			Date:        *letter.EventDate,
			Time:        letter.EventTime,
			Location:    letter.EventLocation,
		}
		if err := p.repo.Create(ctx, event); err != nil {
			return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create calendar event")
		}
		return nil
	}

	rescheduled := !existing.Date.Equal(*letter.EventDate) || !equalStringPtr(existing.Time, letter.EventTime)

	existing.Title = letter.Subject
	existing.Description = eventDescription(letter)
	existing.Date = *letter.EventDate
	existing.Time = letter.EventTime
	existing.Location = letter.EventLocation
	if rescheduled {
		existing.Notified3Days = false
		existing.Notified1Day = false
	}
	if err := p.repo.Update(ctx, existing); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update calendar event")
	}
	return nil
}

// RemoveForLetter deletes the derived event, if any.
func (p *CalendarProjector) RemoveForLetter(ctx context.Context, letterID string) error {
	if err := p.repo.DeleteByLetterID(ctx, letterID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete calendar event")
	}
	return nil
}

func eventDescription(letter *models.Letter) string {
	desc := fmt.Sprintf("Surat %s", letter.LetterNumber)
	if letter.EventNotes != nil && *letter.EventNotes != "" {
		desc = fmt.Sprintf("%s - %s", desc, *letter.EventNotes)
	}
	return desc
}

func equalStringPtr(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}
