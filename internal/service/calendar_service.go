package service

import (
	"context"
	"time"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/models"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
)

type calendarEventLister interface {
	ListRange(ctx context.Context, start, end time.Time) ([]models.CalendarEvent, error)
	ListUpcoming(ctx context.Context, from time.Time, limit int) ([]models.CalendarEvent, error)
}

// CalendarService is the read side of the derived calendar.
type CalendarService struct {
	repo calendarEventLister
	now  func() time.Time
}

// NewCalendarService constructs the read service.
func NewCalendarService(repo calendarEventLister) *CalendarService {
	return &CalendarService{repo: repo, now: time.Now}
}

// ListRange returns events inside the requested date window.
func (s *CalendarService) ListRange(ctx context.Context, query dto.CalendarRangeQuery) ([]models.CalendarEvent, error) {
	start, err := time.Parse("2006-01-02", query.Start)
	if err != nil {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "start", Message: "must be a date in YYYY-MM-DD format"})
	}
	end, err := time.Parse("2006-01-02", query.End)
	if err != nil {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "end", Message: "must be a date in YYYY-MM-DD format"})
	}
	if end.Before(start) {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "end", Message: "must not be before start"})
	}
	events, err := s.repo.ListRange(ctx, start, end)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list calendar events")
	}
	return events, nil
}

// Upcoming returns the next events from today onward.
func (s *CalendarService) Upcoming(ctx context.Context, query dto.CalendarUpcomingQuery) ([]models.CalendarEvent, error) {
	limit := query.Limit
	if limit <= 0 {
		limit = 5
	}
	if limit > 50 {
		limit = 50
	}
	today := truncateDay(s.now())
	events, err := s.repo.ListUpcoming(ctx, today, limit)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list upcoming events")
	}
	return events, nil
}
