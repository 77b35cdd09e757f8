package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/models"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
)

type calendarListerStub struct {
	events   []models.CalendarEvent
	gotStart time.Time
	gotEnd   time.Time
	gotFrom  time.Time
	gotLimit int
}

func (s *calendarListerStub) ListRange(_ context.Context, start, end time.Time) ([]models.CalendarEvent, error) {
	s.gotStart = start
	s.gotEnd = end
	return s.events, nil
}

func (s *calendarListerStub) ListUpcoming(_ context.Context, from time.Time, limit int) ([]models.CalendarEvent, error) {
	s.gotFrom = from
	s.gotLimit = limit
	return s.events, nil
}

func TestListRangeRejectsInvertedWindow(t *testing.T) {
	svc := NewCalendarService(&calendarListerStub{})

	_, err := svc.ListRange(context.Background(), dto.CalendarRangeQuery{Start: "2026-08-20", End: "2026-08-10"})
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestUpcomingClampsLimit(t *testing.T) {
	stub := &calendarListerStub{}
	svc := NewCalendarService(stub)

	_, err := svc.Upcoming(context.Background(), dto.CalendarUpcomingQuery{Limit: 500})
	require.NoError(t, err)
	assert.Equal(t, 50, stub.gotLimit)
}

func TestUpcomingStartsAtLocalMidnight(t *testing.T) {
	stub := &calendarListerStub{}
	svc := NewCalendarService(stub)
	wib := time.FixedZone("WIB", 7*3600)
	svc.now = func() time.Time {
		return time.Date(2026, 8, 26, 1, 30, 0, 0, wib)
	}

	_, err := svc.Upcoming(context.Background(), dto.CalendarUpcomingQuery{})
	require.NoError(t, err)
	// Shortly after local midnight the window still opens on the local day,
	// not the previous UTC day.
	assert.True(t, stub.gotFrom.Equal(time.Date(2026, 8, 26, 0, 0, 0, 0, wib)))
}
