package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/e-surat-api/internal/models"
	"github.com/noah-isme/e-surat-api/pkg/config"
)

type reminderCalStub struct {
	due     []models.CalendarEvent
	listErr error
	marked3 []string
	marked1 []string
}

func (s *reminderCalStub) ListDueForReminder(_ context.Context, _, _ time.Time) ([]models.CalendarEvent, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	return s.due, nil
}

func (s *reminderCalStub) MarkNotified3Days(_ context.Context, id string) error {
	s.marked3 = append(s.marked3, id)
	return nil
}

func (s *reminderCalStub) MarkNotified1Day(_ context.Context, id string) error {
	s.marked1 = append(s.marked1, id)
	return nil
}

type reminderLettersStub struct {
	overdue    []models.Letter
	gotLimit   int
	markedIDs  []string
	counts     models.WeeklyLetterCounts
	countStart time.Time
	countEnd   time.Time
}

func (s *reminderLettersStub) ListOverdueInvitations(_ context.Context, _ time.Time, limit int) ([]models.Letter, error) {
	s.gotLimit = limit
	return s.overdue, nil
}

func (s *reminderLettersStub) MarkOverdueNotified(_ context.Context, ids []string, _ time.Time) error {
	s.markedIDs = append(s.markedIDs, ids...)
	return nil
}

func (s *reminderLettersStub) CountCreatedBetween(_ context.Context, start, end time.Time) (models.WeeklyLetterCounts, error) {
	s.countStart = start
	s.countEnd = end
	return s.counts, nil
}

func reminderConfig() config.RemindersConfig {
	return config.RemindersConfig{
		Enabled:          true,
		UpcomingInterval: 24 * time.Hour,
		OverdueInterval:  24 * time.Hour,
		WeeklyInterval:   7 * 24 * time.Hour,
		OverdueBatchSize: 20,
	}
}

func fixedNow() time.Time {
	// A Wednesday.
	return time.Date(2026, 8, 26, 10, 30, 0, 0, time.UTC)
}

func newReminderFixture(cal *reminderCalStub, letters *reminderLettersStub) (*ReminderService, *notifierStub) {
	notifier := &notifierStub{}
	svc := NewReminderService(cal, letters, notifier, nil, reminderConfig(), nil)
	svc.now = fixedNow
	return svc, notifier
}

func eventOn(id string, date time.Time) models.CalendarEvent {
	return models.CalendarEvent{
		ID:       id,
		LetterID: "letter-" + id,
		UserID:   "user-1",
		Title:    "Rapat",
		Date:     date,
	}
}

func TestUpcomingRemindersFireAtThresholds(t *testing.T) {
	today := truncateDay(fixedNow())
	cal := &reminderCalStub{due: []models.CalendarEvent{
		eventOn("e3", today.AddDate(0, 0, 3)),
		eventOn("e1", today.AddDate(0, 0, 1)),
		eventOn("e2", today.AddDate(0, 0, 2)),
	}}
	svc, notifier := newReminderFixture(cal, &reminderLettersStub{})

	require.NoError(t, svc.RunUpcomingOnce(context.Background()))
	assert.Equal(t, []string{"e3"}, cal.marked3)
	assert.Equal(t, []string{"e1"}, cal.marked1)
	// The 2-day event is between thresholds and stays silent.
	require.Len(t, notifier.inputs, 2)
	for _, input := range notifier.inputs {
		// Reminders go out as broadcasts, never scoped to the registrant.
		assert.Nil(t, input.UserID)
		assert.True(t, input.Email)
	}
}

func TestUpcomingReminderIsBroadcast(t *testing.T) {
	today := truncateDay(fixedNow())
	event := eventOn("e3", today.AddDate(0, 0, 3))
	event.UserID = "user-1"
	cal := &reminderCalStub{due: []models.CalendarEvent{event}}
	svc, notifier := newReminderFixture(cal, &reminderLettersStub{})

	require.NoError(t, svc.RunUpcomingOnce(context.Background()))
	require.Len(t, notifier.inputs, 1)
	assert.Nil(t, notifier.inputs[0].UserID)
}

func TestUpcomingReminderFiresOncePerThreshold(t *testing.T) {
	today := truncateDay(fixedNow())
	event := eventOn("e3", today.AddDate(0, 0, 3))
	event.Notified3Days = true
	cal := &reminderCalStub{due: []models.CalendarEvent{event}}
	svc, notifier := newReminderFixture(cal, &reminderLettersStub{})

	require.NoError(t, svc.RunUpcomingOnce(context.Background()))
	assert.Empty(t, cal.marked3)
	assert.Empty(t, notifier.inputs)
}

func TestUpcomingRunSkipsWhileInProgress(t *testing.T) {
	cal := &reminderCalStub{listErr: errors.New("should not be called")}
	svc, notifier := newReminderFixture(cal, &reminderLettersStub{})

	svc.upcomingRunning.Store(true)
	require.NoError(t, svc.RunUpcomingOnce(context.Background()))
	assert.Empty(t, notifier.inputs)
}

func TestUpcomingFailureEmitsErrorNotification(t *testing.T) {
	cal := &reminderCalStub{listErr: errors.New("db down")}
	svc, notifier := newReminderFixture(cal, &reminderLettersStub{})

	err := svc.RunUpcomingOnce(context.Background())
	require.Error(t, err)
	require.Len(t, notifier.inputs, 1)
	assert.Equal(t, models.SeverityError, notifier.inputs[0].Severity)
}

func TestOverdueSweepAggregatesAndMarks(t *testing.T) {
	overdue := make([]models.Letter, 0, 5)
	for i := 0; i < 5; i++ {
		overdue = append(overdue, models.Letter{
			ID:           fmt.Sprintf("letter-%d", i),
			LetterNumber: fmt.Sprintf("00%d/UND/2026", i),
		})
	}
	letters := &reminderLettersStub{overdue: overdue}
	svc, notifier := newReminderFixture(&reminderCalStub{}, letters)

	require.NoError(t, svc.RunOverdueOnce(context.Background()))
	assert.Equal(t, 20, letters.gotLimit)
	assert.Len(t, letters.markedIDs, 5)
	require.Len(t, notifier.inputs, 1)
	assert.Equal(t, models.SeverityWarning, notifier.inputs[0].Severity)
	assert.Nil(t, notifier.inputs[0].UserID)
	assert.Contains(t, notifier.inputs[0].Message, "004/UND/2026")
}

func TestOverdueSweepQuietWhenNothingPending(t *testing.T) {
	letters := &reminderLettersStub{}
	svc, notifier := newReminderFixture(&reminderCalStub{}, letters)

	require.NoError(t, svc.RunOverdueOnce(context.Background()))
	assert.Empty(t, notifier.inputs)
	assert.Empty(t, letters.markedIDs)
}

func TestWeeklySummaryCoversLastFullWeek(t *testing.T) {
	letters := &reminderLettersStub{counts: models.WeeklyLetterCounts{Incoming: 12, Outgoing: 7}}
	svc, notifier := newReminderFixture(&reminderCalStub{}, letters)

	require.NoError(t, svc.RunWeeklyOnce(context.Background()))
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), letters.countStart)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), letters.countEnd)
	require.Len(t, notifier.inputs, 1)
	assert.Contains(t, notifier.inputs[0].Message, "12 surat masuk")
	assert.Contains(t, notifier.inputs[0].Message, "7 surat keluar")
	assert.Contains(t, notifier.inputs[0].Message, "2026-08-23")
}

func TestDaysBetweenCountsCalendarDays(t *testing.T) {
	loc, err := time.LoadLocation("Europe/Berlin")
	require.NoError(t, err)

	// The clock jumps forward on 2026-03-29, so the span is 71 wall hours
	// but still three calendar days.
	from := time.Date(2026, 3, 28, 0, 0, 0, 0, loc)
	to := time.Date(2026, 3, 31, 0, 0, 0, 0, loc)
	assert.Equal(t, 3, daysBetween(from, to))
}

func TestLastFullWeekOnMonday(t *testing.T) {
	monday := time.Date(2026, 8, 24, 8, 0, 0, 0, time.UTC)
	start, end := lastFullWeek(monday)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), end)
}

func TestLastFullWeekOnSunday(t *testing.T) {
	sunday := time.Date(2026, 8, 30, 22, 0, 0, 0, time.UTC)
	start, end := lastFullWeek(sunday)
	assert.Equal(t, time.Date(2026, 8, 17, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, time.Date(2026, 8, 24, 0, 0, 0, 0, time.UTC), end)
}
