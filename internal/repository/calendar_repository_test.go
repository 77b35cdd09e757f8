package repository

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/e-surat-api/internal/models"
)

func calendarRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "letter_id", "user_id", "title", "description", "date", "time", "location",
		"notified_3_days", "notified_1_day", "created_at", "updated_at",
	})
}

func TestCalendarRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	mock.ExpectExec("INSERT INTO calendar_events").
		WithArgs(sqlmock.AnyArg(), "letter-1", "user-1", "Rapat Koordinasi", "001/SK/2024",
			sqlmock.AnyArg(), nil, nil, false, false, sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	event := &models.CalendarEvent{
		LetterID:    "letter-1",
		UserID:      "user-1",
		Title:       "Rapat Koordinasi",
		Description: "001/SK/2024",
		Date:        time.Date(2024, 1, 10, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, repo.Create(context.Background(), event))
	assert.NotEmpty(t, event.ID)
}

func TestCalendarRepositoryListDueForReminder(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	now := time.Now()
	horizon := now.AddDate(0, 0, 3)
	rows := calendarRows().AddRow(
		"event-1", "letter-1", "user-1", "Rapat", "001/SK/2024",
		now.AddDate(0, 0, 3), nil, nil, false, false, now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM calendar_events\\s+WHERE date >= \\$1 AND date <= \\$2 AND \\(notified_3_days = FALSE OR notified_1_day = FALSE\\)").
		WithArgs(now, horizon).
		WillReturnRows(rows)

	events, err := repo.ListDueForReminder(context.Background(), now, horizon)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.False(t, events[0].Notified3Days)
}

func TestCalendarRepositoryMarkFlags(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	mock.ExpectExec("UPDATE calendar_events SET notified_3_days = TRUE").
		WithArgs(sqlmock.AnyArg(), "event-1").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE calendar_events SET notified_1_day = TRUE").
		WithArgs(sqlmock.AnyArg(), "event-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.MarkNotified3Days(context.Background(), "event-1"))
	require.NoError(t, repo.MarkNotified1Day(context.Background(), "event-1"))
}

func TestCalendarRepositoryDeleteByLetterIDMissingIsNoError(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewCalendarRepository(db)

	mock.ExpectExec("DELETE FROM calendar_events WHERE letter_id =").
		WithArgs("letter-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, repo.DeleteByLetterID(context.Background(), "letter-1"))
}
