package repository

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/e-surat-api/internal/models"
)

func newRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	return sqlxDB, mock, func() {
		sqlxDB.Close()
		db.Close()
	}
}

func strPtr(s string) *string { return &s }

func letterRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"id", "direction", "letter_number", "nature", "security_class", "sender", "recipient", "processor",
		"received_date", "letter_date", "execution_date", "subject", "note",
		"is_invitation", "event_date", "event_time", "event_location", "event_notes",
		"needs_follow_up", "follow_up_deadline", "overdue_notified_at",
		"disposition_method", "disposition_target", "external_ref_number",
		"file_name", "file_path", "user_id", "user_name", "created_at", "updated_at",
	})
}

func TestLetterRepositoryGetByID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLetterRepository(db)

	now := time.Now()
	rows := letterRows().AddRow(
		"letter-1", "INCOMING", "001/SK/2024", "BIASA", nil, "Dinas A", "Dinas B", "Budi",
		now, nil, nil, "Rapat Koordinasi", nil,
		true, now.AddDate(0, 0, 9), nil, nil, nil,
		false, nil, nil,
		nil, nil, nil,
		nil, nil, "user-1", "Budi", now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM letters WHERE id =").
		WithArgs("letter-1").
		WillReturnRows(rows)

	letter, err := repo.GetByID(context.Background(), "letter-1")
	require.NoError(t, err)
	assert.Equal(t, "001/SK/2024", letter.LetterNumber)
	assert.Equal(t, models.DirectionIncoming, letter.Direction)
	assert.True(t, letter.IsInvitation)
}

func TestLetterRepositoryListWithSearch(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLetterRepository(db)

	now := time.Now()
	rows := letterRows().AddRow(
		"letter-1", "INCOMING", "001/SK/2024", "BIASA", nil, "Dinas A", "Dinas B", "Budi",
		now, nil, nil, "Rapat Koordinasi", nil,
		false, nil, nil, nil, nil,
		false, nil, nil,
		nil, nil, nil,
		nil, nil, "user-1", "Budi", now, now,
	)
	mock.ExpectQuery("SELECT (.+) FROM letters WHERE direction = \\$1 AND \\(letter_number ILIKE").
		WithArgs("INCOMING", "%rapat%").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM letters").
		WithArgs("INCOMING", "%rapat%").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	letters, total, err := repo.List(context.Background(), models.LetterFilter{
		Direction: models.DirectionIncoming,
		Search:    "rapat",
		Page:      1,
		PageSize:  10,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, letters, 1)
	assert.Equal(t, "Rapat Koordinasi", letters[0].Subject)
}

func TestLetterRepositoryDeleteMissing(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLetterRepository(db)

	mock.ExpectExec("DELETE FROM letters WHERE id =").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	err := repo.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, sql.ErrNoRows)
}

func TestLetterRepositoryListOverdueInvitationsCapped(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLetterRepository(db)

	now := time.Now()
	mock.ExpectQuery("SELECT (.+) FROM letters\\s+WHERE direction = \\$1 AND is_invitation = TRUE AND event_date < \\$2 AND overdue_notified_at IS NULL").
		WithArgs("INCOMING", now, 20).
		WillReturnRows(letterRows())

	letters, err := repo.ListOverdueInvitations(context.Background(), now, 20)
	require.NoError(t, err)
	assert.Empty(t, letters)
}

func TestLetterRepositoryMarkOverdueNotified(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLetterRepository(db)

	ts := time.Now().UTC()
	mock.ExpectExec("UPDATE letters SET overdue_notified_at =").
		WithArgs(ts, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(0, 2))

	require.NoError(t, repo.MarkOverdueNotified(context.Background(), []string{"a", "b"}, ts))
	require.NoError(t, repo.MarkOverdueNotified(context.Background(), nil, ts))
}

func TestLetterRepositoryCountCreatedBetween(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewLetterRepository(db)

	start := time.Now().AddDate(0, 0, -7)
	end := time.Now()
	mock.ExpectQuery("SELECT\\s+COUNT\\(\\*\\) FILTER").
		WithArgs(start, end).
		WillReturnRows(sqlmock.NewRows([]string{"incoming", "outgoing"}).AddRow(4, 2))

	counts, err := repo.CountCreatedBetween(context.Background(), start, end)
	require.NoError(t, err)
	assert.Equal(t, 4, counts.Incoming)
	assert.Equal(t, 2, counts.Outgoing)
}
