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

func TestNotificationRepositoryCreateBroadcast(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("INSERT INTO notifications").
		WithArgs(sqlmock.AnyArg(), "Undangan baru", "Rapat Koordinasi", "INFO", nil, false,
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	n := &models.Notification{
		Title:    "Undangan baru",
		Message:  "Rapat Koordinasi",
		Severity: models.SeverityInfo,
	}
	require.NoError(t, repo.Create(context.Background(), n))
	assert.NotEmpty(t, n.ID)
}

func TestNotificationRepositoryListScopesToViewer(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "title", "message", "severity", "user_id", "read", "created_at", "updated_at",
	}).AddRow("notif-1", "Undangan baru", "Rapat", "INFO", nil, false, now, now)
	mock.ExpectQuery("SELECT (.+) FROM notifications WHERE \\(user_id IS NULL OR user_id = \\$1\\)").
		WithArgs("user-1").
		WillReturnRows(rows)
	mock.ExpectQuery("SELECT COUNT\\(\\*\\) FROM notifications").
		WithArgs("user-1").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))

	items, total, err := repo.List(context.Background(), models.NotificationFilter{ViewerID: "user-1", Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, items, 1)
	assert.Nil(t, items[0].UserID)
}

func TestNotificationRepositoryMarkReadRespectsScope(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewNotificationRepository(db)

	mock.ExpectExec("UPDATE notifications SET read = TRUE").
		WithArgs(sqlmock.AnyArg(), "notif-1", "user-1").
		WillReturnResult(sqlmock.NewResult(0, 0))

	updated, err := repo.MarkRead(context.Background(), "notif-1", "user-1")
	require.NoError(t, err)
	assert.False(t, updated)
}
