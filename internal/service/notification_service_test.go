package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/models"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
	"github.com/noah-isme/e-surat-api/pkg/jobs"
)

type notifStoreStub struct {
	rows      []models.Notification
	unread    int
	marked    []string
	markedAll []string
	markOK    bool
}

func (s *notifStoreStub) Create(_ context.Context, n *models.Notification) error {
	n.ID = "notif-1"
	s.rows = append(s.rows, *n)
	return nil
}

func (s *notifStoreStub) List(_ context.Context, _ models.NotificationFilter) ([]models.Notification, int, error) {
	return s.rows, len(s.rows), nil
}

func (s *notifStoreStub) CountUnread(_ context.Context, _ string) (int, error) {
	return s.unread, nil
}

func (s *notifStoreStub) MarkRead(_ context.Context, id, _ string) (bool, error) {
	s.marked = append(s.marked, id)
	return s.markOK, nil
}

func (s *notifStoreStub) MarkAllRead(_ context.Context, viewerID string) error {
	s.markedAll = append(s.markedAll, viewerID)
	return nil
}

type queueStub struct {
	jobs []jobs.Job
}

func (s *queueStub) Enqueue(job jobs.Job) error {
	s.jobs = append(s.jobs, job)
	return nil
}

func TestNotifyDefaultsToInfoSeverity(t *testing.T) {
	store := &notifStoreStub{}
	svc := NewNotificationService(store, nil, nil, nil)

	n, err := svc.Notify(context.Background(), NotificationInput{Title: "Rekap", Message: "isi"})
	require.NoError(t, err)
	assert.Equal(t, models.SeverityInfo, n.Severity)
	assert.Nil(t, n.UserID)
}

func TestNotifyWithEmailQueuesMailJob(t *testing.T) {
	store := &notifStoreStub{}
	queue := &queueStub{}
	svc := NewNotificationService(store, queue, nil, nil)

	_, err := svc.Notify(context.Background(), NotificationInput{
		Title:   "Undangan baru",
		Message: "Rapat Koordinasi",
		Email:   true,
	})
	require.NoError(t, err)
	require.Len(t, queue.jobs, 1)
	assert.Equal(t, "notification_mail", queue.jobs[0].Type)
	payload, ok := queue.jobs[0].Payload.(MailPayload)
	require.True(t, ok)
	assert.Equal(t, "Undangan baru", payload.Subject)
}

func TestNotifyWithoutEmailStaysOffQueue(t *testing.T) {
	queue := &queueStub{}
	svc := NewNotificationService(&notifStoreStub{}, queue, nil, nil)

	_, err := svc.Notify(context.Background(), NotificationInput{Title: "Rekap", Message: "isi"})
	require.NoError(t, err)
	assert.Empty(t, queue.jobs)
}

func TestListReturnsUnreadCount(t *testing.T) {
	store := &notifStoreStub{
		rows:   []models.Notification{{ID: "notif-1"}, {ID: "notif-2"}},
		unread: 4,
	}
	svc := NewNotificationService(store, nil, nil, nil)

	items, total, unread, err := svc.List(context.Background(), "user-1", dto.NotificationListQuery{Page: 1, Limit: 10})
	require.NoError(t, err)
	assert.Len(t, items, 2)
	assert.Equal(t, 2, total)
	assert.Equal(t, 4, unread)
}

func TestMarkReadUnknownNotification(t *testing.T) {
	store := &notifStoreStub{markOK: false}
	svc := NewNotificationService(store, nil, nil, nil)

	err := svc.MarkRead(context.Background(), "notif-404", "user-1")
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestMarkAllReadScopesToViewer(t *testing.T) {
	store := &notifStoreStub{}
	svc := NewNotificationService(store, nil, nil, nil)

	require.NoError(t, svc.MarkAllRead(context.Background(), "user-1"))
	assert.Equal(t, []string{"user-1"}, store.markedAll)
}
