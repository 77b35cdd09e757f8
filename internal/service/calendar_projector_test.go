package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/e-surat-api/internal/models"
)

type projectorStoreStub struct {
	events  map[string]*models.CalendarEvent
	creates int
	updates int
	deletes int
}

func newProjectorStoreStub() *projectorStoreStub {
	return &projectorStoreStub{events: map[string]*models.CalendarEvent{}}
}

func (s *projectorStoreStub) GetByLetterID(_ context.Context, letterID string) (*models.CalendarEvent, error) {
	event, ok := s.events[letterID]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *event
	return &copied, nil
}

func (s *projectorStoreStub) Create(_ context.Context, event *models.CalendarEvent) error {
	s.creates++
	event.ID = "event-" + event.LetterID
	copied := *event
	s.events[event.LetterID] = &copied
	return nil
}

func (s *projectorStoreStub) Update(_ context.Context, event *models.CalendarEvent) error {
	s.updates++
	copied := *event
	s.events[event.LetterID] = &copied
	return nil
}

func (s *projectorStoreStub) DeleteByLetterID(_ context.Context, letterID string) error {
	s.deletes++
	delete(s.events, letterID)
	return nil
}

func invitationLetter(eventDate time.Time) *models.Letter {
	location := "Aula"
	eventTime := "09:00"
	return &models.Letter{
		ID:            "letter-1",
		Direction:     models.DirectionIncoming,
		LetterNumber:  "005/UND/2026",
		Subject:       "Rapat Koordinasi",
		IsInvitation:  true,
		EventDate:     &eventDate,
		EventTime:     &eventTime,
		EventLocation: &location,
		UserID:        "user-1",
	}
}

func TestProjectorCreatesEventForInvitation(t *testing.T) {
	store := newProjectorStoreStub()
	projector := NewCalendarProjector(store, nil)

	letter := invitationLetter(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, projector.Sync(context.Background(), letter))

	event := store.events["letter-1"]
	require.NotNil(t, event)
	assert.Equal(t, "Rapat Koordinasi", event.Title)
	assert.Equal(t, "Surat 005/UND/2026", event.Description)
	assert.False(t, event.Notified3Days)
	assert.False(t, event.Notified1Day)
}

func TestProjectorSyncIsIdempotent(t *testing.T) {
	store := newProjectorStoreStub()
	projector := NewCalendarProjector(store, nil)

	letter := invitationLetter(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, projector.Sync(context.Background(), letter))
	require.NoError(t, projector.Sync(context.Background(), letter))
	require.NoError(t, projector.Sync(context.Background(), letter))

	assert.Equal(t, 1, store.creates)
	assert.Len(t, store.events, 1)
}

func TestProjectorRemovesEventWhenInvitationCleared(t *testing.T) {
	store := newProjectorStoreStub()
	projector := NewCalendarProjector(store, nil)

	letter := invitationLetter(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, projector.Sync(context.Background(), letter))
	require.Len(t, store.events, 1)

	letter.IsInvitation = false
	letter.EventDate = nil
	require.NoError(t, projector.Sync(context.Background(), letter))
	assert.Empty(t, store.events)
}

func TestProjectorKeepsFlagsOnCosmeticEdit(t *testing.T) {
	store := newProjectorStoreStub()
	projector := NewCalendarProjector(store, nil)

	letter := invitationLetter(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, projector.Sync(context.Background(), letter))

	stored := store.events["letter-1"]
	stored.Notified3Days = true
	stored.Notified1Day = true

	newLocation := "Ruang Rapat 2"
	letter.EventLocation = &newLocation
	letter.Subject = "Rapat Koordinasi (revisi)"
	require.NoError(t, projector.Sync(context.Background(), letter))

	updated := store.events["letter-1"]
	assert.True(t, updated.Notified3Days)
	assert.True(t, updated.Notified1Day)
	assert.Equal(t, "Rapat Koordinasi (revisi)", updated.Title)
}

func TestProjectorResetsFlagsOnReschedule(t *testing.T) {
	store := newProjectorStoreStub()
	projector := NewCalendarProjector(store, nil)

	letter := invitationLetter(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, projector.Sync(context.Background(), letter))

	stored := store.events["letter-1"]
	stored.Notified3Days = true
	stored.Notified1Day = true

	moved := time.Date(2026, 9, 17, 0, 0, 0, 0, time.UTC)
	letter.EventDate = &moved
	require.NoError(t, projector.Sync(context.Background(), letter))

	updated := store.events["letter-1"]
	assert.False(t, updated.Notified3Days)
	assert.False(t, updated.Notified1Day)
	assert.True(t, updated.Date.Equal(moved))
}

func TestProjectorResetsFlagsOnTimeChange(t *testing.T) {
	store := newProjectorStoreStub()
	projector := NewCalendarProjector(store, nil)

	letter := invitationLetter(time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC))
	require.NoError(t, projector.Sync(context.Background(), letter))

	stored := store.events["letter-1"]
	stored.Notified3Days = true

	newTime := "13:30"
	letter.EventTime = &newTime
	require.NoError(t, projector.Sync(context.Background(), letter))

	assert.False(t, store.events["letter-1"].Notified3Days)
}
