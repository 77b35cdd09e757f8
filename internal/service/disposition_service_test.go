package service

import (
	"context"
	"database/sql"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/models"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
)

type dispStoreStub struct {
	rows map[string]*models.Disposition
	seq  int
}

func newDispStoreStub() *dispStoreStub {
	return &dispStoreStub{rows: map[string]*models.Disposition{}}
}

func (s *dispStoreStub) Create(_ context.Context, d *models.Disposition) error {
	s.seq++
	d.ID = "disp-" + d.LetterID
	copied := *d
	s.rows[d.ID] = &copied
	return nil
}

func (s *dispStoreStub) GetByID(_ context.Context, id string) (*models.Disposition, error) {
	d, ok := s.rows[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	copied := *d
	return &copied, nil
}

func (s *dispStoreStub) ListByLetter(_ context.Context, letterID string) ([]models.Disposition, error) {
	var history []models.Disposition
	for _, d := range s.rows {
		if d.LetterID == letterID {
			history = append(history, *d)
		}
	}
	return history, nil
}

func (s *dispStoreStub) Update(_ context.Context, d *models.Disposition) error {
	if _, ok := s.rows[d.ID]; !ok {
		return sql.ErrNoRows
	}
	copied := *d
	s.rows[d.ID] = &copied
	return nil
}

type dispLetterReaderStub struct {
	letters map[string]*models.Letter
}

func (s *dispLetterReaderStub) GetByID(_ context.Context, id string) (*models.Letter, error) {
	letter, ok := s.letters[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return letter, nil
}

func newDispositionFixture(letters ...*models.Letter) (*DispositionService, *dispStoreStub) {
	reader := &dispLetterReaderStub{letters: map[string]*models.Letter{}}
	for _, l := range letters {
		reader.letters[l.ID] = l
	}
	store := newDispStoreStub()
	return NewDispositionService(store, reader, nil), store
}

func TestRouteAppendsDisposition(t *testing.T) {
	svc, store := newDispositionFixture(&models.Letter{ID: "letter-1", Direction: models.DirectionIncoming})

	d, err := svc.Route(context.Background(), dto.CreateDispositionRequest{
		LetterID: "letter-1",
		Target:   string(models.DeptKeuangan),
	}, staffClaims("user-1"))
	require.NoError(t, err)
	assert.Equal(t, models.DeptKeuangan, d.Target)
	assert.Equal(t, "user-1", d.CreatedBy)
	assert.Len(t, store.rows, 1)
}

func TestRouteRejectsOutgoingLetter(t *testing.T) {
	svc, _ := newDispositionFixture(&models.Letter{ID: "letter-1", Direction: models.DirectionOutgoing})

	_, err := svc.Route(context.Background(), dto.CreateDispositionRequest{
		LetterID: "letter-1",
		Target:   string(models.DeptUmum),
	}, staffClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, http.StatusBadRequest, appErrors.FromError(err).Status)
	assert.Contains(t, fieldNames(err), "letter_id")
}

func TestRouteRejectsUnknownDepartment(t *testing.T) {
	svc, _ := newDispositionFixture(&models.Letter{ID: "letter-1", Direction: models.DirectionIncoming})

	_, err := svc.Route(context.Background(), dto.CreateDispositionRequest{
		LetterID: "letter-1",
		Target:   "GUDANG",
	}, staffClaims("user-1"))
	require.Error(t, err)
	assert.Contains(t, fieldNames(err), "target")
}

func TestRouteMissingLetter(t *testing.T) {
	svc, _ := newDispositionFixture()

	_, err := svc.Route(context.Background(), dto.CreateDispositionRequest{
		LetterID: "letter-404",
		Target:   string(models.DeptUmum),
	}, staffClaims("user-1"))
	require.Error(t, err)
	assert.Equal(t, http.StatusNotFound, appErrors.FromError(err).Status)
}

func TestUpdateDispositionForbiddenForOtherStaff(t *testing.T) {
	svc, store := newDispositionFixture(&models.Letter{ID: "letter-1", Direction: models.DirectionIncoming})
	d, err := svc.Route(context.Background(), dto.CreateDispositionRequest{
		LetterID: "letter-1",
		Target:   string(models.DeptUmum),
	}, staffClaims("user-1"))
	require.NoError(t, err)

	target := string(models.DeptProgram)
	_, err = svc.Update(context.Background(), d.ID, dto.UpdateDispositionRequest{Target: &target}, staffClaims("user-2"))
	assert.Equal(t, http.StatusForbidden, appErrors.FromError(err).Status)

	_, err = svc.Update(context.Background(), d.ID, dto.UpdateDispositionRequest{Target: &target}, adminClaims())
	require.NoError(t, err)
	assert.Equal(t, models.DeptProgram, store.rows[d.ID].Target)
}
