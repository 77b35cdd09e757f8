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

func TestDispositionRepositoryCreate(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDispositionRepository(db)

	mock.ExpectExec("INSERT INTO dispositions").
		WithArgs(sqlmock.AnyArg(), "letter-1", "KEUANGAN", nil, "user-1", "Budi",
			sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))

	d := &models.Disposition{
		LetterID:      "letter-1",
		Target:        models.DeptKeuangan,
		CreatedBy:     "user-1",
		CreatedByName: "Budi",
	}
	require.NoError(t, repo.Create(context.Background(), d))
	assert.NotEmpty(t, d.ID)
}

func TestDispositionRepositoryListByLetterNewestFirst(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()
	repo := NewDispositionRepository(db)

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "letter_id", "target", "notes", "created_by", "created_by_name", "created_at", "updated_at",
	}).
		AddRow("disp-2", "letter-1", "PROGRAM", nil, "user-1", "Budi", now, now).
		AddRow("disp-1", "letter-1", "KEUANGAN", strPtr("cek anggaran"), "user-1", "Budi", now.Add(-time.Hour), now.Add(-time.Hour))
	mock.ExpectQuery("SELECT (.+) FROM dispositions\\s+WHERE letter_id = \\$1 ORDER BY created_at DESC").
		WithArgs("letter-1").
		WillReturnRows(rows)

	history, err := repo.ListByLetter(context.Background(), "letter-1")
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, models.DeptProgram, history[0].Target)
}
