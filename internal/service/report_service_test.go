package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/models"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
)

type pagedLetterLister struct {
	total    int
	gotPages []int
}

func (s *pagedLetterLister) List(_ context.Context, filter models.LetterFilter) ([]models.Letter, int, error) {
	s.gotPages = append(s.gotPages, filter.Page)
	offset := (filter.Page - 1) * filter.PageSize
	if offset >= s.total {
		return nil, s.total, nil
	}
	count := filter.PageSize
	if offset+count > s.total {
		count = s.total - offset
	}
	letters := make([]models.Letter, 0, count)
	for i := 0; i < count; i++ {
		letters = append(letters, models.Letter{
			ID:           fmt.Sprintf("letter-%d", offset+i),
			LetterNumber: fmt.Sprintf("%03d/SK/2026", offset+i),
			Nature:       models.NatureBiasa,
			Sender:       "Dinas A",
			Recipient:    "Dinas B",
			Processor:    "Tata Usaha",
			ReceivedDate: time.Date(2026, 8, 1, 0, 0, 0, 0, time.UTC),
			Subject:      "Pemberitahuan",
		})
	}
	return letters, s.total, nil
}

type reportFilesStub struct {
	saved map[string][]byte
}

func (s *reportFilesStub) Save(relPath string, data []byte) (string, error) {
	if s.saved == nil {
		s.saved = map[string][]byte{}
	}
	s.saved[relPath] = data
	return relPath, nil
}

func (s *reportFilesStub) Path(relPath string) string { return "/reports/" + relPath }

type signerStub struct {
	parseErr error
}

func (s *signerStub) Generate(reportID, relPath string) (string, time.Time, error) {
	return "token-" + reportID, time.Now().Add(time.Hour), nil
}

func (s *signerStub) Parse(token string, _ bool) (string, string, time.Time, error) {
	if s.parseErr != nil {
		return "", "", time.Time{}, s.parseErr
	}
	return "report-1", "agenda/report-1.csv", time.Now().Add(time.Hour), nil
}

func agendaRequest() dto.AgendaReportRequest {
	return dto.AgendaReportRequest{
		Direction: "INCOMING",
		Start:     "2026-08-01",
		End:       "2026-08-31",
		Format:    "csv",
	}
}

func TestGenerateAgendaCoversEveryPage(t *testing.T) {
	lister := &pagedLetterLister{total: 230}
	svc := NewReportService(lister, &reportFilesStub{}, &signerStub{}, nil)

	resp, err := svc.Generate(context.Background(), agendaRequest())
	require.NoError(t, err)
	// 230 rows span three pages of 100; none are dropped.
	assert.Equal(t, 230, resp.RowCount)
	assert.Equal(t, []int{1, 2, 3}, lister.gotPages)
}

func TestGenerateAgendaSingleShortPage(t *testing.T) {
	lister := &pagedLetterLister{total: 7}
	files := &reportFilesStub{}
	svc := NewReportService(lister, files, &signerStub{}, nil)

	resp, err := svc.Generate(context.Background(), agendaRequest())
	require.NoError(t, err)
	assert.Equal(t, 7, resp.RowCount)
	assert.Equal(t, []int{1}, lister.gotPages)
	assert.Len(t, files.saved, 1)
	assert.Contains(t, resp.DownloadURL, "/reports/download?token=")
}

func TestGenerateAgendaRejectsUnknownDirection(t *testing.T) {
	svc := NewReportService(&pagedLetterLister{}, &reportFilesStub{}, &signerStub{}, nil)

	req := agendaRequest()
	req.Direction = "SIDEWAYS"
	_, err := svc.Generate(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, "VALIDATION_ERROR", appErrors.FromError(err).Code)
}

func TestResolveRejectsBadToken(t *testing.T) {
	svc := NewReportService(&pagedLetterLister{}, &reportFilesStub{}, &signerStub{parseErr: fmt.Errorf("bad signature")}, nil)

	_, _, err := svc.Resolve("tampered")
	require.Error(t, err)
	assert.Equal(t, 403, appErrors.FromError(err).Status)
}
