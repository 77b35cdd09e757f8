package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/models"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
	"github.com/noah-isme/e-surat-api/pkg/export"
)

type letterLister interface {
	List(ctx context.Context, filter models.LetterFilter) ([]models.Letter, int, error)
}

type reportStorage interface {
	Save(relPath string, data []byte) (string, error)
	Path(relPath string) string
}

type urlSigner interface {
	Generate(reportID, relPath string) (string, time.Time, error)
	Parse(token string, allowExpired bool) (reportID, relPath string, expiresAt time.Time, err error)
}

var agendaHeaders = []string{
	"No. Surat", "Sifat", "Pengirim", "Penerima", "Pengolah",
	"Tanggal Diterima", "Perihal", "Disposisi",
}

// ReportService exports the agenda book of one register window as CSV or
// PDF. Files land in a dedicated storage dir and are served through signed
// URLs only.
type ReportService struct {
	letters letterLister
	files   reportStorage
	signer  urlSigner
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
	logger  *zap.Logger
}

// NewReportService wires the exporter.
func NewReportService(letters letterLister, files reportStorage, signer urlSigner, logger *zap.Logger) *ReportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		letters: letters,
		files:   files,
		signer:  signer,
		csv:     export.NewCSVExporter(),
		pdf:     export.NewPDFExporter(),
		logger:  logger,
	}
}

// Generate renders the agenda book for the requested window and returns a
// signed download token.
func (s *ReportService) Generate(ctx context.Context, req dto.AgendaReportRequest) (*dto.AgendaReportResponse, error) {
	direction := models.LetterDirection(strings.ToUpper(req.Direction))
	if direction != models.DirectionIncoming && direction != models.DirectionOutgoing {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "direction", Message: "must be INCOMING or OUTGOING"})
	}
	start, err := time.Parse("2006-01-02", req.Start)
	if err != nil {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "start", Message: "must be a date in YYYY-MM-DD format"})
	}
	end, err := time.Parse("2006-01-02", req.End)
	if err != nil {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "end", Message: "must be a date in YYYY-MM-DD format"})
	}
	if end.Before(start) {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "end", Message: "must not be before start"})
	}
	format := strings.ToLower(req.Format)
	if format == "" {
		format = "csv"
	}
	if format != "csv" && format != "pdf" {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "format", Message: "must be csv or pdf"})
	}

	letters, err := s.collectLetters(ctx, direction, start, end)
	if err != nil {
		return nil, err
	}

	dataset := agendaDataset(letters)
	title := fmt.Sprintf("Buku Agenda Surat %s %s s.d. %s",
		directionLabel(direction), start.Format("2006-01-02"), end.Format("2006-01-02"))

	var content []byte
	switch format {
	case "pdf":
		content, err = s.pdf.Render(dataset, title)
	default:
		content, err = s.csv.Render(dataset)
	}
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render report")
	}

	reportID := uuid.NewString()
	relPath := fmt.Sprintf("agenda/%s.%s", reportID, format)
	if _, err := s.files.Save(relPath, content); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store report")
	}

	token, expiresAt, err := s.signer.Generate(reportID, relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download url")
	}

	return &dto.AgendaReportResponse{
		ReportID:    reportID,
		Format:      format,
		RowCount:    len(letters),
		DownloadURL: fmt.Sprintf("/reports/download?token=%s", token),
		ExpiresAt:   expiresAt,
	}, nil
}

// collectLetters walks the register page by page so the export covers the
// whole window, not just the first page the list cap allows.
func (s *ReportService) collectLetters(ctx context.Context, direction models.LetterDirection, start, end time.Time) ([]models.Letter, error) {
	const pageSize = 100
	var letters []models.Letter
	for page := 1; ; page++ {
		batch, _, err := s.letters.List(ctx, models.LetterFilter{
			Direction: direction,
			StartDate: &start,
			EndDate:   &end,
			Page:      page,
			PageSize:  pageSize,
		})
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load letters for report")
		}
		letters = append(letters, batch...)
		if len(batch) < pageSize {
			return letters, nil
		}
	}
}

// Resolve validates a download token and returns the absolute path on disk
// plus a client-facing file name.
func (s *ReportService) Resolve(token string) (string, string, error) {
	reportID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return "", "", appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	ext := relPath[strings.LastIndex(relPath, ".")+1:]
	fileName := fmt.Sprintf("agenda-%s.%s", reportID, ext)
	return fileName, s.files.Path(relPath), nil
}

func agendaDataset(letters []models.Letter) export.Dataset {
	rows := make([]map[string]string, 0, len(letters))
	for i := range letters {
		l := &letters[i]
		row := map[string]string{
			"No. Surat":        l.LetterNumber,
			"Sifat":            string(l.Nature),
			"Pengirim":         l.Sender,
			"Penerima":         l.Recipient,
			"Pengolah":         l.Processor,
			"Tanggal Diterima": l.ReceivedDate.Format("2006-01-02"),
			"Perihal":          l.Subject,
		}
		if l.DispositionTarget != nil {
			row["Disposisi"] = string(*l.DispositionTarget)
		}
		rows = append(rows, row)
	}
	return export.Dataset{Headers: agendaHeaders, Rows: rows}
}

func directionLabel(d models.LetterDirection) string {
	if d == models.DirectionIncoming {
		return "Masuk"
	}
	return "Keluar"
}
