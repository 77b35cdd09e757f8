package service

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/zap"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/models"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
)

type dispositionStore interface {
	Create(ctx context.Context, d *models.Disposition) error
	GetByID(ctx context.Context, id string) (*models.Disposition, error)
	ListByLetter(ctx context.Context, letterID string) ([]models.Disposition, error)
	Update(ctx context.Context, d *models.Disposition) error
}

type letterReader interface {
	GetByID(ctx context.Context, id string) (*models.Letter, error)
}

// DispositionService routes incoming letters to departments. Routing rows
// are an append-only history; routing again supersedes rather than replaces.
type DispositionService struct {
	dispositions dispositionStore
	letters      letterReader
	logger       *zap.Logger
}

// NewDispositionService wires the router.
func NewDispositionService(dispositions dispositionStore, letters letterReader, logger *zap.Logger) *DispositionService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DispositionService{dispositions: dispositions, letters: letters, logger: logger}
}

// Route appends a routing decision for an incoming letter.
func (s *DispositionService) Route(ctx context.Context, req dto.CreateDispositionRequest, actor *models.JWTClaims) (*models.Disposition, error) {
	var details []appErrors.FieldError
	if req.LetterID == "" {
		details = append(details, appErrors.FieldError{Field: "letter_id", Message: "is required"})
	}
	target := models.Department(req.Target)
	if !models.ValidDepartment(target) {
		details = append(details, appErrors.FieldError{Field: "target", Message: "unknown department"})
	}
	if len(details) > 0 {
		return nil, appErrors.Validation(details...)
	}

	letter, err := s.letters.GetByID(ctx, req.LetterID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "letter not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load letter")
	}
	if letter.Direction != models.DirectionIncoming {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "letter_id", Message: "only incoming letters can be routed"})
	}

	d := &models.Disposition{
		LetterID:      letter.ID,
		Target:        target,
		Notes:         req.Notes,
		CreatedBy:     actor.UserID,
		CreatedByName: actor.FullName,
	}
	if err := s.dispositions.Create(ctx, d); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create disposition")
	}
	return d, nil
}

// History returns a letter's routing rows newest-first.
func (s *DispositionService) History(ctx context.Context, letterID string) ([]models.Disposition, error) {
	if _, err := s.letters.GetByID(ctx, letterID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "letter not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load letter")
	}
	history, err := s.dispositions.ListByLetter(ctx, letterID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list dispositions")
	}
	return history, nil
}

// Update corrects an existing routing row. Only its target and notes may
// change; authorship and position in the history stay fixed.
func (s *DispositionService) Update(ctx context.Context, id string, req dto.UpdateDispositionRequest, actor *models.JWTClaims) (*models.Disposition, error) {
	d, err := s.dispositions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load disposition")
	}
	if !actor.IsAdmin() && actor.UserID != d.CreatedBy {
		return nil, appErrors.ErrForbidden
	}

	if req.Target != nil {
		target := models.Department(*req.Target)
		if !models.ValidDepartment(target) {
			return nil, appErrors.Validation(appErrors.FieldError{Field: "target", Message: "unknown department"})
		}
		d.Target = target
	}
	if req.Notes != nil {
		d.Notes = nilIfEmpty(req.Notes)
	}

	if err := s.dispositions.Update(ctx, d); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update disposition")
	}
	return d, nil
}
