package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"reflect"
	"regexp"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/models"
	"github.com/noah-isme/e-surat-api/internal/repository"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
	"github.com/noah-isme/e-surat-api/pkg/response"
)

type letterStore interface {
	Create(ctx context.Context, letter *models.Letter) error
	GetByID(ctx context.Context, id string) (*models.Letter, error)
	Update(ctx context.Context, letter *models.Letter) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, filter models.LetterFilter) ([]models.Letter, int, error)
}

type calendarSyncer interface {
	Sync(ctx context.Context, letter *models.Letter) error
	RemoveForLetter(ctx context.Context, letterID string) error
}

type dispositionHistory interface {
	ListByLetter(ctx context.Context, letterID string) ([]models.Disposition, error)
	DeleteByLetterID(ctx context.Context, letterID string) error
}

type attachmentStorage interface {
	SaveStream(relPath string, r io.Reader) (string, error)
	Delete(relPath string) error
	Path(relPath string) string
}

type letterNotifier interface {
	Notify(ctx context.Context, input NotificationInput) (*models.Notification, error)
}

var letterNumberPattern = regexp.MustCompile(`^[A-Za-z0-9./-]+$`)

// LetterService owns the letter register: create, update, list, delete, and
// the attachment lifecycle. Calendar events and notifications are side
// effects fired from here, never authored by callers.
type LetterService struct {
	letters      letterStore
	projector    calendarSyncer
	dispositions dispositionHistory
	files        attachmentStorage
	notifier     letterNotifier
	validate     *validator.Validate
	logger       *zap.Logger
	now          func() time.Time
}

// NewLetterService wires the letter register with its collaborators.
func NewLetterService(
	letters letterStore,
	projector calendarSyncer,
	dispositions dispositionHistory,
	files attachmentStorage,
	notifier letterNotifier,
	logger *zap.Logger,
) *LetterService {
	if logger == nil {
		logger = zap.NewNop()
	}
	validate := validator.New()
	validate.RegisterTagNameFunc(func(field reflect.StructField) string {
		tag := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if tag == "" || tag == "-" {
			return field.Name
		}
		return tag
	})
	return &LetterService{
		letters:      letters,
		projector:    projector,
		dispositions: dispositions,
		files:        files,
		notifier:     notifier,
		validate:     validate,
		logger:       logger,
		now:          time.Now,
	}
}

// Create registers a new letter in the given direction and, for invitations,
// projects the calendar event and broadcasts a notification.
func (s *LetterService) Create(ctx context.Context, direction models.LetterDirection, req dto.CreateLetterRequest, upload *dto.FileUpload, actor *models.JWTClaims) (*dto.LetterResponse, error) {
	details := s.structDetails(req)

	letter := &models.Letter{
		Direction:         direction,
		LetterNumber:      strings.TrimSpace(req.LetterNumber),
		Nature:            models.LetterNature(req.Nature),
		SecurityClass:     req.SecurityClass,
		Sender:            req.Sender,
		Recipient:         req.Recipient,
		Processor:         req.Processor,
		ReceivedDate:      req.ReceivedDate,
		LetterDate:        req.LetterDate,
		ExecutionDate:     req.ExecutionDate,
		Subject:           req.Subject,
		Note:              req.Note,
		IsInvitation:      req.IsInvitation,
		EventDate:         req.EventDate,
		EventTime:         req.EventTime,
		EventLocation:     req.EventLocation,
		EventNotes:        req.EventNotes,
		NeedsFollowUp:     req.NeedsFollowUp,
		FollowUpDeadline:  req.FollowUpDeadline,
		ExternalRefNumber: req.ExternalRefNumber,
		UserID:            actor.UserID,
		UserName:          actor.FullName,
	}
	if req.DispositionMethod != nil {
		method := models.DispositionMethod(*req.DispositionMethod)
		letter.DispositionMethod = &method
	}
	if req.DispositionTarget != nil {
		target := models.Department(*req.DispositionTarget)
		letter.DispositionTarget = &target
	}
	normalizeSubRecords(letter)

	details = append(details, s.validateLetter(letter)...)
	if len(details) > 0 {
		return nil, appErrors.Validation(details...)
	}

	if upload != nil {
		relPath, err := s.storeAttachment(direction, upload)
		if err != nil {
			return nil, err
		}
		letter.FileName = &upload.OriginalName
		letter.FilePath = &relPath
	}

	if err := s.letters.Create(ctx, letter); err != nil {
		s.discardFile(letter.FilePath)
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "letter number already registered")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create letter")
	}

	if err := s.projector.Sync(ctx, letter); err != nil {
		return nil, err
	}

	if letter.IsInvitation {
		s.announceInvitation(ctx, letter)
	}

	return &dto.LetterResponse{Letter: *letter}, nil
}

// Update applies a partial patch. Only the owner or an admin may modify a
// letter. Attachment replacement writes the new file before the row update
// and removes the old file only after the row commits.
func (s *LetterService) Update(ctx context.Context, id string, patch dto.UpdateLetterPatch, upload *dto.FileUpload, actor *models.JWTClaims) (*dto.LetterResponse, error) {
	letter, err := s.letters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load letter")
	}
	if !canModify(actor, letter) {
		return nil, appErrors.ErrForbidden
	}

	applyPatch(letter, patch)
	normalizeSubRecords(letter)

	// The merged record is held to the same field constraints as a create,
	// so a patch cannot clear required fields or blow length bounds.
	details := s.structDetails(requestFromLetter(letter))
	details = append(details, s.validateLetter(letter)...)
	if len(details) > 0 {
		return nil, appErrors.Validation(details...)
	}

	var oldPath *string
	if upload != nil {
		oldPath = letter.FilePath
		relPath, err := s.storeAttachment(letter.Direction, upload)
		if err != nil {
			return nil, err
		}
		letter.FileName = &upload.OriginalName
		letter.FilePath = &relPath
	}

	if err := s.letters.Update(ctx, letter); err != nil {
		if upload != nil {
			s.discardFile(letter.FilePath)
		}
		if repository.IsUniqueViolation(err) {
			return nil, appErrors.Clone(appErrors.ErrConflict, "letter number already registered")
		}
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update letter")
	}
	if upload != nil {
		s.discardFile(oldPath)
	}

	if err := s.projector.Sync(ctx, letter); err != nil {
		return nil, err
	}

	return s.respond(ctx, letter), nil
}

// Get returns a letter decorated with its current disposition.
func (s *LetterService) Get(ctx context.Context, id string) (*dto.LetterResponse, error) {
	letter, err := s.letters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load letter")
	}
	return s.respond(ctx, letter), nil
}

// List returns one page of a direction's register.
func (s *LetterService) List(ctx context.Context, direction models.LetterDirection, query dto.LetterListQuery) ([]dto.LetterResponse, *response.Pagination, error) {
	filter := models.LetterFilter{
		Direction:    direction,
		Search:       query.Search,
		IsInvitation: query.IsInvitation,
		Page:         query.Page,
		PageSize:     query.Limit,
	}
	if query.Nature != nil {
		nature := models.LetterNature(*query.Nature)
		if !models.ValidNature(nature) {
			return nil, nil, appErrors.Validation(appErrors.FieldError{Field: "nature", Message: "unknown nature value"})
		}
		filter.Nature = &nature
	}
	if query.StartDate != nil {
		start, err := time.Parse("2006-01-02", *query.StartDate)
		if err != nil {
			return nil, nil, appErrors.Validation(appErrors.FieldError{Field: "start_date", Message: "must be a date in YYYY-MM-DD format"})
		}
		filter.StartDate = &start
	}
	if query.EndDate != nil {
		end, err := time.Parse("2006-01-02", *query.EndDate)
		if err != nil {
			return nil, nil, appErrors.Validation(appErrors.FieldError{Field: "end_date", Message: "must be a date in YYYY-MM-DD format"})
		}
		filter.EndDate = &end
	}

	letters, total, err := s.letters.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list letters")
	}

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 {
		size = 10
	}
	if size > 100 {
		size = 100
	}
	items := make([]dto.LetterResponse, 0, len(letters))
	for i := range letters {
		items = append(items, dto.LetterResponse{Letter: letters[i]})
	}
	return items, response.NewPagination(page, size, total), nil
}

// Delete removes a letter together with its routing history, derived
// calendar event, and stored attachment.
func (s *LetterService) Delete(ctx context.Context, id string, actor *models.JWTClaims) error {
	letter, err := s.letters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load letter")
	}
	if !canModify(actor, letter) {
		return appErrors.ErrForbidden
	}

	if err := s.dispositions.DeleteByLetterID(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete letter dispositions")
	}
	if err := s.projector.RemoveForLetter(ctx, id); err != nil {
		return err
	}
	if err := s.letters.Delete(ctx, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.ErrNotFound
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete letter")
	}
	s.discardFile(letter.FilePath)
	return nil
}

// Download resolves the attachment of a letter. It returns the original
// file name and the absolute path on disk.
func (s *LetterService) Download(ctx context.Context, id string) (string, string, error) {
	letter, err := s.letters.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", appErrors.ErrNotFound
		}
		return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load letter")
	}
	if letter.FilePath == nil || letter.FileName == nil {
		return "", "", appErrors.Clone(appErrors.ErrNotFound, "letter has no attachment")
	}
	return *letter.FileName, s.files.Path(*letter.FilePath), nil
}

func (s *LetterService) respond(ctx context.Context, letter *models.Letter) *dto.LetterResponse {
	resp := &dto.LetterResponse{Letter: *letter}
	if letter.Direction == models.DirectionIncoming {
		history, err := s.dispositions.ListByLetter(ctx, letter.ID)
		if err != nil {
			s.logger.Warn("failed to load disposition history", zap.String("letter_id", letter.ID), zap.Error(err))
		} else if len(history) > 0 {
			resp.CurrentDisposition = &history[0]
		}
	}
	return resp
}

// validateLetter checks the merged letter against the register's field and
// cross-field rules. Every violation is reported, not just the first.
func (s *LetterService) validateLetter(letter *models.Letter) []appErrors.FieldError {
	var details []appErrors.FieldError

	number := letter.LetterNumber
	switch {
	case len(number) < 3 || len(number) > 50:
		details = append(details, appErrors.FieldError{Field: "letter_number", Message: "must be between 3 and 50 characters"})
	case !letterNumberPattern.MatchString(number):
		details = append(details, appErrors.FieldError{Field: "letter_number", Message: "may only contain letters, digits, '.', '/' and '-'"})
	}

	if !models.ValidNature(letter.Nature) {
		details = append(details, appErrors.FieldError{Field: "nature", Message: "unknown nature value"})
	}

	if letter.ReceivedDate.After(s.now()) {
		details = append(details, appErrors.FieldError{Field: "received_date", Message: "must not be in the future"})
	}

	if letter.IsInvitation {
		if letter.EventDate == nil {
			details = append(details, appErrors.FieldError{Field: "event_date", Message: "required for invitation letters"})
		} else if !letter.EventDate.After(letter.ReceivedDate) {
			details = append(details, appErrors.FieldError{Field: "event_date", Message: "must be after the received date"})
		}
	}

	if letter.NeedsFollowUp {
		if letter.Direction != models.DirectionIncoming {
			details = append(details, appErrors.FieldError{Field: "needs_follow_up", Message: "only incoming letters can require follow-up"})
		}
		if letter.FollowUpDeadline == nil {
			details = append(details, appErrors.FieldError{Field: "follow_up_deadline", Message: "required when follow-up is requested"})
		}
	}

	if letter.DispositionTarget != nil {
		if letter.Direction != models.DirectionIncoming {
			details = append(details, appErrors.FieldError{Field: "disposition_target", Message: "only incoming letters carry a disposition target"})
		} else if !models.ValidDepartment(*letter.DispositionTarget) {
			details = append(details, appErrors.FieldError{Field: "disposition_target", Message: "unknown department"})
		}
	}
	if letter.DispositionMethod != nil {
		switch *letter.DispositionMethod {
		case models.DispositionManual:
		case models.DispositionExternal:
			if letter.ExternalRefNumber == nil || *letter.ExternalRefNumber == "" {
				details = append(details, appErrors.FieldError{Field: "external_ref_number", Message: "required for external system dispositions"})
			}
		default:
			details = append(details, appErrors.FieldError{Field: "disposition_method", Message: "unknown disposition method"})
		}
	}

	if letter.SecurityClass != nil && letter.Direction != models.DirectionOutgoing {
		details = append(details, appErrors.FieldError{Field: "security_class", Message: "only outgoing letters carry a security class"})
	}

	return details
}

// structDetails maps validator tag violations to field errors using json
// names.
func (s *LetterService) structDetails(req dto.CreateLetterRequest) []appErrors.FieldError {
	err := s.validate.Struct(req)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return []appErrors.FieldError{{Field: "body", Message: "invalid request payload"}}
	}
	details := make([]appErrors.FieldError, 0, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			details = append(details, appErrors.FieldError{Field: fe.Field(), Message: "is required"})
		case "max":
			details = append(details, appErrors.FieldError{Field: fe.Field(), Message: fmt.Sprintf("must be at most %s characters", fe.Param())})
		default:
			details = append(details, appErrors.FieldError{Field: fe.Field(), Message: "is invalid"})
		}
	}
	return details
}

func (s *LetterService) storeAttachment(direction models.LetterDirection, upload *dto.FileUpload) (string, error) {
	file, err := upload.Open()
	if err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read uploaded file")
	}
	defer file.Close() //nolint:errcheck

	relPath := attachmentPath(direction, upload.OriginalName)
	if _, err := s.files.SaveStream(relPath, file); err != nil {
		return "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to store attachment")
	}
	return relPath, nil
}

// discardFile is cleanup after the row already settled. Failures are logged
// and swallowed so they never mask the primary result.
func (s *LetterService) discardFile(relPath *string) {
	if relPath == nil || *relPath == "" {
		return
	}
	if err := s.files.Delete(*relPath); err != nil {
		s.logger.Warn("failed to remove stored attachment", zap.String("path", *relPath), zap.Error(err))
	}
}

func (s *LetterService) announceInvitation(ctx context.Context, letter *models.Letter) {
	if s.notifier == nil {
		return
	}
	message := fmt.Sprintf("Surat %s: %s", letter.LetterNumber, letter.Subject)
	if letter.EventDate != nil {
		message = fmt.Sprintf("%s (acara %s)", message, letter.EventDate.Format("2006-01-02"))
	}
	_, err := s.notifier.Notify(ctx, NotificationInput{
		Title:    "Undangan baru",
		Message:  message,
		Severity: models.SeverityInfo,
		Email:    true,
	})
	if err != nil {
		s.logger.Warn("failed to announce invitation", zap.String("letter_id", letter.ID), zap.Error(err))
	}
}

func canModify(actor *models.JWTClaims, letter *models.Letter) bool {
	if actor == nil {
		return false
	}
	return actor.IsAdmin() || actor.UserID == letter.UserID
}

func applyPatch(letter *models.Letter, patch dto.UpdateLetterPatch) {
	if patch.LetterNumber != nil {
		letter.LetterNumber = strings.TrimSpace(*patch.LetterNumber)
	}
	if patch.Nature != nil {
		letter.Nature = models.LetterNature(*patch.Nature)
	}
	if patch.SecurityClass != nil {
		letter.SecurityClass = nilIfEmpty(patch.SecurityClass)
	}
	if patch.Sender != nil {
		letter.Sender = *patch.Sender
	}
	if patch.Recipient != nil {
		letter.Recipient = *patch.Recipient
	}
	if patch.Processor != nil {
		letter.Processor = *patch.Processor
	}
	if patch.ReceivedDate != nil {
		letter.ReceivedDate = *patch.ReceivedDate
	}
	if patch.LetterDate != nil {
		letter.LetterDate = patch.LetterDate
	}
	if patch.ExecutionDate != nil {
		letter.ExecutionDate = patch.ExecutionDate
	}
	if patch.Subject != nil {
		letter.Subject = *patch.Subject
	}
	if patch.Note != nil {
		letter.Note = nilIfEmpty(patch.Note)
	}

	if patch.IsInvitation != nil {
		letter.IsInvitation = *patch.IsInvitation
	}
	if patch.EventDate != nil {
		if letter.EventDate == nil || !letter.EventDate.Equal(*patch.EventDate) {
			// A rescheduled event is eligible for the overdue job again.
			letter.OverdueNotifiedAt = nil
		}
		letter.EventDate = patch.EventDate
	}
	if patch.EventTime != nil {
		letter.EventTime = nilIfEmpty(patch.EventTime)
	}
	if patch.EventLocation != nil {
		letter.EventLocation = nilIfEmpty(patch.EventLocation)
	}
	if patch.EventNotes != nil {
		letter.EventNotes = nilIfEmpty(patch.EventNotes)
	}

	if patch.NeedsFollowUp != nil {
		letter.NeedsFollowUp = *patch.NeedsFollowUp
	}
	if patch.FollowUpDeadline != nil {
		letter.FollowUpDeadline = patch.FollowUpDeadline
	}

	if patch.DispositionMethod != nil {
		if *patch.DispositionMethod == "" {
			letter.DispositionMethod = nil
		} else {
			method := models.DispositionMethod(*patch.DispositionMethod)
			letter.DispositionMethod = &method
		}
	}
	if patch.DispositionTarget != nil {
		if *patch.DispositionTarget == "" {
			letter.DispositionTarget = nil
		} else {
			target := models.Department(*patch.DispositionTarget)
			letter.DispositionTarget = &target
		}
	}
	if patch.ExternalRefNumber != nil {
		letter.ExternalRefNumber = nilIfEmpty(patch.ExternalRefNumber)
	}
}

// requestFromLetter rebuilds the create payload from a merged letter so the
// validator can re-check its struct tags after a patch.
func requestFromLetter(letter *models.Letter) dto.CreateLetterRequest {
	req := dto.CreateLetterRequest{
		LetterNumber:      letter.LetterNumber,
		Nature:            string(letter.Nature),
		SecurityClass:     letter.SecurityClass,
		Sender:            letter.Sender,
		Recipient:         letter.Recipient,
		Processor:         letter.Processor,
		ReceivedDate:      letter.ReceivedDate,
		LetterDate:        letter.LetterDate,
		ExecutionDate:     letter.ExecutionDate,
		Subject:           letter.Subject,
		Note:              letter.Note,
		IsInvitation:      letter.IsInvitation,
		EventDate:         letter.EventDate,
		EventTime:         letter.EventTime,
		EventLocation:     letter.EventLocation,
		EventNotes:        letter.EventNotes,
		NeedsFollowUp:     letter.NeedsFollowUp,
		FollowUpDeadline:  letter.FollowUpDeadline,
		ExternalRefNumber: letter.ExternalRefNumber,
	}
	if letter.DispositionMethod != nil {
		method := string(*letter.DispositionMethod)
		req.DispositionMethod = &method
	}
	if letter.DispositionTarget != nil {
		target := string(*letter.DispositionTarget)
		req.DispositionTarget = &target
	}
	return req
}

// normalizeSubRecords clears sub-record fields whose gating flag is off so a
// disabled invitation or follow-up never leaves stale values behind.
func normalizeSubRecords(letter *models.Letter) {
	if !letter.IsInvitation {
		letter.EventDate = nil
		letter.EventTime = nil
		letter.EventLocation = nil
		letter.EventNotes = nil
		letter.OverdueNotifiedAt = nil
	}
	if !letter.NeedsFollowUp {
		letter.FollowUpDeadline = nil
	}
}

func nilIfEmpty(s *string) *string {
	if s == nil || *s == "" {
		return nil
	}
	return s
}

// attachmentPath builds the stored location. The file name itself carries
// the direction prefix so a file stays identifiable outside its subdir.
func attachmentPath(direction models.LetterDirection, original string) string {
	ext := strings.ToLower(filepath.Ext(original))
	dir := strings.ToLower(string(direction))
	return fmt.Sprintf("%s/%s-%s%s", dir, dir, uuid.NewString(), ext)
}
