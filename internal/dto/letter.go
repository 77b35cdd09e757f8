package dto

import (
	"time"

	"github.com/noah-isme/e-surat-api/internal/models"
)

// CreateLetterRequest is the payload for registering a letter. The direction
// comes from the route, not the body.
type CreateLetterRequest struct {
	LetterNumber  string     `json:"letter_number" validate:"required"`
	Nature        string     `json:"nature" validate:"required"`
	SecurityClass *string    `json:"security_class,omitempty"`
	Sender        string     `json:"sender" validate:"required,max=200"`
	Recipient     string     `json:"recipient" validate:"required,max=200"`
	Processor     string     `json:"processor" validate:"required,max=200"`
	ReceivedDate  time.Time  `json:"received_date" validate:"required"`
	LetterDate    *time.Time `json:"letter_date,omitempty"`
	ExecutionDate *time.Time `json:"execution_date,omitempty"`
	Subject       string     `json:"subject" validate:"required,max=255"`
	Note          *string    `json:"note,omitempty"`

	IsInvitation  bool       `json:"is_invitation"`
	EventDate     *time.Time `json:"event_date,omitempty"`
	EventTime     *string    `json:"event_time,omitempty"`
	EventLocation *string    `json:"event_location,omitempty"`
	EventNotes    *string    `json:"event_notes,omitempty"`

	NeedsFollowUp    bool       `json:"needs_follow_up"`
	FollowUpDeadline *time.Time `json:"follow_up_deadline,omitempty"`

	DispositionMethod *string `json:"disposition_method,omitempty"`
	DispositionTarget *string `json:"disposition_target,omitempty"`
	ExternalRefNumber *string `json:"external_ref_number,omitempty"`
}

// UpdateLetterPatch is applied field-by-field. A nil pointer means "not
// provided" and leaves the stored value untouched; a pointer to the zero
// value explicitly clears optional text fields. Invitation and follow-up
// sub-records are cleared as a whole when their gating flag is set to false.
type UpdateLetterPatch struct {
	LetterNumber  *string    `json:"letter_number,omitempty"`
	Nature        *string    `json:"nature,omitempty"`
	SecurityClass *string    `json:"security_class,omitempty"`
	Sender        *string    `json:"sender,omitempty"`
	Recipient     *string    `json:"recipient,omitempty"`
	Processor     *string    `json:"processor,omitempty"`
	ReceivedDate  *time.Time `json:"received_date,omitempty"`
	LetterDate    *time.Time `json:"letter_date,omitempty"`
	ExecutionDate *time.Time `json:"execution_date,omitempty"`
	Subject       *string    `json:"subject,omitempty"`
	Note          *string    `json:"note,omitempty"`

	IsInvitation  *bool      `json:"is_invitation,omitempty"`
	EventDate     *time.Time `json:"event_date,omitempty"`
	EventTime     *string    `json:"event_time,omitempty"`
	EventLocation *string    `json:"event_location,omitempty"`
	EventNotes    *string    `json:"event_notes,omitempty"`

	NeedsFollowUp    *bool      `json:"needs_follow_up,omitempty"`
	FollowUpDeadline *time.Time `json:"follow_up_deadline,omitempty"`

	DispositionMethod *string `json:"disposition_method,omitempty"`
	DispositionTarget *string `json:"disposition_target,omitempty"`
	ExternalRefNumber *string `json:"external_ref_number,omitempty"`
}

// LetterListQuery captures list endpoint query parameters.
type LetterListQuery struct {
	Search       string  `form:"search"`
	Nature       *string `form:"nature"`
	IsInvitation *bool   `form:"is_invitation"`
	StartDate    *string `form:"start_date"`
	EndDate      *string `form:"end_date"`
	Page         int     `form:"page"`
	Limit        int     `form:"limit"`
}

// FileUpload carries a validated attachment stream from the handler.
type FileUpload struct {
	OriginalName string
	Size         int64
	Open         func() (ReadSeekCloser, error)
}

// ReadSeekCloser mirrors the multipart file handle contract.
type ReadSeekCloser interface {
	Read(p []byte) (int, error)
	Seek(offset int64, whence int) (int64, error)
	Close() error
}

// LetterResponse decorates a letter with its current disposition.
type LetterResponse struct {
	models.Letter
	CurrentDisposition *models.Disposition `json:"current_disposition,omitempty"`
}
