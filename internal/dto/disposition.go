package dto

// CreateDispositionRequest routes an incoming letter to a department.
type CreateDispositionRequest struct {
	LetterID string  `json:"letter_id" validate:"required"`
	Target   string  `json:"target" validate:"required"`
	Notes    *string `json:"notes,omitempty"`
}

// UpdateDispositionRequest corrects an existing routing row. History order
// is never changed; only the target and notes of the addressed row may move.
type UpdateDispositionRequest struct {
	Target *string `json:"target,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}
