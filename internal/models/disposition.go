package models

import "time"

// Disposition records the assignment of an incoming letter to a department.
// Rows are an append-only routing history: the newest row is the current
// disposition, older rows document prior routing decisions.
type Disposition struct {
	ID            string     `db:"id" json:"id"`
	LetterID      string     `db:"letter_id" json:"letter_id"`
	Target        Department `db:"target" json:"target"`
	Notes         *string    `db:"notes" json:"notes,omitempty"`
	CreatedBy     string     `db:"created_by" json:"created_by"`
	CreatedByName string     `db:"created_by_name" json:"created_by_name"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}
