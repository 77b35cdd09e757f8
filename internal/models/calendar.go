package models

import "time"

// CalendarEvent is derived from an invitation letter, never authored
// directly. One letter owns at most one event; the event exists iff the
// letter is currently flagged as an invitation with an event date.
type CalendarEvent struct {
	ID            string    `db:"id" json:"id"`
	LetterID      string    `db:"letter_id" json:"letter_id"`
	UserID        string    `db:"user_id" json:"user_id"`
	Title         string    `db:"title" json:"title"`
	Description   string    `db:"description" json:"description"`
	Date          time.Time `db:"date" json:"date"`
	Time          *string   `db:"time" json:"time,omitempty"`
	Location      *string   `db:"location" json:"location,omitempty"`
	Notified3Days bool      `db:"notified_3_days" json:"notified_3_days"`
	Notified1Day  bool      `db:"notified_1_day" json:"notified_1_day"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time `db:"updated_at" json:"updated_at"`
}
