package models

import "time"

// NotificationSeverity grades in-app notifications.
type NotificationSeverity string

const (
	SeverityInfo    NotificationSeverity = "INFO"
	SeverityWarning NotificationSeverity = "WARNING"
	SeveritySuccess NotificationSeverity = "SUCCESS"
	SeverityError   NotificationSeverity = "ERROR"
)

// Notification is an in-app message. A NULL UserID denotes a broadcast
// visible to every viewer. The read flag is monotonic: once true it never
// reverts through the public contract.
type Notification struct {
	ID        string               `db:"id" json:"id"`
	Title     string               `db:"title" json:"title"`
	Message   string               `db:"message" json:"message"`
	Severity  NotificationSeverity `db:"severity" json:"severity"`
	UserID    *string              `db:"user_id" json:"user_id,omitempty"`
	Read      bool                 `db:"read" json:"read"`
	CreatedAt time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt time.Time            `db:"updated_at" json:"updated_at"`
}

// NotificationFilter narrows down notification listings for one viewer.
type NotificationFilter struct {
	ViewerID   string
	UnreadOnly bool
	Page       int
	PageSize   int
}
