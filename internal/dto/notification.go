package dto

// NotificationListQuery captures notification list parameters.
type NotificationListQuery struct {
	UnreadOnly bool `form:"unread_only"`
	Page       int  `form:"page"`
	Limit      int  `form:"limit"`
}
