package dto

// CalendarRangeQuery selects events inside a closed date interval.
type CalendarRangeQuery struct {
	Start string `form:"start" validate:"required"`
	End   string `form:"end" validate:"required"`
}

// CalendarUpcomingQuery selects the next events from today onward.
type CalendarUpcomingQuery struct {
	Limit int `form:"limit"`
}
