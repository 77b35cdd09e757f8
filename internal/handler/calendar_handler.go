package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/service"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
	"github.com/noah-isme/e-surat-api/pkg/response"
)

// CalendarHandler serves the derived event calendar, read-only.
type CalendarHandler struct {
	svc *service.CalendarService
}

// NewCalendarHandler builds the handler.
func NewCalendarHandler(svc *service.CalendarService) *CalendarHandler {
	return &CalendarHandler{svc: svc}
}

// Range lists events inside a date window.
func (h *CalendarHandler) Range(c *gin.Context) {
	var query dto.CalendarRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(appErrors.FieldError{Field: "query", Message: "invalid query parameters"}))
		return
	}
	events, err := h.svc.ListRange(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events)
}

// Upcoming lists the next events from today onward.
func (h *CalendarHandler) Upcoming(c *gin.Context) {
	var query dto.CalendarUpcomingQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(appErrors.FieldError{Field: "query", Message: "invalid query parameters"}))
		return
	}
	events, err := h.svc.Upcoming(c.Request.Context(), query)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events)
}
