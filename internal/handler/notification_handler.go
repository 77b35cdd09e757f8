package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/middleware"
	"github.com/noah-isme/e-surat-api/internal/service"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
	"github.com/noah-isme/e-surat-api/pkg/response"
)

// NotificationHandler serves the viewer-scoped notification feed.
type NotificationHandler struct {
	svc *service.NotificationService
}

// NewNotificationHandler builds the handler.
func NewNotificationHandler(svc *service.NotificationService) *NotificationHandler {
	return &NotificationHandler{svc: svc}
}

// List returns the viewer's notifications plus the unread counter.
func (h *NotificationHandler) List(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var query dto.NotificationListQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		response.Error(c, appErrors.Validation(appErrors.FieldError{Field: "query", Message: "invalid query parameters"}))
		return
	}
	items, total, unread, err := h.svc.List(c.Request.Context(), claims.UserID, query)
	if err != nil {
		response.Error(c, err)
		return
	}
	page := query.Page
	if page < 1 {
		page = 1
	}
	limit := query.Limit
	if limit <= 0 {
		limit = 10
	}
	response.List(c, items, response.NewPagination(page, limit, total), map[string]interface{}{
		"unread_count": unread,
	})
}

// MarkRead flips one notification to read.
func (h *NotificationHandler) MarkRead(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.svc.MarkRead(c.Request.Context(), c.Param("id"), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// MarkAllRead flips every unread notification visible to the viewer.
func (h *NotificationHandler) MarkAllRead(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.svc.MarkAllRead(c.Request.Context(), claims.UserID); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
