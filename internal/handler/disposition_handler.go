package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/middleware"
	"github.com/noah-isme/e-surat-api/internal/service"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
	"github.com/noah-isme/e-surat-api/pkg/response"
)

// DispositionHandler exposes the routing endpoints for incoming letters.
type DispositionHandler struct {
	svc *service.DispositionService
}

// NewDispositionHandler builds the handler.
func NewDispositionHandler(svc *service.DispositionService) *DispositionHandler {
	return &DispositionHandler{svc: svc}
}

// Route appends a routing decision.
func (h *DispositionHandler) Route(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.CreateDispositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(appErrors.FieldError{Field: "body", Message: "invalid JSON payload"}))
		return
	}
	d, err := h.svc.Route(c.Request.Context(), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, d)
}

// History lists a letter's routing rows newest-first.
func (h *DispositionHandler) History(c *gin.Context) {
	history, err := h.svc.History(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, history)
}

// Update corrects an existing routing row.
func (h *DispositionHandler) Update(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	var req dto.UpdateDispositionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(appErrors.FieldError{Field: "body", Message: "invalid JSON payload"}))
		return
	}
	d, err := h.svc.Update(c.Request.Context(), c.Param("id"), req, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, d)
}
