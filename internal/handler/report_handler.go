package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/service"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
	"github.com/noah-isme/e-surat-api/pkg/response"
)

// ReportHandler exposes agenda-book export and signed download.
type ReportHandler struct {
	svc *service.ReportService
}

// NewReportHandler builds the handler.
func NewReportHandler(svc *service.ReportService) *ReportHandler {
	return &ReportHandler{svc: svc}
}

// Agenda renders the agenda book for a register window.
func (h *ReportHandler) Agenda(c *gin.Context) {
	var req dto.AgendaReportRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, appErrors.Validation(appErrors.FieldError{Field: "query", Message: "invalid query parameters"}))
		return
	}
	resp, err := h.svc.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Download serves a generated report through its signed token. The route is
// deliberately outside the authenticated group: the token is the credential.
func (h *ReportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Validation(appErrors.FieldError{Field: "token", Message: "is required"}))
		return
	}
	fileName, path, err := h.svc.Resolve(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, fileName)
}
