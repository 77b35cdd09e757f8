package handler

import (
	"encoding/json"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/e-surat-api/internal/dto"
	"github.com/noah-isme/e-surat-api/internal/middleware"
	"github.com/noah-isme/e-surat-api/internal/models"
	"github.com/noah-isme/e-surat-api/internal/service"
	"github.com/noah-isme/e-surat-api/pkg/config"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
	"github.com/noah-isme/e-surat-api/pkg/response"
)

// LetterHandler exposes the letter register. The same handler serves both
// directions; routes bind the direction at registration time.
type LetterHandler struct {
	svc     *service.LetterService
	uploads config.UploadsConfig
}

// NewLetterHandler builds the handler.
func NewLetterHandler(svc *service.LetterService, uploads config.UploadsConfig) *LetterHandler {
	return &LetterHandler{svc: svc, uploads: uploads}
}

// Create registers a letter. The body is either plain JSON or a multipart
// form with a "data" JSON part and an optional "file" attachment.
func (h *LetterHandler) Create(direction models.LetterDirection) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.ClaimsFrom(c)
		if !ok {
			response.Error(c, appErrors.ErrUnauthorized)
			return
		}

		var req dto.CreateLetterRequest
		upload, err := h.parsePayload(c, &req)
		if err != nil {
			response.Error(c, err)
			return
		}

		resp, err := h.svc.Create(c.Request.Context(), direction, req, upload, claims)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.Created(c, resp)
	}
}

// List returns one page of the direction's register.
func (h *LetterHandler) List(direction models.LetterDirection) gin.HandlerFunc {
	return func(c *gin.Context) {
		var query dto.LetterListQuery
		if err := c.ShouldBindQuery(&query); err != nil {
			response.Error(c, appErrors.Validation(appErrors.FieldError{Field: "query", Message: "invalid query parameters"}))
			return
		}
		items, pagination, err := h.svc.List(c.Request.Context(), direction, query)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.List(c, items, pagination)
	}
}

// Get returns a single letter with its current disposition.
func (h *LetterHandler) Get(c *gin.Context) {
	resp, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Update applies a partial patch, optionally replacing the attachment.
func (h *LetterHandler) Update(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var patch dto.UpdateLetterPatch
	upload, err := h.parsePayload(c, &patch)
	if err != nil {
		response.Error(c, err)
		return
	}

	resp, err := h.svc.Update(c.Request.Context(), c.Param("id"), patch, upload, claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Delete removes a letter and everything derived from it.
func (h *LetterHandler) Delete(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	if err := h.svc.Delete(c.Request.Context(), c.Param("id"), claims); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}

// Download streams the stored attachment under its original name.
func (h *LetterHandler) Download(c *gin.Context) {
	fileName, path, err := h.svc.Download(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.FileAttachment(path, fileName)
}

// parsePayload decodes the request into target and, for multipart bodies,
// validates and returns the attachment.
func (h *LetterHandler) parsePayload(c *gin.Context, target interface{}) (*dto.FileUpload, error) {
	contentType := c.GetHeader("Content-Type")
	if !strings.HasPrefix(contentType, "multipart/form-data") {
		if err := c.ShouldBindJSON(target); err != nil {
			return nil, appErrors.Validation(appErrors.FieldError{Field: "body", Message: "invalid JSON payload"})
		}
		return nil, nil
	}

	raw := c.PostForm("data")
	if raw == "" {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "data", Message: "is required"})
	}
	if err := json.Unmarshal([]byte(raw), target); err != nil {
		return nil, appErrors.Validation(appErrors.FieldError{Field: "data", Message: "invalid JSON payload"})
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		// The file part is optional; multipart without it is a plain patch.
		return nil, nil
	}
	if err := h.validateUpload(fileHeader); err != nil {
		return nil, err
	}
	return &dto.FileUpload{
		OriginalName: filepath.Base(fileHeader.Filename),
		Size:         fileHeader.Size,
		Open: func() (dto.ReadSeekCloser, error) {
			return fileHeader.Open()
		},
	}, nil
}

func (h *LetterHandler) validateUpload(fileHeader *multipart.FileHeader) error {
	if fileHeader.Size > h.uploads.MaxFileSizeBytes {
		return appErrors.Validation(appErrors.FieldError{
			Field:   "file",
			Message: fmt.Sprintf("must not exceed %d bytes", h.uploads.MaxFileSizeBytes),
		})
	}
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(fileHeader.Filename)), ".")
	for _, allowed := range h.uploads.AllowedExtensions {
		if ext == strings.ToLower(allowed) {
			return nil
		}
	}
	return appErrors.Validation(appErrors.FieldError{
		Field:   "file",
		Message: fmt.Sprintf("extension must be one of %s", strings.Join(h.uploads.AllowedExtensions, ", ")),
	})
}
