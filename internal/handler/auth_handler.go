package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/e-surat-api/internal/middleware"
	"github.com/noah-isme/e-surat-api/internal/models"
	"github.com/noah-isme/e-surat-api/internal/service"
	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
	"github.com/noah-isme/e-surat-api/pkg/response"
)

// AuthHandler exposes login, refresh and profile endpoints.
type AuthHandler struct {
	svc *service.AuthService
}

// NewAuthHandler builds the handler.
func NewAuthHandler(svc *service.AuthService) *AuthHandler {
	return &AuthHandler{svc: svc}
}

// Login authenticates credentials and issues a token pair.
func (h *AuthHandler) Login(c *gin.Context) {
	var req models.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Validation(appErrors.FieldError{Field: "body", Message: "invalid JSON payload"}))
		return
	}
	if req.Email == "" || req.Password == "" {
		response.Error(c, appErrors.Validation(
			appErrors.FieldError{Field: "email", Message: "is required"},
			appErrors.FieldError{Field: "password", Message: "is required"},
		))
		return
	}
	resp, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Refresh rotates a refresh token.
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req models.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.RefreshToken == "" {
		response.Error(c, appErrors.Validation(appErrors.FieldError{Field: "refresh_token", Message: "is required"}))
		return
	}
	resp, err := h.svc.Refresh(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	claims, ok := middleware.ClaimsFrom(c)
	if !ok {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}
	info, err := h.svc.Me(c.Request.Context(), claims)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, info)
}
