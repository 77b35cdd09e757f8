package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/e-surat-api/pkg/errors"
)

// Pagination describes the page window of a list response.
type Pagination struct {
	Current int `json:"current"`
	Limit   int `json:"limit"`
	Total   int `json:"total"`
	Pages   int `json:"pages"`
}

// NewPagination computes the page count for a result window.
func NewPagination(page, limit, total int) *Pagination {
	pages := 0
	if limit > 0 {
		pages = (total + limit - 1) / limit
	}
	return &Pagination{Current: page, Limit: limit, Total: total, Pages: pages}
}

// Envelope is the common response contract: single resources under "data",
// collections under "items" with pagination metadata.
type Envelope struct {
	Data       interface{}            `json:"data,omitempty"`
	Items      interface{}            `json:"items,omitempty"`
	Pagination *Pagination            `json:"pagination,omitempty"`
	Error      *appErrors.Error       `json:"error,omitempty"`
	Meta       map[string]interface{} `json:"meta,omitempty"`
}

// JSON sends a single-resource success response.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.JSON(status, Envelope{Data: data})
}

// List sends a collection response with pagination and optional metadata.
func List(c *gin.Context, items interface{}, pagination *Pagination, meta ...map[string]interface{}) {
	envelope := Envelope{Items: items, Pagination: pagination}
	if len(meta) > 0 && meta[0] != nil {
		envelope.Meta = meta[0]
	}
	c.Header("Cache-Control", "no-store")
	c.JSON(http.StatusOK, envelope)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// Error sends an error response converting the error to the common structure.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	c.Header("Cache-Control", "no-store")
	c.JSON(appErr.Status, Envelope{Error: appErr})
}

// NoContent sends a 204 response.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
