// Package dto provides HTTP layer data transfer objects.
package dto

import (
	"github.com/gin-gonic/gin"
)

// ErrorResponse is the error body: a single human-readable message.
// Internal detail is logged server-side, never returned to the caller.
type ErrorResponse struct {
	Error string `json:"error"`
}

// Error writes an error response.
func Error(c *gin.Context, httpCode int, message string) {
	c.JSON(httpCode, ErrorResponse{Error: message})
}

// BadRequest writes a 400 response.
func BadRequest(c *gin.Context, message string) {
	Error(c, 400, message)
}

// InternalError writes a 500 response.
func InternalError(c *gin.Context, message string) {
	Error(c, 500, message)
}
