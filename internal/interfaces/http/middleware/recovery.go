// Package middleware provides HTTP middleware.
package middleware

import (
	"fmt"
	"net/http"
	"runtime/debug"

	"github.com/gin-gonic/gin"

	"edu-tutor-api/internal/interfaces/http/dto"
	"edu-tutor-api/pkg/logger"
)

// Recovery converts panics into opaque 500 responses.
func Recovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		defer func() {
			if err := recover(); err != nil {
				stack := string(debug.Stack())

				logger.Error(c.Request.Context(), "panic recovered",
					fmt.Errorf("%v", err),
					"stack", stack,
					"path", c.Request.URL.Path,
					"method", c.Request.Method,
				)

				c.Abort()
				dto.Error(c, http.StatusInternalServerError, "internal server error")
			}
		}()

		c.Next()
	}
}
