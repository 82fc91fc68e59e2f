package middleware

import (
	"net/http"
	"time"

	"mvextras/domain/core"
	"mvextras/internal"
	"mvextras/internal/errors"

	"github.com/gin-gonic/gin"
)

// RequireDataset rejects requests with 409 until a dataset has been loaded
func RequireDataset(loaded func() bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		if !loaded() {
			c.AbortWithStatusJSON(http.StatusConflict, gin.H{
				"error":   errors.CodeDatasetNotLoaded,
				"message": core.ErrDatasetNotLoaded.Error(),
			})
			return
		}
		c.Next()
	}
}

// RequestLogger logs each request at debug level and server errors at error level
func RequestLogger(logger *internal.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		if status >= http.StatusInternalServerError {
			logger.Error("%s %s -> %d (%s) %s", c.Request.Method, c.Request.URL.Path, status, time.Since(start), c.Errors.String())
			return
		}
		logger.Debug("%s %s -> %d (%s)", c.Request.Method, c.Request.URL.Path, status, time.Since(start))
	}
}
