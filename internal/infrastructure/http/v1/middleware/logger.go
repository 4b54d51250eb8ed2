package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"stationery/pkg/logger"
)

// Logger middleware logs HTTP requests with timing and status. The request
// logger is also stored in the request context for handlers and services.
func Logger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		reqLog := log.WithContext(c.Request.Context())
		c.Request = c.Request.WithContext(logger.WithLogger(c.Request.Context(), reqLog))

		c.Next()

		latency := time.Since(start)
		reqLog.Infow("http request",
			"method", c.Request.Method,
			"path", path,
			"query", query,
			"status", c.Writer.Status(),
			"bytes", c.Writer.Size(),
			"latency_ms", latency.Milliseconds(),
			"client_ip", c.ClientIP(),
			"user_agent", c.Request.UserAgent(),
			"error", c.Errors.ByType(gin.ErrorTypePrivate).String(),
		)
	}
}
