package middleware

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
)

// RequestLogger logs one line per request after it completes.
// RequestLogger пишет одну строку лога на запрос после его завершения.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path

		c.Next()

		log.WithContext(c.Request.Context()).LogRequest(
			c.Request.Method,
			path,
			c.Writer.Status(),
			time.Since(start),
			c.ClientIP(),
		)
	}
}
