// Package middleware provides HTTP middleware components for the Gin framework.
// Пакет middleware предоставляет компоненты HTTP middleware для фреймворка Gin.
package middleware

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
)

const (
	// RequestIDHeader carries the correlation id in both directions.
	// RequestIDHeader передаёт идентификатор корреляции в обе стороны.
	RequestIDHeader = "X-Request-ID"

	// RequestIDKey is the gin.Context key of the request id.
	RequestIDKey = "request_id"

	maxRequestIDLength = 128
)

// RequestID returns a middleware that tags every request with an id and the client address.
// RequestID возвращает middleware, который помечает запрос идентификатором и адресом клиента.
//
// A client supplied X-Request-ID is reused when it is reasonably short.
// The remote address and user agent go into the context for the activity journal.
// Переданный клиентом X-Request-ID используется, если он не слишком длинный.
// Адрес и user agent клиента попадают в контекст для журнала действий.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		requestID := c.GetHeader(RequestIDHeader)
		if requestID == "" || len(requestID) > maxRequestIDLength {
			requestID = uuid.NewString()
		}

		c.Set(RequestIDKey, requestID)
		c.Header(RequestIDHeader, requestID)

		ctx := logger.WithRequestIDContext(c.Request.Context(), requestID)
		ctx = logger.WithClientContext(ctx, c.ClientIP(), c.Request.UserAgent())
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// GetRequestID returns the request id, or "" outside RequestID.
// GetRequestID возвращает ID запроса или "" вне RequestID.
func GetRequestID(c *gin.Context) string {
	return c.GetString(RequestIDKey)
}
