// Package response writes the JSON envelope shared by every tracker endpoint.
// Пакет response формирует JSON-конверт, общий для всех эндпоинтов трекера.
//
// Errors carry the apperror code and the request id of the failing call.
// Ошибки содержат код apperror и идентификатор запроса.
package response

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
)

// APIResponse is the envelope of every answer.
// APIResponse — конверт каждого ответа.
type APIResponse struct {
	Success bool        `json:"success"`         // Operation success flag / Флаг успешности операции
	Data    interface{} `json:"data,omitempty"`  // Response payload / Полезные данные ответа
	Error   *ErrorBody  `json:"error,omitempty"` // Error details (if any) / Детали ошибки (если есть)
	Meta    *Meta       `json:"meta,omitempty"`  // Pagination of listings / Пагинация списков
}

// ErrorBody describes a failed call.
// ErrorBody описывает неуспешный вызов.
type ErrorBody struct {
	Code      string                 `json:"code"`                 // apperror code, e.g. INCOMPLETE_PREREQUISITE
	Message   string                 `json:"message"`              // Human-readable message / Сообщение для человека
	Details   map[string]interface{} `json:"details,omitempty"`    // Account state, missing entries, fields
	RequestID string                 `json:"request_id,omitempty"` // X-Request-ID of the call / X-Request-ID вызова
}

// Meta is the pagination of operator, audit and activity listings.
// Meta — пагинация списков операторов, аудитов и журнала.
type Meta struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

// Success sends 200 with data.
// Success отправляет 200 с данными.
func Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, APIResponse{Success: true, Data: data})
}

// Page sends 200 with one page of a listing.
// Page отправляет 200 с одной страницей списка.
func Page(c *gin.Context, items interface{}, page, pageSize int, total int64) {
	c.JSON(http.StatusOK, APIResponse{
		Success: true,
		Data:    items,
		Meta:    NewMeta(page, pageSize, total),
	})
}

// Created sends 201 with the new resource.
// Created отправляет 201 с созданным ресурсом.
func Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, APIResponse{Success: true, Data: data})
}

// NoContent sends 204.
func NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// Error sends err with the status of its apperror code. Errors that are not
// AppErrors become INTERNAL_ERROR without leaking their text.
// Error отправляет err со статусом его кода apperror. Прочие ошибки
// превращаются в INTERNAL_ERROR без раскрытия текста.
func Error(c *gin.Context, err error) {
	appErr := apperror.FromError(err)

	c.JSON(appErr.HTTPStatus, APIResponse{
		Success: false,
		Error: &ErrorBody{
			Code:      appErr.Code,
			Message:   appErr.Message,
			Details:   appErr.Details,
			RequestID: logger.GetRequestIDFromContext(c.Request.Context()),
		},
	})
}

// BadRequest sends 400.
func BadRequest(c *gin.Context, message string) {
	Error(c, apperror.BadRequest(message))
}

// Unauthorized sends 401.
// Unauthorized отправляет 401.
func Unauthorized(c *gin.Context, message string) {
	if message == "" {
		message = "authentication required"
	}
	Error(c, apperror.Unauthorized(message))
}

// Forbidden sends 403 for a failed RBAC check.
// Forbidden отправляет 403 при отказе RBAC.
func Forbidden(c *gin.Context, message string) {
	if message == "" {
		message = "access denied"
	}
	Error(c, apperror.Forbidden(message))
}

// InternalError sends 500.
func InternalError(c *gin.Context, message string) {
	Error(c, apperror.Internal(message, nil))
}

// TooManyRequests sends 429 with Retry-After in seconds.
// TooManyRequests отправляет 429 с Retry-After в секундах.
func TooManyRequests(c *gin.Context, message string, retryAfter int) {
	c.Header("Retry-After", strconv.Itoa(retryAfter))
	Error(c, apperror.TooManyRequests(message, retryAfter))
}

// ValidationError sends 400 with field details.
// ValidationError отправляет 400 с деталями по полям.
func ValidationError(c *gin.Context, message string, details map[string]interface{}) {
	Error(c, apperror.ValidationError(message, details))
}

// NewMeta builds pagination metadata. A non-positive pageSize counts as 1.
// NewMeta строит метаданные пагинации. Неположительный pageSize считается 1.
func NewMeta(page, pageSize int, total int64) *Meta {
	if pageSize <= 0 {
		pageSize = 1
	}
	totalPages := int(total) / pageSize
	if int(total)%pageSize > 0 {
		totalPages++
	}
	return &Meta{
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
	}
}
