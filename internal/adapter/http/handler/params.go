package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/response"
	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/validator"
)

// Keys of the authenticated caller in gin.Context, set by AuthMiddleware.
// Ключи аутентифицированного пользователя в gin.Context, устанавливаются AuthMiddleware.
const (
	ContextUserID = "user_id"
	ContextEmail  = "email"
	ContextRole   = "role"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// currentPrincipal returns the caller stored by AuthMiddleware.
// currentPrincipal возвращает пользователя, сохранённого AuthMiddleware.
func currentPrincipal(c *gin.Context) (domain.Principal, bool) {
	raw, exists := c.Get(ContextUserID)
	if !exists {
		return domain.Principal{}, false
	}
	userID, ok := raw.(int64)
	if !ok {
		return domain.Principal{}, false
	}
	return domain.Principal{
		UserID: userID,
		Email:  c.GetString(ContextEmail),
		Role:   c.GetString(ContextRole),
	}, true
}

// requirePrincipal writes 401 and returns false when nobody is signed in.
func requirePrincipal(c *gin.Context) (domain.Principal, bool) {
	p, ok := currentPrincipal(c)
	if !ok {
		response.Unauthorized(c, "authentication required")
	}
	return p, ok
}

// pathID parses a positive int64 path parameter, writing 400 on failure.
// pathID разбирает положительный int64 параметр пути, при ошибке пишет 400.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := strconv.ParseInt(c.Param(name), 10, 64)
	if err != nil || id <= 0 {
		response.BadRequest(c, "invalid "+name)
		return 0, false
	}
	return id, true
}

// pagination reads page and page_size, clamped to sane bounds.
// pagination читает page и page_size с ограничением допустимых значений.
func pagination(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ = strconv.Atoi(c.DefaultQuery("page_size", strconv.Itoa(defaultPageSize)))
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = defaultPageSize
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return page, pageSize
}

// bindJSON binds the request body and writes a validation error on failure.
// bindJSON связывает тело запроса и при ошибке пишет ошибку валидации.
func bindJSON(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		details := map[string]interface{}{"details": err.Error()}
		if fields := validator.FormatValidationErrors(err); len(fields) > 0 {
			details["fields"] = fields
		}
		response.ValidationError(c, "invalid request body", details)
		return false
	}
	return true
}

// bindOptionalJSON binds the body only when one was sent.
// bindOptionalJSON связывает тело запроса, только если оно передано.
func bindOptionalJSON(c *gin.Context, obj interface{}) bool {
	if c.Request.ContentLength == 0 {
		return true
	}
	return bindJSON(c, obj)
}
