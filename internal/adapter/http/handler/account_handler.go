package handler

import (
	"errors"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/response"
	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// AccountHandler serves the profile of the signed-in user.
// AccountHandler обслуживает профиль вошедшего пользователя.
type AccountHandler struct {
	accountService port.AccountService
	logger         *logger.Logger
}

// NewAccountHandler creates a new AccountHandler instance.
// NewAccountHandler создаёт новый экземпляр AccountHandler.
func NewAccountHandler(accountService port.AccountService, log *logger.Logger) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         log.WithComponent("account_handler"),
	}
}

// GetMe handles GET /api/v1/me.
// GetMe обрабатывает GET /api/v1/me.
// @Summary Current profile
// @Tags account
// @Security BearerAuth
// @Produce json
// @Success 200 {object} response.APIResponse{data=domain.Profile}
// @Failure 401 {object} response.APIResponse
// @Router /api/v1/me [get]
func (h *AccountHandler) GetMe(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}

	profile, err := h.accountService.GetProfile(c.Request.Context(), caller.UserID)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, profile)
}

// UpdateAvatar handles PUT /api/v1/me/avatar.
// UpdateAvatar обрабатывает PUT /api/v1/me/avatar.
// @Summary Upload avatar
// @Description Replace the avatar image (multipart field "avatar")
// @Tags account
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param avatar formData file true "Image"
// @Success 200 {object} response.APIResponse{data=domain.Profile}
// @Failure 400 {object} response.APIResponse
// @Router /api/v1/me/avatar [put]
func (h *AccountHandler) UpdateAvatar(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}

	upload, closeFile, err := formUpload(c, "avatar")
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if upload == nil {
		response.BadRequest(c, "avatar file is required")
		return
	}
	defer closeFile()

	profile, err := h.accountService.UpdateAvatar(c.Request.Context(), caller.UserID, *upload)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, profile)
}

// formUpload opens an optional multipart file. A missing field yields nil.
// formUpload открывает необязательный файл multipart. Отсутствующее поле даёт nil.
func formUpload(c *gin.Context, field string) (*domain.Upload, func(), error) {
	header, err := c.FormFile(field)
	if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
		return nil, func() {}, nil
	}
	if err != nil {
		return nil, func() {}, errors.New("invalid multipart form")
	}
	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*domain.Upload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, errors.New("failed to read uploaded file")
	}
	return &domain.Upload{
		Filename:    header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}, func() { _ = file.Close() }, nil
}
