package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/response"
	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// AdminHandler serves operator account management and the activity journal.
// AdminHandler обслуживает управление аккаунтами операторов и журнал действий.
type AdminHandler struct {
	accountService  port.AccountService
	activityService port.ActivityService
	logger          *logger.Logger
}

// NewAdminHandler creates a new AdminHandler instance.
// NewAdminHandler создаёт новый экземпляр AdminHandler.
func NewAdminHandler(accountService port.AccountService, activityService port.ActivityService, log *logger.Logger) *AdminHandler {
	return &AdminHandler{
		accountService:  accountService,
		activityService: activityService,
		logger:          log.WithComponent("admin_handler"),
	}
}

// OperatorItem is an operator with its derived lifecycle state.
// OperatorItem — оператор с производным состоянием жизненного цикла.
type OperatorItem struct {
	domain.User
	State domain.AccountState `json:"state"`
}

// RejectRequest carries an optional reason mailed to the applicant.
type RejectRequest struct {
	Reason string `json:"reason" binding:"omitempty,max=500,nohtml"`
}

func operatorItem(user *domain.User) OperatorItem {
	return OperatorItem{User: *user, State: user.State()}
}

// ListOperators handles GET /api/v1/admin/operators.
// ListOperators обрабатывает GET /api/v1/admin/operators.
// @Summary List operators
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param status query string false "all, unverified, pending, awaiting_code, active, disabled"
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} response.APIResponse{data=[]OperatorItem}
// @Failure 400 {object} response.APIResponse
// @Router /api/v1/admin/operators [get]
func (h *AdminHandler) ListOperators(c *gin.Context) {
	page, pageSize := pagination(c)
	filter := domain.OperatorFilter{
		Status:   c.Query("status"),
		Page:     page,
		PageSize: pageSize,
	}

	users, total, err := h.accountService.ListOperators(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]OperatorItem, 0, len(users))
	for i := range users {
		items = append(items, operatorItem(&users[i]))
	}

	response.Page(c, items, page, pageSize, total)
}

// accountAction runs a lifecycle transition that returns the updated user.
func (h *AdminHandler) accountAction(c *gin.Context, action func(*gin.Context, int64, domain.Principal) (*domain.User, error)) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	user, err := action(c, userID, caller)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, operatorItem(user))
}

// Approve handles POST /api/v1/admin/operators/:id/approve.
// Approve обрабатывает POST /api/v1/admin/operators/:id/approve.
//
// Mails a fresh activation code to the operator.
// Отправляет оператору новый код активации.
// @Summary Approve an operator
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.APIResponse{data=OperatorItem}
// @Failure 409 {object} response.APIResponse
// @Router /api/v1/admin/operators/{id}/approve [post]
func (h *AdminHandler) Approve(c *gin.Context) {
	h.accountAction(c, func(c *gin.Context, id int64, actor domain.Principal) (*domain.User, error) {
		return h.accountService.ApproveAccount(c.Request.Context(), id, actor)
	})
}

// Disable handles POST /api/v1/admin/operators/:id/disable.
// @Summary Disable an account
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.APIResponse{data=OperatorItem}
// @Router /api/v1/admin/operators/{id}/disable [post]
func (h *AdminHandler) Disable(c *gin.Context) {
	h.accountAction(c, func(c *gin.Context, id int64, actor domain.Principal) (*domain.User, error) {
		return h.accountService.DisableAccount(c.Request.Context(), id, actor)
	})
}

// Enable handles POST /api/v1/admin/operators/:id/enable.
// @Summary Enable an account
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.APIResponse{data=OperatorItem}
// @Router /api/v1/admin/operators/{id}/enable [post]
func (h *AdminHandler) Enable(c *gin.Context) {
	h.accountAction(c, func(c *gin.Context, id int64, actor domain.Principal) (*domain.User, error) {
		return h.accountService.EnableAccount(c.Request.Context(), id, actor)
	})
}

// Reject handles POST /api/v1/admin/operators/:id/reject.
// Reject обрабатывает POST /api/v1/admin/operators/:id/reject.
//
// The application is deleted and the applicant is told why.
// Заявка удаляется, заявителю сообщается причина.
// @Summary Reject an application
// @Tags admin
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param id path int true "User ID"
// @Param request body RejectRequest false "Reason"
// @Success 200 {object} response.APIResponse{data=MessageResponse}
// @Failure 409 {object} response.APIResponse
// @Router /api/v1/admin/operators/{id}/reject [post]
func (h *AdminHandler) Reject(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}
	var req RejectRequest
	if !bindOptionalJSON(c, &req) {
		return
	}

	if err := h.accountService.RejectAccount(c.Request.Context(), userID, caller, req.Reason); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, MessageResponse{Message: "Application rejected"})
}

// ResendCode handles POST /api/v1/admin/operators/:id/resend-code.
// @Summary Mail a new activation code
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param id path int true "User ID"
// @Success 200 {object} response.APIResponse{data=MessageResponse}
// @Failure 409 {object} response.APIResponse
// @Router /api/v1/admin/operators/{id}/resend-code [post]
func (h *AdminHandler) ResendCode(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.ResendApprovalCode(c.Request.Context(), userID, caller); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, MessageResponse{Message: "Activation code sent"})
}

// Delete handles DELETE /api/v1/admin/operators/:id.
// Delete обрабатывает DELETE /api/v1/admin/operators/:id.
// @Summary Delete an account
// @Description Open audits of the account return to the unassigned pool
// @Tags admin
// @Security BearerAuth
// @Param id path int true "User ID"
// @Success 204
// @Failure 404 {object} response.APIResponse
// @Router /api/v1/admin/operators/{id} [delete]
func (h *AdminHandler) Delete(c *gin.Context) {
	caller, ok := requirePrincipal(c)
	if !ok {
		return
	}
	userID, ok := pathID(c, "id")
	if !ok {
		return
	}

	if err := h.accountService.DeleteAccount(c.Request.Context(), userID, caller); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// ListActivity handles GET /api/v1/admin/activity.
// ListActivity обрабатывает GET /api/v1/admin/activity.
// @Summary Activity journal
// @Tags admin
// @Security BearerAuth
// @Produce json
// @Param page query int false "Page number" default(1)
// @Param page_size query int false "Page size" default(20)
// @Success 200 {object} response.APIResponse{data=[]domain.ActivityLog}
// @Router /api/v1/admin/activity [get]
func (h *AdminHandler) ListActivity(c *gin.Context) {
	page, pageSize := pagination(c)

	rows, total, err := h.activityService.ListRecent(c.Request.Context(), page, pageSize)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Page(c, rows, page, pageSize, total)
}
