package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/test/mocks"
)

type adminTest struct {
	handler  *AdminHandler
	accounts *mocks.MockAccountService
	activity *mocks.MockActivityService
	router   *gin.Engine
}

func setupAdminTest(t *testing.T) *adminTest {
	ctrl := gomock.NewController(t)
	at := &adminTest{
		accounts: mocks.NewMockAccountService(ctrl),
		activity: mocks.NewMockActivityService(ctrl),
	}
	at.handler = NewAdminHandler(at.accounts, at.activity, testLogger())

	at.router = gin.New()
	admin := at.router.Group("/api/v1/admin", asCaller(adminCaller))
	admin.GET("/operators", at.handler.ListOperators)
	admin.POST("/operators/:id/approve", at.handler.Approve)
	admin.POST("/operators/:id/reject", at.handler.Reject)
	admin.POST("/operators/:id/resend-code", at.handler.ResendCode)
	admin.POST("/operators/:id/disable", at.handler.Disable)
	admin.POST("/operators/:id/enable", at.handler.Enable)
	admin.DELETE("/operators/:id", at.handler.Delete)
	admin.GET("/activity", at.handler.ListActivity)
	return at
}

func TestAdminHandler_ListOperators(t *testing.T) {
	at := setupAdminTest(t)

	at.accounts.EXPECT().
		ListOperators(gomock.Any(), domain.OperatorFilter{Status: "pending", Page: 2, PageSize: 5}).
		Return([]domain.User{
			{ID: 10, Email: "a@example.com", Role: domain.RoleOperator, EmailVerified: true},
			{ID: 11, Email: "b@example.com", Role: domain.RoleOperator, EmailVerified: true},
		}, int64(11), nil)

	w := doJSON(at.router, http.MethodGet, "/api/v1/admin/operators?status=pending&page=2&page_size=5", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	items := resp["data"].([]interface{})
	assert.Len(t, items, 2)
	assert.Equal(t, string(domain.StateEmailVerified), items[0].(map[string]interface{})["state"])

	meta := resp["meta"].(map[string]interface{})
	assert.Equal(t, float64(2), meta["page"])
	assert.Equal(t, float64(11), meta["total"])
	assert.Equal(t, float64(3), meta["total_pages"])
}

func TestAdminHandler_ListOperators_ClampsPaging(t *testing.T) {
	at := setupAdminTest(t)

	at.accounts.EXPECT().
		ListOperators(gomock.Any(), domain.OperatorFilter{Page: 1, PageSize: maxPageSize}).
		Return(nil, int64(0), nil)

	w := doJSON(at.router, http.MethodGet, "/api/v1/admin/operators?page=-3&page_size=1000", "")

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestAdminHandler_Approve(t *testing.T) {
	at := setupAdminTest(t)

	at.accounts.EXPECT().
		ApproveAccount(gomock.Any(), int64(10), adminCaller).
		Return(&domain.User{ID: 10, Role: domain.RoleOperator, EmailVerified: true, AdminApproved: true}, nil)

	w := doJSON(at.router, http.MethodPost, "/api/v1/admin/operators/10/approve", "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, string(domain.StateApprovedPendingCode), data["state"])
}

func TestAdminHandler_Approve_Errors(t *testing.T) {
	t.Run("bad id", func(t *testing.T) {
		at := setupAdminTest(t)

		w := doJSON(at.router, http.MethodPost, "/api/v1/admin/operators/abc/approve", "")

		assert.Equal(t, http.StatusBadRequest, w.Code)
		assert.Equal(t, apperror.CodeBadRequest, errorCode(t, w))
	})

	t.Run("email not verified", func(t *testing.T) {
		at := setupAdminTest(t)
		at.accounts.EXPECT().
			ApproveAccount(gomock.Any(), int64(10), adminCaller).
			Return(nil, apperror.PreconditionFailed("email address is not verified"))

		w := doJSON(at.router, http.MethodPost, "/api/v1/admin/operators/10/approve", "")

		assert.Equal(t, http.StatusConflict, w.Code)
		assert.Equal(t, apperror.CodePreconditionFailed, errorCode(t, w))
	})
}

func TestAdminHandler_Reject(t *testing.T) {
	t.Run("with reason", func(t *testing.T) {
		at := setupAdminTest(t)
		at.accounts.EXPECT().
			RejectAccount(gomock.Any(), int64(10), adminCaller, "incomplete profile").
			Return(nil)

		w := doJSON(at.router, http.MethodPost, "/api/v1/admin/operators/10/reject", `{"reason":"incomplete profile"}`)

		assert.Equal(t, http.StatusOK, w.Code)
		data := decode(t, w)["data"].(map[string]interface{})
		assert.Equal(t, "Application rejected", data["message"])
	})

	t.Run("without body", func(t *testing.T) {
		at := setupAdminTest(t)
		at.accounts.EXPECT().
			RejectAccount(gomock.Any(), int64(10), adminCaller, "").
			Return(nil)

		w := doJSON(at.router, http.MethodPost, "/api/v1/admin/operators/10/reject", "")

		assert.Equal(t, http.StatusOK, w.Code)
	})
}

func TestAdminHandler_ResendCode(t *testing.T) {
	at := setupAdminTest(t)
	at.accounts.EXPECT().ResendApprovalCode(gomock.Any(), int64(10), adminCaller).Return(nil)

	w := doJSON(at.router, http.MethodPost, "/api/v1/admin/operators/10/resend-code", "")

	assert.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "Activation code sent", data["message"])
}

func TestAdminHandler_DisableEnable(t *testing.T) {
	at := setupAdminTest(t)
	activated := time.Now()

	at.accounts.EXPECT().
		DisableAccount(gomock.Any(), int64(10), adminCaller).
		Return(&domain.User{ID: 10, Role: domain.RoleOperator, EmailVerified: true, AdminApproved: true, ActivatedAt: &activated}, nil)
	at.accounts.EXPECT().
		EnableAccount(gomock.Any(), int64(10), adminCaller).
		Return(&domain.User{ID: 10, Role: domain.RoleOperator, EmailVerified: true, AdminApproved: true, ActivatedAt: &activated, IsActive: true}, nil)

	w := doJSON(at.router, http.MethodPost, "/api/v1/admin/operators/10/disable", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(domain.StateDisabled), decode(t, w)["data"].(map[string]interface{})["state"])

	w = doJSON(at.router, http.MethodPost, "/api/v1/admin/operators/10/enable", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, string(domain.StateActive), decode(t, w)["data"].(map[string]interface{})["state"])
}

func TestAdminHandler_Disable_Self(t *testing.T) {
	at := setupAdminTest(t)
	at.accounts.EXPECT().
		DisableAccount(gomock.Any(), adminCaller.UserID, adminCaller).
		Return(nil, apperror.PreconditionFailed("administrators cannot disable themselves"))

	w := doJSON(at.router, http.MethodPost, "/api/v1/admin/operators/1/disable", "")

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAdminHandler_Delete(t *testing.T) {
	at := setupAdminTest(t)
	at.accounts.EXPECT().DeleteAccount(gomock.Any(), int64(10), adminCaller).Return(nil)

	w := doJSON(at.router, http.MethodDelete, "/api/v1/admin/operators/10", "")

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Empty(t, w.Body.String())
}

func TestAdminHandler_ListActivity(t *testing.T) {
	at := setupAdminTest(t)
	at.activity.EXPECT().
		ListRecent(gomock.Any(), 1, defaultPageSize).
		Return([]domain.ActivityLog{
			{ID: 3, UserID: 1, Action: domain.ActionAccountApprove, ResourceType: domain.ResourceUser, ResourceID: "10"},
		}, int64(1), nil)

	w := doJSON(at.router, http.MethodGet, "/api/v1/admin/activity", "")

	assert.Equal(t, http.StatusOK, w.Code)
	resp := decode(t, w)
	rows := resp["data"].([]interface{})
	assert.Equal(t, domain.ActionAccountApprove, rows[0].(map[string]interface{})["action"])
}
