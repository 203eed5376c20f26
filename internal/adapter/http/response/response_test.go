package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
)

func serve(t *testing.T, method string, handler gin.HandlerFunc) (*httptest.ResponseRecorder, APIResponse) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Handle(method, "/test", handler)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(method, "/test", http.NoBody))

	var resp APIResponse
	if w.Body.Len() > 0 {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	}
	return w, resp
}

func TestSuccessResponses(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		w, resp := serve(t, http.MethodGet, func(c *gin.Context) {
			Success(c, map[string]int{"progress": 40})
		})

		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, resp.Success)
		assert.NotNil(t, resp.Data)
		assert.Nil(t, resp.Error)
		assert.Nil(t, resp.Meta)
	})

	t.Run("page", func(t *testing.T) {
		w, resp := serve(t, http.MethodGet, func(c *gin.Context) {
			Page(c, []string{"audit-1", "audit-2"}, 2, 10, 35)
		})

		assert.Equal(t, http.StatusOK, w.Code)
		require.NotNil(t, resp.Meta)
		assert.Equal(t, 2, resp.Meta.Page)
		assert.Equal(t, int64(35), resp.Meta.Total)
		assert.Equal(t, 4, resp.Meta.TotalPages)
	})

	t.Run("created", func(t *testing.T) {
		w, resp := serve(t, http.MethodPost, func(c *gin.Context) {
			Created(c, map[string]int64{"id": 7})
		})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.True(t, resp.Success)
	})

	t.Run("no content", func(t *testing.T) {
		w, _ := serve(t, http.MethodDelete, func(c *gin.Context) {
			NoContent(c)
		})

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Empty(t, w.Body.Bytes())
	})
}

func TestErrorResponses(t *testing.T) {
	tests := []struct {
		name        string
		handler     gin.HandlerFunc
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{
			name:        "app error passes through",
			handler:     func(c *gin.Context) { Error(c, apperror.NotFound("audit", 12)) },
			wantStatus:  http.StatusNotFound,
			wantCode:    apperror.CodeNotFound,
			wantMessage: "audit not found",
		},
		{
			name:        "wrapped app error is unwrapped",
			handler:     func(c *gin.Context) { Error(c, fmt.Errorf("complete: %w", apperror.IncompletePrerequisite(2))) },
			wantStatus:  http.StatusUnprocessableEntity,
			wantCode:    apperror.CodeIncompletePrerequisite,
			wantMessage: "not every entry has a recorded result",
		},
		{
			name:        "plain error becomes internal",
			handler:     func(c *gin.Context) { Error(c, errors.New("pq: relation does not exist")) },
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperror.CodeInternal,
			wantMessage: "an unexpected error occurred",
		},
		{
			name:        "bad request",
			handler:     func(c *gin.Context) { BadRequest(c, "invalid audit id") },
			wantStatus:  http.StatusBadRequest,
			wantCode:    apperror.CodeBadRequest,
			wantMessage: "invalid audit id",
		},
		{
			name:        "unauthorized default message",
			handler:     func(c *gin.Context) { Unauthorized(c, "") },
			wantStatus:  http.StatusUnauthorized,
			wantCode:    apperror.CodeUnauthorized,
			wantMessage: "authentication required",
		},
		{
			name:        "forbidden default message",
			handler:     func(c *gin.Context) { Forbidden(c, "") },
			wantStatus:  http.StatusForbidden,
			wantCode:    apperror.CodeForbidden,
			wantMessage: "access denied",
		},
		{
			name:        "precondition failed keeps conflict status",
			handler:     func(c *gin.Context) { Error(c, apperror.PreconditionFailed("account is already active")) },
			wantStatus:  http.StatusConflict,
			wantCode:    apperror.CodePreconditionFailed,
			wantMessage: "account is already active",
		},
		{
			name:        "internal error",
			handler:     func(c *gin.Context) { InternalError(c, "storage unavailable") },
			wantStatus:  http.StatusInternalServerError,
			wantCode:    apperror.CodeInternal,
			wantMessage: "storage unavailable",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w, resp := serve(t, http.MethodGet, tt.handler)

			assert.Equal(t, tt.wantStatus, w.Code)
			assert.False(t, resp.Success)
			assert.Nil(t, resp.Data)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantCode, resp.Error.Code)
			assert.Equal(t, tt.wantMessage, resp.Error.Message)
		})
	}
}

func TestError_SignInBlockedCarriesStatus(t *testing.T) {
	w, resp := serve(t, http.MethodPost, func(c *gin.Context) {
		Error(c, apperror.SignInBlocked(apperror.CodeWaitingApproval, "waiting for administrator approval", "op@example.com"))
	})

	assert.Equal(t, http.StatusForbidden, w.Code)
	require.NotNil(t, resp.Error)
	assert.Equal(t, "waiting_admin_approval", resp.Error.Details["status"])
	assert.Equal(t, "op@example.com", resp.Error.Details["email"])
}

func TestTooManyRequests_SetsRetryAfter(t *testing.T) {
	w, resp := serve(t, http.MethodPost, func(c *gin.Context) {
		TooManyRequests(c, "too many verification emails", 120)
	})

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "120", w.Header().Get("Retry-After"))
	assert.Equal(t, apperror.CodeTooManyRequests, resp.Error.Code)
}

func TestValidationError(t *testing.T) {
	w, resp := serve(t, http.MethodPost, func(c *gin.Context) {
		ValidationError(c, "validation failed", map[string]interface{}{"status": "unknown result status"})
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, apperror.CodeValidation, resp.Error.Code)
	assert.Equal(t, "unknown result status", resp.Error.Details["status"])
}

func TestError_CarriesRequestID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/test", func(c *gin.Context) {
		ctx := logger.WithRequestIDContext(c.Request.Context(), "req-42")
		c.Request = c.Request.WithContext(ctx)
		Error(c, apperror.IncompletePrerequisite(3))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/test", http.NoBody))

	var resp APIResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Error)
	assert.Equal(t, "req-42", resp.Error.RequestID)
}

func TestNewMeta(t *testing.T) {
	tests := []struct {
		name               string
		pageSize           int
		total              int64
		expectedTotalPages int
	}{
		{"exact division", 10, 100, 10},
		{"with remainder", 10, 95, 10},
		{"single page", 10, 5, 1},
		{"empty", 10, 0, 0},
		{"zero page size", 0, 3, 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			meta := NewMeta(1, tt.pageSize, tt.total)

			assert.Equal(t, 1, meta.Page)
			assert.Equal(t, tt.total, meta.Total)
			assert.Equal(t, tt.expectedTotalPages, meta.TotalPages)
		})
	}
}
