package apperror

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppError_Error(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		expected string
	}{
		{
			name:     "without wrapped error",
			err:      CodeMismatch(),
			expected: "CODE_MISMATCH: approval code does not match",
		},
		{
			name:     "with wrapped error",
			err:      Internal("failed to lock audit", errors.New("connection refused")),
			expected: "INTERNAL_ERROR: failed to lock audit: connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.err.Error())
		})
	}
}

func TestAppError_UnwrapAndWithError(t *testing.T) {
	cause := errors.New("smtp: 421 service not available")
	appErr := ServiceUnavailable("mail transport unavailable").WithError(cause)

	assert.Equal(t, cause, appErr.Unwrap())
	assert.True(t, errors.Is(appErr, cause))
}

func TestNew(t *testing.T) {
	appErr := New("CUSTOM_CODE", "custom message", http.StatusTeapot)

	assert.Equal(t, "CUSTOM_CODE", appErr.Code)
	assert.Equal(t, http.StatusTeapot, appErr.HTTPStatus)
	assert.Nil(t, appErr.Details)
	assert.Nil(t, appErr.Err)
}

func TestDomainConstructors(t *testing.T) {
	tests := []struct {
		name       string
		err        *AppError
		wantCode   string
		wantStatus int
	}{
		{"duplicate identity", DuplicateIdentity("a@x.com"), CodeDuplicateIdentity, http.StatusConflict},
		{"invalid credential", InvalidCredential([]string{"too short"}), CodeInvalidCredential, http.StatusBadRequest},
		{"invalid credentials", InvalidCredentials(), CodeInvalidCredentials, http.StatusUnauthorized},
		{"invalid token", InvalidToken(), CodeInvalidToken, http.StatusBadRequest},
		{"expired token", ExpiredToken("verification token"), CodeExpiredToken, http.StatusBadRequest},
		{"code mismatch", CodeMismatch(), CodeCodeMismatch, http.StatusBadRequest},
		{"precondition failed", PreconditionFailed("email not verified"), CodePreconditionFailed, http.StatusConflict},
		{"incomplete prerequisite", IncompletePrerequisite(3), CodeIncompletePrerequisite, http.StatusUnprocessableEntity},
		{"permission denied", Forbidden(""), CodeForbidden, http.StatusForbidden},
		{"not found", NotFound("audit", 7), CodeNotFound, http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantCode, tt.err.Code)
			assert.Equal(t, tt.wantStatus, tt.err.HTTPStatus)
			assert.NotEmpty(t, tt.err.Message)
		})
	}
}

func TestDomainConstructorDetails(t *testing.T) {
	assert.Equal(t, "a@x.com", DuplicateIdentity("a@x.com").Details["email"])
	assert.Equal(t, []string{"too short"}, InvalidCredential([]string{"too short"}).Details["errors"])
	assert.Equal(t, int64(3), IncompletePrerequisite(3).Details["entries_without_result"])
	assert.Equal(t, "verification token has expired", ExpiredToken("verification token").Message)

	nf := NotFound("audit", 7)
	assert.Equal(t, "audit not found", nf.Message)
	assert.Equal(t, "audit", nf.Details["resource"])
	assert.Equal(t, 7, nf.Details["id"])
}

func TestSignInBlocked(t *testing.T) {
	tests := []struct {
		code       string
		wantStatus string
	}{
		{CodeEmailNotVerified, "email_not_verified"},
		{CodeWaitingApproval, "waiting_admin_approval"},
		{CodeApprovalCodeRequired, "approval_code_required"},
		{CodeAccountDisabled, "account_disabled"},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			appErr := SignInBlocked(tt.code, "blocked", "op@example.com")

			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, http.StatusForbidden, appErr.HTTPStatus)
			assert.Equal(t, tt.wantStatus, appErr.Details["status"])
			assert.Equal(t, "op@example.com", appErr.Details["email"])
		})
	}
}

func TestUnauthorizedAndForbiddenDefaults(t *testing.T) {
	assert.Equal(t, "authentication required", Unauthorized("").Message)
	assert.Equal(t, "token revoked", Unauthorized("token revoked").Message)
	assert.Equal(t, "access denied", Forbidden("").Message)
	assert.Equal(t, "admin role required", Forbidden("admin role required").Message)
}

func TestTooManyRequests(t *testing.T) {
	appErr := TooManyRequests("rate limit exceeded", 60)

	assert.Equal(t, CodeTooManyRequests, appErr.Code)
	assert.Equal(t, http.StatusTooManyRequests, appErr.HTTPStatus)
	assert.Equal(t, 60, appErr.Details["retry_after_seconds"])
}

func TestHasCode(t *testing.T) {
	wrapped := fmt.Errorf("confirm: %w", CodeMismatch())

	assert.True(t, HasCode(wrapped, CodeCodeMismatch))
	assert.False(t, HasCode(wrapped, CodeNotFound))
	assert.False(t, HasCode(errors.New("plain"), CodeCodeMismatch))
	assert.False(t, HasCode(nil, CodeCodeMismatch))
}

func TestAsAppError(t *testing.T) {
	t.Run("wrapped AppError", func(t *testing.T) {
		original := NotFound("entry", 1)
		result, ok := AsAppError(fmt.Errorf("wrapped: %w", original))

		require.True(t, ok)
		assert.Same(t, original, result)
	})

	t.Run("not AppError", func(t *testing.T) {
		result, ok := AsAppError(errors.New("regular error"))

		assert.False(t, ok)
		assert.Nil(t, result)
		assert.False(t, IsAppError(errors.New("regular error")))
	})
}

func TestFromError(t *testing.T) {
	assert.Nil(t, FromError(nil))

	original := PreconditionFailed("account is not approved yet")
	assert.Same(t, original, FromError(fmt.Errorf("approve: %w", original)))

	regularErr := errors.New("pq: deadlock detected")
	result := FromError(regularErr)
	assert.Equal(t, CodeInternal, result.Code)
	assert.Equal(t, http.StatusInternalServerError, result.HTTPStatus)
	assert.Equal(t, regularErr, result.Err)
}
