// Package handler provides HTTP request handlers for the audit tracker.
// Пакет handler предоставляет обработчики HTTP запросов трекера аудитов.
package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/middleware"
	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/response"
	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// AuthHandler serves registration, sign-in and session endpoints.
// AuthHandler обслуживает эндпоинты регистрации, входа и сессий.
//
// It also owns the JWT and RBAC middleware guarding the rest of the API.
// Также владеет JWT и RBAC middleware, защищающими остальной API.
type AuthHandler struct {
	authService    port.AuthService          // Sessions and tokens / Сессии и токены
	accountService port.AccountService       // Account lifecycle / Жизненный цикл аккаунта
	authzService   port.AuthorizationService // RBAC checks / Проверки RBAC
	logger         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler instance.
// NewAuthHandler создаёт новый экземпляр AuthHandler.
func NewAuthHandler(
	authService port.AuthService,
	accountService port.AccountService,
	authzService port.AuthorizationService,
	log *logger.Logger,
) *AuthHandler {
	return &AuthHandler{
		authService:    authService,
		accountService: accountService,
		authzService:   authzService,
		logger:         log.WithComponent("auth_handler"),
	}
}

// LoginRequest represents the sign-in request body.
// LoginRequest представляет тело запроса на вход.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// EmailRequest carries a single address.
type EmailRequest struct {
	Email string `json:"email" binding:"required,email"`
}

// ConfirmCodeRequest represents the activation code submission.
// ConfirmCodeRequest представляет ввод кода активации.
type ConfirmCodeRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required,numeric,min=4,max=10"`
}

// RefreshTokenRequest represents the refresh token request body.
// RefreshTokenRequest представляет тело запроса на обновление токена.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// GoogleSignInRequest carries the ID token issued by Google to the client.
// GoogleSignInRequest содержит ID токен, выданный Google клиенту.
type GoogleSignInRequest struct {
	IDToken string `json:"id_token" binding:"required"`
}

// LogoutRequest represents the logout request body.
// LogoutRequest представляет тело запроса на выход.
type LogoutRequest struct {
	RefreshToken string `json:"refresh_token" binding:"required"`
}

// AccountResponse is a user with a hint about the next lifecycle step.
// AccountResponse — пользователь с подсказкой о следующем шаге.
type AccountResponse struct {
	User    *domain.User        `json:"user"`
	State   domain.AccountState `json:"state"`
	Message string              `json:"message"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// Register handles POST /auth/register.
// Register обрабатывает POST /auth/register.
// @Summary Register an account
// @Description Create an account and send the email verification link
// @Tags auth
// @Accept json
// @Produce json
// @Param request body domain.RegisterRequest true "Registration data"
// @Success 201 {object} response.APIResponse{data=AccountResponse}
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req domain.RegisterRequest
	if !bindJSON(c, &req) {
		return
	}

	user, err := h.accountService.Register(c.Request.Context(), &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, AccountResponse{
		User:    user,
		State:   user.State(),
		Message: "Check your inbox to verify the email address",
	})
}

// Login handles POST /auth/login.
// Login обрабатывает POST /auth/login.
// @Summary Sign in
// @Description Authenticate with email and password and get JWT tokens
// @Tags auth
// @Accept json
// @Produce json
// @Param request body LoginRequest true "Credentials"
// @Success 200 {object} response.APIResponse{data=port.TokenPair}
// @Failure 401 {object} response.APIResponse
// @Failure 403 {object} response.APIResponse
// @Failure 429 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.SignIn(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, tokens)
}

// VerifyEmail handles GET /auth/verify-email/:token.
// VerifyEmail обрабатывает GET /auth/verify-email/:token.
// @Summary Verify email address
// @Tags auth
// @Produce json
// @Param token path string true "Verification token"
// @Success 200 {object} response.APIResponse{data=AccountResponse}
// @Failure 400 {object} response.APIResponse
// @Router /auth/verify-email/{token} [get]
func (h *AuthHandler) VerifyEmail(c *gin.Context) {
	token := strings.TrimSpace(c.Param("token"))
	if token == "" {
		response.BadRequest(c, "missing verification token")
		return
	}

	user, err := h.accountService.VerifyEmail(c.Request.Context(), token)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, AccountResponse{
		User:    user,
		State:   user.State(),
		Message: "Email verified. An administrator will review the account",
	})
}

// ResendVerification handles POST /auth/resend-verification.
// ResendVerification обрабатывает POST /auth/resend-verification.
// @Summary Resend verification email
// @Tags auth
// @Accept json
// @Produce json
// @Param request body EmailRequest true "Address"
// @Success 200 {object} response.APIResponse{data=MessageResponse}
// @Failure 404 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Failure 429 {object} response.APIResponse
// @Router /auth/resend-verification [post]
func (h *AuthHandler) ResendVerification(c *gin.Context) {
	var req EmailRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.accountService.ResendVerification(c.Request.Context(), req.Email); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, MessageResponse{Message: "Verification email sent"})
}

// ConfirmCode handles POST /auth/confirm-code.
// ConfirmCode обрабатывает POST /auth/confirm-code.
// @Summary Activate account with approval code
// @Description Exchange the code mailed on approval for a first session
// @Tags auth
// @Accept json
// @Produce json
// @Param request body ConfirmCodeRequest true "Email and code"
// @Success 200 {object} response.APIResponse{data=port.TokenPair}
// @Failure 400 {object} response.APIResponse
// @Failure 409 {object} response.APIResponse
// @Router /auth/confirm-code [post]
func (h *AuthHandler) ConfirmCode(c *gin.Context) {
	var req ConfirmCodeRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.accountService.ConfirmApprovalCode(c.Request.Context(), req.Email, req.Code)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, tokens)
}

// RefreshToken handles POST /auth/refresh.
// RefreshToken обрабатывает POST /auth/refresh.
// @Summary Refresh tokens
// @Description Rotate the refresh token and get a new access token
// @Tags auth
// @Accept json
// @Produce json
// @Param request body RefreshTokenRequest true "Refresh token"
// @Success 200 {object} response.APIResponse{data=port.TokenPair}
// @Failure 401 {object} response.APIResponse
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req RefreshTokenRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, tokens)
}

// GoogleSignIn handles POST /auth/google.
// GoogleSignIn обрабатывает POST /auth/google.
// @Summary Sign in with Google
// @Tags auth
// @Accept json
// @Produce json
// @Param request body GoogleSignInRequest true "Google ID token"
// @Success 200 {object} response.APIResponse{data=port.TokenPair}
// @Failure 401 {object} response.APIResponse
// @Failure 503 {object} response.APIResponse
// @Router /auth/google [post]
func (h *AuthHandler) GoogleSignIn(c *gin.Context) {
	var req GoogleSignInRequest
	if !bindJSON(c, &req) {
		return
	}

	tokens, err := h.authService.SignInWithGoogle(c.Request.Context(), req.IDToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, tokens)
}

// Logout handles POST /api/v1/auth/logout.
// Logout обрабатывает POST /api/v1/auth/logout.
//
// Revokes the refresh token and blacklists the access token of the request.
// Отзывает refresh токен и блокирует access токен запроса.
// @Summary Sign out
// @Tags auth
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body LogoutRequest true "Refresh token"
// @Success 200 {object} response.APIResponse{data=MessageResponse}
// @Failure 401 {object} response.APIResponse
// @Router /api/v1/auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	var req LogoutRequest
	if !bindJSON(c, &req) {
		return
	}

	accessToken, _ := bearerToken(c.GetHeader("Authorization"))
	if err := h.authService.Logout(c.Request.Context(), req.RefreshToken, accessToken); err != nil {
		response.Error(c, err)
		return
	}

	response.Success(c, MessageResponse{Message: "Logged out successfully"})
}

// bearerToken extracts the token from an "Authorization: Bearer <token>" value.
func bearerToken(header string) (string, bool) {
	scheme, token, found := strings.Cut(header, " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}

// AuthMiddleware returns JWT authentication middleware.
// AuthMiddleware возвращает middleware для JWT аутентификации.
//
// Validates the bearer token, rejects revoked tokens and stores the caller.
// Валидирует bearer токен, отклоняет отозванные токены и сохраняет пользователя.
func (h *AuthHandler) AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			response.Unauthorized(c, "missing authorization header")
			c.Abort()
			return
		}

		token, ok := bearerToken(authHeader)
		if !ok {
			response.Unauthorized(c, "invalid authorization header format")
			c.Abort()
			return
		}

		claims, err := h.authService.ValidateToken(c.Request.Context(), token)
		if err != nil {
			response.Unauthorized(c, "invalid or expired token")
			c.Abort()
			return
		}

		if claims.ID != "" {
			revoked, blacklistErr := h.authService.IsTokenBlacklisted(c.Request.Context(), claims.ID)
			if blacklistErr != nil {
				// Fail open: a Redis outage must not lock everyone out
				// Fail open: сбой Redis не должен блокировать всех пользователей
				h.logger.Warn("failed to check token blacklist", "error", blacklistErr)
			} else if revoked {
				response.Unauthorized(c, "token has been revoked")
				c.Abort()
				return
			}
		}

		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextEmail, claims.Email)
		c.Set(ContextRole, claims.Role)

		ctx := logger.WithUserIDContext(c.Request.Context(), claims.UserID)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

// RBACMiddleware returns authorization middleware for a resource and action.
// RBACMiddleware возвращает middleware авторизации для ресурса и действия.
func (h *AuthHandler) RBACMiddleware(resource, action string) gin.HandlerFunc {
	return func(c *gin.Context) {
		raw, exists := c.Get(ContextUserID)
		if !exists {
			response.Unauthorized(c, "authentication required")
			c.Abort()
			return
		}
		userID, ok := raw.(int64)
		if !ok {
			response.InternalError(c, "invalid user id type")
			c.Abort()
			return
		}

		allowed, err := h.authzService.CheckAccess(c.Request.Context(), userID, resource, action)
		if err != nil {
			h.logger.Error("authorization check failed",
				"user_id", userID, "resource", resource, "action", action, "error", err)
			response.InternalError(c, "authorization check failed")
			c.Abort()
			return
		}
		middleware.RecordAuthzDecision(allowed, resource, action)

		if !allowed {
			response.Forbidden(c, "insufficient permissions")
			c.Abort()
			return
		}

		c.Next()
	}
}
