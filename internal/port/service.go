package port

import (
	"context"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
)

// TokenPair contains both access and refresh tokens.
// TokenPair содержит пару access и refresh токенов.
type TokenPair struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// Claims represents JWT token claims containing user information.
// Claims представляет claims JWT токена, содержащие информацию о пользователе.
type Claims struct {
	UserID int64  `json:"user_id"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Principal converts the claims into the caller of a service operation.
func (c *Claims) Principal() domain.Principal {
	return domain.Principal{UserID: c.UserID, Email: c.Email, Role: c.Role}
}

// SessionIssuer produces a session for an account that passed every gate.
// SessionIssuer выдаёт сессию аккаунту, прошедшему все проверки.
type SessionIssuer interface {
	IssueSession(ctx context.Context, user *domain.User) (*TokenPair, error)
}

// AccountService drives accounts through their lifecycle.
// AccountService ведёт учётные записи по жизненному циклу.
//
// Admin-only operations take the acting principal and fail with Forbidden
// for anyone else.
// Операции администратора принимают инициатора и возвращают Forbidden
// для всех остальных.
type AccountService interface {
	Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error)
	VerifyEmail(ctx context.Context, token string) (*domain.User, error)
	ResendVerification(ctx context.Context, email string) error

	ApproveAccount(ctx context.Context, userID int64, actor domain.Principal) (*domain.User, error)
	RejectAccount(ctx context.Context, userID int64, actor domain.Principal, reason string) error
	ResendApprovalCode(ctx context.Context, userID int64, actor domain.Principal) error

	// ConfirmApprovalCode activates the account and returns a session.
	// ConfirmApprovalCode активирует аккаунт и возвращает сессию.
	ConfirmApprovalCode(ctx context.Context, email, code string) (*TokenPair, error)

	DisableAccount(ctx context.Context, userID int64, actor domain.Principal) (*domain.User, error)
	EnableAccount(ctx context.Context, userID int64, actor domain.Principal) (*domain.User, error)
	DeleteAccount(ctx context.Context, userID int64, actor domain.Principal) error

	GetProfile(ctx context.Context, userID int64) (*domain.Profile, error)
	UpdateAvatar(ctx context.Context, userID int64, upload domain.Upload) (*domain.Profile, error)
	ListOperators(ctx context.Context, filter domain.OperatorFilter) ([]domain.User, int64, error)
}

// AuthService defines the interface for authentication operations.
// AuthService определяет интерфейс для операций аутентификации.
type AuthService interface {
	SessionIssuer

	// SignIn authenticates with email and password. Accounts that are not
	// active fail with a state-specific error carrying {status, email}.
	// SignIn аутентифицирует по email и паролю. Неактивные аккаунты получают
	// ошибку конкретного состояния с {status, email}.
	SignIn(ctx context.Context, email, password string) (*TokenPair, error)

	// SignInWithGoogle verifies a Google ID token, registering unknown addresses as operators.
	// SignInWithGoogle проверяет Google ID токен и регистрирует новых пользователей как операторов.
	SignInWithGoogle(ctx context.Context, idToken string) (*TokenPair, error)

	RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error)

	// Logout revokes the refresh token and blacklists the access token, if given.
	// Logout отзывает refresh токен и блокирует access токен, если он передан.
	Logout(ctx context.Context, refreshToken, accessToken string) error

	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
	IsTokenBlacklisted(ctx context.Context, jti string) (bool, error)

	// RevokeUserSessions drops every refresh token of a user.
	RevokeUserSessions(ctx context.Context, userID int64) error
}

// TrackerService manages audits, their entries and inspection results.
// TrackerService управляет аудитами, их пунктами и результатами проверок.
type TrackerService interface {
	// GenerateEntries replaces the entries of an audit for an administrator.
	// count <= 0 picks a random size.
	// GenerateEntries заменяет пункты аудита по запросу администратора.
	// count <= 0 выбирает случайный размер.
	GenerateEntries(ctx context.Context, auditID int64, count int, actor domain.Principal) ([]domain.AuditEntry, error)

	GetExecutionView(ctx context.Context, auditID int64, user domain.Principal) (*domain.ExecutionView, error)
	SubmitResult(ctx context.Context, entryID int64, user domain.Principal, req domain.SubmitResultRequest) (*domain.InspectionResult, error)
	CompleteAudit(ctx context.Context, auditID int64, user domain.Principal) (*domain.Audit, error)
	RegenerateEntries(ctx context.Context, auditID int64, user domain.Principal) ([]domain.AuditEntry, error)

	// UpdateStatus applies pending → in_progress; completed is delegated to CompleteAudit.
	// UpdateStatus применяет pending → in_progress; completed передаётся CompleteAudit.
	UpdateStatus(ctx context.Context, auditID int64, user domain.Principal, status string) (*domain.Audit, error)
	UploadAuditImage(ctx context.Context, auditID int64, user domain.Principal, req domain.UploadAuditImageRequest) (*domain.AuditImageView, error)

	// AssignOrCreate returns the open audits of the operator, claiming or
	// creating audits when there are none.
	// AssignOrCreate возвращает открытые аудиты оператора, назначая или
	// создавая новые, если их нет.
	AssignOrCreate(ctx context.Context, operatorID int64, desiredCount int) ([]domain.Audit, error)

	ListForOperator(ctx context.Context, operatorID int64) ([]domain.AuditView, error)
	OperatorDashboard(ctx context.Context, operatorID int64) (*domain.OperatorDashboard, error)
	ProgressSeries(ctx context.Context, operatorID int64, period string) (*domain.ProgressSeries, error)

	CreateAudit(ctx context.Context, req *domain.CreateAuditRequest, actor domain.Principal) (*domain.Audit, error)
	AssignAudit(ctx context.Context, auditID, operatorID int64, actor domain.Principal) (*domain.Audit, error)
	ListUnassigned(ctx context.Context) ([]domain.AuditView, error)
	ListAll(ctx context.Context, page, pageSize int) ([]domain.AuditView, int64, error)
	AdminDashboard(ctx context.Context) (*domain.AdminDashboard, error)

	ListStandards(ctx context.Context) ([]domain.Standard, error)
	CreateStandard(ctx context.Context, req *domain.CreateStandardRequest, actor domain.Principal) (*domain.Standard, error)
}

// NotificationService sends lifecycle mail. Delivery is best effort:
// failures are logged and counted, never returned.
// NotificationService отправляет письма жизненного цикла. Доставка
// негарантированная: ошибки логируются и считаются, но не возвращаются.
type NotificationService interface {
	SendVerification(ctx context.Context, user *domain.User)
	SendApprovalCode(ctx context.Context, user *domain.User)
	SendActivated(ctx context.Context, user *domain.User)
	SendRejected(ctx context.Context, user *domain.User, reason string)
	SendDisabled(ctx context.Context, user *domain.User)
	SendEnabled(ctx context.Context, user *domain.User)
	SendDeleted(ctx context.Context, user *domain.User)
}

// AuthorizationService defines the interface for RBAC authorization operations.
// AuthorizationService определяет интерфейс для операций RBAC авторизации.
type AuthorizationService interface {
	CheckAccess(ctx context.Context, userID int64, resource, action string) (bool, error)
	AddRoleToUser(ctx context.Context, userID int64, role string) error
	RemoveRoleFromUser(ctx context.Context, userID int64, role string) error

	// RemoveUser drops every role of a deleted account.
	// RemoveUser удаляет все роли удалённого аккаунта.
	RemoveUser(ctx context.Context, userID int64) error
	GetUserRoles(ctx context.Context, userID int64) ([]string, error)
	ReloadPolicies(ctx context.Context) error
}

// ActivityService records the state-transition trail.
// ActivityService записывает журнал переходов состояний.
//
// Client address and user agent are read from the request context.
// Адрес клиента и user agent берутся из контекста запроса.
type ActivityService interface {
	Record(ctx context.Context, userID int64, action, resourceType, resourceID string, details map[string]interface{}) error
	RecordTx(ctx context.Context, tx *gorm.DB, userID int64, action, resourceType, resourceID string, details map[string]interface{}) error
	ListForUser(ctx context.Context, userID int64, limit int) ([]domain.ActivityLog, error)
	ListRecent(ctx context.Context, page, pageSize int) ([]domain.ActivityLog, int64, error)
}
