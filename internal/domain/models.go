// Package domain contains core business entities and value objects.
// Пакет domain содержит основные бизнес-сущности и объекты-значения.
package domain

import (
	"encoding/json"
	"strings"
	"time"
)

// User roles.
// Роли пользователей.
const (
	RoleAdmin    = "admin"
	RoleOperator = "operator"
)

// Authentication providers.
// Провайдеры аутентификации.
const (
	AuthProviderLocal  = "local"
	AuthProviderGoogle = "google"
)

// AccountState is the lifecycle position of an account, derived from the user flags.
// AccountState — позиция аккаунта в жизненном цикле, вычисляемая из флагов пользователя.
type AccountState string

// Account states.
// Состояния аккаунта.
const (
	StateUnverified          AccountState = "UNVERIFIED"
	StateEmailVerified       AccountState = "EMAIL_VERIFIED"
	StateApprovedPendingCode AccountState = "APPROVED_PENDING_CODE"
	StateActive              AccountState = "ACTIVE"
	StateDisabled            AccountState = "DISABLED"
)

// Activity actions recorded for every account and audit transition.
// Действия журнала активности для каждого перехода аккаунта и аудита.
const (
	ActionAccountRegister      = "account.register"
	ActionAccountVerifyEmail   = "account.verify_email"
	ActionAccountResendVerify  = "account.resend_verification"
	ActionAccountApprove       = "account.approve"
	ActionAccountReject        = "account.reject"
	ActionAccountResendCode    = "account.resend_code"
	ActionAccountConfirmCode   = "account.confirm_code"
	ActionAccountDisable       = "account.disable"
	ActionAccountEnable        = "account.enable"
	ActionAccountDelete        = "account.delete"
	ActionAccountAvatar        = "account.avatar"
	ActionAuthLoginSuccess     = "auth.login.success"
	ActionAuthLoginFailed      = "auth.login.failed"
	ActionAuthLoginLocked      = "auth.login.locked"
	ActionAuthLoginGoogle      = "auth.login.google"
	ActionAuthLogout           = "auth.logout"
	ActionAuditGenerateEntries = "audit.generate_entries"
	ActionAuditSubmitResult    = "audit.submit_result"
	ActionAuditComplete        = "audit.complete"
	ActionAuditAutoComplete    = "audit.auto_complete"
	ActionAuditAssign          = "audit.assign"
	ActionAuditCreate          = "audit.create"
	ActionAuditAssignOrCreate  = "audit.assign_or_create"
	ActionAuditStatus          = "audit.status"
	ActionAuditUploadImage     = "audit.upload_image"
	ActionStandardCreate       = "standard.create"
)

// Activity resource types.
// Типы ресурсов журнала активности.
const (
	ResourceUser     = "user"
	ResourceAuth     = "auth"
	ResourceAudit    = "audit"
	ResourceEntry    = "audit_entry"
	ResourceStandard = "standard"
)

// User is an account of the system: an administrator or an operator who executes audits.
// User — учётная запись системы: администратор или оператор, выполняющий аудиты.
//
// An operator moves through UNVERIFIED, EMAIL_VERIFIED and APPROVED_PENDING_CODE
// before becoming ACTIVE. IsActive stays false until the approval code is confirmed;
// ActivatedAt records the first confirmation and separates DISABLED from
// APPROVED_PENDING_CODE.
//
// Оператор проходит состояния UNVERIFIED, EMAIL_VERIFIED и APPROVED_PENDING_CODE,
// прежде чем стать ACTIVE. IsActive остаётся false до подтверждения кода;
// ActivatedAt фиксирует первое подтверждение и отличает DISABLED от APPROVED_PENDING_CODE.
type User struct {
	ID                      int64      `gorm:"primaryKey" json:"id"`
	Email                   string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash            string     `gorm:"not null" json:"-"`
	FirstName               string     `gorm:"type:varchar(100)" json:"first_name"`
	LastName                string     `gorm:"type:varchar(100)" json:"last_name"`
	Role                    string     `gorm:"type:varchar(20);not null;default:'operator';index" json:"role"`
	IsActive                bool       `gorm:"not null;default:false" json:"is_active"`
	EmailVerified           bool       `gorm:"not null;default:false" json:"email_verified"`
	EmailVerificationToken  *string    `gorm:"type:varchar(64);uniqueIndex" json:"-"`
	EmailVerificationSentAt *time.Time `json:"-"`
	AdminApproved           bool       `gorm:"not null;default:false" json:"admin_approved"`
	ApprovalCode            *string    `gorm:"type:varchar(10)" json:"-"`
	ApprovalCodeSentAt      *time.Time `json:"-"`
	ActivatedAt             *time.Time `json:"activated_at,omitempty"`
	AuthProvider            string     `gorm:"type:varchar(20);not null;default:'local'" json:"auth_provider"`
	AvatarKey               string     `gorm:"type:varchar(255)" json:"-"`
	LastLoginAt             *time.Time `json:"last_login_at,omitempty"`
	CreatedAt               time.Time  `gorm:"not null" json:"created_at"`
	UpdatedAt               time.Time  `gorm:"not null" json:"updated_at"`
}

// TableName returns the database table name for User entity.
// TableName возвращает имя таблицы в базе данных для сущности User.
func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the administrator role.
func (u *User) IsAdmin() bool { return u.Role == RoleAdmin }

// IsOperator reports whether the user holds the operator role.
func (u *User) IsOperator() bool { return u.Role == RoleOperator }

// FullName joins first and last name.
func (u *User) FullName() string {
	return strings.TrimSpace(u.FirstName + " " + u.LastName)
}

// State derives the lifecycle state from the stored flags.
// State вычисляет состояние жизненного цикла из сохранённых флагов.
func (u *User) State() AccountState {
	if u.IsAdmin() {
		if u.IsActive {
			return StateActive
		}
		return StateDisabled
	}
	switch {
	case !u.EmailVerified:
		return StateUnverified
	case !u.AdminApproved:
		return StateEmailVerified
	case u.ActivatedAt == nil:
		return StateApprovedPendingCode
	case u.IsActive:
		return StateActive
	default:
		return StateDisabled
	}
}

// NormalizeEmail lower-cases and trims an address before every write and lookup.
// NormalizeEmail приводит адрес к нижнему регистру и обрезает пробелы.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// ActivityLog is one entry of the state-transition trail.
// ActivityLog — запись журнала переходов состояний.
//
// Rows are written in the same transaction as the transition they describe.
// Записи создаются в той же транзакции, что и описываемый переход.
type ActivityLog struct {
	ID           int64           `gorm:"primaryKey" json:"id"`
	UserID       int64           `gorm:"not null;index:idx_activity_user" json:"user_id"`
	Action       string          `gorm:"type:varchar(100);not null" json:"action"`
	ResourceType string          `gorm:"type:varchar(50)" json:"resource_type"`
	ResourceID   string          `gorm:"type:varchar(50)" json:"resource_id"`
	Details      json.RawMessage `gorm:"type:jsonb" json:"details,omitempty"`
	IPAddress    *string         `gorm:"type:varchar(64)" json:"ip_address,omitempty"`
	UserAgent    *string         `gorm:"type:text" json:"user_agent,omitempty"`
	CreatedAt    time.Time       `gorm:"not null;index:idx_activity_created" json:"created_at"`
}

// TableName returns the database table name for ActivityLog entity.
func (ActivityLog) TableName() string {
	return "activity_logs"
}

// Principal is the authenticated caller of an operation.
// Principal — аутентифицированный инициатор операции.
type Principal struct {
	UserID int64
	Email  string
	Role   string
}

// IsAdmin reports whether the principal acts as administrator.
func (p Principal) IsAdmin() bool { return p.Role == RoleAdmin }

// Session describes one active refresh token of a user.
// Session описывает активный refresh токен пользователя.
type Session struct {
	ID        string    `json:"id"`
	TokenID   string    `json:"-"`
	ExpiresAt time.Time `json:"expires_at"`
}
