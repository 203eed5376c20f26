package service

import (
	"context"
	"crypto/rand"
	"crypto/subtle"
	"math/big"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/adapter/storage"
	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/telemetry"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/validator"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// SessionManager issues and revokes sessions on behalf of the account lifecycle.
// SessionManager выдаёт и отзывает сессии для жизненного цикла аккаунта.
type SessionManager interface {
	port.SessionIssuer
	RevokeUserSessions(ctx context.Context, userID int64) error
}

// AccountServiceConfig holds the lifecycle settings of AccountService.
// AccountServiceConfig содержит настройки жизненного цикла AccountService.
type AccountServiceConfig struct {
	VerificationTTL  time.Duration            // Validity of the email link / Срок действия ссылки
	ApprovalCodeTTL  time.Duration            // Validity of the activation code, 0 disables / Срок действия кода, 0 отключает
	AllowAdminSignup bool                     // Self-registration as admin / Саморегистрация администратора
	ResendPerHour    int                      // Verification resends per address and hour / Повторов письма в час на адрес
	CodeDigits       int                      // Length of the activation code / Длина кода активации
	PresignExpiry    time.Duration            // Lifetime of avatar links / Время жизни ссылок на аватар
	MaxAvatarSize    int64                    // Upload limit in bytes / Лимит загрузки в байтах
	Password         validator.PasswordPolicy // Password policy / Политика паролей
}

// DefaultAccountServiceConfig returns default configuration.
// DefaultAccountServiceConfig возвращает конфигурацию по умолчанию.
func DefaultAccountServiceConfig() AccountServiceConfig {
	return AccountServiceConfig{
		VerificationTTL:  24 * time.Hour,
		ApprovalCodeTTL:  48 * time.Hour,
		AllowAdminSignup: true,
		ResendPerHour:    3,
		CodeDigits:       6,
		PresignExpiry:    15 * time.Minute,
		MaxAvatarSize:    5 << 20,
		Password:         validator.DefaultPasswordPolicy(),
	}
}

// AccountDeps groups the collaborators of AccountService.
// AccountDeps группирует зависимости AccountService.
type AccountDeps struct {
	Users    port.UserRepository
	Audits   port.AuditRepository
	Tx       port.Transaction
	Authz    port.AuthorizationService
	Activity port.ActivityService
	Notify   port.NotificationService
	Sessions SessionManager
	Storage  port.ObjectStorage // may be nil / может быть nil
	Throttle port.Throttle      // may be nil / может быть nil
}

// AccountService implements port.AccountService.
// AccountService реализует интерфейс port.AccountService.
//
// Every transition runs in one transaction that locks the user row and writes
// the activity row. Mail goes out after commit and never fails the operation.
// Каждый переход выполняется в одной транзакции с блокировкой строки
// пользователя и записью журнала. Письма уходят после коммита и не влияют
// на результат операции.
type AccountService struct {
	users    port.UserRepository
	audits   port.AuditRepository
	tx       port.Transaction
	authz    port.AuthorizationService
	activity port.ActivityService
	notify   port.NotificationService
	sessions SessionManager
	storage  port.ObjectStorage
	throttle port.Throttle
	cfg      AccountServiceConfig
	now      func() time.Time
	logger   *logger.Logger
}

// NewAccountService creates a new AccountService instance.
// NewAccountService создаёт новый экземпляр AccountService.
func NewAccountService(deps AccountDeps, cfg AccountServiceConfig, log *logger.Logger) *AccountService {
	defaults := DefaultAccountServiceConfig()
	if cfg.VerificationTTL <= 0 {
		cfg.VerificationTTL = defaults.VerificationTTL
	}
	if cfg.CodeDigits <= 0 {
		cfg.CodeDigits = defaults.CodeDigits
	}
	if cfg.PresignExpiry <= 0 {
		cfg.PresignExpiry = defaults.PresignExpiry
	}
	if cfg.MaxAvatarSize <= 0 {
		cfg.MaxAvatarSize = defaults.MaxAvatarSize
	}

	return &AccountService{
		users:    deps.Users,
		audits:   deps.Audits,
		tx:       deps.Tx,
		authz:    deps.Authz,
		activity: deps.Activity,
		notify:   deps.Notify,
		sessions: deps.Sessions,
		storage:  deps.Storage,
		throttle: deps.Throttle,
		cfg:      cfg,
		now:      func() time.Time { return time.Now().UTC() },
		logger:   log.WithComponent("account_service"),
	}
}

func requireAdmin(actor domain.Principal) error {
	if !actor.IsAdmin() {
		return apperror.Forbidden("administrator role required")
	}
	return nil
}

func userRef(id int64) string { return strconv.FormatInt(id, 10) }

// transitioned logs and counts a committed lifecycle transition.
func (s *AccountService) transitioned(ctx context.Context, action string, user *domain.User, from domain.AccountState) {
	accountTransitionsTotal.WithLabelValues(action).Inc()
	s.logger.WithContext(ctx).LogTransition(action, domain.ResourceUser, user.ID, string(from), string(user.State()))
}

// Register creates a local account.
// Register создаёт локальную учётную запись.
//
// Operators start UNVERIFIED and receive a verification link. Administrators
// are created verified, approved and active.
// Операторы начинают с UNVERIFIED и получают ссылку подтверждения.
// Администраторы создаются подтверждёнными, одобренными и активными.
func (s *AccountService) Register(ctx context.Context, req *domain.RegisterRequest) (*domain.User, error) {
	email := domain.NormalizeEmail(req.Email)
	ctx, span := telemetry.StartSpan(ctx, "account", "Register", telemetry.AttrEmail.String(email))
	defer span.End()
	log := s.logger.WithContext(ctx)

	role := req.Role
	if role == "" {
		role = domain.RoleOperator
	}
	if role != domain.RoleOperator && role != domain.RoleAdmin {
		return nil, apperror.ValidationError("unknown role", map[string]interface{}{"role": role})
	}
	if role == domain.RoleAdmin && !s.cfg.AllowAdminSignup {
		return nil, apperror.Forbidden("administrator sign-up is disabled")
	}

	if problems := s.cfg.Password.Check(req.Password); len(problems) > 0 {
		return nil, apperror.InvalidCredential(problems)
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}
	if exists {
		return nil, apperror.DuplicateIdentity(email)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		log.Error("failed to hash password", "error", err)
		return nil, apperror.Internal("failed to hash password", err)
	}

	now := s.now()
	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		FirstName:    strings.TrimSpace(req.FirstName),
		LastName:     strings.TrimSpace(req.LastName),
		Role:         role,
		AuthProvider: domain.AuthProviderLocal,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if role == domain.RoleAdmin {
		user.EmailVerified = true
		user.AdminApproved = true
		user.IsActive = true
		user.ActivatedAt = &now
	} else {
		token := uuid.NewString()
		user.EmailVerificationToken = &token
		user.EmailVerificationSentAt = &now
	}

	err = s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.users.CreateTx(ctx, tx, user); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, user.ID, domain.ActionAccountRegister, domain.ResourceUser, userRef(user.ID),
			map[string]interface{}{"role": role, "provider": domain.AuthProviderLocal})
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	// Role is granted after commit; a failed grant removes the account again
	// Роль назначается после коммита; при ошибке аккаунт удаляется
	if err := s.authz.AddRoleToUser(ctx, user.ID, role); err != nil {
		log.Error("failed to assign role, removing account", "user_id", user.ID, "error", err)
		cleanupErr := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
			return s.users.DeleteTx(ctx, tx, user.ID)
		})
		if cleanupErr != nil {
			log.Error("CRITICAL: failed to remove account after role assignment failure", "user_id", user.ID, "error", cleanupErr)
		}
		return nil, apperror.Internal("failed to assign role, registration rolled back", err)
	}

	s.transitioned(ctx, domain.ActionAccountRegister, user, "")
	if role == domain.RoleOperator {
		s.notify.SendVerification(ctx, user)
	}
	return user, nil
}

// VerifyEmail proves the mailbox of the holder of token. It does not activate the account.
// VerifyEmail подтверждает почтовый ящик владельца токена. Аккаунт не активируется.
func (s *AccountService) VerifyEmail(ctx context.Context, token string) (*domain.User, error) {
	ctx, span := telemetry.StartSpan(ctx, "account", "VerifyEmail")
	defer span.End()

	token = strings.TrimSpace(token)
	if token == "" {
		return nil, apperror.InvalidToken()
	}

	var (
		user *domain.User
		from domain.AccountState
	)
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = s.users.FindByVerificationTokenForUpdate(ctx, tx, token)
		if err != nil {
			if apperror.HasCode(err, apperror.CodeNotFound) {
				return apperror.InvalidToken()
			}
			return err
		}

		now := s.now()
		if user.EmailVerificationSentAt == nil || now.Sub(*user.EmailVerificationSentAt) > s.cfg.VerificationTTL {
			return apperror.ExpiredToken("verification link")
		}

		from = user.State()
		user.EmailVerified = true
		user.EmailVerificationToken = nil
		user.EmailVerificationSentAt = nil
		user.UpdatedAt = now
		if err := s.users.UpdateTx(ctx, tx, user); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, user.ID, domain.ActionAccountVerifyEmail, domain.ResourceUser, userRef(user.ID), nil)
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	s.transitioned(ctx, domain.ActionAccountVerifyEmail, user, from)
	return user, nil
}

// ResendVerification issues a fresh verification link. Throttled per address.
// ResendVerification выдаёт новую ссылку подтверждения. Ограничено по адресу.
func (s *AccountService) ResendVerification(ctx context.Context, email string) error {
	email = domain.NormalizeEmail(email)
	ctx, span := telemetry.StartSpan(ctx, "account", "ResendVerification", telemetry.AttrEmail.String(email))
	defer span.End()
	log := s.logger.WithContext(ctx)

	if s.throttle != nil && s.cfg.ResendPerHour > 0 {
		res, err := s.throttle.Allow(ctx, "resend_verification:"+email, s.cfg.ResendPerHour, time.Hour)
		switch {
		case err != nil:
			log.Warn("resend throttle unavailable", "email", email, "error", err)
		case !res.Allowed:
			return apperror.TooManyRequests("too many verification mails requested, try again later", int(res.RetryAfter.Seconds()))
		}
	}

	var user *domain.User
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = s.users.FindByEmailForUpdate(ctx, tx, email)
		if err != nil {
			return err
		}
		if user.EmailVerified {
			return apperror.PreconditionFailed("email address is already verified")
		}

		now := s.now()
		token := uuid.NewString()
		user.EmailVerificationToken = &token
		user.EmailVerificationSentAt = &now
		user.UpdatedAt = now
		if err := s.users.UpdateTx(ctx, tx, user); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, user.ID, domain.ActionAccountResendVerify, domain.ResourceUser, userRef(user.ID), nil)
	})
	if err != nil {
		telemetry.End(span, err)
		return err
	}

	accountTransitionsTotal.WithLabelValues(domain.ActionAccountResendVerify).Inc()
	s.notify.SendVerification(ctx, user)
	return nil
}

// ApproveAccount approves an email-verified operator and mails a fresh activation code.
// ApproveAccount одобряет оператора с подтверждённым email и отправляет новый код.
func (s *AccountService) ApproveAccount(ctx context.Context, userID int64, actor domain.Principal) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartSpan(ctx, "account", "ApproveAccount", telemetry.AttrUserID.Int64(userID))
	defer span.End()

	var (
		user *domain.User
		from domain.AccountState
	)
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = s.lockOperator(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !user.EmailVerified {
			return apperror.PreconditionFailed("email address is not verified yet")
		}
		if user.ActivatedAt != nil {
			return apperror.PreconditionFailed("account is already activated")
		}

		from = user.State()
		if err := s.issueCode(user); err != nil {
			return err
		}
		user.AdminApproved = true
		if err := s.users.UpdateTx(ctx, tx, user); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, actor.UserID, domain.ActionAccountApprove, domain.ResourceUser, userRef(user.ID), nil)
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	s.transitioned(ctx, domain.ActionAccountApprove, user, from)
	s.notify.SendApprovalCode(ctx, user)
	return user, nil
}

// RejectAccount mails the reason and deletes the operator.
// RejectAccount отправляет причину и удаляет оператора.
func (s *AccountService) RejectAccount(ctx context.Context, userID int64, actor domain.Principal, reason string) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ctx, span := telemetry.StartSpan(ctx, "account", "RejectAccount", telemetry.AttrUserID.Int64(userID))
	defer span.End()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}
	if !user.IsOperator() {
		return apperror.NotFound("operator", userID)
	}

	s.notify.SendRejected(ctx, user, reason)
	if err := s.removeAccount(ctx, user, actor, domain.ActionAccountReject, map[string]interface{}{
		"email":  user.Email,
		"reason": reason,
	}); err != nil {
		telemetry.End(span, err)
		return err
	}
	return nil
}

// ResendApprovalCode replaces the activation code of an approved operator and mails it.
// ResendApprovalCode заменяет код активации одобренного оператора и отправляет его.
func (s *AccountService) ResendApprovalCode(ctx context.Context, userID int64, actor domain.Principal) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	ctx, span := telemetry.StartSpan(ctx, "account", "ResendApprovalCode", telemetry.AttrUserID.Int64(userID))
	defer span.End()

	var user *domain.User
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = s.lockOperator(ctx, tx, userID)
		if err != nil {
			return err
		}
		if !user.AdminApproved {
			return apperror.PreconditionFailed("account is not approved yet")
		}
		if user.ActivatedAt != nil {
			return apperror.PreconditionFailed("account is already activated")
		}
		if err := s.issueCode(user); err != nil {
			return err
		}
		if err := s.users.UpdateTx(ctx, tx, user); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, actor.UserID, domain.ActionAccountResendCode, domain.ResourceUser, userRef(user.ID), nil)
	})
	if err != nil {
		telemetry.End(span, err)
		return err
	}

	accountTransitionsTotal.WithLabelValues(domain.ActionAccountResendCode).Inc()
	s.notify.SendApprovalCode(ctx, user)
	return nil
}

// ConfirmApprovalCode activates an approved operator and signs them in.
// Confirming again once active returns a new session and changes nothing.
// ConfirmApprovalCode активирует одобренного оператора и выполняет вход.
// Повторное подтверждение активного аккаунта только выдаёт новую сессию.
func (s *AccountService) ConfirmApprovalCode(ctx context.Context, email, code string) (*port.TokenPair, error) {
	email = domain.NormalizeEmail(email)
	ctx, span := telemetry.StartSpan(ctx, "account", "ConfirmApprovalCode", telemetry.AttrEmail.String(email))
	defer span.End()

	code = strings.TrimSpace(code)

	var (
		user      *domain.User
		from      domain.AccountState
		activated bool
	)
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = s.users.FindByEmailForUpdate(ctx, tx, email)
		if err != nil {
			return err
		}
		if user.ApprovalCode == nil || subtle.ConstantTimeCompare([]byte(*user.ApprovalCode), []byte(code)) != 1 {
			return apperror.CodeMismatch()
		}
		if !user.AdminApproved {
			return apperror.PreconditionFailed("account is not approved yet")
		}

		from = user.State()
		switch from {
		case domain.StateActive:
			return nil
		case domain.StateDisabled:
			return apperror.PreconditionFailed("account is disabled")
		}

		now := s.now()
		if s.cfg.ApprovalCodeTTL > 0 && user.ApprovalCodeSentAt != nil && now.Sub(*user.ApprovalCodeSentAt) > s.cfg.ApprovalCodeTTL {
			return apperror.ExpiredToken("activation code")
		}

		user.IsActive = true
		user.ActivatedAt = &now
		user.UpdatedAt = now
		activated = true
		if err := s.users.UpdateTx(ctx, tx, user); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, user.ID, domain.ActionAccountConfirmCode, domain.ResourceUser, userRef(user.ID), nil)
	})
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	if activated {
		s.transitioned(ctx, domain.ActionAccountConfirmCode, user, from)
		s.notify.SendActivated(ctx, user)
	}

	tokens, err := s.sessions.IssueSession(ctx, user)
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}
	return tokens, nil
}

// DisableAccount deactivates an account and revokes its sessions.
// Verification and approval state are kept. A disabled account is returned
// unchanged; operators that never activated must be rejected instead.
// DisableAccount деактивирует аккаунт и отзывает его сессии.
// Состояние подтверждения и одобрения сохраняется. Отключённый аккаунт
// возвращается без изменений; неактивированных операторов нужно отклонять.
func (s *AccountService) DisableAccount(ctx context.Context, userID int64, actor domain.Principal) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	if userID == actor.UserID {
		return nil, apperror.PreconditionFailed("administrators cannot disable themselves")
	}
	ctx, span := telemetry.StartSpan(ctx, "account", "DisableAccount", telemetry.AttrUserID.Int64(userID))
	defer span.End()

	user, from, changed, err := s.setActive(ctx, userID, actor, false)
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}
	if !changed {
		return user, nil
	}

	if err := s.sessions.RevokeUserSessions(ctx, user.ID); err != nil {
		s.logger.WithContext(ctx).Warn("sessions of disabled account not revoked", "user_id", user.ID, "error", err)
	}
	s.transitioned(ctx, domain.ActionAccountDisable, user, from)
	s.notify.SendDisabled(ctx, user)
	return user, nil
}

// EnableAccount reactivates a disabled account. Accounts that never confirmed
// their activation code cannot be enabled.
// EnableAccount повторно активирует отключённый аккаунт. Аккаунты, не
// подтвердившие код активации, включить нельзя.
func (s *AccountService) EnableAccount(ctx context.Context, userID int64, actor domain.Principal) (*domain.User, error) {
	if err := requireAdmin(actor); err != nil {
		return nil, err
	}
	ctx, span := telemetry.StartSpan(ctx, "account", "EnableAccount", telemetry.AttrUserID.Int64(userID))
	defer span.End()

	user, from, _, err := s.setActive(ctx, userID, actor, true)
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	s.transitioned(ctx, domain.ActionAccountEnable, user, from)
	s.notify.SendEnabled(ctx, user)
	return user, nil
}

// setActive switches is_active under the row lock. Disabling a disabled
// account changes nothing and reports changed=false.
// setActive переключает is_active под блокировкой строки. Отключение уже
// отключённого аккаунта ничего не меняет и возвращает changed=false.
func (s *AccountService) setActive(ctx context.Context, userID int64, actor domain.Principal, active bool) (*domain.User, domain.AccountState, bool, error) {
	action := domain.ActionAccountDisable
	if active {
		action = domain.ActionAccountEnable
	}

	var (
		user    *domain.User
		from    domain.AccountState
		changed bool
	)
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		var err error
		user, err = s.users.FindByIDForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}

		neverActivated := user.IsOperator() && user.ActivatedAt == nil
		switch {
		case active && user.IsActive:
			return apperror.PreconditionFailed("account is already active")
		case neverActivated && active:
			return apperror.PreconditionFailed("account was never activated, the activation code is required")
		case neverActivated:
			return apperror.PreconditionFailed("account is not activated yet (" + string(user.State()) + "), reject it instead")
		case !active && !user.IsActive:
			return nil
		}

		from = user.State()
		user.IsActive = active
		user.UpdatedAt = s.now()
		if err := s.users.UpdateTx(ctx, tx, user); err != nil {
			return err
		}
		changed = true
		return s.activity.RecordTx(ctx, tx, actor.UserID, action, domain.ResourceUser, userRef(user.ID), nil)
	})
	if err != nil {
		return nil, "", false, err
	}
	return user, from, changed, nil
}

// DeleteAccount mails the user and deletes the account. Assigned audits are released.
// DeleteAccount уведомляет пользователя и удаляет аккаунт. Назначенные аудиты освобождаются.
func (s *AccountService) DeleteAccount(ctx context.Context, userID int64, actor domain.Principal) error {
	if err := requireAdmin(actor); err != nil {
		return err
	}
	if userID == actor.UserID {
		return apperror.PreconditionFailed("administrators cannot delete themselves")
	}
	ctx, span := telemetry.StartSpan(ctx, "account", "DeleteAccount", telemetry.AttrUserID.Int64(userID))
	defer span.End()

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	s.notify.SendDeleted(ctx, user)
	if err := s.removeAccount(ctx, user, actor, domain.ActionAccountDelete, map[string]interface{}{
		"email": user.Email,
		"role":  user.Role,
	}); err != nil {
		telemetry.End(span, err)
		return err
	}
	return nil
}

// removeAccount hard-deletes the user, then drops roles, sessions and the avatar.
func (s *AccountService) removeAccount(ctx context.Context, user *domain.User, actor domain.Principal, action string, details map[string]interface{}) error {
	log := s.logger.WithContext(ctx)
	from := user.State()

	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if _, err := s.users.FindByIDForUpdate(ctx, tx, user.ID); err != nil {
			return err
		}
		if err := s.audits.UnassignUserTx(ctx, tx, user.ID); err != nil {
			return err
		}
		if err := s.users.DeleteTx(ctx, tx, user.ID); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, actor.UserID, action, domain.ResourceUser, userRef(user.ID), details)
	})
	if err != nil {
		return err
	}

	if err := s.authz.RemoveUser(ctx, user.ID); err != nil {
		log.Warn("roles of removed account not cleared", "user_id", user.ID, "error", err)
	}
	if err := s.sessions.RevokeUserSessions(ctx, user.ID); err != nil {
		log.Warn("sessions of removed account not revoked", "user_id", user.ID, "error", err)
	}
	if user.AvatarKey != "" && s.storage != nil {
		if err := s.storage.Delete(ctx, user.AvatarKey); err != nil {
			log.Warn("avatar of removed account not deleted", "user_id", user.ID, "key", user.AvatarKey, "error", err)
		}
	}

	accountTransitionsTotal.WithLabelValues(action).Inc()
	log.LogTransition(action, domain.ResourceUser, user.ID, string(from), "DELETED")
	return nil
}

// lockOperator locks the row of an operator. Other roles read as not found.
func (s *AccountService) lockOperator(ctx context.Context, tx *gorm.DB, userID int64) (*domain.User, error) {
	user, err := s.users.FindByIDForUpdate(ctx, tx, userID)
	if err != nil {
		return nil, err
	}
	if !user.IsOperator() {
		return nil, apperror.NotFound("operator", userID)
	}
	return user, nil
}

// issueCode stores a fresh activation code on user.
func (s *AccountService) issueCode(user *domain.User) error {
	code, err := GenerateApprovalCode(s.cfg.CodeDigits)
	if err != nil {
		return apperror.Internal("failed to generate activation code", err)
	}
	now := s.now()
	user.ApprovalCode = &code
	user.ApprovalCodeSentAt = &now
	user.UpdatedAt = now
	return nil
}

// GenerateApprovalCode returns n uniformly random decimal digits.
// GenerateApprovalCode возвращает n случайных десятичных цифр.
func GenerateApprovalCode(n int) (string, error) {
	var b strings.Builder
	b.Grow(n)
	ten := big.NewInt(10)
	for i := 0; i < n; i++ {
		d, err := rand.Int(rand.Reader, ten)
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + d.Int64()))
	}
	return b.String(), nil
}

// GetProfile returns the account with its state and a temporary avatar link.
// GetProfile возвращает аккаунт с состоянием и временной ссылкой на аватар.
func (s *AccountService) GetProfile(ctx context.Context, userID int64) (*domain.Profile, error) {
	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	profile := &domain.Profile{User: *user, State: user.State()}
	if user.AvatarKey != "" && s.storage != nil {
		url, err := s.storage.PresignGet(ctx, user.AvatarKey, s.cfg.PresignExpiry)
		if err != nil {
			s.logger.WithContext(ctx).Warn("failed to presign avatar", "user_id", userID, "error", err)
		} else {
			profile.AvatarURL = url
		}
	}
	return profile, nil
}

// UpdateAvatar stores a new avatar image. The previous object is deleted best effort.
// UpdateAvatar сохраняет новый аватар. Предыдущий объект удаляется по возможности.
func (s *AccountService) UpdateAvatar(ctx context.Context, userID int64, upload domain.Upload) (*domain.Profile, error) {
	if s.storage == nil {
		return nil, apperror.ServiceUnavailable("object storage is not configured")
	}
	if err := s.checkImage(upload); err != nil {
		return nil, err
	}
	log := s.logger.WithContext(ctx)

	key := storage.NewObjectKey(storage.PrefixAvatars, userID, upload.Filename)
	if err := s.storage.Put(ctx, key, upload.ContentType, upload.Size, upload.Body); err != nil {
		log.Error("failed to upload avatar", "user_id", userID, "error", err)
		return nil, apperror.Internal("failed to store avatar", err)
	}

	var previous string
	err := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		user, err := s.users.FindByIDForUpdate(ctx, tx, userID)
		if err != nil {
			return err
		}
		previous = user.AvatarKey
		user.AvatarKey = key
		user.UpdatedAt = s.now()
		if err := s.users.UpdateTx(ctx, tx, user); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, userID, domain.ActionAccountAvatar, domain.ResourceUser, userRef(userID),
			map[string]interface{}{"size": upload.Size, "content_type": upload.ContentType})
	})
	if err != nil {
		if delErr := s.storage.Delete(ctx, key); delErr != nil {
			log.Warn("orphaned avatar object", "key", key, "error", delErr)
		}
		return nil, err
	}

	if previous != "" {
		if err := s.storage.Delete(ctx, previous); err != nil {
			log.Warn("previous avatar not deleted", "key", previous, "error", err)
		}
	}
	return s.GetProfile(ctx, userID)
}

func (s *AccountService) checkImage(upload domain.Upload) error {
	if upload.Body == nil || upload.Size <= 0 {
		return apperror.ValidationError("file is empty", map[string]interface{}{"file": "required"})
	}
	if upload.Size > s.cfg.MaxAvatarSize {
		return apperror.ValidationError("file is too large", map[string]interface{}{"max_bytes": s.cfg.MaxAvatarSize})
	}
	if !strings.HasPrefix(upload.ContentType, "image/") {
		return apperror.ValidationError("only images are accepted", map[string]interface{}{"content_type": upload.ContentType})
	}
	return nil
}

var operatorFilters = map[string]bool{
	"": true, "all": true, "unverified": true, "pending": true, "awaiting_code": true, "active": true, "disabled": true,
}

// ListOperators returns operators filtered by lifecycle state.
// ListOperators возвращает операторов с фильтром по состоянию.
func (s *AccountService) ListOperators(ctx context.Context, filter domain.OperatorFilter) ([]domain.User, int64, error) {
	if !operatorFilters[filter.Status] {
		return nil, 0, apperror.ValidationError("unknown status filter", map[string]interface{}{"status": filter.Status})
	}
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize > maxActivityPageSize {
		filter.PageSize = maxActivityPageSize
	}
	return s.users.ListOperators(ctx, filter)
}

var _ port.AccountService = (*AccountService)(nil)
