// Package service contains the business logic layer of the application.
// Пакет service содержит слой бизнес-логики приложения.
//
// Services implement the business rules and orchestrate operations
// between repositories and other components.
// Сервисы реализуют бизнес-правила и координируют операции
// между репозиториями и другими компонентами.
package service

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"encoding/hex"
	"encoding/pem"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/telemetry"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// AuthService implements port.AuthService interface.
// AuthService реализует интерфейс port.AuthService.
//
// Sessions are RS256 access tokens paired with opaque refresh tokens kept in
// Redis. Only ACTIVE accounts receive a session.
// Сессия — это access токен RS256 и непрозрачный refresh токен в Redis.
// Сессию получают только аккаунты в состоянии ACTIVE.
type AuthService struct {
	users            port.UserRepository       // User repository / Репозиторий пользователей
	tx               port.Transaction          // Transaction manager / Менеджер транзакций
	authz            port.AuthorizationService // Role management / Управление ролями
	activity         port.ActivityService      // Activity trail / Журнал активности
	refreshCache     port.RefreshTokenCache    // Refresh tokens / Refresh токены
	tokenCache       port.TokenCache           // Access token blacklist / Чёрный список access токенов
	rateLimitCache   port.RateLimitCache       // Failed sign-in counters / Счётчики неудачных входов
	google           port.GoogleVerifier       // Google ID token verifier, nil when disabled / Верификатор Google, nil если отключён
	privateKey       *rsa.PrivateKey           // RSA private key for signing / Приватный RSA ключ для подписи
	publicKey        *rsa.PublicKey            // RSA public key for verification / Публичный RSA ключ для проверки
	issuer           string                    // Token issuer / Издатель токенов
	tokenTTL         time.Duration             // Access token time-to-live / Время жизни access токена
	refreshTTL       time.Duration             // Refresh token time-to-live / Время жизни refresh токена
	maxLoginAttempts int                       // Max failed sign-ins before lockout / Макс. неудачных входов до блокировки
	lockoutDuration  time.Duration             // Duration of the lockout / Длительность блокировки
	now              func() time.Time
	logger           *logger.Logger
}

// AuthServiceConfig holds configuration for AuthService.
// AuthServiceConfig содержит конфигурацию для AuthService.
type AuthServiceConfig struct {
	PrivateKeyPath   string        // Path to RSA private key PEM file / Путь к файлу приватного RSA ключа
	PublicKeyPath    string        // Path to RSA public key PEM file / Путь к файлу публичного RSA ключа
	Issuer           string        // Token issuer / Издатель токенов
	TokenTTL         time.Duration // Access token TTL / TTL access токена
	RefreshTTL       time.Duration // Refresh token TTL / TTL refresh токена
	MaxLoginAttempts int           // Max failed sign-ins before lockout / Макс. неудачных входов до блокировки
	LockoutDuration  time.Duration // Duration of the lockout / Длительность блокировки
	DevMode          bool          // Generate keys when the files are missing / Генерировать ключи при отсутствии файлов
}

// DefaultAuthServiceConfig returns default configuration.
// DefaultAuthServiceConfig возвращает конфигурацию по умолчанию.
func DefaultAuthServiceConfig() AuthServiceConfig {
	return AuthServiceConfig{
		PrivateKeyPath:   "configs/keys/private.pem",
		PublicKeyPath:    "configs/keys/public.pem",
		Issuer:           "audit-tracker",
		TokenTTL:         15 * time.Minute,   // 15 minutes / 15 минут
		RefreshTTL:       7 * 24 * time.Hour, // 7 days / 7 дней
		MaxLoginAttempts: 5,                  // 5 attempts / 5 попыток
		LockoutDuration:  15 * time.Minute,   // 15 minutes / 15 минут
		DevMode:          true,
	}
}

// AuthDeps groups the collaborators of AuthService.
// AuthDeps группирует зависимости AuthService.
type AuthDeps struct {
	Users          port.UserRepository
	Tx             port.Transaction
	Authz          port.AuthorizationService
	Activity       port.ActivityService
	RefreshCache   port.RefreshTokenCache
	TokenCache     port.TokenCache
	RateLimitCache port.RateLimitCache
	Google         port.GoogleVerifier
}

// NewAuthService creates a new AuthService instance.
// NewAuthService создаёт новый экземпляр AuthService.
// Loads RSA key pair from PEM files, or generates them in dev mode.
// Загружает пару RSA ключей из PEM файлов или генерирует их в режиме разработки.
func NewAuthService(deps AuthDeps, config AuthServiceConfig, log *logger.Logger) (*AuthService, error) {
	componentLog := log.WithComponent("auth_service")

	privateKey, publicKey, err := loadOrGenerateKeys(config, componentLog)
	if err != nil {
		return nil, err
	}

	defaults := DefaultAuthServiceConfig()
	if config.TokenTTL <= 0 {
		config.TokenTTL = defaults.TokenTTL
	}
	if config.RefreshTTL <= 0 {
		config.RefreshTTL = defaults.RefreshTTL
	}
	if config.MaxLoginAttempts <= 0 {
		config.MaxLoginAttempts = defaults.MaxLoginAttempts
	}
	if config.LockoutDuration <= 0 {
		config.LockoutDuration = defaults.LockoutDuration
	}
	if config.Issuer == "" {
		config.Issuer = defaults.Issuer
	}

	return &AuthService{
		users:            deps.Users,
		tx:               deps.Tx,
		authz:            deps.Authz,
		activity:         deps.Activity,
		refreshCache:     deps.RefreshCache,
		tokenCache:       deps.TokenCache,
		rateLimitCache:   deps.RateLimitCache,
		google:           deps.Google,
		privateKey:       privateKey,
		publicKey:        publicKey,
		issuer:           config.Issuer,
		tokenTTL:         config.TokenTTL,
		refreshTTL:       config.RefreshTTL,
		maxLoginAttempts: config.MaxLoginAttempts,
		lockoutDuration:  config.LockoutDuration,
		now:              func() time.Time { return time.Now().UTC() },
		logger:           componentLog,
	}, nil
}

func loadOrGenerateKeys(config AuthServiceConfig, log *logger.Logger) (*rsa.PrivateKey, *rsa.PublicKey, error) {
	privateKey, err := loadRSAPrivateKey(config.PrivateKeyPath)
	if err == nil {
		publicKey, pubErr := loadRSAPublicKey(config.PublicKeyPath)
		if pubErr != nil {
			return nil, nil, apperror.Internal("failed to load RSA public key", pubErr)
		}
		log.Info("RSA keys loaded from files")
		return privateKey, publicKey, nil
	}

	if !os.IsNotExist(err) {
		return nil, nil, apperror.Internal("failed to load RSA private key", err)
	}
	if !config.DevMode {
		return nil, nil, apperror.Internal("RSA key files not found and DevMode is disabled", err)
	}

	log.Info("RSA key files not found, generating new keys (dev mode)")
	privateKey, err = generateAndSaveKeys(config.PrivateKeyPath, config.PublicKeyPath)
	if err != nil {
		return nil, nil, apperror.Internal("failed to generate and save RSA keys", err)
	}
	return privateKey, &privateKey.PublicKey, nil
}

// loadRSAPrivateKey loads an RSA private key from a PEM file.
// loadRSAPrivateKey загружает приватный RSA ключ из PEM файла.
func loadRSAPrivateKey(path string) (*rsa.PrivateKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, apperror.Internal(fmt.Sprintf("failed to decode PEM block from %s", path), nil)
	}

	// PKCS#8 first, then PKCS#1 / Сначала PKCS#8, потом PKCS#1
	key, err := x509.ParsePKCS8PrivateKey(block.Bytes)
	if err != nil {
		pkcs1Key, pkcs1Err := x509.ParsePKCS1PrivateKey(block.Bytes)
		if pkcs1Err != nil {
			return nil, apperror.Internal("failed to parse private key", pkcs1Err)
		}
		return pkcs1Key, nil
	}

	rsaKey, ok := key.(*rsa.PrivateKey)
	if !ok {
		return nil, apperror.Internal("key is not RSA private key", nil)
	}
	return rsaKey, nil
}

// loadRSAPublicKey loads an RSA public key from a PEM file.
// loadRSAPublicKey загружает публичный RSA ключ из PEM файла.
func loadRSAPublicKey(path string) (*rsa.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	block, _ := pem.Decode(data)
	if block == nil {
		return nil, apperror.Internal(fmt.Sprintf("failed to decode PEM block from %s", path), nil)
	}

	// PKIX first, then PKCS#1 / Сначала PKIX, потом PKCS#1
	key, err := x509.ParsePKIXPublicKey(block.Bytes)
	if err != nil {
		pkcs1Key, pkcs1Err := x509.ParsePKCS1PublicKey(block.Bytes)
		if pkcs1Err != nil {
			return nil, apperror.Internal("failed to parse public key", pkcs1Err)
		}
		return pkcs1Key, nil
	}

	rsaKey, ok := key.(*rsa.PublicKey)
	if !ok {
		return nil, apperror.Internal("key is not RSA public key", nil)
	}
	return rsaKey, nil
}

// generateAndSaveKeys generates RSA key pair and saves to PEM files.
// generateAndSaveKeys генерирует пару RSA ключей и сохраняет в PEM файлы.
func generateAndSaveKeys(privatePath, publicPath string) (*rsa.PrivateKey, error) {
	privateKey, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(privatePath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}

	privateKeyBytes, err := x509.MarshalPKCS8PrivateKey(privateKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal private key: %w", err)
	}
	privateKeyPEM := pem.EncodeToMemory(&pem.Block{Type: "PRIVATE KEY", Bytes: privateKeyBytes})
	if err := os.WriteFile(privatePath, privateKeyPEM, 0o600); err != nil {
		return nil, fmt.Errorf("failed to write private key: %w", err)
	}

	publicKeyBytes, err := x509.MarshalPKIXPublicKey(&privateKey.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal public key: %w", err)
	}
	publicKeyPEM := pem.EncodeToMemory(&pem.Block{Type: "PUBLIC KEY", Bytes: publicKeyBytes})
	if err := os.MkdirAll(filepath.Dir(publicPath), 0o750); err != nil {
		return nil, fmt.Errorf("failed to create key directory: %w", err)
	}
	// #nosec G306 -- public key is intended to be readable
	if err := os.WriteFile(publicPath, publicKeyPEM, 0o644); err != nil {
		return nil, fmt.Errorf("failed to write public key: %w", err)
	}

	return privateKey, nil
}

// SignIn authenticates with email and password.
// SignIn аутентифицирует по email и паролю.
//
// Order of checks: lockout, credentials, lifecycle state. A correct password
// for an account that is not ACTIVE yet fails with the error of its state.
// Порядок проверок: блокировка, учётные данные, состояние. Верный пароль
// для неактивного аккаунта даёт ошибку его состояния.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*port.TokenPair, error) {
	email = domain.NormalizeEmail(email)
	ctx, span := telemetry.StartSpan(ctx, "auth", "SignIn", telemetry.AttrEmail.String(email))
	defer span.End()

	log := s.logger.WithContext(ctx)
	lockoutKey := s.lockoutKey(email)

	if locked, lockErr := s.isLocked(ctx, lockoutKey); lockErr != nil {
		log.Warn("failed to check sign-in lockout", "email", email, "error", lockErr)
	} else if locked {
		log.LogAuthAttempt(email, false, "locked after too many failed attempts")
		signInsTotal.WithLabelValues(domain.AuthProviderLocal, "locked").Inc()
		s.recordAuthEvent(ctx, 0, domain.ActionAuthLoginLocked, email, map[string]interface{}{
			"reason": "too_many_failed_attempts",
		})
		return nil, apperror.TooManyRequests("too many failed sign-in attempts, try again later", int(s.lockoutDuration.Seconds()))
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !apperror.HasCode(err, apperror.CodeNotFound) {
			telemetry.End(span, err)
			return nil, err
		}
		// Count unknown addresses as well so probing is throttled the same way
		// Неизвестные адреса тоже учитываются, чтобы перебор ограничивался одинаково
		s.recordFailure(ctx, lockoutKey, email)
		log.LogAuthAttempt(email, false, "user not found")
		s.recordAuthEvent(ctx, 0, domain.ActionAuthLoginFailed, email, map[string]interface{}{"reason": "user_not_found"})
		return nil, apperror.InvalidCredentials()
	}

	if bcryptErr := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); bcryptErr != nil {
		s.recordFailure(ctx, lockoutKey, email)
		log.LogAuthAttempt(email, false, "invalid password")
		s.recordAuthEvent(ctx, user.ID, domain.ActionAuthLoginFailed, email, map[string]interface{}{"reason": "invalid_password"})
		return nil, apperror.InvalidCredentials()
	}

	if resetErr := s.rateLimitCache.Reset(ctx, lockoutKey); resetErr != nil {
		log.Warn("failed to reset sign-in attempts counter", "email", email, "error", resetErr)
	}

	if gateErr := signInGate(user); gateErr != nil {
		signInsTotal.WithLabelValues(domain.AuthProviderLocal, "blocked").Inc()
		log.LogAuthAttempt(email, false, string(user.State()))
		return nil, gateErr
	}

	tokens, err := s.IssueSession(ctx, user)
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	signInsTotal.WithLabelValues(domain.AuthProviderLocal, "success").Inc()
	s.recordAuthEvent(ctx, user.ID, domain.ActionAuthLoginSuccess, email, nil)
	log.LogAuthAttempt(email, true, "sign-in successful")
	return tokens, nil
}

// SignInWithGoogle verifies a Google ID token and signs the holder in.
// SignInWithGoogle проверяет Google ID токен и выполняет вход владельца.
//
// Unknown addresses are registered as operators with a verified email; they
// still wait for approval and the activation code.
// Неизвестные адреса регистрируются операторами с подтверждённым email; они
// по-прежнему ждут одобрения и кода активации.
func (s *AuthService) SignInWithGoogle(ctx context.Context, idToken string) (*port.TokenPair, error) {
	if s.google == nil {
		return nil, apperror.BadRequest("google sign-in is not enabled")
	}

	ctx, span := telemetry.StartSpan(ctx, "auth", "SignInWithGoogle")
	defer span.End()
	log := s.logger.WithContext(ctx)

	identity, err := s.google.Verify(ctx, idToken)
	if err != nil {
		signInsTotal.WithLabelValues(domain.AuthProviderGoogle, "failure").Inc()
		telemetry.End(span, err)
		return nil, err
	}
	if !identity.EmailVerified {
		signInsTotal.WithLabelValues(domain.AuthProviderGoogle, "failure").Inc()
		return nil, apperror.Unauthorized("google account email is not verified")
	}

	email := domain.NormalizeEmail(identity.Email)
	span.SetAttributes(telemetry.AttrEmail.String(email))

	user, err := s.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
	case apperror.HasCode(err, apperror.CodeNotFound):
		user, err = s.registerGoogleUser(ctx, email, identity)
		if err != nil {
			telemetry.End(span, err)
			return nil, err
		}
	default:
		telemetry.End(span, err)
		return nil, err
	}

	if gateErr := signInGate(user); gateErr != nil {
		signInsTotal.WithLabelValues(domain.AuthProviderGoogle, "blocked").Inc()
		log.LogAuthAttempt(email, false, string(user.State()))
		return nil, gateErr
	}

	tokens, err := s.IssueSession(ctx, user)
	if err != nil {
		telemetry.End(span, err)
		return nil, err
	}

	signInsTotal.WithLabelValues(domain.AuthProviderGoogle, "success").Inc()
	s.recordAuthEvent(ctx, user.ID, domain.ActionAuthLoginGoogle, email, nil)
	log.LogAuthAttempt(email, true, "google sign-in successful")
	return tokens, nil
}

func (s *AuthService) registerGoogleUser(ctx context.Context, email string, identity *port.GoogleIdentity) (*domain.User, error) {
	// Google accounts never sign in with a password; store an unguessable hash
	// Google аккаунты не входят по паролю; храним непредсказуемый хэш
	secret, err := randomHex(32)
	if err != nil {
		return nil, apperror.Internal("failed to generate password placeholder", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, apperror.Internal("failed to hash password", err)
	}

	now := s.now()
	user := &domain.User{
		Email:         email,
		PasswordHash:  string(hash),
		FirstName:     identity.GivenName,
		LastName:      identity.FamilyName,
		Role:          domain.RoleOperator,
		EmailVerified: true,
		AuthProvider:  domain.AuthProviderGoogle,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	err = s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
		if err := s.users.CreateTx(ctx, tx, user); err != nil {
			return err
		}
		return s.activity.RecordTx(ctx, tx, user.ID, domain.ActionAccountRegister, domain.ResourceUser,
			strconv.FormatInt(user.ID, 10), map[string]interface{}{
				"provider": domain.AuthProviderGoogle,
				"role":     domain.RoleOperator,
			})
	})
	if err != nil {
		if apperror.HasCode(err, apperror.CodeDuplicateIdentity) {
			// registered concurrently
			return s.users.FindByEmail(ctx, email)
		}
		return nil, err
	}

	if err := s.authz.AddRoleToUser(ctx, user.ID, user.Role); err != nil {
		s.logger.WithContext(ctx).Error("failed to grant role to google user", "user_id", user.ID, "error", err)
	}

	accountTransitionsTotal.WithLabelValues(domain.ActionAccountRegister).Inc()
	s.logger.WithContext(ctx).LogTransition(domain.ActionAccountRegister, domain.ResourceUser, user.ID, "", string(user.State()))
	return user, nil
}

// signInGate maps a lifecycle state onto the sign-in error of that state.
// signInGate сопоставляет состояние жизненного цикла с ошибкой входа.
func signInGate(user *domain.User) error {
	switch user.State() {
	case domain.StateActive:
		return nil
	case domain.StateUnverified:
		return apperror.SignInBlocked(apperror.CodeEmailNotVerified, "email address is not verified yet", user.Email)
	case domain.StateEmailVerified:
		return apperror.SignInBlocked(apperror.CodeWaitingApproval, "account is waiting for administrator approval", user.Email)
	case domain.StateApprovedPendingCode:
		return apperror.SignInBlocked(apperror.CodeApprovalCodeRequired, "enter the activation code sent by email", user.Email)
	default:
		return apperror.SignInBlocked(apperror.CodeAccountDisabled, "account is disabled", user.Email)
	}
}

// IssueSession produces a token pair for an account that passed every gate
// and stamps its last sign-in.
// IssueSession выдаёт пару токенов аккаунту, прошедшему все проверки,
// и отмечает время последнего входа.
func (s *AuthService) IssueSession(ctx context.Context, user *domain.User) (*port.TokenPair, error) {
	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		s.logger.WithContext(ctx).Error("failed to generate tokens", "user_id", user.ID, "error", err)
		return nil, apperror.Internal("failed to generate tokens", err)
	}

	now := s.now()
	if err := s.users.UpdateLastLogin(ctx, user.ID, now); err != nil {
		s.logger.WithContext(ctx).Warn("failed to stamp last login", "user_id", user.ID, "error", err)
	} else {
		user.LastLoginAt = &now
	}
	return tokens, nil
}

func (s *AuthService) lockoutKey(email string) string {
	return "login_attempts:" + email
}

func (s *AuthService) isLocked(ctx context.Context, lockoutKey string) (bool, error) {
	count, err := s.rateLimitCache.GetCount(ctx, lockoutKey)
	if err != nil {
		return false, err
	}
	return count >= int64(s.maxLoginAttempts), nil
}

func (s *AuthService) recordFailure(ctx context.Context, lockoutKey, email string) {
	signInsTotal.WithLabelValues(domain.AuthProviderLocal, "failure").Inc()
	log := s.logger.WithContext(ctx)
	count, err := s.rateLimitCache.Increment(ctx, lockoutKey, s.lockoutDuration)
	if err != nil {
		log.Warn("failed to increment sign-in attempts counter", "email", email, "error", err)
		return
	}
	if count >= int64(s.maxLoginAttempts) {
		log.Warn("address locked after too many failed sign-ins", "email", email, "attempts", count)
	}
}

// recordAuthEvent writes a sign-in event to the activity trail. Failures are logged only.
func (s *AuthService) recordAuthEvent(ctx context.Context, userID int64, action, email string, details map[string]interface{}) {
	if s.activity == nil {
		return
	}
	if err := s.activity.Record(ctx, userID, action, domain.ResourceAuth, email, details); err != nil {
		s.logger.WithContext(ctx).Warn("failed to record auth event", "action", action, "error", err)
	}
}

// ValidateToken validates a JWT token and returns the claims.
// ValidateToken проверяет JWT токен и возвращает claims.
func (s *AuthService) ValidateToken(_ context.Context, tokenString string) (*port.Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &port.Claims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodRSA); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return s.publicKey, nil
	}, jwt.WithIssuer(s.issuer), jwt.WithExpirationRequired())
	if err != nil {
		return nil, apperror.Unauthorized("invalid token")
	}

	claims, ok := token.Claims.(*port.Claims)
	if !ok || !token.Valid {
		return nil, apperror.Unauthorized("invalid token")
	}
	return claims, nil
}

// generateAccessToken generates a JWT access token for a user.
// generateAccessToken генерирует JWT access токен для пользователя.
func (s *AuthService) generateAccessToken(user *domain.User) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.tokenTTL)

	// Unique JWT ID for blacklist support / Уникальный JWT ID для blacklist
	jti, err := randomHex(16)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to generate JTI: %w", err)
	}

	claims := port.Claims{
		UserID: user.ID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        jti,
			Subject:   strconv.FormatInt(user.ID, 10),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			Issuer:    s.issuer,
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(s.privateKey)
	if err != nil {
		return "", time.Time{}, err
	}
	return signed, expiresAt, nil
}

// randomHex returns n random bytes hex-encoded.
func randomHex(n int) (string, error) {
	buf := make([]byte, n)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// generateTokenPair generates both access and refresh tokens.
// generateTokenPair генерирует access и refresh токены.
func (s *AuthService) generateTokenPair(ctx context.Context, user *domain.User) (*port.TokenPair, error) {
	accessToken, expiresAt, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := randomHex(32)
	if err != nil {
		return nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}

	if err := s.refreshCache.StoreRefreshToken(ctx, refreshToken, user.ID, s.refreshTTL); err != nil {
		return nil, fmt.Errorf("failed to store refresh token: %w", err)
	}

	return &port.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "Bearer",
		ExpiresAt:    expiresAt,
	}, nil
}

// RefreshToken rotates a refresh token: the presented token is revoked and a new pair issued.
// RefreshToken ротирует refresh токен: предъявленный отзывается, выдаётся новая пара.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*port.TokenPair, error) {
	log := s.logger.WithContext(ctx)

	userID, err := s.refreshCache.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		log.Warn("refresh token not found or expired", "error", err)
		return nil, apperror.Unauthorized("invalid or expired refresh token")
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		if apperror.HasCode(err, apperror.CodeNotFound) {
			_ = s.refreshCache.DeleteRefreshToken(ctx, refreshToken)
			return nil, apperror.Unauthorized("invalid or expired refresh token")
		}
		return nil, err
	}

	// The account may have been disabled since the session started
	// Аккаунт мог быть отключён после начала сессии
	if gateErr := signInGate(user); gateErr != nil {
		log.Warn("inactive account tried to refresh token", "user_id", userID, "state", user.State())
		_ = s.refreshCache.DeleteRefreshToken(ctx, refreshToken)
		return nil, gateErr
	}

	if err := s.refreshCache.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, apperror.Internal("failed to rotate refresh token", err)
	}

	tokens, err := s.generateTokenPair(ctx, user)
	if err != nil {
		log.Error("failed to generate tokens", "user_id", userID, "error", err)
		return nil, apperror.Internal("failed to generate tokens", err)
	}

	log.Info("token refreshed successfully", "user_id", userID)
	return tokens, nil
}

// Logout invalidates a refresh token and optionally blacklists an access token.
// Logout инвалидирует refresh токен и опционально добавляет access токен в blacklist.
func (s *AuthService) Logout(ctx context.Context, refreshToken, accessToken string) error {
	log := s.logger.WithContext(ctx)

	// Owner is looked up before deletion for the activity trail
	// Владелец определяется до удаления для журнала активности
	userID, _ := s.refreshCache.GetRefreshToken(ctx, refreshToken)

	if err := s.refreshCache.DeleteRefreshToken(ctx, refreshToken); err != nil {
		log.Error("failed to delete refresh token", "error", err)
		return apperror.Internal("failed to logout", err)
	}

	if accessToken != "" {
		if err := s.blacklistAccessToken(ctx, accessToken); err != nil {
			log.Warn("failed to blacklist access token", "error", err)
		}
	}

	s.recordAuthEvent(ctx, userID, domain.ActionAuthLogout, strconv.FormatInt(userID, 10), map[string]interface{}{
		"access_token_blacklisted": accessToken != "",
	})

	log.Info("user logged out successfully", "user_id", userID)
	return nil
}

// blacklistAccessToken adds an access token to the blacklist for the rest of its lifetime.
// blacklistAccessToken добавляет access токен в чёрный список до конца его жизни.
func (s *AuthService) blacklistAccessToken(ctx context.Context, tokenString string) error {
	claims, err := s.ValidateToken(ctx, tokenString)
	if err != nil {
		return fmt.Errorf("failed to parse token for blacklisting: %w", err)
	}
	if claims.ID == "" {
		return apperror.BadRequest("token has no JTI, cannot blacklist")
	}

	ttl := s.tokenTTL
	if claims.ExpiresAt != nil {
		ttl = claims.ExpiresAt.Sub(s.now())
		if ttl <= 0 {
			return nil
		}
	}
	return s.tokenCache.BlacklistToken(ctx, claims.ID, ttl)
}

// IsTokenBlacklisted checks if a token is in the blacklist.
// IsTokenBlacklisted проверяет, находится ли токен в чёрном списке.
func (s *AuthService) IsTokenBlacklisted(ctx context.Context, jti string) (bool, error) {
	return s.tokenCache.IsBlacklisted(ctx, jti)
}

// RevokeUserSessions drops every refresh token of a user.
// RevokeUserSessions удаляет все refresh токены пользователя.
func (s *AuthService) RevokeUserSessions(ctx context.Context, userID int64) error {
	if err := s.refreshCache.DeleteUserRefreshTokens(ctx, userID); err != nil {
		s.logger.WithContext(ctx).Error("failed to revoke user sessions", "user_id", userID, "error", err)
		return apperror.Internal("failed to revoke sessions", err)
	}
	return nil
}

// GetPublicKey returns the RSA public key for external token verification.
// GetPublicKey возвращает публичный RSA ключ для внешней проверки токенов.
func (s *AuthService) GetPublicKey() *rsa.PublicKey {
	return s.publicKey
}

var _ port.AuthService = (*AuthService)(nil)
