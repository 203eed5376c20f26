// Package config provides application configuration management.
// Пакет config обеспечивает управление конфигурацией приложения.
//
// Configuration is loaded from environment variables and optional .env file
// with validation at startup. Uses cleanenv for type-safe configuration.
// Конфигурация загружается из переменных окружения и опционального .env файла
// с валидацией при запуске. Использует cleanenv для типобезопасной конфигурации.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
)

// Config holds all application configuration.
// Config содержит всю конфигурацию приложения.
type Config struct {
	Server    ServerConfig    `yaml:"server"`                                     // HTTP server settings / Настройки HTTP сервера
	Database  DatabaseConfig  `yaml:"database"`                                   // PostgreSQL connection / Подключение к PostgreSQL
	Redis     RedisConfig     `yaml:"redis"`                                      // Redis connection / Подключение к Redis
	JWT       JWTConfig       `yaml:"jwt"`                                        // JWT token settings / Настройки JWT токенов
	Casbin    CasbinConfig    `yaml:"casbin"`                                     // Casbin RBAC settings / Настройки Casbin RBAC
	Telemetry TelemetryConfig `yaml:"telemetry"`                                  // OpenTelemetry settings / Настройки OpenTelemetry
	Lockout   LockoutConfig   `yaml:"lockout"`                                    // Sign-in lockout settings / Настройки блокировки входа
	Password  PasswordConfig  `yaml:"password"`                                   // Password policy settings / Настройки политики паролей
	Mail      MailConfig      `yaml:"mail"`                                       // Outgoing mail / Исходящая почта
	Storage   StorageConfig   `yaml:"storage"`                                    // Object storage / Объектное хранилище
	Account   AccountConfig   `yaml:"account"`                                    // Account lifecycle / Жизненный цикл аккаунта
	Audit     AuditConfig     `yaml:"audit"`                                      // Audit tracker / Трекер аудитов
	Google    GoogleConfig    `yaml:"google"`                                     // Google sign-in / Вход через Google
	Admin     AdminConfig     `yaml:"admin"`                                      // Bootstrap administrator / Начальный администратор
	Log       LogConfig       `yaml:"log"`                                        // Logging / Логирование
	RateLimit RateLimitConfig `yaml:"rate_limit"`                                 // Request limits / Лимиты запросов
	DevMode   bool            `env:"DEV_MODE" env-default:"true" yaml:"dev_mode"` // Development mode / Режим разработки
}

// ServerConfig contains HTTP server configuration.
// ServerConfig содержит конфигурацию HTTP сервера.
type ServerConfig struct {
	Port           string        `env:"SERVER_PORT" env-default:"8080" yaml:"port"`                                // Server port / Порт сервера
	PublicBaseURL  string        `env:"PUBLIC_BASE_URL" env-default:"http://localhost:8080" yaml:"public_base_url"` // Base for links in mail / База ссылок в письмах
	AllowedOrigins []string      `env:"CORS_ALLOWED_ORIGINS" env-separator:"," yaml:"allowed_origins"`            // Empty allows any / Пусто разрешает любые
	TrustedProxies []string      `env:"TRUSTED_PROXIES" env-default:"127.0.0.1,::1" env-separator:"," yaml:"trusted_proxies"`
	ReadTimeout    time.Duration `env:"SERVER_READ_TIMEOUT" env-default:"15s" yaml:"read_timeout"`
	WriteTimeout   time.Duration `env:"SERVER_WRITE_TIMEOUT" env-default:"30s" yaml:"write_timeout"`
	IdleTimeout    time.Duration `env:"SERVER_IDLE_TIMEOUT" env-default:"60s" yaml:"idle_timeout"`
	ShutdownGrace  time.Duration `env:"SERVER_SHUTDOWN_GRACE" env-default:"10s" yaml:"shutdown_grace"`
}

// RateLimitConfig contains per-client request limits.
// RateLimitConfig содержит лимиты запросов на клиента.
type RateLimitConfig struct {
	GlobalPerSecond    int  `env:"RATE_LIMIT_GLOBAL_PER_SECOND" env-default:"100" yaml:"global_per_second"`
	SensitivePerMinute int  `env:"RATE_LIMIT_SENSITIVE_PER_MINUTE" env-default:"10" yaml:"sensitive_per_minute"` // Sign-in and codes / Вход и коды
	Distributed        bool `env:"RATE_LIMIT_DISTRIBUTED" env-default:"true" yaml:"distributed"`                 // Share limits through Redis / Общие лимиты через Redis
}

// DatabaseConfig contains PostgreSQL connection settings.
// DatabaseConfig содержит настройки подключения к PostgreSQL.
type DatabaseConfig struct {
	Host     string `env:"DB_HOST" env-default:"localhost" yaml:"host"`
	Port     string `env:"DB_PORT" env-default:"5432" yaml:"port"`
	User     string `env:"DB_USER" env-default:"tracker_user" yaml:"user"`
	Password string `env:"DB_PASSWORD" env-default:"tracker_password" yaml:"password"`
	DBName   string `env:"DB_NAME" env-default:"audit_tracker" yaml:"dbname"`
	SSLMode  string `env:"DB_SSLMODE" env-default:"disable" yaml:"sslmode"`
	// AutoMigrate applies embedded migrations at startup.
	// AutoMigrate применяет встроенные миграции при запуске.
	AutoMigrate bool `env:"DB_AUTO_MIGRATE" env-default:"true" yaml:"auto_migrate"`
}

// RedisConfig contains Redis connection settings.
// RedisConfig содержит настройки подключения к Redis.
type RedisConfig struct {
	Host     string `env:"REDIS_HOST" env-default:"localhost" yaml:"host"`
	Port     string `env:"REDIS_PORT" env-default:"6379" yaml:"port"`
	Password string `env:"REDIS_PASSWORD" env-default:"" yaml:"password"`
	DB       int    `env:"REDIS_DB" env-default:"0" yaml:"db"`
}

// JWTConfig contains JWT token configuration.
// JWTConfig содержит конфигурацию JWT токенов.
type JWTConfig struct {
	AccessTokenTTL  int    `env:"JWT_ACCESS_TOKEN_TTL" env-default:"15" yaml:"access_token_ttl"`                       // Access token TTL in minutes / TTL access токена в минутах
	RefreshTokenTTL int    `env:"JWT_REFRESH_TOKEN_TTL" env-default:"7" yaml:"refresh_token_ttl"`                      // Refresh token TTL in days / TTL refresh токена в днях
	PrivateKeyPath  string `env:"JWT_PRIVATE_KEY_PATH" env-default:"configs/keys/private.pem" yaml:"private_key_path"` // Private key path / Путь к приватному ключу
	PublicKeyPath   string `env:"JWT_PUBLIC_KEY_PATH" env-default:"configs/keys/public.pem" yaml:"public_key_path"`    // Public key path / Путь к публичному ключу
	Issuer          string `env:"JWT_ISSUER" env-default:"audit-tracker" yaml:"issuer"`
}

// LockoutConfig contains sign-in lockout configuration.
// LockoutConfig содержит конфигурацию блокировки входа.
type LockoutConfig struct {
	MaxAttempts     int `env:"LOCKOUT_MAX_ATTEMPTS" env-default:"5" yaml:"max_attempts"`          // Max failed attempts / Макс. неудачных попыток
	LockoutDuration int `env:"LOCKOUT_DURATION_MINUTES" env-default:"15" yaml:"lockout_duration"` // Lockout duration in minutes / Длительность блокировки в минутах
}

// PasswordConfig contains password policy configuration.
// PasswordConfig содержит конфигурацию политики паролей.
type PasswordConfig struct {
	MinLength      int  `env:"PASSWORD_MIN_LENGTH" env-default:"8" yaml:"min_length"`
	RequireSpecial bool `env:"PASSWORD_REQUIRE_SPECIAL" env-default:"true" yaml:"require_special"`
}

// MailConfig selects and configures the outgoing mail transport.
// MailConfig выбирает и настраивает транспорт исходящей почты.
//
// Driver "log" only writes messages to the log; "smtp" delivers them.
// Драйвер "log" только пишет письма в лог; "smtp" отправляет их.
type MailConfig struct {
	Driver   string `env:"MAIL_DRIVER" env-default:"log" yaml:"driver"`
	Host     string `env:"SMTP_HOST" env-default:"localhost" yaml:"host"`
	Port     int    `env:"SMTP_PORT" env-default:"1025" yaml:"port"`
	Username string `env:"SMTP_USERNAME" env-default:"" yaml:"username"`
	Password string `env:"SMTP_PASSWORD" env-default:"" yaml:"password"`
	From     string `env:"MAIL_FROM" env-default:"no-reply@audit-tracker.local" yaml:"from"`
	FromName string `env:"MAIL_FROM_NAME" env-default:"Audit Tracker" yaml:"from_name"`
}

// StorageConfig contains S3-compatible object storage settings.
// StorageConfig содержит настройки S3-совместимого хранилища.
type StorageConfig struct {
	Endpoint      string        `env:"S3_ENDPOINT" env-default:"http://localhost:9000" yaml:"endpoint"`
	Region        string        `env:"S3_REGION" env-default:"us-east-1" yaml:"region"`
	AccessKey     string        `env:"S3_ACCESS_KEY" env-default:"minioadmin" yaml:"access_key"`
	SecretKey     string        `env:"S3_SECRET_KEY" env-default:"minioadmin" yaml:"secret_key"`
	Bucket        string        `env:"S3_BUCKET" env-default:"audit-tracker" yaml:"bucket"`
	PresignExpiry time.Duration `env:"S3_PRESIGN_EXPIRY" env-default:"15m" yaml:"presign_expiry"`
	MaxUploadSize int64         `env:"S3_MAX_UPLOAD_BYTES" env-default:"5242880" yaml:"max_upload_bytes"`
}

// AccountConfig contains account lifecycle settings.
// AccountConfig содержит настройки жизненного цикла аккаунта.
type AccountConfig struct {
	VerificationTTL    time.Duration `env:"ACCOUNT_VERIFICATION_TTL" env-default:"24h" yaml:"verification_ttl"`
	ApprovalCodeTTL    time.Duration `env:"ACCOUNT_APPROVAL_CODE_TTL" env-default:"48h" yaml:"approval_code_ttl"` // 0 disables the check / 0 отключает проверку
	AllowAdminSignup   bool          `env:"ACCOUNT_ALLOW_ADMIN_SIGNUP" env-default:"true" yaml:"allow_admin_signup"`
	ResendPerHour      int           `env:"ACCOUNT_RESEND_PER_HOUR" env-default:"3" yaml:"resend_per_hour"`
	ApprovalCodeDigits int           `env:"ACCOUNT_APPROVAL_CODE_DIGITS" env-default:"6" yaml:"approval_code_digits"`
}

// AuditConfig contains audit tracker settings.
// AuditConfig содержит настройки трекера аудитов.
type AuditConfig struct {
	DefaultBatch   int     `env:"AUDIT_DEFAULT_BATCH" env-default:"5" yaml:"default_batch"`
	DuplicateRate  float64 `env:"AUDIT_DUPLICATE_RATE" env-default:"0.2" yaml:"duplicate_rate"`
	MinEntries     int     `env:"AUDIT_MIN_ENTRIES" env-default:"5" yaml:"min_entries"`
	MaxEntries     int     `env:"AUDIT_MAX_ENTRIES" env-default:"15" yaml:"max_entries"`
	RegenerateSize int     `env:"AUDIT_REGENERATE_SIZE" env-default:"10" yaml:"regenerate_size"`
}

// GoogleConfig contains Google sign-in settings. Empty ClientID disables it.
// GoogleConfig содержит настройки входа через Google. Пустой ClientID отключает его.
type GoogleConfig struct {
	ClientID string `env:"GOOGLE_CLIENT_ID" env-default:"" yaml:"client_id"`
	JWKSURL  string `env:"GOOGLE_JWKS_URL" env-default:"https://www.googleapis.com/oauth2/v3/certs" yaml:"jwks_url"`
}

// AdminConfig describes the administrator created on first start.
// AdminConfig описывает администратора, создаваемого при первом запуске.
type AdminConfig struct {
	Email    string `env:"ADMIN_EMAIL" env-default:"admin@audit-tracker.local" yaml:"email"`
	Password string `env:"ADMIN_PASSWORD" env-default:"" yaml:"password"`
}

// LogConfig contains logger settings.
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" env-default:"info" yaml:"level"`
	Format string `env:"LOG_FORMAT" env-default:"json" yaml:"format"`
}

// TelemetryConfig contains OpenTelemetry configuration.
// TelemetryConfig содержит конфигурацию OpenTelemetry.
type TelemetryConfig struct {
	Enabled      bool   `env:"OTEL_ENABLED" env-default:"false" yaml:"enabled"`
	OTLPEndpoint string `env:"OTEL_ENDPOINT" env-default:"localhost:4317" yaml:"otlp_endpoint"`
	ServiceName  string `env:"OTEL_SERVICE_NAME" env-default:"audit-tracker" yaml:"service_name"`
	Environment  string `env:"OTEL_ENVIRONMENT" env-default:"development" yaml:"environment"`
}

// CasbinConfig contains Casbin RBAC configuration.
// CasbinConfig содержит конфигурацию Casbin RBAC.
type CasbinConfig struct {
	ModelPath string `env:"CASBIN_MODEL_PATH" env-default:"configs/casbin_model.conf" yaml:"model_path"`
}

// DSN returns the PostgreSQL connection string.
// DSN возвращает строку подключения к PostgreSQL.
func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// Addr returns the Redis address in host:port form.
func (c *RedisConfig) Addr() string {
	return c.Host + ":" + c.Port
}

// Validate checks cross-field constraints that struct tags cannot express.
// Validate проверяет ограничения, которые нельзя выразить тегами.
func (c *Config) Validate() error {
	var errs []error

	if c.Audit.MinEntries < 1 || c.Audit.MaxEntries < c.Audit.MinEntries {
		errs = append(errs, fmt.Errorf("audit entries range [%d,%d] is invalid", c.Audit.MinEntries, c.Audit.MaxEntries))
	}
	if c.Audit.DuplicateRate < 0 || c.Audit.DuplicateRate > 1 {
		errs = append(errs, fmt.Errorf("audit duplicate rate %v must be within [0,1]", c.Audit.DuplicateRate))
	}
	if c.Audit.DefaultBatch < 1 {
		errs = append(errs, errors.New("audit default batch must be positive"))
	}
	if c.Account.ApprovalCodeDigits < 4 || c.Account.ApprovalCodeDigits > 10 {
		errs = append(errs, fmt.Errorf("approval code length %d must be within [4,10]", c.Account.ApprovalCodeDigits))
	}
	if c.RateLimit.GlobalPerSecond < 1 || c.RateLimit.SensitivePerMinute < 1 {
		errs = append(errs, errors.New("rate limits must be positive"))
	}
	if c.Mail.Driver != "log" && c.Mail.Driver != "smtp" {
		errs = append(errs, fmt.Errorf("unknown mail driver %q", c.Mail.Driver))
	}
	if !c.DevMode && c.Admin.Password == "" {
		errs = append(errs, errors.New("ADMIN_PASSWORD is required outside dev mode"))
	}

	return errors.Join(errs...)
}

// Load loads configuration from environment variables and optional .env file.
// Load загружает конфигурацию из переменных окружения и опционального .env файла.
//
// Configuration priority (highest to lowest):
// Приоритет конфигурации (от высшего к низшему):
//  1. Environment variables / Переменные окружения
//  2. .env file (if exists) / .env файл (если существует)
//  3. Default values / Значения по умолчанию
func Load() (*Config, error) {
	var cfg Config

	envFile := ".env"
	if _, err := os.Stat(envFile); err == nil {
		if err := cleanenv.ReadConfig(envFile, &cfg); err != nil {
			return nil, fmt.Errorf("failed to read .env file: %w", err)
		}
	} else {
		if err := cleanenv.ReadEnv(&cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment variables: %w", err)
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// MustLoad loads configuration and panics on error.
// MustLoad загружает конфигурацию и паникует при ошибке.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// GetDescription returns a description of all configuration parameters.
// GetDescription возвращает описание всех параметров конфигурации.
func GetDescription() (string, error) {
	var cfg Config
	return cleanenv.GetDescription(&cfg, nil)
}
