// Package main is the entry point for the Audit Tracker API server.
// Пакет main является точкой входа для API сервера Audit Tracker.
//
// The Audit Tracker manages operator accounts and the audits they execute
// against reference standards, using JWT tokens and Casbin RBAC.
// Audit Tracker управляет аккаунтами операторов и аудитами, которые они
// выполняют по эталонным стандартам, используя JWT токены и Casbin RBAC.
package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	rediscache "github.com/andrewhigh08/audit-tracker/internal/adapter/cache/redis"
	"github.com/andrewhigh08/audit-tracker/internal/adapter/content"
	"github.com/andrewhigh08/audit-tracker/internal/adapter/google"
	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/handler"
	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/middleware"
	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/router"
	"github.com/andrewhigh08/audit-tracker/internal/adapter/notify"
	postgresrepo "github.com/andrewhigh08/audit-tracker/internal/adapter/repository/postgres"
	"github.com/andrewhigh08/audit-tracker/internal/adapter/storage"
	"github.com/andrewhigh08/audit-tracker/internal/config"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/circuitbreaker"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/telemetry"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/validator"
	"github.com/andrewhigh08/audit-tracker/internal/port"
	"github.com/andrewhigh08/audit-tracker/internal/service"
)

// main is the application entry point.
// main является точкой входа приложения.
//
// Initializes all dependencies and starts the HTTP server with graceful shutdown.
// Инициализирует все зависимости и запускает HTTP сервер с graceful shutdown.
func main() {
	// MustLoad panics if config is invalid, which is desired at startup
	// MustLoad паникует при невалидном конфиге, что желательно при запуске
	cfg := config.MustLoad()

	log := logger.New(logger.Config{
		Level:     cfg.Log.Level,
		Format:    cfg.Log.Format,
		AddSource: true,
	})
	logger.SetDefault(log)

	if err := validator.RegisterGin(); err != nil {
		log.Fatal("failed to register validators", "error", err)
	}

	ctx := context.Background()

	tp, err := telemetry.InitTelemetry(ctx, telemetry.Config{
		Enabled:      cfg.Telemetry.Enabled,
		OTLPEndpoint: cfg.Telemetry.OTLPEndpoint,
		ServiceName:  cfg.Telemetry.ServiceName,
		Environment:  cfg.Telemetry.Environment,
	})
	if err != nil {
		log.Error("failed to initialize telemetry", "error", err)
	} else if cfg.Telemetry.Enabled {
		log.Info("telemetry initialized", "endpoint", cfg.Telemetry.OTLPEndpoint)
	}

	db, err := initDB(cfg, log)
	if err != nil {
		log.Fatal("failed to connect to database", "error", err)
	}
	if cfg.Database.AutoMigrate {
		if err := postgresrepo.RunMigrations(ctx, db); err != nil {
			log.Fatal("failed to run migrations", "error", err)
		}
		log.Info("database migrations applied")
	}

	redisClient := initRedis(cfg, log)

	// Breaker transitions are logged once per change
	// Переходы breaker'ов логируются один раз на изменение
	onStateChange := func(name string, from, to circuitbreaker.State) {
		log.Warn("circuit breaker state changed", "breaker", name, "from", from.String(), "to", to.String())
	}
	cacheBreakers := rediscache.DefaultBreakerConfig()
	cacheBreakers.OnStateChange = onStateChange
	repoBreakers := postgresrepo.DefaultBreakerConfig()
	repoBreakers.OnStateChange = onStateChange

	// Caches degrade to pass-through while Redis is down
	// Кэши деградируют до прямого доступа, пока Redis недоступен
	authzCache := rediscache.NewGuardedAuthorizationCache(rediscache.NewAuthorizationCache(redisClient), cacheBreakers)
	refreshTokenCache := rediscache.NewGuardedRefreshTokenCache(rediscache.NewRefreshTokenCache(redisClient), cacheBreakers)
	tokenCache := rediscache.NewGuardedTokenCache(rediscache.NewTokenCache(redisClient), cacheBreakers)
	rateLimitCache := rediscache.NewGuardedRateLimitCache(rediscache.NewRateLimitCache(redisClient), cacheBreakers)
	throttle := rediscache.NewGuardedThrottle(rediscache.NewThrottle(redisClient), cacheBreakers)

	userRepo := postgresrepo.NewGuardedUserRepository(postgresrepo.NewUserRepository(db), repoBreakers)
	auditRepo := postgresrepo.NewGuardedAuditRepository(postgresrepo.NewAuditRepository(db), repoBreakers)
	entryRepo := postgresrepo.NewEntryRepository(db)
	standardRepo := postgresrepo.NewStandardRepository(db)
	activityRepo := postgresrepo.NewActivityLogRepository(db)
	txManager := postgresrepo.NewTransactionManager(db)

	authzService, err := service.NewAuthorizationService(db, authzCache, cfg.Casbin.ModelPath, log)
	if err != nil {
		log.Fatal("failed to initialize authorization service", "error", err)
	}
	activityService := service.NewActivityService(activityRepo, log)

	mailBreaker := circuitbreaker.DefaultConfig("mail")
	mailBreaker.OnStateChange = onStateChange
	notifier := notify.New(cfg.Mail, log, circuitbreaker.New(mailBreaker))
	notificationService := service.NewNotificationService(
		notifier,
		cfg.Server.PublicBaseURL,
		cfg.Account.VerificationTTL,
		cfg.Account.ApprovalCodeTTL,
		log,
	)

	objectStorage, err := storage.NewS3Storage(ctx, cfg.Storage)
	if err != nil {
		log.Fatal("failed to initialize object storage", "error", err)
	}

	// Google sign-in stays disabled without a client id
	// Вход через Google отключён без client id
	var googleVerifier port.GoogleVerifier
	if cfg.Google.ClientID != "" {
		googleVerifier = google.NewVerifier(cfg.Google.ClientID, cfg.Google.JWKSURL)
	}

	authService, err := service.NewAuthService(service.AuthDeps{
		Users:          userRepo,
		Tx:             txManager,
		Authz:          authzService,
		Activity:       activityService,
		RefreshCache:   refreshTokenCache,
		TokenCache:     tokenCache,
		RateLimitCache: rateLimitCache,
		Google:         googleVerifier,
	}, service.AuthServiceConfig{
		PrivateKeyPath:   cfg.JWT.PrivateKeyPath,
		PublicKeyPath:    cfg.JWT.PublicKeyPath,
		Issuer:           cfg.JWT.Issuer,
		TokenTTL:         time.Duration(cfg.JWT.AccessTokenTTL) * time.Minute,
		RefreshTTL:       time.Duration(cfg.JWT.RefreshTokenTTL) * 24 * time.Hour,
		MaxLoginAttempts: cfg.Lockout.MaxAttempts,
		LockoutDuration:  time.Duration(cfg.Lockout.LockoutDuration) * time.Minute,
		DevMode:          cfg.DevMode,
	}, log)
	if err != nil {
		log.Fatal("failed to initialize auth service", "error", err)
	}

	passwordPolicy := validator.DefaultPasswordPolicy()
	passwordPolicy.MinLength = cfg.Password.MinLength
	passwordPolicy.RequireSpecial = cfg.Password.RequireSpecial

	accountService := service.NewAccountService(service.AccountDeps{
		Users:    userRepo,
		Audits:   auditRepo,
		Tx:       txManager,
		Authz:    authzService,
		Activity: activityService,
		Notify:   notificationService,
		Sessions: authService,
		Storage:  objectStorage,
		Throttle: throttle,
	}, service.AccountServiceConfig{
		VerificationTTL:  cfg.Account.VerificationTTL,
		ApprovalCodeTTL:  cfg.Account.ApprovalCodeTTL,
		AllowAdminSignup: cfg.Account.AllowAdminSignup,
		ResendPerHour:    cfg.Account.ResendPerHour,
		CodeDigits:       cfg.Account.ApprovalCodeDigits,
		PresignExpiry:    cfg.Storage.PresignExpiry,
		MaxAvatarSize:    cfg.Storage.MaxUploadSize,
		Password:         passwordPolicy,
	}, log)

	trackerService := service.NewTrackerService(service.TrackerDeps{
		Users:     userRepo,
		Audits:    auditRepo,
		Entries:   entryRepo,
		Standards: standardRepo,
		Tx:        txManager,
		Activity:  activityService,
		Content:   content.NewCatalog(),
		Storage:   objectStorage,
	}, service.TrackerConfig{
		DefaultBatch:   cfg.Audit.DefaultBatch,
		DuplicateRate:  cfg.Audit.DuplicateRate,
		MinEntries:     cfg.Audit.MinEntries,
		MaxEntries:     cfg.Audit.MaxEntries,
		RegenerateSize: cfg.Audit.RegenerateSize,
		PresignExpiry:  cfg.Storage.PresignExpiry,
		MaxImageSize:   cfg.Storage.MaxUploadSize,
	}, log)

	// Seed database with initial data / Заполняем БД начальными данными
	seeder := service.NewSeeder(userRepo, standardRepo, txManager, authzService, log)
	if err := seeder.SeedAll(ctx, service.AdminSeed{Email: cfg.Admin.Email, Password: cfg.Admin.Password}); err != nil {
		log.Error("failed to seed database", "error", err)
	}

	healthHandler := handler.NewHealthHandler().
		WithChecker("database", handler.DatabaseChecker(db)).
		WithChecker("redis", handler.RedisChecker(redisClient)).
		WithChecker("storage", objectStorage.Ping)

	var limiter middleware.Limiter = middleware.NewIPRateLimiter()
	if cfg.RateLimit.Distributed {
		limiter = middleware.NewThrottleLimiter(throttle)
	}

	if !cfg.DevMode {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := router.New(router.Handlers{
		Health:  healthHandler,
		Auth:    handler.NewAuthHandler(authService, accountService, authzService, log),
		Account: handler.NewAccountHandler(accountService, log),
		Admin:   handler.NewAdminHandler(accountService, activityService, log),
		Audit:   handler.NewAuditHandler(trackerService, log),
	}, router.Options{
		Security: middleware.NewSecurityConfig(cfg.Server.AllowedOrigins),
		RateLimit: middleware.RateLimitConfig{
			Global:    middleware.RateLimitPolicy{Name: "global", Limit: cfg.RateLimit.GlobalPerSecond, Period: time.Second},
			Sensitive: middleware.RateLimitPolicy{Name: "sensitive", Limit: cfg.RateLimit.SensitivePerMinute, Period: time.Minute},
		},
		Limiter:        limiter,
		TrustedProxies: cfg.Server.TrustedProxies,
		PublicBaseURL:  cfg.Server.PublicBaseURL,
		Swagger:        true,
		Logger:         log,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      engine,
		ReadTimeout:  cfg.Server.ReadTimeout,  // Max time to read request / Макс. время чтения запроса
		WriteTimeout: cfg.Server.WriteTimeout, // Max time to write response / Макс. время записи ответа
		IdleTimeout:  cfg.Server.IdleTimeout,  // Max time for keep-alive / Макс. время keep-alive
	}

	go func() {
		log.Info("server starting", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("failed to start server", "error", err)
		}
	}()

	// Wait for interrupt signal / Ожидаем сигнал прерывания
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server...")

	// Give outstanding requests time to complete
	// Даём время на завершение текущих запросов
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownGrace)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("server forced to shutdown", "error", err)
	}

	if tp != nil {
		if err := tp.Shutdown(shutdownCtx); err != nil {
			log.Error("failed to shutdown telemetry", "error", err)
		}
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	_ = redisClient.Close()

	log.Info("server exited properly")
}

// initDB initializes the PostgreSQL database connection with connection pooling.
// initDB инициализирует подключение к PostgreSQL с пулом соединений.
func initDB(cfg *config.Config, log *logger.Logger) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(cfg.Database.DSN()), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetConnMaxLifetime(time.Hour)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	log.Info("database connection established")
	return db, nil
}

// initRedis initializes the Redis client connection.
// initRedis инициализирует подключение клиента Redis.
func initRedis(cfg *config.Config, log *logger.Logger) *redis.Client {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		log.Fatal("failed to connect to Redis", "error", err)
	}

	log.Info("redis connection established")
	return client
}
