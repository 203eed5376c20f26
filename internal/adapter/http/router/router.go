// Package router assembles the gin engine: middleware chain and every route.
// Пакет router собирает gin engine: цепочку middleware и все маршруты.
package router

import (
	"github.com/gin-gonic/gin"

	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/handler"
	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/middleware"
	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
)

// Handlers groups the HTTP handlers served by the engine.
// Handlers группирует HTTP обработчики, обслуживаемые engine.
type Handlers struct {
	Health  *handler.HealthHandler
	Auth    *handler.AuthHandler
	Account *handler.AccountHandler
	Admin   *handler.AdminHandler
	Audit   *handler.AuditHandler
}

// Options configure the middleware chain.
// Options настраивают цепочку middleware.
type Options struct {
	Security       middleware.SecurityConfig
	RateLimit      middleware.RateLimitConfig
	Limiter        middleware.Limiter // nil disables rate limiting / nil отключает ограничение
	TrustedProxies []string
	PublicBaseURL  string
	Swagger        bool
	Logger         *logger.Logger
}

// New builds the engine with every route of the API.
// New создаёт engine со всеми маршрутами API.
func New(h Handlers, opts Options) *gin.Engine {
	log := opts.Logger
	if log == nil {
		log = logger.Default()
	}

	engine := gin.New()

	// X-Forwarded-For is honoured only from these hops
	// X-Forwarded-For учитывается только от этих узлов
	if err := engine.SetTrustedProxies(opts.TrustedProxies); err != nil {
		log.Error("failed to set trusted proxies", "error", err)
	}

	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestID())
	engine.Use(middleware.Tracing())
	engine.Use(middleware.SecurityHeaders(opts.Security))
	engine.Use(middleware.CORS(opts.Security))
	engine.Use(middleware.Metrics())
	engine.Use(middleware.RequestLogger(log))

	engine.GET("/health", h.Health.Health)
	engine.GET("/health/live", h.Health.Live)
	engine.GET("/health/ready", h.Health.Ready)
	handler.RegisterMetrics(engine)
	if opts.Swagger {
		handler.RegisterSwagger(engine, opts.PublicBaseURL)
	}

	var global, sensitive gin.HandlerFunc = passThrough, passThrough
	if opts.Limiter != nil {
		global = middleware.RateLimit(opts.Limiter, opts.RateLimit.Global, log)
		sensitive = middleware.RateLimit(opts.Limiter, opts.RateLimit.Sensitive, log)
	}

	auth := engine.Group("/auth", global, middleware.NoCache())
	auth.POST("/register", h.Auth.Register)
	auth.POST("/login", sensitive, h.Auth.Login)
	auth.GET("/verify-email/:token", h.Auth.VerifyEmail)
	auth.POST("/resend-verification", h.Auth.ResendVerification)
	auth.POST("/confirm-code", sensitive, h.Auth.ConfirmCode)
	auth.POST("/refresh", h.Auth.RefreshToken)
	auth.POST("/google", sensitive, h.Auth.GoogleSignIn)

	api := engine.Group("/api/v1", global, h.Auth.AuthMiddleware())
	api.POST("/auth/logout", middleware.NoCache(), h.Auth.Logout)
	api.GET("/me", h.Account.GetMe)
	api.PUT("/me/avatar", h.Account.UpdateAvatar)
	api.GET("/standards", h.Auth.RBACMiddleware(domain.PermStandards, domain.ActRead), h.Audit.ListStandards)

	operator := api.Group("", h.Auth.RBACMiddleware(domain.PermAudits, domain.ActExecute))
	operator.GET("/audits", h.Audit.ListMine)
	operator.POST("/audits/assign", h.Audit.AssignMe)
	operator.GET("/audits/dashboard", h.Audit.Dashboard)
	operator.GET("/audits/progress", h.Audit.Progress)
	operator.GET("/audits/:id/execution", h.Audit.Execution)
	operator.POST("/audits/:id/complete", h.Audit.Complete)
	operator.POST("/audits/:id/regenerate", h.Audit.Regenerate)
	operator.PUT("/audits/:id/status", h.Audit.UpdateStatus)
	operator.POST("/audits/:id/images", h.Audit.UploadImage)
	operator.POST("/entries/:id/result", h.Audit.SubmitResult)

	admin := api.Group("/admin")

	accounts := admin.Group("", h.Auth.RBACMiddleware(domain.PermAccounts, domain.ActManage))
	accounts.GET("/operators", h.Admin.ListOperators)
	accounts.POST("/operators/:id/approve", h.Admin.Approve)
	accounts.POST("/operators/:id/reject", h.Admin.Reject)
	accounts.POST("/operators/:id/resend-code", h.Admin.ResendCode)
	accounts.POST("/operators/:id/disable", h.Admin.Disable)
	accounts.POST("/operators/:id/enable", h.Admin.Enable)
	accounts.DELETE("/operators/:id", h.Admin.Delete)
	accounts.GET("/activity", h.Admin.ListActivity)

	audits := admin.Group("", h.Auth.RBACMiddleware(domain.PermAudits, domain.ActManage))
	audits.GET("/operators/:id/audits", h.Audit.OperatorAudits)
	audits.POST("/operators/:id/generate-audits", h.Audit.GenerateForOperator)
	audits.GET("/audits", h.Audit.ListAll)
	audits.GET("/audits/unassigned", h.Audit.ListUnassigned)
	audits.POST("/audits", h.Audit.CreateAudit)
	audits.POST("/audits/:id/assign", h.Audit.AssignAudit)
	audits.POST("/audits/:id/entries", h.Audit.GenerateEntries)
	audits.GET("/dashboard", h.Audit.AdminDashboard)

	admin.POST("/standards", h.Auth.RBACMiddleware(domain.PermStandards, domain.ActManage), h.Audit.CreateStandard)

	return engine
}

func passThrough(c *gin.Context) { c.Next() }
