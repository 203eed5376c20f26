package middleware

import (
	"net/http"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// SecurityConfig holds CORS and response header settings.
// SecurityConfig содержит настройки CORS и заголовков ответа.
type SecurityConfig struct {
	AllowOrigins     []string // "*" allows any origin / "*" разрешает любой источник
	AllowMethods     []string
	AllowHeaders     []string
	ExposeHeaders    []string
	AllowCredentials bool
	MaxAge           int // Preflight cache, seconds / Кэш preflight, секунды

	ContentSecurityPolicy   string
	FrameOptions            string
	ReferrerPolicy          string
	StrictTransportSecurity string
}

// NewSecurityConfig returns the API defaults for the given CORS origins.
// An empty list allows any origin without credentials.
// NewSecurityConfig возвращает настройки API для указанных CORS источников.
// Пустой список разрешает любой источник без учётных данных.
func NewSecurityConfig(origins []string) SecurityConfig {
	if len(origins) == 0 {
		origins = []string{"*"}
	}
	return SecurityConfig{
		AllowOrigins:     origins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", RequestIDHeader, "traceparent"},
		ExposeHeaders:    []string{RequestIDHeader, "X-RateLimit-Limit", "X-RateLimit-Remaining", "Retry-After"},
		AllowCredentials: true,
		MaxAge:           86400,

		ContentSecurityPolicy:   "default-src 'none'; frame-ancestors 'none'",
		FrameOptions:            "DENY",
		ReferrerPolicy:          "no-referrer",
		StrictTransportSecurity: "max-age=31536000; includeSubDomains",
	}
}

func (cfg SecurityConfig) anyOrigin() bool {
	return slices.Contains(cfg.AllowOrigins, "*")
}

// SecurityHeaders returns a middleware adding hardening headers to every response.
// SecurityHeaders возвращает middleware, добавляющий защитные заголовки к ответам.
//
// Swagger UI runs inline scripts and is served without a CSP.
// Swagger UI использует inline скрипты и отдаётся без CSP.
func SecurityHeaders(cfg SecurityConfig) gin.HandlerFunc {
	return func(c *gin.Context) {
		h := c.Writer.Header()
		h.Set("X-Content-Type-Options", "nosniff")
		h.Set("X-Frame-Options", cfg.FrameOptions)
		h.Set("Referrer-Policy", cfg.ReferrerPolicy)

		if !strings.HasPrefix(c.Request.URL.Path, "/swagger") {
			h.Set("Content-Security-Policy", cfg.ContentSecurityPolicy)
		}
		if c.Request.TLS != nil || c.GetHeader("X-Forwarded-Proto") == "https" {
			h.Set("Strict-Transport-Security", cfg.StrictTransportSecurity)
		}

		c.Next()
	}
}

// CORS returns a middleware handling cross-origin requests and preflights.
// CORS возвращает middleware для кросс-доменных запросов и preflight.
func CORS(cfg SecurityConfig) gin.HandlerFunc {
	anyOrigin := cfg.anyOrigin()
	methods := strings.Join(cfg.AllowMethods, ", ")
	headers := strings.Join(cfg.AllowHeaders, ", ")
	exposed := strings.Join(cfg.ExposeHeaders, ", ")
	maxAge := strconv.Itoa(cfg.MaxAge)

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()

		allowed := false
		switch {
		case origin == "":
		case anyOrigin:
			// Credentials are never combined with a wildcard
			// Учётные данные не сочетаются с wildcard
			h.Set("Access-Control-Allow-Origin", "*")
			allowed = true
		case slices.Contains(cfg.AllowOrigins, origin):
			h.Set("Access-Control-Allow-Origin", origin)
			h.Add("Vary", "Origin")
			if cfg.AllowCredentials {
				h.Set("Access-Control-Allow-Credentials", "true")
			}
			allowed = true
		}

		if c.Request.Method == http.MethodOptions && c.GetHeader("Access-Control-Request-Method") != "" {
			if !allowed {
				c.AbortWithStatus(http.StatusForbidden)
				return
			}
			h.Set("Access-Control-Allow-Methods", methods)
			h.Set("Access-Control-Allow-Headers", headers)
			h.Set("Access-Control-Max-Age", maxAge)
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		if allowed && exposed != "" {
			h.Set("Access-Control-Expose-Headers", exposed)
		}
		c.Next()
	}
}

// NoCache marks responses as not storable. Used on token endpoints.
// NoCache помечает ответы как некэшируемые. Используется на эндпоинтах токенов.
func NoCache() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Cache-Control", "no-store")
		c.Header("Pragma", "no-cache")
		c.Next()
	}
}
