package handler

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/response"
)

// Checker checks one dependency and returns nil when it is usable.
// Checker проверяет одну зависимость и возвращает nil, если она доступна.
type Checker func(ctx context.Context) error

type namedChecker struct {
	name  string
	check Checker
}

// HealthHandler handles health check endpoints.
// HealthHandler обрабатывает эндпоинты проверки здоровья.
//
// Provides liveness and readiness checks for Kubernetes.
// Предоставляет liveness и readiness пробы для Kubernetes.
type HealthHandler struct {
	checkers []namedChecker
	timeout  time.Duration
}

// NewHealthHandler creates a HealthHandler without checkers.
// NewHealthHandler создаёт HealthHandler без проб.
func NewHealthHandler() *HealthHandler {
	return &HealthHandler{timeout: 5 * time.Second}
}

// WithChecker adds a readiness check. Checkers run in registration order.
// WithChecker добавляет проверку готовности. Пробы выполняются в порядке регистрации.
func (h *HealthHandler) WithChecker(name string, checker Checker) *HealthHandler {
	h.checkers = append(h.checkers, namedChecker{name: name, check: checker})
	return h
}

// DatabaseChecker pings the connection pool behind db.
func DatabaseChecker(db *gorm.DB) Checker {
	return func(ctx context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.PingContext(ctx)
	}
}

// RedisChecker pings a Redis client.
func RedisChecker(client *redis.Client) Checker {
	return func(ctx context.Context) error {
		if client == nil {
			return errors.New("redis client is not configured")
		}
		return client.Ping(ctx).Err()
	}
}

// HealthStatus represents the health status response.
// HealthStatus представляет ответ о состоянии здоровья.
type HealthStatus struct {
	Status    string           `json:"status"`           // ok or degraded / ok или degraded
	Timestamp string           `json:"timestamp"`        // Check timestamp / Время проверки
	Checks    map[string]Check `json:"checks,omitempty"` // Per dependency / По зависимостям
}

// Check represents an individual health check result.
// Check представляет результат отдельной проверки здоровья.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
}

// Live handles GET /health/live.
// Live обрабатывает GET /health/live.
// @Summary Liveness check
// @Description Check if the process is alive
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Router /health/live [get]
func (h *HealthHandler) Live(c *gin.Context) {
	c.JSON(http.StatusOK, HealthStatus{
		Status:    "ok",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

// Ready handles GET /health/ready.
// Ready обрабатывает GET /health/ready.
//
// Runs every checker; any failure turns the answer into 503.
// Выполняет все пробы; любая ошибка превращает ответ в 503.
// @Summary Readiness check
// @Description Check database, Redis and object storage
// @Tags health
// @Produce json
// @Success 200 {object} HealthStatus
// @Failure 503 {object} HealthStatus
// @Router /health/ready [get]
func (h *HealthHandler) Ready(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.timeout)
	defer cancel()

	checks := make(map[string]Check, len(h.checkers))
	healthy := true
	for _, p := range h.checkers {
		if err := p.check(ctx); err != nil {
			checks[p.name] = Check{Status: "unhealthy", Message: err.Error()}
			healthy = false
			continue
		}
		checks[p.name] = Check{Status: "healthy"}
	}

	status, code := "ok", http.StatusOK
	if !healthy {
		status, code = "degraded", http.StatusServiceUnavailable
	}

	c.JSON(code, HealthStatus{
		Status:    status,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Checks:    checks,
	})
}

// Health handles GET /health.
// @Summary Health check
// @Tags health
// @Produce json
// @Success 200 {object} response.APIResponse
// @Router /health [get]
func (h *HealthHandler) Health(c *gin.Context) {
	response.Success(c, gin.H{
		"status":    "healthy",
		"service":   "audit-tracker",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
