package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func healthRouter(h *HealthHandler) *gin.Engine {
	router := gin.New()
	router.GET("/health", h.Health)
	router.GET("/health/live", h.Live)
	router.GET("/health/ready", h.Ready)
	return router
}

func TestHealthHandler_Live(t *testing.T) {
	router := healthRouter(NewHealthHandler().WithChecker("broken", func(context.Context) error {
		return errors.New("down")
	}))

	w := doJSON(router, http.MethodGet, "/health/live", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "ok", decode(t, w)["status"])
}

func TestHealthHandler_Ready(t *testing.T) {
	ok := func(context.Context) error { return nil }

	t.Run("all checkers pass", func(t *testing.T) {
		router := healthRouter(NewHealthHandler().WithChecker("database", ok).WithChecker("storage", ok))

		w := doJSON(router, http.MethodGet, "/health/ready", "")

		assert.Equal(t, http.StatusOK, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "ok", resp["status"])
		checks := resp["checks"].(map[string]interface{})
		assert.Equal(t, "healthy", checks["database"].(map[string]interface{})["status"])
		assert.Equal(t, "healthy", checks["storage"].(map[string]interface{})["status"])
	})

	t.Run("one checker fails", func(t *testing.T) {
		router := healthRouter(NewHealthHandler().
			WithChecker("database", ok).
			WithChecker("redis", RedisChecker(nil)))

		w := doJSON(router, http.MethodGet, "/health/ready", "")

		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		resp := decode(t, w)
		assert.Equal(t, "degraded", resp["status"])
		redis := resp["checks"].(map[string]interface{})["redis"].(map[string]interface{})
		assert.Equal(t, "unhealthy", redis["status"])
		assert.Equal(t, "redis client is not configured", redis["message"])
	})
}

func TestHealthHandler_Health(t *testing.T) {
	router := healthRouter(NewHealthHandler())

	w := doJSON(router, http.MethodGet, "/health", "")

	require.Equal(t, http.StatusOK, w.Code)
	data := decode(t, w)["data"].(map[string]interface{})
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "audit-tracker", data["service"])
}
