package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	os.Exit(m.Run())
}

func testLogger() *logger.Logger {
	return logger.New(logger.Config{Level: "debug", Format: "text", Output: io.Discard})
}

func okHandler(c *gin.Context) { c.String(http.StatusOK, "ok") }

func perform(router http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestRequestID(t *testing.T) {
	var seen string
	router := gin.New()
	router.Use(RequestID())
	router.GET("/", func(c *gin.Context) {
		seen = GetRequestID(c)
		c.Status(http.StatusOK)
	})

	t.Run("generated", func(t *testing.T) {
		w := perform(router, httptest.NewRequest(http.MethodGet, "/", nil))

		id := w.Header().Get(RequestIDHeader)
		assert.Len(t, id, 36)
		assert.Equal(t, id, seen)
	})

	t.Run("propagated", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "client-req-1")
		w := perform(router, req)

		assert.Equal(t, "client-req-1", w.Header().Get(RequestIDHeader))
		assert.Equal(t, "client-req-1", seen)
	})

	t.Run("oversized value replaced", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, strings.Repeat("x", maxRequestIDLength+1))
		w := perform(router, req)

		assert.Len(t, w.Header().Get(RequestIDHeader), 36)
	})
}

func TestSecurityHeaders(t *testing.T) {
	cfg := NewSecurityConfig(nil)
	router := gin.New()
	router.Use(SecurityHeaders(cfg))
	router.GET("/api/v1/me", okHandler)
	router.GET("/swagger/index.html", okHandler)

	w := perform(router, httptest.NewRequest(http.MethodGet, "/api/v1/me", nil))
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
	assert.Equal(t, cfg.ContentSecurityPolicy, w.Header().Get("Content-Security-Policy"))
	assert.Empty(t, w.Header().Get("Strict-Transport-Security"))

	w = perform(router, httptest.NewRequest(http.MethodGet, "/swagger/index.html", nil))
	assert.Empty(t, w.Header().Get("Content-Security-Policy"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/me", nil)
	req.Header.Set("X-Forwarded-Proto", "https")
	w = perform(router, req)
	assert.Equal(t, cfg.StrictTransportSecurity, w.Header().Get("Strict-Transport-Security"))
}

func TestCORS(t *testing.T) {
	newRouter := func(origins []string) *gin.Engine {
		router := gin.New()
		router.Use(CORS(NewSecurityConfig(origins)))
		router.GET("/api/v1/audits", okHandler)
		router.OPTIONS("/api/v1/audits", okHandler)
		return router
	}

	t.Run("listed origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/audits", nil)
		req.Header.Set("Origin", "https://app.example.com")
		w := perform(newRouter([]string{"https://app.example.com"}), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "https://app.example.com", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Equal(t, "true", w.Header().Get("Access-Control-Allow-Credentials"))
		assert.Contains(t, w.Header().Get("Access-Control-Expose-Headers"), RequestIDHeader)
	})

	t.Run("unlisted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/audits", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		w := perform(newRouter([]string{"https://app.example.com"}), req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
	})

	t.Run("wildcard never sends credentials", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/audits", nil)
		req.Header.Set("Origin", "https://any.example.com")
		w := perform(newRouter(nil), req)

		assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
		assert.Empty(t, w.Header().Get("Access-Control-Allow-Credentials"))
	})

	t.Run("preflight", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/audits", nil)
		req.Header.Set("Origin", "https://app.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := perform(newRouter([]string{"https://app.example.com"}), req)

		assert.Equal(t, http.StatusNoContent, w.Code)
		assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
		assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
	})

	t.Run("preflight from unlisted origin", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodOptions, "/api/v1/audits", nil)
		req.Header.Set("Origin", "https://evil.example.com")
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		w := perform(newRouter([]string{"https://app.example.com"}), req)

		assert.Equal(t, http.StatusForbidden, w.Code)
	})
}

func TestNoCache(t *testing.T) {
	router := gin.New()
	router.POST("/auth/login", NoCache(), okHandler)

	w := perform(router, httptest.NewRequest(http.MethodPost, "/auth/login", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "no-store", w.Header().Get("Cache-Control"))
}
