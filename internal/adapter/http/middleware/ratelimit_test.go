package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/audit-tracker/internal/port"
)

func limitedRouter(limiter Limiter, policy RateLimitPolicy) *gin.Engine {
	router := gin.New()
	router.Use(RateLimit(limiter, policy, testLogger()))
	router.GET("/", okHandler)
	return router
}

func fromAddr(addr string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = addr
	return req
}

func TestRateLimit_IPRateLimiter(t *testing.T) {
	policy := RateLimitPolicy{Name: "test-ip", Limit: 2, Period: time.Minute}
	router := limitedRouter(NewIPRateLimiter(), policy)
	before := testutil.ToFloat64(rateLimitedTotal.WithLabelValues(policy.Name))

	for i := 0; i < 2; i++ {
		w := perform(router, fromAddr("10.0.0.1:5000"))
		require.Equal(t, http.StatusOK, w.Code)
		assert.Equal(t, "2", w.Header().Get("X-RateLimit-Limit"))
	}

	w := perform(router, fromAddr("10.0.0.1:5000"))
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "0", w.Header().Get("X-RateLimit-Remaining"))
	assert.Equal(t, "30", w.Header().Get("Retry-After"))
	assert.Equal(t, before+1, testutil.ToFloat64(rateLimitedTotal.WithLabelValues(policy.Name)))

	// Budgets are per address
	w = perform(router, fromAddr("10.0.0.2:5000"))
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRateLimit_PoliciesAreIndependent(t *testing.T) {
	limiter := NewIPRateLimiter()
	strict := limitedRouter(limiter, RateLimitPolicy{Name: "strict", Limit: 1, Period: time.Hour})
	loose := limitedRouter(limiter, RateLimitPolicy{Name: "loose", Limit: 5, Period: time.Second})

	assert.Equal(t, http.StatusOK, perform(strict, fromAddr("10.0.0.3:1")).Code)
	assert.Equal(t, http.StatusTooManyRequests, perform(strict, fromAddr("10.0.0.3:1")).Code)
	assert.Equal(t, http.StatusOK, perform(loose, fromAddr("10.0.0.3:1")).Code)
}

type fakeThrottle struct {
	keys   []string
	result port.ThrottleResult
	err    error
}

func (f *fakeThrottle) Allow(_ context.Context, key string, _ int, _ time.Duration) (port.ThrottleResult, error) {
	f.keys = append(f.keys, key)
	return f.result, f.err
}

func TestRateLimit_ThrottleLimiter(t *testing.T) {
	throttle := &fakeThrottle{result: port.ThrottleResult{Allowed: false, RetryAfter: 1500 * time.Millisecond}}
	router := limitedRouter(NewThrottleLimiter(throttle), RateLimitPolicy{Name: "sensitive", Limit: 10, Period: time.Minute})

	w := perform(router, fromAddr("10.0.0.9:4000"))

	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "2", w.Header().Get("Retry-After"))
	assert.Equal(t, []string{"ip:sensitive:10.0.0.9"}, throttle.keys)
}

func TestRateLimit_FailsOpen(t *testing.T) {
	throttle := &fakeThrottle{err: errors.New("redis unavailable")}
	router := limitedRouter(NewThrottleLimiter(throttle), DefaultRateLimitConfig().Global)

	w := perform(router, fromAddr("10.0.0.9:4000"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("X-RateLimit-Limit"))
}

func TestRateLimit_ReportsRemaining(t *testing.T) {
	throttle := &fakeThrottle{result: port.ThrottleResult{Allowed: true, Remaining: 7}}
	router := limitedRouter(NewThrottleLimiter(throttle), RateLimitPolicy{Name: "global", Limit: 8, Period: time.Second})

	w := perform(router, fromAddr("10.0.0.9:4000"))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "7", w.Header().Get("X-RateLimit-Remaining"))
}
