package middleware

import (
	"math"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	"github.com/andrewhigh08/audit-tracker/internal/adapter/http/response"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// RateLimitPolicy is a "Limit requests per Period" budget per client address.
// RateLimitPolicy — бюджет "Limit запросов за Period" на адрес клиента.
type RateLimitPolicy struct {
	Name   string
	Limit  int
	Period time.Duration
}

// RateLimitConfig holds the policies of the API.
// RateLimitConfig содержит политики ограничения API.
type RateLimitConfig struct {
	// Global applies to every request.
	// Global применяется ко всем запросам.
	Global RateLimitPolicy

	// Sensitive guards sign-in, activation code and Google endpoints.
	// Sensitive защищает вход, ввод кода активации и вход через Google.
	Sensitive RateLimitPolicy
}

// DefaultRateLimitConfig returns default rate limit configuration.
// DefaultRateLimitConfig возвращает конфигурацию ограничения частоты по умолчанию.
func DefaultRateLimitConfig() RateLimitConfig {
	return RateLimitConfig{
		Global:    RateLimitPolicy{Name: "global", Limit: 100, Period: time.Second},
		Sensitive: RateLimitPolicy{Name: "sensitive", Limit: 10, Period: time.Minute},
	}
}

// Limiter decides whether one more request of a client fits a policy.
// Limiter решает, укладывается ли ещё один запрос клиента в политику.
type Limiter interface {
	Allow(c *gin.Context, policy RateLimitPolicy) (port.ThrottleResult, error)
}

// IPRateLimiter is an in-memory token bucket per policy and address.
// IPRateLimiter — корзина токенов в памяти на политику и адрес.
//
// Suitable for a single instance. Use ThrottleLimiter when several
// instances share the limits.
// Подходит для одного экземпляра. Используйте ThrottleLimiter, когда
// лимиты разделяются между экземплярами.
type IPRateLimiter struct {
	mu       sync.Mutex
	limiters map[string]*rate.Limiter
}

// NewIPRateLimiter creates a new in-memory limiter.
// NewIPRateLimiter создаёт новый ограничитель в памяти.
func NewIPRateLimiter() *IPRateLimiter {
	return &IPRateLimiter{limiters: make(map[string]*rate.Limiter)}
}

func (l *IPRateLimiter) limiter(key string, policy RateLimitPolicy) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	lim, ok := l.limiters[key]
	if !ok {
		every := policy.Period / time.Duration(policy.Limit)
		lim = rate.NewLimiter(rate.Every(every), policy.Limit)
		l.limiters[key] = lim
	}
	return lim
}

// Allow consumes one token of the client bucket.
func (l *IPRateLimiter) Allow(c *gin.Context, policy RateLimitPolicy) (port.ThrottleResult, error) {
	lim := l.limiter(policy.Name+":"+c.ClientIP(), policy)

	res := lim.Reserve()
	if delay := res.Delay(); delay > 0 {
		res.Cancel()
		return port.ThrottleResult{Allowed: false, RetryAfter: delay}, nil
	}
	return port.ThrottleResult{Allowed: true, Remaining: int(lim.Tokens())}, nil
}

// ThrottleLimiter shares limits between instances through port.Throttle (Redis GCRA).
// ThrottleLimiter разделяет лимиты между экземплярами через port.Throttle (Redis GCRA).
type ThrottleLimiter struct {
	throttle port.Throttle
}

// NewThrottleLimiter creates a distributed limiter.
// NewThrottleLimiter создаёт распределённый ограничитель.
func NewThrottleLimiter(throttle port.Throttle) *ThrottleLimiter {
	return &ThrottleLimiter{throttle: throttle}
}

// Allow consumes one unit of the shared client bucket.
func (l *ThrottleLimiter) Allow(c *gin.Context, policy RateLimitPolicy) (port.ThrottleResult, error) {
	return l.throttle.Allow(c.Request.Context(), "ip:"+policy.Name+":"+c.ClientIP(), policy.Limit, policy.Period)
}

// RateLimit returns a middleware enforcing policy with limiter.
// RateLimit возвращает middleware, применяющий политику через limiter.
//
// Limiter errors let the request through; availability wins over limiting.
// Ошибки ограничителя пропускают запрос: доступность важнее ограничения.
func RateLimit(limiter Limiter, policy RateLimitPolicy, log *logger.Logger) gin.HandlerFunc {
	limit := strconv.Itoa(policy.Limit)

	return func(c *gin.Context) {
		res, err := limiter.Allow(c, policy)
		if err != nil {
			log.WithContext(c.Request.Context()).Warn("rate limiter unavailable", "policy", policy.Name, "error", err)
			c.Next()
			return
		}

		c.Header("X-RateLimit-Limit", limit)
		if !res.Allowed {
			retryAfter := int(math.Ceil(res.RetryAfter.Seconds()))
			if retryAfter < 1 {
				retryAfter = 1
			}
			c.Header("X-RateLimit-Remaining", "0")
			RecordRateLimited(policy.Name)
			response.TooManyRequests(c, "rate limit exceeded, please try again later", retryAfter)
			c.Abort()
			return
		}

		c.Header("X-RateLimit-Remaining", strconv.Itoa(res.Remaining))
		c.Next()
	}
}
