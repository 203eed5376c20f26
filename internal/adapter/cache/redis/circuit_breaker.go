package redis

import (
	"context"
	"time"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/circuitbreaker"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// BreakerConfig configures the breakers placed in front of Redis.
// BreakerConfig настраивает breaker'ы перед Redis.
type BreakerConfig struct {
	MaxFailures   int
	Timeout       time.Duration
	OnStateChange func(name string, from, to circuitbreaker.State)
}

// DefaultBreakerConfig opens after 5 failures and retries after 30s.
// DefaultBreakerConfig размыкается после 5 сбоев и проверяет снова через 30с.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{MaxFailures: 5, Timeout: 30 * time.Second}
}

func (c BreakerConfig) breaker(name string) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		Name:                name,
		MaxFailures:         c.MaxFailures,
		Timeout:             c.Timeout,
		MaxHalfOpenRequests: 1,
		OnStateChange:       c.OnStateChange,
	})
}

// ==================== Authorization decisions ====================

// GuardedAuthorizationCache degrades to a cache miss when Redis is unavailable.
// GuardedAuthorizationCache при недоступности Redis возвращает промах кэша.
type GuardedAuthorizationCache struct {
	inner port.AuthorizationCache
	cb    *circuitbreaker.CircuitBreaker
}

// NewGuardedAuthorizationCache wraps inner with a breaker.
func NewGuardedAuthorizationCache(inner port.AuthorizationCache, cfg BreakerConfig) *GuardedAuthorizationCache {
	return &GuardedAuthorizationCache{inner: inner, cb: cfg.breaker("redis-authz")}
}

func (c *GuardedAuthorizationCache) GetDecision(ctx context.Context, userID int64, resource, action string) (allowed, found bool, err error) {
	type decision struct{ allowed, found bool }

	d, cbErr := circuitbreaker.ExecuteWithResult(ctx, c.cb, func(ctx context.Context) (decision, error) {
		a, f, e := c.inner.GetDecision(ctx, userID, resource, action)
		return decision{a, f}, e
	})
	if cbErr != nil {
		return false, false, nil //nolint:nilerr // miss, the enforcer answers instead
	}
	return d.allowed, d.found, nil
}

func (c *GuardedAuthorizationCache) SetDecision(ctx context.Context, userID int64, resource, action string, allowed bool, expiration time.Duration) error {
	return c.cb.Execute(ctx, func(ctx context.Context) error {
		return c.inner.SetDecision(ctx, userID, resource, action, allowed, expiration)
	})
}

func (c *GuardedAuthorizationCache) InvalidateUser(ctx context.Context, userID int64) error {
	return c.cb.Execute(ctx, func(ctx context.Context) error {
		return c.inner.InvalidateUser(ctx, userID)
	})
}

func (c *GuardedAuthorizationCache) InvalidateAll(ctx context.Context) error {
	return c.cb.Execute(ctx, func(ctx context.Context) error {
		return c.inner.InvalidateAll(ctx)
	})
}

// State returns the breaker state.
func (c *GuardedAuthorizationCache) State() circuitbreaker.State { return c.cb.State() }

// ==================== Counters ====================

// GuardedRateLimitCache forwards breaker errors so lockout callers can decide.
// GuardedRateLimitCache возвращает ошибки breaker'а, решение принимает вызывающий.
type GuardedRateLimitCache struct {
	inner port.RateLimitCache
	cb    *circuitbreaker.CircuitBreaker
}

// NewGuardedRateLimitCache wraps inner with a breaker.
func NewGuardedRateLimitCache(inner port.RateLimitCache, cfg BreakerConfig) *GuardedRateLimitCache {
	return &GuardedRateLimitCache{inner: inner, cb: cfg.breaker("redis-counters")}
}

func (c *GuardedRateLimitCache) Increment(ctx context.Context, key string, expiration time.Duration) (int64, error) {
	return circuitbreaker.ExecuteWithResult(ctx, c.cb, func(ctx context.Context) (int64, error) {
		return c.inner.Increment(ctx, key, expiration)
	})
}

func (c *GuardedRateLimitCache) GetCount(ctx context.Context, key string) (int64, error) {
	return circuitbreaker.ExecuteWithResult(ctx, c.cb, func(ctx context.Context) (int64, error) {
		return c.inner.GetCount(ctx, key)
	})
}

func (c *GuardedRateLimitCache) Reset(ctx context.Context, key string) error {
	return c.cb.Execute(ctx, func(ctx context.Context) error {
		return c.inner.Reset(ctx, key)
	})
}

// State returns the breaker state.
func (c *GuardedRateLimitCache) State() circuitbreaker.State { return c.cb.State() }

// ==================== Access token blacklist ====================

// GuardedTokenCache fails open on lookups: an unreachable blacklist admits the token.
// GuardedTokenCache при недоступности чёрного списка пропускает токен.
type GuardedTokenCache struct {
	inner port.TokenCache
	cb    *circuitbreaker.CircuitBreaker
}

// NewGuardedTokenCache wraps inner with a breaker.
func NewGuardedTokenCache(inner port.TokenCache, cfg BreakerConfig) *GuardedTokenCache {
	return &GuardedTokenCache{inner: inner, cb: cfg.breaker("redis-blacklist")}
}

func (c *GuardedTokenCache) BlacklistToken(ctx context.Context, tokenID string, expiration time.Duration) error {
	return c.cb.Execute(ctx, func(ctx context.Context) error {
		return c.inner.BlacklistToken(ctx, tokenID, expiration)
	})
}

func (c *GuardedTokenCache) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	listed, err := circuitbreaker.ExecuteWithResult(ctx, c.cb, func(ctx context.Context) (bool, error) {
		return c.inner.IsBlacklisted(ctx, tokenID)
	})
	if err != nil {
		return false, nil //nolint:nilerr // fail open
	}
	return listed, nil
}

// State returns the breaker state.
func (c *GuardedTokenCache) State() circuitbreaker.State { return c.cb.State() }

// ==================== Refresh tokens ====================

// GuardedRefreshTokenCache wraps refresh token storage with a breaker.
// GuardedRefreshTokenCache оборачивает хранилище refresh токенов в breaker.
type GuardedRefreshTokenCache struct {
	inner port.RefreshTokenCache
	cb    *circuitbreaker.CircuitBreaker
}

// NewGuardedRefreshTokenCache wraps inner with a breaker.
func NewGuardedRefreshTokenCache(inner port.RefreshTokenCache, cfg BreakerConfig) *GuardedRefreshTokenCache {
	return &GuardedRefreshTokenCache{inner: inner, cb: cfg.breaker("redis-refresh")}
}

func (c *GuardedRefreshTokenCache) StoreRefreshToken(ctx context.Context, tokenID string, userID int64, expiration time.Duration) error {
	return c.cb.Execute(ctx, func(ctx context.Context) error {
		return c.inner.StoreRefreshToken(ctx, tokenID, userID, expiration)
	})
}

func (c *GuardedRefreshTokenCache) GetRefreshToken(ctx context.Context, tokenID string) (int64, error) {
	return circuitbreaker.ExecuteWithResult(ctx, c.cb, func(ctx context.Context) (int64, error) {
		return c.inner.GetRefreshToken(ctx, tokenID)
	})
}

func (c *GuardedRefreshTokenCache) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	return c.cb.Execute(ctx, func(ctx context.Context) error {
		return c.inner.DeleteRefreshToken(ctx, tokenID)
	})
}

func (c *GuardedRefreshTokenCache) DeleteUserRefreshTokens(ctx context.Context, userID int64) error {
	return c.cb.Execute(ctx, func(ctx context.Context) error {
		return c.inner.DeleteUserRefreshTokens(ctx, userID)
	})
}

// State returns the breaker state.
func (c *GuardedRefreshTokenCache) State() circuitbreaker.State { return c.cb.State() }

// ==================== Throttle ====================

// GuardedThrottle admits requests while Redis is unavailable.
// GuardedThrottle пропускает запросы, пока Redis недоступен.
type GuardedThrottle struct {
	inner port.Throttle
	cb    *circuitbreaker.CircuitBreaker
}

// NewGuardedThrottle wraps inner with a breaker.
func NewGuardedThrottle(inner port.Throttle, cfg BreakerConfig) *GuardedThrottle {
	return &GuardedThrottle{inner: inner, cb: cfg.breaker("redis-throttle")}
}

func (t *GuardedThrottle) Allow(ctx context.Context, key string, limit int, period time.Duration) (port.ThrottleResult, error) {
	res, err := circuitbreaker.ExecuteWithResult(ctx, t.cb, func(ctx context.Context) (port.ThrottleResult, error) {
		return t.inner.Allow(ctx, key, limit, period)
	})
	if err != nil {
		return port.ThrottleResult{Allowed: true, Remaining: limit}, nil //nolint:nilerr // fail open
	}
	return res, nil
}

// State returns the breaker state.
func (t *GuardedThrottle) State() circuitbreaker.State { return t.cb.State() }

var (
	_ port.AuthorizationCache = (*GuardedAuthorizationCache)(nil)
	_ port.RateLimitCache     = (*GuardedRateLimitCache)(nil)
	_ port.TokenCache         = (*GuardedTokenCache)(nil)
	_ port.RefreshTokenCache  = (*GuardedRefreshTokenCache)(nil)
	_ port.Throttle           = (*GuardedThrottle)(nil)
)
