// Package redis provides Redis-based cache implementations.
// Пакет redis предоставляет реализации кэша на базе Redis.
//
// Redis only holds session tokens, counters and authorization decisions.
// User and audit records are never cached.
// Redis хранит только токены сессий, счётчики и решения авторизации.
// Записи пользователей и аудитов не кэшируются.
package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis_rate/v10"
	"github.com/redis/go-redis/v9"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// keyPrefix namespaces every key written by the service.
const keyPrefix = "tracker"

func key(parts ...interface{}) string {
	k := keyPrefix
	for _, p := range parts {
		k += fmt.Sprintf(":%v", p)
	}
	return k
}

// deleteByPattern removes keys matching pattern with SCAN + UNLINK batches.
// deleteByPattern удаляет ключи по шаблону пакетами SCAN + UNLINK.
func deleteByPattern(ctx context.Context, client *redis.Client, pattern string) error {
	iter := client.Scan(ctx, 0, pattern, 100).Iterator()
	batch := make([]string, 0, 100)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) == cap(batch) {
			if err := client.Unlink(ctx, batch...).Err(); err != nil {
				return apperror.Internal("failed to delete cache keys", err)
			}
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		return apperror.Internal("failed to scan cache keys", err)
	}
	if len(batch) > 0 {
		if err := client.Unlink(ctx, batch...).Err(); err != nil {
			return apperror.Internal("failed to delete cache keys", err)
		}
	}
	return nil
}

// ==================== Authorization decisions ====================

// AuthorizationCache implements port.AuthorizationCache using Redis.
// AuthorizationCache реализует port.AuthorizationCache на Redis.
type AuthorizationCache struct {
	client *redis.Client
}

// NewAuthorizationCache creates a new AuthorizationCache instance.
// NewAuthorizationCache создаёт новый экземпляр AuthorizationCache.
func NewAuthorizationCache(client *redis.Client) *AuthorizationCache {
	return &AuthorizationCache{client: client}
}

// GetDecision returns: allowed, found, error.
// GetDecision возвращает: allowed, found, error.
func (c *AuthorizationCache) GetDecision(ctx context.Context, userID int64, resource, action string) (allowed, found bool, err error) {
	val, err := c.client.Get(ctx, key("authz", userID, resource, action)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return false, false, nil
		}
		return false, false, apperror.Internal("failed to get authz decision", err)
	}
	return val == "1", true, nil
}

// SetDecision caches an authorization decision.
// SetDecision кэширует решение авторизации.
func (c *AuthorizationCache) SetDecision(ctx context.Context, userID int64, resource, action string, allowed bool, expiration time.Duration) error {
	value := "0"
	if allowed {
		value = "1"
	}
	if err := c.client.Set(ctx, key("authz", userID, resource, action), value, expiration).Err(); err != nil {
		return apperror.Internal("failed to set authz decision", err)
	}
	return nil
}

// InvalidateUser drops all cached decisions of one user.
func (c *AuthorizationCache) InvalidateUser(ctx context.Context, userID int64) error {
	return deleteByPattern(ctx, c.client, key("authz", userID, "*"))
}

// InvalidateAll drops every cached decision.
func (c *AuthorizationCache) InvalidateAll(ctx context.Context) error {
	return deleteByPattern(ctx, c.client, key("authz", "*"))
}

// ==================== Lockout counters ====================

// RateLimitCache implements port.RateLimitCache with atomic Redis counters.
// RateLimitCache реализует port.RateLimitCache на атомарных счётчиках Redis.
type RateLimitCache struct {
	client *redis.Client
}

// NewRateLimitCache creates a new RateLimitCache instance.
// NewRateLimitCache создаёт новый экземпляр RateLimitCache.
func NewRateLimitCache(client *redis.Client) *RateLimitCache {
	return &RateLimitCache{client: client}
}

// Increment increments a counter; the window starts with the first increment.
// Increment увеличивает счётчик; окно начинается с первого увеличения.
func (c *RateLimitCache) Increment(ctx context.Context, name string, expiration time.Duration) (int64, error) {
	fullKey := key("counter", name)

	pipe := c.client.TxPipeline()
	incr := pipe.Incr(ctx, fullKey)
	pipe.ExpireNX(ctx, fullKey, expiration)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, apperror.Internal("failed to increment counter", err)
	}

	return incr.Val(), nil
}

// GetCount returns the current value of a counter, 0 when absent.
// GetCount возвращает текущее значение счётчика, 0 если его нет.
func (c *RateLimitCache) GetCount(ctx context.Context, name string) (int64, error) {
	val, err := c.client.Get(ctx, key("counter", name)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, apperror.Internal("failed to get counter", err)
	}
	return val, nil
}

// Reset removes a counter.
// Reset удаляет счётчик.
func (c *RateLimitCache) Reset(ctx context.Context, name string) error {
	if err := c.client.Del(ctx, key("counter", name)).Err(); err != nil {
		return apperror.Internal("failed to reset counter", err)
	}
	return nil
}

// ==================== Access token blacklist ====================

// TokenCache implements port.TokenCache using Redis.
// TokenCache реализует port.TokenCache на Redis.
type TokenCache struct {
	client *redis.Client
}

// NewTokenCache creates a new TokenCache instance.
// NewTokenCache создаёт новый экземпляр TokenCache.
func NewTokenCache(client *redis.Client) *TokenCache {
	return &TokenCache{client: client}
}

// BlacklistToken rejects the token until the entry expires.
// BlacklistToken отклоняет токен до истечения записи.
func (c *TokenCache) BlacklistToken(ctx context.Context, tokenID string, expiration time.Duration) error {
	if err := c.client.Set(ctx, key("blacklist", tokenID), "1", expiration).Err(); err != nil {
		return apperror.Internal("failed to blacklist token", err)
	}
	return nil
}

// IsBlacklisted checks if a token is in the blacklist.
// IsBlacklisted проверяет, находится ли токен в чёрном списке.
func (c *TokenCache) IsBlacklisted(ctx context.Context, tokenID string) (bool, error) {
	n, err := c.client.Exists(ctx, key("blacklist", tokenID)).Result()
	if err != nil {
		return false, apperror.Internal("failed to check token blacklist", err)
	}
	return n > 0, nil
}

// ==================== Refresh tokens ====================

// RefreshTokenCache implements port.RefreshTokenCache using Redis.
// RefreshTokenCache реализует port.RefreshTokenCache на Redis.
//
// Each token maps to its owner; each owner keeps a set of token ids so
// disabling an account can revoke every session at once.
// Каждый токен указывает на владельца; у владельца есть набор id токенов,
// чтобы отключение аккаунта отзывало все сессии сразу.
type RefreshTokenCache struct {
	client *redis.Client
}

// NewRefreshTokenCache creates a new RefreshTokenCache instance.
// NewRefreshTokenCache создаёт новый экземпляр RefreshTokenCache.
func NewRefreshTokenCache(client *redis.Client) *RefreshTokenCache {
	return &RefreshTokenCache{client: client}
}

// StoreRefreshToken stores a refresh token with user ID and expiration.
// StoreRefreshToken сохраняет refresh токен с ID пользователя и временем истечения.
func (c *RefreshTokenCache) StoreRefreshToken(ctx context.Context, tokenID string, userID int64, expiration time.Duration) error {
	userKey := key("refresh", "user", userID)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key("refresh", tokenID), userID, expiration)
	pipe.SAdd(ctx, userKey, tokenID)
	pipe.Expire(ctx, userKey, expiration)
	if _, err := pipe.Exec(ctx); err != nil {
		return apperror.Internal("failed to store refresh token", err)
	}
	return nil
}

// GetRefreshToken returns the owner of a refresh token.
// GetRefreshToken возвращает владельца refresh токена.
func (c *RefreshTokenCache) GetRefreshToken(ctx context.Context, tokenID string) (int64, error) {
	userID, err := c.client.Get(ctx, key("refresh", tokenID)).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, apperror.NotFound("refresh token", tokenID)
		}
		return 0, apperror.Internal("failed to get refresh token", err)
	}
	return userID, nil
}

// DeleteRefreshToken removes a refresh token (for logout).
// DeleteRefreshToken удаляет refresh токен (для выхода).
func (c *RefreshTokenCache) DeleteRefreshToken(ctx context.Context, tokenID string) error {
	tokenKey := key("refresh", tokenID)

	if userID, err := c.client.Get(ctx, tokenKey).Int64(); err == nil {
		c.client.SRem(ctx, key("refresh", "user", userID), tokenID)
	}

	if err := c.client.Del(ctx, tokenKey).Err(); err != nil {
		return apperror.Internal("failed to delete refresh token", err)
	}
	return nil
}

// DeleteUserRefreshTokens revokes all refresh tokens of a user.
// DeleteUserRefreshTokens отзывает все refresh токены пользователя.
func (c *RefreshTokenCache) DeleteUserRefreshTokens(ctx context.Context, userID int64) error {
	userKey := key("refresh", "user", userID)

	tokenIDs, err := c.client.SMembers(ctx, userKey).Result()
	if err != nil {
		return apperror.Internal("failed to get user refresh tokens", err)
	}

	keys := make([]string, 0, len(tokenIDs)+1)
	for _, id := range tokenIDs {
		keys = append(keys, key("refresh", id))
	}
	keys = append(keys, userKey)

	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return apperror.Internal("failed to delete user refresh tokens", err)
	}
	return nil
}

// ==================== Shared throttle ====================

// Throttle implements port.Throttle with the GCRA limiter of redis_rate.
// Throttle реализует port.Throttle на GCRA ограничителе redis_rate.
type Throttle struct {
	limiter *redis_rate.Limiter
}

// NewThrottle creates a Throttle over the given client.
// NewThrottle создаёт Throttle поверх клиента.
func NewThrottle(client *redis.Client) *Throttle {
	return &Throttle{limiter: redis_rate.NewLimiter(client)}
}

// Allow consumes one unit of the "limit per period" bucket named by name.
// Allow расходует одну единицу корзины "limit за period" с именем name.
func (t *Throttle) Allow(ctx context.Context, name string, limit int, period time.Duration) (port.ThrottleResult, error) {
	res, err := t.limiter.Allow(ctx, key("throttle", name), redis_rate.Limit{
		Rate:   limit,
		Burst:  limit,
		Period: period,
	})
	if err != nil {
		return port.ThrottleResult{}, apperror.Internal("failed to check throttle", err)
	}
	return port.ThrottleResult{
		Allowed:    res.Allowed > 0,
		Remaining:  res.Remaining,
		RetryAfter: res.RetryAfter,
	}, nil
}

var (
	_ port.AuthorizationCache = (*AuthorizationCache)(nil)
	_ port.RateLimitCache     = (*RateLimitCache)(nil)
	_ port.TokenCache         = (*TokenCache)(nil)
	_ port.RefreshTokenCache  = (*RefreshTokenCache)(nil)
	_ port.Throttle           = (*Throttle)(nil)
)
