// Package port defines interfaces (ports) for the application's external dependencies.
// Пакет port определяет интерфейсы (порты) для внешних зависимостей приложения.
package port

import (
	"context"
	"time"
)

// AuthorizationCache defines the interface for caching authorization decisions.
// AuthorizationCache определяет интерфейс для кэширования решений авторизации.
type AuthorizationCache interface {
	// GetDecision returns the cached decision and whether it was found.
	// GetDecision возвращает закэшированное решение и признак его наличия.
	GetDecision(ctx context.Context, userID int64, resource, action string) (allowed bool, found bool, err error)

	SetDecision(ctx context.Context, userID int64, resource, action string, allowed bool, expiration time.Duration) error

	// InvalidateUser drops every decision of a user. Call it when roles change.
	// InvalidateUser удаляет все решения пользователя. Вызывайте при смене ролей.
	InvalidateUser(ctx context.Context, userID int64) error

	// InvalidateAll drops every decision. Call it when policies change.
	// InvalidateAll удаляет все решения. Вызывайте при изменении политик.
	InvalidateAll(ctx context.Context) error
}

// TokenCache blacklists access tokens until they expire.
// TokenCache блокирует access токены до их истечения.
type TokenCache interface {
	BlacklistToken(ctx context.Context, tokenID string, expiration time.Duration) error
	IsBlacklisted(ctx context.Context, tokenID string) (bool, error)
}

// RateLimitCache holds expiring counters, used for sign-in lockout.
// RateLimitCache хранит счётчики с истечением, используется для блокировки входа.
type RateLimitCache interface {
	// Increment increments a counter and returns the new value.
	// The expiration is set when the key is created.
	// Increment увеличивает счётчик и возвращает новое значение.
	Increment(ctx context.Context, key string, expiration time.Duration) (int64, error)
	GetCount(ctx context.Context, key string) (int64, error)
	Reset(ctx context.Context, key string) error
}

// RefreshTokenCache stores refresh tokens per user so they can be revoked together.
// RefreshTokenCache хранит refresh токены по пользователям для их совместного отзыва.
type RefreshTokenCache interface {
	StoreRefreshToken(ctx context.Context, tokenID string, userID int64, expiration time.Duration) error

	// GetRefreshToken returns the owner of a token, or a NotFound error.
	// GetRefreshToken возвращает владельца токена или ошибку NotFound.
	GetRefreshToken(ctx context.Context, tokenID string) (int64, error)
	DeleteRefreshToken(ctx context.Context, tokenID string) error

	// DeleteUserRefreshTokens revokes every session of a user.
	// DeleteUserRefreshTokens отзывает все сессии пользователя.
	DeleteUserRefreshTokens(ctx context.Context, userID int64) error
}

// ThrottleResult is the answer of a throttle check.
// ThrottleResult — результат проверки ограничителя.
type ThrottleResult struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration
}

// Throttle is a shared (multi-instance) rate limiter keyed by arbitrary strings.
// Throttle — общий (между экземплярами) ограничитель частоты по произвольным ключам.
type Throttle interface {
	// Allow consumes one unit from the bucket "limit per period" identified by key.
	// Allow расходует одну единицу из корзины "limit за period" с ключом key.
	Allow(ctx context.Context, key string, limit int, period time.Duration) (ThrottleResult, error)
}
