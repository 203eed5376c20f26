package service

import (
	"context"
	"strings"
	"time"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	gormadapter "github.com/casbin/gorm-adapter/v3"
	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/telemetry"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// Authorization cache TTL constant.
// Константа TTL кэша авторизации.
const (
	authzCacheTTL = 5 * time.Minute // 5 minutes / 5 минут
)

// defaultModel mirrors configs/casbin_model.conf and is used when no model path is configured.
const defaultModel = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// AuthorizationService implements port.AuthorizationService with 3-level caching.
// AuthorizationService реализует интерфейс port.AuthorizationService с 3-уровневым кэшированием.
//
// Uses Casbin for RBAC with the following cache levels:
// Использует Casbin для RBAC со следующими уровнями кэша:
//   - L1: Casbin in-memory policy / Политики Casbin в памяти
//   - L2: Redis decision cache / Кэш решений в Redis
//   - L3: PostgreSQL casbin_rule table / Таблица casbin_rule в PostgreSQL
type AuthorizationService struct {
	enforcer *casbin.Enforcer        // Casbin enforcer / Casbin enforcer
	cache    port.AuthorizationCache // Redis cache for decisions, may be nil / Redis кэш решений, может быть nil
	logger   *logger.Logger          // Logger instance / Экземпляр логгера
}

// NewAuthorizationService creates a new AuthorizationService instance.
// An empty modelPath selects the built-in RBAC model.
// NewAuthorizationService создаёт новый экземпляр AuthorizationService.
// Пустой modelPath выбирает встроенную RBAC модель.
func NewAuthorizationService(
	db *gorm.DB,
	cache port.AuthorizationCache,
	modelPath string,
	log *logger.Logger,
) (*AuthorizationService, error) {
	// Policies live in the casbin_rule table next to the application data
	// Политики хранятся в таблице casbin_rule рядом с данными приложения
	adapter, err := gormadapter.NewAdapterByDB(db)
	if err != nil {
		return nil, apperror.Internal("failed to create casbin adapter", err)
	}

	var enforcer *casbin.Enforcer
	if modelPath == "" {
		m, mErr := model.NewModelFromString(defaultModel)
		if mErr != nil {
			return nil, apperror.Internal("failed to parse casbin model", mErr)
		}
		enforcer, err = casbin.NewEnforcer(m, adapter)
	} else {
		enforcer, err = casbin.NewEnforcer(modelPath, adapter)
	}
	if err != nil {
		return nil, apperror.Internal("failed to create casbin enforcer", err)
	}

	if err := enforcer.LoadPolicy(); err != nil {
		return nil, apperror.Internal("failed to load policies", err)
	}
	enforcer.EnableAutoSave(true)

	return &AuthorizationService{
		enforcer: enforcer,
		cache:    cache,
		logger:   log.WithComponent("authorization_service"),
	}, nil
}

// CheckAccess checks if a user has permission to perform an action on a resource.
// CheckAccess проверяет, имеет ли пользователь разрешение на выполнение действия над ресурсом.
//
// A cache failure is treated as a miss.
// Ошибка кэша считается промахом.
func (s *AuthorizationService) CheckAccess(ctx context.Context, userID int64, resource, action string) (bool, error) {
	ctx, span := telemetry.StartSpan(ctx, "authorization", "CheckAccess",
		telemetry.AttrUserID.Int64(userID),
		telemetry.AttrResource.String(resource),
		telemetry.AttrAction.String(action),
	)
	defer span.End()

	log := s.logger.WithContext(ctx)

	if s.cache != nil {
		if allowed, found, err := s.cache.GetDecision(ctx, userID, resource, action); err == nil && found {
			span.SetAttributes(telemetry.AttrCacheHit.Bool(true), telemetry.AttrAllowed.Bool(allowed))
			log.LogAuthzDecision(userID, resource, action, allowed)
			return allowed, nil
		}
	}

	allowed, err := s.enforcer.Enforce(domain.UserSubject(userID), resource, action)
	if err != nil {
		log.Error("casbin enforce failed", "user_id", userID, "resource", resource, "action", action, "error", err)
		telemetry.End(span, err)
		return false, apperror.Internal("authorization check failed", err)
	}
	span.SetAttributes(telemetry.AttrCacheHit.Bool(false), telemetry.AttrAllowed.Bool(allowed))

	// Store the decision without holding up the request
	// Сохраняем решение, не задерживая запрос
	if s.cache != nil {
		go func() {
			if cacheErr := s.cache.SetDecision(context.Background(), userID, resource, action, allowed, authzCacheTTL); cacheErr != nil {
				log.Warn("failed to cache authz decision", "error", cacheErr)
			}
		}()
	}

	log.LogAuthzDecision(userID, resource, action, allowed)
	return allowed, nil
}

// AddRoleToUser assigns a role to a user.
// AddRoleToUser назначает роль пользователю.
func (s *AuthorizationService) AddRoleToUser(ctx context.Context, userID int64, role string) error {
	log := s.logger.WithContext(ctx)

	// (g, user:123, role:operator)
	if _, err := s.enforcer.AddGroupingPolicy(domain.UserSubject(userID), domain.RoleSubject(role)); err != nil {
		log.Error("failed to add role to user", "user_id", userID, "role", role, "error", err)
		return apperror.Internal("failed to add role", err)
	}

	s.invalidateUser(ctx, userID)
	log.Info("role added to user", "user_id", userID, "role", role)
	return nil
}

// RemoveRoleFromUser removes a role from a user.
// RemoveRoleFromUser удаляет роль у пользователя.
func (s *AuthorizationService) RemoveRoleFromUser(ctx context.Context, userID int64, role string) error {
	log := s.logger.WithContext(ctx)

	if _, err := s.enforcer.RemoveGroupingPolicy(domain.UserSubject(userID), domain.RoleSubject(role)); err != nil {
		log.Error("failed to remove role from user", "user_id", userID, "role", role, "error", err)
		return apperror.Internal("failed to remove role", err)
	}

	s.invalidateUser(ctx, userID)
	log.Info("role removed from user", "user_id", userID, "role", role)
	return nil
}

// RemoveUser drops every grouping rule of a deleted account.
// RemoveUser удаляет все правила группировки удалённого аккаунта.
func (s *AuthorizationService) RemoveUser(ctx context.Context, userID int64) error {
	log := s.logger.WithContext(ctx)

	if _, err := s.enforcer.DeleteRolesForUser(domain.UserSubject(userID)); err != nil {
		log.Error("failed to remove user roles", "user_id", userID, "error", err)
		return apperror.Internal("failed to remove user roles", err)
	}

	s.invalidateUser(ctx, userID)
	log.Info("user removed from rbac", "user_id", userID)
	return nil
}

func (s *AuthorizationService) invalidateUser(ctx context.Context, userID int64) {
	if s.cache == nil {
		return
	}
	if err := s.cache.InvalidateUser(ctx, userID); err != nil {
		s.logger.WithContext(ctx).Warn("failed to invalidate user cache", "user_id", userID, "error", err)
	}
}

// GetUserRoles retrieves all roles assigned to a user, without the "role:" prefix.
// GetUserRoles получает все роли пользователя без префикса "role:".
func (s *AuthorizationService) GetUserRoles(_ context.Context, userID int64) ([]string, error) {
	roles, err := s.enforcer.GetRolesForUser(domain.UserSubject(userID))
	if err != nil {
		s.logger.Error("failed to get roles for user", "user_id", userID, "error", err)
		return nil, apperror.Internal("failed to get user roles", err)
	}

	clean := make([]string, 0, len(roles))
	for _, role := range roles {
		if strings.HasPrefix(role, "role:") {
			clean = append(clean, strings.TrimPrefix(role, "role:"))
		}
	}
	return clean, nil
}

// EnsurePolicies adds the missing (role, resource, action) rules. Existing rules are kept.
// EnsurePolicies добавляет недостающие правила (роль, ресурс, действие). Существующие сохраняются.
func (s *AuthorizationService) EnsurePolicies(ctx context.Context, policies []domain.Policy) (int, error) {
	added := 0
	for _, p := range policies {
		sub := domain.RoleSubject(p.Role)
		ok, err := s.enforcer.HasPolicy(sub, p.Resource, p.Action)
		if err != nil {
			return added, apperror.Internal("failed to check policy", err)
		}
		if ok {
			continue
		}
		if _, err := s.enforcer.AddPolicy(sub, p.Resource, p.Action); err != nil {
			return added, apperror.Internal("failed to add policy", err)
		}
		added++
	}

	if added > 0 && s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.logger.Warn("failed to invalidate authz cache", "error", err)
		}
	}
	return added, nil
}

// ReloadPolicies reloads RBAC policies from the database.
// ReloadPolicies перезагружает политики RBAC из базы данных.
func (s *AuthorizationService) ReloadPolicies(ctx context.Context) error {
	if err := s.enforcer.LoadPolicy(); err != nil {
		s.logger.Error("failed to reload policies", "error", err)
		return apperror.Internal("failed to reload policies", err)
	}

	if s.cache != nil {
		if err := s.cache.InvalidateAll(ctx); err != nil {
			s.logger.Warn("failed to invalidate all cache", "error", err)
		}
	}

	s.logger.Info("policies reloaded successfully")
	return nil
}

var _ port.AuthorizationService = (*AuthorizationService)(nil)
