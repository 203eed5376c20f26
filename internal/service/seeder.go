package service

import (
	"context"
	"time"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/logger"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// DefaultStandards are the ISO standards available on a fresh installation.
// DefaultStandards — стандарты ISO, доступные в новой установке.
var DefaultStandards = []domain.Standard{
	{Code: "iso-9001", Name: "ISO 9001", Description: "Quality management systems"},
	{Code: "iso-14001", Name: "ISO 14001", Description: "Environmental management systems"},
	{Code: "iso-45001", Name: "ISO 45001", Description: "Occupational health and safety management systems"},
	{Code: "iso-27001", Name: "ISO 27001", Description: "Information security management systems"},
	{Code: "iso-22000", Name: "ISO 22000", Description: "Food safety management systems"},
}

// AdminSeed describes the administrator created on first start.
type AdminSeed struct {
	Email    string
	Password string
}

// Seeder handles database seeding operations for initial data setup.
// Seeder управляет операциями заполнения базы данных начальными данными.
//
// Every step is idempotent and safe to run on each start.
// Каждый шаг идемпотентен и безопасен при каждом запуске.
type Seeder struct {
	users     port.UserRepository
	standards port.StandardRepository
	tx        port.Transaction
	authz     *AuthorizationService
	logger    *logger.Logger
}

// NewSeeder creates a new Seeder instance.
// NewSeeder создаёт новый экземпляр Seeder.
func NewSeeder(users port.UserRepository, standards port.StandardRepository, tx port.Transaction, authz *AuthorizationService, log *logger.Logger) *Seeder {
	return &Seeder{
		users:     users,
		standards: standards,
		tx:        tx,
		authz:     authz,
		logger:    log.WithComponent("seeder"),
	}
}

// SeedAll runs all seeding operations in order.
// SeedAll запускает все операции заполнения по порядку.
//
// Order: 1) RBAC policies, 2) standards, 3) administrator.
// Порядок: 1) Политики RBAC, 2) стандарты, 3) администратор.
func (s *Seeder) SeedAll(ctx context.Context, admin AdminSeed) error {
	s.logger.Info("starting database seeding")

	if err := s.SeedPolicies(ctx); err != nil {
		return err
	}
	if err := s.SeedStandards(ctx); err != nil {
		return err
	}
	if err := s.SeedAdmin(ctx, admin); err != nil {
		return err
	}

	s.logger.Info("database seeding completed successfully")
	return nil
}

// SeedPolicies adds the missing default RBAC rules.
// SeedPolicies добавляет недостающие правила RBAC по умолчанию.
func (s *Seeder) SeedPolicies(ctx context.Context) error {
	added, err := s.authz.EnsurePolicies(ctx, domain.DefaultPolicies)
	if err != nil {
		s.logger.Error("failed to seed policies", "error", err)
		return err
	}
	s.logger.Info("policies seeded", "added", added)
	return nil
}

// SeedStandards inserts the default standards whose code is not taken yet.
// SeedStandards вставляет стандарты по умолчанию, чей код ещё свободен.
func (s *Seeder) SeedStandards(ctx context.Context) error {
	now := time.Now().UTC()
	for _, std := range DefaultStandards {
		std.CreatedAt = now
		if err := s.standards.EnsureExists(ctx, &std); err != nil {
			s.logger.Error("failed to seed standard", "code", std.Code, "error", err)
			return err
		}
	}
	s.logger.Info("standards seeded", "count", len(DefaultStandards))
	return nil
}

// SeedAdmin creates an active administrator unless the address is registered.
// An empty password skips the step.
// SeedAdmin создаёт активного администратора, если адрес не занят.
// Пустой пароль пропускает шаг.
func (s *Seeder) SeedAdmin(ctx context.Context, seed AdminSeed) error {
	email := domain.NormalizeEmail(seed.Email)
	if email == "" || seed.Password == "" {
		s.logger.Warn("administrator credentials not configured, skipping")
		return nil
	}

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return err
	}
	if exists {
		s.logger.Info("administrator already exists, skipping", "email", email)
		return nil
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seed.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("failed to hash admin password", "error", err)
		return apperror.Internal("failed to hash admin password", err)
	}

	now := time.Now().UTC()
	admin := &domain.User{
		Email:         email,
		PasswordHash:  string(hash),
		FirstName:     "Administrator",
		Role:          domain.RoleAdmin,
		IsActive:      true,
		EmailVerified: true,
		AdminApproved: true,
		ActivatedAt:   &now,
		AuthProvider:  domain.AuthProviderLocal,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	if err := s.users.Create(ctx, admin); err != nil {
		s.logger.Error("failed to create admin user", "error", err)
		return err
	}

	if err := s.authz.AddRoleToUser(ctx, admin.ID, domain.RoleAdmin); err != nil {
		s.logger.Error("failed to assign admin role", "error", err)
		// Remove the account so the next start retries
		// Удаляем аккаунт, чтобы следующий запуск повторил попытку
		if cleanupErr := s.tx.WithTransaction(ctx, func(tx *gorm.DB) error {
			return s.users.DeleteTx(ctx, tx, admin.ID)
		}); cleanupErr != nil {
			s.logger.Error("CRITICAL: failed to remove admin after role assignment failure", "error", cleanupErr)
		}
		return err
	}

	s.logger.Info("administrator created", "email", email)
	return nil
}
