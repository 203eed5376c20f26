// Package postgres provides PostgreSQL-based repository implementations.
// Пакет postgres предоставляет реализации репозиториев на базе PostgreSQL.
//
// This package implements all repository interfaces defined in port package
// using GORM as the ORM layer.
// Этот пакет реализует все интерфейсы репозиториев, определённые в пакете port,
// используя GORM в качестве ORM слоя.
package postgres

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// forUpdate locks selected rows until the transaction ends.
var forUpdate = clause.Locking{Strength: "UPDATE"}

// UserRepository implements port.UserRepository using PostgreSQL.
// UserRepository реализует интерфейс port.UserRepository с использованием PostgreSQL.
//
// Rows are hard-deleted; there is no tombstone column.
// Строки удаляются физически; колонки-надгробия нет.
type UserRepository struct {
	db *gorm.DB
}

// NewUserRepository creates a new UserRepository instance.
// NewUserRepository создаёт новый экземпляр UserRepository.
func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user in the database.
// Create создаёт нового пользователя в базе данных.
func (r *UserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.CreateTx(ctx, r.db, user)
}

// CreateTx creates a new user within an existing transaction.
// The email is normalized before the insert.
// CreateTx создаёт нового пользователя в рамках существующей транзакции.
// Email нормализуется перед вставкой.
func (r *UserRepository) CreateTx(ctx context.Context, tx *gorm.DB, user *domain.User) error {
	user.Email = domain.NormalizeEmail(user.Email)
	if err := tx.WithContext(ctx).Create(user).Error; err != nil {
		if isDuplicateKeyError(err) {
			return apperror.DuplicateIdentity(user.Email)
		}
		return apperror.Internal("failed to create user", err)
	}
	return nil
}

// FindByID retrieves a user by their unique identifier.
// FindByID получает пользователя по уникальному идентификатору.
func (r *UserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return r.first(r.db.WithContext(ctx).Where("id = ?", id), id)
}

// FindByEmail retrieves a user by their normalized email address.
// FindByEmail получает пользователя по нормализованному адресу.
func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.first(r.db.WithContext(ctx).Where("email = ?", email), email)
}

// FindByIDForUpdate retrieves and locks a user row.
// FindByIDForUpdate получает и блокирует строку пользователя.
func (r *UserRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*domain.User, error) {
	return r.first(tx.WithContext(ctx).Clauses(forUpdate).Where("id = ?", id), id)
}

// FindByEmailForUpdate retrieves and locks a user row by email.
func (r *UserRepository) FindByEmailForUpdate(ctx context.Context, tx *gorm.DB, email string) (*domain.User, error) {
	email = domain.NormalizeEmail(email)
	return r.first(tx.WithContext(ctx).Clauses(forUpdate).Where("email = ?", email), email)
}

// FindByVerificationTokenForUpdate retrieves and locks the holder of a verification token.
func (r *UserRepository) FindByVerificationTokenForUpdate(ctx context.Context, tx *gorm.DB, token string) (*domain.User, error) {
	return r.first(tx.WithContext(ctx).Clauses(forUpdate).Where("email_verification_token = ?", token), "token")
}

func (r *UserRepository) first(query *gorm.DB, key interface{}) (*domain.User, error) {
	var user domain.User
	if err := query.First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("user", key)
		}
		return nil, apperror.Internal("failed to find user", err)
	}
	return &user, nil
}

// Update updates an existing user in the database.
// Update обновляет существующего пользователя в базе данных.
func (r *UserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.UpdateTx(ctx, r.db, user)
}

// UpdateTx updates an existing user within an existing transaction.
// UpdateTx обновляет существующего пользователя в рамках существующей транзакции.
func (r *UserRepository) UpdateTx(ctx context.Context, tx *gorm.DB, user *domain.User) error {
	user.Email = domain.NormalizeEmail(user.Email)
	result := tx.WithContext(ctx).Save(user)
	if result.Error != nil {
		if isDuplicateKeyError(result.Error) {
			return apperror.DuplicateIdentity(user.Email)
		}
		return apperror.Internal("failed to update user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user", user.ID)
	}
	return nil
}

// UpdateLastLogin writes last_login_at only.
func (r *UserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("id = ?", id).
		UpdateColumn("last_login_at", at).Error
	if err != nil {
		return apperror.Internal("failed to update last login", err)
	}
	return nil
}

// DeleteTx permanently removes a user.
// DeleteTx физически удаляет пользователя.
func (r *UserRepository) DeleteTx(ctx context.Context, tx *gorm.DB, id int64) error {
	result := tx.WithContext(ctx).Delete(&domain.User{}, id)
	if result.Error != nil {
		return apperror.Internal("failed to delete user", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("user", id)
	}
	return nil
}

// ListOperators retrieves operators with lifecycle filtering and pagination.
// ListOperators получает операторов с фильтрацией по состоянию и пагинацией.
func (r *UserRepository) ListOperators(ctx context.Context, filter domain.OperatorFilter) ([]domain.User, int64, error) {
	var users []domain.User
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.User{}).Where("role = ?", domain.RoleOperator)

	switch filter.Status {
	case "unverified":
		query = query.Where("email_verified = ?", false)
	case "pending":
		query = query.Where("email_verified = ? AND admin_approved = ?", true, false)
	case "awaiting_code":
		query = query.Where("admin_approved = ? AND activated_at IS NULL", true)
	case "active":
		query = query.Where("is_active = ?", true)
	case "disabled":
		query = query.Where("is_active = ? AND activated_at IS NOT NULL", false)
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("failed to count users", err)
	}

	query = query.Order("created_at DESC")
	if filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		if offset < 0 {
			offset = 0
		}
		query = query.Limit(filter.PageSize).Offset(offset)
	}

	if err := query.Find(&users).Error; err != nil {
		return nil, 0, apperror.Internal("failed to list users", err)
	}

	return users, total, nil
}

// ExistsByEmail checks if a user with the given email already exists.
// ExistsByEmail проверяет, существует ли уже пользователь с данным email.
func (r *UserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&domain.User{}).
		Where("email = ?", domain.NormalizeEmail(email)).
		Count(&count).Error

	if err != nil {
		return false, apperror.Internal("failed to check email existence", err)
	}
	return count > 0, nil
}

// isDuplicateKeyError checks if the error is a unique constraint violation.
// PostgreSQL reports SQLSTATE 23505, SQLite reports "UNIQUE constraint failed".
// isDuplicateKeyError проверяет, является ли ошибка нарушением уникальности.
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "duplicate key") ||
		strings.Contains(msg, "23505") ||
		strings.Contains(msg, "UNIQUE constraint failed")
}

var _ port.UserRepository = (*UserRepository)(nil)
