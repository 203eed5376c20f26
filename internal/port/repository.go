// Package port defines interfaces (ports) for the application's external dependencies.
// Пакет port определяет интерфейсы (порты) для внешних зависимостей приложения.
//
// This package follows the Hexagonal Architecture (Ports and Adapters) pattern,
// where ports define the contracts that adapters must implement.
// Этот пакет следует паттерну Гексагональной Архитектуры (Порты и Адаптеры),
// где порты определяют контракты, которые должны реализовывать адаптеры.
package port

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
)

// UserRepository defines data access for accounts.
// UserRepository определяет доступ к данным учётных записей.
//
// Find methods return an apperror NOT_FOUND when the row does not exist.
// ForUpdate variants lock the row until the surrounding transaction ends.
// Методы Find возвращают apperror NOT_FOUND, если строки нет. Варианты
// ForUpdate блокируют строку до конца транзакции.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	CreateTx(ctx context.Context, tx *gorm.DB, user *domain.User) error

	FindByID(ctx context.Context, id int64) (*domain.User, error)
	FindByEmail(ctx context.Context, email string) (*domain.User, error)

	// FindByIDForUpdate locks the user row inside tx.
	// FindByIDForUpdate блокирует строку пользователя в рамках tx.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*domain.User, error)
	FindByEmailForUpdate(ctx context.Context, tx *gorm.DB, email string) (*domain.User, error)
	FindByVerificationTokenForUpdate(ctx context.Context, tx *gorm.DB, token string) (*domain.User, error)

	Update(ctx context.Context, user *domain.User) error
	UpdateTx(ctx context.Context, tx *gorm.DB, user *domain.User) error

	// UpdateLastLogin stamps the last successful sign-in without touching other columns.
	// UpdateLastLogin отмечает последний успешный вход, не затрагивая другие колонки.
	UpdateLastLogin(ctx context.Context, id int64, at time.Time) error

	// DeleteTx hard-deletes the user row.
	// DeleteTx физически удаляет строку пользователя.
	DeleteTx(ctx context.Context, tx *gorm.DB, id int64) error

	// ListOperators returns operators matching the filter. PageSize <= 0 returns all.
	// ListOperators возвращает операторов по фильтру. PageSize <= 0 возвращает всех.
	ListOperators(ctx context.Context, filter domain.OperatorFilter) ([]domain.User, int64, error)

	ExistsByEmail(ctx context.Context, email string) (bool, error)
}

// AuditRepository defines data access for audits.
// AuditRepository определяет доступ к данным аудитов.
type AuditRepository interface {
	// CreateTx inserts the audit together with its standard associations.
	// CreateTx вставляет аудит вместе со связями со стандартами.
	CreateTx(ctx context.Context, tx *gorm.DB, audit *domain.Audit) error

	FindByID(ctx context.Context, id int64) (*domain.Audit, error)

	// FindByIDForUpdate locks the audit row and preloads its standards.
	// FindByIDForUpdate блокирует строку аудита и подгружает стандарты.
	FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*domain.Audit, error)

	// SaveStateTx persists title, status, progress, completion and assignment.
	// SaveStateTx сохраняет заголовок, статус, прогресс, завершение и назначение.
	SaveStateTx(ctx context.Context, tx *gorm.DB, audit *domain.Audit) error

	ListByAssignee(ctx context.Context, userID int64) ([]domain.Audit, error)
	ListOpenByAssigneeTx(ctx context.Context, tx *gorm.DB, userID int64) ([]domain.Audit, error)

	// ClaimUnassignedTx assigns up to limit pending unassigned audits to the operator,
	// skipping rows locked by concurrent claims.
	// ClaimUnassignedTx назначает оператору до limit свободных аудитов,
	// пропуская строки, заблокированные параллельными запросами.
	ClaimUnassignedTx(ctx context.Context, tx *gorm.DB, operatorID int64, limit int) ([]domain.Audit, error)

	ListUnassigned(ctx context.Context) ([]domain.Audit, error)
	ListAll(ctx context.Context, page, pageSize int) ([]domain.Audit, int64, error)

	// UnassignUserTx clears the assignee of every audit held by the user.
	// UnassignUserTx снимает назначение со всех аудитов пользователя.
	UnassignUserTx(ctx context.Context, tx *gorm.DB, userID int64) error

	// Stats counts audits; a nil assignee counts all audits.
	// Stats считает аудиты; nil означает все аудиты.
	Stats(ctx context.Context, assigneeID *int64, now time.Time) (domain.AuditStats, error)
	StatsByAssignee(ctx context.Context, now time.Time) (map[int64]domain.AuditStats, error)
	ListDelayed(ctx context.Context, assigneeID *int64, now time.Time, limit int) ([]domain.Audit, error)
	ListRecent(ctx context.Context, assigneeID *int64, limit int) ([]domain.Audit, error)

	CreateImageTx(ctx context.Context, tx *gorm.DB, image *domain.AuditImage) error
	ListImagesTx(ctx context.Context, tx *gorm.DB, auditID int64) ([]domain.AuditImage, error)
}

// EntryRepository defines data access for audit entries and their results.
// EntryRepository определяет доступ к пунктам аудита и их результатам.
type EntryRepository interface {
	// ReplaceForAuditTx deletes all entries (and results) of the audit and inserts the new set.
	// ReplaceForAuditTx удаляет все пункты (и результаты) аудита и вставляет новый набор.
	ReplaceForAuditTx(ctx context.Context, tx *gorm.DB, auditID int64, entries []domain.AuditEntry) error

	FindByID(ctx context.Context, id int64) (*domain.AuditEntry, error)

	// ListWithResultsTx returns entries ordered by sequence number with results preloaded.
	// ListWithResultsTx возвращает пункты по порядку с подгруженными результатами.
	ListWithResultsTx(ctx context.Context, tx *gorm.DB, auditID int64) ([]domain.AuditEntry, error)

	// CountTx returns the number of entries and the number of entries with a result.
	// CountTx возвращает число пунктов и число пунктов с результатом.
	CountTx(ctx context.Context, tx *gorm.DB, auditID int64) (total, withResult int64, err error)

	// UpsertResultTx inserts or replaces the single result of an entry.
	// UpsertResultTx вставляет или заменяет единственный результат пункта.
	UpsertResultTx(ctx context.Context, tx *gorm.DB, result *domain.InspectionResult) error

	FindResultTx(ctx context.Context, tx *gorm.DB, entryID int64) (*domain.InspectionResult, error)
}

// StandardRepository defines data access for compliance standards.
// StandardRepository определяет доступ к стандартам соответствия.
type StandardRepository interface {
	List(ctx context.Context) ([]domain.Standard, error)
	ListTx(ctx context.Context, tx *gorm.DB) ([]domain.Standard, error)
	FindByID(ctx context.Context, id int64) (*domain.Standard, error)
	Create(ctx context.Context, standard *domain.Standard) error

	// EnsureExists inserts the standard unless its code is already present.
	// EnsureExists вставляет стандарт, если его кода ещё нет.
	EnsureExists(ctx context.Context, standard *domain.Standard) error
}

// ActivityLogRepository defines data access for the activity trail.
// ActivityLogRepository определяет доступ к журналу активности.
type ActivityLogRepository interface {
	Create(ctx context.Context, log *domain.ActivityLog) error
	CreateTx(ctx context.Context, tx *gorm.DB, log *domain.ActivityLog) error
	FindByUserID(ctx context.Context, userID int64, limit int) ([]domain.ActivityLog, error)
	FindByResourceID(ctx context.Context, resourceType string, resourceID string, limit int) ([]domain.ActivityLog, error)
	ListRecent(ctx context.Context, page, pageSize int) ([]domain.ActivityLog, int64, error)
}

// Transaction provides database transaction support.
// Transaction обеспечивает поддержку транзакций базы данных.
type Transaction interface {
	// WithTransaction executes a function within a transaction.
	// Automatically commits on success or rolls back on error.
	// WithTransaction выполняет функцию в рамках транзакции.
	// Автоматически фиксирует при успехе или откатывает при ошибке.
	WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error
}
