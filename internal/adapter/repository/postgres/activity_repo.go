package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// ActivityLogRepository implements port.ActivityLogRepository using PostgreSQL.
// ActivityLogRepository реализует интерфейс port.ActivityLogRepository с использованием PostgreSQL.
type ActivityLogRepository struct {
	db *gorm.DB
}

// NewActivityLogRepository creates a new ActivityLogRepository instance.
// NewActivityLogRepository создаёт новый экземпляр ActivityLogRepository.
func NewActivityLogRepository(db *gorm.DB) *ActivityLogRepository {
	return &ActivityLogRepository{db: db}
}

// Create writes an activity entry outside of a transaction.
func (r *ActivityLogRepository) Create(ctx context.Context, log *domain.ActivityLog) error {
	return r.CreateTx(ctx, r.db, log)
}

// CreateTx writes an activity entry inside the transaction of the transition it records.
// CreateTx записывает запись в транзакции описываемого перехода.
func (r *ActivityLogRepository) CreateTx(ctx context.Context, tx *gorm.DB, log *domain.ActivityLog) error {
	if err := tx.WithContext(ctx).Create(log).Error; err != nil {
		return apperror.Internal("failed to create activity log", err)
	}
	return nil
}

// FindByUserID returns the newest entries of an actor.
// FindByUserID возвращает последние записи инициатора.
func (r *ActivityLogRepository) FindByUserID(ctx context.Context, userID int64, limit int) ([]domain.ActivityLog, error) {
	var logs []domain.ActivityLog
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, apperror.Internal("failed to find activity by user", err)
	}
	return logs, nil
}

// FindByResourceID returns the newest entries about one resource.
// FindByResourceID возвращает последние записи об одном ресурсе.
func (r *ActivityLogRepository) FindByResourceID(ctx context.Context, resourceType, resourceID string, limit int) ([]domain.ActivityLog, error) {
	var logs []domain.ActivityLog
	err := r.db.WithContext(ctx).
		Where("resource_type = ? AND resource_id = ?", resourceType, resourceID).
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&logs).Error
	if err != nil {
		return nil, apperror.Internal("failed to find activity by resource", err)
	}
	return logs, nil
}

// ListRecent returns a page of the whole trail, newest first.
func (r *ActivityLogRepository) ListRecent(ctx context.Context, page, pageSize int) ([]domain.ActivityLog, int64, error) {
	var logs []domain.ActivityLog
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.ActivityLog{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("failed to count activity", err)
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	err := query.
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&logs).Error
	if err != nil {
		return nil, 0, apperror.Internal("failed to list activity", err)
	}
	return logs, total, nil
}

var _ port.ActivityLogRepository = (*ActivityLogRepository)(nil)
