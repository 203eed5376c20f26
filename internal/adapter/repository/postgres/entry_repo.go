package postgres

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// EntryRepository implements port.EntryRepository using PostgreSQL.
// EntryRepository реализует интерфейс port.EntryRepository с использованием PostgreSQL.
type EntryRepository struct {
	db *gorm.DB
}

// NewEntryRepository creates a new EntryRepository instance.
// NewEntryRepository создаёт новый экземпляр EntryRepository.
func NewEntryRepository(db *gorm.DB) *EntryRepository {
	return &EntryRepository{db: db}
}

// ReplaceForAuditTx drops the results and entries of an audit and inserts the new entries.
// ReplaceForAuditTx удаляет результаты и пункты аудита и вставляет новые пункты.
func (r *EntryRepository) ReplaceForAuditTx(ctx context.Context, tx *gorm.DB, auditID int64, entries []domain.AuditEntry) error {
	db := tx.WithContext(ctx)

	entryIDs := db.Model(&domain.AuditEntry{}).Select("id").Where("audit_id = ?", auditID)
	if err := db.Where("entry_id IN (?)", entryIDs).Delete(&domain.InspectionResult{}).Error; err != nil {
		return apperror.Internal("failed to delete inspection results", err)
	}
	if err := db.Where("audit_id = ?", auditID).Delete(&domain.AuditEntry{}).Error; err != nil {
		return apperror.Internal("failed to delete audit entries", err)
	}

	if len(entries) == 0 {
		return nil
	}
	for i := range entries {
		entries[i].AuditID = auditID
	}
	if err := db.Omit("Result").Create(&entries).Error; err != nil {
		return apperror.Internal("failed to create audit entries", err)
	}
	return nil
}

// FindByID retrieves an entry without its result.
// FindByID получает пункт без результата.
func (r *EntryRepository) FindByID(ctx context.Context, id int64) (*domain.AuditEntry, error) {
	var entry domain.AuditEntry
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&entry).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("entry", id)
		}
		return nil, apperror.Internal("failed to find entry", err)
	}
	return &entry, nil
}

// ListWithResultsTx returns the entries of an audit in sequence order with their results.
// ListWithResultsTx возвращает пункты аудита по порядку вместе с результатами.
func (r *EntryRepository) ListWithResultsTx(ctx context.Context, tx *gorm.DB, auditID int64) ([]domain.AuditEntry, error) {
	var entries []domain.AuditEntry
	err := tx.WithContext(ctx).
		Preload("Result").
		Where("audit_id = ?", auditID).
		Order("sequence_number ASC").
		Find(&entries).Error
	if err != nil {
		return nil, apperror.Internal("failed to list entries", err)
	}
	return entries, nil
}

// CountTx counts the entries of an audit and how many of them carry a result.
// CountTx считает пункты аудита и сколько из них имеют результат.
func (r *EntryRepository) CountTx(ctx context.Context, tx *gorm.DB, auditID int64) (total, withResult int64, err error) {
	db := tx.WithContext(ctx)

	if err = db.Model(&domain.AuditEntry{}).Where("audit_id = ?", auditID).Count(&total).Error; err != nil {
		return 0, 0, apperror.Internal("failed to count entries", err)
	}

	err = db.Model(&domain.InspectionResult{}).
		Joins("JOIN audit_entries ON audit_entries.id = inspection_results.entry_id").
		Where("audit_entries.audit_id = ?", auditID).
		Count(&withResult).Error
	if err != nil {
		return 0, 0, apperror.Internal("failed to count results", err)
	}
	return total, withResult, nil
}

// UpsertResultTx writes the result of an entry, replacing the previous one.
// UpsertResultTx записывает результат пункта, заменяя предыдущий.
func (r *EntryRepository) UpsertResultTx(ctx context.Context, tx *gorm.DB, result *domain.InspectionResult) error {
	err := tx.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "entry_id"}},
			DoUpdates: clause.AssignmentColumns([]string{
				"observed_value", "status", "comment", "image_key", "recorded_by", "recorded_at",
			}),
		}).
		Create(result).Error
	if err != nil {
		return apperror.Internal("failed to save inspection result", err)
	}
	return nil
}

// FindResultTx returns the result of an entry.
func (r *EntryRepository) FindResultTx(ctx context.Context, tx *gorm.DB, entryID int64) (*domain.InspectionResult, error) {
	var result domain.InspectionResult
	if err := tx.WithContext(ctx).Where("entry_id = ?", entryID).First(&result).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("result", entryID)
		}
		return nil, apperror.Internal("failed to find inspection result", err)
	}
	return &result, nil
}

var _ port.EntryRepository = (*EntryRepository)(nil)
