package postgres

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// AuditRepository implements port.AuditRepository using PostgreSQL.
// AuditRepository реализует интерфейс port.AuditRepository с использованием PostgreSQL.
type AuditRepository struct {
	db *gorm.DB
}

// NewAuditRepository creates a new AuditRepository instance.
// NewAuditRepository создаёт новый экземпляр AuditRepository.
func NewAuditRepository(db *gorm.DB) *AuditRepository {
	return &AuditRepository{db: db}
}

// statsSelect aggregates status counters; delayed is derived from the due date.
const statsSelect = `COUNT(*) AS total,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS in_progress,
	COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS completed,
	COALESCE(SUM(CASE WHEN status <> ? AND due_date < ? THEN 1 ELSE 0 END), 0) AS delayed`

func statsArgs(now time.Time) []interface{} {
	return []interface{}{
		domain.AuditStatusPending,
		domain.AuditStatusInProgress,
		domain.AuditStatusCompleted,
		domain.AuditStatusCompleted, now,
	}
}

func openStatuses() []string {
	return []string{domain.AuditStatusPending, domain.AuditStatusInProgress}
}

// CreateTx inserts the audit and links its standards.
// CreateTx вставляет аудит и связывает его со стандартами.
func (r *AuditRepository) CreateTx(ctx context.Context, tx *gorm.DB, audit *domain.Audit) error {
	if err := tx.WithContext(ctx).Omit("AssignedTo", "Standards.*").Create(audit).Error; err != nil {
		return apperror.Internal("failed to create audit", err)
	}
	return nil
}

// FindByID retrieves an audit with its standards.
// FindByID получает аудит вместе со стандартами.
func (r *AuditRepository) FindByID(ctx context.Context, id int64) (*domain.Audit, error) {
	return r.first(r.db.WithContext(ctx), id)
}

// FindByIDForUpdate retrieves and locks an audit row.
// FindByIDForUpdate получает и блокирует строку аудита.
func (r *AuditRepository) FindByIDForUpdate(ctx context.Context, tx *gorm.DB, id int64) (*domain.Audit, error) {
	return r.first(tx.WithContext(ctx).Clauses(forUpdate), id)
}

func (r *AuditRepository) first(query *gorm.DB, id int64) (*domain.Audit, error) {
	var audit domain.Audit
	if err := query.Preload("Standards").Where("id = ?", id).First(&audit).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("audit", id)
		}
		return nil, apperror.Internal("failed to find audit", err)
	}
	return &audit, nil
}

// SaveStateTx writes the mutable columns of an audit.
// SaveStateTx записывает изменяемые колонки аудита.
func (r *AuditRepository) SaveStateTx(ctx context.Context, tx *gorm.DB, audit *domain.Audit) error {
	audit.UpdatedAt = time.Now().UTC()
	result := tx.WithContext(ctx).
		Model(&domain.Audit{}).
		Where("id = ?", audit.ID).
		Updates(map[string]interface{}{
			"title":          audit.Title,
			"status":         audit.Status,
			"progress":       audit.Progress,
			"completed_at":   audit.CompletedAt,
			"assigned_to_id": audit.AssignedToID,
			"updated_at":     audit.UpdatedAt,
		})
	if result.Error != nil {
		return apperror.Internal("failed to update audit", result.Error)
	}
	if result.RowsAffected == 0 {
		return apperror.NotFound("audit", audit.ID)
	}
	return nil
}

// ListByAssignee returns the audits of a user ordered by due date.
// ListByAssignee возвращает аудиты пользователя по сроку выполнения.
func (r *AuditRepository) ListByAssignee(ctx context.Context, userID int64) ([]domain.Audit, error) {
	var audits []domain.Audit
	err := r.db.WithContext(ctx).
		Preload("Standards").
		Where("assigned_to_id = ?", userID).
		Order("due_date ASC, id ASC").
		Find(&audits).Error
	if err != nil {
		return nil, apperror.Internal("failed to list audits", err)
	}
	return audits, nil
}

// ListOpenByAssigneeTx returns the pending and in-progress audits of a user.
func (r *AuditRepository) ListOpenByAssigneeTx(ctx context.Context, tx *gorm.DB, userID int64) ([]domain.Audit, error) {
	var audits []domain.Audit
	err := tx.WithContext(ctx).
		Preload("Standards").
		Where("assigned_to_id = ? AND status IN ?", userID, openStatuses()).
		Order("due_date ASC, id ASC").
		Find(&audits).Error
	if err != nil {
		return nil, apperror.Internal("failed to list open audits", err)
	}
	return audits, nil
}

// ClaimUnassignedTx locks up to limit free pending audits, skipping rows held
// by other transactions, and assigns them to the operator.
// ClaimUnassignedTx блокирует до limit свободных аудитов, пропуская строки
// других транзакций, и назначает их оператору.
func (r *AuditRepository) ClaimUnassignedTx(ctx context.Context, tx *gorm.DB, operatorID int64, limit int) ([]domain.Audit, error) {
	if limit <= 0 {
		return nil, nil
	}

	var audits []domain.Audit
	err := tx.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE", Options: "SKIP LOCKED"}).
		Where("assigned_to_id IS NULL AND status = ?", domain.AuditStatusPending).
		Order("due_date ASC, id ASC").
		Limit(limit).
		Find(&audits).Error
	if err != nil {
		return nil, apperror.Internal("failed to select unassigned audits", err)
	}
	if len(audits) == 0 {
		return audits, nil
	}

	ids := make([]int64, len(audits))
	for i := range audits {
		ids[i] = audits[i].ID
	}

	now := time.Now().UTC()
	err = tx.WithContext(ctx).
		Model(&domain.Audit{}).
		Where("id IN ?", ids).
		Updates(map[string]interface{}{"assigned_to_id": operatorID, "updated_at": now}).Error
	if err != nil {
		return nil, apperror.Internal("failed to claim audits", err)
	}

	var claimed []domain.Audit
	err = tx.WithContext(ctx).
		Preload("Standards").
		Where("id IN ?", ids).
		Order("due_date ASC, id ASC").
		Find(&claimed).Error
	if err != nil {
		return nil, apperror.Internal("failed to reload claimed audits", err)
	}
	return claimed, nil
}

// ListUnassigned returns audits without an assignee, newest first.
func (r *AuditRepository) ListUnassigned(ctx context.Context) ([]domain.Audit, error) {
	var audits []domain.Audit
	err := r.db.WithContext(ctx).
		Preload("Standards").
		Where("assigned_to_id IS NULL").
		Order("created_at DESC, id DESC").
		Find(&audits).Error
	if err != nil {
		return nil, apperror.Internal("failed to list unassigned audits", err)
	}
	return audits, nil
}

// ListAll returns a page of all audits with their assignees.
// ListAll возвращает страницу всех аудитов с исполнителями.
func (r *AuditRepository) ListAll(ctx context.Context, page, pageSize int) ([]domain.Audit, int64, error) {
	var audits []domain.Audit
	var total int64

	query := r.db.WithContext(ctx).Model(&domain.Audit{})
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, apperror.Internal("failed to count audits", err)
	}

	offset := (page - 1) * pageSize
	if offset < 0 {
		offset = 0
	}

	err := query.
		Preload("Standards").
		Preload("AssignedTo").
		Order("created_at DESC, id DESC").
		Limit(pageSize).
		Offset(offset).
		Find(&audits).Error
	if err != nil {
		return nil, 0, apperror.Internal("failed to list audits", err)
	}
	return audits, total, nil
}

// UnassignUserTx releases every audit held by the user.
// UnassignUserTx освобождает все аудиты пользователя.
func (r *AuditRepository) UnassignUserTx(ctx context.Context, tx *gorm.DB, userID int64) error {
	err := tx.WithContext(ctx).
		Model(&domain.Audit{}).
		Where("assigned_to_id = ?", userID).
		Update("assigned_to_id", nil).Error
	if err != nil {
		return apperror.Internal("failed to unassign audits", err)
	}
	return nil
}

// Stats aggregates counters for one assignee, or for all audits when assigneeID is nil.
// Stats считает показатели одного исполнителя или всех аудитов при nil.
func (r *AuditRepository) Stats(ctx context.Context, assigneeID *int64, now time.Time) (domain.AuditStats, error) {
	var stats domain.AuditStats
	err := r.scoped(ctx, assigneeID).
		Select(statsSelect, statsArgs(now)...).
		Scan(&stats).Error
	if err != nil {
		return domain.AuditStats{}, apperror.Internal("failed to aggregate audits", err)
	}
	return stats, nil
}

// StatsByAssignee aggregates counters per assigned operator.
// StatsByAssignee считает показатели по каждому оператору.
func (r *AuditRepository) StatsByAssignee(ctx context.Context, now time.Time) (map[int64]domain.AuditStats, error) {
	type row struct {
		AssignedToID int64
		domain.AuditStats
	}

	var rows []row
	err := r.db.WithContext(ctx).
		Model(&domain.Audit{}).
		Select("assigned_to_id, "+statsSelect, statsArgs(now)...).
		Where("assigned_to_id IS NOT NULL").
		Group("assigned_to_id").
		Scan(&rows).Error
	if err != nil {
		return nil, apperror.Internal("failed to aggregate audits by assignee", err)
	}

	out := make(map[int64]domain.AuditStats, len(rows))
	for _, s := range rows {
		out[s.AssignedToID] = s.AuditStats
	}
	return out, nil
}

// ListDelayed returns open audits past their due date, most overdue first.
// ListDelayed возвращает просроченные открытые аудиты, самые старые первыми.
func (r *AuditRepository) ListDelayed(ctx context.Context, assigneeID *int64, now time.Time, limit int) ([]domain.Audit, error) {
	var audits []domain.Audit
	err := r.scoped(ctx, assigneeID).
		Preload("Standards").
		Where("status <> ? AND due_date < ?", domain.AuditStatusCompleted, now).
		Order("due_date ASC, id ASC").
		Limit(limit).
		Find(&audits).Error
	if err != nil {
		return nil, apperror.Internal("failed to list delayed audits", err)
	}
	return audits, nil
}

// ListRecent returns the most recently created audits.
func (r *AuditRepository) ListRecent(ctx context.Context, assigneeID *int64, limit int) ([]domain.Audit, error) {
	var audits []domain.Audit
	err := r.scoped(ctx, assigneeID).
		Preload("Standards").
		Order("created_at DESC, id DESC").
		Limit(limit).
		Find(&audits).Error
	if err != nil {
		return nil, apperror.Internal("failed to list recent audits", err)
	}
	return audits, nil
}

// CreateImageTx stores an image record of an audit.
// CreateImageTx сохраняет запись об изображении аудита.
func (r *AuditRepository) CreateImageTx(ctx context.Context, tx *gorm.DB, image *domain.AuditImage) error {
	if err := tx.WithContext(ctx).Create(image).Error; err != nil {
		return apperror.Internal("failed to create audit image", err)
	}
	return nil
}

// ListImagesTx returns the images of an audit, oldest first.
// ListImagesTx возвращает изображения аудита, начиная со старых.
func (r *AuditRepository) ListImagesTx(ctx context.Context, tx *gorm.DB, auditID int64) ([]domain.AuditImage, error) {
	var images []domain.AuditImage
	err := tx.WithContext(ctx).
		Where("audit_id = ?", auditID).
		Order("created_at ASC, id ASC").
		Find(&images).Error
	if err != nil {
		return nil, apperror.Internal("failed to list audit images", err)
	}
	return images, nil
}

func (r *AuditRepository) scoped(ctx context.Context, assigneeID *int64) *gorm.DB {
	query := r.db.WithContext(ctx).Model(&domain.Audit{})
	if assigneeID != nil {
		query = query.Where("assigned_to_id = ?", *assigneeID)
	}
	return query
}

var _ port.AuditRepository = (*AuditRepository)(nil)
