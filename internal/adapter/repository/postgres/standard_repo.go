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

// StandardRepository implements port.StandardRepository using PostgreSQL.
type StandardRepository struct {
	db *gorm.DB
}

// NewStandardRepository creates a new StandardRepository instance.
// NewStandardRepository создаёт новый экземпляр StandardRepository.
func NewStandardRepository(db *gorm.DB) *StandardRepository {
	return &StandardRepository{db: db}
}

// List returns all standards ordered by id.
func (r *StandardRepository) List(ctx context.Context) ([]domain.Standard, error) {
	return r.ListTx(ctx, r.db)
}

// ListTx returns all standards ordered by id inside tx.
func (r *StandardRepository) ListTx(ctx context.Context, tx *gorm.DB) ([]domain.Standard, error) {
	var standards []domain.Standard
	if err := tx.WithContext(ctx).Order("id ASC").Find(&standards).Error; err != nil {
		return nil, apperror.Internal("failed to list standards", err)
	}
	return standards, nil
}

// FindByID retrieves a standard by id.
func (r *StandardRepository) FindByID(ctx context.Context, id int64) (*domain.Standard, error) {
	var standard domain.Standard
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&standard).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("standard", id)
		}
		return nil, apperror.Internal("failed to find standard", err)
	}
	return &standard, nil
}

// Create inserts a standard; a taken code fails with PreconditionFailed.
// Create вставляет стандарт; занятый код даёт PreconditionFailed.
func (r *StandardRepository) Create(ctx context.Context, standard *domain.Standard) error {
	if err := r.db.WithContext(ctx).Create(standard).Error; err != nil {
		if isDuplicateKeyError(err) {
			return apperror.PreconditionFailed("standard code already exists").
				WithDetails(map[string]interface{}{"code": standard.Code})
		}
		return apperror.Internal("failed to create standard", err)
	}
	return nil
}

// EnsureExists inserts the standard unless its code is taken.
// EnsureExists вставляет стандарт, если код свободен.
func (r *StandardRepository) EnsureExists(ctx context.Context, standard *domain.Standard) error {
	err := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "code"}}, DoNothing: true}).
		Create(standard).Error
	if err != nil {
		return apperror.Internal("failed to seed standard", err)
	}
	return nil
}

var _ port.StandardRepository = (*StandardRepository)(nil)
