package postgres

import (
	"context"

	"gorm.io/gorm"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// TransactionManager implements port.Transaction interface using GORM.
// TransactionManager реализует интерфейс port.Transaction с использованием GORM.
type TransactionManager struct {
	db *gorm.DB
}

// NewTransactionManager creates a new TransactionManager instance.
// NewTransactionManager создаёт новый экземпляр TransactionManager.
func NewTransactionManager(db *gorm.DB) *TransactionManager {
	return &TransactionManager{db: db}
}

// WithTransaction runs fn in one transaction. It commits when fn returns nil
// and rolls back on an error or a panic. Domain errors returned by fn are
// passed through unchanged; anything else is reported as internal.
//
// WithTransaction выполняет fn в одной транзакции. Фиксирует при nil,
// откатывает при ошибке или панике. Доменные ошибки fn возвращаются без
// изменений, остальные оборачиваются как внутренние.
//
//	err := tm.WithTransaction(ctx, func(tx *gorm.DB) error {
//	    user, err := users.FindByIDForUpdate(ctx, tx, id)
//	    if err != nil {
//	        return err
//	    }
//	    user.IsActive = false
//	    return users.UpdateTx(ctx, tx, user)
//	})
func (t *TransactionManager) WithTransaction(ctx context.Context, fn func(tx *gorm.DB) error) error {
	err := t.db.WithContext(ctx).Transaction(fn)
	if err == nil || apperror.IsAppError(err) {
		return err
	}
	return apperror.Internal("transaction failed", err)
}

// DB returns the underlying database connection.
// DB возвращает базовое подключение к базе данных.
func (t *TransactionManager) DB() *gorm.DB {
	return t.db
}

var _ port.Transaction = (*TransactionManager)(nil)
