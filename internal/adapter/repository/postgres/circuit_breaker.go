package postgres

import (
	"context"
	"time"

	"github.com/andrewhigh08/audit-tracker/internal/domain"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/circuitbreaker"
	"github.com/andrewhigh08/audit-tracker/internal/port"
)

// BreakerConfig configures the breakers placed in front of PostgreSQL.
// BreakerConfig настраивает breaker'ы перед PostgreSQL.
//
// Only standalone calls are guarded. Tx methods run inside a transaction that
// succeeds or fails as a unit, so they pass straight through.
// Защищаются только самостоятельные вызовы. Методы Tx выполняются внутри
// транзакции, которая завершается целиком, поэтому проходят напрямую.
type BreakerConfig struct {
	MaxFailures   int
	Timeout       time.Duration
	OnStateChange func(name string, from, to circuitbreaker.State)
}

// DefaultBreakerConfig opens after 3 failures and retries after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{MaxFailures: 3, Timeout: 30 * time.Second}
}

func (c BreakerConfig) breaker(name string) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		Name:                name,
		MaxFailures:         c.MaxFailures,
		Timeout:             c.Timeout,
		MaxHalfOpenRequests: 1,
		OnStateChange:       c.OnStateChange,
	})
}

// ==================== Users ====================

// GuardedUserRepository guards the standalone reads and writes of a user repository.
// GuardedUserRepository защищает самостоятельные чтения и записи пользователей.
type GuardedUserRepository struct {
	port.UserRepository
	read  *circuitbreaker.CircuitBreaker
	write *circuitbreaker.CircuitBreaker
}

// NewGuardedUserRepository wraps repo with separate read and write breakers.
func NewGuardedUserRepository(repo port.UserRepository, cfg BreakerConfig) *GuardedUserRepository {
	return &GuardedUserRepository{
		UserRepository: repo,
		read:           cfg.breaker("postgres-user-read"),
		write:          cfg.breaker("postgres-user-write"),
	}
}

func (r *GuardedUserRepository) Create(ctx context.Context, user *domain.User) error {
	return r.write.Execute(ctx, func(ctx context.Context) error {
		return r.UserRepository.Create(ctx, user)
	})
}

func (r *GuardedUserRepository) Update(ctx context.Context, user *domain.User) error {
	return r.write.Execute(ctx, func(ctx context.Context) error {
		return r.UserRepository.Update(ctx, user)
	})
}

func (r *GuardedUserRepository) UpdateLastLogin(ctx context.Context, id int64, at time.Time) error {
	return r.write.Execute(ctx, func(ctx context.Context) error {
		return r.UserRepository.UpdateLastLogin(ctx, id, at)
	})
}

func (r *GuardedUserRepository) FindByID(ctx context.Context, id int64) (*domain.User, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) (*domain.User, error) {
		return r.UserRepository.FindByID(ctx, id)
	})
}

func (r *GuardedUserRepository) FindByEmail(ctx context.Context, email string) (*domain.User, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) (*domain.User, error) {
		return r.UserRepository.FindByEmail(ctx, email)
	})
}

func (r *GuardedUserRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) (bool, error) {
		return r.UserRepository.ExistsByEmail(ctx, email)
	})
}

func (r *GuardedUserRepository) ListOperators(ctx context.Context, filter domain.OperatorFilter) ([]domain.User, int64, error) {
	type page struct {
		users []domain.User
		total int64
	}
	p, err := circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) (page, error) {
		users, total, err := r.UserRepository.ListOperators(ctx, filter)
		return page{users, total}, err
	})
	return p.users, p.total, err
}

// ReadState returns the state of the read breaker.
func (r *GuardedUserRepository) ReadState() circuitbreaker.State { return r.read.State() }

// WriteState returns the state of the write breaker.
func (r *GuardedUserRepository) WriteState() circuitbreaker.State { return r.write.State() }

// ==================== Audits ====================

// GuardedAuditRepository guards the dashboard and listing reads of an audit repository.
// GuardedAuditRepository защищает чтения дашбордов и списков аудитов.
type GuardedAuditRepository struct {
	port.AuditRepository
	read *circuitbreaker.CircuitBreaker
}

// NewGuardedAuditRepository wraps repo with a read breaker.
func NewGuardedAuditRepository(repo port.AuditRepository, cfg BreakerConfig) *GuardedAuditRepository {
	return &GuardedAuditRepository{AuditRepository: repo, read: cfg.breaker("postgres-audit-read")}
}

func (r *GuardedAuditRepository) FindByID(ctx context.Context, id int64) (*domain.Audit, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) (*domain.Audit, error) {
		return r.AuditRepository.FindByID(ctx, id)
	})
}

func (r *GuardedAuditRepository) ListByAssignee(ctx context.Context, userID int64) ([]domain.Audit, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) ([]domain.Audit, error) {
		return r.AuditRepository.ListByAssignee(ctx, userID)
	})
}

func (r *GuardedAuditRepository) ListUnassigned(ctx context.Context) ([]domain.Audit, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) ([]domain.Audit, error) {
		return r.AuditRepository.ListUnassigned(ctx)
	})
}

func (r *GuardedAuditRepository) Stats(ctx context.Context, assigneeID *int64, now time.Time) (domain.AuditStats, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) (domain.AuditStats, error) {
		return r.AuditRepository.Stats(ctx, assigneeID, now)
	})
}

func (r *GuardedAuditRepository) StatsByAssignee(ctx context.Context, now time.Time) (map[int64]domain.AuditStats, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) (map[int64]domain.AuditStats, error) {
		return r.AuditRepository.StatsByAssignee(ctx, now)
	})
}

func (r *GuardedAuditRepository) ListDelayed(ctx context.Context, assigneeID *int64, now time.Time, limit int) ([]domain.Audit, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) ([]domain.Audit, error) {
		return r.AuditRepository.ListDelayed(ctx, assigneeID, now, limit)
	})
}

func (r *GuardedAuditRepository) ListRecent(ctx context.Context, assigneeID *int64, limit int) ([]domain.Audit, error) {
	return circuitbreaker.ExecuteWithResult(ctx, r.read, func(ctx context.Context) ([]domain.Audit, error) {
		return r.AuditRepository.ListRecent(ctx, assigneeID, limit)
	})
}

// State returns the state of the read breaker.
func (r *GuardedAuditRepository) State() circuitbreaker.State { return r.read.State() }

var (
	_ port.UserRepository  = (*GuardedUserRepository)(nil)
	_ port.AuditRepository = (*GuardedAuditRepository)(nil)
)
