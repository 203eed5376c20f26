// Package circuitbreaker guards calls to PostgreSQL, Redis and the mail transport.
// Пакет circuitbreaker защищает вызовы PostgreSQL, Redis и почтового транспорта.
//
// After MaxFailures consecutive infrastructure failures the breaker opens and
// rejects calls with SERVICE_UNAVAILABLE until Timeout passes; then a limited
// number of trial calls decide whether it closes again. Business errors
// (NOT_FOUND, PRECONDITION_FAILED, ...) and cancelled contexts never count.
//
// После MaxFailures подряд инфраструктурных сбоев breaker размыкается и
// отклоняет вызовы с SERVICE_UNAVAILABLE до истечения Timeout; затем несколько
// пробных вызовов решают, замкнётся ли он снова. Бизнес-ошибки и отменённые
// контексты не учитываются.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
)

// State represents the current state of the circuit breaker.
// State представляет текущее состояние circuit breaker.
type State int

// Breaker states.
const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds the configuration for a circuit breaker.
// Config содержит конфигурацию для circuit breaker.
type Config struct {
	Name                string        // used in errors and callbacks / используется в ошибках и callback'ах
	MaxFailures         int           // consecutive failures before opening / сбоев подряд до размыкания
	Timeout             time.Duration // open period before probing / время до пробных запросов
	MaxHalfOpenRequests int           // trial calls allowed while half-open / пробных запросов в half-open

	// OnStateChange is invoked asynchronously on every transition.
	// OnStateChange вызывается асинхронно при каждом переходе.
	OnStateChange func(name string, from, to State)

	// Now overrides the clock. Defaults to time.Now.
	Now func() time.Time
}

// DefaultConfig returns a default circuit breaker configuration.
// DefaultConfig возвращает конфигурацию circuit breaker по умолчанию.
func DefaultConfig(name string) Config {
	return Config{
		Name:                name,
		MaxFailures:         5,
		Timeout:             30 * time.Second,
		MaxHalfOpenRequests: 1,
	}
}

// CircuitBreaker implements the circuit breaker pattern.
// CircuitBreaker реализует паттерн circuit breaker.
type CircuitBreaker struct {
	config Config

	mu        sync.RWMutex
	state     State
	failures  int
	successes int
	openedAt  time.Time
	trials    int
}

// New creates a new circuit breaker, filling unset fields with defaults.
// New создаёт circuit breaker, заполняя незаданные поля значениями по умолчанию.
func New(config Config) *CircuitBreaker {
	defaults := DefaultConfig(config.Name)
	if config.MaxFailures <= 0 {
		config.MaxFailures = defaults.MaxFailures
	}
	if config.Timeout <= 0 {
		config.Timeout = defaults.Timeout
	}
	if config.MaxHalfOpenRequests <= 0 {
		config.MaxHalfOpenRequests = defaults.MaxHalfOpenRequests
	}
	if config.Now == nil {
		config.Now = time.Now
	}

	return &CircuitBreaker{config: config, state: StateClosed}
}

// Name returns the breaker name.
func (cb *CircuitBreaker) Name() string { return cb.config.Name }

// Execute runs fn unless the breaker is open.
// Execute выполняет fn, если breaker не разомкнут.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(context.Context) error) error {
	if err := cb.acquire(); err != nil {
		return err
	}

	err := fn(ctx)
	cb.record(err)
	return err
}

// ExecuteWithResult runs a function that returns a value with circuit breaker protection.
// ExecuteWithResult запускает функцию, возвращающую значение, с защитой circuit breaker.
func ExecuteWithResult[T any](ctx context.Context, cb *CircuitBreaker, fn func(context.Context) (T, error)) (T, error) {
	var zero T
	if err := cb.acquire(); err != nil {
		return zero, err
	}

	result, err := fn(ctx)
	cb.record(err)
	return result, err
}

func (cb *CircuitBreaker) acquire() error {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateOpen:
		if cb.config.Now().Sub(cb.openedAt) <= cb.config.Timeout {
			return cb.unavailable("open")
		}
		cb.setState(StateHalfOpen)
		cb.trials = 1
		return nil
	case StateHalfOpen:
		if cb.trials >= cb.config.MaxHalfOpenRequests {
			return cb.unavailable("half-open")
		}
		cb.trials++
		return nil
	default:
		return nil
	}
}

func (cb *CircuitBreaker) unavailable(state string) error {
	return apperror.ServiceUnavailable("service temporarily unavailable (circuit breaker "+state+")").
		WithDetails(map[string]interface{}{"breaker": cb.config.Name})
}

func (cb *CircuitBreaker) record(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch {
	case err == nil:
		cb.onSuccess()
	case IsFailure(err):
		cb.onFailure()
	}
}

// IsFailure reports whether err counts towards opening a breaker: any error
// except business AppErrors and context cancellation.
// IsFailure сообщает, учитывается ли err при размыкании: любая ошибка,
// кроме бизнес-ошибок AppError и отмены контекста.
func IsFailure(err error) bool {
	if err == nil || errors.Is(err, context.Canceled) {
		return false
	}
	if appErr, ok := apperror.AsAppError(err); ok {
		return appErr.Code == apperror.CodeInternal || appErr.Code == apperror.CodeServiceUnavailable
	}
	return true
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++
	switch cb.state {
	case StateClosed:
		if cb.failures >= cb.config.MaxFailures {
			cb.setState(StateOpen)
		}
	case StateHalfOpen:
		cb.setState(StateOpen)
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateClosed:
		cb.failures = 0
	case StateHalfOpen:
		cb.successes++
		if cb.successes >= cb.config.MaxHalfOpenRequests {
			cb.setState(StateClosed)
		}
	}
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(next State) {
	if cb.state == next {
		return
	}

	prev := cb.state
	cb.state = next
	cb.failures = 0
	cb.successes = 0
	cb.trials = 0
	if next == StateOpen {
		cb.openedAt = cb.config.Now()
	}

	if cb.config.OnStateChange != nil {
		go cb.config.OnStateChange(cb.config.Name, prev, next)
	}
}

// State returns the current state of the circuit breaker.
// State возвращает текущее состояние circuit breaker.
func (cb *CircuitBreaker) State() State {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.state
}

// Failures returns the current failure count.
func (cb *CircuitBreaker) Failures() int {
	cb.mu.RLock()
	defer cb.mu.RUnlock()
	return cb.failures
}

// Reset forces the breaker back to closed.
// Reset принудительно замыкает breaker.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.state = StateClosed
	cb.failures = 0
	cb.successes = 0
	cb.trials = 0
}
