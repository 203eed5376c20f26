package circuitbreaker_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrewhigh08/audit-tracker/internal/pkg/apperror"
	"github.com/andrewhigh08/audit-tracker/internal/pkg/circuitbreaker"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{now: time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

var errDBDown = apperror.Internal("database connection failed", errors.New("connection refused"))

func failing(context.Context) error { return errDBDown }
func passing(context.Context) error { return nil }

func newBreaker(clock *fakeClock, maxFailures int) *circuitbreaker.CircuitBreaker {
	return circuitbreaker.New(circuitbreaker.Config{
		Name:        "postgres-user-read",
		MaxFailures: maxFailures,
		Timeout:     30 * time.Second,
		Now:         clock.Now,
	})
}

func TestCircuitBreaker_InitialState(t *testing.T) {
	cb := circuitbreaker.New(circuitbreaker.DefaultConfig("redis-authz"))

	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	assert.Equal(t, 0, cb.Failures())
	assert.Equal(t, "redis-authz", cb.Name())
}

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb := newBreaker(newFakeClock(), 3)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.Error(t, cb.Execute(ctx, failing))
		assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	}
	require.Error(t, cb.Execute(ctx, failing))
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())

	calls := 0
	err := cb.Execute(ctx, func(context.Context) error {
		calls++
		return nil
	})
	require.Error(t, err)
	assert.Zero(t, calls)
	assert.True(t, apperror.HasCode(err, apperror.CodeServiceUnavailable))
	assert.Contains(t, err.Error(), "circuit breaker open")

	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, "postgres-user-read", appErr.Details["breaker"])
}

func TestCircuitBreaker_BusinessErrorsDoNotCount(t *testing.T) {
	cb := newBreaker(newFakeClock(), 2)
	ctx := context.Background()

	businessErrors := []error{
		apperror.NotFound("audit", 7),
		apperror.PreconditionFailed("account is already active"),
		apperror.CodeMismatch(),
		context.Canceled,
	}
	for _, businessErr := range businessErrors {
		err := cb.Execute(ctx, func(context.Context) error { return businessErr })
		assert.ErrorIs(t, err, businessErr)
	}

	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	assert.Equal(t, 0, cb.Failures())
}

func TestIsFailure(t *testing.T) {
	assert.False(t, circuitbreaker.IsFailure(nil))
	assert.False(t, circuitbreaker.IsFailure(context.Canceled))
	assert.False(t, circuitbreaker.IsFailure(apperror.NotFound("user", 1)))
	assert.True(t, circuitbreaker.IsFailure(errDBDown))
	assert.True(t, circuitbreaker.IsFailure(apperror.ServiceUnavailable("smtp down")))
	assert.True(t, circuitbreaker.IsFailure(errors.New("dial tcp: connection refused")))
	assert.True(t, circuitbreaker.IsFailure(context.DeadlineExceeded))
}

func TestCircuitBreaker_HalfOpenTrialCloses(t *testing.T) {
	clock := newFakeClock()
	cb := newBreaker(clock, 1)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.Equal(t, circuitbreaker.StateOpen, cb.State())

	clock.Advance(29 * time.Second)
	assert.Error(t, cb.Execute(ctx, passing))
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())

	clock.Advance(2 * time.Second)
	assert.NoError(t, cb.Execute(ctx, passing))
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	clock := newFakeClock()
	cb := newBreaker(clock, 1)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	clock.Advance(31 * time.Second)

	require.Error(t, cb.Execute(ctx, failing))
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())

	// the open period restarts from the failed trial
	clock.Advance(10 * time.Second)
	err := cb.Execute(ctx, passing)
	assert.True(t, apperror.HasCode(err, apperror.CodeServiceUnavailable))
}

func TestCircuitBreaker_HalfOpenLimitsTrials(t *testing.T) {
	clock := newFakeClock()
	cb := newBreaker(clock, 1)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	clock.Advance(31 * time.Second)

	release := make(chan struct{})
	started := make(chan struct{})
	done := make(chan error, 1)
	go func() {
		done <- cb.Execute(ctx, func(context.Context) error {
			close(started)
			<-release
			return nil
		})
	}()
	<-started

	err := cb.Execute(ctx, passing)
	assert.Contains(t, err.Error(), "half-open")

	close(release)
	assert.NoError(t, <-done)
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_Reset(t *testing.T) {
	cb := newBreaker(newFakeClock(), 1)
	require.Error(t, cb.Execute(context.Background(), failing))
	require.Equal(t, circuitbreaker.StateOpen, cb.State())

	cb.Reset()

	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	assert.NoError(t, cb.Execute(context.Background(), passing))
}

func TestExecuteWithResult(t *testing.T) {
	cb := newBreaker(newFakeClock(), 1)
	ctx := context.Background()

	total, err := circuitbreaker.ExecuteWithResult(ctx, cb, func(context.Context) (int64, error) {
		return 12, nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(12), total)

	_, err = circuitbreaker.ExecuteWithResult(ctx, cb, func(context.Context) (int64, error) {
		return 0, errDBDown
	})
	require.Error(t, err)

	total, err = circuitbreaker.ExecuteWithResult(ctx, cb, func(context.Context) (int64, error) {
		return 99, nil
	})
	assert.Error(t, err)
	assert.Zero(t, total)
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	clock := newFakeClock()
	transitions := make(chan [2]circuitbreaker.State, 4)
	cb := circuitbreaker.New(circuitbreaker.Config{
		Name:        "smtp",
		MaxFailures: 1,
		Timeout:     time.Second,
		Now:         clock.Now,
		OnStateChange: func(name string, from, to circuitbreaker.State) {
			assert.Equal(t, "smtp", name)
			transitions <- [2]circuitbreaker.State{from, to}
		},
	})
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	assert.Equal(t, [2]circuitbreaker.State{circuitbreaker.StateClosed, circuitbreaker.StateOpen}, <-transitions)

	clock.Advance(2 * time.Second)
	require.NoError(t, cb.Execute(ctx, passing))

	// callbacks run in their own goroutines, so the order is not fixed
	got := [][2]circuitbreaker.State{<-transitions, <-transitions}
	assert.ElementsMatch(t, [][2]circuitbreaker.State{
		{circuitbreaker.StateOpen, circuitbreaker.StateHalfOpen},
		{circuitbreaker.StateHalfOpen, circuitbreaker.StateClosed},
	}, got)
}

func TestCircuitBreaker_SuccessResetsFailureCount(t *testing.T) {
	cb := newBreaker(newFakeClock(), 3)
	ctx := context.Background()

	require.Error(t, cb.Execute(ctx, failing))
	require.Error(t, cb.Execute(ctx, failing))
	assert.Equal(t, 2, cb.Failures())

	require.NoError(t, cb.Execute(ctx, passing))
	assert.Equal(t, 0, cb.Failures())
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

func TestCircuitBreaker_ConcurrentAccess(t *testing.T) {
	cb := newBreaker(newFakeClock(), 1000)
	ctx := context.Background()

	var calls atomic.Int64
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_ = cb.Execute(ctx, func(context.Context) error {
				calls.Add(1)
				if i%2 == 0 {
					return errDBDown
				}
				return nil
			})
		}(i)
	}
	wg.Wait()

	assert.Equal(t, int64(50), calls.Load())
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "closed", circuitbreaker.StateClosed.String())
	assert.Equal(t, "open", circuitbreaker.StateOpen.String())
	assert.Equal(t, "half-open", circuitbreaker.StateHalfOpen.String())
	assert.Equal(t, "unknown", circuitbreaker.State(9).String())
}

func TestNew_FillsDefaults(t *testing.T) {
	clock := newFakeClock()
	cb := circuitbreaker.New(circuitbreaker.Config{Name: "defaults", Now: clock.Now})
	ctx := context.Background()

	for i := 0; i < 4; i++ {
		require.Error(t, cb.Execute(ctx, failing))
	}
	assert.Equal(t, circuitbreaker.StateClosed, cb.State())
	require.Error(t, cb.Execute(ctx, failing))
	assert.Equal(t, circuitbreaker.StateOpen, cb.State())

	clock.Advance(31 * time.Second)
	assert.NoError(t, cb.Execute(ctx, passing))
}
