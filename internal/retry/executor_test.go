package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/goldenpath-systems/goldenpath/internal/breaker"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func fastPolicy(maxRetries int) func(types.ServiceType, types.EnvironmentType) types.RetryPolicy {
	return func(types.ServiceType, types.EnvironmentType) types.RetryPolicy {
		return types.RetryPolicy{
			Timeout:    time.Second,
			MaxRetries: maxRetries,
			DelayBase:  time.Millisecond,
			Strategy:   types.RetryNone,
		}
	}
}

func newTestExecutor(t *testing.T, maxRetries int) *Executor {
	t.Helper()
	store := breaker.NewStore(types.DefaultBreakerConfig())
	return NewExecutor(types.EnvTesting, store, slog.Default()).
		WithPolicyFunc(fastPolicy(maxRetries)).
		WithSleep(func(context.Context, time.Duration) error { return nil })
}

func TestExecute_SucceedsFirstAttempt(t *testing.T) {
	e := newTestExecutor(t, 3)

	calls := 0
	err := e.Execute(context.Background(), types.ServiceRedis, "ping", func(context.Context) error {
		calls++
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 1, calls)
	assert.Equal(t, types.BreakerClosed, e.Breakers().State(types.ServiceRedis))
}

func TestExecute_RetriesThenSucceeds(t *testing.T) {
	e := newTestExecutor(t, 3)

	calls := 0
	err := e.Execute(context.Background(), types.ServicePostgres, "table check", func(context.Context) error {
		calls++
		if calls < 3 {
			return errors.New("connection refused")
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestExecute_ExhaustionChainsToRootCause(t *testing.T) {
	e := newTestExecutor(t, 2)

	rootCause := fmt.Errorf("dial tcp: %w", errors.New("connection refused"))
	calls := 0
	err := e.Execute(context.Background(), types.ServiceAuth, "capability probe", func(context.Context) error {
		calls++
		return rootCause
	})

	require.Error(t, err)
	assert.Equal(t, 3, calls) // maxRetries + 1

	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Equal(t, "capability probe", ex.Operation)
	assert.Equal(t, types.ServiceAuth, ex.Service)
	assert.Equal(t, 3, ex.Attempts)
	// The cause is the exact last error instance, identity-equal.
	assert.Same(t, rootCause, errors.Unwrap(err))
	assert.ErrorIs(t, err, rootCause)
	assert.Contains(t, err.Error(), "capability probe")
	assert.Contains(t, err.Error(), "auth_service")
	assert.Contains(t, err.Error(), "3 attempts")
	assert.Contains(t, err.Error(), "connection refused")
}

func TestExecute_BreakerOpenRejectsWithoutAttempts(t *testing.T) {
	store := breaker.NewStore(types.BreakerConfig{FailureThreshold: 1, RecoveryTimeout: time.Hour})
	e := NewExecutor(types.EnvTesting, store, nil).
		WithPolicyFunc(fastPolicy(3)).
		WithSleep(func(context.Context, time.Duration) error { return nil })

	store.RecordFailure(types.ServiceBackend)
	require.Equal(t, types.BreakerOpen, store.State(types.ServiceBackend))

	calls := 0
	err := e.Execute(context.Background(), types.ServiceBackend, "chain check", func(context.Context) error {
		calls++
		return nil
	})

	require.Error(t, err)
	assert.Equal(t, 0, calls)

	var boe *BreakerOpenError
	require.ErrorAs(t, err, &boe)
	assert.ErrorIs(t, err, breaker.ErrOpen)

	var ex *ExhaustedError
	assert.False(t, errors.As(err, &ex), "breaker rejection must be distinguishable from exhaustion")
}

func TestExecute_BreakerOpeningMidLoopAbortsEarly(t *testing.T) {
	store := breaker.NewStore(types.BreakerConfig{FailureThreshold: 2, RecoveryTimeout: time.Hour})
	e := NewExecutor(types.EnvTesting, store, nil).
		WithPolicyFunc(fastPolicy(5)).
		WithSleep(func(context.Context, time.Duration) error { return nil })

	calls := 0
	err := e.Execute(context.Background(), types.ServiceWebsocket, "bridge check", func(context.Context) error {
		calls++
		return errors.New("gateway unavailable")
	})

	require.Error(t, err)
	// Threshold 2: the loop must stop after two failures, not run all six.
	assert.Equal(t, 2, calls)

	var boe *BreakerOpenError
	require.ErrorAs(t, err, &boe)
	assert.EqualError(t, boe.LastErr, "gateway unavailable")
}

func TestExecute_AttemptTimeoutCountsAsFailure(t *testing.T) {
	store := breaker.NewStore(types.DefaultBreakerConfig())
	e := NewExecutor(types.EnvTesting, store, nil).
		WithPolicyFunc(func(types.ServiceType, types.EnvironmentType) types.RetryPolicy {
			return types.RetryPolicy{Timeout: 20 * time.Millisecond, MaxRetries: 1, Strategy: types.RetryNone}
		}).
		WithSleep(func(context.Context, time.Duration) error { return nil })

	err := e.Execute(context.Background(), types.ServiceLLM, "slow op", func(ctx context.Context) error {
		<-ctx.Done()
		return ctx.Err()
	})

	var ex *ExhaustedError
	require.ErrorAs(t, err, &ex)
	assert.Contains(t, err.Error(), "timed out")
}

func TestExecute_ContextCancellationStopsRetrying(t *testing.T) {
	e := newTestExecutor(t, 10)
	ctx, cancel := context.WithCancel(context.Background())

	calls := 0
	err := e.Execute(ctx, types.ServiceRedis, "round trip", func(context.Context) error {
		calls++
		cancel()
		return errors.New("boom")
	})

	require.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, calls)
}

func TestDo_ReturnsValueAndRetries(t *testing.T) {
	e := newTestExecutor(t, 2)

	calls := 0
	got, err := Do(context.Background(), e, types.ServicePostgres, "count indexes", func(context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errors.New("transient")
		}
		return 7, nil
	})

	require.NoError(t, err)
	assert.Equal(t, 7, got)
}

func TestDo_ZeroValueOnFailure(t *testing.T) {
	e := newTestExecutor(t, 0)

	got, err := Do(context.Background(), e, types.ServicePostgres, "count indexes", func(context.Context) (int, error) {
		return 42, errors.New("nope")
	})

	require.Error(t, err)
	assert.Zero(t, got)
}
