package retry

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"time"

	"github.com/goldenpath-systems/goldenpath/internal/breaker"
	"github.com/goldenpath-systems/goldenpath/internal/metrics"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// ExhaustedError is raised when every retry attempt has failed. Unwrap
// returns the exact last underlying error instance, so the root cause is
// never lost no matter what type it was.
type ExhaustedError struct {
	Operation string
	Service   types.ServiceType
	Attempts  int
	Cause     error
}

func (e *ExhaustedError) Error() string {
	return fmt.Sprintf("operation %q for %s failed after %d attempts: %v (%T)",
		e.Operation, e.Service, e.Attempts, e.Cause, e.Cause)
}

func (e *ExhaustedError) Unwrap() error { return e.Cause }

// BreakerOpenError is raised when the circuit breaker disallows the call.
// Unlike ExhaustedError it consumed no retry attempts; LastErr carries the
// last attempt's error when the circuit opened mid-loop.
type BreakerOpenError struct {
	Operation string
	Service   types.ServiceType
	LastErr   error
	open      *breaker.OpenError
}

func (e *BreakerOpenError) Error() string {
	if e.LastErr != nil {
		return fmt.Sprintf("operation %q for %s aborted: %v (last error: %v)",
			e.Operation, e.Service, e.open, e.LastErr)
	}
	return fmt.Sprintf("operation %q for %s rejected: %v", e.Operation, e.Service, e.open)
}

func (e *BreakerOpenError) Unwrap() error { return e.open }

// Executor runs operations with per-attempt timeouts, the policy's backoff
// schedule and the breaker store's admission checks. Construct one per
// process and inject it everywhere; tests construct isolated instances.
type Executor struct {
	breakers *breaker.Store
	env      types.EnvironmentType
	policyFn func(types.ServiceType, types.EnvironmentType) types.RetryPolicy
	logger   *slog.Logger
	sleep    func(context.Context, time.Duration) error
	jitter   func() float64
}

// NewExecutor creates an executor for the given environment backed by the
// given breaker store.
func NewExecutor(env types.EnvironmentType, breakers *breaker.Store, logger *slog.Logger) *Executor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Executor{
		breakers: breakers,
		env:      env,
		policyFn: PolicyFor,
		logger:   logger,
		sleep:    sleepCtx,
		jitter:   rand.Float64,
	}
}

// WithPolicyFunc overrides the policy source. Tests only.
func (e *Executor) WithPolicyFunc(fn func(types.ServiceType, types.EnvironmentType) types.RetryPolicy) *Executor {
	e.policyFn = fn
	return e
}

// WithSleep overrides the inter-attempt sleep. Tests only.
func (e *Executor) WithSleep(fn func(context.Context, time.Duration) error) *Executor {
	e.sleep = fn
	return e
}

// WithJitter overrides the jitter source. Tests only.
func (e *Executor) WithJitter(fn func() float64) *Executor {
	e.jitter = fn
	return e
}

// Breakers exposes the executor's breaker store for status reporting.
func (e *Executor) Breakers() *breaker.Store { return e.breakers }

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Execute runs op under the service's retry policy. The breaker is consulted
// before the first attempt and again between attempts, so a circuit that
// opens mid-loop aborts early instead of exhausting the schedule. On
// exhaustion the returned ExhaustedError unwraps to the last attempt's error.
func (e *Executor) Execute(ctx context.Context, service types.ServiceType, operation string, op func(context.Context) error) error {
	if err := e.breakers.Allow(service); err != nil {
		var oe *breaker.OpenError
		errors.As(err, &oe)
		metrics.BreakerRejections.Add(1)
		return &BreakerOpenError{Operation: operation, Service: service, open: oe}
	}

	policy := e.policyFn(service, e.env)
	attempts := policy.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := e.attempt(ctx, policy, op)
		if err == nil {
			e.breakers.RecordSuccess(service)
			return nil
		}
		lastErr = err
		e.breakers.RecordFailure(service)
		e.logger.Debug("attempt failed",
			"operation", operation,
			"service", string(service),
			"attempt", attempt+1,
			"of", attempts,
			"error", err)

		if attempt == attempts-1 {
			break
		}

		delay := Backoff(policy, attempt, e.env, e.jitter)
		metrics.RetriesScheduled.Add(1)
		if err := e.sleep(ctx, delay); err != nil {
			return err
		}
		if err := e.breakers.Allow(service); err != nil {
			var oe *breaker.OpenError
			errors.As(err, &oe)
			metrics.BreakerRejections.Add(1)
			return &BreakerOpenError{Operation: operation, Service: service, LastErr: lastErr, open: oe}
		}
	}

	metrics.RetryExhaustions.Add(1)
	return &ExhaustedError{Operation: operation, Service: service, Attempts: attempts, Cause: lastErr}
}

func (e *Executor) attempt(ctx context.Context, policy types.RetryPolicy, op func(context.Context) error) error {
	actx, cancel := context.WithTimeout(ctx, policy.Timeout)
	defer cancel()

	err := op(actx)
	if err != nil && actx.Err() == context.DeadlineExceeded {
		return fmt.Errorf("timed out after %s: %w", policy.Timeout, err)
	}
	return err
}

// Do runs an operation producing a value under the executor's retry
// discipline. A zero T is returned alongside any error.
func Do[T any](ctx context.Context, e *Executor, service types.ServiceType, operation string, op func(context.Context) (T, error)) (T, error) {
	var out T
	err := e.Execute(ctx, service, operation, func(ctx context.Context) error {
		v, err := op(ctx)
		if err != nil {
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		var zero T
		return zero, err
	}
	return out, nil
}
