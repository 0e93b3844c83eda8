// Package breaker implements per-service circuit breaking for dependency
// probes. One circuit exists per ServiceType; a failure observed by any
// caller legitimately trips the breaker for every caller of that service.
package breaker

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goldenpath-systems/goldenpath/internal/metrics"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// ErrOpen is returned by Allow when the circuit rejects the call.
var ErrOpen = errors.New("circuit breaker open")

// OpenError wraps ErrOpen with the service whose circuit rejected the call.
type OpenError struct {
	Service types.ServiceType
	State   types.BreakerState
}

func (e *OpenError) Error() string {
	return fmt.Sprintf("circuit breaker open for %s (state %s)", e.Service, e.State)
}

func (e *OpenError) Unwrap() error { return ErrOpen }

type circuit struct {
	state         types.BreakerState
	failureCount  int
	successCount  int
	halfOpenCalls int
	halfOpenOK    int
	lastFailure   time.Time
}

// Store owns one lazily-created circuit per service type. State transitions
// are simple counter/enum mutations under a single mutex; no mutation spans
// a blocking call.
type Store struct {
	mu       sync.Mutex
	config   types.BreakerConfig
	circuits map[types.ServiceType]*circuit
	now      func() time.Time
}

// NewStore creates a breaker store with the given config. Zero config fields
// fall back to defaults.
func NewStore(config types.BreakerConfig) *Store {
	def := types.DefaultBreakerConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = def.FailureThreshold
	}
	if config.RecoveryTimeout <= 0 {
		config.RecoveryTimeout = def.RecoveryTimeout
	}
	if config.HalfOpenMaxCalls <= 0 {
		config.HalfOpenMaxCalls = def.HalfOpenMaxCalls
	}
	return &Store{
		config:   config,
		circuits: make(map[types.ServiceType]*circuit),
		now:      time.Now,
	}
}

// WithClock overrides the time source. Tests only.
func (s *Store) WithClock(now func() time.Time) *Store {
	s.now = now
	return s
}

func (s *Store) circuitFor(service types.ServiceType) *circuit {
	c, ok := s.circuits[service]
	if !ok {
		c = &circuit{state: types.BreakerClosed}
		s.circuits[service] = c
	}
	return c
}

// Allow reports whether a call to the service should proceed. An open
// circuit whose recovery timeout has elapsed transitions to half-open and
// admits the call; a half-open circuit admits calls until its probe quota
// is exhausted.
func (s *Store) Allow(service types.ServiceType) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.circuitFor(service)
	switch c.state {
	case types.BreakerClosed:
		return nil
	case types.BreakerOpen:
		if s.now().Sub(c.lastFailure) >= s.config.RecoveryTimeout {
			c.state = types.BreakerHalfOpen
			c.halfOpenCalls = 1
			c.halfOpenOK = 0
			return nil
		}
		return &OpenError{Service: service, State: types.BreakerOpen}
	case types.BreakerHalfOpen:
		if c.halfOpenCalls >= s.config.HalfOpenMaxCalls {
			return &OpenError{Service: service, State: types.BreakerHalfOpen}
		}
		c.halfOpenCalls++
		return nil
	}
	return nil
}

// RecordSuccess records a successful call. In the closed state successes
// decrement the failure count toward zero, slowly healing a degraded but
// still-closed circuit. In the half-open state, reaching the probe quota of
// consecutive successes closes the circuit and resets the failure count.
func (s *Store) RecordSuccess(service types.ServiceType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.circuitFor(service)
	c.successCount++
	switch c.state {
	case types.BreakerClosed:
		if c.failureCount > 0 {
			c.failureCount--
		}
	case types.BreakerHalfOpen:
		c.halfOpenOK++
		if c.halfOpenOK >= s.config.HalfOpenMaxCalls {
			c.state = types.BreakerClosed
			c.failureCount = 0
			c.halfOpenCalls = 0
			c.halfOpenOK = 0
		}
	}
}

// RecordFailure records a failed call. A closed circuit opens once the
// failure count reaches the threshold; a half-open circuit reverts to open
// immediately, resetting the recovery clock.
func (s *Store) RecordFailure(service types.ServiceType) {
	s.mu.Lock()
	defer s.mu.Unlock()

	c := s.circuitFor(service)
	now := s.now()
	switch c.state {
	case types.BreakerClosed:
		c.failureCount++
		c.lastFailure = now
		if c.failureCount >= s.config.FailureThreshold {
			c.state = types.BreakerOpen
			metrics.BreakerOpens.Add(1)
		}
	case types.BreakerHalfOpen:
		c.failureCount++
		c.lastFailure = now
		c.state = types.BreakerOpen
		metrics.BreakerOpens.Add(1)
		c.halfOpenCalls = 0
		c.halfOpenOK = 0
	case types.BreakerOpen:
		c.lastFailure = now
	}
}

// State returns the current state of the service's circuit.
func (s *Store) State(service types.ServiceType) types.BreakerState {
	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.circuits[service]
	if !ok {
		return types.BreakerClosed
	}
	return c.state
}

// Snapshot returns a read-only view of all known circuits.
func (s *Store) Snapshot() []types.CircuitSnapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]types.CircuitSnapshot, 0, len(s.circuits))
	for service, c := range s.circuits {
		out = append(out, types.CircuitSnapshot{
			Service:       service,
			State:         c.state,
			FailureCount:  c.failureCount,
			SuccessCount:  c.successCount,
			HalfOpenCalls: c.halfOpenCalls,
			LastFailure:   c.lastFailure,
		})
	}
	return out
}
