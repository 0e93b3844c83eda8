// Package testutil provides shared stubs and helpers for validation tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// WaitFor polls check every 10ms until it returns true or timeout is reached.
func WaitFor(t *testing.T, timeout time.Duration, check func() bool, msg string) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		if check() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for condition: %s", msg)
}

// StubIntrospector fakes schema introspection from fixed maps.
type StubIntrospector struct {
	Tables  map[string]bool
	Indexes map[string]int
	Err     error
}

func (s *StubIntrospector) TableExists(_ context.Context, table string) (bool, error) {
	if s.Err != nil {
		return false, s.Err
	}
	return s.Tables[table], nil
}

func (s *StubIntrospector) IndexCount(_ context.Context, table string) (int, error) {
	if s.Err != nil {
		return 0, s.Err
	}
	return s.Indexes[table], nil
}

// StubKV is an in-memory KeyValue with optional fault injection.
type StubKV struct {
	mu         sync.Mutex
	data       map[string]string
	ttls       map[string]time.Duration
	SetErr     error
	GetErr     error
	NoTTL      bool
	CorruptGet bool
}

// NewStubKV creates an empty in-memory key-value stub.
func NewStubKV() *StubKV {
	return &StubKV{data: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (s *StubKV) Set(_ context.Context, key, value string, ttl time.Duration) error {
	if s.SetErr != nil {
		return s.SetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data[key] = value
	s.ttls[key] = ttl
	return nil
}

func (s *StubKV) Get(_ context.Context, key string) (string, bool, error) {
	if s.GetErr != nil {
		return "", false, s.GetErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.data[key]
	if s.CorruptGet {
		return v + "_corrupted", ok, nil
	}
	return v, ok, nil
}

func (s *StubKV) TTL(_ context.Context, key string) (time.Duration, bool, error) {
	if s.NoTTL {
		return 0, false, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.ttls[key]
	return d, ok && d > 0, nil
}

func (s *StubKV) Del(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.data, key)
	delete(s.ttls, key)
	return nil
}

// StubProbe is a canned ServiceAvailabilityProbe.
type StubProbe struct {
	ServiceType types.ServiceType
	Result      types.CheckResult
	Calls       int
}

func (s *StubProbe) Service() types.ServiceType { return s.ServiceType }

func (s *StubProbe) Check(context.Context) types.CheckResult {
	s.Calls++
	return s.Result
}

// HealthyProbe returns a probe that always reports the service healthy.
func HealthyProbe(service types.ServiceType) *StubProbe {
	return &StubProbe{
		ServiceType: service,
		Result:      types.CheckResult{Success: true, Message: fmt.Sprintf("%s healthy", service)},
	}
}

// DownProbe returns a probe that always reports the service unavailable.
func DownProbe(service types.ServiceType) *StubProbe {
	return &StubProbe{
		ServiceType: service,
		Result:      types.CheckResult{Success: false, Message: fmt.Sprintf("%s unreachable", service)},
	}
}

// TokenSuite satisfies all three token capabilities.
type TokenSuite struct{}

func (TokenSuite) CreateAccessToken(context.Context, string, map[string]any) (string, error) {
	return "access", nil
}

func (TokenSuite) VerifyToken(context.Context, string) (map[string]any, error) {
	return map[string]any{}, nil
}

func (TokenSuite) CreateRefreshToken(context.Context, string) (string, error) {
	return "refresh", nil
}

// VerifierOnly exposes only token verification.
type VerifierOnly struct{}

func (VerifierOnly) VerifyToken(context.Context, string) (map[string]any, error) {
	return map[string]any{}, nil
}

// FullBridge satisfies all three agent event notification capabilities.
type FullBridge struct{}

func (FullBridge) NotifyAgentStarted(context.Context, string, map[string]any) error { return nil }
func (FullBridge) NotifyAgentCompleted(context.Context, string, map[string]any) error {
	return nil
}
func (FullBridge) NotifyAgentError(context.Context, string, string) error { return nil }

// PartialBridge is missing the error notification capability.
type PartialBridge struct{}

func (PartialBridge) NotifyAgentStarted(context.Context, string, map[string]any) error { return nil }
func (PartialBridge) NotifyAgentCompleted(context.Context, string, map[string]any) error {
	return nil
}

// RecordingAlertSink captures dispatched alerts.
type RecordingAlertSink struct {
	mu     sync.Mutex
	Alerts []types.Alert
}

func (r *RecordingAlertSink) Dispatch(_ context.Context, a types.Alert) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Alerts = append(r.Alerts, a)
}
