// Package probe defines the collaborator contracts the golden-path validator
// consumes, plus the concrete per-service probe implementations. Each probe
// validates only what its owning service exposes: local schema through the
// local introspector, everything remote through that service's health
// surface. No probe ever reaches across a service boundary into another
// service's storage.
package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// SchemaIntrospector inspects the locally-owned relational schema.
type SchemaIntrospector interface {
	TableExists(ctx context.Context, table string) (bool, error)
	IndexCount(ctx context.Context, table string) (int, error)
}

// KeyValue is the session/cache store client surface the validator needs.
type KeyValue interface {
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	Get(ctx context.Context, key string) (string, bool, error)
	TTL(ctx context.Context, key string) (time.Duration, bool, error)
	Del(ctx context.Context, key string) error
}

// Token lifecycle capabilities, probed by behavior rather than by where the
// host happens to hang the implementation. Any exposure point satisfying one
// of these interfaces provides that capability.
type (
	// AccessTokenIssuer mints short-lived access tokens.
	AccessTokenIssuer interface {
		CreateAccessToken(ctx context.Context, subject string, claims map[string]any) (string, error)
	}
	// TokenVerifier validates a presented token and returns its claims.
	TokenVerifier interface {
		VerifyToken(ctx context.Context, token string) (map[string]any, error)
	}
	// RefreshTokenIssuer mints long-lived refresh tokens.
	RefreshTokenIssuer interface {
		CreateRefreshToken(ctx context.Context, subject string) (string, error)
	}
)

// Notification capabilities the per-user event bridge must provide for agent
// progress to reach users. Probed by behavior, like the token capabilities.
type (
	// AgentStartedNotifier announces that an agent run began.
	AgentStartedNotifier interface {
		NotifyAgentStarted(ctx context.Context, userID string, payload map[string]any) error
	}
	// AgentCompletedNotifier delivers an agent run's final result.
	AgentCompletedNotifier interface {
		NotifyAgentCompleted(ctx context.Context, userID string, payload map[string]any) error
	}
	// AgentErrorNotifier delivers an agent run failure.
	AgentErrorNotifier interface {
		NotifyAgentError(ctx context.Context, userID string, message string) error
	}
)

// ServiceAvailabilityProbe checks whether one remote service is minimally
// operational, through that service's own health surface.
type ServiceAvailabilityProbe interface {
	Service() types.ServiceType
	Check(ctx context.Context) types.CheckResult
}

// Pinger is anything that can verify its backing connection.
type Pinger interface {
	Ping(ctx context.Context) error
}

// PingProbe adapts a Pinger into an availability probe, for dependencies
// reached through a client connection rather than an HTTP health endpoint.
type PingProbe struct {
	service types.ServiceType
	pinger  Pinger
}

// NewPingProbe wraps a connected client as an availability probe.
func NewPingProbe(service types.ServiceType, pinger Pinger) *PingProbe {
	return &PingProbe{service: service, pinger: pinger}
}

// Service identifies the probed dependency.
func (p *PingProbe) Service() types.ServiceType { return p.service }

// Check pings the backing connection.
func (p *PingProbe) Check(ctx context.Context) types.CheckResult {
	if err := p.pinger.Ping(ctx); err != nil {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("%s unreachable: %v", p.service, err),
		}
	}
	return types.CheckResult{
		Success: true,
		Message: fmt.Sprintf("%s reachable", p.service),
	}
}

// AgentComponents exposes the optional sub-components of the agent execution
// chain. Presence is all the validator cares about; no behavioral contract
// is required here.
type AgentComponents struct {
	Orchestrator    any
	ExecutionEngine any
	ToolDispatcher  any
	ModelServing    any
	RealtimeBridge  any
}

// RealtimeComponents exposes the host's realtime notification state. The
// connection manager may be provided directly or through a factory; either
// counts as present.
type RealtimeComponents struct {
	ConnectionManager        any
	ConnectionManagerFactory func() any
	EventBridge              any
	MessageRouter            func() any
}

// Host is the application handle handed to the validator: every collaborator
// a check may need, all optional. Probing a Host never mutates it.
type Host struct {
	DB          SchemaIntrospector
	OwnedTables []string
	Cache       KeyValue
	// AuthExposures lists every place the host may expose token
	// capabilities (legacy key manager, auth service facade, token
	// helpers). Capability checks scan all of them.
	AuthExposures []any
	Agent         AgentComponents
	Realtime      RealtimeComponents
	Remotes       map[types.ServiceType]ServiceAvailabilityProbe
}

// Remote returns the availability probe for a service, if configured.
func (h *Host) Remote(service types.ServiceType) (ServiceAvailabilityProbe, bool) {
	if h.Remotes == nil {
		return nil, false
	}
	p, ok := h.Remotes[service]
	return p, ok
}
