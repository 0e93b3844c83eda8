package validator

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/goldenpath-systems/goldenpath/internal/probe"
	"github.com/goldenpath-systems/goldenpath/internal/registry"
	"github.com/goldenpath-systems/goldenpath/internal/retry"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// Component-presence thresholds. These ratios are operational policy carried
// over from the platform's readiness rules; their derivation is undocumented
// and they should be confirmed with stakeholders before being hardened.
const (
	agentChainRatio        = 0.8
	websocketMinComponents = 3
	websocketComponents    = 4
)

const sessionProbeTTL = 60 * time.Second

// Checks builds the golden-path check set. Network-bound checks run through
// the executor's retry and circuit-breaker discipline when one is provided.
type Checks struct {
	exec *retry.Executor
}

// NewChecks creates the check set factory. exec may be nil, in which case
// checks run exactly once with no breaker protection.
func NewChecks(exec *retry.Executor) *Checks {
	return &Checks{exec: exec}
}

// Set returns the registry dispatch table for all implemented services.
func (c *Checks) Set() registry.CheckSet {
	return registry.CheckSet{
		types.ServicePostgres: {
			registry.CheckOwnedTables: c.ownedTables,
		},
		types.ServiceRedis: {
			registry.CheckSessionStorage: c.sessionStorage,
			registry.CheckSessionTTL:     c.sessionTTL,
		},
		types.ServiceAuth: {
			registry.CheckAuthAvailability: c.remoteAvailability,
			registry.CheckJWTCapabilities:  c.jwtCapabilities,
		},
		types.ServiceBackend: {
			registry.CheckAgentExecutionChain: c.agentExecutionChain,
		},
		types.ServiceWebsocket: {
			registry.CheckWebsocketEvents: c.websocketAgentEvents,
		},
		types.ServiceLLM: {
			registry.CheckRemoteAvailability: c.remoteAvailability,
		},
		types.ServiceFrontend: {
			registry.CheckRemoteAvailability: c.remoteAvailability,
		},
		types.ServiceAnalytics: {
			registry.CheckRemoteAvailability: c.remoteAvailability,
		},
	}
}

// run wraps a network-bound operation with the executor when configured.
func (c *Checks) run(ctx context.Context, service types.ServiceType, operation string, op func(context.Context) error) error {
	if c.exec == nil {
		return op(ctx)
	}
	return c.exec.Execute(ctx, service, operation, op)
}

// ownedTables verifies that every table this service owns exists in its own
// database. Index counts are collected as diagnostics once all tables exist;
// index absence never fails the check, only table absence does. Tables owned
// by other services are deliberately out of reach here: their health is
// checked through their owning service's availability probe.
func (c *Checks) ownedTables(ctx context.Context, host *probe.Host, _ types.Requirement) types.CheckResult {
	if host.DB == nil {
		return types.CheckResult{Success: false, Message: "database introspector not configured"}
	}
	if len(host.OwnedTables) == 0 {
		return types.CheckResult{
			Success: true,
			Message: "no owned tables configured; nothing to validate",
		}
	}

	var missing []string
	for _, table := range host.OwnedTables {
		var exists bool
		err := c.run(ctx, types.ServicePostgres, "table existence", func(ctx context.Context) error {
			var err error
			exists, err = host.DB.TableExists(ctx, table)
			return err
		})
		if err != nil {
			return types.CheckResult{
				Success: false,
				Message: fmt.Sprintf("table existence check failed for %q: %v", table, err),
			}
		}
		if !exists {
			missing = append(missing, table)
		}
	}

	if len(missing) > 0 {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("Missing critical user tables: %v", missing),
			Details: map[string]any{"missing_tables": missing},
		}
	}

	// All tables present; index counts are auxiliary diagnostics only.
	indexes := map[string]any{}
	for _, table := range host.OwnedTables {
		n, err := host.DB.IndexCount(ctx, table)
		if err != nil {
			indexes[table] = fmt.Sprintf("index count unavailable: %v", err)
			continue
		}
		indexes[table] = n
	}
	return types.CheckResult{
		Success: true,
		Message: fmt.Sprintf("all %d owned tables present", len(host.OwnedTables)),
		Details: map[string]any{"indexes": indexes},
	}
}

// sessionStorage performs a throwaway-key set/get/delete round trip. Success
// requires the get to return the value that was set.
func (c *Checks) sessionStorage(ctx context.Context, host *probe.Host, _ types.Requirement) types.CheckResult {
	if host.Cache == nil {
		return types.CheckResult{Success: false, Message: "session store client not configured"}
	}

	key := "golden_path_probe_" + ulid.Make().String()
	want := "ok_" + ulid.Make().String()

	var got string
	var found, ttlSupported bool
	err := c.run(ctx, types.ServiceRedis, "session round trip", func(ctx context.Context) error {
		if err := host.Cache.Set(ctx, key, want, sessionProbeTTL); err != nil {
			return err
		}
		var err error
		got, found, err = host.Cache.Get(ctx, key)
		if err != nil {
			return err
		}
		_, ttlSupported, _ = host.Cache.TTL(ctx, key)
		return host.Cache.Del(ctx, key)
	})
	if err != nil {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("session storage round trip failed: %v", err),
		}
	}
	if !found || got != want {
		return types.CheckResult{
			Success: false,
			Message: "session storage returned a different value than was set",
			Details: map[string]any{"found": found},
		}
	}
	return types.CheckResult{
		Success: true,
		Message: "session storage round trip succeeded",
		Details: map[string]any{"ttl_supported": ttlSupported},
	}
}

// sessionTTL verifies the store honors key expiry. Non-critical: TTL support
// hardens security posture but the login flow works without it.
func (c *Checks) sessionTTL(ctx context.Context, host *probe.Host, _ types.Requirement) types.CheckResult {
	if host.Cache == nil {
		return types.CheckResult{Success: false, Message: "session store client not configured"}
	}

	key := "golden_path_ttl_probe_" + ulid.Make().String()
	var remaining time.Duration
	var supported bool
	err := c.run(ctx, types.ServiceRedis, "ttl probe", func(ctx context.Context) error {
		if err := host.Cache.Set(ctx, key, "x", sessionProbeTTL); err != nil {
			return err
		}
		var err error
		remaining, supported, err = host.Cache.TTL(ctx, key)
		if err != nil {
			return err
		}
		return host.Cache.Del(ctx, key)
	})
	if err != nil {
		return types.CheckResult{Success: false, Message: fmt.Sprintf("ttl probe failed: %v", err)}
	}
	if !supported || remaining <= 0 {
		return types.CheckResult{Success: false, Message: "session storage does not honor key expiry"}
	}
	return types.CheckResult{
		Success: true,
		Message: "session storage honors key expiry",
		Details: map[string]any{"remaining": remaining.String()},
	}
}

// jwtCapabilities probes every exposure point on the host for the three
// token lifecycle capabilities. A capability counts as present when any
// exposure point satisfies its interface; probing a single hardcoded
// attachment point would report false negatives whenever the implementation
// moves.
func (c *Checks) jwtCapabilities(_ context.Context, host *probe.Host, _ types.Requirement) types.CheckResult {
	var createAccess, verify, createRefresh bool
	for _, exposure := range host.AuthExposures {
		if exposure == nil {
			continue
		}
		if _, ok := exposure.(probe.AccessTokenIssuer); ok {
			createAccess = true
		}
		if _, ok := exposure.(probe.TokenVerifier); ok {
			verify = true
		}
		if _, ok := exposure.(probe.RefreshTokenIssuer); ok {
			createRefresh = true
		}
	}

	var missing []string
	if !createAccess {
		missing = append(missing, "create_access_token")
	}
	if !verify {
		missing = append(missing, "verify_token")
	}
	if !createRefresh {
		missing = append(missing, "create_refresh_token")
	}

	if len(missing) > 0 {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("Missing JWT capabilities: %v", missing),
			Details: map[string]any{
				"missing_capabilities": missing,
				"exposures_scanned":    len(host.AuthExposures),
			},
		}
	}
	return types.CheckResult{
		Success: true,
		Message: "all JWT capabilities present",
		Details: map[string]any{"exposures_scanned": len(host.AuthExposures)},
	}
}

// agentExecutionChain counts how many chain components are wired. The chain
// tolerates a missing component; below the ratio the backend cannot answer.
func (c *Checks) agentExecutionChain(_ context.Context, host *probe.Host, _ types.Requirement) types.CheckResult {
	components := []struct {
		name    string
		present bool
	}{
		{"orchestrator", host.Agent.Orchestrator != nil},
		{"execution_engine", host.Agent.ExecutionEngine != nil},
		{"tool_dispatcher", host.Agent.ToolDispatcher != nil},
		{"model_serving", host.Agent.ModelServing != nil},
		{"realtime_bridge", host.Agent.RealtimeBridge != nil},
	}

	var present, missing []string
	for _, comp := range components {
		if comp.present {
			present = append(present, comp.name)
		} else {
			missing = append(missing, comp.name)
		}
	}

	needed := int(math.Ceil(agentChainRatio * float64(len(components))))
	details := map[string]any{
		"present": present,
		"missing": missing,
		"needed":  needed,
	}
	if len(present) < needed {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("agent execution chain incomplete: %d/%d components present, need %d",
				len(present), len(components), needed),
			Details: details,
		}
	}
	return types.CheckResult{
		Success: true,
		Message: fmt.Sprintf("agent execution chain ready: %d/%d components present", len(present), len(components)),
		Details: details,
	}
}

// websocketAgentEvents checks the four realtime delivery components:
// connection manager (directly or via factory), event bridge presence, the
// bridge's notification capabilities, and the message router.
func (c *Checks) websocketAgentEvents(_ context.Context, host *probe.Host, _ types.Requirement) types.CheckResult {
	rt := host.Realtime

	managerReady := rt.ConnectionManager != nil
	if !managerReady && rt.ConnectionManagerFactory != nil {
		managerReady = rt.ConnectionManagerFactory() != nil
	}

	bridgeReady := rt.EventBridge != nil

	bridgeMethodsReady := false
	if bridgeReady {
		_, started := rt.EventBridge.(probe.AgentStartedNotifier)
		_, completed := rt.EventBridge.(probe.AgentCompletedNotifier)
		_, errored := rt.EventBridge.(probe.AgentErrorNotifier)
		bridgeMethodsReady = started && completed && errored
	}

	routerReady := rt.MessageRouter != nil && rt.MessageRouter() != nil

	// Fixed order so not_ready reads the same across runs.
	components := []struct {
		name string
		ok   bool
	}{
		{"connection_manager", managerReady},
		{"event_bridge", bridgeReady},
		{"bridge_methods", bridgeMethodsReady},
		{"message_router", routerReady},
	}
	ready := 0
	var notReady []string
	for _, comp := range components {
		if comp.ok {
			ready++
		} else {
			notReady = append(notReady, comp.name)
		}
	}

	details := map[string]any{"ready": ready, "not_ready": notReady}
	if ready < websocketMinComponents {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("websocket event delivery not ready: %d/%d components", ready, websocketComponents),
			Details: details,
		}
	}
	return types.CheckResult{
		Success: true,
		Message: fmt.Sprintf("websocket event delivery ready: %d/%d components", ready, websocketComponents),
		Details: details,
	}
}

// remoteAvailability validates a service owned by someone else the only
// correct way: through that service's own health surface.
func (c *Checks) remoteAvailability(ctx context.Context, host *probe.Host, req types.Requirement) types.CheckResult {
	p, ok := host.Remote(req.ServiceType)
	if !ok {
		return types.CheckResult{
			Success: false,
			Message: fmt.Sprintf("no availability probe configured for %s", req.ServiceType),
		}
	}

	var res types.CheckResult
	err := c.run(ctx, req.ServiceType, "availability probe", func(ctx context.Context) error {
		res = p.Check(ctx)
		if !res.Success {
			return fmt.Errorf("%s", res.Message)
		}
		return nil
	})
	if err != nil {
		if res.Message == "" {
			res = types.CheckResult{Success: false, Message: err.Error()}
		}
		res.Success = false
		res.Message = err.Error()
	}
	return res
}
