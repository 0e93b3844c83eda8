package validator

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenpath-systems/goldenpath/internal/probe"
	"github.com/goldenpath-systems/goldenpath/internal/testutil"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

var noReq = types.Requirement{}

func TestOwnedTables_AllPresentCollectsIndexDiagnostics(t *testing.T) {
	c := NewChecks(nil)
	host := &probe.Host{
		DB: &testutil.StubIntrospector{
			Tables:  map[string]bool{"conversations": true, "messages": true},
			Indexes: map[string]int{"conversations": 2, "messages": 3},
		},
		OwnedTables: []string{"conversations", "messages"},
	}

	res := c.ownedTables(context.Background(), host, noReq)

	require.True(t, res.Success)
	indexes := res.Details["indexes"].(map[string]any)
	assert.Equal(t, 2, indexes["conversations"])
	assert.Equal(t, 3, indexes["messages"])
}

func TestOwnedTables_MissingTableFails(t *testing.T) {
	c := NewChecks(nil)
	host := &probe.Host{
		DB:          &testutil.StubIntrospector{Tables: map[string]bool{"conversations": true}},
		OwnedTables: []string{"conversations", "sessions"},
	}

	res := c.ownedTables(context.Background(), host, noReq)

	require.False(t, res.Success)
	assert.Equal(t, "Missing critical user tables: [sessions]", res.Message)
}

func TestOwnedTables_IndexErrorIsDiagnosticOnly(t *testing.T) {
	c := NewChecks(nil)
	intr := &testutil.StubIntrospector{Tables: map[string]bool{"conversations": true}}
	host := &probe.Host{DB: intr, OwnedTables: []string{"conversations"}}

	// Index counts default to zero in the stub; zero indexes still passes.
	res := c.ownedTables(context.Background(), host, noReq)
	assert.True(t, res.Success)
}

func TestOwnedTables_IntrospectorErrorFails(t *testing.T) {
	c := NewChecks(nil)
	host := &probe.Host{
		DB:          &testutil.StubIntrospector{Err: errors.New("connection refused")},
		OwnedTables: []string{"conversations"},
	}

	res := c.ownedTables(context.Background(), host, noReq)
	require.False(t, res.Success)
	assert.Contains(t, res.Message, "connection refused")
}

func TestOwnedTables_NoIntrospectorConfigured(t *testing.T) {
	c := NewChecks(nil)
	res := c.ownedTables(context.Background(), &probe.Host{OwnedTables: []string{"x"}}, noReq)
	require.False(t, res.Success)
	assert.Contains(t, res.Message, "not configured")
}

func TestSessionStorage_RoundTrip(t *testing.T) {
	c := NewChecks(nil)
	kv := testutil.NewStubKV()
	host := &probe.Host{Cache: kv}

	res := c.sessionStorage(context.Background(), host, noReq)

	require.True(t, res.Success)
	assert.Equal(t, true, res.Details["ttl_supported"])
}

func TestSessionStorage_MismatchedValueFails(t *testing.T) {
	c := NewChecks(nil)
	kv := testutil.NewStubKV()
	kv.CorruptGet = true
	host := &probe.Host{Cache: kv}

	res := c.sessionStorage(context.Background(), host, noReq)

	require.False(t, res.Success)
	assert.Contains(t, res.Message, "different value")
}

func TestSessionStorage_SetErrorFails(t *testing.T) {
	c := NewChecks(nil)
	kv := testutil.NewStubKV()
	kv.SetErr = errors.New("READONLY You can't write against a read only replica")
	host := &probe.Host{Cache: kv}

	res := c.sessionStorage(context.Background(), host, noReq)

	require.False(t, res.Success)
	assert.Contains(t, res.Message, "READONLY")
}

func TestSessionStorage_TTLSupportIsDetailOnly(t *testing.T) {
	c := NewChecks(nil)
	kv := testutil.NewStubKV()
	kv.NoTTL = true
	host := &probe.Host{Cache: kv}

	res := c.sessionStorage(context.Background(), host, noReq)

	// TTL absence never gates the round trip check.
	require.True(t, res.Success)
	assert.Equal(t, false, res.Details["ttl_supported"])
}

func TestSessionTTL_NoExpirySupportFails(t *testing.T) {
	c := NewChecks(nil)
	kv := testutil.NewStubKV()
	kv.NoTTL = true
	host := &probe.Host{Cache: kv}

	res := c.sessionTTL(context.Background(), host, noReq)

	require.False(t, res.Success)
	assert.Contains(t, res.Message, "does not honor key expiry")
}

func TestJWTCapabilities_ProbesAllExposurePoints(t *testing.T) {
	c := NewChecks(nil)
	// The full suite lives on the second exposure point; a single hardcoded
	// probe target would miss it.
	host := &probe.Host{AuthExposures: []any{struct{}{}, testutil.TokenSuite{}}}

	res := c.jwtCapabilities(context.Background(), host, noReq)

	require.True(t, res.Success)
	assert.Equal(t, 2, res.Details["exposures_scanned"])
}

func TestJWTCapabilities_CapabilitiesMaySpanExposures(t *testing.T) {
	c := NewChecks(nil)
	host := &probe.Host{AuthExposures: []any{testutil.VerifierOnly{}, testutil.TokenSuite{}}}

	res := c.jwtCapabilities(context.Background(), host, noReq)
	assert.True(t, res.Success)
}

func TestJWTCapabilities_ReportsExactlyWhatIsMissing(t *testing.T) {
	c := NewChecks(nil)
	host := &probe.Host{AuthExposures: []any{testutil.VerifierOnly{}, nil}}

	res := c.jwtCapabilities(context.Background(), host, noReq)

	require.False(t, res.Success)
	assert.Equal(t, "Missing JWT capabilities: [create_access_token create_refresh_token]", res.Message)
}

func TestAgentExecutionChain_FourOfFivePasses(t *testing.T) {
	c := NewChecks(nil)
	host := &probe.Host{Agent: probe.AgentComponents{
		Orchestrator:    struct{}{},
		ExecutionEngine: struct{}{},
		ToolDispatcher:  struct{}{},
		ModelServing:    struct{}{},
	}}

	res := c.agentExecutionChain(context.Background(), host, noReq)

	require.True(t, res.Success)
	assert.Equal(t, []string{"realtime_bridge"}, res.Details["missing"])
}

func TestAgentExecutionChain_ThreeOfFiveFails(t *testing.T) {
	c := NewChecks(nil)
	host := &probe.Host{Agent: probe.AgentComponents{
		Orchestrator:    struct{}{},
		ExecutionEngine: struct{}{},
		ToolDispatcher:  struct{}{},
	}}

	res := c.agentExecutionChain(context.Background(), host, noReq)

	require.False(t, res.Success)
	assert.Contains(t, res.Message, "3/5 components present, need 4")
}

func TestWebsocketAgentEvents_AllFourReady(t *testing.T) {
	c := NewChecks(nil)
	router := struct{}{}
	host := &probe.Host{Realtime: probe.RealtimeComponents{
		ConnectionManager: struct{}{},
		EventBridge:       testutil.FullBridge{},
		MessageRouter:     func() any { return router },
	}}

	res := c.websocketAgentEvents(context.Background(), host, noReq)

	require.True(t, res.Success)
	assert.Equal(t, 4, res.Details["ready"])
}

func TestWebsocketAgentEvents_FactoryIndirectionCounts(t *testing.T) {
	c := NewChecks(nil)
	host := &probe.Host{Realtime: probe.RealtimeComponents{
		ConnectionManagerFactory: func() any { return struct{}{} },
		EventBridge:              testutil.FullBridge{},
		MessageRouter:            func() any { return struct{}{} },
	}}

	res := c.websocketAgentEvents(context.Background(), host, noReq)
	assert.True(t, res.Success)
}

func TestWebsocketAgentEvents_ThreeOfFourStillReady(t *testing.T) {
	c := NewChecks(nil)
	// No message router, everything else wired.
	host := &probe.Host{Realtime: probe.RealtimeComponents{
		ConnectionManager: struct{}{},
		EventBridge:       testutil.FullBridge{},
	}}

	res := c.websocketAgentEvents(context.Background(), host, noReq)

	require.True(t, res.Success)
	assert.Equal(t, 3, res.Details["ready"])
}

func TestWebsocketAgentEvents_IncompleteBridgeDropsTwoComponents(t *testing.T) {
	c := NewChecks(nil)
	// Bridge present but missing a notification method: bridge counts,
	// bridge_methods does not. With no manager and no router that is 1/4.
	host := &probe.Host{Realtime: probe.RealtimeComponents{
		EventBridge: testutil.PartialBridge{},
	}}

	res := c.websocketAgentEvents(context.Background(), host, noReq)

	require.False(t, res.Success)
	assert.Contains(t, res.Message, "1/4")
	// not_ready lists components in wiring order, stable across runs.
	assert.Equal(t, []string{"connection_manager", "bridge_methods", "message_router"}, res.Details["not_ready"])
}

func TestRemoteAvailability_UsesConfiguredProbe(t *testing.T) {
	c := NewChecks(nil)
	p := testutil.HealthyProbe(types.ServiceLLM)
	host := &probe.Host{Remotes: map[types.ServiceType]probe.ServiceAvailabilityProbe{
		types.ServiceLLM: p,
	}}
	req := types.Requirement{ServiceType: types.ServiceLLM, Name: "llm_service_available"}

	res := c.remoteAvailability(context.Background(), host, req)

	require.True(t, res.Success)
	assert.Equal(t, 1, p.Calls)
}

func TestRemoteAvailability_DownServiceFails(t *testing.T) {
	c := NewChecks(nil)
	host := &probe.Host{Remotes: map[types.ServiceType]probe.ServiceAvailabilityProbe{
		types.ServiceAuth: testutil.DownProbe(types.ServiceAuth),
	}}
	req := types.Requirement{ServiceType: types.ServiceAuth, Name: "auth_service_available"}

	res := c.remoteAvailability(context.Background(), host, req)

	require.False(t, res.Success)
	assert.Contains(t, res.Message, "auth_service unreachable")
}

func TestRemoteAvailability_NoProbeConfigured(t *testing.T) {
	c := NewChecks(nil)
	req := types.Requirement{ServiceType: types.ServiceFrontend, Name: "frontend_available"}

	res := c.remoteAvailability(context.Background(), &probe.Host{}, req)

	require.False(t, res.Success)
	assert.Contains(t, res.Message, "no availability probe configured for frontend_service")
}
