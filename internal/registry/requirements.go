package registry

import "github.com/goldenpath-systems/goldenpath/pkg/types"

// Check names shared between the requirement table and the check set.
const (
	CheckOwnedTables         = "validate_owned_tables"
	CheckSessionStorage      = "validate_session_storage"
	CheckSessionTTL          = "validate_session_ttl"
	CheckAuthAvailability    = "validate_auth_availability"
	CheckJWTCapabilities     = "validate_jwt_capabilities"
	CheckAgentExecutionChain = "validate_agent_execution_chain"
	CheckWebsocketEvents     = "validate_websocket_agent_events"
	CheckRemoteAvailability  = "validate_remote_availability"
)

// GoldenPathRequirements is the static requirement table for the critical
// user journey: authenticate, chat, get an AI response. Declared once at
// process start; never mutated at runtime. Order is significant for log
// reproducibility, not correctness.
var GoldenPathRequirements = []types.Requirement{
	{
		ServiceType:    types.ServicePostgres,
		Name:           "conversation_tables_exist",
		Check:          CheckOwnedTables,
		Critical:       true,
		Description:    "The conversation tables this service owns exist in its own database",
		BusinessImpact: "Users cannot persist or resume conversations - chat history is lost and the core product is unusable",
	},
	{
		ServiceType:    types.ServiceRedis,
		Name:           "session_storage_round_trip",
		Check:          CheckSessionStorage,
		Critical:       true,
		Description:    "Session storage accepts and returns values",
		BusinessImpact: "Users are logged out on every request - authentication is effectively broken",
	},
	{
		ServiceType:    types.ServiceRedis,
		Name:           "session_ttl_support",
		Check:          CheckSessionTTL,
		Critical:       false,
		Description:    "Session storage honors key expiry",
		BusinessImpact: "Stale sessions accumulate and never expire - security and memory posture degrade over time",
	},
	{
		ServiceType:    types.ServiceAuth,
		Name:           "auth_service_available",
		Check:          CheckAuthAvailability,
		Critical:       true,
		Description:    "The auth service answers on its health endpoint",
		BusinessImpact: "Users cannot log in - no authenticated traffic can enter the platform",
	},
	{
		ServiceType:    types.ServiceAuth,
		Name:           "jwt_capabilities_present",
		Check:          CheckJWTCapabilities,
		Critical:       true,
		Description:    "Token create/verify/refresh capabilities are exposed somewhere on the host",
		BusinessImpact: "Issued sessions cannot be created or validated - login succeeds but every API call fails",
	},
	{
		ServiceType:    types.ServiceBackend,
		Name:           "agent_execution_chain",
		Check:          CheckAgentExecutionChain,
		Critical:       true,
		Description:    "Enough of the agent execution chain is wired to answer chat requests",
		BusinessImpact: "Chat requests are accepted but never answered - users see permanent spinners",
	},
	{
		ServiceType:    types.ServiceWebsocket,
		Name:           "websocket_agent_events",
		Check:          CheckWebsocketEvents,
		Critical:       true,
		Description:    "Agent progress events can reach users over the realtime channel",
		BusinessImpact: "Agent responses are computed but never delivered - users see silence instead of answers",
	},
	{
		ServiceType:    types.ServiceLLM,
		Name:           "llm_service_available",
		Check:          CheckRemoteAvailability,
		Critical:       false,
		Description:    "The model-serving endpoint answers on its health endpoint",
		BusinessImpact: "Responses fall back to degraded models - quality drops but the product still works",
	},
	{
		ServiceType:    types.ServiceFrontend,
		Name:           "frontend_available",
		Check:          CheckRemoteAvailability,
		Critical:       false,
		Description:    "The frontend answers on its health endpoint",
		BusinessImpact: "New page loads fail while open sessions keep working",
	},
	{
		ServiceType:    types.ServiceAnalytics,
		Name:           "analytics_available",
		Check:          CheckRemoteAvailability,
		Critical:       false,
		Description:    "The analytics collector answers on its health endpoint",
		BusinessImpact: "Usage telemetry is dropped - no user-facing impact",
	},
}
