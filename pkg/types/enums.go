// Package types defines the public domain types for the Golden Path
// service-dependency validation platform.
package types

// ServiceType identifies a category of platform dependency. It is used as a
// map key throughout the validation engine, so values are stable strings.
type ServiceType string

// ServiceType values enumerate the platform dependency categories.
const (
	ServicePostgres  ServiceType = "database_postgres"
	ServiceRedis     ServiceType = "database_redis"
	ServiceAuth      ServiceType = "auth_service"
	ServiceBackend   ServiceType = "backend_service"
	ServiceWebsocket ServiceType = "websocket_service"
	ServiceLLM       ServiceType = "llm_service"
	ServiceFrontend  ServiceType = "frontend_service"
	ServiceAnalytics ServiceType = "analytics_service"
)

// Services lists every dependency category in validation order.
var Services = []ServiceType{
	ServicePostgres,
	ServiceRedis,
	ServiceAuth,
	ServiceBackend,
	ServiceWebsocket,
	ServiceLLM,
	ServiceFrontend,
	ServiceAnalytics,
}

// EnvironmentType identifies the deployment tier. It selects numeric policy
// constants (timeouts, retry counts) and nothing else; it never changes which
// requirements are checked, only how patiently they are checked.
type EnvironmentType string

// EnvironmentType values enumerate the supported deployment tiers.
const (
	EnvTesting     EnvironmentType = "testing"
	EnvDevelopment EnvironmentType = "development"
	EnvStaging     EnvironmentType = "staging"
	EnvProduction  EnvironmentType = "production"
)

// Environments lists all deployment tiers.
var Environments = []EnvironmentType{EnvTesting, EnvDevelopment, EnvStaging, EnvProduction}

// RetryStrategy defines how retry delays grow between attempts.
type RetryStrategy string

// RetryStrategy values enumerate the supported backoff schedules.
const (
	RetryExponential RetryStrategy = "exponential"
	RetryLinear      RetryStrategy = "linear"
	RetryFixed       RetryStrategy = "fixed"
	RetryNone        RetryStrategy = "none"
)

// BreakerState represents the state of a service's circuit breaker.
type BreakerState string

// BreakerState values enumerate the circuit breaker states.
const (
	BreakerClosed   BreakerState = "CLOSED"
	BreakerOpen     BreakerState = "OPEN"
	BreakerHalfOpen BreakerState = "HALF_OPEN"
)

// AlertType defines the alert sink type.
type AlertType string

// AlertType values enumerate the supported alert sink backends.
const (
	AlertConsole AlertType = "console"
	AlertWebhook AlertType = "webhook"
	AlertFile    AlertType = "file"
)

// AlertLevel classifies the severity of a dispatched alert.
type AlertLevel string

const (
	AlertLevelCritical AlertLevel = "critical"
	AlertLevelWarning  AlertLevel = "warning"
	AlertLevelInfo     AlertLevel = "info"
)
