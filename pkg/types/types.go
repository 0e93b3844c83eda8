package types

import "time"

// Requirement declares one testable business fact the golden path depends on.
// Requirements are created once at process start as a static list and never
// mutated at runtime.
type Requirement struct {
	ServiceType    ServiceType `yaml:"serviceType" json:"serviceType"`
	Name           string      `yaml:"name" json:"name"`
	Check          string      `yaml:"check" json:"check"`
	Critical       bool        `yaml:"critical" json:"critical"`
	Description    string      `yaml:"description,omitempty" json:"description,omitempty"`
	BusinessImpact string      `yaml:"businessImpact,omitempty" json:"businessImpact,omitempty"`
}

// CheckResult is the outcome of a single validation check.
type CheckResult struct {
	Success bool           `json:"success"`
	Message string         `json:"message"`
	Details map[string]any `json:"details,omitempty"`
}

// RequirementResult records the outcome of one evaluated requirement.
type RequirementResult struct {
	Requirement string         `json:"requirement"`
	Service     ServiceType    `json:"service"`
	Success     bool           `json:"success"`
	Message     string         `json:"message"`
	Details     map[string]any `json:"details,omitempty"`
}

// Report is the aggregate output of one golden-path validation run.
// OverallSuccess is true unless a critical requirement failed; non-critical
// failures land in Warnings and never flip OverallSuccess.
type Report struct {
	RunID                  string              `json:"runId"`
	Environment            EnvironmentType     `json:"environment"`
	OverallSuccess         bool                `json:"overallSuccess"`
	Results                []RequirementResult `json:"results"`
	CriticalFailures       []string            `json:"criticalFailures,omitempty"`
	Warnings               []string            `json:"warnings,omitempty"`
	BusinessImpactFailures []string            `json:"businessImpactFailures,omitempty"`
	ServicesValidated      int                 `json:"servicesValidated"`
	RequirementsPassed     int                 `json:"requirementsPassed"`
	RequirementsFailed     int                 `json:"requirementsFailed"`
	StartedAt              time.Time           `json:"startedAt"`
	FinishedAt             time.Time           `json:"finishedAt"`
}

// RetryPolicy is the per-(service, environment) retry configuration.
// Immutable after construction; produced by the retry package's policy table.
type RetryPolicy struct {
	Timeout             time.Duration `yaml:"timeout" json:"timeout"`
	MaxRetries          int           `yaml:"maxRetries" json:"maxRetries"`
	DelayBase           time.Duration `yaml:"delayBase" json:"delayBase"`
	Strategy            RetryStrategy `yaml:"strategy" json:"strategy"`
	HealthCheckInterval time.Duration `yaml:"healthCheckInterval,omitempty" json:"healthCheckInterval,omitempty"`
	Critical            bool          `yaml:"critical" json:"critical"`
}

// BreakerConfig defines circuit breaker behavior for a service.
type BreakerConfig struct {
	FailureThreshold int           `yaml:"failureThreshold" json:"failureThreshold"`
	RecoveryTimeout  time.Duration `yaml:"recoveryTimeout" json:"recoveryTimeout"`
	HalfOpenMaxCalls int           `yaml:"halfOpenMaxCalls" json:"halfOpenMaxCalls"`
}

// DefaultBreakerConfig returns the default circuit breaker settings.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 5,
		RecoveryTimeout:  30 * time.Second,
		HalfOpenMaxCalls: 3,
	}
}

// CircuitSnapshot is a read-only view of one service's breaker state,
// surfaced by the status CLI and HTTP API.
type CircuitSnapshot struct {
	Service       ServiceType  `json:"service"`
	State         BreakerState `json:"state"`
	FailureCount  int          `json:"failureCount"`
	SuccessCount  int          `json:"successCount"`
	HalfOpenCalls int          `json:"halfOpenCalls"`
	LastFailure   time.Time    `json:"lastFailure,omitzero"`
}

// DependencyReport summarizes a coarse service-dependency sweep performed at
// startup, before (or instead of) the full golden-path validation.
type DependencyReport struct {
	TotalServicesChecked int               `json:"totalServicesChecked"`
	ServicesHealthy      int               `json:"servicesHealthy"`
	ServicesFailed       int               `json:"servicesFailed"`
	Failures             []string          `json:"failures,omitempty"`
	Details              map[string]string `json:"details,omitempty"`
	FallbackMode         bool              `json:"fallbackMode"`
}

// EnvironmentContext describes what the environment-context service knows
// about the running deployment.
type EnvironmentContext struct {
	Environment     EnvironmentType `json:"environment"`
	ConfidenceScore float64         `json:"confidenceScore"`
	Platform        string          `json:"platform"`
	ServiceName     string          `json:"serviceName"`
}

// Alert is one operator-facing notification about a golden-path failure.
type Alert struct {
	Level          AlertLevel  `json:"level"`
	Service        ServiceType `json:"service"`
	Requirement    string      `json:"requirement"`
	Message        string      `json:"message"`
	BusinessImpact string      `json:"businessImpact,omitempty"`
	Timestamp      time.Time   `json:"timestamp"`
}
