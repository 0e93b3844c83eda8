// Package retry provides environment-aware retry policies and an executor
// that wraps dependency probes with timeouts, backoff and circuit breaking.
package retry

import (
	"time"

	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// envTuning scales the base policy constants per deployment tier. Testing is
// tuned for fast feedback, production for patience.
type envTuning struct {
	timeout    time.Duration
	maxRetries int
	delayBase  time.Duration
}

var envTunings = map[types.EnvironmentType]envTuning{
	types.EnvTesting:     {timeout: 2 * time.Second, maxRetries: 1, delayBase: 100 * time.Millisecond},
	types.EnvDevelopment: {timeout: 5 * time.Second, maxRetries: 2, delayBase: 500 * time.Millisecond},
	types.EnvStaging:     {timeout: 10 * time.Second, maxRetries: 3, delayBase: time.Second},
	types.EnvProduction:  {timeout: 15 * time.Second, maxRetries: 3, delayBase: time.Second},
}

// serviceTuning holds the per-service-type policy shape that environment
// tuning does not change: strategy, criticality and health check cadence.
type serviceTuning struct {
	strategy RetryStrategy
	critical bool
	interval time.Duration
}

// RetryStrategy aliases the public enum for brevity inside this package.
type RetryStrategy = types.RetryStrategy

var serviceTunings = map[types.ServiceType]serviceTuning{
	types.ServicePostgres:  {strategy: types.RetryExponential, critical: true, interval: 30 * time.Second},
	types.ServiceRedis:     {strategy: types.RetryExponential, critical: true, interval: 30 * time.Second},
	types.ServiceAuth:      {strategy: types.RetryExponential, critical: true, interval: 30 * time.Second},
	types.ServiceBackend:   {strategy: types.RetryLinear, critical: true, interval: 60 * time.Second},
	types.ServiceWebsocket: {strategy: types.RetryLinear, critical: true, interval: 60 * time.Second},
	types.ServiceLLM:       {strategy: types.RetryFixed, critical: false, interval: 120 * time.Second},
	types.ServiceFrontend:  {strategy: types.RetryNone, critical: false, interval: 120 * time.Second},
	types.ServiceAnalytics: {strategy: types.RetryNone, critical: false, interval: 300 * time.Second},
}

// PolicyFor returns the retry policy for a service type in the given
// environment. Unknown service types get a conservative non-critical fixed
// policy; unknown environments are treated as development.
func PolicyFor(service types.ServiceType, env types.EnvironmentType) types.RetryPolicy {
	et, ok := envTunings[env]
	if !ok {
		et = envTunings[types.EnvDevelopment]
	}
	st, ok := serviceTunings[service]
	if !ok {
		st = serviceTuning{strategy: types.RetryFixed, critical: false, interval: 60 * time.Second}
	}
	return types.RetryPolicy{
		Timeout:             et.timeout,
		MaxRetries:          et.maxRetries,
		DelayBase:           et.delayBase,
		Strategy:            st.strategy,
		HealthCheckInterval: st.interval,
		Critical:            st.critical,
	}
}
