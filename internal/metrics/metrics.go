// Package metrics exposes runtime counters via expvar.
package metrics

import "expvar"

var (
	ValidationsTotal   = expvar.NewInt("validations_total")
	RequirementsPassed = expvar.NewInt("requirements_passed_total")
	RequirementsFailed = expvar.NewInt("requirements_failed_total")
	CriticalFailures   = expvar.NewInt("critical_failures_total")
	RetriesScheduled   = expvar.NewInt("retries_scheduled")
	RetryExhaustions   = expvar.NewInt("retry_exhaustions")
	BreakerOpens       = expvar.NewInt("breaker_opens")
	BreakerRejections  = expvar.NewInt("breaker_rejections")
	AlertsDispatched   = expvar.NewInt("alerts_dispatched")
	AlertsFailed       = expvar.NewInt("alerts_failed")
)
