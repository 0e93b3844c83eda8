// Package validator implements the golden-path validation engine: it filters
// the requirement registry, dispatches each requirement to its check,
// aggregates severities and produces the validation report. Validate is a
// terminal boundary: failures of the system under validation become failed
// results, never errors or panics.
package validator

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/goldenpath-systems/goldenpath/internal/metrics"
	"github.com/goldenpath-systems/goldenpath/internal/probe"
	"github.com/goldenpath-systems/goldenpath/internal/registry"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// AlertSink receives alerts for critical requirement failures.
type AlertSink interface {
	Dispatch(ctx context.Context, a types.Alert)
}

// Engine orchestrates golden-path validation runs.
type Engine struct {
	registry *registry.Registry
	env      types.EnvironmentType
	alerts   AlertSink
	logger   *slog.Logger
	now      func() time.Time
	newID    func() string
}

// Option configures an Engine.
type Option func(*Engine)

// WithAlerts routes critical failures to the given sink.
func WithAlerts(sink AlertSink) Option {
	return func(e *Engine) { e.alerts = sink }
}

// WithLogger sets the engine logger.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) { e.logger = logger }
}

// WithClock overrides the time source. Tests only.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

// New creates a validation engine over the given registry.
func New(reg *registry.Registry, env types.EnvironmentType, opts ...Option) *Engine {
	e := &Engine{
		registry: reg,
		env:      env,
		logger:   slog.Default(),
		now:      time.Now,
		newID:    func() string { return ulid.Make().String() },
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Validate runs every requirement relevant to the given services, in
// registry declaration order, and aggregates the outcomes. One critical
// failure always flips OverallSuccess to false; non-critical failures land
// in Warnings and never do.
func (e *Engine) Validate(ctx context.Context, host *probe.Host, services []types.ServiceType) *types.Report {
	relevant := e.registry.ForServices(services)

	report := &types.Report{
		RunID:          e.newID(),
		Environment:    e.env,
		OverallSuccess: true,
		StartedAt:      e.now(),
	}

	seen := map[types.ServiceType]struct{}{}
	for _, req := range relevant {
		seen[req.ServiceType] = struct{}{}

		res := e.evaluate(ctx, host, req)
		report.Results = append(report.Results, types.RequirementResult{
			Requirement: req.Name,
			Service:     req.ServiceType,
			Success:     res.Success,
			Message:     res.Message,
			Details:     res.Details,
		})

		if res.Success {
			report.RequirementsPassed++
			metrics.RequirementsPassed.Add(1)
			continue
		}

		report.RequirementsFailed++
		metrics.RequirementsFailed.Add(1)
		entry := fmt.Sprintf("%s: %s - %s", req.ServiceType, req.Name, res.Message)
		if req.Critical {
			report.OverallSuccess = false
			report.CriticalFailures = append(report.CriticalFailures, entry)
			report.BusinessImpactFailures = append(report.BusinessImpactFailures, req.BusinessImpact)
			metrics.CriticalFailures.Add(1)
			e.alert(ctx, req, res)
		} else {
			report.Warnings = append(report.Warnings, entry)
		}
	}

	report.ServicesValidated = len(seen)
	report.FinishedAt = e.now()
	metrics.ValidationsTotal.Add(1)

	e.logger.Info("golden path validation finished",
		"run_id", report.RunID,
		"overall_success", report.OverallSuccess,
		"services", report.ServicesValidated,
		"passed", report.RequirementsPassed,
		"failed", report.RequirementsFailed)
	if len(report.CriticalFailures) > 0 {
		e.logger.Error("golden path critical failures", "failures", report.CriticalFailures)
	}

	return report
}

// evaluate dispatches one requirement through the registry and converts
// every failure mode, including panics inside a check, into a failed result.
func (e *Engine) evaluate(ctx context.Context, host *probe.Host, req types.Requirement) (res types.CheckResult) {
	defer func() {
		if r := recover(); r != nil {
			res = types.CheckResult{
				Success: false,
				Message: fmt.Sprintf("validation check panicked: %v", r),
			}
		}
	}()

	return e.registry.Dispatch(ctx, host, req)
}

func (e *Engine) alert(ctx context.Context, req types.Requirement, res types.CheckResult) {
	if e.alerts == nil {
		return
	}
	e.alerts.Dispatch(ctx, types.Alert{
		Level:          types.AlertLevelCritical,
		Service:        req.ServiceType,
		Requirement:    req.Name,
		Message:        res.Message,
		BusinessImpact: req.BusinessImpact,
		Timestamp:      e.now(),
	})
}

// Summary renders a report for operators: counts, critical failures paired
// with their business impact, then warnings. Reporting only; nothing
// consumes this string programmatically.
func Summary(report *types.Report) string {
	var b strings.Builder

	status := "READY"
	if !report.OverallSuccess {
		status = "NOT READY"
	}
	fmt.Fprintf(&b, "Golden Path %s (%s) run %s\n", status, report.Environment, report.RunID)
	fmt.Fprintf(&b, "  services validated: %d, requirements passed: %d, failed: %d\n",
		report.ServicesValidated, report.RequirementsPassed, report.RequirementsFailed)

	if len(report.CriticalFailures) > 0 {
		b.WriteString("  critical failures:\n")
		for i, failure := range report.CriticalFailures {
			fmt.Fprintf(&b, "    - %s\n", failure)
			if i < len(report.BusinessImpactFailures) {
				fmt.Fprintf(&b, "      impact: %s\n", report.BusinessImpactFailures[i])
			}
		}
	}
	if len(report.Warnings) > 0 {
		b.WriteString("  warnings:\n")
		for _, w := range report.Warnings {
			fmt.Fprintf(&b, "    - %s\n", w)
		}
	}
	return b.String()
}
