// Package startup decides how dependency health is assessed before the
// platform accepts traffic. When the environment-context service has fully
// initialized, a real checker probes every canonical service concurrently.
// Before that point a fallback checker answers with placeholder counts so
// early health reads do not masquerade as a total outage.
package startup

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/goldenpath-systems/goldenpath/internal/probe"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// CanonicalServices are the dependencies the platform always expects to be
// running. The fallback checker reports exactly this many services healthy.
var CanonicalServices = []types.ServiceType{
	types.ServicePostgres,
	types.ServiceRedis,
	types.ServiceAuth,
	types.ServiceBackend,
	types.ServiceWebsocket,
	types.ServiceLLM,
}

// EnvironmentContextService reports whether the runtime environment has been
// fully detected and, once it has, what was detected.
type EnvironmentContextService interface {
	IsInitialized() bool
	EnvironmentContext() types.EnvironmentContext
}

// Checker assesses the health of the platform's service dependencies.
type Checker interface {
	ValidateServiceDependencies(ctx context.Context) types.DependencyReport
}

// StaticEnvironmentContext is an EnvironmentContextService whose answers are
// fixed at construction, for processes that learn their environment from
// configuration rather than runtime detection.
type StaticEnvironmentContext struct {
	Initialized bool
	Ctx         types.EnvironmentContext
}

func (s StaticEnvironmentContext) IsInitialized() bool { return s.Initialized }

func (s StaticEnvironmentContext) EnvironmentContext() types.EnvironmentContext { return s.Ctx }

// Select returns the full checker when the environment context is
// initialized and the fallback checker otherwise. Callers always get a
// usable checker; they never need to know which one they hold.
func Select(envctx EnvironmentContextService, full Checker, logger *slog.Logger) Checker {
	if logger == nil {
		logger = slog.Default()
	}
	if envctx != nil && envctx.IsInitialized() {
		return full
	}
	logger.Warn("environment context not initialized, using fallback dependency checker")
	return NewFallbackChecker(logger)
}

// FullChecker probes every canonical service concurrently and reports true
// counts.
type FullChecker struct {
	probes map[types.ServiceType]probe.ServiceAvailabilityProbe
	logger *slog.Logger
}

// NewFullChecker builds a checker over the given per-service probes.
// Canonical services without a probe are reported as failed, not skipped;
// a missing probe is a wiring bug the report should surface.
func NewFullChecker(probes map[types.ServiceType]probe.ServiceAvailabilityProbe, logger *slog.Logger) *FullChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &FullChecker{probes: probes, logger: logger}
}

// ValidateServiceDependencies checks every canonical service in parallel.
// Counts in the report reflect what the probes actually observed.
func (c *FullChecker) ValidateServiceDependencies(ctx context.Context) types.DependencyReport {
	report := types.DependencyReport{
		TotalServicesChecked: len(CanonicalServices),
		Details:              make(map[string]string, len(CanonicalServices)),
	}

	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	for _, service := range CanonicalServices {
		service := service
		g.Go(func() error {
			res := c.checkOne(gctx, service)

			mu.Lock()
			defer mu.Unlock()
			report.Details[string(service)] = res.Message
			if res.Success {
				report.ServicesHealthy++
			} else {
				report.ServicesFailed++
				report.Failures = append(report.Failures,
					fmt.Sprintf("%s: %s", service, res.Message))
			}
			return nil
		})
	}
	// Probe outcomes are recorded per service, never returned as errors.
	_ = g.Wait()

	c.logger.Info("service dependency check finished",
		"healthy", report.ServicesHealthy,
		"failed", report.ServicesFailed)
	return report
}

func (c *FullChecker) checkOne(ctx context.Context, service types.ServiceType) types.CheckResult {
	p, ok := c.probes[service]
	if !ok {
		return types.CheckResult{
			Success: false,
			Message: "no health probe configured",
		}
	}
	return p.Check(ctx)
}

// FallbackChecker stands in for the full checker before the environment
// context is ready. It reports every canonical service as healthy rather
// than zero healthy: a zero count is indistinguishable from a real outage,
// while the placeholder plus an explicit diagnostic tells readers exactly
// what they are looking at.
type FallbackChecker struct {
	logger *slog.Logger
}

// NewFallbackChecker builds the degraded-confidence checker.
func NewFallbackChecker(logger *slog.Logger) *FallbackChecker {
	if logger == nil {
		logger = slog.Default()
	}
	return &FallbackChecker{logger: logger}
}

// ValidateServiceDependencies reports the placeholder counts. The diagnostic
// in Failures is the only signal that no real probing happened.
func (c *FallbackChecker) ValidateServiceDependencies(context.Context) types.DependencyReport {
	c.logger.Debug("dependency check answered from fallback checker")
	return types.DependencyReport{
		TotalServicesChecked: len(CanonicalServices),
		ServicesHealthy:      len(CanonicalServices),
		ServicesFailed:       0,
		Failures: []string{
			"dependency checker not fully initialized; reporting placeholder counts in fallback mode",
		},
		FallbackMode: true,
	}
}
