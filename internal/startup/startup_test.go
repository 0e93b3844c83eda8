package startup

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goldenpath-systems/goldenpath/internal/probe"
	"github.com/goldenpath-systems/goldenpath/internal/testutil"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

type stubEnvContext struct {
	initialized bool
	ctx         types.EnvironmentContext
}

func (s *stubEnvContext) IsInitialized() bool { return s.initialized }

func (s *stubEnvContext) EnvironmentContext() types.EnvironmentContext { return s.ctx }

func allHealthyProbes() map[types.ServiceType]probe.ServiceAvailabilityProbe {
	probes := make(map[types.ServiceType]probe.ServiceAvailabilityProbe, len(CanonicalServices))
	for _, service := range CanonicalServices {
		probes[service] = testutil.HealthyProbe(service)
	}
	return probes
}

func TestSelect_InitializedContextGetsFullChecker(t *testing.T) {
	full := NewFullChecker(allHealthyProbes(), nil)

	got := Select(&stubEnvContext{initialized: true}, full, nil)

	assert.Same(t, full, got.(*FullChecker))
}

func TestSelect_UninitializedContextGetsFallback(t *testing.T) {
	full := NewFullChecker(allHealthyProbes(), nil)

	got := Select(&stubEnvContext{initialized: false}, full, nil)

	assert.IsType(t, &FallbackChecker{}, got)
}

func TestSelect_NilContextGetsFallback(t *testing.T) {
	got := Select(nil, NewFullChecker(nil, nil), nil)
	assert.IsType(t, &FallbackChecker{}, got)
}

func TestFallbackChecker_ReportsPlaceholderCounts(t *testing.T) {
	checker := Select(&stubEnvContext{initialized: false}, nil, nil)

	report := checker.ValidateServiceDependencies(context.Background())

	assert.Equal(t, 6, report.TotalServicesChecked)
	assert.Equal(t, 6, report.ServicesHealthy)
	assert.Zero(t, report.ServicesFailed)
	assert.True(t, report.FallbackMode)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0], "not fully initialized")
	assert.Contains(t, report.Failures[0], "fallback mode")
	assert.NotZero(t, report.TotalServicesChecked, "fallback must never look like an outage")
}

func TestFullChecker_AllHealthy(t *testing.T) {
	checker := NewFullChecker(allHealthyProbes(), nil)

	report := checker.ValidateServiceDependencies(context.Background())

	assert.Equal(t, len(CanonicalServices), report.TotalServicesChecked)
	assert.Equal(t, len(CanonicalServices), report.ServicesHealthy)
	assert.Zero(t, report.ServicesFailed)
	assert.Empty(t, report.Failures)
	assert.False(t, report.FallbackMode)
	assert.Len(t, report.Details, len(CanonicalServices))
}

func TestFullChecker_ReportsTrueCounts(t *testing.T) {
	probes := allHealthyProbes()
	probes[types.ServiceRedis] = testutil.DownProbe(types.ServiceRedis)
	probes[types.ServiceLLM] = testutil.DownProbe(types.ServiceLLM)
	checker := NewFullChecker(probes, nil)

	report := checker.ValidateServiceDependencies(context.Background())

	assert.Equal(t, 6, report.TotalServicesChecked)
	assert.Equal(t, 4, report.ServicesHealthy)
	assert.Equal(t, 2, report.ServicesFailed)
	require.Len(t, report.Failures, 2)
	for _, failure := range report.Failures {
		assert.True(t,
			strings.HasPrefix(failure, "database_redis:") || strings.HasPrefix(failure, "llm_service:"),
			"unexpected failure entry %q", failure)
	}
}

func TestFullChecker_MissingProbeCountsAsFailed(t *testing.T) {
	probes := allHealthyProbes()
	delete(probes, types.ServiceWebsocket)
	checker := NewFullChecker(probes, nil)

	report := checker.ValidateServiceDependencies(context.Background())

	assert.Equal(t, 1, report.ServicesFailed)
	require.Len(t, report.Failures, 1)
	assert.Contains(t, report.Failures[0], "websocket_service: no health probe configured")
}

func TestFullChecker_EveryProbeIsConsulted(t *testing.T) {
	probes := allHealthyProbes()
	checker := NewFullChecker(probes, nil)

	checker.ValidateServiceDependencies(context.Background())

	for service, p := range probes {
		assert.Equal(t, 1, p.(*testutil.StubProbe).Calls, "probe for %s", service)
	}
}
