// Package commands implements the CLI subcommands for the goldenpath binary.
package commands

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/goldenpath-systems/goldenpath/internal/alert"
	"github.com/goldenpath-systems/goldenpath/internal/breaker"
	"github.com/goldenpath-systems/goldenpath/internal/probe"
	"github.com/goldenpath-systems/goldenpath/internal/registry"
	"github.com/goldenpath-systems/goldenpath/internal/retry"
	"github.com/goldenpath-systems/goldenpath/internal/startup"
	"github.com/goldenpath-systems/goldenpath/internal/validator"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// runtime bundles everything a command needs to run validations.
type runtime struct {
	cfg      *types.ProjectConfig
	registry *registry.Registry
	engine   *validator.Engine
	executor *retry.Executor
	host     *probe.Host
	checker  startup.Checker
	cleanup  func()
}

// buildRuntime wires the validation engine, retry executor, host
// collaborators and alert dispatcher from the project config.
func buildRuntime(ctx context.Context, cfg *types.ProjectConfig, logger *slog.Logger) (*runtime, error) {
	if logger == nil {
		logger = slog.Default()
	}

	breakers := breaker.NewStore(types.DefaultBreakerConfig())
	exec := retry.NewExecutor(cfg.Environment, breakers, logger).
		WithPolicyFunc(policyFunc(cfg))

	host, cleanup, err := buildHost(ctx, cfg)
	if err != nil {
		return nil, err
	}

	reg, err := registry.New(registry.GoldenPathRequirements, validator.NewChecks(exec).Set())
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("building requirement registry: %w", err)
	}

	dispatcher, err := alert.NewDispatcher(cfg.Alerts, logger)
	if err != nil {
		cleanup()
		return nil, fmt.Errorf("creating alert dispatcher: %w", err)
	}

	eng := validator.New(reg, cfg.Environment,
		validator.WithAlerts(dispatcher),
		validator.WithLogger(logger))

	envctx := startup.StaticEnvironmentContext{
		Initialized: true,
		Ctx: types.EnvironmentContext{
			Environment:     cfg.Environment,
			ConfidenceScore: 1.0,
			ServiceName:     "goldenpath",
		},
	}
	full := startup.NewFullChecker(startupProbes(cfg, host), logger)
	checker := startup.Select(envctx, full, logger)

	return &runtime{
		cfg:      cfg,
		registry: reg,
		engine:   eng,
		executor: exec,
		host:     host,
		checker:  checker,
		cleanup:  cleanup,
	}, nil
}

// policyFunc resolves retry policies, preferring per-service overrides from
// goldenpath.yaml over built-in defaults.
func policyFunc(cfg *types.ProjectConfig) func(types.ServiceType, types.EnvironmentType) types.RetryPolicy {
	return func(service types.ServiceType, env types.EnvironmentType) types.RetryPolicy {
		if policy, ok := cfg.Retry[service]; ok {
			return policy
		}
		return retry.PolicyFor(service, env)
	}
}

// buildHost connects the configured collaborators. Connection failures are
// not fatal here: a missing collaborator surfaces as a failed requirement,
// which is exactly what validation is for.
func buildHost(ctx context.Context, cfg *types.ProjectConfig) (*probe.Host, func(), error) {
	host := &probe.Host{
		Remotes: make(map[types.ServiceType]probe.ServiceAvailabilityProbe, len(cfg.Services)),
	}
	var closers []func()

	if cfg.Postgres != nil {
		host.OwnedTables = cfg.Postgres.OwnedTables
		intr, err := probe.NewPostgresIntrospector(ctx, cfg.Postgres.DSN)
		if err != nil {
			fmt.Printf("warning: postgres unreachable, schema validation will fail: %v\n", err)
		} else {
			host.DB = intr
			closers = append(closers, intr.Close)
		}
	}

	if cfg.Redis != nil {
		kv := probe.NewRedisKV(*cfg.Redis)
		host.Cache = kv
		closers = append(closers, func() { _ = kv.Close() })
	}

	for service, remote := range cfg.Services {
		host.Remotes[service] = probe.NewHTTPProbe(service, remote.HealthURL)
	}

	cleanup := func() {
		for _, close := range closers {
			close()
		}
	}
	return host, cleanup, nil
}

// startupProbes builds the canonical-service probe set for the full
// dependency checker from whatever the config reaches. Databases are probed
// through their client connections, remote services through their health
// endpoints.
func startupProbes(cfg *types.ProjectConfig, host *probe.Host) map[types.ServiceType]probe.ServiceAvailabilityProbe {
	probes := make(map[types.ServiceType]probe.ServiceAvailabilityProbe)
	if pinger, ok := host.DB.(probe.Pinger); ok {
		probes[types.ServicePostgres] = probe.NewPingProbe(types.ServicePostgres, pinger)
	}
	if pinger, ok := host.Cache.(probe.Pinger); ok {
		probes[types.ServiceRedis] = probe.NewPingProbe(types.ServiceRedis, pinger)
	}
	for service, remote := range cfg.Services {
		probes[service] = probe.NewHTTPProbe(service, remote.HealthURL)
	}
	return probes
}
