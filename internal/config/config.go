// Package config handles loading and validation of goldenpath.yaml project configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"slices"

	"time"

	"gopkg.in/yaml.v3"

	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// rawRetryPolicy is a helper struct used for a second YAML unmarshal pass so
// durations can be written as strings ("5s", "500ms") in goldenpath.yaml.
type rawRetryPolicy struct {
	Timeout             string              `yaml:"timeout"`
	MaxRetries          int                 `yaml:"maxRetries"`
	DelayBase           string              `yaml:"delayBase"`
	Strategy            types.RetryStrategy `yaml:"strategy"`
	HealthCheckInterval string              `yaml:"healthCheckInterval,omitempty"`
	Critical            bool                `yaml:"critical"`
}

type rawRetrySection struct {
	Retry map[types.ServiceType]rawRetryPolicy `yaml:"retry,omitempty"`
}

// Load reads and parses goldenpath.yaml from the given directory.
func Load(dir string) (*types.ProjectConfig, error) {
	path := filepath.Join(dir, "goldenpath.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg types.ProjectConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	// Second pass: decode the retry section so duration strings parse.
	var raw rawRetrySection
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing retry config: %w", err)
	}
	if len(raw.Retry) > 0 {
		cfg.Retry = make(map[types.ServiceType]types.RetryPolicy, len(raw.Retry))
		for service, rp := range raw.Retry {
			policy, err := parseRetryPolicy(rp)
			if err != nil {
				return nil, fmt.Errorf("parsing retry.%s: %w", service, err)
			}
			cfg.Retry[service] = policy
		}
	}

	applyDefaults(&cfg)
	if err := validate(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

func parseRetryPolicy(raw rawRetryPolicy) (types.RetryPolicy, error) {
	policy := types.RetryPolicy{
		MaxRetries: raw.MaxRetries,
		Strategy:   raw.Strategy,
		Critical:   raw.Critical,
	}
	var err error
	if raw.Timeout != "" {
		if policy.Timeout, err = time.ParseDuration(raw.Timeout); err != nil {
			return policy, fmt.Errorf("timeout: %w", err)
		}
	}
	if raw.DelayBase != "" {
		if policy.DelayBase, err = time.ParseDuration(raw.DelayBase); err != nil {
			return policy, fmt.Errorf("delayBase: %w", err)
		}
	}
	if raw.HealthCheckInterval != "" {
		if policy.HealthCheckInterval, err = time.ParseDuration(raw.HealthCheckInterval); err != nil {
			return policy, fmt.Errorf("healthCheckInterval: %w", err)
		}
	}
	return policy, nil
}

func applyDefaults(cfg *types.ProjectConfig) {
	if cfg.Environment == "" {
		cfg.Environment = types.EnvDevelopment
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":8080"
	}
}

func validate(cfg *types.ProjectConfig) error {
	if !slices.Contains(types.Environments, cfg.Environment) {
		return fmt.Errorf("unknown environment %q (want one of %v)", cfg.Environment, types.Environments)
	}
	if cfg.Postgres != nil && cfg.Postgres.DSN == "" {
		return fmt.Errorf("postgres.dsn is required when postgres is configured")
	}
	if cfg.Redis != nil && cfg.Redis.Addr == "" {
		return fmt.Errorf("redis.addr is required when redis is configured")
	}
	for service, remote := range cfg.Services {
		if !slices.Contains(types.Services, service) {
			return fmt.Errorf("services.%s: unknown service type", service)
		}
		if remote.HealthURL == "" {
			return fmt.Errorf("services.%s.healthURL is required", service)
		}
	}
	for service, policy := range cfg.Retry {
		if !slices.Contains(types.Services, service) {
			return fmt.Errorf("retry.%s: unknown service type", service)
		}
		switch policy.Strategy {
		case types.RetryExponential, types.RetryLinear, types.RetryFixed, types.RetryNone:
		default:
			return fmt.Errorf("retry.%s: unknown strategy %q", service, policy.Strategy)
		}
	}
	for i, alert := range cfg.Alerts {
		switch alert.Type {
		case types.AlertConsole:
		case types.AlertWebhook:
			if alert.URL == "" {
				return fmt.Errorf("alerts[%d]: url is required for webhook alerts", i)
			}
		case types.AlertFile:
			if alert.Path == "" {
				return fmt.Errorf("alerts[%d]: path is required for file alerts", i)
			}
		default:
			return fmt.Errorf("alerts[%d]: unknown alert type %q", i, alert.Type)
		}
	}
	return nil
}
