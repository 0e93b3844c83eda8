package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goldenpath-systems/goldenpath/internal/config"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

const validateTimeout = 2 * time.Minute

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "validate [service...]",
		Short: "Run golden path validation",
		Long: `Validates that the critical user journey (authenticate, chat, get an AI
response) can succeed: schema, session storage, auth capabilities, the agent
execution chain and realtime event delivery. With no arguments all services
are validated; otherwise only the named service types.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(args, asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "Emit the raw validation report as JSON")
	return cmd
}

func runValidate(args []string, asJSON bool) error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	services, err := parseServices(args)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), validateTimeout)
	defer cancel()

	rt, err := buildRuntime(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer rt.cleanup()

	report := rt.engine.Validate(ctx, rt.host, services)

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		if err := enc.Encode(report); err != nil {
			return err
		}
	} else {
		printReport(report)
	}

	if !report.OverallSuccess {
		return fmt.Errorf("golden path validation failed with %d critical failures",
			len(report.CriticalFailures))
	}
	return nil
}

func parseServices(args []string) ([]types.ServiceType, error) {
	if len(args) == 0 {
		return types.Services, nil
	}
	byName := make(map[string]types.ServiceType, len(types.Services))
	for _, s := range types.Services {
		byName[string(s)] = s
	}
	var services []types.ServiceType
	for _, arg := range args {
		s, ok := byName[arg]
		if !ok {
			return nil, fmt.Errorf("unknown service type %q (want one of %v)", arg, types.Services)
		}
		services = append(services, s)
	}
	return services, nil
}

func printReport(report *types.Report) {
	bold := color.New(color.Bold)

	fmt.Println()
	if report.OverallSuccess {
		color.Green("Golden Path: READY ✓")
	} else {
		color.Red("Golden Path: NOT READY ✗")
	}
	fmt.Printf("  environment: %s  run: %s\n", report.Environment, report.RunID)
	fmt.Printf("  services: %d  passed: %d  failed: %d\n",
		report.ServicesValidated, report.RequirementsPassed, report.RequirementsFailed)

	fmt.Println()
	for _, res := range report.Results {
		switch {
		case res.Success:
			color.Green("  ✓ %s/%s", res.Service, res.Requirement)
		default:
			color.Red("  ✗ %s/%s: %s", res.Service, res.Requirement, res.Message)
		}
	}

	if len(report.CriticalFailures) > 0 {
		fmt.Println()
		_, _ = bold.Println("Critical failures:")
		for i, failure := range report.CriticalFailures {
			color.Red("  - %s", failure)
			if i < len(report.BusinessImpactFailures) {
				fmt.Printf("    impact: %s\n", report.BusinessImpactFailures[i])
			}
		}
	}
	if len(report.Warnings) > 0 {
		fmt.Println()
		_, _ = bold.Println("Warnings:")
		for _, w := range report.Warnings {
			color.Yellow("  - %s", w)
		}
	}
	fmt.Println()
}
