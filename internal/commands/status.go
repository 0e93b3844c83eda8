package commands

import (
	"context"
	"fmt"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/goldenpath-systems/goldenpath/internal/config"
	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

const statusTimeout = 30 * time.Second

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show requirements, dependency health and circuit breakers",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus()
		},
	}
}

func runStatus() error {
	cfg, err := config.Load(".")
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), statusTimeout)
	defer cancel()

	rt, err := buildRuntime(ctx, cfg, nil)
	if err != nil {
		return err
	}
	defer rt.cleanup()

	bold := color.New(color.Bold)

	_, _ = bold.Println("Golden Path Requirements:")
	fmt.Println()
	for _, req := range rt.registry.Requirements() {
		severity := color.YellowString("warn    ")
		if req.Critical {
			severity = color.RedString("critical")
		}
		fmt.Printf("  %s  %-30s %-20s %s\n", severity, req.Name, req.ServiceType, req.Description)
	}

	fmt.Println()
	_, _ = bold.Println("Service Dependencies:")
	fmt.Println()
	dep := rt.checker.ValidateServiceDependencies(ctx)
	if dep.FallbackMode {
		color.Yellow("  (fallback mode: environment context not initialized)")
	}
	fmt.Printf("  checked: %d  healthy: %d  failed: %d\n",
		dep.TotalServicesChecked, dep.ServicesHealthy, dep.ServicesFailed)
	for _, failure := range dep.Failures {
		color.Red("  - %s", failure)
	}

	fmt.Println()
	_, _ = bold.Println("Circuit Breakers:")
	fmt.Println()
	circuits := rt.executor.Breakers().Snapshot()
	if len(circuits) == 0 {
		fmt.Println("  no circuits recorded yet")
	}
	for _, c := range circuits {
		stateStr := string(c.State)
		switch c.State {
		case types.BreakerClosed:
			stateStr = color.GreenString(stateStr)
		case types.BreakerOpen:
			stateStr = color.RedString(stateStr)
		case types.BreakerHalfOpen:
			stateStr = color.YellowString(stateStr)
		}
		fmt.Printf("  %-25s %s  failures=%d\n", c.Service, stateStr, c.FailureCount)
	}
	fmt.Println()
	return nil
}
