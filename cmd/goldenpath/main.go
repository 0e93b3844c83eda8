package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/goldenpath-systems/goldenpath/internal/commands"
)

var version = "dev"

func main() {
	root := &cobra.Command{
		Use:   "goldenpath",
		Short: "Service dependency validation for the critical user journey",
		Long: `Goldenpath validates that the platform's golden path (authenticate, chat,
get an AI response) can succeed before traffic is admitted. It checks owned
database schema, session storage, auth capabilities, the agent execution
chain and realtime event delivery, with environment-aware retry policies and
circuit breakers guarding every network probe.`,
		Version: version,
	}

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewValidateCmd(),
		commands.NewStatusCmd(),
		commands.NewServeCmd(),
	)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
