package alert

import (
	"context"
	"fmt"

	"github.com/fatih/color"

	"github.com/goldenpath-systems/goldenpath/pkg/types"
)

// ConsoleSink writes alerts to the terminal with color.
type ConsoleSink struct{}

// NewConsoleSink creates a new console alert sink.
func NewConsoleSink() *ConsoleSink {
	return &ConsoleSink{}
}

// Name returns the sink identifier.
func (s *ConsoleSink) Name() string { return "console" }

// Send writes an alert to the terminal with color-coded severity.
func (s *ConsoleSink) Send(_ context.Context, alert types.Alert) error {
	var prefix string
	switch alert.Level {
	case types.AlertLevelCritical:
		prefix = color.RedString("[CRITICAL]")
	case types.AlertLevelWarning:
		prefix = color.YellowString("[WARN]")
	default:
		prefix = color.CyanString("[INFO]")
	}

	fmt.Printf("%s [%s] %s: %s\n", prefix, alert.Service, alert.Requirement, alert.Message)
	if alert.BusinessImpact != "" {
		fmt.Printf("  impact: %s\n", alert.BusinessImpact)
	}
	return nil
}
