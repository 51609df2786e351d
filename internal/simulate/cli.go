package simulate

import (
	"fmt"
	"os"

	"github.com/okian/arena/pkg/logger"
)

// SetupLogging initializes structured logging for a simulation run.
func SetupLogging(level string) error {
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	if level != "" {
		if err := logger.SetLevelString(level); err != nil {
			return fmt.Errorf("failed to set log level: %w", err)
		}
	}
	return nil
}

// ShowHelp prints usage information for the simulation tool.
func ShowHelp() {
	os.Stdout.WriteString(`Arena Contest Simulator
=======================

Drives a running arena server through a full contest lifecycle with
randomized signal traffic and verifies the leaderboard ordering.

Usage:
  go run cmd/simulate/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9080")
  -providers int
        Number of simulated signal providers (default 20)
  -signals int
        Number of signals submitted per provider (default 50)
  -metric string
        Contest metric: highest_roi, best_success_rate, most_volume (default "highest_roi")
  -pool int
        Contest prize pool (default 1000000)
  -timeout duration
        HTTP request timeout (default 30s)
  -finalize
        Attempt finalization after submitting (expected to be refused while the window is open)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Simulate with default settings
  go run cmd/simulate/main.go

  # Heavier traffic against a custom endpoint
  go run cmd/simulate/main.go -providers 100 -signals 200 -url http://localhost:8080

  # Volume contest with verbose output
  go run cmd/simulate/main.go -metric most_volume -verbose
`)
}
