// Package simulate drives a running arena server through a full contest
// lifecycle with randomized signal traffic, then verifies the resulting
// leaderboard ordering.
package simulate

import (
	"math/big"
	"time"
)

// Config holds configuration for a simulation run.
type Config struct {
	BaseURL   string        // Base URL of the service
	Providers int           // Number of simulated providers
	Signals   int           // Number of signals per provider
	Metric    string        // Contest metric wire name
	PrizePool int64         // Contest prize pool
	Timeout   time.Duration // HTTP request timeout
	Finalize  bool          // Finalize the contest after submitting
	Verbose   bool          // Enable verbose logging
}

// entry mirrors the leaderboard read shape.
type entry struct {
	Provider    string   `json:"provider"`
	SuccessRate uint32   `json:"success_rate"`
	Score       *big.Int `json:"score"`
}

// Stats holds simulation statistics.
type Stats struct {
	SignalsSubmitted int
	SignalsAccepted  int
	SignalsFailed    int
	Winners          []string
	StartTime        time.Time
	Duration         time.Duration
}
