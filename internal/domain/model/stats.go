package model

import "math/big"

// ProviderStats summarizes one provider's standing across all contests.
type ProviderStats struct {
	Provider       string   `json:"provider"`
	TotalContests  int      `json:"total_contests"`
	Wins           int      `json:"wins"`
	TotalPrizes    *big.Int `json:"total_prizes"`
	ActiveContests int      `json:"active_contests"`
}
