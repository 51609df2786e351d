package model

import "math/big"

// ContestEntry is a provider's running statistics within one contest.
// At most one entry exists per (contest, provider) pair; it is created
// lazily on first submission and mutated in place thereafter.
type ContestEntry struct {
	ContestID uint64 `json:"contest_id"`
	Provider  string `json:"provider"`

	// SignalsSubmitted is append-only. Duplicate signal ids are accepted
	// as-is; the length counts every accepted submission.
	SignalsSubmitted []uint64 `json:"signals_submitted"`

	TotalROI    *big.Int `json:"total_roi"`
	SuccessRate uint32   `json:"success_rate"`
	TotalVolume *big.Int `json:"total_volume"`

	// Score is derived from the contest metric and recomputed on every
	// submission.
	Score *big.Int `json:"score"`
}

// NewContestEntry creates a zeroed entry for (contestID, provider).
func NewContestEntry(contestID uint64, provider string) *ContestEntry {
	return &ContestEntry{
		ContestID:   contestID,
		Provider:    provider,
		TotalROI:    new(big.Int),
		TotalVolume: new(big.Int),
		Score:       new(big.Int),
	}
}

// Submission is one performance signal reported by a provider.
type Submission struct {
	ContestID    uint64   `json:"contest_id"`
	Provider     string   `json:"provider"`
	SignalID     uint64   `json:"signal_id"`
	ROI          *big.Int `json:"roi"`
	Volume       *big.Int `json:"volume"`
	IsSuccessful bool     `json:"is_successful"`
}
