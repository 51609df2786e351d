package app

import (
	"sort"

	"github.com/okian/arena/internal/domain/model"
)

// maxWinners is how many ranked providers win prizes.
const maxWinners = 3

// rankEntries sorts entries by score descending. Ties break by provider
// identity ascending so rankings are reproducible across runs.
func rankEntries(entries []*model.ContestEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		switch entries[i].Score.Cmp(entries[j].Score) {
		case 1:
			return true
		case -1:
			return false
		default:
			return entries[i].Provider < entries[j].Provider
		}
	})
}

// leaderboard returns entries ranked for display, truncated to
// min(limit, len(entries)).
func leaderboard(entries []*model.ContestEntry, limit int) []*model.ContestEntry {
	ranked := make([]*model.ContestEntry, len(entries))
	copy(ranked, entries)
	rankEntries(ranked)

	if limit < 0 {
		limit = 0
	}
	if limit > len(ranked) {
		limit = len(ranked)
	}
	return ranked[:limit]
}

// qualified filters entries to those with at least minSignals accepted
// submissions, preserving the store's natural order.
func qualified(entries []*model.ContestEntry, minSignals uint32) []*model.ContestEntry {
	out := make([]*model.ContestEntry, 0, len(entries))
	for _, entry := range entries {
		if uint32(len(entry.SignalsSubmitted)) >= minSignals {
			out = append(out, entry)
		}
	}
	return out
}

// selectWinners ranks entries and returns the first min(3, len) provider
// identities in rank order. Empty input yields an empty sequence.
func selectWinners(entries []*model.ContestEntry) []string {
	ranked := make([]*model.ContestEntry, len(entries))
	copy(ranked, entries)
	rankEntries(ranked)

	n := len(ranked)
	if n > maxWinners {
		n = maxWinners
	}
	winners := make([]string, 0, n)
	for i := 0; i < n; i++ {
		winners = append(winners, ranked[i].Provider)
	}
	return winners
}
