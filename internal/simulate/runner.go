package simulate

import (
	"context"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/okian/arena/pkg/logger"
)

// Signal value generation bounds.
const (
	roiSpread    = 2000 // roi drawn from [-1000, 1000)
	roiOffset    = -1000
	volumeSpread = 100_000
	successBias  = 2 // every other signal succeeds on average
)

// Run executes one simulation: create a contest, submit randomized signals
// for each provider, optionally finalize, then verify the leaderboard.
func Run(ctx context.Context, config *Config) (*Stats, error) {
	log := logger.Get().Named("simulate")
	stats := &Stats{StartTime: time.Now()}

	c := &client{
		baseURL: config.BaseURL,
		http:    &http.Client{Timeout: config.Timeout},
	}

	now := uint64(time.Now().Unix())
	contestID, err := c.createContest(ctx,
		"simulated contest "+uuid.NewString()[:8],
		now-1, now+3600,
		config.Metric, 1, config.PrizePool,
	)
	if err != nil {
		return stats, fmt.Errorf("create contest: %w", err)
	}
	log.Info(ctx, "contest created", logger.Uint64("contest_id", contestID))

	providers := make([]string, config.Providers)
	for i := range providers {
		providers[i] = "provider-" + uuid.NewString()[:8]
	}

	signalID := uint64(1)
	for _, provider := range providers {
		for n := 0; n < config.Signals; n++ {
			roi := int64(rand.Intn(roiSpread) + roiOffset) //nolint:gosec // simulation traffic
			volume := int64(rand.Intn(volumeSpread))       //nolint:gosec // simulation traffic
			success := rand.Intn(successBias) == 0         //nolint:gosec // simulation traffic

			stats.SignalsSubmitted++
			if err := c.submitSignal(ctx, contestID, provider, signalID, roi, volume, success); err != nil {
				stats.SignalsFailed++
				if config.Verbose {
					log.Warn(ctx, "submission failed", logger.Error(err))
				}
			} else {
				stats.SignalsAccepted++
			}
			signalID++
		}
	}
	log.Info(ctx, "signals submitted",
		logger.Int("accepted", stats.SignalsAccepted),
		logger.Int("failed", stats.SignalsFailed),
	)

	entries, err := c.leaderboard(ctx, contestID, config.Providers)
	if err != nil {
		return stats, fmt.Errorf("fetch leaderboard: %w", err)
	}
	if err := verifyOrdering(entries); err != nil {
		return stats, err
	}
	log.Info(ctx, "leaderboard verified", logger.Int("entries", len(entries)))

	if config.Finalize {
		// The contest window is still open; finalization must be refused
		// and no prizes may exist yet.
		if _, err := c.finalize(ctx, contestID); err == nil {
			return stats, fmt.Errorf("finalize before end_time unexpectedly succeeded")
		}
		if len(entries) > 0 {
			if _, err := c.prize(ctx, contestID, entries[0].Provider); err == nil {
				return stats, fmt.Errorf("prize recorded before finalization")
			}
		}
		log.Info(ctx, "premature finalization correctly refused")
	}

	stats.Duration = time.Since(stats.StartTime)
	return stats, nil
}

// verifyOrdering checks that scores are non-increasing.
func verifyOrdering(entries []entry) error {
	for i := 1; i < len(entries); i++ {
		if entries[i-1].Score.Cmp(entries[i].Score) < 0 {
			return fmt.Errorf("leaderboard out of order at rank %d: %s < %s",
				i+1, entries[i-1].Score, entries[i].Score)
		}
	}
	return nil
}
