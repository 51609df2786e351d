package app

import (
	"context"
	"errors"
	"time"

	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// runSweeper periodically finalizes Active contests whose window has ended,
// so contests close on time without an operator call.
func (s *Service) runSweeper(ctx context.Context) {
	defer s.sweepWG.Done()

	ticker := time.NewTicker(s.sweepInterval)
	defer ticker.Stop()

	log := s.logger.Named("sweeper")
	for {
		select {
		case <-ctx.Done():
			return
		case <-s.stopCh:
			return
		case <-ticker.C:
			s.sweep(ctx, log)
		}
	}
}

// sweep runs one pass over the active index.
func (s *Service) sweep(ctx context.Context, log logger.Logger) {
	metrics.RecordSweepRun()

	ids, err := s.contests.activeIDs(ctx)
	if err != nil {
		metrics.RecordSweepError()
		log.Error(ctx, "loading active index failed", logger.Error(err))
		return
	}

	now := s.clk.Now()
	tracked := 0
	for _, id := range ids {
		if providers, err := s.entryAgg.providers(ctx, id); err == nil {
			tracked += len(providers)
		}
		contest, err := s.contests.get(ctx, id)
		if err != nil {
			metrics.RecordSweepError()
			log.Error(ctx, "loading contest failed", logger.Uint64("contest_id", id), logger.Error(err))
			continue
		}
		if contest.Status != model.StatusActive || now < contest.EndTime {
			continue
		}

		winners, err := s.FinalizeContest(ctx, id)
		if err != nil {
			// Another finalizer may have won the race.
			if errors.Is(err, ErrInvalidState) {
				continue
			}
			metrics.RecordSweepError()
			log.Error(ctx, "auto-finalization failed", logger.Uint64("contest_id", id), logger.Error(err))
			continue
		}

		metrics.RecordSweepFinalized()
		log.Info(ctx, "contest auto-finalized",
			logger.Uint64("contest_id", id),
			logger.Int("winners", len(winners)),
		)
	}
	metrics.UpdateTrackedEntries(tracked)
}
