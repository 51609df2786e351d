// Package app provides the core contest service that implements the
// dependencies required by the HTTP API: contest lifecycle, signal
// aggregation, ranking, winner selection, and prize distribution.
package app

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"
	"time"

	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/identity"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/scoring"
	"github.com/okian/arena/pkg/clock"
	"github.com/okian/arena/pkg/logger"
	"github.com/okian/arena/pkg/metrics"
)

// Default service configuration constants.
const (
	defaultListLimit     = 50
	defaultSweepInterval = time.Hour
)

// Service implements the contest engine over a durable key-value store.
type Service struct {
	mu sync.RWMutex

	// Core components
	ids      allocator
	contests contestStore
	entryAgg entryAggregator
	prizes   prizeBook

	// Collaborators
	kv     repository.KV
	auth   identity.Authenticator
	scorer scoring.Engine
	clk    clock.Clock

	// Configuration
	listLimit     int
	sweepInterval time.Duration

	// State
	started bool
	stopCh  chan struct{}
	sweepWG sync.WaitGroup

	// Logging
	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithKV sets the durable store. Defaults to an in-memory store.
func WithKV(kv repository.KV) Option {
	return func(s *Service) {
		if kv != nil {
			s.kv = kv
		}
	}
}

// WithAuthenticator sets the identity collaborator.
func WithAuthenticator(auth identity.Authenticator) Option {
	return func(s *Service) {
		if auth != nil {
			s.auth = auth
		}
	}
}

// WithScoringEngine sets the scoring engine.
func WithScoringEngine(engine scoring.Engine) Option {
	return func(s *Service) {
		if engine != nil {
			s.scorer = engine
		}
	}
}

// WithClock sets the time source.
func WithClock(clk clock.Clock) Option {
	return func(s *Service) {
		if clk != nil {
			s.clk = clk
		}
	}
}

// WithListLimit sets the default contest listing page size.
func WithListLimit(limit int) Option {
	return func(s *Service) {
		if limit > 0 {
			s.listLimit = limit
		}
	}
}

// WithSweepInterval sets the auto-finalization sweep interval. Zero
// disables the sweeper.
func WithSweepInterval(interval time.Duration) Option {
	return func(s *Service) {
		if interval >= 0 {
			s.sweepInterval = interval
		}
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		auth:          identity.NewTrusting(),
		scorer:        scoring.NewMetricEngine(),
		clk:           clock.NewSystem(),
		listLimit:     defaultListLimit,
		sweepInterval: defaultSweepInterval,
		stopCh:        make(chan struct{}),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.kv == nil {
		s.kv = repository.NewMemoryKV()
	}
	if s.logger == nil {
		s.logger = logger.Get()
	}

	s.ids = allocator{kv: s.kv}
	s.contests = contestStore{kv: s.kv}
	s.entryAgg = entryAggregator{kv: s.kv, auth: s.auth, scorer: s.scorer}
	s.prizes = prizeBook{kv: s.kv}

	return s
}

// Start brings up background work (the auto-finalization sweeper).
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	if s.logger == nil {
		s.logger = logger.Get()
	}

	if s.sweepInterval > 0 {
		s.sweepWG.Add(1)
		go s.runSweeper(ctx)
	}

	s.started = true
	s.logger.Info(ctx, "contest service started",
		logger.Any("sweep_interval", s.sweepInterval),
	)
	return nil
}

// Stop shuts down background work and closes the store.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	select {
	case <-s.stopCh:
	default:
		close(s.stopCh)
	}
	s.sweepWG.Wait()

	_ = s.kv.Close()

	s.started = false
	s.logger.Info(context.Background(), "contest service stopped")
}

// CreateContest allocates an id and persists a new Active contest. Time
// ordering and pool sign are not validated, matching the engine contract.
func (s *Service) CreateContest(ctx context.Context, name string, startTime, endTime uint64, metric model.Metric, minSignals uint32, prizePool *big.Int) (uint64, error) {
	id, err := s.ids.next(ctx)
	if err != nil {
		return 0, err
	}

	contest := &model.Contest{
		ID:         id,
		Name:       name,
		StartTime:  startTime,
		EndTime:    endTime,
		Metric:     metric,
		MinSignals: minSignals,
		PrizePool:  new(big.Int).Set(prizePool),
		Status:     model.StatusActive,
	}
	if err := s.contests.create(ctx, contest); err != nil {
		return 0, err
	}

	metrics.RecordContestCreated()
	s.logger.Info(ctx, "contest created",
		logger.Uint64("contest_id", id),
		logger.String("name", name),
		logger.String("metric", metric.String()),
	)
	return id, nil
}

// GetContest loads a contest record.
func (s *Service) GetContest(ctx context.Context, contestID uint64) (*model.Contest, error) {
	return s.contests.get(ctx, contestID)
}

// SubmitSignal folds one performance signal into the caller's entry. The
// caller must be authenticated as sub.Provider and the contest window must
// contain the current time.
func (s *Service) SubmitSignal(ctx context.Context, sub model.Submission) error {
	contest, err := s.contests.get(ctx, sub.ContestID)
	if err != nil {
		metrics.RecordSignalRejected("not_found")
		return err
	}

	if err := s.entryAgg.submit(ctx, contest, sub, s.clk.Now()); err != nil {
		metrics.RecordSignalRejected(rejectReason(err))
		return err
	}

	metrics.RecordSignalAccepted()
	return nil
}

// FinalizeContest selects winners among qualified entries, distributes
// prizes, and transitions the contest to Finalized. The transition happens
// exactly once, only after the contest window has ended; it happens even
// when no entries qualify, in which case the winner list is empty and no
// prizes are paid.
func (s *Service) FinalizeContest(ctx context.Context, contestID uint64) ([]string, error) {
	contest, err := s.contests.get(ctx, contestID)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	if now < contest.EndTime {
		return nil, fmt.Errorf("contest %d not ended: %w", contestID, ErrInvalidState)
	}
	if contest.Status != model.StatusActive {
		return nil, fmt.Errorf("contest %d already finalized: %w", contestID, ErrInvalidState)
	}

	entries, err := s.entryAgg.entries(ctx, contestID)
	if err != nil {
		return nil, err
	}

	eligible := qualified(entries, contest.MinSignals)
	if len(eligible) == 0 {
		contest.Status = model.StatusFinalized
		if err := s.contests.put(ctx, contest); err != nil {
			return nil, err
		}
		metrics.RecordContestFinalized()
		s.logger.Warn(ctx, "contest finalized with no qualified entries",
			logger.Uint64("contest_id", contestID),
		)
		return []string{}, nil
	}

	winners := selectWinners(eligible)
	if err := s.prizes.distribute(ctx, contestID, winners, contest.PrizePool); err != nil {
		return nil, err
	}

	contest.Status = model.StatusFinalized
	if err := s.contests.put(ctx, contest); err != nil {
		return nil, err
	}
	if err := s.prizes.setWinners(ctx, contestID, winners); err != nil {
		return nil, err
	}

	metrics.RecordContestFinalized()
	metrics.RecordWinnersSelected(len(winners))
	s.logger.Info(ctx, "contest finalized",
		logger.Uint64("contest_id", contestID),
		logger.Int("winners", len(winners)),
	)
	return winners, nil
}

// Leaderboard returns up to limit entries ranked by score descending,
// ties broken by provider identity ascending.
func (s *Service) Leaderboard(ctx context.Context, contestID uint64, limit int) ([]*model.ContestEntry, error) {
	if _, err := s.contests.get(ctx, contestID); err != nil {
		return nil, err
	}
	entries, err := s.entryAgg.entries(ctx, contestID)
	if err != nil {
		return nil, err
	}
	metrics.RecordLeaderboardQuery()
	return leaderboard(entries, limit), nil
}

// ListContests returns up to limit contests, newest first, optionally
// filtered by status. A non-positive limit falls back to the configured
// default.
func (s *Service) ListContests(ctx context.Context, status *model.Status, limit int) ([]*model.Contest, error) {
	if limit <= 0 {
		limit = s.listLimit
	}
	return s.contests.list(ctx, status, limit)
}

// ActiveContests returns contests whose window has opened and whose status
// is still Active.
func (s *Service) ActiveContests(ctx context.Context) ([]*model.Contest, error) {
	ids, err := s.contests.activeIDs(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clk.Now()
	contests := make([]*model.Contest, 0, len(ids))
	for _, id := range ids {
		contest, err := s.contests.get(ctx, id)
		if err != nil {
			return nil, err
		}
		if contest.Status == model.StatusActive && contest.StartTime <= now {
			contests = append(contests, contest)
		}
	}
	metrics.UpdateActiveContests(len(contests))
	return contests, nil
}

// Winners returns the winner list persisted at finalization.
func (s *Service) Winners(ctx context.Context, contestID uint64) ([]string, error) {
	if _, err := s.contests.get(ctx, contestID); err != nil {
		return nil, err
	}
	return s.prizes.winners(ctx, contestID)
}

// Prize returns the payout recorded for provider in a contest.
func (s *Service) Prize(ctx context.Context, contestID uint64, provider string) (*big.Int, error) {
	if _, err := s.contests.get(ctx, contestID); err != nil {
		return nil, err
	}
	return s.prizes.prizeOf(ctx, contestID, provider)
}

// GetProviderStats walks all contests and aggregates the provider's wins,
// prize total, and active participation.
func (s *Service) GetProviderStats(ctx context.Context, provider string) (model.ProviderStats, error) {
	contests, err := s.contests.list(ctx, nil, 0)
	if err != nil {
		return model.ProviderStats{}, err
	}

	stats := model.ProviderStats{
		Provider:    provider,
		TotalPrizes: new(big.Int),
	}
	for _, contest := range contests {
		stats.TotalContests++

		if contest.Status == model.StatusActive {
			entry, err := s.entryAgg.entry(ctx, contest.ID, provider)
			if err == nil && len(entry.SignalsSubmitted) > 0 {
				stats.ActiveContests++
			}
			continue
		}

		winners, err := s.prizes.winners(ctx, contest.ID)
		if err != nil {
			// Finalized with no qualified entries writes no winner record.
			continue
		}
		for _, w := range winners {
			if w != provider {
				continue
			}
			stats.Wins++
			if amount, err := s.prizes.prizeOf(ctx, contest.ID, provider); err == nil {
				stats.TotalPrizes.Add(stats.TotalPrizes, amount)
			}
		}
	}
	return stats, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]interface{} {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := map[string]interface{}{
		"started":        s.started,
		"sweep_interval": s.sweepInterval.String(),
	}
	if mem, ok := s.kv.(*repository.MemoryKV); ok {
		stats["stored_keys"] = mem.Len()
	}
	return stats
}

// rejectReason maps a submission error onto a metrics label.
func rejectReason(err error) string {
	switch {
	case errors.Is(err, ErrUnauthorized):
		return "unauthorized"
	case errors.Is(err, ErrInvalidState):
		return "window"
	case errors.Is(err, ErrNotFound):
		return "not_found"
	default:
		return "internal"
	}
}
