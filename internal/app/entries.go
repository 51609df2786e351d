package app

import (
	"context"
	"fmt"

	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/identity"
	"github.com/okian/arena/internal/domain/model"
	"github.com/okian/arena/internal/domain/scoring"
)

// entryAggregator accumulates submitted signals into per-provider running
// statistics. At most one entry exists per (contest, provider); it is
// created lazily on first submission.
type entryAggregator struct {
	kv     repository.KV
	auth   identity.Authenticator
	scorer scoring.Engine
}

// submit validates the caller and the contest window, then folds the
// submission into the provider's entry and refreshes its score. The entry
// read-modify-write runs atomically under the store's per-key
// serialization.
func (a *entryAggregator) submit(ctx context.Context, contest *model.Contest, sub model.Submission, now uint64) error {
	if err := a.auth.Require(ctx, sub.Provider); err != nil {
		return err
	}

	if now < contest.StartTime || now > contest.EndTime {
		return fmt.Errorf("contest %d not active at %d: %w", contest.ID, now, ErrInvalidState)
	}

	key := repository.EntryKey(contest.ID, sub.Provider)
	err := a.kv.Update(ctx, key, func(cur []byte, ok bool) ([]byte, error) {
		entry := model.NewContestEntry(contest.ID, sub.Provider)
		if ok {
			if err := repository.Decode(cur, entry); err != nil {
				return nil, err
			}
		}

		// Duplicate signal ids are accepted as-is; the sequence counts
		// every accepted submission.
		entry.SignalsSubmitted = append(entry.SignalsSubmitted, sub.SignalID)
		entry.TotalROI.Add(entry.TotalROI, sub.ROI)
		entry.TotalVolume.Add(entry.TotalVolume, sub.Volume)

		// Success rate is re-derived from the stored percentage, not from
		// an exact successful count. The reconstruction truncates at both
		// divisions, so repeated submissions can accumulate rounding
		// drift. That is the persisted contract; do not replace it with
		// exact tracking.
		n := uint32(len(entry.SignalsSubmitted))
		successful := entry.SuccessRate * (n - 1) / 100
		if sub.IsSuccessful {
			successful++
		}
		entry.SuccessRate = successful * 100 / n

		score, err := a.scorer.Score(ctx, entry, contest.Metric)
		if err != nil {
			return nil, err
		}
		entry.Score = score

		return repository.Encode(entry)
	})
	if err != nil {
		return err
	}

	return a.index(ctx, contest.ID, sub.Provider)
}

// index records the provider in the contest's entry index on first
// submission. The index preserves insertion order, which is the store's
// natural order for unranked reads.
func (a *entryAggregator) index(ctx context.Context, contestID uint64, provider string) error {
	return a.kv.Update(ctx, repository.EntryIndexKey(contestID), func(cur []byte, ok bool) ([]byte, error) {
		var providers []string
		if ok {
			if err := repository.Decode(cur, &providers); err != nil {
				return nil, err
			}
		}
		for _, p := range providers {
			if p == provider {
				return cur, nil
			}
		}
		return repository.Encode(append(providers, provider))
	})
}

// entry loads one provider's entry.
func (a *entryAggregator) entry(ctx context.Context, contestID uint64, provider string) (*model.ContestEntry, error) {
	data, ok, err := a.kv.Get(ctx, repository.EntryKey(contestID, provider))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("entry %d/%s: %w", contestID, provider, ErrNotFound)
	}
	entry := &model.ContestEntry{}
	if err := repository.Decode(data, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

// providers loads a contest's entry index.
func (a *entryAggregator) providers(ctx context.Context, contestID uint64) ([]string, error) {
	data, ok, err := a.kv.Get(ctx, repository.EntryIndexKey(contestID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var providers []string
	if err := repository.Decode(data, &providers); err != nil {
		return nil, err
	}
	return providers, nil
}

// entries loads every entry of a contest in insertion order.
func (a *entryAggregator) entries(ctx context.Context, contestID uint64) ([]*model.ContestEntry, error) {
	providers, err := a.providers(ctx, contestID)
	if err != nil {
		return nil, err
	}

	entries := make([]*model.ContestEntry, 0, len(providers))
	for _, provider := range providers {
		entry, err := a.entry(ctx, contestID, provider)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, nil
}
