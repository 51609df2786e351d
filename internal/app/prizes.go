package app

import (
	"context"
	"fmt"
	"math/big"

	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/prize"
	"github.com/okian/arena/pkg/metrics"
)

// prizeBook records computed payouts and the winner list of a contest.
// Records are written once at finalization and never updated.
type prizeBook struct {
	kv repository.KV
}

// distribute computes the fixed-schedule shares of pool and persists one
// prize record per winner. A contest with no winners distributes nothing.
func (b *prizeBook) distribute(ctx context.Context, contestID uint64, winners []string, pool *big.Int) error {
	if len(winners) == 0 {
		return nil
	}

	shares := prize.Shares(pool, len(winners))
	for i, amount := range shares {
		data, err := repository.Encode(amount)
		if err != nil {
			return err
		}
		if err := b.kv.Set(ctx, repository.PrizeKey(contestID, winners[i]), data); err != nil {
			return err
		}
		metrics.RecordPrizeRecorded()
	}
	return nil
}

// setWinners persists the winner list of a contest.
func (b *prizeBook) setWinners(ctx context.Context, contestID uint64, winners []string) error {
	data, err := repository.Encode(winners)
	if err != nil {
		return err
	}
	return b.kv.Set(ctx, repository.WinnersKey(contestID), data)
}

// winners loads the winner list of a finalized contest.
func (b *prizeBook) winners(ctx context.Context, contestID uint64) ([]string, error) {
	data, ok, err := b.kv.Get(ctx, repository.WinnersKey(contestID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("winners of contest %d: %w", contestID, ErrNotFound)
	}
	var winners []string
	if err := repository.Decode(data, &winners); err != nil {
		return nil, err
	}
	return winners, nil
}

// prizeOf loads the payout recorded for provider in a contest.
func (b *prizeBook) prizeOf(ctx context.Context, contestID uint64, provider string) (*big.Int, error) {
	data, ok, err := b.kv.Get(ctx, repository.PrizeKey(contestID, provider))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("prize %d/%s: %w", contestID, provider, ErrNotFound)
	}
	amount := new(big.Int)
	if err := repository.Decode(data, amount); err != nil {
		return nil, err
	}
	return amount, nil
}
