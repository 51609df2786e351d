package app

import (
	"context"
	"errors"
	"fmt"

	"github.com/okian/arena/internal/adapters/repository"
	"github.com/okian/arena/internal/domain/model"
)

// contestStore owns contest records and the active-contest index.
type contestStore struct {
	kv repository.KV
}

// create persists contest and appends its id to the active index. The
// caller has already allocated the id and set status Active. Time ordering
// and pool sign are deliberately not validated.
func (c *contestStore) create(ctx context.Context, contest *model.Contest) error {
	data, err := repository.Encode(contest)
	if err != nil {
		return err
	}
	if err := c.kv.Set(ctx, repository.ContestKey(contest.ID), data); err != nil {
		return err
	}

	return c.kv.Update(ctx, repository.ActiveIndexKey(), func(cur []byte, ok bool) ([]byte, error) {
		var ids []uint64
		if ok {
			if err := repository.Decode(cur, &ids); err != nil {
				return nil, err
			}
		}
		return repository.Encode(append(ids, contest.ID))
	})
}

// get loads a contest record.
func (c *contestStore) get(ctx context.Context, contestID uint64) (*model.Contest, error) {
	data, ok, err := c.kv.Get(ctx, repository.ContestKey(contestID))
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("contest %d: %w", contestID, ErrNotFound)
	}
	contest := &model.Contest{}
	if err := repository.Decode(data, contest); err != nil {
		return nil, err
	}
	return contest, nil
}

// put overwrites a contest record.
func (c *contestStore) put(ctx context.Context, contest *model.Contest) error {
	data, err := repository.Encode(contest)
	if err != nil {
		return err
	}
	return c.kv.Set(ctx, repository.ContestKey(contest.ID), data)
}

// activeIDs returns the active-contest index. The index is append-only;
// finalized contests are filtered by status on read.
func (c *contestStore) activeIDs(ctx context.Context) ([]uint64, error) {
	data, ok, err := c.kv.Get(ctx, repository.ActiveIndexKey())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var ids []uint64
	if err := repository.Decode(data, &ids); err != nil {
		return nil, err
	}
	return ids, nil
}

// list returns up to limit contests, most recently created first,
// optionally filtered by status. Contest ids are dense from 1 up to the
// durable counter, so listing walks ids downward.
func (c *contestStore) list(ctx context.Context, status *model.Status, limit int) ([]*model.Contest, error) {
	data, ok, err := c.kv.Get(ctx, repository.NextIDKey())
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, nil
	}
	var nextID uint64
	if err := repository.Decode(data, &nextID); err != nil {
		return nil, err
	}

	contests := make([]*model.Contest, 0, limit)
	for id := nextID - 1; id >= firstContestID; id-- {
		contest, err := c.get(ctx, id)
		if errors.Is(err, ErrNotFound) {
			// Ids are allocated before the record write commits, so a
			// missing record is skipped, not fatal.
			continue
		}
		if err != nil {
			return nil, err
		}
		if status != nil && contest.Status != *status {
			continue
		}
		contests = append(contests, contest)
		if limit > 0 && len(contests) >= limit {
			break
		}
	}
	return contests, nil
}
