package app

import (
	"context"

	"github.com/okian/arena/internal/adapters/repository"
)

// firstContestID is the value the counter starts from when absent.
const firstContestID uint64 = 1

// allocator issues unique, monotonically increasing contest identifiers
// from a durable counter. The counter is the sole source of contest
// identity uniqueness; the read-modify-write runs atomically under the
// store's per-key serialization, never through a process global.
type allocator struct {
	kv repository.KV
}

// next reads the counter (default 1 if absent), persists counter+1, and
// returns the pre-increment value.
func (a *allocator) next(ctx context.Context) (uint64, error) {
	var id uint64
	err := a.kv.Update(ctx, repository.NextIDKey(), func(cur []byte, ok bool) ([]byte, error) {
		id = firstContestID
		if ok {
			if err := repository.Decode(cur, &id); err != nil {
				return nil, err
			}
		}
		return repository.Encode(id + 1)
	})
	if err != nil {
		return 0, err
	}
	return id, nil
}
