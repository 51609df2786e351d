// Package repository defines the durable key-value store contract the
// contest engine persists through, plus its in-memory and redis-backed
// implementations.
//
// The store guarantees per-key atomicity: Update applies a read-modify-write
// as a single unit, and no two concurrent updates of the same key observe
// the same prior value.
package repository

import (
	"context"
	"encoding/json"
	"fmt"
)

// KV provides read/write access to durable state.
type KV interface {
	// Get returns the value stored at key. ok is false when the key is
	// absent.
	Get(ctx context.Context, key Key) (value []byte, ok bool, err error)

	// Set stores value at key, overwriting any previous value.
	Set(ctx context.Context, key Key, value []byte) error

	// Update atomically applies fn to the current value of key and stores
	// the result. fn receives (nil, false) when the key is absent. An error
	// from fn aborts the update and leaves the key unchanged.
	Update(ctx context.Context, key Key, fn func(cur []byte, ok bool) ([]byte, error)) error

	// Close releases the store's resources.
	Close() error
}

// Encode serializes a record for storage.
func Encode(v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("encode record: %w", err)
	}
	return data, nil
}

// Decode deserializes a stored record.
func Decode(data []byte, v any) error {
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode record: %w", err)
	}
	return nil
}
