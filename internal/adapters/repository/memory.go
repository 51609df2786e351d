package repository

import (
	"context"
	"sync"
	"time"

	"github.com/okian/arena/pkg/metrics"
)

// MemoryKV implements KV with an in-process map. All operations are
// serialized under one lock, which trivially satisfies the per-key
// atomicity contract.
type MemoryKV struct {
	mu     sync.RWMutex
	data   map[string][]byte
	closed bool
}

// NewMemoryKV creates an empty in-memory store.
func NewMemoryKV() *MemoryKV {
	return &MemoryKV{
		data: make(map[string][]byte),
	}
}

// Get returns the value stored at key.
func (s *MemoryKV) Get(ctx context.Context, key Key) ([]byte, bool, error) {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOp("get")
		metrics.RecordStoreOpLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, false, ErrClosed
	}
	value, ok := s.data[key.String()]
	if !ok {
		return nil, false, nil
	}
	// Copy so callers never alias stored bytes.
	out := make([]byte, len(value))
	copy(out, value)
	return out, true, nil
}

// Set stores value at key.
func (s *MemoryKV) Set(ctx context.Context, key Key, value []byte) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOp("set")
		metrics.RecordStoreOpLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	stored := make([]byte, len(value))
	copy(stored, value)
	s.data[key.String()] = stored
	return nil
}

// Update atomically applies fn to the current value of key.
func (s *MemoryKV) Update(ctx context.Context, key Key, fn func(cur []byte, ok bool) ([]byte, error)) error {
	start := time.Now()
	defer func() {
		metrics.RecordStoreOp("update")
		metrics.RecordStoreOpLatency(float64(time.Since(start).Microseconds()) / 1000)
	}()

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	cur, ok := s.data[key.String()]
	next, err := fn(cur, ok)
	if err != nil {
		return err
	}
	stored := make([]byte, len(next))
	copy(stored, next)
	s.data[key.String()] = stored
	return nil
}

// Len returns the number of stored keys.
func (s *MemoryKV) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.data)
}

// Close marks the store closed; further operations fail with ErrClosed.
func (s *MemoryKV) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}
