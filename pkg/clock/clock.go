// Package clock abstracts the source of current time so contest windowing
// can be driven by a real or a test-controlled clock.
package clock

import (
	"sync/atomic"
	"time"
)

// Clock returns the current time as an unsigned unix timestamp in seconds.
// It is monotonic within a single operation's execution.
type Clock interface {
	Now() uint64
}

// System reads the wall clock.
type System struct{}

// NewSystem creates a system clock.
func NewSystem() *System {
	return &System{}
}

// Now returns the current unix time in seconds.
func (s *System) Now() uint64 {
	return uint64(time.Now().Unix())
}

// Manual is a test clock that only moves when told to.
type Manual struct {
	now atomic.Uint64
}

// NewManual creates a manual clock pinned at now.
func NewManual(now uint64) *Manual {
	m := &Manual{}
	m.now.Store(now)
	return m
}

// Now returns the pinned time.
func (m *Manual) Now() uint64 {
	return m.now.Load()
}

// Set pins the clock to now.
func (m *Manual) Set(now uint64) {
	m.now.Store(now)
}

// Advance moves the clock forward by d seconds.
func (m *Manual) Advance(d uint64) {
	m.now.Add(d)
}
