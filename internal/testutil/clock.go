package testutil

import (
	"sync"
	"time"
)

// SteppingClock is a deterministic time source for tests. Each call to
// Now advances a fixed step from a fixed start, so timestamps produced
// through it are reproducible across runs.
//
// Thread-safety: Now is safe for concurrent use via internal mutex.
type SteppingClock struct {
	mu      sync.Mutex
	current time.Time
	step    time.Duration
}

// NewSteppingClock creates a clock that starts at start and advances by
// step on every call to Now.
func NewSteppingClock(start time.Time, step time.Duration) *SteppingClock {
	return &SteppingClock{current: start, step: step}
}

// Now returns the current instant and advances the clock.
func (c *SteppingClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	now := c.current
	c.current = c.current.Add(c.step)
	return now
}

// FrozenClock returns a time source that always reports the same
// instant. Useful for exercising the collision path of monotonic
// timestamp generation.
func FrozenClock(at time.Time) func() time.Time {
	return func() time.Time { return at }
}
