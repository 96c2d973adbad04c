package testutil

import (
	"sync"
	"time"
)

// ManualClock is a millisecond clock that only moves when told to.
//
// It satisfies note.Clock, so tests can step through amendment windows
// without sleeping. Readings never decrease: Advance rejects negative
// durations and Set rejects readings in the past.
//
// Thread-safety: All methods are safe for concurrent use via internal mutex.
type ManualClock struct {
	mu  sync.Mutex
	now int64
}

// NewManualClock creates a clock reading start milliseconds.
func NewManualClock(start int64) *ManualClock {
	return &ManualClock{now: start}
}

// NowMillis returns the current reading.
func (c *ManualClock) NowMillis() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

// Advance moves the clock forward by d, truncated to whole milliseconds,
// and returns the new reading.
//
// Panics if d is negative: a test that rewinds time is misconfigured.
func (c *ManualClock) Advance(d time.Duration) int64 {
	if d < 0 {
		panic("ManualClock: cannot advance by a negative duration")
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now += d.Milliseconds()
	return c.now
}

// Set moves the clock to the reading ms.
//
// Panics if ms is earlier than the current reading.
func (c *ManualClock) Set(ms int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if ms < c.now {
		panic("ManualClock: cannot move backwards")
	}
	c.now = ms
}
