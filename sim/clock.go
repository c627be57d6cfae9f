package sim

import (
	"sync"
	"time"
)

// Clock is a manually advanced time source
type Clock struct {
	mtx sync.Mutex
	now time.Time
}

// NewClock starts at start
func NewClock(start time.Time) *Clock {
	return &Clock{now: start}
}

// Now returns the current simulated time
func (c *Clock) Now() time.Time {
	c.mtx.Lock()
	defer c.mtx.Unlock()
	return c.now
}

// Advance moves the clock forward by d
func (c *Clock) Advance(d time.Duration) {
	c.mtx.Lock()
	c.now = c.now.Add(d)
	c.mtx.Unlock()
}
