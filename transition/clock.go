package transition

import "time"

// A Clock reports a monotonic reading as an offset from an arbitrary origin.
// Readings never decrease and share a time base with the FrameScheduler that
// the clock is paired with.
type Clock interface {
	Now() time.Duration
}

// MonotonicClock measures time since it was created.
type MonotonicClock struct {
	origin time.Time
}

// NewMonotonicClock creates a MonotonicClock whose origin is now.
func NewMonotonicClock() *MonotonicClock {
	c := new(MonotonicClock)
	c.origin = time.Now()
	return c
}

// Now returns the time elapsed since the clock was created.
func (c *MonotonicClock) Now() time.Duration {
	return time.Since(c.origin)
}
