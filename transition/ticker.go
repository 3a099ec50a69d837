package transition

import (
	"context"
	"time"
)

// TickerScheduler is a FrameScheduler that advances a FrameQueue from a
// time.Ticker, standing in for a display refresh loop.
type TickerScheduler struct {
	*FrameQueue
	clock    Clock
	interval time.Duration
}

// NewTickerScheduler creates a TickerScheduler that fires every interval.
func NewTickerScheduler(interval time.Duration) *TickerScheduler {
	s := new(TickerScheduler)
	s.FrameQueue = NewFrameQueue()
	s.clock = NewMonotonicClock()
	s.interval = interval
	return s
}

// Now returns the current reading of the scheduler's clock, the time base of
// the timestamps it passes to frame callbacks.
func (s *TickerScheduler) Now() time.Duration {
	return s.clock.Now()
}

// Run advances the queue on every tick until ctx is done.
func (s *TickerScheduler) Run(ctx context.Context) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.Advance(s.clock.Now())
		}
	}
}
