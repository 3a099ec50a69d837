// Package transition animates a value over a fixed duration.
//
// A Transition samples elapsed time once per frame, maps it through a
// TimingFunc and hands the eased progress to a Callback. Frames come from a
// FrameScheduler; FrameQueue and TickerScheduler are provided, and hosts with
// their own render loop advance a FrameQueue once per rendered frame.
package transition

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
)

var (
	// ErrInvalidConfiguration is returned when a Transition is constructed
	// with unusable parameters.
	ErrInvalidConfiguration = errors.New("transition: invalid configuration")

	// ErrSchedulerUnavailable is returned by Start when no FrameScheduler
	// was configured.
	ErrSchedulerUnavailable = errors.New("transition: frame scheduler unavailable")
)

// A Callback receives the eased progress of a running transition.
type Callback func(delta float64)

// Transition holds the immutable configuration of an animated transition.
// Every call to Start begins an independent Run.
type Transition struct {
	callback        Callback
	duration        time.Duration
	timing          TimingFunc
	scheduler       FrameScheduler
	clock           Clock
	clockTimestamps bool
	finalFrame      bool
	logger          *zap.Logger
}

// An Option configures a Transition.
type Option func(*Transition)

// WithTimingFunc sets the easing curve. A nil TimingFunc selects Linear.
func WithTimingFunc(fn TimingFunc) Option {
	return func(tr *Transition) {
		tr.timing = fn
	}
}

// WithScheduler sets the FrameScheduler that drives runs.
func WithScheduler(s FrameScheduler) Option {
	return func(tr *Transition) {
		tr.scheduler = s
	}
}

// WithClock sets the clock used to capture the start of a run. When unset,
// the scheduler is used if it is also a Clock, otherwise a MonotonicClock.
func WithClock(c Clock) Option {
	return func(tr *Transition) {
		tr.clock = c
	}
}

// WithClockTimestamps makes each frame re-read the clock rather than trust
// the timestamp passed by the scheduler.
func WithClockTimestamps() Option {
	return func(tr *Transition) {
		tr.clockTimestamps = true
	}
}

// WithFinalFrame delivers one last callback at full progress, timing(1),
// before a run completes.
func WithFinalFrame() Option {
	return func(tr *Transition) {
		tr.finalFrame = true
	}
}

// WithLogger sets the logger for run lifecycle events.
func WithLogger(l *zap.Logger) Option {
	return func(tr *Transition) {
		tr.logger = l
	}
}

// New creates a Transition that calls callback with eased progress for the
// given duration. It does not start anything; see Start.
func New(callback Callback, duration time.Duration, opts ...Option) (*Transition, error) {
	if callback == nil {
		return nil, fmt.Errorf("%w: nil callback", ErrInvalidConfiguration)
	}
	if duration <= 0 {
		return nil, fmt.Errorf("%w: duration %v is not positive", ErrInvalidConfiguration, duration)
	}

	tr := new(Transition)
	tr.callback = callback
	tr.duration = duration
	tr.timing = Linear
	for _, opt := range opts {
		opt(tr)
	}

	if tr.timing == nil {
		tr.timing = Linear
	}
	if tr.logger == nil {
		tr.logger = zap.NewNop()
	}
	if tr.clock == nil {
		if c, ok := tr.scheduler.(Clock); ok {
			tr.clock = c
		} else {
			tr.clock = NewMonotonicClock()
		}
	}

	return tr, nil
}

// Duration returns the length of every run.
func (tr *Transition) Duration() time.Duration {
	return tr.duration
}

// Start begins a run and schedules its first frame. The run is cancelled
// when ctx is done.
func (tr *Transition) Start(ctx context.Context) (*Run, error) {
	if tr.scheduler == nil {
		return nil, ErrSchedulerUnavailable
	}

	r := newRun(ctx, tr)
	tr.logger.Debug("transition started",
		zap.Duration("duration", tr.duration),
		zap.Duration("start", r.start))
	return r, nil
}

// progress returns normalised time for elapsed, which must be below duration.
func (tr *Transition) progress(elapsed time.Duration) float64 {
	return float64(elapsed) / float64(tr.duration)
}
