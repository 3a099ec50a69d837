package stream

import (
	"context"
	"math/rand"
	"sync"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"go.uber.org/zap"

	"github.com/matt-g-everett/ledtx/internal/metrics"
	"github.com/matt-g-everett/ledtx/transition"
)

// Status describes what the Controller is showing.
type Status struct {
	Animation string  `json:"animation"`
	Next      string  `json:"next,omitempty"`
	Fading    bool    `json:"fading"`
	Blend     float64 `json:"blend"`
}

// Controller that manages animations and crossfades between them.
type Controller struct {
	numPixels     int
	cycleInterval time.Duration
	fade          *transition.Transition
	rng           *rand.Rand
	logger        *zap.Logger
	metrics       *metrics.Metrics

	mu        sync.Mutex
	ctx       context.Context
	animation Animation
	next      Animation
	blend     float64
	run       *transition.Run
	runtimeMs int64
}

// NewController creates an instance of a Controller. Crossfades are driven
// by frames, which the owner of the render loop must advance, and timed with
// clock.
func NewController(cfg StreamConfig, frames transition.FrameScheduler, clock transition.Clock,
	logger *zap.Logger, m *metrics.Metrics) (*Controller, error) {

	c := new(Controller)
	c.numPixels = cfg.Pixels
	c.cycleInterval = cfg.CycleInterval
	c.rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	c.logger = logger
	c.metrics = m
	c.ctx = context.Background()

	easing, err := transition.TimingFuncByName(cfg.Crossfade.Easing)
	if err != nil {
		return nil, err
	}

	opts := []transition.Option{
		transition.WithTimingFunc(easing),
		transition.WithScheduler(frames),
		transition.WithClock(clock),
		transition.WithLogger(logger.Named("crossfade")),
	}
	if cfg.Crossfade.FinalFrame {
		opts = append(opts, transition.WithFinalFrame())
	}
	if cfg.Crossfade.ClockTimestamps {
		opts = append(opts, transition.WithClockTimestamps())
	}
	c.fade, err = transition.New(c.setBlend, cfg.Crossfade.Duration, opts...)
	if err != nil {
		return nil, err
	}

	c.animation = c.newTwinkle()
	return c, nil
}

func (c *Controller) setBlend(delta float64) {
	c.mu.Lock()
	c.blend = delta
	c.mu.Unlock()
}

func (c *Controller) newTwinkle() Animation {
	backColour, _ := colorful.Hex("#000005")
	foreColour, _ := colorful.Hex("#808080")
	return NewTwinkle(c.numPixels, c.numPixels*4/5, foreColour, backColour, c.rng)
}

// nextAnimation picks the animation that follows current. c.mu must be held.
func (c *Controller) nextAnimation(current Animation) Animation {
	switch current.(type) {
	case *Twinkle:
		return NewGradientTrail(c.numPixels, RainbowGradient, 180, -0.03, c.runtimeMs)
	case *GradientTrail:
		backColour, _ := colorful.Hex("#100505")
		return NewStreak(c.numPixels, 8, backColour, transition.Linear, c.rng)
	default:
		return c.newTwinkle()
	}
}

// CalculateFrame renders the current animation, blended with the next one
// while a crossfade is running.
func (c *Controller) CalculateFrame(runtimeMs int64) *Frame {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.runtimeMs = runtimeMs
	if c.run != nil {
		select {
		case <-c.run.Done():
			c.finishFade()
		default:
		}
	}

	if c.next == nil {
		return c.animation.CalculateFrame(runtimeMs)
	}

	f1 := c.animation.CalculateFrame(runtimeMs)
	f2 := c.next.CalculateFrame(runtimeMs)
	return f1.InterpolateFrame(f2, c.blend)
}

// finishFade swaps in the next animation after a completed crossfade, or
// drops it after a cancelled one. c.mu must be held.
func (c *Controller) finishFade() {
	state := c.run.State()
	if state == transition.Completed {
		c.animation = c.next
	}
	c.logger.Info("Crossfade finished",
		zap.Stringer("state", state),
		zap.Int("frames", c.run.Frames()),
		zap.String("animation", c.animation.Name()))
	if c.metrics != nil {
		c.metrics.ObserveRun(c.run)
	}

	c.next = nil
	c.blend = 0
	c.run = nil
}

// Cycle starts a crossfade to the next animation. It returns false if a
// crossfade is already running.
func (c *Controller) Cycle() (bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.run != nil {
		return false, nil
	}

	next := c.nextAnimation(c.animation)
	run, err := c.fade.Start(c.ctx)
	if err != nil {
		return false, err
	}

	c.next = next
	c.blend = 0
	c.run = run
	c.logger.Info("Crossfade started",
		zap.String("from", c.animation.Name()),
		zap.String("to", next.Name()),
		zap.Duration("duration", c.fade.Duration()))
	return true, nil
}

// CancelFade abandons a running crossfade. The current animation stays. It
// returns false if no crossfade was running or it had already finished.
func (c *Controller) CancelFade() bool {
	c.mu.Lock()
	run := c.run
	c.mu.Unlock()

	if run == nil {
		return false
	}
	run.Cancel()
	return run.State() == transition.Cancelled
}

// Status returns a snapshot of the controller state.
func (c *Controller) Status() Status {
	c.mu.Lock()
	defer c.mu.Unlock()

	s := Status{Animation: c.animation.Name(), Blend: c.blend}
	if c.next != nil {
		s.Next = c.next.Name()
		s.Fading = true
	}
	return s
}

// Run causes the Controller to cycle through animations until ctx is done.
// Crossfades in progress are cancelled with ctx.
func (c *Controller) Run(ctx context.Context) {
	c.mu.Lock()
	c.ctx = ctx
	c.mu.Unlock()

	cycleTimer := time.NewTicker(c.cycleInterval)
	defer cycleTimer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-cycleTimer.C:
			if _, err := c.Cycle(); err != nil {
				c.logger.Error("Cannot start crossfade", zap.Error(err))
			}
		}
	}
}
