package transition

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
)

// State is the lifecycle state of a Run.
type State int

const (
	// Running is the state of a run that has frames left to deliver.
	Running State = iota
	// Completed means the full duration elapsed.
	Completed
	// Cancelled means the run was stopped before its duration elapsed.
	Cancelled
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Completed:
		return "completed"
	case Cancelled:
		return "cancelled"
	}
	return "unknown"
}

// A Run is one execution of a Transition, from Start until it completes or
// is cancelled.
type Run struct {
	tr    *Transition
	ctx   context.Context
	start time.Duration

	mu        sync.Mutex
	state     State
	pending   Handle
	inFrame   bool
	cancelled bool
	frames    int
	done      chan struct{}
	stopWatch func() bool
}

func newRun(ctx context.Context, tr *Transition) *Run {
	r := new(Run)
	r.tr = tr
	r.ctx = ctx
	r.state = Running
	r.done = make(chan struct{})
	r.start = tr.clock.Now()

	r.mu.Lock()
	r.pending = tr.scheduler.Schedule(r.frame)
	r.stopWatch = context.AfterFunc(ctx, r.Cancel)
	r.mu.Unlock()

	return r
}

// frame runs once per scheduled callback.
func (r *Run) frame(now time.Duration) {
	tr := r.tr
	if tr.clockTimestamps {
		now = tr.clock.Now()
	}

	r.mu.Lock()
	if r.state != Running {
		r.mu.Unlock()
		return
	}
	if r.cancelled || r.ctx.Err() != nil {
		r.finish(Cancelled)
		r.mu.Unlock()
		return
	}

	// A frame timestamp read before the run started counts as the start.
	elapsed := now - r.start
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed < tr.duration {
		r.deliver(tr.timing(tr.progress(elapsed)))
		if r.cancelled {
			r.finish(Cancelled)
		} else {
			r.pending = tr.scheduler.Schedule(r.frame)
		}
		r.mu.Unlock()
		return
	}

	tr.scheduler.Cancel(r.pending)
	if tr.finalFrame {
		r.deliver(tr.timing(1))
	}
	r.finish(Completed)
	r.mu.Unlock()
}

// deliver invokes the callback without holding the lock. It must be called
// with r.mu held and returns with it held again.
func (r *Run) deliver(delta float64) {
	r.inFrame = true
	r.mu.Unlock()

	r.tr.callback(delta)

	r.mu.Lock()
	r.inFrame = false
	r.frames++
}

// finish moves the run to a terminal state. r.mu must be held.
func (r *Run) finish(s State) {
	r.state = s
	if r.stopWatch != nil {
		r.stopWatch()
	}
	close(r.done)

	r.tr.logger.Debug("transition finished",
		zap.Stringer("state", s),
		zap.Int("frames", r.frames))
}

// Cancel stops the run. No further callbacks are delivered and Done is
// closed with the run in the Cancelled state. If a callback is executing,
// the run is cancelled as soon as it returns. Cancel has no effect on a run
// that already finished.
func (r *Run) Cancel() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != Running || r.cancelled {
		return
	}
	r.cancelled = true
	if r.inFrame {
		return
	}

	r.tr.scheduler.Cancel(r.pending)
	r.finish(Cancelled)
}

// Done returns a channel that is closed exactly once, when the run has
// completed or been cancelled, after its last callback returned.
func (r *Run) Done() <-chan struct{} {
	return r.done
}

// State returns the current state of the run.
func (r *Run) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// Frames returns the number of callbacks delivered so far.
func (r *Run) Frames() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.frames
}

// Wait blocks until the run finishes or ctx is done, whichever comes first.
func (r *Run) Wait(ctx context.Context) (State, error) {
	select {
	case <-r.done:
		return r.State(), nil
	case <-ctx.Done():
		return r.State(), ctx.Err()
	}
}
