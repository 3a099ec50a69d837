package transition

import (
	"sync"
	"time"
)

// A Handle identifies a frame callback registered with a FrameScheduler.
// The zero Handle never identifies a pending callback.
type Handle uint64

// A FrameFunc is invoked once per display refresh with the frame timestamp.
type FrameFunc func(now time.Duration)

// A FrameScheduler invokes callbacks once, before the next frame is rendered.
//
// Callbacks run in submission order with non-decreasing timestamps. Cancel is
// best effort and is a no-op for handles that already fired or were already
// cancelled.
type FrameScheduler interface {
	Schedule(fn FrameFunc) Handle
	Cancel(h Handle)
}

type pendingFrame struct {
	handle Handle
	fn     FrameFunc
}

// FrameQueue is a FrameScheduler advanced explicitly by its owner, normally
// once per rendered frame. Callbacks scheduled while the queue is advancing
// run on the following Advance.
type FrameQueue struct {
	mu       sync.Mutex
	now      time.Duration
	last     Handle
	pending  []pendingFrame
	inflight map[Handle]struct{}
}

// NewFrameQueue creates an empty FrameQueue at timestamp zero.
func NewFrameQueue() *FrameQueue {
	q := new(FrameQueue)
	q.inflight = make(map[Handle]struct{})
	return q
}

// Schedule queues fn for the next Advance.
func (q *FrameQueue) Schedule(fn FrameFunc) Handle {
	q.mu.Lock()
	defer q.mu.Unlock()

	q.last++
	q.pending = append(q.pending, pendingFrame{handle: q.last, fn: fn})
	return q.last
}

// Cancel removes a queued callback.
func (q *FrameQueue) Cancel(h Handle) {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.inflight[h]; ok {
		delete(q.inflight, h)
		return
	}

	for i, p := range q.pending {
		if p.handle == h {
			q.pending = append(q.pending[:i], q.pending[i+1:]...)
			return
		}
	}
}

// Advance moves the queue's clock to now and runs every callback queued
// before the call. A timestamp earlier than the current one is clamped so
// callbacks never observe time going backwards. It returns the number of
// callbacks run.
func (q *FrameQueue) Advance(now time.Duration) int {
	q.mu.Lock()
	if now > q.now {
		q.now = now
	}
	now = q.now
	batch := q.pending
	q.pending = nil
	for _, p := range batch {
		q.inflight[p.handle] = struct{}{}
	}
	q.mu.Unlock()

	ran := 0
	for _, p := range batch {
		if !q.take(p.handle) {
			continue
		}
		p.fn(now)
		ran++
	}

	return ran
}

// take reports whether h is still due to run and marks it as fired.
func (q *FrameQueue) take(h Handle) bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	if _, ok := q.inflight[h]; !ok {
		return false
	}
	delete(q.inflight, h)
	return true
}

// Now returns the timestamp of the most recent Advance.
func (q *FrameQueue) Now() time.Duration {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.now
}

// Len returns the number of callbacks waiting for the next Advance.
func (q *FrameQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.pending)
}
