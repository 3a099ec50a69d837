package transition_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/matt-g-everett/ledtx/transition"
)

func TestFrameQueueOrder(t *testing.T) {
	q := transition.NewFrameQueue()
	var got []string
	var stamps []time.Duration
	for _, name := range []string{"a", "b", "c"} {
		name := name
		q.Schedule(func(now time.Duration) {
			got = append(got, name)
			stamps = append(stamps, now)
		})
	}

	assert.Equal(t, 3, q.Advance(ms(16)))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	assert.Equal(t, []time.Duration{ms(16), ms(16), ms(16)}, stamps)
	assert.Equal(t, ms(16), q.Now())
}

func TestFrameQueueCancel(t *testing.T) {
	q := transition.NewFrameQueue()
	var got []int
	h1 := q.Schedule(func(time.Duration) { got = append(got, 1) })
	q.Schedule(func(time.Duration) { got = append(got, 2) })
	q.Cancel(h1)
	assert.Equal(t, 1, q.Len())

	assert.Equal(t, 1, q.Advance(ms(1)))
	assert.Equal(t, []int{2}, got)

	// Fired and unknown handles are ignored.
	q.Cancel(h1)
	q.Cancel(transition.Handle(0))
	q.Cancel(transition.Handle(99))
	assert.Zero(t, q.Advance(ms(2)))
}

func TestFrameQueueCancelWithinBatch(t *testing.T) {
	q := transition.NewFrameQueue()
	var got []int
	var h2 transition.Handle
	q.Schedule(func(time.Duration) {
		got = append(got, 1)
		q.Cancel(h2)
	})
	h2 = q.Schedule(func(time.Duration) { got = append(got, 2) })

	assert.Equal(t, 1, q.Advance(ms(1)))
	assert.Equal(t, []int{1}, got)
}

func TestFrameQueueRescheduleRunsNextAdvance(t *testing.T) {
	q := transition.NewFrameQueue()
	var stamps []time.Duration
	var tick transition.FrameFunc
	tick = func(now time.Duration) {
		stamps = append(stamps, now)
		q.Schedule(tick)
	}
	q.Schedule(tick)

	q.Advance(ms(10))
	q.Advance(ms(20))
	assert.Equal(t, []time.Duration{ms(10), ms(20)}, stamps)
	assert.Equal(t, 1, q.Len())
}

func TestFrameQueueNeverGoesBackwards(t *testing.T) {
	q := transition.NewFrameQueue()
	var stamps []time.Duration
	for i := 0; i < 2; i++ {
		q.Schedule(func(now time.Duration) { stamps = append(stamps, now) })
		q.Advance(ms(50 - i*30))
	}
	assert.Equal(t, []time.Duration{ms(50), ms(50)}, stamps)
}
