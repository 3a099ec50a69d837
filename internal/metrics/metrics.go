// Package metrics holds the Prometheus collectors for frame streaming and
// transitions.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/matt-g-everett/ledtx/transition"
)

// Metrics groups the collectors registered by New.
type Metrics struct {
	FramesPublished  prometheus.Counter
	PublishErrors    prometheus.Counter
	Transitions      *prometheus.CounterVec
	TransitionFrames prometheus.Histogram
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := new(Metrics)
	m.FramesPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledtx_frames_published_total",
		Help: "Frames published to the LED receiver.",
	})
	m.PublishErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "ledtx_publish_errors_total",
		Help: "Frames dropped because publishing failed.",
	})
	m.Transitions = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ledtx_transitions_total",
		Help: "Crossfade transitions by final state.",
	}, []string{"state"})
	m.TransitionFrames = prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "ledtx_transition_frames",
		Help:    "Callbacks delivered per crossfade transition.",
		Buckets: prometheus.ExponentialBuckets(4, 2, 8),
	})

	reg.MustRegister(m.FramesPublished, m.PublishErrors, m.Transitions, m.TransitionFrames)
	return m
}

// ObserveRun records a finished transition run.
func (m *Metrics) ObserveRun(run *transition.Run) {
	m.Transitions.WithLabelValues(run.State().String()).Inc()
	m.TransitionFrames.Observe(float64(run.Frames()))
}
