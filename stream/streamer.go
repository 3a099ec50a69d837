package stream

import (
	"context"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"go.uber.org/zap"

	"github.com/matt-g-everett/ledtx/internal/metrics"
	"github.com/matt-g-everett/ledtx/transition"
)

// A Publisher sends payloads to an MQTT topic. mqtt.Client implements it.
type Publisher interface {
	Publish(topic string, qos byte, retained bool, payload interface{}) mqtt.Token
}

// Streamer that streams RGB data frames to an ledrx device.
type Streamer struct {
	publisher Publisher
	topic     string
	qos       byte
	interval  time.Duration
	animation Animation
	frames    *transition.FrameQueue
	clock     transition.Clock
	logger    *zap.Logger
	metrics   *metrics.Metrics
}

// NewStreamer creates an instance of a Streamer. The streamer's render loop
// advances frames, so transitions scheduled on it stay in step with the
// published frames.
func NewStreamer(cfg Config, publisher Publisher, animation Animation,
	frames *transition.FrameQueue, clock transition.Clock,
	logger *zap.Logger, m *metrics.Metrics) *Streamer {

	s := new(Streamer)
	s.publisher = publisher
	s.topic = cfg.Mqtt.Topics.Stream
	s.qos = cfg.Mqtt.QoS
	s.interval = cfg.Stream.FrameInterval
	s.animation = animation
	s.frames = frames
	s.clock = clock
	s.logger = logger
	s.metrics = m

	return s
}

// SendFrame runs due frame callbacks, then renders a frame and publishes it.
func (s *Streamer) SendFrame() error {
	now := s.clock.Now()
	s.frames.Advance(now)

	f := s.animation.CalculateFrame(now.Milliseconds())
	b, err := f.MarshalBinary()
	if err != nil {
		return err
	}

	token := s.publisher.Publish(s.topic, s.qos, false, b)
	token.Wait()
	if err := token.Error(); err != nil {
		if s.metrics != nil {
			s.metrics.PublishErrors.Inc()
		}
		return fmt.Errorf("publish frame to %s: %w", s.topic, err)
	}

	if s.metrics != nil {
		s.metrics.FramesPublished.Inc()
	}
	return nil
}

// Run causes the Streamer to send Frames continuously until ctx is done.
func (s *Streamer) Run(ctx context.Context) {
	publishTimer := time.NewTicker(s.interval)
	defer publishTimer.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-publishTimer.C:
			if err := s.SendFrame(); err != nil {
				s.logger.Warn("Dropped frame", zap.Error(err))
			}
		}
	}
}
