package stream

import (
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/matt-g-everett/ledtx/transition"
)

// Config is the YAML configuration of the streamer.
type Config struct {
	Mqtt struct {
		URL      string `yaml:"url"`
		Username string `yaml:"username"`
		Password string `yaml:"password"`
		ClientID string `yaml:"clientID"`
		QoS      byte   `yaml:"qos"`
		Topics   struct {
			Stream string `yaml:"stream"`
		} `yaml:"topics"`
	} `yaml:"mqtt"`
	Stream StreamConfig `yaml:"stream"`
	Server ServerConfig `yaml:"server"`
	Log    struct {
		Level string `yaml:"level"`
	} `yaml:"log"`
}

// StreamConfig controls frame generation.
type StreamConfig struct {
	Pixels        int             `yaml:"pixels"`
	FrameInterval time.Duration   `yaml:"frameInterval"`
	CycleInterval time.Duration   `yaml:"cycleInterval"`
	Crossfade     CrossfadeConfig `yaml:"crossfade"`
}

// CrossfadeConfig controls the transition between two animations.
type CrossfadeConfig struct {
	Duration        time.Duration `yaml:"duration"`
	Easing          string        `yaml:"easing"`
	FinalFrame      bool          `yaml:"finalFrame"`
	ClockTimestamps bool          `yaml:"clockTimestamps"`
}

// ServerConfig controls the HTTP server.
type ServerConfig struct {
	Addr      string `yaml:"addr"`
	StaticDir string `yaml:"staticDir"`
}

// DefaultConfig returns the configuration used for any value a config file
// leaves out.
func DefaultConfig() Config {
	var c Config
	c.Mqtt.ClientID = "ledtx"
	c.Mqtt.QoS = 2
	c.Mqtt.Topics.Stream = "home/xmastree/stream"
	c.Stream = StreamConfig{
		Pixels:        500,
		FrameInterval: 33 * time.Millisecond,
		CycleInterval: 2 * time.Minute,
		Crossfade: CrossfadeConfig{
			Duration: 5 * time.Second,
			Easing:   "in-out-quad",
		},
	}
	c.Server = ServerConfig{Addr: ":3000", StaticDir: "client/dist"}
	c.Log.Level = "info"
	return c
}

// LoadConfig reads and validates the YAML config file at path.
func LoadConfig(path string) (Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return Config{}, err
	}
	defer f.Close()

	c, err := ParseConfig(f)
	if err != nil {
		return Config{}, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// ParseConfig decodes YAML from r over DefaultConfig and validates it.
func ParseConfig(r io.Reader) (Config, error) {
	c := DefaultConfig()
	decoder := yaml.NewDecoder(r)
	decoder.SetStrict(true)
	if err := decoder.Decode(&c); err != nil && !errors.Is(err, io.EOF) {
		return Config{}, err
	}

	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

// Validate reports the first invalid setting.
func (c Config) Validate() error {
	if c.Mqtt.Topics.Stream == "" {
		return errors.New("mqtt.topics.stream is required")
	}
	if c.Mqtt.QoS > 2 {
		return fmt.Errorf("mqtt.qos %d is not 0, 1 or 2", c.Mqtt.QoS)
	}
	if c.Stream.Pixels <= 0 || c.Stream.Pixels > maxPixels {
		return fmt.Errorf("stream.pixels %d is out of range 1..%d", c.Stream.Pixels, maxPixels)
	}
	if c.Stream.FrameInterval <= 0 {
		return fmt.Errorf("stream.frameInterval %v is not positive", c.Stream.FrameInterval)
	}
	if c.Stream.CycleInterval <= 0 {
		return fmt.Errorf("stream.cycleInterval %v is not positive", c.Stream.CycleInterval)
	}
	if c.Stream.Crossfade.Duration <= 0 {
		return fmt.Errorf("stream.crossfade.duration %v is not positive", c.Stream.Crossfade.Duration)
	}
	if _, err := transition.TimingFuncByName(c.Stream.Crossfade.Easing); err != nil {
		return fmt.Errorf("stream.crossfade.easing: %w", err)
	}
	return nil
}
