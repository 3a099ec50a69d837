package stream

import (
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"
)

// A Twinkle is an Animation that twinkles random particles.
type Twinkle struct {
	numPixels    int
	numParticles int
	foreColour   colorful.Color
	backColour   colorful.Color
	rng          *rand.Rand

	particles []int
	next      int
}

// NewTwinkle creates an instance of a Twinkle object. Each frame one
// particle jumps to a new random pixel.
func NewTwinkle(numPixels, numParticles int, foreColour, backColour colorful.Color,
	rng *rand.Rand) *Twinkle {

	t := new(Twinkle)
	t.numPixels = numPixels
	t.numParticles = numParticles
	t.foreColour = foreColour
	t.backColour = backColour
	t.rng = rng

	return t
}

// Name implements Animation.
func (t *Twinkle) Name() string {
	return "twinkle"
}

// CalculateFrame creates a new Frame instance.
func (t *Twinkle) CalculateFrame(runtimeMs int64) *Frame {
	f := NewFrame(t.numPixels)
	if t.particles == nil {
		t.particles = make([]int, t.numParticles)
		for i := range t.particles {
			t.particles[i] = t.rng.Intn(t.numPixels)
		}
	} else if len(t.particles) > 0 {
		t.particles[t.next] = t.rng.Intn(t.numPixels)
		t.next = (t.next + 1) % len(t.particles)
	}

	f.Fill(t.backColour)
	for _, p := range t.particles {
		f.pixels[p] = t.foreColour
	}

	return f
}
