package stream

import (
	"container/list"
	"math"
	"math/rand"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/matt-g-everett/ledtx/transition"
)

type streakParticle struct {
	colour   colorful.Color
	start    float64
	current  float64
	speed    float64
	length   float64
	gainRate float64
}

func (p *streakParticle) move(numPixels float64) bool {
	p.current += p.speed
	return p.current <= numPixels && p.current >= -p.length
}

// easeDistance rises from 0 to 2 over the particle's life: fading in up to
// 1, then out again.
func (p *streakParticle) easeDistance() float64 {
	return math.Abs(p.current-p.start) * p.gainRate
}

func (p *streakParticle) gain(curve transition.TimingFunc, d float64) float64 {
	if d > 2 {
		return 0
	} else if d > 1 {
		d = 2 - d
	}
	return curve(d)
}

func (p *streakParticle) draw(frame *Frame, curve transition.TimingFunc) bool {
	d := p.easeDistance()
	if d > 2 {
		return false
	}

	bias := p.gain(curve, d)
	start := int(math.Max(0, math.Ceil(p.current)))
	end := int(math.Min(float64(frame.Len()-1), math.Floor(p.current+p.length)))
	for i := start; i <= end; i++ {
		frame.pixels[i] = frame.pixels[i].BlendHcl(p.colour, bias)
	}
	return true
}

// A Streak is an Animation that creates streaks along the strip that fade
// in then out.
type Streak struct {
	numPixels    int
	backColour   colorful.Color
	streakChance int32
	curve        transition.TimingFunc
	rng          *rand.Rand
	particles    *list.List
}

// NewStreak creates an instance of a Streak object. A new streak starts on
// average once every streakChance frames; curve shapes its fade.
func NewStreak(numPixels int, streakChance int32, backColour colorful.Color,
	curve transition.TimingFunc, rng *rand.Rand) *Streak {

	s := new(Streak)
	s.numPixels = numPixels
	s.streakChance = streakChance
	s.backColour = backColour
	s.curve = curve
	s.rng = rng
	s.particles = list.New()

	return s
}

// Name implements Animation.
func (s *Streak) Name() string {
	return "streak"
}

func (s *Streak) newParticle() *streakParticle {
	p := new(streakParticle)
	p.colour = colorful.Hcl(s.rng.Float64()*360.0, 1.0, 0.3)
	p.start = float64(s.rng.Intn(s.numPixels))
	p.current = p.start
	p.speed = 0.2 + s.rng.Float64()*0.8
	if s.rng.Intn(2) == 0 {
		p.speed = -p.speed
	}
	p.length = 10
	p.gainRate = 0.05
	return p
}

// CalculateFrame creates a new Frame instance.
func (s *Streak) CalculateFrame(runtimeMs int64) *Frame {
	f := NewFrame(s.numPixels)
	f.Fill(s.backColour)

	for e := s.particles.Front(); e != nil; {
		next := e.Next()
		p := e.Value.(*streakParticle)
		if !p.move(float64(s.numPixels)) || !p.draw(f, s.curve) {
			s.particles.Remove(e)
		}
		e = next
	}

	if s.rng.Int31n(s.streakChance) == 0 {
		s.particles.PushBack(s.newParticle())
	}

	return f
}

// Len returns the number of live streaks.
func (s *Streak) Len() int {
	return s.particles.Len()
}
