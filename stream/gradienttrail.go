package stream

import (
	"math"
)

// A GradientTrail is an Animation that cycles a gradient along an led strip.
type GradientTrail struct {
	numPixels   int
	gradient    GradientTable
	trailLength int
	pixelsPerMs float64
	saturation  float64
	luminance   float64

	current   float64
	runtimeMs int64
}

// NewGradientTrail creates an instance of a GradientTrail object. The trail
// moves pixelsPerMs pixels per millisecond; a negative speed reverses it.
func NewGradientTrail(numPixels int, gradient GradientTable, trailLength int,
	pixelsPerMs float64, runtimeMs int64) *GradientTrail {

	g := new(GradientTrail)
	g.numPixels = numPixels
	g.gradient = gradient
	g.trailLength = trailLength
	g.pixelsPerMs = pixelsPerMs
	g.saturation = 1.0
	g.luminance = 0.05
	g.runtimeMs = runtimeMs

	return g
}

// Name implements Animation.
func (g *GradientTrail) Name() string {
	return "gradient-trail"
}

// CalculateFrame creates a new Frame instance.
func (g *GradientTrail) CalculateFrame(runtimeMs int64) *Frame {
	f := NewFrame(g.numPixels)
	length := float64(g.trailLength)
	for i := 0; i < g.numPixels; i++ {
		pos := math.Mod(float64(i)-g.current, length)
		if pos < 0 {
			pos += length
		}
		f.pixels[i] = g.gradient.GetColor(pos/length, g.saturation, g.luminance)
	}

	intervalMs := runtimeMs - g.runtimeMs
	g.runtimeMs = runtimeMs
	g.current = math.Mod(g.current+g.pixelsPerMs*float64(intervalMs), length)

	return f
}
