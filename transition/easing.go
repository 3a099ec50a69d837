package transition

import (
	"fmt"
	"sort"

	"github.com/fogleman/ease"
)

// A TimingFunc maps normalised time in [0, 1] to eased progress, normally
// also in [0, 1]. Values outside that range are passed through untouched.
type TimingFunc func(t float64) float64

// Linear is the identity timing function and the default for a Transition.
func Linear(t float64) float64 {
	return t
}

var timingFuncs = map[string]TimingFunc{
	"linear":        Linear,
	"in-quad":       ease.InQuad,
	"out-quad":      ease.OutQuad,
	"in-out-quad":   ease.InOutQuad,
	"in-cubic":      ease.InCubic,
	"out-cubic":     ease.OutCubic,
	"in-out-cubic":  ease.InOutCubic,
	"in-quart":      ease.InQuart,
	"out-quart":     ease.OutQuart,
	"in-out-quart":  ease.InOutQuart,
	"in-sine":       ease.InSine,
	"out-sine":      ease.OutSine,
	"in-out-sine":   ease.InOutSine,
	"in-expo":       ease.InExpo,
	"out-expo":      ease.OutExpo,
	"in-out-expo":   ease.InOutExpo,
	"in-circ":       ease.InCirc,
	"out-circ":      ease.OutCirc,
	"in-out-circ":   ease.InOutCirc,
	"in-back":       ease.InBack,
	"out-back":      ease.OutBack,
	"in-out-back":   ease.InOutBack,
	"in-bounce":     ease.InBounce,
	"out-bounce":    ease.OutBounce,
	"in-out-bounce": ease.InOutBounce,
}

// TimingFuncByName looks up a named easing curve such as "in-out-quad".
// The empty name resolves to Linear.
func TimingFuncByName(name string) (TimingFunc, error) {
	if name == "" {
		return Linear, nil
	}

	fn, ok := timingFuncs[name]
	if !ok {
		return nil, fmt.Errorf("%w: unknown easing %q", ErrInvalidConfiguration, name)
	}
	return fn, nil
}

// TimingFuncNames lists the names accepted by TimingFuncByName.
func TimingFuncNames() []string {
	names := make([]string, 0, len(timingFuncs))
	for name := range timingFuncs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Table samples fn at n evenly spaced points from 0 to 1 inclusive.
func Table(fn TimingFunc, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{fn(0)}
	}

	lut := make([]float64, n)
	step := 1.0 / float64(n-1)
	for i := range lut {
		lut[i] = fn(float64(i) * step)
	}
	return lut
}
