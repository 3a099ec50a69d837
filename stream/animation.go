package stream

// An Animation implements a way to render a specific animation.
type Animation interface {
	// CalculateFrame renders the frame shown runtimeMs milliseconds into the
	// stream.
	CalculateFrame(runtimeMs int64) *Frame
	Name() string
}
