package input

// Button is the raw actuation line, polled once per control-loop iteration.
// Pressed reports whether the button is currently held (the line, normally
// high, is pulled low).
type Button interface {
	Pressed() bool
}

// EdgeDetector turns the polled button level into discrete press edges.
type EdgeDetector struct {
	held bool
}

// Sample consumes one polled level and reports whether a new press edge
// occurred since the previous poll.
func (e *EdgeDetector) Sample(pressed bool) bool {
	edge := pressed && !e.held
	e.held = pressed
	return edge
}
