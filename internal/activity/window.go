// Package activity maintains rolling activity windows and lifetime detection
// counters over completed scan samples.
package activity

// Window is a fixed-capacity ring of boolean detection outcomes. The ring
// starts cold: slots that have never been written count as false, so the
// activity percentage warms up from zero rather than being undefined.
type Window struct {
	slots []bool
	next  int
	trues int
}

// NewWindow creates a window holding the given number of samples.
func NewWindow(capacity int) *Window {
	if capacity <= 0 {
		panic("activity: window capacity must be positive")
	}
	return &Window{slots: make([]bool, capacity)}
}

// Push records one outcome, overwriting the oldest entry.
func (w *Window) Push(detected bool) {
	if w.slots[w.next] {
		w.trues--
	}
	w.slots[w.next] = detected
	if detected {
		w.trues++
	}
	w.next = (w.next + 1) % len(w.slots)
}

// Percent returns the share of detections in the window as an integer
// percentage in [0,100], rounded down. The denominator is always the window
// capacity, per the cold-start rule.
func (w *Window) Percent() int {
	return w.trues * 100 / len(w.slots)
}

// Capacity returns the fixed window size.
func (w *Window) Capacity() int {
	return len(w.slots)
}
