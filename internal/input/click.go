// Package input classifies raw button transitions into single and double
// click actions.
package input

import "time"

// Action is the classified result of a resolved press burst.
type Action uint8

const (
	// None means no burst has resolved yet.
	None Action = iota

	// SingleClick is one press followed by silence.
	SingleClick

	// DoubleClick is two or more presses in quick succession. Bursts of
	// three or more presses still resolve to one DoubleClick.
	DoubleClick
)

func (a Action) String() string {
	switch a {
	case SingleClick:
		return "single-click"
	case DoubleClick:
		return "double-click"
	}
	return "none"
}

const (
	// DefaultInterPressWindow is the maximum gap between presses that are
	// coalesced into the same burst.
	DefaultInterPressWindow = 250 * time.Millisecond

	// DefaultResolveTimeout is the silence after the last press before the
	// burst resolves. Every click incurs this bounded latency; nothing is
	// dispatched early.
	DefaultResolveTimeout = 350 * time.Millisecond
)

// WithInterPressWindow sets the maximum gap between coalesced presses.
func WithInterPressWindow(d time.Duration) func(*Disambiguator) {
	return func(c *Disambiguator) {
		c.interPress = d
	}
}

// WithResolveTimeout sets the silence required after the last press before
// the burst resolves.
func WithResolveTimeout(d time.Duration) func(*Disambiguator) {
	return func(c *Disambiguator) {
		c.resolveAfter = d
	}
}

// Disambiguator is a two-state machine over press events. It dispatches
// exactly one action per resolved burst. The two timing constants are
// independently configurable.
type Disambiguator struct {
	interPress   time.Duration
	resolveAfter time.Duration

	awaiting  bool
	pending   int
	lastPress time.Time
}

// NewDisambiguator creates a disambiguator with the default timings.
func NewDisambiguator(options ...func(*Disambiguator)) *Disambiguator {
	c := Disambiguator{
		interPress:   DefaultInterPressWindow,
		resolveAfter: DefaultResolveTimeout,
	}

	for _, option := range options {
		option(&c)
	}

	return &c
}

// Press records one raw press edge at the given time. A press that arrives
// after the inter-press window starts a fresh burst; one within the window
// joins the pending burst.
func (c *Disambiguator) Press(now time.Time) {
	if !c.awaiting || now.Sub(c.lastPress) > c.interPress {
		c.pending = 1
	} else {
		c.pending++
	}

	c.awaiting = true
	c.lastPress = now
}

// Resolve returns the action for the pending burst once the resolve timeout
// has elapsed since the last press, and None before that. After dispatch the
// machine returns to idle.
func (c *Disambiguator) Resolve(now time.Time) Action {
	if !c.awaiting || now.Sub(c.lastPress) < c.resolveAfter {
		return None
	}

	action := SingleClick
	if c.pending >= 2 {
		action = DoubleClick
	}

	c.awaiting = false
	c.pending = 0
	return action
}
