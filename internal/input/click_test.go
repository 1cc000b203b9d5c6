package input

import (
	"testing"
	"time"
)

// drive polls Resolve every 10ms from start until limit and returns every
// non-None action with its offset from start.
func drive(c *Disambiguator, start time.Time, limit time.Duration, presses map[time.Duration]bool) []struct {
	at     time.Duration
	action Action
} {
	var dispatched []struct {
		at     time.Duration
		action Action
	}

	for at := time.Duration(0); at <= limit; at += 10 * time.Millisecond {
		now := start.Add(at)
		if presses[at] {
			c.Press(now)
		}
		if action := c.Resolve(now); action != None {
			dispatched = append(dispatched, struct {
				at     time.Duration
				action Action
			}{at, action})
		}
	}

	return dispatched
}

func TestDisambiguator_SingleClick(t *testing.T) {
	c := NewDisambiguator()
	start := time.Now()

	got := drive(c, start, time.Second, map[time.Duration]bool{0: true})

	if len(got) != 1 {
		t.Fatalf("expected exactly one action, got %d", len(got))
	}
	if got[0].action != SingleClick {
		t.Errorf("expected single-click, got %v", got[0].action)
	}
	if got[0].at != DefaultResolveTimeout {
		t.Errorf("expected dispatch at %v after the press, got %v", DefaultResolveTimeout, got[0].at)
	}
}

func TestDisambiguator_DoubleClick(t *testing.T) {
	c := NewDisambiguator()
	start := time.Now()

	// Presses at 0ms and 150ms, then silence. One double-click fires 350ms
	// after the second press, at 500ms.
	got := drive(c, start, time.Second, map[time.Duration]bool{
		0:                      true,
		150 * time.Millisecond: true,
	})

	if len(got) != 1 {
		t.Fatalf("expected exactly one action, got %d", len(got))
	}
	if got[0].action != DoubleClick {
		t.Errorf("expected double-click, got %v", got[0].action)
	}
	if want := 500 * time.Millisecond; got[0].at != want {
		t.Errorf("expected dispatch at %v, got %v", want, got[0].at)
	}
}

func TestDisambiguator_TripleClickIsOneDouble(t *testing.T) {
	c := NewDisambiguator()
	start := time.Now()

	got := drive(c, start, time.Second, map[time.Duration]bool{
		0:                      true,
		150 * time.Millisecond: true,
		300 * time.Millisecond: true,
	})

	if len(got) != 1 {
		t.Fatalf("expected exactly one action, got %d", len(got))
	}
	if got[0].action != DoubleClick {
		t.Errorf("expected double-click, got %v", got[0].action)
	}
}

func TestDisambiguator_SlowPressesAreSeparateSingles(t *testing.T) {
	c := NewDisambiguator()
	start := time.Now()

	// The second press lands past the inter-press window, so each press
	// resolves as its own single click.
	got := drive(c, start, 2*time.Second, map[time.Duration]bool{
		0:                      true,
		400 * time.Millisecond: true,
	})

	if len(got) != 2 {
		t.Fatalf("expected two actions, got %d", len(got))
	}
	for i, d := range got {
		if d.action != SingleClick {
			t.Errorf("action %d: expected single-click, got %v", i, d.action)
		}
	}
}

func TestDisambiguator_CustomTimings(t *testing.T) {
	c := NewDisambiguator(
		WithInterPressWindow(100*time.Millisecond),
		WithResolveTimeout(200*time.Millisecond),
	)
	start := time.Now()

	// The first burst resolves after 200ms; the press at 250ms lands past the
	// 100ms inter-press window and resolves as its own single click.
	got := drive(c, start, time.Second, map[time.Duration]bool{
		0:                      true,
		250 * time.Millisecond: true,
	})

	if len(got) != 2 {
		t.Fatalf("expected two actions, got %d", len(got))
	}
	if got[0].at != 200*time.Millisecond || got[1].at != 450*time.Millisecond {
		t.Errorf("unexpected dispatch times: %v, %v", got[0].at, got[1].at)
	}
	for i, d := range got {
		if d.action != SingleClick {
			t.Errorf("action %d: expected single-click, got %v", i, d.action)
		}
	}
}

func TestEdgeDetector(t *testing.T) {
	var e EdgeDetector

	levels := []bool{false, true, true, false, true, false, false}
	wantEdges := []bool{false, true, false, false, true, false, false}

	for i, level := range levels {
		if got := e.Sample(level); got != wantEdges[i] {
			t.Errorf("sample %d (level=%v): expected edge=%v, got %v", i, level, wantEdges[i], got)
		}
	}
}
