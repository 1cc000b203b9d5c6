package activity

import "testing"

func TestWindow_ColdStart(t *testing.T) {
	w := NewWindow(100)

	if pct := w.Percent(); pct != 0 {
		t.Errorf("expected cold window percentage 0, got %d", pct)
	}

	// 30 detections into a cold window of 100: unwritten slots count as
	// false, so the denominator stays at capacity.
	for i := 0; i < 30; i++ {
		w.Push(true)
	}
	if pct := w.Percent(); pct != 30 {
		t.Errorf("expected 30%% after 30 detections, got %d", pct)
	}
}

func TestWindow_RingOverwrite(t *testing.T) {
	w := NewWindow(4)

	// Fill with detections, then push the same number of absences: the
	// detections must rotate out completely.
	for i := 0; i < 4; i++ {
		w.Push(true)
	}
	if pct := w.Percent(); pct != 100 {
		t.Errorf("expected 100%% on full window, got %d", pct)
	}

	for i := 0; i < 4; i++ {
		w.Push(false)
	}
	if pct := w.Percent(); pct != 0 {
		t.Errorf("expected 0%% after rotation, got %d", pct)
	}
}

func TestWindow_PercentFloor(t *testing.T) {
	w := NewWindow(3)
	w.Push(true)

	// 1/3 floors to 33, never rounds up.
	if pct := w.Percent(); pct != 33 {
		t.Errorf("expected floor percentage 33, got %d", pct)
	}
}

func TestWindow_PercentMatchesCount(t *testing.T) {
	w := NewWindow(100)

	detections := 0
	for i := 0; i < 250; i++ {
		detected := i%3 == 0
		w.Push(detected)

		if i >= 150 { // window fully rotated at least once
			detections = 0
			for j := i - 99; j <= i; j++ {
				if j%3 == 0 {
					detections++
				}
			}
			if pct := w.Percent(); pct != detections {
				t.Fatalf("at sample %d: expected %d%%, got %d", i, detections, pct)
			}
		}
	}
}
