package cad

import (
	"testing"
	"time"
)

func TestSimulator_SingleSampleInFlight(t *testing.T) {
	s := NewSimulator(WithSeed(1))
	defer s.Close()

	if err := s.StartSample(); err != nil {
		t.Fatalf("StartSample failed: %v", err)
	}
	if err := s.StartSample(); err != ErrSampleInFlight {
		t.Errorf("expected ErrSampleInFlight, got %v", err)
	}
	if err := s.SetFrequency(903.9); err != ErrSampleInFlight {
		t.Errorf("expected retune rejected in flight, got %v", err)
	}
}

func TestSimulator_ZeroLatencyDeliversSynchronously(t *testing.T) {
	s := NewSimulator(WithSeed(1), WithLatency(0), WithDefaultPresence(1))
	defer s.Close()

	if err := s.StartSample(); err != nil {
		t.Fatalf("StartSample failed: %v", err)
	}

	select {
	case outcome := <-s.Results():
		if outcome != Present {
			t.Errorf("expected present with certainty-one presence, got %v", outcome)
		}
	default:
		t.Fatal("expected the outcome delivered before StartSample returned")
	}

	// The slot is free again once the outcome is delivered.
	if err := s.StartSample(); err != nil {
		t.Errorf("expected the next pass accepted, got %v", err)
	}
}

func TestSimulator_PerFrequencyPresence(t *testing.T) {
	s := NewSimulator(
		WithSeed(42),
		WithLatency(0),
		WithPresence(911.9, 1),
		WithPresence(903.9, 0),
	)
	defer s.Close()

	sample := func(mhz float64) Outcome {
		t.Helper()
		if err := s.SetFrequency(mhz); err != nil {
			t.Fatalf("SetFrequency(%v) failed: %v", mhz, err)
		}
		if err := s.StartSample(); err != nil {
			t.Fatalf("StartSample failed: %v", err)
		}
		return <-s.Results()
	}

	for i := 0; i < 20; i++ {
		if got := sample(911.9); got != Present {
			t.Fatalf("911.9 MHz pass %d: expected present, got %v", i, got)
		}
		if got := sample(903.9); got != Absent {
			t.Fatalf("903.9 MHz pass %d: expected absent, got %v", i, got)
		}
	}
}

func TestSimulator_DeterministicUnderSeed(t *testing.T) {
	run := func() []Outcome {
		s := NewSimulator(WithSeed(7), WithLatency(0), WithDefaultPresence(0.5), WithFailRate(0.1))
		defer s.Close()

		outcomes := make([]Outcome, 0, 50)
		for i := 0; i < 50; i++ {
			if err := s.StartSample(); err != nil {
				t.Fatalf("StartSample failed: %v", err)
			}
			outcomes = append(outcomes, <-s.Results())
		}
		return outcomes
	}

	first, second := run(), run()
	for i := range first {
		if first[i] != second[i] {
			t.Fatalf("pass %d: %v vs %v, expected identical runs for one seed", i, first[i], second[i])
		}
	}
}

func TestSimulator_ClosedRejectsUse(t *testing.T) {
	s := NewSimulator(WithSeed(1))
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	if err := s.StartSample(); err != ErrClosed {
		t.Errorf("expected ErrClosed from StartSample, got %v", err)
	}
	if err := s.SetFrequency(903.9); err != ErrClosed {
		t.Errorf("expected ErrClosed from SetFrequency, got %v", err)
	}
}

func TestSimulator_CloseDropsPendingOutcome(t *testing.T) {
	s := NewSimulator(WithSeed(1), WithLatency(time.Millisecond))

	if err := s.StartSample(); err != nil {
		t.Fatalf("StartSample failed: %v", err)
	}
	if err := s.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	select {
	case outcome := <-s.Results():
		t.Errorf("expected no delivery after close, got %v", outcome)
	case <-time.After(20 * time.Millisecond):
	}
}
