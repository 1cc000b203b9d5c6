package scan

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/lorawatch/lorawatch/internal/cad"
)

// DefaultInterval is the nominal sample cadence.
const DefaultInterval = 50 * time.Millisecond

// Sample is one completed presence-detection outcome attributed to a channel.
// Samples are consumed immediately by the aggregator and never persisted.
type Sample struct {
	ChannelIndex int
	Detected     bool
	Time         time.Time
}

// WithInterval sets the scheduler cadence.
func WithInterval(d time.Duration) func(*Scheduler) {
	return func(s *Scheduler) {
		s.interval = d
	}
}

// WithLogger sets the logger for the scheduler.
func WithLogger(logger *slog.Logger) func(*Scheduler) {
	return func(s *Scheduler) {
		s.logger = logger.With(slog.String("component", "scheduler"))
	}
}

// Scheduler issues presence-detection passes at a fixed cadence and owns the
// hop policy across the channel plan. At most one pass is outstanding at a
// time; a due tick while one is in flight is skipped, never queued.
type Scheduler struct {
	sampler cad.Sampler
	cursor  Cursor

	interval    time.Duration
	nextDue     time.Time
	outstanding bool
	retune      bool
	halted      bool

	logger *slog.Logger
}

// NewScheduler creates a scheduler driving the given sampler.
func NewScheduler(sampler cad.Sampler, options ...func(*Scheduler)) *Scheduler {
	s := Scheduler{
		sampler:  sampler,
		interval: DefaultInterval,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// Start brings the sampler up and tunes it to the first channel. A failure
// here indicates a hardware fault: scanning is halted permanently and the
// error is returned for the operator display.
func (s *Scheduler) Start() error {
	if err := s.sampler.Init(); err != nil {
		s.halted = true
		return fmt.Errorf("radio bring-up: %w", err)
	}
	if err := s.sampler.SetFrequency(ChannelAt(s.cursor.Channel()).CenterMHz); err != nil {
		s.halted = true
		return fmt.Errorf("tuning initial channel: %w", err)
	}
	return nil
}

// Halted reports whether scanning has been halted by a bring-up failure.
func (s *Scheduler) Halted() bool {
	return s.halted
}

// CurrentChannel returns the index of the channel currently being sampled.
func (s *Scheduler) CurrentChannel() int {
	return s.cursor.Channel()
}

// Tick starts a new pass if one is due and none is outstanding. When starting
// a pass (or retuning after a hop) fails, the failure is recoverable: it is
// logged, counted as an absent sample for the current channel, and returned
// so the caller can aggregate it. Tick returns nil otherwise.
func (s *Scheduler) Tick(now time.Time) *Sample {
	if s.halted || s.outstanding || now.Before(s.nextDue) {
		return nil
	}
	s.nextDue = now.Add(s.interval)

	if s.retune {
		if err := s.sampler.SetFrequency(ChannelAt(s.cursor.Channel()).CenterMHz); err != nil {
			s.logger.Warn("retune failed, counting sample as absent",
				slog.Int("channel", s.cursor.Channel()),
				slog.String("error", err.Error()))
			return s.absorb(now)
		}
		s.retune = false
	}

	if err := s.sampler.StartSample(); err != nil {
		s.logger.Warn("sample start failed, counting sample as absent",
			slog.Int("channel", s.cursor.Channel()),
			slog.String("error", err.Error()))
		return s.absorb(now)
	}

	s.outstanding = true
	return nil
}

// Complete consumes the outcome of the in-flight pass. A Failed outcome is
// recoverable and counts as absent. Completion advances the hop cursor; after
// a hop the sampler is retuned before the next pass is issued.
func (s *Scheduler) Complete(now time.Time, outcome cad.Outcome) (Sample, bool) {
	if !s.outstanding {
		return Sample{}, false
	}
	s.outstanding = false

	if outcome == cad.Failed {
		s.logger.Warn("sample failed, counting as absent", slog.Int("channel", s.cursor.Channel()))
	}

	sample := s.absorb(now)
	sample.Detected = outcome == cad.Present
	return *sample, true
}

// absorb records a completed (or synthesized) sample on the current channel
// and advances the cursor.
func (s *Scheduler) absorb(now time.Time) *Sample {
	sample := Sample{
		ChannelIndex: s.cursor.Channel(),
		Time:         now,
	}
	if s.cursor.Advance() {
		s.retune = true
	}
	return &sample
}
