package cad

import (
	"errors"
	"io"
	"log/slog"
	"math/rand/v2"
	"sync"
	"time"
)

// ErrSampleInFlight is returned when a pass is started while another one has
// not completed yet.
var ErrSampleInFlight = errors.New("sample already in flight")

// ErrClosed is returned when the sampler is used after Close.
var ErrClosed = errors.New("sampler is closed")

const defaultSimLatency = 40 * time.Millisecond

// WithSeed makes the simulator deterministic for a given seed.
func WithSeed(seed uint64) func(*Simulator) {
	return func(s *Simulator) {
		s.rng = rand.New(rand.NewPCG(seed, 0))
	}
}

// WithLatency sets how long a simulated pass takes to complete.
func WithLatency(d time.Duration) func(*Simulator) {
	return func(s *Simulator) {
		s.latency = d
	}
}

// WithPresence sets the probability of a detection on the given centre
// frequency. Frequencies without an explicit probability use the default.
func WithPresence(mhz, probability float64) func(*Simulator) {
	return func(s *Simulator) {
		s.presence[mhz] = probability
	}
}

// WithDefaultPresence sets the detection probability used for frequencies
// that have no explicit one.
func WithDefaultPresence(probability float64) func(*Simulator) {
	return func(s *Simulator) {
		s.defaultPresence = probability
	}
}

// WithFailRate sets the probability that a pass completes as Failed.
func WithFailRate(probability float64) func(*Simulator) {
	return func(s *Simulator) {
		s.failRate = probability
	}
}

// WithLogger sets the logger for the simulator.
func WithLogger(logger *slog.Logger) func(*Simulator) {
	return func(s *Simulator) {
		s.logger = logger.With(slog.String("sampler", "sim"))
	}
}

// Simulator is a Sampler backed by a random presence model instead of radio
// hardware, so the monitor can run end to end on a host machine.
type Simulator struct {
	latency         time.Duration
	presence        map[float64]float64
	defaultPresence float64
	failRate        float64

	mu       sync.Mutex
	rng      *rand.Rand
	freq     float64
	inFlight bool
	closed   bool

	results chan Outcome
	logger  *slog.Logger
}

// NewSimulator creates a simulated sampler. Without options it completes
// passes after 40ms and never detects anything.
func NewSimulator(options ...func(*Simulator)) *Simulator {
	s := Simulator{
		latency:  defaultSimLatency,
		presence: make(map[float64]float64),
		rng:      rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64())),
		results:  make(chan Outcome, 1),
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

func (s *Simulator) Init() error {
	s.logger.Debug("simulated radio initialized")
	return nil
}

func (s *Simulator) SetFrequency(mhz float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrClosed
	}
	if s.inFlight {
		return ErrSampleInFlight
	}

	s.freq = mhz
	return nil
}

func (s *Simulator) StartSample() error {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return ErrClosed
	}
	if s.inFlight {
		s.mu.Unlock()
		return ErrSampleInFlight
	}

	s.inFlight = true
	outcome := s.roll()
	s.mu.Unlock()

	if s.latency == 0 {
		s.deliver(outcome)
		return nil
	}

	time.AfterFunc(s.latency, func() {
		s.deliver(outcome)
	})
	return nil
}

func (s *Simulator) Results() <-chan Outcome {
	return s.results
}

func (s *Simulator) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.closed = true
	return nil
}

// roll decides the outcome of a pass up front, under the lock, so the rng is
// never touched concurrently. Caller must hold s.mu.
func (s *Simulator) roll() Outcome {
	if s.failRate > 0 && s.rng.Float64() < s.failRate {
		return Failed
	}

	p, ok := s.presence[s.freq]
	if !ok {
		p = s.defaultPresence
	}
	if p > 0 && s.rng.Float64() < p {
		return Present
	}
	return Absent
}

func (s *Simulator) deliver(outcome Outcome) {
	s.mu.Lock()
	s.inFlight = false
	closed := s.closed
	s.mu.Unlock()

	if closed {
		return
	}
	s.results <- outcome
}
