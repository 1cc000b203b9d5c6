package upload

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/lorawatch/lorawatch/internal/session"
)

const (
	// DefaultConnectInterval is the polling interval between connect checks.
	DefaultConnectInterval = 500 * time.Millisecond

	// DefaultMaxConnectAttempts bounds the connect phase to roughly fifteen
	// seconds at the default interval.
	DefaultMaxConnectAttempts = 30

	// DefaultPostTimeout bounds the transmit POST.
	DefaultPostTimeout = 10 * time.Second

	// DefaultResultHold is how long a terminal state stays visible before
	// the sequencer returns to idle.
	DefaultResultHold = 2 * time.Second

	contentType = "application/json"
)

// ErrConnectTimeout is returned when the connect attempt budget is exhausted
// before the link comes up.
var ErrConnectTimeout = errors.New("connect attempt budget exhausted")

// Link is the wireless uplink capability. Connect begins association;
// Connected is polled until the link is up. Disconnect releases the link and
// is always called, regardless of outcome.
type Link interface {
	Connect() error
	Connected() bool
	Disconnect()
}

// WithHTTPClient replaces the HTTP client used for the transmit POST.
func WithHTTPClient(client *http.Client) func(*Sequencer) {
	return func(s *Sequencer) {
		s.client = client
	}
}

// WithConnectBudget sets the connect polling interval and attempt limit.
func WithConnectBudget(interval time.Duration, maxAttempts int) func(*Sequencer) {
	return func(s *Sequencer) {
		s.connectInterval = interval
		s.maxAttempts = maxAttempts
	}
}

// WithResultHold sets how long terminal states stay visible.
func WithResultHold(d time.Duration) func(*Sequencer) {
	return func(s *Sequencer) {
		s.resultHold = d
	}
}

// WithProgress sets a callback invoked on every state change and connect
// attempt, so the display can track a sequence that otherwise blocks the
// control loop.
func WithProgress(fn func(state State, attempt, maxAttempts int)) func(*Sequencer) {
	return func(s *Sequencer) {
		s.progress = fn
	}
}

// WithLogger sets the logger for the sequencer.
func WithLogger(logger *slog.Logger) func(*Sequencer) {
	return func(s *Sequencer) {
		s.logger = logger.With(slog.String("component", "upload"))
	}
}

// Sequencer drives one upload at a time: connect with a bounded attempt
// budget, POST the payload, show the result, tear the link down. Run blocks
// its caller deliberately; uploads are rare, operator-initiated and bounded
// by the timeouts above.
type Sequencer struct {
	link     Link
	client   *http.Client
	endpoint string
	deviceID string

	connectInterval time.Duration
	maxAttempts     int
	resultHold      time.Duration

	state    State
	progress func(State, int, int)
	sleep    func(time.Duration)
	logger   *slog.Logger
}

// NewSequencer creates a sequencer posting to the given collector endpoint.
func NewSequencer(link Link, endpoint, deviceID string, options ...func(*Sequencer)) *Sequencer {
	s := Sequencer{
		link:            link,
		client:          &http.Client{Timeout: DefaultPostTimeout},
		endpoint:        endpoint,
		deviceID:        deviceID,
		connectInterval: DefaultConnectInterval,
		maxAttempts:     DefaultMaxConnectAttempts,
		resultHold:      DefaultResultHold,
		sleep:           time.Sleep,
		logger:          slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&s)
	}

	return &s
}

// State returns the current sequencer state.
func (s *Sequencer) State() State {
	return s.state
}

// Run executes one full upload sequence and returns the terminal error, if
// any. The in-flight snapshot is discarded on failure; there is no retry and
// no queueing. The link is released unconditionally and the sequencer ends
// back in Idle.
func (s *Sequencer) Run(stats session.Stats) (err error) {
	defer func() {
		s.link.Disconnect()
		s.setState(Idle, 0)
	}()

	s.setState(Connecting, 0)
	if err = s.connect(); err != nil {
		s.fail(err)
		return err
	}
	s.setState(Connected, 0)

	s.setState(Transmitting, 0)
	if err = s.transmit(stats); err != nil {
		s.fail(err)
		return err
	}

	s.logger.Info("upload succeeded",
		slog.Int("totalDetections", stats.TotalDetections),
		slog.Int("upSeconds", stats.UpSeconds))
	s.setState(Succeeded, 0)
	s.sleep(s.resultHold)
	return nil
}

func (s *Sequencer) connect() error {
	if err := s.link.Connect(); err != nil {
		return fmt.Errorf("starting link association: %w", err)
	}

	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		if s.link.Connected() {
			return nil
		}
		s.notify(Connecting, attempt)
		s.sleep(s.connectInterval)
	}

	return ErrConnectTimeout
}

func (s *Sequencer) transmit(stats session.Stats) error {
	body, err := json.Marshal(NewPayload(s.deviceID, stats))
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	resp, err := s.client.Post(s.endpoint, contentType, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("posting payload: %w", err)
	}
	defer resp.Body.Close()

	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("collector returned %s", resp.Status)
	}
	return nil
}

func (s *Sequencer) fail(err error) {
	s.logger.Warn("upload failed", slog.String("error", err.Error()))
	s.setState(Failed, 0)
	s.sleep(s.resultHold)
}

func (s *Sequencer) setState(state State, attempt int) {
	s.state = state
	s.logger.Debug("upload state", slog.String("state", state.String()))
	s.notify(state, attempt)
}

func (s *Sequencer) notify(state State, attempt int) {
	if s.progress != nil {
		s.progress(state, attempt, s.maxAttempts)
	}
}
