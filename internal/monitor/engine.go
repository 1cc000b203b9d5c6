// Package monitor runs the single cooperative control loop tying the scan
// scheduler, aggregator, stats tracker, input machine, mode selector and
// upload sequencer together.
package monitor

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/lorawatch/lorawatch/internal/activity"
	"github.com/lorawatch/lorawatch/internal/cad"
	"github.com/lorawatch/lorawatch/internal/display"
	"github.com/lorawatch/lorawatch/internal/input"
	"github.com/lorawatch/lorawatch/internal/scan"
	"github.com/lorawatch/lorawatch/internal/session"
	"github.com/lorawatch/lorawatch/internal/upload"
)

const (
	// DefaultPollInterval is the control-loop iteration period.
	DefaultPollInterval = 10 * time.Millisecond

	// DefaultRefreshInterval is the display refresh period.
	DefaultRefreshInterval = 100 * time.Millisecond
)

// WithButton attaches the button line. Without one, mode changes and uploads
// can never trigger.
func WithButton(b input.Button) func(*Engine) {
	return func(e *Engine) {
		e.button = b
	}
}

// WithRenderer attaches the display renderer.
func WithRenderer(r display.Renderer) func(*Engine) {
	return func(e *Engine) {
		e.renderer = r
	}
}

// SetUploader attaches the upload sequencer triggered by double clicks. It
// is a setter rather than an option because the sequencer's progress hook
// points back at the engine.
func (e *Engine) SetUploader(u *upload.Sequencer) {
	e.uploader = u
}

// WithClicks replaces the click disambiguator, e.g. to change its timings.
func WithClicks(c *input.Disambiguator) func(*Engine) {
	return func(e *Engine) {
		e.clicks = c
	}
}

// WithPollInterval sets the loop iteration period.
func WithPollInterval(d time.Duration) func(*Engine) {
	return func(e *Engine) {
		e.poll = d
	}
}

// WithRefreshInterval sets the display refresh period.
func WithRefreshInterval(d time.Duration) func(*Engine) {
	return func(e *Engine) {
		e.refresh = d
	}
}

// WithLogger sets the logger for the engine.
func WithLogger(logger *slog.Logger) func(*Engine) {
	return func(e *Engine) {
		e.logger = logger.With(slog.String("component", "engine"))
	}
}

// Engine is the control loop. Every mutable entity has exactly one writer:
// the engine iterates, the components own their state, and the only
// asynchronous boundary is the sampler's capacity-one result channel.
type Engine struct {
	sampler  cad.Sampler
	sched    *scan.Scheduler
	agg      *activity.Aggregator
	stats    *session.Tracker
	clicks   *input.Disambiguator
	edge     input.EdgeDetector
	modes    display.Selector
	uploader *upload.Sequencer
	button   input.Button
	renderer display.Renderer

	poll    time.Duration
	refresh time.Duration

	fault       bool
	uploadState upload.State
	nextRender  time.Time

	logger *slog.Logger
}

// New creates an engine around a sampler and its scheduler.
func New(sampler cad.Sampler, sched *scan.Scheduler, options ...func(*Engine)) *Engine {
	e := Engine{
		sampler: sampler,
		sched:   sched,
		agg:     activity.NewAggregator(),
		clicks:  input.NewDisambiguator(),
		poll:    DefaultPollInterval,
		refresh: DefaultRefreshInterval,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}

	for _, option := range options {
		option(&e)
	}

	return &e
}

// Run executes the control loop until the context is cancelled. A radio
// bring-up failure does not abort the loop: scanning halts permanently and
// the fault stays on the display.
func (e *Engine) Run(ctx context.Context) error {
	if err := e.sched.Start(); err != nil {
		e.fault = true
		e.logger.Error("radio bring-up failed, scanning halted", slog.String("error", err.Error()))
	} else {
		e.logger.Info("scanning started",
			slog.Int("channels", scan.NumChannels),
			slog.Int("samplesPerHop", scan.SamplesPerHop))
	}

	e.stats = session.NewTracker(time.Now())

	ticker := time.NewTicker(e.poll)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return e.sampler.Close()

		case outcome := <-e.sampler.Results():
			if sample, ok := e.sched.Complete(time.Now(), outcome); ok {
				e.agg.Record(sample)
			}

		case now := <-ticker.C:
			e.iterate(now)
		}
	}
}

func (e *Engine) iterate(now time.Time) {
	if !e.fault {
		if synthetic := e.sched.Tick(now); synthetic != nil {
			e.agg.Record(*synthetic)
		}
	}

	e.stats.Advance(now, e.agg.GlobalPercent(), e.agg.TotalDetections())

	if e.button != nil && e.edge.Sample(e.button.Pressed()) {
		e.clicks.Press(now)
	}

	switch e.clicks.Resolve(now) {
	case input.SingleClick:
		e.modes.Advance()
		e.logger.Debug("mode changed", slog.String("mode", e.modes.Label()))

	case input.DoubleClick:
		e.runUpload()
	}

	if e.renderer != nil && !now.Before(e.nextRender) {
		e.nextRender = now.Add(e.refresh)
		e.renderer.Render(e.snapshot())
	}
}

// runUpload blocks the loop for the duration of the sequence. Scanning is
// suspended: no new passes are issued while the sequencer is outside idle.
func (e *Engine) runUpload() {
	if e.uploader == nil {
		e.logger.Warn("double click ignored, no uploader configured")
		return
	}

	e.logger.Info("upload requested")
	_ = e.uploader.Run(e.stats.Snapshot(e.agg))
	e.uploadState = upload.Idle
}

// OnUploadProgress is the sequencer progress hook: it mirrors the sequencer
// state into the snapshot and forces a refresh, since the loop itself is
// blocked while an upload runs.
func (e *Engine) OnUploadProgress(state upload.State, attempt, maxAttempts int) {
	e.uploadState = state
	if e.renderer != nil {
		e.renderer.Render(e.snapshot())
	}
	if state == upload.Connecting && attempt > 0 {
		e.logger.Debug("connecting", slog.Int("attempt", attempt), slog.Int("max", maxAttempts))
	}
}

func (e *Engine) snapshot() display.Snapshot {
	return display.Snapshot{
		ModeIndex:           e.modes.Index(),
		ModeLabel:           e.modes.Label(),
		GlobalActivityPct:   e.agg.GlobalPercent(),
		ChannelActivityPct:  e.agg.ChannelPercents(),
		CurrentChannel:      e.sched.CurrentChannel(),
		LastSampleDetected:  e.agg.LastDetected(),
		TotalDetections:     e.agg.TotalDetections(),
		ChannelDetections:   e.agg.ChannelDetections(),
		UpSeconds:           e.stats.UpSeconds(),
		PeakActivityPct:     e.stats.PeakPercent(),
		DetectionsPerMinute: e.stats.DetectionsPerMinute(),
		UploadState:         e.uploadState,
		ScannerFault:        e.fault,
	}
}
