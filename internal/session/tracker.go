// Package session derives session-level statistics from the activity
// aggregator over wall-clock time.
package session

import (
	"time"

	"github.com/lorawatch/lorawatch/internal/activity"
	"github.com/lorawatch/lorawatch/internal/scan"
)

// CheckpointInterval is how often the detections-per-minute rate is
// recomputed. The rate is a trailing delta between checkpoints, not a
// sliding average.
const CheckpointInterval = time.Minute

// Stats is a point-in-time copy of the session statistics. Consumers
// (renderer, uploader) only ever see copies; the tracker owns the state.
type Stats struct {
	UpSeconds           int
	TotalDetections     int
	DetectionsPerMinute int
	CurrentActivityPct  int
	PeakActivityPct     int
	ChannelDetections   [scan.NumChannels]int
}

// Tracker accumulates uptime, peak activity and the per-minute detection
// rate. It advances on wall-clock time, independent of the scan cadence.
type Tracker struct {
	started        time.Time
	nextCheckpoint time.Time

	upSeconds int
	peakPct   int
	perMinute int
	lastTotal int
}

// NewTracker creates a tracker with the session clock starting at now.
func NewTracker(now time.Time) *Tracker {
	return &Tracker{
		started:        now,
		nextCheckpoint: now.Add(CheckpointInterval),
	}
}

// Advance moves the session clock to now, given the current global activity
// percentage and lifetime detection total. Peak activity is a running
// maximum and never decreases within a session.
func (t *Tracker) Advance(now time.Time, globalPct, totalDetections int) {
	if up := int(now.Sub(t.started) / time.Second); up > t.upSeconds {
		t.upSeconds = up
	}

	if globalPct > t.peakPct {
		t.peakPct = globalPct
	}

	for !now.Before(t.nextCheckpoint) {
		t.perMinute = totalDetections - t.lastTotal
		t.lastTotal = totalDetections
		t.nextCheckpoint = t.nextCheckpoint.Add(CheckpointInterval)
	}
}

// UpSeconds returns whole seconds since the session started.
func (t *Tracker) UpSeconds() int {
	return t.upSeconds
}

// PeakPercent returns the highest global activity percentage seen so far.
func (t *Tracker) PeakPercent() int {
	return t.peakPct
}

// DetectionsPerMinute returns the detection delta of the last completed
// checkpoint interval.
func (t *Tracker) DetectionsPerMinute() int {
	return t.perMinute
}

// Snapshot composes the session statistics with the aggregator's current
// readings. The current activity percentage is read through from the
// aggregator, never stored here.
func (t *Tracker) Snapshot(a *activity.Aggregator) Stats {
	return Stats{
		UpSeconds:           t.upSeconds,
		TotalDetections:     a.TotalDetections(),
		DetectionsPerMinute: t.perMinute,
		CurrentActivityPct:  a.GlobalPercent(),
		PeakActivityPct:     t.peakPct,
		ChannelDetections:   a.ChannelDetections(),
	}
}
