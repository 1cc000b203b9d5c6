package activity

import (
	"github.com/lorawatch/lorawatch/internal/scan"
)

const (
	// GlobalWindowSize covers roughly five seconds at the nominal cadence.
	GlobalWindowSize = 100

	// ChannelWindowSize is the per-channel rolling window capacity.
	ChannelWindowSize = 20
)

// Aggregator consumes completed scan samples and derives rolling activity
// percentages, globally and per channel, plus lifetime detection counters.
// It is the single writer of those counters. Not safe for concurrent use;
// the control loop is its only caller.
type Aggregator struct {
	global   *Window
	channels [scan.NumChannels]*Window

	totalDetections   int
	channelDetections [scan.NumChannels]int
	lastDetected      bool
}

// NewAggregator creates an aggregator with cold windows and zero counters.
func NewAggregator() *Aggregator {
	a := Aggregator{global: NewWindow(GlobalWindowSize)}
	for i := range a.channels {
		a.channels[i] = NewWindow(ChannelWindowSize)
	}
	return &a
}

// Record consumes one completed sample. It must be called exactly once per
// completed pass. Lifetime counters are monotonic and never reset by window
// rotation.
func (a *Aggregator) Record(sample scan.Sample) {
	a.global.Push(sample.Detected)
	a.channels[sample.ChannelIndex].Push(sample.Detected)
	a.lastDetected = sample.Detected

	if sample.Detected {
		a.totalDetections++
		a.channelDetections[sample.ChannelIndex]++
	}
}

// GlobalPercent returns the rolling global activity percentage.
func (a *Aggregator) GlobalPercent() int {
	return a.global.Percent()
}

// ChannelPercent returns the rolling activity percentage for a channel.
func (a *Aggregator) ChannelPercent(index int) int {
	return a.channels[index].Percent()
}

// ChannelPercents returns all per-channel percentages in channel order.
func (a *Aggregator) ChannelPercents() [scan.NumChannels]int {
	var out [scan.NumChannels]int
	for i, w := range a.channels {
		out[i] = w.Percent()
	}
	return out
}

// TotalDetections returns the lifetime detection count.
func (a *Aggregator) TotalDetections() int {
	return a.totalDetections
}

// ChannelDetections returns the lifetime per-channel detection counters in
// channel order.
func (a *Aggregator) ChannelDetections() [scan.NumChannels]int {
	return a.channelDetections
}

// LastDetected reports the outcome of the most recent sample.
func (a *Aggregator) LastDetected() bool {
	return a.lastDetected
}
