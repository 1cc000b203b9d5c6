// Package cad defines the channel-activity detection capability: a radio
// that can be tuned to a single frequency and asked to perform one
// presence-detection pass at a time.
package cad

// Outcome is the result of one completed presence-detection pass.
type Outcome uint8

const (
	// Absent means no modulation preamble was detected during the pass.
	Absent Outcome = iota

	// Present means the preamble was detected. Presence says nothing about
	// payload content or the transmitting device.
	Present

	// Failed means the radio could not complete the pass.
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Absent:
		return "absent"
	case Present:
		return "present"
	case Failed:
		return "failed"
	}
	return "unknown"
}

// Sampler is a radio capable of channel-activity detection on one frequency
// at a time.
//
// StartSample begins a single asynchronous pass; its Outcome is delivered on
// the Results channel. At most one pass may be in flight, and callers must
// drain Results before starting another. Implementations deliver results on
// a channel of capacity one, standing in for the hardware's single-bit
// "result ready" flag.
type Sampler interface {
	// Init brings the radio up. An Init failure indicates a hardware fault
	// and is not retried.
	Init() error

	// SetFrequency retunes the radio. Safe only while no pass is in flight.
	SetFrequency(mhz float64) error

	// StartSample begins one presence-detection pass on the current
	// frequency.
	StartSample() error

	// Results delivers exactly one Outcome per successfully started pass.
	Results() <-chan Outcome

	// Close releases the radio.
	Close() error
}
