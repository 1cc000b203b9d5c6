// Package upload drives the connect, transmit, disconnect sequence that
// ships a statistics snapshot to the remote collector.
package upload

// State is the upload sequencer state. The sequencer is its only writer;
// everything else reads copies through the display snapshot.
type State uint8

const (
	Idle State = iota
	Connecting
	Connected
	Transmitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Connecting:
		return "connecting"
	case Connected:
		return "connected"
	case Transmitting:
		return "transmitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	}
	return "unknown"
}
