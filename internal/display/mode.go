// Package display holds the mode selector, the read-only snapshot handed to
// renderers, and a terminal renderer for host runs.
package display

import (
	"fmt"

	"github.com/lorawatch/lorawatch/internal/scan"
)

// NumGeneralModes is the number of summary views preceding the per-channel
// detail views in the mode cycle.
const NumGeneralModes = 8

// NumModes is the full mode cycle length: the general views followed by one
// detail view per channel.
const NumModes = NumGeneralModes + scan.NumChannels

var generalModeLabels = [NumGeneralModes]string{
	"Overview",
	"Channel Bars",
	"Activity Graph",
	"Session Stats",
	"Peak Meter",
	"Detections",
	"Channel Map",
	"About",
}

// ModeLabel returns the human-readable label for a mode index.
func ModeLabel(index int) string {
	if index < NumGeneralModes {
		return generalModeLabels[index]
	}
	ch := scan.ChannelAt(index - NumGeneralModes)
	return fmt.Sprintf("CH%d %.1f MHz", ch.Index, ch.CenterMHz)
}

// Selector holds the current display mode. A single click advances it,
// wrapping at the end of the cycle; no other transition exists.
type Selector struct {
	index int
}

// Index returns the current mode index.
func (s *Selector) Index() int {
	return s.index
}

// Label returns the label of the current mode.
func (s *Selector) Label() string {
	return ModeLabel(s.index)
}

// Advance moves to the next mode and returns its index.
func (s *Selector) Advance() int {
	s.index = (s.index + 1) % NumModes
	return s.index
}
