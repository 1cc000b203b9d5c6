package display

import (
	"github.com/lorawatch/lorawatch/internal/scan"
	"github.com/lorawatch/lorawatch/internal/upload"
)

// Snapshot is the engine state handed to a renderer once per refresh tick.
// It is a value copy: renderers are purely presentational and feed nothing
// back into the engine.
type Snapshot struct {
	ModeIndex int
	ModeLabel string

	GlobalActivityPct  int
	ChannelActivityPct [scan.NumChannels]int
	CurrentChannel     int
	LastSampleDetected bool

	TotalDetections     int
	ChannelDetections   [scan.NumChannels]int
	UpSeconds           int
	PeakActivityPct     int
	DetectionsPerMinute int

	UploadState upload.State

	// ScannerFault is set permanently when radio bring-up failed.
	ScannerFault bool
}

// Renderer consumes snapshots. Implementations must not retain the snapshot
// beyond the call.
type Renderer interface {
	Render(s Snapshot)
}
