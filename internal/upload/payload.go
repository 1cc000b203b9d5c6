package upload

import (
	"github.com/lorawatch/lorawatch/internal/scan"
	"github.com/lorawatch/lorawatch/internal/session"
)

// Payload is the wire contract for a collector upload. FreqDetections holds
// the lifetime per-channel detection counters in fixed channel order and is
// always eight entries long.
type Payload struct {
	DeviceID           string                `json:"device_id"`
	UptimeSeconds      int                   `json:"uptime_seconds"`
	TotalDetections    int                   `json:"total_detections"`
	DetectionsPerMin   int                   `json:"detections_per_min"`
	CurrentActivityPct int                   `json:"current_activity_pct"`
	PeakActivityPct    int                   `json:"peak_activity_pct"`
	FreqDetections     [scan.NumChannels]int `json:"freq_detections"`
}

// NewPayload builds the wire payload from a statistics snapshot.
func NewPayload(deviceID string, stats session.Stats) Payload {
	return Payload{
		DeviceID:           deviceID,
		UptimeSeconds:      stats.UpSeconds,
		TotalDetections:    stats.TotalDetections,
		DetectionsPerMin:   stats.DetectionsPerMinute,
		CurrentActivityPct: stats.CurrentActivityPct,
		PeakActivityPct:    stats.PeakActivityPct,
		FreqDetections:     stats.ChannelDetections,
	}
}
