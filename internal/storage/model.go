package storage

import (
	"time"

	"github.com/lorawatch/lorawatch/internal/scan"
)

// UploadRecord is one persisted statistics upload from a monitor device.
// FreqDetections holds the lifetime per-channel detection counters in fixed
// channel order.
type UploadRecord struct {
	ID                 int64                 `json:"-"`
	DeviceID           string                `json:"device_id"`
	ReceivedAt         time.Time             `json:"received_at"`
	UptimeSeconds      int                   `json:"uptime_seconds"`
	TotalDetections    int                   `json:"total_detections"`
	DetectionsPerMin   int                   `json:"detections_per_min"`
	CurrentActivityPct int                   `json:"current_activity_pct"`
	PeakActivityPct    int                   `json:"peak_activity_pct"`
	FreqDetections     [scan.NumChannels]int `json:"freq_detections"`
	UploaderIP         string                `json:"uploader_ip,omitempty"`
}

// PeriodSummary aggregates uploads over a trailing period of days.
type PeriodSummary struct {
	Label               string                `json:"label,omitempty"`
	Days                int                   `json:"days"`
	TotalUploads        int                   `json:"total_uploads"`
	TotalDetections     int                   `json:"total_detections"`
	TotalScanSeconds    int                   `json:"total_scan_seconds"`
	AvgDetectionsPerMin float64               `json:"avg_detections_per_min"`
	AvgActivityPct      float64               `json:"avg_activity_pct"`
	PeakActivityPct     int                   `json:"peak_activity_pct"`
	FreqTotals          [scan.NumChannels]int `json:"freq_totals"`
}
