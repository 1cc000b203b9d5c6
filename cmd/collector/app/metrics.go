package app

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/lorawatch/lorawatch/internal/scan"
	"github.com/lorawatch/lorawatch/internal/storage"
)

// metrics holds the collector's Prometheus collectors. Device gauges mirror
// the latest upload of each device; channel gauges carry a 'channel' label
// with the channel index.
type metrics struct {
	uploadsReceived prometheus.Counter
	uploadErrors    prometheus.Counter

	deviceDetections  *prometheus.GaugeVec
	deviceActivity    *prometheus.GaugeVec
	devicePeak        *prometheus.GaugeVec
	deviceUptime      *prometheus.GaugeVec
	lastUpload        *prometheus.GaugeVec
	channelDetections *prometheus.GaugeVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		uploadsReceived: factory.NewCounter(prometheus.CounterOpts{
			Name: "lorawatch_uploads_received_total",
			Help: "Uploads accepted by the collector",
		}),
		uploadErrors: factory.NewCounter(prometheus.CounterOpts{
			Name: "lorawatch_upload_errors_total",
			Help: "Uploads rejected or failed to persist",
		}),
		deviceDetections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lorawatch_device_detections_total",
			Help: "Lifetime detections reported by a device",
		}, []string{"device"}),
		deviceActivity: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lorawatch_device_activity_pct",
			Help: "Current activity percentage reported by a device",
		}, []string{"device"}),
		devicePeak: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lorawatch_device_peak_activity_pct",
			Help: "Peak activity percentage reported by a device",
		}, []string{"device"}),
		deviceUptime: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lorawatch_device_uptime_seconds",
			Help: "Session uptime reported by a device",
		}, []string{"device"}),
		lastUpload: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lorawatch_device_last_upload_timestamp",
			Help: "Unix timestamp of a device's last upload",
		}, []string{"device"}),
		channelDetections: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "lorawatch_channel_detections_total",
			Help: "Lifetime per-channel detections reported by a device",
		}, []string{"device", "channel"}),
	}
}

func (m *metrics) observeUpload(record *storage.UploadRecord) {
	m.uploadsReceived.Inc()
	m.deviceDetections.WithLabelValues(record.DeviceID).Set(float64(record.TotalDetections))
	m.deviceActivity.WithLabelValues(record.DeviceID).Set(float64(record.CurrentActivityPct))
	m.devicePeak.WithLabelValues(record.DeviceID).Set(float64(record.PeakActivityPct))
	m.deviceUptime.WithLabelValues(record.DeviceID).Set(float64(record.UptimeSeconds))
	m.lastUpload.WithLabelValues(record.DeviceID).Set(float64(record.ReceivedAt.Unix()))

	for i := 0; i < scan.NumChannels; i++ {
		m.channelDetections.WithLabelValues(record.DeviceID, strconv.Itoa(i)).Set(float64(record.FreqDetections[i]))
	}
}
