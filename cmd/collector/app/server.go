package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/lorawatch/lorawatch/internal/scan"
	"github.com/lorawatch/lorawatch/internal/storage"
	"github.com/lorawatch/lorawatch/internal/upload"
)

var summaryPeriods = []struct {
	key   string
	label string
	days  int
}{
	{"7days", "7 Days", 7},
	{"30days", "30 Days", 30},
	{"90days", "90 Days", 90},
	{"365days", "1 Year", 365},
}

// server holds the collector's HTTP handlers and the latest-per-device
// cache, which is loaded from storage at startup and kept current on every
// accepted upload.
type server struct {
	store   storage.Store
	metrics *metrics
	logger  *slog.Logger

	mu     sync.RWMutex
	latest map[string]*storage.UploadRecord
}

func newServer(store storage.Store, metrics *metrics, logger *slog.Logger) *server {
	return &server{
		store:   store,
		metrics: metrics,
		logger:  logger,
		latest:  make(map[string]*storage.UploadRecord),
	}
}

// warmCache loads the most recent upload of every known device.
func (s *server) warmCache(ctx context.Context) error {
	records, err := s.store.LatestPerDevice(ctx)
	if err != nil {
		return fmt.Errorf("loading latest uploads: %w", err)
	}

	s.mu.Lock()
	for _, r := range records {
		s.latest[r.DeviceID] = r
	}
	s.mu.Unlock()

	s.logger.Info("cache warmed", slog.Int("devices", len(records)))
	return nil
}

func (s *server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /upload", s.handleUpload)
	mux.HandleFunc("GET /api/stats", s.handleAPIStats)
	mux.HandleFunc("GET /api/history", s.handleAPIHistory)
	mux.HandleFunc("GET /stats", s.handleStats)
	mux.Handle("GET /metrics", promhttp.Handler())
	return mux
}

func (s *server) handleUpload(w http.ResponseWriter, r *http.Request) {
	var payload upload.Payload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		s.metrics.uploadErrors.Inc()
		s.logger.Warn("rejecting malformed upload", slog.String("error", err.Error()), slog.String("remote", r.RemoteAddr))
		http.Error(w, "invalid JSON", http.StatusBadRequest)
		return
	}

	if payload.DeviceID == "" {
		payload.DeviceID = "unknown"
	}

	record := &storage.UploadRecord{
		DeviceID:           payload.DeviceID,
		ReceivedAt:         time.Now().UTC(),
		UptimeSeconds:      payload.UptimeSeconds,
		TotalDetections:    payload.TotalDetections,
		DetectionsPerMin:   payload.DetectionsPerMin,
		CurrentActivityPct: payload.CurrentActivityPct,
		PeakActivityPct:    payload.PeakActivityPct,
		FreqDetections:     payload.FreqDetections,
		UploaderIP:         r.RemoteAddr,
	}

	if _, err := s.store.StoreUpload(r.Context(), record); err != nil {
		s.metrics.uploadErrors.Inc()
		s.logger.Error("storing upload", slog.String("error", err.Error()))
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	s.mu.Lock()
	s.latest[record.DeviceID] = record
	s.mu.Unlock()

	s.metrics.observeUpload(record)
	s.logger.Info("upload stored",
		slog.String("device", record.DeviceID),
		slog.Int("totalDetections", record.TotalDetections),
		slog.Int("detectionsPerMin", record.DetectionsPerMin),
		slog.Int("activityPct", record.CurrentActivityPct))

	writeJSON(w, map[string]string{
		"status":  "ok",
		"message": fmt.Sprintf("received %d detections", record.TotalDetections),
	})
}

func (s *server) handleAPIStats(w http.ResponseWriter, r *http.Request) {
	total, err := s.store.TotalUploads(r.Context())
	if err != nil {
		s.logger.Error("counting uploads", slog.String("error", err.Error()))
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	s.mu.RLock()
	devices := make(map[string]*storage.UploadRecord, len(s.latest))
	for id, record := range s.latest {
		devices[id] = record
	}
	s.mu.RUnlock()

	writeJSON(w, map[string]any{
		"total_uploads": total,
		"devices":       devices,
		"frequencies":   scan.Channels(),
	})
}

func (s *server) handleAPIHistory(w http.ResponseWriter, r *http.Request) {
	summaries := make(map[string]*storage.PeriodSummary, len(summaryPeriods))
	for _, period := range summaryPeriods {
		summary, err := s.store.Summary(r.Context(), period.days)
		if err != nil {
			s.logger.Error("summarizing uploads", slog.Int("days", period.days), slog.String("error", err.Error()))
			http.Error(w, "storage failure", http.StatusInternalServerError)
			return
		}
		summary.Label = period.label
		summaries[period.key] = summary
	}

	writeJSON(w, summaries)
}

func (s *server) handleStats(w http.ResponseWriter, r *http.Request) {
	total, err := s.store.TotalUploads(r.Context())
	if err != nil {
		s.logger.Error("counting uploads", slog.String("error", err.Error()))
		http.Error(w, "storage failure", http.StatusInternalServerError)
		return
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprintf(w, "lorawatch collector\n")
	fmt.Fprintf(w, "===================\n\n")
	fmt.Fprintf(w, "Total uploads in database: %s\n\n", humanize.Comma(int64(total)))

	for id, record := range s.latest {
		fmt.Fprintf(w, "Device: %s\n", id)
		fmt.Fprintf(w, "  Uptime: %02d:%02d:%02d\n",
			record.UptimeSeconds/3600, (record.UptimeSeconds%3600)/60, record.UptimeSeconds%60)
		fmt.Fprintf(w, "  Total detections: %s\n", humanize.Comma(int64(record.TotalDetections)))
		fmt.Fprintf(w, "  Rate: %d/min\n", record.DetectionsPerMin)
		fmt.Fprintf(w, "  Activity: %d%% (peak %d%%)\n", record.CurrentActivityPct, record.PeakActivityPct)
		fmt.Fprintf(w, "  Frequency breakdown:\n")
		for _, ch := range scan.Channels() {
			fmt.Fprintf(w, "    %.1f MHz %-18s: %d\n", ch.CenterMHz, "("+ch.Label+")", record.FreqDetections[ch.Index])
		}
		fmt.Fprintf(w, "  Last upload: %s (%s)\n\n",
			record.ReceivedAt.Format(time.RFC3339), humanize.Time(record.ReceivedAt))
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
