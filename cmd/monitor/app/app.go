package app

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/lorawatch/lorawatch/internal/cad"
	"github.com/lorawatch/lorawatch/internal/display"
	"github.com/lorawatch/lorawatch/internal/input"
	"github.com/lorawatch/lorawatch/internal/monitor"
	"github.com/lorawatch/lorawatch/internal/scan"
	"github.com/lorawatch/lorawatch/internal/upload"
)

// Run wires the sampler, scheduler, engine, renderer and uploader together
// and runs the control loop until the context is cancelled.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	sampler := createSampler(&config.Sampler, logger)

	sched := scan.NewScheduler(sampler,
		scan.WithInterval(config.scanInterval()),
		scan.WithLogger(logger),
	)

	clicks := input.NewDisambiguator(
		input.WithInterPressWindow(time.Duration(config.Input.DoubleClickWindowMs)*time.Millisecond),
		input.WithResolveTimeout(time.Duration(config.Input.ResolveTimeoutMs)*time.Millisecond),
	)

	engine := monitor.New(sampler, sched,
		monitor.WithClicks(clicks),
		monitor.WithButton(NewStdinButton(os.Stdin)),
		monitor.WithRenderer(display.NewTermRenderer(os.Stdout)),
		monitor.WithRefreshInterval(time.Duration(config.Display.RefreshMs)*time.Millisecond),
		monitor.WithLogger(logger),
	)

	if config.Upload.Endpoint != "" {
		engine.SetUploader(upload.NewSequencer(upload.HostLink{}, config.Upload.Endpoint, config.Settings.DeviceID,
			upload.WithConnectBudget(
				time.Duration(config.Upload.ConnectIntervalMs)*time.Millisecond,
				config.Upload.MaxConnectAttempts),
			upload.WithResultHold(time.Duration(config.Upload.ResultHoldMs)*time.Millisecond),
			upload.WithHTTPClient(&http.Client{Timeout: time.Duration(config.Upload.TimeoutSec) * time.Second}),
			upload.WithProgress(engine.OnUploadProgress),
			upload.WithLogger(logger),
		))
	} else {
		logger.Warn("no collector endpoint configured, uploads disabled")
	}

	logger.Info("monitor starting",
		slog.String("deviceID", config.Settings.DeviceID),
		slog.String("sampler", config.Sampler.Type))

	return engine.Run(ctx)
}

func createSampler(config *SamplerConfig, logger *slog.Logger) cad.Sampler {
	options := []func(*cad.Simulator){
		cad.WithLatency(time.Duration(config.LatencyMs) * time.Millisecond),
		cad.WithDefaultPresence(config.DefaultPresence),
		cad.WithLogger(logger),
	}
	if config.Seed != 0 {
		options = append(options, cad.WithSeed(config.Seed))
	}
	for i, p := range config.Presence {
		options = append(options, cad.WithPresence(scan.ChannelAt(i).CenterMHz, p))
	}

	return cad.NewSimulator(options...)
}
