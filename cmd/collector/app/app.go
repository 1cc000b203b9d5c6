package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/lorawatch/lorawatch/internal/storage"
)

const shutdownTimeout = 5 * time.Second

// Run starts the collector and serves until the context is cancelled.
func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	purged, err := store.PurgeOlderThan(ctx, config.RetentionDays)
	if err != nil {
		return fmt.Errorf("purging expired uploads: %w", err)
	}
	if purged > 0 {
		logger.Info("purged expired uploads",
			slog.Int64("rows", purged),
			slog.Int("retentionDays", config.RetentionDays))
	}

	srv := newServer(store, newMetrics(prometheus.DefaultRegisterer), logger)
	if err = srv.warmCache(ctx); err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:    config.Listen,
		Handler: srv.routes(),
	}

	serveErr := make(chan error, 1)
	go func() {
		logger.Info("collector listening",
			slog.String("addr", config.Listen),
			slog.String("db", config.DBPath))

		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case err := <-serveErr:
		return fmt.Errorf("serving: %w", err)

	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err = httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutting down: %w", err)
	}

	logger.Info("collector stopped")
	return nil
}
