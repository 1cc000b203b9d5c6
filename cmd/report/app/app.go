package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/lorawatch/lorawatch/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	since := time.Now().AddDate(0, 0, -config.Days)
	records, err := store.UploadsSince(ctx, config.DeviceID, since)
	if err != nil {
		return fmt.Errorf("reading uploads: %w", err)
	}
	if len(records) == 0 {
		return fmt.Errorf("no uploads for device '%s' in the last %d days", config.DeviceID, config.Days)
	}

	logger.Info("loaded uploads",
		slog.String("device", config.DeviceID),
		slog.Int("count", len(records)),
		slog.String("since", since.Format(time.DateTime)))

	renderer, err := NewChartRenderer(config.FontFile)
	if err != nil {
		return fmt.Errorf("creating chart renderer: %w", err)
	}

	img, err := renderer.Render(config.DeviceID, config.Days, records)
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

	logger.Info("writing chart",
		slog.String("destination", config.OutputFile),
		slog.String("format", string(config.Format)))

	switch config.Format {
	case ImagePNG:
		err = png.Encode(out, img)

	case ImageJPEG:
		err = jpeg.Encode(out, img, &jpeg.Options{
			Quality: 98,
		})
	}
	return err
}
