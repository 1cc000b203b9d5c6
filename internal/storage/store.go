package storage

import (
	"context"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// Store provides an interface for managing collector-side upload storage.
// All write operations should be considered atomic.
type Store interface {
	// StoreUpload persists one upload record.
	//
	// Parameters:
	//   - ctx: Context for cancellation and timeouts
	//   - record: The upload to persist; ID is ignored on insert
	//
	// Returns:
	//   - id: Row identifier of the stored upload
	//   - error: If storage fails or context is cancelled
	StoreUpload(ctx context.Context, record *UploadRecord) (id int64, err error)

	// LatestPerDevice returns the most recent upload of every device,
	// ordered by device identifier.
	LatestPerDevice(ctx context.Context) ([]*UploadRecord, error)

	// UploadsSince returns a device's uploads received at or after the given
	// time, ordered by reception time in ascending order.
	UploadsSince(ctx context.Context, deviceID string, since time.Time) ([]*UploadRecord, error)

	// Summary aggregates the uploads of the trailing period of the given
	// number of days.
	Summary(ctx context.Context, days int) (*PeriodSummary, error)

	// TotalUploads returns the number of uploads stored.
	TotalUploads(ctx context.Context) (int, error)

	// PurgeOlderThan deletes uploads older than the given number of days and
	// returns the number of rows removed.
	PurgeOlderThan(ctx context.Context, days int) (int64, error)

	// Close releases all database connections and resources. After Close is
	// called, the store instance cannot be reused. It is safe to call Close
	// multiple times.
	Close() error
}
