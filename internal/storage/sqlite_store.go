package storage

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"
)

// sqliteTimeLayout is the textual timestamp format stored in the database,
// chosen to compare correctly against sqlite's datetime('now').
const sqliteTimeLayout = "2006-01-02 15:04:05"

// SqliteStore handles database operations
type SqliteStore struct {
	dbPath string

	writeDB     *sql.DB
	writeDBOnce sync.Once
	writeDBErr  error

	readDB     *sql.DB
	readDBOnce sync.Once
	readDBErr  error

	closeOnce sync.Once
	closeErr  error
}

// NewSqliteStore creates a new database connection and initializes the
// schema using the Sqlite database
func NewSqliteStore(dbPath string) *SqliteStore {
	return &SqliteStore{dbPath: dbPath}
}

func closeWithError(cl interface{ Close() error }, err *error) {
	if cErr := cl.Close(); cErr != nil && *err == nil {
		*err = cErr
	}
}

func (s *SqliteStore) getWriteDB() (*sql.DB, error) {
	s.writeDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "_journal_mode=WAL&_synchronous=NORMAL"))
		if err != nil {
			s.writeDBErr = fmt.Errorf("opening write connection: %w", err)
			return
		}

		if _, err = db.Exec(initSchemaSQL); err != nil {
			_ = db.Close()
			s.writeDBErr = fmt.Errorf("initializing schema: %w", err)
			return
		}

		s.writeDB = db
	})

	return s.writeDB, s.writeDBErr
}

func (s *SqliteStore) getReadDB() (*sql.DB, error) {
	// Schema creation goes through the write connection first, so a purely
	// read-only open does not fail on a fresh database file.
	if _, err := s.getWriteDB(); err != nil {
		return nil, err
	}

	s.readDBOnce.Do(func() {
		db, err := sql.Open("sqlite3", fmt.Sprintf("file:%s?%s", s.dbPath, "mode=ro"))
		if err != nil {
			s.readDBErr = fmt.Errorf("opening read connection: %w", err)
			return
		}
		s.readDB = db
	})

	return s.readDB, s.readDBErr
}

func (s *SqliteStore) StoreUpload(ctx context.Context, record *UploadRecord) (id int64, err error) {
	db, err := s.getWriteDB()
	if err != nil {
		return 0, fmt.Errorf("getting write connection: %w", err)
	}

	stmt, err := db.PrepareContext(ctx, insertUploadSQL)
	if err != nil {
		return 0, fmt.Errorf("preparing statement: %w", err)
	}
	defer closeWithError(stmt, &err)

	var ip sql.NullString
	if record.UploaderIP != "" {
		ip.Valid = true
		ip.String = record.UploaderIP
	}

	result, err := stmt.ExecContext(ctx,
		record.DeviceID,
		record.ReceivedAt.UTC().Format(sqliteTimeLayout),
		record.UptimeSeconds,
		record.TotalDetections,
		record.DetectionsPerMin,
		record.CurrentActivityPct,
		record.PeakActivityPct,
		record.FreqDetections[0], record.FreqDetections[1],
		record.FreqDetections[2], record.FreqDetections[3],
		record.FreqDetections[4], record.FreqDetections[5],
		record.FreqDetections[6], record.FreqDetections[7],
		ip,
	)
	if err != nil {
		return 0, fmt.Errorf("inserting upload: %w", err)
	}

	if id, err = result.LastInsertId(); err != nil {
		return 0, fmt.Errorf("getting upload ID: %w", err)
	}
	return id, nil
}

func (s *SqliteStore) LatestPerDevice(ctx context.Context) ([]*UploadRecord, error) {
	return s.queryUploads(ctx, selectLatestPerDeviceSQL)
}

func (s *SqliteStore) UploadsSince(ctx context.Context, deviceID string, since time.Time) ([]*UploadRecord, error) {
	return s.queryUploads(ctx, selectUploadsSinceSQL, deviceID, since.UTC().Format(sqliteTimeLayout))
}

func (s *SqliteStore) queryUploads(ctx context.Context, query string, args ...any) (records []*UploadRecord, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying uploads: %w", err)
	}
	defer closeWithError(rows, &err)

	for rows.Next() {
		var r UploadRecord
		var receivedAt string

		if err = rows.Scan(
			&r.ID,
			&r.DeviceID,
			&receivedAt,
			&r.UptimeSeconds,
			&r.TotalDetections,
			&r.DetectionsPerMin,
			&r.CurrentActivityPct,
			&r.PeakActivityPct,
			&r.FreqDetections[0], &r.FreqDetections[1],
			&r.FreqDetections[2], &r.FreqDetections[3],
			&r.FreqDetections[4], &r.FreqDetections[5],
			&r.FreqDetections[6], &r.FreqDetections[7],
			&r.UploaderIP,
		); err != nil {
			return nil, fmt.Errorf("scanning upload row: %w", err)
		}

		if r.ReceivedAt, err = time.ParseInLocation(sqliteTimeLayout, receivedAt, time.UTC); err != nil {
			return nil, fmt.Errorf("parsing upload timestamp: %w", err)
		}

		records = append(records, &r)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating upload rows: %w", err)
	}

	return records, nil
}

func (s *SqliteStore) Summary(ctx context.Context, days int) (summary *PeriodSummary, err error) {
	db, err := s.getReadDB()
	if err != nil {
		return nil, fmt.Errorf("getting read connection: %w", err)
	}

	summary = &PeriodSummary{Days: days}

	row := db.QueryRowContext(ctx, selectSummarySQL, fmt.Sprintf("-%d days", days))
	if err = row.Scan(
		&summary.TotalUploads,
		&summary.TotalDetections,
		&summary.TotalScanSeconds,
		&summary.AvgDetectionsPerMin,
		&summary.AvgActivityPct,
		&summary.PeakActivityPct,
		&summary.FreqTotals[0], &summary.FreqTotals[1],
		&summary.FreqTotals[2], &summary.FreqTotals[3],
		&summary.FreqTotals[4], &summary.FreqTotals[5],
		&summary.FreqTotals[6], &summary.FreqTotals[7],
	); err != nil {
		return nil, fmt.Errorf("scanning summary: %w", err)
	}

	return summary, nil
}

func (s *SqliteStore) TotalUploads(ctx context.Context) (int, error) {
	db, err := s.getReadDB()
	if err != nil {
		return 0, fmt.Errorf("getting read connection: %w", err)
	}

	var count int
	if err = db.QueryRowContext(ctx, countUploadsSQL).Scan(&count); err != nil {
		return 0, fmt.Errorf("counting uploads: %w", err)
	}
	return count, nil
}

func (s *SqliteStore) PurgeOlderThan(ctx context.Context, days int) (int64, error) {
	db, err := s.getWriteDB()
	if err != nil {
		return 0, fmt.Errorf("getting write connection: %w", err)
	}

	result, err := db.ExecContext(ctx, purgeUploadsSQL, fmt.Sprintf("-%d days", days))
	if err != nil {
		return 0, fmt.Errorf("purging uploads: %w", err)
	}

	return result.RowsAffected()
}

func (s *SqliteStore) Close() error {
	s.closeOnce.Do(func() {
		if s.writeDB != nil {
			if err := s.writeDB.Close(); err != nil {
				s.closeErr = err
			}
		}
		if s.readDB != nil {
			if err := s.readDB.Close(); err != nil && s.closeErr == nil {
				s.closeErr = err
			}
		}
	})

	return s.closeErr
}
