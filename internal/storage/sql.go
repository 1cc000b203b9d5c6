package storage

import (
	_ "embed"
)

const (
	insertUploadSQL = `
INSERT INTO uploads (device_id,
                     received_at,
                     uptime_seconds,
                     total_detections,
                     detections_per_min,
                     current_activity_pct,
                     peak_activity_pct,
                     freq_0, freq_1, freq_2, freq_3,
                     freq_4, freq_5, freq_6, freq_7,
                     uploader_ip)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`

	selectUploadColumns = `
    id,
    device_id,
    received_at,
    uptime_seconds,
    total_detections,
    detections_per_min,
    current_activity_pct,
    peak_activity_pct,
    freq_0, freq_1, freq_2, freq_3,
    freq_4, freq_5, freq_6, freq_7,
    COALESCE(uploader_ip, '')`

	selectLatestPerDeviceSQL = `
SELECT ` + selectUploadColumns + `
FROM uploads
WHERE
    id IN (SELECT MAX(id) FROM uploads GROUP BY device_id)
ORDER BY device_id`

	selectUploadsSinceSQL = `
SELECT ` + selectUploadColumns + `
FROM uploads
WHERE
    device_id = ?
    AND received_at >= ?
ORDER BY received_at`

	selectSummarySQL = `
SELECT
    COUNT(*),
    COALESCE(SUM(total_detections), 0),
    COALESCE(SUM(uptime_seconds), 0),
    COALESCE(AVG(detections_per_min), 0),
    COALESCE(AVG(current_activity_pct), 0),
    COALESCE(MAX(peak_activity_pct), 0),
    COALESCE(SUM(freq_0), 0), COALESCE(SUM(freq_1), 0),
    COALESCE(SUM(freq_2), 0), COALESCE(SUM(freq_3), 0),
    COALESCE(SUM(freq_4), 0), COALESCE(SUM(freq_5), 0),
    COALESCE(SUM(freq_6), 0), COALESCE(SUM(freq_7), 0)
FROM uploads
WHERE
    received_at > datetime('now', ?)`

	countUploadsSQL = `
SELECT COUNT(*)
FROM uploads`

	purgeUploadsSQL = `
DELETE
FROM uploads
WHERE
    received_at < datetime('now', ?)`
)

//go:embed schema.sql
var initSchemaSQL string
