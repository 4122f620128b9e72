package storage

import (
	_ "embed"
)

const (
	insertRunSQL = `
INSERT INTO runs (
                  start_time,
                  dataset_id,
                  source_file,
                  latitude,
                  longitude,
                  config)
VALUES (CURRENT_TIMESTAMP, ?, ?, ?, ?, ?)`

	selectRunSQL = `
SELECT
    id,
    start_time,
    dataset_id,
    source_file,
    latitude,
    longitude,
    config
FROM runs
WHERE
    id = ?`

	selectRunsSQL = `
SELECT
    id,
    start_time,
    dataset_id,
    source_file,
    latitude,
    longitude,
    config
FROM runs
ORDER BY start_time`

	initIndexesSQL = `
CREATE INDEX IF NOT EXISTS idx_wave_stats_run_start ON wave_stats (run_id, sample_start)`
)

//go:embed schema.sql
var initSchemaSQL string
