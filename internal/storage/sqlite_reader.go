package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

// ErrNoData indicates either that no statistics exist for the given
// parameters, or that all available data has been read from the reader.
var ErrNoData = errors.New("no data available")

// StatsReader provides an iterator-based interface for reading stored wave
// statistics with optional time filtering.
type StatsReader interface {
	// Run returns metadata about the processing run this reader is
	// accessing.
	Run() *Run

	// Next advances the iterator and returns true if there is another
	// record to read, false when the iteration is complete or if an
	// error occurred.
	Next(context.Context) bool

	// Current returns the current record in the iteration. If called
	// after Next() returns false, the behavior is undefined.
	Current() *BurstRecord

	// Error returns any error that occurred during iteration. When
	// Next() returns false, Error() distinguishes between end of data
	// and a failure.
	Error() error

	// Close releases any resources associated with the reader. After
	// Close is called, the reader should not be used.
	Close() error
}

// ReaderOption configures a StatsReader with specific filtering criteria.
type ReaderOption func(*SqliteStatsReader)

// WithStartTime excludes records whose sample start precedes t.
func WithStartTime(t time.Time) ReaderOption {
	return func(r *SqliteStatsReader) {
		r.startTime = &t
	}
}

// WithEndTime excludes records whose sample start follows t.
func WithEndTime(t time.Time) ReaderOption {
	return func(r *SqliteStatsReader) {
		r.endTime = &t
	}
}

// WithTimeRange sets both start and end time filters. This is a convenience
// function equivalent to applying both WithStartTime and WithEndTime.
func WithTimeRange(startTime, endTime time.Time) ReaderOption {
	return func(r *SqliteStatsReader) {
		r.startTime = &startTime
		r.endTime = &endTime
	}
}

// SqliteStatsReader implements StatsReader for the SQLite backend.
type SqliteStatsReader struct {
	db *sql.DB

	runID int64
	run   *Run

	startTime *time.Time // Optional start of time range filter
	endTime   *time.Time // Optional end of time range filter

	current *BurstRecord
	rows    *sql.Rows
	err     error
}

func newSqliteStatsReader(ctx context.Context, db *sql.DB, runID int64, opts ...ReaderOption) (*SqliteStatsReader, error) {
	r := &SqliteStatsReader{
		db:    db,
		runID: runID,
	}
	for _, opt := range opts {
		opt(r)
	}
	if err := r.init(ctx); err != nil {
		return nil, fmt.Errorf("initializing reader: %w", err)
	}
	return r, nil
}

func (r *SqliteStatsReader) init(ctx context.Context) error {
	if err := r.initRun(ctx); err != nil {
		return fmt.Errorf("loading run data: %w", err)
	}
	if err := r.initQuery(ctx); err != nil {
		return fmt.Errorf("setting up query: %w", err)
	}
	return nil
}

func (r *SqliteStatsReader) initRun(ctx context.Context) error {
	stmt, err := r.db.PrepareContext(ctx, selectRunSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var run Run
	var config sql.NullString
	err = stmt.QueryRowContext(ctx, r.runID).Scan(&run.ID, &run.StartTime, &run.DatasetID, &run.SourceFile, &run.Latitude, &run.Longitude, &config)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("run %d: %w", r.runID, ErrNoData)
	}
	if err != nil {
		return err
	}
	if config.Valid {
		run.Config = &config.String
	}

	r.run = &run
	return nil
}

const selectStatsSQL = `
SELECT
    id,
    run_id,
    deployment,
    sample_start,
    significant_wave_height,
    peak_wave_period,
    mean_wave_height,
    mean_wave_period,
    peak_wave_direction,
    peak_wave_spread,
    peak_wave_period_puv,
    wave_height_hm0
FROM wave_stats
WHERE
    run_id = ?
    AND (? IS NULL OR sample_start >= ?)
    AND (? IS NULL OR sample_start <= ?)
ORDER BY sample_start
`

func (r *SqliteStatsReader) initQuery(ctx context.Context) error {
	stmt, err := r.db.PrepareContext(ctx, selectStatsSQL)
	if err != nil {
		return err
	}
	defer stmt.Close()

	var start, end any
	if r.startTime != nil {
		start = r.startTime.UTC()
	}
	if r.endTime != nil {
		end = r.endTime.UTC()
	}

	rows, err := stmt.QueryContext(ctx, r.runID, start, start, end, end)
	if err != nil {
		return err
	}

	r.rows = rows
	return nil
}

// Run returns metadata about the processing run this reader is accessing.
func (r *SqliteStatsReader) Run() *Run {
	return r.run
}

// Next advances to the next stored record.
func (r *SqliteStatsReader) Next(ctx context.Context) bool {
	if r.err != nil {
		return false
	}
	if err := ctx.Err(); err != nil {
		r.err = err
		return false
	}
	if !r.rows.Next() {
		if err := r.rows.Err(); err != nil {
			r.err = err
		}
		return false
	}

	var rec BurstRecord
	var sig, peak, meanH, meanP, dir, spread, puvPeriod, hm0 sql.NullFloat64
	if err := r.rows.Scan(
		&rec.ID,
		&rec.RunID,
		&rec.Deployment,
		&rec.SampleStart,
		&sig,
		&peak,
		&meanH,
		&meanP,
		&dir,
		&spread,
		&puvPeriod,
		&hm0,
	); err != nil {
		r.err = err
		return false
	}

	rec.SignificantWaveHeight = floatPtr(sig)
	rec.PeakWavePeriod = floatPtr(peak)
	rec.MeanWaveHeight = floatPtr(meanH)
	rec.MeanWavePeriod = floatPtr(meanP)
	rec.PeakWaveDirection = floatPtr(dir)
	rec.PeakWaveSpread = floatPtr(spread)
	rec.PeakWavePeriodPUV = floatPtr(puvPeriod)
	rec.WaveHeightHm0 = floatPtr(hm0)

	r.current = &rec
	return true
}

// Current returns the current record in the iteration.
func (r *SqliteStatsReader) Current() *BurstRecord {
	return r.current
}

// Error returns any error that occurred during iteration.
func (r *SqliteStatsReader) Error() error {
	return r.err
}

// Close releases the database resources held by the reader.
func (r *SqliteStatsReader) Close() error {
	if r.rows == nil {
		return nil
	}
	return r.rows.Close()
}
