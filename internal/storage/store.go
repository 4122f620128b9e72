// Package storage persists wave statistics runs in a SQLite database. A
// store keeps separate lazily opened write and read connections; writes go
// through a WAL-mode connection and reads through a read-only one, so a
// finished database can be inspected while a new run is being written.
package storage

import (
	"context"

	_ "github.com/mattn/go-sqlite3"

	"github.com/joffreyp/buoywave/internal/wave"
)

// Store manages wave statistics persistence. All write operations are
// atomic and a Store is safe for concurrent use.
type Store interface {
	// CreateRun registers a new processing run and returns its unique
	// identifier. Config may be a string, []byte or any JSON-serializable
	// value; nil skips recording the configuration.
	CreateRun(ctx context.Context, datasetID, sourceFile string, lat, lon float64, config any) (runID int64, err error)

	// Run retrieves a single processing run by its ID.
	Run(ctx context.Context, id int64) (*Run, error)

	// Runs returns all processing runs, ordered by start time.
	Runs(ctx context.Context) ([]*Run, error)

	// StoreBurstStats saves the burst statistics of a run in a single
	// transaction. NaN statistics are stored as NULL.
	StoreBurstStats(ctx context.Context, runID int64, stats []wave.BurstStats) error

	// ReadStats creates a reader over the stored statistics of a run,
	// ordered by sample start time. The reader must be closed after use.
	ReadStats(ctx context.Context, runID int64, opts ...ReaderOption) (*SqliteStatsReader, error)

	// Close releases the database connections. It is safe to call Close
	// multiple times.
	Close() error
}
