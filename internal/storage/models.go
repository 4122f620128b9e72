package storage

import (
	"time"
)

// Run describes one processing run: a single invocation of the wave
// statistics pipeline over a source file.
type Run struct {
	ID         int64
	StartTime  time.Time
	DatasetID  string
	SourceFile string
	Latitude   float64
	Longitude  float64

	// Config is the serialized pipeline configuration, when recorded.
	Config *string
}

// BurstRecord is one stored wave statistics record. Statistics the
// estimators could not compute are nil.
type BurstRecord struct {
	ID          int64
	RunID       int64
	Deployment  int
	SampleStart time.Time

	SignificantWaveHeight *float64
	PeakWavePeriod        *float64
	MeanWaveHeight        *float64
	MeanWavePeriod        *float64
	PeakWaveDirection     *float64
	PeakWaveSpread        *float64
	PeakWavePeriodPUV     *float64
	WaveHeightHm0         *float64
}
