package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/sync/errgroup"

	"github.com/joffreyp/buoywave/internal/buoy"
	"github.com/joffreyp/buoywave/internal/dataset"
	"github.com/joffreyp/buoywave/internal/storage"
	"github.com/joffreyp/buoywave/internal/wave"
)

const maxBatchSize = 100

// WithMaxBatchSize sets the maximum batch size of computed statistics to
// store within a single database transaction.
func WithMaxBatchSize(size int) func(*Orchestrator) {
	return func(o *Orchestrator) {
		if size > 0 {
			o.maxBatchSize = size
		}
	}
}

// WithWorkers sets the number of bursts processed concurrently.
func WithWorkers(n int) func(*Orchestrator) {
	return func(o *Orchestrator) {
		if n > 0 {
			o.workers = n
		}
	}
}

// Orchestrator manages the wave statistics computation: it fans the sampling
// bursts of a dataset out across a worker pool, persists the per-burst
// statistics and assembles the annotated result dataset.
type Orchestrator struct {
	pipeline *wave.Pipeline

	logger *slog.Logger
	store  storage.Store

	maxBatchSize int
	workers      int
}

// NewOrchestrator creates a new Orchestrator
func NewOrchestrator(pipeline *wave.Pipeline, store storage.Store, logger *slog.Logger, options ...func(*Orchestrator)) *Orchestrator {
	o := Orchestrator{
		pipeline:     pipeline,
		logger:       logger,
		store:        store,
		maxBatchSize: maxBatchSize,
		workers:      runtime.NumCPU(),
	}

	for _, option := range options {
		option(&o)
	}

	return &o
}

// Run computes the wave statistics of every burst in the dataset, stores
// them and returns the assembled dataset. Bursts with insufficient data are
// skipped with a warning.
func (o *Orchestrator) Run(ctx context.Context, ds *buoy.Dataset, config *Config) (*dataset.Dataset, error) {
	started := time.Now()

	runID, err := o.store.CreateRun(ctx, ds.ID, config.Input.Path, ds.Latitude, ds.Longitude, config.Pipeline)
	if err != nil {
		return nil, fmt.Errorf("creating run: %w", err)
	}

	inputs, err := o.pipeline.Prepare(ds)
	if err != nil {
		return nil, fmt.Errorf("preparing dataset: %w", err)
	}

	o.logger.Info("processing dataset",
		slog.String("records", humanize.Comma(int64(ds.Len()))),
		slog.Int("bursts", len(inputs)),
		slog.Int("workers", o.workers))

	results := make([]*wave.BurstStats, len(inputs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.workers)

	for i, in := range inputs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			s, err := o.pipeline.ProcessBurst(in)
			if errors.Is(err, wave.ErrInsufficientData) {
				o.logger.Warn("skipping burst", slog.Int("burst", in.ID), slog.String("reason", err.Error()))
				return nil
			}
			if err != nil {
				return fmt.Errorf("processing burst %d: %w", in.ID, err)
			}

			o.logger.Debug("burst processed",
				slog.Int("burst", in.ID),
				slog.Time("start", in.Start),
				slog.Float64("hsig", s.SignificantWaveHeight))

			results[i] = s
			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return nil, err
	}

	stats := make([]wave.BurstStats, 0, len(results))
	for _, s := range results {
		if s != nil {
			stats = append(stats, *s)
		}
	}
	if len(stats) == 0 {
		return nil, fmt.Errorf("no bursts with sufficient data")
	}

	for chunk := range slices.Chunk(stats, o.maxBatchSize) {
		if err = o.store.StoreBurstStats(ctx, runID, chunk); err != nil {
			return nil, fmt.Errorf("storing statistics: %w", err)
		}
	}

	result, err := o.assemble(ds, stats)
	if err != nil {
		return nil, fmt.Errorf("assembling dataset: %w", err)
	}

	o.logger.Info("run complete",
		slog.Int64("run", runID),
		slog.String("bursts", humanize.Comma(int64(len(stats)))),
		slog.Int("skipped", len(inputs)-len(stats)),
		slog.Duration("elapsed", time.Since(started)))

	return result, nil
}

func (o *Orchestrator) assemble(ds *buoy.Dataset, stats []wave.BurstStats) (*dataset.Dataset, error) {
	in := dataset.Input{
		SignificantWaveHeight: make([]float64, len(stats)),
		PeakWavePeriod:        make([]float64, len(stats)),
		MeanWaveHeight:        make([]float64, len(stats)),
		MeanWavePeriod:        make([]float64, len(stats)),
		PeakWaveDirection:     make([]float64, len(stats)),
		PeakWaveSpread:        make([]float64, len(stats)),
		PeakWavePeriodPUV:     make([]float64, len(stats)),
		WaveHeightHm0:         make([]float64, len(stats)),
		SampleStartTime:       make([]time.Time, len(stats)),
		Deployment:            stats[0].Deployment,
	}
	for i, s := range stats {
		in.SignificantWaveHeight[i] = s.SignificantWaveHeight
		in.PeakWavePeriod[i] = s.PeakWavePeriod
		in.MeanWaveHeight[i] = s.MeanWaveHeight
		in.MeanWavePeriod[i] = s.MeanWavePeriod
		in.PeakWaveDirection[i] = s.PeakWaveDirection
		in.PeakWaveSpread[i] = s.PeakWaveSpread
		in.PeakWavePeriodPUV[i] = s.PeakWavePeriodPUV
		in.WaveHeightHm0[i] = s.WaveHeightHm0
		in.SampleStartTime[i] = s.Start
	}

	return dataset.Build(in, ds.ID, ds.Latitude, ds.Longitude)
}
