package app

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"os"
	"path/filepath"
	"time"

	"github.com/joffreyp/buoywave/internal/buoy"
	"github.com/joffreyp/buoywave/internal/dataset"
	"github.com/joffreyp/buoywave/internal/storage"
	"github.com/joffreyp/buoywave/internal/wave"
)

const (
	storageDir = "data"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	store, err := createStorage(&config.Storage)
	if err != nil {
		return fmt.Errorf("failed to create storage: %w", err)
	}
	defer store.Close()

	f, err := os.Open(config.Input.Path)
	if err != nil {
		return fmt.Errorf("failed to open input: %w", err)
	}
	ds, err := buoy.ReadCSV(f)
	_ = f.Close()
	if err != nil {
		return fmt.Errorf("failed to read input: %w", err)
	}
	ds.ID = config.Input.DatasetID
	ds.Latitude = config.Input.Latitude
	ds.Longitude = config.Input.Longitude

	pipe, err := wave.New(pipelineConfig(config))
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}

	orch := NewOrchestrator(pipe, store, logger, WithWorkers(config.Output.Workers))

	result, err := orch.Run(ctx, ds, config)
	if err != nil {
		return err
	}

	if config.Output.SummaryFile != "" {
		if err = writeSummary(config.Output.SummaryFile, result); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
		logger.Info("summary written", slog.String("path", config.Output.SummaryFile))
	}
	return nil
}

func pipelineConfig(config *Config) wave.Config {
	p := config.Pipeline
	return wave.Config{
		GapThreshold: time.Duration(p.GapThresholdSeconds * float64(time.Second)),
		SampleRate:   config.Input.SampleRate,
		DespikeStd:   p.DespikeStd,
		DespikeIters: p.DespikeIters,
		Declination:  config.Input.Declination * math.Pi / 180,
		Offset:       p.Offset,
		CutoffPeriod: p.CutoffPeriod,
		Bands:        p.Bands,
		FusionIters:  p.FusionIters,
		PUV: wave.PUVParams{
			LowFreqCutoff: p.PUV.LowFreqCutoff,
			MaxFac:        p.PUV.MaxFac,
			MinSpec:       p.PUV.MinSpec,
			NorthOffset:   p.PUV.NorthOffset,
		},
	}
}

func writeSummary(path string, ds *dataset.Dataset) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating summary file: %w", err)
	}
	defer func() {
		if cErr := f.Close(); cErr != nil && err == nil {
			err = cErr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	if err = enc.Encode(ds); err != nil {
		return fmt.Errorf("encoding summary: %w", err)
	}
	return nil
}

func createStorage(config *StorageConfig) (storage.Store, error) {
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("failed to get current working directory: %w", err)
	}

	var dbPath string
	if config.DataDirectory != "" {
		dbPath = filepath.Join(wd, config.DataDirectory)
	} else {
		dbPath = filepath.Join(wd, storageDir)
	}

	stat, err := os.Stat(dbPath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("storage directory '%s' does not exist: %w", dbPath, err)
		}
		return nil, fmt.Errorf("checking storage directory '%s': %w", dbPath, err)
	}
	if !stat.IsDir() {
		return nil, fmt.Errorf("invalid storage directory '%s'", dbPath)
	}

	dbPath = filepath.Join(dbPath, fmt.Sprintf("wave_stats_%s.sqlite", time.Now().UTC().Format("20060102_150405")))
	return storage.NewSqliteStore(dbPath), nil
}
