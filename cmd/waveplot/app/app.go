package app

import (
	"context"
	"fmt"
	"image/jpeg"
	"image/png"
	"log/slog"
	"os"
	"time"

	"github.com/joffreyp/buoywave/internal/storage"
)

func Run(ctx context.Context, config *Config, logger *slog.Logger) error {
	if _, err := os.Stat(config.DBPath); err != nil && os.IsNotExist(err) {
		return fmt.Errorf("database file '%s' does not exist: %w", config.DBPath, err)
	}

	store := storage.NewSqliteStore(config.DBPath)
	defer store.Close()

	return renderRun(ctx, store, config, logger)
}

func renderRun(ctx context.Context, store *storage.SqliteStore, config *Config, logger *slog.Logger) error {
	var opts []storage.ReaderOption
	var filters []any
	switch {
	case config.StartTime != nil && config.EndTime != nil:
		opts = append(opts, storage.WithTimeRange(config.StartTime.UTC(), config.EndTime.UTC()))

		filters = append(filters,
			slog.String("startTime", config.StartTime.UTC().Format(time.DateTime)),
			slog.String("endTime", config.EndTime.UTC().Format(time.DateTime)))

	case config.StartTime != nil:
		opts = append(opts, storage.WithStartTime(config.StartTime.UTC()))
		filters = append(filters, slog.String("startTime", config.StartTime.UTC().Format(time.DateTime)))

	case config.EndTime != nil:
		opts = append(opts, storage.WithEndTime(config.EndTime.UTC()))
		filters = append(filters, slog.String("endTime", config.EndTime.UTC().Format(time.DateTime)))
	}

	logger.Info("reader configuration", filters...)

	reader, err := store.ReadStats(ctx, config.RunID, opts...)
	if err != nil {
		return err
	}
	defer reader.Close()

	chart := NewChartData(seriesSpecs[config.Series])
	for reader.Next(ctx) {
		chart.Update(reader.Current())
	}
	if err = reader.Error(); err != nil {
		return err
	}

	start, end := chart.TimeRange()
	bounds := chart.Bounds()

	logger.Info("finished reading records",
		slog.Group("stats",
			slog.Int("records", chart.Len()),
			slog.Int("withData", chart.Valid()),
			slog.String("startTime", start.Local().Format(time.DateTime)),
			slog.String("endTime", end.Local().Format(time.DateTime)),
			slog.String("min", fmt.Sprintf("%0.2f %s", bounds.Min, chart.Spec.Unit)),
			slog.String("max", fmt.Sprintf("%0.2f %s", bounds.Max, chart.Spec.Unit)),
		))

	annotator, err := NewAnnotator(config.FontPath)
	if err != nil {
		return fmt.Errorf("creating annotator: %w", err)
	}

	logger.Info("rendering chart",
		slog.Group("image",
			slog.String("destination", config.OutputFile),
			slog.String("format", string(config.Format)),
			slog.String("series", config.Series),
			slog.Int("width", config.Width),
			slog.Int("height", config.Height),
		))

	img, err := NewRenderer(config.Width, config.Height, annotator).Render(chart, reader.Run())
	if err != nil {
		return fmt.Errorf("rendering chart: %w", err)
	}

	out, err := os.Create(config.OutputFile)
	if err != nil {
		return err
	}
	defer out.Close()

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
