package app

import (
	"math"
	"time"

	"github.com/joffreyp/buoywave/internal/storage"
)

// SeriesSpec describes one plottable statistic of the wave_stats table.
type SeriesSpec struct {
	Name  string
	Label string
	Unit  string
	Value func(*storage.BurstRecord) *float64
}

var seriesSpecs = map[string]SeriesSpec{
	"significant_wave_height": {
		Name:  "significant_wave_height",
		Label: "Significant wave height",
		Unit:  "m",
		Value: func(r *storage.BurstRecord) *float64 { return r.SignificantWaveHeight },
	},
	"peak_wave_period": {
		Name:  "peak_wave_period",
		Label: "Peak wave period",
		Unit:  "s",
		Value: func(r *storage.BurstRecord) *float64 { return r.PeakWavePeriod },
	},
	"mean_wave_height": {
		Name:  "mean_wave_height",
		Label: "Mean wave height",
		Unit:  "m",
		Value: func(r *storage.BurstRecord) *float64 { return r.MeanWaveHeight },
	},
	"mean_wave_period": {
		Name:  "mean_wave_period",
		Label: "Mean wave period",
		Unit:  "s",
		Value: func(r *storage.BurstRecord) *float64 { return r.MeanWavePeriod },
	},
	"peak_wave_direction": {
		Name:  "peak_wave_direction",
		Label: "Peak wave direction",
		Unit:  "deg",
		Value: func(r *storage.BurstRecord) *float64 { return r.PeakWaveDirection },
	},
	"peak_wave_spread": {
		Name:  "peak_wave_spread",
		Label: "Peak wave spread",
		Unit:  "deg",
		Value: func(r *storage.BurstRecord) *float64 { return r.PeakWaveSpread },
	},
	"peak_wave_period_puv": {
		Name:  "peak_wave_period_puv",
		Label: "Peak wave period (PUV)",
		Unit:  "s",
		Value: func(r *storage.BurstRecord) *float64 { return r.PeakWavePeriodPUV },
	},
	"wave_height_hm0": {
		Name:  "wave_height_hm0",
		Label: "Significant wave height (Hm0)",
		Unit:  "m",
		Value: func(r *storage.BurstRecord) *float64 { return r.WaveHeightHm0 },
	},
}

// ValueBounds represents the calculated value axis boundaries
type ValueBounds struct {
	Min float64
	Max float64
}

// ChartData accumulates the records of one run for plotting: the sampled
// statistic with its time axis, plus running value bounds. Records where the
// statistic is NULL are kept as NaN so gaps stay visible.
type ChartData struct {
	Spec SeriesSpec

	Times  []time.Time
	Values []float64

	valid int
	min   float64
	max   float64
}

func NewChartData(spec SeriesSpec) *ChartData {
	return &ChartData{
		Spec: spec,
		min:  math.Inf(1),
		max:  math.Inf(-1),
	}
}

// Update appends one stored record to the chart.
func (c *ChartData) Update(rec *storage.BurstRecord) {
	v := math.NaN()
	if p := c.Spec.Value(rec); p != nil {
		v = *p
		c.valid++
		c.min = math.Min(c.min, v)
		c.max = math.Max(c.max, v)
	}

	c.Times = append(c.Times, rec.SampleStart)
	c.Values = append(c.Values, v)
}

// Len returns the number of accumulated records.
func (c *ChartData) Len() int {
	return len(c.Times)
}

// Valid returns the number of records with a value.
func (c *ChartData) Valid() int {
	return c.valid
}

// Bounds returns the value axis range with a 10% margin. A flat or empty
// series gets a unit range around its level so the axis stays drawable.
func (c *ChartData) Bounds() ValueBounds {
	if c.valid == 0 {
		return ValueBounds{Min: 0, Max: 1}
	}

	span := c.max - c.min
	if span == 0 {
		return ValueBounds{Min: c.min - 0.5, Max: c.max + 0.5}
	}

	margin := span * 0.1
	return ValueBounds{Min: c.min - margin, Max: c.max + margin}
}

// TimeRange returns the first and last sample start times.
func (c *ChartData) TimeRange() (time.Time, time.Time) {
	if len(c.Times) == 0 {
		return time.Time{}, time.Time{}
	}
	return c.Times[0], c.Times[len(c.Times)-1]
}
