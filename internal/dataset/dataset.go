// Package dataset assembles per-burst wave statistics into an annotated,
// serializable dataset indexed by sample start time. Variable names and
// metadata follow the CF conventions used by the archived products.
package dataset

import (
	"fmt"
	"time"
)

// Attrs is the descriptive metadata of one dataset variable.
type Attrs struct {
	LongName     string `json:"long_name"`
	StandardName string `json:"standard_name,omitempty"`
	Units        string `json:"units,omitempty"`
	Method       string `json:"method,omitempty"`
	Comment      string `json:"comment"`
}

// Variable is a named statistics series parallel to the dataset time axis.
type Variable struct {
	Name   string    `json:"name"`
	Attrs  Attrs     `json:"attrs"`
	Values []float64 `json:"values"`
}

// Dataset is the assembled wave statistics product: one record per sampling
// burst, indexed by the burst start time.
type Dataset struct {
	ID        string  `json:"id"`
	Latitude  float64 `json:"lat"`
	Longitude float64 `json:"lon"`
	Comment   string  `json:"comment"`

	Time       []time.Time `json:"time"`
	Deployment []int       `json:"deployment"`
	Variables  []Variable  `json:"variables"`
}

// Input carries the per-burst statistics series to assemble. All slices
// must be parallel to SampleStartTime.
type Input struct {
	SignificantWaveHeight []float64 // zero-crossing, m
	PeakWavePeriod        []float64 // zero-crossing, s
	MeanWaveHeight        []float64 // zero-crossing, m
	MeanWavePeriod        []float64 // zero-crossing, s
	PeakWaveDirection     []float64 // PUV, degrees
	PeakWaveSpread        []float64 // PUV, degrees
	PeakWavePeriodPUV     []float64 // PUV, s
	WaveHeightHm0         []float64 // PUV, m

	SampleStartTime []time.Time
	Deployment      int
}

const datasetComment = "This dataset includes the directional and non-directional wave " +
	"statistics. The non-directional wave statistics are derived from the " +
	"zero-crossing data. The directional wave data are calculated using the " +
	"PUV-technique (Pressure, U-velocity, V-velocity) as outlined by Nortek."

// Build assembles the statistics series into an annotated dataset. Every
// series must match the length of SampleStartTime and all start times must
// be set; the deployment number is broadcast across the time axis.
func Build(in Input, id string, lat, lon float64) (*Dataset, error) {
	n := len(in.SampleStartTime)
	if n == 0 {
		return nil, fmt.Errorf("no sample start times")
	}
	for i, t := range in.SampleStartTime {
		if t.IsZero() {
			return nil, fmt.Errorf("sample start time %d is not set", i)
		}
	}

	series := []struct {
		name   string
		attrs  Attrs
		values []float64
	}{
		{"significant_wave_height", significantWaveHeightAttrs, in.SignificantWaveHeight},
		{"peak_wave_period", peakWavePeriodAttrs, in.PeakWavePeriod},
		{"mean_wave_height", meanWaveHeightAttrs, in.MeanWaveHeight},
		{"mean_wave_period", meanWavePeriodAttrs, in.MeanWavePeriod},
		{"peak_wave_direction", peakWaveDirectionAttrs, in.PeakWaveDirection},
		{"peak_wave_spread", peakWaveSpreadAttrs, in.PeakWaveSpread},
		{"peak_wave_period_puv", peakWavePeriodPUVAttrs, in.PeakWavePeriodPUV},
		{"wave_height_hm0", waveHeightHm0Attrs, in.WaveHeightHm0},
	}

	ds := &Dataset{
		ID:         id,
		Latitude:   lat,
		Longitude:  lon,
		Comment:    datasetComment,
		Time:       in.SampleStartTime,
		Deployment: make([]int, n),
		Variables:  make([]Variable, 0, len(series)),
	}
	for i := range ds.Deployment {
		ds.Deployment[i] = in.Deployment
	}

	for _, s := range series {
		if len(s.values) != n {
			return nil, fmt.Errorf("%s has %d values, want %d", s.name, len(s.values), n)
		}
		ds.Variables = append(ds.Variables, Variable{Name: s.name, Attrs: s.attrs, Values: s.values})
	}
	return ds, nil
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Time)
}

var (
	significantWaveHeightAttrs = Attrs{
		LongName:     "Significant Wave Height",
		StandardName: "sea_surface_wave_significant_height",
		Units:        "m",
		Method:       "zero-crossing",
		Comment: "Wave height is defined as the vertical distance from a wave trough to the " +
			"following wave crest. The significant wave height is the mean trough to crest " +
			"distance measured during the observation period of the highest one-third of " +
			"waves. Calculated from the zero down-crossing significant wave height.",
	}

	peakWavePeriodAttrs = Attrs{
		LongName:     "Peak Wave Period",
		StandardName: "sea_surface_wave_period_at_variance_spectral_density_maximum",
		Units:        "s",
		Method:       "zero-crossing",
		Comment: "Wave period is the interval of time between repeated features on the " +
			"waveform such as crests, troughs or upward passes through the mean level. The " +
			"peak wave period is the period of the most energetic waves in the total wave " +
			"spectrum at a specific location.",
	}

	meanWaveHeightAttrs = Attrs{
		LongName:     "Mean Wave Height",
		StandardName: "sea_surface_wave_mean_height",
		Units:        "m",
		Method:       "zero-crossing",
		Comment: "Wave height is defined as the vertical distance from a wave trough to the " +
			"following wave crest. The mean wave height is the mean trough to crest distance " +
			"measured during the observation period. This is calculated from the average " +
			"zero down-crossing wave height.",
	}

	meanWavePeriodAttrs = Attrs{
		LongName:     "Mean Wave Period",
		StandardName: "sea_surface_wave_mean_period",
		Units:        "s",
		Method:       "zero-crossing",
		Comment: "Wave period is the interval of time between repeated features on the " +
			"waveform such as crests, troughs or upward passes through the mean level. Wave " +
			"mean period is the mean period measured over the observation duration. " +
			"Calculated as the average zero down-crossing wave period.",
	}

	peakWaveDirectionAttrs = Attrs{
		LongName:     "Peak Wave Direction",
		StandardName: "sea_surface_wave_from_direction_at_variance_spectral_density_maximum",
		Units:        "degrees",
		Method:       "directional",
		Comment: "Peak wave direction is the direction from which the most energetic waves " +
			"are coming. The spectral peak is the most energetic wave in the total wave " +
			"spectrum. The direction is a bearing in the usual geographical sense, measured " +
			"positive clockwise from due north. This parameter is derived via the PUV-method.",
	}

	peakWaveSpreadAttrs = Attrs{
		LongName:     "Peak Wave Spread",
		StandardName: "sea_surface_wave_from_direction_at_variance_spectral_density_maximum",
		Units:        "degrees",
		Method:       "directional",
		Comment: "Peak wave spread is the directional spread of the most energetic waves in " +
			"the total wave spectrum. Directional spread is the (one-sided) directional " +
			"width within a given sub-domain of the wave directional spectrum. This " +
			"parameter is derived via the PUV-method.",
	}

	peakWavePeriodPUVAttrs = Attrs{
		LongName:     "Peak Wave Period",
		StandardName: "sea_surface_wave_period_at_variance_spectral_density_maximum",
		Units:        "s",
		Method:       "directional",
		Comment: "Wave period is the interval of time between repeated features on the " +
			"waveform such as crests, troughs or upward passes through the mean level. The " +
			"peak wave period is the period of the most energetic waves in the total wave " +
			"spectrum at a specific location. This parameter is derived via the PUV-method " +
			"and by parabolic fitting of the log-averaged frequency bands.",
	}

	waveHeightHm0Attrs = Attrs{
		LongName:     "Significant Wave Height from Spectral Moment 0",
		StandardName: "sea_surface_wave_significant_height_from_variance_spectral_density",
		Units:        "m",
		Method:       "directional",
		Comment: "Wave height is defined as the vertical distance from a wave trough to the " +
			"following wave crest. The significant wave height (hm0) is the mean wave height " +
			"of the highest one-third of waves as estimated from the zeroth spectral moment " +
			"m0, where hm0 = 4*sqrt(m0) and m0 is the integral of S(f)*df. This parameter is " +
			"derived via the PUV-method.",
	}
)
