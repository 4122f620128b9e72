package wave

import (
	"math"

	"github.com/mjibson/go-dsp/spectral"
	"github.com/mjibson/go-dsp/window"
	"gonum.org/v1/gonum/stat"

	"github.com/joffreyp/buoywave/internal/dsp"
)

const (
	// minWaveHeight is the significant wave height, in metres, below which
	// period estimates are too noisy to report.
	minWaveHeight = 0.2

	// lowFreqFloor suppresses spectral content below this frequency (Hz)
	// before locating the peak, removing residual integration drift.
	lowFreqFloor = 0.01
)

// boxcar5 smooths a power spectrum with a 5-point moving average applied
// forward and backward.
var boxcar5 = mustFilter(dsp.NewFilter([]float64{0.2, 0.2, 0.2, 0.2, 0.2}, []float64{1}))

// ZeroCrossing holds the non-directional wave statistics of one burst.
// Periods are NaN when the sea state is below the reporting threshold.
type ZeroCrossing struct {
	SignificantHeight float64 // 4×std of detrended heave, m
	MeanHeight        float64 // mean of detrended heave, m
	PeakPeriod        float64 // period of maximum smoothed spectral power, s
	MeanPeriod        float64 // zero-crossing mean period, s
}

// ZeroCrossingStats computes wave height and period statistics directly from
// a vertical displacement series. The series is linearly detrended first.
// When the significant height exceeds the reporting threshold, the peak
// period comes from a Hann-windowed Welch spectrum of nfft points, smoothed
// with a zero-phase boxcar and floored below the drift band, and the mean
// period from counting sign changes of the mean-removed series.
func ZeroCrossingStats(heave []float64, fs float64, nfft int) ZeroCrossing {
	h := dsp.Detrend(heave)

	zc := ZeroCrossing{
		SignificantHeight: 4 * dsp.PopStd(h),
		MeanHeight:        stat.Mean(h, nil),
		PeakPeriod:        math.NaN(),
		MeanPeriod:        math.NaN(),
	}
	if zc.SignificantHeight <= minWaveHeight {
		return zc
	}

	opts := spectral.PwelchOptions{
		NFFT:     nfft,
		Noverlap: 0,
		Window:   window.Hann,
	}
	pxx, freqs := spectral.Pwelch(h, fs, &opts)
	if len(pxx) < 2 {
		return zc
	}
	pxx[0] = pxx[1]

	smoothed := boxcar5.FiltFilt(pxx)
	for i, f := range freqs {
		if f < lowFreqFloor {
			smoothed[i] = 1e-7
		}
	}

	// Peak frequency is the mean frequency over the maximal bins.
	maxPower := math.Inf(-1)
	for _, v := range smoothed {
		maxPower = math.Max(maxPower, v)
	}
	var sum float64
	var count int
	for i, v := range smoothed {
		if v == maxPower {
			sum += freqs[i]
			count++
		}
	}
	if count > 0 && sum > 0 {
		zc.PeakPeriod = 1 / (sum / float64(count))
	}

	zc.MeanPeriod = zeroCrossingPeriod(h, fs)
	return zc
}

// zeroCrossingPeriod estimates the mean wave period from the number of sign
// changes of the mean-removed displacement. Returns NaN when the series
// never crosses zero.
func zeroCrossingPeriod(heave []float64, fs float64) float64 {
	n := len(heave)
	if n < 2 {
		return math.NaN()
	}

	mean := stat.Mean(heave, nil)
	var crossings int
	prev := math.Signbit(heave[0] - mean)
	for i := 1; i < n; i++ {
		cur := math.Signbit(heave[i] - mean)
		if cur != prev {
			crossings++
		}
		prev = cur
	}
	if crossings == 0 {
		return math.NaN()
	}

	duration := float64(n-1) / fs
	return duration / (float64(crossings) / 2)
}

func mustFilter(f *dsp.Filter, err error) *dsp.Filter {
	if err != nil {
		panic(err)
	}
	return f
}
