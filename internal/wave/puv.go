package wave

import (
	"fmt"
	"math"

	"github.com/mjibson/go-dsp/fft"
)

// PUVParams are the tunable parameters of the PUV directional estimator.
type PUVParams struct {
	// LowFreqCutoff discards frequency bands at or below this frequency
	// in Hz.
	LowFreqCutoff float64

	// MaxFac is the largest factor allowed when scaling pressure to
	// surface elevation. It is carried for deployments that supply
	// sensor depths; with surface-following buoys it is unused.
	MaxFac float64

	// MinSpec is the minimum pressure spectral density for which a
	// direction is reported; directions and spreads below it are NaN.
	MinSpec float64

	// NorthOffset rotates reported directions by the heading of the
	// instrument's north reference, in degrees.
	NorthOffset float64
}

// DefaultPUVParams returns the estimator parameters used by the reference
// deployments.
func DefaultPUVParams() PUVParams {
	return PUVParams{
		LowFreqCutoff: 0.03,
		MaxFac:        200,
		MinSpec:       0.1,
		NorthOffset:   0,
	}
}

// Spectra is a banded directional wave spectrum: log-averaged frequency
// bands with surface elevation spectra from velocity and pressure, and the
// mean direction and spread per band.
type Spectra struct {
	Freq      []float64 // band centre frequency, Hz
	Bandwidth []float64 // band width, Hz
	DOF       []int     // degrees of freedom, 2× samples per band

	VelSpec   []float64 // surface elevation spectrum from velocity, m²/Hz
	PressSpec []float64 // surface elevation spectrum from pressure, m²/Hz
	Direction []float64 // mean wave direction, degrees in [0, 360)
	Spread    []float64 // directional spread, degrees
}

// PUVResult is the scalar burst summary of a directional spectrum.
type PUVResult struct {
	Hm0           float64 // significant height from the zeroth moment, m
	PeakFrequency float64 // parabolic-interpolated peak frequency, Hz
	PeakDirection float64 // direction at the peak band, degrees
	PeakSpread    float64 // spread at the peak band, degrees
}

// minSpectrumSamples is the shortest series a cross-spectrum is attempted
// for.
const minSpectrumSamples = 64

// PUVSpectra computes the directional wave spectrum from east velocity u,
// north velocity v and pressure-derived surface elevation p sampled every dt
// seconds, log-averaged into at most nBands frequency bands. Directions come
// from the four-quadrant arctangent of the pressure-velocity cross-spectra
// and spreads from the normalized cross-spectral ratio; both are NaN where
// the pressure spectrum falls below params.MinSpec. Series too short for
// spectral estimation return ErrInsufficientData.
func PUVSpectra(u, v, p []float64, dt float64, nBands int, params PUVParams) (*Spectra, error) {
	n := len(p)
	if len(u) != n || len(v) != n {
		return nil, fmt.Errorf("component lengths differ: u=%d v=%d p=%d", len(u), len(v), n)
	}
	if n < minSpectrumSamples {
		return nil, fmt.Errorf("%w: got %d samples, need %d", ErrInsufficientData, n, minSpectrumSamples)
	}
	if nBands <= 0 {
		return nil, fmt.Errorf("band count must be positive, got %d", nBands)
	}

	// Work on an even number of samples.
	if n%2 == 1 {
		n--
		u, v, p = u[:n], v[:n], p[:n]
	}

	span := float64(n) * dt
	half := n / 2

	f := make([]float64, half)
	for i := range f {
		f[i] = float64(i+1) / span
	}
	f0 := f[0]

	uf := fft.FFTReal(u)
	vf := fft.FFTReal(v)
	pf := fft.FFTReal(p)

	scale := 2 / (float64(n) * float64(n)) / f0
	autoPower := func(x []complex128) []float64 {
		out := make([]float64, half)
		for i := range out {
			c := x[i+1]
			out[i] = (real(c)*real(c) + imag(c)*imag(c)) * scale
		}
		return out
	}
	crossPower := func(x, y []complex128) []float64 {
		out := make([]float64, half)
		for i := range out {
			a, b := x[i+1], y[i+1]
			out[i] = (real(a)*real(b) + imag(a)*imag(b)) * scale
		}
		return out
	}

	uu := autoPower(uf)
	vv := autoPower(vf)
	pp := autoPower(pf)
	pu := crossPower(pf, uf)
	pv := crossPower(pf, vf)
	uv := crossPower(uf, vf)

	bands := logAverage(f, nBands)
	cuu := bands.average(uu)
	cvv := bands.average(vv)
	cpp := bands.average(pp)
	cpu := bands.average(pu)
	cpv := bands.average(pv)
	cuv := bands.average(uv)

	// Drop bands at or below the low-frequency cutoff.
	first := 0
	for first < len(bands.centers) && bands.centers[first] <= params.LowFreqCutoff {
		first++
	}
	nb := len(bands.centers) - first
	if nb == 0 {
		return nil, fmt.Errorf("%w: no bands above %g Hz cutoff", ErrInsufficientData, params.LowFreqCutoff)
	}

	s := &Spectra{
		Freq:      bands.centers[first:],
		Bandwidth: bands.widths[first:],
		DOF:       make([]int, nb),
		VelSpec:   make([]float64, nb),
		PressSpec: cpp[first:],
		Direction: make([]float64, nb),
		Spread:    make([]float64, nb),
	}
	for i := 0; i < nb; i++ {
		k := first + i
		s.DOF[i] = 2 * bands.counts[k]
		s.VelSpec[i] = cuu[k] + cvv[k]

		dir := arctan3(cpu[k], cpv[k])*180/math.Pi + params.NorthOffset
		dir = math.Mod(dir, 360)
		if dir < 0 {
			dir += 360
		}

		r2 := math.Sqrt((cuu[k]-cvv[k])*(cuu[k]-cvv[k])+4*cuv[k]*cuv[k]) / (cuu[k] + cvv[k])
		spread := 180 / math.Pi * math.Sqrt((1-r2)/2)

		if s.PressSpec[i] < params.MinSpec {
			dir = math.NaN()
			spread = math.NaN()
		}
		s.Direction[i] = dir
		s.Spread[i] = spread
	}
	return s, nil
}

// PUVStats reduces a directional spectrum to its scalar burst summary. The
// peak frequency is refined by parabolic interpolation in log-frequency
// space around the peak pressure band; when the peak sits at either edge of
// the spectrum or the parabola degenerates, the raw band frequency is used.
// A spectrum with no energy yields NaN statistics.
func PUVStats(s *Spectra) PUVResult {
	res := PUVResult{
		Hm0:           math.NaN(),
		PeakFrequency: math.NaN(),
		PeakDirection: math.NaN(),
		PeakSpread:    math.NaN(),
	}
	if len(s.PressSpec) == 0 {
		return res
	}

	var cum, maxCum float64
	peak := 0
	for i, v := range s.PressSpec {
		cum += v * s.Bandwidth[i]
		maxCum = math.Max(maxCum, cum)
		if v > s.PressSpec[peak] {
			peak = i
		}
	}
	res.Hm0 = 4 * math.Sqrt(maxCum)

	b := s.PressSpec[peak]
	if b <= 0 {
		return res
	}

	res.PeakFrequency = s.Freq[peak]
	if peak > 0 && peak < len(s.PressSpec)-1 {
		a, c := s.PressSpec[peak-1], s.PressSpec[peak+1]
		if den := a - 2*b + c; den != 0 {
			shift := (math.Log(s.Freq[peak+1]) - math.Log(s.Freq[peak-1])) * (-(c - a) / (2 * den)) / 2
			res.PeakFrequency = math.Exp(math.Log(s.Freq[peak]) + shift)
		}
	}

	res.PeakDirection = s.Direction[peak]
	res.PeakSpread = s.Spread[peak]
	return res
}

// arctan3 is the four-quadrant arctangent mapped onto [0, 2π).
func arctan3(y, x float64) float64 {
	theta := math.Atan2(y, x)
	if theta < 0 {
		theta += 2 * math.Pi
	}
	return theta
}

// banding is a log-spaced partition of a linearly spaced frequency axis.
// The per-band sample counts always sum to the length of the input axis.
type banding struct {
	centers []float64
	widths  []float64
	counts  []int
	starts  []int
	ends    []int // inclusive
}

// logAverage partitions the frequency axis f into at most n bands of
// uniform logarithmic width. Bands that would be empty collapse into their
// neighbours, so fewer than n bands may result.
func logAverage(f []float64, n int) banding {
	m := len(f)
	lf0 := math.Log(f[0])
	dlf := 1.000000001 * (math.Log(f[m-1]) - lf0) / float64(n)

	// Band transition indices: the last axis index of each band.
	var edges []int
	prev := 1 + math.Floor((math.Log(f[0])-lf0)/dlf)
	for i := 1; i < m; i++ {
		ndx := 1 + math.Floor((math.Log(f[i])-lf0)/dlf)
		if ndx > prev {
			edges = append(edges, i-1)
		}
		prev = ndx
	}
	edges = append(edges, m-1)

	spacing := f[1] - f[0]
	b := banding{
		centers: make([]float64, len(edges)),
		widths:  make([]float64, len(edges)),
		counts:  make([]int, len(edges)),
		starts:  make([]int, len(edges)),
		ends:    edges,
	}
	start := 0
	for k, end := range edges {
		count := end - start + 1
		var sum float64
		for i := start; i <= end; i++ {
			sum += f[i]
		}
		b.centers[k] = sum / float64(count)
		b.widths[k] = float64(count) * spacing
		b.counts[k] = count
		b.starts[k] = start
		start = end + 1
	}
	return b
}

// average reduces a spectrum over the partition.
func (b banding) average(s []float64) []float64 {
	out := make([]float64, len(b.ends))
	for k := range b.ends {
		var sum float64
		for i := b.starts[k]; i <= b.ends[k]; i++ {
			sum += s[i]
		}
		out[k] = sum / float64(b.counts[k])
	}
	return out
}
