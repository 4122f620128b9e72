package wave

import (
	"math"
	"testing"
)

func TestLogAverageConservesSamples(t *testing.T) {
	n := 2048
	dt := 0.5
	f := make([]float64, n/2)
	for i := range f {
		f[i] = float64(i+1) / (float64(n) * dt)
	}

	b := logAverage(f, 100)

	var total int
	for _, c := range b.counts {
		total += c
	}
	if total != len(f) {
		t.Errorf("band counts sum to %d, want %d", total, len(f))
	}
	if len(b.centers) > 100 {
		t.Errorf("got %d bands, want at most 100", len(b.centers))
	}

	// Centers must increase and stay within the axis range.
	for k := 1; k < len(b.centers); k++ {
		if b.centers[k] <= b.centers[k-1] {
			t.Fatalf("band centers not increasing at %d: %g <= %g", k, b.centers[k], b.centers[k-1])
		}
	}
	if b.centers[0] < f[0] || b.centers[len(b.centers)-1] > f[len(f)-1] {
		t.Errorf("band centers outside axis range")
	}
}

func TestPUVSpectraDirection(t *testing.T) {
	// A monochromatic wave with in-phase pressure and east velocity and no
	// north velocity: the pressure-velocity cross-spectra place all energy
	// on the east axis, a 90 degree bearing.
	const (
		fs  = 2.0
		f0  = 0.1
		amp = 1.0
	)
	n := 4096
	p := sinusoid(amp, f0, fs, n)
	u := sinusoid(0.6*amp, f0, fs, n)
	v := make([]float64, n)

	spec, err := PUVSpectra(u, v, p, 1/fs, 100, DefaultPUVParams())
	if err != nil {
		t.Fatal(err)
	}

	// Locate the peak pressure band.
	peak := 0
	for i, s := range spec.PressSpec {
		if s > spec.PressSpec[peak] {
			peak = i
		}
	}

	if math.Abs(spec.Freq[peak]-f0) > spec.Bandwidth[peak]+0.005 {
		t.Errorf("peak band at %g Hz, want %g", spec.Freq[peak], f0)
	}
	if math.Abs(spec.Direction[peak]-90) > 2 {
		t.Errorf("peak direction = %g, want 90", spec.Direction[peak])
	}
	if spec.Spread[peak] > 5 {
		t.Errorf("peak spread = %g, want near 0", spec.Spread[peak])
	}
}

func TestPUVStatsSinusoid(t *testing.T) {
	const (
		fs  = 2.0
		f0  = 0.1
		amp = 1.0
	)
	n := 4096
	p := sinusoid(amp, f0, fs, n)
	u := sinusoid(0.6*amp, f0, fs, n)
	v := make([]float64, n)

	spec, err := PUVSpectra(u, v, p, 1/fs, 100, DefaultPUVParams())
	if err != nil {
		t.Fatal(err)
	}

	res := PUVStats(spec)

	// Hm0 from the zeroth moment of a sinusoid spectrum is 2*sqrt(2)*amp.
	wantHm0 := 2 * math.Sqrt2 * amp
	if math.Abs(res.Hm0-wantHm0) > 0.05*wantHm0 {
		t.Errorf("Hm0 = %g, want %g within 5%%", res.Hm0, wantHm0)
	}

	if math.Abs(res.PeakFrequency-f0) > 0.01 {
		t.Errorf("peak frequency = %g, want %g", res.PeakFrequency, f0)
	}
	if math.Abs(res.PeakDirection-90) > 2 {
		t.Errorf("peak direction = %g, want 90", res.PeakDirection)
	}
}

func TestPUVSpectraShortSeries(t *testing.T) {
	p := sinusoid(1, 0.1, 2, 32)
	u := sinusoid(1, 0.1, 2, 32)
	v := make([]float64, 32)

	if _, err := PUVSpectra(u, v, p, 0.5, 100, DefaultPUVParams()); err == nil {
		t.Error("expected error for short series")
	}
}

func TestPUVSpectraLengthMismatch(t *testing.T) {
	p := make([]float64, 128)
	u := make([]float64, 100)
	v := make([]float64, 128)

	if _, err := PUVSpectra(u, v, p, 0.5, 100, DefaultPUVParams()); err == nil {
		t.Error("expected error for mismatched lengths")
	}
}

func TestPUVStatsEmptySpectrum(t *testing.T) {
	res := PUVStats(&Spectra{})
	if !math.IsNaN(res.Hm0) || !math.IsNaN(res.PeakFrequency) {
		t.Errorf("expected NaN statistics, got Hm0=%g Fp=%g", res.Hm0, res.PeakFrequency)
	}
}

func TestArctan3Quadrants(t *testing.T) {
	cases := []struct {
		y, x, want float64
	}{
		{0, 1, 0},
		{1, 0, math.Pi / 2},
		{0, -1, math.Pi},
		{-1, 0, 3 * math.Pi / 2},
	}
	for _, c := range cases {
		if got := arctan3(c.y, c.x); math.Abs(got-c.want) > 1e-12 {
			t.Errorf("arctan3(%g, %g) = %g, want %g", c.y, c.x, got, c.want)
		}
	}
}
