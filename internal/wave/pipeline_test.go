package wave

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/joffreyp/buoywave/internal/buoy"
)

// syntheticDataset builds a motion-pack dataset of a level buoy heaving on a
// monochromatic wave of the given amplitude and frequency. Acceleration
// channels are in raw g units with the z axis positive down, matching the
// instrument convention.
func syntheticDataset(n int, fs, amp, f0 float64) *buoy.Dataset {
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	step := time.Duration(float64(time.Second) / fs)
	omega := 2 * math.Pi * f0

	ds := &buoy.Dataset{
		Time:       make([]time.Time, n),
		AccelX:     make([]float64, n),
		AccelY:     make([]float64, n),
		AccelZ:     make([]float64, n),
		RateX:      make([]float64, n),
		RateY:      make([]float64, n),
		RateZ:      make([]float64, n),
		MagX:       make([]float64, n),
		MagY:       make([]float64, n),
		MagZ:       make([]float64, n),
		Deployment: make([]int, n),
	}
	for i := 0; i < n; i++ {
		ts := float64(i) / fs
		wave := amp * omega * omega * math.Sin(omega*ts)

		ds.Time[i] = base.Add(time.Duration(i) * step)
		ds.AccelZ[i] = -(buoy.StandardGravity + wave) / buoy.StandardGravity
		ds.MagX[i] = 1
		ds.Deployment[i] = 3
	}
	return ds
}

func TestPipelineProcessSinusoid(t *testing.T) {
	const (
		fs  = 5.0
		f0  = 0.2
		amp = 0.5
	)
	ds := syntheticDataset(6000, fs, amp, f0)

	p, err := New(Config{SampleRate: fs})
	if err != nil {
		t.Fatal(err)
	}

	stats, err := p.Process(ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 {
		t.Fatalf("got %d burst statistics, want 1", len(stats))
	}

	s := stats[0]
	if s.Deployment != 3 {
		t.Errorf("deployment = %d, want 3", s.Deployment)
	}
	if !s.Start.Equal(ds.Time[0]) {
		t.Errorf("start = %v, want %v", s.Start, ds.Time[0])
	}

	wantHsig := 2 * math.Sqrt2 * amp
	if math.Abs(s.SignificantWaveHeight-wantHsig) > 0.15*wantHsig {
		t.Errorf("significant height = %g, want %g within 15%%", s.SignificantWaveHeight, wantHsig)
	}
	if math.Abs(s.WaveHeightHm0-wantHsig) > 0.15*wantHsig {
		t.Errorf("Hm0 = %g, want %g within 15%%", s.WaveHeightHm0, wantHsig)
	}

	wantPeriod := 1 / f0
	if math.Abs(s.MeanWavePeriod-wantPeriod) > 0.1*wantPeriod {
		t.Errorf("mean period = %g, want %g within 10%%", s.MeanWavePeriod, wantPeriod)
	}
	if math.Abs(s.PeakWavePeriodPUV-wantPeriod) > 0.15*wantPeriod {
		t.Errorf("PUV peak period = %g, want %g within 15%%", s.PeakWavePeriodPUV, wantPeriod)
	}
}

func TestPipelineShortBurst(t *testing.T) {
	const fs = 5.0
	ds := syntheticDataset(320, fs, 0.5, 0.2)

	p, err := New(Config{SampleRate: fs})
	if err != nil {
		t.Fatal(err)
	}

	inputs, err := p.Prepare(ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 1 {
		t.Fatalf("got %d bursts, want 1", len(inputs))
	}

	if _, err = p.ProcessBurst(inputs[0]); !errors.Is(err, ErrInsufficientData) {
		t.Errorf("got %v, want ErrInsufficientData", err)
	}

	// Process skips the short burst instead of failing.
	stats, err := p.Process(ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 0 {
		t.Errorf("got %d burst statistics, want 0", len(stats))
	}
}

func TestPipelineSplitsBursts(t *testing.T) {
	const fs = 5.0
	first := syntheticDataset(6000, fs, 0.5, 0.2)
	second := syntheticDataset(6000, fs, 0.5, 0.2)

	// Move the second burst an hour after the first.
	offset := first.Time[len(first.Time)-1].Add(time.Hour).Sub(second.Time[0])
	for i := range second.Time {
		second.Time[i] = second.Time[i].Add(offset)
	}

	ds := first
	ds.Time = append(ds.Time, second.Time...)
	ds.AccelX = append(ds.AccelX, second.AccelX...)
	ds.AccelY = append(ds.AccelY, second.AccelY...)
	ds.AccelZ = append(ds.AccelZ, second.AccelZ...)
	ds.RateX = append(ds.RateX, second.RateX...)
	ds.RateY = append(ds.RateY, second.RateY...)
	ds.RateZ = append(ds.RateZ, second.RateZ...)
	ds.MagX = append(ds.MagX, second.MagX...)
	ds.MagY = append(ds.MagY, second.MagY...)
	ds.MagZ = append(ds.MagZ, second.MagZ...)
	ds.Deployment = append(ds.Deployment, second.Deployment...)

	p, err := New(Config{SampleRate: fs})
	if err != nil {
		t.Fatal(err)
	}

	inputs, err := p.Prepare(ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(inputs) != 2 {
		t.Fatalf("got %d bursts, want 2", len(inputs))
	}
	if !inputs[1].Start.Equal(second.Time[0]) {
		t.Errorf("second burst starts %v, want %v", inputs[1].Start, second.Time[0])
	}
}

func TestPipelineZeroEdgeTrim(t *testing.T) {
	// Below 1/30 Hz a burst has no whole samples inside the 30 s edge
	// trim, so the burst is used whole.
	const (
		fs  = 0.02
		f0  = 0.002
		amp = 0.5
	)
	ds := syntheticDataset(400, fs, amp, f0)

	p, err := New(Config{
		SampleRate:   fs,
		CutoffPeriod: 2000,
		PUV:          PUVParams{LowFreqCutoff: 0.0005, MaxFac: 200, MinSpec: 0.1},
	})
	if err != nil {
		t.Fatal(err)
	}

	stats, err := p.Process(ds)
	if err != nil {
		t.Fatal(err)
	}
	if len(stats) != 1 {
		t.Fatalf("got %d burst statistics, want 1", len(stats))
	}

	wantHsig := 2 * math.Sqrt2 * amp
	if math.Abs(stats[0].SignificantWaveHeight-wantHsig) > 0.2*wantHsig {
		t.Errorf("significant height = %g, want %g within 20%%", stats[0].SignificantWaveHeight, wantHsig)
	}
	wantPeriod := 1 / f0
	if math.Abs(stats[0].MeanWavePeriod-wantPeriod) > 0.1*wantPeriod {
		t.Errorf("mean period = %g, want %g within 10%%", stats[0].MeanWavePeriod, wantPeriod)
	}
}

func TestPipelineRejectsMixedDeployments(t *testing.T) {
	ds := syntheticDataset(6000, 5, 0.5, 0.2)
	for i := 3000; i < len(ds.Deployment); i++ {
		ds.Deployment[i] = 5
	}

	p, err := New(Config{SampleRate: 5})
	if err != nil {
		t.Fatal(err)
	}
	if _, err = p.Prepare(ds); err == nil {
		t.Error("expected error for mixed deployment numbers")
	}
}

func TestPipelineConfigValidation(t *testing.T) {
	if _, err := New(Config{}); err == nil {
		t.Error("expected error for missing sample rate")
	}
	if _, err := New(Config{SampleRate: -1}); err == nil {
		t.Error("expected error for negative sample rate")
	}
}
