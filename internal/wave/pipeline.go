package wave

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/joffreyp/buoywave/internal/buoy"
	"github.com/joffreyp/buoywave/internal/dsp"
	"github.com/joffreyp/buoywave/internal/motion"
)

const (
	// DefaultCutoffPeriod is the wave filter cutoff period in seconds.
	// Motion below 1/DefaultCutoffPeriod Hz is treated as drift.
	DefaultCutoffPeriod = 30.0

	// DefaultBands is the nominal number of output frequency bands of the
	// directional spectrum.
	DefaultBands = 100

	// edgeSeconds is trimmed from each end of a burst before computing
	// statistics, removing filter edge effects.
	edgeSeconds = 30

	// maxFFTLen caps the FFT length of the zero-crossing spectrum.
	maxFFTLen = 8192
)

// Config are the tunable parameters of the wave statistics pipeline.
type Config struct {
	// GapThreshold separates sampling bursts. Zero selects
	// DefaultGapThreshold.
	GapThreshold time.Duration

	// SampleRate is the instrument sampling frequency in Hz. Required.
	SampleRate float64

	// DespikeStd and DespikeIters parameterize outlier removal. Zero
	// values select the dsp defaults.
	DespikeStd   float64
	DespikeIters int

	// Declination corrects the magnetometer heading for the local
	// magnetic-to-true-north misalignment, in radians.
	Declination float64

	// Offset is the lever arm from the motion sensor to the wave
	// measurement point, in metres.
	Offset [3]float64

	// CutoffPeriod is the wave filter cutoff period in seconds. Zero
	// selects DefaultCutoffPeriod.
	CutoffPeriod float64

	// Bands is the nominal number of directional spectrum bands. Zero
	// selects DefaultBands.
	Bands int

	// FusionIters is the number of orientation fusion passes. Zero
	// selects motion.DefaultFusionIters.
	FusionIters int

	// PUV parameterizes the directional estimator. A zero value selects
	// DefaultPUVParams.
	PUV PUVParams
}

func (c *Config) setDefaults() {
	if c.GapThreshold == 0 {
		c.GapThreshold = DefaultGapThreshold
	}
	if c.DespikeStd == 0 {
		c.DespikeStd = dsp.DefaultDespikeStd
	}
	if c.DespikeIters == 0 {
		c.DespikeIters = dsp.DefaultDespikeIters
	}
	if c.CutoffPeriod == 0 {
		c.CutoffPeriod = DefaultCutoffPeriod
	}
	if c.Bands == 0 {
		c.Bands = DefaultBands
	}
	if c.FusionIters == 0 {
		c.FusionIters = motion.DefaultFusionIters
	}
	if c.PUV == (PUVParams{}) {
		c.PUV = DefaultPUVParams()
	}
}

// BurstInput is the self-contained input of one burst computation: the
// conditioned compass, acceleration and angular-rate channels of a single
// sampling burst. Slices may share storage with the source dataset; the
// pipeline never mutates them.
type BurstInput struct {
	ID         int
	Deployment int
	Start      time.Time

	Compass []float64     // heading, rad
	Accel   motion.Triple // body accelerations, m/s²
	Rates   motion.Triple // body angular rates, rad/s

	// LocalGravity is the free-fall estimate over the burst in g units,
	// retained as a data-quality diagnostic.
	LocalGravity float64
}

// BurstStats is the computed wave statistics record of one burst.
type BurstStats struct {
	Deployment int
	Start      time.Time

	SignificantWaveHeight float64 // zero-crossing, m
	PeakWavePeriod        float64 // zero-crossing, s
	MeanWaveHeight        float64 // zero-crossing, m
	MeanWavePeriod        float64 // zero-crossing, s

	PeakWaveDirection float64 // PUV, degrees
	PeakWaveSpread    float64 // PUV, degrees
	PeakWavePeriodPUV float64 // PUV, s
	WaveHeightHm0     float64 // PUV, m
}

// Pipeline derives per-burst wave statistics from a conditioned motion-pack
// dataset. A Pipeline is immutable after New and safe for concurrent use;
// ProcessBurst is pure, so bursts may be processed in parallel.
type Pipeline struct {
	cfg Config
	hp  *dsp.Filter
}

// New validates the configuration, designs the wave high-pass filter and
// returns a ready Pipeline.
func New(cfg Config) (*Pipeline, error) {
	cfg.setDefaults()
	if cfg.SampleRate <= 0 {
		return nil, fmt.Errorf("sample rate must be positive, got %g", cfg.SampleRate)
	}

	hp, err := dsp.HighPass(cfg.SampleRate, 1/cfg.CutoffPeriod, dsp.ProfileStrict)
	if err != nil {
		return nil, fmt.Errorf("designing wave filter: %w", err)
	}
	return &Pipeline{cfg: cfg, hp: hp}, nil
}

// Config returns the effective configuration, with defaults applied.
func (p *Pipeline) Config() Config {
	return p.cfg
}

// Prepare conditions the dataset channels and slices them into per-burst
// inputs using the configured gap threshold.
func (p *Pipeline) Prepare(ds *buoy.Dataset) ([]BurstInput, error) {
	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("validating dataset: %w", err)
	}

	// The assembled output carries a single deployment number, so a
	// recovered file covers exactly one deployment.
	for i := 1; i < len(ds.Deployment); i++ {
		if ds.Deployment[i] != ds.Deployment[0] {
			return nil, fmt.Errorf("dataset spans deployments %d and %d, process one deployment at a time",
				ds.Deployment[0], ds.Deployment[i])
		}
	}

	compass := ds.Compass(p.cfg.Declination)
	accel, _ := ds.Accelerations()
	rates := ds.AngularRates()

	bursts := Segment(ds.Time, p.cfg.GapThreshold)
	inputs := make([]BurstInput, len(bursts))
	for i, b := range bursts {
		in := BurstInput{
			ID:         b.ID,
			Deployment: ds.Deployment[b.Start],
			Start:      ds.Time[b.Start],
			Compass:    compass[b.Start:b.End],
			Accel:      accel.Slice(b.Start, b.End),
			Rates:      rates.Slice(b.Start, b.End),
		}
		in.LocalGravity = localGravity(in.Accel)
		inputs[i] = in
	}
	return inputs, nil
}

// ProcessBurst computes the wave statistics of a single burst: despike the
// inertial channels and the compass components, estimate Euler angles,
// integrate to displacement and velocity at the sensor offset, trim filter
// edge effects and compute zero-crossing and PUV statistics. Bursts too
// short for the spectral estimators return ErrInsufficientData.
func (p *Pipeline) ProcessBurst(in BurstInput) (*BurstStats, error) {
	fs := p.cfg.SampleRate
	edge := int(math.Trunc(edgeSeconds * fs))
	n := in.Accel.Len()

	if n-2*edge < minSpectrumSamples {
		return nil, fmt.Errorf("burst %d starting %s: %w: %d samples, %d required after trimming",
			in.ID, in.Start.Format(time.RFC3339), ErrInsufficientData, n, 2*edge+minSpectrumSamples)
	}

	accel := despikeTriple(in.Accel, p.cfg.DespikeStd, p.cfg.DespikeIters)
	rates := despikeTriple(in.Rates, p.cfg.DespikeStd, p.cfg.DespikeIters)
	compass := p.despikeCompass(in.Compass)

	euler, detrended := motion.EulerAngles(p.hp, fs, accel, rates, compass, buoy.StandardGravity, p.cfg.FusionIters)
	vel, disp := motion.Displace(detrended, euler, accel, fs, p.hp, p.cfg.Offset, buoy.StandardGravity)

	// The trim is end-inclusive; with no trim the burst is used whole.
	hi := n - edge + 1
	if edge == 0 {
		hi = n
	}

	heave := disp[2][edge:hi]
	nfft := min(maxFFTLen, len(heave))
	zc := ZeroCrossingStats(heave, fs, nfft)

	// East and north velocity components at the measurement point.
	u := vel[1][edge:hi]
	v := make([]float64, len(u))
	for i := range v {
		v[i] = -vel[0][edge+i]
	}

	spec, err := PUVSpectra(u, v, heave, 1/fs, p.cfg.Bands, p.cfg.PUV)
	if err != nil {
		return nil, fmt.Errorf("burst %d starting %s: %w", in.ID, in.Start.Format(time.RFC3339), err)
	}
	puv := PUVStats(spec)

	return &BurstStats{
		Deployment:            in.Deployment,
		Start:                 in.Start,
		SignificantWaveHeight: zc.SignificantHeight,
		PeakWavePeriod:        zc.PeakPeriod,
		MeanWaveHeight:        zc.MeanHeight,
		MeanWavePeriod:        zc.MeanPeriod,
		PeakWaveDirection:     puv.PeakDirection,
		PeakWaveSpread:        puv.PeakSpread,
		PeakWavePeriodPUV:     1 / puv.PeakFrequency,
		WaveHeightHm0:         puv.Hm0,
	}, nil
}

// Process runs every burst of the dataset in order, skipping bursts with
// insufficient data. The returned error reports failures other than short
// bursts.
func (p *Pipeline) Process(ds *buoy.Dataset) ([]BurstStats, error) {
	inputs, err := p.Prepare(ds)
	if err != nil {
		return nil, err
	}

	stats := make([]BurstStats, 0, len(inputs))
	for _, in := range inputs {
		s, err := p.ProcessBurst(in)
		if err != nil {
			if errors.Is(err, ErrInsufficientData) {
				continue
			}
			return nil, err
		}
		stats = append(stats, *s)
	}
	return stats, nil
}

func (p *Pipeline) despikeCompass(compass []float64) []float64 {
	n := len(compass)
	gx := make([]float64, n)
	gy := make([]float64, n)
	for i, c := range compass {
		gy[i], gx[i] = math.Sincos(c)
	}

	cleaned, _ := dsp.Despike([][]float64{gx, gy}, p.cfg.DespikeStd, p.cfg.DespikeIters)

	out := make([]float64, n)
	for i := range out {
		out[i] = math.Atan2(cleaned[1][i], cleaned[0][i])
	}
	return out
}

func despikeTriple(t motion.Triple, nStd float64, iters int) motion.Triple {
	cleaned, _ := dsp.Despike([][]float64{t[0], t[1], t[2]}, nStd, iters)
	return motion.Triple{cleaned[0], cleaned[1], cleaned[2]}
}

func localGravity(accel motion.Triple) float64 {
	var sx, sy, sz float64
	n := accel.Len()
	for i := 0; i < n; i++ {
		sx += accel[0][i]
		sy += accel[1][i]
		sz += accel[2][i]
	}
	fn := float64(n)
	return math.Sqrt(sx*sx+sy*sy+sz*sz) / fn / buoy.StandardGravity
}
