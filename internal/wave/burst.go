// Package wave computes per-burst wave statistics from motion-pack data:
// burst segmentation, zero-crossing height and period statistics, and
// directional spectra via PUV cross-spectral analysis.
package wave

import (
	"errors"
	"time"
)

// ErrInsufficientData reports a burst too short for spectral estimation.
// Callers are expected to skip the burst and continue.
var ErrInsufficientData = errors.New("insufficient samples in burst")

// DefaultGapThreshold is the inter-sample gap that separates bursts when no
// deployment-specific threshold is configured. The value suits the reference
// deployment cadence; deployments with different burst schedules must set
// their own.
const DefaultGapThreshold = 2400 * time.Second

// Burst is a contiguous run of samples between time gaps, identified by an
// increasing integer id and covering the half-open index range [Start, End)
// of the source series.
type Burst struct {
	ID    int
	Start int
	End   int
}

// Len returns the number of samples in the burst.
func (b Burst) Len() int {
	return b.End - b.Start
}

// Segment partitions a time series into bursts wherever the gap between
// consecutive samples exceeds the threshold. A series without gaps yields a
// single burst covering everything; no burst is ever empty, and every index
// belongs to exactly one burst.
func Segment(times []time.Time, gap time.Duration) []Burst {
	if len(times) == 0 {
		return nil
	}

	var bursts []Burst
	start := 0
	for i := 1; i < len(times); i++ {
		if times[i].Sub(times[i-1]) > gap {
			bursts = append(bursts, Burst{ID: len(bursts), Start: start, End: i})
			start = i
		}
	}
	return append(bursts, Burst{ID: len(bursts), Start: start, End: len(times)})
}
