package dsp

import (
	"math"
	"sort"
)

const (
	// DefaultDespikeStd is the number of standard deviations from the
	// channel median beyond which a sample counts as a spike.
	DefaultDespikeStd = 4.0

	// DefaultDespikeIters is the number of detection passes made over each
	// channel.
	DefaultDespikeIters = 3
)

// Despike removes outlier samples from a set of channels. Each channel is
// scanned iters times: samples outside median ± nStd·std (computed over the
// finite samples of the channel) are marked bad and replaced with the value
// of the nearest good sample, extrapolating at the edges.
//
// The input is not modified. The returned counts hold, per channel, the
// number of bad samples detected on the first pass. A constant channel
// (zero standard deviation) has no sample strictly inside the degenerate
// bounds, so it is returned unmodified with a count equal to its length;
// likewise a channel with no good samples at all.
func Despike(data [][]float64, nStd float64, iters int) ([][]float64, []int) {
	out := make([][]float64, len(data))
	counts := make([]int, len(data))

	for row, ch := range data {
		out[row] = append([]float64(nil), ch...)
		counts[row] = despikeChannel(out[row], nStd, iters)
	}
	return out, counts
}

func despikeChannel(ch []float64, nStd float64, iters int) int {
	n := len(ch)
	firstBad := 0

	good := make([]int, 0, n)
	for iter := 0; iter < iters; iter++ {
		med, std := nanMedianStd(ch)

		if std == 0 {
			// Flat or all-NaN channel. Every sample fails the strict
			// bounds, but there is nothing to interpolate from.
			if iter == 0 {
				firstBad = n
			}
			break
		}

		lo, hi := med-nStd*std, med+nStd*std
		good = good[:0]
		for i, v := range ch {
			if !math.IsNaN(v) && v > lo && v < hi {
				good = append(good, i)
			}
		}
		if iter == 0 {
			firstBad = n - len(good)
		}
		if len(good) == 0 {
			return n
		}
		if len(good) == n {
			continue
		}
		interpNearest(ch, good)
	}
	return firstBad
}

// interpNearest replaces every sample not listed in good with the value of
// the nearest good sample. Ties round down. good must be sorted and
// non-empty.
func interpNearest(ch []float64, good []int) {
	for i := range ch {
		j := sort.SearchInts(good, i)
		switch {
		case j == 0:
			ch[i] = ch[good[0]]
		case j == len(good):
			ch[i] = ch[good[len(good)-1]]
		case good[j] == i:
			// Already a good sample.
		default:
			left, right := good[j-1], good[j]
			if i-left <= right-i {
				ch[i] = ch[left]
			} else {
				ch[i] = ch[right]
			}
		}
	}
}

func nanMedianStd(ch []float64) (median, std float64) {
	finite := make([]float64, 0, len(ch))
	for _, v := range ch {
		if !math.IsNaN(v) {
			finite = append(finite, v)
		}
	}
	if len(finite) == 0 {
		return math.NaN(), 0
	}

	sort.Float64s(finite)
	m := len(finite)
	if m%2 == 1 {
		median = finite[m/2]
	} else {
		median = (finite[m/2-1] + finite[m/2]) / 2
	}
	return median, PopStd(finite)
}
