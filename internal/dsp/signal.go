// Package dsp provides the numeric building blocks for the wave processing
// pipeline: despiking, high-pass filter design, zero-phase filtering and the
// small signal transforms (detrending, integration, phase unwrapping) the
// motion-correction stages are built from.
package dsp

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// Detrend removes the least-squares linear trend from x and returns the
// result as a new slice.
func Detrend(x []float64) []float64 {
	n := len(x)
	out := make([]float64, n)
	if n < 2 {
		copy(out, x)
		return out
	}

	t := make([]float64, n)
	for i := range t {
		t[i] = float64(i)
	}

	alpha, beta := stat.LinearRegression(t, x, nil, false)
	for i, v := range x {
		out[i] = v - (alpha + beta*t[i])
	}
	return out
}

// DetrendMean removes the mean from x and returns the result as a new slice.
func DetrendMean(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}

	mean := stat.Mean(x, nil)
	for i, v := range x {
		out[i] = v - mean
	}
	return out
}

// CumTrapz computes the cumulative trapezoidal integral of x assuming unit
// sample spacing. The first element of the result is zero, matching an
// integration constant of zero.
func CumTrapz(x []float64) []float64 {
	out := make([]float64, len(x))
	for i := 1; i < len(x); i++ {
		out[i] = out[i-1] + (x[i]+x[i-1])/2
	}
	return out
}

// Unwrap corrects a phase signal in radians by adding multiples of 2π
// wherever consecutive samples jump by more than π.
func Unwrap(x []float64) []float64 {
	out := make([]float64, len(x))
	if len(x) == 0 {
		return out
	}

	out[0] = x[0]
	offset := 0.0
	for i := 1; i < len(x); i++ {
		d := x[i] - x[i-1]
		if d > math.Pi {
			offset -= 2 * math.Pi
		} else if d < -math.Pi {
			offset += 2 * math.Pi
		}
		out[i] = x[i] + offset
	}
	return out
}

// PopStd returns the population standard deviation of x.
func PopStd(x []float64) float64 {
	if len(x) == 0 {
		return math.NaN()
	}

	mean := stat.Mean(x, nil)
	var ss float64
	for _, v := range x {
		d := v - mean
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(x)))
}
