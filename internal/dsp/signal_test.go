package dsp

import (
	"math"
	"testing"
)

func TestDetrendRemovesLinearTrend(t *testing.T) {
	n := 500
	x := make([]float64, n)
	for i := range x {
		x[i] = 2.5 + 0.03*float64(i) + math.Sin(2*math.Pi*float64(i)/50)
	}

	out := Detrend(x)

	// The residual should be the sinusoid alone: zero mean and no slope.
	var sum float64
	for _, v := range out {
		sum += v
	}
	if mean := sum / float64(n); math.Abs(mean) > 1e-9 {
		t.Errorf("expected zero mean after detrending, got %g", mean)
	}

	var slope float64
	for i, v := range out {
		slope += (float64(i) - float64(n-1)/2) * v
	}
	if math.Abs(slope) > 1e-6 {
		t.Errorf("expected no residual slope, got correlation %g", slope)
	}

	// Input must not be modified.
	if x[0] != 2.5 {
		t.Errorf("input was modified: x[0] = %g", x[0])
	}
}

func TestDetrendMean(t *testing.T) {
	x := []float64{1, 2, 3, 4}
	out := DetrendMean(x)

	want := []float64{-1.5, -0.5, 0.5, 1.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("out[%d] = %g, want %g", i, out[i], want[i])
		}
	}
}

func TestCumTrapz(t *testing.T) {
	// Integral of a constant is a ramp.
	x := []float64{2, 2, 2, 2, 2}
	out := CumTrapz(x)

	want := []float64{0, 2, 4, 6, 8}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("out[%d] = %g, want %g", i, out[i], want[i])
		}
	}

	// Integral of a ramp is quadratic, trapezoid-exact.
	x = []float64{0, 1, 2, 3}
	out = CumTrapz(x)

	want = []float64{0, 0.5, 2, 4.5}
	for i := range want {
		if math.Abs(out[i]-want[i]) > 1e-12 {
			t.Errorf("ramp out[%d] = %g, want %g", i, out[i], want[i])
		}
	}
}

func TestUnwrap(t *testing.T) {
	// A steadily increasing phase wrapped into (-pi, pi] must come back
	// continuous.
	n := 100
	x := make([]float64, n)
	for i := range x {
		phase := 0.3 * float64(i)
		x[i] = math.Atan2(math.Sin(phase), math.Cos(phase))
	}

	out := Unwrap(x)
	for i := range out {
		if math.Abs(out[i]-0.3*float64(i)) > 1e-9 {
			t.Fatalf("out[%d] = %g, want %g", i, out[i], 0.3*float64(i))
			return
		}
	}
}

func TestPopStd(t *testing.T) {
	x := []float64{1, 1, 1, 1}
	if got := PopStd(x); got != 0 {
		t.Errorf("constant series std = %g, want 0", got)
	}

	// Population std of {1, 3} is 1.
	x = []float64{1, 3}
	if got := PopStd(x); math.Abs(got-1) > 1e-12 {
		t.Errorf("std = %g, want 1", got)
	}
}
