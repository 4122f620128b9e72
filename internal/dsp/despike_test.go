package dsp

import (
	"math"
	"testing"
)

func TestDespikeReplacesOutliers(t *testing.T) {
	n := 200
	ch := make([]float64, n)
	for i := range ch {
		ch[i] = math.Sin(2 * math.Pi * float64(i) / 40)
	}
	ch[50] = 80
	ch[120] = -95

	cleaned, counts := Despike([][]float64{ch}, DefaultDespikeStd, DefaultDespikeIters)

	if counts[0] < 2 {
		t.Errorf("expected at least 2 replacements, got %d", counts[0])
	}
	for _, i := range []int{50, 120} {
		if math.Abs(cleaned[0][i]) > 1.0 {
			t.Errorf("spike at %d survived: %g", i, cleaned[0][i])
		}
	}

	// Good samples keep their values.
	if cleaned[0][0] != ch[0] || cleaned[0][10] != ch[10] {
		t.Error("despiking modified in-range samples")
	}

	// Input must not be modified.
	if ch[50] != 80 {
		t.Errorf("input was modified: ch[50] = %g", ch[50])
	}
}

func TestDespikeFlatChannel(t *testing.T) {
	ch := []float64{3, 3, 3, 3, 3, 3}

	cleaned, counts := Despike([][]float64{ch}, DefaultDespikeStd, DefaultDespikeIters)

	// The strict median ± nStd·std bounds are degenerate, so every sample
	// counts as bad, but the values pass through untouched.
	if counts[0] != len(ch) {
		t.Errorf("flat channel count = %d, want %d", counts[0], len(ch))
	}
	for i, v := range cleaned[0] {
		if v != 3 {
			t.Errorf("cleaned[%d] = %g, want 3", i, v)
		}
	}
}

func TestDespikeIdempotent(t *testing.T) {
	n := 200
	ch := make([]float64, n)
	for i := range ch {
		ch[i] = math.Sin(2 * math.Pi * float64(i) / 40)
	}
	ch[50] = 80
	ch[120] = -95

	cleaned, _ := Despike([][]float64{ch}, DefaultDespikeStd, DefaultDespikeIters)
	again, counts := Despike(cleaned, DefaultDespikeStd, DefaultDespikeIters)

	if counts[0] != 0 {
		t.Errorf("second pass detected %d bad samples, want 0", counts[0])
	}
	for i := range cleaned[0] {
		if again[0][i] != cleaned[0][i] {
			t.Fatalf("second pass changed sample %d: %g != %g", i, again[0][i], cleaned[0][i])
		}
	}
}

func TestDespikeFillsNaN(t *testing.T) {
	ch := []float64{1, 1.1, math.NaN(), 0.9, 1}

	cleaned, _ := Despike([][]float64{ch}, DefaultDespikeStd, DefaultDespikeIters)

	for i, v := range cleaned[0] {
		if math.IsNaN(v) {
			t.Errorf("cleaned[%d] is still NaN", i)
		}
	}
}
