package dsp

import (
	"math"
	"testing"
)

func TestHighPassRejectsBadCutoff(t *testing.T) {
	if _, err := HighPass(10, 6, ProfileStrict); err == nil {
		t.Error("expected error for cutoff above Nyquist")
	}
	if _, err := HighPass(10, 0, ProfileStrict); err == nil {
		t.Error("expected error for zero cutoff")
	}
	if _, err := HighPass(0, 1, ProfileStrict); err == nil {
		t.Error("expected error for zero sampling frequency")
	}
}

func TestHighPassDesign(t *testing.T) {
	for _, profile := range []FilterProfile{ProfileStrict, ProfileRelaxed} {
		f, err := HighPass(10, 1.0/30, profile)
		if err != nil {
			t.Fatalf("profile %d: %v", profile, err)
		}
		if f.Order() < 1 {
			t.Errorf("profile %d: order = %d, want >= 1", profile, f.Order())
		}
	}
}

func TestFiltFiltPassband(t *testing.T) {
	// A 0.5 Hz wave is far above the 1/30 Hz cutoff and must pass through
	// with neither attenuation nor phase shift.
	f, err := HighPass(10, 1.0/30, ProfileStrict)
	if err != nil {
		t.Fatal(err)
	}

	n := 4096
	x := make([]float64, n)
	for i := range x {
		x[i] = math.Sin(2 * math.Pi * 0.5 * float64(i) / 10)
	}

	y := f.FiltFilt(x)
	if len(y) != n {
		t.Fatalf("output length = %d, want %d", len(y), n)
	}

	for i := n / 4; i < 3*n/4; i++ {
		if math.Abs(y[i]-x[i]) > 0.05 {
			t.Fatalf("passband distortion at %d: got %g, want %g", i, y[i], x[i])
		}
	}
}

func TestFiltFiltRemovesOffset(t *testing.T) {
	f, err := HighPass(10, 1.0/30, ProfileStrict)
	if err != nil {
		t.Fatal(err)
	}

	n := 4096
	x := make([]float64, n)
	for i := range x {
		x[i] = 7.5
	}

	y := f.FiltFilt(x)
	for i := n / 4; i < 3*n/4; i++ {
		if math.Abs(y[i]) > 0.05 {
			t.Fatalf("offset survived at %d: %g", i, y[i])
		}
	}
}

func TestFiltFiltShortInput(t *testing.T) {
	f, err := HighPass(10, 1.0/30, ProfileStrict)
	if err != nil {
		t.Fatal(err)
	}

	x := []float64{1, 2, 3}
	y := f.FiltFilt(x)

	if len(y) != len(x) {
		t.Fatalf("output length = %d, want %d", len(y), len(x))
	}
	for i := range x {
		if y[i] != x[i] {
			t.Errorf("y[%d] = %g, want %g", i, y[i], x[i])
		}
	}
}
