package motion

import (
	"math"
	"testing"
)

func TestRotateIdentity(t *testing.T) {
	n := 10
	in := NewTriple(n)
	angles := NewTriple(n)
	for i := 0; i < n; i++ {
		in[0][i] = float64(i)
		in[1][i] = -float64(i)
		in[2][i] = 2 * float64(i)
	}

	out := Rotate(in, angles, BodyToEarth)
	for c := 0; c < 3; c++ {
		for i := 0; i < n; i++ {
			if out[c][i] != in[c][i] {
				t.Fatalf("zero-angle rotation changed [%d][%d]: %g != %g", c, i, out[c][i], in[c][i])
			}
		}
	}
}

func TestRotateRoundTrip(t *testing.T) {
	n := 50
	in := NewTriple(n)
	angles := NewTriple(n)
	for i := 0; i < n; i++ {
		in[0][i] = math.Sin(0.1 * float64(i))
		in[1][i] = math.Cos(0.3 * float64(i))
		in[2][i] = 0.5 * math.Sin(0.7*float64(i))

		angles[0][i] = 0.2 * math.Sin(0.05*float64(i))
		angles[1][i] = 0.1 * math.Cos(0.11*float64(i))
		angles[2][i] = 1.5 * math.Sin(0.02*float64(i))
	}

	back := Rotate(Rotate(in, angles, BodyToEarth), angles, EarthToBody)
	for c := 0; c < 3; c++ {
		for i := 0; i < n; i++ {
			if math.Abs(back[c][i]-in[c][i]) > 1e-12 {
				t.Fatalf("round trip diverged at [%d][%d]: %g != %g", c, i, back[c][i], in[c][i])
			}
		}
	}
}

func TestRotatePreservesNorm(t *testing.T) {
	n := 50
	in := NewTriple(n)
	angles := NewTriple(n)
	for i := 0; i < n; i++ {
		in[0][i] = 1
		in[1][i] = 2
		in[2][i] = -1

		angles[0][i] = 0.4
		angles[1][i] = -0.3
		angles[2][i] = 2.1
	}

	out := Rotate(in, angles, BodyToEarth)
	want := math.Sqrt(6)
	for i := 0; i < n; i++ {
		norm := math.Sqrt(out[0][i]*out[0][i] + out[1][i]*out[1][i] + out[2][i]*out[2][i])
		if math.Abs(norm-want) > 1e-12 {
			t.Fatalf("norm changed at %d: %g != %g", i, norm, want)
		}
	}
}

func TestCross(t *testing.T) {
	a := Triple{{1}, {0}, {0}}
	b := Triple{{0}, {1}, {0}}

	out := Cross(a, b)
	if out[0][0] != 0 || out[1][0] != 0 || out[2][0] != 1 {
		t.Errorf("x cross y = (%g, %g, %g), want (0, 0, 1)", out[0][0], out[1][0], out[2][0])
	}
}
