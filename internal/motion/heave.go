package motion

import (
	"github.com/joffreyp/buoywave/internal/dsp"
)

// Displace integrates body-frame accelerations to earth-frame velocity and
// displacement at a sensor offset point.
//
// The velocity induced at the offset by platform rotation is the per-sample
// cross product of the measured angular rates with the lever arm, rotated
// into the earth frame. Accelerations are rotated into the earth frame and
// gravity removed from the vertical axis. Each axis is then zero-phase
// high-pass filtered, trapezoidally integrated to velocity, combined with
// the rotation-induced velocity and high-pass filtered again; a second
// integration and filtering pass yields displacement. Integration drift is
// controlled entirely by the repeated high-pass filtering; no bias is
// estimated.
func Displace(rates, euler, accel Triple, fs float64, hp *dsp.Filter, offset [3]float64, gravity float64) (vel, disp Triple) {
	n := rates.Len()

	lever := NewTriple(n)
	for i := 0; i < n; i++ {
		lever[0][i] = offset[0]
		lever[1][i] = offset[1]
		lever[2][i] = offset[2]
	}
	rotVel := Rotate(Cross(rates, lever), euler, BodyToEarth)

	acc := Rotate(accel, euler, BodyToEarth)
	for i := 0; i < n; i++ {
		acc[2][i] -= gravity
	}

	vel = NewTriple(n)
	for c := 0; c < 3; c++ {
		filtered := hp.FiltFilt(acc[c])
		integrated := dsp.CumTrapz(filtered)
		for i := 0; i < n; i++ {
			integrated[i] = integrated[i]/fs + rotVel[c][i]
		}
		vel[c] = hp.FiltFilt(integrated)
	}

	disp = NewTriple(n)
	for c := 0; c < 3; c++ {
		integrated := dsp.CumTrapz(vel[c])
		for i := range integrated {
			integrated[i] /= fs
		}
		disp[c] = hp.FiltFilt(integrated)
	}

	return vel, disp
}
