package motion

import (
	"math"

	"github.com/joffreyp/buoywave/internal/dsp"
)

// DefaultFusionIters is the number of refinement passes made when fusing the
// slow (gravity/compass) and fast (integrated rate) angle estimates. The
// count is fixed by calibration against reference deployments; there is no
// convergence test.
const DefaultFusionIters = 5

// EulerAngles fuses accelerometer, compass and angular-rate measurements
// into per-sample Euler angles (roll, pitch, yaw in radians).
//
// The slow angle components come from the gravity signal on the horizontal
// accelerometers and from the compass, each isolated by subtracting its own
// zero-phase high-passed version. Pitch uses the small-angle estimate
// -ax/gravity wherever the accelerometer reads at or beyond free fall and
// the exact inverse sine elsewhere; roll likewise, normalized by the cosine
// of the slow pitch. The fast components are the trapezoidally integrated,
// high-passed Euler rates, recomputed each pass from the latest angle
// estimate through the 3-2-1 kinematic transform, with the constant offset
// removed from each rate channel between passes. Exactly iters passes are
// made.
//
// The returned rates are the linearly detrended input angular rates, which
// downstream integration reuses.
func EulerAngles(hp *dsp.Filter, fs float64, accel, rates Triple, compass []float64, gravity float64, iters int) (euler, detrended Triple) {
	n := accel.Len()
	heading := dsp.Unwrap(compass)

	detrended = Triple{
		dsp.Detrend(rates[0]),
		dsp.Detrend(rates[1]),
		dsp.Detrend(rates[2]),
	}

	// Slow pitch from gravity on the x accelerometer.
	theta := make([]float64, n)
	for i := 0; i < n; i++ {
		theta[i] = math.Min(-accel[0][i]/gravity, 1)
		if math.Abs(accel[0][i]) < gravity {
			theta[i] = math.Asin(-accel[0][i] / gravity)
		}
	}
	thetaSlow := subtract(theta, hp.FiltFilt(theta))

	// Slow roll from gravity on the y accelerometer, where well-behaved.
	phi := make([]float64, n)
	for i := 0; i < n; i++ {
		phi[i] = accel[1][i] / gravity
		if s := accel[1][i] / gravity / math.Cos(thetaSlow[i]); math.Abs(s) < 1 {
			phi[i] = math.Asin(s)
		}
	}
	phiSlow := subtract(phi, hp.FiltFilt(phi))

	// Slow yaw straight from the unwrapped compass.
	psiSlow := subtract(heading, hp.FiltFilt(heading))

	euler = Triple{phiSlow, thetaSlow, psiSlow}
	updated := eulerRates(detrended, euler)

	slow := Triple{phiSlow, thetaSlow, psiSlow}
	for iter := 0; iter < iters; iter++ {
		next := NewTriple(n)
		for c := 0; c < 3; c++ {
			fast := dsp.CumTrapz(updated[c])
			for i := range fast {
				fast[i] /= fs
			}
			fast = hp.FiltFilt(fast)
			for i := 0; i < n; i++ {
				next[c][i] = slow[c][i] + fast[i]
			}
		}
		euler = next

		updated = eulerRates(detrended, euler)
		for c := 0; c < 3; c++ {
			updated[c] = dsp.DetrendMean(updated[c])
		}
	}

	return euler, detrended
}

// eulerRates converts body-frame angular rates to Euler angle rates using
// the standard 3-2-1 kinematic relation evaluated at the current angle
// estimate.
func eulerRates(rates, angles Triple) Triple {
	out := NewTriple(rates.Len())
	for i := 0; i < rates.Len(); i++ {
		sp, cp := math.Sincos(angles[0][i])
		tt := math.Tan(angles[1][i])
		ct := math.Cos(angles[1][i])

		p, q, r := rates[0][i], rates[1][i], rates[2][i]

		out[0][i] = p + q*sp*tt + r*cp*tt
		out[1][i] = q*cp - r*sp
		out[2][i] = q*sp/ct + r*cp/ct
	}
	return out
}

func subtract(a, b []float64) []float64 {
	out := make([]float64, len(a))
	for i := range a {
		out[i] = a[i] - b[i]
	}
	return out
}
