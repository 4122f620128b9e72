package dsp

import (
	"fmt"
	"math"
	"math/cmplx"

	"gonum.org/v1/gonum/mat"
)

// FilterProfile selects the tolerance targets used when estimating the order
// of a high-pass filter.
type FilterProfile int

const (
	// ProfileStrict places the stopband edge at 0.8 of the passband edge
	// with 3 dB passband ripple and 7 dB stopband attenuation. The narrow
	// transition keeps the doubly integrated acceleration spectrum aligned
	// with the frequency-domain integrated spectrum in the passband.
	ProfileStrict FilterProfile = iota

	// ProfileRelaxed places the stopband edge at 0.7 of the passband edge
	// with 10 dB passband ripple and 25 dB stopband attenuation.
	ProfileRelaxed
)

// Filter is a recursive digital filter held as normalized transfer-function
// coefficients, with the steady-state step response precomputed for
// zero-phase filtering. A Filter is stateless and safe for concurrent use.
type Filter struct {
	b, a []float64
	zi   []float64
}

// NewFilter builds a Filter from transfer-function coefficients. The shorter
// of b and a is zero-padded and both are normalized by a[0].
func NewFilter(b, a []float64) (*Filter, error) {
	if len(b) == 0 || len(a) == 0 {
		return nil, fmt.Errorf("empty coefficient vector")
	}
	if a[0] == 0 {
		return nil, fmt.Errorf("leading denominator coefficient must be non-zero")
	}

	n := max(len(b), len(a))
	f := &Filter{
		b: make([]float64, n),
		a: make([]float64, n),
	}
	for i, v := range b {
		f.b[i] = v / a[0]
	}
	for i, v := range a {
		f.a[i] = v / a[0]
	}

	zi, err := stepState(f.b, f.a)
	if err != nil {
		return nil, fmt.Errorf("computing filter initial state: %w", err)
	}
	f.zi = zi
	return f, nil
}

// HighPass designs a Butterworth high-pass filter for sampling frequency fs
// and cutoff frequency fc, both in Hz. The filter order is estimated against
// the profile's passband/stopband targets relative to the Nyquist frequency.
// An error is returned when the cutoff is not strictly between zero and
// Nyquist or the targets admit no stable design.
func HighPass(fs, fc float64, profile FilterProfile) (*Filter, error) {
	if fs <= 0 {
		return nil, fmt.Errorf("sampling frequency must be positive, got %g", fs)
	}

	nyquist := fs / 2
	wp := fc / nyquist
	if wp <= 0 || wp >= 1 {
		return nil, fmt.Errorf("cutoff %g Hz outside (0, %g) Hz Nyquist interval", fc, nyquist)
	}

	var ws, gpass, gstop float64
	switch profile {
	case ProfileStrict:
		ws, gpass, gstop = 0.8*wp, 3, 7
	case ProfileRelaxed:
		ws, gpass, gstop = 0.7*wp, 10, 25
	default:
		return nil, fmt.Errorf("unknown filter profile %d", profile)
	}

	order, wn, err := highPassOrder(wp, ws, gpass, gstop)
	if err != nil {
		return nil, fmt.Errorf("estimating filter order for fc=%g Hz: %w", fc, err)
	}

	b, a := butterHighPass(order, wn)
	f, err := NewFilter(b, a)
	if err != nil {
		return nil, fmt.Errorf("building high-pass filter: %w", err)
	}
	return f, nil
}

// Order returns the filter order.
func (f *Filter) Order() int {
	return len(f.a) - 1
}

// Filter applies the filter once, forward only, from the given initial state.
// The state slice is updated in place and must have length Order().
func (f *Filter) filter(x, y, z []float64) {
	b, a := f.b, f.a
	m := len(b) - 1
	for i, v := range x {
		out := b[0]*v + z[0]
		for j := 0; j < m-1; j++ {
			z[j] = b[j+1]*v + z[j+1] - a[j+1]*out
		}
		z[m-1] = b[m]*v - a[m]*out
		y[i] = out
	}
}

// FiltFilt applies the filter forward and backward over x, giving zero phase
// distortion. The signal is extended at both ends by odd reflection over
// three filter lengths before filtering, and the extensions are discarded
// from the result. Inputs too short to pad are returned unchanged.
func (f *Filter) FiltFilt(x []float64) []float64 {
	n := len(x)
	padlen := 3 * (len(f.b) - 1)
	if n <= padlen {
		return append([]float64(nil), x...)
	}

	ext := make([]float64, n+2*padlen)
	for i := 0; i < padlen; i++ {
		ext[i] = 2*x[0] - x[padlen-i]
	}
	copy(ext[padlen:], x)
	for i := 0; i < padlen; i++ {
		ext[padlen+n+i] = 2*x[n-1] - x[n-2-i]
	}

	y := make([]float64, len(ext))
	z := make([]float64, len(f.zi))

	// Forward pass, state seeded with the steady-state response to the
	// first extended sample.
	for i, v := range f.zi {
		z[i] = v * ext[0]
	}
	f.filter(ext, y, z)

	// Backward pass over the reversed forward output.
	reverse(y)
	for i, v := range f.zi {
		z[i] = v * y[0]
	}
	f.filter(y, y, z)
	reverse(y)

	return append([]float64(nil), y[padlen:padlen+n]...)
}

// highPassOrder estimates the minimum Butterworth order meeting gpass dB of
// passband ripple at edge wp and gstop dB of attenuation at edge ws, both
// normalized to Nyquist, and returns the matching natural cutoff.
func highPassOrder(wp, ws, gpass, gstop float64) (int, float64, error) {
	passb := math.Tan(math.Pi * wp / 2)
	stopb := math.Tan(math.Pi * ws / 2)
	nat := passb / stopb

	gp := math.Pow(10, 0.1*gpass) - 1
	gs := math.Pow(10, 0.1*gstop) - 1

	order := int(math.Ceil(math.Log10(gs/gp) / (2 * math.Log10(nat))))
	if order <= 0 {
		return 0, 0, fmt.Errorf("no stable design for edges wp=%g, ws=%g", wp, ws)
	}

	// Natural frequency giving exactly gpass at the passband edge,
	// converted back to a Nyquist-normalized digital frequency.
	w0 := math.Pow(gp, -1/(2*float64(order)))
	wn := 2 / math.Pi * math.Atan(passb/w0)
	return order, wn, nil
}

// butterHighPass returns the digital transfer function of a Butterworth
// high-pass of the given order with Nyquist-normalized cutoff wn, via the
// analog prototype and the bilinear transform.
func butterHighPass(order int, wn float64) (b, a []float64) {
	// Analog lowpass prototype poles on the unit circle, left half-plane.
	poles := make([]complex128, order)
	for k := 0; k < order; k++ {
		theta := math.Pi * float64(2*k+order+1) / float64(2*order)
		poles[k] = cmplx.Exp(complex(0, theta))
	}

	const fs = 2.0
	warped := 2 * fs * math.Tan(math.Pi*wn/fs)

	// Lowpass prototype to analog high-pass: poles map to wc/p, zeros
	// appear at the origin. The Butterworth prototype gain stays unity.
	zeros := make([]complex128, order)
	for i, p := range poles {
		poles[i] = complex(warped, 0) / p
		zeros[i] = 0
	}

	// Bilinear transform to the z-domain.
	fs2 := complex(2*fs, 0)
	gain := complex(1, 0)
	for i := range poles {
		gain *= (fs2 - zeros[i]) / (fs2 - poles[i])
		zeros[i] = (fs2 + zeros[i]) / (fs2 - zeros[i])
		poles[i] = (fs2 + poles[i]) / (fs2 - poles[i])
	}

	b = realPoly(zeros, real(gain))
	a = realPoly(poles, 1)
	return b, a
}

// realPoly expands a polynomial from its roots and scales it, returning the
// real coefficient vector.
func realPoly(roots []complex128, scale float64) []float64 {
	coeffs := make([]complex128, 1, len(roots)+1)
	coeffs[0] = 1
	for _, r := range roots {
		coeffs = append(coeffs, 0)
		for j := len(coeffs) - 1; j > 0; j-- {
			coeffs[j] -= r * coeffs[j-1]
		}
	}

	out := make([]float64, len(coeffs))
	for i, c := range coeffs {
		out[i] = real(c) * scale
	}
	return out
}

// stepState computes the steady-state internal filter state for a unit step
// input, used to seed the forward-backward passes. It solves
// (I - Aᵀ)zi = B for the direct-form II transposed realization.
func stepState(b, a []float64) ([]float64, error) {
	m := len(a) - 1
	if m == 0 {
		return nil, nil
	}

	sys := mat.NewDense(m, m, nil)
	for i := 0; i < m; i++ {
		for j := 0; j < m; j++ {
			// Companion matrix of a, transposed.
			var c float64
			if j == 0 {
				c = -a[i+1]
			} else if i == j-1 {
				c = 1
			}
			if i == j {
				sys.Set(i, j, 1-c)
			} else {
				sys.Set(i, j, -c)
			}
		}
	}

	rhs := mat.NewVecDense(m, nil)
	for i := 0; i < m; i++ {
		rhs.SetVec(i, b[i+1]-a[i+1]*b[0])
	}

	var zi mat.VecDense
	if err := zi.SolveVec(sys, rhs); err != nil {
		return nil, fmt.Errorf("singular state system: %w", err)
	}

	out := make([]float64, m)
	for i := range out {
		out[i] = zi.AtVec(i)
	}
	return out, nil
}

func reverse(x []float64) {
	for i, j := 0, len(x)-1; i < j; i, j = i+1, j-1 {
		x[i], x[j] = x[j], x[i]
	}
}
