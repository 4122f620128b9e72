// Package motion implements the inertial motion-correction stages: Euler
// angle estimation by complementary filtering, body/earth frame rotation and
// double integration of corrected accelerations to displacement.
package motion

// Triple holds a three-component vector time series (x, y, z components as
// rows), the common currency of the motion-correction stages. The reference
// frame of a Triple is contextual; values are only combined across frames
// through Rotate.
type Triple [3][]float64

// NewTriple allocates a Triple with n samples per component.
func NewTriple(n int) Triple {
	return Triple{
		make([]float64, n),
		make([]float64, n),
		make([]float64, n),
	}
}

// Len returns the number of samples per component.
func (t Triple) Len() int {
	return len(t[0])
}

// Slice returns the sub-series covering [start, end) without copying.
func (t Triple) Slice(start, end int) Triple {
	return Triple{t[0][start:end], t[1][start:end], t[2][start:end]}
}

// Cross computes the per-sample cross product a × b.
func Cross(a, b Triple) Triple {
	out := NewTriple(a.Len())
	for i := 0; i < a.Len(); i++ {
		out[0][i] = a[1][i]*b[2][i] - a[2][i]*b[1][i]
		out[1][i] = a[2][i]*b[0][i] - a[0][i]*b[2][i]
		out[2][i] = a[0][i]*b[1][i] - a[1][i]*b[0][i]
	}
	return out
}
