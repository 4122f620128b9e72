package motion

import "math"

// Direction selects the sense of a frame rotation.
type Direction int

const (
	// BodyToEarth rotates vectors from the instrument (body) frame into
	// the earth frame.
	BodyToEarth Direction = iota

	// EarthToBody rotates vectors from the earth frame into the
	// instrument (body) frame.
	EarthToBody
)

// Rotate applies the 3-2-1 direction-cosine rotation to a vector series,
// sample by sample, using the Euler angle series (roll, pitch, yaw). The
// first rotation is about the z axis (yaw), then the intermediate y axis
// (pitch), then the intermediate x axis (roll). Rotating BodyToEarth and
// then EarthToBody with the same angles reproduces the input to
// floating-point tolerance.
func Rotate(in, angles Triple, dir Direction) Triple {
	out := NewTriple(in.Len())
	for i := 0; i < in.Len(); i++ {
		sp, cp := math.Sincos(angles[0][i]) // roll
		st, ct := math.Sincos(angles[1][i]) // pitch
		ss, cs := math.Sincos(angles[2][i]) // yaw

		u, v, w := in[0][i], in[1][i], in[2][i]

		if dir == EarthToBody {
			out[0][i] = u*ct*cs + v*ct*ss - w*st
			out[1][i] = u*(sp*st*cs-cp*ss) + v*(sp*st*ss+cp*cs) + w*ct*sp
			out[2][i] = u*(cp*st*cs+sp*ss) + v*(cp*st*ss-sp*cs) + w*ct*cp
		} else {
			out[0][i] = u*ct*cs + v*(sp*st*cs-cp*ss) + w*(cp*st*cs+sp*ss)
			out[1][i] = u*ct*ss + v*(sp*st*ss+cp*cs) + w*(cp*st*ss-sp*cs)
			out[2][i] = -u*st + v*ct*sp + w*ct*cp
		}
	}
	return out
}
