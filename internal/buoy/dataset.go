// Package buoy models the raw motion-pack dataset recovered from a buoy
// deployment and conditions its channels for the wave pipeline: axis
// reorientation, unit conversion and compass heading extraction.
package buoy

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/stat"

	"github.com/joffreyp/buoywave/internal/motion"
)

// StandardGravity is the gravitational constant used for unit conversion and
// motion correction, in m/s².
const StandardGravity = 9.8

// Dataset is a time-ordered set of raw motion-pack records: three-axis
// acceleration in g units, three-axis angular rate in rad/s and three-axis
// magnetometer readings, plus deployment metadata. Channels are parallel to
// Time.
type Dataset struct {
	Time []time.Time

	AccelX, AccelY, AccelZ []float64
	RateX, RateY, RateZ    []float64
	MagX, MagY, MagZ       []float64

	Deployment []int

	ID        string
	Latitude  float64
	Longitude float64
}

// Len returns the number of records.
func (d *Dataset) Len() int {
	return len(d.Time)
}

// Validate checks that all channels are parallel and that timestamps
// strictly increase.
func (d *Dataset) Validate() error {
	n := d.Len()
	if n == 0 {
		return fmt.Errorf("dataset has no records")
	}

	channels := [][]float64{
		d.AccelX, d.AccelY, d.AccelZ,
		d.RateX, d.RateY, d.RateZ,
		d.MagX, d.MagY, d.MagZ,
	}
	for i, ch := range channels {
		if len(ch) != n {
			return fmt.Errorf("channel %d has %d samples, want %d", i, len(ch), n)
		}
	}
	if len(d.Deployment) != n {
		return fmt.Errorf("deployment channel has %d samples, want %d", len(d.Deployment), n)
	}

	for i := 1; i < n; i++ {
		if !d.Time[i].After(d.Time[i-1]) {
			return fmt.Errorf("timestamps not strictly increasing at record %d (%s)", i, d.Time[i].Format(time.RFC3339))
		}
	}
	return nil
}

// Compass derives the compass heading in radians from the magnetometer
// channels: the y and z axes are flipped for the z-positive-down instrument
// orientation, the magnetic declination is applied and the heading sign is
// reversed to account for the downward z direction.
func (d *Dataset) Compass(declination float64) []float64 {
	out := make([]float64, d.Len())
	for i := range out {
		c := math.Atan2(-d.MagY[i], d.MagX[i]) + declination
		if c > math.Pi {
			c -= math.Pi
		} else if c < -math.Pi {
			c += math.Pi
		}
		out[i] = -c
	}
	return out
}

// Accelerations returns the body-frame accelerations converted to m/s² with
// the y and z axes flipped for the z-positive-down orientation, along with
// the local free-fall estimate in g units (the magnitude of the mean
// acceleration vector).
func (d *Dataset) Accelerations() (motion.Triple, float64) {
	n := d.Len()
	out := motion.NewTriple(n)
	for i := 0; i < n; i++ {
		out[0][i] = d.AccelX[i]
		out[1][i] = -d.AccelY[i]
		out[2][i] = -d.AccelZ[i]
	}

	gx := stat.Mean(out[0], nil)
	gy := stat.Mean(out[1], nil)
	gz := stat.Mean(out[2], nil)
	local := math.Sqrt(gx*gx + gy*gy + gz*gz)

	for c := 0; c < 3; c++ {
		for i := 0; i < n; i++ {
			out[c][i] *= StandardGravity
		}
	}
	return out, local
}

// AngularRates returns the body-frame angular rates with the y and z axes
// flipped to restore a right-handed frame.
func (d *Dataset) AngularRates() motion.Triple {
	n := d.Len()
	out := motion.NewTriple(n)
	for i := 0; i < n; i++ {
		out[0][i] = d.RateX[i]
		out[1][i] = -d.RateY[i]
		out[2][i] = -d.RateZ[i]
	}
	return out
}
