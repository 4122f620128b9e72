package buoy

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"
)

// csvColumns is the expected header of a raw motion-pack export.
var csvColumns = []string{
	"time",
	"accel_x", "accel_y", "accel_z",
	"rate_x", "rate_y", "rate_z",
	"mag_x", "mag_y", "mag_z",
	"deployment",
}

// ReadCSV parses a raw motion-pack CSV export into a Dataset. The file must
// carry the standard header (time, accel_x..z in g, rate_x..z in rad/s,
// mag_x..z, deployment) with RFC 3339 timestamps. Dataset attributes (id,
// latitude, longitude) are not part of the export and are set by the caller.
func ReadCSV(r io.Reader) (*Dataset, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true

	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	if len(header) != len(csvColumns) {
		return nil, fmt.Errorf("header has %d columns, want %d", len(header), len(csvColumns))
	}
	for i, name := range csvColumns {
		if header[i] != name {
			return nil, fmt.Errorf("unexpected column %q at position %d, want %q", header[i], i, name)
		}
	}

	var ds Dataset
	for line := 2; ; line++ {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading record: %w", err)
		}

		t, err := time.Parse(time.RFC3339, rec[0])
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing timestamp: %w", line, err)
		}
		ds.Time = append(ds.Time, t)

		vals := make([]float64, 9)
		for i := range vals {
			if vals[i], err = strconv.ParseFloat(rec[i+1], 64); err != nil {
				return nil, fmt.Errorf("line %d: parsing %s: %w", line, csvColumns[i+1], err)
			}
		}
		ds.AccelX = append(ds.AccelX, vals[0])
		ds.AccelY = append(ds.AccelY, vals[1])
		ds.AccelZ = append(ds.AccelZ, vals[2])
		ds.RateX = append(ds.RateX, vals[3])
		ds.RateY = append(ds.RateY, vals[4])
		ds.RateZ = append(ds.RateZ, vals[5])
		ds.MagX = append(ds.MagX, vals[6])
		ds.MagY = append(ds.MagY, vals[7])
		ds.MagZ = append(ds.MagZ, vals[8])

		dep, err := strconv.Atoi(rec[10])
		if err != nil {
			return nil, fmt.Errorf("line %d: parsing deployment: %w", line, err)
		}
		ds.Deployment = append(ds.Deployment, dep)
	}

	if err := ds.Validate(); err != nil {
		return nil, fmt.Errorf("validating dataset: %w", err)
	}
	return &ds, nil
}
