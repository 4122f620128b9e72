package dataset

import (
	"encoding/json"
	"testing"
	"time"
)

func testInput(n int) Input {
	in := Input{
		SignificantWaveHeight: make([]float64, n),
		PeakWavePeriod:        make([]float64, n),
		MeanWaveHeight:        make([]float64, n),
		MeanWavePeriod:        make([]float64, n),
		PeakWaveDirection:     make([]float64, n),
		PeakWaveSpread:        make([]float64, n),
		PeakWavePeriodPUV:     make([]float64, n),
		WaveHeightHm0:         make([]float64, n),
		SampleStartTime:       make([]time.Time, n),
		Deployment:            4,
	}
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := range in.SampleStartTime {
		in.SampleStartTime[i] = base.Add(time.Duration(i) * time.Hour)
		in.SignificantWaveHeight[i] = 1.5 + float64(i)*0.1
	}
	return in
}

func TestBuild(t *testing.T) {
	ds, err := Build(testInput(3), "CE09OSSM-SBD11", 46.85, -124.97)
	if err != nil {
		t.Fatal(err)
	}

	if ds.ID != "CE09OSSM-SBD11" {
		t.Errorf("id = %q", ds.ID)
	}
	if ds.Len() != 3 {
		t.Fatalf("len = %d, want 3", ds.Len())
	}
	if len(ds.Variables) != 8 {
		t.Fatalf("got %d variables, want 8", len(ds.Variables))
	}
	for _, dep := range ds.Deployment {
		if dep != 4 {
			t.Fatalf("deployment = %d, want 4", dep)
		}
	}

	hsig := ds.Variables[0]
	if hsig.Name != "significant_wave_height" {
		t.Errorf("first variable = %q, want significant_wave_height", hsig.Name)
	}
	if hsig.Attrs.Units != "m" || hsig.Attrs.Method != "zero-crossing" {
		t.Errorf("unexpected attrs: %+v", hsig.Attrs)
	}
	if hsig.Values[2] != 1.7 {
		t.Errorf("values[2] = %g, want 1.7", hsig.Values[2])
	}
	if ds.Comment == "" {
		t.Error("dataset comment not set")
	}
}

func TestBuildRejectsBadInput(t *testing.T) {
	if _, err := Build(Input{}, "id", 0, 0); err == nil {
		t.Error("expected error for empty input")
	}

	in := testInput(3)
	in.SampleStartTime[1] = time.Time{}
	if _, err := Build(in, "id", 0, 0); err == nil {
		t.Error("expected error for unset start time")
	}

	in = testInput(3)
	in.MeanWavePeriod = in.MeanWavePeriod[:2]
	if _, err := Build(in, "id", 0, 0); err == nil {
		t.Error("expected error for series length mismatch")
	}
}

func TestDatasetJSON(t *testing.T) {
	ds, err := Build(testInput(2), "GI01SUMO-SBD12", 59.93, -39.47)
	if err != nil {
		t.Fatal(err)
	}

	raw, err := json.Marshal(ds)
	if err != nil {
		t.Fatal(err)
	}

	var decoded Dataset
	if err := json.Unmarshal(raw, &decoded); err != nil {
		t.Fatal(err)
	}
	if decoded.ID != ds.ID || decoded.Len() != ds.Len() {
		t.Errorf("round trip mismatch: %+v", decoded)
	}
	if len(decoded.Variables) != len(ds.Variables) {
		t.Errorf("got %d variables, want %d", len(decoded.Variables), len(ds.Variables))
	}
}
