package wave

import (
	"testing"
	"time"
)

func burstTimes(base time.Time, fs float64, counts []int, gap time.Duration) []time.Time {
	step := time.Duration(float64(time.Second) / fs)
	var times []time.Time
	t := base
	for i, n := range counts {
		if i > 0 {
			t = t.Add(gap)
		}
		for j := 0; j < n; j++ {
			times = append(times, t)
			t = t.Add(step)
		}
	}
	return times
}

func TestSegmentSingleBurst(t *testing.T) {
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	times := burstTimes(base, 10, []int{500}, 0)

	bursts := Segment(times, DefaultGapThreshold)
	if len(bursts) != 1 {
		t.Fatalf("got %d bursts, want 1", len(bursts))
	}
	if bursts[0].Start != 0 || bursts[0].End != 500 {
		t.Errorf("burst covers [%d, %d), want [0, 500)", bursts[0].Start, bursts[0].End)
	}
}

func TestSegmentSplitsOnGap(t *testing.T) {
	// Two 20-minute bursts separated by 50 minutes, against a 2400 s
	// threshold.
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	times := burstTimes(base, 1, []int{1200, 1500}, 50*time.Minute)

	bursts := Segment(times, DefaultGapThreshold)
	if len(bursts) != 2 {
		t.Fatalf("got %d bursts, want 2", len(bursts))
	}

	if bursts[0].Len() != 1200 {
		t.Errorf("first burst has %d samples, want 1200", bursts[0].Len())
	}
	if bursts[1].Len() != 1500 {
		t.Errorf("second burst has %d samples, want 1500", bursts[1].Len())
	}
	if bursts[0].End != bursts[1].Start {
		t.Errorf("bursts not contiguous: first ends %d, second starts %d", bursts[0].End, bursts[1].Start)
	}
	if bursts[0].ID != 0 || bursts[1].ID != 1 {
		t.Errorf("burst ids = (%d, %d), want (0, 1)", bursts[0].ID, bursts[1].ID)
	}
}

func TestSegmentGapAtThreshold(t *testing.T) {
	// A gap exactly at the threshold does not split.
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	times := []time.Time{base, base.Add(DefaultGapThreshold)}

	if got := len(Segment(times, DefaultGapThreshold)); got != 1 {
		t.Errorf("got %d bursts, want 1", got)
	}

	times[1] = base.Add(DefaultGapThreshold + time.Second)
	if got := len(Segment(times, DefaultGapThreshold)); got != 2 {
		t.Errorf("got %d bursts, want 2", got)
	}
}

func TestSegmentEmpty(t *testing.T) {
	if got := Segment(nil, DefaultGapThreshold); got != nil {
		t.Errorf("got %v, want nil", got)
	}
}
