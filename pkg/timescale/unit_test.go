package timescale

import (
	"testing"
	"time"
)

// fixedMeasure approximates a monospace header font at 8px per glyph.
func fixedMeasure(s string) float64 {
	return float64(len(s)) * 8
}

func TestSelectUnit(t *testing.T) {
	tests := []struct {
		name     string
		width    float64
		duration time.Duration
		want     Unit
	}{
		// 800px / 10s = 80 px/s ≥ 74 (label "00:00:00" + padding)
		{"short viewport picks seconds", 800, 10 * time.Second, Seconds},
		// 800px / 60s ≈ 13.3 px/s fails seconds; ×60 = 800 px/min ≥ 50
		{"one minute picks minutes", 800, time.Minute, Minutes},
		// 800px / 1200s ≈ 0.67 px/s; minutes 40 < 50; hours 2400 ≥ 50
		{"twenty minutes picks hours", 800, 20 * time.Minute, Hours},
		{"week picks days", 800, 7 * 24 * time.Hour, Days},
		{"half year picks months", 800, 180 * 24 * time.Hour, Months},
		{"decade picks years", 800, 10 * 365 * 24 * time.Hour, Years},
		// Tiny surfaces can not fit anything; coarsest unit wins.
		{"century still years", 800, 100 * 365 * 24 * time.Hour, Years},
		{"zero width short-circuits to years", 0, time.Minute, Years},
		{"zero duration short-circuits to years", 800, 0, Years},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SelectUnit(tt.width, tt.duration, fixedMeasure); got != tt.want {
				t.Errorf("SelectUnit(%v, %v) = %v, want %v", tt.width, tt.duration, got, tt.want)
			}
		})
	}
}

func TestSelectUnitMonotoneCoarsening(t *testing.T) {
	// Growing the viewport duration at fixed width must never pick a
	// finer unit than a shorter duration did.
	prev := Seconds
	for d := 5 * time.Second; d < 20*365*24*time.Hour; d = d * 3 / 2 {
		u := SelectUnit(800, d, fixedMeasure)
		if u < prev {
			t.Fatalf("unit regressed from %v to %v at duration %v", prev, u, d)
		}
		prev = u
	}
	if prev != Years {
		t.Errorf("final unit = %v, want years", prev)
	}
}

func TestUnitString(t *testing.T) {
	tests := []struct {
		unit Unit
		want string
	}{
		{Seconds, "seconds"},
		{Minutes, "minutes"},
		{Hours, "hours"},
		{Days, "days"},
		{Months, "months"},
		{Years, "years"},
		{Unit(99), "unknown"},
	}
	for _, tt := range tests {
		if got := tt.unit.String(); got != tt.want {
			t.Errorf("Unit(%d).String() = %q, want %q", tt.unit, got, tt.want)
		}
	}
}

func TestDefaultFormat(t *testing.T) {
	ts := time.Date(2024, time.February, 3, 14, 5, 9, 0, time.UTC)

	tests := []struct {
		unit Unit
		want string
	}{
		{Seconds, "14:05:09"},
		{Minutes, "14:05"},
		{Hours, "14:05"},
		{Days, "2024-02-03"},
		{Months, "2024-02"},
		{Years, "2024"},
	}
	for _, tt := range tests {
		if got := ts.Format(DefaultFormat(tt.unit)); got != tt.want {
			t.Errorf("format at %v = %q, want %q", tt.unit, got, tt.want)
		}
	}
}
