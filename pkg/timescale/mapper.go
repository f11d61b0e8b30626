// Package timescale provides the math between absolute time and horizontal
// pixel coordinates, header time-unit selection, and calendar-aligned tick
// iteration for the header band.
//
// The mapper is pure: it holds only the viewport it was constructed with
// and never mutates it. Coordinates for instants outside the viewport are
// extrapolated linearly instead of clamped, so callers can reason about
// off-screen positions and must clip themselves.
package timescale

import (
	"math"
	"time"
)

// Mapper converts between instants and horizontal pixel coordinates for a
// fixed viewport. PanelLeft is where the time-scaled area begins (the task
// panel sits to its left); Width is the pixel width of the scaled area.
type Mapper struct {
	Start     time.Time
	Duration  time.Duration
	PanelLeft float64
	Width     float64
}

// End returns the exclusive upper bound of the viewport.
func (m Mapper) End() time.Time {
	return m.Start.Add(m.Duration)
}

// X maps an instant to a pixel X coordinate. Instants outside the viewport
// produce coordinates outside the drawable area.
func (m Mapper) X(t time.Time) float64 {
	frac := t.Sub(m.Start).Seconds() / m.Duration.Seconds()
	return frac*m.Width + m.PanelLeft
}

// TimeAt maps a pixel X coordinate back to an instant, rounded to the
// nearest second. Like X, it extrapolates beyond the viewport.
func (m Mapper) TimeAt(x float64) time.Time {
	frac := (x - m.PanelLeft) / m.Width
	secs := math.Round(frac * m.Duration.Seconds())
	return m.Start.Add(time.Duration(secs) * time.Second)
}

// Contains reports whether t lies within [Start, Start+Duration].
func (m Mapper) Contains(t time.Time) bool {
	return !t.Before(m.Start) && !t.After(m.End())
}

// SpanVisible reports whether any part of the span [start, end] intersects
// the viewport. A nil bound is treated as unbounded in that direction.
func (m Mapper) SpanVisible(start, end *time.Time) bool {
	if start != nil && start.After(m.End()) {
		return false
	}
	if end != nil && end.Before(m.Start) {
		return false
	}
	return true
}
