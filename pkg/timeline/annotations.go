package timeline

import (
	"image"
	"image/color"
	"time"

	"github.com/ganttkit/ganttkit/pkg/geom"
)

// PointShape selects the glyph drawn for a time-point annotation.
type PointShape int

// Time-point glyph shapes.
const (
	PointCircle PointShape = iota
	PointRoundedRect
	PointRect
	PointImage
)

// TimePoint is a small glyph annotation pinned to an instant within a
// task item's rendered bar.
type TimePoint struct {
	Name      string
	Time      time.Time
	Shape     PointShape
	Color     color.RGBA
	TextColor color.RGBA
	// Image is blitted instead of a shape when Shape is PointImage.
	Image image.Image

	bounds *geom.Rect
}

// NewTimePoint creates a circle-shaped time point.
func NewTimePoint(name string, at time.Time) *TimePoint {
	return &TimePoint{
		Name:      name,
		Time:      at.Truncate(time.Second),
		Shape:     PointCircle,
		Color:     color.RGBA{R: 0xe0, G: 0xa0, B: 0x30, A: 0xff},
		TextColor: color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff},
	}
}

// Bounds returns the glyph's last-rendered rectangle, or nil.
func (p *TimePoint) Bounds() *geom.Rect { return p.bounds }

// SetBounds records the glyph's last-rendered rectangle.
func (p *TimePoint) SetBounds(r geom.Rect) { p.bounds = &r }

// ClearBounds forgets the glyph's last-rendered rectangle.
func (p *TimePoint) ClearBounds() { p.bounds = nil }

// TimeInterval is a highlighted span of time. Either bound may be nil,
// meaning the interval is open-ended in that direction. Intervals attach
// to the timeline, to a line, or to an item (item-level intervals are
// trimmed to the item's span on insertion).
type TimeInterval struct {
	// Name is shown as the interval's tooltip; empty disables it.
	Name string
	// Start is the inclusive lower bound; nil means unbounded past.
	Start *time.Time
	// End is the exclusive upper bound; nil means unbounded future.
	End *time.Time
	// Foreground intervals paint over bars and cursors; background
	// intervals paint under them.
	Foreground bool
	Color      color.RGBA

	bounds *geom.Rect
}

// NewTimeInterval creates a background interval over [start, end).
// Pass nil for an open bound.
func NewTimeInterval(start, end *time.Time) *TimeInterval {
	iv := &TimeInterval{
		Color: color.RGBA{R: 0xd8, G: 0xe4, B: 0xc8, A: 0xff},
	}
	if start != nil {
		s := start.Truncate(time.Second)
		iv.Start = &s
	}
	if end != nil {
		e := end.Truncate(time.Second)
		iv.End = &e
	}
	return iv
}

// Contains reports whether t falls inside the interval.
func (iv *TimeInterval) Contains(t time.Time) bool {
	if iv.Start != nil && t.Before(*iv.Start) {
		return false
	}
	if iv.End != nil && !t.Before(*iv.End) {
		return false
	}
	return true
}

// trimTo clamps the interval's bounds into [start, end), resolving open
// bounds to the clamp span.
func (iv *TimeInterval) trimTo(start, end time.Time) {
	if iv.Start == nil || iv.Start.Before(start) {
		s := start
		iv.Start = &s
	}
	if iv.End == nil || iv.End.After(end) {
		e := end
		iv.End = &e
	}
}

// Bounds returns the interval's last-rendered rectangle, or nil.
func (iv *TimeInterval) Bounds() *geom.Rect { return iv.bounds }

// SetBounds records the interval's last-rendered rectangle.
func (iv *TimeInterval) SetBounds(r geom.Rect) { iv.bounds = &r }

// ClearBounds forgets the interval's last-rendered rectangle.
func (iv *TimeInterval) ClearBounds() { iv.bounds = nil }

// TimeCursor is a vertical marker at a single instant, owned by the
// timeline and rendered whenever its instant is inside the viewport.
type TimeCursor struct {
	Time  time.Time
	Color color.RGBA
}

// NewTimeCursor creates a cursor at the given instant.
func NewTimeCursor(at time.Time) *TimeCursor {
	return &TimeCursor{
		Time:  at.Truncate(time.Second),
		Color: color.RGBA{R: 0xc0, G: 0x30, B: 0x30, A: 0xff},
	}
}
