package timeline

import (
	"image/color"
	"time"

	"github.com/google/uuid"

	"github.com/ganttkit/ganttkit/pkg/geom"
)

// ItemStyle holds the per-item bar colors.
type ItemStyle struct {
	// Fill paints the expected-duration bar.
	Fill color.RGBA
	// ActualFill paints the actual-duration overlay drawn on the lower
	// half of the bar. Zero value disables the overlay tint and the
	// expected fill is reused.
	ActualFill color.RGBA
	// Border strokes the bar outline.
	Border color.RGBA
	// Text paints the item name inside the bar.
	Text color.RGBA
}

// DefaultItemStyle returns the bar colors items start with.
func DefaultItemStyle() ItemStyle {
	return ItemStyle{
		Fill:       color.RGBA{R: 0x7d, G: 0xa7, B: 0xd9, A: 0xff},
		ActualFill: color.RGBA{R: 0x4f, G: 0x81, B: 0xbd, A: 0xff},
		Border:     color.RGBA{R: 0x38, G: 0x5d, B: 0x8a, A: 0xff},
		Text:       color.RGBA{R: 0x10, G: 0x10, B: 0x10, A: 0xff},
	}
}

// Item is a single timed task on a task line.
//
// An item spans the half-open interval [Start, Start+max(Expected, Actual)).
// Negative durations are clamped to zero at construction and in the
// setters so overlap math stays well-defined. Instants carry second
// resolution; sub-second components are truncated.
type Item struct {
	id      uuid.UUID
	name    string
	tooltip string

	start    time.Time
	expected time.Duration
	actual   time.Duration

	style     ItemStyle
	points    []*TimePoint
	intervals []*TimeInterval

	line   *TaskLine // owning line, non-owning back-reference
	bounds *geom.Rect
}

// NewItem creates a detached item. Attach it with TaskLine.AddItem.
func NewItem(name string, start time.Time, expected time.Duration) *Item {
	return &Item{
		id:       uuid.New(),
		name:     name,
		start:    start.Truncate(time.Second),
		expected: max(expected, 0),
		style:    DefaultItemStyle(),
	}
}

// ID returns the item's stable identity.
func (it *Item) ID() uuid.UUID { return it.id }

// Name returns the item's display name.
func (it *Item) Name() string { return it.name }

// SetName updates the display name. Paint-only change.
func (it *Item) SetName(name string) {
	if it.name == name {
		return
	}
	it.name = name
	it.notifyPaint()
}

// Tooltip returns the item-level tooltip text, defaulting to the name.
func (it *Item) Tooltip() string {
	if it.tooltip != "" {
		return it.tooltip
	}
	return it.name
}

// SetTooltip overrides the item-level tooltip text.
func (it *Item) SetTooltip(s string) { it.tooltip = s }

// Start returns the item's start instant.
func (it *Item) Start() time.Time { return it.start }

// SetStart moves the item in time. Structural change: packing depends on it.
func (it *Item) SetStart(t time.Time) {
	t = t.Truncate(time.Second)
	if it.start.Equal(t) {
		return
	}
	it.start = t
	it.notifyStructure()
}

// Expected returns the planned duration.
func (it *Item) Expected() time.Duration { return it.expected }

// SetExpected updates the planned duration, clamped at zero.
func (it *Item) SetExpected(d time.Duration) {
	d = max(d, 0)
	if it.expected == d {
		return
	}
	it.expected = d
	it.notifyStructure()
}

// Actual returns the recorded duration.
func (it *Item) Actual() time.Duration { return it.actual }

// SetActual updates the recorded duration, clamped at zero.
func (it *Item) SetActual(d time.Duration) {
	d = max(d, 0)
	if it.actual == d {
		return
	}
	it.actual = d
	it.notifyStructure()
}

// Style returns the item's bar colors.
func (it *Item) Style() ItemStyle { return it.style }

// SetStyle updates the bar colors. Paint-only change.
func (it *Item) SetStyle(s ItemStyle) {
	it.style = s
	it.notifyPaint()
}

// EffectiveEnd returns Start + max(Expected, Actual): the instant the
// item's rendered bar ends.
func (it *Item) EffectiveEnd() time.Time {
	return it.start.Add(max(it.expected, it.actual))
}

// Span returns the half-open interval the item occupies, satisfying
// pack.Spanner.
func (it *Item) Span() (time.Time, time.Time) {
	return it.start, it.EffectiveEnd()
}

// Overlaps reports whether two items' half-open spans intersect.
// Touching endpoints do not overlap.
func (it *Item) Overlaps(other *Item) bool {
	return it.start.Before(other.EffectiveEnd()) && other.start.Before(it.EffectiveEnd())
}

// Line returns the task line the item is attached to, or nil.
func (it *Item) Line() *TaskLine { return it.line }

// AddPoint attaches a time-point annotation to the item.
func (it *Item) AddPoint(p *TimePoint) {
	it.points = append(it.points, p)
	it.notifyPaint()
}

// Points returns the item's time-point annotations in insertion order.
func (it *Item) Points() []*TimePoint { return it.points }

// AddInterval attaches a time interval to the item. Bounds are trimmed to
// the item's own span: an item-level interval can never exceed its bar.
func (it *Item) AddInterval(iv *TimeInterval) {
	start, end := it.Span()
	iv.trimTo(start, end)
	it.intervals = append(it.intervals, iv)
	it.notifyPaint()
}

// Intervals returns the item-level intervals in insertion order.
func (it *Item) Intervals() []*TimeInterval { return it.intervals }

// Bounds returns the pixel rectangle the item occupied in the last paint,
// or nil if it was not rendered. Hit-testing input, never layout input.
func (it *Item) Bounds() *geom.Rect { return it.bounds }

// SetBounds records the item's last-rendered rectangle.
func (it *Item) SetBounds(r geom.Rect) { it.bounds = &r }

// ClearBounds forgets the last-rendered rectangle, marking the item (and
// its annotations) as not currently on screen.
func (it *Item) ClearBounds() {
	it.bounds = nil
	for _, p := range it.points {
		p.ClearBounds()
	}
}

func (it *Item) notifyStructure() {
	if it.line != nil {
		it.line.itemStructureChanged()
	}
}

func (it *Item) notifyPaint() {
	if it.line != nil && it.line.timeline != nil {
		it.line.timeline.notifyPaint()
	}
}
