package timeline

import (
	"image/color"

	"github.com/ganttkit/ganttkit/pkg/timescale"
)

// ProjectionMode controls when a group renders the merged "projection" of
// its descendants' item spans on its header row.
type ProjectionMode int

// Projection modes.
const (
	// ProjectionNone never draws projections.
	ProjectionNone ProjectionMode = iota
	// ProjectionCollapse draws projections only while the group is collapsed.
	ProjectionCollapse
	// ProjectionAlways draws projections regardless of collapse state.
	ProjectionAlways
)

// Palette holds the region colors of the widget.
type Palette struct {
	Background       color.RGBA
	RowAlternate     color.RGBA
	HeaderBackground color.RGBA
	HeaderText       color.RGBA
	PanelBackground  color.RGBA
	PanelText        color.RGBA
	GridLine         color.RGBA
	Border           color.RGBA
	SelectionBorder  color.RGBA
	Projection       color.RGBA
}

// Options is the configuration surface of a Timeline. It is plain data;
// mutate through Timeline.SetOptions so the change is observable.
type Options struct {
	// TaskPanelWidth is the fixed width of the left label panel.
	TaskPanelWidth float64
	// AdditionalPanelWidth is the fixed width of the optional right
	// panel showing line descriptions. Zero disables the panel.
	AdditionalPanelWidth float64
	// IndentWidth is the horizontal indent applied to the children of a
	// hierarchical group, per nesting level.
	IndentWidth float64

	Palette Palette

	// HeaderFormats overrides the label layout per header unit.
	// Units absent from the map use timescale.DefaultFormat.
	HeaderFormats map[timescale.Unit]string

	Projection ProjectionMode

	// Interaction flags.
	MouseScroll    bool
	MouseZoom      bool
	MouseSelection bool
	MouseCollapse  bool

	// Decoration flags.
	VerticalGridLines    bool
	AlternatingRowColors bool

	// HScrollFitsViewport keeps the horizontal scroll range shrunk by
	// the viewport duration, so scrolling to the end aligns the viewport
	// end with the timeline's max bound instead of its start.
	HScrollFitsViewport bool
}

// DefaultOptions returns the options a fresh Timeline starts with.
func DefaultOptions() Options {
	return Options{
		TaskPanelWidth:       150,
		AdditionalPanelWidth: 0,
		IndentWidth:          15,
		Palette: Palette{
			Background:       color.RGBA{R: 0xff, G: 0xff, B: 0xff, A: 0xff},
			RowAlternate:     color.RGBA{R: 0xf4, G: 0xf4, B: 0xf4, A: 0xff},
			HeaderBackground: color.RGBA{R: 0xe8, G: 0xe8, B: 0xe8, A: 0xff},
			HeaderText:       color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
			PanelBackground:  color.RGBA{R: 0xfa, G: 0xfa, B: 0xfa, A: 0xff},
			PanelText:        color.RGBA{R: 0x20, G: 0x20, B: 0x20, A: 0xff},
			GridLine:         color.RGBA{R: 0xd0, G: 0xd0, B: 0xd0, A: 0xff},
			Border:           color.RGBA{R: 0x90, G: 0x90, B: 0x90, A: 0xff},
			SelectionBorder:  color.RGBA{R: 0xd0, G: 0x30, B: 0x30, A: 0xff},
			Projection:       color.RGBA{R: 0xa0, G: 0xa0, B: 0xc0, A: 0xff},
		},
		Projection:           ProjectionCollapse,
		MouseScroll:          true,
		MouseZoom:            true,
		MouseSelection:       true,
		MouseCollapse:        true,
		VerticalGridLines:    true,
		AlternatingRowColors: true,
		HScrollFitsViewport:  true,
	}
}

// HeaderFormat returns the label layout for a unit, falling back to the
// package default when no override is configured.
func (o Options) HeaderFormat(u timescale.Unit) string {
	if f, ok := o.HeaderFormats[u]; ok {
		return f
	}
	return timescale.DefaultFormat(u)
}
