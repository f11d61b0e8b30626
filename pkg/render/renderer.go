package render

import (
	"fmt"
	"time"

	"github.com/ganttkit/ganttkit/pkg/geom"
	"github.com/ganttkit/ganttkit/pkg/timeline"
	"github.com/ganttkit/ganttkit/pkg/timescale"
)

// Layout constants. Paddings are in pixels.
const (
	rowPadding    = 4.0
	headerPadding = 5.0
	barPadding    = 2.0
	panelPadding  = 4.0
	toggleSize    = 9.0
	pointSize     = 8.0
	tooltipPad    = 5.0
	tooltipShift  = 12.0
)

// Option configures a Renderer.
type Option func(*Renderer)

// WithSize sets the canvas size in pixels.
func WithSize(width, height float64) Option {
	return func(r *Renderer) { r.width, r.height = width, height }
}

// Renderer walks the timeline's line tree once per paint and draws it
// onto a Surface. It owns the scrollbar state, the tooltip, and the
// dirty flag the host toolkit polls to decide when to repaint.
//
// A Renderer is bound to one Timeline and one Surface for its lifetime
// and must be driven from a single goroutine.
type Renderer struct {
	tl       *timeline.Timeline
	surface  Surface
	measurer TextMeasurer

	width, height float64

	rowHeight    float64
	headerHeight float64
	textHeight   float64

	hbar, vbar ScrollBar
	hlo        time.Time
	syncing    bool

	// visFrom/visTo is the top-level index range painted last; -1/-1
	// when nothing was visible.
	visFrom, visTo int

	tooltip tooltipState

	needsPaint bool
}

type tooltipState struct {
	text    string
	x, y    float64
	visible bool
}

// New creates a Renderer bound to tl, drawing through surface and
// measuring text through measurer. The renderer subscribes to the
// timeline's change feed; structural changes outside the visible index
// range do not set the dirty flag.
func New(tl *timeline.Timeline, surface Surface, measurer TextMeasurer, opts ...Option) *Renderer {
	r := &Renderer{
		tl:         tl,
		surface:    surface,
		measurer:   measurer,
		visFrom:    -1,
		visTo:      -1,
		needsPaint: true,
	}
	for _, opt := range opts {
		opt(r)
	}
	tl.Subscribe(r.onChange)
	return r
}

// Resize updates the canvas size and forces a repaint.
func (r *Renderer) Resize(width, height float64) {
	r.width, r.height = width, height
	r.needsPaint = true
}

// Dirty reports whether the next Paint call would change the canvas.
func (r *Renderer) Dirty() bool { return r.needsPaint }

// Invalidate forces the next Paint to redraw.
func (r *Renderer) Invalidate() { r.needsPaint = true }

func (r *Renderer) onChange(c timeline.Change) {
	switch c.Kind {
	case timeline.ChangePaint, timeline.ChangeViewport:
		r.needsPaint = true
	case timeline.ChangeStructure:
		if !c.InPlace || c.Index < 0 {
			r.needsPaint = true
			return
		}
		// In-place updates only dirty the canvas when they fall inside
		// the visible index range. The range is recomputed from the
		// current scroll state rather than read from the last paint, so
		// row-count changes since then cannot make it stale.
		from, to := r.visibleRange()
		if c.Index >= from && c.Index <= to {
			r.needsPaint = true
		}
	}
}

// visibleRange resolves the top-level indices intersecting the area
// below the header at the current vertical scroll offset.
func (r *Renderer) visibleRange() (from, to int) {
	from, to = -1, -1
	if r.rowHeight <= 0 {
		// Never painted; treat everything as visible.
		return 0, len(r.tl.Lines()) - 1
	}
	top := r.vbar.Value
	bottom := top + (r.height - r.headerHeight)
	y := 0.0
	for i, n := range r.tl.Lines() {
		h := float64(n.RowCount()) * r.rowHeight
		if y < bottom && y+h > top {
			if from < 0 {
				from = i
			}
			to = i
		}
		y += h
	}
	return from, to
}

// metrics derives the row and header band heights from the surface font.
func (r *Renderer) metrics() {
	_, th := r.measurer.MeasureString("Ag")
	r.textHeight = th
	r.rowHeight = th + 2*rowPadding
	r.headerHeight = th + 2*headerPadding
}

// paintContext carries the per-paint state shared by the node painters.
type paintContext struct {
	s          Surface
	meas       TextMeasurer
	m          timescale.Mapper
	opts       timeline.Options
	pal        timeline.Palette
	rowHeight  float64
	textHeight float64
	width      float64
	// scale is the time-scale area below the header. Bars, projections
	// and annotations clip to it so panel content is never overdrawn.
	scale    geom.Rect
	selected *timeline.Item
}

// Paint redraws the whole canvas. It is a no-op while the canvas has no
// size or the timeline's bounds are unset, and clears the dirty flag on
// completion.
func (r *Renderer) Paint() {
	if r.width <= 0 || r.height <= 0 {
		return
	}
	if _, _, ok := r.tl.Bounds(); !ok {
		return
	}
	r.metrics()
	r.syncScrollBars()

	opts := r.tl.Options()
	pal := opts.Palette
	start, dur := r.tl.Viewport()
	scaleW := r.width - opts.TaskPanelWidth - opts.AdditionalPanelWidth
	if scaleW < 0 {
		scaleW = 0
	}
	m := timescale.Mapper{Start: start, Duration: dur, PanelLeft: opts.TaskPanelWidth, Width: scaleW}

	s := r.surface
	body := geom.Rect{X: 0, Y: r.headerHeight, W: r.width, H: r.height - r.headerHeight}
	ctx := &paintContext{
		s:          s,
		meas:       r.measurer,
		m:          m,
		opts:       opts,
		pal:        pal,
		rowHeight:  r.rowHeight,
		textHeight: r.textHeight,
		width:      r.width,
		scale:      geom.Rect{X: m.PanelLeft, Y: r.headerHeight, W: m.Width, H: body.H},
		selected:   r.tl.Selected(),
	}

	// Background, panels, row stripes.
	s.FillRect(geom.Rect{X: 0, Y: 0, W: r.width, H: r.height}, pal.Background)
	s.FillRect(geom.Rect{X: 0, Y: r.headerHeight, W: opts.TaskPanelWidth, H: body.H}, pal.PanelBackground)
	if opts.AdditionalPanelWidth > 0 {
		s.FillRect(geom.Rect{X: r.width - opts.AdditionalPanelWidth, Y: r.headerHeight, W: opts.AdditionalPanelWidth, H: body.H}, pal.PanelBackground)
	}
	if opts.AlternatingRowColors {
		r.paintRowStripes(ctx)
	}

	ticks, _ := r.paintHeader(ctx)

	// Node walk. Off-screen nodes clear their recorded bounds so stale
	// rectangles never satisfy a hit test.
	s.PushClip(body)
	y := r.headerHeight - r.vbar.Value
	from, to := -1, -1
	for i, n := range r.tl.Lines() {
		h := float64(n.RowCount()) * r.rowHeight
		if y+h <= r.headerHeight || y >= r.height {
			n.NotRendered()
		} else {
			if from < 0 {
				from = i
			}
			to = i
			paintNode(ctx, n, 0, y)
		}
		y += h
	}
	s.PopClip()
	r.visFrom, r.visTo = from, to

	// Overlay passes stay inside the time-scale area.
	s.PushClip(ctx.scale)
	if opts.VerticalGridLines {
		for _, tk := range ticks {
			x := m.X(tk.End)
			s.Line(x, r.headerHeight, x, r.height, pal.GridLine, 1)
		}
	}
	r.paintIntervals(ctx, false)
	for _, c := range r.tl.Cursors() {
		if m.Contains(c.Time) {
			x := m.X(c.Time)
			s.Line(x, r.headerHeight, x, r.height, c.Color, 2)
		}
	}
	r.paintIntervals(ctx, true)
	s.PopClip()

	r.paintTooltip(ctx)
	r.needsPaint = false
}

// paintRowStripes fills every second row across the canvas width.
func (r *Renderer) paintRowStripes(ctx *paintContext) {
	total := r.tl.TotalRows()
	for i := 1; i < total; i += 2 {
		y := r.headerHeight - r.vbar.Value + float64(i)*r.rowHeight
		if y+r.rowHeight <= r.headerHeight || y >= r.height {
			continue
		}
		ctx.s.FillRect(geom.Rect{X: 0, Y: y, W: r.width, H: r.rowHeight}, ctx.pal.RowAlternate)
	}
}

// paintHeader draws the header band and returns the ticks it used so the
// grid-line pass can share them.
func (r *Renderer) paintHeader(ctx *paintContext) ([]timescale.Tick, timescale.Unit) {
	s := ctx.s
	s.FillRect(geom.Rect{X: 0, Y: 0, W: r.width, H: r.headerHeight}, ctx.pal.HeaderBackground)

	unit := timescale.SelectUnit(ctx.m.Width, ctx.m.Duration, func(label string) float64 {
		w, _ := ctx.meas.MeasureString(label)
		return w
	})
	ticks := timescale.TicksBetween(unit, ctx.m.Start, ctx.m.End())
	format := ctx.opts.HeaderFormat(unit)

	s.PushClip(geom.Rect{X: ctx.m.PanelLeft, Y: 0, W: ctx.m.Width, H: r.headerHeight})
	for _, tk := range ticks {
		x0, x1 := ctx.m.X(tk.Start), ctx.m.X(tk.End)
		s.Line(x1, 0, x1, r.headerHeight, ctx.pal.Border, 1)
		s.TextCentered(tk.Start.Format(format), (x0+x1)/2, r.headerHeight/2, ctx.pal.HeaderText)
	}
	s.PopClip()
	s.Line(0, r.headerHeight, r.width, r.headerHeight, ctx.pal.Border, 1)
	return ticks, unit
}

// paintIntervals draws the timeline-level intervals of one pass.
// Background intervals sit under the cursors, foreground ones above.
func (r *Renderer) paintIntervals(ctx *paintContext, foreground bool) {
	for _, iv := range r.tl.Intervals() {
		if iv.Foreground != foreground {
			continue
		}
		rect, ok := ctx.intervalBand(iv, ctx.scale.Y, ctx.scale.H)
		if !ok {
			iv.ClearBounds()
			continue
		}
		ctx.s.FillRect(rect, iv.Color)
		iv.SetBounds(rect)
	}
}

// intervalBand maps an interval to a vertical band over [y, y+h).
// Open bounds extend to the respective edge of the time-scale area.
func (ctx *paintContext) intervalBand(iv *timeline.TimeInterval, y, h float64) (geom.Rect, bool) {
	if !ctx.m.SpanVisible(iv.Start, iv.End) {
		return geom.Rect{}, false
	}
	x0 := ctx.scale.X
	if iv.Start != nil {
		if x := ctx.m.X(*iv.Start); x > x0 {
			x0 = x
		}
	}
	x1 := ctx.scale.Right()
	if iv.End != nil {
		if x := ctx.m.X(*iv.End); x < x1 {
			x1 = x
		}
	}
	if x1 <= x0 {
		return geom.Rect{}, false
	}
	return geom.Rect{X: x0, Y: y, W: x1 - x0, H: h}, true
}

// paintTooltip draws the active tooltip near the pointer, nudged back
// inside the canvas when it would overflow.
func (r *Renderer) paintTooltip(ctx *paintContext) {
	if !r.tooltip.visible || r.tooltip.text == "" {
		return
	}
	tw, th := ctx.meas.MeasureString(r.tooltip.text)
	w, h := tw+2*tooltipPad, th+2*tooltipPad
	x, y := r.tooltip.x+tooltipShift, r.tooltip.y+tooltipShift
	if x+w > r.width {
		x = r.width - w
	}
	if y+h > r.height {
		y = r.height - h
	}
	box := geom.Rect{X: x, Y: y, W: w, H: h}
	ctx.s.FillRoundedRect(box, 3, ctx.pal.HeaderBackground)
	ctx.s.StrokeRect(box, ctx.pal.Border, 1)
	ctx.s.Text(r.tooltip.text, x+tooltipPad, y+tooltipPad, ctx.pal.PanelText)
}

// VisibleRange reports the top-level index range painted last; both are
// -1 when nothing was visible.
func (r *Renderer) VisibleRange() (from, to int) { return r.visFrom, r.visTo }

// String describes the renderer state, for logging.
func (r *Renderer) String() string {
	return fmt.Sprintf("renderer %.0fx%.0f rows=%d visible=[%d,%d]", r.width, r.height, r.tl.TotalRows(), r.visFrom, r.visTo)
}
