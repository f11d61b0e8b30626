package render

import (
	"math"

	"github.com/ganttkit/ganttkit/pkg/geom"
	"github.com/ganttkit/ganttkit/pkg/timeline"
)

// paintNode dispatches to the painter for the node's concrete kind.
// indent shifts the node's panel label to the right; y is the top of
// the node's first row.
func paintNode(ctx *paintContext, n timeline.LineNode, indent, y float64) {
	switch v := n.(type) {
	case *timeline.TaskLine:
		paintTaskLine(ctx, v, indent, y)
	case *timeline.FlatGroup:
		paintFlatGroup(ctx, v, indent, y)
	case *timeline.HierarchicalGroup:
		paintHierGroup(ctx, v, indent, y)
	}
}

// ===== Task lines =====

func paintTaskLine(ctx *paintContext, l *timeline.TaskLine, indent, y float64) {
	h := float64(l.RowCount()) * ctx.rowHeight
	paintPanelLabel(ctx, l.Name(), indent, y, h)
	paintPanelDescription(ctx, l.Description(), y, h)

	ctx.s.PushClip(ctx.scale)
	paintIntervalBands(ctx, l.Intervals(), y, h, false)
	for ri, row := range l.Rows() {
		rowY := y + float64(ri)*ctx.rowHeight
		for _, it := range row {
			paintItem(ctx, it, rowY)
		}
	}
	paintIntervalBands(ctx, l.Intervals(), y, h, true)
	ctx.s.PopClip()

	if l.Separator {
		ctx.s.Line(0, y+h, ctx.width, y+h, ctx.pal.Border, 1)
	}
	l.SetBounds(geom.Rect{X: 0, Y: y, W: ctx.width, H: h})
}

func paintItem(ctx *paintContext, it *timeline.Item, rowY float64) {
	start, end := it.Span()
	if !ctx.m.SpanVisible(&start, &end) {
		it.ClearBounds()
		return
	}
	x0, x1 := ctx.m.X(start), ctx.m.X(end)
	bar := geom.Rect{X: x0, Y: rowY + barPadding, W: x1 - x0, H: ctx.rowHeight - 2*barPadding}
	style := it.Style()

	ctx.s.FillRect(bar, style.Fill)
	if it.Actual() > 0 {
		// Actual progress overlays the lower half of the bar.
		xa := ctx.m.X(it.Start().Add(it.Actual()))
		ctx.s.FillRect(geom.Rect{X: x0, Y: bar.CenterY(), W: xa - x0, H: bar.H / 2}, style.ActualFill)
	}
	paintItemIntervals(ctx, it, bar, false)
	ctx.s.StrokeRect(bar, style.Border, 1)
	if it == ctx.selected {
		ctx.s.StrokeRect(bar, ctx.pal.SelectionBorder, 2)
	}

	ctx.s.PushClip(bar)
	ctx.s.TextCentered(it.Name(), bar.CenterX(), bar.CenterY(), style.Text)
	ctx.s.PopClip()
	paintItemIntervals(ctx, it, bar, true)

	for _, p := range it.Points() {
		paintPoint(ctx, p, bar)
	}
	it.SetBounds(bar)
}

func paintPoint(ctx *paintContext, p *timeline.TimePoint, bar geom.Rect) {
	if !ctx.m.Contains(p.Time) {
		p.ClearBounds()
		return
	}
	x := ctx.m.X(p.Time)
	glyph := geom.Rect{X: x - pointSize/2, Y: bar.CenterY() - pointSize/2, W: pointSize, H: pointSize}
	switch p.Shape {
	case timeline.PointCircle:
		ctx.s.FillOval(glyph, p.Color)
	case timeline.PointRoundedRect:
		ctx.s.FillRoundedRect(glyph, 2, p.Color)
	case timeline.PointRect:
		ctx.s.FillRect(glyph, p.Color)
	case timeline.PointImage:
		if p.Image != nil {
			ctx.s.DrawImage(p.Image, glyph.X, glyph.Y)
		}
	}
	p.SetBounds(glyph)
}

// ===== Groups =====

func paintFlatGroup(ctx *paintContext, g *timeline.FlatGroup, indent, y float64) {
	h := float64(g.RowCount()) * ctx.rowHeight
	toggle := paintToggle(ctx, g.Collapsible(), g.EffectiveCollapsed(), indent, y)
	paintGroupIntervals(ctx, g.Intervals(), y, h, false)

	if g.EffectiveCollapsed() {
		paintPanelLabel(ctx, g.Name(), indent+toggleSize+panelPadding, y, ctx.rowHeight)
		if ctx.opts.Projection != timeline.ProjectionNone {
			paintProjection(ctx, g.DescendantItems(), y)
		}
	} else {
		// The group name runs rotated along the left edge of its rows;
		// children keep the remaining panel width for their own labels.
		paintRotatedLabel(ctx, g.Name(), indent, y, h)
		childY := y
		for _, c := range g.Children() {
			paintNode(ctx, c, indent+ctx.textHeight+2*panelPadding, childY)
			childY += float64(c.RowCount()) * ctx.rowHeight
		}
	}
	paintGroupIntervals(ctx, g.Intervals(), y, h, true)
	paintPanelDescription(ctx, g.Description(), y, h)

	g.SetBounds(geom.Rect{X: 0, Y: y, W: ctx.width, H: h})
	g.SetToggleBounds(toggle)
}

func paintHierGroup(ctx *paintContext, g *timeline.HierarchicalGroup, indent, y float64) {
	h := float64(g.RowCount()) * ctx.rowHeight
	toggle := paintToggle(ctx, g.Collapsible(), g.EffectiveCollapsed(), indent, y)
	paintGroupIntervals(ctx, g.Intervals(), y, h, false)
	paintPanelLabel(ctx, g.Name(), indent+toggleSize+panelPadding, y, ctx.rowHeight)

	if g.EffectiveCollapsed() {
		if ctx.opts.Projection != timeline.ProjectionNone {
			paintProjection(ctx, g.DescendantItems(), y)
		}
	} else {
		if ctx.opts.Projection == timeline.ProjectionAlways {
			paintProjection(ctx, g.DescendantItems(), y)
		}
		childY := y + ctx.rowHeight
		for _, c := range g.Children() {
			paintNode(ctx, c, indent+ctx.opts.IndentWidth, childY)
			childY += float64(c.RowCount()) * ctx.rowHeight
		}
	}
	paintGroupIntervals(ctx, g.Intervals(), y, h, true)
	paintPanelDescription(ctx, g.Description(), y, h)

	g.SetBounds(geom.Rect{X: 0, Y: y, W: ctx.width, H: h})
	g.SetToggleBounds(toggle)
}

// paintToggle draws the collapse button on the node's first row and
// returns its bounds. A non-collapsible group gets no button; the zero
// rect never satisfies a hit test.
func paintToggle(ctx *paintContext, collapsible, collapsed bool, indent, y float64) geom.Rect {
	if !collapsible {
		return geom.Rect{}
	}
	box := geom.Rect{X: indent + 2, Y: y + (ctx.rowHeight-toggleSize)/2, W: toggleSize, H: toggleSize}
	ctx.s.StrokeRect(box, ctx.pal.Border, 1)
	cy := box.CenterY()
	ctx.s.Line(box.X+2, cy, box.Right()-2, cy, ctx.pal.PanelText, 1)
	if collapsed {
		cx := box.CenterX()
		ctx.s.Line(cx, box.Y+2, cx, box.Bottom()-2, ctx.pal.PanelText, 1)
	}
	return box
}

// paintProjection draws each item's span as a thin bar centered on the
// group's header row. Overlapping spans simply draw over each other;
// they are not coalesced into single shapes.
func paintProjection(ctx *paintContext, items []*timeline.Item, y float64) {
	barH := math.Max(3, ctx.rowHeight/3)
	barY := y + (ctx.rowHeight-barH)/2
	ctx.s.PushClip(ctx.scale)
	for _, it := range items {
		s, e := it.Span()
		if !ctx.m.SpanVisible(&s, &e) {
			continue
		}
		x0, x1 := ctx.m.X(s), ctx.m.X(e)
		ctx.s.FillRoundedRect(geom.Rect{X: x0, Y: barY, W: x1 - x0, H: barH}, 2, ctx.pal.Projection)
	}
	ctx.s.PopClip()
}

func paintGroupIntervals(ctx *paintContext, ivs []*timeline.TimeInterval, y, h float64, foreground bool) {
	if len(ivs) == 0 {
		return
	}
	ctx.s.PushClip(ctx.scale)
	paintIntervalBands(ctx, ivs, y, h, foreground)
	ctx.s.PopClip()
}

// paintIntervalBands paints the intervals matching the requested
// foreground flag. Each interval belongs to exactly one pass, so bounds
// are set or cleared exactly once per paint.
func paintIntervalBands(ctx *paintContext, ivs []*timeline.TimeInterval, y, h float64, foreground bool) {
	for _, iv := range ivs {
		if iv.Foreground != foreground {
			continue
		}
		if band, ok := ctx.intervalBand(iv, y, h); ok {
			ctx.s.FillRect(band, iv.Color)
			iv.SetBounds(band)
		} else {
			iv.ClearBounds()
		}
	}
}

// paintItemIntervals paints the item's intervals for one pass, clamped
// to the item's bar.
func paintItemIntervals(ctx *paintContext, it *timeline.Item, bar geom.Rect, foreground bool) {
	for _, iv := range it.Intervals() {
		if iv.Foreground != foreground {
			continue
		}
		band, ok := ctx.intervalBand(iv, bar.Y, bar.H)
		if !ok {
			iv.ClearBounds()
			continue
		}
		if band.X < bar.X {
			band.W -= bar.X - band.X
			band.X = bar.X
		}
		if band.Right() > bar.Right() {
			band.W = bar.Right() - band.X
		}
		ctx.s.FillRect(band, iv.Color)
		iv.SetBounds(band)
	}
}

// ===== Panel text =====

func paintPanelLabel(ctx *paintContext, name string, indent, y, h float64) {
	if name == "" {
		return
	}
	panel := geom.Rect{X: 0, Y: y, W: ctx.opts.TaskPanelWidth, H: h}
	ctx.s.PushClip(panel)
	ctx.s.Text(name, indent+panelPadding, y+(ctx.rowHeight-ctx.textHeight)/2, ctx.pal.PanelText)
	ctx.s.PopClip()
}

func paintPanelDescription(ctx *paintContext, desc string, y, h float64) {
	if desc == "" || ctx.opts.AdditionalPanelWidth <= 0 {
		return
	}
	panel := geom.Rect{X: ctx.width - ctx.opts.AdditionalPanelWidth, Y: y, W: ctx.opts.AdditionalPanelWidth, H: h}
	ctx.s.PushClip(panel)
	ctx.s.Text(desc, panel.X+panelPadding, y+(ctx.rowHeight-ctx.textHeight)/2, ctx.pal.PanelText)
	ctx.s.PopClip()
}

// paintRotatedLabel draws name rotated 90° counter-clockwise, centered
// vertically along the node's rows inside the task panel.
func paintRotatedLabel(ctx *paintContext, name string, indent, y, h float64) {
	if name == "" {
		return
	}
	ctx.s.PushClip(geom.Rect{X: 0, Y: y, W: ctx.opts.TaskPanelWidth, H: h})
	ctx.s.Save()
	ctx.s.Translate(indent+panelPadding+ctx.textHeight/2, y+h/2)
	ctx.s.Rotate(-math.Pi / 2)
	ctx.s.TextCentered(name, 0, 0, ctx.pal.PanelText)
	ctx.s.Restore()
	ctx.s.PopClip()
}
