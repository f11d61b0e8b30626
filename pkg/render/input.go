package render

import (
	"github.com/ganttkit/ganttkit/pkg/timeline"
)

// groupNode is the collapse surface shared by both group kinds.
type groupNode interface {
	timeline.LineNode
	Children() []timeline.LineNode
	Collapsed() bool
	SetCollapsed(bool)
	HitToggle(x, y float64) bool
	DescendantItems() []*timeline.Item
	Intervals() []*timeline.TimeInterval
}

// LineAt resolves the top-level line node whose last-rendered bounds
// contain (x, y). First match wins; siblings do not overlap.
func (r *Renderer) LineAt(x, y float64) timeline.LineNode {
	for _, n := range r.tl.Lines() {
		if b := n.Bounds(); b != nil && b.Contains(x, y) {
			return n
		}
	}
	return nil
}

// ItemAt resolves the task item whose last-rendered bar contains (x, y),
// walking into groups as needed.
func (r *Renderer) ItemAt(x, y float64) *timeline.Item {
	return itemIn(r.LineAt(x, y), x, y)
}

func itemIn(n timeline.LineNode, x, y float64) *timeline.Item {
	switch v := n.(type) {
	case *timeline.TaskLine:
		return v.HitItem(x, y)
	case groupNode:
		for _, it := range v.DescendantItems() {
			if b := it.Bounds(); b != nil && b.Contains(x, y) {
				return it
			}
		}
	}
	return nil
}

// Click dispatches a primary click. The collapse toggle is checked
// first: a click that lands on it flips the group and stops there,
// leaving the selection model untouched.
func (r *Renderer) Click(x, y float64) {
	opts := r.tl.Options()
	if opts.MouseCollapse {
		if g := r.toggleAt(x, y); g != nil {
			g.SetCollapsed(!g.Collapsed())
			return
		}
	}
	if opts.MouseSelection {
		// Clicking empty space deselects.
		r.tl.Select(r.ItemAt(x, y))
	}
}

// toggleAt finds the deepest rendered group whose collapse button
// contains (x, y).
func (r *Renderer) toggleAt(x, y float64) groupNode {
	for _, n := range r.tl.Lines() {
		if g := toggleIn(n, x, y); g != nil {
			return g
		}
	}
	return nil
}

func toggleIn(n timeline.LineNode, x, y float64) groupNode {
	g, ok := n.(groupNode)
	if !ok {
		return nil
	}
	if b := g.Bounds(); b == nil || !b.Contains(x, y) {
		return nil
	}
	for _, c := range g.Children() {
		if hit := toggleIn(c, x, y); hit != nil {
			return hit
		}
	}
	if g.HitToggle(x, y) {
		return g
	}
	return nil
}

// Move resolves the tooltip for a pointer position. A visibility or text
// change sets the dirty flag.
func (r *Renderer) Move(x, y float64) {
	text := r.tooltipAt(x, y)
	visible := text != ""
	if text != r.tooltip.text || visible != r.tooltip.visible {
		r.needsPaint = true
	}
	r.tooltip = tooltipState{text: text, x: x, y: y, visible: visible}
}

// tooltipAt resolves the tooltip text under (x, y). Time points win over
// intervals, timeline-level intervals over line- and item-level ones,
// and the item's own tooltip comes last.
func (r *Renderer) tooltipAt(x, y float64) string {
	hit := r.ItemAt(x, y)

	if hit != nil {
		for _, p := range hit.Points() {
			if b := p.Bounds(); b != nil && b.Contains(x, y) && p.Name != "" {
				return p.Name
			}
		}
	}
	for _, iv := range r.tl.Intervals() {
		if b := iv.Bounds(); b != nil && b.Contains(x, y) && iv.Name != "" {
			return iv.Name
		}
	}
	if line := r.LineAt(x, y); line != nil {
		for _, iv := range lineIntervals(line) {
			if b := iv.Bounds(); b != nil && b.Contains(x, y) && iv.Name != "" {
				return iv.Name
			}
		}
	}
	if hit != nil {
		for _, iv := range hit.Intervals() {
			if b := iv.Bounds(); b != nil && b.Contains(x, y) && iv.Name != "" {
				return iv.Name
			}
		}
		return hit.Tooltip()
	}
	return ""
}

func lineIntervals(n timeline.LineNode) []*timeline.TimeInterval {
	switch v := n.(type) {
	case *timeline.TaskLine:
		return v.Intervals()
	case groupNode:
		return v.Intervals()
	}
	return nil
}

// Wheel handles a scroll-wheel tick. Without the zoom modifier the
// content pans vertically by delta rows; with it the viewport duration
// changes by ±10%, floored at the minimum viewport duration.
func (r *Renderer) Wheel(delta float64, zoomModifier bool) {
	opts := r.tl.Options()
	if zoomModifier {
		if !opts.MouseZoom {
			return
		}
		if delta < 0 {
			r.tl.Zoom(0.9)
		} else {
			r.tl.Zoom(1.1)
		}
		return
	}
	if !opts.MouseScroll {
		return
	}
	r.SetVScroll(r.vbar.Value + delta*r.rowHeight)
}

// Tooltip reports the active tooltip text, or "" when hidden.
func (r *Renderer) Tooltip() string {
	if !r.tooltip.visible {
		return ""
	}
	return r.tooltip.text
}
