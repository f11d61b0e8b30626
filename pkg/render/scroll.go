package render

import "time"

// ScrollBar models one scrollbar axis as plain value ranges. The host
// toolkit owns the actual widget; it mirrors these fields into it and
// reports user drags back through SetHScroll / SetVScroll.
type ScrollBar struct {
	// Min and Max bound the scrollable range; Value is the position of
	// the leading edge of the thumb and Extent the thumb length, all in
	// the same unit (pixels for the vertical bar, seconds for the
	// horizontal bar).
	Min, Max, Value, Extent float64
	// UnitIncrement and BlockIncrement are the step sizes for arrow and
	// trough clicks.
	UnitIncrement, BlockIncrement float64
	// Enabled is false when the content fits and there is nothing to
	// scroll.
	Enabled bool
}

// clampValue keeps Value inside [Min, Max-Extent].
func (s *ScrollBar) clampValue() {
	if s.Value > s.Max-s.Extent {
		s.Value = s.Max - s.Extent
	}
	if s.Value < s.Min {
		s.Value = s.Min
	}
}

// syncScrollBars recomputes both scrollbar ranges from the current model
// and viewport state. Called at the start of every paint and after any
// viewport mutation.
func (r *Renderer) syncScrollBars() {
	r.syncing = true
	defer func() { r.syncing = false }()

	// Vertical: content height in pixels versus the area below the
	// header band.
	content := float64(r.tl.TotalRows()) * r.rowHeight
	avail := r.height - r.headerHeight
	if avail < 0 {
		avail = 0
	}
	v := &r.vbar
	v.Min = 0
	v.Max = content
	v.Extent = avail
	v.UnitIncrement = r.rowHeight
	v.BlockIncrement = avail
	v.Enabled = content > avail
	if !v.Enabled {
		v.Value = 0
	}
	v.clampValue()

	// Horizontal: the timeline's overall [min, max] range in seconds,
	// with the viewport as the thumb. A dragged-out viewport can extend
	// past the configured bounds; the range grows to include it so the
	// thumb never escapes the trough.
	min, max, ok := r.tl.Bounds()
	start, dur := r.tl.Viewport()
	if !ok {
		min, max = start, start.Add(dur)
	}
	h := &r.hbar
	h.Min = 0
	lo, hi := min, max
	if start.Before(lo) {
		lo = start
	}
	if e := start.Add(dur); e.After(hi) {
		hi = e
	}
	total := hi.Sub(lo).Seconds()
	h.Max = total
	h.Extent = dur.Seconds()
	h.Value = start.Sub(lo).Seconds()
	h.UnitIncrement = dur.Seconds() / 10
	h.BlockIncrement = dur.Seconds()
	h.Enabled = total > dur.Seconds()
	if r.tl.Options().HScrollFitsViewport && !h.Enabled {
		// Degenerate range: pin the thumb across the whole trough.
		h.Max = h.Extent
		h.Value = 0
	}
	h.clampValue()
	r.hlo = lo
}

// HScrollBar and VScrollBar expose the current bar state for the host
// toolkit to mirror. The returned values are snapshots.
func (r *Renderer) HScrollBar() ScrollBar { return r.hbar }
func (r *Renderer) VScrollBar() ScrollBar { return r.vbar }

// SetHScroll moves the viewport start to the given horizontal scrollbar
// value (seconds from the left edge of the scrollable range).
func (r *Renderer) SetHScroll(value float64) {
	if r.syncing {
		return
	}
	r.hbar.Value = value
	r.hbar.clampValue()
	_, dur := r.tl.Viewport()
	start := r.hlo.Add(time.Duration(r.hbar.Value * float64(time.Second)))
	_ = r.tl.SetViewport(start, dur)
}

// SetVScroll moves the vertical scroll offset (pixels from the top of
// the content).
func (r *Renderer) SetVScroll(value float64) {
	if r.syncing {
		return
	}
	r.vbar.Value = value
	r.vbar.clampValue()
	r.needsPaint = true
}
