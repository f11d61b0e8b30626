package timeline

import (
	"time"

	"github.com/ganttkit/ganttkit/pkg/errors"
)

// MinViewportDuration is the floor the zoom path clamps to. Shrinking the
// viewport below ten seconds makes second-level header cells wider than
// any practical surface, so zooming stops here.
const MinViewportDuration = 10 * time.Second

// ChangeKind classifies a model mutation for listeners.
type ChangeKind int

// Change kinds.
const (
	// ChangeStructure means row counts may have shifted and layout must
	// be re-derived before the next paint.
	ChangeStructure ChangeKind = iota
	// ChangePaint means only pixel appearance changed.
	ChangePaint
	// ChangeViewport means the visible time window moved or resized.
	ChangeViewport
)

// Change describes one observed mutation.
type Change struct {
	Kind ChangeKind
	// Index is the top-level line index the change originated under, or
	// -1 when the change is global (viewport, palette, cursors).
	Index int
	// InPlace is true for updates inside an existing top-level line
	// (item time edits, collapse toggles) as opposed to additions or
	// removals of whole top-level lines. Listeners may skip repaint
	// work for in-place changes that fall outside the visible range;
	// additions and removals always repaint.
	InPlace bool
}

// Listener receives model change notifications. Notifications arrive
// synchronously on the mutating goroutine in mutation (FIFO) order.
type Listener func(Change)

// SelectionListener observes the single-selection holder. The item is
// nil when the selection is cleared.
type SelectionListener func(*Item)

// Timeline is the root of the model: it owns the top-level line forest,
// time cursors, global intervals, the viewport, the global bounds, and
// the single-selection holder.
type Timeline struct {
	lines     []LineNode
	cursors   []*TimeCursor
	intervals []*TimeInterval

	minTime time.Time
	maxTime time.Time

	viewStart    time.Time
	viewDuration time.Duration

	opts Options

	totalRows int

	listeners    []Listener
	selListeners []SelectionListener
	selected     *Item
}

// New creates an empty timeline with default options and a one-hour
// viewport starting at the zero time. Bounds start unset; the renderer
// treats an unset-bounds timeline as not ready and skips painting.
func New() *Timeline {
	return &Timeline{
		opts:         DefaultOptions(),
		viewDuration: time.Hour,
	}
}

// Options returns the current configuration.
func (t *Timeline) Options() Options { return t.opts }

// SetOptions replaces the configuration. Paint-only change.
func (t *Timeline) SetOptions(o Options) {
	t.opts = o
	t.notifyPaint()
}

// SetBounds sets the global time extent mapped onto the horizontal
// scroll range. min after max is a configuration error, reported rather
// than silently swapped so scrollbar math never divides a negative span.
func (t *Timeline) SetBounds(minTime, maxTime time.Time) error {
	minTime = minTime.Truncate(time.Second)
	maxTime = maxTime.Truncate(time.Second)
	if minTime.After(maxTime) {
		return errors.New(errors.ErrCodeInvalidConfig,
			"min time %s is after max time %s", minTime.Format(time.RFC3339), maxTime.Format(time.RFC3339))
	}
	t.minTime = minTime
	t.maxTime = maxTime
	t.notify(Change{Kind: ChangeViewport, Index: -1})
	return nil
}

// Bounds returns the global time extent. ok is false before SetBounds.
func (t *Timeline) Bounds() (minTime, maxTime time.Time, ok bool) {
	return t.minTime, t.maxTime, !t.minTime.IsZero() || !t.maxTime.IsZero()
}

// SetViewport sets the visible time window. A non-positive duration is a
// viewport error.
func (t *Timeline) SetViewport(start time.Time, duration time.Duration) error {
	if duration <= 0 {
		return errors.New(errors.ErrCodeInvalidViewport,
			"viewport duration must be positive, got %s", duration)
	}
	t.viewStart = start.Truncate(time.Second)
	t.viewDuration = duration
	t.notify(Change{Kind: ChangeViewport, Index: -1})
	return nil
}

// Viewport returns the visible time window.
func (t *Timeline) Viewport() (start time.Time, duration time.Duration) {
	return t.viewStart, t.viewDuration
}

// ViewportEnd returns the derived exclusive end of the viewport.
func (t *Timeline) ViewportEnd() time.Time {
	return t.viewStart.Add(t.viewDuration)
}

// Pan shifts the viewport start by delta without changing the duration.
func (t *Timeline) Pan(delta time.Duration) {
	if delta == 0 {
		return
	}
	t.viewStart = t.viewStart.Add(delta)
	t.notify(Change{Kind: ChangeViewport, Index: -1})
}

// Zoom scales the viewport duration by factor around its start,
// clamping at MinViewportDuration. Unlike SetViewport this clamps
// instead of erroring: zoom is interactive input, not configuration.
func (t *Timeline) Zoom(factor float64) {
	if factor <= 0 {
		return
	}
	d := time.Duration(float64(t.viewDuration) * factor)
	d = max(d, MinViewportDuration)
	if d == t.viewDuration {
		return
	}
	t.viewDuration = d
	t.notify(Change{Kind: ChangeViewport, Index: -1})
}

// AddLine appends a top-level line node. Returns a STRUCTURE_VIOLATION
// error if the node is already attached somewhere.
func (t *Timeline) AddLine(n LineNode) error {
	if err := linkNode(n, nil, t); err != nil {
		return err
	}
	t.lines = append(t.lines, n)
	n.Recompute()
	t.recomputeTotals()
	t.notify(Change{Kind: ChangeStructure, Index: len(t.lines) - 1})
	return nil
}

// RemoveLine detaches a top-level line node. Unknown nodes are a no-op.
func (t *Timeline) RemoveLine(n LineNode) {
	for i, existing := range t.lines {
		if existing == n {
			t.lines = append(t.lines[:i], t.lines[i+1:]...)
			n.unlink()
			t.recomputeTotals()
			t.notify(Change{Kind: ChangeStructure, Index: i})
			return
		}
	}
}

// Lines returns the top-level line nodes in order.
func (t *Timeline) Lines() []LineNode { return t.lines }

// AddCursor attaches a time cursor.
func (t *Timeline) AddCursor(c *TimeCursor) {
	t.cursors = append(t.cursors, c)
	t.notifyPaint()
}

// RemoveCursor detaches a time cursor.
func (t *Timeline) RemoveCursor(c *TimeCursor) {
	for i, existing := range t.cursors {
		if existing == c {
			t.cursors = append(t.cursors[:i], t.cursors[i+1:]...)
			t.notifyPaint()
			return
		}
	}
}

// Cursors returns the attached time cursors.
func (t *Timeline) Cursors() []*TimeCursor { return t.cursors }

// AddInterval attaches a timeline-global interval.
func (t *Timeline) AddInterval(iv *TimeInterval) {
	t.intervals = append(t.intervals, iv)
	t.notifyPaint()
}

// Intervals returns the timeline-global intervals.
func (t *Timeline) Intervals() []*TimeInterval { return t.intervals }

// TotalRows returns the aggregate row count over all top-level lines.
// It is recomputed synchronously on every structural mutation, so it is
// always consistent with the tree.
func (t *Timeline) TotalRows() int { return t.totalRows }

// RecomputeStructure recomputes the full forest post-order and returns
// whether any node's row accounting changed. Mutations keep structure
// consistent incrementally; this exists for bulk loading paths.
func (t *Timeline) RecomputeStructure() bool {
	changed := false
	for _, n := range t.lines {
		if n.Recompute() {
			changed = true
		}
	}
	t.recomputeTotals()
	return changed
}

// Subscribe registers a change listener.
func (t *Timeline) Subscribe(l Listener) {
	t.listeners = append(t.listeners, l)
}

// Select updates the single-selection holder. Selecting the already
// selected item is a no-op; any actual change notifies selection
// listeners and requests a repaint for highlight styling.
func (t *Timeline) Select(it *Item) {
	if t.selected == it {
		return
	}
	t.selected = it
	for _, l := range t.selListeners {
		l(it)
	}
	t.notifyPaint()
}

// Selected returns the selected item, or nil.
func (t *Timeline) Selected() *Item { return t.selected }

// OnSelect registers a selection listener.
func (t *Timeline) OnSelect(l SelectionListener) {
	t.selListeners = append(t.selListeners, l)
}

// structureChanged is called by nodes after an in-place structural
// mutation below the given node. Aggregates are refreshed synchronously
// and listeners are notified with the top-level index of the affected
// subtree.
func (t *Timeline) structureChanged(n LineNode) {
	root := n
	for root.Parent() != nil {
		root = root.Parent()
	}
	// Re-derive ancestor row counts bottom-up. Recompute on the root is
	// post-order, so one call covers the whole affected subtree.
	root.Recompute()
	t.recomputeTotals()
	t.notify(Change{Kind: ChangeStructure, Index: t.indexOf(root), InPlace: true})
}

func (t *Timeline) indexOf(n LineNode) int {
	for i, existing := range t.lines {
		if existing == n {
			return i
		}
	}
	return -1
}

func (t *Timeline) recomputeTotals() {
	total := 0
	for _, n := range t.lines {
		total += n.RowCount()
	}
	t.totalRows = total
}

func (t *Timeline) notifyPaint() {
	t.notify(Change{Kind: ChangePaint, Index: -1})
}

func (t *Timeline) notify(c Change) {
	for _, l := range t.listeners {
		l(c)
	}
}
