package timeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/ganttkit/ganttkit/pkg/errors"
	"github.com/ganttkit/ganttkit/pkg/geom"
	"github.com/ganttkit/ganttkit/pkg/timeline/pack"
)

// LineNode is a renderable row-producing element of the line tree: a
// TaskLine leaf or one of the two composite group kinds. The closed set
// of implementations is *TaskLine, *FlatGroup and *HierarchicalGroup;
// the renderer dispatches on the concrete type.
type LineNode interface {
	// Name returns the node's display name.
	Name() string
	// Description returns the optional description shown in the
	// additional panel.
	Description() string
	// Parent returns the parent group, or nil for a top-level node.
	Parent() LineNode
	// Timeline returns the owning timeline, or nil while detached.
	Timeline() *Timeline
	// RowCount returns the number of rendering rows from the last
	// structural recompute. Always at least 1.
	RowCount() int
	// Recompute re-derives the node's row count (post-order for
	// groups) and reports whether it changed.
	Recompute() bool
	// Bounds returns the node's last-rendered pixel rectangle, or nil.
	Bounds() *geom.Rect
	// SetBounds records the node's last-rendered pixel rectangle.
	SetBounds(geom.Rect)
	// NotRendered clears the node's cached bounds recursively; called
	// when the node scrolls out of view.
	NotRendered()

	// link wires the parent and owning-timeline back-references,
	// failing fast when the node is already attached elsewhere.
	link(parent LineNode, tl *Timeline) error
	// unlink clears both back-references recursively.
	unlink()
}

// linkNode validates and establishes linkage for any node kind.
// Attaching a node that already belongs to a parent or timeline is a
// structural violation; reparenting requires an explicit detach first.
func linkNode(n LineNode, parent LineNode, tl *Timeline) error {
	if n.Parent() != nil || n.Timeline() != nil {
		return errors.New(errors.ErrCodeStructure,
			"line %q is already attached; detach it before reattaching", n.Name())
	}
	for p := parent; p != nil; p = p.Parent() {
		if p == n {
			return errors.New(errors.ErrCodeStructure,
				"attaching line %q would create a cycle", n.Name())
		}
	}
	return n.link(parent, tl)
}

// TaskLine is a leaf line owning an ordered list of task items. Items
// whose spans overlap are split over multiple sub-rows by the row packer;
// the packing depends only on item spans, never on the viewport.
type TaskLine struct {
	id          uuid.UUID
	name        string
	description string
	// Separator draws a trailing horizontal rule under the line.
	Separator bool

	items     []*Item
	intervals []*TimeInterval

	rows     [][]*Item
	rowCount int

	parent   LineNode
	timeline *Timeline
	bounds   *geom.Rect
}

// NewTaskLine creates a detached task line.
func NewTaskLine(name string) *TaskLine {
	return &TaskLine{
		id:       uuid.New(),
		name:     name,
		rowCount: 1,
	}
}

// ID returns the line's stable identity.
func (l *TaskLine) ID() uuid.UUID { return l.id }

// Name returns the line's display name.
func (l *TaskLine) Name() string { return l.name }

// SetName updates the display name. Paint-only change.
func (l *TaskLine) SetName(name string) {
	if l.name == name {
		return
	}
	l.name = name
	if l.timeline != nil {
		l.timeline.notifyPaint()
	}
}

// Description returns the line's description.
func (l *TaskLine) Description() string { return l.description }

// SetDescription updates the line's description. Paint-only change.
func (l *TaskLine) SetDescription(d string) {
	l.description = d
	if l.timeline != nil {
		l.timeline.notifyPaint()
	}
}

// Parent returns the parent group, or nil.
func (l *TaskLine) Parent() LineNode { return l.parent }

// Timeline returns the owning timeline, or nil.
func (l *TaskLine) Timeline() *Timeline { return l.timeline }

// AddItem appends an item to the line and triggers a structural
// recompute. Returns a STRUCTURE_VIOLATION error if the item already
// belongs to a line.
func (l *TaskLine) AddItem(it *Item) error {
	if it.line != nil {
		return errors.New(errors.ErrCodeStructure,
			"item %q is already attached to line %q", it.Name(), it.line.Name())
	}
	it.line = l
	l.items = append(l.items, it)
	l.itemStructureChanged()
	return nil
}

// RemoveItem detaches an item from the line. Removing an item that is
// not on the line is a no-op.
func (l *TaskLine) RemoveItem(it *Item) {
	for i, existing := range l.items {
		if existing == it {
			l.items = append(l.items[:i], l.items[i+1:]...)
			it.line = nil
			it.ClearBounds()
			l.itemStructureChanged()
			return
		}
	}
}

// Items returns the line's items in container order.
func (l *TaskLine) Items() []*Item { return l.items }

// AddInterval attaches a line-level time interval.
func (l *TaskLine) AddInterval(iv *TimeInterval) {
	l.intervals = append(l.intervals, iv)
	if l.timeline != nil {
		l.timeline.notifyPaint()
	}
}

// Intervals returns the line-level intervals in insertion order.
func (l *TaskLine) Intervals() []*TimeInterval { return l.intervals }

// RowCount returns the row count from the last packer run (at least 1).
func (l *TaskLine) RowCount() int { return l.rowCount }

// Rows returns the packed sub-rows from the last structural recompute,
// ordered top to bottom. May be empty for a line without items, which
// still renders one (label) row.
func (l *TaskLine) Rows() [][]*Item { return l.rows }

// Recompute re-runs the row packer and reports whether the row count
// changed.
func (l *TaskLine) Recompute() bool {
	l.rows = pack.Rows(l.items)
	rc := pack.Count(l.rows)
	if rc == l.rowCount {
		return false
	}
	l.rowCount = rc
	return true
}

// Span returns the extent of the line's items: the earliest start and
// latest effective end. ok is false for a line without items.
func (l *TaskLine) Span() (start, end time.Time, ok bool) {
	for _, it := range l.items {
		s, e := it.Span()
		if !ok || s.Before(start) {
			start = s
		}
		if !ok || e.After(end) {
			end = e
		}
		ok = true
	}
	return start, end, ok
}

// Bounds returns the line's last-rendered rectangle, or nil.
func (l *TaskLine) Bounds() *geom.Rect { return l.bounds }

// SetBounds records the line's last-rendered rectangle.
func (l *TaskLine) SetBounds(r geom.Rect) { l.bounds = &r }

// Contains reports whether (x, y) falls inside the last-rendered bounds.
func (l *TaskLine) Contains(x, y float64) bool {
	return l.bounds != nil && l.bounds.Contains(x, y)
}

// HitItem resolves (x, y) to the item whose last-rendered bounds contain
// the point, or nil.
func (l *TaskLine) HitItem(x, y float64) *Item {
	for _, it := range l.items {
		if b := it.Bounds(); b != nil && b.Contains(x, y) {
			return it
		}
	}
	return nil
}

// NotRendered clears the line's and all items' cached bounds. Pure
// bookkeeping, no layout cost.
func (l *TaskLine) NotRendered() {
	l.bounds = nil
	for _, it := range l.items {
		it.ClearBounds()
	}
	for _, iv := range l.intervals {
		iv.ClearBounds()
	}
}

// itemStructureChanged escalates an item mutation to the owning
// timeline, whose root recompute re-packs the line. A detached line
// re-packs locally.
func (l *TaskLine) itemStructureChanged() {
	if l.timeline == nil {
		l.Recompute()
		return
	}
	l.timeline.structureChanged(l)
}

func (l *TaskLine) link(parent LineNode, tl *Timeline) error {
	l.parent = parent
	l.timeline = tl
	return nil
}

func (l *TaskLine) unlink() {
	l.parent = nil
	l.timeline = nil
	l.NotRendered()
}
