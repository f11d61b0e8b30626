package timeline

import (
	"github.com/google/uuid"

	"github.com/ganttkit/ganttkit/pkg/geom"
)

// group carries the state shared by both composite line kinds. The
// concrete kinds differ only in row accounting and rendering shape, so
// everything else lives here and the variant-specific logic stays in
// free functions and the outer types.
type group struct {
	id          uuid.UUID
	name        string
	description string

	children  []LineNode
	intervals []*TimeInterval

	// collapsed is the requested state; it only takes visual effect
	// while the group is collapsible. effCollapsed is the resolved
	// state from the last recompute.
	collapsed    bool
	collapsible  bool
	effCollapsed bool

	rowCount int

	parent   LineNode
	timeline *Timeline
	bounds   *geom.Rect
	// toggleBounds is the collapse button rectangle from the last
	// render, used to route collapse clicks.
	toggleBounds *geom.Rect
}

func newGroup(name string) group {
	return group{
		id:          uuid.New(),
		name:        name,
		collapsible: true,
		rowCount:    1,
	}
}

// ID returns the group's stable identity.
func (g *group) ID() uuid.UUID { return g.id }

// Name returns the group's display name.
func (g *group) Name() string { return g.name }

// SetName updates the display name. Paint-only change.
func (g *group) SetName(name string) {
	if g.name == name {
		return
	}
	g.name = name
	if g.timeline != nil {
		g.timeline.notifyPaint()
	}
}

// Description returns the group's description.
func (g *group) Description() string { return g.description }

// SetDescription updates the group's description. Paint-only change.
func (g *group) SetDescription(d string) {
	g.description = d
	if g.timeline != nil {
		g.timeline.notifyPaint()
	}
}

// Parent returns the parent group, or nil.
func (g *group) Parent() LineNode { return g.parent }

// Timeline returns the owning timeline, or nil.
func (g *group) Timeline() *Timeline { return g.timeline }

// Children returns the child nodes in container order.
func (g *group) Children() []LineNode { return g.children }

// Collapsed returns the requested collapse state.
func (g *group) Collapsed() bool { return g.collapsed }

// EffectiveCollapsed returns the resolved collapse state from the last
// recompute: requested state gated by collapsibility.
func (g *group) EffectiveCollapsed() bool { return g.effCollapsed }

// Collapsible returns whether collapse requests take visual effect.
func (g *group) Collapsible() bool { return g.collapsible }

// AddInterval attaches a group-level time interval.
func (g *group) AddInterval(iv *TimeInterval) {
	g.intervals = append(g.intervals, iv)
	if g.timeline != nil {
		g.timeline.notifyPaint()
	}
}

// Intervals returns the group-level intervals in insertion order.
func (g *group) Intervals() []*TimeInterval { return g.intervals }

// RowCount returns the row count from the last structural recompute.
func (g *group) RowCount() int { return g.rowCount }

// Bounds returns the group's last-rendered rectangle, or nil.
func (g *group) Bounds() *geom.Rect { return g.bounds }

// SetBounds records the group's last-rendered rectangle.
func (g *group) SetBounds(r geom.Rect) { g.bounds = &r }

// Contains reports whether (x, y) falls inside the last-rendered bounds.
func (g *group) Contains(x, y float64) bool {
	return g.bounds != nil && g.bounds.Contains(x, y)
}

// ToggleBounds returns the collapse button rectangle from the last
// render, or nil while off screen.
func (g *group) ToggleBounds() *geom.Rect { return g.toggleBounds }

// SetToggleBounds records the collapse button rectangle.
func (g *group) SetToggleBounds(r geom.Rect) { g.toggleBounds = &r }

// HitToggle reports whether (x, y) falls inside the collapse button.
func (g *group) HitToggle(x, y float64) bool {
	return g.toggleBounds != nil && g.toggleBounds.Contains(x, y)
}

// NotRendered clears cached bounds recursively.
func (g *group) NotRendered() {
	g.bounds = nil
	g.toggleBounds = nil
	for _, iv := range g.intervals {
		iv.ClearBounds()
	}
	for _, c := range g.children {
		c.NotRendered()
	}
}

// addChild links a child below self (the group's outer value) and
// triggers a structural recompute.
func (g *group) addChild(self LineNode, child LineNode) error {
	if err := linkNode(child, self, g.timeline); err != nil {
		return err
	}
	g.children = append(g.children, child)
	g.childStructureChanged(self)
	return nil
}

// removeChild detaches a child from self. Unknown children are a no-op.
func (g *group) removeChild(self LineNode, child LineNode) {
	for i, existing := range g.children {
		if existing == child {
			g.children = append(g.children[:i], g.children[i+1:]...)
			child.unlink()
			g.childStructureChanged(self)
			return
		}
	}
}

// setCollapsed requests a collapse state change on self.
func (g *group) setCollapsed(self LineNode, collapsed bool) {
	if g.collapsed == collapsed {
		return
	}
	g.collapsed = collapsed
	g.childStructureChanged(self)
}

// setCollapsible updates whether collapse requests take effect for self.
func (g *group) setCollapsible(self LineNode, collapsible bool) {
	if g.collapsible == collapsible {
		return
	}
	g.collapsible = collapsible
	g.childStructureChanged(self)
}

func (g *group) childStructureChanged(self LineNode) {
	if g.timeline == nil {
		// Detached subtree: keep row counts fresh locally. Attached
		// nodes are covered by the root's post-order recompute in
		// structureChanged.
		self.Recompute()
		return
	}
	g.timeline.structureChanged(self)
}

// linkSubtree attaches self and re-links every descendant to the new
// owning timeline.
func (g *group) linkSubtree(self LineNode, parent LineNode, tl *Timeline) error {
	g.parent = parent
	g.timeline = tl
	for _, c := range g.children {
		relinkChild(c, self, tl)
	}
	return nil
}

// relinkChild rewires an already-owned child to a new timeline without
// the double-attach check, preserving the parent pointer.
func relinkChild(c LineNode, parent LineNode, tl *Timeline) {
	switch n := c.(type) {
	case *TaskLine:
		n.parent = parent
		n.timeline = tl
	case *FlatGroup:
		n.group.parent = parent
		n.group.timeline = tl
		for _, cc := range n.group.children {
			relinkChild(cc, n, tl)
		}
	case *HierarchicalGroup:
		n.group.parent = parent
		n.group.timeline = tl
		for _, cc := range n.group.children {
			relinkChild(cc, n, tl)
		}
	}
}

func (g *group) unlinkSubtree() {
	g.parent = nil
	g.timeline = nil
	g.bounds = nil
	g.toggleBounds = nil
	for _, c := range g.children {
		clearTimeline(c)
	}
}

// clearTimeline drops the owning-timeline pointer across a subtree while
// keeping parent linkage inside the detached subtree intact.
func clearTimeline(c LineNode) {
	switch n := c.(type) {
	case *TaskLine:
		n.timeline = nil
		n.NotRendered()
	case *FlatGroup:
		n.group.timeline = nil
		n.group.bounds = nil
		n.group.toggleBounds = nil
		for _, cc := range n.group.children {
			clearTimeline(cc)
		}
	case *HierarchicalGroup:
		n.group.timeline = nil
		n.group.bounds = nil
		n.group.toggleBounds = nil
		for _, cc := range n.group.children {
			clearTimeline(cc)
		}
	}
}

// recomputeChildren recomputes all children post-order and resolves the
// effective collapse state. Returns whether any child changed and whether
// the resolved collapse flag flipped.
func (g *group) recomputeChildren() (childChanged, collapseFlipped bool) {
	for _, c := range g.children {
		if c.Recompute() {
			childChanged = true
		}
	}
	eff := g.collapsed && g.collapsible
	if eff != g.effCollapsed {
		g.effCollapsed = eff
		collapseFlipped = true
	}
	return childChanged, collapseFlipped
}

// childRowSum returns the combined row count of all children.
func (g *group) childRowSum() int {
	sum := 0
	for _, c := range g.children {
		sum += c.RowCount()
	}
	return sum
}

// DescendantItems returns every task item below the group, depth-first
// in container order. Used for collapsed-group projections.
func (g *group) DescendantItems() []*Item {
	var items []*Item
	for _, c := range g.children {
		switch n := c.(type) {
		case *TaskLine:
			items = append(items, n.Items()...)
		case *FlatGroup:
			items = append(items, n.DescendantItems()...)
		case *HierarchicalGroup:
			items = append(items, n.DescendantItems()...)
		}
	}
	return items
}

// FlatGroup renders a single rotated label block spanning the union of
// all descendant rows; it contributes no extra row of its own while
// expanded and exactly one row while collapsed.
type FlatGroup struct {
	group
}

// NewFlatGroup creates a detached flat group.
func NewFlatGroup(name string) *FlatGroup {
	return &FlatGroup{group: newGroup(name)}
}

// AddChild attaches a child line or group.
func (g *FlatGroup) AddChild(child LineNode) error { return g.addChild(g, child) }

// RemoveChild detaches a child.
func (g *FlatGroup) RemoveChild(child LineNode) { g.removeChild(g, child) }

// SetCollapsed requests a collapse state change.
func (g *FlatGroup) SetCollapsed(collapsed bool) { g.setCollapsed(g, collapsed) }

// SetCollapsible updates whether collapse requests take effect.
func (g *FlatGroup) SetCollapsible(collapsible bool) { g.setCollapsible(g, collapsible) }

// Recompute recomputes children post-order, resolves collapse state and
// re-derives the row count. Reports whether anything changed.
func (g *FlatGroup) Recompute() bool {
	childChanged, collapseFlipped := g.recomputeChildren()

	rc := 1
	if !g.effCollapsed {
		rc = max(1, g.childRowSum())
	}
	rowsChanged := rc != g.rowCount
	g.rowCount = rc

	return childChanged || collapseFlipped || rowsChanged
}

func (g *FlatGroup) link(parent LineNode, tl *Timeline) error {
	return g.linkSubtree(g, parent, tl)
}

func (g *FlatGroup) unlink() { g.unlinkSubtree() }

// HierarchicalGroup renders its own name on a dedicated first row and
// indents its children horizontally. Expanded it adds one row over the
// sum of its children; collapsed it reports a single row like any group.
type HierarchicalGroup struct {
	group
}

// NewHierarchicalGroup creates a detached hierarchical group.
func NewHierarchicalGroup(name string) *HierarchicalGroup {
	return &HierarchicalGroup{group: newGroup(name)}
}

// AddChild attaches a child line or group.
func (g *HierarchicalGroup) AddChild(child LineNode) error { return g.addChild(g, child) }

// RemoveChild detaches a child.
func (g *HierarchicalGroup) RemoveChild(child LineNode) { g.removeChild(g, child) }

// SetCollapsed requests a collapse state change.
func (g *HierarchicalGroup) SetCollapsed(collapsed bool) { g.setCollapsed(g, collapsed) }

// SetCollapsible updates whether collapse requests take effect.
func (g *HierarchicalGroup) SetCollapsible(collapsible bool) { g.setCollapsible(g, collapsible) }

// Recompute recomputes children post-order, resolves collapse state and
// re-derives the row count. Reports whether anything changed.
func (g *HierarchicalGroup) Recompute() bool {
	childChanged, collapseFlipped := g.recomputeChildren()

	rc := 1
	if !g.effCollapsed {
		rc = 1 + g.childRowSum()
	}
	rowsChanged := rc != g.rowCount
	g.rowCount = rc

	return childChanged || collapseFlipped || rowsChanged
}

func (g *HierarchicalGroup) link(parent LineNode, tl *Timeline) error {
	return g.linkSubtree(g, parent, tl)
}

func (g *HierarchicalGroup) unlink() { g.unlinkSubtree() }
