package timeline

import (
	"testing"
	"time"
)

// lineWithRows builds a task line packing into exactly n rows by stacking
// n items over the same span.
func lineWithRows(t *testing.T, name string, n int) *TaskLine {
	t.Helper()
	l := NewTaskLine(name)
	for i := 0; i < n; i++ {
		if err := l.AddItem(NewItem(name, t0, time.Hour)); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	l.Recompute()
	return l
}

func TestFlatGroupRowAggregation(t *testing.T) {
	g := NewFlatGroup("phase")
	for _, rc := range []int{1, 2, 1} {
		if err := g.AddChild(lineWithRows(t, "line", rc)); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}
	g.Recompute()

	if got := g.RowCount(); got != 4 {
		t.Errorf("expanded RowCount = %d, want 4", got)
	}

	g.SetCollapsed(true)
	g.Recompute()
	if got := g.RowCount(); got != 1 {
		t.Errorf("collapsed RowCount = %d, want 1", got)
	}
}

func TestHierarchicalGroupAddsHeaderRow(t *testing.T) {
	g := NewHierarchicalGroup("phase")
	for _, rc := range []int{1, 2, 1} {
		if err := g.AddChild(lineWithRows(t, "line", rc)); err != nil {
			t.Fatalf("AddChild: %v", err)
		}
	}
	g.Recompute()

	if got := g.RowCount(); got != 5 {
		t.Errorf("expanded RowCount = %d, want 5 (children plus header row)", got)
	}

	g.SetCollapsed(true)
	g.Recompute()
	if got := g.RowCount(); got != 1 {
		t.Errorf("collapsed RowCount = %d, want 1", got)
	}
}

func TestGroupCollapseIdempotence(t *testing.T) {
	g := NewFlatGroup("phase")
	if err := g.AddChild(lineWithRows(t, "line", 3)); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	g.Recompute()
	before := g.RowCount()

	g.SetCollapsed(true)
	g.Recompute()
	g.SetCollapsed(false)
	g.Recompute()

	if got := g.RowCount(); got != before {
		t.Errorf("RowCount after toggle twice = %d, want %d", got, before)
	}
}

func TestDetachedCollapseRefreshesRowCount(t *testing.T) {
	g := NewFlatGroup("phase")
	if err := g.AddChild(lineWithRows(t, "line", 3)); err != nil {
		t.Fatalf("AddChild: %v", err)
	}

	// No explicit Recompute: a detached group keeps its own counts fresh.
	g.SetCollapsed(true)
	if got := g.RowCount(); got != 1 {
		t.Errorf("RowCount after detached collapse = %d, want 1", got)
	}
	g.SetCollapsed(false)
	if got := g.RowCount(); got != 3 {
		t.Errorf("RowCount after detached expand = %d, want 3", got)
	}
}

func TestNestedMutationRecomputesAncestors(t *testing.T) {
	tl := New()
	inner := NewFlatGroup("inner")
	if err := inner.AddChild(lineWithRows(t, "a", 2)); err != nil {
		t.Fatal(err)
	}
	outer := NewHierarchicalGroup("outer")
	if err := outer.AddChild(inner); err != nil {
		t.Fatal(err)
	}
	if err := tl.AddLine(outer); err != nil {
		t.Fatal(err)
	}
	if got := tl.TotalRows(); got != 3 {
		t.Fatalf("TotalRows = %d, want 3", got)
	}

	var structural int
	tl.Subscribe(func(c Change) {
		if c.Kind == ChangeStructure {
			structural++
		}
	})

	inner.SetCollapsed(true)
	if got := outer.RowCount(); got != 2 {
		t.Errorf("outer RowCount after nested collapse = %d, want 2", got)
	}
	if got := tl.TotalRows(); got != 2 {
		t.Errorf("TotalRows after nested collapse = %d, want 2", got)
	}
	if structural != 1 {
		t.Errorf("structural notifications = %d, want 1", structural)
	}
}

func TestGroupCollapseRequiresCollapsible(t *testing.T) {
	g := NewFlatGroup("phase")
	if err := g.AddChild(lineWithRows(t, "line", 2)); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	g.SetCollapsible(false)
	g.SetCollapsed(true)
	g.Recompute()

	if got := g.RowCount(); got != 2 {
		t.Errorf("RowCount = %d, want 2 (collapse must not take effect while not collapsible)", got)
	}
	if g.EffectiveCollapsed() {
		t.Error("EffectiveCollapsed = true, want false")
	}

	// Re-enabling collapsibility lets the pending request take effect.
	g.SetCollapsible(true)
	g.Recompute()
	if got := g.RowCount(); got != 1 {
		t.Errorf("RowCount = %d, want 1 after enabling collapsibility", got)
	}
}

func TestGroupEmptyStillOneRow(t *testing.T) {
	flat := NewFlatGroup("empty")
	flat.Recompute()
	if got := flat.RowCount(); got != 1 {
		t.Errorf("empty flat group RowCount = %d, want 1", got)
	}

	hier := NewHierarchicalGroup("empty")
	hier.Recompute()
	if got := hier.RowCount(); got != 1 {
		t.Errorf("empty hierarchical group RowCount = %d, want 1", got)
	}
}

func TestGroupRecomputeReportsChange(t *testing.T) {
	g := NewFlatGroup("phase")
	child := lineWithRows(t, "line", 1)
	if err := g.AddChild(child); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	g.Recompute()

	if g.Recompute() {
		t.Error("Recompute with no mutation reported a change")
	}

	// Forcing a second row on the child propagates as a change.
	if err := child.AddItem(NewItem("overlap", t0, time.Hour)); err != nil {
		t.Fatalf("AddItem: %v", err)
	}
	if !g.Recompute() {
		t.Error("Recompute after child grew a row reported no change")
	}
	if got := g.RowCount(); got != 2 {
		t.Errorf("RowCount = %d, want 2", got)
	}
}

func TestGroupNestedAggregation(t *testing.T) {
	outer := NewHierarchicalGroup("outer")
	inner := NewFlatGroup("inner")
	if err := inner.AddChild(lineWithRows(t, "a", 2)); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := outer.AddChild(inner); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	if err := outer.AddChild(lineWithRows(t, "b", 1)); err != nil {
		t.Fatalf("AddChild: %v", err)
	}
	outer.Recompute()

	// 1 header + inner(2) + b(1)
	if got := outer.RowCount(); got != 4 {
		t.Errorf("RowCount = %d, want 4", got)
	}

	// Collapsing the inner group shrinks it to one row.
	inner.SetCollapsed(true)
	outer.Recompute()
	if got := outer.RowCount(); got != 3 {
		t.Errorf("RowCount after inner collapse = %d, want 3", got)
	}
}

func TestGroupDescendantItems(t *testing.T) {
	outer := NewHierarchicalGroup("outer")
	inner := NewFlatGroup("inner")
	a := NewTaskLine("a")
	b := NewTaskLine("b")

	itA := NewItem("ia", t0, time.Minute)
	itB := NewItem("ib", t0, time.Minute)
	if err := a.AddItem(itA); err != nil {
		t.Fatal(err)
	}
	if err := b.AddItem(itB); err != nil {
		t.Fatal(err)
	}
	if err := inner.AddChild(a); err != nil {
		t.Fatal(err)
	}
	if err := outer.AddChild(inner); err != nil {
		t.Fatal(err)
	}
	if err := outer.AddChild(b); err != nil {
		t.Fatal(err)
	}

	items := outer.DescendantItems()
	if len(items) != 2 {
		t.Fatalf("DescendantItems = %d items, want 2", len(items))
	}
	if items[0] != itA || items[1] != itB {
		t.Error("DescendantItems not in depth-first container order")
	}
}
