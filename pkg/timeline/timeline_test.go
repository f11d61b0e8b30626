package timeline

import (
	"testing"
	"time"

	"github.com/ganttkit/ganttkit/pkg/errors"
)

func TestTimelineSetBoundsValidation(t *testing.T) {
	tl := New()

	if err := tl.SetBounds(t0, t0.Add(time.Hour)); err != nil {
		t.Fatalf("SetBounds: %v", err)
	}
	if _, _, ok := tl.Bounds(); !ok {
		t.Error("Bounds ok = false after SetBounds")
	}

	err := tl.SetBounds(t0.Add(time.Hour), t0)
	if !errors.Is(err, errors.ErrCodeInvalidConfig) {
		t.Errorf("inverted bounds error = %v, want INVALID_CONFIG", err)
	}
}

func TestTimelineSetViewportValidation(t *testing.T) {
	tl := New()

	if err := tl.SetViewport(t0, 0); !errors.Is(err, errors.ErrCodeInvalidViewport) {
		t.Errorf("zero duration error = %v, want INVALID_VIEWPORT", err)
	}
	if err := tl.SetViewport(t0, -time.Minute); !errors.Is(err, errors.ErrCodeInvalidViewport) {
		t.Errorf("negative duration error = %v, want INVALID_VIEWPORT", err)
	}
	if err := tl.SetViewport(t0, time.Minute); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}

	start, d := tl.Viewport()
	if !start.Equal(t0) || d != time.Minute {
		t.Errorf("Viewport = (%v, %v), want (%v, %v)", start, d, t0, time.Minute)
	}
	if want := t0.Add(time.Minute); !tl.ViewportEnd().Equal(want) {
		t.Errorf("ViewportEnd = %v, want %v", tl.ViewportEnd(), want)
	}
}

func TestTimelineZoomClampsAtFloor(t *testing.T) {
	tl := New()
	if err := tl.SetViewport(t0, 12*time.Second); err != nil {
		t.Fatal(err)
	}

	tl.Zoom(0.5)
	if _, d := tl.Viewport(); d != MinViewportDuration {
		t.Errorf("duration after shrink = %v, want clamped to %v", d, MinViewportDuration)
	}

	tl.Zoom(1.1)
	if _, d := tl.Viewport(); d != 11*time.Second {
		t.Errorf("duration after grow = %v, want 11s", d)
	}
}

func TestTimelineAttachDetach(t *testing.T) {
	tl := New()
	line := NewTaskLine("work")

	if err := tl.AddLine(line); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	if line.Timeline() != tl {
		t.Error("owning timeline not set on attach")
	}
	if line.Parent() != nil {
		t.Error("top-level line must have nil parent")
	}

	// Second attach anywhere fails fast.
	other := New()
	if err := other.AddLine(line); !errors.Is(err, errors.ErrCodeStructure) {
		t.Errorf("double attach error = %v, want STRUCTURE_VIOLATION", err)
	}
	g := NewFlatGroup("group")
	if err := g.AddChild(line); !errors.Is(err, errors.ErrCodeStructure) {
		t.Errorf("attach to group while owned error = %v, want STRUCTURE_VIOLATION", err)
	}

	// Detach clears linkage; reattach succeeds.
	tl.RemoveLine(line)
	if line.Timeline() != nil {
		t.Error("owning timeline not cleared on detach")
	}
	if err := other.AddLine(line); err != nil {
		t.Fatalf("reattach after detach: %v", err)
	}
}

func TestTimelineAttachPropagatesToSubtree(t *testing.T) {
	g := NewHierarchicalGroup("outer")
	inner := NewFlatGroup("inner")
	leaf := NewTaskLine("leaf")
	if err := inner.AddChild(leaf); err != nil {
		t.Fatal(err)
	}
	if err := g.AddChild(inner); err != nil {
		t.Fatal(err)
	}

	tl := New()
	if err := tl.AddLine(g); err != nil {
		t.Fatalf("AddLine: %v", err)
	}

	if inner.Timeline() != tl || leaf.Timeline() != tl {
		t.Error("owning timeline not propagated to descendants on attach")
	}
	if leaf.Parent() != inner || inner.Parent() != LineNode(g) {
		t.Error("parent pointers disturbed by attach")
	}

	tl.RemoveLine(g)
	if inner.Timeline() != nil || leaf.Timeline() != nil {
		t.Error("owning timeline not cleared from descendants on detach")
	}
	if leaf.Parent() != inner {
		t.Error("detach must keep parent linkage inside the subtree")
	}
}

func TestTimelineCycleRejected(t *testing.T) {
	outer := NewFlatGroup("outer")
	inner := NewFlatGroup("inner")
	if err := outer.AddChild(inner); err != nil {
		t.Fatal(err)
	}

	// inner already has a parent.
	if err := inner.AddChild(outer); !errors.Is(err, errors.ErrCodeStructure) {
		t.Errorf("cyclic attach error = %v, want STRUCTURE_VIOLATION", err)
	}
}

func TestTimelineTotalRows(t *testing.T) {
	tl := New()
	if err := tl.AddLine(lineWithRows(t, "a", 2)); err != nil {
		t.Fatal(err)
	}
	g := NewFlatGroup("g")
	if err := g.AddChild(lineWithRows(t, "b", 3)); err != nil {
		t.Fatal(err)
	}
	if err := tl.AddLine(g); err != nil {
		t.Fatal(err)
	}

	if got := tl.TotalRows(); got != 5 {
		t.Errorf("TotalRows = %d, want 5", got)
	}

	// Collapsing the group updates aggregates synchronously.
	g.SetCollapsed(true)
	if got := tl.TotalRows(); got != 3 {
		t.Errorf("TotalRows after collapse = %d, want 3", got)
	}
}

func TestTimelineStructuralNotificationOnItemEdit(t *testing.T) {
	tl := New()
	line := NewTaskLine("work")
	if err := tl.AddLine(line); err != nil {
		t.Fatal(err)
	}

	a := NewItem("a", t0, 100*time.Second)
	b := NewItem("b", t0.Add(200*time.Second), 100*time.Second)
	if err := line.AddItem(a); err != nil {
		t.Fatal(err)
	}
	if err := line.AddItem(b); err != nil {
		t.Fatal(err)
	}
	if got := tl.TotalRows(); got != 1 {
		t.Fatalf("TotalRows = %d, want 1", got)
	}

	var changes []Change
	tl.Subscribe(func(c Change) { changes = append(changes, c) })

	// Moving b over a splits the line into two rows and notifies with
	// the affected top-level index.
	b.SetStart(t0.Add(30 * time.Second))

	if got := tl.TotalRows(); got != 2 {
		t.Errorf("TotalRows after move = %d, want 2", got)
	}
	if len(changes) != 1 {
		t.Fatalf("changes = %d, want 1", len(changes))
	}
	c := changes[0]
	if c.Kind != ChangeStructure || c.Index != 0 || !c.InPlace {
		t.Errorf("change = %+v, want in-place structure change at index 0", c)
	}
}

func TestTimelineRowCountIndependentOfViewport(t *testing.T) {
	tl := New()
	line := NewTaskLine("work")
	if err := tl.AddLine(line); err != nil {
		t.Fatal(err)
	}
	if err := line.AddItem(NewItem("a", t0, 140*time.Second)); err != nil {
		t.Fatal(err)
	}
	if err := line.AddItem(NewItem("b", t0.Add(30*time.Second), 7000*time.Second)); err != nil {
		t.Fatal(err)
	}
	before := line.RowCount()

	// Pan and zoom far away from the items; packing must not change.
	if err := tl.SetViewport(t0.Add(24*time.Hour), time.Minute); err != nil {
		t.Fatal(err)
	}
	tl.Zoom(10)
	tl.Pan(-48 * time.Hour)
	tl.RecomputeStructure()

	if got := line.RowCount(); got != before {
		t.Errorf("RowCount changed with viewport: %d → %d", before, got)
	}
}

func TestTimelineSelection(t *testing.T) {
	tl := New()
	line := NewTaskLine("work")
	if err := tl.AddLine(line); err != nil {
		t.Fatal(err)
	}
	it := NewItem("a", t0, time.Minute)
	if err := line.AddItem(it); err != nil {
		t.Fatal(err)
	}

	var observed []*Item
	tl.OnSelect(func(sel *Item) { observed = append(observed, sel) })

	tl.Select(it)
	tl.Select(it) // no-op
	tl.Select(nil)

	if tl.Selected() != nil {
		t.Error("Selected should be nil after deselect")
	}
	if len(observed) != 2 {
		t.Fatalf("selection notifications = %d, want 2 (reselect is a no-op)", len(observed))
	}
	if observed[0] != it || observed[1] != nil {
		t.Error("selection listener saw wrong values")
	}
}

func TestTimelineChangeOrderIsFIFO(t *testing.T) {
	tl := New()
	var kinds []ChangeKind
	tl.Subscribe(func(c Change) { kinds = append(kinds, c.Kind) })

	line := NewTaskLine("work")
	if err := tl.AddLine(line); err != nil {
		t.Fatal(err)
	}
	if err := tl.SetViewport(t0, time.Hour); err != nil {
		t.Fatal(err)
	}
	tl.AddCursor(NewTimeCursor(t0))

	want := []ChangeKind{ChangeStructure, ChangeViewport, ChangePaint}
	if len(kinds) != len(want) {
		t.Fatalf("changes = %d, want %d", len(kinds), len(want))
	}
	for i := range want {
		if kinds[i] != want[i] {
			t.Errorf("change %d = %v, want %v", i, kinds[i], want[i])
		}
	}
}
