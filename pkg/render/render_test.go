package render

import (
	"fmt"
	"image"
	"image/color"
	"math"
	"testing"
	"time"

	"github.com/ganttkit/ganttkit/pkg/geom"
	"github.com/ganttkit/ganttkit/pkg/timeline"
)

// fakeSurface records draw calls instead of rasterizing.
type fakeSurface struct {
	ops []string
}

func (f *fakeSurface) FillRect(r geom.Rect, c color.Color) {
	f.ops = append(f.ops, fmt.Sprintf("fillrect:%v", r))
}
func (f *fakeSurface) StrokeRect(r geom.Rect, c color.Color, lw float64) { f.ops = append(f.ops, "strokerect") }
func (f *fakeSurface) FillRoundedRect(r geom.Rect, rad float64, c color.Color) {
	f.ops = append(f.ops, "roundedrect")
}
func (f *fakeSurface) Line(x1, y1, x2, y2 float64, c color.Color, lw float64) {
	f.ops = append(f.ops, "line")
}
func (f *fakeSurface) FillOval(r geom.Rect, c color.Color)            { f.ops = append(f.ops, "oval") }
func (f *fakeSurface) Text(s string, x, y float64, c color.Color)     { f.ops = append(f.ops, "text:"+s) }
func (f *fakeSurface) TextCentered(s string, cx, cy float64, c color.Color) {
	f.ops = append(f.ops, "ctext:"+s)
}
func (f *fakeSurface) DrawImage(img image.Image, x, y float64) { f.ops = append(f.ops, "image") }
func (f *fakeSurface) PushClip(r geom.Rect)                    { f.ops = append(f.ops, "pushclip") }
func (f *fakeSurface) PopClip()                                { f.ops = append(f.ops, "popclip") }
func (f *fakeSurface) Save()                                   {}
func (f *fakeSurface) Restore()                                {}
func (f *fakeSurface) Translate(dx, dy float64)                {}
func (f *fakeSurface) Rotate(rad float64)                      {}

// fakeMeasurer reports 8px per character and a 12px line height, so
// rowHeight is 20 and headerHeight 22 in every test below.
type fakeMeasurer struct{}

func (fakeMeasurer) MeasureString(s string) (float64, float64) {
	return float64(8 * len(s)), 12
}

var t0 = time.Date(2026, time.March, 2, 8, 0, 0, 0, time.UTC)

// testRenderer builds an 800x600 renderer over a timeline with a 2h
// range and a 1h viewport starting at t0.
func testRenderer(t *testing.T) (*timeline.Timeline, *Renderer, *fakeSurface) {
	t.Helper()
	tl := timeline.New()
	if err := tl.SetBounds(t0, t0.Add(2*time.Hour)); err != nil {
		t.Fatalf("SetBounds: %v", err)
	}
	if err := tl.SetViewport(t0, time.Hour); err != nil {
		t.Fatalf("SetViewport: %v", err)
	}
	surf := &fakeSurface{}
	r := New(tl, surf, fakeMeasurer{}, WithSize(800, 600))
	return tl, r, surf
}

func near(a, b float64) bool { return math.Abs(a-b) < 0.01 }

// fillRectOp formats a rect the way fakeSurface records FillRect calls.
func fillRectOp(r geom.Rect) string { return fmt.Sprintf("fillrect:%v", r) }

// opIndex returns the position of the first op equal to want, or -1.
func opIndex(ops []string, want string) int {
	for i, op := range ops {
		if op == want {
			return i
		}
	}
	return -1
}

func addLine(t *testing.T, tl *timeline.Timeline, name string, items ...*timeline.Item) *timeline.TaskLine {
	t.Helper()
	l := timeline.NewTaskLine(name)
	for _, it := range items {
		if err := l.AddItem(it); err != nil {
			t.Fatalf("AddItem: %v", err)
		}
	}
	if err := tl.AddLine(l); err != nil {
		t.Fatalf("AddLine: %v", err)
	}
	return l
}

func TestPaintCapturesBounds(t *testing.T) {
	tl, r, _ := testRenderer(t)
	a := timeline.NewItem("a", t0, 30*time.Minute)
	b := timeline.NewItem("b", t0.Add(10*time.Minute), 30*time.Minute)
	line := addLine(t, tl, "build", a, b)

	r.Paint()

	if lb := line.Bounds(); lb == nil || !near(lb.Y, 22) || !near(lb.H, 40) {
		t.Fatalf("line bounds = %+v, want y=22 h=40", lb)
	}
	ab := a.Bounds()
	if ab == nil {
		t.Fatal("item a has no bounds after paint")
	}
	// 30 minutes over a 1h/650px scale is 325px starting at the panel edge.
	if !near(ab.X, 150) || !near(ab.W, 325) || !near(ab.Y, 24) || !near(ab.H, 16) {
		t.Fatalf("item a bounds = %+v", *ab)
	}
	if bb := b.Bounds(); bb == nil || !near(bb.Y, 44) {
		t.Fatalf("item b bounds = %+v, want second row at y=44", bb)
	}
	if r.Dirty() {
		t.Fatal("renderer still dirty after paint")
	}
}

func TestPaintSkipsWithoutBounds(t *testing.T) {
	tl := timeline.New()
	surf := &fakeSurface{}
	r := New(tl, surf, fakeMeasurer{}, WithSize(800, 600))
	r.Paint()
	if len(surf.ops) != 0 {
		t.Fatalf("painted %d ops with unset bounds, want none", len(surf.ops))
	}
}

func TestScrollBarSync(t *testing.T) {
	tl, r, _ := testRenderer(t)
	addLine(t, tl, "one", timeline.NewItem("a", t0, 10*time.Minute))
	r.Paint()

	v := r.VScrollBar()
	if v.Enabled {
		t.Fatalf("vertical bar enabled with 1 row: %+v", v)
	}
	h := r.HScrollBar()
	if !h.Enabled {
		t.Fatalf("horizontal bar disabled over a 2h range: %+v", h)
	}
	if !near(h.Max, 7200) || !near(h.Extent, 3600) || !near(h.Value, 0) {
		t.Fatalf("horizontal bar = %+v", h)
	}

	// Dragging the thumb halfway moves the viewport start by 1h.
	r.SetHScroll(3600)
	start, _ := tl.Viewport()
	if !start.Equal(t0.Add(time.Hour)) {
		t.Fatalf("viewport start after drag = %v", start)
	}
}

func TestScrollBarDegenerateRange(t *testing.T) {
	tl := timeline.New()
	if err := tl.SetBounds(t0, t0.Add(time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := tl.SetViewport(t0, time.Hour); err != nil {
		t.Fatal(err)
	}
	r := New(tl, &fakeSurface{}, fakeMeasurer{}, WithSize(800, 600))
	r.Paint()
	h := r.HScrollBar()
	if h.Enabled || h.Value != 0 {
		t.Fatalf("degenerate horizontal bar = %+v", h)
	}
}

func TestCollapseClick(t *testing.T) {
	tl, r, _ := testRenderer(t)
	g := timeline.NewHierarchicalGroup("phase")
	for _, name := range []string{"x", "y"} {
		l := timeline.NewTaskLine(name)
		if err := l.AddItem(timeline.NewItem(name, t0, 10*time.Minute)); err != nil {
			t.Fatal(err)
		}
		if err := g.AddChild(l); err != nil {
			t.Fatal(err)
		}
	}
	if err := tl.AddLine(g); err != nil {
		t.Fatal(err)
	}
	r.Paint()

	if tl.TotalRows() != 3 {
		t.Fatalf("rows before collapse = %d", tl.TotalRows())
	}
	tb := g.ToggleBounds()
	if tb == nil {
		t.Fatal("no toggle bounds after paint")
	}

	var structural int
	tl.Subscribe(func(c timeline.Change) {
		if c.Kind == timeline.ChangeStructure {
			structural++
		}
	})
	selBefore := tl.Selected()

	r.Click(tb.CenterX(), tb.CenterY())

	if !g.Collapsed() {
		t.Fatal("group did not collapse")
	}
	if tl.TotalRows() != 1 {
		t.Fatalf("rows after collapse = %d", tl.TotalRows())
	}
	if structural != 1 {
		t.Fatalf("structural notifications = %d, want 1", structural)
	}
	if tl.Selected() != selBefore {
		t.Fatal("collapse click changed the selection")
	}
	if !r.Dirty() {
		t.Fatal("collapse did not dirty the renderer")
	}
}

func TestCollapseClickDisabled(t *testing.T) {
	tl, r, _ := testRenderer(t)
	opts := tl.Options()
	opts.MouseCollapse = false
	tl.SetOptions(opts)

	g := timeline.NewFlatGroup("pool")
	l := timeline.NewTaskLine("x")
	if err := l.AddItem(timeline.NewItem("x", t0, 10*time.Minute)); err != nil {
		t.Fatal(err)
	}
	if err := g.AddChild(l); err != nil {
		t.Fatal(err)
	}
	if err := tl.AddLine(g); err != nil {
		t.Fatal(err)
	}
	r.Paint()

	tb := g.ToggleBounds()
	r.Click(tb.CenterX(), tb.CenterY())
	if g.Collapsed() {
		t.Fatal("collapse toggled with MouseCollapse disabled")
	}
}

func TestSelectionClick(t *testing.T) {
	tl, r, _ := testRenderer(t)
	a := timeline.NewItem("a", t0, 30*time.Minute)
	addLine(t, tl, "build", a)
	r.Paint()

	b := a.Bounds()
	r.Click(b.CenterX(), b.CenterY())
	if tl.Selected() != a {
		t.Fatal("click on bar did not select the item")
	}

	// Empty scale area deselects.
	r.Click(700, b.CenterY())
	if tl.Selected() != nil {
		t.Fatal("click on empty space did not deselect")
	}
}

func TestSelectionDisabled(t *testing.T) {
	tl, r, _ := testRenderer(t)
	opts := tl.Options()
	opts.MouseSelection = false
	tl.SetOptions(opts)

	a := timeline.NewItem("a", t0, 30*time.Minute)
	addLine(t, tl, "build", a)
	r.Paint()

	b := a.Bounds()
	r.Click(b.CenterX(), b.CenterY())
	if tl.Selected() != nil {
		t.Fatal("selection changed with MouseSelection disabled")
	}
}

func TestTooltipPriority(t *testing.T) {
	tl, r, _ := testRenderer(t)
	a := timeline.NewItem("a", t0, 30*time.Minute)
	a.SetTooltip("item tip")
	p := timeline.NewTimePoint("milestone", t0.Add(15*time.Minute))
	a.AddPoint(p)
	ivStart := t0.Add(20 * time.Minute)
	ivEnd := t0.Add(25 * time.Minute)
	iv := timeline.NewTimeInterval(&ivStart, &ivEnd)
	iv.Name = "critical"
	a.AddInterval(iv)
	addLine(t, tl, "build", a)
	r.Paint()

	pb := p.Bounds()
	if pb == nil {
		t.Fatal("point has no bounds after paint")
	}
	r.Move(pb.CenterX(), pb.CenterY())
	if got := r.Tooltip(); got != "milestone" {
		t.Fatalf("tooltip over point = %q", got)
	}

	ib := iv.Bounds()
	if ib == nil {
		t.Fatal("interval has no bounds after paint")
	}
	r.Move(ib.CenterX(), ib.CenterY())
	if got := r.Tooltip(); got != "critical" {
		t.Fatalf("tooltip over interval = %q", got)
	}

	// Early on the bar, away from point and interval.
	r.Move(160, a.Bounds().CenterY())
	if got := r.Tooltip(); got != "item tip" {
		t.Fatalf("tooltip over bar = %q", got)
	}

	r.Move(700, 300)
	if got := r.Tooltip(); got != "" {
		t.Fatalf("tooltip over empty space = %q", got)
	}
}

func TestTooltipChangeDirties(t *testing.T) {
	tl, r, _ := testRenderer(t)
	a := timeline.NewItem("a", t0, 30*time.Minute)
	addLine(t, tl, "build", a)
	r.Paint()

	b := a.Bounds()
	r.Move(b.CenterX(), b.CenterY())
	if !r.Dirty() {
		t.Fatal("tooltip appearance did not dirty the renderer")
	}
	r.Paint()
	r.Move(b.CenterX()+1, b.CenterY())
	if r.Dirty() {
		t.Fatal("unchanged tooltip dirtied the renderer")
	}
}

func TestWheelZoom(t *testing.T) {
	tl, r, _ := testRenderer(t)
	addLine(t, tl, "one", timeline.NewItem("a", t0, 10*time.Minute))
	r.Paint()

	r.Wheel(1, true)
	if _, dur := tl.Viewport(); dur != 66*time.Minute {
		t.Fatalf("duration after zoom out = %v", dur)
	}
	r.Wheel(-1, true)
	if _, dur := tl.Viewport(); dur != time.Duration(float64(66*time.Minute)*0.9) {
		t.Fatalf("duration after zoom in = %v", dur)
	}

	opts := tl.Options()
	opts.MouseZoom = false
	tl.SetOptions(opts)
	_, before := tl.Viewport()
	r.Wheel(1, true)
	if _, dur := tl.Viewport(); dur != before {
		t.Fatal("zoom applied with MouseZoom disabled")
	}
}

func TestOffScreenInPlaceChangeSkipsRepaint(t *testing.T) {
	tl, r, _ := testRenderer(t)
	var items []*timeline.Item
	for i := 0; i < 40; i++ {
		it := timeline.NewItem("t", t0, 10*time.Minute)
		items = append(items, it)
		addLine(t, tl, "line", it)
	}
	r.Paint()

	// Rows 29+ sit below a 600px canvas at scroll offset zero.
	items[35].SetStart(t0.Add(5 * time.Minute))
	if r.Dirty() {
		t.Fatal("off-screen in-place change dirtied the renderer")
	}
	items[2].SetStart(t0.Add(5 * time.Minute))
	if !r.Dirty() {
		t.Fatal("visible in-place change did not dirty the renderer")
	}
}

func TestOffScreenNodesClearBounds(t *testing.T) {
	tl, r, _ := testRenderer(t)
	var lines []*timeline.TaskLine
	for i := 0; i < 40; i++ {
		lines = append(lines, addLine(t, tl, "line", timeline.NewItem("t", t0, 10*time.Minute)))
	}
	r.Paint()

	if lines[35].Bounds() != nil {
		t.Fatal("off-screen line kept bounds")
	}
	if lines[35].Items()[0].Bounds() != nil {
		t.Fatal("off-screen item kept bounds")
	}
	from, to := r.VisibleRange()
	if from != 0 || to != 28 {
		t.Fatalf("visible range = [%d,%d], want [0,28]", from, to)
	}
}

func TestOutOfViewportItemClearsBounds(t *testing.T) {
	tl, r, _ := testRenderer(t)
	inside := timeline.NewItem("in", t0, 10*time.Minute)
	outside := timeline.NewItem("out", t0.Add(90*time.Minute), 10*time.Minute)
	addLine(t, tl, "build", inside, outside)
	r.Paint()

	if inside.Bounds() == nil {
		t.Fatal("visible item has no bounds")
	}
	if outside.Bounds() != nil {
		t.Fatal("item outside the viewport kept bounds")
	}
}

func TestCollapseClickKeepsSelection(t *testing.T) {
	tl, r, _ := testRenderer(t)
	a := timeline.NewItem("a", t0, 10*time.Minute)
	l := timeline.NewTaskLine("x")
	if err := l.AddItem(a); err != nil {
		t.Fatal(err)
	}
	g := timeline.NewHierarchicalGroup("phase")
	if err := g.AddChild(l); err != nil {
		t.Fatal(err)
	}
	if err := tl.AddLine(g); err != nil {
		t.Fatal(err)
	}
	r.Paint()

	tl.Select(a)
	tb := g.ToggleBounds()
	if tb == nil {
		t.Fatal("no toggle bounds after paint")
	}
	r.Click(tb.CenterX(), tb.CenterY())

	if !g.Collapsed() {
		t.Fatal("group did not collapse")
	}
	if tl.Selected() != a {
		t.Fatalf("toggle click altered the selection: got %v, want item a", tl.Selected())
	}
}

func TestProjectionDrawsPerItemBars(t *testing.T) {
	tl, r, surf := testRenderer(t)
	l := timeline.NewTaskLine("x")
	// Two overlapping items; the collapsed projection must keep them as
	// separate shapes.
	for _, d := range []time.Duration{0, 10 * time.Minute} {
		if err := l.AddItem(timeline.NewItem("t", t0.Add(d), 30*time.Minute)); err != nil {
			t.Fatal(err)
		}
	}
	g := timeline.NewFlatGroup("pool")
	if err := g.AddChild(l); err != nil {
		t.Fatal(err)
	}
	g.SetCollapsed(true)
	if err := tl.AddLine(g); err != nil {
		t.Fatal(err)
	}
	r.Paint()

	var bars int
	for _, op := range surf.ops {
		if op == "roundedrect" {
			bars++
		}
	}
	if bars != 2 {
		t.Fatalf("projection bars = %d, want one per item", bars)
	}
}

func TestIntervalForegroundOrdering(t *testing.T) {
	tl, r, surf := testRenderer(t)
	a := timeline.NewItem("a", t0, 30*time.Minute)
	line := addLine(t, tl, "build", a)

	bgStart, bgEnd := t0.Add(5*time.Minute), t0.Add(10*time.Minute)
	bg := timeline.NewTimeInterval(&bgStart, &bgEnd)
	line.AddInterval(bg)

	fgStart, fgEnd := t0.Add(15*time.Minute), t0.Add(20*time.Minute)
	fg := timeline.NewTimeInterval(&fgStart, &fgEnd)
	fg.Foreground = true
	line.AddInterval(fg)

	onStart, onEnd := t0.Add(2*time.Minute), t0.Add(4*time.Minute)
	onBar := timeline.NewTimeInterval(&onStart, &onEnd)
	onBar.Foreground = true
	a.AddInterval(onBar)

	r.Paint()

	barIdx := opIndex(surf.ops, fillRectOp(*a.Bounds()))
	bgIdx := opIndex(surf.ops, fillRectOp(*bg.Bounds()))
	fgIdx := opIndex(surf.ops, fillRectOp(*fg.Bounds()))
	onIdx := opIndex(surf.ops, fillRectOp(*onBar.Bounds()))
	if barIdx < 0 || bgIdx < 0 || fgIdx < 0 || onIdx < 0 {
		t.Fatalf("missing fill ops: bar=%d bg=%d fg=%d item=%d", barIdx, bgIdx, fgIdx, onIdx)
	}
	if bgIdx > barIdx {
		t.Fatalf("background interval painted over the bar (op %d after %d)", bgIdx, barIdx)
	}
	if fgIdx < barIdx {
		t.Fatalf("foreground line interval painted under the bar (op %d before %d)", fgIdx, barIdx)
	}
	if onIdx < barIdx {
		t.Fatalf("foreground item interval painted under the bar (op %d before %d)", onIdx, barIdx)
	}
}

func TestRowCountsIndependentOfViewport(t *testing.T) {
	tl, r, _ := testRenderer(t)
	a := timeline.NewItem("a", t0, 30*time.Minute)
	b := timeline.NewItem("b", t0.Add(10*time.Minute), 30*time.Minute)
	line := addLine(t, tl, "build", a, b)
	r.Paint()

	if line.RowCount() != 2 {
		t.Fatalf("rows = %d", line.RowCount())
	}
	// Pan so the items sit outside the viewport; packing must not change.
	if err := tl.SetViewport(t0.Add(90*time.Minute), time.Hour); err != nil {
		t.Fatal(err)
	}
	r.Paint()
	if line.RowCount() != 2 {
		t.Fatalf("rows after pan = %d", line.RowCount())
	}
}
