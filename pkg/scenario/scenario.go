// Package scenario loads timeline descriptions from TOML files. A
// scenario names the global bounds, the viewport, rendering options and
// the full line tree; loading one produces a populated model ready for
// rendering.
package scenario

import (
	"io"
	"os"
	"time"

	"github.com/BurntSushi/toml"

	"github.com/ganttkit/ganttkit/pkg/errors"
	"github.com/ganttkit/ganttkit/pkg/timeline"
)

// Duration is a TOML string in time.ParseDuration syntax.
type Duration time.Duration

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	*d = Duration(v)
	return nil
}

// Scenario mirrors the TOML file layout.
type Scenario struct {
	Title string    `toml:"title"`
	Min   time.Time `toml:"min"`
	Max   time.Time `toml:"max"`

	Viewport Viewport   `toml:"viewport"`
	Options  *Options   `toml:"options"`
	Lines    []Line     `toml:"line"`
	Groups   []Group    `toml:"group"`
	Cursors  []Cursor   `toml:"cursor"`
	Spans    []Interval `toml:"interval"`
}

// Viewport is the initial visible window.
type Viewport struct {
	Start    time.Time `toml:"start"`
	Duration Duration  `toml:"duration"`
}

// Options overrides a subset of the rendering options. Nil fields keep
// the defaults.
type Options struct {
	TaskPanelWidth       *float64 `toml:"task_panel_width"`
	AdditionalPanelWidth *float64 `toml:"additional_panel_width"`
	IndentWidth          *float64 `toml:"indent_width"`
	Projection           *string  `toml:"projection"`
	VerticalGridLines    *bool    `toml:"vertical_grid_lines"`
	AlternatingRowColors *bool    `toml:"alternating_row_colors"`
}

// Line describes a task line and its items.
type Line struct {
	Name        string     `toml:"name"`
	Description string     `toml:"description"`
	Separator   bool       `toml:"separator"`
	Items       []ItemSpec `toml:"item"`
}

// Group describes a composite node. Groups nest.
type Group struct {
	Name        string `toml:"name"`
	Description string `toml:"description"`
	// Kind is "flat" or "hierarchical" (the default).
	Kind      string  `toml:"kind"`
	Collapsed bool    `toml:"collapsed"`
	Lines     []Line  `toml:"line"`
	Groups    []Group `toml:"group"`
}

// ItemSpec describes one task item.
type ItemSpec struct {
	Name     string      `toml:"name"`
	Tooltip  string      `toml:"tooltip"`
	Start    time.Time   `toml:"start"`
	Expected Duration    `toml:"expected"`
	Actual   Duration    `toml:"actual"`
	Points   []PointSpec `toml:"point"`
}

// PointSpec describes a glyph annotation pinned to an instant within
// its item's bar.
type PointSpec struct {
	Name string    `toml:"name"`
	Time time.Time `toml:"time"`
}

// Cursor describes a vertical time marker.
type Cursor struct {
	Time time.Time `toml:"time"`
}

// Interval describes a highlighted span. Zero times mean open bounds.
type Interval struct {
	Name       string    `toml:"name"`
	Start      time.Time `toml:"start"`
	End        time.Time `toml:"end"`
	Foreground bool      `toml:"foreground"`
}

// Load reads and builds a scenario file.
func Load(path string) (*timeline.Timeline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeFileNotFound, err, "opening scenario")
	}
	defer f.Close()
	return Parse(f)
}

// Parse decodes a scenario document and builds the timeline.
func Parse(r io.Reader) (*timeline.Timeline, error) {
	var sc Scenario
	if _, err := toml.NewDecoder(r).Decode(&sc); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidScenario, err, "decoding scenario")
	}
	return sc.Build()
}

// Build materializes the scenario into a timeline.
func (sc *Scenario) Build() (*timeline.Timeline, error) {
	tl := timeline.New()
	if sc.Min.IsZero() || sc.Max.IsZero() {
		return nil, errors.New(errors.ErrCodeInvalidScenario, "scenario must set min and max")
	}
	if err := tl.SetBounds(sc.Min, sc.Max); err != nil {
		return nil, err
	}
	start, dur := sc.Viewport.Start, time.Duration(sc.Viewport.Duration)
	if start.IsZero() {
		start = sc.Min
	}
	if dur <= 0 {
		dur = sc.Max.Sub(sc.Min)
	}
	if err := tl.SetViewport(start, dur); err != nil {
		return nil, err
	}
	if sc.Options != nil {
		opts, err := sc.Options.apply(tl.Options())
		if err != nil {
			return nil, err
		}
		tl.SetOptions(opts)
	}
	for _, l := range sc.Lines {
		node, err := l.build()
		if err != nil {
			return nil, err
		}
		if err := tl.AddLine(node); err != nil {
			return nil, err
		}
	}
	for _, g := range sc.Groups {
		node, err := g.build()
		if err != nil {
			return nil, err
		}
		if err := tl.AddLine(node); err != nil {
			return nil, err
		}
	}
	for _, c := range sc.Cursors {
		tl.AddCursor(timeline.NewTimeCursor(c.Time))
	}
	for _, s := range sc.Spans {
		tl.AddInterval(s.build())
	}
	return tl, nil
}

func (o *Options) apply(opts timeline.Options) (timeline.Options, error) {
	if o.TaskPanelWidth != nil {
		opts.TaskPanelWidth = *o.TaskPanelWidth
	}
	if o.AdditionalPanelWidth != nil {
		opts.AdditionalPanelWidth = *o.AdditionalPanelWidth
	}
	if o.IndentWidth != nil {
		opts.IndentWidth = *o.IndentWidth
	}
	if o.Projection != nil {
		switch *o.Projection {
		case "none":
			opts.Projection = timeline.ProjectionNone
		case "collapse":
			opts.Projection = timeline.ProjectionCollapse
		case "always":
			opts.Projection = timeline.ProjectionAlways
		default:
			return opts, errors.New(errors.ErrCodeInvalidScenario, "unknown projection mode %q", *o.Projection)
		}
	}
	if o.VerticalGridLines != nil {
		opts.VerticalGridLines = *o.VerticalGridLines
	}
	if o.AlternatingRowColors != nil {
		opts.AlternatingRowColors = *o.AlternatingRowColors
	}
	return opts, nil
}

func (l *Line) build() (*timeline.TaskLine, error) {
	node := timeline.NewTaskLine(l.Name)
	node.SetDescription(l.Description)
	node.Separator = l.Separator
	for _, it := range l.Items {
		if it.Start.IsZero() {
			return nil, errors.New(errors.ErrCodeInvalidScenario, "item %q has no start time", it.Name)
		}
		item := timeline.NewItem(it.Name, it.Start, time.Duration(it.Expected))
		item.SetActual(time.Duration(it.Actual))
		item.SetTooltip(it.Tooltip)
		for _, p := range it.Points {
			if p.Time.IsZero() {
				return nil, errors.New(errors.ErrCodeInvalidScenario, "point %q has no time", p.Name)
			}
			item.AddPoint(timeline.NewTimePoint(p.Name, p.Time))
		}
		if err := node.AddItem(item); err != nil {
			return nil, err
		}
	}
	return node, nil
}

func (g *Group) build() (timeline.LineNode, error) {
	switch g.Kind {
	case "", "hierarchical":
		node := timeline.NewHierarchicalGroup(g.Name)
		node.SetDescription(g.Description)
		if err := g.fill(node.AddChild); err != nil {
			return nil, err
		}
		node.SetCollapsed(g.Collapsed)
		return node, nil
	case "flat":
		node := timeline.NewFlatGroup(g.Name)
		node.SetDescription(g.Description)
		if err := g.fill(node.AddChild); err != nil {
			return nil, err
		}
		node.SetCollapsed(g.Collapsed)
		return node, nil
	default:
		return nil, errors.New(errors.ErrCodeInvalidScenario, "unknown group kind %q", g.Kind)
	}
}

func (g *Group) fill(add func(timeline.LineNode) error) error {
	for _, l := range g.Lines {
		node, err := l.build()
		if err != nil {
			return err
		}
		if err := add(node); err != nil {
			return err
		}
	}
	for _, child := range g.Groups {
		node, err := child.build()
		if err != nil {
			return err
		}
		if err := add(node); err != nil {
			return err
		}
	}
	return nil
}

func (s *Interval) build() *timeline.TimeInterval {
	var start, end *time.Time
	if !s.Start.IsZero() {
		t := s.Start
		start = &t
	}
	if !s.End.IsZero() {
		t := s.End
		end = &t
	}
	iv := timeline.NewTimeInterval(start, end)
	iv.Name = s.Name
	iv.Foreground = s.Foreground
	return iv
}
