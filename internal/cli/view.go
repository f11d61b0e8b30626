package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/ganttkit/ganttkit/pkg/render/sink"
	"github.com/ganttkit/ganttkit/pkg/scenario"
	"github.com/ganttkit/ganttkit/pkg/timeline"
	"github.com/ganttkit/ganttkit/pkg/timescale"
)

// View styles.
var (
	viewSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	viewNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	viewBarStyle      = lipgloss.NewStyle().Foreground(colorCyan)
	viewHeaderStyle   = lipgloss.NewStyle().Bold(true).Foreground(colorGreen)
	viewDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
)

// viewCommand creates the view command: an interactive terminal browser
// for a scenario, with collapse, pan and zoom.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [scenario.toml]",
		Short: "Browse a scenario interactively in the terminal",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tl, err := scenario.Load(args[0])
			if err != nil {
				return err
			}
			p := tea.NewProgram(newViewModel(tl, args[0]), tea.WithAltScreen())
			_, err = p.Run()
			return err
		},
	}
}

// viewRow is one visible line of the tree listing. Children of
// collapsed groups are not listed.
type viewRow struct {
	node  timeline.LineNode
	depth int
}

// flattenRows lists the visible nodes depth-first.
func flattenRows(tl *timeline.Timeline) []viewRow {
	var rows []viewRow
	var walk func(n timeline.LineNode, depth int)
	walk = func(n timeline.LineNode, depth int) {
		rows = append(rows, viewRow{node: n, depth: depth})
		if g, ok := n.(groupLike); ok && !g.EffectiveCollapsed() {
			for _, child := range g.Children() {
				walk(child, depth+1)
			}
		}
	}
	for _, n := range tl.Lines() {
		walk(n, 0)
	}
	return rows
}

// groupLike is the subset of the group API the viewer needs.
type groupLike interface {
	timeline.LineNode
	Children() []timeline.LineNode
	Collapsed() bool
	SetCollapsed(bool)
	EffectiveCollapsed() bool
	DescendantItems() []*timeline.Item
}

// viewModel is the bubbletea model for the scenario browser.
type viewModel struct {
	tl     *timeline.Timeline
	title  string
	rows   []viewRow
	cursor int
	width  int
	height int
	status string
}

// exportSnapshot writes an SVG of the current viewport next to the
// scenario file.
func (m viewModel) exportSnapshot() string {
	out := strings.TrimSuffix(m.title, filepath.Ext(m.title)) + ".svg"
	f, err := os.Create(out)
	if err != nil {
		return "snapshot failed: " + err.Error()
	}
	defer f.Close()
	if err := sink.RenderSVG(m.tl, f); err != nil {
		return "snapshot failed: " + err.Error()
	}
	return "wrote " + out
}

func newViewModel(tl *timeline.Timeline, title string) viewModel {
	return viewModel{
		tl:     tl,
		title:  title,
		rows:   flattenRows(tl),
		width:  100,
		height: 30,
	}
}

func (m viewModel) Init() tea.Cmd { return nil }

func (m viewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}
		case "down", "j":
			if m.cursor < len(m.rows)-1 {
				m.cursor++
			}
		case " ", "enter":
			if m.cursor >= len(m.rows) {
				break
			}
			if g, ok := m.rows[m.cursor].node.(groupLike); ok {
				g.SetCollapsed(!g.Collapsed())
				m.rows = flattenRows(m.tl)
				if m.cursor >= len(m.rows) {
					m.cursor = len(m.rows) - 1
				}
			}
		case "+", "=":
			m.tl.Zoom(0.9)
		case "-":
			m.tl.Zoom(1.1)
		case "left", "h":
			_, dur := m.tl.Viewport()
			m.tl.Pan(-dur / 10)
		case "right", "l":
			_, dur := m.tl.Viewport()
			m.tl.Pan(dur / 10)
		case "s":
			m.status = m.exportSnapshot()
		}
	}
	return m, nil
}

func (m viewModel) View() string {
	start, dur := m.tl.Viewport()
	var b strings.Builder

	b.WriteString(viewHeaderStyle.Render(m.title))
	b.WriteString(viewDimStyle.Render(fmt.Sprintf("  %s .. %s (%s)",
		start.Format("2006-01-02 15:04:05"),
		start.Add(dur).Format("15:04:05"),
		dur.Round(time.Second))))
	b.WriteString("\n\n")

	labelWidth := 28
	barWidth := m.width - labelWidth - 2
	if barWidth < 10 {
		barWidth = 10
	}
	mapper := timescale.Mapper{Start: start, Duration: dur, PanelLeft: 0, Width: float64(barWidth)}

	for i, row := range m.rows {
		label := strings.Repeat("  ", row.depth) + rowLabel(row.node)
		if r := []rune(label); len(r) > labelWidth {
			label = string(r[:labelWidth-1]) + "…"
		}
		style := viewNormalStyle
		if i == m.cursor {
			style = viewSelectedStyle
		}
		if pad := labelWidth - len([]rune(label)); pad > 0 {
			label += strings.Repeat(" ", pad)
		}
		b.WriteString(style.Render(label))
		b.WriteString(" ")
		b.WriteString(viewBarStyle.Render(rowBar(row.node, mapper, barWidth)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(viewDimStyle.Render("↑/↓ move · space collapse · ←/→ pan · +/- zoom · s snapshot · q quit"))
	if m.status != "" {
		b.WriteString("\n")
		b.WriteString(viewDimStyle.Render(m.status))
	}
	return b.String()
}

func rowLabel(n timeline.LineNode) string {
	if g, ok := n.(groupLike); ok {
		marker := "▾"
		if g.EffectiveCollapsed() {
			marker = "▸"
		}
		return marker + " " + n.Name()
	}
	return n.Name()
}

// rowBar draws the node's item spans as a character bar. Collapsed
// groups show their descendants' merged footprint.
func rowBar(n timeline.LineNode, m timescale.Mapper, width int) string {
	cells := make([]rune, width)
	for i := range cells {
		cells[i] = ' '
	}
	fill := func(start, end time.Time, glyph rune) {
		s, e := start, end
		if !m.SpanVisible(&s, &e) {
			return
		}
		c0, c1 := int(m.X(s)), int(m.X(e))
		if c0 < 0 {
			c0 = 0
		}
		if c1 > width {
			c1 = width
		}
		if c1 == c0 {
			c1 = c0 + 1
		}
		for i := c0; i < c1 && i < width; i++ {
			cells[i] = glyph
		}
	}
	switch v := n.(type) {
	case *timeline.TaskLine:
		for _, it := range v.Items() {
			s, e := it.Span()
			fill(s, e, '█')
		}
	case groupLike:
		if v.EffectiveCollapsed() {
			for _, it := range v.DescendantItems() {
				s, e := it.Span()
				fill(s, e, '▒')
			}
		}
	}
	return string(cells)
}
