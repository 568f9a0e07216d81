package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/render/tree/layout"
	"github.com/kintree/kintree/pkg/view"
)

// Approximate pixel extent of one terminal cell, used to map the
// logical diagram coordinates onto the character grid.
const (
	cellWidth  = 10.0
	cellHeight = 20.0
)

// Keyboard pan step in viewport pixels.
const panStep = 60.0

// Wheel delta reported per tick, matched to typical mouse hardware so
// zoom speed in the terminal tracks the browser view.
const wheelDelta = 120.0

// Viewer styles
var viewerStatusStyle = lipgloss.NewStyle().Foreground(colorGray)

// viewCommand creates the view command for terminal tree exploration.
func (c *CLI) viewCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "view [family.json]",
		Short: "Pan and zoom a family tree in the terminal",
		Long: `Pan and zoom a family tree in the terminal.

The view command loads a family records file and opens an interactive
terminal viewer. Arrow keys (or hjkl) pan, +/- zoom around the center,
0 resets the zoom, and q quits. With mouse support enabled, dragging
pans and ctrl+wheel zooms around the pointer.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runView(args[0])
		},
	}
}

// runView loads the tree, measures the layout, and runs the viewer.
func (c *CLI) runView(input string) error {
	tree, err := family.ImportFile(input)
	if err != nil {
		return fmt.Errorf("load %s: %w", input, err)
	}
	if tree.Len() == 0 {
		printWarning("No people in %s", input)
		return nil
	}

	d := layout.Build(tree)
	g := layout.Measure(d, layout.DefaultMetrics())

	model := newViewerModel(tree, d, g)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithMouseCellMotion())
	_, err = p.Run()
	return err
}

// =============================================================================
// ViewerModel - Interactive tree viewport
// =============================================================================

// ViewerModel is the bubbletea model for the terminal tree viewer.
type ViewerModel struct {
	tree    *family.Tree
	diagram layout.Diagram
	geom    layout.Geometry

	cam  *view.Camera
	ctrl *view.Controller

	width  int
	height int
}

// newViewerModel creates a viewer over a measured diagram.
func newViewerModel(t *family.Tree, d layout.Diagram, g layout.Geometry) *ViewerModel {
	m := &ViewerModel{
		tree:    t,
		diagram: d,
		geom:    g,
		cam:     view.NewCamera(),
		width:   80,
		height:  24,
	}
	m.ctrl = view.NewController(m.cam, nil)
	return m
}

func (m *ViewerModel) Init() tea.Cmd {
	return nil
}

func (m *ViewerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.updateKey(msg)
	case tea.MouseMsg:
		return m.updateMouse(msg)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	}
	return m, nil
}

func (m *ViewerModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "left", "h":
		m.cam.ScrollBy(-panStep, 0)
	case "right", "l":
		m.cam.ScrollBy(panStep, 0)
	case "up", "k":
		m.cam.ScrollBy(0, -panStep)
	case "down", "j":
		m.cam.ScrollBy(0, panStep)
	case "+", "=":
		m.cam.ZoomAround(m.cam.Zoom()+0.1, m.center())
	case "-", "_":
		m.cam.ZoomAround(m.cam.Zoom()-0.1, m.center())
	case "0":
		m.cam.Reset()
	}
	return m, nil
}

func (m *ViewerModel) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	pos := view.Point{X: float64(msg.X) * cellWidth, Y: float64(msg.Y) * cellHeight}

	switch msg.Button {
	case tea.MouseButtonWheelUp:
		if !m.ctrl.Wheel(view.WheelEvent{Pos: pos, DeltaY: -wheelDelta, Ctrl: msg.Ctrl}) {
			m.cam.ScrollBy(0, -panStep)
		}
		return m, nil
	case tea.MouseButtonWheelDown:
		if !m.ctrl.Wheel(view.WheelEvent{Pos: pos, DeltaY: wheelDelta, Ctrl: msg.Ctrl}) {
			m.cam.ScrollBy(0, panStep)
		}
		return m, nil
	}

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button == tea.MouseButtonLeft {
			m.ctrl.PanStart(0, pos)
		}
	case tea.MouseActionMotion:
		m.ctrl.PanMove(pos)
	case tea.MouseActionRelease:
		m.ctrl.PanEnd()
	}
	return m, nil
}

// center returns the viewport center in pixel coordinates.
func (m *ViewerModel) center() view.Point {
	return view.Point{
		X: float64(m.width) * cellWidth / 2,
		Y: float64(m.height) * cellHeight / 2,
	}
}

func (m *ViewerModel) View() string {
	rows := m.height - 2
	if rows < 3 {
		rows = 3
	}

	grid := make([][]rune, rows)
	for i := range grid {
		grid[i] = make([]rune, m.width)
		for j := range grid[i] {
			grid[i][j] = ' '
		}
	}

	for _, band := range m.diagram.Bands {
		for _, cluster := range band.Clusters {
			for _, node := range cluster.Nodes {
				m.drawNode(grid, node)
			}
			m.drawCoupleGlyph(grid, cluster)
		}
	}

	var b strings.Builder
	for _, row := range grid {
		b.WriteString(string(row))
		b.WriteString("\n")
	}
	b.WriteString(m.statusLine())
	return b.String()
}

// drawNode projects a person's box through the camera and writes its
// label onto the grid. Off-screen nodes are clipped cell by cell.
func (m *ViewerModel) drawNode(grid [][]rune, node layout.Node) {
	box, ok := m.geom.Box(node.Anchor)
	if !ok {
		return
	}
	top := m.cam.ToViewport(view.Point{X: box.Left, Y: box.Top})

	col := int(top.X / cellWidth)
	row := int(top.Y / cellHeight)

	width := int(box.Width() * m.cam.Zoom() / cellWidth)
	if width < 2 {
		width = 2
	}

	label := node.Label
	if len(label) > width {
		label = label[:width]
	}
	m.drawText(grid, row, col, "["+label+"]")
	if node.Sub != "" && m.cam.Zoom() >= 0.8 {
		m.drawText(grid, row+1, col+1, node.Sub)
	}
}

// drawCoupleGlyph writes the relationship symbol between the two
// members of a couple cluster.
func (m *ViewerModel) drawCoupleGlyph(grid [][]rune, cluster layout.Cluster) {
	if cluster.CoupleID == family.NoCouple || len(cluster.Nodes) != 2 {
		return
	}
	left, okL := m.geom.Box(cluster.Nodes[0].Anchor)
	right, okR := m.geom.Box(cluster.Nodes[1].Anchor)
	if !okL || !okR {
		return
	}

	glyph := "⋯"
	switch m.tree.CoupleStatus(cluster.CoupleID) {
	case family.StatusMarried:
		glyph = "="
	case family.StatusDivorced:
		glyph = "≠"
	case family.StatusEngaged:
		glyph = "-"
	}

	mid := m.cam.ToViewport(view.Point{
		X: (left.Right + right.Left) / 2,
		Y: left.MidY(),
	})
	m.drawText(grid, int(mid.Y/cellHeight), int(mid.X/cellWidth), glyph)
}

// drawText writes s onto the grid at (row, col), clipping at the edges.
func (m *ViewerModel) drawText(grid [][]rune, row, col int, s string) {
	if row < 0 || row >= len(grid) {
		return
	}
	for i, r := range []rune(s) {
		c := col + i
		if c < 0 || c >= len(grid[row]) {
			continue
		}
		grid[row][c] = r
	}
}

// statusLine renders the footer with zoom level and key help.
func (m *ViewerModel) statusLine() string {
	zoom := fmt.Sprintf("%.0f%%", m.cam.Zoom()*100)
	return viewerStatusStyle.Render(
		fmt.Sprintf("zoom %s  │  %d people  │  arrows pan  +/- zoom  0 reset  q quit", zoom, m.tree.Len()),
	)
}
