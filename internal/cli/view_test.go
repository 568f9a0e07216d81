package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/render/tree/layout"
)

func viewerFixture() *ViewerModel {
	tree := family.New([]family.Person{
		{ID: 1, Name: "Astrid", Generation: 0, CoupleID: 1, Status: family.StatusMarried},
		{ID: 2, Name: "Olav", Generation: 0, CoupleID: 1, Status: family.StatusMarried},
		{ID: 3, Name: "Kari", Generation: 1, ParentCoupleID: 1},
	})
	d := layout.Build(tree)
	g := layout.Measure(d, layout.DefaultMetrics())
	return newViewerModel(tree, d, g)
}

func TestViewerPanKeys(t *testing.T) {
	m := viewerFixture()
	start := m.cam.Scroll()

	m.updateKey(tea.KeyMsg{Type: tea.KeyRight})
	if m.cam.Scroll().X <= start.X {
		t.Error("right arrow should increase horizontal scroll")
	}

	m.updateKey(tea.KeyMsg{Type: tea.KeyDown})
	if m.cam.Scroll().Y <= start.Y {
		t.Error("down arrow should increase vertical scroll")
	}
}

func TestViewerZoomKeys(t *testing.T) {
	m := viewerFixture()

	m.updateKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'+'}})
	if m.cam.Zoom() <= 1.0 {
		t.Errorf("zoom after '+' = %g, want > 1.0", m.cam.Zoom())
	}

	m.updateKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'0'}})
	if m.cam.Zoom() != 1.0 {
		t.Errorf("zoom after reset = %g, want 1.0", m.cam.Zoom())
	}
}

func TestViewerQuit(t *testing.T) {
	m := viewerFixture()
	_, cmd := m.updateKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Error("'q' should produce a quit command")
	}
}

func TestViewerWindowSize(t *testing.T) {
	m := viewerFixture()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	if m.width != 120 || m.height != 40 {
		t.Errorf("size = %dx%d, want 120x40", m.width, m.height)
	}
}

func TestViewerViewContents(t *testing.T) {
	m := viewerFixture()
	m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})

	out := m.View()
	if !strings.Contains(out, "Astrid") {
		t.Error("view should contain the first person's label")
	}
	if !strings.Contains(out, "=") {
		t.Error("view should contain the married couple glyph")
	}
	if !strings.Contains(out, "zoom 100%") {
		t.Error("status line should report the zoom level")
	}
}

func TestViewerMouseWheelZoom(t *testing.T) {
	m := viewerFixture()

	m.updateMouse(tea.MouseMsg{Button: tea.MouseButtonWheelUp, Ctrl: true, X: 10, Y: 5})
	if m.cam.Zoom() <= 1.0 {
		t.Errorf("ctrl+wheel up should zoom in, zoom = %g", m.cam.Zoom())
	}
}

func TestViewerMouseWheelPan(t *testing.T) {
	m := viewerFixture()
	start := m.cam.Scroll()

	m.updateMouse(tea.MouseMsg{Button: tea.MouseButtonWheelDown, X: 10, Y: 5})
	if m.cam.Zoom() != 1.0 {
		t.Error("plain wheel should not change zoom")
	}
	if m.cam.Scroll().Y <= start.Y {
		t.Error("plain wheel down should scroll down")
	}
}

func TestViewerMouseDragPan(t *testing.T) {
	m := viewerFixture()

	m.updateMouse(tea.MouseMsg{Action: tea.MouseActionPress, Button: tea.MouseButtonLeft, X: 20, Y: 10})
	m.updateMouse(tea.MouseMsg{Action: tea.MouseActionMotion, Button: tea.MouseButtonLeft, X: 15, Y: 10})

	if m.cam.Scroll().X <= 0 {
		t.Errorf("dragging left should scroll right, scroll.X = %g", m.cam.Scroll().X)
	}

	m.updateMouse(tea.MouseMsg{Action: tea.MouseActionRelease, Button: tea.MouseButtonLeft, X: 15, Y: 10})
	if m.ctrl.Panning() {
		t.Error("release should end the drag pan")
	}
}
