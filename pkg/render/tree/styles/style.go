package styles

import (
	"bytes"

	"github.com/kintree/kintree/pkg/family"
)

// Style defines the visual appearance for tree rendering.
// Implementations control how person nodes, connector strokes,
// relationship marks, and popups are drawn.
type Style interface {
	// RenderDefs writes SVG <defs> content (filters, patterns, gradients).
	RenderDefs(buf *bytes.Buffer)
	// RenderNode writes the SVG for a single person card.
	RenderNode(buf *bytes.Buffer, n Node)
	// RenderLine writes the SVG for one structural connector stroke.
	RenderLine(buf *bytes.Buffer, x1, y1, x2, y2 float64)
	// RenderDot writes the SVG for one dot of a dotted relationship.
	RenderDot(buf *bytes.Buffer, x, y, r float64)
	// RenderGlyph writes the SVG for a relationship symbol.
	RenderGlyph(buf *bytes.Buffer, x, y float64, text string)
	// RenderPopup writes the SVG for a node's hover popup.
	RenderPopup(buf *bytes.Buffer, n Node)
}

// Node contains all data needed to render a single person card.
type Node struct {
	ID         string         // Anchor identifier
	Label      string         // Primary display name
	Sub        string         // Secondary line (surname or dates)
	X, Y, W, H float64        // Position and dimensions
	CX, CY     float64        // Center coordinates (for text)
	Variant    family.Variant // Palette variant
	Photo      string         // Optional portrait URL
	Deceased   bool           // Dims the card when set
	Popup      *PopupData     // Hover popup content (nil if disabled)
}

// PopupData holds metadata displayed in hover popups.
type PopupData struct {
	BirthDate  string // Date of birth, free form
	BirthPlace string // Place of birth
	LinkedIn   string // Profile links, empty when unknown
	Facebook   string
	WhatsApp   string
	YouTube    string
}
