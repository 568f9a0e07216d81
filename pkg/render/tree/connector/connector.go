// Package connector computes the relationship and descent connector
// geometry of a family diagram.
//
// All coordinates are logical (zoom-normalized): connectors stay
// correct under any zoom or scroll because the overlay is drawn in
// logical space and scaled with the content. The overlay carries no
// state — every invocation recomputes everything from the record
// store and the measured geometry, and a stale anchor silently skips
// that one connector instead of failing the redraw.
package connector

import (
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/render/tree/layout"
)

// Geometry constants, in logical units.
const (
	GlyphYOffset  = 6  // relationship glyph baseline below the symbol anchor
	BracketRise   = 20 // horizontal bracket above the first child's top
	DropStart     = 8  // couple drop begins below the symbol anchor
	DropOverhang  = 10 // couple drop extends past the lower member's bottom
	RelationDots  = 4  // dotted-relationship dot count
	DotRadius     = 0.9
	MarriedGlyph  = "="
	DivorcedGlyph = "≠"
)

// Line is one straight structural stroke.
type Line struct {
	X1, Y1, X2, Y2 float64
}

// Dot is one dot of an unspecified/dating relationship.
type Dot struct {
	X, Y, R float64
}

// Glyph is a relationship symbol centered at X with baseline Y.
type Glyph struct {
	X, Y float64
	Text string
}

// Overlay is the complete connector drawing for one redraw, in
// logical coordinates.
type Overlay struct {
	Lines  []Line
	Dots   []Dot
	Glyphs []Glyph
}

// Compute builds the full overlay: one relationship connector per
// resolvable two-member couple, one descent bracket per couple with
// resolvable children. Unresolvable anchors skip their connector (or
// their single child stub); the rest of the overlay is unaffected.
func Compute(t *family.Tree, g layout.Geometry) Overlay {
	var o Overlay

	// Symbol anchors feed the descent pass, matching the original
	// coupleSymbolCenters bookkeeping.
	symbols := make(map[int]point)

	for _, cid := range t.Couples() {
		members := t.Couple(cid)
		if len(members) != 2 {
			continue
		}
		boxA, okA := g.Box(members[0].Anchor())
		boxB, okB := g.Box(members[1].Anchor())
		if !okA || !okB {
			continue
		}

		left, right := boxA, boxB
		if boxB.Left < boxA.Left {
			left, right = boxB, boxA
		}
		x1, y1 := left.Right, left.MidY()
		x2, y2 := right.Left, right.MidY()
		mid := point{(x1 + x2) / 2, (y1 + y2) / 2}
		symbols[cid] = mid

		switch t.CoupleStatus(cid) {
		case family.StatusMarried:
			o.Glyphs = append(o.Glyphs, Glyph{X: mid.x, Y: mid.y + GlyphYOffset, Text: MarriedGlyph})
		case family.StatusDivorced:
			o.Glyphs = append(o.Glyphs, Glyph{X: mid.x, Y: mid.y + GlyphYOffset, Text: DivorcedGlyph})
		case family.StatusEngaged:
			o.Lines = append(o.Lines, Line{X1: x1, Y1: y1, X2: x2, Y2: y2})
		default:
			// Dots at t = 1/5 .. 4/5 of the segment, never at the endpoints.
			for i := 1; i <= RelationDots; i++ {
				f := float64(i) / float64(RelationDots+1)
				o.Dots = append(o.Dots, Dot{
					X: x1 + (x2-x1)*f,
					Y: y1 + (y2-y1)*f,
					R: DotRadius,
				})
			}
		}
	}

	for _, cid := range t.Couples() {
		o.appendDescent(t, g, cid, symbols)
	}

	return o
}

type point struct{ x, y float64 }

// appendDescent draws the bracket linking a parent couple (or single
// parent) to its children.
func (o *Overlay) appendDescent(t *family.Tree, g layout.Geometry, cid int, symbols map[int]point) {
	children := t.Children(cid)
	if len(children) == 0 {
		return
	}

	// Children's top-center points; unresolvable nodes drop out.
	var tops []point
	for _, c := range children {
		box, ok := g.Box(c.Anchor())
		if !ok {
			continue
		}
		tops = append(tops, point{box.CenterX(), box.Top})
	}
	if len(tops) == 0 {
		return
	}

	minX, maxX := tops[0].x, tops[0].x
	for _, p := range tops[1:] {
		minX = min(minX, p.x)
		maxX = max(maxX, p.x)
	}
	yMid := tops[0].y - BracketRise
	bracketCenterX := (minX + maxX) / 2

	members := t.Couple(cid)
	if sym, ok := symbols[cid]; ok && len(members) == 2 {
		// Two resolved parents: drop from the symbol anchor past the
		// lower member, then a diagonal to the bracket center.
		bottomY := sym.y
		boxA, okA := g.Box(members[0].Anchor())
		boxB, okB := g.Box(members[1].Anchor())
		if okA && okB {
			bottomY = max(boxA.Bottom, boxB.Bottom)
		}
		dropEnd := bottomY + DropOverhang
		o.Lines = append(o.Lines,
			Line{X1: sym.x, Y1: sym.y + DropStart, X2: sym.x, Y2: dropEnd},
			Line{X1: sym.x, Y1: dropEnd, X2: bracketCenterX, Y2: yMid},
		)
	} else {
		// Single parent (or partially resolved couple): one diagonal
		// from the first resolvable member's bottom center.
		var parent layout.Box
		found := false
		for _, m := range members {
			if box, ok := g.Box(m.Anchor()); ok {
				parent = box
				found = true
				break
			}
		}
		if !found {
			return
		}
		o.Lines = append(o.Lines, Line{
			X1: parent.CenterX(), Y1: parent.Bottom,
			X2: bracketCenterX, Y2: yMid,
		})
	}

	// Horizontal bracket, then one vertical stub per resolved child.
	o.Lines = append(o.Lines, Line{X1: minX, Y1: yMid, X2: maxX, Y2: yMid})
	for _, p := range tops {
		o.Lines = append(o.Lines, Line{X1: p.x, Y1: yMid, X2: p.x, Y2: p.y})
	}
}
