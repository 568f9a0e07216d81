package connector

import (
	"math"
	"testing"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/render/tree/layout"
)

func near(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

// Two partners side by side, right edge of the left box at x=100 and
// left edge of the right box at x=200, both vertically centered on 50.
func coupleBoxes() map[string]layout.Box {
	return map[string]layout.Box{
		family.Anchor(1): {Left: 20, Top: 0, Right: 100, Bottom: 100},
		family.Anchor(2): {Left: 200, Top: 0, Right: 280, Bottom: 100},
	}
}

func coupleTree(status family.Status) *family.Tree {
	return family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1, PartnerID: 2, Status: status},
		{ID: 2, Generation: 0, CoupleID: 1, PartnerID: 1, Status: status},
	})
}

func TestComputeMarriedGlyph(t *testing.T) {
	tr := coupleTree(family.StatusMarried)
	g := layout.NewGeometry(320, 140, coupleBoxes())

	o := Compute(tr, g)
	if len(o.Glyphs) != 1 {
		t.Fatalf("glyphs = %d, want 1", len(o.Glyphs))
	}
	glyph := o.Glyphs[0]
	if glyph.Text != MarriedGlyph {
		t.Errorf("glyph text = %q, want %q", glyph.Text, MarriedGlyph)
	}
	if !near(glyph.X, 150) || !near(glyph.Y, 56) {
		t.Errorf("glyph at (%v, %v), want (150, 56)", glyph.X, glyph.Y)
	}
	if len(o.Lines) != 0 || len(o.Dots) != 0 {
		t.Errorf("married couple drew %d lines and %d dots, want none", len(o.Lines), len(o.Dots))
	}
}

func TestComputeDivorcedGlyph(t *testing.T) {
	o := Compute(coupleTree(family.StatusDivorced), layout.NewGeometry(320, 140, coupleBoxes()))
	if len(o.Glyphs) != 1 || o.Glyphs[0].Text != DivorcedGlyph {
		t.Fatalf("glyphs = %+v, want one %q", o.Glyphs, DivorcedGlyph)
	}
}

func TestComputeEngagedLine(t *testing.T) {
	o := Compute(coupleTree(family.StatusEngaged), layout.NewGeometry(320, 140, coupleBoxes()))
	if len(o.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(o.Lines))
	}
	l := o.Lines[0]
	if !near(l.X1, 100) || !near(l.Y1, 50) || !near(l.X2, 200) || !near(l.Y2, 50) {
		t.Errorf("engaged line = %+v, want (100,50)-(200,50)", l)
	}
	if len(o.Glyphs) != 0 || len(o.Dots) != 0 {
		t.Errorf("engaged couple drew glyphs or dots")
	}
}

func TestComputeUnspecifiedDots(t *testing.T) {
	o := Compute(coupleTree(family.StatusUnspecified), layout.NewGeometry(320, 140, coupleBoxes()))
	if len(o.Dots) != 4 {
		t.Fatalf("dots = %d, want 4", len(o.Dots))
	}
	wantX := []float64{120, 140, 160, 180}
	for i, d := range o.Dots {
		if !near(d.X, wantX[i]) || !near(d.Y, 50) {
			t.Errorf("dot %d at (%v, %v), want (%v, 50)", i, d.X, d.Y, wantX[i])
		}
		if !near(d.R, DotRadius) {
			t.Errorf("dot %d radius = %v, want %v", i, d.R, DotRadius)
		}
	}
}

func TestComputeStatusFirstSpecifiedWins(t *testing.T) {
	tr := family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1, PartnerID: 2},
		{ID: 2, Generation: 0, CoupleID: 1, PartnerID: 1, Status: family.StatusMarried},
	})
	o := Compute(tr, layout.NewGeometry(320, 140, coupleBoxes()))
	if len(o.Glyphs) != 1 || o.Glyphs[0].Text != MarriedGlyph {
		t.Fatalf("glyphs = %+v, want the married glyph", o.Glyphs)
	}
}

func TestComputeDescentBracket(t *testing.T) {
	tr := family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1, PartnerID: 2, Status: family.StatusMarried},
		{ID: 2, Generation: 0, CoupleID: 1, PartnerID: 1, Status: family.StatusMarried},
		{ID: 3, Generation: 1, ParentCoupleID: 1},
		{ID: 4, Generation: 1, ParentCoupleID: 1},
	})
	boxes := coupleBoxes()
	boxes[family.Anchor(3)] = layout.Box{Left: 40, Top: 300, Right: 120, Bottom: 400}
	boxes[family.Anchor(4)] = layout.Box{Left: 120, Top: 300, Right: 200, Bottom: 400}
	g := layout.NewGeometry(320, 440, boxes)

	o := Compute(tr, g)

	// Drop, diagonal, horizontal bracket, two stubs.
	if len(o.Lines) != 5 {
		t.Fatalf("lines = %d, want 5", len(o.Lines))
	}

	drop := o.Lines[0]
	if !near(drop.X1, 150) || !near(drop.Y1, 58) || !near(drop.X2, 150) || !near(drop.Y2, 110) {
		t.Errorf("couple drop = %+v, want (150,58)-(150,110)", drop)
	}
	diag := o.Lines[1]
	if !near(diag.X1, 150) || !near(diag.Y1, 110) || !near(diag.X2, 120) || !near(diag.Y2, 280) {
		t.Errorf("diagonal = %+v, want (150,110)-(120,280)", diag)
	}
	bracket := o.Lines[2]
	if !near(bracket.X1, 80) || !near(bracket.X2, 160) || !near(bracket.Y1, 280) || !near(bracket.Y2, 280) {
		t.Errorf("bracket = %+v, want (80,280)-(160,280)", bracket)
	}
	for i, wantX := range []float64{80, 160} {
		stub := o.Lines[3+i]
		if !near(stub.X1, wantX) || !near(stub.Y1, 280) || !near(stub.X2, wantX) || !near(stub.Y2, 300) {
			t.Errorf("stub %d = %+v, want (%v,280)-(%v,300)", i, stub, wantX, wantX)
		}
	}
}

func TestComputeSingleParentDiagonal(t *testing.T) {
	tr := family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1},
		{ID: 3, Generation: 1, ParentCoupleID: 1},
	})
	boxes := map[string]layout.Box{
		family.Anchor(1): {Left: 20, Top: 0, Right: 100, Bottom: 100},
		family.Anchor(3): {Left: 40, Top: 300, Right: 120, Bottom: 400},
	}
	o := Compute(tr, layout.NewGeometry(320, 440, boxes))

	// Diagonal, bracket, one stub. A one-member couple has no
	// relationship connector.
	if len(o.Lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(o.Lines))
	}
	diag := o.Lines[0]
	if !near(diag.X1, 60) || !near(diag.Y1, 100) || !near(diag.X2, 80) || !near(diag.Y2, 280) {
		t.Errorf("diagonal = %+v, want (60,100)-(80,280)", diag)
	}
}

func TestComputeSkipsUnresolvableAnchor(t *testing.T) {
	tr := family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1, PartnerID: 2, Status: family.StatusMarried},
		{ID: 2, Generation: 0, CoupleID: 1, PartnerID: 1, Status: family.StatusMarried},
		{ID: 3, Generation: 0, CoupleID: 2, PartnerID: 4, Status: family.StatusMarried},
		{ID: 4, Generation: 0, CoupleID: 2, PartnerID: 3, Status: family.StatusMarried},
	})
	// Person 4 was never measured: couple 2 skips, couple 1 still draws.
	boxes := coupleBoxes()
	boxes[family.Anchor(3)] = layout.Box{Left: 320, Top: 0, Right: 400, Bottom: 100}
	o := Compute(tr, layout.NewGeometry(440, 140, boxes))

	if len(o.Glyphs) != 1 {
		t.Fatalf("glyphs = %d, want 1 (unresolvable couple skipped)", len(o.Glyphs))
	}
	if !near(o.Glyphs[0].X, 150) {
		t.Errorf("surviving glyph at x=%v, want 150", o.Glyphs[0].X)
	}
}

func TestComputeSkipsUnresolvableChild(t *testing.T) {
	tr := family.New([]family.Person{
		{ID: 1, Generation: 0, CoupleID: 1},
		{ID: 3, Generation: 1, ParentCoupleID: 1},
		{ID: 4, Generation: 1, ParentCoupleID: 1},
	})
	boxes := map[string]layout.Box{
		family.Anchor(1): {Left: 20, Top: 0, Right: 100, Bottom: 100},
		family.Anchor(3): {Left: 40, Top: 300, Right: 120, Bottom: 400},
	}
	o := Compute(tr, layout.NewGeometry(320, 440, boxes))

	// The missing child drops out; the bracket collapses onto the
	// remaining child's center.
	if len(o.Lines) != 3 {
		t.Fatalf("lines = %d, want 3", len(o.Lines))
	}
	bracket := o.Lines[1]
	if !near(bracket.X1, 80) || !near(bracket.X2, 80) {
		t.Errorf("bracket = %+v, want collapsed at x=80", bracket)
	}
}

func TestComputeEmptyTree(t *testing.T) {
	o := Compute(family.New(nil), layout.NewGeometry(0, 0, nil))
	if len(o.Lines) != 0 || len(o.Dots) != 0 || len(o.Glyphs) != 0 {
		t.Fatalf("empty tree produced a non-empty overlay: %+v", o)
	}
}
