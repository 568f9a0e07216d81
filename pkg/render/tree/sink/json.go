package sink

import (
	"encoding/json"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/render/tree/connector"
	"github.com/kintree/kintree/pkg/render/tree/layout"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	tree  *family.Tree
	style string
}

// WithJSONTree attaches the record store for metadata enrichment and
// connector geometry. Without this, nodes carry minimal metadata and
// no connectors are exported.
func WithJSONTree(t *family.Tree) JSONOption { return func(r *jsonRenderer) { r.tree = t } }

// WithJSONStyle records the style name (e.g., "simple") in the JSON
// output for round-trip rendering.
func WithJSONStyle(s string) JSONOption { return func(r *jsonRenderer) { r.style = s } }

type jsonOutput struct {
	Width  float64          `json:"width"`
	Height float64          `json:"height"`
	Style  string           `json:"style,omitempty"`
	Bands  map[int][]string `json:"bands,omitempty"`
	Nodes  []jsonNode       `json:"nodes"`
	Lines  []jsonLine       `json:"lines,omitempty"`
	Dots   []jsonDot        `json:"dots,omitempty"`
	Glyphs []jsonGlyph      `json:"glyphs,omitempty"`
}

type jsonNode struct {
	ID       string    `json:"id"`
	PersonID int       `json:"person_id"`
	Label    string    `json:"label"`
	Sub      string    `json:"sub,omitempty"`
	X        float64   `json:"x"`
	Y        float64   `json:"y"`
	Width    float64   `json:"width"`
	Height   float64   `json:"height"`
	Photo    string    `json:"photo,omitempty"`
	Deceased bool      `json:"deceased,omitempty"`
	Meta     *jsonMeta `json:"meta,omitempty"`
}

type jsonMeta struct {
	BirthDate  string `json:"birth_date,omitempty"`
	BirthPlace string `json:"birth_place,omitempty"`
	Gender     string `json:"gender,omitempty"`
}

type jsonLine struct {
	X1 float64 `json:"x1"`
	Y1 float64 `json:"y1"`
	X2 float64 `json:"x2"`
	Y2 float64 `json:"y2"`
}

type jsonDot struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	R float64 `json:"r"`
}

type jsonGlyph struct {
	X    float64 `json:"x"`
	Y    float64 `json:"y"`
	Text string  `json:"text"`
}

// RenderJSON exports the measured diagram as a pretty-printed JSON
// document: band membership, node boxes, and (when the record store is
// attached) the full connector geometry. External tools can redraw the
// diagram from this alone.
//
// RenderJSON returns an error only if JSON marshaling fails. It does
// not modify the diagram or the record store, and is safe to call
// concurrently.
func RenderJSON(d layout.Diagram, g layout.Geometry, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := jsonOutput{
		Width:  g.Width,
		Height: g.Height,
		Style:  r.style,
		Bands:  buildJSONBands(d),
		Nodes:  buildJSONNodes(d, g, r.tree),
	}

	if r.tree != nil {
		o := connector.Compute(r.tree, g)
		for _, l := range o.Lines {
			out.Lines = append(out.Lines, jsonLine{X1: l.X1, Y1: l.Y1, X2: l.X2, Y2: l.Y2})
		}
		for _, dt := range o.Dots {
			out.Dots = append(out.Dots, jsonDot{X: dt.X, Y: dt.Y, R: dt.R})
		}
		for _, gl := range o.Glyphs {
			out.Glyphs = append(out.Glyphs, jsonGlyph{X: gl.X, Y: gl.Y, Text: gl.Text})
		}
	}

	return json.MarshalIndent(out, "", "  ")
}

func buildJSONBands(d layout.Diagram) map[int][]string {
	if len(d.Bands) == 0 {
		return nil
	}
	bands := make(map[int][]string, len(d.Bands))
	for _, band := range d.Bands {
		var anchors []string
		for _, cluster := range band.Clusters {
			for _, n := range cluster.Nodes {
				anchors = append(anchors, n.Anchor)
			}
		}
		bands[band.Generation] = anchors
	}
	return bands
}

func buildJSONNodes(d layout.Diagram, g layout.Geometry, t *family.Tree) []jsonNode {
	nodes := make([]jsonNode, 0, g.Anchors())
	for _, ln := range d.Nodes() {
		box, ok := g.Box(ln.Anchor)
		if !ok {
			continue
		}
		jn := jsonNode{
			ID:       ln.Anchor,
			PersonID: ln.PersonID,
			Label:    ln.Label,
			Sub:      ln.Sub,
			X:        box.Left,
			Y:        box.Top,
			Width:    box.Width(),
			Height:   box.Height(),
			Photo:    ln.Photo,
		}
		if t != nil {
			if p, ok := t.Person(ln.PersonID); ok {
				jn.Deceased = p.Deceased()
				jn.Meta = extractJSONMeta(p)
			}
		}
		nodes = append(nodes, jn)
	}
	return nodes
}

func extractJSONMeta(p *family.Person) *jsonMeta {
	m := &jsonMeta{
		BirthDate:  p.BirthDate,
		BirthPlace: p.BirthPlace,
		Gender:     p.Gender,
	}
	if m.BirthDate == "" && m.BirthPlace == "" && m.Gender == "" {
		return nil
	}
	return m
}
