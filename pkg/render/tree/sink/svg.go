package sink

import (
	"bytes"
	"fmt"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/render/tree/connector"
	"github.com/kintree/kintree/pkg/render/tree/layout"
	"github.com/kintree/kintree/pkg/render/tree/styles"
)

const viewportCSS = `
    .person { cursor: default; }
    .person rect { transition: stroke-width 0.2s ease; }
    .person.highlight rect { stroke-width: 3; }
    svg { touch-action: none; }`

// viewportJS implements wheel, pinch, and drag navigation on the
// content group. The math mirrors pkg/view: wheel deltas divide by
// 1000 and only count when ctrl/meta is held or the delta is
// fractional (trackpad pinch), touch pinches divide the distance
// change by 400, and zoom stays inside [0.3, 2.5] while the point
// under the pointer stays fixed.
const viewportJS = `
    const svg = document.querySelector('svg');
    const content = document.getElementById('content');
    const minZoom = 0.3, maxZoom = 2.5;
    let zoom = 1, panX = 0, panY = 0;
    let lastDist = null, panning = false, startX = 0, startY = 0, panX0 = 0, panY0 = 0;

    function apply() {
      content.setAttribute('transform', 'translate(' + panX + ',' + panY + ') scale(' + zoom + ')');
    }
    function zoomAround(px, py, dz) {
      const next = Math.min(maxZoom, Math.max(minZoom, zoom + dz));
      const lx = (px - panX) / zoom, ly = (py - panY) / zoom;
      panX = px - lx * next;
      panY = py - ly * next;
      zoom = next;
      apply();
    }
    svg.addEventListener('wheel', e => {
      if (!e.ctrlKey && !e.metaKey && Number.isInteger(e.deltaY)) return;
      e.preventDefault();
      const r = svg.getBoundingClientRect();
      zoomAround(e.clientX - r.left, e.clientY - r.top, -e.deltaY / 1000);
    }, { passive: false });
    svg.addEventListener('touchstart', e => {
      if (e.touches.length === 2) {
        lastDist = Math.hypot(e.touches[0].clientX - e.touches[1].clientX,
                              e.touches[0].clientY - e.touches[1].clientY);
      }
    });
    svg.addEventListener('touchmove', e => {
      if (e.touches.length !== 2 || lastDist === null) return;
      e.preventDefault();
      const dist = Math.hypot(e.touches[0].clientX - e.touches[1].clientX,
                              e.touches[0].clientY - e.touches[1].clientY);
      const r = svg.getBoundingClientRect();
      const mx = (e.touches[0].clientX + e.touches[1].clientX) / 2 - r.left;
      const my = (e.touches[0].clientY + e.touches[1].clientY) / 2 - r.top;
      zoomAround(mx, my, (dist - lastDist) / 400);
      lastDist = dist;
    }, { passive: false });
    svg.addEventListener('touchend', e => { if (e.touches.length < 2) lastDist = null; });
    svg.addEventListener('mousedown', e => {
      if (e.button !== 0) return;
      panning = true; startX = e.clientX; startY = e.clientY; panX0 = panX; panY0 = panY;
    });
    svg.addEventListener('mousemove', e => {
      if (!panning) return;
      panX = panX0 + (e.clientX - startX);
      panY = panY0 + (e.clientY - startY);
      apply();
    });
    ['mouseup', 'mouseleave'].forEach(ev => svg.addEventListener(ev, () => { panning = false; }));`

// SVGOption configures the SVG renderer.
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	tree        *family.Tree
	style       styles.Style
	interactive bool
	popups      bool
}

// WithTree provides the record store, enabling connector rendering,
// deceased dimming, and popup metadata.
func WithTree(t *family.Tree) SVGOption { return func(r *svgRenderer) { r.tree = t } }

// WithStyle overrides the default Simple style.
func WithStyle(s styles.Style) SVGOption { return func(r *svgRenderer) { r.style = s } }

// WithInteractive embeds the pan and zoom script.
func WithInteractive() SVGOption { return func(r *svgRenderer) { r.interactive = true } }

// WithPopups enables hover popups with person metadata.
func WithPopups() SVGOption { return func(r *svgRenderer) { r.popups = true } }

// RenderSVG renders a measured diagram as SVG. Nodes, connector
// strokes, and relationship marks are drawn inside one content group
// so the navigation script can transform them together.
func RenderSVG(d layout.Diagram, g layout.Geometry, opts ...SVGOption) []byte {
	r := newSVGRenderer(opts...)

	nodes := buildNodes(d, g, r.tree, r.popups)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.1f %.1f" width="%.0f" height="%.0f">`+"\n",
		g.Width, g.Height, g.Width, g.Height)

	r.style.RenderDefs(&buf)
	buf.WriteString(`  <g id="content">` + "\n")
	if r.tree != nil {
		renderOverlay(&buf, r.style, connector.Compute(r.tree, g))
	}
	for _, n := range nodes {
		r.style.RenderNode(&buf, n)
	}
	if r.popups {
		for _, n := range nodes {
			r.style.RenderPopup(&buf, n)
		}
	}
	buf.WriteString("  </g>\n")

	if r.interactive {
		fmt.Fprintf(&buf, "  <style>%s\n  </style>\n", viewportCSS)
		fmt.Fprintf(&buf, "  <script type=\"text/javascript\"><![CDATA[%s\n  ]]></script>\n", viewportJS)
	}
	if r.popups {
		RenderPopupScript(&buf)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

func newSVGRenderer(opts ...SVGOption) svgRenderer {
	r := svgRenderer{style: styles.Simple{}}
	for _, opt := range opts {
		opt(&r)
	}
	return r
}

// renderOverlay draws connectors under the person cards: strokes
// first, then dots and glyphs.
func renderOverlay(buf *bytes.Buffer, s styles.Style, o connector.Overlay) {
	for _, l := range o.Lines {
		s.RenderLine(buf, l.X1, l.Y1, l.X2, l.Y2)
	}
	for _, d := range o.Dots {
		s.RenderDot(buf, d.X, d.Y, d.R)
	}
	for _, gl := range o.Glyphs {
		s.RenderGlyph(buf, gl.X, gl.Y, gl.Text)
	}
}

func buildNodes(d layout.Diagram, g layout.Geometry, t *family.Tree, withPopups bool) []styles.Node {
	var nodes []styles.Node
	for _, ln := range d.Nodes() {
		box, ok := g.Box(ln.Anchor)
		if !ok {
			continue
		}
		n := styles.Node{
			ID:    ln.Anchor,
			Label: ln.Label,
			Sub:   ln.Sub,
			X:     box.Left, Y: box.Top,
			W: box.Width(), H: box.Height(),
			CX: box.CenterX(), CY: box.MidY(),
			Variant: ln.Variant,
			Photo:   ln.Photo,
		}
		if t != nil {
			if p, ok := t.Person(ln.PersonID); ok {
				n.Deceased = p.Deceased()
				if withPopups {
					n.Popup = extractPopupData(p)
				}
			}
		}
		nodes = append(nodes, n)
	}
	return nodes
}

func extractPopupData(p *family.Person) *styles.PopupData {
	return &styles.PopupData{
		BirthDate:  p.BirthDate,
		BirthPlace: p.BirthPlace,
		LinkedIn:   p.LinkedIn,
		Facebook:   p.Facebook,
		WhatsApp:   p.WhatsApp,
		YouTube:    p.YouTube,
	}
}
