package layout

// Box is the measured bounding box of one rendered node, in logical
// coordinates. Top-left origin, y grows downward.
type Box struct {
	Left, Top, Right, Bottom float64
}

// Width returns the horizontal span of the box.
func (b Box) Width() float64 { return b.Right - b.Left }

// Height returns the vertical span of the box.
func (b Box) Height() float64 { return b.Bottom - b.Top }

// CenterX returns the horizontal center of the box.
func (b Box) CenterX() float64 { return (b.Left + b.Right) / 2 }

// MidY returns the vertical midpoint of the box.
func (b Box) MidY() float64 { return (b.Top + b.Bottom) / 2 }

// Metrics are the sizing constants Measure lays nodes out with.
// All values are logical units (pixels at zoom 1).
type Metrics struct {
	NodeWidth  float64 // width of one person node
	NodeHeight float64 // height of one person node
	CoupleGap  float64 // gap between the two members of a couple
	ClusterGap float64 // gap between adjacent clusters in a band
	BandGap    float64 // vertical gap between generation bands
	Padding    float64 // outer content padding on all sides
}

// DefaultMetrics returns the standard node sizing.
func DefaultMetrics() Metrics {
	return Metrics{
		NodeWidth:  120,
		NodeHeight: 150,
		CoupleGap:  10,
		ClusterGap: 30,
		BandGap:    80,
		Padding:    40,
	}
}

// Geometry is the measured diagram: total content extent plus the
// anchor → box mapping. It is a pure function of (Diagram, Metrics) —
// the same inputs always measure to identical geometry.
type Geometry struct {
	Width  float64
	Height float64

	boxes map[string]Box
}

// NewGeometry builds a Geometry from externally measured boxes, for
// callers that obtain node extents from a live surface instead of
// Measure. The box map is copied.
func NewGeometry(width, height float64, boxes map[string]Box) Geometry {
	g := Geometry{Width: width, Height: height, boxes: make(map[string]Box, len(boxes))}
	for a, b := range boxes {
		g.boxes[a] = b
	}
	return g
}

// Box resolves the measured box for an anchor id. The second return
// is false for anchors that were never rendered (stale references);
// callers are expected to skip those rather than fail.
func (g Geometry) Box(anchor string) (Box, bool) {
	b, ok := g.boxes[anchor]
	return b, ok
}

// Anchors returns the number of measured nodes.
func (g Geometry) Anchors() int { return len(g.boxes) }

// Measure assigns a box to every node of the diagram.
//
// Each band is one horizontal row; bands are stacked top to bottom
// with BandGap between them and centered horizontally on the widest
// band. Within a band, clusters are laid out left to right with
// ClusterGap between them; couple members sit CoupleGap apart.
func Measure(d Diagram, m Metrics) Geometry {
	g := Geometry{boxes: make(map[string]Box)}

	widths := make([]float64, len(d.Bands))
	maxWidth := 0.0
	for i, band := range d.Bands {
		widths[i] = bandWidth(band, m)
		if widths[i] > maxWidth {
			maxWidth = widths[i]
		}
	}

	g.Width = maxWidth + 2*m.Padding
	y := m.Padding
	for i, band := range d.Bands {
		x := m.Padding + (maxWidth-widths[i])/2
		for _, cluster := range band.Clusters {
			for j, node := range cluster.Nodes {
				if j > 0 {
					x += m.CoupleGap
				}
				g.boxes[node.Anchor] = Box{
					Left:   x,
					Top:    y,
					Right:  x + m.NodeWidth,
					Bottom: y + m.NodeHeight,
				}
				x += m.NodeWidth
			}
			x += m.ClusterGap
		}
		y += m.NodeHeight
		if i < len(d.Bands)-1 {
			y += m.BandGap
		}
	}
	g.Height = y + m.Padding

	return g
}

func bandWidth(band Band, m Metrics) float64 {
	w := 0.0
	for i, cluster := range band.Clusters {
		if i > 0 {
			w += m.ClusterGap
		}
		n := float64(len(cluster.Nodes))
		w += n*m.NodeWidth + (n-1)*m.CoupleGap
	}
	return w
}
