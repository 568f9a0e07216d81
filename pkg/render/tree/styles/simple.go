package styles

import (
	"bytes"
	"fmt"

	"github.com/kintree/kintree/pkg/family"
)

// Simple is the default flat style: rounded cards tinted by variant,
// plain black connector strokes, monospace relationship glyphs.
type Simple struct{}

const (
	simpleStrokeWidth = 2.0
	simpleGlyphSize   = 18.0
	simpleCornerR     = 8.0
	simplePhotoInset  = 10.0
	simplePhotoSize   = 56.0
)

type palette struct {
	fill   string
	stroke string
}

var simplePalettes = map[family.Variant]palette{
	family.VariantNeutral: {fill: "#f5f0e8", stroke: "#9a8f7d"},
	family.VariantF:       {fill: "#fde8ef", stroke: "#c2628d"},
	family.VariantM:       {fill: "#e3edf9", stroke: "#5b84b1"},
}

func (Simple) RenderDefs(buf *bytes.Buffer) {
	buf.WriteString(`  <defs>
    <filter id="card-shadow" x="-20%" y="-20%" width="140%" height="140%">
      <feDropShadow dx="0" dy="2" stdDeviation="2" flood-opacity="0.25"/>
    </filter>
  </defs>
`)
}

func (Simple) RenderNode(buf *bytes.Buffer, n Node) {
	p := simplePalettes[n.Variant]
	opacity := 1.0
	if n.Deceased {
		opacity = 0.55
	}

	fmt.Fprintf(buf,
		`  <g id="%s" class="person" opacity="%.2f">`+"\n",
		EscapeXML(n.ID), opacity)
	fmt.Fprintf(buf,
		`    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="%.1f" fill="%s" stroke="%s" stroke-width="1.5" filter="url(#card-shadow)"/>`+"\n",
		n.X, n.Y, n.W, n.H, simpleCornerR, p.fill, p.stroke)

	textY := n.CY
	if n.Photo != "" {
		fmt.Fprintf(buf,
			`    <image href="%s" x="%.1f" y="%.1f" width="%.1f" height="%.1f" preserveAspectRatio="xMidYMid slice"/>`+"\n",
			EscapeXML(n.Photo), n.CX-simplePhotoSize/2, n.Y+simplePhotoInset, simplePhotoSize, simplePhotoSize)
		textY = n.Y + simplePhotoInset + simplePhotoSize + 18
	}

	labelSize := LabelSize(n)
	fmt.Fprintf(buf,
		`    <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" fill="#2b2b2b">%s</text>`+"\n",
		n.CX, textY, labelSize, EscapeXML(TruncateLabel(n, n.Label, labelSize)))
	if n.Sub != "" {
		subSize := SubSize(n)
		fmt.Fprintf(buf,
			`    <text x="%.1f" y="%.1f" text-anchor="middle" font-family="sans-serif" font-size="%.1f" fill="#6b6b6b">%s</text>`+"\n",
			n.CX, textY+labelSize+2, subSize, EscapeXML(TruncateLabel(n, n.Sub, subSize)))
	}
	buf.WriteString("  </g>\n")
}

func (Simple) RenderLine(buf *bytes.Buffer, x1, y1, x2, y2 float64) {
	fmt.Fprintf(buf,
		`  <line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f" stroke="#2b2b2b" stroke-width="%.1f"/>`+"\n",
		x1, y1, x2, y2, simpleStrokeWidth)
}

func (Simple) RenderDot(buf *bytes.Buffer, x, y, r float64) {
	fmt.Fprintf(buf, `  <circle cx="%.1f" cy="%.1f" r="%.1f" fill="#2b2b2b"/>`+"\n", x, y, r)
}

func (Simple) RenderGlyph(buf *bytes.Buffer, x, y float64, text string) {
	fmt.Fprintf(buf,
		`  <text x="%.1f" y="%.1f" text-anchor="middle" font-family="monospace" font-size="%.0f">%s</text>`+"\n",
		x, y, simpleGlyphSize, EscapeXML(text))
}

func (Simple) RenderPopup(buf *bytes.Buffer, n Node) {
	if n.Popup == nil {
		return
	}
	lines := popupLines(n.Popup)
	if len(lines) == 0 {
		return
	}

	w, h := 180.0, float64(len(lines))*16+16
	fmt.Fprintf(buf,
		`  <g id="popup-%s" class="popup" visibility="hidden">`+"\n",
		EscapeXML(n.ID))
	fmt.Fprintf(buf,
		`    <rect x="%.1f" y="%.1f" width="%.1f" height="%.1f" rx="4" fill="#ffffff" stroke="#9a8f7d"/>`+"\n",
		n.X+n.W+6, n.Y, w, h)
	for i, line := range lines {
		fmt.Fprintf(buf,
			`    <text x="%.1f" y="%.1f" font-family="sans-serif" font-size="11">%s</text>`+"\n",
			n.X+n.W+14, n.Y+float64(i)*16+20, EscapeXML(line))
	}
	buf.WriteString("  </g>\n")
}

func popupLines(p *PopupData) []string {
	var lines []string
	if p.BirthDate != "" {
		lines = append(lines, "Born "+p.BirthDate)
	}
	if p.BirthPlace != "" {
		lines = append(lines, p.BirthPlace)
	}
	for _, link := range []struct{ label, url string }{
		{"LinkedIn", p.LinkedIn},
		{"Facebook", p.Facebook},
		{"WhatsApp", p.WhatsApp},
		{"YouTube", p.YouTube},
	} {
		if link.url != "" {
			lines = append(lines, link.label+": "+link.url)
		}
	}
	return lines
}
