package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed includes birth data and relationship status in node
	// labels. When false, only the display name is shown.
	Detailed bool
}

// ToDOT converts a family tree to Graphviz DOT format for node-link
// visualization. The resulting DOT string can be rendered using
// [RenderSVG], [RenderPDF], or [RenderPNG].
//
// Couples are modeled as invisible junction points: partners connect
// to the junction with undecorated edges and children descend from it,
// which keeps sibling groups attached to one shared point the way the
// tree visualization's bracket does.
func ToDOT(t *family.Tree, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fillcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  edge [dir=none];\n")
	buf.WriteString("  ranksep=0.7;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	for _, gen := range t.Generations() {
		fmt.Fprintf(&buf, "  { rank=same;")
		for _, p := range t.Generation(gen) {
			fmt.Fprintf(&buf, " %q;", p.Anchor())
		}
		buf.WriteString(" }\n")
	}
	buf.WriteString("\n")

	for _, p := range t.Records() {
		label := fmtLabel(t, &p, opts.Detailed)
		attrs := fmtAttrs(&p, label)
		fmt.Fprintf(&buf, "  %q [%s];\n", p.Anchor(), strings.Join(attrs, ", "))
	}

	buf.WriteString("\n")
	for _, cid := range t.Couples() {
		members := t.Couple(cid)
		hasChildren := len(t.Children(cid)) > 0
		if len(members) < 2 && !hasChildren {
			continue
		}

		junction := fmt.Sprintf("couple-%d", cid)
		fmt.Fprintf(&buf, "  %q [shape=point, width=0.06, fillcolor=black];\n", junction)
		for _, m := range members {
			style := coupleEdgeStyle(t.CoupleStatus(cid))
			fmt.Fprintf(&buf, "  %q -> %q%s;\n", m.Anchor(), junction, style)
		}
		for _, c := range t.Children(cid) {
			fmt.Fprintf(&buf, "  %q -> %q;\n", junction, c.Anchor())
		}
	}

	buf.WriteString("}\n")
	return buf.String()
}

func fmtLabel(t *family.Tree, p *family.Person, detailed bool) string {
	if !detailed {
		return p.DisplayName()
	}

	parts := []string{p.DisplayName()}
	if p.BirthDate != "" {
		parts = append(parts, "b. "+p.BirthDate)
	}
	if p.BirthPlace != "" {
		parts = append(parts, p.BirthPlace)
	}
	if p.HasCouple() {
		if s := t.CoupleStatus(p.CoupleID); s != family.StatusUnspecified {
			parts = append(parts, s.String())
		}
	}
	return strings.Join(parts, "\n")
}

func fmtAttrs(p *family.Person, label string) []string {
	attrs := []string{fmt.Sprintf("label=%q", label)}
	switch p.NodeVariant() {
	case family.VariantF:
		attrs = append(attrs, "fillcolor=\"#fde8ef\"")
	case family.VariantM:
		attrs = append(attrs, "fillcolor=\"#e3edf9\"")
	}
	if p.Deceased() {
		attrs = append(attrs, "style=\"rounded,filled,dashed\"")
	}
	return attrs
}

func coupleEdgeStyle(s family.Status) string {
	switch s {
	case family.StatusDivorced:
		return " [style=dashed]"
	case family.StatusUnspecified, family.StatusDating:
		return " [style=dotted]"
	default:
		return ""
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, fmt.Errorf("init graphviz: %w", err)
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, fmt.Errorf("parse DOT: %w", err)
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	return normalizeViewBox(buf.Bytes()), nil
}

var (
	svgTagRe  = regexp.MustCompile(`<svg[^>]*>`)
	viewBoxRe = regexp.MustCompile(`viewBox="([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)\s+([0-9.]+)"`)
)

func normalizeViewBox(svg []byte) []byte {
	match := viewBoxRe.FindSubmatch(svg)
	if match == nil {
		return svg
	}

	w, _ := strconv.ParseFloat(string(match[3]), 64)
	h, _ := strconv.ParseFloat(string(match[4]), 64)
	if w == 0 || h == 0 {
		return svg
	}

	newSvg := fmt.Sprintf(`<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %.2f %.2f" width="%.0f" height="%.0f">`,
		w, h, w, h)

	return svgTagRe.ReplaceAll(svg, []byte(newSvg))
}

// RenderPDF renders a DOT graph as PDF via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPDF].
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPDF(dot string) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPDF(svg)
}

// RenderPNG renders a DOT graph as PNG via SVG conversion.
// This is a convenience wrapper around [RenderSVG] and [render.ToPNG].
//
// A scale of 2.0 produces a 2x resolution image suitable for high-DPI displays.
//
// Requires librsvg: brew install librsvg (macOS), apt install librsvg2-bin (Linux).
func RenderPNG(dot string, scale float64) ([]byte, error) {
	svg, err := RenderSVG(dot)
	if err != nil {
		return nil, err
	}
	return render.ToPNG(svg, scale)
}
