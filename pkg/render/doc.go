// Package render provides visualization rendering for family trees.
//
// # Visualization Types
//
// Two renderers share the family record store as input:
//
// [tree] - The banded family tree. Each generation is a horizontal
// band; couples cluster side by side with a relationship symbol
// between them, and bracket connectors drop to their children. This
// is the primary, interactive visualization.
//
// [nodelink] - A Graphviz-based node-link diagram. People are nodes,
// couples meet at junction points, and descent edges run to children.
// Useful as a compact topological view of large trees.
//
// # Format Conversion
//
// SVG is the native output of both renderers. ToPNG and ToPDF shell
// out to rsvg-convert for rasterization; the binary must be on PATH
// (librsvg package on most systems).
//
//	svg := sink.RenderSVG(d, g, sink.WithTree(tree))
//	png, err := render.ToPNG(svg, 2.0)
//
// [tree]: github.com/kintree/kintree/pkg/render/tree
// [nodelink]: github.com/kintree/kintree/pkg/render/nodelink
package render
