// Package pkg provides the core libraries for Kintree family tree rendering.
//
// # Overview
//
// Kintree turns flat genealogical records into generation-banded family
// tree diagrams: couples cluster side by side, relationship symbols sit
// between partners, and bracket connectors drop from each couple to its
// children. The pkg directory is organized into five main areas:
//
//  1. [family] - Domain model (person records, couples, generations)
//  2. [render] - Visualization rendering (tree layout + nodelink diagrams)
//  3. [view] - Viewport coordinate frames (zoom, pan, gestures)
//  4. [cache] - Content-addressed caching of layouts and artifacts
//  5. [pipeline] - Orchestration (load → layout → render)
//
// # Architecture
//
// The typical data flow through Kintree:
//
//	Family Records (JSON)
//	         ↓
//	    [family] package (record store, couples, generations)
//	         ↓
//	    [render/tree/layout] package (bands, clusters, boxes)
//	         ↓
//	    [render/tree/connector] package (symbols, brackets)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Load records and render an interactive SVG:
//
//	import (
//	    "github.com/kintree/kintree/pkg/family"
//	    "github.com/kintree/kintree/pkg/render/tree/layout"
//	    "github.com/kintree/kintree/pkg/render/tree/sink"
//	)
//
//	// 1. Load the record store
//	tree, _ := family.ImportFile("family.json")
//
//	// 2. Build and measure the layout
//	d := layout.Build(tree)
//	g := layout.Measure(d, layout.DefaultMetrics())
//
//	// 3. Render to SVG with pan/zoom controls
//	svg := sink.RenderSVG(d, g,
//	    sink.WithTree(tree),
//	    sink.WithInteractive(),
//	    sink.WithPopups())
//
// # Main Packages
//
// [family] - The record store. Flat person records keyed by id, grouped
// into couples and generations, with partner and parent-child editing
// operations and JSON import/export.
//
// [render/tree] - The banded tree renderer: layout (bands, clusters,
// measured boxes), connector (relationship symbols and descent
// brackets), styles (node drawing), and sink (SVG/PNG/PDF/JSON output).
//
// [render/nodelink] - Graphviz-based node-link rendering of the same
// records, for a compact topological view.
//
// [view] - Camera and gesture arithmetic for the zoomable viewport,
// shared between the embedded SVG script and the terminal viewer.
//
// [cache] - Content-hash keyed caching with file, redis, and null
// backends.
//
// [pipeline] - The load → layout → render pipeline with per-stage
// caching, used by both the CLI and the HTTP server.
package pkg
