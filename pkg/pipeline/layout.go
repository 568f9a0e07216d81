package pipeline

import (
	"encoding/json"

	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/render/nodelink"
	"github.com/kintree/kintree/pkg/render/tree/layout"
)

// Layout is the serializable result of the layout stage. Tree layouts
// carry the banded diagram plus measured geometry; nodelink layouts
// carry DOT source instead.
type Layout struct {
	VizType string                `json:"viz_type"`
	Diagram layout.Diagram        `json:"diagram,omitempty"`
	Width   float64               `json:"width,omitempty"`
	Height  float64               `json:"height,omitempty"`
	Boxes   map[string]layout.Box `json:"boxes,omitempty"`
	DOT     string                `json:"dot,omitempty"`
}

// IsNodelink returns true for DOT-based layouts.
func (l Layout) IsNodelink() bool { return l.VizType == VizTypeNodelink }

// Geometry reconstructs the measured geometry of a tree layout.
func (l Layout) Geometry() layout.Geometry {
	return layout.NewGeometry(l.Width, l.Height, l.Boxes)
}

// GenerateLayout generates a complete layout for any visualization type.
// This is the unified entry point for producing serializable layout data.
func GenerateLayout(t *family.Tree, opts Options) (Layout, error) {
	if err := opts.ValidateForLayout(); err != nil {
		return Layout{}, err
	}

	if opts.IsNodelink() {
		return Layout{
			VizType: VizTypeNodelink,
			DOT:     nodelink.ToDOT(t, nodelink.Options{Detailed: opts.Detailed}),
		}, nil
	}

	d := layout.Build(t)
	g := layout.Measure(d, opts.Metrics)

	boxes := make(map[string]layout.Box, g.Anchors())
	for _, n := range d.Nodes() {
		if box, ok := g.Box(n.Anchor); ok {
			boxes[n.Anchor] = box
		}
	}

	return Layout{
		VizType: VizTypeTree,
		Diagram: d,
		Width:   g.Width,
		Height:  g.Height,
		Boxes:   boxes,
	}, nil
}

// MarshalLayout serializes a layout for caching.
func MarshalLayout(l Layout) ([]byte, error) {
	return json.Marshal(l)
}

// UnmarshalLayout deserializes a cached layout.
func UnmarshalLayout(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse cached layout")
	}
	if l.VizType == "" {
		return Layout{}, errors.New(errors.ErrCodeInvalidFormat, "cached layout missing viz_type")
	}
	return l, nil
}
