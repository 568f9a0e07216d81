package pipeline

import (
	"github.com/kintree/kintree/pkg/errors"
	"github.com/kintree/kintree/pkg/family"
	"github.com/kintree/kintree/pkg/render/nodelink"
	"github.com/kintree/kintree/pkg/render/tree/sink"
	"github.com/kintree/kintree/pkg/render/tree/styles"
)

// RenderFromLayout renders output artifacts from a layout, dispatching
// on the layout's visualization type.
func RenderFromLayout(l Layout, t *family.Tree, opts Options) (map[string][]byte, error) {
	if l.IsNodelink() {
		opts.VizType = VizTypeNodelink
		return renderNodelink(l, opts)
	}
	return renderTree(l, t, opts)
}

// RenderFromLayoutData renders output from serialized layout data.
// This is useful when the layout was computed elsewhere (e.g., cached).
func RenderFromLayoutData(layoutData []byte, t *family.Tree, opts Options) (map[string][]byte, error) {
	l, err := UnmarshalLayout(layoutData)
	if err != nil {
		return nil, err
	}
	return RenderFromLayout(l, t, opts)
}

func renderTree(l Layout, t *family.Tree, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}

	g := l.Geometry()
	svgOpts := buildSVGOptions(t, opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = sink.RenderSVG(l.Diagram, g, svgOpts...)
		case FormatPNG:
			data, err = sink.RenderPNG(l.Diagram, g,
				sink.WithPNGSVGOptions(svgOpts...), sink.WithScale(opts.Scale))
		case FormatPDF:
			data, err = sink.RenderPDF(l.Diagram, g, sink.WithPDFSVGOptions(svgOpts...))
		case FormatJSON:
			jsonOpts := []sink.JSONOption{sink.WithJSONStyle(opts.Style)}
			if t != nil {
				jsonOpts = append(jsonOpts, sink.WithJSONTree(t))
			}
			data, err = sink.RenderJSON(l.Diagram, g, jsonOpts...)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported tree format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func renderNodelink(l Layout, opts Options) (map[string][]byte, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, err
	}
	if l.DOT == "" {
		return nil, errors.New(errors.ErrCodeInvalidInput, "nodelink layout missing DOT source")
	}

	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(l.DOT)
		case FormatPNG:
			data, err = nodelink.RenderPNG(l.DOT, opts.Scale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(l.DOT)
		case FormatDOT:
			data = []byte(l.DOT)
		case FormatJSON:
			data, err = MarshalLayout(l)
		default:
			return nil, errors.New(errors.ErrCodeInvalidFormat, "unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, errors.Wrap(errors.ErrCodeInternal, err, "render %s", format)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func buildSVGOptions(t *family.Tree, opts Options) []sink.SVGOption {
	svgOpts := []sink.SVGOption{sink.WithStyle(styles.Simple{})}

	if t != nil {
		svgOpts = append(svgOpts, sink.WithTree(t))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, sink.WithInteractive())
	}
	if opts.Popups && t != nil {
		svgOpts = append(svgOpts, sink.WithPopups())
	}

	return svgOpts
}
