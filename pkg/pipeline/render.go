package pipeline

import (
	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/layout"
	"github.com/matzehuels/influencemap/pkg/render"
	"github.com/matzehuels/influencemap/pkg/render/nodelink"
)

// RenderFromDocument generates output artifacts in the requested formats.
// JSON output is the document itself; DOT output is always node-link.
func RenderFromDocument(doc layout.Document, opts Options) (map[string][]byte, error) {
	if opts.IsNodelink() {
		return renderNodelink(doc, opts)
	}
	return renderTree(doc, opts)
}

// renderTree generates tidy-tree outputs.
func renderTree(doc layout.Document, opts Options) (map[string][]byte, error) {
	svgOpts := buildSVGOptions(opts)
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data = render.RenderSVG(doc, svgOpts...)
		case FormatPNG:
			data, err = render.ToPNG(render.RenderSVG(doc, svgOpts...), DefaultPNGScale)
		case FormatPDF:
			data, err = render.ToPDF(render.RenderSVG(doc, svgOpts...))
		case FormatJSON:
			data, err = layout.MarshalDocument(doc)
		case FormatDOT:
			data = []byte(nodelink.ToDOT(doc, nodelinkOptions(opts)))
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported tree format: %s", format)
		}

		if err != nil {
			return nil, renderErr(format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// renderNodelink generates Graphviz outputs.
func renderNodelink(doc layout.Document, opts Options) (map[string][]byte, error) {
	dot := nodelink.ToDOT(doc, nodelinkOptions(opts))
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatSVG:
			data, err = nodelink.RenderSVG(dot)
		case FormatPNG:
			data, err = nodelink.RenderPNG(dot, DefaultPNGScale)
		case FormatPDF:
			data, err = nodelink.RenderPDF(dot)
		case FormatJSON:
			data, err = layout.MarshalDocument(doc)
		case FormatDOT:
			data = []byte(dot)
		default:
			return nil, errors.New(errors.ErrCodeUnsupported, "unsupported nodelink format: %s", format)
		}

		if err != nil {
			return nil, renderErr(format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

func nodelinkOptions(opts Options) nodelink.Options {
	return nodelink.Options{Detailed: opts.Detailed, Clusters: opts.GroupByDivision}
}

// buildSVGOptions builds SVG rendering options.
func buildSVGOptions(opts Options) []render.SVGOption {
	var svgOpts []render.SVGOption
	if opts.Selected != "" {
		svgOpts = append(svgOpts, render.WithSelected(opts.Selected))
	}
	if opts.Interactive {
		svgOpts = append(svgOpts, render.WithClickScript())
	}
	if opts.Transform != nil {
		svgOpts = append(svgOpts, render.WithTransform(opts.Transform.Clamp()))
	}
	return svgOpts
}

// renderErr keeps the code of a typed cause (for example UNSUPPORTED when
// rsvg-convert is missing).
func renderErr(format string, err error) error {
	code := errors.GetCode(err)
	if code == "" {
		code = errors.ErrCodeInternal
	}
	return errors.Wrap(code, err, "render %s", format)
}
