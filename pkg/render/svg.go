package render

import (
	"bytes"
	"fmt"
	"html"
	"math"
	"strconv"

	svg "github.com/ajstarks/svgo"

	"github.com/matzehuels/influencemap/pkg/layout"
	"github.com/matzehuels/influencemap/pkg/viewport"
)

// Drawing colors.
const (
	LinkStroke = "#d1d5db"
	NodeStroke = "#374151"
	TextFill   = "white"
	LabelFill  = "#111827"
)

const selectedStrokeWidth = 3

// SVGOption configures [RenderSVG].
type SVGOption func(*svgRenderer)

type svgRenderer struct {
	transform    viewport.Transform
	hasTransform bool
	selected     string
	script       bool
}

// WithTransform draws the map under t instead of the fitted transform stored
// in the document.
func WithTransform(t viewport.Transform) SVGOption {
	return func(r *svgRenderer) { r.transform, r.hasTransform = t, true }
}

// WithSelected outlines the named stakeholder.
func WithSelected(name string) SVGOption { return func(r *svgRenderer) { r.selected = name } }

// WithClickScript embeds a script that dispatches a "stakeholder-click"
// event carrying the node's data-name when a box is clicked.
func WithClickScript() SVGOption { return func(r *svgRenderer) { r.script = true } }

const clickScript = `
    document.querySelectorAll('g.node').forEach(el => {
      el.addEventListener('click', () => {
        document.dispatchEvent(new CustomEvent('stakeholder-click', { detail: el.dataset.name }));
      });
    });`

// RenderSVG draws the document as a standalone SVG sized to the viewport the
// layout was computed for.
func RenderSVG(doc layout.Document, opts ...SVGOption) []byte {
	r := svgRenderer{transform: doc.Transform}
	for _, opt := range opts {
		opt(&r)
	}
	if !r.hasTransform && doc.Transform == (viewport.Transform{}) {
		r.transform = viewport.Identity
	}

	var buf bytes.Buffer
	canvas := svg.New(&buf)
	w, h := px(doc.ViewWidth, layout.DefaultWidth), px(doc.ViewHeight, layout.DefaultHeight)
	canvas.Start(w, h, fmt.Sprintf(`viewBox="0 0 %d %d"`, w, h), `class="influence-map"`)

	canvas.Gtransform(r.transform.SVG())
	for _, e := range doc.Edges {
		canvas.Path(e.Path, `class="link"`, `fill="none"`, attr("stroke", LinkStroke), `stroke-width="2"`)
	}
	for _, n := range doc.Nodes {
		r.node(canvas, n)
	}
	for _, d := range doc.Divisions {
		canvas.Text(round(d.X), round(d.Y), d.Name,
			`class="division-label"`, `text-anchor="middle"`, `font-weight="bold"`, `font-size="14px"`, attr("fill", LabelFill))
	}
	canvas.Gend()

	if r.script {
		canvas.Script("application/javascript", clickScript)
	}
	canvas.End()
	return buf.Bytes()
}

func (r *svgRenderer) node(canvas *svg.SVG, n layout.NodeDoc) {
	canvas.Group(
		`class="node"`,
		fmt.Sprintf(`transform="translate(%s,%s)"`, num(n.X), num(n.Y)),
		attr("data-name", n.Name),
		`cursor="pointer"`,
	)

	stroke := 1
	if r.selected != "" && r.selected == n.Name {
		stroke = selectedStrokeWidth
	}
	bw, bh := int(layout.BoxWidth), int(layout.BoxHeight)
	canvas.Roundrect(-bw/2, -bh/2, bw, bh, int(layout.BoxRadius), int(layout.BoxRadius),
		attr("fill", n.Fill), attr("stroke", NodeStroke), fmt.Sprintf(`stroke-width="%d"`, stroke))

	canvas.Text(0, -15, Truncate(n.Name),
		`text-anchor="middle"`, attr("fill", TextFill), `font-weight="bold"`, `font-size="14px"`)
	canvas.Text(0, 5, Truncate(n.Role),
		`text-anchor="middle"`, attr("fill", TextFill), `font-size="12px"`)
	canvas.Text(0, 25, Truncate(n.Division),
		`text-anchor="middle"`, attr("fill", TextFill), `font-size="11px"`)

	canvas.Title(DocTooltip(n))
	canvas.Gend()
}

// attr formats an escaped XML attribute.
func attr(name, value string) string {
	return name + `="` + html.EscapeString(value) + `"`
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func round(v float64) int { return int(math.Round(v)) }

func px(v, fallback float64) int {
	if v <= 0 {
		v = fallback
	}
	return round(v)
}
