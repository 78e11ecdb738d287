package nodelink

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/goccy/go-graphviz"

	"github.com/matzehuels/influencemap/pkg/errors"
	"github.com/matzehuels/influencemap/pkg/layout"
	"github.com/matzehuels/influencemap/pkg/render"
)

// Options configures node-link diagram rendering.
type Options struct {
	// Detailed adds role, division and scores to node labels.
	// When false, only the stakeholder name is shown.
	Detailed bool

	// Clusters groups stakeholders of the same division into clusters.
	Clusters bool
}

// ToDOT converts a layout document to Graphviz DOT format.
// The resulting DOT string can be rendered using [RenderSVG], [RenderPDF], or [RenderPNG].
func ToDOT(doc layout.Document, opts Options) string {
	var buf bytes.Buffer
	buf.WriteString("digraph G {\n")
	buf.WriteString("  rankdir=TB;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	fmt.Fprintf(&buf, "  node [shape=box, style=\"rounded,filled\", color=%q, fontcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n", render.NodeStroke)
	fmt.Fprintf(&buf, "  edge [color=%q, penwidth=2, arrowhead=none];\n", render.LinkStroke)
	buf.WriteString("  ranksep=0.5;\n")
	buf.WriteString("  nodesep=0.3;\n")
	buf.WriteString("\n")

	if opts.Clusters {
		for i, division := range divisions(doc) {
			fmt.Fprintf(&buf, "  subgraph cluster_%d {\n", i)
			fmt.Fprintf(&buf, "    label=%q;\n", division)
			buf.WriteString("    style=dashed;\n")
			for _, n := range doc.Nodes {
				if n.Division == division {
					fmt.Fprintf(&buf, "    %q [%s];\n", n.Name, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
				}
			}
			buf.WriteString("  }\n")
		}
	} else {
		for _, n := range doc.Nodes {
			fmt.Fprintf(&buf, "  %q [%s];\n", n.Name, strings.Join(fmtAttrs(n, opts.Detailed), ", "))
		}
	}

	buf.WriteString("\n")
	for _, e := range doc.Edges {
		fmt.Fprintf(&buf, "  %q -> %q;\n", e.Source, e.Target)
	}

	buf.WriteString("}\n")
	return buf.String()
}

func divisions(doc layout.Document) []string {
	seen := make(map[string]bool)
	var out []string
	for _, n := range doc.Nodes {
		if !seen[n.Division] {
			seen[n.Division] = true
			out = append(out, n.Division)
		}
	}
	return out
}

func fmtLabel(n layout.NodeDoc, detailed bool) string {
	if !detailed {
		return n.Name
	}
	return strings.Join([]string{
		n.Name,
		n.Role,
		n.Division,
		fmt.Sprintf("relationship: %d/10, weight: %d%%", n.RelationshipScore, n.DecisionWeighting),
	}, "\n")
}

func fmtAttrs(n layout.NodeDoc, detailed bool) []string {
	return []string{
		fmt.Sprintf("label=%q", fmtLabel(n, detailed)),
		fmt.Sprintf("fillcolor=%q", n.Fill),
		fmt.Sprintf("tooltip=%q", render.DocTooltip(n)),
	}
}

// RenderSVG renders a DOT graph to SVG using Graphviz.
// Returns the SVG bytes ready for display or further conversion with [render.ToPDF] or [render.ToPNG].
func RenderSVG(dot string) ([]byte, error) {
	ctx := context.Background()
	gv, err := graphviz.New(ctx)
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "init graphviz")
	}
	defer gv.Close()

	g, err := graphviz.ParseBytes([]byte(dot))
	if err != nil {
		return nil, errors.Wrap(errors.ErrCodeInvalidFormat, err, "parse DOT")
	}
	defer g.Close()

	var buf bytes.Buffer
	if err := gv.Render(ctx, g, graphviz.SVG, &buf); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "render")
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
