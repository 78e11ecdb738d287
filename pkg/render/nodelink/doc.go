// Package nodelink renders influence maps as Graphviz node-link diagrams.
//
// # Overview
//
// This is an alternative to the tidy-tree SVG: Graphviz positions the boxes
// itself, which is useful for very wide organizations or for feeding the DOT
// source into other tools. Boxes keep the risk fill color of the tree view.
//
// # Usage
//
// Convert a layout document to DOT, then render to SVG:
//
//	dot := nodelink.ToDOT(doc, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(dot)
//
// For PDF or PNG output, use the render functions:
//
//	pdf, err := nodelink.RenderPDF(dot)
//	png, err := nodelink.RenderPNG(dot, 2.0)  // 2x scale
//
// # Options
//
//   - Detailed: labels include role, division and both scores
//   - Clusters: stakeholders of one division are drawn inside a cluster box
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG
// rendering. PDF and PNG conversion requires librsvg (rsvg-convert).
package nodelink
