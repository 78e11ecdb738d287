// Package render draws influence map layouts.
//
// # Overview
//
// Rendering works on a [layout.Document], the serialized form of a computed
// layout, so a cached layout can be drawn without rebuilding the hierarchy.
// This package provides:
//
//   - SVG output with one rounded box per stakeholder ([RenderSVG])
//   - Format conversion from SVG to PDF/PNG ([ToPDF], [ToPNG])
//   - Node-link diagrams through Graphviz (in the [nodelink] subpackage)
//
// # SVG Output
//
// Every visible stakeholder becomes a group carrying a data-name attribute
// and a title element with the tooltip text, so browsers show a native
// tooltip on hover and a click handler can look the stakeholder up by name.
// The virtual root and its links are never drawn.
//
//	doc := layout.Compute(root, layout.Options{}).Export()
//	svg := render.RenderSVG(doc)
//	png, err := render.ToPNG(svg, 2.0)
//
// Labels longer than 20 characters are cut to 17 characters plus "...".
//
// [nodelink]: github.com/matzehuels/influencemap/pkg/render/nodelink
package render
