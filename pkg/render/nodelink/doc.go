// Package nodelink renders a curve's production rules as a node-link diagram.
//
// # Overview
//
// Each rule key and drawing symbol becomes a node; an arrow k -> s means the
// replacement of k mentions s. The graph shows at a glance which
// nonterminals feed each other (A and B in the Hilbert curve, X and Y in the
// Peano curve) and which symbols actually put ink on the canvas.
//
// # Usage
//
//	dot := nodelink.ToDOT(d, nodelink.Options{Detailed: true})
//	svg, err := nodelink.RenderSVG(ctx, dot)
//
// # Dependencies
//
// This package uses [github.com/goccy/go-graphviz] for in-process SVG and
// PNG rendering. No external Graphviz install is required.
package nodelink
