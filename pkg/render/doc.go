// Package render turns interpreter output into pictures.
//
// # Overview
//
// The interpreter in [turtle] only talks to a [turtle.Renderer]. This package
// provides the standard one, [Pen], which keeps the pen pose and forwards
// every drawn segment and stamp to a [Surface]:
//
//	drawing := &render.Drawing{}
//	pen := render.NewPen(drawing)
//	stats, err := turtle.Run(ctx, symbols, d, level, pal, pen)
//
// A [Drawing] records segments so they can be encoded afterwards by the
// [sink] subpackage (SVG, PNG, JSON). Live surfaces such as the terminal
// braille canvas implement [Surface] directly.
//
// # Coordinates
//
// Pen coordinates follow turtle-graphics conventions: the origin is the
// canvas centre, y grows upwards and heading 0 points east. [Viewport]
// maps them to image space, where y grows downwards.
//
// # Grammar Graphs
//
// The [nodelink] subpackage renders a curve's production rules as a directed
// graph using Graphviz.
//
// [turtle]: github.com/matzehuels/fractaldraw/pkg/turtle
// [turtle.Renderer]: github.com/matzehuels/fractaldraw/pkg/turtle#Renderer
// [sink]: github.com/matzehuels/fractaldraw/pkg/render/sink
// [nodelink]: github.com/matzehuels/fractaldraw/pkg/render/nodelink
package render
