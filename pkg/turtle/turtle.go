// Package turtle interprets expanded L-system strings as pen movements.
//
// The interpreter is a small stack machine. It resolves a curve's geometry for
// one level, places the pen, then walks the symbol sequence once, dispatching
// each symbol by the class the curve descriptor assigns to it:
//
//	draw   next palette colour, then Forward(step) with the pen down
//	move   Forward(step) with the pen up; the palette does not advance
//	+      TurnRight(angle)
//	-      TurnLeft(angle)
//	[      push the current pose
//	]      pop a pose and restore it (Teleport + SetHeading)
//	stamp  Stamp()
//	other  nothing
//
// All drawing goes through the [Renderer] interface so the same run can feed
// an SVG document, a raster image or a terminal canvas.
package turtle

import (
	"image/color"
)

// DefaultCanvasSize is the nominal canvas edge length in pixels that
// descriptor positions and step lengths are scaled to.
const DefaultCanvasSize = 500.0

// Renderer is a stateful pen.
//
// Coordinates use turtle-graphics conventions: the origin is the canvas
// centre, y grows upwards, heading 0 points east and TurnLeft rotates
// counter-clockwise. Teleport never draws.
type Renderer interface {
	Teleport(x, y float64)
	SetHeading(deg float64)
	TurnLeft(deg float64)
	TurnRight(deg float64)
	PenColor(c color.Color)
	Forward(dist float64)
	PenUp()
	PenDown()
	Stamp()
	Position() (x, y float64)
	Heading() float64
}

// Stats summarises one interpreter run.
type Stats struct {
	Symbols  int `json:"symbols"`   // symbols consumed
	Segments int `json:"segments"`  // drawing symbols
	Moves    int `json:"moves"`     // pen-up moves
	Stamps   int `json:"stamps"`    // stamps
	MaxDepth int `json:"max_depth"` // deepest pose stack
}

// Option configures a run.
type Option func(*options)

type options struct {
	canvasSize float64
}

// WithCanvasSize sets the canvas size geometry is resolved against.
// Values <= 0 are ignored.
func WithCanvasSize(px float64) Option {
	return func(o *options) {
		if px > 0 {
			o.canvasSize = px
		}
	}
}

func newOptions(opts []Option) options {
	o := options{canvasSize: DefaultCanvasSize}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}
