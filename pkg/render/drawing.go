package render

import (
	"math"

	"github.com/matzehuels/fractaldraw/pkg/curve"
)

// Drawing is a Surface that records everything drawn on it.
type Drawing struct {
	Segments []Segment
	Marks    []Mark
	bounds   Bounds
}

func (d *Drawing) Line(s Segment) {
	d.Segments = append(d.Segments, s)
	d.bounds = d.bounds.Extend(s.From).Extend(s.To)
}

func (d *Drawing) Dot(m Mark) {
	d.Marks = append(d.Marks, m)
	d.bounds = d.bounds.Extend(m.At)
}

// Reset discards everything drawn so far.
func (d *Drawing) Reset() {
	d.Segments = d.Segments[:0]
	d.Marks = d.Marks[:0]
	d.bounds = Bounds{}
}

// Bounds returns the box around all segments and marks.
func (d *Drawing) Bounds() Bounds { return d.bounds }

// Bounds is an axis-aligned bounding box. The zero value is empty.
type Bounds struct {
	Min, Max curve.Point
	nonEmpty bool
}

// Empty reports whether no point has been added.
func (b Bounds) Empty() bool { return !b.nonEmpty }

// Extend returns b grown to contain p.
func (b Bounds) Extend(p curve.Point) Bounds {
	if !b.nonEmpty {
		return Bounds{Min: p, Max: p, nonEmpty: true}
	}
	b.Min.X = math.Min(b.Min.X, p.X)
	b.Min.Y = math.Min(b.Min.Y, p.Y)
	b.Max.X = math.Max(b.Max.X, p.X)
	b.Max.Y = math.Max(b.Max.Y, p.Y)
	return b
}

func (b Bounds) Width() float64  { return b.Max.X - b.Min.X }
func (b Bounds) Height() float64 { return b.Max.Y - b.Min.Y }

// Viewport is the region of pen space shown in an image.
type Viewport struct {
	MinX, MinY    float64
	Width, Height float64
}

// CanvasViewport is the square canvas of the given size centred on the
// origin, widened by margin (a fraction of size) on every side.
func CanvasViewport(size, margin float64) Viewport {
	half := size/2 + size*margin
	return Viewport{MinX: -half, MinY: -half, Width: 2 * half, Height: 2 * half}
}

// FitViewport is the smallest square around b widened by margin, or the
// canvas viewport of size when b is empty.
func FitViewport(b Bounds, size, margin float64) Viewport {
	if b.Empty() {
		return CanvasViewport(size, margin)
	}
	side := math.Max(b.Width(), b.Height())
	if side == 0 {
		side = size
	}
	cx, cy := (b.Min.X+b.Max.X)/2, (b.Min.Y+b.Max.Y)/2
	half := side/2 + side*margin
	return Viewport{MinX: cx - half, MinY: cy - half, Width: 2 * half, Height: 2 * half}
}

// Map converts pen coordinates to image coordinates for an image of
// w×h pixels, flipping y.
func (v Viewport) Map(p curve.Point, w, h float64) (x, y float64) {
	x = (p.X - v.MinX) / v.Width * w
	y = (1 - (p.Y-v.MinY)/v.Height) * h
	return x, y
}
