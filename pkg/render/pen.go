package render

import (
	"image/color"
	"math"

	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/turtle"
)

var _ turtle.Renderer = (*Pen)(nil)

// Surface receives what a Pen draws.
type Surface interface {
	Line(s Segment)
	Dot(m Mark)
}

// Resetter is implemented by surfaces that can be cleared.
type Resetter interface {
	Reset()
}

// Bounded is implemented by surfaces whose memory does not grow with the
// number of strokes, such as a fixed-size terminal canvas.
type Bounded interface {
	Bounded() bool
}

// Segment is one straight stroke.
type Segment struct {
	From  curve.Point `json:"from"`
	To    curve.Point `json:"to"`
	Color color.RGBA  `json:"-"`
}

// Mark is a stamp of the pen shape at a pose.
type Mark struct {
	At      curve.Point `json:"at"`
	Heading float64     `json:"heading"`
	Color   color.RGBA  `json:"-"`
}

// DefaultPenColor is the colour a fresh or reset pen draws with.
var DefaultPenColor = color.RGBA{0xff, 0xff, 0xff, 0xff}

// Pen is a turtle-graphics pen drawing onto a Surface.
// A Pen is not safe for concurrent use.
type Pen struct {
	surface Surface
	x, y    float64
	heading float64
	down    bool
	color   color.RGBA
}

// NewPen returns a pen at the origin, heading east, pen down.
func NewPen(s Surface) *Pen {
	p := &Pen{surface: s}
	p.Reset()
	return p
}

// Reset returns the pen to its initial state and clears the surface if it
// implements Resetter.
func (p *Pen) Reset() {
	p.x, p.y, p.heading = 0, 0, 0
	p.down = true
	p.color = DefaultPenColor
	if r, ok := p.surface.(Resetter); ok {
		r.Reset()
	}
}

// Bounded reports whether the pen's surface keeps fixed-size storage.
// A [Drawing] is not bounded: it keeps every segment.
func (p *Pen) Bounded() bool {
	b, ok := p.surface.(Bounded)
	return ok && b.Bounded()
}

func (p *Pen) Teleport(x, y float64)    { p.x, p.y = x, y }
func (p *Pen) SetHeading(deg float64)   { p.heading = normalize(deg) }
func (p *Pen) TurnLeft(deg float64)     { p.heading = normalize(p.heading + deg) }
func (p *Pen) TurnRight(deg float64)    { p.heading = normalize(p.heading - deg) }
func (p *Pen) PenUp()                   { p.down = false }
func (p *Pen) PenDown()                 { p.down = true }
func (p *Pen) Position() (x, y float64) { return p.x, p.y }
func (p *Pen) Heading() float64         { return p.heading }
func (p *Pen) IsDown() bool             { return p.down }

// PenColor sets the colour for subsequent strokes and stamps.
func (p *Pen) PenColor(c color.Color) {
	p.color = color.RGBAModel.Convert(c).(color.RGBA)
}

// Forward moves dist along the heading, drawing a segment if the pen is down.
func (p *Pen) Forward(dist float64) {
	sin, cos := sincos(p.heading)
	nx, ny := p.x+dist*cos, p.y+dist*sin
	if p.down {
		p.surface.Line(Segment{
			From:  curve.Point{X: p.x, Y: p.y},
			To:    curve.Point{X: nx, Y: ny},
			Color: p.color,
		})
	}
	p.x, p.y = nx, ny
}

// Stamp leaves a mark of the pen at its current pose.
func (p *Pen) Stamp() {
	p.surface.Dot(Mark{At: curve.Point{X: p.x, Y: p.y}, Heading: p.heading, Color: p.color})
}

func normalize(deg float64) float64 {
	deg = math.Mod(deg, 360)
	if deg < 0 {
		deg += 360
	}
	return deg
}

// sincos is exact on multiples of 90 degrees so axis-aligned curves stay on
// the grid.
func sincos(deg float64) (sin, cos float64) {
	switch deg {
	case 0:
		return 0, 1
	case 90:
		return 1, 0
	case 180:
		return 0, -1
	case 270:
		return -1, 0
	}
	return math.Sincos(deg * math.Pi / 180)
}
