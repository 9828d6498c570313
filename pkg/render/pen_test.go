package render

import (
	"image/color"
	"math"
	"testing"

	"github.com/matzehuels/fractaldraw/pkg/curve"
)

func TestPenForward(t *testing.T) {
	d := &Drawing{}
	p := NewPen(d)

	p.Forward(10)
	p.TurnLeft(90)
	p.Forward(10)
	p.TurnRight(45)
	p.PenUp()
	p.Forward(math.Sqrt2)
	p.PenDown()

	if len(d.Segments) != 2 {
		t.Fatalf("segments = %d, want 2", len(d.Segments))
	}
	if got := d.Segments[1]; got.From != (curve.Point{X: 10}) || got.To != (curve.Point{X: 10, Y: 10}) {
		t.Errorf("second segment = %+v, want (10,0)->(10,10)", got)
	}
	x, y := p.Position()
	if math.Abs(x-11) > 1e-9 || math.Abs(y-11) > 1e-9 {
		t.Errorf("position = (%v, %v), want (11, 11)", x, y)
	}
	if p.Heading() != 45 {
		t.Errorf("heading = %v, want 45", p.Heading())
	}
}

func TestPenHeadingNormalized(t *testing.T) {
	p := NewPen(&Drawing{})
	p.TurnRight(90)
	if p.Heading() != 270 {
		t.Errorf("heading = %v, want 270", p.Heading())
	}
	p.SetHeading(-450)
	if p.Heading() != 270 {
		t.Errorf("heading = %v, want 270", p.Heading())
	}
	p.TurnLeft(810)
	if p.Heading() != 0 {
		t.Errorf("heading = %v, want 0", p.Heading())
	}
}

func TestPenColorAndStamp(t *testing.T) {
	d := &Drawing{}
	p := NewPen(d)
	p.Teleport(3, 4)
	p.PenColor(color.NRGBA{R: 0xff, A: 0xff})
	p.Stamp()
	p.Forward(1)

	red := color.RGBA{R: 0xff, A: 0xff}
	if len(d.Marks) != 1 || d.Marks[0].Color != red || d.Marks[0].At != (curve.Point{X: 3, Y: 4}) {
		t.Errorf("marks = %+v", d.Marks)
	}
	if d.Segments[0].Color != red {
		t.Errorf("segment colour = %v, want red", d.Segments[0].Color)
	}
}

func TestPenReset(t *testing.T) {
	d := &Drawing{}
	p := NewPen(d)
	p.Forward(5)
	p.PenUp()
	p.PenColor(color.Black)
	p.Reset()

	if len(d.Segments) != 0 || !d.Bounds().Empty() {
		t.Error("Reset should clear the surface")
	}
	if x, y := p.Position(); x != 0 || y != 0 || !p.IsDown() || p.Heading() != 0 {
		t.Error("Reset should restore the initial pose")
	}
	p.Forward(1)
	if d.Segments[0].Color != DefaultPenColor {
		t.Errorf("colour after reset = %v", d.Segments[0].Color)
	}
}

func TestTeleportDoesNotDraw(t *testing.T) {
	d := &Drawing{}
	p := NewPen(d)
	p.Teleport(100, -50)
	if len(d.Segments) != 0 {
		t.Error("Teleport drew a segment")
	}
}

func TestViewport(t *testing.T) {
	v := CanvasViewport(500, 0.1)
	if v.MinX != -300 || v.Width != 600 {
		t.Fatalf("viewport = %+v", v)
	}
	x, y := v.Map(curve.Point{X: -300, Y: 300}, 600, 600)
	if x != 0 || y != 0 {
		t.Errorf("top-left maps to (%v, %v)", x, y)
	}
	x, y = v.Map(curve.Point{}, 600, 600)
	if x != 300 || y != 300 {
		t.Errorf("origin maps to (%v, %v)", x, y)
	}

	var b Bounds
	b = b.Extend(curve.Point{X: 10, Y: 0}).Extend(curve.Point{X: 30, Y: 10})
	f := FitViewport(b, 500, 0)
	if f.MinX != 10 || f.MinY != -5 || f.Width != 20 {
		t.Errorf("fit viewport = %+v", f)
	}
	if FitViewport(Bounds{}, 500, 0.1) != v {
		t.Error("empty bounds should fall back to the canvas")
	}
}
