package turtle_test

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/matzehuels/fractaldraw/pkg/curve"
	"github.com/matzehuels/fractaldraw/pkg/palette"
	"github.com/matzehuels/fractaldraw/pkg/render"
	"github.com/matzehuels/fractaldraw/pkg/turtle"
)

func draw(t *testing.T, d *curve.Descriptor, level int) (*render.Drawing, curve.Geometry) {
	t.Helper()
	symbols, err := d.Expand(level)
	if err != nil {
		t.Fatal(err)
	}
	pal, _ := palette.Named(palette.Alt)
	drawing := &render.Drawing{}
	if _, err := turtle.Run(context.Background(), symbols, d, level, pal, render.NewPen(drawing)); err != nil {
		t.Fatal(err)
	}
	geom, _ := d.Resolve(level, turtle.DefaultCanvasSize)
	return drawing, geom
}

// The footprint of an integer-scale curve spans exactly Scale(level) steps.
func TestExtentMatchesScale(t *testing.T) {
	slugs := []string{
		"quadratic-koch-curve",
		"minkowski-sausage",
		"hilbert-curve",
		"peano-curve",
		"moore-curve",
		"sierpinski-triangle",
	}
	for _, slug := range slugs {
		d, err := curve.Builtin().Lookup(slug)
		if err != nil {
			t.Fatal(err)
		}
		for level := 1; level <= 3; level++ {
			t.Run(fmt.Sprintf("%s/%d", slug, level), func(t *testing.T) {
				drawing, geom := draw(t, d, level)
				b := drawing.Bounds()
				extent := math.Max(b.Width(), b.Height()) / geom.Step
				if want := d.Scale.At(level); math.Abs(extent-want) > 1e-6 {
					t.Errorf("extent = %v steps, want %v", extent, want)
				}
			})
		}
	}
}

// The remaining curves use approximate scale formulas. Their footprint
// stays within a fixed band of Scale(level) over levels 2 to 6.
func TestExtentWithinScaleBand(t *testing.T) {
	tests := []struct {
		slug   string
		lo, hi float64 // footprint / Scale(level)
	}{
		{"cesaro-fractal", 0.999, 1.001},
		{"dragon-curve", 0.25, 0.5},
		{"gosper-curve", 0.3, 0.5},
		{"fractal-binary-tree", 0.7, 0.9},
		{"fractal-plant", 1.0, 3.0}, // outgrows the canvas from level 4
	}
	for _, tt := range tests {
		d, err := curve.Builtin().Lookup(tt.slug)
		if err != nil {
			t.Fatal(err)
		}
		for level := 2; level <= 6; level++ {
			t.Run(fmt.Sprintf("%s/%d", tt.slug, level), func(t *testing.T) {
				drawing, geom := draw(t, d, level)
				b := drawing.Bounds()
				ratio := math.Max(b.Width(), b.Height()) / geom.Step / d.Scale.At(level)
				if ratio < tt.lo || ratio > tt.hi {
					t.Errorf("footprint = %.3f x scale, want within [%v, %v]", ratio, tt.lo, tt.hi)
				}
			})
		}
	}
}

// Curves whose scale is their footprint stay on the canvas at every level.
func TestCurvesStayOnCanvas(t *testing.T) {
	const half = turtle.DefaultCanvasSize/2 + 1e-6
	slugs := []string{
		"quadratic-koch-curve",
		"minkowski-sausage",
		"hilbert-curve",
		"sierpinski-curve",
		"sierpinski-arrowhead-curve",
		"peano-curve",
	}
	for _, slug := range slugs {
		d, _ := curve.Builtin().Lookup(slug)
		for level := 1; level <= 4; level++ {
			drawing, _ := draw(t, d, level)
			b := drawing.Bounds()
			if b.Min.X < -half || b.Max.X > half || b.Min.Y < -half || b.Max.Y > half {
				t.Errorf("%s level %d leaves the canvas: %+v", d.Name, level, b)
			}
		}
	}
}

// The Moore and Sierpinski square curves keep their historical start
// positions, which put the footprint 1.5 steps left of centre.
func TestPreservedCenteringOffset(t *testing.T) {
	for _, slug := range []string{"moore-curve", "sierpinski-square-curve"} {
		d, _ := curve.Builtin().Lookup(slug)
		for level := 2; level <= 4; level++ {
			drawing, geom := draw(t, d, level)
			b := drawing.Bounds()
			offset := (b.Min.X + b.Max.X) / 2 / geom.Step
			if math.Abs(offset+1.5) > 1e-6 {
				t.Errorf("%s level %d: centre offset %v steps, want -1.5", slug, level, offset)
			}
		}
	}
}

func ExampleRun() {
	d, _ := curve.Builtin().Lookup("hilbert-curve")
	symbols, _ := d.Expand(2)
	pal, _ := palette.Named(palette.Rainbow)

	drawing := &render.Drawing{}
	stats, err := turtle.Run(context.Background(), symbols, d, 2, pal, render.NewPen(drawing))
	if err != nil {
		panic(err)
	}
	fmt.Println(stats.Segments, len(drawing.Segments))
	// Output: 15 15
}
