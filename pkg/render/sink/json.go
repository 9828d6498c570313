package sink

import (
	"encoding/json"

	"github.com/matzehuels/fractaldraw/pkg/palette"
	"github.com/matzehuels/fractaldraw/pkg/render"
	"github.com/matzehuels/fractaldraw/pkg/turtle"
)

// JSONOption configures JSON rendering via [RenderJSON].
type JSONOption func(*jsonRenderer)

type jsonRenderer struct {
	curve string
	level int
	stats *turtle.Stats
}

// WithJSONCurve records the curve name and level in the output.
func WithJSONCurve(name string, level int) JSONOption {
	return func(r *jsonRenderer) { r.curve, r.level = name, level }
}

// WithJSONStats records interpreter statistics in the output.
func WithJSONStats(s turtle.Stats) JSONOption {
	return func(r *jsonRenderer) { r.stats = &s }
}

// Trace is the JSON document written by [RenderJSON]. Coordinates are in
// pen space: origin at the canvas centre, y up.
type Trace struct {
	Curve    string         `json:"curve,omitempty"`
	Level    int            `json:"level,omitempty"`
	Bounds   *TraceBounds   `json:"bounds,omitempty"`
	Stats    *turtle.Stats  `json:"stats,omitempty"`
	Segments []TraceSegment `json:"segments"`
	Marks    []TraceMark    `json:"marks,omitempty"`
}

type TraceBounds struct {
	MinX float64 `json:"min_x"`
	MinY float64 `json:"min_y"`
	MaxX float64 `json:"max_x"`
	MaxY float64 `json:"max_y"`
}

type TraceSegment struct {
	X1    float64 `json:"x1"`
	Y1    float64 `json:"y1"`
	X2    float64 `json:"x2"`
	Y2    float64 `json:"y2"`
	Color string  `json:"color"`
}

type TraceMark struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Heading float64 `json:"heading"`
	Color   string  `json:"color"`
}

// RenderJSON exports the drawing as a pretty-printed JSON trace, in drawing
// order. It does not modify d.
func RenderJSON(d *render.Drawing, opts ...JSONOption) ([]byte, error) {
	r := jsonRenderer{}
	for _, opt := range opts {
		opt(&r)
	}

	out := Trace{
		Curve:    r.curve,
		Level:    r.level,
		Stats:    r.stats,
		Segments: make([]TraceSegment, 0, len(d.Segments)),
	}
	if b := d.Bounds(); !b.Empty() {
		out.Bounds = &TraceBounds{MinX: b.Min.X, MinY: b.Min.Y, MaxX: b.Max.X, MaxY: b.Max.Y}
	}
	for _, s := range d.Segments {
		out.Segments = append(out.Segments, TraceSegment{
			X1: s.From.X, Y1: s.From.Y,
			X2: s.To.X, Y2: s.To.Y,
			Color: palette.Hex(s.Color),
		})
	}
	for _, m := range d.Marks {
		out.Marks = append(out.Marks, TraceMark{
			X: m.At.X, Y: m.At.Y,
			Heading: m.Heading,
			Color:   palette.Hex(m.Color),
		})
	}

	return json.MarshalIndent(out, "", "  ")
}
