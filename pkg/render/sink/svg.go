package sink

import (
	"bytes"
	"fmt"
	"html"
	"image/color"
	"math"
	"strconv"
	"strings"

	"github.com/matzehuels/fractaldraw/pkg/palette"
	"github.com/matzehuels/fractaldraw/pkg/render"
)

// DefaultCanvas and DefaultMargin define the viewport used when none is given.
const (
	DefaultCanvas = 500.0
	DefaultMargin = 0.1
)

// DefaultSize is the default output edge length in pixels.
const DefaultSize = 500

type SVGOption func(*svgRenderer)

type svgRenderer struct {
	viewport    render.Viewport
	size        int
	strokeWidth float64
	background  color.RGBA
	title       string
}

func WithViewport(v render.Viewport) SVGOption { return func(r *svgRenderer) { r.viewport = v } }
func WithSize(px int) SVGOption                { return func(r *svgRenderer) { r.size = px } }
func WithStrokeWidth(w float64) SVGOption      { return func(r *svgRenderer) { r.strokeWidth = w } }
func WithTitle(s string) SVGOption             { return func(r *svgRenderer) { r.title = s } }
func WithBackground(c color.RGBA) SVGOption    { return func(r *svgRenderer) { r.background = c } }

// RenderSVG encodes d as an SVG document. Segments sharing a colour are
// merged into one path; connected runs become single polylines.
func RenderSVG(d *render.Drawing, opts ...SVGOption) []byte {
	r := svgRenderer{
		viewport:    render.CanvasViewport(DefaultCanvas, DefaultMargin),
		size:        DefaultSize,
		strokeWidth: 1,
		background:  palette.Background,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.size <= 0 {
		r.size = DefaultSize
	}
	w := float64(r.size)

	var buf bytes.Buffer
	fmt.Fprintf(&buf, `<svg xmlns="http://www.w3.org/2000/svg" viewBox="0 0 %d %d" width="%d" height="%d">`+"\n",
		r.size, r.size, r.size, r.size)
	if r.title != "" {
		fmt.Fprintf(&buf, "  <title>%s</title>\n", html.EscapeString(r.title))
	}
	fmt.Fprintf(&buf, `  <rect width="100%%" height="100%%" fill="%s"/>`+"\n", palette.Hex(r.background))

	fmt.Fprintf(&buf, `  <g fill="none" stroke-width="%s" stroke-linecap="round" stroke-linejoin="round">`+"\n", num(r.strokeWidth))
	for _, run := range groupByColor(d.Segments) {
		fmt.Fprintf(&buf, `    <path stroke="%s" d="%s"/>`+"\n", palette.Hex(run.color), pathData(run.segs, r.viewport, w))
	}
	buf.WriteString("  </g>\n")

	for _, m := range d.Marks {
		renderMark(&buf, m, r.viewport, w)
	}

	buf.WriteString("</svg>\n")
	return buf.Bytes()
}

type colorRun struct {
	color color.RGBA
	segs  []render.Segment
}

// groupByColor buckets segments by colour in order of first appearance.
func groupByColor(segs []render.Segment) []colorRun {
	var runs []colorRun
	index := make(map[color.RGBA]int)
	for _, s := range segs {
		i, ok := index[s.Color]
		if !ok {
			i = len(runs)
			index[s.Color] = i
			runs = append(runs, colorRun{color: s.Color})
		}
		runs[i].segs = append(runs[i].segs, s)
	}
	return runs
}

func pathData(segs []render.Segment, v render.Viewport, size float64) string {
	var b strings.Builder
	var lastX, lastY float64
	for i, s := range segs {
		x1, y1 := v.Map(s.From, size, size)
		x2, y2 := v.Map(s.To, size, size)
		if i == 0 || !near(x1, lastX) || !near(y1, lastY) {
			if i > 0 {
				b.WriteByte(' ')
			}
			fmt.Fprintf(&b, "M%s %s", num(x1), num(y1))
		}
		fmt.Fprintf(&b, "L%s %s", num(x2), num(y2))
		lastX, lastY = x2, y2
	}
	return b.String()
}

// renderMark draws the classic turtle arrowhead pointing along the heading.
func renderMark(buf *bytes.Buffer, m render.Mark, v render.Viewport, size float64) {
	const length, halfWidth = 9.0, 5.0
	cx, cy := v.Map(m.At, size, size)
	rad := m.Heading * math.Pi / 180
	dx, dy := math.Cos(rad), -math.Sin(rad)
	px, py := -dy, dx
	fmt.Fprintf(buf, `  <polygon fill="%s" points="%s,%s %s,%s %s,%s"/>`+"\n",
		palette.Hex(m.Color),
		num(cx+dx*length), num(cy+dy*length),
		num(cx+px*halfWidth), num(cy+py*halfWidth),
		num(cx-px*halfWidth), num(cy-py*halfWidth))
}

func near(a, b float64) bool { return math.Abs(a-b) < 1e-6 }

// num formats v with at most two decimals and no trailing zeros.
func num(v float64) string {
	s := strconv.FormatFloat(v, 'f', 2, 64)
	s = strings.TrimRight(strings.TrimRight(s, "0"), ".")
	if s == "-0" || s == "" {
		return "0"
	}
	return s
}
