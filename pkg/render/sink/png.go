package sink

import (
	"bytes"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/vector"

	"github.com/matzehuels/fractaldraw/pkg/errors"
	"github.com/matzehuels/fractaldraw/pkg/palette"
	"github.com/matzehuels/fractaldraw/pkg/render"
)

// PNGOption configures PNG rendering.
type PNGOption func(*pngRenderer)

type pngRenderer struct {
	viewport    render.Viewport
	size        int
	supersample int
	lineWidth   float64
	background  color.RGBA
}

// WithPNGViewport sets the region of pen space to rasterise.
func WithPNGViewport(v render.Viewport) PNGOption {
	return func(r *pngRenderer) { r.viewport = v }
}

// WithPNGSize sets the output edge length in pixels (default 500).
func WithPNGSize(px int) PNGOption {
	return func(r *pngRenderer) { r.size = px }
}

// WithSupersample sets the oversampling factor (default 2). A factor of 1
// skips the downscale.
func WithSupersample(n int) PNGOption {
	return func(r *pngRenderer) { r.supersample = n }
}

// WithLineWidth sets the stroke width in output pixels (default 1.2).
func WithLineWidth(w float64) PNGOption {
	return func(r *pngRenderer) { r.lineWidth = w }
}

// WithPNGBackground sets the fill behind the curve.
func WithPNGBackground(c color.RGBA) PNGOption {
	return func(r *pngRenderer) { r.background = c }
}

// RenderPNG rasterises d into a PNG image.
func RenderPNG(d *render.Drawing, opts ...PNGOption) ([]byte, error) {
	r := pngRenderer{
		viewport:    render.CanvasViewport(DefaultCanvas, DefaultMargin),
		size:        DefaultSize,
		supersample: 2,
		lineWidth:   1.2,
		background:  palette.Background,
	}
	for _, opt := range opts {
		opt(&r)
	}
	if r.size <= 0 || r.supersample <= 0 {
		return nil, errors.New(errors.ErrCodeInvalidInput, "png size %d and supersample %d must be positive", r.size, r.supersample)
	}

	full := r.size * r.supersample
	dst := image.NewRGBA(image.Rect(0, 0, full, full))
	draw.Draw(dst, dst.Bounds(), image.NewUniform(r.background), image.Point{}, draw.Src)

	half := float32(r.lineWidth*float64(r.supersample)) / 2
	z := vector.NewRasterizer(full, full)
	for _, run := range groupByColor(d.Segments) {
		z.Reset(full, full)
		for _, s := range run.segs {
			addStroke(z, r.viewport, float64(full), s, half)
		}
		z.Draw(dst, dst.Bounds(), image.NewUniform(run.color), image.Point{})
	}
	for _, m := range d.Marks {
		z.Reset(full, full)
		addMark(z, r.viewport, float64(full), m, float32(r.supersample))
		z.Draw(dst, dst.Bounds(), image.NewUniform(m.Color), image.Point{})
	}

	var img image.Image = dst
	if r.supersample > 1 {
		img = imaging.Resize(dst, r.size, r.size, imaging.Lanczos)
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, errors.Wrap(errors.ErrCodeInternal, err, "encode png")
	}
	return buf.Bytes(), nil
}

// addStroke adds s as a quad of half-width half. Every quad has the same
// winding so overlapping strokes never cancel.
func addStroke(z *vector.Rasterizer, v render.Viewport, size float64, s render.Segment, half float32) {
	x1, y1 := v.Map(s.From, size, size)
	x2, y2 := v.Map(s.To, size, size)
	dx, dy := x2-x1, y2-y1
	l := math.Hypot(dx, dy)
	if l == 0 {
		return
	}
	// Extend the ends by half the width to get square caps.
	ux, uy := float32(dx/l)*half, float32(dy/l)*half
	nx, ny := -uy, ux
	ax, ay := float32(x1)-ux, float32(y1)-uy
	bx, by := float32(x2)+ux, float32(y2)+uy

	z.MoveTo(ax+nx, ay+ny)
	z.LineTo(bx+nx, by+ny)
	z.LineTo(bx-nx, by-ny)
	z.LineTo(ax-nx, ay-ny)
	z.ClosePath()
}

func addMark(z *vector.Rasterizer, v render.Viewport, size float64, m render.Mark, scale float32) {
	const length, halfWidth = 9, 5
	cx, cy := v.Map(m.At, size, size)
	rad := m.Heading * math.Pi / 180
	dx, dy := float32(math.Cos(rad))*scale, float32(-math.Sin(rad))*scale
	px, py := -dy, dx
	x, y := float32(cx), float32(cy)

	z.MoveTo(x+dx*length, y+dy*length)
	z.LineTo(x+px*halfWidth, y+py*halfWidth)
	z.LineTo(x-px*halfWidth, y-py*halfWidth)
	z.ClosePath()
}
