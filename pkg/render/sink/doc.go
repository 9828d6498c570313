// Package sink provides output formats for recorded curve drawings.
//
// # Overview
//
// A "sink" transforms a [render.Drawing] into a final output format.
// This package provides renderers for:
//
//   - SVG: vector output, one path per pen colour
//   - PNG: anti-aliased raster output
//   - JSON: the raw segment trace for external tools
//
// and [Braille], a live [render.Surface] that draws into a character grid
// for terminal animation.
//
// # Viewports
//
// Every renderer maps pen coordinates through a [render.Viewport]. The
// default is the 500-unit canvas centred on the origin with a 10% margin,
// which keeps successive levels of a curve aligned. Use
// [render.FitViewport] for curves that leave the canvas.
//
//	v := render.CanvasViewport(500, 0.1)
//	svg := sink.RenderSVG(drawing, sink.WithViewport(v), sink.WithTitle(name))
//	png, err := sink.RenderPNG(drawing, sink.WithPNGViewport(v), sink.WithPNGSize(1024))
//
// # PNG Output
//
// [RenderPNG] rasterises segments with golang.org/x/image/vector at a
// supersampled resolution and downsamples with a Lanczos filter, so no
// external tools are needed.
//
// [render.Drawing]: github.com/matzehuels/fractaldraw/pkg/render#Drawing
// [render.Surface]: github.com/matzehuels/fractaldraw/pkg/render#Surface
// [render.Viewport]: github.com/matzehuels/fractaldraw/pkg/render#Viewport
// [render.FitViewport]: github.com/matzehuels/fractaldraw/pkg/render#FitViewport
package sink
